package repositories

import (
	"context"

	"github.com/google/uuid"

	"github.com/YouYou-1402/ai-meeting-transcriber/internal/domain/entities"
)

// MeetingRepository defines the interface for meeting data access
type MeetingRepository interface {
	// Create creates a new meeting
	Create(ctx context.Context, meeting *entities.Meeting) error

	// FindByID retrieves a meeting by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*entities.Meeting, error)

	// Update persists the full meeting row
	Update(ctx context.Context, meeting *entities.Meeting) error

	// UpdateFields applies a partial update
	UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error

	// UpdateStatus updates only the processing status
	UpdateStatus(ctx context.Context, id uuid.UUID, status entities.MeetingStatus) error

	// UpdateProgress updates the 0-100 progress value
	UpdateProgress(ctx context.Context, id uuid.UUID, progress int) error

	// Delete removes a meeting row
	Delete(ctx context.Context, id uuid.UUID) error

	// List retrieves meetings with filters and pagination
	List(ctx context.Context, filters MeetingFilters) ([]*entities.Meeting, int64, error)

	// Stats aggregates counts and sizes across all meetings
	Stats(ctx context.Context) (*MeetingStats, error)
}

// MeetingFilters represents filter options for listing meetings
type MeetingFilters struct {
	Status    *entities.MeetingStatus
	MediaType *entities.MediaType
	Search    string // Search in title, original filename
	Limit     int
	Offset    int
	SortBy    string // "created_at", "title", "file_size", "duration_seconds"
	SortOrder string // "asc", "desc"
}

// MeetingStats aggregates pipeline-wide numbers for the stats endpoint
type MeetingStats struct {
	TotalMeetings        int64            `json:"total_meetings"`
	ByStatus             map[string]int64 `json:"by_status"`
	TotalFileSize        int64            `json:"total_file_size"`
	TotalDurationSeconds float64          `json:"total_duration_seconds"`
}
