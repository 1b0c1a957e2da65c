package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/YouYou-1402/ai-meeting-transcriber/internal/domain/entities"
	"github.com/YouYou-1402/ai-meeting-transcriber/internal/domain/repositories"
)

// meetingRepository implements the MeetingRepository interface
type meetingRepository struct {
	db *gorm.DB
}

// NewMeetingRepository creates a new meeting repository
func NewMeetingRepository(db *gorm.DB) repositories.MeetingRepository {
	return &meetingRepository{db: db}
}

// Create creates a new meeting
func (r *meetingRepository) Create(ctx context.Context, meeting *entities.Meeting) error {
	if meeting == nil {
		return errors.New("meeting cannot be nil")
	}
	return r.db.WithContext(ctx).Create(meeting).Error
}

// FindByID retrieves a meeting by its ID
func (r *meetingRepository) FindByID(ctx context.Context, id uuid.UUID) (*entities.Meeting, error) {
	var meeting entities.Meeting
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&meeting).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &meeting, nil
}

// Update persists the full meeting row
func (r *meetingRepository) Update(ctx context.Context, meeting *entities.Meeting) error {
	if meeting == nil {
		return errors.New("meeting cannot be nil")
	}
	return r.db.WithContext(ctx).Save(meeting).Error
}

// UpdateFields applies a partial update
func (r *meetingRepository) UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error {
	if len(fields) == 0 {
		return nil
	}
	fields["updated_at"] = time.Now()
	return r.db.WithContext(ctx).
		Model(&entities.Meeting{}).
		Where("id = ?", id).
		Updates(fields).
		Error
}

// UpdateStatus updates only the processing status
func (r *meetingRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status entities.MeetingStatus) error {
	return r.UpdateFields(ctx, id, map[string]interface{}{"status": status})
}

// UpdateProgress updates the 0-100 progress value. The guard keeps progress
// monotonic even when two writers race.
func (r *meetingRepository) UpdateProgress(ctx context.Context, id uuid.UUID, progress int) error {
	if progress < 0 {
		progress = 0
	}
	if progress > 100 {
		progress = 100
	}
	return r.db.WithContext(ctx).
		Model(&entities.Meeting{}).
		Where("id = ? AND progress < ?", id, progress).
		Updates(map[string]interface{}{
			"progress":   progress,
			"updated_at": time.Now(),
		}).
		Error
}

// Delete removes a meeting row
func (r *meetingRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&entities.Meeting{}, id).Error
}

// List retrieves meetings with filters and pagination
func (r *meetingRepository) List(ctx context.Context, filters repositories.MeetingFilters) ([]*entities.Meeting, int64, error) {
	var meetings []*entities.Meeting
	var total int64

	query := r.db.WithContext(ctx).Model(&entities.Meeting{})

	// Apply filters
	if filters.Status != nil {
		query = query.Where("status = ?", *filters.Status)
	}
	if filters.MediaType != nil {
		query = query.Where("media_type = ?", *filters.MediaType)
	}
	if filters.Search != "" {
		searchPattern := fmt.Sprintf("%%%s%%", filters.Search)
		query = query.Where("title ILIKE ? OR original_filename ILIKE ?", searchPattern, searchPattern)
	}

	// Count total
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	// Apply sorting
	sortBy := "created_at"
	switch filters.SortBy {
	case "title", "file_size", "duration_seconds", "created_at":
		sortBy = filters.SortBy
	}
	sortOrder := "DESC"
	if filters.SortOrder == "asc" {
		sortOrder = "ASC"
	}
	query = query.Order(fmt.Sprintf("%s %s", sortBy, sortOrder))

	// Apply pagination
	if filters.Limit > 0 {
		query = query.Limit(filters.Limit)
	}
	if filters.Offset > 0 {
		query = query.Offset(filters.Offset)
	}

	err := query.Find(&meetings).Error
	return meetings, total, err
}

// Stats aggregates counts and sizes across all meetings
func (r *meetingRepository) Stats(ctx context.Context) (*repositories.MeetingStats, error) {
	stats := &repositories.MeetingStats{
		ByStatus: make(map[string]int64),
	}

	if err := r.db.WithContext(ctx).
		Model(&entities.Meeting{}).
		Count(&stats.TotalMeetings).Error; err != nil {
		return nil, err
	}

	var rows []struct {
		Status string
		Count  int64
	}
	if err := r.db.WithContext(ctx).
		Model(&entities.Meeting{}).
		Select("status, COUNT(*) as count").
		Group("status").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		stats.ByStatus[row.Status] = row.Count
	}

	var totals struct {
		TotalSize     int64
		TotalDuration float64
	}
	if err := r.db.WithContext(ctx).
		Model(&entities.Meeting{}).
		Select("COALESCE(SUM(file_size), 0) as total_size, COALESCE(SUM(duration_seconds), 0) as total_duration").
		Scan(&totals).Error; err != nil {
		return nil, err
	}
	stats.TotalFileSize = totals.TotalSize
	stats.TotalDurationSeconds = totals.TotalDuration

	return stats, nil
}
