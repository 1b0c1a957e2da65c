package repositories

import (
	"context"

	"github.com/google/uuid"

	"github.com/YouYou-1402/ai-meeting-transcriber/internal/domain/entities"
)

// MinutesRepository defines the interface for meeting minutes data access
type MinutesRepository interface {
	// Create stores new meeting minutes
	Create(ctx context.Context, minutes *entities.MeetingMinutes) error

	// FindByID retrieves minutes by their ID
	FindByID(ctx context.Context, id uuid.UUID) (*entities.MeetingMinutes, error)

	// FindByMeetingID retrieves the minutes belonging to a meeting
	FindByMeetingID(ctx context.Context, meetingID uuid.UUID) (*entities.MeetingMinutes, error)

	// FindByTranscriptID retrieves the minutes derived from a transcript
	FindByTranscriptID(ctx context.Context, transcriptID uuid.UUID) (*entities.MeetingMinutes, error)

	// Update persists changes to existing minutes
	Update(ctx context.Context, minutes *entities.MeetingMinutes) error

	// DeleteByMeetingID removes the minutes of a meeting
	DeleteByMeetingID(ctx context.Context, meetingID uuid.UUID) error
}
