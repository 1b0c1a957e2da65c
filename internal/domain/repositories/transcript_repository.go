package repositories

import (
	"context"

	"github.com/google/uuid"

	"github.com/YouYou-1402/ai-meeting-transcriber/internal/domain/entities"
)

// TranscriptRepository defines the interface for transcript data access.
// Transcripts are immutable: there is intentionally no update operation.
// Reprocessing deletes the old row and creates a new one.
type TranscriptRepository interface {
	// Create stores a new transcript
	Create(ctx context.Context, transcript *entities.Transcript) error

	// FindByID retrieves a transcript by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*entities.Transcript, error)

	// FindByMeetingID retrieves the transcript belonging to a meeting
	FindByMeetingID(ctx context.Context, meetingID uuid.UUID) (*entities.Transcript, error)

	// DeleteByMeetingID removes the transcript of a meeting
	DeleteByMeetingID(ctx context.Context, meetingID uuid.UUID) error
}
