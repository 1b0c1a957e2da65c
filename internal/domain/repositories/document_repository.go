package repositories

import (
	"context"

	"github.com/google/uuid"

	"github.com/YouYou-1402/ai-meeting-transcriber/internal/domain/entities"
)

// DocumentRepository defines the interface for exported document data access
type DocumentRepository interface {
	// Create records a newly rendered document
	Create(ctx context.Context, document *entities.ExportedDocument) error

	// FindByID retrieves a document by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*entities.ExportedDocument, error)

	// FindLatestByMeetingID retrieves the most recent document of a meeting
	FindLatestByMeetingID(ctx context.Context, meetingID uuid.UUID) (*entities.ExportedDocument, error)

	// ListByMeetingID retrieves all documents rendered for a meeting
	ListByMeetingID(ctx context.Context, meetingID uuid.UUID) ([]*entities.ExportedDocument, error)

	// DeleteByMeetingID removes all document rows of a meeting
	DeleteByMeetingID(ctx context.Context, meetingID uuid.UUID) error
}
