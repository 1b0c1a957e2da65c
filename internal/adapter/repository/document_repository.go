package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/YouYou-1402/ai-meeting-transcriber/internal/domain/entities"
	"github.com/YouYou-1402/ai-meeting-transcriber/internal/domain/repositories"
)

// documentRepository implements the DocumentRepository interface
type documentRepository struct {
	db *gorm.DB
}

// NewDocumentRepository creates a new document repository
func NewDocumentRepository(db *gorm.DB) repositories.DocumentRepository {
	return &documentRepository{db: db}
}

// Create records a newly rendered document
func (r *documentRepository) Create(ctx context.Context, document *entities.ExportedDocument) error {
	if document == nil {
		return errors.New("document cannot be nil")
	}
	return r.db.WithContext(ctx).Create(document).Error
}

// FindByID retrieves a document by its ID
func (r *documentRepository) FindByID(ctx context.Context, id uuid.UUID) (*entities.ExportedDocument, error) {
	var document entities.ExportedDocument
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&document).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &document, nil
}

// FindLatestByMeetingID retrieves the most recent document of a meeting
func (r *documentRepository) FindLatestByMeetingID(ctx context.Context, meetingID uuid.UUID) (*entities.ExportedDocument, error) {
	var document entities.ExportedDocument
	if err := r.db.WithContext(ctx).
		Where("meeting_id = ?", meetingID).
		Order("created_at DESC").
		First(&document).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &document, nil
}

// ListByMeetingID retrieves all documents rendered for a meeting
func (r *documentRepository) ListByMeetingID(ctx context.Context, meetingID uuid.UUID) ([]*entities.ExportedDocument, error) {
	var documents []*entities.ExportedDocument
	if err := r.db.WithContext(ctx).
		Where("meeting_id = ?", meetingID).
		Order("created_at DESC").
		Find(&documents).Error; err != nil {
		return nil, err
	}
	return documents, nil
}

// DeleteByMeetingID removes all document rows of a meeting
func (r *documentRepository) DeleteByMeetingID(ctx context.Context, meetingID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("meeting_id = ?", meetingID).
		Delete(&entities.ExportedDocument{}).
		Error
}
