package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/YouYou-1402/ai-meeting-transcriber/internal/domain/entities"
	"github.com/YouYou-1402/ai-meeting-transcriber/internal/domain/repositories"
)

// minutesRepository implements the MinutesRepository interface
type minutesRepository struct {
	db *gorm.DB
}

// NewMinutesRepository creates a new minutes repository
func NewMinutesRepository(db *gorm.DB) repositories.MinutesRepository {
	return &minutesRepository{db: db}
}

// Create stores new meeting minutes
func (r *minutesRepository) Create(ctx context.Context, minutes *entities.MeetingMinutes) error {
	if minutes == nil {
		return errors.New("minutes cannot be nil")
	}
	return r.db.WithContext(ctx).Create(minutes).Error
}

// FindByID retrieves minutes by their ID
func (r *minutesRepository) FindByID(ctx context.Context, id uuid.UUID) (*entities.MeetingMinutes, error) {
	var minutes entities.MeetingMinutes
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&minutes).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &minutes, nil
}

// FindByMeetingID retrieves the minutes belonging to a meeting
func (r *minutesRepository) FindByMeetingID(ctx context.Context, meetingID uuid.UUID) (*entities.MeetingMinutes, error) {
	var minutes entities.MeetingMinutes
	if err := r.db.WithContext(ctx).Where("meeting_id = ?", meetingID).First(&minutes).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &minutes, nil
}

// FindByTranscriptID retrieves the minutes derived from a transcript
func (r *minutesRepository) FindByTranscriptID(ctx context.Context, transcriptID uuid.UUID) (*entities.MeetingMinutes, error) {
	var minutes entities.MeetingMinutes
	if err := r.db.WithContext(ctx).Where("transcript_id = ?", transcriptID).First(&minutes).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &minutes, nil
}

// Update persists changes to existing minutes
func (r *minutesRepository) Update(ctx context.Context, minutes *entities.MeetingMinutes) error {
	if minutes == nil {
		return errors.New("minutes cannot be nil")
	}
	return r.db.WithContext(ctx).Save(minutes).Error
}

// DeleteByMeetingID removes the minutes of a meeting
func (r *minutesRepository) DeleteByMeetingID(ctx context.Context, meetingID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("meeting_id = ?", meetingID).
		Delete(&entities.MeetingMinutes{}).
		Error
}
