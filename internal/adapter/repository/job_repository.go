package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/YouYou-1402/ai-meeting-transcriber/internal/domain/entities"
	"github.com/YouYou-1402/ai-meeting-transcriber/internal/domain/repositories"
)

// jobRepository implements the JobRepository interface
type jobRepository struct {
	db *gorm.DB
}

// NewJobRepository creates a new processing job repository
func NewJobRepository(db *gorm.DB) repositories.JobRepository {
	return &jobRepository{db: db}
}

// Create enqueues a new job
func (r *jobRepository) Create(ctx context.Context, job *entities.ProcessingJob) error {
	if job == nil {
		return errors.New("job cannot be nil")
	}
	return r.db.WithContext(ctx).Create(job).Error
}

// FindByID retrieves a job by its ID
func (r *jobRepository) FindByID(ctx context.Context, id uuid.UUID) (*entities.ProcessingJob, error) {
	var job entities.ProcessingJob
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&job).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &job, nil
}

// FindClaimable retrieves up to limit jobs in pending or retrying status
func (r *jobRepository) FindClaimable(ctx context.Context, limit int) ([]*entities.ProcessingJob, error) {
	if limit <= 0 {
		limit = 10
	}
	var jobs []*entities.ProcessingJob
	if err := r.db.WithContext(ctx).
		Where("status IN ?", []entities.JobStatus{entities.JobStatusPending, entities.JobStatusRetrying}).
		Order("created_at ASC").
		Limit(limit).
		Find(&jobs).Error; err != nil {
		return nil, err
	}
	return jobs, nil
}

// Claim atomically moves a claimable job to running for the given worker.
// The status condition in the WHERE clause makes the claim a compare-and-swap:
// when two workers race, exactly one sees RowsAffected == 1.
func (r *jobRepository) Claim(ctx context.Context, jobID uuid.UUID, workerID int) (bool, error) {
	now := time.Now()
	result := r.db.WithContext(ctx).
		Model(&entities.ProcessingJob{}).
		Where("id = ? AND status IN ?", jobID, []entities.JobStatus{entities.JobStatusPending, entities.JobStatusRetrying}).
		Updates(map[string]interface{}{
			"status":     entities.JobStatusRunning,
			"worker_id":  workerID,
			"started_at": now,
			"updated_at": now,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

// Update persists the full job row
func (r *jobRepository) Update(ctx context.Context, job *entities.ProcessingJob) error {
	if job == nil {
		return errors.New("job cannot be nil")
	}
	return r.db.WithContext(ctx).Save(job).Error
}

// UpdateFields applies a partial update
func (r *jobRepository) UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error {
	if len(fields) == 0 {
		return nil
	}
	fields["updated_at"] = time.Now()
	return r.db.WithContext(ctx).
		Model(&entities.ProcessingJob{}).
		Where("id = ?", id).
		Updates(fields).
		Error
}

// IncrementRetry atomically bumps retry_count and queues the job again
func (r *jobRepository) IncrementRetry(ctx context.Context, id uuid.UUID, errMsg string) error {
	return r.db.WithContext(ctx).
		Model(&entities.ProcessingJob{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"retry_count": gorm.Expr("retry_count + 1"),
			"status":      entities.JobStatusRetrying,
			"last_error":  errMsg,
			"worker_id":   nil,
			"updated_at":  time.Now(),
		}).Error
}

// FindActiveByMeetingID retrieves the non-terminal job of a meeting, if any
func (r *jobRepository) FindActiveByMeetingID(ctx context.Context, meetingID uuid.UUID) (*entities.ProcessingJob, error) {
	var job entities.ProcessingJob
	if err := r.db.WithContext(ctx).
		Where("meeting_id = ? AND status IN ?", meetingID,
			[]entities.JobStatus{entities.JobStatusPending, entities.JobStatusRunning, entities.JobStatusRetrying}).
		Order("created_at DESC").
		First(&job).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &job, nil
}

// FindZombies retrieves running jobs whose last update is older than the
// threshold, meaning their worker died mid-run
func (r *jobRepository) FindZombies(ctx context.Context, olderThan time.Duration) ([]*entities.ProcessingJob, error) {
	cutoff := time.Now().Add(-olderThan)
	var jobs []*entities.ProcessingJob
	if err := r.db.WithContext(ctx).
		Where("status = ? AND updated_at < ?", entities.JobStatusRunning, cutoff).
		Order("updated_at ASC").
		Find(&jobs).Error; err != nil {
		return nil, err
	}
	return jobs, nil
}

// ListRecentFailures retrieves jobs that failed within the given window
func (r *jobRepository) ListRecentFailures(ctx context.Context, since time.Duration) ([]*entities.ProcessingJob, error) {
	cutoff := time.Now().Add(-since)
	var jobs []*entities.ProcessingJob
	if err := r.db.WithContext(ctx).
		Where("status = ? AND updated_at >= ?", entities.JobStatusFailed, cutoff).
		Order("updated_at DESC").
		Find(&jobs).Error; err != nil {
		return nil, err
	}
	return jobs, nil
}

// CancelActiveByMeetingID cancels any pending or retrying job of a meeting
func (r *jobRepository) CancelActiveByMeetingID(ctx context.Context, meetingID uuid.UUID) error {
	now := time.Now()
	return r.db.WithContext(ctx).
		Model(&entities.ProcessingJob{}).
		Where("meeting_id = ? AND status IN ?", meetingID,
			[]entities.JobStatus{entities.JobStatusPending, entities.JobStatusRetrying}).
		Updates(map[string]interface{}{
			"status":       entities.JobStatusCancelled,
			"completed_at": now,
			"updated_at":   now,
		}).Error
}
