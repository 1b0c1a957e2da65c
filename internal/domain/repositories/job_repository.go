package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/YouYou-1402/ai-meeting-transcriber/internal/domain/entities"
)

// JobRepository defines the interface for processing job data access
type JobRepository interface {
	// Create enqueues a new job
	Create(ctx context.Context, job *entities.ProcessingJob) error

	// FindByID retrieves a job by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*entities.ProcessingJob, error)

	// FindClaimable retrieves up to limit jobs in pending or retrying status,
	// oldest first
	FindClaimable(ctx context.Context, limit int) ([]*entities.ProcessingJob, error)

	// Claim atomically moves a claimable job to running for the given worker.
	// Returns false when another worker won the race; that is not an error.
	Claim(ctx context.Context, jobID uuid.UUID, workerID int) (bool, error)

	// Update persists the full job row
	Update(ctx context.Context, job *entities.ProcessingJob) error

	// UpdateFields applies a partial update
	UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error

	// IncrementRetry atomically bumps retry_count and queues the job again
	IncrementRetry(ctx context.Context, id uuid.UUID, errMsg string) error

	// FindActiveByMeetingID retrieves the non-terminal job of a meeting, if any
	FindActiveByMeetingID(ctx context.Context, meetingID uuid.UUID) (*entities.ProcessingJob, error)

	// FindZombies retrieves running jobs whose last update is older than the
	// threshold, meaning their worker died mid-run
	FindZombies(ctx context.Context, olderThan time.Duration) ([]*entities.ProcessingJob, error)

	// ListRecentFailures retrieves jobs that failed within the given window
	ListRecentFailures(ctx context.Context, since time.Duration) ([]*entities.ProcessingJob, error)

	// CancelActiveByMeetingID cancels any pending or retrying job of a meeting
	CancelActiveByMeetingID(ctx context.Context, meetingID uuid.UUID) error
}
