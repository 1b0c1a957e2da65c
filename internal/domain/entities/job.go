package entities

import (
	"time"

	"github.com/google/uuid"
)

// JobStatus represents the status of a processing job
type JobStatus string

const (
	JobStatusPending   JobStatus = "pending"   // Waiting for a worker
	JobStatusRunning   JobStatus = "running"   // Claimed by a worker
	JobStatusRetrying  JobStatus = "retrying"  // Failed, waiting for the next attempt
	JobStatusCompleted JobStatus = "completed" // All stages done
	JobStatusFailed    JobStatus = "failed"    // Exhausted retries or non-retryable error
	JobStatusCancelled JobStatus = "cancelled" // Cancelled before completion
)

// Pipeline stage names recorded on the job while it runs
const (
	StageExtract    = "extract"
	StageTranscribe = "transcribe"
	StageSummarize  = "summarize"
	StageExport     = "export"
)

// ProcessingJob is the orchestrator's unit of work: one row per requested
// pipeline run of a meeting. Workers claim pending rows atomically.
type ProcessingJob struct {
	ID         uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	MeetingID  uuid.UUID `json:"meeting_id" gorm:"type:uuid;not null;index"`
	Status     JobStatus `json:"status" gorm:"type:varchar(20);not null;index;default:'pending'"`
	Stage      string    `json:"stage,omitempty" gorm:"type:varchar(50)"`
	WorkerID   *int      `json:"worker_id,omitempty"`
	RetryCount int       `json:"retry_count" gorm:"type:integer;default:0"`
	MaxRetries int       `json:"max_retries" gorm:"type:integer;default:3"`
	LastError  *string   `json:"last_error,omitempty" gorm:"type:text"`

	StartedAt   *time.Time `json:"started_at,omitempty" gorm:"type:timestamp"`
	CompletedAt *time.Time `json:"completed_at,omitempty" gorm:"type:timestamp"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName specifies the table name for GORM
func (ProcessingJob) TableName() string {
	return "processing_jobs"
}

// NewProcessingJob creates a pending job for a meeting
func NewProcessingJob(meetingID uuid.UUID, maxRetries int) *ProcessingJob {
	if maxRetries <= 0 {
		maxRetries = 3
	}
	return &ProcessingJob{
		ID:         uuid.New(),
		MeetingID:  meetingID,
		Status:     JobStatusPending,
		RetryCount: 0,
		MaxRetries: maxRetries,
		CreatedAt:  time.Now(),
		UpdatedAt:  time.Now(),
	}
}

// IsTerminal reports whether the job reached a final status
func (j *ProcessingJob) IsTerminal() bool {
	switch j.Status {
	case JobStatusCompleted, JobStatusFailed, JobStatusCancelled:
		return true
	}
	return false
}

// IsRetryable checks if the job has attempts left
func (j *ProcessingJob) IsRetryable() bool {
	return j.RetryCount < j.MaxRetries
}

// CanBeClaimed checks if a worker may pick the job up
func (j *ProcessingJob) CanBeClaimed() bool {
	return j.Status == JobStatusPending || j.Status == JobStatusRetrying
}

// MarkAsRunning records the claiming worker
func (j *ProcessingJob) MarkAsRunning(workerID int) {
	j.Status = JobStatusRunning
	j.WorkerID = &workerID
	now := time.Now()
	j.StartedAt = &now
	j.UpdatedAt = now
}

// SetStage records the pipeline stage currently executing
func (j *ProcessingJob) SetStage(stage string) {
	j.Stage = stage
	j.UpdatedAt = time.Now()
}

// MarkAsCompleted marks the job as finished successfully
func (j *ProcessingJob) MarkAsCompleted() {
	j.Status = JobStatusCompleted
	now := time.Now()
	j.CompletedAt = &now
	j.UpdatedAt = now
}

// MarkAsFailed marks the job as permanently failed
func (j *ProcessingJob) MarkAsFailed(errMsg string) {
	j.Status = JobStatusFailed
	j.LastError = &errMsg
	now := time.Now()
	j.CompletedAt = &now
	j.UpdatedAt = now
}

// IncrementRetry counts a failed attempt and queues the job again
func (j *ProcessingJob) IncrementRetry(errMsg string) {
	j.RetryCount++
	j.Status = JobStatusRetrying
	j.LastError = &errMsg
	j.WorkerID = nil
	j.UpdatedAt = time.Now()
}

// MarkAsCancelled marks the job as cancelled
func (j *ProcessingJob) MarkAsCancelled() {
	j.Status = JobStatusCancelled
	now := time.Now()
	j.CompletedAt = &now
	j.UpdatedAt = now
}
