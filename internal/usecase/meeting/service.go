package meeting

import (
	"context"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/YouYou-1402/ai-meeting-transcriber/internal/domain/entities"
	"github.com/YouYou-1402/ai-meeting-transcriber/internal/domain/repositories"
)

// Service defines the meeting management use cases behind the HTTP API and
// the drop-folder watcher.
type Service interface {
	// Upload validates and stores an incoming recording, registers the
	// meeting and queues it for processing
	Upload(ctx context.Context, input UploadInput) (*entities.Meeting, error)

	// IngestLocalFile registers a file already on disk (drop-folder path)
	// exactly as an HTTP upload would, then removes the source file
	IngestLocalFile(ctx context.Context, path, source string) (*entities.Meeting, error)

	// List retrieves meetings with filters and pagination
	List(ctx context.Context, filters repositories.MeetingFilters) ([]*entities.Meeting, int64, error)

	// Get retrieves a meeting with presence flags for its derived records
	Get(ctx context.Context, id uuid.UUID) (*Detail, error)

	// Update edits meeting metadata and, when they exist, the minutes
	Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*entities.Meeting, error)

	// Delete removes the meeting, its derived rows and its stored files
	Delete(ctx context.Context, id uuid.UUID) error

	// Process (re)starts the pipeline for a meeting. Returns
	// ErrAlreadyProcessing while a run is active and ErrAlreadyCompleted
	// for a completed meeting unless force is set.
	Process(ctx context.Context, id uuid.UUID, force bool) (*entities.ProcessingJob, error)

	// Progress returns the current pipeline snapshot, cache-first
	Progress(ctx context.Context, id uuid.UUID) (*ProgressInfo, error)

	// GetTranscript returns the stored transcript of a meeting
	GetTranscript(ctx context.Context, id uuid.UUID) (*entities.Transcript, error)

	// GetMinutes returns the stored minutes of a meeting
	GetMinutes(ctx context.Context, id uuid.UUID) (*entities.MeetingMinutes, error)

	// GetDocument returns the latest exported document of a meeting
	GetDocument(ctx context.Context, id uuid.UUID) (*entities.ExportedDocument, error)

	// OpenDocument returns the latest exported document and a reader over
	// its content for attachment downloads. The caller closes the reader.
	OpenDocument(ctx context.Context, id uuid.UUID) (*entities.ExportedDocument, io.ReadCloser, error)

	// PresignDocument returns a direct remote URL for the latest document,
	// or "" when the storage backend cannot presign (local disk)
	PresignDocument(ctx context.Context, id uuid.UUID, expiry time.Duration) (string, error)

	// Stats aggregates pipeline-wide numbers, cache-first
	Stats(ctx context.Context) (*Stats, error)
}

// Enqueuer hands accepted meetings to the processing pipeline. Implemented
// by the pipeline service.
type Enqueuer interface {
	EnqueueMeeting(ctx context.Context, meetingID uuid.UUID) (*entities.ProcessingJob, error)
}

// UploadInput carries one incoming recording
type UploadInput struct {
	Filename string
	Size     int64
	Reader   io.Reader
	Title    string
	Language string
	Source   string // "http" or "watcher"
}

// UpdateInput carries the editable meeting and minutes fields. Nil pointers
// and nil slices mean "leave unchanged".
type UpdateInput struct {
	Title        *string
	Participants []string

	MinutesTitle *string
	Summary      *string
	ActionItems  []entities.ActionItem
}

// Detail is a meeting plus presence information for its derived records
type Detail struct {
	Meeting       *entities.Meeting
	HasTranscript bool
	HasMinutes    bool
	HasDocument   bool
	Document      *entities.ExportedDocument
	ActiveJob     *entities.ProcessingJob
}

// ProgressInfo is the pipeline snapshot served by the progress endpoint
type ProgressInfo struct {
	MeetingID uuid.UUID
	Status    string
	Stage     string
	Progress  int
	Error     string
	UpdatedAt time.Time
	FromCache bool
}

// Stats aggregates pipeline-wide numbers for the stats endpoint. The JSON
// tags also define the cached representation.
type Stats struct {
	TotalMeetings      int64            `json:"total_meetings"`
	CompletedMeetings  int64            `json:"completed_meetings"`
	ProcessingMeetings int64            `json:"processing_meetings"`
	FailedMeetings     int64            `json:"failed_meetings"`
	ByStatus           map[string]int64 `json:"by_status"`
	TotalDurationHours float64          `json:"total_duration_hours"`
	TotalFileSizeBytes int64            `json:"total_file_size_bytes"`
	SuccessRate        float64          `json:"success_rate"`
}
