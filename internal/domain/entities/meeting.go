package entities

import (
	"time"

	"github.com/google/uuid"
)

// MeetingStatus represents where a meeting sits in the processing pipeline
type MeetingStatus string

const (
	MeetingStatusPending      MeetingStatus = "pending"
	MeetingStatusTranscribing MeetingStatus = "transcribing"
	MeetingStatusSummarizing  MeetingStatus = "summarizing"
	MeetingStatusExporting    MeetingStatus = "exporting"
	MeetingStatusCompleted    MeetingStatus = "completed"
	MeetingStatusFailed       MeetingStatus = "failed"
)

// statusRank orders the pipeline stages. Forward transitions move exactly one
// rank at a time; failed is reachable from any non-terminal status.
var statusRank = map[MeetingStatus]int{
	MeetingStatusPending:      0,
	MeetingStatusTranscribing: 1,
	MeetingStatusSummarizing:  2,
	MeetingStatusExporting:    3,
	MeetingStatusCompleted:    4,
}

// MediaType classifies the uploaded file
type MediaType string

const (
	MediaTypeAudio MediaType = "audio"
	MediaTypeVideo MediaType = "video"
)

// Meeting represents an uploaded meeting recording and its processing state
type Meeting struct {
	ID               uuid.UUID     `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Title            string        `json:"title" gorm:"type:varchar(500);not null"`
	OriginalFilename string        `json:"original_filename" gorm:"type:varchar(500);not null"`
	StoredFilename   string        `json:"stored_filename" gorm:"type:varchar(500);not null"`
	FileKey          string        `json:"file_key" gorm:"type:text;not null"`
	AudioKey         *string       `json:"audio_key,omitempty" gorm:"type:text"`
	FileSize         int64         `json:"file_size" gorm:"not null"`
	FileHash         string        `json:"file_hash,omitempty" gorm:"type:varchar(64)"`
	MediaType        MediaType     `json:"media_type" gorm:"type:varchar(10);not null"`
	FileFormat       string        `json:"file_format" gorm:"type:varchar(20);not null"`
	DurationSeconds  float64       `json:"duration_seconds,omitempty"`
	Language         string        `json:"language,omitempty" gorm:"type:varchar(20)"`
	Status           MeetingStatus `json:"status" gorm:"type:varchar(20);not null;default:'pending';index"`
	Progress         int           `json:"progress" gorm:"not null;default:0"`
	ErrorMessage     *string       `json:"error_message,omitempty" gorm:"type:text"`
	Participants     []string      `json:"participants,omitempty" gorm:"type:jsonb;serializer:json"`
	ProcessedAt      *time.Time    `json:"processed_at,omitempty"`
	CreatedAt        time.Time     `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt        time.Time     `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName specifies the table name for GORM
func (Meeting) TableName() string {
	return "meetings"
}

// NewMeeting creates a new meeting in pending status
func NewMeeting(title, originalFilename, storedFilename, fileKey string, fileSize int64, mediaType MediaType, fileFormat string) *Meeting {
	return &Meeting{
		ID:               uuid.New(),
		Title:            title,
		OriginalFilename: originalFilename,
		StoredFilename:   storedFilename,
		FileKey:          fileKey,
		FileSize:         fileSize,
		MediaType:        mediaType,
		FileFormat:       fileFormat,
		Status:           MeetingStatusPending,
		Progress:         0,
		CreatedAt:        time.Now(),
		UpdatedAt:        time.Now(),
	}
}

// IsTerminal reports whether the meeting reached a final status
func (m *Meeting) IsTerminal() bool {
	return m.Status == MeetingStatusCompleted || m.Status == MeetingStatusFailed
}

// IsProcessing reports whether a pipeline stage is currently running
func (m *Meeting) IsProcessing() bool {
	switch m.Status {
	case MeetingStatusTranscribing, MeetingStatusSummarizing, MeetingStatusExporting:
		return true
	}
	return false
}

// CanTransitionTo reports whether moving to next is a legal transition.
// Forward moves advance exactly one stage; failed is allowed from any
// non-terminal status; terminal statuses admit no transition.
func (m *Meeting) CanTransitionTo(next MeetingStatus) bool {
	if m.IsTerminal() {
		return false
	}
	if next == MeetingStatusFailed {
		return true
	}
	currentRank, ok := statusRank[m.Status]
	if !ok {
		return false
	}
	nextRank, ok := statusRank[next]
	if !ok {
		return false
	}
	return nextRank == currentRank+1
}

func (m *Meeting) transition(next MeetingStatus) error {
	if !m.CanTransitionTo(next) {
		return ErrInvalidStatusTransition
	}
	m.Status = next
	m.UpdatedAt = time.Now()
	return nil
}

// MarkAsTranscribing moves the meeting into the transcription stage
func (m *Meeting) MarkAsTranscribing() error {
	return m.transition(MeetingStatusTranscribing)
}

// MarkAsSummarizing moves the meeting into the summarization stage
func (m *Meeting) MarkAsSummarizing() error {
	return m.transition(MeetingStatusSummarizing)
}

// MarkAsExporting moves the meeting into the document export stage
func (m *Meeting) MarkAsExporting() error {
	return m.transition(MeetingStatusExporting)
}

// MarkAsCompleted marks processing as finished
func (m *Meeting) MarkAsCompleted() error {
	if err := m.transition(MeetingStatusCompleted); err != nil {
		return err
	}
	now := time.Now()
	m.ProcessedAt = &now
	m.Progress = 100
	m.ErrorMessage = nil
	return nil
}

// MarkAsFailed records the failure reason and stops the pipeline
func (m *Meeting) MarkAsFailed(errorMsg string) error {
	if err := m.transition(MeetingStatusFailed); err != nil {
		return err
	}
	m.ErrorMessage = &errorMsg
	return nil
}

// ResetForReprocess returns a failed or completed meeting to pending so the
// pipeline can run again. Derived records must be removed by the caller.
func (m *Meeting) ResetForReprocess() error {
	if m.IsProcessing() {
		return ErrMeetingNotReprocessable
	}
	m.Status = MeetingStatusPending
	m.Progress = 0
	m.ErrorMessage = nil
	m.ProcessedAt = nil
	m.UpdatedAt = time.Now()
	return nil
}

// SetProgress clamps p into [0,100] and never moves backwards within a run
func (m *Meeting) SetProgress(p int) {
	if p < 0 {
		p = 0
	}
	if p > 100 {
		p = 100
	}
	if p > m.Progress {
		m.Progress = p
		m.UpdatedAt = time.Now()
	}
}
