package meeting

import (
	"time"

	"github.com/YouYou-1402/ai-meeting-transcriber/internal/domain/entities"
)

// MeetingResponse represents a meeting in responses
type MeetingResponse struct {
	ID               string     `json:"id"`
	Title            string     `json:"title"`
	OriginalFilename string     `json:"original_filename"`
	FileSize         int64      `json:"file_size"`
	FileHash         string     `json:"file_hash,omitempty"`
	MediaType        string     `json:"media_type"`
	FileFormat       string     `json:"file_format"`
	DurationSeconds  float64    `json:"duration_seconds,omitempty"`
	Language         string     `json:"language,omitempty"`
	Status           string     `json:"status"`
	Progress         int        `json:"progress"`
	ErrorMessage     *string    `json:"error_message,omitempty"`
	Participants     []string   `json:"participants,omitempty"`
	ProcessedAt      *time.Time `json:"processed_at,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// ToMeetingResponse converts a meeting entity to its response shape
func ToMeetingResponse(m *entities.Meeting) *MeetingResponse {
	if m == nil {
		return nil
	}
	return &MeetingResponse{
		ID:               m.ID.String(),
		Title:            m.Title,
		OriginalFilename: m.OriginalFilename,
		FileSize:         m.FileSize,
		FileHash:         m.FileHash,
		MediaType:        string(m.MediaType),
		FileFormat:       m.FileFormat,
		DurationSeconds:  m.DurationSeconds,
		Language:         m.Language,
		Status:           string(m.Status),
		Progress:         m.Progress,
		ErrorMessage:     m.ErrorMessage,
		Participants:     m.Participants,
		ProcessedAt:      m.ProcessedAt,
		CreatedAt:        m.CreatedAt,
		UpdatedAt:        m.UpdatedAt,
	}
}

// MeetingDetailResponse is a meeting plus presence flags for its derived
// records and the active pipeline job, if any
type MeetingDetailResponse struct {
	*MeetingResponse
	HasTranscript bool              `json:"has_transcript"`
	HasMinutes    bool              `json:"has_minutes"`
	HasDocument   bool              `json:"has_document"`
	Document      *DocumentResponse `json:"document,omitempty"`
	ActiveJob     *JobResponse      `json:"active_job,omitempty"`
}

// JobResponse represents a processing job in responses
type JobResponse struct {
	ID          string     `json:"id"`
	MeetingID   string     `json:"meeting_id"`
	Status      string     `json:"status"`
	Stage       string     `json:"stage,omitempty"`
	RetryCount  int        `json:"retry_count"`
	MaxRetries  int        `json:"max_retries"`
	LastError   *string    `json:"last_error,omitempty"`
	StartedAt   *time.Time `json:"started_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// ToJobResponse converts a processing job entity to its response shape
func ToJobResponse(j *entities.ProcessingJob) *JobResponse {
	if j == nil {
		return nil
	}
	return &JobResponse{
		ID:          j.ID.String(),
		MeetingID:   j.MeetingID.String(),
		Status:      string(j.Status),
		Stage:       j.Stage,
		RetryCount:  j.RetryCount,
		MaxRetries:  j.MaxRetries,
		LastError:   j.LastError,
		StartedAt:   j.StartedAt,
		CompletedAt: j.CompletedAt,
		CreatedAt:   j.CreatedAt,
	}
}

// MeetingListResponse represents a paginated list of meetings
type MeetingListResponse struct {
	Meetings   []*MeetingResponse `json:"meetings"`
	Total      int64              `json:"total"`
	Page       int                `json:"page"`
	PageSize   int                `json:"page_size"`
	TotalPages int                `json:"total_pages"`
}

// ProgressResponse is the pipeline snapshot served by the progress endpoint
type ProgressResponse struct {
	MeetingID string    `json:"meeting_id"`
	Status    string    `json:"status"`
	Stage     string    `json:"stage,omitempty"`
	Progress  int       `json:"progress"`
	Error     string    `json:"error,omitempty"`
	UpdatedAt time.Time `json:"updated_at"`
	Cached    bool      `json:"cached"`
}

// SegmentResponse represents one timestamped transcript segment
type SegmentResponse struct {
	Start   float64 `json:"start"`
	End     float64 `json:"end"`
	Text    string  `json:"text"`
	Speaker string  `json:"speaker,omitempty"`
}

// TranscriptResponse represents a transcript in responses
type TranscriptResponse struct {
	ID              string            `json:"id"`
	MeetingID       string            `json:"meeting_id"`
	Text            string            `json:"text"`
	Language        string            `json:"language,omitempty"`
	Segments        []SegmentResponse `json:"segments,omitempty"`
	SpeakerCount    int               `json:"speaker_count,omitempty"`
	ConfidenceScore float64           `json:"confidence_score,omitempty"`
	DurationSeconds float64           `json:"duration_seconds,omitempty"`
	WordCount       int               `json:"word_count"`
	ModelUsed       string            `json:"model_used,omitempty"`
	CreatedAt       time.Time         `json:"created_at"`
}

// ToTranscriptResponse converts a transcript entity to its response shape
func ToTranscriptResponse(t *entities.Transcript) *TranscriptResponse {
	if t == nil {
		return nil
	}
	segments := make([]SegmentResponse, 0, len(t.Segments))
	for _, s := range t.Segments {
		segments = append(segments, SegmentResponse{
			Start:   s.Start,
			End:     s.End,
			Text:    s.Text,
			Speaker: s.Speaker,
		})
	}
	return &TranscriptResponse{
		ID:              t.ID.String(),
		MeetingID:       t.MeetingID.String(),
		Text:            t.Text,
		Language:        t.Language,
		Segments:        segments,
		SpeakerCount:    t.SpeakerCount,
		ConfidenceScore: t.ConfidenceScore,
		DurationSeconds: t.DurationSeconds,
		WordCount:       t.WordCount,
		ModelUsed:       t.ModelUsed,
		CreatedAt:       t.CreatedAt,
	}
}

// ActionItemResponse represents one action item in responses
type ActionItemResponse struct {
	Description string `json:"description"`
	Owner       string `json:"owner,omitempty"`
	DueDate     string `json:"due_date,omitempty"`
	Priority    string `json:"priority,omitempty"`
}

// MinutesResponse represents meeting minutes in responses
type MinutesResponse struct {
	ID           string               `json:"id"`
	MeetingID    string               `json:"meeting_id"`
	TranscriptID string               `json:"transcript_id"`
	Title        string               `json:"title,omitempty"`
	Summary      string               `json:"summary"`
	KeyPoints    []string             `json:"key_points,omitempty"`
	Decisions    []string             `json:"decisions,omitempty"`
	ActionItems  []ActionItemResponse `json:"action_items,omitempty"`
	Participants []string             `json:"participants,omitempty"`
	FollowUps    []string             `json:"follow_ups,omitempty"`
	ModelUsed    string               `json:"model_used,omitempty"`
	TokensUsed   int                  `json:"tokens_used,omitempty"`
	CreatedAt    time.Time            `json:"created_at"`
	UpdatedAt    time.Time            `json:"updated_at"`
}

// ToMinutesResponse converts a minutes entity to its response shape
func ToMinutesResponse(m *entities.MeetingMinutes) *MinutesResponse {
	if m == nil {
		return nil
	}
	items := make([]ActionItemResponse, 0, len(m.ActionItems))
	for _, item := range m.ActionItems {
		items = append(items, ActionItemResponse{
			Description: item.Description,
			Owner:       item.Owner,
			DueDate:     item.DueDate,
			Priority:    item.Priority,
		})
	}
	return &MinutesResponse{
		ID:           m.ID.String(),
		MeetingID:    m.MeetingID.String(),
		TranscriptID: m.TranscriptID.String(),
		Title:        m.Title,
		Summary:      m.Summary,
		KeyPoints:    m.KeyPoints,
		Decisions:    m.Decisions,
		ActionItems:  items,
		Participants: m.Participants,
		FollowUps:    m.FollowUps,
		ModelUsed:    m.ModelUsed,
		TokensUsed:   m.TokensUsed,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

// DocumentResponse represents an exported document in responses
type DocumentResponse struct {
	ID        string    `json:"id"`
	MeetingID string    `json:"meeting_id"`
	Filename  string    `json:"filename"`
	Format    string    `json:"format"`
	FileSize  int64     `json:"file_size,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// ToDocumentResponse converts a document entity to its response shape
func ToDocumentResponse(d *entities.ExportedDocument) *DocumentResponse {
	if d == nil {
		return nil
	}
	return &DocumentResponse{
		ID:        d.ID.String(),
		MeetingID: d.MeetingID.String(),
		Filename:  d.Filename,
		Format:    string(d.Format),
		FileSize:  d.FileSize,
		CreatedAt: d.CreatedAt,
	}
}
