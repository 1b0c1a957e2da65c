package entities

import (
	"time"

	"github.com/google/uuid"
)

// ActionItem is a task extracted from the meeting
type ActionItem struct {
	Description string `json:"description"`
	Owner       string `json:"owner,omitempty"`
	DueDate     string `json:"due_date,omitempty"` // as mentioned, e.g. "by Friday"
	Priority    string `json:"priority,omitempty"` // low, medium, high
}

// MeetingMinutes is the structured summary generated from one transcript
type MeetingMinutes struct {
	ID               uuid.UUID    `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	MeetingID        uuid.UUID    `json:"meeting_id" gorm:"type:uuid;not null;index"`
	TranscriptID     uuid.UUID    `json:"transcript_id" gorm:"type:uuid;not null;uniqueIndex"`
	Title            string       `json:"title" gorm:"type:varchar(500)"`
	Summary          string       `json:"summary" gorm:"type:text;not null"`
	KeyPoints        []string     `json:"key_points,omitempty" gorm:"type:jsonb;serializer:json"`
	Decisions        []string     `json:"decisions,omitempty" gorm:"type:jsonb;serializer:json"`
	ActionItems      []ActionItem `json:"action_items,omitempty" gorm:"type:jsonb;serializer:json"`
	Participants     []string     `json:"participants,omitempty" gorm:"type:jsonb;serializer:json"`
	FollowUps        []string     `json:"follow_ups,omitempty" gorm:"type:jsonb;serializer:json"`
	Language         string       `json:"language,omitempty" gorm:"type:varchar(20)"`
	ModelUsed        string       `json:"model_used,omitempty" gorm:"type:varchar(100)"`
	TokensUsed       int          `json:"tokens_used,omitempty"`
	ProcessingTimeMs int64        `json:"processing_time_ms,omitempty"`
	CreatedAt        time.Time    `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt        time.Time    `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName specifies the table name for GORM
func (MeetingMinutes) TableName() string {
	return "meeting_minutes"
}

// NewMeetingMinutes creates minutes for a transcript
func NewMeetingMinutes(meetingID, transcriptID uuid.UUID) *MeetingMinutes {
	return &MeetingMinutes{
		ID:           uuid.New(),
		MeetingID:    meetingID,
		TranscriptID: transcriptID,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
}

// ActionItemPriority constants
const (
	ActionItemPriorityLow    = "low"
	ActionItemPriorityMedium = "medium"
	ActionItemPriorityHigh   = "high"
)
