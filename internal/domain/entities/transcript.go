package entities

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// TranscriptSegment represents a contiguous timestamped speech segment
type TranscriptSegment struct {
	Start   float64 `json:"start"`
	End     float64 `json:"end"`
	Text    string  `json:"text"`
	Speaker string  `json:"speaker,omitempty"`
}

// Transcript is the stored speech-to-text result for one meeting. Rows are
// never updated after insert; reprocessing deletes and recreates.
type Transcript struct {
	ID               uuid.UUID                                  `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	MeetingID        uuid.UUID                                  `json:"meeting_id" gorm:"type:uuid;not null;uniqueIndex"`
	Text             string                                     `json:"text" gorm:"type:text;not null"`
	Language         string                                     `json:"language,omitempty" gorm:"type:varchar(20)"`
	Segments         []TranscriptSegment                        `json:"segments,omitempty" gorm:"type:jsonb;serializer:json"`
	SpeakerCount     int                                        `json:"speaker_count,omitempty"`
	ConfidenceScore  float64                                    `json:"confidence_score,omitempty"`
	DurationSeconds  float64                                    `json:"duration_seconds,omitempty"`
	WordCount        int                                        `json:"word_count,omitempty"`
	ModelUsed        string                                     `json:"model_used,omitempty" gorm:"type:varchar(100)"`
	ProcessingTimeMs int64                                      `json:"processing_time_ms,omitempty"`
	RawResponse      datatypes.JSONType[map[string]interface{}] `json:"raw_response,omitempty" gorm:"type:jsonb;serializer:json"`
	CreatedAt        time.Time                                  `json:"created_at" gorm:"autoCreateTime"`
}

// TableName specifies the table name for GORM
func (Transcript) TableName() string {
	return "transcripts"
}

// NewTranscript creates a transcript for a meeting
func NewTranscript(meetingID uuid.UUID, text, language string, segments []TranscriptSegment) *Transcript {
	t := &Transcript{
		ID:        uuid.New(),
		MeetingID: meetingID,
		Text:      text,
		Language:  language,
		Segments:  segments,
		WordCount: len(strings.Fields(text)),
		CreatedAt: time.Now(),
	}
	if len(segments) > 0 {
		t.DurationSeconds = segments[len(segments)-1].End
		t.SpeakerCount = countSpeakers(segments)
	}
	return t
}

func countSpeakers(segments []TranscriptSegment) int {
	seen := make(map[string]struct{})
	for _, s := range segments {
		if s.Speaker != "" {
			seen[s.Speaker] = struct{}{}
		}
	}
	return len(seen)
}

// FormatTimestamp renders seconds as HH:MM:SS for transcript display
func FormatTimestamp(seconds float64) string {
	total := int(seconds)
	return fmt.Sprintf("%02d:%02d:%02d", total/3600, (total%3600)/60, total%60)
}
