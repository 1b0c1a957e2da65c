package ai

import (
	"context"
	"fmt"
)

// TranscriptionSegment is a single timestamped span of recognized speech.
// Start and End are seconds from the beginning of the audio.
type TranscriptionSegment struct {
	ID      int     `json:"id"`
	Start   float64 `json:"start"`
	End     float64 `json:"end"`
	Text    string  `json:"text"`
	Speaker string  `json:"speaker,omitempty"`
}

// TranscriptionResult is the full output of one transcription run. Raw
// holds the provider response as received, before any normalization.
type TranscriptionResult struct {
	Segments   []TranscriptionSegment `json:"segments"`
	Text       string                 `json:"text"`
	Language   string                 `json:"language"`
	Duration   float64                `json:"duration"`
	Confidence float64                `json:"confidence"`
	Raw        map[string]interface{} `json:"-"`
}

// TranscribeOptions carries per-request transcription parameters.
type TranscribeOptions struct {
	Model         string
	Language      string
	Temperature   float64
	Prompt        string
	SpeakerLabels bool
}

// Transcriber converts an audio file into timestamped text segments.
type Transcriber interface {
	Transcribe(ctx context.Context, audioPath string, options *TranscribeOptions) (*TranscriptionResult, error)
	HealthCheck(ctx context.Context) error
	Name() string
}

// speakerGapSeconds is the silence gap that signals a probable speaker
// change when the backend returns no speaker labels.
const speakerGapSeconds = 2.0

// AssignSpeakers fills empty Speaker fields using a silence-gap heuristic:
// a pause longer than speakerGapSeconds between consecutive segments rotates
// to the next speaker label, wrapping at maxSpeakers. Segments that already
// carry a label are left untouched.
func AssignSpeakers(segments []TranscriptionSegment, maxSpeakers int) {
	if len(segments) == 0 {
		return
	}
	if maxSpeakers < 1 {
		maxSpeakers = 2
	}

	current := 1
	for i := range segments {
		if i > 0 && segments[i].Start-segments[i-1].End > speakerGapSeconds {
			current++
			if current > maxSpeakers {
				current = 1
			}
		}
		if segments[i].Speaker == "" {
			segments[i].Speaker = speakerLabel(current)
		}
	}
}

func speakerLabel(n int) string {
	return fmt.Sprintf("Speaker %d", n)
}
