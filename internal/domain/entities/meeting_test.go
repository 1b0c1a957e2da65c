package entities

import (
	"testing"

	"github.com/google/uuid"
)

func TestMeetingStatusTransitions(t *testing.T) {
	tests := []struct {
		name    string
		from    MeetingStatus
		to      MeetingStatus
		allowed bool
	}{
		{"pending to transcribing", MeetingStatusPending, MeetingStatusTranscribing, true},
		{"transcribing to summarizing", MeetingStatusTranscribing, MeetingStatusSummarizing, true},
		{"summarizing to exporting", MeetingStatusSummarizing, MeetingStatusExporting, true},
		{"exporting to completed", MeetingStatusExporting, MeetingStatusCompleted, true},
		{"pending to failed", MeetingStatusPending, MeetingStatusFailed, true},
		{"transcribing to failed", MeetingStatusTranscribing, MeetingStatusFailed, true},
		{"summarizing to failed", MeetingStatusSummarizing, MeetingStatusFailed, true},
		{"exporting to failed", MeetingStatusExporting, MeetingStatusFailed, true},
		{"no stage skipping", MeetingStatusPending, MeetingStatusSummarizing, false},
		{"no jump to completed", MeetingStatusPending, MeetingStatusCompleted, false},
		{"no backwards move", MeetingStatusSummarizing, MeetingStatusTranscribing, false},
		{"completed is terminal", MeetingStatusCompleted, MeetingStatusTranscribing, false},
		{"completed cannot fail", MeetingStatusCompleted, MeetingStatusFailed, false},
		{"failed is terminal", MeetingStatusFailed, MeetingStatusTranscribing, false},
		{"failed cannot fail again", MeetingStatusFailed, MeetingStatusFailed, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &Meeting{Status: tt.from}
			if got := m.CanTransitionTo(tt.to); got != tt.allowed {
				t.Errorf("CanTransitionTo(%s -> %s) = %v, want %v", tt.from, tt.to, got, tt.allowed)
			}
		})
	}
}

func TestMeetingMarkAsFailed(t *testing.T) {
	m := NewMeeting("standup", "standup.mp4", "standup.mp4", "uploads/standup.mp4", 1024, MediaTypeVideo, "mp4")

	if err := m.MarkAsFailed("ffmpeg exited with code 1"); err != nil {
		t.Fatalf("MarkAsFailed from pending: %v", err)
	}
	if m.Status != MeetingStatusFailed {
		t.Errorf("expected failed status, got %s", m.Status)
	}
	if m.ErrorMessage == nil || *m.ErrorMessage != "ffmpeg exited with code 1" {
		t.Errorf("error message not recorded: %v", m.ErrorMessage)
	}

	if err := m.MarkAsFailed("again"); err == nil {
		t.Error("expected error when failing an already failed meeting")
	}
}

func TestMeetingMarkAsCompleted(t *testing.T) {
	m := NewMeeting("standup", "standup.mp4", "standup.mp4", "uploads/standup.mp4", 1024, MediaTypeVideo, "mp4")

	if err := m.MarkAsCompleted(); err == nil {
		t.Fatal("expected error completing a pending meeting")
	}

	for _, step := range []func() error{m.MarkAsTranscribing, m.MarkAsSummarizing, m.MarkAsExporting, m.MarkAsCompleted} {
		if err := step(); err != nil {
			t.Fatalf("pipeline step failed: %v", err)
		}
	}

	if m.Status != MeetingStatusCompleted {
		t.Errorf("expected completed, got %s", m.Status)
	}
	if m.Progress != 100 {
		t.Errorf("expected progress 100, got %d", m.Progress)
	}
	if m.ProcessedAt == nil {
		t.Error("expected processed_at to be set")
	}
}

func TestMeetingResetForReprocess(t *testing.T) {
	m := NewMeeting("standup", "standup.mp4", "standup.mp4", "uploads/standup.mp4", 1024, MediaTypeVideo, "mp4")
	if err := m.MarkAsFailed("boom"); err != nil {
		t.Fatalf("MarkAsFailed: %v", err)
	}

	if err := m.ResetForReprocess(); err != nil {
		t.Fatalf("ResetForReprocess: %v", err)
	}
	if m.Status != MeetingStatusPending {
		t.Errorf("expected pending after reset, got %s", m.Status)
	}
	if m.Progress != 0 {
		t.Errorf("expected progress 0 after reset, got %d", m.Progress)
	}
	if m.ErrorMessage != nil {
		t.Errorf("expected error cleared, got %v", *m.ErrorMessage)
	}

	if err := m.MarkAsTranscribing(); err != nil {
		t.Fatalf("MarkAsTranscribing after reset: %v", err)
	}
	if err := m.ResetForReprocess(); err == nil {
		t.Error("expected error resetting a meeting mid-pipeline")
	}
}

func TestMeetingSetProgress(t *testing.T) {
	m := NewMeeting("standup", "standup.mp3", "standup.mp3", "uploads/standup.mp3", 1024, MediaTypeAudio, "mp3")

	m.SetProgress(50)
	if m.Progress != 50 {
		t.Errorf("expected 50, got %d", m.Progress)
	}

	// Progress never moves backwards within a run
	m.SetProgress(20)
	if m.Progress != 50 {
		t.Errorf("expected 50 after backwards write, got %d", m.Progress)
	}

	m.SetProgress(150)
	if m.Progress != 100 {
		t.Errorf("expected clamp to 100, got %d", m.Progress)
	}
}

func TestNewTranscriptDerivedFields(t *testing.T) {
	segments := []TranscriptSegment{
		{Start: 0, End: 4.5, Text: "Hello team", Speaker: "Speaker 1"},
		{Start: 5, End: 9, Text: "Hi there", Speaker: "Speaker 2"},
		{Start: 10, End: 15.5, Text: "Let us start", Speaker: "Speaker 1"},
	}
	tr := NewTranscript(uuid.New(), "Hello team Hi there Let us start", "en", segments)

	if tr.WordCount != 7 {
		t.Errorf("expected 7 words, got %d", tr.WordCount)
	}
	if tr.SpeakerCount != 2 {
		t.Errorf("expected 2 speakers, got %d", tr.SpeakerCount)
	}
	if tr.DurationSeconds != 15.5 {
		t.Errorf("expected duration 15.5, got %f", tr.DurationSeconds)
	}
}

func TestFormatTimestamp(t *testing.T) {
	tests := []struct {
		seconds float64
		want    string
	}{
		{0, "00:00:00"},
		{59.9, "00:00:59"},
		{75, "00:01:15"},
		{3661, "01:01:01"},
		{7325.4, "02:02:05"},
	}
	for _, tt := range tests {
		if got := FormatTimestamp(tt.seconds); got != tt.want {
			t.Errorf("FormatTimestamp(%f) = %q, want %q", tt.seconds, got, tt.want)
		}
	}
}
