package pipeline

import (
	"errors"
	"strings"
	"testing"

	"github.com/YouYou-1402/ai-meeting-transcriber/internal/domain/entities"
	usecaseErrors "github.com/YouYou-1402/ai-meeting-transcriber/internal/usecase/errors"
)

func TestParseMinutesResponse(t *testing.T) {
	parser := NewParser()

	tests := []struct {
		name    string
		content string
		wantErr bool
	}{
		{
			name:    "plain json",
			content: `{"title":"Sprint Review","summary":"Team reviewed sprint progress.","key_points":["velocity up"]}`,
		},
		{
			name:    "fenced json",
			content: "```json\n{\"title\":\"Sprint Review\",\"summary\":\"Team reviewed sprint progress.\"}\n```",
		},
		{
			name:    "json wrapped in prose",
			content: "Here are the minutes you asked for:\n{\"summary\":\"Budget was approved.\"}\nLet me know if you need more detail.",
		},
		{
			name:    "braces inside string values",
			content: `{"title":"Q3 {Planning}","summary":"Use {curly} names carefully."}`,
		},
		{
			name:    "missing summary",
			content: `{"title":"Sprint Review","key_points":["velocity up"]}`,
			wantErr: true,
		},
		{
			name:    "no json at all",
			content: "I was unable to analyze this transcript.",
			wantErr: true,
		},
		{
			name:    "broken json",
			content: `{"summary": unquoted}`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := parser.ParseMinutesResponse(tt.content)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseMinutesResponse: %v", err)
			}
			if result.Summary == "" {
				t.Error("summary should not be empty")
			}
			if result.KeyPoints == nil || result.ActionItems == nil || result.Participants == nil {
				t.Error("slices should be initialized after normalization")
			}
		})
	}
}

func TestParseMinutesResponseNormalizes(t *testing.T) {
	parser := NewParser()

	content := `{
		"title": "  Weekly Sync  ",
		"summary": "Discussed the release.",
		"action_items": [
			{"description": "Ship the hotfix", "priority": "URGENT"},
			{"description": "   "},
			{"description": "Write release notes"}
		],
		"participants": ["An", "Binh", "an"]
	}`

	result, err := parser.ParseMinutesResponse(content)
	if err != nil {
		t.Fatalf("ParseMinutesResponse: %v", err)
	}

	if result.Title != "Weekly Sync" {
		t.Errorf("title = %q, want %q", result.Title, "Weekly Sync")
	}
	if len(result.ActionItems) != 2 {
		t.Fatalf("action items = %d, want 2 (blank one dropped)", len(result.ActionItems))
	}
	if result.ActionItems[0].Priority != entities.ActionItemPriorityHigh {
		t.Errorf("priority = %q, want high", result.ActionItems[0].Priority)
	}
	if result.ActionItems[1].Priority != entities.ActionItemPriorityMedium {
		t.Errorf("default priority = %q, want medium", result.ActionItems[1].Priority)
	}
	if len(result.Participants) != 2 {
		t.Errorf("participants = %v, want deduped to 2", result.Participants)
	}
	if result.KeyPoints == nil || result.Decisions == nil || result.FollowUps == nil {
		t.Error("missing arrays should become empty slices")
	}
}

func TestParseActionItemsResponse(t *testing.T) {
	parser := NewParser()

	t.Run("json array", func(t *testing.T) {
		content := `[
			{"description": "Update the deck", "owner": "An", "priority": "critical"},
			{"description": "   "},
			{"description": "Ping the vendor"}
		]`
		items, err := parser.ParseActionItemsResponse(content)
		if err != nil {
			t.Fatalf("ParseActionItemsResponse: %v", err)
		}
		if len(items) != 2 {
			t.Fatalf("items = %d, want 2", len(items))
		}
		if items[0].Priority != entities.ActionItemPriorityHigh {
			t.Errorf("priority = %q, want high", items[0].Priority)
		}
		if items[1].Priority != entities.ActionItemPriorityMedium {
			t.Errorf("priority = %q, want medium", items[1].Priority)
		}
	})

	t.Run("bullet fallback", func(t *testing.T) {
		content := "Sure, here is what needs doing:\n- Email the client\n• Schedule the follow-up\nThat is everything."
		items, err := parser.ParseActionItemsResponse(content)
		if err != nil {
			t.Fatalf("ParseActionItemsResponse: %v", err)
		}
		if len(items) != 2 {
			t.Fatalf("items = %d, want 2", len(items))
		}
		if items[0].Description != "Email the client" {
			t.Errorf("description = %q", items[0].Description)
		}
		if items[1].Priority != entities.ActionItemPriorityMedium {
			t.Errorf("fallback priority = %q, want medium", items[1].Priority)
		}
	})

	t.Run("nothing extractable", func(t *testing.T) {
		items, err := parser.ParseActionItemsResponse("No tasks were assigned in this meeting.")
		if err != nil {
			t.Fatalf("ParseActionItemsResponse: %v", err)
		}
		if len(items) != 0 {
			t.Errorf("items = %v, want none", items)
		}
	})
}

func TestParseParticipantsResponse(t *testing.T) {
	parser := NewParser()

	t.Run("json array with duplicates", func(t *testing.T) {
		names, err := parser.ParseParticipantsResponse(`["An Nguyen", "Binh Tran", "an nguyen", ""]`)
		if err != nil {
			t.Fatalf("ParseParticipantsResponse: %v", err)
		}
		if len(names) != 2 {
			t.Fatalf("names = %v, want 2", names)
		}
		if names[0] != "An Nguyen" || names[1] != "Binh Tran" {
			t.Errorf("names = %v, order not preserved", names)
		}
	})

	t.Run("line fallback", func(t *testing.T) {
		names, err := parser.ParseParticipantsResponse("\"An Nguyen\",\nBinh Tran\n")
		if err != nil {
			t.Fatalf("ParseParticipantsResponse: %v", err)
		}
		if len(names) != 2 {
			t.Fatalf("names = %v, want 2", names)
		}
	})
}

func TestValidateTranscriptLength(t *testing.T) {
	parser := NewParser()

	longEnough := strings.Repeat("the quarterly budget review meeting ", 6) // 30 words

	tests := []struct {
		name       string
		transcript string
		duration   int
		wantErr    bool
	}{
		{"too few characters", "short meeting", 300, true},
		{"too few words", strings.Repeat("supercalifragilistic ", 10), 300, true},
		{"too short duration", longEnough, 45, true},
		{"valid", longEnough, 300, false},
		{"unknown duration skips that check", longEnough, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := parser.ValidateTranscriptLength(tt.transcript, tt.duration)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				if !errors.Is(err, usecaseErrors.ErrTranscriptTooShort) {
					t.Errorf("error %v should wrap ErrTranscriptTooShort", err)
				}
				return
			}
			if err != nil {
				t.Errorf("ValidateTranscriptLength: %v", err)
			}
		})
	}
}

func TestMinimalAnalysis(t *testing.T) {
	parser := NewParser()

	if !parser.TooShortToSummarize("ok thanks bye") {
		t.Error("three words should be too short to summarize")
	}
	if parser.TooShortToSummarize(strings.Repeat("word ", 10)) {
		t.Error("ten words should clear the threshold")
	}

	result := parser.MinimalAnalysis("Standup", "  ok thanks bye  ")
	if result.Summary != "ok thanks bye" {
		t.Errorf("summary = %q, want the trimmed transcript", result.Summary)
	}
	if result.Title != "Standup" {
		t.Errorf("title = %q", result.Title)
	}
	if result.ActionItems == nil || result.KeyPoints == nil {
		t.Error("minimal analysis should have initialized slices")
	}

	empty := parser.MinimalAnalysis("Silent", "   ")
	if empty.Summary != "The recording contains no recognizable speech." {
		t.Errorf("empty transcript summary = %q", empty.Summary)
	}
}

func TestMergeActionItems(t *testing.T) {
	parser := NewParser()

	base := []entities.ActionItemAnalysis{
		{Description: "Send the report", Owner: "An", Priority: "high"},
	}
	extra := []entities.ActionItemAnalysis{
		{Description: "send the report "},
		{Description: "Book the venue", Priority: "URGENT"},
		{Description: "   "},
	}

	merged := parser.MergeActionItems(base, extra)
	if len(merged) != 2 {
		t.Fatalf("merged = %d items, want 2", len(merged))
	}
	if merged[0].Owner != "An" {
		t.Error("base item should keep its owner")
	}
	if merged[1].Description != "Book the venue" || merged[1].Priority != entities.ActionItemPriorityHigh {
		t.Errorf("merged[1] = %+v", merged[1])
	}
}

func TestMergeParticipants(t *testing.T) {
	parser := NewParser()

	merged := parser.MergeParticipants([]string{"Alice", "Bob"}, []string{"bob", "Carol"})
	if len(merged) != 3 {
		t.Fatalf("merged = %v, want 3 names", merged)
	}
	if merged[0] != "Alice" || merged[1] != "Bob" || merged[2] != "Carol" {
		t.Errorf("merged = %v, order not preserved", merged)
	}
}

func TestTruncateTranscript(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		maxChars int
		want     string
	}{
		{"unlimited", "alpha beta", 0, "alpha beta"},
		{"fits", "alpha beta", 50, "alpha beta"},
		{"cut at word boundary", "alpha beta gamma", 11, "alpha beta"},
		{"no boundary inside limit", "abcdefghij", 5, "abcde"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TruncateTranscript(tt.text, tt.maxChars); got != tt.want {
				t.Errorf("TruncateTranscript(%q, %d) = %q, want %q", tt.text, tt.maxChars, got, tt.want)
			}
		})
	}
}

func TestSplitTranscript(t *testing.T) {
	text := strings.TrimSpace(strings.Repeat("word ", 100))

	chunks := SplitTranscript(text, 120)
	if len(chunks) < 2 {
		t.Fatalf("chunks = %d, want the text split up", len(chunks))
	}
	for i, chunk := range chunks {
		if len(chunk) > 120 {
			t.Errorf("chunk %d is %d chars, over the limit", i, len(chunk))
		}
	}
	if strings.Join(chunks, " ") != text {
		t.Error("rejoined chunks should reproduce the transcript")
	}

	single := SplitTranscript("short text", 120)
	if len(single) != 1 || single[0] != "short text" {
		t.Errorf("short input = %v, want one untouched chunk", single)
	}
}

func TestNormalizePriority(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"high", "high"},
		{"High", "high"},
		{"URGENT", "high"},
		{"critical", "high"},
		{"low", "low"},
		{"minor", "low"},
		{"medium", "medium"},
		{"", "medium"},
		{"whenever", "medium"},
	}

	for _, tt := range tests {
		if got := normalizePriority(tt.in); got != tt.want {
			t.Errorf("normalizePriority(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
