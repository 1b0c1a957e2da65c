package pipeline

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/YouYou-1402/ai-meeting-transcriber/internal/domain/entities"
	usecaseErrors "github.com/YouYou-1402/ai-meeting-transcriber/internal/usecase/errors"
)

// Parser handles parsing and validation of LLM completions
type Parser struct{}

// NewParser creates a new Parser instance
func NewParser() *Parser {
	return &Parser{}
}

// ParseMinutesResponse parses the JSON completion into MinutesAnalysis
func (p *Parser) ParseMinutesResponse(content string) (*entities.MinutesAnalysis, error) {
	// Extract JSON from response (models might wrap it in markdown code
	// blocks or lead with prose)
	jsonString := extractJSONObject(content)
	if jsonString == "" {
		return nil, fmt.Errorf("no JSON object in response")
	}

	var result entities.MinutesAnalysis
	if err := json.Unmarshal([]byte(jsonString), &result); err != nil {
		return nil, fmt.Errorf("failed to parse JSON response: %w", err)
	}

	// Validate required fields
	if result.Summary == "" {
		return nil, fmt.Errorf("missing summary in response")
	}

	p.NormalizeAnalysis(&result)
	return &result, nil
}

// ParseActionItemsResponse parses a JSON array of action items. When the
// model ignores the format and answers with bullet lines, those become
// medium priority items with unknown owner.
func (p *Parser) ParseActionItemsResponse(content string) ([]entities.ActionItemAnalysis, error) {
	jsonString := extractJSONArray(content)
	if jsonString != "" {
		var items []entities.ActionItemAnalysis
		if err := json.Unmarshal([]byte(jsonString), &items); err == nil {
			out := make([]entities.ActionItemAnalysis, 0, len(items))
			for _, item := range items {
				if strings.TrimSpace(item.Description) == "" {
					continue
				}
				item.Priority = normalizePriority(item.Priority)
				out = append(out, item)
			}
			return out, nil
		}
	}

	// Fallback: parse bullet lines
	items := make([]entities.ActionItemAnalysis, 0)
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "-") || strings.HasPrefix(line, "•") {
			task := strings.TrimSpace(strings.TrimLeft(line, "-•"))
			if task != "" {
				items = append(items, entities.ActionItemAnalysis{
					Description: task,
					Priority:    entities.ActionItemPriorityMedium,
				})
			}
		}
	}
	return items, nil
}

// ParseParticipantsResponse parses a JSON array of participant names, with a
// line-per-name text fallback.
func (p *Parser) ParseParticipantsResponse(content string) ([]string, error) {
	jsonString := extractJSONArray(content)
	if jsonString != "" {
		var names []string
		if err := json.Unmarshal([]byte(jsonString), &names); err == nil {
			return dedupeNames(names), nil
		}
	}

	names := make([]string, 0)
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "[") || strings.HasPrefix(line, "]") {
			continue
		}
		name := strings.Trim(line, `"',`)
		if name != "" {
			names = append(names, name)
		}
	}
	return dedupeNames(names), nil
}

// ValidateTranscriptLength checks if a transcript meets minimum requirements
// for a meaningful summary.
func (p *Parser) ValidateTranscriptLength(transcript string, durationSeconds int) error {
	const (
		minChars    = 100
		minWords    = 20
		minDuration = 60 // 1 minute
	)

	if len(transcript) < minChars {
		return fmt.Errorf("%w: %d characters (minimum: %d)", usecaseErrors.ErrTranscriptTooShort, len(transcript), minChars)
	}

	words := strings.Fields(transcript)
	if len(words) < minWords {
		return fmt.Errorf("%w: %d words (minimum: %d)", usecaseErrors.ErrTranscriptTooShort, len(words), minWords)
	}

	if durationSeconds > 0 && durationSeconds < minDuration {
		return fmt.Errorf("%w: %d seconds (minimum: %d)", usecaseErrors.ErrTranscriptTooShort, durationSeconds, minDuration)
	}

	return nil
}

// TooShortToSummarize reports whether the transcript is below the point
// where calling the model makes sense at all.
func (p *Parser) TooShortToSummarize(transcript string) bool {
	return len(strings.Fields(transcript)) < 10
}

// MinimalAnalysis builds deterministic minutes for recordings too short to
// send to the model: the transcript itself becomes the summary.
func (p *Parser) MinimalAnalysis(title, transcript string) *entities.MinutesAnalysis {
	summary := strings.TrimSpace(transcript)
	if summary == "" {
		summary = "The recording contains no recognizable speech."
	}
	result := &entities.MinutesAnalysis{
		Title:   title,
		Summary: summary,
	}
	p.NormalizeAnalysis(result)
	return result
}

// NormalizeAnalysis fills defaults so downstream code never sees nil slices
// or priorities outside the low/medium/high whitelist.
func (p *Parser) NormalizeAnalysis(result *entities.MinutesAnalysis) {
	if result == nil {
		return
	}

	result.Title = strings.TrimSpace(result.Title)
	result.Summary = strings.TrimSpace(result.Summary)

	// KeyPoints, Decisions, etc. can be empty for short meetings.
	// Just ensure they're initialized.
	if result.KeyPoints == nil {
		result.KeyPoints = make([]string, 0)
	}
	if result.Decisions == nil {
		result.Decisions = make([]string, 0)
	}
	if result.ActionItems == nil {
		result.ActionItems = make([]entities.ActionItemAnalysis, 0)
	}
	if result.Participants == nil {
		result.Participants = make([]string, 0)
	}
	if result.FollowUps == nil {
		result.FollowUps = make([]string, 0)
	}

	items := result.ActionItems[:0]
	for _, item := range result.ActionItems {
		item.Description = strings.TrimSpace(item.Description)
		if item.Description == "" {
			continue
		}
		item.Priority = normalizePriority(item.Priority)
		items = append(items, item)
	}
	result.ActionItems = items
	result.Participants = dedupeNames(result.Participants)
}

// MergeActionItems appends extracted items the minutes pass missed,
// deduplicating on the task text.
func (p *Parser) MergeActionItems(base []entities.ActionItemAnalysis, extra []entities.ActionItemAnalysis) []entities.ActionItemAnalysis {
	seen := make(map[string]struct{}, len(base))
	for _, item := range base {
		seen[strings.ToLower(strings.TrimSpace(item.Description))] = struct{}{}
	}
	merged := base
	for _, item := range extra {
		key := strings.ToLower(strings.TrimSpace(item.Description))
		if key == "" {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		item.Priority = normalizePriority(item.Priority)
		merged = append(merged, item)
	}
	return merged
}

// MergeParticipants unions the two name lists, keeping first-seen order.
func (p *Parser) MergeParticipants(base []string, extra []string) []string {
	return dedupeNames(append(append([]string{}, base...), extra...))
}

// TruncateTranscript cuts the transcript at a word boundary so the prompt
// stays inside the model window.
func TruncateTranscript(text string, maxChars int) string {
	if maxChars <= 0 || len(text) <= maxChars {
		return text
	}
	cut := text[:maxChars]
	if idx := strings.LastIndexAny(cut, " \t\n"); idx > 0 {
		cut = cut[:idx]
	}
	return strings.TrimSpace(cut)
}

// SplitTranscript breaks an oversized transcript into chunks at word
// boundaries for chunk-wise summarization.
func SplitTranscript(text string, chunkChars int) []string {
	if chunkChars <= 0 || len(text) <= chunkChars {
		return []string{text}
	}
	var chunks []string
	rest := text
	for len(rest) > chunkChars {
		cut := rest[:chunkChars]
		idx := strings.LastIndexAny(cut, " \t\n")
		if idx <= 0 {
			idx = chunkChars
		}
		chunks = append(chunks, strings.TrimSpace(rest[:idx]))
		rest = strings.TrimSpace(rest[idx:])
	}
	if rest != "" {
		chunks = append(chunks, rest)
	}
	return chunks
}

// extractJSONObject extracts the first balanced JSON object from markdown
// code blocks or plain text.
func extractJSONObject(content string) string {
	return extractBalanced(stripFences(content), '{', '}')
}

// extractJSONArray extracts the first balanced JSON array
func extractJSONArray(content string) string {
	return extractBalanced(stripFences(content), '[', ']')
}

// stripFences removes a surrounding markdown code block if present
func stripFences(content string) string {
	content = strings.TrimSpace(content)

	if strings.HasPrefix(content, "```json") {
		content = strings.TrimPrefix(content, "```json")
		if idx := strings.LastIndex(content, "```"); idx != -1 {
			content = content[:idx]
		}
	} else if strings.HasPrefix(content, "```") {
		content = strings.TrimPrefix(content, "```")
		if idx := strings.LastIndex(content, "```"); idx != -1 {
			content = content[:idx]
		}
	}

	return strings.TrimSpace(content)
}

// extractBalanced returns the first balanced open..close region, tracking
// JSON string literals so braces inside strings don't count.
func extractBalanced(content string, open, close byte) string {
	start := strings.IndexByte(content, open)
	if start == -1 {
		return ""
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(content); i++ {
		c := content[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case open:
			depth++
		case close:
			depth--
			if depth == 0 {
				return content[start : i+1]
			}
		}
	}
	return ""
}

// normalizePriority clamps free-form priorities onto the whitelist
func normalizePriority(priority string) string {
	switch strings.ToLower(strings.TrimSpace(priority)) {
	case entities.ActionItemPriorityHigh, "urgent", "critical":
		return entities.ActionItemPriorityHigh
	case entities.ActionItemPriorityLow, "minor":
		return entities.ActionItemPriorityLow
	default:
		return entities.ActionItemPriorityMedium
	}
}

// dedupeNames drops blank and repeated names, preserving order
func dedupeNames(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	out := make([]string, 0, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		key := strings.ToLower(name)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, name)
	}
	return out
}
