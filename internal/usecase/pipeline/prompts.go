package pipeline

import (
	"fmt"
	"strings"
)

// Character budgets for prompt assembly. Roughly 4 characters per token
// keeps a 48k-char transcript near 12k tokens, inside every supported
// model window with room for the instructions and the completion.
const (
	maxTranscriptChars      = 48000
	chunkTranscriptChars    = 24000
	participantsSampleChars = 4000
)

const minutesSystemPrompt = "You are an expert at analyzing and summarizing business meetings. " +
	"You produce professional, detailed meeting minutes. " +
	"Always answer with a single JSON object and nothing else."

const extractionSystemPrompt = "You are an expert at extracting structured information from meeting transcripts. " +
	"Always answer with a single JSON array and nothing else."

// buildMinutesPrompt asks for the complete structured minutes in one shot
func buildMinutesPrompt(title, language, transcript string) string {
	var b strings.Builder
	b.WriteString("Analyze the following meeting transcript and produce meeting minutes.\n\n")
	b.WriteString("Return a single JSON object with exactly this shape:\n")
	b.WriteString(`{
  "title": "short descriptive meeting title",
  "summary": "2-4 paragraph narrative of what was discussed",
  "key_points": ["main discussion point", "..."],
  "decisions": ["decision that was made", "..."],
  "action_items": [
    {"description": "task", "owner": "person responsible or empty", "due_date": "deadline as mentioned or empty", "priority": "high|medium|low"}
  ],
  "participants": ["name", "..."],
  "follow_ups": ["unresolved question or topic to revisit", "..."]
}`)
	b.WriteString("\n\nRules:\n")
	b.WriteString("- Use only information present in the transcript; never invent names, dates or tasks.\n")
	b.WriteString("- Keep deadlines exactly as spoken (\"by Friday\", \"next sprint\"); do not convert them to dates.\n")
	b.WriteString("- Only list real participant names; skip bare labels like \"Speaker 1\".\n")
	b.WriteString("- Empty arrays are fine when the meeting had no such content.\n")
	if language != "" {
		fmt.Fprintf(&b, "- Write summary, key points and decisions in the transcript language (%s).\n", language)
	}
	if title != "" {
		fmt.Fprintf(&b, "\nThe uploader titled this meeting: %q\n", title)
	}
	b.WriteString("\nTranscript:\n")
	b.WriteString(transcript)
	return b.String()
}

// buildActionItemsPrompt runs the dedicated extraction pass used to catch
// tasks the minutes pass missed.
func buildActionItemsPrompt(transcript string) string {
	var b strings.Builder
	b.WriteString("Analyze the following meeting transcript and extract every action item.\n\n")
	b.WriteString("For each task identify:\n")
	b.WriteString("1. The task description\n")
	b.WriteString("2. The person responsible (if stated)\n")
	b.WriteString("3. The deadline (if stated)\n")
	b.WriteString("4. The priority (high/medium/low)\n\n")
	b.WriteString("Return a JSON array with this format:\n")
	b.WriteString(`[
  {"description": "task description", "owner": "name", "due_date": "deadline", "priority": "high|medium|low"}
]`)
	b.WriteString("\n\nTranscript:\n")
	b.WriteString(transcript)
	return b.String()
}

// buildParticipantsPrompt identifies attendees from the transcript opening
func buildParticipantsPrompt(transcript string) string {
	var b strings.Builder
	b.WriteString("Analyze the following meeting transcript and list everyone who took part.\n\n")
	b.WriteString("Return the names as a JSON array:\n")
	b.WriteString(`["Name 1", "Name 2"]`)
	b.WriteString("\n\nOnly return real names of participants; do not include \"Speaker 1\", \"Speaker 2\".\n")
	b.WriteString("\nTranscript:\n")
	b.WriteString(TruncateTranscript(transcript, participantsSampleChars))
	return b.String()
}

// buildChunkPrompt summarizes one part of an oversized transcript
func buildChunkPrompt(index, total int, chunk string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "The following is part %d of %d of a long meeting transcript.\n", index, total)
	b.WriteString("Summarize this part in a few dense paragraphs. ")
	b.WriteString("Keep every name, decision, task and deadline that appears; drop small talk.\n")
	b.WriteString("\nTranscript part:\n")
	b.WriteString(chunk)
	return b.String()
}

// buildMergePrompt turns per-chunk summaries back into one transcript-like
// text that the minutes prompt can digest.
func buildMergePrompt(title, language string, partSummaries []string) string {
	var merged strings.Builder
	for i, part := range partSummaries {
		fmt.Fprintf(&merged, "[Part %d]\n%s\n\n", i+1, part)
	}
	return buildMinutesPrompt(title, language, strings.TrimSpace(merged.String()))
}
