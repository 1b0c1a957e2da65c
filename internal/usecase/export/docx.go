package export

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/gomutex/godocx"
	"github.com/gomutex/godocx/docx"

	"github.com/YouYou-1402/ai-meeting-transcriber/internal/domain/entities"
)

var reSlug = regexp.MustCompile(`[^a-z0-9]+`)

// docxRenderer writes a MeetingMinutes entity as a styled Word document.
type docxRenderer struct {
	fontName string
	fontSize uint64
}

func newDocxRenderer(fontName string, fontSize int) *docxRenderer {
	if fontName == "" {
		fontName = "Times New Roman"
	}
	if fontSize <= 0 {
		fontSize = 13
	}
	return &docxRenderer{fontName: fontName, fontSize: uint64(fontSize)}
}

// render lays the document out section by section:
// title block, general information, attendees, discussion, decisions,
// action items, follow-ups, optional transcript appendix, footer.
func (r *docxRenderer) render(meeting *entities.Meeting, minutes *entities.MeetingMinutes, transcript *entities.Transcript, includeTranscript bool, outputPath string) error {
	doc, err := godocx.NewDocument()
	if err != nil {
		return fmt.Errorf("failed to create document: %w", err)
	}

	r.addHeading(doc, "MEETING MINUTES", r.fontSize+3)
	title := minutes.Title
	if title == "" {
		title = meeting.Title
	}
	r.addHeading(doc, strings.ToUpper(title), r.fontSize+1)
	doc.AddParagraph("")

	r.addGeneralInfo(doc, meeting, transcript)
	r.addAttendees(doc, minutes)
	r.addDiscussion(doc, minutes)
	r.addDecisions(doc, minutes)
	r.addActionItems(doc, minutes)
	r.addFollowUps(doc, minutes)

	if includeTranscript && transcript != nil {
		r.addTranscriptAppendix(doc, transcript)
	}

	doc.AddParagraph("")
	footer := fmt.Sprintf("Generated on %s", time.Now().Format("02/01/2006 15:04"))
	if minutes.ModelUsed != "" {
		footer = fmt.Sprintf("%s by %s", footer, minutes.ModelUsed)
	}
	r.addLine(doc, footer)

	if err := doc.SaveTo(outputPath); err != nil {
		return fmt.Errorf("failed to save document: %w", err)
	}
	return nil
}

func (r *docxRenderer) addGeneralInfo(doc *docx.RootDoc, meeting *entities.Meeting, transcript *entities.Transcript) {
	r.addHeading(doc, "I. GENERAL INFORMATION", r.fontSize)

	duration := meeting.DurationSeconds
	if duration == 0 && transcript != nil {
		duration = transcript.DurationSeconds
	}
	r.addLine(doc, fmt.Sprintf("- Date: %s", meeting.CreatedAt.Format("02/01/2006 15:04")))
	r.addLine(doc, fmt.Sprintf("- Duration: %s", formatDuration(duration)))
	r.addLine(doc, fmt.Sprintf("- Source file: %s", meeting.OriginalFilename))
	if transcript != nil && transcript.Language != "" {
		r.addLine(doc, fmt.Sprintf("- Language: %s", transcript.Language))
	}
	doc.AddParagraph("")
}

func (r *docxRenderer) addAttendees(doc *docx.RootDoc, minutes *entities.MeetingMinutes) {
	r.addHeading(doc, "II. ATTENDEES", r.fontSize)
	if len(minutes.Participants) == 0 {
		r.addLine(doc, "No attendees were identified from the recording.")
	} else {
		for _, p := range minutes.Participants {
			r.addLine(doc, "- "+p)
		}
	}
	doc.AddParagraph("")
}

func (r *docxRenderer) addDiscussion(doc *docx.RootDoc, minutes *entities.MeetingMinutes) {
	r.addHeading(doc, "III. DISCUSSION", r.fontSize)
	if minutes.Summary != "" {
		for _, para := range strings.Split(minutes.Summary, "\n") {
			if s := strings.TrimSpace(para); s != "" {
				r.addLine(doc, s)
			}
		}
	}
	if len(minutes.KeyPoints) > 0 {
		doc.AddParagraph("")
		r.addBold(doc, "Key points:")
		for _, kp := range minutes.KeyPoints {
			r.addLine(doc, "- "+kp)
		}
	}
	doc.AddParagraph("")
}

func (r *docxRenderer) addDecisions(doc *docx.RootDoc, minutes *entities.MeetingMinutes) {
	r.addHeading(doc, "IV. DECISIONS", r.fontSize)
	if len(minutes.Decisions) == 0 {
		r.addLine(doc, "No specific decisions were recorded in this meeting.")
	} else {
		for i, d := range minutes.Decisions {
			r.addLine(doc, fmt.Sprintf("%d. %s", i+1, d))
		}
	}
	doc.AddParagraph("")
}

func (r *docxRenderer) addActionItems(doc *docx.RootDoc, minutes *entities.MeetingMinutes) {
	r.addHeading(doc, "V. ACTION ITEMS", r.fontSize)
	if len(minutes.ActionItems) == 0 {
		r.addLine(doc, "No action items were assigned in this meeting.")
	} else {
		for i, item := range minutes.ActionItems {
			r.addLine(doc, fmt.Sprintf("%d. %s", i+1, item.Description))
			detail := actionItemDetail(item)
			if detail != "" {
				r.addLine(doc, "   "+detail)
			}
		}
	}
	doc.AddParagraph("")
}

func (r *docxRenderer) addFollowUps(doc *docx.RootDoc, minutes *entities.MeetingMinutes) {
	r.addHeading(doc, "VI. FOLLOW-UPS", r.fontSize)
	if len(minutes.FollowUps) == 0 {
		r.addLine(doc, "No open items to follow up on.")
	} else {
		for _, f := range minutes.FollowUps {
			r.addLine(doc, "- "+f)
		}
	}
	doc.AddParagraph("")
}

func (r *docxRenderer) addTranscriptAppendix(doc *docx.RootDoc, transcript *entities.Transcript) {
	r.addHeading(doc, "APPENDIX: FULL TRANSCRIPT", r.fontSize)
	if len(transcript.Segments) > 0 {
		for _, seg := range transcript.Segments {
			line := fmt.Sprintf("[%s]", entities.FormatTimestamp(seg.Start))
			if seg.Speaker != "" {
				line = fmt.Sprintf("%s %s:", line, seg.Speaker)
			}
			r.addLine(doc, fmt.Sprintf("%s %s", line, strings.TrimSpace(seg.Text)))
		}
	} else {
		for _, para := range strings.Split(transcript.Text, "\n") {
			if s := strings.TrimSpace(para); s != "" {
				r.addLine(doc, s)
			}
		}
	}
	doc.AddParagraph("")
}

func (r *docxRenderer) addHeading(doc *docx.RootDoc, text string, size uint64) {
	p := doc.AddParagraph("")
	p.AddText(text).Font(r.fontName).Size(size).Color("000000").Bold(true)
}

func (r *docxRenderer) addBold(doc *docx.RootDoc, text string) {
	p := doc.AddParagraph("")
	p.AddText(text).Font(r.fontName).Size(r.fontSize).Color("000000").Bold(true)
}

func (r *docxRenderer) addLine(doc *docx.RootDoc, text string) {
	p := doc.AddParagraph("")
	p.AddText(text).Font(r.fontName).Size(r.fontSize).Color("000000")
}

// actionItemDetail joins the owner/deadline/priority fields an item carries.
func actionItemDetail(item entities.ActionItem) string {
	var parts []string
	if item.Owner != "" {
		parts = append(parts, "Owner: "+item.Owner)
	}
	if item.DueDate != "" {
		parts = append(parts, "Due: "+item.DueDate)
	}
	if item.Priority != "" {
		parts = append(parts, "Priority: "+item.Priority)
	}
	return strings.Join(parts, " | ")
}

// formatDuration renders seconds in a human friendly form for the header.
func formatDuration(seconds float64) string {
	if seconds <= 0 {
		return "unknown"
	}
	total := int(seconds)
	h := total / 3600
	m := (total % 3600) / 60
	s := total % 60
	switch {
	case h > 0:
		return fmt.Sprintf("%dh %02dm", h, m)
	case m > 0:
		return fmt.Sprintf("%dm %02ds", m, s)
	default:
		return fmt.Sprintf("%ds", s)
	}
}

// slugify turns a meeting title into a filesystem safe fragment.
func slugify(title string) string {
	s := strings.ToLower(strings.TrimSpace(title))
	s = reSlug.ReplaceAllString(s, "_")
	s = strings.Trim(s, "_")
	if len(s) > 60 {
		s = s[:60]
		s = strings.Trim(s, "_")
	}
	if s == "" {
		s = "meeting"
	}
	return s
}
