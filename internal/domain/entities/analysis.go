package entities

// MinutesAnalysis is the structured output the LLM is asked to produce when
// generating meeting minutes. Field names match the JSON keys demanded by the
// prompt; the parser normalizes missing or malformed values before the result
// is persisted as MeetingMinutes.
type MinutesAnalysis struct {
	Title        string               `json:"title"`
	Summary      string               `json:"summary"`
	KeyPoints    []string             `json:"key_points"`
	Decisions    []string             `json:"decisions"`
	ActionItems  []ActionItemAnalysis `json:"action_items"`
	Participants []string             `json:"participants"`
	FollowUps    []string             `json:"follow_ups"`
}

// ActionItemAnalysis is one extracted task inside MinutesAnalysis
type ActionItemAnalysis struct {
	Description string `json:"description"`
	Owner       string `json:"owner"`
	DueDate     string `json:"due_date"`
	Priority    string `json:"priority"` // low, medium, high
}

// IsEmpty reports whether the analysis carries no usable content
func (a *MinutesAnalysis) IsEmpty() bool {
	return a.Summary == "" && len(a.KeyPoints) == 0 && len(a.ActionItems) == 0
}
