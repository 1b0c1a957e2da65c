package meeting

// UploadMeetingRequest carries the multipart form fields that accompany the
// uploaded file
type UploadMeetingRequest struct {
	Title    string `form:"title" validate:"omitempty,max=500"`
	Language string `form:"language" validate:"omitempty,max=20"`
}

// UpdateMeetingRequest represents the request to edit a meeting and, when
// they exist, its minutes. Absent fields are left unchanged.
type UpdateMeetingRequest struct {
	Title        *string  `json:"title,omitempty" validate:"omitempty,min=1,max=500"`
	Participants []string `json:"participants,omitempty" validate:"omitempty,dive,min=1,max=255"`

	MinutesTitle *string             `json:"minutes_title,omitempty" validate:"omitempty,max=500"`
	Summary      *string             `json:"summary,omitempty"`
	ActionItems  []ActionItemRequest `json:"action_items,omitempty" validate:"omitempty,dive"`
}

// ActionItemRequest represents one action item in an update request
type ActionItemRequest struct {
	Description string `json:"description" validate:"required,min=1,max=1000"`
	Owner       string `json:"owner,omitempty" validate:"omitempty,max=255"`
	DueDate     string `json:"due_date,omitempty" validate:"omitempty,max=100"`
	Priority    string `json:"priority,omitempty" validate:"omitempty,oneof=low medium high"`
}

// ListMeetingsRequest represents query parameters for listing meetings
type ListMeetingsRequest struct {
	Status    *string `query:"status" validate:"omitempty,oneof=pending transcribing summarizing exporting completed failed"`
	MediaType *string `query:"media_type" validate:"omitempty,oneof=audio video"`
	Search    string  `query:"search"`
	Page      int     `query:"page" validate:"omitempty,min=1"`
	PageSize  int     `query:"page_size" validate:"omitempty,min=1,max=100"`
	SortBy    string  `query:"sort_by" validate:"omitempty,oneof=created_at title file_size duration_seconds"`
	SortOrder string  `query:"sort_order" validate:"omitempty,oneof=asc desc"`
}

// ProcessMeetingRequest represents the request to (re)start processing
type ProcessMeetingRequest struct {
	Force bool `json:"force"`
}
