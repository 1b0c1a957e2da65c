package handler

import (
	stdErrors "errors"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/YouYou-1402/ai-meeting-transcriber/errors"
	meetingDto "github.com/YouYou-1402/ai-meeting-transcriber/internal/adapter/dto/meeting"
	"github.com/YouYou-1402/ai-meeting-transcriber/internal/domain/entities"
	"github.com/YouYou-1402/ai-meeting-transcriber/internal/domain/repositories"
	usecaseErrors "github.com/YouYou-1402/ai-meeting-transcriber/internal/usecase/errors"
	meetingUsecase "github.com/YouYou-1402/ai-meeting-transcriber/internal/usecase/meeting"
	"github.com/YouYou-1402/ai-meeting-transcriber/pkg/config"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// Meeting handles meeting-related HTTP requests
type Meeting struct {
	svc    meetingUsecase.Service
	cfg    *config.Config
	logger *zap.Logger
}

// NewMeetingHandler creates a new meeting handler
func NewMeetingHandler(svc meetingUsecase.Service, cfg *config.Config, logger *zap.Logger) *Meeting {
	return &Meeting{svc: svc, cfg: cfg, logger: logger}
}

// Upload accepts a meeting recording
// @Summary      Upload a meeting recording
// @Description  Accepts an audio or video file, stores it and queues the transcription pipeline
// @Tags         Meetings
// @Accept       multipart/form-data
// @Produce      json
// @Param        file      formData  file    true   "Audio or video file"
// @Param        title     formData  string  false  "Meeting title (defaults to the filename)"
// @Param        language  formData  string  false  "Spoken language hint, e.g. en or vi"
// @Success      201  {object}  meeting.MeetingResponse  "Meeting registered"
// @Failure      400  {object}  map[string]interface{}   "No file provided"
// @Failure      413  {object}  map[string]interface{}   "File exceeds the size limit"
// @Failure      415  {object}  map[string]interface{}   "Unsupported media format"
// @Failure      422  {object}  map[string]interface{}   "File has no audio track"
// @Router       /meetings/upload [post]
func (h *Meeting) Upload(c echo.Context) error {
	file, err := c.FormFile("file")
	if err != nil {
		return HandleError(h.logger, c, errors.ErrMissingFile())
	}

	var req meetingDto.UploadMeetingRequest
	if err := c.Bind(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrValidation(err))
	}
	if err := c.Validate(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrValidation(err))
	}

	if file.Size > h.cfg.Upload.MaxFileSize {
		return HandleError(h.logger, c, errors.ErrPayloadTooLarge(file.Size, h.cfg.Upload.MaxFileSize))
	}

	src, err := file.Open()
	if err != nil {
		return HandleError(h.logger, c, errors.ErrUploadFailed(err))
	}
	defer src.Close()

	meeting, err := h.svc.Upload(c.Request().Context(), meetingUsecase.UploadInput{
		Filename: file.Filename,
		Size:     file.Size,
		Reader:   src,
		Title:    req.Title,
		Language: req.Language,
		Source:   "http",
	})
	if err != nil {
		switch {
		case stdErrors.Is(err, usecaseErrors.ErrUnsupportedFormat):
			ext := strings.TrimPrefix(filepath.Ext(file.Filename), ".")
			return HandleError(h.logger, c, errors.ErrUnsupportedMedia(ext))
		case stdErrors.Is(err, usecaseErrors.ErrFileTooLarge):
			return HandleError(h.logger, c, errors.ErrPayloadTooLarge(file.Size, h.cfg.Upload.MaxFileSize))
		case stdErrors.Is(err, usecaseErrors.ErrEmptyFile):
			return HandleError(h.logger, c, errors.ErrInvalidArgument("uploaded file is empty"))
		default:
			return HandleError(h.logger, c, toAppError(err))
		}
	}

	return HandleCreated(h.logger, c, meetingDto.ToMeetingResponse(meeting))
}

// List returns meetings with filters and pagination
// @Summary      List meetings
// @Description  Returns meetings newest first, with status/media filters, search and pagination
// @Tags         Meetings
// @Produce      json
// @Param        status      query     string  false  "Filter by status"      Enums(pending, transcribing, summarizing, exporting, completed, failed)
// @Param        media_type  query     string  false  "Filter by media type"  Enums(audio, video)
// @Param        search      query     string  false  "Search in title and original filename"
// @Param        page        query     int     false  "Page number (1-based)"
// @Param        page_size   query     int     false  "Items per page (max 100)"
// @Param        sort_by     query     string  false  "Sort column"  Enums(created_at, title, file_size, duration_seconds)
// @Param        sort_order  query     string  false  "Sort order"   Enums(asc, desc)
// @Success      200  {object}  meeting.MeetingListResponse
// @Failure      400  {object}  map[string]interface{}  "Invalid query parameters"
// @Router       /meetings [get]
func (h *Meeting) List(c echo.Context) error {
	var req meetingDto.ListMeetingsRequest
	if err := c.Bind(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrValidation(err))
	}
	if err := c.Validate(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrValidation(err))
	}

	if req.Page < 1 {
		req.Page = 1
	}
	if req.PageSize < 1 {
		req.PageSize = defaultPageSize
	}
	if req.PageSize > maxPageSize {
		req.PageSize = maxPageSize
	}

	filters := repositories.MeetingFilters{
		Search:    req.Search,
		Limit:     req.PageSize,
		Offset:    (req.Page - 1) * req.PageSize,
		SortBy:    req.SortBy,
		SortOrder: req.SortOrder,
	}
	if req.Status != nil {
		status := entities.MeetingStatus(*req.Status)
		filters.Status = &status
	}
	if req.MediaType != nil {
		mediaType := entities.MediaType(*req.MediaType)
		filters.MediaType = &mediaType
	}

	meetings, total, err := h.svc.List(c.Request().Context(), filters)
	if err != nil {
		return HandleError(h.logger, c, toAppError(err))
	}

	items := make([]*meetingDto.MeetingResponse, 0, len(meetings))
	for _, m := range meetings {
		items = append(items, meetingDto.ToMeetingResponse(m))
	}

	totalPages := int((total + int64(req.PageSize) - 1) / int64(req.PageSize))
	return HandleSuccess(h.logger, c, &meetingDto.MeetingListResponse{
		Meetings:   items,
		Total:      total,
		Page:       req.Page,
		PageSize:   req.PageSize,
		TotalPages: totalPages,
	})
}

// Get returns one meeting with derived-record flags
// @Summary      Get meeting details
// @Description  Returns the meeting plus flags for transcript/minutes/document presence and the active job
// @Tags         Meetings
// @Produce      json
// @Param        id  path  string  true  "Meeting ID (UUID)"
// @Success      200  {object}  meeting.MeetingDetailResponse
// @Failure      400  {object}  map[string]interface{}  "Invalid meeting ID"
// @Failure      404  {object}  map[string]interface{}  "Meeting not found"
// @Router       /meetings/{id} [get]
func (h *Meeting) Get(c echo.Context) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	detail, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return HandleError(h.logger, c, toAppError(err))
	}

	return HandleSuccess(h.logger, c, &meetingDto.MeetingDetailResponse{
		MeetingResponse: meetingDto.ToMeetingResponse(detail.Meeting),
		HasTranscript:   detail.HasTranscript,
		HasMinutes:      detail.HasMinutes,
		HasDocument:     detail.HasDocument,
		Document:        meetingDto.ToDocumentResponse(detail.Document),
		ActiveJob:       meetingDto.ToJobResponse(detail.ActiveJob),
	})
}

// Update edits a meeting and, when present, its minutes
// @Summary      Update meeting
// @Description  Edits the title and participants; minutes title, summary and action items when minutes exist
// @Tags         Meetings
// @Accept       json
// @Produce      json
// @Param        id       path  string                        true  "Meeting ID (UUID)"
// @Param        request  body  meeting.UpdateMeetingRequest  true  "Fields to change"
// @Success      200  {object}  meeting.MeetingResponse
// @Failure      400  {object}  map[string]interface{}  "Invalid request"
// @Failure      404  {object}  map[string]interface{}  "Meeting or minutes not found"
// @Router       /meetings/{id} [put]
func (h *Meeting) Update(c echo.Context) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	var req meetingDto.UpdateMeetingRequest
	if err := c.Bind(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrValidation(err))
	}
	if err := c.Validate(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrValidation(err))
	}

	input := meetingUsecase.UpdateInput{
		Title:        req.Title,
		Participants: req.Participants,
		MinutesTitle: req.MinutesTitle,
		Summary:      req.Summary,
	}
	if req.ActionItems != nil {
		items := make([]entities.ActionItem, 0, len(req.ActionItems))
		for _, item := range req.ActionItems {
			items = append(items, entities.ActionItem{
				Description: item.Description,
				Owner:       item.Owner,
				DueDate:     item.DueDate,
				Priority:    item.Priority,
			})
		}
		input.ActionItems = items
	}

	meeting, err := h.svc.Update(c.Request().Context(), id, input)
	if err != nil {
		return HandleError(h.logger, c, toAppError(err))
	}

	return HandleSuccess(h.logger, c, meetingDto.ToMeetingResponse(meeting))
}

// Delete removes a meeting and everything derived from it
// @Summary      Delete meeting
// @Description  Removes the meeting, its transcript, minutes, documents and stored files
// @Tags         Meetings
// @Produce      json
// @Param        id  path  string  true  "Meeting ID (UUID)"
// @Success      200  {object}  map[string]interface{}  "Meeting deleted"
// @Failure      404  {object}  map[string]interface{}  "Meeting not found"
// @Router       /meetings/{id} [delete]
func (h *Meeting) Delete(c echo.Context) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	if err := h.svc.Delete(c.Request().Context(), id); err != nil {
		return HandleError(h.logger, c, toAppError(err))
	}

	return HandleSuccess(h.logger, c, map[string]interface{}{"id": id.String()})
}

// Process (re)starts the processing pipeline for a meeting
// @Summary      Process meeting
// @Description  Queues the transcription pipeline; force reprocesses a completed meeting
// @Tags         Meetings
// @Accept       json
// @Produce      json
// @Param        id       path  string                         true   "Meeting ID (UUID)"
// @Param        request  body  meeting.ProcessMeetingRequest  false  "Processing options"
// @Success      202  {object}  meeting.JobResponse  "Processing queued"
// @Failure      404  {object}  map[string]interface{}  "Meeting not found"
// @Failure      409  {object}  map[string]interface{}  "Already processing or completed"
// @Router       /meetings/{id}/process [post]
func (h *Meeting) Process(c echo.Context) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	var req meetingDto.ProcessMeetingRequest
	if err := c.Bind(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrValidation(err))
	}

	job, err := h.svc.Process(c.Request().Context(), id, req.Force)
	if err != nil {
		return HandleError(h.logger, c, toAppError(err))
	}

	return writeSuccess(h.logger, c, http.StatusAccepted, meetingDto.ToJobResponse(job))
}

// Progress returns the live pipeline snapshot for a meeting
// @Summary      Get processing progress
// @Description  Returns status, current stage and 0-100 progress; served from cache when fresh
// @Tags         Meetings
// @Produce      json
// @Param        id  path  string  true  "Meeting ID (UUID)"
// @Success      200  {object}  meeting.ProgressResponse
// @Failure      404  {object}  map[string]interface{}  "Meeting not found"
// @Router       /meetings/{id}/progress [get]
func (h *Meeting) Progress(c echo.Context) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	info, err := h.svc.Progress(c.Request().Context(), id)
	if err != nil {
		return HandleError(h.logger, c, toAppError(err))
	}

	return HandleSuccess(h.logger, c, &meetingDto.ProgressResponse{
		MeetingID: info.MeetingID.String(),
		Status:    info.Status,
		Stage:     info.Stage,
		Progress:  info.Progress,
		Error:     info.Error,
		UpdatedAt: info.UpdatedAt,
		Cached:    info.FromCache,
	})
}

// Transcript returns the transcript of a meeting
// @Summary      Get transcript
// @Description  Returns the full text and timestamped segments with speaker labels
// @Tags         Meetings
// @Produce      json
// @Param        id  path  string  true  "Meeting ID (UUID)"
// @Success      200  {object}  meeting.TranscriptResponse
// @Failure      404  {object}  map[string]interface{}  "Meeting or transcript not found"
// @Router       /meetings/{id}/transcript [get]
func (h *Meeting) Transcript(c echo.Context) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	transcript, err := h.svc.GetTranscript(c.Request().Context(), id)
	if err != nil {
		return HandleError(h.logger, c, toAppError(err))
	}

	return HandleSuccess(h.logger, c, meetingDto.ToTranscriptResponse(transcript))
}

// Minutes returns the generated minutes of a meeting
// @Summary      Get meeting minutes
// @Description  Returns the structured summary: key points, decisions, action items, participants
// @Tags         Meetings
// @Produce      json
// @Param        id  path  string  true  "Meeting ID (UUID)"
// @Success      200  {object}  meeting.MinutesResponse
// @Failure      404  {object}  map[string]interface{}  "Meeting or minutes not found"
// @Router       /meetings/{id}/minutes [get]
func (h *Meeting) Minutes(c echo.Context) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	minutes, err := h.svc.GetMinutes(c.Request().Context(), id)
	if err != nil {
		return HandleError(h.logger, c, toAppError(err))
	}

	return HandleSuccess(h.logger, c, meetingDto.ToMinutesResponse(minutes))
}

// Stats returns aggregated numbers across all meetings
// @Summary      Get meeting statistics
// @Description  Returns totals by status, total duration hours, total file size and success rate
// @Tags         Meetings
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "Aggregated statistics"
// @Router       /meetings/stats [get]
func (h *Meeting) Stats(c echo.Context) error {
	stats, err := h.svc.Stats(c.Request().Context())
	if err != nil {
		return HandleError(h.logger, c, toAppError(err))
	}
	return HandleSuccess(h.logger, c, stats)
}
