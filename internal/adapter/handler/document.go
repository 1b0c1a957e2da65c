package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

const (
	docxContentType    = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	presignedURLExpiry = 15 * time.Minute
)

// Document serves the exported minutes file
// @Summary      Download exported minutes
// @Description  Streams the latest rendered .docx as an attachment; on object storage redirects to a presigned URL
// @Tags         Meetings
// @Produce      application/vnd.openxmlformats-officedocument.wordprocessingml.document
// @Param        id  path  string  true  "Meeting ID (UUID)"
// @Success      200  {file}    file                    "Document content"
// @Success      302  {string}  string                  "Redirect to a presigned URL"
// @Failure      404  {object}  map[string]interface{}  "Meeting or document not found"
// @Router       /meetings/{id}/document [get]
func (h *Meeting) Document(c echo.Context) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	ctx := c.Request().Context()

	// Object storage serves the file itself; a redirect avoids proxying the
	// bytes through the API.
	if url, err := h.svc.PresignDocument(ctx, id, presignedURLExpiry); err == nil && url != "" {
		if h.logger != nil {
			h.logger.Info("📄 Redirecting document download",
				zap.String("meeting_id", id.String()))
		}
		return c.Redirect(http.StatusFound, url)
	}

	document, reader, err := h.svc.OpenDocument(ctx, id)
	if err != nil {
		return HandleError(h.logger, c, toAppError(err))
	}
	defer reader.Close()

	if h.logger != nil {
		h.logger.Info("📄 Streaming document download",
			zap.String("meeting_id", id.String()),
			zap.String("filename", document.Filename))
	}

	c.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf(`attachment; filename=%q`, document.Filename))
	return c.Stream(http.StatusOK, docxContentType, reader)
}
