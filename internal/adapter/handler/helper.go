package handler

import (
	stdErrors "errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/YouYou-1402/ai-meeting-transcriber/errors"
	usecaseErrors "github.com/YouYou-1402/ai-meeting-transcriber/internal/usecase/errors"
)

// Response shapes
type success struct {
	Code    interface{} `json:"code,omitempty"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

type errs struct {
	Code    interface{} `json:"code,omitempty"`
	Message string      `json:"message,omitempty"`
	Info    string      `json:"info,omitempty"`
}

// getRequestID tries to read X-Request-ID from the request
func getRequestID(c echo.Context) string {
	if c == nil || c.Request() == nil {
		return ""
	}
	return c.Request().Header.Get("X-Request-ID")
}

// HandleSuccess writes a standardized success response
func HandleSuccess(logger *zap.Logger, c echo.Context, data interface{}) error {
	return writeSuccess(logger, c, http.StatusOK, data)
}

// HandleCreated writes a standardized success response with 201 Created
func HandleCreated(logger *zap.Logger, c echo.Context, data interface{}) error {
	return writeSuccess(logger, c, http.StatusCreated, data)
}

func writeSuccess(logger *zap.Logger, c echo.Context, status int, data interface{}) error {
	resp := success{
		Code:    int(errors.ErrorCode_HTTP_OK),
		Message: "success",
		Data:    data,
	}

	if logger != nil {
		logger.Info("http.response.success",
			zap.String("request_id", getRequestID(c)),
			zap.String("path", c.Path()),
		)
	}

	return c.JSON(status, resp)
}

// HandleError centralizes error handling and logging
func HandleError(logger *zap.Logger, c echo.Context, err error) error {
	reqID := getRequestID(c)

	var appErr errors.AppError
	if stdErrors.As(err, &appErr) {
		if logger != nil {
			logger.Error("http.response.error",
				zap.String("request_id", reqID),
				zap.String("path", c.Path()),
				zap.Any("app_code", appErr.Code),
				zap.Error(err),
			)
		}

		info := ""
		if appErr.Raw != nil {
			info = appErr.Raw.Error()
		}

		body := errs{
			Code:    appErr.Code,
			Message: appErr.Message,
			Info:    info,
		}

		return c.JSON(appErr.HTTPCode, body)
	}

	// Non-AppError => internal server error
	if logger != nil {
		logger.Error("http.response.error",
			zap.String("request_id", reqID),
			zap.String("path", c.Path()),
			zap.Error(err),
		)
	}

	body := errs{
		Code:    errors.ErrorCode_INTERNAL,
		Message: "Internal server error",
		Info:    err.Error(),
	}

	return c.JSON(http.StatusInternalServerError, body)
}

// toAppError maps use case sentinels onto the response error vocabulary.
// Errors that already carry an AppError pass through untouched.
func toAppError(err error) error {
	var appErr errors.AppError
	if stdErrors.As(err, &appErr) {
		return err
	}

	switch {
	case stdErrors.Is(err, usecaseErrors.ErrMeetingNotFound):
		return errors.ErrNotFound("meeting")
	case stdErrors.Is(err, usecaseErrors.ErrNoTranscript):
		return errors.ErrNotFound("transcript")
	case stdErrors.Is(err, usecaseErrors.ErrNoMinutes):
		return errors.ErrNotFound("meeting minutes")
	case stdErrors.Is(err, usecaseErrors.ErrNoDocument):
		return errors.ErrNotFound("exported document")
	case stdErrors.Is(err, usecaseErrors.ErrJobNotFound):
		return errors.ErrNotFound("processing job")
	case stdErrors.Is(err, usecaseErrors.ErrAlreadyProcessing):
		return errors.ErrConflict("meeting is already being processed")
	case stdErrors.Is(err, usecaseErrors.ErrAlreadyCompleted):
		return errors.ErrConflict("meeting has already been processed; pass force to reprocess")
	case stdErrors.Is(err, usecaseErrors.ErrInvalidInput):
		return errors.ErrInvalidArgument(err.Error())
	case stdErrors.Is(err, usecaseErrors.ErrMeetingNotReady):
		return errors.ErrMediaProbeFailed(err)
	default:
		return errors.ErrInternal(err)
	}
}

// parseUUIDParam reads a path parameter as a UUID
func parseUUIDParam(c echo.Context, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		return uuid.Nil, errors.ErrInvalidArgument("invalid " + name + " format")
	}
	return id, nil
}
