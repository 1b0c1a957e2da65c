package errors

import "errors"

// Common errors
var (
	ErrInvalidInput  = errors.New("invalid input")
	ErrNotFound      = errors.New("resource not found")
	ErrAlreadyExists = errors.New("resource already exists")
	ErrConflict      = errors.New("resource conflict")
	ErrInternalError = errors.New("internal server error")
)

// Meeting errors
var (
	ErrMeetingNotFound   = errors.New("meeting not found")
	ErrAlreadyProcessing = errors.New("meeting is already being processed")
	ErrAlreadyCompleted  = errors.New("meeting has already been processed")
	ErrInvalidTransition = errors.New("invalid meeting status transition")
	ErrMeetingNotReady   = errors.New("meeting has no processable audio")
)

// Upload errors
var (
	ErrUnsupportedFormat = errors.New("unsupported media format")
	ErrFileTooLarge      = errors.New("file exceeds maximum upload size")
	ErrEmptyFile         = errors.New("uploaded file is empty")
)

// Pipeline errors
var (
	ErrNoTranscript       = errors.New("transcript not available")
	ErrNoMinutes          = errors.New("meeting minutes not available")
	ErrNoDocument         = errors.New("exported document not available")
	ErrTranscriptTooShort = errors.New("transcript too short to summarize")
	ErrJobNotFound        = errors.New("processing job not found")
	ErrJobNotClaimable    = errors.New("processing job already claimed")
)
