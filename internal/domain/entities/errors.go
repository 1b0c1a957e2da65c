package entities

import "errors"

// Domain errors
var (
	// Meeting errors
	ErrMeetingNotFound         = errors.New("meeting not found")
	ErrInvalidStatusTransition = errors.New("invalid status transition")
	ErrMeetingAlreadyTerminal  = errors.New("meeting already in terminal status")
	ErrMeetingNotReprocessable = errors.New("meeting cannot be reprocessed in its current status")

	// Transcript errors
	ErrTranscriptNotFound = errors.New("transcript not found")
	ErrTranscriptExists   = errors.New("transcript already exists for meeting")

	// Minutes errors
	ErrMinutesNotFound = errors.New("meeting minutes not found")
	ErrMinutesExist    = errors.New("meeting minutes already exist for transcript")

	// Job errors
	ErrJobNotFound     = errors.New("processing job not found")
	ErrJobNotClaimable = errors.New("processing job cannot be claimed")

	// Generic errors
	ErrInvalidRequest = errors.New("invalid request")
)
