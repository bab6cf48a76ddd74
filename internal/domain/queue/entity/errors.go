package entity

import "errors"

// Domain errors for the posting queue
var (
	// Validation errors
	ErrEmptyMediaPath   = errors.New("media path is required")
	ErrEmptyTitle       = errors.New("title is required")
	ErrEmptyAccountName = errors.New("account name is required")
	ErrEmptyProfileID   = errors.New("browser profile id is required")
	ErrInvalidPlatform  = errors.New("unknown platform")
	ErrHourOutOfRange   = errors.New("window hours must be between 0 and 23")

	// Business logic errors
	ErrContentNotFound  = errors.New("content item not found")
	ErrAccountNotFound  = errors.New("account not found")
	ErrWindowNotFound   = errors.New("platform window not found")
	ErrScheduleNotFound = errors.New("schedule entry not found")

	// Dispatch errors
	ErrNoPosterForPlatform = errors.New("no poster registered for platform")
)
