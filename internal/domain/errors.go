package domain

import "errors"

// Error message string constants - single source of truth for error messages
// Use these in assert.Contains() checks when testing error messages
const (
	// Economy errors
	ErrMsgInsufficientStardust = "insufficient stardust"
	ErrMsgAnteAlreadyHeld      = "an ante is already held"

	// Collection errors
	ErrMsgAlreadyOwned       = "style already owned"
	ErrMsgStyleNotOwned      = "style is not owned"
	ErrMsgStyleNotFound      = "style not found"
	ErrMsgMaxStarLevel       = "style is already at max star level"
	ErrMsgInsufficientShards = "insufficient shards"

	// Session errors
	ErrMsgInvalidSelection  = "no apps or categories selected"
	ErrMsgMonitoringStart   = "failed to start activity monitoring"
	ErrMsgInvalidTransition = "invalid session transition"
	ErrMsgQuitTooSoon       = "quit requested before minimum dwell"
	ErrMsgSessionActive     = "a session is already active"

	// Limits errors
	ErrMsgLimitNotFound    = "limit not found"
	ErrMsgScheduleNotFound = "schedule not found"

	// Input errors
	ErrMsgInvalidInput = "invalid input"
)

// Common domain errors
// These errors should be used consistently across all layers of the application.
// Wrap these errors with fmt.Errorf("%w: %s", domain.ErrXxx, details) for additional context.
var (
	// Economy errors
	ErrInsufficientStardust = errors.New(ErrMsgInsufficientStardust)
	ErrAnteAlreadyHeld      = errors.New(ErrMsgAnteAlreadyHeld)

	// Collection errors
	ErrAlreadyOwned       = errors.New(ErrMsgAlreadyOwned)
	ErrStyleNotOwned      = errors.New(ErrMsgStyleNotOwned)
	ErrStyleNotFound      = errors.New(ErrMsgStyleNotFound)
	ErrMaxStarLevel       = errors.New(ErrMsgMaxStarLevel)
	ErrInsufficientShards = errors.New(ErrMsgInsufficientShards)

	// Session errors
	ErrInvalidSelection  = errors.New(ErrMsgInvalidSelection)
	ErrMonitoringStart   = errors.New(ErrMsgMonitoringStart)
	ErrInvalidTransition = errors.New(ErrMsgInvalidTransition)
	ErrQuitTooSoon       = errors.New(ErrMsgQuitTooSoon)
	ErrSessionActive     = errors.New(ErrMsgSessionActive)

	// Limits errors
	ErrLimitNotFound    = errors.New(ErrMsgLimitNotFound)
	ErrScheduleNotFound = errors.New(ErrMsgScheduleNotFound)

	// Validation errors
	ErrInvalidInput = errors.New(ErrMsgInvalidInput)
)
