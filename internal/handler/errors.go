package handler

// Generic HTTP error messages for client responses.
// These messages intentionally do not expose internal error details.
// Both handlers and tests should reference these constants to maintain consistency.
const (
	ErrMsgInvalidRequest        = "Invalid request body"
	ErrMsgInvalidRequestSummary = "Invalid request"

	// URL parameter error messages
	ErrMsgInvalidIDParam = "Invalid id"

	// Generic messages
	ErrMsgGenericServerError = "Something went wrong"
	ErrMsgUnknownError       = "Unknown error"
)

// User-facing error messages for service errors
const (
	ErrMsgInsufficientStardustError = "Not enough stardust"
	ErrMsgAnteAlreadyHeldError      = "An ante is already at stake"
	ErrMsgAlreadyOwnedError         = "You already own that style"
	ErrMsgStyleNotOwnedError        = "You don't own that style"
	ErrMsgStyleNotFoundError        = "Style not found"
	ErrMsgMaxStarLevelError         = "That style is already at max stars"
	ErrMsgInsufficientShardsError   = "Not enough shards"
	ErrMsgInvalidSelectionError     = "Select at least one app or category"
	ErrMsgMonitoringStartError      = "Could not start focus monitoring. Check screen time permissions."
	ErrMsgInvalidTransitionError    = "That action is not available right now"
	ErrMsgQuitTooSoonError          = "Hold on a moment before giving up"
	ErrMsgSessionActiveError        = "A focus session is already running"
	ErrMsgLimitNotFoundError        = "Limit not found"
	ErrMsgScheduleNotFoundError     = "Schedule not found"
)
