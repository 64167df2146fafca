package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/astralis-app/astralis/internal/domain"
	"github.com/astralis-app/astralis/internal/logger"
)

// Standard response types for consistent API responses

// SuccessResponse represents a simple successful operation message
type SuccessResponse struct {
	Message string `json:"message"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error"`
}

// DataResponse represents a response with data payload
type DataResponse struct {
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data"`
}

// respondJSON sends a JSON response with the given status code and payload
func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	// Get a buffer from the pool to reduce allocations
	buf := getBuffer()
	defer putBuffer(buf)

	if err := json.NewEncoder(buf).Encode(payload); err != nil {
		// Headers are already sent; all we can do is log.
		slog.Error("Failed to encode JSON response", "error", err)
		return
	}

	if _, err := buf.WriteTo(w); err != nil {
		slog.Error("Failed to write response buffer", "error", err)
	}
}

// respondError sends a JSON error response
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, ErrorResponse{Error: message})
}

// respondServiceError maps a service error to a user-facing response and logs it.
func respondServiceError(w http.ResponseWriter, r *http.Request, opName string, err error) {
	log := logger.FromContext(r.Context())

	status, message := mapServiceErrorToUserMessage(err)
	if status >= http.StatusInternalServerError {
		log.Error(opName+" failed", "error", err)
	} else {
		log.Warn(opName+" rejected", "error", err)
	}
	respondError(w, status, message)
}

// mapServiceErrorToUserMessage maps domain errors to user-friendly HTTP responses.
func mapServiceErrorToUserMessage(err error) (int, string) {
	if err == nil {
		return http.StatusInternalServerError, ErrMsgUnknownError
	}

	switch {
	case errors.Is(err, domain.ErrInsufficientStardust):
		return http.StatusBadRequest, ErrMsgInsufficientStardustError
	case errors.Is(err, domain.ErrAnteAlreadyHeld):
		return http.StatusConflict, ErrMsgAnteAlreadyHeldError
	case errors.Is(err, domain.ErrAlreadyOwned):
		return http.StatusBadRequest, ErrMsgAlreadyOwnedError
	case errors.Is(err, domain.ErrStyleNotOwned):
		return http.StatusBadRequest, ErrMsgStyleNotOwnedError
	case errors.Is(err, domain.ErrStyleNotFound):
		return http.StatusNotFound, ErrMsgStyleNotFoundError
	case errors.Is(err, domain.ErrMaxStarLevel):
		return http.StatusBadRequest, ErrMsgMaxStarLevelError
	case errors.Is(err, domain.ErrInsufficientShards):
		return http.StatusBadRequest, ErrMsgInsufficientShardsError
	case errors.Is(err, domain.ErrInvalidSelection):
		return http.StatusBadRequest, ErrMsgInvalidSelectionError
	case errors.Is(err, domain.ErrMonitoringStart):
		return http.StatusConflict, ErrMsgMonitoringStartError
	case errors.Is(err, domain.ErrInvalidTransition):
		return http.StatusConflict, ErrMsgInvalidTransitionError
	case errors.Is(err, domain.ErrQuitTooSoon):
		return http.StatusTooEarly, ErrMsgQuitTooSoonError
	case errors.Is(err, domain.ErrSessionActive):
		return http.StatusConflict, ErrMsgSessionActiveError
	case errors.Is(err, domain.ErrLimitNotFound):
		return http.StatusNotFound, ErrMsgLimitNotFoundError
	case errors.Is(err, domain.ErrScheduleNotFound):
		return http.StatusNotFound, ErrMsgScheduleNotFoundError
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest, ErrMsgInvalidRequestSummary
	}

	return http.StatusInternalServerError, ErrMsgGenericServerError
}
