package handler

import (
	"net/http"

	"github.com/astralis-app/astralis/internal/session"
)

type SessionHandler struct {
	service session.Service
}

func NewSessionHandler(service session.Service) *SessionHandler {
	return &SessionHandler{service: service}
}

// HandleStartSession begins a focus session with an optional ante.
func (h *SessionHandler) HandleStartSession(w http.ResponseWriter, r *http.Request) {
	var req session.StartRequest
	if err := DecodeAndValidateRequest(r, w, &req, "Start session"); err != nil {
		return
	}

	status, err := h.service.Start(r.Context(), req)
	if err != nil {
		respondServiceError(w, r, "Start session", err)
		return
	}

	respondJSON(w, http.StatusCreated, status)
}

// HandleRequestQuit moves a focusing session into the cooldown state.
func (h *SessionHandler) HandleRequestQuit(w http.ResponseWriter, r *http.Request) {
	status, err := h.service.RequestQuit(r.Context())
	if err != nil {
		respondServiceError(w, r, "Request quit", err)
		return
	}

	respondJSON(w, http.StatusOK, status)
}

// HandleResume returns a cooling-down session to focusing.
func (h *SessionHandler) HandleResume(w http.ResponseWriter, r *http.Request) {
	status, err := h.service.Resume(r.Context())
	if err != nil {
		respondServiceError(w, r, "Resume session", err)
		return
	}

	respondJSON(w, http.StatusOK, status)
}

// HandleConfirmQuit abandons the session after the cooldown dwell.
func (h *SessionHandler) HandleConfirmQuit(w http.ResponseWriter, r *http.Request) {
	status, err := h.service.ConfirmQuit(r.Context())
	if err != nil {
		respondServiceError(w, r, "Confirm quit", err)
		return
	}

	respondJSON(w, http.StatusOK, status)
}

// SessionStatusResponse decorates the session status with a toast message
// when the last outcome was a completed session.
type SessionStatusResponse struct {
	*session.Status
	Message string `json:"message,omitempty"`
}

func statusResponse(status *session.Status) SessionStatusResponse {
	resp := SessionStatusResponse{Status: status}
	if status.LastOutcome != nil {
		resp.Message = completionMessage(status.LastOutcome.Total, status.LastOutcome.Doubled)
	}
	return resp
}

// HandleSessionStatus reports the live session state, settling an expired
// countdown first.
func (h *SessionHandler) HandleSessionStatus(w http.ResponseWriter, r *http.Request) {
	status, err := h.service.Status(r.Context())
	if err != nil {
		respondServiceError(w, r, "Session status", err)
		return
	}

	respondJSON(w, http.StatusOK, statusResponse(status))
}

// HandleForeground reconciles the in-memory state machine against the
// persisted snapshot after the app returns to the foreground.
func (h *SessionHandler) HandleForeground(w http.ResponseWriter, r *http.Request) {
	status, err := h.service.OnForeground(r.Context())
	if err != nil {
		respondServiceError(w, r, "Foreground reconcile", err)
		return
	}

	respondJSON(w, http.StatusOK, statusResponse(status))
}
