package handler

import (
	"net/http"
	"time"

	"github.com/astralis-app/astralis/internal/domain"
	"github.com/astralis-app/astralis/internal/limits"
)

type LimitsHandler struct {
	service limits.Service
}

func NewLimitsHandler(service limits.Service) *LimitsHandler {
	return &LimitsHandler{service: service}
}

type LimitRequest struct {
	Name              string                `json:"name" validate:"required,max=100"`
	Selection         domain.FocusSelection `json:"selection"`
	Enabled           bool                  `json:"enabled"`
	DailyLimitMinutes int                   `json:"daily_limit_minutes" validate:"required,gte=1,lte=1440"`
	ResetHour         int                   `json:"reset_hour" validate:"gte=0,lte=23"`
}

func (req LimitRequest) toDomain() domain.AppLimit {
	return domain.AppLimit{
		Name:              req.Name,
		Selection:         req.Selection,
		Enabled:           req.Enabled,
		DailyLimitMinutes: req.DailyLimitMinutes,
		ResetHour:         req.ResetHour,
	}
}

// HandleListLimits returns all limits with live usage status.
func (h *LimitsHandler) HandleListLimits(w http.ResponseWriter, r *http.Request) {
	statuses, err := h.service.Limits(r.Context())
	if err != nil {
		respondServiceError(w, r, "List limits", err)
		return
	}

	respondJSON(w, http.StatusOK, DataResponse{Data: statuses})
}

// HandleCreateLimit creates a daily usage limit.
func (h *LimitsHandler) HandleCreateLimit(w http.ResponseWriter, r *http.Request) {
	var req LimitRequest
	if err := DecodeAndValidateRequest(r, w, &req, "Create limit"); err != nil {
		return
	}

	limit, err := h.service.CreateLimit(r.Context(), req.toDomain())
	if err != nil {
		respondServiceError(w, r, "Create limit", err)
		return
	}

	respondJSON(w, http.StatusCreated, limit)
}

// HandleUpdateLimit replaces an existing limit's settings.
func (h *LimitsHandler) HandleUpdateLimit(w http.ResponseWriter, r *http.Request) {
	id, ok := GetIDParam(r, w)
	if !ok {
		return
	}

	var req LimitRequest
	if err := DecodeAndValidateRequest(r, w, &req, "Update limit"); err != nil {
		return
	}

	limit := req.toDomain()
	limit.ID = id
	if err := h.service.UpdateLimit(r.Context(), limit); err != nil {
		respondServiceError(w, r, "Update limit", err)
		return
	}

	respondJSON(w, http.StatusOK, limit)
}

// HandleDeleteLimit removes a limit and its usage record.
func (h *LimitsHandler) HandleDeleteLimit(w http.ResponseWriter, r *http.Request) {
	id, ok := GetIDParam(r, w)
	if !ok {
		return
	}

	if err := h.service.DeleteLimit(r.Context(), id); err != nil {
		respondServiceError(w, r, "Delete limit", err)
		return
	}

	respondJSON(w, http.StatusOK, SuccessResponse{Message: MsgLimitDeleted})
}

type RecordUsageRequest struct {
	Minutes int `json:"minutes" validate:"required,gte=1,lte=1440"`
}

// HandleRecordUsage adds observed usage minutes against a limit.
func (h *LimitsHandler) HandleRecordUsage(w http.ResponseWriter, r *http.Request) {
	id, ok := GetIDParam(r, w)
	if !ok {
		return
	}

	var req RecordUsageRequest
	if err := DecodeAndValidateRequest(r, w, &req, "Record usage"); err != nil {
		return
	}

	if err := h.service.RecordUsage(r.Context(), id, req.Minutes); err != nil {
		respondServiceError(w, r, "Record usage", err)
		return
	}

	respondJSON(w, http.StatusOK, SuccessResponse{Message: MsgUsageRecorded})
}

type ScheduleRequest struct {
	Name        string                `json:"name" validate:"required,max=100"`
	Selection   domain.FocusSelection `json:"selection"`
	Enabled     bool                  `json:"enabled"`
	StartHour   int                   `json:"start_hour" validate:"gte=0,lte=23"`
	StartMinute int                   `json:"start_minute" validate:"gte=0,lte=59"`
	EndHour     int                   `json:"end_hour" validate:"gte=0,lte=23"`
	EndMinute   int                   `json:"end_minute" validate:"gte=0,lte=59"`
	ActiveDays  []time.Weekday        `json:"active_days" validate:"required,min=1,dive,gte=0,lte=6"`
}

func (req ScheduleRequest) toDomain() domain.TimeSchedule {
	return domain.TimeSchedule{
		Name:        req.Name,
		Selection:   req.Selection,
		Enabled:     req.Enabled,
		StartHour:   req.StartHour,
		StartMinute: req.StartMinute,
		EndHour:     req.EndHour,
		EndMinute:   req.EndMinute,
		ActiveDays:  req.ActiveDays,
	}
}

// HandleListSchedules returns all schedules with their live window state.
func (h *LimitsHandler) HandleListSchedules(w http.ResponseWriter, r *http.Request) {
	statuses, err := h.service.Schedules(r.Context())
	if err != nil {
		respondServiceError(w, r, "List schedules", err)
		return
	}

	respondJSON(w, http.StatusOK, DataResponse{Data: statuses})
}

// HandleCreateSchedule creates a recurring blocking window.
func (h *LimitsHandler) HandleCreateSchedule(w http.ResponseWriter, r *http.Request) {
	var req ScheduleRequest
	if err := DecodeAndValidateRequest(r, w, &req, "Create schedule"); err != nil {
		return
	}

	schedule, err := h.service.CreateSchedule(r.Context(), req.toDomain())
	if err != nil {
		respondServiceError(w, r, "Create schedule", err)
		return
	}

	respondJSON(w, http.StatusCreated, schedule)
}

// HandleUpdateSchedule replaces an existing schedule's settings.
func (h *LimitsHandler) HandleUpdateSchedule(w http.ResponseWriter, r *http.Request) {
	id, ok := GetIDParam(r, w)
	if !ok {
		return
	}

	var req ScheduleRequest
	if err := DecodeAndValidateRequest(r, w, &req, "Update schedule"); err != nil {
		return
	}

	schedule := req.toDomain()
	schedule.ID = id
	if err := h.service.UpdateSchedule(r.Context(), schedule); err != nil {
		respondServiceError(w, r, "Update schedule", err)
		return
	}

	respondJSON(w, http.StatusOK, schedule)
}

// HandleDeleteSchedule removes a schedule.
func (h *LimitsHandler) HandleDeleteSchedule(w http.ResponseWriter, r *http.Request) {
	id, ok := GetIDParam(r, w)
	if !ok {
		return
	}

	if err := h.service.DeleteSchedule(r.Context(), id); err != nil {
		respondServiceError(w, r, "Delete schedule", err)
		return
	}

	respondJSON(w, http.StatusOK, SuccessResponse{Message: MsgScheduleDeleted})
}

type SetScheduleEnabledRequest struct {
	Enabled *bool `json:"enabled" validate:"required"`
}

// ScheduleEnabledResponse reports whether the window is active right now
// after the toggle.
type ScheduleEnabledResponse struct {
	Enabled     bool `json:"enabled"`
	CurrentlyIn bool `json:"currently_in"`
}

// HandleSetScheduleEnabled toggles a schedule on or off.
func (h *LimitsHandler) HandleSetScheduleEnabled(w http.ResponseWriter, r *http.Request) {
	id, ok := GetIDParam(r, w)
	if !ok {
		return
	}

	var req SetScheduleEnabledRequest
	if err := DecodeAndValidateRequest(r, w, &req, "Toggle schedule"); err != nil {
		return
	}

	currentlyIn, err := h.service.SetScheduleEnabled(r.Context(), id, *req.Enabled)
	if err != nil {
		respondServiceError(w, r, "Toggle schedule", err)
		return
	}

	respondJSON(w, http.StatusOK, ScheduleEnabledResponse{
		Enabled:     *req.Enabled,
		CurrentlyIn: currentlyIn,
	})
}
