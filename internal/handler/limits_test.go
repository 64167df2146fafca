package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/astralis-app/astralis/internal/domain"
	"github.com/astralis-app/astralis/internal/limits"
)

// withIDParam injects a chi route context carrying the {id} URL parameter.
func withIDParam(req *http.Request, id string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", id)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func validLimitRequest() LimitRequest {
	return LimitRequest{
		Name:              "Social media",
		Selection:         domain.FocusSelection{AppIDs: []string{"app.social"}},
		Enabled:           true,
		DailyLimitMinutes: 60,
		ResetHour:         4,
	}
}

func TestHandleCreateLimit(t *testing.T) {
	tests := []struct {
		name           string
		reqBody        interface{}
		setupMocks     func(*mockLimitsService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name:           "Invalid JSON",
			reqBody:        "invalid json",
			setupMocks:     func(ml *mockLimitsService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   ErrMsgInvalidRequest,
		},
		{
			name: "Missing Name",
			reqBody: LimitRequest{
				DailyLimitMinutes: 60,
			},
			setupMocks:     func(ml *mockLimitsService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   "This field is required",
		},
		{
			name:    "Success",
			reqBody: validLimitRequest(),
			setupMocks: func(ml *mockLimitsService) {
				created := validLimitRequest().toDomain()
				created.ID = uuid.MustParse("00000000-0000-0000-0000-000000000001")
				ml.On("CreateLimit", mock.Anything, mock.Anything).Return(&created, nil)
			},
			expectedStatus: http.StatusCreated,
			expectedBody:   `"id":"00000000-0000-0000-0000-000000000001"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := &mockLimitsService{}
			tt.setupMocks(mockService)
			handler := NewLimitsHandler(mockService)

			var body []byte
			if s, ok := tt.reqBody.(string); ok {
				body = []byte(s)
			} else {
				body, _ = json.Marshal(tt.reqBody)
			}

			req := httptest.NewRequest("POST", "/limits", bytes.NewBuffer(body))
			rec := httptest.NewRecorder()
			handler.HandleCreateLimit(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.expectedBody)
			mockService.AssertExpectations(t)
		})
	}
}

func TestHandleUpdateLimit(t *testing.T) {
	t.Run("Malformed ID", func(t *testing.T) {
		mockService := &mockLimitsService{}
		handler := NewLimitsHandler(mockService)

		body, _ := json.Marshal(validLimitRequest())
		req := withIDParam(httptest.NewRequest("PUT", "/limits/not-a-uuid", bytes.NewBuffer(body)), "not-a-uuid")
		rec := httptest.NewRecorder()
		handler.HandleUpdateLimit(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), ErrMsgInvalidIDParam)
	})

	t.Run("Not Found", func(t *testing.T) {
		id := uuid.New()
		mockService := &mockLimitsService{}
		mockService.On("UpdateLimit", mock.Anything, mock.Anything).Return(domain.ErrLimitNotFound)
		handler := NewLimitsHandler(mockService)

		body, _ := json.Marshal(validLimitRequest())
		req := withIDParam(httptest.NewRequest("PUT", "/limits/"+id.String(), bytes.NewBuffer(body)), id.String())
		rec := httptest.NewRecorder()
		handler.HandleUpdateLimit(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Contains(t, rec.Body.String(), ErrMsgLimitNotFoundError)
	})

	t.Run("Success Carries URL ID", func(t *testing.T) {
		id := uuid.New()
		mockService := &mockLimitsService{}
		mockService.On("UpdateLimit", mock.Anything, mock.MatchedBy(func(l domain.AppLimit) bool {
			return l.ID == id
		})).Return(nil)
		handler := NewLimitsHandler(mockService)

		body, _ := json.Marshal(validLimitRequest())
		req := withIDParam(httptest.NewRequest("PUT", "/limits/"+id.String(), bytes.NewBuffer(body)), id.String())
		rec := httptest.NewRecorder()
		handler.HandleUpdateLimit(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		mockService.AssertExpectations(t)
	})
}

func TestHandleRecordUsage(t *testing.T) {
	id := uuid.New()

	t.Run("Zero Minutes Rejected", func(t *testing.T) {
		mockService := &mockLimitsService{}
		handler := NewLimitsHandler(mockService)

		body, _ := json.Marshal(RecordUsageRequest{Minutes: 0})
		req := withIDParam(httptest.NewRequest("POST", "/limits/"+id.String()+"/usage", bytes.NewBuffer(body)), id.String())
		rec := httptest.NewRecorder()
		handler.HandleRecordUsage(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("Success", func(t *testing.T) {
		mockService := &mockLimitsService{}
		mockService.On("RecordUsage", mock.Anything, id, 15).Return(nil)
		handler := NewLimitsHandler(mockService)

		body, _ := json.Marshal(RecordUsageRequest{Minutes: 15})
		req := withIDParam(httptest.NewRequest("POST", "/limits/"+id.String()+"/usage", bytes.NewBuffer(body)), id.String())
		rec := httptest.NewRecorder()
		handler.HandleRecordUsage(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), MsgUsageRecorded)
	})
}

func TestHandleListLimits(t *testing.T) {
	mockService := &mockLimitsService{}
	mockService.On("Limits", mock.Anything).Return([]limits.LimitStatus{
		{
			AppLimit:    domain.AppLimit{Name: "Social media", DailyLimitMinutes: 60},
			UsedMinutes: 75,
			Progress:    1.25,
			Exceeded:    true,
		},
	}, nil)
	handler := NewLimitsHandler(mockService)

	req := httptest.NewRequest("GET", "/limits", nil)
	rec := httptest.NewRecorder()
	handler.HandleListLimits(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"exceeded":true`)
}

func TestHandleCreateSchedule(t *testing.T) {
	t.Run("No Active Days", func(t *testing.T) {
		mockService := &mockLimitsService{}
		handler := NewLimitsHandler(mockService)

		body, _ := json.Marshal(ScheduleRequest{
			Name:      "Bedtime",
			Selection: domain.FocusSelection{AppIDs: []string{"app.social"}},
			StartHour: 21,
			EndHour:   7,
		})
		req := httptest.NewRequest("POST", "/schedules", bytes.NewBuffer(body))
		rec := httptest.NewRecorder()
		handler.HandleCreateSchedule(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("Success", func(t *testing.T) {
		mockService := &mockLimitsService{}
		created := domain.TimeSchedule{
			ID:         uuid.New(),
			Name:       "Bedtime",
			StartHour:  21,
			EndHour:    7,
			ActiveDays: []time.Weekday{time.Monday},
		}
		mockService.On("CreateSchedule", mock.Anything, mock.Anything).Return(&created, nil)
		handler := NewLimitsHandler(mockService)

		body, _ := json.Marshal(ScheduleRequest{
			Name:       "Bedtime",
			Selection:  domain.FocusSelection{AppIDs: []string{"app.social"}},
			StartHour:  21,
			EndHour:    7,
			ActiveDays: []time.Weekday{time.Monday},
		})
		req := httptest.NewRequest("POST", "/schedules", bytes.NewBuffer(body))
		rec := httptest.NewRecorder()
		handler.HandleCreateSchedule(rec, req)

		assert.Equal(t, http.StatusCreated, rec.Code)
		assert.Contains(t, rec.Body.String(), `"name":"Bedtime"`)
	})
}

func TestHandleSetScheduleEnabled(t *testing.T) {
	id := uuid.New()

	t.Run("Missing Enabled Field", func(t *testing.T) {
		mockService := &mockLimitsService{}
		handler := NewLimitsHandler(mockService)

		req := withIDParam(httptest.NewRequest("POST", "/schedules/"+id.String()+"/enabled", bytes.NewBufferString(`{}`)), id.String())
		rec := httptest.NewRecorder()
		handler.HandleSetScheduleEnabled(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("Enable Inside Window", func(t *testing.T) {
		mockService := &mockLimitsService{}
		mockService.On("SetScheduleEnabled", mock.Anything, id, true).Return(true, nil)
		handler := NewLimitsHandler(mockService)

		req := withIDParam(httptest.NewRequest("POST", "/schedules/"+id.String()+"/enabled", bytes.NewBufferString(`{"enabled":true}`)), id.String())
		rec := httptest.NewRecorder()
		handler.HandleSetScheduleEnabled(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"currently_in":true`)
	})
}

func TestHandleDeleteSchedule_NotFound(t *testing.T) {
	id := uuid.New()
	mockService := &mockLimitsService{}
	mockService.On("DeleteSchedule", mock.Anything, id).Return(domain.ErrScheduleNotFound)
	handler := NewLimitsHandler(mockService)

	req := withIDParam(httptest.NewRequest("DELETE", "/schedules/"+id.String(), nil), id.String())
	rec := httptest.NewRecorder()
	handler.HandleDeleteSchedule(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), ErrMsgScheduleNotFoundError)
}
