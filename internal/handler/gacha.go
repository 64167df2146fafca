package handler

import (
	"net/http"

	"github.com/astralis-app/astralis/internal/gacha"
)

type GachaHandler struct {
	service gacha.Service
}

func NewGachaHandler(service gacha.Service) *GachaHandler {
	return &GachaHandler{service: service}
}

// PullResponse is a resolved pull with the display balance.
type PullResponse struct {
	gacha.PullResult
	BalanceDisplay string `json:"balance_display"`
}

// HandlePull resolves a single gacha pull.
func (h *GachaHandler) HandlePull(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.PerformPull(r.Context())
	if err != nil {
		respondServiceError(w, r, "Gacha pull", err)
		return
	}

	respondJSON(w, http.StatusCreated, PullResponse{
		PullResult:     *result,
		BalanceDisplay: FormatStardust(result.NewBalance),
	})
}

// TenPullResponse carries all ten results; the balance reflects the batch.
type TenPullResponse struct {
	Results        []gacha.PullResult `json:"results"`
	NewBalance     int                `json:"new_balance"`
	BalanceDisplay string             `json:"balance_display"`
}

// HandleTenPull resolves a discounted ten-pull atomically.
func (h *GachaHandler) HandleTenPull(w http.ResponseWriter, r *http.Request) {
	results, err := h.service.PerformTenPull(r.Context())
	if err != nil {
		respondServiceError(w, r, "Gacha ten-pull", err)
		return
	}

	resp := TenPullResponse{Results: results}
	if n := len(results); n > 0 {
		resp.NewBalance = results[n-1].NewBalance
		resp.BalanceDisplay = FormatStardust(resp.NewBalance)
	}
	respondJSON(w, http.StatusCreated, resp)
}

// HandlePullHistory returns recent pulls, most recent first.
func (h *GachaHandler) HandlePullHistory(w http.ResponseWriter, r *http.Request) {
	history, err := h.service.History(r.Context())
	if err != nil {
		respondServiceError(w, r, "Pull history", err)
		return
	}

	respondJSON(w, http.StatusOK, DataResponse{Data: history})
}

// HandleRates exposes the drop table and live pity counters.
func (h *GachaHandler) HandleRates(w http.ResponseWriter, r *http.Request) {
	rates, err := h.service.Rates(r.Context())
	if err != nil {
		respondServiceError(w, r, "Gacha rates", err)
		return
	}

	respondJSON(w, http.StatusOK, rates)
}
