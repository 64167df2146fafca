package handler

import (
	"net/http"

	"github.com/astralis-app/astralis/internal/domain"
	"github.com/astralis-app/astralis/internal/rewards"
)

type RewardsHandler struct {
	service rewards.Service
}

func NewRewardsHandler(service rewards.Service) *RewardsHandler {
	return &RewardsHandler{service: service}
}

// BalanceResponse reports the stardust ledger with a display string.
type BalanceResponse struct {
	domain.StardustBalance
	Display string `json:"display"`
}

// HandleBalance returns the stardust ledger.
func (h *RewardsHandler) HandleBalance(w http.ResponseWriter, r *http.Request) {
	balance, err := h.service.Balance(r.Context())
	if err != nil {
		respondServiceError(w, r, "Get balance", err)
		return
	}

	respondJSON(w, http.StatusOK, BalanceResponse{
		StardustBalance: balance,
		Display:         FormatStardust(balance.Current),
	})
}

// HandleProgress returns session counters, streak, and achieved milestones.
func (h *RewardsHandler) HandleProgress(w http.ResponseWriter, r *http.Request) {
	progress, err := h.service.Progress(r.Context())
	if err != nil {
		respondServiceError(w, r, "Get progress", err)
		return
	}

	respondJSON(w, http.StatusOK, progress)
}

// HandleMilestones returns the milestone catalog with achievement state.
func (h *RewardsHandler) HandleMilestones(w http.ResponseWriter, r *http.Request) {
	milestones, err := h.service.Milestones(r.Context())
	if err != nil {
		respondServiceError(w, r, "Get milestones", err)
		return
	}

	respondJSON(w, http.StatusOK, DataResponse{Data: milestones})
}

// HandleCollection returns the style catalog annotated with ownership,
// shard balances, and upgrade state.
func (h *RewardsHandler) HandleCollection(w http.ResponseWriter, r *http.Request) {
	collection, err := h.service.Collection(r.Context())
	if err != nil {
		respondServiceError(w, r, "Get collection", err)
		return
	}

	respondJSON(w, http.StatusOK, DataResponse{Data: collection})
}

type StyleActionRequest struct {
	StyleID string `json:"style_id" validate:"required"`
}

// HandlePurchaseStyle buys a direct-purchase style with stardust.
func (h *RewardsHandler) HandlePurchaseStyle(w http.ResponseWriter, r *http.Request) {
	var req StyleActionRequest
	if err := DecodeAndValidateRequest(r, w, &req, "Purchase style"); err != nil {
		return
	}

	if err := h.service.PurchaseStyle(r.Context(), domain.StyleID(req.StyleID)); err != nil {
		respondServiceError(w, r, "Purchase style", err)
		return
	}

	respondJSON(w, http.StatusOK, SuccessResponse{Message: MsgStylePurchased})
}

// HandleEquipStyle makes an owned style the active one.
func (h *RewardsHandler) HandleEquipStyle(w http.ResponseWriter, r *http.Request) {
	var req StyleActionRequest
	if err := DecodeAndValidateRequest(r, w, &req, "Equip style"); err != nil {
		return
	}

	if err := h.service.EquipStyle(r.Context(), domain.StyleID(req.StyleID)); err != nil {
		respondServiceError(w, r, "Equip style", err)
		return
	}

	respondJSON(w, http.StatusOK, SuccessResponse{Message: MsgStyleEquipped})
}

// HandleUnlockStyle converts accumulated shards into ownership.
func (h *RewardsHandler) HandleUnlockStyle(w http.ResponseWriter, r *http.Request) {
	var req StyleActionRequest
	if err := DecodeAndValidateRequest(r, w, &req, "Unlock style"); err != nil {
		return
	}

	if err := h.service.UnlockStyle(r.Context(), domain.StyleID(req.StyleID)); err != nil {
		respondServiceError(w, r, "Unlock style", err)
		return
	}

	respondJSON(w, http.StatusOK, SuccessResponse{Message: MsgStyleUnlocked})
}

// HandleUpgradeStyle spends shards to raise a style's star level.
func (h *RewardsHandler) HandleUpgradeStyle(w http.ResponseWriter, r *http.Request) {
	var req StyleActionRequest
	if err := DecodeAndValidateRequest(r, w, &req, "Upgrade style"); err != nil {
		return
	}

	if err := h.service.UpgradeStyle(r.Context(), domain.StyleID(req.StyleID)); err != nil {
		respondServiceError(w, r, "Upgrade style", err)
		return
	}

	respondJSON(w, http.StatusOK, SuccessResponse{Message: MsgStyleUpgraded})
}
