package httpapi

import (
	"net/http"
)

type squadRecommendationRequest struct {
	Budget    float64 `json:"budget" validate:"gte=0,lte=200"`
	Formation string  `json:"formation" validate:"omitempty,max=8"`
}

type transferRecommendationRequest struct {
	PlayerIDs    []int   `json:"player_ids" validate:"required,min=1,max=15,dive,gt=0"`
	Bank         float64 `json:"bank" validate:"gte=0"`
	MaxTransfers int     `json:"max_transfers" validate:"gte=0,lte=15"`
}

type captainRecommendationRequest struct {
	PlayerIDs []int `json:"player_ids" validate:"omitempty,max=15,dive,gt=0"`
	Gameweek  int   `json:"gameweek" validate:"gte=0,lte=38"`
}

// RecommendSquad builds a full 15-man squad for the given budget.
func (h *Handler) RecommendSquad(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RecommendSquad")
	defer span.End()

	var req squadRecommendationRequest
	if err := h.decodeBody(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	rec, err := h.recommendationService.RecommendSquad(ctx, req.Budget, req.Formation)
	if err != nil {
		h.logger.ErrorContext(ctx, "recommend squad failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, rec)
}

func (h *Handler) RecommendTransfers(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RecommendTransfers")
	defer span.End()

	var req transferRecommendationRequest
	if err := h.decodeBody(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	advice, err := h.transferService.RecommendTransfers(ctx, req.PlayerIDs, req.Bank, req.MaxTransfers)
	if err != nil {
		h.logger.ErrorContext(ctx, "recommend transfers failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, advice)
}

func (h *Handler) RecommendCaptain(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RecommendCaptain")
	defer span.End()

	var req captainRecommendationRequest
	if err := h.decodeBody(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	options, err := h.scoringService.RecommendCaptains(ctx, req.PlayerIDs, req.Gameweek)
	if err != nil {
		h.logger.ErrorContext(ctx, "recommend captain failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, options)
}
