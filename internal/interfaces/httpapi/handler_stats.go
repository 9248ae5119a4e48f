package httpapi

import (
	"net/http"
)

func (h *Handler) GetTopPerformers(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetTopPerformers")
	defer span.End()

	gameweek, err := queryInt(r, "gameweek", 0)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	limit, err := queryInt(r, "limit", 0)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	entries, err := h.statsService.TopPerformers(ctx, gameweek, limit, r.URL.Query().Get("metric"))
	if err != nil {
		h.logger.ErrorContext(ctx, "top performers failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, entries)
}

func (h *Handler) GetFormTable(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetFormTable")
	defer span.End()

	window, err := queryInt(r, "window", 0)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	table, err := h.statsService.FormTable(ctx, window)
	if err != nil {
		h.logger.ErrorContext(ctx, "form table failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, table)
}

func (h *Handler) GetDreamTeam(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetDreamTeam")
	defer span.End()

	gameweek, err := queryInt(r, "gameweek", 0)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	dreamTeam, err := h.statsService.DreamTeam(ctx, gameweek)
	if err != nil {
		h.logger.ErrorContext(ctx, "dream team failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, dreamTeam)
}
