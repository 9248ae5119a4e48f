package httpapi

import (
	"net/http"
)

func (h *Handler) ListFixtures(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListFixtures")
	defer span.End()

	gameweek, err := queryInt(r, "gameweek", 0)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	fixtures, err := h.fixtureService.ListFixtures(ctx, gameweek)
	if err != nil {
		h.logger.ErrorContext(ctx, "list fixtures failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, fixtures)
}

// GetFixtureDifficulty ranks every club's upcoming run, easiest first.
func (h *Handler) GetFixtureDifficulty(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetFixtureDifficulty")
	defer span.End()

	horizon, err := queryInt(r, "horizon", 0)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	reports, err := h.fixtureService.DifficultyAll(ctx, horizon)
	if err != nil {
		h.logger.ErrorContext(ctx, "fixture difficulty failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, reports)
}

func (h *Handler) GetCurrentGameweek(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetCurrentGameweek")
	defer span.End()

	gameweek, err := h.fixtureService.CurrentGameweek(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "current gameweek failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]int{"gameweek": gameweek})
}

func (h *Handler) GetNextDeadline(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetNextDeadline")
	defer span.End()

	info, err := h.fixtureService.NextGameweek(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "next deadline failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, info)
}
