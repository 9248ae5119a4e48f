package httpapi

import (
	"net/http"
)

type backfillRequest struct {
	FromGameweek int `json:"from_gameweek" validate:"required,gte=1,lte=38"`
	ToGameweek   int `json:"to_gameweek" validate:"required,gte=1,lte=38,gtefield=FromGameweek"`
}

// RunSync triggers a full data refresh. Fresh data short-circuits the
// run unless force=true.
func (h *Handler) RunSync(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunSync")
	defer span.End()

	force := queryBool(r, "force")

	report, err := h.syncService.Sync(ctx, force)
	if err != nil {
		h.logger.ErrorContext(ctx, "sync failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	status := http.StatusOK
	if !report.Skipped {
		status = http.StatusAccepted
	}
	writeSuccess(ctx, w, status, report)
}

// RunHistoryLoad triggers the one-off prior-season history load.
// Players that already carry history rows are left untouched, so
// re-running it is harmless.
func (h *Handler) RunHistoryLoad(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunHistoryLoad")
	defer span.End()

	report, err := h.syncService.LoadSeasonHistory(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "season history load failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, report)
}

func (h *Handler) GetSyncStatus(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetSyncStatus")
	defer span.End()

	status, err := h.syncService.Status(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "sync status failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, status)
}

// RunBackfill refetches per-gameweek stats for a closed range of rounds.
func (h *Handler) RunBackfill(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunBackfill")
	defer span.End()

	var req backfillRequest
	if err := h.decodeBody(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	reports, err := h.syncService.BackfillGameweekStats(ctx, req.FromGameweek, req.ToGameweek)
	if err != nil {
		h.logger.ErrorContext(ctx, "backfill failed", "error", err, "from", req.FromGameweek, "to", req.ToGameweek)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, reports)
}
