package httpapi

import (
	"net/http"
)

// GetEntryTeam proxies a manager's picks from the upstream game API,
// joined against the local player pool.
func (h *Handler) GetEntryTeam(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetEntryTeam")
	defer span.End()

	entryID, err := pathInt(r, "entryID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	gameweek, err := queryInt(r, "gameweek", 0)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	team, err := h.entryService.GetTeam(ctx, entryID, gameweek)
	if err != nil {
		h.logger.ErrorContext(ctx, "get entry team failed", "error", err, "entry_id", entryID)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, team)
}
