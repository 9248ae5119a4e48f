package httpapi

import (
	"net/http"
)

func (h *Handler) ListTeams(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListTeams")
	defer span.End()

	teams, err := h.teamService.ListTeams(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "list teams failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, teams)
}

func (h *Handler) GetTeam(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetTeam")
	defer span.End()

	teamID, err := pathInt(r, "teamID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	detail, err := h.teamService.GetTeam(ctx, teamID)
	if err != nil {
		h.logger.ErrorContext(ctx, "get team failed", "error", err, "team_id", teamID)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, detail)
}

// GetTeamDifficulty reports one club's upcoming fixture run.
func (h *Handler) GetTeamDifficulty(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetTeamDifficulty")
	defer span.End()

	teamID, err := pathInt(r, "teamID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	horizon, err := queryInt(r, "horizon", 0)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	report, err := h.fixtureService.DifficultyForTeam(ctx, teamID, horizon)
	if err != nil {
		h.logger.ErrorContext(ctx, "team difficulty failed", "error", err, "team_id", teamID)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, report)
}
