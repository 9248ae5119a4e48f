package httpapi

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/fantasyxi/fpl-insight/internal/domain/player"
	"github.com/fantasyxi/fpl-insight/internal/usecase"
)

func (h *Handler) ListPlayers(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListPlayers")
	defer span.End()

	filter, err := playerFilterFromQuery(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	players, err := h.playerService.ListPlayers(ctx, filter, r.URL.Query().Get("sort"))
	if err != nil {
		h.logger.ErrorContext(ctx, "list players failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, players)
}

func (h *Handler) GetPlayer(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetPlayer")
	defer span.End()

	playerID, err := pathInt(r, "playerID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	detail, err := h.playerService.GetPlayer(ctx, playerID)
	if err != nil {
		h.logger.ErrorContext(ctx, "get player failed", "error", err, "player_id", playerID)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, detail)
}

func playerFilterFromQuery(r *http.Request) (player.Filter, error) {
	filter := player.Filter{
		Search:     strings.TrimSpace(r.URL.Query().Get("search")),
		OnlyActive: queryBool(r, "active"),
	}

	if raw := strings.TrimSpace(strings.ToUpper(r.URL.Query().Get("position"))); raw != "" {
		pos := player.Position(raw)
		if _, ok := player.AllPositions[pos]; !ok {
			return player.Filter{}, fmt.Errorf("%w: unknown position %q", usecase.ErrInvalidInput, raw)
		}
		filter.Position = pos
	}

	teamID, err := queryInt(r, "team", 0)
	if err != nil {
		return player.Filter{}, err
	}
	filter.TeamID = teamID

	maxPrice, err := queryInt64(r, "max_price", 0)
	if err != nil {
		return player.Filter{}, err
	}
	filter.MaxPrice = maxPrice

	minPoints, err := queryInt(r, "min_points", 0)
	if err != nil {
		return player.Filter{}, err
	}
	filter.MinPoints = minPoints

	limit, err := queryInt(r, "limit", 0)
	if err != nil {
		return player.Filter{}, err
	}
	filter.Limit = limit

	return filter, nil
}
