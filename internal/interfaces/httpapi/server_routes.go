package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
}

func registerPublicRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/sync/status", handler.GetSyncStatus)

	mux.HandleFunc("GET /v1/players", handler.ListPlayers)
	mux.HandleFunc("GET /v1/players/{playerID}", handler.GetPlayer)

	mux.HandleFunc("GET /v1/teams", handler.ListTeams)
	mux.HandleFunc("GET /v1/teams/{teamID}", handler.GetTeam)
	mux.HandleFunc("GET /v1/teams/{teamID}/difficulty", handler.GetTeamDifficulty)

	mux.HandleFunc("GET /v1/fixtures", handler.ListFixtures)
	mux.HandleFunc("GET /v1/fixtures/difficulty", handler.GetFixtureDifficulty)

	mux.HandleFunc("GET /v1/gameweek/current", handler.GetCurrentGameweek)
	mux.HandleFunc("GET /v1/gameweek/next-deadline", handler.GetNextDeadline)

	mux.HandleFunc("POST /v1/recommendations/squad", handler.RecommendSquad)
	mux.HandleFunc("POST /v1/recommendations/transfers", handler.RecommendTransfers)
	mux.HandleFunc("POST /v1/recommendations/captain", handler.RecommendCaptain)

	mux.HandleFunc("GET /v1/stats/top-performers", handler.GetTopPerformers)
	mux.HandleFunc("GET /v1/stats/form-table", handler.GetFormTable)
	mux.HandleFunc("GET /v1/stats/dream-team", handler.GetDreamTeam)

	mux.HandleFunc("GET /v1/entry/{entryID}/team", handler.GetEntryTeam)
}

func registerInternalRoutes(mux *http.ServeMux, handler *Handler, internalJobToken string) {
	mux.Handle("POST /v1/sync", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunSync)))
	mux.Handle("POST /v1/sync/backfill", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunBackfill)))
	mux.Handle("POST /v1/sync/history", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunHistoryLoad)))
}
