package usecase

import (
	"math"
	"testing"

	"github.com/fantasyxi/fpl-insight/internal/domain/history"
	"github.com/fantasyxi/fpl-insight/internal/domain/player"
	"github.com/fantasyxi/fpl-insight/internal/domain/season"
	"github.com/fantasyxi/fpl-insight/internal/infrastructure/repository/memory"
	"github.com/fantasyxi/fpl-insight/internal/platform/logging"
)

func newScoringService(t *testing.T) (*ScoringService, *memory.PlayerRepository, *memory.HistoryRepository, *memory.SeasonRepository) {
	t.Helper()

	playerRepo := memory.NewPlayerRepository()
	historyRepo := memory.NewHistoryRepository()
	seasonRepo := memory.NewSeasonRepository()

	service := NewScoringService(playerRepo, historyRepo, seasonRepo, ScoringConfig{
		PriceFloor:        4.0,
		CaptainScoreFloor: 10.0,
		CaptainLimit:      10,
	}, logging.NewNop())

	return service, playerRepo, historyRepo, seasonRepo
}

func TestValueScore_Formula(t *testing.T) {
	service, _, _, _ := newScoringService(t)

	p := player.Player{ID: 1, TotalPoints: 120, Price: 80, Form: 5.0}
	got := service.ValueScore(p)
	want := 120.0/8.0 + 2*5.0
	if math.Abs(got-want) > 1e-9 {
		t.Fatalf("expected value score %.4f, got %.4f", want, got)
	}
}

func TestValueScore_PriceFloorAppliesBelowFourMillion(t *testing.T) {
	service, _, _, _ := newScoringService(t)

	cheap := player.Player{ID: 2, TotalPoints: 40, Price: 35, Form: 0}
	got := service.ValueScore(cheap)
	want := 40.0 / 4.0
	if math.Abs(got-want) > 1e-9 {
		t.Fatalf("expected floored score %.4f, got %.4f", want, got)
	}
}

func TestRankByValue_ExcludesUnavailablePlayers(t *testing.T) {
	service, _, _, _ := newScoringService(t)

	pool := []player.Player{
		{ID: 1, TotalPoints: 100, Price: 50, Form: 4, Status: player.StatusAvailable},
		{ID: 2, TotalPoints: 200, Price: 50, Form: 8, Status: player.StatusInjured},
		{ID: 3, TotalPoints: 80, Price: 50, Form: 3, Status: player.StatusAvailable},
	}

	ranked := service.RankByValue(pool)
	if len(ranked) != 2 {
		t.Fatalf("expected injured player excluded, got %d entries", len(ranked))
	}
	if ranked[0].Player.ID != 1 {
		t.Fatalf("expected player 1 ranked first, got %d", ranked[0].Player.ID)
	}
}

func TestRecommendCaptains_MidfieldersAndForwardsOnly(t *testing.T) {
	service, playerRepo, _, _ := newScoringService(t)

	pool := []player.Player{
		{ID: 1, WebName: "Striker", Position: player.PositionForward, TeamID: 1, GoalsScored: 15, Assists: 4, Form: 7.0, TotalPoints: 150, Status: player.StatusAvailable},
		{ID: 2, WebName: "Winger", Position: player.PositionMidfielder, TeamID: 2, GoalsScored: 8, Assists: 10, Form: 6.0, TotalPoints: 130, Status: player.StatusAvailable},
		{ID: 3, WebName: "Wall", Position: player.PositionDefender, TeamID: 3, GoalsScored: 5, Assists: 2, Form: 9.0, TotalPoints: 140, Status: player.StatusAvailable},
		{ID: 4, WebName: "Bench", Position: player.PositionForward, TeamID: 4, GoalsScored: 0, Assists: 0, Form: 1.0, TotalPoints: 20, Status: player.StatusAvailable},
	}
	if err := playerRepo.Upsert(t.Context(), pool); err != nil {
		t.Fatalf("seed players: %v", err)
	}

	options, err := service.RecommendCaptains(t.Context(), nil, 10)
	if err != nil {
		t.Fatalf("recommend captains: %v", err)
	}

	if len(options) != 2 {
		t.Fatalf("expected 2 captain options, got %d", len(options))
	}
	if options[0].PlayerID != 1 {
		t.Fatalf("expected striker first, got player %d", options[0].PlayerID)
	}
	for _, opt := range options {
		if opt.Position != string(player.PositionMidfielder) && opt.Position != string(player.PositionForward) {
			t.Fatalf("unexpected position %s in captain options", opt.Position)
		}
		if opt.Score <= 10.0 {
			t.Fatalf("option %d below score floor: %.2f", opt.PlayerID, opt.Score)
		}
	}
}

func TestRecommendCaptains_ScoreFormula(t *testing.T) {
	service, playerRepo, _, _ := newScoringService(t)

	p := player.Player{
		ID: 7, WebName: "Talisman", Position: player.PositionForward, TeamID: 1,
		GoalsScored: 10, Assists: 5, Form: 6.0, TotalPoints: 120,
		Status: player.StatusAvailable,
	}
	if err := playerRepo.Upsert(t.Context(), []player.Player{p}); err != nil {
		t.Fatalf("seed players: %v", err)
	}

	options, err := service.RecommendCaptains(t.Context(), []int{7}, 10)
	if err != nil {
		t.Fatalf("recommend captains: %v", err)
	}
	if len(options) != 1 {
		t.Fatalf("expected 1 option, got %d", len(options))
	}

	want := 10*6.0 + 5*3.0 + 6.0*2 + 120*0.1
	if math.Abs(options[0].Score-want) > 1e-9 {
		t.Fatalf("expected captain score %.2f, got %.2f", want, options[0].Score)
	}
}

func TestBlendedPointsPerGame_EarlySeasonFavorsHistory(t *testing.T) {
	service, _, historyRepo, seasonRepo := newScoringService(t)

	if err := seasonRepo.Save(t.Context(), season.DefaultConfig("2026-27")); err != nil {
		t.Fatalf("save season config: %v", err)
	}
	if err := historyRepo.Upsert(t.Context(), []history.SeasonStats{
		{PlayerID: 1, Season: "2025-26", TotalPoints: 228, Minutes: 3420, PointsPerGame: 6.0},
	}); err != nil {
		t.Fatalf("seed history: %v", err)
	}

	p := player.Player{ID: 1, PointsPerGame: 2.0}

	got, err := service.BlendedPointsPerGame(t.Context(), p, 3)
	if err != nil {
		t.Fatalf("blend: %v", err)
	}
	want := 6.0*0.7 + 2.0*0.3
	if math.Abs(got-want) > 1e-9 {
		t.Fatalf("expected blended ppg %.3f at gw3, got %.3f", want, got)
	}
}

func TestRecommendCaptains_PriorSeasonRateBreaksEarlySeasonTies(t *testing.T) {
	service, playerRepo, historyRepo, seasonRepo := newScoringService(t)

	if err := seasonRepo.Save(t.Context(), season.DefaultConfig("2026-27")); err != nil {
		t.Fatalf("save season config: %v", err)
	}

	// Identical current-season numbers; only the prior season differs.
	pool := []player.Player{
		{ID: 1, WebName: "Newcomer", Position: player.PositionMidfielder, TeamID: 1, GoalsScored: 5, Assists: 3, Form: 5.0, TotalPoints: 60, PointsPerGame: 3.0, Status: player.StatusAvailable},
		{ID: 2, WebName: "Veteran", Position: player.PositionMidfielder, TeamID: 2, GoalsScored: 5, Assists: 3, Form: 5.0, TotalPoints: 60, PointsPerGame: 3.0, Status: player.StatusAvailable},
	}
	if err := playerRepo.Upsert(t.Context(), pool); err != nil {
		t.Fatalf("seed players: %v", err)
	}
	if err := historyRepo.Upsert(t.Context(), []history.SeasonStats{
		{PlayerID: 2, Season: "2025-26", TotalPoints: 250, Minutes: 3200, PointsPerGame: 7.0},
	}); err != nil {
		t.Fatalf("seed history: %v", err)
	}

	options, err := service.RecommendCaptains(t.Context(), nil, 3)
	if err != nil {
		t.Fatalf("recommend captains: %v", err)
	}
	if len(options) != 2 {
		t.Fatalf("expected 2 options, got %d", len(options))
	}
	if options[0].PlayerID != 2 {
		t.Fatalf("expected the proven returner on top at gameweek 3, got player %d", options[0].PlayerID)
	}
	if options[0].Score <= options[1].Score {
		t.Fatalf("expected prior-season pedigree to lift the score, got %.2f vs %.2f", options[0].Score, options[1].Score)
	}
}

func TestBlendedPointsPerGame_NoHistoryFallsBackToCurrent(t *testing.T) {
	service, _, _, seasonRepo := newScoringService(t)

	if err := seasonRepo.Save(t.Context(), season.DefaultConfig("2026-27")); err != nil {
		t.Fatalf("save season config: %v", err)
	}

	p := player.Player{ID: 9, PointsPerGame: 4.5}
	got, err := service.BlendedPointsPerGame(t.Context(), p, 2)
	if err != nil {
		t.Fatalf("blend: %v", err)
	}
	if got != 4.5 {
		t.Fatalf("expected current ppg 4.5, got %.3f", got)
	}
}
