package usecase

import (
	"errors"
	"testing"
	"time"

	"github.com/fantasyxi/fpl-insight/internal/domain/player"
	"github.com/fantasyxi/fpl-insight/internal/domain/playerstats"
	"github.com/fantasyxi/fpl-insight/internal/domain/team"
	"github.com/fantasyxi/fpl-insight/internal/infrastructure/repository/memory"
	"github.com/fantasyxi/fpl-insight/internal/platform/cache"
	"github.com/fantasyxi/fpl-insight/internal/platform/logging"
)

func newPlayerService(t *testing.T) (*PlayerService, *memory.PlayerRepository, *memory.PlayerStatsRepository, *memory.TeamRepository) {
	t.Helper()

	playerRepo := memory.NewPlayerRepository()
	statsRepo := memory.NewPlayerStatsRepository()
	teamRepo := memory.NewTeamRepository()
	scoring := NewScoringService(playerRepo, memory.NewHistoryRepository(), memory.NewSeasonRepository(), ScoringConfig{}, logging.NewNop())
	fixtures := NewFixtureService(memory.NewFixtureRepository(), teamRepo, cache.NewStore(time.Minute), 5, logging.NewNop())

	return NewPlayerService(playerRepo, statsRepo, scoring, fixtures, logging.NewNop()), playerRepo, statsRepo, teamRepo
}

func TestListPlayers_SortsAndFilters(t *testing.T) {
	service, playerRepo, _, _ := newPlayerService(t)

	pool := []player.Player{
		{ID: 1, WebName: "Cheap", Position: player.PositionMidfielder, Price: 50, TotalPoints: 60, Form: 3, SelectedByPercent: 45.2, Status: player.StatusAvailable},
		{ID: 2, WebName: "Prime", Position: player.PositionMidfielder, Price: 120, TotalPoints: 160, Form: 8, SelectedByPercent: 22.1, Status: player.StatusAvailable},
		{ID: 3, WebName: "Back", Position: player.PositionDefender, Price: 45, TotalPoints: 70, Form: 4, SelectedByPercent: 3.4, Status: player.StatusAvailable},
	}
	if err := playerRepo.Upsert(t.Context(), pool); err != nil {
		t.Fatalf("seed players: %v", err)
	}

	mids, err := service.ListPlayers(t.Context(), player.Filter{Position: player.PositionMidfielder}, SortByPoints)
	if err != nil {
		t.Fatalf("list players: %v", err)
	}
	if len(mids) != 2 || mids[0].ID != 2 {
		t.Fatalf("expected midfielders led by player 2, got %+v", mids)
	}

	byPrice, err := service.ListPlayers(t.Context(), player.Filter{}, SortByPrice)
	if err != nil {
		t.Fatalf("list players by price: %v", err)
	}
	if byPrice[0].ID != 2 {
		t.Fatalf("expected most expensive first, got %d", byPrice[0].ID)
	}

	bySelected, err := service.ListPlayers(t.Context(), player.Filter{}, SortBySelected)
	if err != nil {
		t.Fatalf("list players by ownership: %v", err)
	}
	if bySelected[0].ID != 1 {
		t.Fatalf("expected most owned first, got %d", bySelected[0].ID)
	}

	if _, err := service.ListPlayers(t.Context(), player.Filter{}, "sideways"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for unknown sort, got %v", err)
	}
}

func TestGetPlayer_IncludesRecentAndUpcoming(t *testing.T) {
	service, playerRepo, statsRepo, teamRepo := newPlayerService(t)

	if err := teamRepo.Upsert(t.Context(), []team.Team{{ID: 1, Code: 1, Name: "Club", ShortName: "CLB"}}); err != nil {
		t.Fatalf("seed team: %v", err)
	}
	p := player.Player{ID: 5, WebName: "Starlet", TeamID: 1, Position: player.PositionForward, Price: 70, TotalPoints: 90, Form: 6, Status: player.StatusAvailable}
	if err := playerRepo.Upsert(t.Context(), []player.Player{p}); err != nil {
		t.Fatalf("seed player: %v", err)
	}

	var rows []playerstats.GameweekStats
	for gw := 1; gw <= 7; gw++ {
		rows = append(rows, playerstats.GameweekStats{PlayerID: 5, Gameweek: gw, TotalPoints: gw})
	}
	if err := statsRepo.Upsert(t.Context(), rows); err != nil {
		t.Fatalf("seed stats: %v", err)
	}

	detail, err := service.GetPlayer(t.Context(), 5)
	if err != nil {
		t.Fatalf("get player: %v", err)
	}

	if detail.ValueScore == 0 {
		t.Fatalf("expected non-zero value score")
	}
	if len(detail.Recent) != 5 {
		t.Fatalf("expected 5 recent rows, got %d", len(detail.Recent))
	}
	if detail.Recent[0].Gameweek != 7 {
		t.Fatalf("expected newest round first, got gw %d", detail.Recent[0].Gameweek)
	}
}

func TestGetPlayer_UnknownID(t *testing.T) {
	service, _, _, _ := newPlayerService(t)

	if _, err := service.GetPlayer(t.Context(), 404); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
