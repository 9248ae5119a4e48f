package usecase

import (
	"fmt"
	"testing"

	"github.com/fantasyxi/fpl-insight/internal/domain/player"
	"github.com/fantasyxi/fpl-insight/internal/infrastructure/repository/memory"
	"github.com/fantasyxi/fpl-insight/internal/platform/logging"
)

func defaultSquadConfig() SquadConfig {
	return SquadConfig{
		Budget:          100.0,
		MaxPerTeam:      3,
		RatioGoalkeeper: 0.10,
		RatioDefender:   0.25,
		RatioMidfielder: 0.45,
		RatioForward:    0.20,
	}
}

// seedSquadPool loads a pool wide enough to always fill a 15-man
// squad: prices climb with quality and teams rotate so the club cap
// never blocks a full build.
func seedSquadPool(t *testing.T, repo *memory.PlayerRepository) {
	t.Helper()

	var pool []player.Player
	id := 0
	add := func(pos player.Position, count int, basePrice int64) {
		for i := 0; i < count; i++ {
			id++
			pool = append(pool, player.Player{
				ID:          id,
				Code:        id,
				WebName:     fmt.Sprintf("%s-%d", pos, i+1),
				TeamID:      id%10 + 1,
				Position:    pos,
				Price:       basePrice + int64(i*3),
				TotalPoints: 40 + i*10,
				Form:        2.0 + float64(i)*0.3,
				Status:      player.StatusAvailable,
			})
		}
	}
	add(player.PositionGoalkeeper, 6, 40)
	add(player.PositionDefender, 12, 40)
	add(player.PositionMidfielder, 12, 45)
	add(player.PositionForward, 8, 45)

	if err := repo.Upsert(t.Context(), pool); err != nil {
		t.Fatalf("seed players: %v", err)
	}
}

func TestBuildSquad_FullFifteenUnderBudget(t *testing.T) {
	playerRepo := memory.NewPlayerRepository()
	seedSquadPool(t, playerRepo)

	scoring := NewScoringService(playerRepo, memory.NewHistoryRepository(), memory.NewSeasonRepository(), ScoringConfig{}, logging.NewNop())
	service := NewSquadService(playerRepo, scoring, defaultSquadConfig(), logging.NewNop())

	plan, err := service.BuildSquad(t.Context(), 0)
	if err != nil {
		t.Fatalf("build squad: %v", err)
	}

	if !plan.Complete {
		t.Fatalf("expected complete squad, notes: %v", plan.Notes)
	}
	if len(plan.Picks) != 15 {
		t.Fatalf("expected 15 picks, got %d", len(plan.Picks))
	}
	if plan.TotalCost > plan.Budget {
		t.Fatalf("squad cost %.1f exceeds budget %.1f", plan.TotalCost, plan.Budget)
	}

	counts := map[player.Position]int{}
	perTeam := map[int]int{}
	for _, pick := range plan.Picks {
		counts[pick.Player.Position]++
		perTeam[pick.Player.TeamID]++
	}
	for pos, want := range DefaultFormation {
		if counts[pos] != want {
			t.Fatalf("expected %d %s, got %d", want, pos, counts[pos])
		}
	}
	for teamID, n := range perTeam {
		if n > 3 {
			t.Fatalf("team %d has %d players, cap is 3", teamID, n)
		}
	}
}

func TestBuildSquad_EveryPickCarriesReason(t *testing.T) {
	playerRepo := memory.NewPlayerRepository()
	seedSquadPool(t, playerRepo)

	scoring := NewScoringService(playerRepo, memory.NewHistoryRepository(), memory.NewSeasonRepository(), ScoringConfig{}, logging.NewNop())
	service := NewSquadService(playerRepo, scoring, defaultSquadConfig(), logging.NewNop())

	plan, err := service.BuildSquad(t.Context(), 0)
	if err != nil {
		t.Fatalf("build squad: %v", err)
	}

	if len(plan.Picks) == 0 {
		t.Fatalf("expected picks to assert on")
	}
	for _, pick := range plan.Picks {
		if pick.Reason == "" {
			t.Fatalf("pick %s has no reason", pick.Player.WebName)
		}
	}
}

func TestBuildSquad_RespectsClubCap(t *testing.T) {
	playerRepo := memory.NewPlayerRepository()

	// Team 1 has by far the best midfielders; only three may be taken.
	var pool []player.Player
	for i := 1; i <= 8; i++ {
		teamID := 1
		points := 200 - i*5
		if i > 5 {
			teamID = i
			points = 60
		}
		pool = append(pool, player.Player{
			ID: i, Code: i, WebName: fmt.Sprintf("mid-%d", i), TeamID: teamID,
			Position: player.PositionMidfielder, Price: 50, TotalPoints: points,
			Form: 5, Status: player.StatusAvailable,
		})
	}
	if err := playerRepo.Upsert(t.Context(), pool); err != nil {
		t.Fatalf("seed players: %v", err)
	}

	scoring := NewScoringService(playerRepo, memory.NewHistoryRepository(), memory.NewSeasonRepository(), ScoringConfig{}, logging.NewNop())
	service := NewSquadService(playerRepo, scoring, defaultSquadConfig(), logging.NewNop())

	plan, err := service.BuildSquad(t.Context(), 0)
	if err != nil {
		t.Fatalf("build squad: %v", err)
	}

	fromTeamOne := 0
	for _, pick := range plan.Picks {
		if pick.Player.TeamID == 1 {
			fromTeamOne++
		}
	}
	if fromTeamOne > 3 {
		t.Fatalf("expected at most 3 picks from team 1, got %d", fromTeamOne)
	}
}

func TestBuildSquad_IncompleteWhenPoolTooSmall(t *testing.T) {
	playerRepo := memory.NewPlayerRepository()

	pool := []player.Player{
		{ID: 1, Code: 1, WebName: "gk-1", TeamID: 1, Position: player.PositionGoalkeeper, Price: 45, TotalPoints: 80, Form: 4, Status: player.StatusAvailable},
		{ID: 2, Code: 2, WebName: "def-1", TeamID: 2, Position: player.PositionDefender, Price: 45, TotalPoints: 90, Form: 4, Status: player.StatusAvailable},
	}
	if err := playerRepo.Upsert(t.Context(), pool); err != nil {
		t.Fatalf("seed players: %v", err)
	}

	scoring := NewScoringService(playerRepo, memory.NewHistoryRepository(), memory.NewSeasonRepository(), ScoringConfig{}, logging.NewNop())
	service := NewSquadService(playerRepo, scoring, defaultSquadConfig(), logging.NewNop())

	plan, err := service.BuildSquad(t.Context(), 0)
	if err != nil {
		t.Fatalf("build squad: %v", err)
	}

	if plan.Complete {
		t.Fatalf("expected incomplete squad from a 2-player pool")
	}
	if len(plan.Notes) == 0 {
		t.Fatalf("expected notes explaining the shortfall")
	}
}
