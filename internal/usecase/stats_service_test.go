package usecase

import (
	"errors"
	"testing"
	"time"

	"github.com/fantasyxi/fpl-insight/internal/domain/fixture"
	"github.com/fantasyxi/fpl-insight/internal/domain/player"
	"github.com/fantasyxi/fpl-insight/internal/domain/playerstats"
	"github.com/fantasyxi/fpl-insight/internal/domain/team"
	"github.com/fantasyxi/fpl-insight/internal/infrastructure/repository/memory"
	"github.com/fantasyxi/fpl-insight/internal/platform/cache"
	"github.com/fantasyxi/fpl-insight/internal/platform/logging"
)

type statsFixture struct {
	service     *StatsService
	playerRepo  *memory.PlayerRepository
	statsRepo   *memory.PlayerStatsRepository
	teamRepo    *memory.TeamRepository
	fixtureRepo *memory.FixtureRepository
}

func newStatsService(t *testing.T) statsFixture {
	t.Helper()

	playerRepo := memory.NewPlayerRepository()
	statsRepo := memory.NewPlayerStatsRepository()
	teamRepo := memory.NewTeamRepository()
	fixtureRepo := memory.NewFixtureRepository()
	fixtures := NewFixtureService(fixtureRepo, teamRepo, cache.NewStore(time.Minute), 5, logging.NewNop())

	return statsFixture{
		service:     NewStatsService(playerRepo, statsRepo, teamRepo, fixtures, logging.NewNop()),
		playerRepo:  playerRepo,
		statsRepo:   statsRepo,
		teamRepo:    teamRepo,
		fixtureRepo: fixtureRepo,
	}
}

func TestTopPerformers_OrdersByRoundPoints(t *testing.T) {
	fx := newStatsService(t)

	players := []player.Player{
		{ID: 1, WebName: "One", TeamID: 1, Position: player.PositionForward, Form: 5, Status: player.StatusAvailable},
		{ID: 2, WebName: "Two", TeamID: 2, Position: player.PositionMidfielder, Form: 6, Status: player.StatusAvailable},
		{ID: 3, WebName: "Three", TeamID: 3, Position: player.PositionDefender, Form: 4, Status: player.StatusAvailable},
	}
	if err := fx.playerRepo.Upsert(t.Context(), players); err != nil {
		t.Fatalf("seed players: %v", err)
	}

	rows := []playerstats.GameweekStats{
		{PlayerID: 1, Gameweek: 4, TotalPoints: 6, Minutes: 90},
		{PlayerID: 2, Gameweek: 4, TotalPoints: 15, GoalsScored: 2, Minutes: 90},
		{PlayerID: 3, Gameweek: 4, TotalPoints: 2, Minutes: 45},
	}
	if err := fx.statsRepo.Upsert(t.Context(), rows); err != nil {
		t.Fatalf("seed stats: %v", err)
	}

	entries, err := fx.service.TopPerformers(t.Context(), 4, 2, "")
	if err != nil {
		t.Fatalf("top performers: %v", err)
	}

	if len(entries) != 2 {
		t.Fatalf("expected limit of 2, got %d", len(entries))
	}
	if entries[0].PlayerID != 2 || entries[1].PlayerID != 1 {
		t.Fatalf("unexpected order: %d then %d", entries[0].PlayerID, entries[1].PlayerID)
	}
	if entries[0].Name != "Two" || entries[0].Goals != 2 {
		t.Fatalf("expected enriched entry for player 2, got %+v", entries[0])
	}
}

func TestTopPerformers_MetricSwitch(t *testing.T) {
	fx := newStatsService(t)

	players := []player.Player{
		{ID: 1, WebName: "Poacher", TeamID: 1, Position: player.PositionForward, Form: 2, Status: player.StatusAvailable},
		{ID: 2, WebName: "Creator", TeamID: 2, Position: player.PositionMidfielder, Form: 9, Status: player.StatusAvailable},
	}
	if err := fx.playerRepo.Upsert(t.Context(), players); err != nil {
		t.Fatalf("seed players: %v", err)
	}
	rows := []playerstats.GameweekStats{
		{PlayerID: 1, Gameweek: 7, TotalPoints: 13, GoalsScored: 2, Assists: 0},
		{PlayerID: 2, Gameweek: 7, TotalPoints: 9, GoalsScored: 0, Assists: 3},
	}
	if err := fx.statsRepo.Upsert(t.Context(), rows); err != nil {
		t.Fatalf("seed stats: %v", err)
	}

	byAssists, err := fx.service.TopPerformers(t.Context(), 7, 2, MetricAssists)
	if err != nil {
		t.Fatalf("top performers by assists: %v", err)
	}
	if byAssists[0].PlayerID != 2 {
		t.Fatalf("expected the assist leader first, got %d", byAssists[0].PlayerID)
	}

	byForm, err := fx.service.TopPerformers(t.Context(), 7, 2, MetricForm)
	if err != nil {
		t.Fatalf("top performers by form: %v", err)
	}
	if byForm[0].PlayerID != 2 {
		t.Fatalf("expected the in-form player first, got %d", byForm[0].PlayerID)
	}

	if _, err := fx.service.TopPerformers(t.Context(), 7, 2, "xg"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for unknown metric, got %v", err)
	}
}

func TestFormTable_RanksTeamsByRecentResults(t *testing.T) {
	fx := newStatsService(t)

	teams := []team.Team{
		{ID: 1, Code: 101, Name: "Alpha", ShortName: "ALP"},
		{ID: 2, Code: 102, Name: "Beta", ShortName: "BET"},
		{ID: 3, Code: 103, Name: "Gamma", ShortName: "GAM"},
	}
	if err := fx.teamRepo.Upsert(t.Context(), teams); err != nil {
		t.Fatalf("seed teams: %v", err)
	}

	score := func(h, a int) (*int, *int) { return &h, &a }
	fixtures := make([]fixture.Fixture, 0, 3)
	for i, res := range []struct {
		gw, home, away, hs, as int
	}{
		{1, 1, 2, 2, 0}, // Alpha beats Beta
		{2, 2, 3, 1, 1}, // Beta draws Gamma
		{3, 3, 1, 0, 3}, // Alpha beats Gamma away
	} {
		hs, as := score(res.hs, res.as)
		fixtures = append(fixtures, fixture.Fixture{
			ID: i + 1, Code: 1000 + i, Gameweek: res.gw,
			HomeTeamID: res.home, AwayTeamID: res.away,
			HomeScore: hs, AwayScore: as,
			Started: true, Finished: true,
		})
	}
	// Unfinished games must not count.
	fixtures = append(fixtures, fixture.Fixture{ID: 9, Code: 1009, Gameweek: 4, HomeTeamID: 1, AwayTeamID: 3, Started: true})
	if err := fx.fixtureRepo.Upsert(t.Context(), fixtures); err != nil {
		t.Fatalf("seed fixtures: %v", err)
	}

	table, err := fx.service.FormTable(t.Context(), 5)
	if err != nil {
		t.Fatalf("form table: %v", err)
	}

	if len(table) != 3 {
		t.Fatalf("expected all three teams, got %d", len(table))
	}
	if table[0].TeamID != 1 || table[0].FormPoints != 6 || table[0].Wins != 2 {
		t.Fatalf("expected Alpha on top with two wins, got %+v", table[0])
	}
	if table[1].TeamID != 2 || table[1].FormPoints != 1 || table[1].Played != 2 {
		t.Fatalf("expected Beta second on one point, got %+v", table[1])
	}
	if table[2].GoalsAgainst != 4 {
		t.Fatalf("expected Gamma to have conceded 4, got %+v", table[2])
	}
}

func TestFormTable_WindowLimitsFixtures(t *testing.T) {
	fx := newStatsService(t)

	if err := fx.teamRepo.Upsert(t.Context(), []team.Team{
		{ID: 1, Code: 101, Name: "Alpha", ShortName: "ALP"},
		{ID: 2, Code: 102, Name: "Beta", ShortName: "BET"},
	}); err != nil {
		t.Fatalf("seed teams: %v", err)
	}

	// Alpha wins GW1 then loses GW2 and GW3.
	results := []struct{ gw, hs, as int }{{1, 3, 0}, {2, 0, 1}, {3, 0, 2}}
	fixtures := make([]fixture.Fixture, 0, len(results))
	for i, res := range results {
		hs, as := res.hs, res.as
		fixtures = append(fixtures, fixture.Fixture{
			ID: i + 1, Code: 2000 + i, Gameweek: res.gw, HomeTeamID: 1, AwayTeamID: 2,
			HomeScore: &hs, AwayScore: &as, Started: true, Finished: true,
		})
	}
	if err := fx.fixtureRepo.Upsert(t.Context(), fixtures); err != nil {
		t.Fatalf("seed fixtures: %v", err)
	}

	table, err := fx.service.FormTable(t.Context(), 2)
	if err != nil {
		t.Fatalf("form table: %v", err)
	}

	for _, entry := range table {
		if entry.Played != 2 {
			t.Fatalf("expected a two-game window, got %+v", entry)
		}
	}
	// Only the last two rounds count, so the opening win is gone.
	if table[0].TeamID != 2 || table[0].FormPoints != 6 {
		t.Fatalf("expected Beta on top with 6 points, got %+v", table[0])
	}
}

func TestDreamTeam_UsesUpstreamFlag(t *testing.T) {
	fx := newStatsService(t)

	players := []player.Player{
		{ID: 1, WebName: "Picked", TeamID: 1, Position: player.PositionForward, Status: player.StatusAvailable},
		{ID: 2, WebName: "Skipped", TeamID: 2, Position: player.PositionMidfielder, Status: player.StatusAvailable},
	}
	if err := fx.playerRepo.Upsert(t.Context(), players); err != nil {
		t.Fatalf("seed players: %v", err)
	}

	rows := []playerstats.GameweekStats{
		{PlayerID: 1, Gameweek: 3, TotalPoints: 12, InDreamteam: true},
		{PlayerID: 2, Gameweek: 3, TotalPoints: 9},
	}
	if err := fx.statsRepo.Upsert(t.Context(), rows); err != nil {
		t.Fatalf("seed stats: %v", err)
	}

	dt, err := fx.service.DreamTeam(t.Context(), 3)
	if err != nil {
		t.Fatalf("dream team: %v", err)
	}

	if len(dt.Players) != 1 || dt.Players[0].PlayerID != 1 {
		t.Fatalf("expected only the flagged player, got %+v", dt.Players)
	}
	if dt.Points != 12 {
		t.Fatalf("expected 12 total points, got %d", dt.Points)
	}
}

func TestDreamTeam_RebuildsWithoutFlags(t *testing.T) {
	fx := newStatsService(t)

	var players []player.Player
	var rows []playerstats.GameweekStats
	add := func(id int, pos player.Position, points int) {
		players = append(players, player.Player{ID: id, WebName: "p", TeamID: id, Position: pos, Status: player.StatusAvailable})
		rows = append(rows, playerstats.GameweekStats{PlayerID: id, Gameweek: 1, TotalPoints: points})
	}
	for i := 0; i < 3; i++ {
		add(i+1, player.PositionGoalkeeper, 4+i)
	}
	for i := 0; i < 6; i++ {
		add(i+10, player.PositionDefender, 3+i)
	}
	for i := 0; i < 6; i++ {
		add(i+20, player.PositionMidfielder, 5+i)
	}
	for i := 0; i < 4; i++ {
		add(i+30, player.PositionForward, 6+i)
	}
	if err := fx.playerRepo.Upsert(t.Context(), players); err != nil {
		t.Fatalf("seed players: %v", err)
	}
	if err := fx.statsRepo.Upsert(t.Context(), rows); err != nil {
		t.Fatalf("seed stats: %v", err)
	}

	dt, err := fx.service.DreamTeam(t.Context(), 1)
	if err != nil {
		t.Fatalf("dream team: %v", err)
	}

	if len(dt.Players) != 11 {
		t.Fatalf("expected a full XI, got %d", len(dt.Players))
	}
	counts := map[string]int{}
	for _, e := range dt.Players {
		counts[e.Position]++
	}
	if counts["GK"] != 1 || counts["DEF"] != 4 || counts["MID"] != 4 || counts["FWD"] != 2 {
		t.Fatalf("unexpected shape: %v", counts)
	}
}
