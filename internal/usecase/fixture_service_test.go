package usecase

import (
	"math"
	"testing"
	"time"

	"github.com/fantasyxi/fpl-insight/internal/domain/fixture"
	"github.com/fantasyxi/fpl-insight/internal/domain/team"
	"github.com/fantasyxi/fpl-insight/internal/infrastructure/repository/memory"
	"github.com/fantasyxi/fpl-insight/internal/platform/cache"
	"github.com/fantasyxi/fpl-insight/internal/platform/logging"
)

func newFixtureService(t *testing.T) (*FixtureService, *memory.FixtureRepository, *memory.TeamRepository) {
	t.Helper()

	fixtureRepo := memory.NewFixtureRepository()
	teamRepo := memory.NewTeamRepository()
	service := NewFixtureService(fixtureRepo, teamRepo, cache.NewStore(time.Minute), 5, logging.NewNop())

	return service, fixtureRepo, teamRepo
}

func seedTeams(t *testing.T, repo *memory.TeamRepository, ids ...int) {
	t.Helper()

	teams := make([]team.Team, 0, len(ids))
	for _, id := range ids {
		teams = append(teams, team.Team{ID: id, Code: id, Name: "Club", ShortName: "CLB", Strength: 3})
	}
	if err := repo.Upsert(t.Context(), teams); err != nil {
		t.Fatalf("seed teams: %v", err)
	}
}

func intPtr(v int) *int { return &v }

func TestCurrentGameweekFromFixtures_LiveRoundWins(t *testing.T) {
	fixtures := []fixture.Fixture{
		{ID: 1, Code: 1, Gameweek: 4, HomeTeamID: 1, AwayTeamID: 2, Started: true, Finished: true, HomeScore: intPtr(1), AwayScore: intPtr(0)},
		{ID: 2, Code: 2, Gameweek: 5, HomeTeamID: 3, AwayTeamID: 4, Started: true, Finished: false},
		{ID: 3, Code: 3, Gameweek: 6, HomeTeamID: 1, AwayTeamID: 3},
	}

	if got := CurrentGameweekFromFixtures(fixtures); got != 5 {
		t.Fatalf("expected current gameweek 5, got %d", got)
	}
}

func TestCurrentGameweekFromFixtures_BetweenRounds(t *testing.T) {
	fixtures := []fixture.Fixture{
		{ID: 1, Code: 1, Gameweek: 7, HomeTeamID: 1, AwayTeamID: 2, Started: true, Finished: true, HomeScore: intPtr(2), AwayScore: intPtr(2)},
		{ID: 2, Code: 2, Gameweek: 7, HomeTeamID: 3, AwayTeamID: 4, Started: true, Finished: true, HomeScore: intPtr(0), AwayScore: intPtr(1)},
		{ID: 3, Code: 3, Gameweek: 8, HomeTeamID: 1, AwayTeamID: 3},
	}

	if got := CurrentGameweekFromFixtures(fixtures); got != 8 {
		t.Fatalf("expected current gameweek 8, got %d", got)
	}
}

func TestCurrentGameweekFromFixtures_PreSeasonDefaultsToOne(t *testing.T) {
	fixtures := []fixture.Fixture{
		{ID: 1, Code: 1, Gameweek: 1, HomeTeamID: 1, AwayTeamID: 2},
		{ID: 2, Code: 2, Gameweek: 2, HomeTeamID: 3, AwayTeamID: 4},
	}

	if got := CurrentGameweekFromFixtures(fixtures); got != 1 {
		t.Fatalf("expected gameweek 1 before kickoff, got %d", got)
	}
	if got := CurrentGameweekFromFixtures(nil); got != 1 {
		t.Fatalf("expected gameweek 1 with no fixtures, got %d", got)
	}
}

func TestDifficultyForTeam_AveragesWithinHorizon(t *testing.T) {
	service, fixtureRepo, teamRepo := newFixtureService(t)
	seedTeams(t, teamRepo, 1, 2, 3, 4)

	fixtures := []fixture.Fixture{
		// Finished round anchors the current gameweek at 2.
		{ID: 1, Code: 1, Gameweek: 1, HomeTeamID: 1, AwayTeamID: 2, Started: true, Finished: true, HomeScore: intPtr(1), AwayScore: intPtr(1), HomeDifficulty: 2, AwayDifficulty: 4},
		{ID: 2, Code: 2, Gameweek: 2, HomeTeamID: 1, AwayTeamID: 3, HomeDifficulty: 2, AwayDifficulty: 3},
		{ID: 3, Code: 3, Gameweek: 3, HomeTeamID: 4, AwayTeamID: 1, HomeDifficulty: 3, AwayDifficulty: 5},
		// Beyond a horizon of 2 starting at gameweek 2.
		{ID: 4, Code: 4, Gameweek: 4, HomeTeamID: 1, AwayTeamID: 2, HomeDifficulty: 1, AwayDifficulty: 1},
	}
	if err := fixtureRepo.Upsert(t.Context(), fixtures); err != nil {
		t.Fatalf("seed fixtures: %v", err)
	}

	report, err := service.DifficultyForTeam(t.Context(), 1, 2)
	if err != nil {
		t.Fatalf("difficulty for team: %v", err)
	}

	if len(report.Fixtures) != 2 {
		t.Fatalf("expected 2 fixtures in horizon, got %d", len(report.Fixtures))
	}
	want := (2.0 + 5.0) / 2.0
	if math.Abs(report.AverageDifficulty-want) > 1e-9 {
		t.Fatalf("expected average difficulty %.2f, got %.2f", want, report.AverageDifficulty)
	}
	if !report.Fixtures[0].Home {
		t.Fatalf("expected first fixture at home")
	}
	if report.Fixtures[1].Home {
		t.Fatalf("expected second fixture away")
	}
}

func TestDifficultyForTeam_NoFixturesReportsNeutral(t *testing.T) {
	service, _, teamRepo := newFixtureService(t)
	seedTeams(t, teamRepo, 1)

	report, err := service.DifficultyForTeam(t.Context(), 1, 5)
	if err != nil {
		t.Fatalf("difficulty for team: %v", err)
	}
	if report.AverageDifficulty != 3.0 {
		t.Fatalf("expected neutral difficulty 3.0, got %.2f", report.AverageDifficulty)
	}
	if len(report.Fixtures) != 0 {
		t.Fatalf("expected no fixtures, got %d", len(report.Fixtures))
	}
}

func TestDifficultyForTeam_UnknownTeam(t *testing.T) {
	service, _, _ := newFixtureService(t)

	_, err := service.DifficultyForTeam(t.Context(), 99, 5)
	if err == nil {
		t.Fatalf("expected error for unknown team")
	}
}

func TestDifficultyAll_SortedEasiestFirst(t *testing.T) {
	service, fixtureRepo, teamRepo := newFixtureService(t)
	seedTeams(t, teamRepo, 1, 2)

	fixtures := []fixture.Fixture{
		{ID: 1, Code: 1, Gameweek: 1, HomeTeamID: 1, AwayTeamID: 2, HomeDifficulty: 2, AwayDifficulty: 5},
	}
	if err := fixtureRepo.Upsert(t.Context(), fixtures); err != nil {
		t.Fatalf("seed fixtures: %v", err)
	}

	reports, err := service.DifficultyAll(t.Context(), 5)
	if err != nil {
		t.Fatalf("difficulty all: %v", err)
	}
	if len(reports) != 2 {
		t.Fatalf("expected 2 reports, got %d", len(reports))
	}
	if reports[0].TeamID != 1 || reports[1].TeamID != 2 {
		t.Fatalf("expected team 1 (easier run) first, got %d then %d", reports[0].TeamID, reports[1].TeamID)
	}
}
