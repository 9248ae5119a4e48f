package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/fantasyxi/fpl-insight/internal/domain/fixture"
	"github.com/fantasyxi/fpl-insight/internal/domain/player"
	"github.com/fantasyxi/fpl-insight/internal/domain/playerstats"
	"github.com/fantasyxi/fpl-insight/internal/domain/team"
	"github.com/fantasyxi/fpl-insight/internal/platform/logging"
)

const (
	defaultStatsLimit = 10
	defaultFormWindow = 5
)

// Metrics accepted by TopPerformers.
const (
	MetricPoints  = "points"
	MetricForm    = "form"
	MetricGoals   = "goals"
	MetricAssists = "assists"
	MetricBonus   = "bonus"
)

type PerformerEntry struct {
	PlayerID int     `json:"player_id"`
	Name     string  `json:"name"`
	Position string  `json:"position"`
	TeamID   int     `json:"team_id"`
	Gameweek int     `json:"gameweek"`
	Points   int     `json:"points"`
	Goals    int     `json:"goals"`
	Assists  int     `json:"assists"`
	Bonus    int     `json:"bonus"`
	Minutes  int     `json:"minutes"`
	Form     float64 `json:"form"`
}

type DreamTeam struct {
	Gameweek int              `json:"gameweek"`
	Players  []PerformerEntry `json:"players"`
	Points   int              `json:"points"`
}

// StatsService serves the aggregate leaderboards: top performers for
// a round, the club form table and the dream team.
type StatsService struct {
	playerRepo player.Repository
	statsRepo  playerstats.Repository
	teamRepo   team.Repository
	fixtures   *FixtureService
	logger     *logging.Logger
	now        func() time.Time
}

func NewStatsService(
	playerRepo player.Repository,
	statsRepo playerstats.Repository,
	teamRepo team.Repository,
	fixtures *FixtureService,
	logger *logging.Logger,
) *StatsService {
	if logger == nil {
		logger = logging.Default()
	}
	return &StatsService{
		playerRepo: playerRepo,
		statsRepo:  statsRepo,
		teamRepo:   teamRepo,
		fixtures:   fixtures,
		logger:     logger,
		now:        time.Now,
	}
}

// TopPerformers lists the best players of a single round by the
// requested metric. Gameweek zero means the current one, an empty
// metric means points.
func (s *StatsService) TopPerformers(ctx context.Context, gameweek, limit int, metric string) ([]PerformerEntry, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.StatsService.TopPerformers")
	defer span.End()

	gameweek, err := s.resolveGameweek(ctx, gameweek)
	if err != nil {
		return nil, err
	}
	if limit < 1 {
		limit = defaultStatsLimit
	}

	key, err := s.performerMetric(ctx, metric)
	if err != nil {
		return nil, err
	}

	rows, err := s.statsRepo.ListByGameweek(ctx, gameweek)
	if err != nil {
		return nil, fmt.Errorf("list gameweek stats: %w", err)
	}
	sort.SliceStable(rows, func(i, j int) bool {
		ki, kj := key(rows[i]), key(rows[j])
		if ki != kj {
			return ki > kj
		}
		return rows[i].PlayerID < rows[j].PlayerID
	})
	if len(rows) > limit {
		rows = rows[:limit]
	}

	return s.enrich(ctx, rows)
}

func (s *StatsService) performerMetric(ctx context.Context, metric string) (func(playerstats.GameweekStats) float64, error) {
	switch strings.ToLower(strings.TrimSpace(metric)) {
	case MetricPoints, "":
		return func(r playerstats.GameweekStats) float64 { return float64(r.TotalPoints) }, nil
	case MetricGoals:
		return func(r playerstats.GameweekStats) float64 { return float64(r.GoalsScored) }, nil
	case MetricAssists:
		return func(r playerstats.GameweekStats) float64 { return float64(r.Assists) }, nil
	case MetricBonus:
		return func(r playerstats.GameweekStats) float64 { return float64(r.Bonus) }, nil
	case MetricForm:
		players, err := s.playerRepo.List(ctx, player.Filter{})
		if err != nil {
			return nil, fmt.Errorf("list players: %w", err)
		}
		form := make(map[int]float64, len(players))
		for _, p := range players {
			form[p.ID] = p.Form
		}
		return func(r playerstats.GameweekStats) float64 { return form[r.PlayerID] }, nil
	default:
		return nil, fmt.Errorf("%w: unknown metric %q", ErrInvalidInput, metric)
	}
}

type TeamFormEntry struct {
	TeamID       int    `json:"team_id"`
	Name         string `json:"name"`
	ShortName    string `json:"short_name"`
	Played       int    `json:"played"`
	Wins         int    `json:"wins"`
	Draws        int    `json:"draws"`
	Losses       int    `json:"losses"`
	GoalsFor     int    `json:"goals_for"`
	GoalsAgainst int    `json:"goals_against"`
	FormPoints   int    `json:"form_points"`
}

// FormTable ranks clubs by league points taken from their last few
// finished fixtures. Window zero falls back to the default.
func (s *StatsService) FormTable(ctx context.Context, window int) ([]TeamFormEntry, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.StatsService.FormTable")
	defer span.End()

	if window < 1 {
		window = defaultFormWindow
	}

	teams, err := s.teamRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list teams: %w", err)
	}
	all, err := s.fixtures.ListFixtures(ctx, 0)
	if err != nil {
		return nil, err
	}

	finished := all[:0:0]
	for _, f := range all {
		if f.Finished && f.HomeScore != nil && f.AwayScore != nil {
			finished = append(finished, f)
		}
	}
	// Most recent round first so the window slices off the tail.
	sort.SliceStable(finished, func(i, j int) bool { return finished[i].Gameweek > finished[j].Gameweek })

	entries := make([]TeamFormEntry, 0, len(teams))
	for _, t := range teams {
		entry := TeamFormEntry{TeamID: t.ID, Name: t.Name, ShortName: t.ShortName}
		for _, f := range finished {
			if entry.Played == window {
				break
			}
			scored, conceded, ok := goalsFor(f, t.ID)
			if !ok {
				continue
			}
			entry.Played++
			entry.GoalsFor += scored
			entry.GoalsAgainst += conceded
			switch {
			case scored > conceded:
				entry.Wins++
				entry.FormPoints += 3
			case scored == conceded:
				entry.Draws++
				entry.FormPoints++
			default:
				entry.Losses++
			}
		}
		entries = append(entries, entry)
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].FormPoints != entries[j].FormPoints {
			return entries[i].FormPoints > entries[j].FormPoints
		}
		di := entries[i].GoalsFor - entries[i].GoalsAgainst
		dj := entries[j].GoalsFor - entries[j].GoalsAgainst
		if di != dj {
			return di > dj
		}
		return entries[i].TeamID < entries[j].TeamID
	})
	return entries, nil
}

func goalsFor(f fixture.Fixture, teamID int) (scored, conceded int, ok bool) {
	switch teamID {
	case f.HomeTeamID:
		return *f.HomeScore, *f.AwayScore, true
	case f.AwayTeamID:
		return *f.AwayScore, *f.HomeScore, true
	default:
		return 0, 0, false
	}
}

// DreamTeam returns the round's best XI. The upstream dreamteam flag
// wins when present; otherwise the XI is rebuilt from raw points in a
// 1-4-4-2 shape.
func (s *StatsService) DreamTeam(ctx context.Context, gameweek int) (DreamTeam, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.StatsService.DreamTeam")
	defer span.End()

	gameweek, err := s.resolveGameweek(ctx, gameweek)
	if err != nil {
		return DreamTeam{}, err
	}

	rows, err := s.statsRepo.ListByGameweek(ctx, gameweek)
	if err != nil {
		return DreamTeam{}, fmt.Errorf("list gameweek stats: %w", err)
	}

	flagged := rows[:0:0]
	for _, r := range rows {
		if r.InDreamteam {
			flagged = append(flagged, r)
		}
	}
	if len(flagged) == 0 {
		flagged, err = s.rebuildXI(ctx, rows)
		if err != nil {
			return DreamTeam{}, err
		}
	}

	sort.SliceStable(flagged, func(i, j int) bool { return flagged[i].TotalPoints > flagged[j].TotalPoints })

	entries, err := s.enrich(ctx, flagged)
	if err != nil {
		return DreamTeam{}, err
	}

	dt := DreamTeam{Gameweek: gameweek, Players: entries}
	for _, e := range entries {
		dt.Points += e.Points
	}
	return dt, nil
}

func (s *StatsService) resolveGameweek(ctx context.Context, gameweek int) (int, error) {
	if gameweek > 0 {
		return gameweek, nil
	}
	current, err := s.fixtures.CurrentGameweek(ctx)
	if err != nil {
		return 0, err
	}
	return current, nil
}

func (s *StatsService) rebuildXI(ctx context.Context, rows []playerstats.GameweekStats) ([]playerstats.GameweekStats, error) {
	quota := map[player.Position]int{
		player.PositionGoalkeeper: 1,
		player.PositionDefender:   4,
		player.PositionMidfielder: 4,
		player.PositionForward:    2,
	}

	sorted := append([]playerstats.GameweekStats(nil), rows...)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].TotalPoints != sorted[j].TotalPoints {
			return sorted[i].TotalPoints > sorted[j].TotalPoints
		}
		return sorted[i].PlayerID < sorted[j].PlayerID
	})

	var xi []playerstats.GameweekStats
	for _, r := range sorted {
		p, found, err := s.playerRepo.GetByID(ctx, r.PlayerID)
		if err != nil {
			return nil, fmt.Errorf("get player %d: %w", r.PlayerID, err)
		}
		if !found || quota[p.Position] == 0 {
			continue
		}
		quota[p.Position]--
		xi = append(xi, r)
		if len(xi) == 11 {
			break
		}
	}
	return xi, nil
}

func (s *StatsService) enrich(ctx context.Context, rows []playerstats.GameweekStats) ([]PerformerEntry, error) {
	out := make([]PerformerEntry, 0, len(rows))
	for _, r := range rows {
		entry := PerformerEntry{
			PlayerID: r.PlayerID,
			Gameweek: r.Gameweek,
			Points:   r.TotalPoints,
			Goals:    r.GoalsScored,
			Assists:  r.Assists,
			Bonus:    r.Bonus,
			Minutes:  r.Minutes,
		}
		p, found, err := s.playerRepo.GetByID(ctx, r.PlayerID)
		if err != nil {
			return nil, fmt.Errorf("get player %d: %w", r.PlayerID, err)
		}
		if found {
			entry.Name = p.WebName
			entry.Position = string(p.Position)
			entry.TeamID = p.TeamID
			entry.Form = p.Form
		}
		out = append(out, entry)
	}
	return out, nil
}
