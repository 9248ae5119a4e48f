package usecase

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/fantasyxi/fpl-insight/internal/domain/fixture"
	"github.com/fantasyxi/fpl-insight/internal/domain/team"
	"github.com/fantasyxi/fpl-insight/internal/platform/cache"
	"github.com/fantasyxi/fpl-insight/internal/platform/logging"
)

// neutralDifficulty is reported when a team has no fixtures inside the
// horizon, so an empty window never reads as "difficulty zero".
const neutralDifficulty = 3.0

type FixtureOutlook struct {
	FixtureID  int        `json:"fixture_id"`
	Gameweek   int        `json:"gameweek"`
	OpponentID int        `json:"opponent_id"`
	Opponent   string     `json:"opponent"`
	Home       bool       `json:"home"`
	Difficulty int        `json:"difficulty"`
	KickoffAt  *time.Time `json:"kickoff_at,omitempty"`
}

type DifficultyReport struct {
	TeamID            int              `json:"team_id"`
	Team              string           `json:"team"`
	ShortName         string           `json:"short_name"`
	Horizon           int              `json:"horizon"`
	Fixtures          []FixtureOutlook `json:"fixtures"`
	AverageDifficulty float64          `json:"average_difficulty"`
	TotalDifficulty   int              `json:"total_difficulty"`
}

type GameweekInfo struct {
	Gameweek     int        `json:"gameweek"`
	FirstKickoff *time.Time `json:"first_kickoff,omitempty"`
}

// FixtureService derives schedule views: the current gameweek, per-team
// forward difficulty windows, and the next round's first kickoff.
type FixtureService struct {
	fixtureRepo    fixture.Repository
	teamRepo       team.Repository
	cache          *cache.Store
	defaultHorizon int
	logger         *logging.Logger
	now            func() time.Time
}

func NewFixtureService(
	fixtureRepo fixture.Repository,
	teamRepo team.Repository,
	cacheStore *cache.Store,
	defaultHorizon int,
	logger *logging.Logger,
) *FixtureService {
	if logger == nil {
		logger = logging.Default()
	}
	if defaultHorizon < 1 {
		defaultHorizon = 5
	}

	return &FixtureService{
		fixtureRepo:    fixtureRepo,
		teamRepo:       teamRepo,
		cache:          cacheStore,
		defaultHorizon: defaultHorizon,
		logger:         logger,
		now:            time.Now,
	}
}

// CurrentGameweekFromFixtures derives the active round: the lowest
// gameweek with a live fixture wins; otherwise the round after the most
// recent fully finished one; otherwise 1 (pre-season).
func CurrentGameweekFromFixtures(fixtures []fixture.Fixture) int {
	liveGW := 0
	finishedByGW := make(map[int]int)
	totalByGW := make(map[int]int)
	maxGW := 0

	for _, item := range fixtures {
		if item.Gameweek <= 0 {
			continue
		}
		if item.Gameweek > maxGW {
			maxGW = item.Gameweek
		}
		totalByGW[item.Gameweek]++
		if item.Finished {
			finishedByGW[item.Gameweek]++
		}
		if item.Live() && (liveGW == 0 || item.Gameweek < liveGW) {
			liveGW = item.Gameweek
		}
	}

	if liveGW > 0 {
		return liveGW
	}

	lastComplete := 0
	for gw := 1; gw <= maxGW; gw++ {
		if totalByGW[gw] > 0 && finishedByGW[gw] == totalByGW[gw] {
			lastComplete = gw
		}
	}
	if lastComplete > 0 {
		next := lastComplete + 1
		if next > maxGW {
			return maxGW
		}
		return next
	}

	return 1
}

func (s *FixtureService) CurrentGameweek(ctx context.Context) (int, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.FixtureService.CurrentGameweek")
	defer span.End()

	fixtures, err := s.fixtureRepo.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("list fixtures: %w", err)
	}

	return CurrentGameweekFromFixtures(fixtures), nil
}

// NextGameweek reports the upcoming round and its first kickoff.
func (s *FixtureService) NextGameweek(ctx context.Context) (GameweekInfo, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.FixtureService.NextGameweek")
	defer span.End()

	fixtures, err := s.fixtureRepo.List(ctx)
	if err != nil {
		return GameweekInfo{}, fmt.Errorf("list fixtures: %w", err)
	}

	current := CurrentGameweekFromFixtures(fixtures)
	next := current + 1

	info := GameweekInfo{Gameweek: next}
	for _, item := range fixtures {
		if item.Gameweek != next || item.KickoffAt == nil {
			continue
		}
		if info.FirstKickoff == nil || item.KickoffAt.Before(*info.FirstKickoff) {
			kickoff := *item.KickoffAt
			info.FirstKickoff = &kickoff
		}
	}

	return info, nil
}

func (s *FixtureService) ListFixtures(ctx context.Context, gameweek int) ([]fixture.Fixture, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.FixtureService.ListFixtures")
	defer span.End()

	if gameweek < 0 {
		return nil, fmt.Errorf("%w: gameweek must not be negative", ErrInvalidInput)
	}

	var fixtures []fixture.Fixture
	var err error
	if gameweek > 0 {
		fixtures, err = s.fixtureRepo.ListByGameweek(ctx, gameweek)
	} else {
		fixtures, err = s.fixtureRepo.List(ctx)
	}
	if err != nil {
		return nil, fmt.Errorf("list fixtures: %w", err)
	}

	sort.SliceStable(fixtures, func(i, j int) bool {
		if fixtures[i].Gameweek != fixtures[j].Gameweek {
			return fixtures[i].Gameweek < fixtures[j].Gameweek
		}
		return fixtures[i].ID < fixtures[j].ID
	})

	return fixtures, nil
}

// DifficultyForTeam builds the forward difficulty window for one team:
// unfinished fixtures whose gameweek falls within the horizon starting
// at the current round, rated from that team's perspective.
func (s *FixtureService) DifficultyForTeam(ctx context.Context, teamID, horizon int) (DifficultyReport, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.FixtureService.DifficultyForTeam")
	defer span.End()

	if horizon < 1 {
		horizon = s.defaultHorizon
	}

	subject, found, err := s.teamRepo.GetByID(ctx, teamID)
	if err != nil {
		return DifficultyReport{}, fmt.Errorf("get team: %w", err)
	}
	if !found {
		return DifficultyReport{}, fmt.Errorf("%w: team %d", ErrNotFound, teamID)
	}

	allFixtures, err := s.fixtureRepo.List(ctx)
	if err != nil {
		return DifficultyReport{}, fmt.Errorf("list fixtures: %w", err)
	}
	teams, err := s.teamRepo.List(ctx)
	if err != nil {
		return DifficultyReport{}, fmt.Errorf("list teams: %w", err)
	}

	current := CurrentGameweekFromFixtures(allFixtures)
	report := buildDifficultyReport(subject, allFixtures, teamsByID(teams), current, horizon)

	return report, nil
}

// DifficultyAll ranks every team's window easiest-first. The result is
// cached briefly since every request would otherwise rescan the season.
func (s *FixtureService) DifficultyAll(ctx context.Context, horizon int) ([]DifficultyReport, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.FixtureService.DifficultyAll")
	defer span.End()

	if horizon < 1 {
		horizon = s.defaultHorizon
	}

	compute := func(ctx context.Context) (any, error) {
		allFixtures, err := s.fixtureRepo.List(ctx)
		if err != nil {
			return nil, fmt.Errorf("list fixtures: %w", err)
		}
		teams, err := s.teamRepo.List(ctx)
		if err != nil {
			return nil, fmt.Errorf("list teams: %w", err)
		}

		current := CurrentGameweekFromFixtures(allFixtures)
		names := teamsByID(teams)
		reports := make([]DifficultyReport, 0, len(teams))
		for _, subject := range teams {
			reports = append(reports, buildDifficultyReport(subject, allFixtures, names, current, horizon))
		}
		sort.SliceStable(reports, func(i, j int) bool {
			if reports[i].AverageDifficulty != reports[j].AverageDifficulty {
				return reports[i].AverageDifficulty < reports[j].AverageDifficulty
			}
			return reports[i].TeamID < reports[j].TeamID
		})
		return reports, nil
	}

	if s.cache == nil {
		out, err := compute(ctx)
		if err != nil {
			return nil, err
		}
		return out.([]DifficultyReport), nil
	}

	key := fmt.Sprintf("difficulty:all:%d", horizon)
	out, err := s.cache.GetOrLoad(ctx, key, compute)
	if err != nil {
		return nil, err
	}

	reports, ok := out.([]DifficultyReport)
	if !ok {
		return nil, fmt.Errorf("unexpected cache payload type %T", out)
	}
	return reports, nil
}

func buildDifficultyReport(subject team.Team, fixtures []fixture.Fixture, teams map[int]team.Team, currentGW, horizon int) DifficultyReport {
	report := DifficultyReport{
		TeamID:    subject.ID,
		Team:      subject.Name,
		ShortName: subject.ShortName,
		Horizon:   horizon,
		Fixtures:  []FixtureOutlook{},
	}

	lastGW := currentGW + horizon - 1
	for _, item := range fixtures {
		if item.Finished || !item.Involves(subject.ID) {
			continue
		}
		if item.Gameweek < currentGW || item.Gameweek > lastGW {
			continue
		}

		difficulty, _ := item.DifficultyFor(subject.ID)
		home := item.HomeTeamID == subject.ID
		opponentID := item.AwayTeamID
		if !home {
			opponentID = item.HomeTeamID
		}
		opponent := ""
		if opp, ok := teams[opponentID]; ok {
			opponent = opp.ShortName
		}

		report.Fixtures = append(report.Fixtures, FixtureOutlook{
			FixtureID:  item.ID,
			Gameweek:   item.Gameweek,
			OpponentID: opponentID,
			Opponent:   opponent,
			Home:       home,
			Difficulty: difficulty,
			KickoffAt:  item.KickoffAt,
		})
	}

	sort.SliceStable(report.Fixtures, func(i, j int) bool {
		return report.Fixtures[i].Gameweek < report.Fixtures[j].Gameweek
	})

	if len(report.Fixtures) == 0 {
		report.AverageDifficulty = neutralDifficulty
		return report
	}

	for _, outlook := range report.Fixtures {
		report.TotalDifficulty += outlook.Difficulty
	}
	report.AverageDifficulty = float64(report.TotalDifficulty) / float64(len(report.Fixtures))

	return report
}

func teamsByID(teams []team.Team) map[int]team.Team {
	out := make(map[int]team.Team, len(teams))
	for _, item := range teams {
		out[item.ID] = item
	}
	return out
}
