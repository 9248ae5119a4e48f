package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/fantasyxi/fpl-insight/internal/domain/player"
	"github.com/fantasyxi/fpl-insight/internal/domain/playerstats"
	"github.com/fantasyxi/fpl-insight/internal/platform/logging"
)

const recentStatsWindow = 5

// Sort orders accepted by ListPlayers.
const (
	SortByValue    = "value"
	SortByPoints   = "points"
	SortByForm     = "form"
	SortByPrice    = "price"
	SortBySelected = "selected"
)

type PlayerDetail struct {
	Player     player.Player               `json:"player"`
	ValueScore float64                     `json:"value_score"`
	Upcoming   []FixtureOutlook            `json:"upcoming,omitempty"`
	Recent     []playerstats.GameweekStats `json:"recent,omitempty"`
}

// PlayerService serves the player browsing surface: filtered listings
// and single-player detail with upcoming fixtures.
type PlayerService struct {
	playerRepo player.Repository
	statsRepo  playerstats.Repository
	scoring    *ScoringService
	fixtures   *FixtureService
	logger     *logging.Logger
	now        func() time.Time
}

func NewPlayerService(
	playerRepo player.Repository,
	statsRepo playerstats.Repository,
	scoring *ScoringService,
	fixtures *FixtureService,
	logger *logging.Logger,
) *PlayerService {
	if logger == nil {
		logger = logging.Default()
	}
	return &PlayerService{
		playerRepo: playerRepo,
		statsRepo:  statsRepo,
		scoring:    scoring,
		fixtures:   fixtures,
		logger:     logger,
		now:        time.Now,
	}
}

// ListPlayers returns players matching the filter in the requested
// order. An empty sort falls back to total points.
func (s *PlayerService) ListPlayers(ctx context.Context, filter player.Filter, sortBy string) ([]player.Player, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PlayerService.ListPlayers")
	defer span.End()

	players, err := s.playerRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list players: %w", err)
	}

	switch strings.ToLower(strings.TrimSpace(sortBy)) {
	case SortByValue:
		sort.SliceStable(players, func(i, j int) bool {
			return s.scoring.ValueScore(players[i]) > s.scoring.ValueScore(players[j])
		})
	case SortByForm:
		sort.SliceStable(players, func(i, j int) bool { return players[i].Form > players[j].Form })
	case SortByPrice:
		sort.SliceStable(players, func(i, j int) bool { return players[i].Price > players[j].Price })
	case SortBySelected:
		sort.SliceStable(players, func(i, j int) bool {
			return players[i].SelectedByPercent > players[j].SelectedByPercent
		})
	case SortByPoints, "":
		sort.SliceStable(players, func(i, j int) bool { return players[i].TotalPoints > players[j].TotalPoints })
	default:
		return nil, fmt.Errorf("%w: unknown sort %q", ErrInvalidInput, sortBy)
	}

	if filter.Limit > 0 && len(players) > filter.Limit {
		players = players[:filter.Limit]
	}

	return players, nil
}

// GetPlayer returns one player with value score, the upcoming fixture
// run for their club and their recent gameweek returns.
func (s *PlayerService) GetPlayer(ctx context.Context, playerID int) (PlayerDetail, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PlayerService.GetPlayer")
	defer span.End()

	if playerID <= 0 {
		return PlayerDetail{}, fmt.Errorf("%w: player id must be positive", ErrInvalidInput)
	}

	p, found, err := s.playerRepo.GetByID(ctx, playerID)
	if err != nil {
		return PlayerDetail{}, fmt.Errorf("get player %d: %w", playerID, err)
	}
	if !found {
		return PlayerDetail{}, fmt.Errorf("%w: player %d", ErrNotFound, playerID)
	}

	detail := PlayerDetail{Player: p, ValueScore: s.scoring.ValueScore(p)}

	report, err := s.fixtures.DifficultyForTeam(ctx, p.TeamID, 0)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return PlayerDetail{}, err
	}
	detail.Upcoming = report.Fixtures

	history, err := s.statsRepo.ListByPlayer(ctx, playerID)
	if err != nil {
		return PlayerDetail{}, fmt.Errorf("list gameweek stats: %w", err)
	}
	sort.SliceStable(history, func(i, j int) bool { return history[i].Gameweek > history[j].Gameweek })
	if len(history) > recentStatsWindow {
		history = history[:recentStatsWindow]
	}
	detail.Recent = history

	return detail, nil
}
