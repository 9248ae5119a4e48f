package usecase

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/fantasyxi/fpl-insight/internal/domain/history"
	"github.com/fantasyxi/fpl-insight/internal/domain/player"
	"github.com/fantasyxi/fpl-insight/internal/domain/season"
	"github.com/fantasyxi/fpl-insight/internal/platform/logging"
)

type ScoringConfig struct {
	// PriceFloor (in millions) bounds the denominator of the value
	// score so bargain-bin or zero-priced edge data cannot blow it up.
	PriceFloor float64

	CaptainScoreFloor float64
	CaptainLimit      int
}

type PlayerScore struct {
	Player player.Player `json:"player"`
	Score  float64       `json:"score"`
}

type CaptainOption struct {
	PlayerID int     `json:"player_id"`
	Name     string  `json:"name"`
	Position string  `json:"position"`
	TeamID   int     `json:"team_id"`
	Score    float64 `json:"score"`
	Form     float64 `json:"form"`
	Goals    int     `json:"goals"`
	Assists  int     `json:"assists"`
	Reason   string  `json:"reason"`
}

// ScoringService owns every ranking metric. All downstream components
// rank through it so orderings stay consistent across endpoints.
type ScoringService struct {
	playerRepo  player.Repository
	historyRepo history.Repository
	seasonRepo  season.Repository
	cfg         ScoringConfig
	logger      *logging.Logger
	now         func() time.Time
}

func NewScoringService(
	playerRepo player.Repository,
	historyRepo history.Repository,
	seasonRepo season.Repository,
	cfg ScoringConfig,
	logger *logging.Logger,
) *ScoringService {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.PriceFloor <= 0 {
		cfg.PriceFloor = 4.0
	}
	if cfg.CaptainScoreFloor <= 0 {
		cfg.CaptainScoreFloor = 10.0
	}
	if cfg.CaptainLimit < 1 {
		cfg.CaptainLimit = 10
	}

	return &ScoringService{
		playerRepo:  playerRepo,
		historyRepo: historyRepo,
		seasonRepo:  seasonRepo,
		cfg:         cfg,
		logger:      logger,
		now:         time.Now,
	}
}

// ValueScore blends points-per-price with recent form. Monotonic in
// both inputs.
func (s *ScoringService) ValueScore(p player.Player) float64 {
	price := p.PriceMillions()
	if price < s.cfg.PriceFloor {
		price = s.cfg.PriceFloor
	}
	return float64(p.TotalPoints)/price + 2*p.Form
}

// CaptainScore weighs attacking output: goals dominate, then assists,
// then form, with total points as a light tiebreaker.
func (s *ScoringService) CaptainScore(p player.Player) float64 {
	return float64(p.GoalsScored)*6 + float64(p.Assists)*3 + p.Form*2 + float64(p.TotalPoints)*0.1
}

// RankByValue orders selectable players by value score descending.
// Unavailable players are excluded entirely, never down-weighted.
func (s *ScoringService) RankByValue(players []player.Player) []PlayerScore {
	out := make([]PlayerScore, 0, len(players))
	for _, p := range players {
		if !p.Selectable() {
			continue
		}
		out = append(out, PlayerScore{Player: p, Score: s.ValueScore(p)})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].Player.ID < out[j].Player.ID
	})
	return out
}

// RecommendCaptains picks armband candidates from the given squad, or
// from the whole pool when no squad is supplied. Only midfielders and
// forwards clear the bar; defensive assets rarely return captaincy.
// Early in the season the prior-season rate shades the ordering via
// the configured blend for the given gameweek.
func (s *ScoringService) RecommendCaptains(ctx context.Context, squadPlayerIDs []int, gameweek int) ([]CaptainOption, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ScoringService.RecommendCaptains")
	defer span.End()

	pool, err := s.candidates(ctx, squadPlayerIDs)
	if err != nil {
		return nil, err
	}

	options := make([]CaptainOption, 0, len(pool))
	for _, p := range pool {
		if !p.Selectable() {
			continue
		}
		if p.Position != player.PositionMidfielder && p.Position != player.PositionForward {
			continue
		}
		score := s.CaptainScore(p)
		adjustment, err := s.historyAdjustment(ctx, p, gameweek)
		if err != nil {
			return nil, err
		}
		score += adjustment
		if score <= s.cfg.CaptainScoreFloor {
			continue
		}
		options = append(options, CaptainOption{
			PlayerID: p.ID,
			Name:     p.WebName,
			Position: string(p.Position),
			TeamID:   p.TeamID,
			Score:    score,
			Form:     p.Form,
			Goals:    p.GoalsScored,
			Assists:  p.Assists,
			Reason:   captainReason(p),
		})
	}

	sort.SliceStable(options, func(i, j int) bool {
		if options[i].Score != options[j].Score {
			return options[i].Score > options[j].Score
		}
		return options[i].PlayerID < options[j].PlayerID
	})

	if len(options) > s.cfg.CaptainLimit {
		options = options[:s.cfg.CaptainLimit]
	}

	return options, nil
}

// BlendedPointsPerGame mixes current-season points per game with the
// player's prior-season rate. Early in the season the historical rate
// dominates; the season config shifts the balance as rounds complete.
func (s *ScoringService) BlendedPointsPerGame(ctx context.Context, p player.Player, gameweek int) (float64, error) {
	cfg, found, err := s.seasonRepo.Get(ctx)
	if err != nil {
		return 0, fmt.Errorf("get season config: %w", err)
	}
	if !found {
		return p.PointsPerGame, nil
	}

	historical, err := s.historicalPointsPerGame(ctx, p.ID)
	if err != nil {
		return 0, err
	}
	if historical == 0 {
		return p.PointsPerGame, nil
	}

	histWeight, curWeight := cfg.BlendWeights(gameweek)
	total := histWeight + curWeight
	if total <= 0 {
		return p.PointsPerGame, nil
	}

	return (historical*histWeight + p.PointsPerGame*curWeight) / total, nil
}

// historyAdjustment is the scoring delta a player's prior-season rate
// earns on top of the raw current-season numbers. Without loaded
// history or a season config it is zero, so rankings early in a fresh
// deployment match the plain formulas exactly.
func (s *ScoringService) historyAdjustment(ctx context.Context, p player.Player, gameweek int) (float64, error) {
	blended, err := s.BlendedPointsPerGame(ctx, p, gameweek)
	if err != nil {
		return 0, err
	}
	return 2 * (blended - p.PointsPerGame), nil
}

func (s *ScoringService) historicalPointsPerGame(ctx context.Context, playerID int) (float64, error) {
	if s.historyRepo == nil {
		return 0, nil
	}

	seasons, err := s.historyRepo.ListByPlayer(ctx, playerID)
	if err != nil {
		return 0, fmt.Errorf("list historical stats: %w", err)
	}
	if len(seasons) == 0 {
		return 0, nil
	}

	// Most recent prior season wins; labels sort lexically ("2024-25").
	sort.SliceStable(seasons, func(i, j int) bool { return seasons[i].Season > seasons[j].Season })
	latest := seasons[0]
	if latest.PointsPerGame > 0 {
		return latest.PointsPerGame, nil
	}
	appearances := float64(latest.Minutes) / 90.0
	if appearances < 1 {
		return 0, nil
	}
	return float64(latest.TotalPoints) / appearances, nil
}

func (s *ScoringService) candidates(ctx context.Context, squadPlayerIDs []int) ([]player.Player, error) {
	if len(squadPlayerIDs) == 0 {
		pool, err := s.playerRepo.List(ctx, player.Filter{OnlyActive: true})
		if err != nil {
			return nil, fmt.Errorf("list players: %w", err)
		}
		return pool, nil
	}

	out := make([]player.Player, 0, len(squadPlayerIDs))
	for _, id := range squadPlayerIDs {
		p, found, err := s.playerRepo.GetByID(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("get player %d: %w", id, err)
		}
		if !found {
			return nil, fmt.Errorf("%w: player %d", ErrNotFound, id)
		}
		out = append(out, p)
	}
	return out, nil
}

func captainReason(p player.Player) string {
	switch {
	case p.GoalsScored >= 10:
		return fmt.Sprintf("%d goals this season with form %.1f", p.GoalsScored, p.Form)
	case p.Form >= 6:
		return fmt.Sprintf("excellent form (%.1f) over the last month", p.Form)
	case p.Assists >= 8:
		return fmt.Sprintf("%d assists this season, a reliable returner", p.Assists)
	default:
		return fmt.Sprintf("steady returns: %d points overall", p.TotalPoints)
	}
}
