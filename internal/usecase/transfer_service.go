package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/fantasyxi/fpl-insight/internal/domain/player"
	"github.com/fantasyxi/fpl-insight/internal/platform/logging"
)

type TransferConfig struct {
	// An owned player is flagged when any of these trip: form below
	// FormFloor, points-per-game below PPGFloor at a price above
	// PricePremium, or points-per-game below HardPPGFloor outright.
	FormFloor    float64
	PPGFloor     float64
	PricePremium float64
	HardPPGFloor float64

	MinGain        float64
	DefaultMax     int
	FixtureHorizon int
}

type TransferSuggestion struct {
	Out        player.Player `json:"out"`
	In         player.Player `json:"in"`
	Gain       float64       `json:"gain"`
	CostChange float64       `json:"cost_change"`
	Reason     string        `json:"reason"`
}

type TransferAdvice struct {
	Gameweek    int                  `json:"gameweek"`
	Bank        float64              `json:"bank"`
	Suggestions []TransferSuggestion `json:"suggestions"`
}

// TransferService flags underperforming squad members and proposes
// same-position upgrades the bank can afford.
type TransferService struct {
	playerRepo player.Repository
	scoring    *ScoringService
	fixtures   *FixtureService
	cfg        TransferConfig
	logger     *logging.Logger
	now        func() time.Time
}

func NewTransferService(
	playerRepo player.Repository,
	scoring *ScoringService,
	fixtures *FixtureService,
	cfg TransferConfig,
	logger *logging.Logger,
) *TransferService {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.MinGain <= 0 {
		cfg.MinGain = 0.5
	}
	if cfg.DefaultMax < 1 {
		cfg.DefaultMax = 2
	}
	if cfg.FixtureHorizon < 1 {
		cfg.FixtureHorizon = 3
	}

	return &TransferService{
		playerRepo: playerRepo,
		scoring:    scoring,
		fixtures:   fixtures,
		cfg:        cfg,
		logger:     logger,
		now:        time.Now,
	}
}

// RecommendTransfers evaluates the given squad and returns up to
// maxTransfers moves ordered by expected gain. The bank constraint is
// cumulative: a second move only appears if it remains affordable
// after the first one goes through.
func (t *TransferService) RecommendTransfers(ctx context.Context, squadPlayerIDs []int, bank float64, maxTransfers int) (TransferAdvice, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TransferService.RecommendTransfers")
	defer span.End()

	if len(squadPlayerIDs) == 0 {
		return TransferAdvice{}, fmt.Errorf("%w: squad is empty", ErrInvalidInput)
	}
	if maxTransfers < 1 {
		maxTransfers = t.cfg.DefaultMax
	}
	if bank < 0 {
		bank = 0
	}

	squad := make([]player.Player, 0, len(squadPlayerIDs))
	owned := make(map[int]bool, len(squadPlayerIDs))
	for _, id := range squadPlayerIDs {
		p, found, err := t.playerRepo.GetByID(ctx, id)
		if err != nil {
			return TransferAdvice{}, fmt.Errorf("get player %d: %w", id, err)
		}
		if !found {
			return TransferAdvice{}, fmt.Errorf("%w: player %d", ErrNotFound, id)
		}
		squad = append(squad, p)
		owned[p.ID] = true
	}

	gameweek, err := t.fixtures.CurrentGameweek(ctx)
	if err != nil {
		return TransferAdvice{}, err
	}

	var candidates []TransferSuggestion
	for _, out := range squad {
		reason, weak := t.underperforming(out)
		if !weak {
			continue
		}

		replacement, gain, err := t.bestReplacement(ctx, out, owned, bank, gameweek)
		if err != nil {
			return TransferAdvice{}, err
		}
		if replacement == nil {
			continue
		}

		candidates = append(candidates, TransferSuggestion{
			Out:        out,
			In:         *replacement,
			Gain:       gain,
			CostChange: replacement.PriceMillions() - out.PriceMillions(),
			Reason:     reason,
		})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].Gain != candidates[j].Gain {
			return candidates[i].Gain > candidates[j].Gain
		}
		return candidates[i].Out.ID < candidates[j].Out.ID
	})

	advice := TransferAdvice{Gameweek: gameweek, Bank: bank}
	remaining := bank
	soldOrBought := make(map[int]bool)
	for _, c := range candidates {
		if len(advice.Suggestions) >= maxTransfers {
			break
		}
		if soldOrBought[c.Out.ID] || soldOrBought[c.In.ID] {
			continue
		}
		if c.CostChange > remaining {
			continue
		}
		remaining -= c.CostChange
		soldOrBought[c.Out.ID] = true
		soldOrBought[c.In.ID] = true
		advice.Suggestions = append(advice.Suggestions, c)
	}

	return advice, nil
}

func (t *TransferService) underperforming(p player.Player) (string, bool) {
	switch {
	case !p.Selectable():
		return fmt.Sprintf("flagged %s: %s", p.Status, p.News), true
	case p.PointsPerGame < t.cfg.HardPPGFloor:
		return fmt.Sprintf("only %.1f points per game", p.PointsPerGame), true
	case p.Form < t.cfg.FormFloor:
		return fmt.Sprintf("poor form (%.1f)", p.Form), true
	case p.PointsPerGame < t.cfg.PPGFloor && p.PriceMillions() > t.cfg.PricePremium:
		return fmt.Sprintf("%.1f points per game does not justify %.1fm", p.PointsPerGame, p.PriceMillions()), true
	default:
		return "", false
	}
}

// bestReplacement scans same-position players affordable within the
// sale price plus bank and keeps the one with the highest fixture
// adjusted gain, if any clears the minimum.
func (t *TransferService) bestReplacement(ctx context.Context, out player.Player, owned map[int]bool, bank float64, gameweek int) (*player.Player, float64, error) {
	maxPrice := out.Price + int64(bank*10)
	pool, err := t.playerRepo.List(ctx, player.Filter{
		Position:   out.Position,
		MaxPrice:   maxPrice,
		OnlyActive: true,
	})
	if err != nil {
		return nil, 0, fmt.Errorf("list replacements: %w", err)
	}

	outScore, err := t.fixtureAdjustedScore(ctx, out, gameweek)
	if err != nil {
		return nil, 0, err
	}

	var (
		best     *player.Player
		bestGain float64
	)
	for i := range pool {
		cand := pool[i]
		if owned[cand.ID] {
			continue
		}
		candScore, err := t.fixtureAdjustedScore(ctx, cand, gameweek)
		if err != nil {
			return nil, 0, err
		}
		gain := candScore - outScore
		if gain < t.cfg.MinGain {
			continue
		}
		if best == nil || gain > bestGain {
			best = &pool[i]
			bestGain = gain
		}
	}
	return best, bestGain, nil
}

// fixtureAdjustedScore nudges the value score by prior-season pedigree
// and by fixture ease over the configured horizon. A run of easy games
// adds up to two points.
func (t *TransferService) fixtureAdjustedScore(ctx context.Context, p player.Player, gameweek int) (float64, error) {
	score := t.scoring.ValueScore(p)
	adjustment, err := t.scoring.historyAdjustment(ctx, p, gameweek)
	if err != nil {
		return 0, err
	}
	score += adjustment

	report, err := t.fixtures.DifficultyForTeam(ctx, p.TeamID, t.cfg.FixtureHorizon)
	if err != nil {
		// A player whose club has no loaded fixtures still scores.
		if errors.Is(err, ErrNotFound) {
			return score, nil
		}
		return 0, err
	}
	return score + (neutralDifficulty - report.AverageDifficulty), nil
}
