package usecase

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/fantasyxi/fpl-insight/internal/domain/player"
	"github.com/fantasyxi/fpl-insight/internal/platform/logging"
)

type SquadConfig struct {
	Budget     float64
	MaxPerTeam int

	// Share of the budget reserved per position. Shares should sum
	// to roughly 1.0; any slack flows into the relaxation pass.
	RatioGoalkeeper float64
	RatioDefender   float64
	RatioMidfielder float64
	RatioForward    float64
}

// DefaultFormation is the full 15-man shape of a fantasy squad.
var DefaultFormation = map[player.Position]int{
	player.PositionGoalkeeper: 2,
	player.PositionDefender:   5,
	player.PositionMidfielder: 5,
	player.PositionForward:    3,
}

type SquadPick struct {
	Player player.Player `json:"player"`
	Score  float64       `json:"score"`
	Reason string        `json:"reason"`
}

type SquadPlan struct {
	Picks           []SquadPick `json:"picks"`
	Budget          float64     `json:"budget"`
	TotalCost       float64     `json:"total_cost"`
	RemainingBudget float64     `json:"remaining_budget"`
	Complete        bool        `json:"complete"`
	Notes           []string    `json:"notes,omitempty"`
}

// SquadService builds full squads under the budget, formation and
// per-club constraints.
type SquadService struct {
	playerRepo player.Repository
	scoring    *ScoringService
	cfg        SquadConfig
	logger     *logging.Logger
	now        func() time.Time
}

func NewSquadService(playerRepo player.Repository, scoring *ScoringService, cfg SquadConfig, logger *logging.Logger) *SquadService {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.Budget <= 0 {
		cfg.Budget = 100.0
	}
	if cfg.MaxPerTeam < 1 {
		cfg.MaxPerTeam = 3
	}

	return &SquadService{
		playerRepo: playerRepo,
		scoring:    scoring,
		cfg:        cfg,
		logger:     logger,
		now:        time.Now,
	}
}

// BuildSquad assembles a 15-man squad greedily by value score. Each
// position gets a budget share first; whatever cannot be filled at
// that share is retried against the overall remaining budget with the
// cheapest viable players. A squad that still cannot be completed is
// returned partial with Complete=false and the blocking reasons.
func (s *SquadService) BuildSquad(ctx context.Context, budget float64) (SquadPlan, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SquadService.BuildSquad")
	defer span.End()

	if budget <= 0 {
		budget = s.cfg.Budget
	}

	pool, err := s.playerRepo.List(ctx, player.Filter{OnlyActive: true})
	if err != nil {
		return SquadPlan{}, fmt.Errorf("list players: %w", err)
	}

	byPosition := make(map[player.Position][]PlayerScore, len(DefaultFormation))
	for _, ps := range s.scoring.RankByValue(pool) {
		byPosition[ps.Player.Position] = append(byPosition[ps.Player.Position], ps)
	}

	plan := SquadPlan{Budget: budget}
	st := &squadState{
		remaining: budget,
		perTeam:   make(map[int]int),
		picked:    make(map[int]bool),
	}

	// Fill in formation order so the scarce positions go first.
	order := []player.Position{
		player.PositionGoalkeeper,
		player.PositionDefender,
		player.PositionMidfielder,
		player.PositionForward,
	}
	shares := map[player.Position]float64{
		player.PositionGoalkeeper: s.cfg.RatioGoalkeeper,
		player.PositionDefender:   s.cfg.RatioDefender,
		player.PositionMidfielder: s.cfg.RatioMidfielder,
		player.PositionForward:    s.cfg.RatioForward,
	}

	for _, pos := range order {
		need := DefaultFormation[pos]
		share := budget * shares[pos]
		got := s.fillPosition(st, &plan, byPosition[pos], need, share)
		if got < need {
			plan.Notes = append(plan.Notes, fmt.Sprintf("only %d of %d %s filled within the positional budget", got, need, pos))
		}
	}

	// Relaxation pass: top up short positions with the cheapest
	// players the overall remaining budget can carry.
	for _, pos := range order {
		need := DefaultFormation[pos] - st.counts[pos.Code()]
		if need <= 0 {
			continue
		}
		got := s.fillCheapest(st, &plan, byPosition[pos], pos, need)
		if got < need {
			plan.Notes = append(plan.Notes, fmt.Sprintf("could not complete %s: %d slot(s) unaffordable or pool exhausted", pos, need-got))
		}
	}

	plan.TotalCost = budget - st.remaining
	plan.RemainingBudget = st.remaining
	plan.Complete = len(plan.Picks) == squadSize()
	sortPicks(plan.Picks)

	if !plan.Complete {
		s.logger.WarnContext(ctx, "squad build incomplete",
			"picked", len(plan.Picks),
			"budget", budget,
		)
	}

	return plan, nil
}

type squadState struct {
	remaining float64
	perTeam   map[int]int
	picked    map[int]bool
	counts    [5]int // indexed by position code
}

func (s *SquadService) fillPosition(st *squadState, plan *SquadPlan, ranked []PlayerScore, need int, share float64) int {
	spent := 0.0
	got := 0
	for _, ps := range ranked {
		if got >= need {
			break
		}
		price := ps.Player.PriceMillions()
		if st.picked[ps.Player.ID] || st.perTeam[ps.Player.TeamID] >= s.cfg.MaxPerTeam {
			continue
		}
		if spent+price > share || price > st.remaining {
			continue
		}
		s.take(st, plan, ps, valuePickReason(ps.Player))
		spent += price
		got++
	}
	return got
}

func (s *SquadService) fillCheapest(st *squadState, plan *SquadPlan, ranked []PlayerScore, pos player.Position, need int) int {
	cheapest := make([]PlayerScore, 0, len(ranked))
	for _, ps := range ranked {
		if st.picked[ps.Player.ID] || st.perTeam[ps.Player.TeamID] >= s.cfg.MaxPerTeam {
			continue
		}
		cheapest = append(cheapest, ps)
	}
	sort.SliceStable(cheapest, func(i, j int) bool {
		return cheapest[i].Player.Price < cheapest[j].Player.Price
	})

	got := 0
	for _, ps := range cheapest {
		if got >= need {
			break
		}
		if ps.Player.PriceMillions() > st.remaining {
			break
		}
		if st.perTeam[ps.Player.TeamID] >= s.cfg.MaxPerTeam {
			continue
		}
		s.take(st, plan, ps, fmt.Sprintf("budget filler at %.1fm to complete the %s slots", ps.Player.PriceMillions(), pos))
		got++
	}
	return got
}

func (s *SquadService) take(st *squadState, plan *SquadPlan, ps PlayerScore, reason string) {
	st.remaining -= ps.Player.PriceMillions()
	st.perTeam[ps.Player.TeamID]++
	st.picked[ps.Player.ID] = true
	st.counts[ps.Player.Position.Code()]++
	plan.Picks = append(plan.Picks, SquadPick{Player: ps.Player, Score: ps.Score, Reason: reason})
}

func valuePickReason(p player.Player) string {
	switch {
	case p.Form >= 6:
		return fmt.Sprintf("in-form %s (%.1f) at %.1fm", p.Position, p.Form, p.PriceMillions())
	case p.TotalPoints >= 100:
		return fmt.Sprintf("%d points this season for %.1fm", p.TotalPoints, p.PriceMillions())
	default:
		return fmt.Sprintf("best value %s left at %.1fm", p.Position, p.PriceMillions())
	}
}

func squadSize() int {
	total := 0
	for _, n := range DefaultFormation {
		total += n
	}
	return total
}

func sortPicks(picks []SquadPick) {
	sort.SliceStable(picks, func(i, j int) bool {
		ci, cj := picks[i].Player.Position.Code(), picks[j].Player.Position.Code()
		if ci != cj {
			return ci < cj
		}
		return picks[i].Score > picks[j].Score
	})
}
