package usecase

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/fantasyxi/fpl-insight/internal/domain/player"
	"github.com/fantasyxi/fpl-insight/internal/domain/team"
	"github.com/fantasyxi/fpl-insight/internal/platform/logging"
)

// Squad recommendation sources.
const (
	SourceOracle   = "oracle"
	SourceFallback = "fallback"
)

const oracleCandidatesPerPosition = 12

type SquadRecommendation struct {
	Plan      SquadPlan `json:"plan"`
	Source    string    `json:"source"`
	Reasoning string    `json:"reasoning,omitempty"`

	// Set only when the caller asked for a starting shape.
	Formation  string      `json:"formation,omitempty"`
	StartingXI []SquadPick `json:"starting_xi,omitempty"`
}

// RecommendationService fronts squad building with an optional oracle.
// The oracle gets first refusal; anything it returns is validated
// against the hard squad rules, and any failure drops silently to the
// deterministic builder.
type RecommendationService struct {
	playerRepo player.Repository
	teamRepo   team.Repository
	squads     *SquadService
	scoring    *ScoringService
	oracle     RecommendationOracle
	enabled    bool
	logger     *logging.Logger
	now        func() time.Time
}

func NewRecommendationService(
	playerRepo player.Repository,
	teamRepo team.Repository,
	squads *SquadService,
	scoring *ScoringService,
	oracle RecommendationOracle,
	oracleEnabled bool,
	logger *logging.Logger,
) *RecommendationService {
	if logger == nil {
		logger = logging.Default()
	}
	return &RecommendationService{
		playerRepo: playerRepo,
		teamRepo:   teamRepo,
		squads:     squads,
		scoring:    scoring,
		oracle:     oracle,
		enabled:    oracleEnabled && oracle != nil,
		logger:     logger,
		now:        time.Now,
	}
}

// RecommendSquad returns a full squad for the budget. The response
// names its source so callers can tell an oracle pick from the greedy
// fallback. A non-empty formation such as "4-4-2" additionally marks
// the suggested starting XI inside the squad.
func (r *RecommendationService) RecommendSquad(ctx context.Context, budget float64, formation string) (SquadRecommendation, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RecommendationService.RecommendSquad")
	defer span.End()

	if budget <= 0 {
		budget = r.squads.cfg.Budget
	}

	var shape map[player.Position]int
	if formation != "" {
		parsed, err := parseFormation(formation)
		if err != nil {
			return SquadRecommendation{}, err
		}
		shape = parsed
	}

	var rec SquadRecommendation
	fromOracle := false
	if r.enabled {
		oracleRec, err := r.askOracle(ctx, budget)
		if err == nil {
			rec = oracleRec
			fromOracle = true
		} else {
			r.logger.WarnContext(ctx, "oracle squad rejected, using fallback", "error", err)
		}
	}
	if !fromOracle {
		plan, err := r.squads.BuildSquad(ctx, budget)
		if err != nil {
			return SquadRecommendation{}, err
		}
		rec = SquadRecommendation{Plan: plan, Source: SourceFallback}
	}

	if shape != nil {
		rec.Formation = formation
		rec.StartingXI = startingXI(rec.Plan.Picks, shape)
	}
	return rec, nil
}

// parseFormation reads a "DEF-MID-FWD" outfield shape such as "4-4-2".
// The goalkeeper slot is implicit.
func parseFormation(formation string) (map[player.Position]int, error) {
	parts := strings.Split(formation, "-")
	if len(parts) != 3 {
		return nil, fmt.Errorf("%w: formation must look like 4-4-2", ErrInvalidInput)
	}
	counts := make([]int, len(parts))
	for i, part := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, fmt.Errorf("%w: formation must look like 4-4-2", ErrInvalidInput)
		}
		counts[i] = n
	}

	def, mid, fwd := counts[0], counts[1], counts[2]
	if def < 3 || def > 5 || mid < 2 || mid > 5 || fwd < 1 || fwd > 3 || def+mid+fwd != 10 {
		return nil, fmt.Errorf("%w: formation %s breaks the ten-outfield rule", ErrInvalidInput, formation)
	}
	return map[player.Position]int{
		player.PositionGoalkeeper: 1,
		player.PositionDefender:   def,
		player.PositionMidfielder: mid,
		player.PositionForward:    fwd,
	}, nil
}

// startingXI takes the strongest pick per slot of the requested shape.
// A partial squad yields a partial XI.
func startingXI(picks []SquadPick, shape map[player.Position]int) []SquadPick {
	quota := make(map[player.Position]int, len(shape))
	for pos, n := range shape {
		quota[pos] = n
	}

	ordered := append([]SquadPick(nil), picks...)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].Score > ordered[j].Score })

	xi := make([]SquadPick, 0, 11)
	for _, p := range ordered {
		if quota[p.Player.Position] == 0 {
			continue
		}
		quota[p.Player.Position]--
		xi = append(xi, p)
	}
	sortPicks(xi)
	return xi
}

func (r *RecommendationService) askOracle(ctx context.Context, budget float64) (SquadRecommendation, error) {
	pool, err := r.playerRepo.List(ctx, player.Filter{OnlyActive: true})
	if err != nil {
		return SquadRecommendation{}, fmt.Errorf("list players: %w", err)
	}

	clubNames, err := r.clubShortNames(ctx)
	if err != nil {
		return SquadRecommendation{}, err
	}

	candidates := r.shortlist(pool, clubNames)
	if len(candidates) == 0 {
		return SquadRecommendation{}, fmt.Errorf("%w: empty candidate pool", ErrDependencyUnavailable)
	}

	formation := make(map[string]int, len(DefaultFormation))
	for pos, n := range DefaultFormation {
		formation[string(pos)] = n
	}

	suggestion, err := r.oracle.SuggestSquad(ctx, OracleSquadRequest{
		Budget:     budget,
		Formation:  formation,
		Candidates: candidates,
	})
	if err != nil {
		return SquadRecommendation{}, err
	}

	plan, err := r.validateSuggestion(ctx, suggestion, budget)
	if err != nil {
		return SquadRecommendation{}, err
	}

	return SquadRecommendation{Plan: plan, Source: SourceOracle, Reasoning: suggestion.Reasoning}, nil
}

func (r *RecommendationService) clubShortNames(ctx context.Context) (map[int]string, error) {
	teams, err := r.teamRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list teams: %w", err)
	}
	names := make(map[int]string, len(teams))
	for _, t := range teams {
		names[t.ID] = t.ShortName
	}
	return names, nil
}

// shortlist trims the pool to the strongest value picks per position
// so the prompt stays small.
func (r *RecommendationService) shortlist(pool []player.Player, clubNames map[int]string) []OracleCandidate {
	perPosition := make(map[player.Position]int, len(DefaultFormation))
	var out []OracleCandidate
	for _, ps := range r.scoring.RankByValue(pool) {
		if perPosition[ps.Player.Position] >= oracleCandidatesPerPosition {
			continue
		}
		perPosition[ps.Player.Position]++
		out = append(out, OracleCandidate{
			PlayerID: ps.Player.ID,
			Name:     ps.Player.WebName,
			Position: string(ps.Player.Position),
			Team:     clubNames[ps.Player.TeamID],
			Price:    ps.Player.PriceMillions(),
			Points:   ps.Player.TotalPoints,
			Form:     ps.Player.Form,
		})
	}
	return out
}

// validateSuggestion enforces the hard rules the oracle cannot be
// trusted with: known players only, the exact formation shape, the
// budget and the per-club cap.
func (r *RecommendationService) validateSuggestion(ctx context.Context, suggestion OracleSquadSuggestion, budget float64) (SquadPlan, error) {
	if len(suggestion.PlayerIDs) != squadSize() {
		return SquadPlan{}, fmt.Errorf("%w: oracle picked %d players, want %d", ErrOracleParse, len(suggestion.PlayerIDs), squadSize())
	}

	seen := make(map[int]bool, len(suggestion.PlayerIDs))
	perTeam := make(map[int]int)
	perPosition := make(map[player.Position]int)
	plan := SquadPlan{Budget: budget}

	for _, id := range suggestion.PlayerIDs {
		if seen[id] {
			return SquadPlan{}, fmt.Errorf("%w: duplicate player %d", ErrOracleParse, id)
		}
		seen[id] = true

		p, found, err := r.playerRepo.GetByID(ctx, id)
		if err != nil {
			return SquadPlan{}, fmt.Errorf("get player %d: %w", id, err)
		}
		if !found {
			return SquadPlan{}, fmt.Errorf("%w: unknown player %d", ErrOracleParse, id)
		}

		perTeam[p.TeamID]++
		if perTeam[p.TeamID] > r.squads.cfg.MaxPerTeam {
			return SquadPlan{}, fmt.Errorf("%w: more than %d players from team %d", ErrOracleParse, r.squads.cfg.MaxPerTeam, p.TeamID)
		}
		perPosition[p.Position]++

		plan.TotalCost += p.PriceMillions()
		plan.Picks = append(plan.Picks, SquadPick{Player: p, Score: r.scoring.ValueScore(p), Reason: "oracle selection"})
	}

	for pos, want := range DefaultFormation {
		if perPosition[pos] != want {
			return SquadPlan{}, fmt.Errorf("%w: formation has %d %s, want %d", ErrOracleParse, perPosition[pos], pos, want)
		}
	}
	if plan.TotalCost > budget {
		return SquadPlan{}, fmt.Errorf("%w: squad costs %.1f over budget %.1f", ErrOracleParse, plan.TotalCost, budget)
	}

	plan.RemainingBudget = budget - plan.TotalCost
	plan.Complete = true
	sortPicks(plan.Picks)
	return plan, nil
}
