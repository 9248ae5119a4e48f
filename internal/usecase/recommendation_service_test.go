package usecase

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/fantasyxi/fpl-insight/internal/domain/team"
	"github.com/fantasyxi/fpl-insight/internal/infrastructure/repository/memory"
	"github.com/fantasyxi/fpl-insight/internal/platform/logging"
)

type fakeOracle struct {
	suggestion OracleSquadSuggestion
	err        error

	requests []OracleSquadRequest
}

func (f *fakeOracle) SuggestSquad(_ context.Context, req OracleSquadRequest) (OracleSquadSuggestion, error) {
	f.requests = append(f.requests, req)
	return f.suggestion, f.err
}

func newRecommendationService(t *testing.T, oracle RecommendationOracle, enabled bool) (*RecommendationService, *memory.PlayerRepository, *memory.TeamRepository) {
	t.Helper()

	playerRepo := memory.NewPlayerRepository()
	teamRepo := memory.NewTeamRepository()
	scoring := NewScoringService(playerRepo, memory.NewHistoryRepository(), memory.NewSeasonRepository(), ScoringConfig{}, logging.NewNop())
	squads := NewSquadService(playerRepo, scoring, defaultSquadConfig(), logging.NewNop())

	return NewRecommendationService(playerRepo, teamRepo, squads, scoring, oracle, enabled, logging.NewNop()), playerRepo, teamRepo
}

func TestRecommendSquad_OracleSuggestionAccepted(t *testing.T) {
	oracle := &fakeOracle{}
	service, playerRepo, _ := newRecommendationService(t, oracle, true)
	seedSquadPool(t, playerRepo)

	// Hand the oracle a squad the deterministic builder would accept:
	// reuse the fallback plan's exact picks.
	plan, err := service.squads.BuildSquad(t.Context(), 100.0)
	require.NoError(t, err)
	require.True(t, plan.Complete)
	for _, pick := range plan.Picks {
		oracle.suggestion.PlayerIDs = append(oracle.suggestion.PlayerIDs, pick.Player.ID)
	}
	oracle.suggestion.Reasoning = "balanced value across all four positions"

	rec, err := service.RecommendSquad(t.Context(), 100.0, "")
	require.NoError(t, err)

	require.Equal(t, SourceOracle, rec.Source)
	require.Equal(t, "balanced value across all four positions", rec.Reasoning)
	require.Len(t, rec.Plan.Picks, 15)
	require.True(t, rec.Plan.Complete)
	require.LessOrEqual(t, rec.Plan.TotalCost, 100.0)
	require.Len(t, oracle.requests, 1)
	require.Equal(t, 100.0, oracle.requests[0].Budget)
}

func TestRecommendSquad_OracleErrorFallsBack(t *testing.T) {
	oracle := &fakeOracle{err: ErrDependencyUnavailable}
	service, playerRepo, _ := newRecommendationService(t, oracle, true)
	seedSquadPool(t, playerRepo)

	rec, err := service.RecommendSquad(t.Context(), 0, "")
	require.NoError(t, err)

	require.Equal(t, SourceFallback, rec.Source)
	require.Len(t, rec.Plan.Picks, 15)
}

func TestRecommendSquad_InvalidOracleSquadFallsBack(t *testing.T) {
	// Eleven players is not a legal 15-man squad.
	oracle := &fakeOracle{suggestion: OracleSquadSuggestion{PlayerIDs: []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11}}}
	service, playerRepo, _ := newRecommendationService(t, oracle, true)
	seedSquadPool(t, playerRepo)

	rec, err := service.RecommendSquad(t.Context(), 0, "")
	require.NoError(t, err)
	require.Equal(t, SourceFallback, rec.Source)
}

func TestRecommendSquad_OracleDisabledNeverCalled(t *testing.T) {
	oracle := &fakeOracle{}
	service, playerRepo, _ := newRecommendationService(t, oracle, false)
	seedSquadPool(t, playerRepo)

	rec, err := service.RecommendSquad(t.Context(), 0, "")
	require.NoError(t, err)
	require.Equal(t, SourceFallback, rec.Source)
	require.Empty(t, oracle.requests)
}

func TestRecommendSquad_FormationMarksStartingXI(t *testing.T) {
	oracle := &fakeOracle{}
	service, playerRepo, _ := newRecommendationService(t, oracle, false)
	seedSquadPool(t, playerRepo)

	rec, err := service.RecommendSquad(t.Context(), 0, "4-4-2")
	require.NoError(t, err)

	require.Equal(t, "4-4-2", rec.Formation)
	require.Len(t, rec.StartingXI, 11)

	counts := map[string]int{}
	for _, pick := range rec.StartingXI {
		counts[string(pick.Player.Position)]++
	}
	require.Equal(t, map[string]int{"GK": 1, "DEF": 4, "MID": 4, "FWD": 2}, counts)
}

func TestRecommendSquad_RejectsIllegalFormation(t *testing.T) {
	service, playerRepo, _ := newRecommendationService(t, nil, false)
	seedSquadPool(t, playerRepo)

	for _, formation := range []string{"4-4-3", "2-5-3", "442", "a-b-c"} {
		_, err := service.RecommendSquad(t.Context(), 0, formation)
		require.ErrorIs(t, err, ErrInvalidInput, "formation %s", formation)
	}
}

func TestRecommendSquad_OracleCandidatesCarryClubNames(t *testing.T) {
	oracle := &fakeOracle{err: ErrDependencyUnavailable}
	service, playerRepo, teamRepo := newRecommendationService(t, oracle, true)
	seedSquadPool(t, playerRepo)

	teams := make([]team.Team, 0, 10)
	for id := 1; id <= 10; id++ {
		teams = append(teams, team.Team{ID: id, Code: 100 + id, Name: fmt.Sprintf("Club %d", id), ShortName: fmt.Sprintf("C%02d", id)})
	}
	require.NoError(t, teamRepo.Upsert(t.Context(), teams))

	_, err := service.RecommendSquad(t.Context(), 0, "")
	require.NoError(t, err)

	require.Len(t, oracle.requests, 1)
	require.NotEmpty(t, oracle.requests[0].Candidates)
	for _, cand := range oracle.requests[0].Candidates {
		require.Regexp(t, `^C\d{2}$`, cand.Team)
	}
}
