package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/fantasyxi/fpl-insight/internal/domain/player"
	"github.com/fantasyxi/fpl-insight/internal/infrastructure/repository/memory"
	"github.com/fantasyxi/fpl-insight/internal/platform/cache"
	"github.com/fantasyxi/fpl-insight/internal/platform/logging"
)

type entryProvider struct {
	fakeProvider

	entry     ExternalEntry
	entryErr  error
	picks     ExternalEntryPicks
	picksErr  error
	wantedGWs []int
}

func (p *entryProvider) FetchEntry(context.Context, int) (ExternalEntry, error) {
	return p.entry, p.entryErr
}

func (p *entryProvider) FetchEntryPicks(_ context.Context, _ int, gameweek int) (ExternalEntryPicks, error) {
	p.wantedGWs = append(p.wantedGWs, gameweek)
	return p.picks, p.picksErr
}

func TestEntryGetTeam_JoinsLocalPlayers(t *testing.T) {
	provider := &entryProvider{
		entry: ExternalEntry{ID: 42, FirstName: "Sam", LastName: "Doe", TeamName: "Doe XI", OverallPoints: 512, OverallRank: 120000, CurrentEvent: 6},
		picks: ExternalEntryPicks{
			EntryID: 42, Gameweek: 6, Points: 61, ActiveChip: "bboost",
			Picks: []ExternalEntryPick{
				{PlayerID: 10, SlotPosition: 1, Multiplier: 1},
				{PlayerID: 11, SlotPosition: 2, Multiplier: 2, IsCaptain: true},
				{PlayerID: 999, SlotPosition: 3, Multiplier: 1},
			},
		},
	}

	playerRepo := memory.NewPlayerRepository()
	require.NoError(t, playerRepo.Upsert(t.Context(), []player.Player{
		{ID: 10, WebName: "Keeper", Position: player.PositionGoalkeeper, Status: player.StatusAvailable},
		{ID: 11, WebName: "Captain", Position: player.PositionMidfielder, Status: player.StatusAvailable},
	}))

	fixtures := NewFixtureService(memory.NewFixtureRepository(), memory.NewTeamRepository(), cache.NewStore(time.Minute), 5, logging.NewNop())
	service := NewEntryService(provider, playerRepo, fixtures, logging.NewNop())

	team, err := service.GetTeam(t.Context(), 42, 0)
	require.NoError(t, err)

	require.Equal(t, 42, team.EntryID)
	require.Equal(t, "Sam Doe", team.ManagerName)
	require.Equal(t, 6, team.Gameweek)
	require.Equal(t, "bboost", team.ActiveChip)
	require.Len(t, team.Picks, 3)
	require.Equal(t, "Captain", team.Picks[1].Player.WebName)
	require.True(t, team.Picks[1].IsCaptain)
	// Unknown players keep the slot with just the id.
	require.Equal(t, 999, team.Picks[2].Player.ID)
	require.Empty(t, team.Picks[2].Player.WebName)
	require.Equal(t, []int{6}, provider.wantedGWs)
}

func TestEntryGetTeam_UpstreamFailure(t *testing.T) {
	provider := &entryProvider{entryErr: errors.New("entry not reachable")}

	fixtures := NewFixtureService(memory.NewFixtureRepository(), memory.NewTeamRepository(), cache.NewStore(time.Minute), 5, logging.NewNop())
	service := NewEntryService(provider, memory.NewPlayerRepository(), fixtures, logging.NewNop())

	_, err := service.GetTeam(t.Context(), 42, 0)
	require.ErrorIs(t, err, ErrUpstreamFetch)
}

func TestEntryGetTeam_RejectsBadID(t *testing.T) {
	fixtures := NewFixtureService(memory.NewFixtureRepository(), memory.NewTeamRepository(), cache.NewStore(time.Minute), 5, logging.NewNop())
	service := NewEntryService(&entryProvider{}, memory.NewPlayerRepository(), fixtures, logging.NewNop())

	_, err := service.GetTeam(t.Context(), 0, 0)
	require.ErrorIs(t, err, ErrInvalidInput)
}
