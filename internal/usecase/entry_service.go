package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/fantasyxi/fpl-insight/internal/domain/player"
	"github.com/fantasyxi/fpl-insight/internal/platform/logging"
)

type EntryPick struct {
	Player        player.Player `json:"player"`
	SlotPosition  int           `json:"slot_position"`
	Multiplier    int           `json:"multiplier"`
	IsCaptain     bool          `json:"is_captain"`
	IsViceCaptain bool          `json:"is_vice_captain"`
}

type EntryTeam struct {
	EntryID       int         `json:"entry_id"`
	ManagerName   string      `json:"manager_name"`
	TeamName      string      `json:"team_name"`
	OverallPoints int         `json:"overall_points"`
	OverallRank   int         `json:"overall_rank"`
	Gameweek      int         `json:"gameweek"`
	EventPoints   int         `json:"event_points"`
	ActiveChip    string      `json:"active_chip,omitempty"`
	Picks         []EntryPick `json:"picks"`
}

// EntryService resolves a manager's entry and current picks from the
// upstream source, joined against the locally synced player pool.
type EntryService struct {
	provider   DataProvider
	playerRepo player.Repository
	fixtures   *FixtureService
	logger     *logging.Logger
	now        func() time.Time
}

func NewEntryService(provider DataProvider, playerRepo player.Repository, fixtures *FixtureService, logger *logging.Logger) *EntryService {
	if logger == nil {
		logger = logging.Default()
	}
	return &EntryService{
		provider:   provider,
		playerRepo: playerRepo,
		fixtures:   fixtures,
		logger:     logger,
		now:        time.Now,
	}
}

// GetTeam fetches the entry and its picks for the given gameweek.
// Gameweek zero resolves to the entry's current event, falling back
// to the locally derived round.
func (s *EntryService) GetTeam(ctx context.Context, entryID, gameweek int) (EntryTeam, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.EntryService.GetTeam")
	defer span.End()

	if entryID <= 0 {
		return EntryTeam{}, fmt.Errorf("%w: entry id must be positive", ErrInvalidInput)
	}

	entry, err := s.provider.FetchEntry(ctx, entryID)
	if err != nil {
		return EntryTeam{}, fmt.Errorf("%w: fetch entry %d: %v", ErrUpstreamFetch, entryID, err)
	}

	if gameweek <= 0 {
		gameweek = entry.CurrentEvent
	}
	if gameweek <= 0 {
		gameweek, err = s.fixtures.CurrentGameweek(ctx)
		if err != nil {
			return EntryTeam{}, err
		}
	}

	picks, err := s.provider.FetchEntryPicks(ctx, entryID, gameweek)
	if err != nil {
		return EntryTeam{}, fmt.Errorf("%w: fetch picks for entry %d gw %d: %v", ErrUpstreamFetch, entryID, gameweek, err)
	}

	team := EntryTeam{
		EntryID:       entry.ID,
		ManagerName:   fmt.Sprintf("%s %s", entry.FirstName, entry.LastName),
		TeamName:      entry.TeamName,
		OverallPoints: entry.OverallPoints,
		OverallRank:   entry.OverallRank,
		Gameweek:      gameweek,
		EventPoints:   picks.Points,
		ActiveChip:    picks.ActiveChip,
	}

	for _, pick := range picks.Picks {
		ep := EntryPick{
			SlotPosition:  pick.SlotPosition,
			Multiplier:    pick.Multiplier,
			IsCaptain:     pick.IsCaptain,
			IsViceCaptain: pick.IsViceCaptain,
		}
		p, found, err := s.playerRepo.GetByID(ctx, pick.PlayerID)
		if err != nil {
			return EntryTeam{}, fmt.Errorf("get player %d: %w", pick.PlayerID, err)
		}
		if !found {
			// Pool may lag a fresh transfer; keep the slot with the id only.
			p = player.Player{ID: pick.PlayerID}
		}
		ep.Player = p
		team.Picks = append(team.Picks, ep)
	}

	return team, nil
}
