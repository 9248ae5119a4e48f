package usecase

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/fantasyxi/fpl-insight/internal/domain/player"
	"github.com/fantasyxi/fpl-insight/internal/domain/team"
	"github.com/fantasyxi/fpl-insight/internal/platform/logging"
)

type TeamDetail struct {
	Team    team.Team       `json:"team"`
	Players []player.Player `json:"players"`
}

// TeamService serves the club listing and detail surface.
type TeamService struct {
	teamRepo   team.Repository
	playerRepo player.Repository
	logger     *logging.Logger
	now        func() time.Time
}

func NewTeamService(teamRepo team.Repository, playerRepo player.Repository, logger *logging.Logger) *TeamService {
	if logger == nil {
		logger = logging.Default()
	}
	return &TeamService{
		teamRepo:   teamRepo,
		playerRepo: playerRepo,
		logger:     logger,
		now:        time.Now,
	}
}

// ListTeams returns every club sorted by name.
func (s *TeamService) ListTeams(ctx context.Context) ([]team.Team, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TeamService.ListTeams")
	defer span.End()

	teams, err := s.teamRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list teams: %w", err)
	}
	sort.SliceStable(teams, func(i, j int) bool { return teams[i].Name < teams[j].Name })
	return teams, nil
}

// GetTeam returns one club with its current roster ordered by points.
func (s *TeamService) GetTeam(ctx context.Context, teamID int) (TeamDetail, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TeamService.GetTeam")
	defer span.End()

	if teamID <= 0 {
		return TeamDetail{}, fmt.Errorf("%w: team id must be positive", ErrInvalidInput)
	}

	t, found, err := s.teamRepo.GetByID(ctx, teamID)
	if err != nil {
		return TeamDetail{}, fmt.Errorf("get team %d: %w", teamID, err)
	}
	if !found {
		return TeamDetail{}, fmt.Errorf("%w: team %d", ErrNotFound, teamID)
	}

	roster, err := s.playerRepo.List(ctx, player.Filter{TeamID: teamID})
	if err != nil {
		return TeamDetail{}, fmt.Errorf("list roster: %w", err)
	}
	sort.SliceStable(roster, func(i, j int) bool { return roster[i].TotalPoints > roster[j].TotalPoints })

	return TeamDetail{Team: t, Players: roster}, nil
}
