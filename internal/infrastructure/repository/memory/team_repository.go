package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/fantasyxi/fpl-insight/internal/domain/team"
)

// TeamRepository keys its store on the upstream code so re-synced
// clubs reconcile in place even if the per-season id shifts.
type TeamRepository struct {
	mu    sync.RWMutex
	teams map[int]team.Team
}

func NewTeamRepository() *TeamRepository {
	return &TeamRepository{teams: make(map[int]team.Team)}
}

func (r *TeamRepository) Upsert(_ context.Context, items []team.Team) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, item := range items {
		if item.Code <= 0 {
			continue
		}
		r.teams[item.Code] = item
	}

	return nil
}

func (r *TeamRepository) List(_ context.Context) ([]team.Team, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]team.Team, 0, len(r.teams))
	for _, item := range r.teams {
		out = append(out, item)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })

	return out, nil
}

func (r *TeamRepository) GetByID(_ context.Context, teamID int) (team.Team, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, item := range r.teams {
		if item.ID == teamID {
			return item, true, nil
		}
	}
	return team.Team{}, false, nil
}
