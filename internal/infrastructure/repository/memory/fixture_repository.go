package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/fantasyxi/fpl-insight/internal/domain/fixture"
)

// FixtureRepository keys its store on the upstream code, the stable
// identity a fixture keeps across reschedules and re-syncs.
type FixtureRepository struct {
	mu       sync.RWMutex
	fixtures map[int]fixture.Fixture
}

func NewFixtureRepository() *FixtureRepository {
	return &FixtureRepository{fixtures: make(map[int]fixture.Fixture)}
}

func (r *FixtureRepository) Upsert(_ context.Context, items []fixture.Fixture) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, item := range items {
		if item.Code <= 0 {
			continue
		}
		r.fixtures[item.Code] = item
	}

	return nil
}

func (r *FixtureRepository) List(_ context.Context) ([]fixture.Fixture, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.collect(func(fixture.Fixture) bool { return true }), nil
}

func (r *FixtureRepository) ListByGameweek(_ context.Context, gameweek int) ([]fixture.Fixture, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.collect(func(f fixture.Fixture) bool { return f.Gameweek == gameweek }), nil
}

func (r *FixtureRepository) ListByTeam(_ context.Context, teamID int) ([]fixture.Fixture, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.collect(func(f fixture.Fixture) bool { return f.Involves(teamID) }), nil
}

func (r *FixtureRepository) collect(keep func(fixture.Fixture) bool) []fixture.Fixture {
	out := make([]fixture.Fixture, 0, len(r.fixtures))
	for _, item := range r.fixtures {
		if keep(item) {
			out = append(out, item)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Gameweek != out[j].Gameweek {
			return out[i].Gameweek < out[j].Gameweek
		}
		return out[i].ID < out[j].ID
	})

	return out
}
