package memory

import (
	"context"
	"sync"

	"github.com/fantasyxi/fpl-insight/internal/domain/season"
)

type SeasonRepository struct {
	mu     sync.RWMutex
	cfg    season.Config
	loaded bool
}

func NewSeasonRepository() *SeasonRepository {
	return &SeasonRepository{}
}

func (r *SeasonRepository) Get(_ context.Context) (season.Config, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.cfg, r.loaded, nil
}

func (r *SeasonRepository) Save(_ context.Context, cfg season.Config) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.cfg = cfg
	r.loaded = true

	return nil
}
