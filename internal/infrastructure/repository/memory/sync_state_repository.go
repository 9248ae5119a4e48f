package memory

import (
	"context"
	"sync"

	"github.com/fantasyxi/fpl-insight/internal/domain/syncstate"
)

type SyncStateRepository struct {
	mu     sync.RWMutex
	state  syncstate.State
	loaded bool
}

func NewSyncStateRepository() *SyncStateRepository {
	return &SyncStateRepository{}
}

func (r *SyncStateRepository) Get(_ context.Context) (syncstate.State, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.state, r.loaded, nil
}

func (r *SyncStateRepository) Save(_ context.Context, state syncstate.State) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.state = state
	r.loaded = true

	return nil
}
