package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/fantasyxi/fpl-insight/internal/domain/history"
)

type historyKey struct {
	playerID int
	season   string
}

type HistoryRepository struct {
	mu   sync.RWMutex
	rows map[historyKey]history.SeasonStats
}

func NewHistoryRepository() *HistoryRepository {
	return &HistoryRepository{rows: make(map[historyKey]history.SeasonStats)}
}

func (r *HistoryRepository) Upsert(_ context.Context, items []history.SeasonStats) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, item := range items {
		if item.PlayerID <= 0 || item.Season == "" {
			continue
		}
		r.rows[historyKey{playerID: item.PlayerID, season: item.Season}] = item
	}

	return nil
}

func (r *HistoryRepository) ListByPlayer(_ context.Context, playerID int) ([]history.SeasonStats, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]history.SeasonStats, 0)
	for key, item := range r.rows {
		if key.playerID == playerID {
			out = append(out, item)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Season < out[j].Season })

	return out, nil
}

func (r *HistoryRepository) ListBySeason(_ context.Context, season string) ([]history.SeasonStats, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]history.SeasonStats, 0)
	for key, item := range r.rows {
		if key.season == season {
			out = append(out, item)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PlayerID < out[j].PlayerID })

	return out, nil
}
