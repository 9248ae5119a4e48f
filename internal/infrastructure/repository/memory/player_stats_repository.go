package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/fantasyxi/fpl-insight/internal/domain/playerstats"
)

type statsKey struct {
	playerID int
	gameweek int
}

type PlayerStatsRepository struct {
	mu   sync.RWMutex
	rows map[statsKey]playerstats.GameweekStats
}

func NewPlayerStatsRepository() *PlayerStatsRepository {
	return &PlayerStatsRepository{rows: make(map[statsKey]playerstats.GameweekStats)}
}

func (r *PlayerStatsRepository) Upsert(_ context.Context, items []playerstats.GameweekStats) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, item := range items {
		if item.PlayerID <= 0 || item.Gameweek <= 0 {
			continue
		}
		r.rows[statsKey{playerID: item.PlayerID, gameweek: item.Gameweek}] = item
	}

	return nil
}

func (r *PlayerStatsRepository) ListByPlayer(_ context.Context, playerID int) ([]playerstats.GameweekStats, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]playerstats.GameweekStats, 0)
	for key, item := range r.rows {
		if key.playerID == playerID {
			out = append(out, item)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Gameweek < out[j].Gameweek })

	return out, nil
}

func (r *PlayerStatsRepository) ListByGameweek(_ context.Context, gameweek int) ([]playerstats.GameweekStats, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]playerstats.GameweekStats, 0)
	for key, item := range r.rows {
		if key.gameweek == gameweek {
			out = append(out, item)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PlayerID < out[j].PlayerID })

	return out, nil
}
