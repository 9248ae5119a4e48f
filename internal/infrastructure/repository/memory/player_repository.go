package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/fantasyxi/fpl-insight/internal/domain/player"
)

type PlayerRepository struct {
	mu      sync.RWMutex
	players map[int]player.Player
}

func NewPlayerRepository() *PlayerRepository {
	return &PlayerRepository{players: make(map[int]player.Player)}
}

func (r *PlayerRepository) Upsert(_ context.Context, items []player.Player) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, item := range items {
		if item.ID <= 0 {
			continue
		}
		r.players[item.ID] = item
	}

	return nil
}

func (r *PlayerRepository) List(_ context.Context, filter player.Filter) ([]player.Player, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	search := strings.ToLower(strings.TrimSpace(filter.Search))

	out := make([]player.Player, 0, len(r.players))
	for _, item := range r.players {
		if filter.Position != "" && item.Position != filter.Position {
			continue
		}
		if filter.TeamID > 0 && item.TeamID != filter.TeamID {
			continue
		}
		if filter.MaxPrice > 0 && item.Price > filter.MaxPrice {
			continue
		}
		if filter.MinPoints > 0 && item.TotalPoints < filter.MinPoints {
			continue
		}
		if filter.OnlyActive && !item.Selectable() {
			continue
		}
		if search != "" && !matchesSearch(item, search) {
			continue
		}
		out = append(out, item)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })

	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}

	return out, nil
}

func (r *PlayerRepository) GetByID(_ context.Context, playerID int) (player.Player, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.players[playerID]
	return item, ok, nil
}

func matchesSearch(item player.Player, search string) bool {
	return strings.Contains(strings.ToLower(item.WebName), search) ||
		strings.Contains(strings.ToLower(item.FirstName), search) ||
		strings.Contains(strings.ToLower(item.SecondName), search)
}
