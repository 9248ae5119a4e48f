package history

import "context"

// Repository describes historical stats persistence needs from use cases.
type Repository interface {
	Upsert(ctx context.Context, items []SeasonStats) error
	ListByPlayer(ctx context.Context, playerID int) ([]SeasonStats, error)
	ListBySeason(ctx context.Context, season string) ([]SeasonStats, error)
}
