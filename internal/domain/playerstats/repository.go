package playerstats

import "context"

// Repository describes gameweek stats persistence needs from use cases.
type Repository interface {
	Upsert(ctx context.Context, items []GameweekStats) error
	ListByPlayer(ctx context.Context, playerID int) ([]GameweekStats, error)
	ListByGameweek(ctx context.Context, gameweek int) ([]GameweekStats, error)
}
