package player

import "context"

// Filter narrows player listings. Zero values mean "no constraint".
type Filter struct {
	Position   Position
	TeamID     int
	MaxPrice   int64
	MinPoints  int
	Search     string
	OnlyActive bool
	Limit      int
}

// Repository describes player persistence needs from use cases.
type Repository interface {
	Upsert(ctx context.Context, items []Player) error
	List(ctx context.Context, filter Filter) ([]Player, error)
	GetByID(ctx context.Context, playerID int) (Player, bool, error)
}
