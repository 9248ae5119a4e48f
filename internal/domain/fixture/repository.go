package fixture

import "context"

// Repository describes fixture persistence needs from use cases.
type Repository interface {
	Upsert(ctx context.Context, items []Fixture) error
	List(ctx context.Context) ([]Fixture, error)
	ListByGameweek(ctx context.Context, gameweek int) ([]Fixture, error)
	ListByTeam(ctx context.Context, teamID int) ([]Fixture, error)
}
