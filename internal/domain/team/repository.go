package team

import "context"

// Repository describes team persistence needs from use cases.
type Repository interface {
	Upsert(ctx context.Context, items []Team) error
	List(ctx context.Context) ([]Team, error)
	GetByID(ctx context.Context, teamID int) (Team, bool, error)
}
