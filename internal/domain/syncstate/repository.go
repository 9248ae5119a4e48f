package syncstate

import "context"

// Repository persists the sync freshness marker.
type Repository interface {
	Get(ctx context.Context) (State, bool, error)
	Save(ctx context.Context, state State) error
}
