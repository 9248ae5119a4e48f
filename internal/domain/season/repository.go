package season

import "context"

// Repository holds the single season configuration record.
type Repository interface {
	Get(ctx context.Context) (Config, bool, error)
	Save(ctx context.Context, cfg Config) error
}
