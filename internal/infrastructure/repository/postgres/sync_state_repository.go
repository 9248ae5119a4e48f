package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/fantasyxi/fpl-insight/internal/domain/syncstate"
	qb "github.com/fantasyxi/fpl-insight/internal/platform/querybuilder"
	"github.com/jmoiron/sqlx"
)

const syncStateUpsertSuffix = `ON CONFLICT (id) DO UPDATE SET
	last_full_sync_at = EXCLUDED.last_full_sync_at`

type syncStateTableModel struct {
	ID             int       `db:"id"`
	LastFullSyncAt time.Time `db:"last_full_sync_at"`
}

type SyncStateRepository struct {
	db *sqlx.DB
}

func NewSyncStateRepository(db *sqlx.DB) *SyncStateRepository {
	return &SyncStateRepository{db: db}
}

func (r *SyncStateRepository) Get(ctx context.Context) (syncstate.State, bool, error) {
	query, args, err := qb.Select("*").From("sync_state").
		Where(qb.Eq("id", 1)).
		ToSQL()
	if err != nil {
		return syncstate.State{}, false, fmt.Errorf("build select sync state query: %w", err)
	}

	var row syncStateTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return syncstate.State{}, false, nil
		}
		return syncstate.State{}, false, fmt.Errorf("select sync state: %w", err)
	}

	return syncstate.State{LastFullSyncAt: row.LastFullSyncAt}, true, nil
}

func (r *SyncStateRepository) Save(ctx context.Context, state syncstate.State) error {
	model := syncStateTableModel{
		ID:             1,
		LastFullSyncAt: state.LastFullSyncAt,
	}

	query, args, err := qb.InsertModel("sync_state", model, syncStateUpsertSuffix)
	if err != nil {
		return fmt.Errorf("build upsert sync state query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert sync state: %w", err)
	}

	return nil
}
