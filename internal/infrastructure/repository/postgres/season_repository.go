package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/fantasyxi/fpl-insight/internal/domain/season"
	qb "github.com/fantasyxi/fpl-insight/internal/platform/querybuilder"
	"github.com/jmoiron/sqlx"
)

// season_config holds exactly one row; id is pinned to 1 by a check
// constraint in the schema.
const seasonUpsertSuffix = `ON CONFLICT (id) DO UPDATE SET
	season = EXCLUDED.season,
	historical_cutoff_gw = EXCLUDED.historical_cutoff_gw,
	historical_weight = EXCLUDED.historical_weight,
	current_weight = EXCLUDED.current_weight,
	transition_step = EXCLUDED.transition_step,
	max_current_weight = EXCLUDED.max_current_weight,
	min_historical_weight = EXCLUDED.min_historical_weight,
	updated_at = EXCLUDED.updated_at`

type seasonTableModel struct {
	ID                  int       `db:"id"`
	Season              string    `db:"season"`
	HistoricalCutoffGW  int       `db:"historical_cutoff_gw"`
	HistoricalWeight    float64   `db:"historical_weight"`
	CurrentWeight       float64   `db:"current_weight"`
	TransitionStep      float64   `db:"transition_step"`
	MaxCurrentWeight    float64   `db:"max_current_weight"`
	MinHistoricalWeight float64   `db:"min_historical_weight"`
	UpdatedAt           time.Time `db:"updated_at"`
}

type SeasonRepository struct {
	db *sqlx.DB
}

func NewSeasonRepository(db *sqlx.DB) *SeasonRepository {
	return &SeasonRepository{db: db}
}

func (r *SeasonRepository) Get(ctx context.Context) (season.Config, bool, error) {
	query, args, err := qb.Select("*").From("season_config").
		Where(qb.Eq("id", 1)).
		ToSQL()
	if err != nil {
		return season.Config{}, false, fmt.Errorf("build select season config query: %w", err)
	}

	var row seasonTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return season.Config{}, false, nil
		}
		return season.Config{}, false, fmt.Errorf("select season config: %w", err)
	}

	return season.Config{
		Season:              row.Season,
		HistoricalCutoffGW:  row.HistoricalCutoffGW,
		HistoricalWeight:    row.HistoricalWeight,
		CurrentWeight:       row.CurrentWeight,
		TransitionStep:      row.TransitionStep,
		MaxCurrentWeight:    row.MaxCurrentWeight,
		MinHistoricalWeight: row.MinHistoricalWeight,
		UpdatedAt:           row.UpdatedAt,
	}, true, nil
}

func (r *SeasonRepository) Save(ctx context.Context, cfg season.Config) error {
	model := seasonTableModel{
		ID:                  1,
		Season:              cfg.Season,
		HistoricalCutoffGW:  cfg.HistoricalCutoffGW,
		HistoricalWeight:    cfg.HistoricalWeight,
		CurrentWeight:       cfg.CurrentWeight,
		TransitionStep:      cfg.TransitionStep,
		MaxCurrentWeight:    cfg.MaxCurrentWeight,
		MinHistoricalWeight: cfg.MinHistoricalWeight,
		UpdatedAt:           cfg.UpdatedAt,
	}

	query, args, err := qb.InsertModel("season_config", model, seasonUpsertSuffix)
	if err != nil {
		return fmt.Errorf("build upsert season config query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert season config: %w", err)
	}

	return nil
}
