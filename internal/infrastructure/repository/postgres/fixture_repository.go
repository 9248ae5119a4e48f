package postgres

import (
	"context"
	"fmt"

	"github.com/fantasyxi/fpl-insight/internal/domain/fixture"
	qb "github.com/fantasyxi/fpl-insight/internal/platform/querybuilder"
	"github.com/jmoiron/sqlx"
)

// Fixtures reconcile on the upstream code, not the per-season id.
const fixtureUpsertSuffix = `ON CONFLICT (code) DO UPDATE SET
	gameweek = EXCLUDED.gameweek,
	home_team_id = EXCLUDED.home_team_id,
	away_team_id = EXCLUDED.away_team_id,
	kickoff_at = EXCLUDED.kickoff_at,
	home_score = EXCLUDED.home_score,
	away_score = EXCLUDED.away_score,
	started = EXCLUDED.started,
	finished = EXCLUDED.finished,
	finished_provisional = EXCLUDED.finished_provisional,
	home_difficulty = EXCLUDED.home_difficulty,
	away_difficulty = EXCLUDED.away_difficulty,
	minutes = EXCLUDED.minutes,
	updated_at = EXCLUDED.updated_at`

type FixtureRepository struct {
	db *sqlx.DB
}

func NewFixtureRepository(db *sqlx.DB) *FixtureRepository {
	return &FixtureRepository{db: db}
}

func (r *FixtureRepository) Upsert(ctx context.Context, items []fixture.Fixture) error {
	if len(items) == 0 {
		return nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx upsert fixtures: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for _, item := range items {
		query, args, err := qb.InsertModel("fixtures", fixtureToTableModel(item), fixtureUpsertSuffix)
		if err != nil {
			return fmt.Errorf("build upsert fixture query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("upsert fixture %d: %w", item.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit upsert fixtures: %w", err)
	}

	return nil
}

func (r *FixtureRepository) List(ctx context.Context) ([]fixture.Fixture, error) {
	builder := qb.Select("*").From("fixtures").OrderBy("gameweek", "id")
	return r.selectFixtures(ctx, builder, "select fixtures")
}

func (r *FixtureRepository) ListByGameweek(ctx context.Context, gameweek int) ([]fixture.Fixture, error) {
	builder := qb.Select("*").From("fixtures").
		Where(qb.Eq("gameweek", gameweek)).
		OrderBy("gameweek", "id")
	return r.selectFixtures(ctx, builder, "select fixtures by gameweek")
}

func (r *FixtureRepository) ListByTeam(ctx context.Context, teamID int) ([]fixture.Fixture, error) {
	builder := qb.Select("*").From("fixtures").
		Where(qb.Expr("(home_team_id = ? OR away_team_id = ?)", teamID, teamID)).
		OrderBy("gameweek", "id")
	return r.selectFixtures(ctx, builder, "select fixtures by team")
}

func (r *FixtureRepository) selectFixtures(ctx context.Context, builder *qb.SelectBuilder, opName string) ([]fixture.Fixture, error) {
	query, args, err := builder.ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build %s query: %w", opName, err)
	}

	var rows []fixtureTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("%s: %w", opName, err)
	}

	out := make([]fixture.Fixture, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}

	return out, nil
}
