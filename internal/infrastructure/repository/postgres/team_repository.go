package postgres

import (
	"context"
	"fmt"

	"github.com/fantasyxi/fpl-insight/internal/domain/team"
	qb "github.com/fantasyxi/fpl-insight/internal/platform/querybuilder"
	"github.com/jmoiron/sqlx"
)

// Teams reconcile on the upstream code, not the per-season id.
const teamUpsertSuffix = `ON CONFLICT (code) DO UPDATE SET
	name = EXCLUDED.name,
	short_name = EXCLUDED.short_name,
	strength = EXCLUDED.strength,
	strength_overall_home = EXCLUDED.strength_overall_home,
	strength_overall_away = EXCLUDED.strength_overall_away,
	strength_attack_home = EXCLUDED.strength_attack_home,
	strength_attack_away = EXCLUDED.strength_attack_away,
	strength_defence_home = EXCLUDED.strength_defence_home,
	strength_defence_away = EXCLUDED.strength_defence_away,
	updated_at = EXCLUDED.updated_at`

type TeamRepository struct {
	db *sqlx.DB
}

func NewTeamRepository(db *sqlx.DB) *TeamRepository {
	return &TeamRepository{db: db}
}

func (r *TeamRepository) Upsert(ctx context.Context, items []team.Team) error {
	if len(items) == 0 {
		return nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx upsert teams: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for _, item := range items {
		query, args, err := qb.InsertModel("teams", teamToTableModel(item), teamUpsertSuffix)
		if err != nil {
			return fmt.Errorf("build upsert team query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("upsert team %d: %w", item.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit upsert teams: %w", err)
	}

	return nil
}

func (r *TeamRepository) List(ctx context.Context) ([]team.Team, error) {
	query, args, err := qb.Select("*").From("teams").OrderBy("id").ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select teams query: %w", err)
	}

	var rows []teamTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select teams: %w", err)
	}

	out := make([]team.Team, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}

	return out, nil
}

func (r *TeamRepository) GetByID(ctx context.Context, teamID int) (team.Team, bool, error) {
	query, args, err := qb.Select("*").From("teams").
		Where(qb.Eq("id", teamID)).
		ToSQL()
	if err != nil {
		return team.Team{}, false, fmt.Errorf("build select team query: %w", err)
	}

	var row teamTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return team.Team{}, false, nil
		}
		return team.Team{}, false, fmt.Errorf("select team %d: %w", teamID, err)
	}

	return row.toDomain(), true, nil
}
