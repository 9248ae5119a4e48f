package postgres

import (
	"context"
	"fmt"

	"github.com/fantasyxi/fpl-insight/internal/domain/playerstats"
	qb "github.com/fantasyxi/fpl-insight/internal/platform/querybuilder"
	"github.com/jmoiron/sqlx"
)

const playerStatsUpsertSuffix = `ON CONFLICT (player_id, gameweek) DO UPDATE SET
	minutes = EXCLUDED.minutes,
	goals_scored = EXCLUDED.goals_scored,
	assists = EXCLUDED.assists,
	clean_sheets = EXCLUDED.clean_sheets,
	goals_conceded = EXCLUDED.goals_conceded,
	own_goals = EXCLUDED.own_goals,
	penalties_saved = EXCLUDED.penalties_saved,
	penalties_missed = EXCLUDED.penalties_missed,
	yellow_cards = EXCLUDED.yellow_cards,
	red_cards = EXCLUDED.red_cards,
	saves = EXCLUDED.saves,
	bonus = EXCLUDED.bonus,
	bps = EXCLUDED.bps,
	influence = EXCLUDED.influence,
	creativity = EXCLUDED.creativity,
	threat = EXCLUDED.threat,
	ict_index = EXCLUDED.ict_index,
	expected_goals = EXCLUDED.expected_goals,
	expected_assists = EXCLUDED.expected_assists,
	expected_goal_involvements = EXCLUDED.expected_goal_involvements,
	expected_goals_conceded = EXCLUDED.expected_goals_conceded,
	total_points = EXCLUDED.total_points,
	in_dreamteam = EXCLUDED.in_dreamteam,
	updated_at = EXCLUDED.updated_at`

type PlayerStatsRepository struct {
	db *sqlx.DB
}

func NewPlayerStatsRepository(db *sqlx.DB) *PlayerStatsRepository {
	return &PlayerStatsRepository{db: db}
}

func (r *PlayerStatsRepository) Upsert(ctx context.Context, items []playerstats.GameweekStats) error {
	if len(items) == 0 {
		return nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx upsert gameweek stats: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for _, item := range items {
		query, args, err := qb.InsertModel("player_gameweek_stats", playerStatsToTableModel(item), playerStatsUpsertSuffix)
		if err != nil {
			return fmt.Errorf("build upsert gameweek stats query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("upsert gameweek stats %d/%d: %w", item.PlayerID, item.Gameweek, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit upsert gameweek stats: %w", err)
	}

	return nil
}

func (r *PlayerStatsRepository) ListByPlayer(ctx context.Context, playerID int) ([]playerstats.GameweekStats, error) {
	builder := qb.Select("*").From("player_gameweek_stats").
		Where(qb.Eq("player_id", playerID)).
		OrderBy("gameweek")
	return r.selectStats(ctx, builder, "select gameweek stats by player")
}

func (r *PlayerStatsRepository) ListByGameweek(ctx context.Context, gameweek int) ([]playerstats.GameweekStats, error) {
	builder := qb.Select("*").From("player_gameweek_stats").
		Where(qb.Eq("gameweek", gameweek)).
		OrderBy("player_id")
	return r.selectStats(ctx, builder, "select gameweek stats by gameweek")
}

func (r *PlayerStatsRepository) selectStats(ctx context.Context, builder *qb.SelectBuilder, opName string) ([]playerstats.GameweekStats, error) {
	query, args, err := builder.ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build %s query: %w", opName, err)
	}

	var rows []playerStatsTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("%s: %w", opName, err)
	}

	out := make([]playerstats.GameweekStats, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}

	return out, nil
}
