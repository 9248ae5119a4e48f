package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/fantasyxi/fpl-insight/internal/domain/player"
	qb "github.com/fantasyxi/fpl-insight/internal/platform/querybuilder"
	"github.com/jmoiron/sqlx"
)

const playerUpsertSuffix = `ON CONFLICT (id) DO UPDATE SET
	code = EXCLUDED.code,
	first_name = EXCLUDED.first_name,
	second_name = EXCLUDED.second_name,
	web_name = EXCLUDED.web_name,
	team_id = EXCLUDED.team_id,
	position = EXCLUDED.position,
	price = EXCLUDED.price,
	total_points = EXCLUDED.total_points,
	event_points = EXCLUDED.event_points,
	form = EXCLUDED.form,
	points_per_game = EXCLUDED.points_per_game,
	selected_by_percent = EXCLUDED.selected_by_percent,
	minutes = EXCLUDED.minutes,
	goals_scored = EXCLUDED.goals_scored,
	assists = EXCLUDED.assists,
	clean_sheets = EXCLUDED.clean_sheets,
	goals_conceded = EXCLUDED.goals_conceded,
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
	status = EXCLUDED.status,
	news = EXCLUDED.news,
	transfers_in = EXCLUDED.transfers_in,
	transfers_out = EXCLUDED.transfers_out,
	updated_at = EXCLUDED.updated_at`

type PlayerRepository struct {
	db *sqlx.DB
}

func NewPlayerRepository(db *sqlx.DB) *PlayerRepository {
	return &PlayerRepository{db: db}
}

func (r *PlayerRepository) Upsert(ctx context.Context, items []player.Player) error {
	if len(items) == 0 {
		return nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx upsert players: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for _, item := range items {
		query, args, err := qb.InsertModel("players", playerToTableModel(item), playerUpsertSuffix)
		if err != nil {
			return fmt.Errorf("build upsert player query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("upsert player %d: %w", item.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit upsert players: %w", err)
	}

	return nil
}

func (r *PlayerRepository) List(ctx context.Context, filter player.Filter) ([]player.Player, error) {
	builder := qb.Select("*").From("players")

	conditions := make([]qb.Condition, 0, 6)
	if filter.Position != "" {
		conditions = append(conditions, qb.Eq("position", string(filter.Position)))
	}
	if filter.TeamID > 0 {
		conditions = append(conditions, qb.Eq("team_id", filter.TeamID))
	}
	if filter.MaxPrice > 0 {
		conditions = append(conditions, qb.Expr("price <= ?", filter.MaxPrice))
	}
	if filter.MinPoints > 0 {
		conditions = append(conditions, qb.Expr("total_points >= ?", filter.MinPoints))
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		pattern := "%" + search + "%"
		conditions = append(conditions, qb.Expr(
			"(web_name ILIKE ? OR first_name ILIKE ? OR second_name ILIKE ?)",
			pattern, pattern, pattern,
		))
	}
	if filter.OnlyActive {
		conditions = append(conditions, qb.Eq("status", string(player.StatusAvailable)))
	}
	if len(conditions) > 0 {
		builder = builder.Where(conditions...)
	}
	builder = builder.OrderBy("id")
	if filter.Limit > 0 {
		builder = builder.Limit(filter.Limit)
	}

	query, args, err := builder.ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select players query: %w", err)
	}

	var rows []playerTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select players: %w", err)
	}

	out := make([]player.Player, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}

	return out, nil
}

func (r *PlayerRepository) GetByID(ctx context.Context, playerID int) (player.Player, bool, error) {
	query, args, err := qb.Select("*").From("players").
		Where(qb.Eq("id", playerID)).
		ToSQL()
	if err != nil {
		return player.Player{}, false, fmt.Errorf("build select player query: %w", err)
	}

	var row playerTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return player.Player{}, false, nil
		}
		return player.Player{}, false, fmt.Errorf("select player %d: %w", playerID, err)
	}

	return row.toDomain(), true, nil
}
