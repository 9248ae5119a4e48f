package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/fantasyxi/fpl-insight/internal/domain/history"
	qb "github.com/fantasyxi/fpl-insight/internal/platform/querybuilder"
	"github.com/jmoiron/sqlx"
)

const historyUpsertSuffix = `ON CONFLICT (player_id, season) DO UPDATE SET
	total_points = EXCLUDED.total_points,
	minutes = EXCLUDED.minutes,
	goals_scored = EXCLUDED.goals_scored,
	assists = EXCLUDED.assists,
	clean_sheets = EXCLUDED.clean_sheets,
	bonus = EXCLUDED.bonus,
	points_per_game = EXCLUDED.points_per_game,
	start_price = EXCLUDED.start_price,
	end_price = EXCLUDED.end_price,
	loaded_at = EXCLUDED.loaded_at`

type historyTableModel struct {
	PlayerID int    `db:"player_id"`
	Season   string `db:"season"`

	TotalPoints   int     `db:"total_points"`
	Minutes       int     `db:"minutes"`
	GoalsScored   int     `db:"goals_scored"`
	Assists       int     `db:"assists"`
	CleanSheets   int     `db:"clean_sheets"`
	Bonus         int     `db:"bonus"`
	PointsPerGame float64 `db:"points_per_game"`
	StartPrice    int64   `db:"start_price"`
	EndPrice      int64   `db:"end_price"`

	LoadedAt time.Time `db:"loaded_at"`
}

func historyToTableModel(s history.SeasonStats) historyTableModel {
	return historyTableModel{
		PlayerID:      s.PlayerID,
		Season:        s.Season,
		TotalPoints:   s.TotalPoints,
		Minutes:       s.Minutes,
		GoalsScored:   s.GoalsScored,
		Assists:       s.Assists,
		CleanSheets:   s.CleanSheets,
		Bonus:         s.Bonus,
		PointsPerGame: s.PointsPerGame,
		StartPrice:    s.StartPrice,
		EndPrice:      s.EndPrice,
		LoadedAt:      s.LoadedAt,
	}
}

func (m historyTableModel) toDomain() history.SeasonStats {
	return history.SeasonStats{
		PlayerID:      m.PlayerID,
		Season:        m.Season,
		TotalPoints:   m.TotalPoints,
		Minutes:       m.Minutes,
		GoalsScored:   m.GoalsScored,
		Assists:       m.Assists,
		CleanSheets:   m.CleanSheets,
		Bonus:         m.Bonus,
		PointsPerGame: m.PointsPerGame,
		StartPrice:    m.StartPrice,
		EndPrice:      m.EndPrice,
		LoadedAt:      m.LoadedAt,
	}
}

type HistoryRepository struct {
	db *sqlx.DB
}

func NewHistoryRepository(db *sqlx.DB) *HistoryRepository {
	return &HistoryRepository{db: db}
}

func (r *HistoryRepository) Upsert(ctx context.Context, items []history.SeasonStats) error {
	if len(items) == 0 {
		return nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx upsert season history: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for _, item := range items {
		query, args, err := qb.InsertModel("player_season_history", historyToTableModel(item), historyUpsertSuffix)
		if err != nil {
			return fmt.Errorf("build upsert season history query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("upsert season history %d/%s: %w", item.PlayerID, item.Season, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit upsert season history: %w", err)
	}

	return nil
}

func (r *HistoryRepository) ListByPlayer(ctx context.Context, playerID int) ([]history.SeasonStats, error) {
	builder := qb.Select("*").From("player_season_history").
		Where(qb.Eq("player_id", playerID)).
		OrderBy("season")
	return r.selectHistory(ctx, builder, "select season history by player")
}

func (r *HistoryRepository) ListBySeason(ctx context.Context, season string) ([]history.SeasonStats, error) {
	builder := qb.Select("*").From("player_season_history").
		Where(qb.Eq("season", season)).
		OrderBy("player_id")
	return r.selectHistory(ctx, builder, "select season history by season")
}

func (r *HistoryRepository) selectHistory(ctx context.Context, builder *qb.SelectBuilder, opName string) ([]history.SeasonStats, error) {
	query, args, err := builder.ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build %s query: %w", opName, err)
	}

	var rows []historyTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("%s: %w", opName, err)
	}

	out := make([]history.SeasonStats, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}

	return out, nil
}
