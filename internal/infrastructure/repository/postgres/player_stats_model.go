package postgres

import (
	"time"

	"github.com/fantasyxi/fpl-insight/internal/domain/playerstats"
)

type playerStatsTableModel struct {
	PlayerID int `db:"player_id"`
	Gameweek int `db:"gameweek"`

	Minutes         int `db:"minutes"`
	GoalsScored     int `db:"goals_scored"`
	Assists         int `db:"assists"`
	CleanSheets     int `db:"clean_sheets"`
	GoalsConceded   int `db:"goals_conceded"`
	OwnGoals        int `db:"own_goals"`
	PenaltiesSaved  int `db:"penalties_saved"`
	PenaltiesMissed int `db:"penalties_missed"`
	YellowCards     int `db:"yellow_cards"`
	RedCards        int `db:"red_cards"`
	Saves           int `db:"saves"`
	Bonus           int `db:"bonus"`
	BPS             int `db:"bps"`

	Influence  float64 `db:"influence"`
	Creativity float64 `db:"creativity"`
	Threat     float64 `db:"threat"`
	ICTIndex   float64 `db:"ict_index"`

	ExpectedGoals            float64 `db:"expected_goals"`
	ExpectedAssists          float64 `db:"expected_assists"`
	ExpectedGoalInvolvements float64 `db:"expected_goal_involvements"`
	ExpectedGoalsConceded    float64 `db:"expected_goals_conceded"`

	TotalPoints int  `db:"total_points"`
	InDreamteam bool `db:"in_dreamteam"`

	UpdatedAt time.Time `db:"updated_at"`
}

func playerStatsToTableModel(s playerstats.GameweekStats) playerStatsTableModel {
	return playerStatsTableModel{
		PlayerID:                 s.PlayerID,
		Gameweek:                 s.Gameweek,
		Minutes:                  s.Minutes,
		GoalsScored:              s.GoalsScored,
		Assists:                  s.Assists,
		CleanSheets:              s.CleanSheets,
		GoalsConceded:            s.GoalsConceded,
		OwnGoals:                 s.OwnGoals,
		PenaltiesSaved:           s.PenaltiesSaved,
		PenaltiesMissed:          s.PenaltiesMissed,
		YellowCards:              s.YellowCards,
		RedCards:                 s.RedCards,
		Saves:                    s.Saves,
		Bonus:                    s.Bonus,
		BPS:                      s.BPS,
		Influence:                s.Influence,
		Creativity:               s.Creativity,
		Threat:                   s.Threat,
		ICTIndex:                 s.ICTIndex,
		ExpectedGoals:            s.ExpectedGoals,
		ExpectedAssists:          s.ExpectedAssists,
		ExpectedGoalInvolvements: s.ExpectedGoalInvolvements,
		ExpectedGoalsConceded:    s.ExpectedGoalsConceded,
		TotalPoints:              s.TotalPoints,
		InDreamteam:              s.InDreamteam,
		UpdatedAt:                s.UpdatedAt,
	}
}

func (m playerStatsTableModel) toDomain() playerstats.GameweekStats {
	return playerstats.GameweekStats{
		PlayerID:                 m.PlayerID,
		Gameweek:                 m.Gameweek,
		Minutes:                  m.Minutes,
		GoalsScored:              m.GoalsScored,
		Assists:                  m.Assists,
		CleanSheets:              m.CleanSheets,
		GoalsConceded:            m.GoalsConceded,
		OwnGoals:                 m.OwnGoals,
		PenaltiesSaved:           m.PenaltiesSaved,
		PenaltiesMissed:          m.PenaltiesMissed,
		YellowCards:              m.YellowCards,
		RedCards:                 m.RedCards,
		Saves:                    m.Saves,
		Bonus:                    m.Bonus,
		BPS:                      m.BPS,
		Influence:                m.Influence,
		Creativity:               m.Creativity,
		Threat:                   m.Threat,
		ICTIndex:                 m.ICTIndex,
		ExpectedGoals:            m.ExpectedGoals,
		ExpectedAssists:          m.ExpectedAssists,
		ExpectedGoalInvolvements: m.ExpectedGoalInvolvements,
		ExpectedGoalsConceded:    m.ExpectedGoalsConceded,
		TotalPoints:              m.TotalPoints,
		InDreamteam:              m.InDreamteam,
		UpdatedAt:                m.UpdatedAt,
	}
}
