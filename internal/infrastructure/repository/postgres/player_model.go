package postgres

import (
	"time"

	"github.com/fantasyxi/fpl-insight/internal/domain/player"
)

type playerTableModel struct {
	ID         int    `db:"id"`
	Code       int    `db:"code"`
	FirstName  string `db:"first_name"`
	SecondName string `db:"second_name"`
	WebName    string `db:"web_name"`
	TeamID     int    `db:"team_id"`
	Position   string `db:"position"`

	Price             int64   `db:"price"`
	TotalPoints       int     `db:"total_points"`
	EventPoints       int     `db:"event_points"`
	Form              float64 `db:"form"`
	PointsPerGame     float64 `db:"points_per_game"`
	SelectedByPercent float64 `db:"selected_by_percent"`

	Minutes       int `db:"minutes"`
	GoalsScored   int `db:"goals_scored"`
	Assists       int `db:"assists"`
	CleanSheets   int `db:"clean_sheets"`
	GoalsConceded int `db:"goals_conceded"`
	YellowCards   int `db:"yellow_cards"`
	RedCards      int `db:"red_cards"`
	Saves         int `db:"saves"`
	Bonus         int `db:"bonus"`
	BPS           int `db:"bps"`

	Influence  float64 `db:"influence"`
	Creativity float64 `db:"creativity"`
	Threat     float64 `db:"threat"`
	ICTIndex   float64 `db:"ict_index"`

	ExpectedGoals            float64 `db:"expected_goals"`
	ExpectedAssists          float64 `db:"expected_assists"`
	ExpectedGoalInvolvements float64 `db:"expected_goal_involvements"`

	Status       string `db:"status"`
	News         string `db:"news"`
	TransfersIn  int    `db:"transfers_in"`
	TransfersOut int    `db:"transfers_out"`

	UpdatedAt time.Time `db:"updated_at"`
}

func playerToTableModel(p player.Player) playerTableModel {
	return playerTableModel{
		ID:                       p.ID,
		Code:                     p.Code,
		FirstName:                p.FirstName,
		SecondName:               p.SecondName,
		WebName:                  p.WebName,
		TeamID:                   p.TeamID,
		Position:                 string(p.Position),
		Price:                    p.Price,
		TotalPoints:              p.TotalPoints,
		EventPoints:              p.EventPoints,
		Form:                     p.Form,
		PointsPerGame:            p.PointsPerGame,
		SelectedByPercent:        p.SelectedByPercent,
		Minutes:                  p.Minutes,
		GoalsScored:              p.GoalsScored,
		Assists:                  p.Assists,
		CleanSheets:              p.CleanSheets,
		GoalsConceded:            p.GoalsConceded,
		YellowCards:              p.YellowCards,
		RedCards:                 p.RedCards,
		Saves:                    p.Saves,
		Bonus:                    p.Bonus,
		BPS:                      p.BPS,
		Influence:                p.Influence,
		Creativity:               p.Creativity,
		Threat:                   p.Threat,
		ICTIndex:                 p.ICTIndex,
		ExpectedGoals:            p.ExpectedGoals,
		ExpectedAssists:          p.ExpectedAssists,
		ExpectedGoalInvolvements: p.ExpectedGoalInvolvements,
		Status:                   string(p.Status),
		News:                     p.News,
		TransfersIn:              p.TransfersIn,
		TransfersOut:             p.TransfersOut,
		UpdatedAt:                p.UpdatedAt,
	}
}

func (m playerTableModel) toDomain() player.Player {
	return player.Player{
		ID:                       m.ID,
		Code:                     m.Code,
		FirstName:                m.FirstName,
		SecondName:               m.SecondName,
		WebName:                  m.WebName,
		TeamID:                   m.TeamID,
		Position:                 player.Position(m.Position),
		Price:                    m.Price,
		TotalPoints:              m.TotalPoints,
		EventPoints:              m.EventPoints,
		Form:                     m.Form,
		PointsPerGame:            m.PointsPerGame,
		SelectedByPercent:        m.SelectedByPercent,
		Minutes:                  m.Minutes,
		GoalsScored:              m.GoalsScored,
		Assists:                  m.Assists,
		CleanSheets:              m.CleanSheets,
		GoalsConceded:            m.GoalsConceded,
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
		Status:                   player.Availability(m.Status),
		News:                     m.News,
		TransfersIn:              m.TransfersIn,
		TransfersOut:             m.TransfersOut,
		UpdatedAt:                m.UpdatedAt,
	}
}
