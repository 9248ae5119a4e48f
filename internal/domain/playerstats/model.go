package playerstats

import (
	"fmt"
	"time"
)

// GameweekStats is one player's point-scoring breakdown for a single
// gameweek. The (PlayerID, Gameweek) pair is the reconciliation key; rows
// stop changing once the upstream source finalizes the round.
type GameweekStats struct {
	PlayerID int `json:"player_id"`
	Gameweek int `json:"gameweek"`

	Minutes         int `json:"minutes"`
	GoalsScored     int `json:"goals_scored"`
	Assists         int `json:"assists"`
	CleanSheets     int `json:"clean_sheets"`
	GoalsConceded   int `json:"goals_conceded"`
	OwnGoals        int `json:"own_goals"`
	PenaltiesSaved  int `json:"penalties_saved"`
	PenaltiesMissed int `json:"penalties_missed"`
	YellowCards     int `json:"yellow_cards"`
	RedCards        int `json:"red_cards"`
	Saves           int `json:"saves"`
	Bonus           int `json:"bonus"`
	BPS             int `json:"bps"`

	Influence  float64 `json:"influence"`
	Creativity float64 `json:"creativity"`
	Threat     float64 `json:"threat"`
	ICTIndex   float64 `json:"ict_index"`

	ExpectedGoals            float64 `json:"expected_goals"`
	ExpectedAssists          float64 `json:"expected_assists"`
	ExpectedGoalInvolvements float64 `json:"expected_goal_involvements"`
	ExpectedGoalsConceded    float64 `json:"expected_goals_conceded"`

	TotalPoints int  `json:"total_points"`
	InDreamteam bool `json:"in_dreamteam"`

	UpdatedAt time.Time `json:"updated_at"`
}

func (s GameweekStats) Validate() error {
	if s.PlayerID <= 0 {
		return fmt.Errorf("gameweek stats player id must be positive")
	}
	if s.Gameweek <= 0 {
		return fmt.Errorf("gameweek stats gameweek must be positive")
	}
	if s.Minutes < 0 {
		return fmt.Errorf("gameweek stats minutes must not be negative")
	}

	return nil
}
