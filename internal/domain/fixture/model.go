package fixture

import (
	"fmt"
	"time"
)

// Fixture represents one scheduled match. Code is the reconciliation key
// against the upstream source; ID is the per-season fixture id. Gameweek
// is zero while the fixture is unscheduled.
type Fixture struct {
	ID       int `json:"id"`
	Code     int `json:"code"`
	Gameweek int `json:"gameweek"`

	HomeTeamID int `json:"home_team_id"`
	AwayTeamID int `json:"away_team_id"`

	KickoffAt *time.Time `json:"kickoff_at,omitempty"`
	HomeScore *int       `json:"home_score,omitempty"`
	AwayScore *int       `json:"away_score,omitempty"`

	Started             bool `json:"started"`
	Finished            bool `json:"finished"`
	FinishedProvisional bool `json:"finished_provisional"`

	// Difficulty the named side faces in this match, 1 (easiest) to 5.
	// The two ratings are independent, not mirror images.
	HomeDifficulty int `json:"home_difficulty"`
	AwayDifficulty int `json:"away_difficulty"`

	Minutes   int       `json:"minutes"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DifficultyFor returns the rating from the given team's perspective.
func (f Fixture) DifficultyFor(teamID int) (int, bool) {
	switch teamID {
	case f.HomeTeamID:
		return f.HomeDifficulty, true
	case f.AwayTeamID:
		return f.AwayDifficulty, true
	default:
		return 0, false
	}
}

// Involves reports whether the team plays in this fixture.
func (f Fixture) Involves(teamID int) bool {
	return teamID == f.HomeTeamID || teamID == f.AwayTeamID
}

// Live reports a match that kicked off but has not finished.
func (f Fixture) Live() bool {
	return f.Started && !f.Finished
}

func (f Fixture) Validate() error {
	if f.Code <= 0 {
		return fmt.Errorf("fixture code must be positive")
	}
	if f.ID <= 0 {
		return fmt.Errorf("fixture id must be positive")
	}
	if f.HomeTeamID <= 0 || f.AwayTeamID <= 0 {
		return fmt.Errorf("fixture team references must be positive")
	}
	if f.HomeTeamID == f.AwayTeamID {
		return fmt.Errorf("fixture cannot pair a team with itself")
	}
	if f.Gameweek < 0 {
		return fmt.Errorf("fixture gameweek must not be negative")
	}
	if f.Finished && (f.HomeScore == nil || f.AwayScore == nil) {
		return fmt.Errorf("finished fixture requires both scores")
	}
	if f.Finished && !f.Started {
		return fmt.Errorf("finished fixture must have started")
	}

	return nil
}
