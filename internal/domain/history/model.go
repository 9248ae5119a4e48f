package history

import (
	"fmt"
	"time"
)

// SeasonStats is a player's prior-season aggregate, loaded once and used
// for cold-start scoring before the running season has enough data. The
// (PlayerID, Season) pair is the natural key; sync never mutates these.
type SeasonStats struct {
	PlayerID int
	Season   string

	TotalPoints   int
	Minutes       int
	GoalsScored   int
	Assists       int
	CleanSheets   int
	Bonus         int
	PointsPerGame float64
	StartPrice    int64
	EndPrice      int64

	LoadedAt time.Time
}

func (s SeasonStats) Validate() error {
	if s.PlayerID <= 0 {
		return fmt.Errorf("season stats player id must be positive")
	}
	if s.Season == "" {
		return fmt.Errorf("season stats season label is required")
	}

	return nil
}
