package season

import (
	"fmt"
	"time"
)

// Config is the single current-season configuration record. It controls
// how historical and current-season data are blended while the running
// season is still thin on evidence.
type Config struct {
	Season              string
	HistoricalCutoffGW  int
	HistoricalWeight    float64
	CurrentWeight       float64
	TransitionStep      float64
	MaxCurrentWeight    float64
	MinHistoricalWeight float64
	UpdatedAt           time.Time
}

// DefaultConfig mirrors the tuning the product shipped with.
func DefaultConfig(seasonLabel string) Config {
	return Config{
		Season:              seasonLabel,
		HistoricalCutoffGW:  5,
		HistoricalWeight:    0.7,
		CurrentWeight:       0.3,
		TransitionStep:      0.05,
		MaxCurrentWeight:    0.6,
		MinHistoricalWeight: 0.2,
	}
}

// BlendWeights returns the (historical, current) weights for a gameweek.
// Up to the cutoff the configured base weights apply; past it the current
// weight ramps up by TransitionStep per gameweek within the clamps.
func (c Config) BlendWeights(gameweek int) (float64, float64) {
	if gameweek <= c.HistoricalCutoffGW {
		return c.HistoricalWeight, c.CurrentWeight
	}

	steps := float64(gameweek - c.HistoricalCutoffGW)
	current := 0.1 + steps*c.TransitionStep
	if current > c.MaxCurrentWeight {
		current = c.MaxCurrentWeight
	}
	historical := c.HistoricalWeight - steps*c.TransitionStep
	if historical < c.MinHistoricalWeight {
		historical = c.MinHistoricalWeight
	}

	return historical, current
}

func (c Config) Validate() error {
	if c.Season == "" {
		return fmt.Errorf("season label is required")
	}
	if c.HistoricalCutoffGW < 0 {
		return fmt.Errorf("historical cutoff gameweek must not be negative")
	}
	if c.HistoricalWeight < 0 || c.CurrentWeight < 0 {
		return fmt.Errorf("blend weights must not be negative")
	}

	return nil
}
