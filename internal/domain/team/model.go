package team

import (
	"fmt"
	"time"
)

// Team is a Premier League club as served by the upstream game API.
// Code is the reconciliation key against the upstream source; ID is the
// per-season element id used in fixture and player references.
type Team struct {
	ID        int    `json:"id"`
	Code      int    `json:"code"`
	Name      string `json:"name"`
	ShortName string `json:"short_name"`

	Strength            int `json:"strength"`
	StrengthOverallHome int `json:"strength_overall_home"`
	StrengthOverallAway int `json:"strength_overall_away"`
	StrengthAttackHome  int `json:"strength_attack_home"`
	StrengthAttackAway  int `json:"strength_attack_away"`
	StrengthDefenceHome int `json:"strength_defence_home"`
	StrengthDefenceAway int `json:"strength_defence_away"`

	UpdatedAt time.Time `json:"updated_at"`
}

func (t Team) Validate() error {
	if t.Code <= 0 {
		return fmt.Errorf("team code must be positive")
	}
	if t.ID <= 0 {
		return fmt.Errorf("team id must be positive")
	}
	if t.Name == "" {
		return fmt.Errorf("team name is required")
	}
	if t.ShortName == "" {
		return fmt.Errorf("team short name is required")
	}

	return nil
}
