package player

import (
	"fmt"
	"time"
)

// Position represents football position categories used in fantasy rules.
type Position string

const (
	PositionGoalkeeper Position = "GK"
	PositionDefender   Position = "DEF"
	PositionMidfielder Position = "MID"
	PositionForward    Position = "FWD"
)

var AllPositions = map[Position]struct{}{
	PositionGoalkeeper: {},
	PositionDefender:   {},
	PositionMidfielder: {},
	PositionForward:    {},
}

var positionByCode = map[int]Position{
	1: PositionGoalkeeper,
	2: PositionDefender,
	3: PositionMidfielder,
	4: PositionForward,
}

// PositionFromCode decodes the upstream element_type integer. This is the
// only place the numeric mapping lives.
func PositionFromCode(code int) (Position, error) {
	pos, ok := positionByCode[code]
	if !ok {
		return "", fmt.Errorf("unknown position code: %d", code)
	}
	return pos, nil
}

func (p Position) Code() int {
	for code, pos := range positionByCode {
		if pos == p {
			return code
		}
	}
	return 0
}

// Availability mirrors the upstream status letter, decoded once.
type Availability string

const (
	StatusAvailable   Availability = "available"
	StatusDoubtful    Availability = "doubtful"
	StatusInjured     Availability = "injured"
	StatusUnavailable Availability = "unavailable"
)

// AvailabilityFromStatus maps the upstream one-letter status. Suspended and
// departed players are treated as unavailable.
func AvailabilityFromStatus(status string) Availability {
	switch status {
	case "a":
		return StatusAvailable
	case "d":
		return StatusDoubtful
	case "i":
		return StatusInjured
	default:
		return StatusUnavailable
	}
}

// Player is a selectable athlete in the game's player pool. ID is the
// upstream element id and the reconciliation key. Price is held in tenths
// of a million, as the upstream now_cost field delivers it.
type Player struct {
	ID         int      `json:"id"`
	Code       int      `json:"code"`
	FirstName  string   `json:"first_name"`
	SecondName string   `json:"second_name"`
	WebName    string   `json:"web_name"`
	TeamID     int      `json:"team_id"`
	Position   Position `json:"position"`

	Price             int64   `json:"price"`
	TotalPoints       int     `json:"total_points"`
	EventPoints       int     `json:"event_points"`
	Form              float64 `json:"form"`
	PointsPerGame     float64 `json:"points_per_game"`
	SelectedByPercent float64 `json:"selected_by_percent"`

	Minutes       int `json:"minutes"`
	GoalsScored   int `json:"goals_scored"`
	Assists       int `json:"assists"`
	CleanSheets   int `json:"clean_sheets"`
	GoalsConceded int `json:"goals_conceded"`
	YellowCards   int `json:"yellow_cards"`
	RedCards      int `json:"red_cards"`
	Saves         int `json:"saves"`
	Bonus         int `json:"bonus"`
	BPS           int `json:"bps"`

	Influence  float64 `json:"influence"`
	Creativity float64 `json:"creativity"`
	Threat     float64 `json:"threat"`
	ICTIndex   float64 `json:"ict_index"`

	ExpectedGoals            float64 `json:"expected_goals"`
	ExpectedAssists          float64 `json:"expected_assists"`
	ExpectedGoalInvolvements float64 `json:"expected_goal_involvements"`

	Status       Availability `json:"status"`
	News         string       `json:"news,omitempty"`
	TransfersIn  int          `json:"transfers_in"`
	TransfersOut int          `json:"transfers_out"`

	UpdatedAt time.Time `json:"updated_at"`
}

// PriceMillions converts the tenth-of-a-million internal unit to the
// decimal surfaced by the API.
func (p Player) PriceMillions() float64 {
	return float64(p.Price) / 10.0
}

// Selectable reports whether the player may appear in recommendations.
// Anything other than fully available is excluded, not down-weighted.
func (p Player) Selectable() bool {
	return p.Status == StatusAvailable
}

func (p Player) Validate() error {
	if p.ID <= 0 {
		return fmt.Errorf("player id must be positive")
	}
	if p.WebName == "" {
		return fmt.Errorf("player web name is required")
	}
	if p.TeamID <= 0 {
		return fmt.Errorf("player team id must be positive")
	}
	if _, ok := AllPositions[p.Position]; !ok {
		return fmt.Errorf("invalid player position: %s", p.Position)
	}
	if p.Price < 0 {
		return fmt.Errorf("player price must not be negative")
	}

	return nil
}
