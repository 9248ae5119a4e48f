package usecase

import (
	"context"
	"time"
)

// DataProvider is the upstream game API as the sync engine sees it.
// Implementations decode the wire format; these records carry only the
// fields the engine consumes, already typed.
type DataProvider interface {
	FetchBootstrap(ctx context.Context) (ExternalBootstrap, error)
	FetchFixtures(ctx context.Context) ([]ExternalFixture, error)
	FetchGameweekLive(ctx context.Context, gameweek int) ([]ExternalPlayerGameweekStat, error)
	FetchEntry(ctx context.Context, entryID int) (ExternalEntry, error)
	FetchEntryPicks(ctx context.Context, entryID, gameweek int) (ExternalEntryPicks, error)
	FetchPlayerHistory(ctx context.Context, playerID int) ([]ExternalSeasonHistory, error)
}

// ExternalBootstrap is the provider's combined static payload: clubs,
// the player pool, and the season calendar in one fetch.
type ExternalBootstrap struct {
	Teams   []ExternalTeam
	Players []ExternalPlayer
	Events  []ExternalEvent
}

type ExternalTeam struct {
	ID        int
	Code      int
	Name      string
	ShortName string

	Strength            int
	StrengthOverallHome int
	StrengthOverallAway int
	StrengthAttackHome  int
	StrengthAttackAway  int
	StrengthDefenceHome int
	StrengthDefenceAway int
}

type ExternalPlayer struct {
	ID           int
	Code         int
	TeamID       int
	PositionCode int
	FirstName    string
	SecondName   string
	WebName      string

	NowCost           int
	TotalPoints       int
	EventPoints       int
	Form              float64
	PointsPerGame     float64
	SelectedByPercent float64

	Minutes       int
	GoalsScored   int
	Assists       int
	CleanSheets   int
	GoalsConceded int
	YellowCards   int
	RedCards      int
	Saves         int
	Bonus         int
	BPS           int

	Influence  float64
	Creativity float64
	Threat     float64
	ICTIndex   float64

	ExpectedGoals            float64
	ExpectedAssists          float64
	ExpectedGoalInvolvements float64

	Status       string
	News         string
	TransfersIn  int
	TransfersOut int
}

type ExternalEvent struct {
	ID           int
	Name         string
	DeadlineTime *time.Time
	Finished     bool
	IsCurrent    bool
	IsNext       bool
}

type ExternalFixture struct {
	ID       int
	Code     int
	Gameweek int

	HomeTeamID int
	AwayTeamID int

	KickoffAt *time.Time
	HomeScore *int
	AwayScore *int

	Started             bool
	Finished            bool
	FinishedProvisional bool

	HomeDifficulty int
	AwayDifficulty int

	Minutes int
}

type ExternalPlayerGameweekStat struct {
	PlayerID int
	Gameweek int

	Minutes         int
	GoalsScored     int
	Assists         int
	CleanSheets     int
	GoalsConceded   int
	OwnGoals        int
	PenaltiesSaved  int
	PenaltiesMissed int
	YellowCards     int
	RedCards        int
	Saves           int
	Bonus           int
	BPS             int

	Influence  float64
	Creativity float64
	Threat     float64
	ICTIndex   float64

	ExpectedGoals            float64
	ExpectedAssists          float64
	ExpectedGoalInvolvements float64
	ExpectedGoalsConceded    float64

	TotalPoints int
	InDreamteam bool
}

// ExternalSeasonHistory is one completed past season for a player, as
// served by the per-player summary endpoint.
type ExternalSeasonHistory struct {
	Season        string
	TotalPoints   int
	Minutes       int
	GoalsScored   int
	Assists       int
	CleanSheets   int
	Bonus         int
	PointsPerGame float64
	StartPrice    int
	EndPrice      int
}

type ExternalEntry struct {
	ID            int
	FirstName     string
	LastName      string
	TeamName      string
	OverallPoints int
	OverallRank   int
	EventPoints   int
	CurrentEvent  int
}

type ExternalEntryPick struct {
	PlayerID      int
	SlotPosition  int
	Multiplier    int
	IsCaptain     bool
	IsViceCaptain bool
}

type ExternalEntryPicks struct {
	EntryID       int
	Gameweek      int
	ActiveChip    string
	Points        int
	TransfersMade int
	TransfersCost int
	Picks         []ExternalEntryPick
}
