package fpl

import (
	"strconv"
	"strings"
	"time"

	"github.com/fantasyxi/fpl-insight/internal/usecase"
)

// The game API serializes most decimal stats as strings ("4.5") and
// some ids as nullable numbers. These wire types absorb that before
// anything typed leaves the package.

type bootstrapWire struct {
	Events   []eventWire   `json:"events"`
	Teams    []teamWire    `json:"teams"`
	Elements []elementWire `json:"elements"`
}

type eventWire struct {
	ID           int    `json:"id"`
	Name         string `json:"name"`
	DeadlineTime string `json:"deadline_time"`
	Finished     bool   `json:"finished"`
	IsCurrent    bool   `json:"is_current"`
	IsNext       bool   `json:"is_next"`
}

type teamWire struct {
	ID                  int    `json:"id"`
	Code                int    `json:"code"`
	Name                string `json:"name"`
	ShortName           string `json:"short_name"`
	Strength            int    `json:"strength"`
	StrengthOverallHome int    `json:"strength_overall_home"`
	StrengthOverallAway int    `json:"strength_overall_away"`
	StrengthAttackHome  int    `json:"strength_attack_home"`
	StrengthAttackAway  int    `json:"strength_attack_away"`
	StrengthDefenceHome int    `json:"strength_defence_home"`
	StrengthDefenceAway int    `json:"strength_defence_away"`
}

type elementWire struct {
	ID                       int    `json:"id"`
	Code                     int    `json:"code"`
	Team                     int    `json:"team"`
	ElementType              int    `json:"element_type"`
	FirstName                string `json:"first_name"`
	SecondName               string `json:"second_name"`
	WebName                  string `json:"web_name"`
	NowCost                  int    `json:"now_cost"`
	TotalPoints              int    `json:"total_points"`
	EventPoints              int    `json:"event_points"`
	Form                     string `json:"form"`
	PointsPerGame            string `json:"points_per_game"`
	SelectedByPercent        string `json:"selected_by_percent"`
	Minutes                  int    `json:"minutes"`
	GoalsScored              int    `json:"goals_scored"`
	Assists                  int    `json:"assists"`
	CleanSheets              int    `json:"clean_sheets"`
	GoalsConceded            int    `json:"goals_conceded"`
	YellowCards              int    `json:"yellow_cards"`
	RedCards                 int    `json:"red_cards"`
	Saves                    int    `json:"saves"`
	Bonus                    int    `json:"bonus"`
	BPS                      int    `json:"bps"`
	Influence                string `json:"influence"`
	Creativity               string `json:"creativity"`
	Threat                   string `json:"threat"`
	ICTIndex                 string `json:"ict_index"`
	ExpectedGoals            string `json:"expected_goals"`
	ExpectedAssists          string `json:"expected_assists"`
	ExpectedGoalInvolvements string `json:"expected_goal_involvements"`
	Status                   string `json:"status"`
	News                     string `json:"news"`
	TransfersIn              int    `json:"transfers_in"`
	TransfersOut             int    `json:"transfers_out"`
}

type fixtureWire struct {
	ID                  int    `json:"id"`
	Code                int    `json:"code"`
	Event               *int   `json:"event"`
	TeamH               int    `json:"team_h"`
	TeamA               int    `json:"team_a"`
	TeamHScore          *int   `json:"team_h_score"`
	TeamAScore          *int   `json:"team_a_score"`
	TeamHDifficulty     int    `json:"team_h_difficulty"`
	TeamADifficulty     int    `json:"team_a_difficulty"`
	KickoffTime         string `json:"kickoff_time"`
	Started             bool   `json:"started"`
	Finished            bool   `json:"finished"`
	FinishedProvisional bool   `json:"finished_provisional"`
	Minutes             int    `json:"minutes"`
}

type liveWire struct {
	Elements []liveElementWire `json:"elements"`
}

type liveElementWire struct {
	ID    int           `json:"id"`
	Stats liveStatsWire `json:"stats"`
}

type liveStatsWire struct {
	Minutes                  int    `json:"minutes"`
	GoalsScored              int    `json:"goals_scored"`
	Assists                  int    `json:"assists"`
	CleanSheets              int    `json:"clean_sheets"`
	GoalsConceded            int    `json:"goals_conceded"`
	OwnGoals                 int    `json:"own_goals"`
	PenaltiesSaved           int    `json:"penalties_saved"`
	PenaltiesMissed          int    `json:"penalties_missed"`
	YellowCards              int    `json:"yellow_cards"`
	RedCards                 int    `json:"red_cards"`
	Saves                    int    `json:"saves"`
	Bonus                    int    `json:"bonus"`
	BPS                      int    `json:"bps"`
	Influence                string `json:"influence"`
	Creativity               string `json:"creativity"`
	Threat                   string `json:"threat"`
	ICTIndex                 string `json:"ict_index"`
	ExpectedGoals            string `json:"expected_goals"`
	ExpectedAssists          string `json:"expected_assists"`
	ExpectedGoalInvolvements string `json:"expected_goal_involvements"`
	ExpectedGoalsConceded    string `json:"expected_goals_conceded"`
	TotalPoints              int    `json:"total_points"`
	InDreamteam              bool   `json:"in_dreamteam"`
}

type elementSummaryWire struct {
	HistoryPast []pastSeasonWire `json:"history_past"`
}

type pastSeasonWire struct {
	SeasonName  string `json:"season_name"`
	StartCost   int    `json:"start_cost"`
	EndCost     int    `json:"end_cost"`
	TotalPoints int    `json:"total_points"`
	Minutes     int    `json:"minutes"`
	GoalsScored int    `json:"goals_scored"`
	Assists     int    `json:"assists"`
	CleanSheets int    `json:"clean_sheets"`
	Bonus       int    `json:"bonus"`
}

type entryWire struct {
	ID                   int    `json:"id"`
	PlayerFirstName      string `json:"player_first_name"`
	PlayerLastName       string `json:"player_last_name"`
	Name                 string `json:"name"`
	SummaryOverallPoints int    `json:"summary_overall_points"`
	SummaryOverallRank   int    `json:"summary_overall_rank"`
	SummaryEventPoints   int    `json:"summary_event_points"`
	CurrentEvent         int    `json:"current_event"`
}

type picksWire struct {
	ActiveChip   string           `json:"active_chip"`
	EntryHistory picksHistoryWire `json:"entry_history"`
	Picks        []pickWire       `json:"picks"`
}

type picksHistoryWire struct {
	Points             int `json:"points"`
	EventTransfers     int `json:"event_transfers"`
	EventTransfersCost int `json:"event_transfers_cost"`
}

type pickWire struct {
	Element       int  `json:"element"`
	Position      int  `json:"position"`
	Multiplier    int  `json:"multiplier"`
	IsCaptain     bool `json:"is_captain"`
	IsViceCaptain bool `json:"is_vice_captain"`
}

func mapTeam(w teamWire) usecase.ExternalTeam {
	return usecase.ExternalTeam{
		ID:                  w.ID,
		Code:                w.Code,
		Name:                w.Name,
		ShortName:           w.ShortName,
		Strength:            w.Strength,
		StrengthOverallHome: w.StrengthOverallHome,
		StrengthOverallAway: w.StrengthOverallAway,
		StrengthAttackHome:  w.StrengthAttackHome,
		StrengthAttackAway:  w.StrengthAttackAway,
		StrengthDefenceHome: w.StrengthDefenceHome,
		StrengthDefenceAway: w.StrengthDefenceAway,
	}
}

func mapPlayer(w elementWire) usecase.ExternalPlayer {
	return usecase.ExternalPlayer{
		ID:                       w.ID,
		Code:                     w.Code,
		TeamID:                   w.Team,
		PositionCode:             w.ElementType,
		FirstName:                w.FirstName,
		SecondName:               w.SecondName,
		WebName:                  w.WebName,
		NowCost:                  w.NowCost,
		TotalPoints:              w.TotalPoints,
		EventPoints:              w.EventPoints,
		Form:                     parseDecimal(w.Form),
		PointsPerGame:            parseDecimal(w.PointsPerGame),
		SelectedByPercent:        parseDecimal(w.SelectedByPercent),
		Minutes:                  w.Minutes,
		GoalsScored:              w.GoalsScored,
		Assists:                  w.Assists,
		CleanSheets:              w.CleanSheets,
		GoalsConceded:            w.GoalsConceded,
		YellowCards:              w.YellowCards,
		RedCards:                 w.RedCards,
		Saves:                    w.Saves,
		Bonus:                    w.Bonus,
		BPS:                      w.BPS,
		Influence:                parseDecimal(w.Influence),
		Creativity:               parseDecimal(w.Creativity),
		Threat:                   parseDecimal(w.Threat),
		ICTIndex:                 parseDecimal(w.ICTIndex),
		ExpectedGoals:            parseDecimal(w.ExpectedGoals),
		ExpectedAssists:          parseDecimal(w.ExpectedAssists),
		ExpectedGoalInvolvements: parseDecimal(w.ExpectedGoalInvolvements),
		Status:                   w.Status,
		News:                     w.News,
		TransfersIn:              w.TransfersIn,
		TransfersOut:             w.TransfersOut,
	}
}

func mapEvent(w eventWire) usecase.ExternalEvent {
	return usecase.ExternalEvent{
		ID:           w.ID,
		Name:         w.Name,
		DeadlineTime: parseTimestamp(w.DeadlineTime),
		Finished:     w.Finished,
		IsCurrent:    w.IsCurrent,
		IsNext:       w.IsNext,
	}
}

func mapFixture(w fixtureWire) usecase.ExternalFixture {
	gameweek := 0
	if w.Event != nil {
		gameweek = *w.Event
	}
	return usecase.ExternalFixture{
		ID:                  w.ID,
		Code:                w.Code,
		Gameweek:            gameweek,
		HomeTeamID:          w.TeamH,
		AwayTeamID:          w.TeamA,
		KickoffAt:           parseTimestamp(w.KickoffTime),
		HomeScore:           w.TeamHScore,
		AwayScore:           w.TeamAScore,
		Started:             w.Started,
		Finished:            w.Finished,
		FinishedProvisional: w.FinishedProvisional,
		HomeDifficulty:      w.TeamHDifficulty,
		AwayDifficulty:      w.TeamADifficulty,
		Minutes:             w.Minutes,
	}
}

func mapLiveStat(w liveElementWire, gameweek int) usecase.ExternalPlayerGameweekStat {
	return usecase.ExternalPlayerGameweekStat{
		PlayerID:                 w.ID,
		Gameweek:                 gameweek,
		Minutes:                  w.Stats.Minutes,
		GoalsScored:              w.Stats.GoalsScored,
		Assists:                  w.Stats.Assists,
		CleanSheets:              w.Stats.CleanSheets,
		GoalsConceded:            w.Stats.GoalsConceded,
		OwnGoals:                 w.Stats.OwnGoals,
		PenaltiesSaved:           w.Stats.PenaltiesSaved,
		PenaltiesMissed:          w.Stats.PenaltiesMissed,
		YellowCards:              w.Stats.YellowCards,
		RedCards:                 w.Stats.RedCards,
		Saves:                    w.Stats.Saves,
		Bonus:                    w.Stats.Bonus,
		BPS:                      w.Stats.BPS,
		Influence:                parseDecimal(w.Stats.Influence),
		Creativity:               parseDecimal(w.Stats.Creativity),
		Threat:                   parseDecimal(w.Stats.Threat),
		ICTIndex:                 parseDecimal(w.Stats.ICTIndex),
		ExpectedGoals:            parseDecimal(w.Stats.ExpectedGoals),
		ExpectedAssists:          parseDecimal(w.Stats.ExpectedAssists),
		ExpectedGoalInvolvements: parseDecimal(w.Stats.ExpectedGoalInvolvements),
		ExpectedGoalsConceded:    parseDecimal(w.Stats.ExpectedGoalsConceded),
		TotalPoints:              w.Stats.TotalPoints,
		InDreamteam:              w.Stats.InDreamteam,
	}
}

func mapPastSeason(w pastSeasonWire) usecase.ExternalSeasonHistory {
	out := usecase.ExternalSeasonHistory{
		Season:      w.SeasonName,
		TotalPoints: w.TotalPoints,
		Minutes:     w.Minutes,
		GoalsScored: w.GoalsScored,
		Assists:     w.Assists,
		CleanSheets: w.CleanSheets,
		Bonus:       w.Bonus,
		StartPrice:  w.StartCost,
		EndPrice:    w.EndCost,
	}
	// The summary endpoint omits a per-game rate for past seasons, so
	// derive one from full-match appearances.
	if appearances := float64(w.Minutes) / 90.0; appearances >= 1 {
		out.PointsPerGame = float64(w.TotalPoints) / appearances
	}
	return out
}

func parseDecimal(v string) float64 {
	v = strings.TrimSpace(v)
	if v == "" {
		return 0
	}
	out, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0
	}
	return out
}

func parseTimestamp(v string) *time.Time {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil
	}
	parsed, err := time.Parse(time.RFC3339, v)
	if err != nil {
		return nil
	}
	utc := parsed.UTC()
	return &utc
}
