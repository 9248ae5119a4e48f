package postgres

import (
	"database/sql"
	"time"

	"github.com/fantasyxi/fpl-insight/internal/domain/fixture"
)

type fixtureTableModel struct {
	ID       int `db:"id"`
	Code     int `db:"code"`
	Gameweek int `db:"gameweek"`

	HomeTeamID int `db:"home_team_id"`
	AwayTeamID int `db:"away_team_id"`

	KickoffAt sql.NullTime  `db:"kickoff_at"`
	HomeScore sql.NullInt64 `db:"home_score"`
	AwayScore sql.NullInt64 `db:"away_score"`

	Started             bool `db:"started"`
	Finished            bool `db:"finished"`
	FinishedProvisional bool `db:"finished_provisional"`

	HomeDifficulty int `db:"home_difficulty"`
	AwayDifficulty int `db:"away_difficulty"`

	Minutes   int       `db:"minutes"`
	UpdatedAt time.Time `db:"updated_at"`
}

func fixtureToTableModel(f fixture.Fixture) fixtureTableModel {
	return fixtureTableModel{
		ID:                  f.ID,
		Code:                f.Code,
		Gameweek:            f.Gameweek,
		HomeTeamID:          f.HomeTeamID,
		AwayTeamID:          f.AwayTeamID,
		KickoffAt:           ptrToNullTime(f.KickoffAt),
		HomeScore:           intPtrToNullInt64(f.HomeScore),
		AwayScore:           intPtrToNullInt64(f.AwayScore),
		Started:             f.Started,
		Finished:            f.Finished,
		FinishedProvisional: f.FinishedProvisional,
		HomeDifficulty:      f.HomeDifficulty,
		AwayDifficulty:      f.AwayDifficulty,
		Minutes:             f.Minutes,
		UpdatedAt:           f.UpdatedAt,
	}
}

func (m fixtureTableModel) toDomain() fixture.Fixture {
	return fixture.Fixture{
		ID:                  m.ID,
		Code:                m.Code,
		Gameweek:            m.Gameweek,
		HomeTeamID:          m.HomeTeamID,
		AwayTeamID:          m.AwayTeamID,
		KickoffAt:           nullTimeToPtr(m.KickoffAt),
		HomeScore:           nullInt64ToIntPtr(m.HomeScore),
		AwayScore:           nullInt64ToIntPtr(m.AwayScore),
		Started:             m.Started,
		Finished:            m.Finished,
		FinishedProvisional: m.FinishedProvisional,
		HomeDifficulty:      m.HomeDifficulty,
		AwayDifficulty:      m.AwayDifficulty,
		Minutes:             m.Minutes,
		UpdatedAt:           m.UpdatedAt,
	}
}
