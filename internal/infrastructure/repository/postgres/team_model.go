package postgres

import (
	"time"

	"github.com/fantasyxi/fpl-insight/internal/domain/team"
)

type teamTableModel struct {
	ID                  int       `db:"id"`
	Code                int       `db:"code"`
	Name                string    `db:"name"`
	ShortName           string    `db:"short_name"`
	Strength            int       `db:"strength"`
	StrengthOverallHome int       `db:"strength_overall_home"`
	StrengthOverallAway int       `db:"strength_overall_away"`
	StrengthAttackHome  int       `db:"strength_attack_home"`
	StrengthAttackAway  int       `db:"strength_attack_away"`
	StrengthDefenceHome int       `db:"strength_defence_home"`
	StrengthDefenceAway int       `db:"strength_defence_away"`
	UpdatedAt           time.Time `db:"updated_at"`
}

func teamToTableModel(t team.Team) teamTableModel {
	return teamTableModel{
		ID:                  t.ID,
		Code:                t.Code,
		Name:                t.Name,
		ShortName:           t.ShortName,
		Strength:            t.Strength,
		StrengthOverallHome: t.StrengthOverallHome,
		StrengthOverallAway: t.StrengthOverallAway,
		StrengthAttackHome:  t.StrengthAttackHome,
		StrengthAttackAway:  t.StrengthAttackAway,
		StrengthDefenceHome: t.StrengthDefenceHome,
		StrengthDefenceAway: t.StrengthDefenceAway,
		UpdatedAt:           t.UpdatedAt,
	}
}

func (m teamTableModel) toDomain() team.Team {
	return team.Team{
		ID:                  m.ID,
		Code:                m.Code,
		Name:                m.Name,
		ShortName:           m.ShortName,
		Strength:            m.Strength,
		StrengthOverallHome: m.StrengthOverallHome,
		StrengthOverallAway: m.StrengthOverallAway,
		StrengthAttackHome:  m.StrengthAttackHome,
		StrengthAttackAway:  m.StrengthAttackAway,
		StrengthDefenceHome: m.StrengthDefenceHome,
		StrengthDefenceAway: m.StrengthDefenceAway,
		UpdatedAt:           m.UpdatedAt,
	}
}
