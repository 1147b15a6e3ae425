package postgres

import (
	"time"

	"github.com/riskibarqy/prediction-league/internal/domain/season"
)

type seasonTableModel struct {
	PublicID          string     `db:"public_id"`
	SportID           string     `db:"sport_id"`
	Name              string     `db:"name"`
	StartDate         time.Time  `db:"start_date"`
	EndDate           time.Time  `db:"end_date"`
	RegistrationStart *time.Time `db:"registration_start"`
	RegistrationEnd   *time.Time `db:"registration_end"`
	PointsForWin      int        `db:"points_for_win"`
	PointsForDraw     int        `db:"points_for_draw"`
	PointsForLoss     int        `db:"points_for_loss"`
	AllowDraws        bool       `db:"allow_draws"`
	Status            string     `db:"status"`
	IsActive          bool       `db:"is_active"`
	CreatedAt         time.Time  `db:"created_at"`
	UpdatedAt         time.Time  `db:"updated_at"`
}

func seasonToModel(item season.Season) seasonTableModel {
	return seasonTableModel{
		PublicID:          item.ID,
		SportID:           item.SportID,
		Name:              item.Name,
		StartDate:         item.StartDate,
		EndDate:           item.EndDate,
		RegistrationStart: item.RegistrationStart,
		RegistrationEnd:   item.RegistrationEnd,
		PointsForWin:      item.Rules.PointsForWin,
		PointsForDraw:     item.Rules.PointsForDraw,
		PointsForLoss:     item.Rules.PointsForLoss,
		AllowDraws:        item.Rules.AllowDraws,
		Status:            string(item.Status),
		IsActive:          item.IsActive,
		CreatedAt:         item.CreatedAt,
		UpdatedAt:         item.UpdatedAt,
	}
}

func (m seasonTableModel) toDomain() season.Season {
	return season.Season{
		ID:                m.PublicID,
		SportID:           m.SportID,
		Name:              m.Name,
		StartDate:         m.StartDate,
		EndDate:           m.EndDate,
		RegistrationStart: m.RegistrationStart,
		RegistrationEnd:   m.RegistrationEnd,
		Rules: season.ScoringRules{
			PointsForWin:  m.PointsForWin,
			PointsForDraw: m.PointsForDraw,
			PointsForLoss: m.PointsForLoss,
			AllowDraws:    m.AllowDraws,
		},
		Status:    season.Status(m.Status),
		IsActive:  m.IsActive,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}
