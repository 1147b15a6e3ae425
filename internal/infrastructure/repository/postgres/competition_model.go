package postgres

import (
	"time"

	"github.com/riskibarqy/prediction-league/internal/domain/competition"
)

type competitionTableModel struct {
	PublicID             string     `db:"public_id"`
	SeasonID             string     `db:"season_public_id"`
	SportID              string     `db:"sport_id"`
	Name                 string     `db:"name"`
	Format               string     `db:"format"`
	Status               string     `db:"status"`
	StartDate            time.Time  `db:"start_date"`
	EndDate              *time.Time `db:"end_date"`
	RegistrationOpensAt  *time.Time `db:"registration_opens_at"`
	RegistrationClosesAt *time.Time `db:"registration_closes_at"`
	MinParticipants      int        `db:"min_participants"`
	MaxParticipants      int        `db:"max_participants"`
	CreatedAt            time.Time  `db:"created_at"`
	UpdatedAt            time.Time  `db:"updated_at"`
}

func competitionToModel(item competition.Competition) competitionTableModel {
	return competitionTableModel{
		PublicID:             item.ID,
		SeasonID:             item.SeasonID,
		SportID:              item.SportID,
		Name:                 item.Name,
		Format:               string(item.Format),
		Status:               string(item.Status),
		StartDate:            item.StartDate,
		EndDate:              item.EndDate,
		RegistrationOpensAt:  item.RegistrationOpensAt,
		RegistrationClosesAt: item.RegistrationClosesAt,
		MinParticipants:      item.MinParticipants,
		MaxParticipants:      item.MaxParticipants,
		CreatedAt:            item.CreatedAt,
		UpdatedAt:            item.UpdatedAt,
	}
}

func (m competitionTableModel) toDomain() competition.Competition {
	return competition.Competition{
		ID:                   m.PublicID,
		SeasonID:             m.SeasonID,
		SportID:              m.SportID,
		Name:                 m.Name,
		Format:               competition.Format(m.Format),
		Status:               competition.Status(m.Status),
		StartDate:            m.StartDate,
		EndDate:              m.EndDate,
		RegistrationOpensAt:  m.RegistrationOpensAt,
		RegistrationClosesAt: m.RegistrationClosesAt,
		MinParticipants:      m.MinParticipants,
		MaxParticipants:      m.MaxParticipants,
		CreatedAt:            m.CreatedAt,
		UpdatedAt:            m.UpdatedAt,
	}
}
