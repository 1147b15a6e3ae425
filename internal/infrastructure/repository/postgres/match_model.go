package postgres

import (
	"time"

	"github.com/riskibarqy/prediction-league/internal/domain/match"
)

type matchTableModel struct {
	PublicID        string     `db:"public_id"`
	CompetitionID   string     `db:"competition_public_id"`
	HomeTeamID      string     `db:"home_team_public_id"`
	AwayTeamID      string     `db:"away_team_public_id"`
	Round           int        `db:"round"`
	Venue           string     `db:"venue"`
	ScheduledAt     time.Time  `db:"scheduled_at"`
	BettingClosesAt time.Time  `db:"betting_closes_at"`
	Status          string     `db:"status"`
	HomeScore       int        `db:"home_score"`
	AwayScore       int        `db:"away_score"`
	ExtraTimeHome   *int       `db:"extra_time_home"`
	ExtraTimeAway   *int       `db:"extra_time_away"`
	PenaltyHome     *int       `db:"penalty_home"`
	PenaltyAway     *int       `db:"penalty_away"`
	StartedAt       *time.Time `db:"started_at"`
	FinishedAt      *time.Time `db:"finished_at"`
	CreatedAt       time.Time  `db:"created_at"`
	UpdatedAt       time.Time  `db:"updated_at"`
}

func matchToModel(item match.Match) matchTableModel {
	return matchTableModel{
		PublicID:        item.ID,
		CompetitionID:   item.CompetitionID,
		HomeTeamID:      item.HomeTeamID,
		AwayTeamID:      item.AwayTeamID,
		Round:           item.Round,
		Venue:           item.Venue,
		ScheduledAt:     item.ScheduledAt,
		BettingClosesAt: item.BettingClosesAt,
		Status:          string(item.Status),
		HomeScore:       item.HomeScore,
		AwayScore:       item.AwayScore,
		ExtraTimeHome:   item.ExtraTimeHome,
		ExtraTimeAway:   item.ExtraTimeAway,
		PenaltyHome:     item.PenaltyHome,
		PenaltyAway:     item.PenaltyAway,
		StartedAt:       item.StartedAt,
		FinishedAt:      item.FinishedAt,
		CreatedAt:       item.CreatedAt,
		UpdatedAt:       item.UpdatedAt,
	}
}

func (m matchTableModel) toDomain() match.Match {
	return match.Match{
		ID:              m.PublicID,
		CompetitionID:   m.CompetitionID,
		HomeTeamID:      m.HomeTeamID,
		AwayTeamID:      m.AwayTeamID,
		Round:           m.Round,
		Venue:           m.Venue,
		ScheduledAt:     m.ScheduledAt,
		BettingClosesAt: m.BettingClosesAt,
		Status:          match.Status(m.Status),
		HomeScore:       m.HomeScore,
		AwayScore:       m.AwayScore,
		ExtraTimeHome:   m.ExtraTimeHome,
		ExtraTimeAway:   m.ExtraTimeAway,
		PenaltyHome:     m.PenaltyHome,
		PenaltyAway:     m.PenaltyAway,
		StartedAt:       m.StartedAt,
		FinishedAt:      m.FinishedAt,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
}
