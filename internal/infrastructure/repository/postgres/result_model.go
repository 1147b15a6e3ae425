package postgres

import (
	"time"

	"github.com/riskibarqy/prediction-league/internal/domain/result"
)

type resultTableModel struct {
	PublicID      string     `db:"public_id"`
	MatchID       string     `db:"match_public_id"`
	Status        string     `db:"status"`
	HomeScore     int        `db:"home_score"`
	AwayScore     int        `db:"away_score"`
	ExtraTimeHome *int       `db:"extra_time_home"`
	ExtraTimeAway *int       `db:"extra_time_away"`
	PenaltyHome   *int       `db:"penalty_home"`
	PenaltyAway   *int       `db:"penalty_away"`
	IsOfficial    bool       `db:"is_official"`
	VerifiedBy    string     `db:"verified_by"`
	FinalizedAt   *time.Time `db:"finalized_at"`
	CreatedAt     time.Time  `db:"created_at"`
	UpdatedAt     time.Time  `db:"updated_at"`
}

func resultToModel(item result.Result) resultTableModel {
	return resultTableModel{
		PublicID:      item.ID,
		MatchID:       item.MatchID,
		Status:        string(item.Status),
		HomeScore:     item.HomeScore,
		AwayScore:     item.AwayScore,
		ExtraTimeHome: item.ExtraTimeHome,
		ExtraTimeAway: item.ExtraTimeAway,
		PenaltyHome:   item.PenaltyHome,
		PenaltyAway:   item.PenaltyAway,
		IsOfficial:    item.IsOfficial,
		VerifiedBy:    item.VerifiedBy,
		FinalizedAt:   item.FinalizedAt,
		CreatedAt:     item.CreatedAt,
		UpdatedAt:     item.UpdatedAt,
	}
}

func (m resultTableModel) toDomain() result.Result {
	return result.Result{
		ID:            m.PublicID,
		MatchID:       m.MatchID,
		Status:        result.Status(m.Status),
		HomeScore:     m.HomeScore,
		AwayScore:     m.AwayScore,
		ExtraTimeHome: m.ExtraTimeHome,
		ExtraTimeAway: m.ExtraTimeAway,
		PenaltyHome:   m.PenaltyHome,
		PenaltyAway:   m.PenaltyAway,
		IsOfficial:    m.IsOfficial,
		VerifiedBy:    m.VerifiedBy,
		FinalizedAt:   m.FinalizedAt,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}
