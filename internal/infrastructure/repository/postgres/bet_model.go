package postgres

import (
	"time"

	"github.com/riskibarqy/prediction-league/internal/domain/bet"
)

type betTableModel struct {
	PublicID      string     `db:"public_id"`
	UserID        string     `db:"user_id"`
	MatchID       string     `db:"match_public_id"`
	PredictedHome int        `db:"predicted_home"`
	PredictedAway int        `db:"predicted_away"`
	Status        string     `db:"status"`
	PointsEarned  int        `db:"points_earned"`
	BonusPoints   int        `db:"bonus_points"`
	BonusApplied  bool       `db:"bonus_applied"`
	BonusReason   string     `db:"bonus_reason"`
	PlacedAt      time.Time  `db:"placed_at"`
	SettledAt     *time.Time `db:"settled_at"`
	UpdatedAt     time.Time  `db:"updated_at"`
}

func betToModel(item bet.Bet) betTableModel {
	return betTableModel{
		PublicID:      item.ID,
		UserID:        item.UserID,
		MatchID:       item.MatchID,
		PredictedHome: item.PredictedHome,
		PredictedAway: item.PredictedAway,
		Status:        string(item.Status),
		PointsEarned:  item.PointsEarned,
		BonusPoints:   item.BonusPoints,
		BonusApplied:  item.BonusApplied,
		BonusReason:   item.BonusReason,
		PlacedAt:      item.PlacedAt,
		SettledAt:     item.SettledAt,
		UpdatedAt:     item.UpdatedAt,
	}
}

func (m betTableModel) toDomain() bet.Bet {
	return bet.Bet{
		ID:            m.PublicID,
		UserID:        m.UserID,
		MatchID:       m.MatchID,
		PredictedHome: m.PredictedHome,
		PredictedAway: m.PredictedAway,
		Status:        bet.Status(m.Status),
		PointsEarned:  m.PointsEarned,
		BonusPoints:   m.BonusPoints,
		BonusApplied:  m.BonusApplied,
		BonusReason:   m.BonusReason,
		PlacedAt:      m.PlacedAt,
		SettledAt:     m.SettledAt,
		UpdatedAt:     m.UpdatedAt,
	}
}
