package bet

import (
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/riskibarqy/prediction-league/internal/domain/lifecycle"
	"github.com/riskibarqy/prediction-league/internal/domain/match"
	"github.com/riskibarqy/prediction-league/internal/domain/outcome"
)

var (
	ErrAlreadySettled      = errors.New("bet already settled")
	ErrBonusAlreadyApplied = errors.New("bonus already applied")
	ErrBettingClosed       = errors.New("betting closed")
	ErrDuplicateBet        = errors.New("duplicate bet")
	ErrInvalidPrediction   = errors.New("invalid prediction")
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusActive    Status = "active"
	StatusWon       Status = "won"
	StatusLost      Status = "lost"
	StatusVoid      Status = "void"
	StatusCancelled Status = "cancelled"
	// StatusSettled is kept for records written before won/lost existed.
	StatusSettled Status = "settled"
)

var Transitions = lifecycle.Table[Status]{
	StatusPending:   {StatusActive, StatusWon, StatusLost, StatusVoid, StatusCancelled},
	StatusActive:    {StatusWon, StatusLost, StatusVoid, StatusCancelled},
	StatusWon:       {StatusSettled, StatusVoid},
	StatusLost:      {StatusSettled, StatusVoid},
	StatusSettled:   {StatusVoid},
	StatusVoid:      nil,
	StatusCancelled: nil,
}

func ParseStatus(value string) (Status, error) {
	status := Status(strings.ToLower(strings.TrimSpace(value)))
	if !Transitions.Known(status) {
		return "", errors.Newf("unknown bet status %q", value)
	}
	return status, nil
}

// Unsettled reports whether settlement may still write the bet.
func (s Status) Unsettled() bool {
	return s == StatusPending || s == StatusActive
}

// Bet is a user's scoreline prediction for one match.
type Bet struct {
	ID            string
	UserID        string
	MatchID       string
	PredictedHome int
	PredictedAway int
	Status        Status
	PointsEarned  int
	BonusPoints   int
	BonusApplied  bool
	BonusReason   string
	PlacedAt      time.Time
	SettledAt     *time.Time
	UpdatedAt     time.Time
}

// New places a prediction. It is rejected once the match's betting cutoff passed.
func New(id, userID string, m match.Match, home, away int, now time.Time) (Bet, error) {
	if home < 0 || away < 0 {
		return Bet{}, errors.Wrapf(ErrInvalidPrediction, "negative scoreline %d-%d", home, away)
	}
	if !m.BettingOpen(now) {
		return Bet{}, errors.Wrapf(ErrBettingClosed, "match %s closed at %s", m.ID, m.BettingClosesAt.Format(time.RFC3339))
	}

	item := Bet{
		ID:            id,
		UserID:        strings.TrimSpace(userID),
		MatchID:       m.ID,
		PredictedHome: home,
		PredictedAway: away,
		Status:        StatusPending,
		PlacedAt:      now,
		UpdatedAt:     now,
	}
	if err := item.Validate(); err != nil {
		return Bet{}, err
	}
	return item, nil
}

func (b Bet) Validate() error {
	if strings.TrimSpace(b.ID) == "" {
		return errors.Wrap(ErrInvalidPrediction, "bet id is required")
	}
	if b.UserID == "" {
		return errors.Wrap(ErrInvalidPrediction, "bet user id is required")
	}
	if strings.TrimSpace(b.MatchID) == "" {
		return errors.Wrap(ErrInvalidPrediction, "bet match id is required")
	}
	if b.PredictedHome < 0 || b.PredictedAway < 0 {
		return errors.Wrapf(ErrInvalidPrediction, "negative scoreline %d-%d", b.PredictedHome, b.PredictedAway)
	}
	return nil
}

func (b Bet) PredictedOutcome() outcome.Outcome {
	return outcome.Predicted(b.PredictedHome, b.PredictedAway)
}

// IsSettled reports whether the bet left the unsettled states. Cancelled bets count as
// settled because nothing may score them anymore.
func (b Bet) IsSettled() bool {
	return !b.Status.Unsettled()
}

// TotalPoints is the settled points plus any applied bonus.
func (b Bet) TotalPoints() int {
	return b.PointsEarned + b.BonusPoints
}

func (b Bet) transition(next Status, now time.Time) (Bet, error) {
	if err := Transitions.Check(b.Status, next); err != nil {
		return b, errors.Wrapf(err, "bet %s", b.ID)
	}
	b.Status = next
	b.UpdatedAt = now
	return b, nil
}

// Activate locks a pending bet once its match kicked off.
func (b Bet) Activate(now time.Time) (Bet, error) {
	if b.Status != StatusPending {
		return b, errors.Wrapf(lifecycle.ErrInvalidTransition, "bet %s: activate requires %s, got %s", b.ID, StatusPending, b.Status)
	}
	return b.transition(StatusActive, now)
}

// Void is the administrative override. Points and bonus are dropped.
func (b Bet) Void(now time.Time) (Bet, error) {
	out, err := b.transition(StatusVoid, now)
	if err != nil {
		return b, err
	}
	out.PointsEarned = 0
	out.BonusPoints = 0
	if out.SettledAt == nil {
		settled := now
		out.SettledAt = &settled
	}
	return out, nil
}

// Cancel withdraws a bet that has not been settled.
func (b Bet) Cancel(now time.Time) (Bet, error) {
	if !b.Status.Unsettled() {
		return b, errors.Wrapf(ErrAlreadySettled, "bet %s is %s", b.ID, b.Status)
	}
	return b.transition(StatusCancelled, now)
}
