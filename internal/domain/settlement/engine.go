package settlement

import (
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/riskibarqy/prediction-league/internal/domain/bet"
	"github.com/riskibarqy/prediction-league/internal/domain/lifecycle"
	"github.com/riskibarqy/prediction-league/internal/domain/match"
	"github.com/riskibarqy/prediction-league/internal/domain/outcome"
	"github.com/riskibarqy/prediction-league/internal/domain/result"
	"github.com/riskibarqy/prediction-league/internal/domain/season"
)

const (
	PointsExactScore     = 3
	PointsCorrectOutcome = 1
)

var (
	// ErrNotFinal is retryable: the result has not reached a terminal status yet.
	ErrNotFinal       = errors.New("result not final")
	ErrInvalidBonus   = errors.New("invalid bonus")
	ErrScoresMismatch = errors.Mark(errors.New("result and match scores disagree"), outcome.ErrInconsistentScore)
)

// Points scores a predicted scoreline against the final one and its resolved outcome.
func Points(predictedHome, predictedAway, finalHome, finalAway int, actual outcome.Outcome) int {
	if predictedHome == finalHome && predictedAway == finalAway {
		return PointsExactScore
	}
	if outcome.Predicted(predictedHome, predictedAway) == actual {
		return PointsCorrectOutcome
	}
	return 0
}

// Settle converts a terminal result into the bet's outcome. The returned bet carries
// status, points and settled time together; on error the input bet is returned as is.
func Settle(item bet.Bet, res result.Result, rules season.ScoringRules, now time.Time) (bet.Bet, error) {
	if item.IsSettled() {
		return item, errors.Wrapf(bet.ErrAlreadySettled, "bet %s is %s", item.ID, item.Status)
	}
	if res.MatchID != "" && res.MatchID != item.MatchID {
		return item, errors.Newf("bet %s belongs to match %s, result is for %s", item.ID, item.MatchID, res.MatchID)
	}

	if res.IsVoid() {
		return finalize(item, bet.StatusVoid, 0, now)
	}
	if !res.IsFinal() {
		return item, errors.Wrapf(ErrNotFinal, "match %s result is %s", item.MatchID, res.Status)
	}

	actual, err := outcome.ResolveWithPolicy(res.ScoreSet(), rules.AllowDraws)
	if err != nil {
		return item, errors.Wrapf(err, "settle bet %s", item.ID)
	}

	finalHome, finalAway := res.FinalScoreline()
	points := Points(item.PredictedHome, item.PredictedAway, finalHome, finalAway, actual)
	status := bet.StatusLost
	if points > 0 {
		status = bet.StatusWon
	}
	return finalize(item, status, points, now)
}

func finalize(item bet.Bet, status bet.Status, points int, now time.Time) (bet.Bet, error) {
	if err := bet.Transitions.Check(item.Status, status); err != nil {
		return item, errors.Wrapf(err, "bet %s", item.ID)
	}
	out := item
	out.Status = status
	out.PointsEarned = points
	settled := now
	out.SettledAt = &settled
	out.UpdatedAt = now
	return out, nil
}

// ApplyBonus layers an explicit point adjustment over a settled bet, once per bet.
func ApplyBonus(item bet.Bet, points int, reason string, now time.Time) (bet.Bet, error) {
	if item.BonusApplied {
		return item, errors.Wrapf(bet.ErrBonusAlreadyApplied, "bet %s", item.ID)
	}
	switch item.Status {
	case bet.StatusWon, bet.StatusLost, bet.StatusSettled:
	default:
		return item, errors.Wrapf(lifecycle.ErrInvalidTransition, "bet %s: bonus requires a won or lost bet, got %s", item.ID, item.Status)
	}
	if points == 0 {
		return item, errors.Wrap(ErrInvalidBonus, "bonus points must not be zero")
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return item, errors.Wrap(ErrInvalidBonus, "bonus reason is required")
	}

	out := item
	out.BonusPoints = points
	out.BonusApplied = true
	out.BonusReason = reason
	out.UpdatedAt = now
	return out, nil
}

// Effective reconciles a match with its result record and returns the result that
// settlement should use. A stored terminal result wins; a finished or cancelled match
// without one yields a synthesised result. When both are final their scorelines must
// agree.
func Effective(m match.Match, stored *result.Result) (result.Result, error) {
	if stored != nil && (stored.IsFinal() || stored.IsVoid()) {
		if stored.IsFinal() && m.IsFinished() && !sameScoreline(m.ScoreSet(), stored.ScoreSet()) {
			return result.Result{}, errors.Wrapf(ErrScoresMismatch, "match %s", m.ID)
		}
		return *stored, nil
	}
	if synthesised, ok := result.FromMatch(m); ok {
		if stored != nil {
			synthesised.ID = stored.ID
		}
		return synthesised, nil
	}
	status := m.Status
	if stored != nil {
		return result.Result{}, errors.Wrapf(ErrNotFinal, "match %s is %s, result is %s", m.ID, status, stored.Status)
	}
	return result.Result{}, errors.Wrapf(ErrNotFinal, "match %s is %s", m.ID, status)
}

func sameScoreline(a, b outcome.ScoreSet) bool {
	return a.HomeTotal() == b.HomeTotal() &&
		a.AwayTotal() == b.AwayTotal() &&
		equalPtr(a.PenaltyHome, b.PenaltyHome) &&
		equalPtr(a.PenaltyAway, b.PenaltyAway)
}

func equalPtr(a, b *int) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
