package result

import (
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/riskibarqy/prediction-league/internal/domain/lifecycle"
	"github.com/riskibarqy/prediction-league/internal/domain/match"
	"github.com/riskibarqy/prediction-league/internal/domain/outcome"
)

// ErrTerminal is returned when a write would replace a final, abandoned or cancelled result.
var ErrTerminal = errors.New("result is terminal")

type Status string

const (
	StatusScheduled  Status = "scheduled"
	StatusLive       Status = "live"
	StatusHalfTime   Status = "half_time"
	StatusSecondHalf Status = "second_half"
	StatusExtraTime  Status = "extra_time"
	StatusPenalties  Status = "penalties"
	StatusFinal      Status = "final"
	StatusAbandoned  Status = "abandoned"
	StatusPostponed  Status = "postponed"
	StatusCancelled  Status = "cancelled"
)

var Transitions = lifecycle.Table[Status]{
	StatusScheduled:  {StatusLive, StatusPostponed, StatusCancelled, StatusFinal, StatusAbandoned},
	StatusPostponed:  {StatusScheduled, StatusCancelled},
	StatusLive:       {StatusHalfTime, StatusExtraTime, StatusPenalties, StatusFinal, StatusAbandoned},
	StatusHalfTime:   {StatusSecondHalf, StatusAbandoned},
	StatusSecondHalf: {StatusExtraTime, StatusPenalties, StatusFinal, StatusAbandoned},
	StatusExtraTime:  {StatusPenalties, StatusFinal, StatusAbandoned},
	StatusPenalties:  {StatusFinal, StatusAbandoned},
	StatusFinal:      nil,
	StatusAbandoned:  nil,
	StatusCancelled:  nil,
}

func ParseStatus(value string) (Status, error) {
	status := Status(strings.ToLower(strings.TrimSpace(value)))
	if !Transitions.Known(status) {
		return "", errors.Newf("unknown result status %q", value)
	}
	return status, nil
}

// Result is the official scoreline companion of a match.
type Result struct {
	ID            string
	MatchID       string
	Status        Status
	HomeScore     int
	AwayScore     int
	ExtraTimeHome *int
	ExtraTimeAway *int
	PenaltyHome   *int
	PenaltyAway   *int
	IsOfficial    bool
	VerifiedBy    string
	FinalizedAt   *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (r Result) IsFinal() bool {
	return r.Status == StatusFinal
}

// IsVoid reports whether the match will never produce a scoreline.
func (r Result) IsVoid() bool {
	return r.Status == StatusAbandoned || r.Status == StatusCancelled
}

func (r Result) ScoreSet() outcome.ScoreSet {
	reachedPenalties := r.Status == StatusPenalties || r.PenaltyHome != nil || r.PenaltyAway != nil
	reachedExtraTime := reachedPenalties || r.Status == StatusExtraTime || r.ExtraTimeHome != nil || r.ExtraTimeAway != nil
	return outcome.ScoreSet{
		Home:             r.HomeScore,
		Away:             r.AwayScore,
		ExtraTimeHome:    r.ExtraTimeHome,
		ExtraTimeAway:    r.ExtraTimeAway,
		PenaltyHome:      r.PenaltyHome,
		PenaltyAway:      r.PenaltyAway,
		ReachedExtraTime: reachedExtraTime,
		ReachedPenalties: reachedPenalties,
	}
}

// FinalScoreline is the scoreline predictions are compared against: regulation plus
// extra time, penalties excluded.
func (r Result) FinalScoreline() (int, int) {
	scores := r.ScoreSet()
	return scores.HomeTotal(), scores.AwayTotal()
}

func (r Result) transition(next Status, now time.Time) (Result, error) {
	if err := Transitions.Check(r.Status, next); err != nil {
		return r, errors.Wrapf(err, "result of match %s", r.MatchID)
	}
	r.Status = next
	r.UpdatedAt = now
	return r, nil
}

// Finalize records the official scoreline. It fails when the scoreline does not
// resolve under the season's draw policy.
func (r Result) Finalize(scores match.Scores, verifiedBy string, allowDraws bool, now time.Time) (Result, error) {
	if err := Transitions.Check(r.Status, StatusFinal); err != nil {
		return r, errors.Wrapf(err, "result of match %s", r.MatchID)
	}

	candidate := r.withScores(scores)
	if _, err := outcome.ResolveWithPolicy(candidate.ScoreSet(), allowDraws); err != nil {
		return r, errors.Wrapf(err, "result of match %s", r.MatchID)
	}

	candidate.Status = StatusFinal
	candidate.IsOfficial = true
	candidate.VerifiedBy = strings.TrimSpace(verifiedBy)
	finalized := now
	candidate.FinalizedAt = &finalized
	candidate.UpdatedAt = now
	return candidate, nil
}

func (r Result) Abandon(now time.Time) (Result, error) {
	return r.transition(StatusAbandoned, now)
}

// Sync follows the match through its live stages, copying the running score.
// Stages the table cannot reach from the stored status are ignored.
func (r Result) Sync(m match.Match, now time.Time) Result {
	target, ok := statusForMatch(r.Status, m.Status)
	if !ok || m.Status == match.StatusFinished {
		return r
	}
	if target != r.Status {
		path := Transitions.Path(r.Status, target)
		if len(path) == 0 {
			return r
		}
		r.Status = target
	}
	r = r.withScores(m.Scores())
	r.UpdatedAt = now
	return r
}

func statusForMatch(current Status, status match.Status) (Status, bool) {
	switch status {
	case match.StatusScheduled:
		return StatusScheduled, true
	case match.StatusPostponed:
		return StatusPostponed, true
	case match.StatusCancelled:
		return StatusCancelled, true
	case match.StatusLive:
		if current == StatusHalfTime || current == StatusSecondHalf {
			return StatusSecondHalf, true
		}
		return StatusLive, true
	case match.StatusHalftime:
		return StatusHalfTime, true
	case match.StatusExtraTime:
		return StatusExtraTime, true
	case match.StatusPenalties:
		return StatusPenalties, true
	case match.StatusFinished:
		return StatusFinal, true
	default:
		return "", false
	}
}

func (r Result) withScores(scores match.Scores) Result {
	r.HomeScore = scores.Home
	r.AwayScore = scores.Away
	r.ExtraTimeHome = scores.ExtraTimeHome
	r.ExtraTimeAway = scores.ExtraTimeAway
	r.PenaltyHome = scores.PenaltyHome
	r.PenaltyAway = scores.PenaltyAway
	return r
}

func (r Result) Scores() match.Scores {
	return match.Scores{
		Home:          r.HomeScore,
		Away:          r.AwayScore,
		ExtraTimeHome: r.ExtraTimeHome,
		ExtraTimeAway: r.ExtraTimeAway,
		PenaltyHome:   r.PenaltyHome,
		PenaltyAway:   r.PenaltyAway,
	}
}

// New creates the scheduled companion result of a match.
func New(id string, m match.Match, now time.Time) Result {
	return Result{
		ID:        id,
		MatchID:   m.ID,
		Status:    StatusScheduled,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// FromMatch synthesises a result for a match that finished without a result record,
// or reports the void status of a cancelled one.
func FromMatch(m match.Match) (Result, bool) {
	switch m.Status {
	case match.StatusFinished:
		out := Result{
			MatchID:     m.ID,
			Status:      StatusFinal,
			IsOfficial:  true,
			FinalizedAt: m.FinishedAt,
		}
		return out.withScores(m.Scores()), true
	case match.StatusCancelled:
		return Result{MatchID: m.ID, Status: StatusCancelled}, true
	default:
		return Result{}, false
	}
}
