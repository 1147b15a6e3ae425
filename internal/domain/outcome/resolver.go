package outcome

import (
	"github.com/cockroachdb/errors"
)

var (
	ErrInconsistentScore = errors.New("inconsistent score")
	// ErrDrawNotAllowed is marked as ErrInconsistentScore so callers treating it as an
	// administrative exception can match either.
	ErrDrawNotAllowed = errors.Mark(errors.New("draw not allowed"), ErrInconsistentScore)
)

type Side string

const (
	SideNone Side = ""
	SideHome Side = "home"
	SideAway Side = "away"
)

// ScoreSet is the full scoreline of a match. Extra-time and penalty scores are nil
// when that stage was not played. The Reached flags carry the stage the match got to,
// independent of which sub-scores were recorded.
type ScoreSet struct {
	Home             int
	Away             int
	ExtraTimeHome    *int
	ExtraTimeAway    *int
	PenaltyHome      *int
	PenaltyAway      *int
	ReachedExtraTime bool
	ReachedPenalties bool
}

func (s ScoreSet) HomeTotal() int {
	return s.Home + deref(s.ExtraTimeHome)
}

func (s ScoreSet) AwayTotal() int {
	return s.Away + deref(s.ExtraTimeAway)
}

func (s ScoreSet) hasPenalties() bool {
	return s.PenaltyHome != nil && s.PenaltyAway != nil
}

// Outcome is the winner/draw determination of a scoreline.
type Outcome struct {
	Winner Side
	IsDraw bool
}

func (o Outcome) String() string {
	switch {
	case o.IsDraw:
		return "draw"
	case o.Winner == SideHome:
		return "home"
	case o.Winner == SideAway:
		return "away"
	default:
		return "unknown"
	}
}

var (
	HomeWin = Outcome{Winner: SideHome}
	AwayWin = Outcome{Winner: SideAway}
	Draw    = Outcome{IsDraw: true}
)

// Resolve derives the outcome of a scoreline. Penalties decide first, then regular
// plus extra-time totals. A tie is a draw unless the match went beyond regulation.
func Resolve(scores ScoreSet) (Outcome, error) {
	if err := validate(scores); err != nil {
		return Outcome{}, err
	}

	homeTotal, awayTotal := scores.HomeTotal(), scores.AwayTotal()

	if scores.hasPenalties() {
		switch {
		case *scores.PenaltyHome > *scores.PenaltyAway:
			return HomeWin, nil
		case *scores.PenaltyAway > *scores.PenaltyHome:
			return AwayWin, nil
		default:
			return Outcome{}, errors.Wrapf(ErrInconsistentScore, "equal penalty score %d-%d", *scores.PenaltyHome, *scores.PenaltyAway)
		}
	}

	switch {
	case homeTotal > awayTotal:
		return HomeWin, nil
	case awayTotal > homeTotal:
		return AwayWin, nil
	}

	if scores.ReachedPenalties || scores.ReachedExtraTime {
		return Outcome{}, errors.Wrapf(ErrInconsistentScore, "tied %d-%d after extra time without a penalty score", homeTotal, awayTotal)
	}
	return Draw, nil
}

// ResolveWithPolicy resolves the scoreline and rejects draws when the season does not
// allow them.
func ResolveWithPolicy(scores ScoreSet, allowDraws bool) (Outcome, error) {
	result, err := Resolve(scores)
	if err != nil {
		return Outcome{}, err
	}
	if result.IsDraw && !allowDraws {
		return Outcome{}, errors.Wrapf(ErrDrawNotAllowed, "tied %d-%d", scores.HomeTotal(), scores.AwayTotal())
	}
	return result, nil
}

// Predicted is the outcome implied by a bare predicted scoreline.
func Predicted(home, away int) Outcome {
	switch {
	case home > away:
		return HomeWin
	case away > home:
		return AwayWin
	default:
		return Draw
	}
}

func validate(scores ScoreSet) error {
	values := []struct {
		name  string
		value *int
	}{
		{"home", &scores.Home},
		{"away", &scores.Away},
		{"extra time home", scores.ExtraTimeHome},
		{"extra time away", scores.ExtraTimeAway},
		{"penalty home", scores.PenaltyHome},
		{"penalty away", scores.PenaltyAway},
	}
	for _, v := range values {
		if v.value != nil && *v.value < 0 {
			return errors.Wrapf(ErrInconsistentScore, "negative %s score %d", v.name, *v.value)
		}
	}
	if (scores.PenaltyHome == nil) != (scores.PenaltyAway == nil) {
		return errors.Wrap(ErrInconsistentScore, "penalty score recorded for one side only")
	}
	if scores.ReachedPenalties && !scores.hasPenalties() && scores.HomeTotal() != scores.AwayTotal() {
		return errors.Wrap(ErrInconsistentScore, "penalty stage reached with unequal totals")
	}
	return nil
}

func deref(v *int) int {
	if v == nil {
		return 0
	}
	return *v
}
