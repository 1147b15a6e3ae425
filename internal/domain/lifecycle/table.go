package lifecycle

import (
	"github.com/cockroachdb/errors"
)

// ErrInvalidTransition is returned for any move the transition table does not list.
var ErrInvalidTransition = errors.New("invalid status transition")

// Table maps a current status to the statuses it may move to.
// A status with no entry (or an empty entry) is terminal.
type Table[S ~string] map[S][]S

func (t Table[S]) Allows(from, to S) bool {
	for _, next := range t[from] {
		if next == to {
			return true
		}
	}
	return false
}

func (t Table[S]) IsTerminal(status S) bool {
	return len(t[status]) == 0
}

// Check returns ErrInvalidTransition unless from -> to is listed.
func (t Table[S]) Check(from, to S) error {
	if t.Allows(from, to) {
		return nil
	}
	return errors.Wrapf(ErrInvalidTransition, "%s -> %s", from, to)
}

// Known reports whether status appears in the table, either as a source or as a target.
func (t Table[S]) Known(status S) bool {
	if _, ok := t[status]; ok {
		return true
	}
	for _, targets := range t {
		for _, s := range targets {
			if s == status {
				return true
			}
		}
	}
	return false
}

// Path returns the shortest chain of legal moves from -> to, excluding from itself.
// It returns nil when to is unreachable or equal to from.
func (t Table[S]) Path(from, to S) []S {
	if from == to {
		return nil
	}

	prev := map[S]S{from: from}
	queue := []S{from}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		for _, next := range t[current] {
			if _, seen := prev[next]; seen {
				continue
			}
			prev[next] = current
			if next == to {
				var path []S
				for step := to; step != from; step = prev[step] {
					path = append([]S{step}, path...)
				}
				return path
			}
			queue = append(queue, next)
		}
	}
	return nil
}
