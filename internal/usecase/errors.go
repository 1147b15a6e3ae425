package usecase

import "github.com/cockroachdb/errors"

var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrNotFound              = errors.New("resource not found")
	ErrConflict              = errors.New("conflict")
	ErrDependencyUnavailable = errors.New("dependency unavailable")
)

func invalidInput(format string, args ...any) error {
	return errors.Wrapf(ErrInvalidInput, format, args...)
}

func notFound(kind, id string) error {
	return errors.Wrapf(ErrNotFound, "%s=%s", kind, id)
}

// lockUnavailable marks a failed match lock acquisition as a transient condition.
func lockUnavailable(err error, msg string) error {
	return errors.Mark(errors.Wrap(err, msg), ErrDependencyUnavailable)
}
