package result

import "context"

// Repository stores the one-to-one result record of each match.
type Repository interface {
	GetByMatch(ctx context.Context, matchID string) (Result, bool, error)
	Upsert(ctx context.Context, item Result) error
}
