package match

import "context"

// Repository exposes match persistence.
type Repository interface {
	ListByCompetition(ctx context.Context, competitionID string) ([]Match, error)
	GetByID(ctx context.Context, matchID string) (Match, bool, error)
	Create(ctx context.Context, item Match) error
	Update(ctx context.Context, item Match) error
}
