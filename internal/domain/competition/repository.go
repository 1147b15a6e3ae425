package competition

import "context"

type Repository interface {
	ListBySeason(ctx context.Context, seasonID string) ([]Competition, error)
	GetByID(ctx context.Context, competitionID string) (Competition, bool, error)
	Create(ctx context.Context, item Competition) error
	Update(ctx context.Context, item Competition) error
}
