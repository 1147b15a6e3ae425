package team

import "context"

// Repository describes team persistence needs from use cases.
type Repository interface {
	ListBySport(ctx context.Context, sportID string) ([]Team, error)
	GetByID(ctx context.Context, teamID string) (Team, bool, error)
	Create(ctx context.Context, item Team) error
}
