package bet

import "context"

// Repository describes bet persistence needs from use cases.
type Repository interface {
	GetByID(ctx context.Context, betID string) (Bet, bool, error)
	ListByMatch(ctx context.Context, matchID string) ([]Bet, error)
	ListByUser(ctx context.Context, userID string) ([]Bet, error)
	// Create returns ErrDuplicateBet when the user already predicted the match.
	Create(ctx context.Context, item Bet) error
	// Settle writes status, points and settled_at only while the stored bet is still
	// pending or active, and returns ErrAlreadySettled otherwise.
	Settle(ctx context.Context, item Bet) error
	// SaveBonus writes the bonus only while it was not applied, and returns
	// ErrBonusAlreadyApplied otherwise.
	SaveBonus(ctx context.Context, item Bet) error
	Update(ctx context.Context, item Bet) error
}
