package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/riskibarqy/prediction-league/internal/domain/bet"
)

type BetRepository struct {
	mu    sync.RWMutex
	items map[string]bet.Bet
	// byUserMatch enforces one prediction per user and match.
	byUserMatch map[string]string
}

func NewBetRepository(bets []bet.Bet) *BetRepository {
	r := &BetRepository{
		items:       make(map[string]bet.Bet, len(bets)),
		byUserMatch: make(map[string]string, len(bets)),
	}
	for _, item := range bets {
		r.items[item.ID] = item
		r.byUserMatch[userMatchKey(item.UserID, item.MatchID)] = item.ID
	}
	return r
}

func userMatchKey(userID, matchID string) string {
	return userID + "\x00" + matchID
}

func (r *BetRepository) GetByID(_ context.Context, betID string) (bet.Bet, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.items[betID]
	return item, ok, nil
}

func (r *BetRepository) ListByMatch(_ context.Context, matchID string) ([]bet.Bet, error) {
	return r.list(func(item bet.Bet) bool { return item.MatchID == matchID }), nil
}

func (r *BetRepository) ListByUser(_ context.Context, userID string) ([]bet.Bet, error) {
	return r.list(func(item bet.Bet) bool { return item.UserID == userID }), nil
}

func (r *BetRepository) list(keep func(bet.Bet) bool) []bet.Bet {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]bet.Bet, 0)
	for _, item := range r.items {
		if keep(item) {
			out = append(out, item)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].PlacedAt.Equal(out[j].PlacedAt) {
			return out[i].PlacedAt.Before(out[j].PlacedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func (r *BetRepository) Create(_ context.Context, item bet.Bet) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := userMatchKey(item.UserID, item.MatchID)
	if _, ok := r.byUserMatch[key]; ok {
		return errors.Wrapf(bet.ErrDuplicateBet, "user=%s match=%s", item.UserID, item.MatchID)
	}
	if _, ok := r.items[item.ID]; ok {
		return errors.Newf("bet %s already exists", item.ID)
	}
	r.items[item.ID] = item
	r.byUserMatch[key] = item.ID
	return nil
}

func (r *BetRepository) Settle(_ context.Context, item bet.Bet) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.items[item.ID]
	if !ok {
		return errors.Newf("bet %s not found", item.ID)
	}
	if !current.Status.Unsettled() {
		return errors.Wrapf(bet.ErrAlreadySettled, "bet %s is %s", item.ID, current.Status)
	}
	current.Status = item.Status
	current.PointsEarned = item.PointsEarned
	current.SettledAt = item.SettledAt
	current.UpdatedAt = item.UpdatedAt
	r.items[item.ID] = current
	return nil
}

func (r *BetRepository) SaveBonus(_ context.Context, item bet.Bet) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.items[item.ID]
	if !ok {
		return errors.Newf("bet %s not found", item.ID)
	}
	if current.BonusApplied {
		return errors.Wrapf(bet.ErrBonusAlreadyApplied, "bet %s", item.ID)
	}
	current.BonusPoints = item.BonusPoints
	current.BonusApplied = true
	current.BonusReason = item.BonusReason
	current.UpdatedAt = item.UpdatedAt
	r.items[item.ID] = current
	return nil
}

func (r *BetRepository) Update(_ context.Context, item bet.Bet) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.items[item.ID]
	if !ok {
		return errors.Newf("bet %s not found", item.ID)
	}
	if current.UserID != item.UserID || current.MatchID != item.MatchID {
		return errors.Newf("bet %s cannot change user or match", item.ID)
	}
	r.items[item.ID] = item
	return nil
}
