package memory

import (
	"context"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/riskibarqy/prediction-league/internal/domain/result"
)

type ResultRepository struct {
	mu      sync.RWMutex
	byMatch map[string]result.Result
}

func NewResultRepository(results []result.Result) *ResultRepository {
	byMatch := make(map[string]result.Result, len(results))
	for _, item := range results {
		byMatch[item.MatchID] = item
	}
	return &ResultRepository{byMatch: byMatch}
}

func (r *ResultRepository) GetByMatch(_ context.Context, matchID string) (result.Result, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.byMatch[matchID]
	return item, ok, nil
}

func (r *ResultRepository) Upsert(_ context.Context, item result.Result) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if current, ok := r.byMatch[item.MatchID]; ok {
		if result.Transitions.IsTerminal(current.Status) {
			return errors.Wrapf(result.ErrTerminal, "match %s is %s", item.MatchID, current.Status)
		}
		if item.ID == "" {
			item.ID = current.ID
		}
	}
	r.byMatch[item.MatchID] = item
	return nil
}
