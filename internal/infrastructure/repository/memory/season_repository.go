package memory

import (
	"context"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/riskibarqy/prediction-league/internal/domain/season"
)

type SeasonRepository struct {
	mu     sync.RWMutex
	items  map[string]season.Season
	orders []string
}

func NewSeasonRepository(seasons []season.Season) *SeasonRepository {
	items := make(map[string]season.Season, len(seasons))
	orders := make([]string, 0, len(seasons))
	for _, item := range seasons {
		items[item.ID] = item
		orders = append(orders, item.ID)
	}

	return &SeasonRepository{items: items, orders: orders}
}

func (r *SeasonRepository) List(_ context.Context) ([]season.Season, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]season.Season, 0, len(r.orders))
	for _, id := range r.orders {
		out = append(out, r.items[id])
	}
	return out, nil
}

func (r *SeasonRepository) GetByID(_ context.Context, seasonID string) (season.Season, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.items[seasonID]
	return item, ok, nil
}

func (r *SeasonRepository) Create(_ context.Context, item season.Season) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[item.ID]; ok {
		return errors.Newf("season %s already exists", item.ID)
	}
	r.items[item.ID] = item
	r.orders = append(r.orders, item.ID)
	return nil
}

func (r *SeasonRepository) Update(_ context.Context, item season.Season) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[item.ID]; !ok {
		return errors.Newf("season %s not found", item.ID)
	}
	r.items[item.ID] = item
	return nil
}
