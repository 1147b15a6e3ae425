package memory

import (
	"context"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/riskibarqy/prediction-league/internal/domain/competition"
)

type CompetitionRepository struct {
	mu     sync.RWMutex
	items  map[string]competition.Competition
	orders []string
}

func NewCompetitionRepository(competitions []competition.Competition) *CompetitionRepository {
	items := make(map[string]competition.Competition, len(competitions))
	orders := make([]string, 0, len(competitions))
	for _, item := range competitions {
		items[item.ID] = item
		orders = append(orders, item.ID)
	}

	return &CompetitionRepository{items: items, orders: orders}
}

func (r *CompetitionRepository) ListBySeason(_ context.Context, seasonID string) ([]competition.Competition, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]competition.Competition, 0)
	for _, id := range r.orders {
		if item := r.items[id]; item.SeasonID == seasonID {
			out = append(out, item)
		}
	}
	return out, nil
}

func (r *CompetitionRepository) GetByID(_ context.Context, competitionID string) (competition.Competition, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.items[competitionID]
	return item, ok, nil
}

func (r *CompetitionRepository) Create(_ context.Context, item competition.Competition) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[item.ID]; ok {
		return errors.Newf("competition %s already exists", item.ID)
	}
	r.items[item.ID] = item
	r.orders = append(r.orders, item.ID)
	return nil
}

func (r *CompetitionRepository) Update(_ context.Context, item competition.Competition) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[item.ID]; !ok {
		return errors.Newf("competition %s not found", item.ID)
	}
	r.items[item.ID] = item
	return nil
}
