package memory

import (
	"context"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/riskibarqy/prediction-league/internal/domain/team"
)

type TeamRepository struct {
	mu     sync.RWMutex
	items  map[string]team.Team
	orders []string
}

func NewTeamRepository(teams []team.Team) *TeamRepository {
	items := make(map[string]team.Team, len(teams))
	orders := make([]string, 0, len(teams))
	for _, item := range teams {
		items[item.ID] = item
		orders = append(orders, item.ID)
	}

	return &TeamRepository{items: items, orders: orders}
}

func (r *TeamRepository) ListBySport(_ context.Context, sportID string) ([]team.Team, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]team.Team, 0)
	for _, id := range r.orders {
		if item := r.items[id]; item.SportID == sportID {
			out = append(out, item)
		}
	}
	return out, nil
}

func (r *TeamRepository) GetByID(_ context.Context, teamID string) (team.Team, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.items[teamID]
	return item, ok, nil
}

func (r *TeamRepository) Create(_ context.Context, item team.Team) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[item.ID]; ok {
		return errors.Newf("team %s already exists", item.ID)
	}
	r.items[item.ID] = item
	r.orders = append(r.orders, item.ID)
	return nil
}
