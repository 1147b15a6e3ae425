package cache

import (
	"context"

	"github.com/riskibarqy/prediction-league/internal/domain/team"
	basecache "github.com/riskibarqy/prediction-league/internal/platform/cache"
)

const teamKeyPrefix = "team:"

type TeamRepository struct {
	next  team.Repository
	cache *basecache.Store
}

func NewTeamRepository(next team.Repository, cache *basecache.Store) *TeamRepository {
	return &TeamRepository{next: next, cache: cache}
}

func (r *TeamRepository) ListBySport(ctx context.Context, sportID string) ([]team.Team, error) {
	items, err := basecache.Load(ctx, r.cache, teamKeyPrefix+"sport:"+sportID, func(ctx context.Context) ([]team.Team, error) {
		items, err := r.next.ListBySport(ctx, sportID)
		if err != nil {
			return nil, err
		}
		return append([]team.Team(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}
	return append([]team.Team(nil), items...), nil
}

func (r *TeamRepository) GetByID(ctx context.Context, teamID string) (team.Team, bool, error) {
	cached, err := basecache.Load(ctx, r.cache, teamKeyPrefix+"id:"+teamID, func(ctx context.Context) (lookup[team.Team], error) {
		item, exists, err := r.next.GetByID(ctx, teamID)
		if err != nil {
			return lookup[team.Team]{}, err
		}
		return lookup[team.Team]{value: item, exists: exists}, nil
	})
	if err != nil {
		return team.Team{}, false, err
	}
	return cached.value, cached.exists, nil
}

func (r *TeamRepository) Create(ctx context.Context, item team.Team) error {
	if err := r.next.Create(ctx, item); err != nil {
		return err
	}
	r.cache.Delete(ctx, teamKeyPrefix+"sport:"+item.SportID, teamKeyPrefix+"id:"+item.ID)
	return nil
}
