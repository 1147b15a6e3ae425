package cache

import (
	"context"

	"github.com/riskibarqy/prediction-league/internal/domain/season"
	basecache "github.com/riskibarqy/prediction-league/internal/platform/cache"
)

const seasonKeyPrefix = "season:"

// SeasonRepository caches season reads. Writes go through and drop every
// cached season entry.
type SeasonRepository struct {
	next  season.Repository
	cache *basecache.Store
}

func NewSeasonRepository(next season.Repository, cache *basecache.Store) *SeasonRepository {
	return &SeasonRepository{next: next, cache: cache}
}

func (r *SeasonRepository) List(ctx context.Context) ([]season.Season, error) {
	items, err := basecache.Load(ctx, r.cache, seasonKeyPrefix+"list", func(ctx context.Context) ([]season.Season, error) {
		items, err := r.next.List(ctx)
		if err != nil {
			return nil, err
		}
		return append([]season.Season(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}
	return append([]season.Season(nil), items...), nil
}

func (r *SeasonRepository) GetByID(ctx context.Context, seasonID string) (season.Season, bool, error) {
	cached, err := basecache.Load(ctx, r.cache, seasonKeyPrefix+"id:"+seasonID, func(ctx context.Context) (lookup[season.Season], error) {
		item, exists, err := r.next.GetByID(ctx, seasonID)
		if err != nil {
			return lookup[season.Season]{}, err
		}
		return lookup[season.Season]{value: item, exists: exists}, nil
	})
	if err != nil {
		return season.Season{}, false, err
	}
	return cached.value, cached.exists, nil
}

func (r *SeasonRepository) Create(ctx context.Context, item season.Season) error {
	if err := r.next.Create(ctx, item); err != nil {
		return err
	}
	r.cache.DeletePrefix(ctx, seasonKeyPrefix)
	return nil
}

func (r *SeasonRepository) Update(ctx context.Context, item season.Season) error {
	if err := r.next.Update(ctx, item); err != nil {
		return err
	}
	r.cache.DeletePrefix(ctx, seasonKeyPrefix)
	return nil
}

type lookup[T any] struct {
	value  T
	exists bool
}
