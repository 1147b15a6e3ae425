package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/riskibarqy/prediction-league/internal/domain/match"
)

type MatchRepository struct {
	mu    sync.RWMutex
	items map[string]match.Match
	// byCompetition keeps insertion order per competition.
	byCompetition map[string][]string
}

func NewMatchRepository(matches []match.Match) *MatchRepository {
	r := &MatchRepository{
		items:         make(map[string]match.Match, len(matches)),
		byCompetition: make(map[string][]string),
	}
	for _, item := range matches {
		r.items[item.ID] = item
		r.byCompetition[item.CompetitionID] = append(r.byCompetition[item.CompetitionID], item.ID)
	}
	return r
}

// ListByCompetition returns matches ordered by kickoff.
func (r *MatchRepository) ListByCompetition(_ context.Context, competitionID string) ([]match.Match, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := r.byCompetition[competitionID]
	out := make([]match.Match, 0, len(ids))
	for _, id := range ids {
		out = append(out, r.items[id])
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].ScheduledAt.Before(out[j].ScheduledAt) })
	return out, nil
}

func (r *MatchRepository) GetByID(_ context.Context, matchID string) (match.Match, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.items[matchID]
	return item, ok, nil
}

func (r *MatchRepository) Create(_ context.Context, item match.Match) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[item.ID]; ok {
		return errors.Newf("match %s already exists", item.ID)
	}
	r.items[item.ID] = item
	r.byCompetition[item.CompetitionID] = append(r.byCompetition[item.CompetitionID], item.ID)
	return nil
}

func (r *MatchRepository) Update(_ context.Context, item match.Match) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.items[item.ID]
	if !ok {
		return errors.Newf("match %s not found", item.ID)
	}
	if current.CompetitionID != item.CompetitionID {
		return errors.Newf("match %s cannot move between competitions", item.ID)
	}
	r.items[item.ID] = item
	return nil
}
