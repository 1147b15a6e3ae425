package usecase

import (
	"context"
	"sort"

	"github.com/cockroachdb/errors"
	"github.com/riskibarqy/prediction-league/internal/domain/bet"
	"github.com/riskibarqy/prediction-league/internal/domain/competition"
	"github.com/riskibarqy/prediction-league/internal/domain/match"
	"github.com/riskibarqy/prediction-league/internal/domain/season"
	"github.com/riskibarqy/prediction-league/internal/domain/settlement"
	"github.com/sourcegraph/conc/pool"
	"go.opentelemetry.io/otel/attribute"
)

// LeaderboardEntry is one predictor's season total.
type LeaderboardEntry struct {
	Position       int    `json:"position"`
	UserID         string `json:"user_id"`
	Points         int    `json:"points"`
	BonusPoints    int    `json:"bonus_points"`
	ExactHits      int    `json:"exact_hits"`
	CorrectResults int    `json:"correct_results"`
	Settled        int    `json:"settled"`
}

type LeaderboardService struct {
	seasonRepo      season.Repository
	competitionRepo competition.Repository
	matchRepo       match.Repository
	betRepo         bet.Repository
	fanOut          int
}

func NewLeaderboardService(
	seasonRepo season.Repository,
	competitionRepo competition.Repository,
	matchRepo match.Repository,
	betRepo bet.Repository,
) *LeaderboardService {
	return &LeaderboardService{
		seasonRepo:      seasonRepo,
		competitionRepo: competitionRepo,
		matchRepo:       matchRepo,
		betRepo:         betRepo,
		fanOut:          defaultFanOut,
	}
}

// BySeason ranks users by settled points plus bonus, then by exact hits. Users level on
// both keep user id order.
func (s *LeaderboardService) BySeason(ctx context.Context, seasonID string) ([]LeaderboardEntry, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeaderboardService.BySeason", attribute.String("season_id", seasonID))
	defer span.End()

	item, err := getSeason(ctx, s.seasonRepo, seasonID)
	if err != nil {
		return nil, err
	}
	competitions, err := s.competitionRepo.ListBySeason(ctx, item.ID)
	if err != nil {
		return nil, errors.Wrap(err, "list competitions by season")
	}
	matches, err := loadMatches(ctx, s.matchRepo, competitions, s.fanOut)
	if err != nil {
		recordSpanError(span, err)
		return nil, err
	}

	p := pool.NewWithResults[[]bet.Bet]().
		WithContext(ctx).
		WithCancelOnError().
		WithMaxGoroutines(max(s.fanOut, 1))
	for _, m := range matches {
		if !m.IsFinished() {
			continue
		}
		matchID := m.ID
		p.Go(func(ctx context.Context) ([]bet.Bet, error) {
			items, err := s.betRepo.ListByMatch(ctx, matchID)
			if err != nil {
				return nil, errors.Wrapf(err, "list bets of match %s", matchID)
			}
			return items, nil
		})
	}
	batches, err := p.Wait()
	if err != nil {
		recordSpanError(span, err)
		return nil, err
	}

	totals := make(map[string]*LeaderboardEntry)
	for _, items := range batches {
		for _, item := range items {
			if !countsForLeaderboard(item.Status) {
				continue
			}
			entry, ok := totals[item.UserID]
			if !ok {
				entry = &LeaderboardEntry{UserID: item.UserID}
				totals[item.UserID] = entry
			}
			entry.Points += item.TotalPoints()
			entry.BonusPoints += item.BonusPoints
			entry.Settled++
			switch item.PointsEarned {
			case settlement.PointsExactScore:
				entry.ExactHits++
				entry.CorrectResults++
			case settlement.PointsCorrectOutcome:
				entry.CorrectResults++
			}
		}
	}

	return rankLeaderboard(totals), nil
}

func countsForLeaderboard(status bet.Status) bool {
	switch status {
	case bet.StatusWon, bet.StatusLost, bet.StatusSettled:
		return true
	default:
		return false
	}
}

func rankLeaderboard(totals map[string]*LeaderboardEntry) []LeaderboardEntry {
	out := make([]LeaderboardEntry, 0, len(totals))
	for _, entry := range totals {
		out = append(out, *entry)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UserID < out[j].UserID })
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Points != out[j].Points {
			return out[i].Points > out[j].Points
		}
		return out[i].ExactHits > out[j].ExactHits
	})
	for i := range out {
		out[i].Position = i + 1
	}
	return out
}
