package usecase

import (
	"context"
	"sort"

	"github.com/cockroachdb/errors"
	"github.com/riskibarqy/prediction-league/internal/domain/competition"
	"github.com/riskibarqy/prediction-league/internal/domain/match"
	"github.com/riskibarqy/prediction-league/internal/domain/season"
	"github.com/riskibarqy/prediction-league/internal/domain/standing"
	"github.com/riskibarqy/prediction-league/internal/platform/logging"
	"github.com/sourcegraph/conc/pool"
	"go.opentelemetry.io/otel/attribute"
)

const defaultFanOut = 4

// Standings is a computed table with the scope it was computed for.
type Standings struct {
	SeasonID      string              `json:"season_id"`
	CompetitionID string              `json:"competition_id,omitempty"`
	Rules         season.ScoringRules `json:"rules"`
	Rows          []standing.Row      `json:"rows"`
	Flagged       []FlaggedMatch      `json:"flagged,omitempty"`
}

type FlaggedMatch struct {
	MatchID string `json:"match_id"`
	Reason  string `json:"reason"`
	Counted bool   `json:"counted"`
}

type StandingsService struct {
	seasonRepo      season.Repository
	competitionRepo competition.Repository
	matchRepo       match.Repository
	fanOut          int
	logger          *logging.Logger
}

func NewStandingsService(
	seasonRepo season.Repository,
	competitionRepo competition.Repository,
	matchRepo match.Repository,
	logger *logging.Logger,
) *StandingsService {
	if logger == nil {
		logger = logging.Default()
	}

	return &StandingsService{
		seasonRepo:      seasonRepo,
		competitionRepo: competitionRepo,
		matchRepo:       matchRepo,
		fanOut:          defaultFanOut,
		logger:          logger.Named("standings"),
	}
}

// BySeason ranks every team that appears in a match of any competition of the season.
// Teams without a finished match get a zero row.
func (s *StandingsService) BySeason(ctx context.Context, seasonID string) (Standings, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.StandingsService.BySeason", attribute.String("season_id", seasonID))
	defer span.End()

	item, err := getSeason(ctx, s.seasonRepo, seasonID)
	if err != nil {
		return Standings{}, err
	}
	competitions, err := s.competitionRepo.ListBySeason(ctx, item.ID)
	if err != nil {
		recordSpanError(span, err)
		return Standings{}, errors.Wrap(err, "list competitions by season")
	}

	matches, err := loadMatches(ctx, s.matchRepo, competitions, s.fanOut)
	if err != nil {
		recordSpanError(span, err)
		return Standings{}, err
	}

	out := s.compute(ctx, item.Rules, matches)
	out.SeasonID = item.ID
	return out, nil
}

func (s *StandingsService) ByCompetition(ctx context.Context, competitionID string) (Standings, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.StandingsService.ByCompetition", attribute.String("competition_id", competitionID))
	defer span.End()

	comp, err := getCompetition(ctx, s.competitionRepo, competitionID)
	if err != nil {
		return Standings{}, err
	}
	item, err := getSeason(ctx, s.seasonRepo, comp.SeasonID)
	if err != nil {
		return Standings{}, err
	}
	matches, err := s.matchRepo.ListByCompetition(ctx, comp.ID)
	if err != nil {
		recordSpanError(span, err)
		return Standings{}, errors.Wrap(err, "list matches by competition")
	}

	out := s.compute(ctx, item.Rules, matches)
	out.SeasonID = item.ID
	out.CompetitionID = comp.ID
	return out, nil
}

func (s *StandingsService) compute(ctx context.Context, rules season.ScoringRules, matches []match.Match) Standings {
	table := standing.Compute(rules, nil, matches)

	out := Standings{Rules: rules, Rows: table.Rows}
	if out.Rows == nil {
		out.Rows = []standing.Row{}
	}
	for _, flag := range table.Flagged {
		s.logger.WarnContext(ctx, "match flagged in standings",
			"match_id", flag.MatchID,
			"counted", flag.Counted,
			"error", flag.Err,
		)
		out.Flagged = append(out.Flagged, FlaggedMatch{
			MatchID: flag.MatchID,
			Reason:  flag.Err.Error(),
			Counted: flag.Counted,
		})
	}
	return out
}

// loadMatches fetches the matches of each competition concurrently and returns them in
// competition order.
func loadMatches(ctx context.Context, repo match.Repository, competitions []competition.Competition, fanOut int) ([]match.Match, error) {
	type batch struct {
		index   int
		matches []match.Match
	}

	p := pool.NewWithResults[batch]().
		WithContext(ctx).
		WithCancelOnError().
		WithMaxGoroutines(max(fanOut, 1))
	for i, comp := range competitions {
		i, comp := i, comp
		p.Go(func(ctx context.Context) (batch, error) {
			items, err := repo.ListByCompetition(ctx, comp.ID)
			if err != nil {
				return batch{}, errors.Wrapf(err, "list matches of competition %s", comp.ID)
			}
			return batch{index: i, matches: items}, nil
		})
	}

	batches, err := p.Wait()
	if err != nil {
		return nil, err
	}
	sort.Slice(batches, func(i, j int) bool { return batches[i].index < batches[j].index })

	var out []match.Match
	for _, b := range batches {
		out = append(out, b.matches...)
	}
	return out, nil
}
