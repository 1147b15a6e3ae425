package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/riskibarqy/prediction-league/internal/domain/season"
	idgen "github.com/riskibarqy/prediction-league/internal/platform/id"
	"github.com/riskibarqy/prediction-league/internal/platform/logging"
	"go.opentelemetry.io/otel/attribute"
)

type CreateSeasonInput struct {
	SportID           string
	Name              string
	StartDate         time.Time
	EndDate           time.Time
	RegistrationStart *time.Time
	RegistrationEnd   *time.Time
	// Rules defaults to 3/1/0 with draws allowed when nil.
	Rules *season.ScoringRules
}

type SeasonService struct {
	seasonRepo season.Repository
	idGen      idgen.Generator
	logger     *logging.Logger
	now        func() time.Time
}

func NewSeasonService(seasonRepo season.Repository, idGen idgen.Generator, logger *logging.Logger) *SeasonService {
	if logger == nil {
		logger = logging.Default()
	}

	return &SeasonService{
		seasonRepo: seasonRepo,
		idGen:      idGen,
		logger:     logger,
		now:        time.Now,
	}
}

func (s *SeasonService) Create(ctx context.Context, input CreateSeasonInput) (season.Season, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SeasonService.Create")
	defer span.End()

	rules := season.DefaultScoringRules()
	if input.Rules != nil {
		rules = *input.Rules
	}

	id, err := s.idGen.NewID()
	if err != nil {
		return season.Season{}, errors.Wrap(err, "generate season id")
	}

	now := s.now().UTC()
	item := season.Season{
		ID:                id,
		SportID:           strings.TrimSpace(input.SportID),
		Name:              strings.TrimSpace(input.Name),
		StartDate:         input.StartDate.UTC(),
		EndDate:           input.EndDate.UTC(),
		RegistrationStart: input.RegistrationStart,
		RegistrationEnd:   input.RegistrationEnd,
		Rules:             rules,
		IsActive:          true,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	item.Status = item.DeriveStatus(now)
	if err := item.Validate(); err != nil {
		return season.Season{}, markInvalid(err)
	}

	if err := s.seasonRepo.Create(ctx, item); err != nil {
		recordSpanError(span, err)
		return season.Season{}, errors.Wrap(err, "create season")
	}

	s.logger.InfoContext(ctx, "season created", "season_id", item.ID, "status", item.Status)
	return item, nil
}

func (s *SeasonService) Get(ctx context.Context, seasonID string) (season.Season, error) {
	return getSeason(ctx, s.seasonRepo, seasonID)
}

// List returns active seasons; includeInactive also returns soft-deleted ones.
func (s *SeasonService) List(ctx context.Context, includeInactive bool) ([]season.Season, error) {
	items, err := s.seasonRepo.List(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "list seasons")
	}
	if includeInactive {
		return items, nil
	}

	out := items[:0:0]
	for _, item := range items {
		if item.IsActive {
			out = append(out, item)
		}
	}
	return out, nil
}

// RefreshStatus persists the date-driven status when it moved.
func (s *SeasonService) RefreshStatus(ctx context.Context, seasonID string) (season.Season, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SeasonService.RefreshStatus", attribute.String("season_id", seasonID))
	defer span.End()

	item, err := getSeason(ctx, s.seasonRepo, seasonID)
	if err != nil {
		return season.Season{}, err
	}

	previous := item.Status
	refreshed, changed := item.Refresh(s.now().UTC())
	if !changed {
		return item, nil
	}
	if err := s.seasonRepo.Update(ctx, refreshed); err != nil {
		recordSpanError(span, err)
		return season.Season{}, errors.Wrap(err, "update season")
	}

	s.logger.InfoContext(ctx, "season status refreshed", "season_id", item.ID, "from", previous, "to", refreshed.Status)
	return refreshed, nil
}

// Transition applies an explicit administrative move, e.g. active -> playoffs.
func (s *SeasonService) Transition(ctx context.Context, seasonID string, next season.Status) (season.Season, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SeasonService.Transition", attribute.String("season_id", seasonID))
	defer span.End()

	item, err := getSeason(ctx, s.seasonRepo, seasonID)
	if err != nil {
		return season.Season{}, err
	}

	moved, err := item.Transition(next, s.now().UTC())
	if err != nil {
		return season.Season{}, err
	}
	if err := s.seasonRepo.Update(ctx, moved); err != nil {
		recordSpanError(span, err)
		return season.Season{}, errors.Wrap(err, "update season")
	}

	s.logger.InfoContext(ctx, "season transitioned", "season_id", item.ID, "from", item.Status, "to", moved.Status)
	return moved, nil
}

func (s *SeasonService) Cancel(ctx context.Context, seasonID string) (season.Season, error) {
	return s.Transition(ctx, seasonID, season.StatusCancelled)
}

// Deactivate soft-deletes a season. Seasons are never physically removed.
func (s *SeasonService) Deactivate(ctx context.Context, seasonID string) (season.Season, error) {
	item, err := getSeason(ctx, s.seasonRepo, seasonID)
	if err != nil {
		return season.Season{}, err
	}
	if !item.IsActive {
		return item, nil
	}

	item.IsActive = false
	item.UpdatedAt = s.now().UTC()
	if err := s.seasonRepo.Update(ctx, item); err != nil {
		return season.Season{}, errors.Wrap(err, "update season")
	}
	return item, nil
}
