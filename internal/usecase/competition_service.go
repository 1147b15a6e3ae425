package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/riskibarqy/prediction-league/internal/domain/competition"
	"github.com/riskibarqy/prediction-league/internal/domain/season"
	idgen "github.com/riskibarqy/prediction-league/internal/platform/id"
	"github.com/riskibarqy/prediction-league/internal/platform/logging"
	"go.opentelemetry.io/otel/attribute"
)

type CreateCompetitionInput struct {
	SeasonID             string
	Name                 string
	Format               competition.Format
	StartDate            time.Time
	EndDate              *time.Time
	RegistrationOpensAt  *time.Time
	RegistrationClosesAt *time.Time
	MinParticipants      int
	MaxParticipants      int
	// Publish skips the draft status and derives the status from the dates.
	Publish bool
}

type CompetitionService struct {
	seasonRepo      season.Repository
	competitionRepo competition.Repository
	idGen           idgen.Generator
	logger          *logging.Logger
	now             func() time.Time
}

func NewCompetitionService(
	seasonRepo season.Repository,
	competitionRepo competition.Repository,
	idGen idgen.Generator,
	logger *logging.Logger,
) *CompetitionService {
	if logger == nil {
		logger = logging.Default()
	}

	return &CompetitionService{
		seasonRepo:      seasonRepo,
		competitionRepo: competitionRepo,
		idGen:           idGen,
		logger:          logger,
		now:             time.Now,
	}
}

func (s *CompetitionService) Create(ctx context.Context, input CreateCompetitionInput) (competition.Competition, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.CompetitionService.Create")
	defer span.End()

	parent, err := getSeason(ctx, s.seasonRepo, input.SeasonID)
	if err != nil {
		return competition.Competition{}, err
	}
	if season.Transitions.IsTerminal(parent.Status) {
		return competition.Competition{}, errors.Wrapf(ErrConflict, "season %s is %s", parent.ID, parent.Status)
	}

	id, err := s.idGen.NewID()
	if err != nil {
		return competition.Competition{}, errors.Wrap(err, "generate competition id")
	}

	now := s.now().UTC()
	item := competition.Competition{
		ID:                   id,
		SeasonID:             parent.ID,
		SportID:              parent.SportID,
		Name:                 strings.TrimSpace(input.Name),
		Format:               competition.Format(strings.ToLower(strings.TrimSpace(string(input.Format)))),
		Status:               competition.StatusDraft,
		StartDate:            input.StartDate.UTC(),
		EndDate:              input.EndDate,
		RegistrationOpensAt:  input.RegistrationOpensAt,
		RegistrationClosesAt: input.RegistrationClosesAt,
		MinParticipants:      input.MinParticipants,
		MaxParticipants:      input.MaxParticipants,
		CreatedAt:            now,
		UpdatedAt:            now,
	}
	if err := item.Validate(); err != nil {
		return competition.Competition{}, markInvalid(err)
	}
	if input.Publish {
		if item, err = item.Publish(now); err != nil {
			return competition.Competition{}, err
		}
	}

	if err := s.competitionRepo.Create(ctx, item); err != nil {
		recordSpanError(span, err)
		return competition.Competition{}, errors.Wrap(err, "create competition")
	}

	s.logger.InfoContext(ctx, "competition created", "competition_id", item.ID, "season_id", item.SeasonID, "status", item.Status)
	return item, nil
}

func (s *CompetitionService) Get(ctx context.Context, competitionID string) (competition.Competition, error) {
	return getCompetition(ctx, s.competitionRepo, competitionID)
}

func (s *CompetitionService) ListBySeason(ctx context.Context, seasonID string) ([]competition.Competition, error) {
	parent, err := getSeason(ctx, s.seasonRepo, seasonID)
	if err != nil {
		return nil, err
	}
	items, err := s.competitionRepo.ListBySeason(ctx, parent.ID)
	if err != nil {
		return nil, errors.Wrap(err, "list competitions by season")
	}
	return items, nil
}

// RefreshStatus persists the date-driven status when it moved. Administrative
// statuses (draft, paused, cancelled, completed) are left alone.
func (s *CompetitionService) RefreshStatus(ctx context.Context, competitionID string) (competition.Competition, error) {
	return s.apply(ctx, "RefreshStatus", competitionID, func(item competition.Competition, now time.Time) (competition.Competition, error) {
		refreshed, _ := item.Refresh(now)
		return refreshed, nil
	})
}

func (s *CompetitionService) Publish(ctx context.Context, competitionID string) (competition.Competition, error) {
	return s.apply(ctx, "Publish", competitionID, competition.Competition.Publish)
}

// Start requires the stored status to be registration_closed.
func (s *CompetitionService) Start(ctx context.Context, competitionID string) (competition.Competition, error) {
	return s.apply(ctx, "Start", competitionID, competition.Competition.Start)
}

// Complete requires the stored status to be active.
func (s *CompetitionService) Complete(ctx context.Context, competitionID string) (competition.Competition, error) {
	return s.apply(ctx, "Complete", competitionID, competition.Competition.Complete)
}

func (s *CompetitionService) Cancel(ctx context.Context, competitionID string) (competition.Competition, error) {
	return s.apply(ctx, "Cancel", competitionID, competition.Competition.Cancel)
}

func (s *CompetitionService) Pause(ctx context.Context, competitionID string) (competition.Competition, error) {
	return s.apply(ctx, "Pause", competitionID, competition.Competition.Pause)
}

func (s *CompetitionService) Resume(ctx context.Context, competitionID string) (competition.Competition, error) {
	return s.apply(ctx, "Resume", competitionID, competition.Competition.Resume)
}

func (s *CompetitionService) apply(
	ctx context.Context,
	op string,
	competitionID string,
	fn func(competition.Competition, time.Time) (competition.Competition, error),
) (competition.Competition, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.CompetitionService."+op, attribute.String("competition_id", competitionID))
	defer span.End()

	item, err := getCompetition(ctx, s.competitionRepo, competitionID)
	if err != nil {
		return competition.Competition{}, err
	}

	next, err := fn(item, s.now().UTC())
	if err != nil {
		recordSpanError(span, err)
		return competition.Competition{}, err
	}
	if next.Status == item.Status && next.UpdatedAt.Equal(item.UpdatedAt) {
		return item, nil
	}

	if err := s.competitionRepo.Update(ctx, next); err != nil {
		recordSpanError(span, err)
		return competition.Competition{}, errors.Wrap(err, "update competition")
	}

	s.logger.InfoContext(ctx, "competition status changed",
		"competition_id", item.ID,
		"op", op,
		"from", item.Status,
		"to", next.Status,
	)
	return next, nil
}
