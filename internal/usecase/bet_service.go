package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/riskibarqy/prediction-league/internal/domain/bet"
	"github.com/riskibarqy/prediction-league/internal/domain/match"
	"github.com/riskibarqy/prediction-league/internal/domain/settlement"
	idgen "github.com/riskibarqy/prediction-league/internal/platform/id"
	"github.com/riskibarqy/prediction-league/internal/platform/logging"
	"github.com/riskibarqy/prediction-league/internal/platform/resilience"
	"go.opentelemetry.io/otel/attribute"
)

type PlaceBetInput struct {
	UserID        string
	MatchID       string
	PredictedHome int
	PredictedAway int
}

type ApplyBonusInput struct {
	BetID  string
	Points int
	Reason string
}

type BetService struct {
	matchRepo match.Repository
	betRepo   bet.Repository
	locks     *resilience.KeyedMutex
	idGen     idgen.Generator
	logger    *logging.Logger
	now       func() time.Time
}

// NewBetService shares locks with the settlement service so bet writes and
// settlement of the same match are serialised.
func NewBetService(
	matchRepo match.Repository,
	betRepo bet.Repository,
	locks *resilience.KeyedMutex,
	idGen idgen.Generator,
	logger *logging.Logger,
) *BetService {
	if logger == nil {
		logger = logging.Default()
	}
	if locks == nil {
		locks = resilience.NewKeyedMutex()
	}

	return &BetService{
		matchRepo: matchRepo,
		betRepo:   betRepo,
		locks:     locks,
		idGen:     idGen,
		logger:    logger,
		now:       time.Now,
	}
}

func (s *BetService) Place(ctx context.Context, input PlaceBetInput) (bet.Bet, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.BetService.Place", attribute.String("match_id", input.MatchID))
	defer span.End()

	userID, err := requireID("user", input.UserID)
	if err != nil {
		return bet.Bet{}, err
	}
	m, err := getMatch(ctx, s.matchRepo, input.MatchID)
	if err != nil {
		return bet.Bet{}, err
	}

	betID, err := s.idGen.NewID()
	if err != nil {
		return bet.Bet{}, errors.Wrap(err, "generate bet id")
	}

	item, err := bet.New(betID, userID, m, input.PredictedHome, input.PredictedAway, s.now().UTC())
	switch {
	case errors.Is(err, bet.ErrInvalidPrediction):
		return bet.Bet{}, markInvalid(err)
	case errors.Is(err, bet.ErrBettingClosed):
		return bet.Bet{}, errors.Mark(err, ErrConflict)
	case err != nil:
		return bet.Bet{}, err
	}

	unlock, err := s.locks.Lock(ctx, m.ID)
	if err != nil {
		return bet.Bet{}, lockUnavailable(err, "lock match for bet")
	}
	defer unlock()

	// The match may have been cancelled or started while waiting for the lock.
	current, err := getMatch(ctx, s.matchRepo, m.ID)
	if err != nil {
		return bet.Bet{}, err
	}
	if !current.BettingOpen(item.PlacedAt) {
		return bet.Bet{}, errors.Mark(errors.Wrapf(bet.ErrBettingClosed, "match %s is %s", current.ID, current.Status), ErrConflict)
	}

	if err := s.betRepo.Create(ctx, item); err != nil {
		if errors.Is(err, bet.ErrDuplicateBet) {
			return bet.Bet{}, errors.Mark(errors.Wrapf(err, "user %s already predicted match %s", userID, m.ID), ErrConflict)
		}
		recordSpanError(span, err)
		return bet.Bet{}, errors.Wrap(err, "create bet")
	}

	s.logger.InfoContext(ctx, "bet placed",
		"bet_id", item.ID,
		"user_id", item.UserID,
		"match_id", item.MatchID,
		"prediction", item.PredictedOutcome().String(),
	)
	return item, nil
}

func (s *BetService) Get(ctx context.Context, betID string) (bet.Bet, error) {
	return getBet(ctx, s.betRepo, betID)
}

func (s *BetService) ListByMatch(ctx context.Context, matchID string) ([]bet.Bet, error) {
	m, err := getMatch(ctx, s.matchRepo, matchID)
	if err != nil {
		return nil, err
	}
	items, err := s.betRepo.ListByMatch(ctx, m.ID)
	if err != nil {
		return nil, errors.Wrap(err, "list bets by match")
	}
	return items, nil
}

func (s *BetService) ListByUser(ctx context.Context, userID string) ([]bet.Bet, error) {
	userID, err := requireID("user", userID)
	if err != nil {
		return nil, err
	}
	items, err := s.betRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, errors.Wrap(err, "list bets by user")
	}
	return items, nil
}

// Cancel withdraws the user's own unsettled bet.
func (s *BetService) Cancel(ctx context.Context, betID, userID string) (bet.Bet, error) {
	return s.mutate(ctx, "Cancel", betID, func(item bet.Bet, now time.Time) (bet.Bet, error) {
		if item.UserID != strings.TrimSpace(userID) {
			return item, errors.Wrapf(ErrNotFound, "bet=%s", item.ID)
		}
		return item.Cancel(now)
	})
}

// Void is the administrative override that zeroes a bet's points.
func (s *BetService) Void(ctx context.Context, betID string) (bet.Bet, error) {
	return s.mutate(ctx, "Void", betID, bet.Bet.Void)
}

func (s *BetService) ApplyBonus(ctx context.Context, input ApplyBonusInput) (bet.Bet, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.BetService.ApplyBonus", attribute.String("bet_id", input.BetID))
	defer span.End()

	item, err := getBet(ctx, s.betRepo, input.BetID)
	if err != nil {
		return bet.Bet{}, err
	}

	next, err := settlement.ApplyBonus(item, input.Points, input.Reason, s.now().UTC())
	switch {
	case errors.Is(err, settlement.ErrInvalidBonus):
		return bet.Bet{}, markInvalid(err)
	case err != nil:
		return bet.Bet{}, err
	}

	if err := s.betRepo.SaveBonus(ctx, next); err != nil {
		if !errors.Is(err, bet.ErrBonusAlreadyApplied) {
			recordSpanError(span, err)
		}
		return bet.Bet{}, errors.Wrap(err, "save bonus")
	}

	s.logger.InfoContext(ctx, "bonus applied", "bet_id", next.ID, "points", next.BonusPoints, "reason", next.BonusReason)
	return next, nil
}

func (s *BetService) mutate(ctx context.Context, op, betID string, fn func(bet.Bet, time.Time) (bet.Bet, error)) (bet.Bet, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.BetService."+op, attribute.String("bet_id", betID))
	defer span.End()

	item, err := getBet(ctx, s.betRepo, betID)
	if err != nil {
		return bet.Bet{}, err
	}

	unlock, err := s.locks.Lock(ctx, item.MatchID)
	if err != nil {
		return bet.Bet{}, lockUnavailable(err, "lock match for bet")
	}
	defer unlock()

	// Re-read under the lock; settlement may have moved the bet meanwhile.
	if item, err = getBet(ctx, s.betRepo, item.ID); err != nil {
		return bet.Bet{}, err
	}

	next, err := fn(item, s.now().UTC())
	if err != nil {
		recordSpanError(span, err)
		return bet.Bet{}, err
	}
	if err := s.betRepo.Update(ctx, next); err != nil {
		recordSpanError(span, err)
		return bet.Bet{}, errors.Wrapf(err, "update bet %s", item.ID)
	}

	s.logger.InfoContext(ctx, "bet updated", "bet_id", item.ID, "op", op, "from", item.Status, "to", next.Status)
	return next, nil
}
