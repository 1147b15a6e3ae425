package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/riskibarqy/prediction-league/internal/domain/bet"
	"github.com/riskibarqy/prediction-league/internal/domain/lifecycle"
	"github.com/riskibarqy/prediction-league/internal/domain/match"
	"github.com/riskibarqy/prediction-league/internal/domain/settlement"
	betmock "github.com/riskibarqy/prediction-league/internal/mocks/domain/bet"
	matchmock "github.com/riskibarqy/prediction-league/internal/mocks/domain/match"
	idgen "github.com/riskibarqy/prediction-league/internal/platform/id"
	"github.com/riskibarqy/prediction-league/internal/platform/logging"
	"github.com/riskibarqy/prediction-league/internal/platform/resilience"
	"github.com/stretchr/testify/mock"
)

func TestBetService_PlaceRejectsNegativeScoreUsingMockery(t *testing.T) {
	t.Parallel()

	matches := matchmock.NewRepository(t)
	bets := betmock.NewRepository(t)
	service := NewBetService(matches, bets, nil, idgen.NewSequence("b1"), logging.NewNop())
	service.now = func() time.Time { return time.Date(2026, 11, 1, 0, 0, 0, 0, time.UTC) }

	kickoff := time.Date(2026, 11, 14, 12, 30, 0, 0, time.UTC)
	open := match.Match{ID: "m1", CompetitionID: "c1", HomeTeamID: "a", AwayTeamID: "b", Status: match.StatusScheduled}.
		Schedule(kickoff, match.DefaultBettingCloseLead)
	matches.On("GetByID", mock.Anything, "m1").Return(open, true, nil).Once()

	_, err := service.Place(context.Background(), PlaceBetInput{UserID: "u1", MatchID: "m1", PredictedHome: -1, PredictedAway: 0})
	if !errors.Is(err, ErrInvalidInput) || !errors.Is(err, bet.ErrInvalidPrediction) {
		t.Fatalf("expected invalid prediction, got %v", err)
	}
	bets.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestBetService_PlaceReportsBusyMatchLockUsingMockery(t *testing.T) {
	t.Parallel()

	matches := matchmock.NewRepository(t)
	bets := betmock.NewRepository(t)
	locks := resilience.NewKeyedMutex()
	service := NewBetService(matches, bets, locks, idgen.NewSequence("b1"), logging.NewNop())
	service.now = func() time.Time { return time.Date(2026, 11, 1, 0, 0, 0, 0, time.UTC) }

	kickoff := time.Date(2026, 11, 14, 12, 30, 0, 0, time.UTC)
	open := match.Match{ID: "m1", CompetitionID: "c1", HomeTeamID: "a", AwayTeamID: "b", Status: match.StatusScheduled}.
		Schedule(kickoff, match.DefaultBettingCloseLead)
	matches.On("GetByID", mock.Anything, "m1").Return(open, true, nil).Once()

	unlock, err := locks.Lock(context.Background(), "m1")
	if err != nil {
		t.Fatalf("hold lock: %v", err)
	}
	defer unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err = service.Place(ctx, PlaceBetInput{UserID: "u1", MatchID: "m1", PredictedHome: 1, PredictedAway: 0})
	if !errors.Is(err, ErrDependencyUnavailable) {
		t.Fatalf("expected ErrDependencyUnavailable, got %v", err)
	}
	bets.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestBetService_PlaceRechecksMatchUnderLockUsingMockery(t *testing.T) {
	t.Parallel()

	matches := matchmock.NewRepository(t)
	bets := betmock.NewRepository(t)
	service := NewBetService(matches, bets, nil, idgen.NewSequence("b1"), logging.NewNop())
	service.now = func() time.Time { return time.Date(2026, 11, 1, 0, 0, 0, 0, time.UTC) }

	kickoff := time.Date(2026, 11, 14, 12, 30, 0, 0, time.UTC)
	open := match.Match{ID: "m1", CompetitionID: "c1", HomeTeamID: "a", AwayTeamID: "b", Status: match.StatusScheduled}.
		Schedule(kickoff, match.DefaultBettingCloseLead)
	cancelled := open
	cancelled.Status = match.StatusCancelled
	matches.On("GetByID", mock.Anything, "m1").Return(open, true, nil).Once()
	matches.On("GetByID", mock.Anything, "m1").Return(cancelled, true, nil).Once()

	_, err := service.Place(context.Background(), PlaceBetInput{UserID: "u1", MatchID: "m1", PredictedHome: 1, PredictedAway: 0})
	if !errors.Is(err, ErrConflict) || !errors.Is(err, bet.ErrBettingClosed) {
		t.Fatalf("expected betting closed conflict, got %v", err)
	}
	bets.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestBetService_CancelOtherUsersBetUsingMockery(t *testing.T) {
	t.Parallel()

	matches := matchmock.NewRepository(t)
	bets := betmock.NewRepository(t)
	service := NewBetService(matches, bets, nil, idgen.NewSequence(), logging.NewNop())

	stored := bet.Bet{ID: "b1", UserID: "owner", MatchID: "m1", Status: bet.StatusPending}
	bets.On("GetByID", mock.Anything, "b1").Return(stored, true, nil).Twice()

	_, err := service.Cancel(context.Background(), "b1", "someone-else")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	bets.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestBetService_ApplyBonusValidationUsingMockery(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		stored    bet.Bet
		input     ApplyBonusInput
		targetErr error
	}{
		{
			name:      "zero points",
			stored:    bet.Bet{ID: "b1", Status: bet.StatusWon},
			input:     ApplyBonusInput{BetID: "b1", Points: 0, Reason: "streak"},
			targetErr: settlement.ErrInvalidBonus,
		},
		{
			name:      "missing reason",
			stored:    bet.Bet{ID: "b1", Status: bet.StatusLost},
			input:     ApplyBonusInput{BetID: "b1", Points: 1, Reason: "  "},
			targetErr: ErrInvalidInput,
		},
		{
			name:      "unsettled bet",
			stored:    bet.Bet{ID: "b1", Status: bet.StatusActive},
			input:     ApplyBonusInput{BetID: "b1", Points: 1, Reason: "streak"},
			targetErr: lifecycle.ErrInvalidTransition,
		},
		{
			name:      "bonus already applied",
			stored:    bet.Bet{ID: "b1", Status: bet.StatusWon, BonusApplied: true},
			input:     ApplyBonusInput{BetID: "b1", Points: 1, Reason: "streak"},
			targetErr: bet.ErrBonusAlreadyApplied,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bets := betmock.NewRepository(t)
			service := NewBetService(matchmock.NewRepository(t), bets, nil, idgen.NewSequence(), logging.NewNop())
			bets.On("GetByID", mock.Anything, "b1").Return(tt.stored, true, nil).Once()

			_, err := service.ApplyBonus(context.Background(), tt.input)
			if !errors.Is(err, tt.targetErr) {
				t.Fatalf("expected %v, got %v", tt.targetErr, err)
			}
		})
	}
}
