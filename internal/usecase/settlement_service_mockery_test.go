package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/riskibarqy/prediction-league/internal/domain/bet"
	"github.com/riskibarqy/prediction-league/internal/domain/competition"
	"github.com/riskibarqy/prediction-league/internal/domain/match"
	"github.com/riskibarqy/prediction-league/internal/domain/outcome"
	"github.com/riskibarqy/prediction-league/internal/domain/result"
	"github.com/riskibarqy/prediction-league/internal/domain/season"
	"github.com/riskibarqy/prediction-league/internal/domain/settlement"
	betmock "github.com/riskibarqy/prediction-league/internal/mocks/domain/bet"
	competitionmock "github.com/riskibarqy/prediction-league/internal/mocks/domain/competition"
	matchmock "github.com/riskibarqy/prediction-league/internal/mocks/domain/match"
	resultmock "github.com/riskibarqy/prediction-league/internal/mocks/domain/result"
	seasonmock "github.com/riskibarqy/prediction-league/internal/mocks/domain/season"
	"github.com/riskibarqy/prediction-league/internal/platform/logging"
	"github.com/stretchr/testify/mock"
)

type settlementMocks struct {
	seasons      *seasonmock.Repository
	competitions *competitionmock.Repository
	matches      *matchmock.Repository
	results      *resultmock.Repository
	bets         *betmock.Repository
	service      *SettlementService
}

func newSettlementMocks(t *testing.T) settlementMocks {
	m := settlementMocks{
		seasons:      seasonmock.NewRepository(t),
		competitions: competitionmock.NewRepository(t),
		matches:      matchmock.NewRepository(t),
		results:      resultmock.NewRepository(t),
		bets:         betmock.NewRepository(t),
	}
	m.service = NewSettlementService(m.seasons, m.competitions, m.matches, m.results, m.bets, nil, 2, logging.NewNop())
	m.service.now = func() time.Time { return time.Date(2026, 11, 14, 15, 0, 0, 0, time.UTC) }
	return m
}

func (m settlementMocks) expectRules(rules season.ScoringRules) {
	m.competitions.
		On("GetByID", mock.Anything, "c1").
		Return(competition.Competition{ID: "c1", SeasonID: "s1"}, true, nil).
		Once()
	m.seasons.
		On("GetByID", mock.Anything, "s1").
		Return(season.Season{ID: "s1", Rules: rules}, true, nil).
		Once()
}

func finishedMatch(home, away int) match.Match {
	finishedAt := time.Date(2026, 11, 14, 14, 30, 0, 0, time.UTC)
	return match.Match{
		ID:            "m1",
		CompetitionID: "c1",
		HomeTeamID:    "team-a",
		AwayTeamID:    "team-b",
		Status:        match.StatusFinished,
		HomeScore:     home,
		AwayScore:     away,
		FinishedAt:    &finishedAt,
	}
}

func TestSettlementService_SettleMatch_NotFinalUsingMockery(t *testing.T) {
	t.Parallel()

	m := newSettlementMocks(t)
	m.matches.
		On("GetByID", mock.Anything, "m1").
		Return(match.Match{ID: "m1", CompetitionID: "c1", Status: match.StatusLive}, true, nil).
		Once()
	m.results.
		On("GetByMatch", mock.Anything, "m1").
		Return(result.Result{ID: "r1", MatchID: "m1", Status: result.StatusLive}, true, nil).
		Once()

	_, err := m.service.SettleMatch(context.Background(), "m1")
	if !errors.Is(err, settlement.ErrNotFinal) {
		t.Fatalf("expected ErrNotFinal, got %v", err)
	}
	m.bets.AssertNotCalled(t, "ListByMatch", mock.Anything, mock.Anything)
}

func TestSettlementService_SettleMatch_CountsLostRaceAsSkippedUsingMockery(t *testing.T) {
	t.Parallel()

	m := newSettlementMocks(t)
	m.matches.On("GetByID", mock.Anything, "m1").Return(finishedMatch(2, 0), true, nil).Once()
	m.results.On("GetByMatch", mock.Anything, "m1").Return(result.Result{}, false, nil).Once()
	m.expectRules(season.DefaultScoringRules())

	bets := []bet.Bet{
		{ID: "b1", UserID: "u1", MatchID: "m1", PredictedHome: 2, PredictedAway: 0, Status: bet.StatusActive},
		{ID: "b2", UserID: "u2", MatchID: "m1", PredictedHome: 0, PredictedAway: 1, Status: bet.StatusActive},
		{ID: "b3", UserID: "u3", MatchID: "m1", PredictedHome: 1, PredictedAway: 0, Status: bet.StatusWon, PointsEarned: 1},
	}
	m.bets.On("ListByMatch", mock.Anything, "m1").Return(bets, nil).Once()
	m.bets.
		On("Settle", mock.Anything, mock.MatchedBy(func(item bet.Bet) bool {
			return item.ID == "b1" && item.Status == bet.StatusWon && item.PointsEarned == settlement.PointsExactScore
		})).
		Return(nil).
		Once()
	m.bets.
		On("Settle", mock.Anything, mock.MatchedBy(func(item bet.Bet) bool { return item.ID == "b2" })).
		Return(errors.Wrap(bet.ErrAlreadySettled, "stored bet is void")).
		Once()

	report, err := m.service.SettleMatch(context.Background(), "m1")
	if err != nil {
		t.Fatalf("settle match: %v", err)
	}
	if report.Settled != 1 || report.Won != 1 || report.Skipped != 2 || report.Failed != 0 {
		t.Fatalf("unexpected report: %+v", report)
	}
}

func TestSettlementService_SettleMatch_ReportsStorageFailuresUsingMockery(t *testing.T) {
	t.Parallel()

	m := newSettlementMocks(t)
	m.matches.On("GetByID", mock.Anything, "m1").Return(finishedMatch(1, 1), true, nil).Once()
	m.results.On("GetByMatch", mock.Anything, "m1").Return(result.Result{}, false, nil).Once()
	m.expectRules(season.DefaultScoringRules())

	m.bets.
		On("ListByMatch", mock.Anything, "m1").
		Return([]bet.Bet{{ID: "b1", UserID: "u1", MatchID: "m1", PredictedHome: 1, PredictedAway: 1, Status: bet.StatusPending}}, nil).
		Once()
	m.bets.On("Settle", mock.Anything, mock.Anything).Return(errors.New("connection reset")).Once()

	report, err := m.service.SettleMatch(context.Background(), "m1")
	if err != nil {
		t.Fatalf("settle match: %v", err)
	}
	if report.Failed != 1 || len(report.Failures) != 1 || report.Failures[0].BetID != "b1" {
		t.Fatalf("unexpected report: %+v", report)
	}
}

func TestSettlementService_SettleMatch_RejectsInconsistentResultUsingMockery(t *testing.T) {
	t.Parallel()

	m := newSettlementMocks(t)
	m.matches.On("GetByID", mock.Anything, "m1").Return(finishedMatch(2, 1), true, nil).Once()
	m.results.
		On("GetByMatch", mock.Anything, "m1").
		Return(result.Result{ID: "r1", MatchID: "m1", Status: result.StatusFinal, HomeScore: 0, AwayScore: 1}, true, nil).
		Once()

	_, err := m.service.SettleMatch(context.Background(), "m1")
	if !errors.Is(err, settlement.ErrScoresMismatch) || !errors.Is(err, outcome.ErrInconsistentScore) {
		t.Fatalf("expected scores mismatch, got %v", err)
	}
}

func TestSettlementService_SettleBet_NotFoundUsingMockery(t *testing.T) {
	t.Parallel()

	m := newSettlementMocks(t)
	m.bets.On("GetByID", mock.Anything, "missing").Return(bet.Bet{}, false, nil).Once()

	_, err := m.service.SettleBet(context.Background(), "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSettlementService_SettleBet_AlreadySettledUsingMockery(t *testing.T) {
	t.Parallel()

	m := newSettlementMocks(t)
	m.bets.
		On("GetByID", mock.Anything, "b1").
		Return(bet.Bet{ID: "b1", UserID: "u1", MatchID: "m1", Status: bet.StatusLost}, true, nil).
		Once()
	m.matches.On("GetByID", mock.Anything, "m1").Return(finishedMatch(0, 0), true, nil).Once()
	m.results.On("GetByMatch", mock.Anything, "m1").Return(result.Result{}, false, nil).Once()
	m.expectRules(season.DefaultScoringRules())

	got, err := m.service.SettleBet(context.Background(), "b1")
	if !errors.Is(err, bet.ErrAlreadySettled) {
		t.Fatalf("expected ErrAlreadySettled, got %v", err)
	}
	if got.Status != bet.StatusLost {
		t.Fatalf("expected bet left untouched, got %s", got.Status)
	}
}
