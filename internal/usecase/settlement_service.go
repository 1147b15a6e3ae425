package usecase

import (
	"context"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/panjf2000/ants/v2"
	"github.com/riskibarqy/prediction-league/internal/domain/bet"
	"github.com/riskibarqy/prediction-league/internal/domain/competition"
	"github.com/riskibarqy/prediction-league/internal/domain/match"
	"github.com/riskibarqy/prediction-league/internal/domain/outcome"
	"github.com/riskibarqy/prediction-league/internal/domain/result"
	"github.com/riskibarqy/prediction-league/internal/domain/season"
	"github.com/riskibarqy/prediction-league/internal/domain/settlement"
	"github.com/riskibarqy/prediction-league/internal/platform/logging"
	"github.com/riskibarqy/prediction-league/internal/platform/resilience"
	"go.opentelemetry.io/otel/attribute"
)

const defaultSettlementWorkers = 8

// SettlementReport summarises one settlement run over the bets of a match.
type SettlementReport struct {
	MatchID      string          `json:"match_id"`
	ResultStatus result.Status   `json:"result_status"`
	Settled      int             `json:"settled"`
	Won          int             `json:"won"`
	Lost         int             `json:"lost"`
	Voided       int             `json:"voided"`
	Skipped      int             `json:"skipped"`
	Failed       int             `json:"failed"`
	Failures     []SettleFailure `json:"failures,omitempty"`
}

type SettleFailure struct {
	BetID   string `json:"bet_id"`
	Message string `json:"message"`
}

type SettlementService struct {
	seasonRepo      season.Repository
	competitionRepo competition.Repository
	matchRepo       match.Repository
	resultRepo      result.Repository
	betRepo         bet.Repository
	locks           *resilience.KeyedMutex
	workers         int
	logger          *logging.Logger
	now             func() time.Time
}

func NewSettlementService(
	seasonRepo season.Repository,
	competitionRepo competition.Repository,
	matchRepo match.Repository,
	resultRepo result.Repository,
	betRepo bet.Repository,
	locks *resilience.KeyedMutex,
	workers int,
	logger *logging.Logger,
) *SettlementService {
	if logger == nil {
		logger = logging.Default()
	}
	if locks == nil {
		locks = resilience.NewKeyedMutex()
	}
	if workers <= 0 {
		workers = defaultSettlementWorkers
	}

	return &SettlementService{
		seasonRepo:      seasonRepo,
		competitionRepo: competitionRepo,
		matchRepo:       matchRepo,
		resultRepo:      resultRepo,
		betRepo:         betRepo,
		locks:           locks,
		workers:         workers,
		logger:          logger.Named("settlement"),
		now:             time.Now,
	}
}

// SettleBet settles one bet against its match's terminal result. A bet that already
// left pending/active yields bet.ErrAlreadySettled and is not touched.
func (s *SettlementService) SettleBet(ctx context.Context, betID string) (bet.Bet, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SettlementService.SettleBet", attribute.String("bet_id", betID))
	defer span.End()

	item, err := getBet(ctx, s.betRepo, betID)
	if err != nil {
		return bet.Bet{}, err
	}

	unlock, err := s.locks.Lock(ctx, item.MatchID)
	if err != nil {
		return bet.Bet{}, lockUnavailable(err, "lock match for settlement")
	}
	defer unlock()

	res, rules, err := s.prepare(ctx, item.MatchID)
	if err != nil {
		recordSpanError(span, err)
		return bet.Bet{}, err
	}

	settled, err := s.settleOne(ctx, item, res, rules)
	if err != nil {
		recordSpanError(span, err)
		return item, err
	}
	return settled, nil
}

// SettleMatch settles every bet of a match on a bounded worker pool. Already settled
// bets are counted as skipped; per-bet failures are reported, not returned.
func (s *SettlementService) SettleMatch(ctx context.Context, matchID string) (SettlementReport, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SettlementService.SettleMatch", attribute.String("match_id", matchID))
	defer span.End()

	matchID, err := requireID("match", matchID)
	if err != nil {
		return SettlementReport{}, err
	}

	unlock, err := s.locks.Lock(ctx, matchID)
	if err != nil {
		return SettlementReport{}, lockUnavailable(err, "lock match for settlement")
	}
	defer unlock()

	res, rules, err := s.prepare(ctx, matchID)
	if err != nil {
		recordSpanError(span, err)
		return SettlementReport{}, err
	}

	bets, err := s.betRepo.ListByMatch(ctx, matchID)
	if err != nil {
		recordSpanError(span, err)
		return SettlementReport{}, errors.Wrap(err, "list bets by match")
	}

	report := SettlementReport{MatchID: matchID, ResultStatus: res.Status}
	if len(bets) == 0 {
		return report, nil
	}

	workerCount := s.workers
	if workerCount > len(bets) {
		workerCount = len(bets)
	}
	pool, err := ants.NewPool(workerCount)
	if err != nil {
		return SettlementReport{}, errors.Wrap(err, "create settlement worker pool")
	}
	defer pool.Release()

	var (
		won, lost, voided, skipped atomic.Int32
		failuresMu                 sync.Mutex
		failures                   []SettleFailure
		wg                         sync.WaitGroup
		submitErr                  error
	)
	for _, item := range bets {
		item := item
		wg.Add(1)
		if err := pool.Submit(func() {
			defer wg.Done()

			settled, err := s.settleOne(ctx, item, res, rules)
			switch {
			case errors.Is(err, bet.ErrAlreadySettled):
				skipped.Add(1)
			case err != nil:
				failuresMu.Lock()
				failures = append(failures, SettleFailure{BetID: item.ID, Message: err.Error()})
				failuresMu.Unlock()
			case settled.Status == bet.StatusWon:
				won.Add(1)
			case settled.Status == bet.StatusLost:
				lost.Add(1)
			default:
				voided.Add(1)
			}
		}); err != nil {
			wg.Done()
			submitErr = errors.Wrap(err, "submit bet to settlement pool")
			break
		}
	}
	wg.Wait()
	if submitErr != nil {
		recordSpanError(span, submitErr)
		return SettlementReport{}, submitErr
	}

	sort.Slice(failures, func(i, j int) bool { return failures[i].BetID < failures[j].BetID })
	report.Won = int(won.Load())
	report.Lost = int(lost.Load())
	report.Voided = int(voided.Load())
	report.Skipped = int(skipped.Load())
	report.Settled = report.Won + report.Lost + report.Voided
	report.Failed = len(failures)
	report.Failures = failures

	s.logger.InfoContext(ctx, "match settled",
		"match_id", matchID,
		"result_status", res.Status,
		"settled", report.Settled,
		"skipped", report.Skipped,
		"failed", report.Failed,
	)
	return report, nil
}

// prepare reconciles the match with its result record and loads the season rules.
func (s *SettlementService) prepare(ctx context.Context, matchID string) (result.Result, season.ScoringRules, error) {
	m, err := getMatch(ctx, s.matchRepo, matchID)
	if err != nil {
		return result.Result{}, season.ScoringRules{}, err
	}

	stored, exists, err := s.resultRepo.GetByMatch(ctx, m.ID)
	if err != nil {
		return result.Result{}, season.ScoringRules{}, errors.Wrap(err, "get result by match")
	}
	var storedPtr *result.Result
	if exists {
		storedPtr = &stored
	}

	res, err := settlement.Effective(m, storedPtr)
	if err != nil {
		return result.Result{}, season.ScoringRules{}, err
	}

	rules, err := rulesForMatch(ctx, s.competitionRepo, s.seasonRepo, m)
	if err != nil {
		return result.Result{}, season.ScoringRules{}, err
	}
	if res.IsFinal() {
		// Scorelines the resolver rejects need administrative correction before any bet moves.
		if _, err := outcome.ResolveWithPolicy(res.ScoreSet(), rules.AllowDraws); err != nil {
			return result.Result{}, season.ScoringRules{}, errors.Wrapf(err, "match %s", m.ID)
		}
	}
	return res, rules, nil
}

func (s *SettlementService) settleOne(ctx context.Context, item bet.Bet, res result.Result, rules season.ScoringRules) (bet.Bet, error) {
	settled, err := settlement.Settle(item, res, rules, s.now().UTC())
	if err != nil {
		if errors.Is(err, bet.ErrAlreadySettled) {
			s.logger.DebugContext(ctx, "bet already settled", "bet_id", item.ID, "status", item.Status)
		}
		return item, err
	}

	if err := s.betRepo.Settle(ctx, settled); err != nil {
		if errors.Is(err, bet.ErrAlreadySettled) {
			s.logger.InfoContext(ctx, "bet settled concurrently", "bet_id", item.ID)
			return item, err
		}
		return item, errors.Wrapf(err, "persist settlement of bet %s", item.ID)
	}
	return settled, nil
}

// ActivateBets locks the pending bets of a match that kicked off. It shares the
// per-match lock with settlement so activation never overwrites a settled bet.
func (s *SettlementService) ActivateBets(ctx context.Context, matchID string) (int, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SettlementService.ActivateBets", attribute.String("match_id", matchID))
	defer span.End()

	unlock, err := s.locks.Lock(ctx, matchID)
	if err != nil {
		return 0, lockUnavailable(err, "lock match for activation")
	}
	defer unlock()

	bets, err := s.betRepo.ListByMatch(ctx, matchID)
	if err != nil {
		recordSpanError(span, err)
		return 0, errors.Wrap(err, "list bets by match")
	}

	now := s.now().UTC()
	activated := 0
	for _, item := range bets {
		if item.Status != bet.StatusPending {
			continue
		}
		next, err := item.Activate(now)
		if err != nil {
			return activated, err
		}
		if err := s.betRepo.Update(ctx, next); err != nil {
			recordSpanError(span, err)
			return activated, errors.Wrapf(err, "activate bet %s", item.ID)
		}
		activated++
	}
	return activated, nil
}
