package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/riskibarqy/prediction-league/internal/domain/competition"
	"github.com/riskibarqy/prediction-league/internal/domain/match"
	"github.com/riskibarqy/prediction-league/internal/domain/outcome"
	"github.com/riskibarqy/prediction-league/internal/domain/result"
	"github.com/riskibarqy/prediction-league/internal/domain/season"
	"github.com/riskibarqy/prediction-league/internal/domain/settlement"
	"github.com/riskibarqy/prediction-league/internal/domain/team"
	idgen "github.com/riskibarqy/prediction-league/internal/platform/id"
	"github.com/riskibarqy/prediction-league/internal/platform/logging"
	"go.opentelemetry.io/otel/attribute"
)

type ScheduleMatchInput struct {
	CompetitionID string
	HomeTeamID    string
	AwayTeamID    string
	Round         int
	Venue         string
	ScheduledAt   time.Time
}

type SubmitResultInput struct {
	MatchID    string
	Scores     match.Scores
	VerifiedBy string
}

// MatchOutcome is what a result submission produced.
type MatchOutcome struct {
	Match      match.Match      `json:"match"`
	Result     result.Result    `json:"result"`
	Outcome    outcome.Outcome  `json:"outcome"`
	Settlement SettlementReport `json:"settlement"`
}

type MatchService struct {
	seasonRepo      season.Repository
	competitionRepo competition.Repository
	teamRepo        team.Repository
	matchRepo       match.Repository
	resultRepo      result.Repository
	settlement      *SettlementService
	idGen           idgen.Generator
	closeLead       time.Duration
	logger          *logging.Logger
	now             func() time.Time
}

func NewMatchService(
	seasonRepo season.Repository,
	competitionRepo competition.Repository,
	teamRepo team.Repository,
	matchRepo match.Repository,
	resultRepo result.Repository,
	settlementService *SettlementService,
	idGen idgen.Generator,
	closeLead time.Duration,
	logger *logging.Logger,
) *MatchService {
	if logger == nil {
		logger = logging.Default()
	}
	if closeLead <= 0 {
		closeLead = match.DefaultBettingCloseLead
	}

	return &MatchService{
		seasonRepo:      seasonRepo,
		competitionRepo: competitionRepo,
		teamRepo:        teamRepo,
		matchRepo:       matchRepo,
		resultRepo:      resultRepo,
		settlement:      settlementService,
		idGen:           idGen,
		closeLead:       closeLead,
		logger:          logger,
		now:             time.Now,
	}
}

// Schedule creates a match with its companion scheduled result.
func (s *MatchService) Schedule(ctx context.Context, input ScheduleMatchInput) (match.Match, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.Schedule")
	defer span.End()

	comp, err := getCompetition(ctx, s.competitionRepo, input.CompetitionID)
	if err != nil {
		return match.Match{}, err
	}
	if competition.Transitions.IsTerminal(comp.Status) {
		return match.Match{}, errors.Wrapf(ErrConflict, "competition %s is %s", comp.ID, comp.Status)
	}

	home, err := getTeam(ctx, s.teamRepo, input.HomeTeamID)
	if err != nil {
		return match.Match{}, err
	}
	away, err := getTeam(ctx, s.teamRepo, input.AwayTeamID)
	if err != nil {
		return match.Match{}, err
	}
	if home.SportID != comp.SportID || away.SportID != comp.SportID {
		return match.Match{}, invalidInput("teams must play the competition sport %s", comp.SportID)
	}
	if input.ScheduledAt.IsZero() {
		return match.Match{}, invalidInput("scheduled time is required")
	}

	matchID, err := s.idGen.NewID()
	if err != nil {
		return match.Match{}, errors.Wrap(err, "generate match id")
	}
	resultID, err := s.idGen.NewID()
	if err != nil {
		return match.Match{}, errors.Wrap(err, "generate result id")
	}

	now := s.now().UTC()
	item := match.Match{
		ID:            matchID,
		CompetitionID: comp.ID,
		HomeTeamID:    home.ID,
		AwayTeamID:    away.ID,
		Round:         input.Round,
		Venue:         strings.TrimSpace(input.Venue),
		Status:        match.StatusScheduled,
		CreatedAt:     now,
		UpdatedAt:     now,
	}.Schedule(input.ScheduledAt.UTC(), s.closeLead)
	if err := item.Validate(); err != nil {
		return match.Match{}, markInvalid(err)
	}

	if err := s.matchRepo.Create(ctx, item); err != nil {
		recordSpanError(span, err)
		return match.Match{}, errors.Wrap(err, "create match")
	}
	if err := s.resultRepo.Upsert(ctx, result.New(resultID, item, now)); err != nil {
		recordSpanError(span, err)
		return match.Match{}, errors.Wrap(err, "create result")
	}

	s.logger.InfoContext(ctx, "match scheduled",
		"match_id", item.ID,
		"competition_id", item.CompetitionID,
		"scheduled_at", item.ScheduledAt,
		"betting_closes_at", item.BettingClosesAt,
	)
	return item, nil
}

func (s *MatchService) Get(ctx context.Context, matchID string) (match.Match, error) {
	return getMatch(ctx, s.matchRepo, matchID)
}

// GetResult returns the stored result, or one reconciled from a finished match.
func (s *MatchService) GetResult(ctx context.Context, matchID string) (result.Result, error) {
	m, err := getMatch(ctx, s.matchRepo, matchID)
	if err != nil {
		return result.Result{}, err
	}
	stored, exists, err := s.resultRepo.GetByMatch(ctx, m.ID)
	if err != nil {
		return result.Result{}, errors.Wrap(err, "get result by match")
	}
	if exists {
		return stored, nil
	}
	if synthesised, ok := result.FromMatch(m); ok {
		return synthesised, nil
	}
	return result.Result{}, notFound("result", m.ID)
}

func (s *MatchService) ListByCompetition(ctx context.Context, competitionID string) ([]match.Match, error) {
	comp, err := getCompetition(ctx, s.competitionRepo, competitionID)
	if err != nil {
		return nil, err
	}
	items, err := s.matchRepo.ListByCompetition(ctx, comp.ID)
	if err != nil {
		return nil, errors.Wrap(err, "list matches by competition")
	}
	return items, nil
}

// Postpone moves the match to postponed; a non-nil kickoff also shifts the betting cutoff.
func (s *MatchService) Postpone(ctx context.Context, matchID string, kickoff *time.Time) (match.Match, error) {
	return s.apply(ctx, "Postpone", matchID, func(m match.Match, now time.Time) (match.Match, error) {
		return m.Postpone(utcPtr(kickoff), s.closeLead, now)
	})
}

func (s *MatchService) Reschedule(ctx context.Context, matchID string, kickoff time.Time) (match.Match, error) {
	if kickoff.IsZero() {
		return match.Match{}, invalidInput("kickoff is required")
	}
	return s.apply(ctx, "Reschedule", matchID, func(m match.Match, now time.Time) (match.Match, error) {
		return m.Reschedule(kickoff.UTC(), s.closeLead, now)
	})
}

// Kickoff starts the match and activates its pending bets.
func (s *MatchService) Kickoff(ctx context.Context, matchID string) (match.Match, error) {
	started, err := s.apply(ctx, "Kickoff", matchID, match.Match.Kickoff)
	if err != nil {
		return match.Match{}, err
	}
	s.activateBets(ctx, started.ID)
	return started, nil
}

func (s *MatchService) Advance(ctx context.Context, matchID string, stage match.Status) (match.Match, error) {
	return s.apply(ctx, "Advance", matchID, func(m match.Match, now time.Time) (match.Match, error) {
		return m.Advance(stage, now)
	})
}

func (s *MatchService) UpdateScores(ctx context.Context, matchID string, scores match.Scores) (match.Match, error) {
	return s.apply(ctx, "UpdateScores", matchID, func(m match.Match, now time.Time) (match.Match, error) {
		return m.UpdateScores(scores, now)
	})
}

// RefreshStatus starts a scheduled match whose kickoff passed.
func (s *MatchService) RefreshStatus(ctx context.Context, matchID string) (match.Match, error) {
	m, err := getMatch(ctx, s.matchRepo, matchID)
	if err != nil {
		return match.Match{}, err
	}
	if _, changed := m.Refresh(s.now().UTC()); !changed {
		return m, nil
	}
	return s.Kickoff(ctx, m.ID)
}

// Cancel calls the match off and voids its bets.
func (s *MatchService) Cancel(ctx context.Context, matchID string) (MatchOutcome, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.Cancel", attribute.String("match_id", matchID))
	defer span.End()

	m, unlock, err := s.lockMatch(ctx, matchID)
	if err != nil {
		return MatchOutcome{}, err
	}
	defer unlock()

	now := s.now().UTC()
	cancelled, err := m.Cancel(now)
	if err != nil {
		return MatchOutcome{}, err
	}

	res, err := s.loadResult(ctx, m, now)
	if err != nil {
		return MatchOutcome{}, err
	}
	if result.Transitions.Allows(res.Status, result.StatusCancelled) {
		res.Status = result.StatusCancelled
		res.UpdatedAt = now
	} else if res, err = res.Abandon(now); err != nil {
		return MatchOutcome{}, err
	}

	return s.commit(ctx, unlock, cancelled, res, outcome.Outcome{})
}

// AbandonResult records that a started match will not be completed. The match is
// cancelled and its bets voided.
func (s *MatchService) AbandonResult(ctx context.Context, matchID string) (MatchOutcome, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.AbandonResult", attribute.String("match_id", matchID))
	defer span.End()

	m, unlock, err := s.lockMatch(ctx, matchID)
	if err != nil {
		return MatchOutcome{}, err
	}
	defer unlock()

	now := s.now().UTC()
	res, err := s.loadResult(ctx, m, now)
	if err != nil {
		return MatchOutcome{}, err
	}
	abandoned, err := res.Abandon(now)
	if err != nil {
		return MatchOutcome{}, err
	}
	cancelled, err := m.Cancel(now)
	if err != nil {
		return MatchOutcome{}, err
	}

	return s.commit(ctx, unlock, cancelled, abandoned, outcome.Outcome{})
}

// SubmitResult finalises the official result, finishes the match with the same
// scores and settles the match's bets.
func (s *MatchService) SubmitResult(ctx context.Context, input SubmitResultInput) (MatchOutcome, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.SubmitResult", attribute.String("match_id", input.MatchID))
	defer span.End()

	m, unlock, err := s.lockMatch(ctx, input.MatchID)
	if err != nil {
		return MatchOutcome{}, err
	}
	defer unlock()

	rules, err := rulesForMatch(ctx, s.competitionRepo, s.seasonRepo, m)
	if err != nil {
		return MatchOutcome{}, err
	}

	now := s.now().UTC()
	res, err := s.loadResult(ctx, m, now)
	if err != nil {
		return MatchOutcome{}, err
	}
	if res.IsFinal() || res.IsVoid() {
		return MatchOutcome{}, errors.Wrapf(ErrConflict, "result of match %s is already %s", m.ID, res.Status)
	}

	finalised, err := res.Finalize(input.Scores, input.VerifiedBy, rules.AllowDraws, now)
	if err != nil {
		recordSpanError(span, err)
		return MatchOutcome{}, err
	}

	finished := m
	var resolved outcome.Outcome
	if m.IsFinished() {
		if _, err := settlement.Effective(m, &finalised); err != nil {
			return MatchOutcome{}, errors.Mark(err, ErrConflict)
		}
		if resolved, err = outcome.ResolveWithPolicy(m.ScoreSet(), rules.AllowDraws); err != nil {
			return MatchOutcome{}, err
		}
	} else if finished, resolved, err = m.Finish(input.Scores, rules.AllowDraws, now); err != nil {
		recordSpanError(span, err)
		return MatchOutcome{}, err
	}

	return s.commit(ctx, unlock, finished, finalised, resolved)
}

// commit persists the terminal result and match while the match lock is held, then
// releases the lock and settles the match's bets.
func (s *MatchService) commit(ctx context.Context, unlock func(), m match.Match, res result.Result, resolved outcome.Outcome) (MatchOutcome, error) {
	if err := s.resultRepo.Upsert(ctx, res); err != nil {
		if errors.Is(err, result.ErrTerminal) {
			return MatchOutcome{}, errors.Mark(errors.Wrap(err, "save result"), ErrConflict)
		}
		return MatchOutcome{}, errors.Wrap(err, "save result")
	}
	if err := s.matchRepo.Update(ctx, m); err != nil {
		return MatchOutcome{}, errors.Wrap(err, "update match")
	}
	unlock()

	out := MatchOutcome{Match: m, Result: res, Outcome: resolved}
	report, err := s.settlement.SettleMatch(ctx, m.ID)
	if err != nil {
		return out, errors.Wrap(err, "settle match")
	}
	out.Settlement = report

	s.logger.InfoContext(ctx, "match result committed",
		"match_id", m.ID,
		"match_status", m.Status,
		"result_status", res.Status,
		"outcome", resolved.String(),
	)
	return out, nil
}

// apply runs a match transition, persists it and keeps the result in step.
func (s *MatchService) apply(
	ctx context.Context,
	op string,
	matchID string,
	fn func(match.Match, time.Time) (match.Match, error),
) (match.Match, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService."+op, attribute.String("match_id", matchID))
	defer span.End()

	m, unlock, err := s.lockMatch(ctx, matchID)
	if err != nil {
		return match.Match{}, err
	}
	defer unlock()

	now := s.now().UTC()
	next, err := fn(m, now)
	if err != nil {
		recordSpanError(span, err)
		return match.Match{}, err
	}
	if err := next.Validate(); err != nil {
		return match.Match{}, markInvalid(err)
	}
	if err := s.matchRepo.Update(ctx, next); err != nil {
		recordSpanError(span, err)
		return match.Match{}, errors.Wrap(err, "update match")
	}

	res, err := s.loadResult(ctx, next, now)
	if err != nil {
		return match.Match{}, err
	}
	if !result.Transitions.IsTerminal(res.Status) {
		if err := s.resultRepo.Upsert(ctx, res.Sync(next, now)); err != nil {
			return match.Match{}, errors.Wrap(err, "sync result")
		}
	}

	s.logger.InfoContext(ctx, "match updated", "match_id", m.ID, "op", op, "from", m.Status, "to", next.Status)
	return next, nil
}

// lockMatch takes the per-match lock shared with bet placement and settlement, then
// reads the match under it.
func (s *MatchService) lockMatch(ctx context.Context, matchID string) (match.Match, func(), error) {
	matchID, err := requireID("match", matchID)
	if err != nil {
		return match.Match{}, nil, err
	}
	unlock, err := s.settlement.locks.Lock(ctx, matchID)
	if err != nil {
		return match.Match{}, nil, lockUnavailable(err, "lock match for update")
	}
	m, err := getMatch(ctx, s.matchRepo, matchID)
	if err != nil {
		unlock()
		return match.Match{}, nil, err
	}
	return m, unlock, nil
}

// loadResult returns the stored result or a fresh scheduled one for matches created
// before results were tracked.
func (s *MatchService) loadResult(ctx context.Context, m match.Match, now time.Time) (result.Result, error) {
	stored, exists, err := s.resultRepo.GetByMatch(ctx, m.ID)
	if err != nil {
		return result.Result{}, errors.Wrap(err, "get result by match")
	}
	if exists {
		return stored, nil
	}

	id, err := s.idGen.NewID()
	if err != nil {
		return result.Result{}, errors.Wrap(err, "generate result id")
	}
	return result.New(id, m, now), nil
}

func (s *MatchService) activateBets(ctx context.Context, matchID string) {
	count, err := s.settlement.ActivateBets(ctx, matchID)
	if err != nil {
		s.logger.WarnContext(ctx, "activate bets failed", "match_id", matchID, "error", err)
		return
	}
	if count > 0 {
		s.logger.InfoContext(ctx, "bets activated", "match_id", matchID, "count", count)
	}
}

func utcPtr(v *time.Time) *time.Time {
	if v == nil {
		return nil
	}
	out := v.UTC()
	return &out
}
