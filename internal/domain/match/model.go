package match

import (
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/riskibarqy/prediction-league/internal/domain/lifecycle"
	"github.com/riskibarqy/prediction-league/internal/domain/outcome"
)

// DefaultBettingCloseLead is how long before kickoff predictions stop being accepted.
const DefaultBettingCloseLead = 15 * time.Minute

type Status string

const (
	StatusScheduled Status = "scheduled"
	StatusPostponed Status = "postponed"
	StatusCancelled Status = "cancelled"
	StatusLive      Status = "live"
	StatusHalftime  Status = "halftime"
	StatusExtraTime Status = "extra_time"
	StatusPenalties Status = "penalties"
	StatusFinished  Status = "finished"
)

var Transitions = lifecycle.Table[Status]{
	StatusScheduled: {StatusLive, StatusPostponed, StatusCancelled, StatusFinished},
	StatusPostponed: {StatusScheduled, StatusPostponed, StatusCancelled},
	StatusLive:      {StatusHalftime, StatusExtraTime, StatusPenalties, StatusFinished, StatusCancelled},
	StatusHalftime:  {StatusLive, StatusCancelled},
	StatusExtraTime: {StatusPenalties, StatusFinished, StatusCancelled},
	StatusPenalties: {StatusFinished, StatusCancelled},
	StatusFinished:  nil,
	StatusCancelled: nil,
}

func ParseStatus(value string) (Status, error) {
	status := Status(strings.ToLower(strings.TrimSpace(value)))
	if !Transitions.Known(status) {
		return "", errors.Newf("unknown match status %q", value)
	}
	return status, nil
}

func (s Status) InPlay() bool {
	switch s {
	case StatusLive, StatusHalftime, StatusExtraTime, StatusPenalties:
		return true
	default:
		return false
	}
}

// Match is one fixture between two teams inside a competition.
type Match struct {
	ID              string
	CompetitionID   string
	HomeTeamID      string
	AwayTeamID      string
	Round           int
	Venue           string
	ScheduledAt     time.Time
	BettingClosesAt time.Time
	Status          Status
	HomeScore       int
	AwayScore       int
	ExtraTimeHome   *int
	ExtraTimeAway   *int
	PenaltyHome     *int
	PenaltyAway     *int
	StartedAt       *time.Time
	FinishedAt      *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Scores is the score part of a match update.
type Scores struct {
	Home          int
	Away          int
	ExtraTimeHome *int
	ExtraTimeAway *int
	PenaltyHome   *int
	PenaltyAway   *int
}

func (m Match) Validate() error {
	if strings.TrimSpace(m.ID) == "" {
		return errors.New("match id is required")
	}
	if strings.TrimSpace(m.CompetitionID) == "" {
		return errors.New("match competition id is required")
	}
	if strings.TrimSpace(m.HomeTeamID) == "" || strings.TrimSpace(m.AwayTeamID) == "" {
		return errors.New("match needs both home and away team")
	}
	if m.HomeTeamID == m.AwayTeamID {
		return errors.Newf("match home and away team must differ: %s", m.HomeTeamID)
	}
	if m.ScheduledAt.IsZero() {
		return errors.New("match scheduled time is required")
	}
	if m.StartedAt != nil && m.FinishedAt != nil && !m.FinishedAt.After(*m.StartedAt) {
		return errors.New("match must finish after it started")
	}
	if m.Status != "" && !Transitions.Known(m.Status) {
		return errors.Newf("unknown match status %q", m.Status)
	}
	return nil
}

// ScoreSet exposes the scoreline for outcome resolution, flagging the stage the
// match reached from its status and recorded sub-scores.
func (m Match) ScoreSet() outcome.ScoreSet {
	reachedPenalties := m.Status == StatusPenalties || m.PenaltyHome != nil || m.PenaltyAway != nil
	reachedExtraTime := reachedPenalties || m.Status == StatusExtraTime || m.ExtraTimeHome != nil || m.ExtraTimeAway != nil
	return outcome.ScoreSet{
		Home:             m.HomeScore,
		Away:             m.AwayScore,
		ExtraTimeHome:    m.ExtraTimeHome,
		ExtraTimeAway:    m.ExtraTimeAway,
		PenaltyHome:      m.PenaltyHome,
		PenaltyAway:      m.PenaltyAway,
		ReachedExtraTime: reachedExtraTime,
		ReachedPenalties: reachedPenalties,
	}
}

func (m Match) IsFinished() bool {
	return m.Status == StatusFinished
}

// BettingOpen reports whether predictions are still accepted at now.
func (m Match) BettingOpen(now time.Time) bool {
	return m.Status == StatusScheduled && now.Before(m.BettingClosesAt)
}

// Schedule sets kickoff and the derived betting cutoff.
func (m Match) Schedule(kickoff time.Time, lead time.Duration) Match {
	if lead <= 0 {
		lead = DefaultBettingCloseLead
	}
	m.ScheduledAt = kickoff
	m.BettingClosesAt = kickoff.Add(-lead)
	return m
}

// DeriveStatus returns live once kickoff has passed for a scheduled match; every
// other status is only changed explicitly.
func (m Match) DeriveStatus(now time.Time) Status {
	if m.Status == StatusScheduled && !now.Before(m.ScheduledAt) {
		return StatusLive
	}
	return m.Status
}

func (m Match) transition(next Status, now time.Time) (Match, error) {
	if err := Transitions.Check(m.Status, next); err != nil {
		return m, errors.Wrapf(err, "match %s", m.ID)
	}
	m.Status = next
	m.UpdatedAt = now
	return m, nil
}

// Postpone moves the match to postponed. A non-nil kickoff shifts the schedule and
// recomputes the betting cutoff.
func (m Match) Postpone(kickoff *time.Time, lead time.Duration, now time.Time) (Match, error) {
	out, err := m.transition(StatusPostponed, now)
	if err != nil {
		return m, err
	}
	if kickoff != nil {
		out = out.Schedule(*kickoff, lead)
	}
	return out, nil
}

// Reschedule puts a postponed match back on the calendar.
func (m Match) Reschedule(kickoff time.Time, lead time.Duration, now time.Time) (Match, error) {
	if m.Status != StatusPostponed {
		return m, errors.Wrapf(lifecycle.ErrInvalidTransition, "match %s: reschedule requires %s, got %s", m.ID, StatusPostponed, m.Status)
	}
	out, err := m.transition(StatusScheduled, now)
	if err != nil {
		return m, err
	}
	return out.Schedule(kickoff, lead), nil
}

func (m Match) Kickoff(now time.Time) (Match, error) {
	if m.Status != StatusScheduled {
		return m, errors.Wrapf(lifecycle.ErrInvalidTransition, "match %s: kickoff requires %s, got %s", m.ID, StatusScheduled, m.Status)
	}
	out, err := m.transition(StatusLive, now)
	if err != nil {
		return m, err
	}
	started := now
	out.StartedAt = &started
	return out, nil
}

// Advance moves an in-play match between live stages.
func (m Match) Advance(stage Status, now time.Time) (Match, error) {
	if !stage.InPlay() {
		return m, errors.Wrapf(lifecycle.ErrInvalidTransition, "match %s: %s is not an in-play stage", m.ID, stage)
	}
	return m.transition(stage, now)
}

// UpdateScores records a running score while the match is in play.
func (m Match) UpdateScores(scores Scores, now time.Time) (Match, error) {
	if !m.Status.InPlay() {
		return m, errors.Wrapf(lifecycle.ErrInvalidTransition, "match %s: scores can only change in play, status=%s", m.ID, m.Status)
	}
	m = m.withScores(scores)
	m.UpdatedAt = now
	return m, nil
}

// Finish records the final scores. The scoreline must resolve under the season's
// draw policy before the match becomes finished.
func (m Match) Finish(scores Scores, allowDraws bool, now time.Time) (Match, outcome.Outcome, error) {
	if err := Transitions.Check(m.Status, StatusFinished); err != nil {
		return m, outcome.Outcome{}, errors.Wrapf(err, "match %s", m.ID)
	}

	candidate := m.withScores(scores)
	resolved, err := outcome.ResolveWithPolicy(candidate.ScoreSet(), allowDraws)
	if err != nil {
		return m, outcome.Outcome{}, errors.Wrapf(err, "match %s", m.ID)
	}
	if candidate.StartedAt != nil && !now.After(*candidate.StartedAt) {
		return m, outcome.Outcome{}, errors.Newf("match %s: finish time %s is not after start %s", m.ID, now.Format(time.RFC3339), candidate.StartedAt.Format(time.RFC3339))
	}

	candidate.Status = StatusFinished
	finished := now
	candidate.FinishedAt = &finished
	candidate.UpdatedAt = now
	return candidate, resolved, nil
}

func (m Match) Cancel(now time.Time) (Match, error) {
	return m.transition(StatusCancelled, now)
}

// Refresh applies DeriveStatus, stamping the start time when kickoff passed.
func (m Match) Refresh(now time.Time) (Match, bool) {
	if m.DeriveStatus(now) != StatusLive || m.Status == StatusLive {
		return m, false
	}
	out, err := m.Kickoff(now)
	if err != nil {
		return m, false
	}
	return out, true
}

func (m Match) withScores(scores Scores) Match {
	m.HomeScore = scores.Home
	m.AwayScore = scores.Away
	m.ExtraTimeHome = scores.ExtraTimeHome
	m.ExtraTimeAway = scores.ExtraTimeAway
	m.PenaltyHome = scores.PenaltyHome
	m.PenaltyAway = scores.PenaltyAway
	return m
}

func (m Match) Scores() Scores {
	return Scores{
		Home:          m.HomeScore,
		Away:          m.AwayScore,
		ExtraTimeHome: m.ExtraTimeHome,
		ExtraTimeAway: m.ExtraTimeAway,
		PenaltyHome:   m.PenaltyHome,
		PenaltyAway:   m.PenaltyAway,
	}
}
