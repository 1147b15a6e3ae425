package season

import (
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/riskibarqy/prediction-league/internal/domain/lifecycle"
)

type Status string

const (
	StatusUpcoming     Status = "upcoming"
	StatusRegistration Status = "registration"
	StatusActive       Status = "active"
	StatusPlayoffs     Status = "playoffs"
	StatusCompleted    Status = "completed"
	StatusCancelled    Status = "cancelled"
)

var Transitions = lifecycle.Table[Status]{
	StatusUpcoming:     {StatusRegistration, StatusActive, StatusCancelled},
	StatusRegistration: {StatusUpcoming, StatusActive, StatusCancelled},
	StatusActive:       {StatusPlayoffs, StatusCompleted, StatusCancelled},
	StatusPlayoffs:     {StatusCompleted, StatusCancelled},
	StatusCompleted:    nil,
	StatusCancelled:    nil,
}

func ParseStatus(value string) (Status, error) {
	status := Status(strings.ToLower(strings.TrimSpace(value)))
	if !Transitions.Known(status) {
		return "", errors.Newf("unknown season status %q", value)
	}
	return status, nil
}

// ScoringRules are the standings weights configured on a season.
type ScoringRules struct {
	PointsForWin  int
	PointsForDraw int
	PointsForLoss int
	AllowDraws    bool
}

func DefaultScoringRules() ScoringRules {
	return ScoringRules{
		PointsForWin:  3,
		PointsForDraw: 1,
		PointsForLoss: 0,
		AllowDraws:    true,
	}
}

// Season groups competitions of one sport over a date range.
type Season struct {
	ID                string
	SportID           string
	Name              string
	StartDate         time.Time
	EndDate           time.Time
	RegistrationStart *time.Time
	RegistrationEnd   *time.Time
	Rules             ScoringRules
	Status            Status
	IsActive          bool
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

func (s Season) Validate() error {
	if strings.TrimSpace(s.ID) == "" {
		return errors.New("season id is required")
	}
	if strings.TrimSpace(s.SportID) == "" {
		return errors.New("season sport id is required")
	}
	if strings.TrimSpace(s.Name) == "" {
		return errors.New("season name is required")
	}
	if !s.EndDate.After(s.StartDate) {
		return errors.New("season end date must be after start date")
	}
	if (s.RegistrationStart == nil) != (s.RegistrationEnd == nil) {
		return errors.New("season registration window needs both start and end")
	}
	if s.RegistrationStart != nil {
		if !s.RegistrationEnd.After(*s.RegistrationStart) {
			return errors.New("season registration end must be after registration start")
		}
		if !s.RegistrationEnd.Before(s.StartDate) {
			return errors.New("season registration must end before the season starts")
		}
	}
	if s.Rules.PointsForWin < 0 || s.Rules.PointsForDraw < 0 || s.Rules.PointsForLoss < 0 {
		return errors.New("season scoring weights must not be negative")
	}
	if s.Status != "" && !Transitions.Known(s.Status) {
		return errors.Newf("unknown season status %q", s.Status)
	}
	return nil
}

// DeriveStatus computes the date-driven status at now. Terminal statuses are returned
// as stored, and a season already in playoffs stays there until its end date.
func (s Season) DeriveStatus(now time.Time) Status {
	if Transitions.IsTerminal(s.Status) && s.Status != "" {
		return s.Status
	}

	switch {
	case !now.Before(s.EndDate):
		return StatusCompleted
	case !now.Before(s.StartDate):
		if s.Status == StatusPlayoffs {
			return StatusPlayoffs
		}
		return StatusActive
	case s.RegistrationStart != nil && !now.Before(*s.RegistrationStart) && now.Before(*s.RegistrationEnd):
		return StatusRegistration
	default:
		return StatusUpcoming
	}
}

// Transition moves the season to next if the table allows it.
func (s Season) Transition(next Status, now time.Time) (Season, error) {
	if err := Transitions.Check(s.Status, next); err != nil {
		return s, errors.Wrapf(err, "season %s", s.ID)
	}
	s.Status = next
	s.UpdatedAt = now
	return s, nil
}

// Refresh walks the stored status toward DeriveStatus along legal moves only.
// It reports whether the status changed.
func (s Season) Refresh(now time.Time) (Season, bool) {
	path := Transitions.Path(s.Status, s.DeriveStatus(now))
	if len(path) == 0 {
		return s, false
	}
	s.Status = path[len(path)-1]
	s.UpdatedAt = now
	return s, true
}
