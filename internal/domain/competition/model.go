package competition

import (
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/riskibarqy/prediction-league/internal/domain/lifecycle"
)

type Format string

const (
	FormatLeague      Format = "league"
	FormatTournament  Format = "tournament"
	FormatKnockout    Format = "knockout"
	FormatRoundRobin  Format = "round_robin"
	FormatSwissSystem Format = "swiss_system"
	FormatElimination Format = "elimination"
	FormatLadder      Format = "ladder"
)

var AllFormats = map[Format]struct{}{
	FormatLeague:      {},
	FormatTournament:  {},
	FormatKnockout:    {},
	FormatRoundRobin:  {},
	FormatSwissSystem: {},
	FormatElimination: {},
	FormatLadder:      {},
}

type Status string

const (
	StatusDraft              Status = "draft"
	StatusUpcoming           Status = "upcoming"
	StatusRegistrationOpen   Status = "registration_open"
	StatusRegistrationClosed Status = "registration_closed"
	StatusActive             Status = "active"
	StatusPaused             Status = "paused"
	StatusCompleted          Status = "completed"
	StatusCancelled          Status = "cancelled"
)

var Transitions = lifecycle.Table[Status]{
	StatusDraft:              {StatusUpcoming, StatusRegistrationOpen, StatusRegistrationClosed, StatusCancelled},
	StatusUpcoming:           {StatusRegistrationOpen, StatusRegistrationClosed, StatusCancelled},
	StatusRegistrationOpen:   {StatusRegistrationClosed, StatusCancelled},
	StatusRegistrationClosed: {StatusActive, StatusCancelled},
	StatusActive:             {StatusPaused, StatusCompleted, StatusCancelled},
	StatusPaused:             {StatusActive, StatusCancelled},
	StatusCompleted:          nil,
	StatusCancelled:          nil,
}

func ParseStatus(value string) (Status, error) {
	status := Status(strings.ToLower(strings.TrimSpace(value)))
	if !Transitions.Known(status) {
		return "", errors.Newf("unknown competition status %q", value)
	}
	return status, nil
}

// Competition is one tournament or league table inside a season.
type Competition struct {
	ID                   string
	SeasonID             string
	SportID              string
	Name                 string
	Format               Format
	Status               Status
	StartDate            time.Time
	EndDate              *time.Time
	RegistrationOpensAt  *time.Time
	RegistrationClosesAt *time.Time
	MinParticipants      int
	MaxParticipants      int
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

func (c Competition) Validate() error {
	if strings.TrimSpace(c.ID) == "" {
		return errors.New("competition id is required")
	}
	if strings.TrimSpace(c.SeasonID) == "" {
		return errors.New("competition season id is required")
	}
	if strings.TrimSpace(c.SportID) == "" {
		return errors.New("competition sport id is required")
	}
	if strings.TrimSpace(c.Name) == "" {
		return errors.New("competition name is required")
	}
	if _, ok := AllFormats[c.Format]; !ok {
		return errors.Newf("unknown competition format %q", c.Format)
	}
	if c.MinParticipants < 2 {
		return errors.New("competition needs at least 2 participants")
	}
	if c.MaxParticipants < c.MinParticipants {
		return errors.Newf("competition max participants %d is below min %d", c.MaxParticipants, c.MinParticipants)
	}
	if c.EndDate != nil && !c.EndDate.After(c.StartDate) {
		return errors.New("competition end date must be after start date")
	}
	if (c.RegistrationOpensAt == nil) != (c.RegistrationClosesAt == nil) {
		return errors.New("competition registration window needs both open and close")
	}
	if c.RegistrationOpensAt != nil {
		if !c.RegistrationClosesAt.After(*c.RegistrationOpensAt) {
			return errors.New("competition registration must close after it opens")
		}
		if c.RegistrationClosesAt.After(c.StartDate) {
			return errors.New("competition registration must close before the start date")
		}
	}
	if c.Status != "" && !Transitions.Known(c.Status) {
		return errors.Newf("unknown competition status %q", c.Status)
	}
	return nil
}

// DeriveStatus computes the date-driven status at now. Draft, paused and terminal
// statuses are administrative and returned as stored. Derivation never starts a
// competition: past the start date it stays registration_closed until Start.
func (c Competition) DeriveStatus(now time.Time) Status {
	switch c.Status {
	case StatusDraft, StatusPaused, StatusCompleted, StatusCancelled:
		return c.Status
	case StatusActive:
		if c.EndDate != nil && !now.Before(*c.EndDate) {
			return StatusCompleted
		}
		return StatusActive
	}

	if !now.Before(c.StartDate) {
		return StatusRegistrationClosed
	}
	if c.RegistrationOpensAt == nil {
		return StatusUpcoming
	}
	switch {
	case now.Before(*c.RegistrationOpensAt):
		return StatusUpcoming
	case now.Before(*c.RegistrationClosesAt):
		return StatusRegistrationOpen
	default:
		return StatusRegistrationClosed
	}
}

// Refresh walks the stored status toward DeriveStatus along legal moves only.
func (c Competition) Refresh(now time.Time) (Competition, bool) {
	path := Transitions.Path(c.Status, c.DeriveStatus(now))
	if len(path) == 0 {
		return c, false
	}
	c.Status = path[len(path)-1]
	c.UpdatedAt = now
	return c, true
}

func (c Competition) transition(next Status, now time.Time) (Competition, error) {
	if err := Transitions.Check(c.Status, next); err != nil {
		return c, errors.Wrapf(err, "competition %s", c.ID)
	}
	c.Status = next
	c.UpdatedAt = now
	return c, nil
}

// Publish moves a draft competition to its date-driven status.
func (c Competition) Publish(now time.Time) (Competition, error) {
	if c.Status != StatusDraft {
		return c, errors.Wrapf(lifecycle.ErrInvalidTransition, "competition %s: publish requires %s, got %s", c.ID, StatusDraft, c.Status)
	}
	published := c
	published.Status = StatusUpcoming
	target := published.DeriveStatus(now)
	return c.transition(target, now)
}

func (c Competition) Start(now time.Time) (Competition, error) {
	if c.Status != StatusRegistrationClosed {
		return c, errors.Wrapf(lifecycle.ErrInvalidTransition, "competition %s: start requires %s, got %s", c.ID, StatusRegistrationClosed, c.Status)
	}
	return c.transition(StatusActive, now)
}

func (c Competition) Complete(now time.Time) (Competition, error) {
	if c.Status != StatusActive {
		return c, errors.Wrapf(lifecycle.ErrInvalidTransition, "competition %s: complete requires %s, got %s", c.ID, StatusActive, c.Status)
	}
	return c.transition(StatusCompleted, now)
}

func (c Competition) Cancel(now time.Time) (Competition, error) {
	return c.transition(StatusCancelled, now)
}

func (c Competition) Pause(now time.Time) (Competition, error) {
	return c.transition(StatusPaused, now)
}

func (c Competition) Resume(now time.Time) (Competition, error) {
	if c.Status != StatusPaused {
		return c, errors.Wrapf(lifecycle.ErrInvalidTransition, "competition %s: resume requires %s, got %s", c.ID, StatusPaused, c.Status)
	}
	return c.transition(StatusActive, now)
}
