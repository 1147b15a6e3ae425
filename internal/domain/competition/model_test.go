package competition

import (
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/riskibarqy/prediction-league/internal/domain/lifecycle"
)

func day(d int) time.Time {
	return time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, d)
}

func timePtr(v time.Time) *time.Time { return &v }

func sampleCompetition(status Status) Competition {
	return Competition{
		ID:                   "cup-2026",
		SeasonID:             "season-2026",
		SportID:              "football",
		Name:                 "Cup",
		Format:               FormatKnockout,
		Status:               status,
		StartDate:            day(30),
		EndDate:              timePtr(day(90)),
		RegistrationOpensAt:  timePtr(day(10)),
		RegistrationClosesAt: timePtr(day(20)),
		MinParticipants:      2,
		MaxParticipants:      16,
	}
}

func TestCompetition_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Competition)
		wantErr bool
	}{
		{name: "valid", mutate: func(*Competition) {}},
		{name: "unknown format", mutate: func(c *Competition) { c.Format = "pool" }, wantErr: true},
		{name: "too few participants", mutate: func(c *Competition) { c.MinParticipants = 1 }, wantErr: true},
		{name: "max below min", mutate: func(c *Competition) { c.MinParticipants = 8; c.MaxParticipants = 4 }, wantErr: true},
		{name: "end before start", mutate: func(c *Competition) { c.EndDate = timePtr(day(29)) }, wantErr: true},
		{name: "registration closes after start", mutate: func(c *Competition) { c.RegistrationClosesAt = timePtr(day(31)) }, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item := sampleCompetition(StatusUpcoming)
			tt.mutate(&item)
			if err := item.Validate(); (err != nil) != tt.wantErr {
				t.Fatalf("validate error=%v wantErr=%v", err, tt.wantErr)
			}
		})
	}
}

func TestCompetition_DeriveStatus(t *testing.T) {
	tests := []struct {
		name   string
		status Status
		now    time.Time
		want   Status
	}{
		{name: "before registration", status: StatusUpcoming, now: day(5), want: StatusUpcoming},
		{name: "registration open", status: StatusUpcoming, now: day(15), want: StatusRegistrationOpen},
		{name: "registration closed", status: StatusRegistrationOpen, now: day(25), want: StatusRegistrationClosed},
		{name: "past start never activates", status: StatusRegistrationClosed, now: day(40), want: StatusRegistrationClosed},
		{name: "active past end completes", status: StatusActive, now: day(90), want: StatusCompleted},
		{name: "active before end", status: StatusActive, now: day(60), want: StatusActive},
		{name: "cancelled stays cancelled", status: StatusCancelled, now: day(40), want: StatusCancelled},
		{name: "paused stays paused", status: StatusPaused, now: day(95), want: StatusPaused},
		{name: "draft stays draft", status: StatusDraft, now: day(15), want: StatusDraft},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := sampleCompetition(tt.status).DeriveStatus(tt.now); got != tt.want {
				t.Fatalf("got %s want %s", got, tt.want)
			}
		})
	}
}

func TestCompetition_ExplicitTransitions(t *testing.T) {
	now := day(35)

	started, err := sampleCompetition(StatusRegistrationClosed).Start(now)
	if err != nil || started.Status != StatusActive {
		t.Fatalf("expected start to activate, got %s err=%v", started.Status, err)
	}

	for _, status := range []Status{StatusDraft, StatusUpcoming, StatusRegistrationOpen, StatusPaused, StatusActive, StatusCancelled} {
		if _, err := sampleCompetition(status).Start(now); !errors.Is(err, lifecycle.ErrInvalidTransition) {
			t.Fatalf("start from %s: expected ErrInvalidTransition, got %v", status, err)
		}
	}

	completed, err := started.Complete(now)
	if err != nil || completed.Status != StatusCompleted {
		t.Fatalf("expected complete, got %s err=%v", completed.Status, err)
	}
	if _, err := sampleCompetition(StatusPaused).Complete(now); !errors.Is(err, lifecycle.ErrInvalidTransition) {
		t.Fatalf("complete from paused: expected ErrInvalidTransition, got %v", err)
	}

	if _, err := completed.Cancel(now); !errors.Is(err, lifecycle.ErrInvalidTransition) {
		t.Fatalf("cancel from completed: expected ErrInvalidTransition, got %v", err)
	}

	paused, err := started.Pause(now)
	if err != nil {
		t.Fatalf("pause: %v", err)
	}
	resumed, err := paused.Resume(now)
	if err != nil || resumed.Status != StatusActive {
		t.Fatalf("expected resume to active, got %s err=%v", resumed.Status, err)
	}
}

func TestCompetition_CancelledIsNeverResurrected(t *testing.T) {
	cancelled, err := sampleCompetition(StatusRegistrationOpen).Cancel(day(15))
	if err != nil {
		t.Fatalf("cancel: %v", err)
	}
	for _, now := range []time.Time{day(15), day(40), day(120)} {
		if refreshed, changed := cancelled.Refresh(now); changed || refreshed.Status != StatusCancelled {
			t.Fatalf("refresh at %s resurrected competition: %s", now.Format(time.DateOnly), refreshed.Status)
		}
	}
}

func TestCompetition_PublishAndRefresh(t *testing.T) {
	published, err := sampleCompetition(StatusDraft).Publish(day(15))
	if err != nil || published.Status != StatusRegistrationOpen {
		t.Fatalf("expected publish into open registration, got %s err=%v", published.Status, err)
	}
	if _, err := published.Publish(day(15)); !errors.Is(err, lifecycle.ErrInvalidTransition) {
		t.Fatalf("second publish: expected ErrInvalidTransition, got %v", err)
	}

	refreshed, changed := sampleCompetition(StatusUpcoming).Refresh(day(25))
	if !changed || refreshed.Status != StatusRegistrationClosed {
		t.Fatalf("expected refresh to registration_closed, got %s changed=%v", refreshed.Status, changed)
	}
}
