package season

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

func sampleSeason() Season {
	return Season{
		ID:                "season-2026",
		SportID:           "football",
		Name:              "2026",
		StartDate:         day(30),
		EndDate:           day(200),
		RegistrationStart: timePtr(day(10)),
		RegistrationEnd:   timePtr(day(25)),
		Rules:             DefaultScoringRules(),
		Status:            StatusUpcoming,
	}
}

func TestSeason_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Season)
		wantErr bool
	}{
		{name: "valid", mutate: func(*Season) {}},
		{name: "end before start", mutate: func(s *Season) { s.EndDate = s.StartDate }, wantErr: true},
		{name: "half registration window", mutate: func(s *Season) { s.RegistrationEnd = nil }, wantErr: true},
		{name: "registration after start", mutate: func(s *Season) { s.RegistrationEnd = timePtr(day(31)) }, wantErr: true},
		{name: "negative weight", mutate: func(s *Season) { s.Rules.PointsForLoss = -1 }, wantErr: true},
		{name: "unknown status", mutate: func(s *Season) { s.Status = "paused" }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item := sampleSeason()
			tt.mutate(&item)
			err := item.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("validate error=%v wantErr=%v", err, tt.wantErr)
			}
		})
	}
}

func TestSeason_DeriveStatus(t *testing.T) {
	item := sampleSeason()
	tests := []struct {
		now  time.Time
		want Status
	}{
		{now: day(0), want: StatusUpcoming},
		{now: day(10), want: StatusRegistration},
		{now: day(26), want: StatusUpcoming},
		{now: day(30), want: StatusActive},
		{now: day(200), want: StatusCompleted},
	}
	for _, tt := range tests {
		if got := item.DeriveStatus(tt.now); got != tt.want {
			t.Fatalf("derive at %s: got %s want %s", tt.now.Format(time.DateOnly), got, tt.want)
		}
	}

	cancelled := sampleSeason()
	cancelled.Status = StatusCancelled
	if got := cancelled.DeriveStatus(day(50)); got != StatusCancelled {
		t.Fatalf("cancelled season must stay cancelled, got %s", got)
	}

	playoffs := sampleSeason()
	playoffs.Status = StatusPlayoffs
	if got := playoffs.DeriveStatus(day(150)); got != StatusPlayoffs {
		t.Fatalf("playoffs must hold until end date, got %s", got)
	}
}

func TestSeason_Refresh(t *testing.T) {
	stale, changed := sampleSeason().Refresh(day(250))
	if !changed || stale.Status != StatusCompleted {
		t.Fatalf("expected stale upcoming season to complete, got %s changed=%v", stale.Status, changed)
	}

	cancelled := sampleSeason()
	cancelled.Status = StatusCancelled
	if _, changed := cancelled.Refresh(day(50)); changed {
		t.Fatalf("cancelled season must not change")
	}
}

func TestSeason_Transition(t *testing.T) {
	active := sampleSeason()
	active.Status = StatusActive

	got, err := active.Transition(StatusPlayoffs, day(100))
	if err != nil || got.Status != StatusPlayoffs {
		t.Fatalf("expected playoffs, got %s err=%v", got.Status, err)
	}

	completed := sampleSeason()
	completed.Status = StatusCompleted
	if _, err := completed.Transition(StatusActive, day(100)); !errors.Is(err, lifecycle.ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
}
