package outcome

import (
	"testing"

	"github.com/cockroachdb/errors"
)

func intPtr(v int) *int { return &v }

func TestResolve(t *testing.T) {
	tests := []struct {
		name      string
		scores    ScoreSet
		want      Outcome
		targetErr error
	}{
		{
			name:   "home win in regulation",
			scores: ScoreSet{Home: 2, Away: 1},
			want:   HomeWin,
		},
		{
			name:   "away win in regulation",
			scores: ScoreSet{Home: 0, Away: 3},
			want:   AwayWin,
		},
		{
			name:   "plain draw",
			scores: ScoreSet{Home: 1, Away: 1},
			want:   Draw,
		},
		{
			name:   "extra time decides",
			scores: ScoreSet{Home: 1, Away: 1, ExtraTimeHome: intPtr(0), ExtraTimeAway: intPtr(1), ReachedExtraTime: true},
			want:   AwayWin,
		},
		{
			name:   "nil extra time counts as zero",
			scores: ScoreSet{Home: 2, Away: 1, ExtraTimeAway: intPtr(0)},
			want:   HomeWin,
		},
		{
			name: "penalties decide",
			scores: ScoreSet{
				Home: 1, Away: 1,
				ExtraTimeHome: intPtr(0), ExtraTimeAway: intPtr(0),
				PenaltyHome: intPtr(4), PenaltyAway: intPtr(5),
				ReachedExtraTime: true, ReachedPenalties: true,
			},
			want: AwayWin,
		},
		{
			name:      "equal penalties rejected",
			scores:    ScoreSet{Home: 0, Away: 0, PenaltyHome: intPtr(3), PenaltyAway: intPtr(3)},
			targetErr: ErrInconsistentScore,
		},
		{
			name:      "one sided penalties rejected",
			scores:    ScoreSet{Home: 0, Away: 0, PenaltyHome: intPtr(3)},
			targetErr: ErrInconsistentScore,
		},
		{
			name:      "tie after extra time without penalties rejected",
			scores:    ScoreSet{Home: 1, Away: 1, ExtraTimeHome: intPtr(1), ExtraTimeAway: intPtr(1), ReachedExtraTime: true},
			targetErr: ErrInconsistentScore,
		},
		{
			name:      "penalty stage without penalty score rejected",
			scores:    ScoreSet{Home: 2, Away: 2, ReachedPenalties: true},
			targetErr: ErrInconsistentScore,
		},
		{
			name:      "negative score rejected",
			scores:    ScoreSet{Home: -1, Away: 0},
			targetErr: ErrInconsistentScore,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Resolve(tt.scores)
			if tt.targetErr != nil {
				if !errors.Is(err, tt.targetErr) {
					t.Fatalf("expected error %v, got %v", tt.targetErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Fatalf("unexpected outcome: got=%s want=%s", got, tt.want)
			}
		})
	}
}

func TestResolve_TiedTotalsWithoutPenaltiesAreDraws(t *testing.T) {
	for home := 0; home <= 5; home++ {
		for et := 0; et <= 2; et++ {
			scores := ScoreSet{Home: home, Away: home, ExtraTimeHome: intPtr(et), ExtraTimeAway: intPtr(et)}
			got, err := Resolve(scores)
			if err != nil {
				t.Fatalf("resolve %d-%d (et %d): %v", home, home, et, err)
			}
			if !got.IsDraw || got.Winner != SideNone {
				t.Fatalf("expected draw for %d-%d, got %+v", home, home, got)
			}
		}
	}
}

func TestResolve_UnequalPenaltiesPickHigherSide(t *testing.T) {
	for ph := 0; ph <= 6; ph++ {
		for pa := 0; pa <= 6; pa++ {
			scores := ScoreSet{Home: 1, Away: 1, PenaltyHome: intPtr(ph), PenaltyAway: intPtr(pa), ReachedPenalties: true}
			got, err := Resolve(scores)
			if ph == pa {
				if !errors.Is(err, ErrInconsistentScore) {
					t.Fatalf("expected inconsistent score for %d-%d penalties, got %v", ph, pa, err)
				}
				continue
			}
			if err != nil {
				t.Fatalf("resolve penalties %d-%d: %v", ph, pa, err)
			}
			want := SideHome
			if pa > ph {
				want = SideAway
			}
			if got.IsDraw || got.Winner != want {
				t.Fatalf("penalties %d-%d: got %+v want winner %s", ph, pa, got, want)
			}
		}
	}
}

func TestResolveWithPolicy_DrawNotAllowed(t *testing.T) {
	_, err := ResolveWithPolicy(ScoreSet{Home: 2, Away: 2}, false)
	if !errors.Is(err, ErrDrawNotAllowed) {
		t.Fatalf("expected ErrDrawNotAllowed, got %v", err)
	}
	if !errors.Is(err, ErrInconsistentScore) {
		t.Fatalf("expected draw rejection to match ErrInconsistentScore, got %v", err)
	}

	got, err := ResolveWithPolicy(ScoreSet{Home: 2, Away: 2}, true)
	if err != nil || !got.IsDraw {
		t.Fatalf("expected allowed draw, got %+v err=%v", got, err)
	}
}

func TestPredicted(t *testing.T) {
	if got := Predicted(1, 0); got != HomeWin {
		t.Fatalf("expected home win, got %s", got)
	}
	if got := Predicted(0, 2); got != AwayWin {
		t.Fatalf("expected away win, got %s", got)
	}
	if got := Predicted(3, 3); got != Draw {
		t.Fatalf("expected draw, got %s", got)
	}
}
