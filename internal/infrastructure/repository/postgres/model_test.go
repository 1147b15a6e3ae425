package postgres

import (
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/riskibarqy/prediction-league/internal/domain/bet"
	"github.com/riskibarqy/prediction-league/internal/domain/result"
	"github.com/riskibarqy/prediction-league/internal/domain/season"
	qb "github.com/riskibarqy/prediction-league/internal/platform/querybuilder"
)

func TestTableModelsSkipSurrogateKey(t *testing.T) {
	models := map[string]any{
		"seasons":      seasonTableModel{},
		"teams":        teamTableModel{},
		"competitions": competitionTableModel{},
		"matches":      matchTableModel{},
		"results":      resultTableModel{},
		"bets":         betTableModel{},
	}
	for table, model := range models {
		cols := qb.Columns(model)
		if slices.Contains(cols, "id") {
			t.Fatalf("%s model must not write the surrogate id column", table)
		}
		if !slices.Contains(cols, "public_id") {
			t.Fatalf("%s model must carry public_id, got %v", table, cols)
		}
	}
}

func TestSeasonModelKeepsScoringRules(t *testing.T) {
	start := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	item := season.Season{
		ID:        "season-1",
		SportID:   "football",
		Name:      "2026/27",
		StartDate: start,
		EndDate:   start.AddDate(0, 10, 0),
		Rules:     season.ScoringRules{PointsForWin: 2, PointsForDraw: 1, AllowDraws: false},
		Status:    season.StatusUpcoming,
		IsActive:  true,
	}

	got := seasonToModel(item).toDomain()
	if got.Rules != item.Rules {
		t.Fatalf("unexpected rules: got=%+v want=%+v", got.Rules, item.Rules)
	}
	if got.ID != item.ID || got.Status != item.Status {
		t.Fatalf("unexpected season: %+v", got)
	}
}

func TestSettleQueryGuardsUnsettledStatuses(t *testing.T) {
	query, args, err := qb.Update("bets").
		Set("status", string(bet.StatusWon)).
		Where(
			qb.Eq("public_id", "bet-1"),
			qb.In("status", unsettledStatuses),
		).
		ToSQL()
	if err != nil {
		t.Fatalf("build settle query: %v", err)
	}

	want := "UPDATE bets SET status = $1 WHERE public_id = $2 AND status IN ($3, $4)"
	if query != want {
		t.Fatalf("unexpected query:\n got=%s\nwant=%s", query, want)
	}
	if len(args) != 4 || args[2] != "pending" || args[3] != "active" {
		t.Fatalf("unexpected args: %v", args)
	}
}

func TestResultUpsertSkipsTerminalRows(t *testing.T) {
	query, _, err := qb.InsertModel("results", resultToModel(result.Result{MatchID: "m1", Status: result.StatusFinal}), upsertResultSuffix)
	if err != nil {
		t.Fatalf("build upsert query: %v", err)
	}
	guard := query[strings.LastIndex(query, "WHERE"):]

	for status := range result.Transitions {
		quoted := "'" + string(status) + "'"
		if result.Transitions.IsTerminal(status) != strings.Contains(guard, quoted) {
			t.Fatalf("status %s: terminal=%v, guard=%q", status, result.Transitions.IsTerminal(status), guard)
		}
	}
}
