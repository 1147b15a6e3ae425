package standing

import (
	"sort"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/riskibarqy/prediction-league/internal/domain/match"
	"github.com/riskibarqy/prediction-league/internal/domain/outcome"
	"github.com/riskibarqy/prediction-league/internal/domain/season"
)

// FormLength is how many recent results a row's form keeps.
const FormLength = 5

// Row is one team's line in a standings table.
type Row struct {
	TeamID         string
	Position       int
	Played         int
	Won            int
	Drawn          int
	Lost           int
	GoalsFor       int
	GoalsAgainst   int
	GoalDifference int
	Points         int
	// Form lists the latest results oldest first, one of W, D, L each.
	Form string
}

// Flag marks a finished match that needs administrative attention. Counted tells
// whether the match still added games played and goals.
type Flag struct {
	MatchID string
	Err     error
	Counted bool
}

type Table struct {
	Rows    []Row
	Flagged []Flag
}

// Compute builds a ranked table from finished matches. Teams are taken from teamIDs in
// order, then from the matches in order of first appearance. Ties on points, goal
// difference and goals for keep that order.
func Compute(rules season.ScoringRules, teamIDs []string, matches []match.Match) Table {
	rows := make([]Row, 0, len(teamIDs))
	index := make(map[string]int, len(teamIDs))
	addTeam := func(teamID string) {
		teamID = strings.TrimSpace(teamID)
		if teamID == "" {
			return
		}
		if _, ok := index[teamID]; ok {
			return
		}
		index[teamID] = len(rows)
		rows = append(rows, Row{TeamID: teamID})
	}
	for _, teamID := range teamIDs {
		addTeam(teamID)
	}
	for _, m := range matches {
		addTeam(m.HomeTeamID)
		addTeam(m.AwayTeamID)
	}

	forms := make([][]byte, len(rows))
	var flagged []Flag

	for _, m := range chronological(matches) {
		if !m.IsFinished() {
			continue
		}

		scores := m.ScoreSet()
		resolved, err := outcome.Resolve(scores)
		if err != nil {
			flagged = append(flagged, Flag{MatchID: m.ID, Err: errors.Wrapf(err, "match %s", m.ID)})
			continue
		}

		homeIdx, homeOK := index[strings.TrimSpace(m.HomeTeamID)]
		awayIdx, awayOK := index[strings.TrimSpace(m.AwayTeamID)]
		if !homeOK || !awayOK || homeIdx == awayIdx {
			flagged = append(flagged, Flag{MatchID: m.ID, Err: errors.Newf("match %s needs two distinct teams", m.ID)})
			continue
		}

		home, away := &rows[homeIdx], &rows[awayIdx]
		homeGoals, awayGoals := scores.HomeTotal(), scores.AwayTotal()
		home.Played++
		away.Played++
		home.GoalsFor += homeGoals
		home.GoalsAgainst += awayGoals
		away.GoalsFor += awayGoals
		away.GoalsAgainst += homeGoals

		switch {
		case resolved.IsDraw && !rules.AllowDraws:
			flagged = append(flagged, Flag{
				MatchID: m.ID,
				Err:     errors.Wrapf(outcome.ErrDrawNotAllowed, "match %s tied %d-%d", m.ID, homeGoals, awayGoals),
				Counted: true,
			})
		case resolved.IsDraw:
			home.Drawn++
			away.Drawn++
			home.Points += rules.PointsForDraw
			away.Points += rules.PointsForDraw
			forms[homeIdx] = append(forms[homeIdx], 'D')
			forms[awayIdx] = append(forms[awayIdx], 'D')
		case resolved.Winner == outcome.SideHome:
			award(home, away, rules)
			forms[homeIdx] = append(forms[homeIdx], 'W')
			forms[awayIdx] = append(forms[awayIdx], 'L')
		default:
			award(away, home, rules)
			forms[awayIdx] = append(forms[awayIdx], 'W')
			forms[homeIdx] = append(forms[homeIdx], 'L')
		}
	}

	for i := range rows {
		rows[i].GoalDifference = rows[i].GoalsFor - rows[i].GoalsAgainst
		form := forms[i]
		if len(form) > FormLength {
			form = form[len(form)-FormLength:]
		}
		rows[i].Form = string(form)
	}

	Rank(rows)
	return Table{Rows: rows, Flagged: flagged}
}

// Rank sorts rows by points, goal difference and goals for, all descending, keeping
// input order on full ties, and assigns 1-based positions.
func Rank(rows []Row) {
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Points != rows[j].Points {
			return rows[i].Points > rows[j].Points
		}
		if rows[i].GoalDifference != rows[j].GoalDifference {
			return rows[i].GoalDifference > rows[j].GoalDifference
		}
		return rows[i].GoalsFor > rows[j].GoalsFor
	})
	for i := range rows {
		rows[i].Position = i + 1
	}
}

func award(winner, loser *Row, rules season.ScoringRules) {
	winner.Won++
	winner.Points += rules.PointsForWin
	loser.Lost++
	loser.Points += rules.PointsForLoss
}

// chronological orders matches by kickoff so form reads oldest first. Matches without
// a kickoff go last, keeping their relative input order.
func chronological(matches []match.Match) []match.Match {
	out := make([]match.Match, len(matches))
	copy(out, matches)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].ScheduledAt, out[j].ScheduledAt
		if a.IsZero() || b.IsZero() {
			return !a.IsZero() && b.IsZero()
		}
		return a.Before(b)
	})
	return out
}
