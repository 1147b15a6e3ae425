package memory

import (
	"time"

	"github.com/riskibarqy/prediction-league/internal/domain/competition"
	"github.com/riskibarqy/prediction-league/internal/domain/match"
	"github.com/riskibarqy/prediction-league/internal/domain/result"
	"github.com/riskibarqy/prediction-league/internal/domain/season"
	"github.com/riskibarqy/prediction-league/internal/domain/team"
)

const (
	SportFootball = "football"

	SeasonID2026         = "season-2026-27"
	CompetitionIDLiga1   = "idn-liga-1-2026"
	CompetitionIDPiala   = "idn-piala-2026"
	seedBettingCloseLead = match.DefaultBettingCloseLead
)

var seedCreatedAt = time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)

func SeedSeasons() []season.Season {
	return []season.Season{
		{
			ID:        SeasonID2026,
			SportID:   SportFootball,
			Name:      "2026/2027",
			StartDate: time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
			EndDate:   time.Date(2027, 5, 31, 0, 0, 0, 0, time.UTC),
			Rules:     season.DefaultScoringRules(),
			Status:    season.StatusActive,
			IsActive:  true,
			CreatedAt: seedCreatedAt,
			UpdatedAt: seedCreatedAt,
		},
	}
}

func SeedCompetitions() []competition.Competition {
	return []competition.Competition{
		{
			ID:              CompetitionIDLiga1,
			SeasonID:        SeasonID2026,
			SportID:         SportFootball,
			Name:            "Liga 1 Indonesia",
			Format:          competition.FormatLeague,
			Status:          competition.StatusActive,
			StartDate:       time.Date(2026, 8, 8, 0, 0, 0, 0, time.UTC),
			MinParticipants: 4,
			MaxParticipants: 18,
			CreatedAt:       seedCreatedAt,
			UpdatedAt:       seedCreatedAt,
		},
		{
			ID:              CompetitionIDPiala,
			SeasonID:        SeasonID2026,
			SportID:         SportFootball,
			Name:            "Piala Indonesia",
			Format:          competition.FormatKnockout,
			Status:          competition.StatusUpcoming,
			StartDate:       time.Date(2027, 1, 10, 0, 0, 0, 0, time.UTC),
			MinParticipants: 4,
			MaxParticipants: 32,
			CreatedAt:       seedCreatedAt,
			UpdatedAt:       seedCreatedAt,
		},
	}
}

func SeedTeams() []team.Team {
	return []team.Team{
		{ID: "idn-persija", SportID: SportFootball, Name: "Persija Jakarta", Short: "PSJ"},
		{ID: "idn-persib", SportID: SportFootball, Name: "Persib Bandung", Short: "PSB"},
		{ID: "idn-persebaya", SportID: SportFootball, Name: "Persebaya Surabaya", Short: "PRB"},
		{ID: "idn-baliutd", SportID: SportFootball, Name: "Bali United", Short: "BU"},
	}
}

func SeedMatches() []match.Match {
	fixtures := []struct {
		id, home, away, venue string
		round                 int
		kickoff               time.Time
	}{
		{"m-liga1-001", "idn-persija", "idn-persib", "Jakarta International Stadium", 1, time.Date(2026, 11, 14, 12, 30, 0, 0, time.UTC)},
		{"m-liga1-002", "idn-persebaya", "idn-baliutd", "Gelora Bung Tomo", 1, time.Date(2026, 11, 15, 12, 30, 0, 0, time.UTC)},
		{"m-liga1-003", "idn-persib", "idn-persebaya", "Gelora Bandung Lautan Api", 2, time.Date(2026, 11, 21, 12, 30, 0, 0, time.UTC)},
		{"m-liga1-004", "idn-baliutd", "idn-persija", "Kapten I Wayan Dipta", 2, time.Date(2026, 11, 22, 12, 30, 0, 0, time.UTC)},
	}

	out := make([]match.Match, 0, len(fixtures))
	for _, f := range fixtures {
		out = append(out, match.Match{
			ID:            f.id,
			CompetitionID: CompetitionIDLiga1,
			HomeTeamID:    f.home,
			AwayTeamID:    f.away,
			Round:         f.round,
			Venue:         f.venue,
			Status:        match.StatusScheduled,
			CreatedAt:     seedCreatedAt,
			UpdatedAt:     seedCreatedAt,
		}.Schedule(f.kickoff, seedBettingCloseLead))
	}
	return out
}

// SeedResults creates the scheduled companion result of every seeded match.
func SeedResults() []result.Result {
	matches := SeedMatches()
	out := make([]result.Result, 0, len(matches))
	for _, m := range matches {
		out = append(out, result.New("r-"+m.ID, m, seedCreatedAt))
	}
	return out
}
