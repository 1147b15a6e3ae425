package usecase

import (
	"context"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/riskibarqy/prediction-league/internal/domain/bet"
	"github.com/riskibarqy/prediction-league/internal/domain/competition"
	"github.com/riskibarqy/prediction-league/internal/domain/match"
	"github.com/riskibarqy/prediction-league/internal/domain/season"
	"github.com/riskibarqy/prediction-league/internal/domain/team"
)

func requireID(kind, value string) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", invalidInput("%s id is required", kind)
	}
	return value, nil
}

func markInvalid(err error) error {
	if err == nil {
		return nil
	}
	return errors.Mark(err, ErrInvalidInput)
}

func getSeason(ctx context.Context, repo season.Repository, seasonID string) (season.Season, error) {
	seasonID, err := requireID("season", seasonID)
	if err != nil {
		return season.Season{}, err
	}
	item, exists, err := repo.GetByID(ctx, seasonID)
	if err != nil {
		return season.Season{}, errors.Wrap(err, "get season")
	}
	if !exists {
		return season.Season{}, notFound("season", seasonID)
	}
	return item, nil
}

func getCompetition(ctx context.Context, repo competition.Repository, competitionID string) (competition.Competition, error) {
	competitionID, err := requireID("competition", competitionID)
	if err != nil {
		return competition.Competition{}, err
	}
	item, exists, err := repo.GetByID(ctx, competitionID)
	if err != nil {
		return competition.Competition{}, errors.Wrap(err, "get competition")
	}
	if !exists {
		return competition.Competition{}, notFound("competition", competitionID)
	}
	return item, nil
}

func getMatch(ctx context.Context, repo match.Repository, matchID string) (match.Match, error) {
	matchID, err := requireID("match", matchID)
	if err != nil {
		return match.Match{}, err
	}
	item, exists, err := repo.GetByID(ctx, matchID)
	if err != nil {
		return match.Match{}, errors.Wrap(err, "get match")
	}
	if !exists {
		return match.Match{}, notFound("match", matchID)
	}
	return item, nil
}

func getTeam(ctx context.Context, repo team.Repository, teamID string) (team.Team, error) {
	teamID, err := requireID("team", teamID)
	if err != nil {
		return team.Team{}, err
	}
	item, exists, err := repo.GetByID(ctx, teamID)
	if err != nil {
		return team.Team{}, errors.Wrap(err, "get team")
	}
	if !exists {
		return team.Team{}, notFound("team", teamID)
	}
	return item, nil
}

func getBet(ctx context.Context, repo bet.Repository, betID string) (bet.Bet, error) {
	betID, err := requireID("bet", betID)
	if err != nil {
		return bet.Bet{}, err
	}
	item, exists, err := repo.GetByID(ctx, betID)
	if err != nil {
		return bet.Bet{}, errors.Wrap(err, "get bet")
	}
	if !exists {
		return bet.Bet{}, notFound("bet", betID)
	}
	return item, nil
}

// rulesForMatch resolves the scoring rules of the season a match is played in.
func rulesForMatch(ctx context.Context, competitions competition.Repository, seasons season.Repository, m match.Match) (season.ScoringRules, error) {
	comp, err := getCompetition(ctx, competitions, m.CompetitionID)
	if err != nil {
		return season.ScoringRules{}, err
	}
	item, err := getSeason(ctx, seasons, comp.SeasonID)
	if err != nil {
		return season.ScoringRules{}, err
	}
	return item.Rules, nil
}
