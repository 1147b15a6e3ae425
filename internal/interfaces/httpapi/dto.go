package httpapi

import (
	"time"

	"github.com/riskibarqy/prediction-league/internal/domain/bet"
	"github.com/riskibarqy/prediction-league/internal/domain/competition"
	"github.com/riskibarqy/prediction-league/internal/domain/match"
	"github.com/riskibarqy/prediction-league/internal/domain/outcome"
	"github.com/riskibarqy/prediction-league/internal/domain/result"
	"github.com/riskibarqy/prediction-league/internal/domain/season"
	"github.com/riskibarqy/prediction-league/internal/domain/standing"
	"github.com/riskibarqy/prediction-league/internal/domain/team"
	"github.com/riskibarqy/prediction-league/internal/usecase"
)

type scoringRulesDTO struct {
	PointsForWin  int  `json:"points_for_win" validate:"min=0"`
	PointsForDraw int  `json:"points_for_draw" validate:"min=0"`
	PointsForLoss int  `json:"points_for_loss" validate:"min=0"`
	AllowDraws    bool `json:"allow_draws"`
}

type seasonDTO struct {
	ID                string          `json:"id"`
	SportID           string          `json:"sport_id"`
	Name              string          `json:"name"`
	StartDate         time.Time       `json:"start_date"`
	EndDate           time.Time       `json:"end_date"`
	RegistrationStart *time.Time      `json:"registration_start,omitempty"`
	RegistrationEnd   *time.Time      `json:"registration_end,omitempty"`
	Rules             scoringRulesDTO `json:"rules"`
	Status            string          `json:"status"`
	IsActive          bool            `json:"is_active"`
}

type competitionDTO struct {
	ID                   string     `json:"id"`
	SeasonID             string     `json:"season_id"`
	SportID              string     `json:"sport_id"`
	Name                 string     `json:"name"`
	Format               string     `json:"format"`
	Status               string     `json:"status"`
	StartDate            time.Time  `json:"start_date"`
	EndDate              *time.Time `json:"end_date,omitempty"`
	RegistrationOpensAt  *time.Time `json:"registration_opens_at,omitempty"`
	RegistrationClosesAt *time.Time `json:"registration_closes_at,omitempty"`
	MinParticipants      int        `json:"min_participants"`
	MaxParticipants      int        `json:"max_participants"`
}

type teamDTO struct {
	ID      string `json:"id"`
	SportID string `json:"sport_id"`
	Name    string `json:"name"`
	Short   string `json:"short"`
}

type scoresDTO struct {
	Home          int  `json:"home" validate:"min=0"`
	Away          int  `json:"away" validate:"min=0"`
	ExtraTimeHome *int `json:"extra_time_home,omitempty" validate:"omitempty,min=0"`
	ExtraTimeAway *int `json:"extra_time_away,omitempty" validate:"omitempty,min=0"`
	PenaltyHome   *int `json:"penalty_home,omitempty" validate:"omitempty,min=0"`
	PenaltyAway   *int `json:"penalty_away,omitempty" validate:"omitempty,min=0"`
}

func (s scoresDTO) toDomain() match.Scores {
	return match.Scores{
		Home:          s.Home,
		Away:          s.Away,
		ExtraTimeHome: s.ExtraTimeHome,
		ExtraTimeAway: s.ExtraTimeAway,
		PenaltyHome:   s.PenaltyHome,
		PenaltyAway:   s.PenaltyAway,
	}
}

func scoresToDTO(s match.Scores) scoresDTO {
	return scoresDTO{
		Home:          s.Home,
		Away:          s.Away,
		ExtraTimeHome: s.ExtraTimeHome,
		ExtraTimeAway: s.ExtraTimeAway,
		PenaltyHome:   s.PenaltyHome,
		PenaltyAway:   s.PenaltyAway,
	}
}

type matchDTO struct {
	ID              string     `json:"id"`
	CompetitionID   string     `json:"competition_id"`
	HomeTeamID      string     `json:"home_team_id"`
	AwayTeamID      string     `json:"away_team_id"`
	Round           int        `json:"round"`
	Venue           string     `json:"venue,omitempty"`
	ScheduledAt     time.Time  `json:"scheduled_at"`
	BettingClosesAt time.Time  `json:"betting_closes_at"`
	Status          string     `json:"status"`
	Scores          scoresDTO  `json:"scores"`
	StartedAt       *time.Time `json:"started_at,omitempty"`
	FinishedAt      *time.Time `json:"finished_at,omitempty"`
}

type resultDTO struct {
	ID          string     `json:"id,omitempty"`
	MatchID     string     `json:"match_id"`
	Status      string     `json:"status"`
	Scores      scoresDTO  `json:"scores"`
	IsOfficial  bool       `json:"is_official"`
	VerifiedBy  string     `json:"verified_by,omitempty"`
	FinalizedAt *time.Time `json:"finalized_at,omitempty"`
}

type outcomeDTO struct {
	Winner string `json:"winner,omitempty"`
	IsDraw bool   `json:"is_draw"`
}

type betDTO struct {
	ID            string     `json:"id"`
	UserID        string     `json:"user_id"`
	MatchID       string     `json:"match_id"`
	PredictedHome int        `json:"predicted_home"`
	PredictedAway int        `json:"predicted_away"`
	Status        string     `json:"status"`
	PointsEarned  int        `json:"points_earned"`
	BonusPoints   int        `json:"bonus_points"`
	BonusReason   string     `json:"bonus_reason,omitempty"`
	PlacedAt      time.Time  `json:"placed_at"`
	SettledAt     *time.Time `json:"settled_at,omitempty"`
}

type standingRowDTO struct {
	Position       int    `json:"position"`
	TeamID         string `json:"team_id"`
	Played         int    `json:"played"`
	Won            int    `json:"won"`
	Drawn          int    `json:"drawn"`
	Lost           int    `json:"lost"`
	GoalsFor       int    `json:"goals_for"`
	GoalsAgainst   int    `json:"goals_against"`
	GoalDifference int    `json:"goal_difference"`
	Points         int    `json:"points"`
	Form           string `json:"form"`
}

type standingsDTO struct {
	SeasonID      string                 `json:"season_id"`
	CompetitionID string                 `json:"competition_id,omitempty"`
	Rules         scoringRulesDTO        `json:"rules"`
	Rows          []standingRowDTO       `json:"rows"`
	Flagged       []usecase.FlaggedMatch `json:"flagged,omitempty"`
}

type matchOutcomeDTO struct {
	Match      matchDTO                 `json:"match"`
	Result     resultDTO                `json:"result"`
	Outcome    *outcomeDTO              `json:"outcome,omitempty"`
	Settlement usecase.SettlementReport `json:"settlement"`
}

func rulesToDTO(r season.ScoringRules) scoringRulesDTO {
	return scoringRulesDTO{
		PointsForWin:  r.PointsForWin,
		PointsForDraw: r.PointsForDraw,
		PointsForLoss: r.PointsForLoss,
		AllowDraws:    r.AllowDraws,
	}
}

func (r scoringRulesDTO) toDomain() season.ScoringRules {
	return season.ScoringRules{
		PointsForWin:  r.PointsForWin,
		PointsForDraw: r.PointsForDraw,
		PointsForLoss: r.PointsForLoss,
		AllowDraws:    r.AllowDraws,
	}
}

func seasonToDTO(s season.Season) seasonDTO {
	return seasonDTO{
		ID:                s.ID,
		SportID:           s.SportID,
		Name:              s.Name,
		StartDate:         s.StartDate,
		EndDate:           s.EndDate,
		RegistrationStart: s.RegistrationStart,
		RegistrationEnd:   s.RegistrationEnd,
		Rules:             rulesToDTO(s.Rules),
		Status:            string(s.Status),
		IsActive:          s.IsActive,
	}
}

func competitionToDTO(c competition.Competition) competitionDTO {
	return competitionDTO{
		ID:                   c.ID,
		SeasonID:             c.SeasonID,
		SportID:              c.SportID,
		Name:                 c.Name,
		Format:               string(c.Format),
		Status:               string(c.Status),
		StartDate:            c.StartDate,
		EndDate:              c.EndDate,
		RegistrationOpensAt:  c.RegistrationOpensAt,
		RegistrationClosesAt: c.RegistrationClosesAt,
		MinParticipants:      c.MinParticipants,
		MaxParticipants:      c.MaxParticipants,
	}
}

func teamToDTO(t team.Team) teamDTO {
	return teamDTO{ID: t.ID, SportID: t.SportID, Name: t.Name, Short: t.Short}
}

func matchToDTO(m match.Match) matchDTO {
	return matchDTO{
		ID:              m.ID,
		CompetitionID:   m.CompetitionID,
		HomeTeamID:      m.HomeTeamID,
		AwayTeamID:      m.AwayTeamID,
		Round:           m.Round,
		Venue:           m.Venue,
		ScheduledAt:     m.ScheduledAt,
		BettingClosesAt: m.BettingClosesAt,
		Status:          string(m.Status),
		Scores:          scoresToDTO(m.Scores()),
		StartedAt:       m.StartedAt,
		FinishedAt:      m.FinishedAt,
	}
}

func resultToDTO(r result.Result) resultDTO {
	return resultDTO{
		ID:          r.ID,
		MatchID:     r.MatchID,
		Status:      string(r.Status),
		Scores:      scoresToDTO(r.Scores()),
		IsOfficial:  r.IsOfficial,
		VerifiedBy:  r.VerifiedBy,
		FinalizedAt: r.FinalizedAt,
	}
}

func betToDTO(b bet.Bet) betDTO {
	return betDTO{
		ID:            b.ID,
		UserID:        b.UserID,
		MatchID:       b.MatchID,
		PredictedHome: b.PredictedHome,
		PredictedAway: b.PredictedAway,
		Status:        string(b.Status),
		PointsEarned:  b.PointsEarned,
		BonusPoints:   b.BonusPoints,
		BonusReason:   b.BonusReason,
		PlacedAt:      b.PlacedAt,
		SettledAt:     b.SettledAt,
	}
}

func standingsToDTO(s usecase.Standings) standingsDTO {
	rows := make([]standingRowDTO, 0, len(s.Rows))
	for _, row := range s.Rows {
		rows = append(rows, standingRowFromDomain(row))
	}
	return standingsDTO{
		SeasonID:      s.SeasonID,
		CompetitionID: s.CompetitionID,
		Rules:         rulesToDTO(s.Rules),
		Rows:          rows,
		Flagged:       s.Flagged,
	}
}

func standingRowFromDomain(row standing.Row) standingRowDTO {
	return standingRowDTO{
		Position:       row.Position,
		TeamID:         row.TeamID,
		Played:         row.Played,
		Won:            row.Won,
		Drawn:          row.Drawn,
		Lost:           row.Lost,
		GoalsFor:       row.GoalsFor,
		GoalsAgainst:   row.GoalsAgainst,
		GoalDifference: row.GoalDifference,
		Points:         row.Points,
		Form:           row.Form,
	}
}

func matchOutcomeToDTO(o usecase.MatchOutcome) matchOutcomeDTO {
	out := matchOutcomeDTO{
		Match:      matchToDTO(o.Match),
		Result:     resultToDTO(o.Result),
		Settlement: o.Settlement,
	}
	if o.Result.IsFinal() {
		out.Outcome = outcomeToDTO(o.Outcome)
	}
	return out
}

func outcomeToDTO(o outcome.Outcome) *outcomeDTO {
	return &outcomeDTO{Winner: string(o.Winner), IsDraw: o.IsDraw}
}

func mapSlice[T, D any](items []T, fn func(T) D) []D {
	out := make([]D, 0, len(items))
	for _, item := range items {
		out = append(out, fn(item))
	}
	return out
}
