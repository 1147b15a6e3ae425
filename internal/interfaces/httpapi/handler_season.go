package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/riskibarqy/prediction-league/internal/domain/competition"
	"github.com/riskibarqy/prediction-league/internal/domain/season"
	"github.com/riskibarqy/prediction-league/internal/usecase"
)

type createSeasonRequest struct {
	SportID           string           `json:"sport_id" validate:"required,max=64"`
	Name              string           `json:"name" validate:"required,max=120"`
	StartDate         time.Time        `json:"start_date" validate:"required"`
	EndDate           time.Time        `json:"end_date" validate:"required"`
	RegistrationStart *time.Time       `json:"registration_start"`
	RegistrationEnd   *time.Time       `json:"registration_end"`
	Rules             *scoringRulesDTO `json:"rules"`
}

type transitionRequest struct {
	Status string `json:"status" validate:"required"`
}

type createCompetitionRequest struct {
	SeasonID             string     `json:"season_id" validate:"required"`
	Name                 string     `json:"name" validate:"required,max=120"`
	Format               string     `json:"format" validate:"required,oneof=league tournament knockout round_robin swiss_system elimination ladder"`
	StartDate            time.Time  `json:"start_date" validate:"required"`
	EndDate              *time.Time `json:"end_date"`
	RegistrationOpensAt  *time.Time `json:"registration_opens_at"`
	RegistrationClosesAt *time.Time `json:"registration_closes_at"`
	MinParticipants      int        `json:"min_participants" validate:"required,min=2"`
	MaxParticipants      int        `json:"max_participants" validate:"required,gtefield=MinParticipants"`
	Publish              bool       `json:"publish"`
}

type createTeamRequest struct {
	SportID string `json:"sport_id" validate:"required,max=64"`
	Name    string `json:"name" validate:"required,max=120"`
	Short   string `json:"short" validate:"omitempty,max=8"`
}

func (h *Handler) ListSeasons(w http.ResponseWriter, r *http.Request) {
	ctx, span := startRouteSpan(r, "httpapi.Handler.ListSeasons")
	defer span.End()

	includeInactive, err := parseBoolQuery(r, "include_inactive")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	items, err := h.seasonService.List(ctx, includeInactive)
	if err != nil {
		h.fail(ctx, w, "list seasons", err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, mapSlice(items, seasonToDTO))
}

func (h *Handler) CreateSeason(w http.ResponseWriter, r *http.Request) {
	ctx, span := startRouteSpan(r, "httpapi.Handler.CreateSeason")
	defer span.End()

	var req createSeasonRequest
	if err := h.decodeRequest(ctx, w, r, &req, false); err != nil {
		writeError(ctx, w, err)
		return
	}

	input := usecase.CreateSeasonInput{
		SportID:           req.SportID,
		Name:              req.Name,
		StartDate:         req.StartDate,
		EndDate:           req.EndDate,
		RegistrationStart: req.RegistrationStart,
		RegistrationEnd:   req.RegistrationEnd,
	}
	if req.Rules != nil {
		rules := req.Rules.toDomain()
		input.Rules = &rules
	}

	item, err := h.seasonService.Create(ctx, input)
	if err != nil {
		h.fail(ctx, w, "create season", err, "sport_id", req.SportID)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, seasonToDTO(item))
}

func (h *Handler) GetSeason(w http.ResponseWriter, r *http.Request) {
	ctx, span := startRouteSpan(r, "httpapi.Handler.GetSeason")
	defer span.End()

	seasonID := r.PathValue("seasonID")
	item, err := h.seasonService.Get(ctx, seasonID)
	if err != nil {
		h.fail(ctx, w, "get season", err, "season_id", seasonID)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, seasonToDTO(item))
}

// SeasonAction runs one lifecycle command on a season.
func (h *Handler) SeasonAction(w http.ResponseWriter, r *http.Request) {
	ctx, span := startRouteSpan(r, "httpapi.Handler.SeasonAction")
	defer span.End()

	seasonID := r.PathValue("seasonID")
	action := r.PathValue("action")

	var (
		item season.Season
		err  error
	)
	switch action {
	case "refresh":
		item, err = h.seasonService.RefreshStatus(ctx, seasonID)
	case "cancel":
		item, err = h.seasonService.Cancel(ctx, seasonID)
	case "deactivate":
		item, err = h.seasonService.Deactivate(ctx, seasonID)
	case "transition":
		var req transitionRequest
		if err := h.decodeRequest(ctx, w, r, &req, false); err != nil {
			writeError(ctx, w, err)
			return
		}
		next, parseErr := season.ParseStatus(req.Status)
		if parseErr != nil {
			writeError(ctx, w, fmt.Errorf("%w: %v", usecase.ErrInvalidInput, parseErr))
			return
		}
		item, err = h.seasonService.Transition(ctx, seasonID, next)
	default:
		writeError(ctx, w, fmt.Errorf("%w: unknown season action %q", usecase.ErrNotFound, action))
		return
	}
	if err != nil {
		h.fail(ctx, w, "season "+action, err, "season_id", seasonID)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, seasonToDTO(item))
}

func (h *Handler) ListCompetitionsBySeason(w http.ResponseWriter, r *http.Request) {
	ctx, span := startRouteSpan(r, "httpapi.Handler.ListCompetitionsBySeason")
	defer span.End()

	seasonID := r.PathValue("seasonID")
	items, err := h.competitionService.ListBySeason(ctx, seasonID)
	if err != nil {
		h.fail(ctx, w, "list competitions", err, "season_id", seasonID)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, mapSlice(items, competitionToDTO))
}

func (h *Handler) CreateCompetition(w http.ResponseWriter, r *http.Request) {
	ctx, span := startRouteSpan(r, "httpapi.Handler.CreateCompetition")
	defer span.End()

	var req createCompetitionRequest
	if err := h.decodeRequest(ctx, w, r, &req, false); err != nil {
		writeError(ctx, w, err)
		return
	}

	item, err := h.competitionService.Create(ctx, usecase.CreateCompetitionInput{
		SeasonID:             req.SeasonID,
		Name:                 req.Name,
		Format:               competition.Format(req.Format),
		StartDate:            req.StartDate,
		EndDate:              req.EndDate,
		RegistrationOpensAt:  req.RegistrationOpensAt,
		RegistrationClosesAt: req.RegistrationClosesAt,
		MinParticipants:      req.MinParticipants,
		MaxParticipants:      req.MaxParticipants,
		Publish:              req.Publish,
	})
	if err != nil {
		h.fail(ctx, w, "create competition", err, "season_id", req.SeasonID)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, competitionToDTO(item))
}

func (h *Handler) GetCompetition(w http.ResponseWriter, r *http.Request) {
	ctx, span := startRouteSpan(r, "httpapi.Handler.GetCompetition")
	defer span.End()

	competitionID := r.PathValue("competitionID")
	item, err := h.competitionService.Get(ctx, competitionID)
	if err != nil {
		h.fail(ctx, w, "get competition", err, "competition_id", competitionID)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, competitionToDTO(item))
}

// CompetitionAction runs one lifecycle command on a competition.
func (h *Handler) CompetitionAction(w http.ResponseWriter, r *http.Request) {
	ctx, span := startRouteSpan(r, "httpapi.Handler.CompetitionAction")
	defer span.End()

	competitionID := r.PathValue("competitionID")
	action := r.PathValue("action")

	commands := map[string]func(context.Context, string) (competition.Competition, error){
		"refresh":  h.competitionService.RefreshStatus,
		"publish":  h.competitionService.Publish,
		"start":    h.competitionService.Start,
		"complete": h.competitionService.Complete,
		"cancel":   h.competitionService.Cancel,
		"pause":    h.competitionService.Pause,
		"resume":   h.competitionService.Resume,
	}
	command, ok := commands[strings.ToLower(action)]
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: unknown competition action %q", usecase.ErrNotFound, action))
		return
	}

	item, err := command(ctx, competitionID)
	if err != nil {
		h.fail(ctx, w, "competition "+action, err, "competition_id", competitionID)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, competitionToDTO(item))
}

func (h *Handler) CreateTeam(w http.ResponseWriter, r *http.Request) {
	ctx, span := startRouteSpan(r, "httpapi.Handler.CreateTeam")
	defer span.End()

	var req createTeamRequest
	if err := h.decodeRequest(ctx, w, r, &req, false); err != nil {
		writeError(ctx, w, err)
		return
	}

	item, err := h.teamService.Create(ctx, usecase.CreateTeamInput{
		SportID: req.SportID,
		Name:    req.Name,
		Short:   req.Short,
	})
	if err != nil {
		h.fail(ctx, w, "create team", err, "sport_id", req.SportID)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, teamToDTO(item))
}

func (h *Handler) ListTeams(w http.ResponseWriter, r *http.Request) {
	ctx, span := startRouteSpan(r, "httpapi.Handler.ListTeams")
	defer span.End()

	sportID := strings.TrimSpace(r.URL.Query().Get("sport_id"))
	if sportID == "" {
		writeError(ctx, w, fmt.Errorf("%w: sport_id query parameter is required", usecase.ErrInvalidInput))
		return
	}

	items, err := h.teamService.ListBySport(ctx, sportID)
	if err != nil {
		h.fail(ctx, w, "list teams", err, "sport_id", sportID)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, mapSlice(items, teamToDTO))
}

func (h *Handler) GetTeam(w http.ResponseWriter, r *http.Request) {
	ctx, span := startRouteSpan(r, "httpapi.Handler.GetTeam")
	defer span.End()

	teamID := r.PathValue("teamID")
	item, err := h.teamService.Get(ctx, teamID)
	if err != nil {
		h.fail(ctx, w, "get team", err, "team_id", teamID)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, teamToDTO(item))
}
