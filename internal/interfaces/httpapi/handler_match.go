package httpapi

import (
	"fmt"
	"net/http"
	"time"

	"github.com/riskibarqy/prediction-league/internal/domain/match"
	"github.com/riskibarqy/prediction-league/internal/usecase"
)

type scheduleMatchRequest struct {
	CompetitionID string    `json:"competition_id" validate:"required"`
	HomeTeamID    string    `json:"home_team_id" validate:"required"`
	AwayTeamID    string    `json:"away_team_id" validate:"required,nefield=HomeTeamID"`
	Round         int       `json:"round" validate:"min=0"`
	Venue         string    `json:"venue" validate:"omitempty,max=160"`
	ScheduledAt   time.Time `json:"scheduled_at"`
}

type kickoffTimeRequest struct {
	Kickoff *time.Time `json:"kickoff"`
}

type advanceMatchRequest struct {
	Stage string `json:"stage" validate:"required,oneof=live halftime extra_time penalties"`
}

type scoresRequest struct {
	Scores scoresDTO `json:"scores"`
}

type submitResultRequest struct {
	Scores     scoresDTO `json:"scores"`
	VerifiedBy string    `json:"verified_by" validate:"required,max=120"`
}

func (h *Handler) ScheduleMatch(w http.ResponseWriter, r *http.Request) {
	ctx, span := startRouteSpan(r, "httpapi.Handler.ScheduleMatch")
	defer span.End()

	var req scheduleMatchRequest
	if err := h.decodeRequest(ctx, w, r, &req, false); err != nil {
		writeError(ctx, w, err)
		return
	}

	item, err := h.matchService.Schedule(ctx, usecase.ScheduleMatchInput{
		CompetitionID: req.CompetitionID,
		HomeTeamID:    req.HomeTeamID,
		AwayTeamID:    req.AwayTeamID,
		Round:         req.Round,
		Venue:         req.Venue,
		ScheduledAt:   req.ScheduledAt,
	})
	if err != nil {
		h.fail(ctx, w, "schedule match", err, "competition_id", req.CompetitionID)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, matchToDTO(item))
}

func (h *Handler) GetMatch(w http.ResponseWriter, r *http.Request) {
	ctx, span := startRouteSpan(r, "httpapi.Handler.GetMatch")
	defer span.End()

	matchID := r.PathValue("matchID")
	item, err := h.matchService.Get(ctx, matchID)
	if err != nil {
		h.fail(ctx, w, "get match", err, "match_id", matchID)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, matchToDTO(item))
}

func (h *Handler) GetMatchResult(w http.ResponseWriter, r *http.Request) {
	ctx, span := startRouteSpan(r, "httpapi.Handler.GetMatchResult")
	defer span.End()

	matchID := r.PathValue("matchID")
	item, err := h.matchService.GetResult(ctx, matchID)
	if err != nil {
		h.fail(ctx, w, "get match result", err, "match_id", matchID)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, resultToDTO(item))
}

func (h *Handler) ListMatchesByCompetition(w http.ResponseWriter, r *http.Request) {
	ctx, span := startRouteSpan(r, "httpapi.Handler.ListMatchesByCompetition")
	defer span.End()

	competitionID := r.PathValue("competitionID")
	items, err := h.matchService.ListByCompetition(ctx, competitionID)
	if err != nil {
		h.fail(ctx, w, "list matches", err, "competition_id", competitionID)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, mapSlice(items, matchToDTO))
}

// MatchAction runs one lifecycle command on a match.
func (h *Handler) MatchAction(w http.ResponseWriter, r *http.Request) {
	ctx, span := startRouteSpan(r, "httpapi.Handler.MatchAction")
	defer span.End()

	matchID := r.PathValue("matchID")
	action := r.PathValue("action")

	var (
		item match.Match
		err  error
	)
	switch action {
	case "postpone":
		var req kickoffTimeRequest
		if err := h.decodeRequest(ctx, w, r, &req, true); err != nil {
			writeError(ctx, w, err)
			return
		}
		item, err = h.matchService.Postpone(ctx, matchID, req.Kickoff)
	case "reschedule":
		var req kickoffTimeRequest
		if err := h.decodeRequest(ctx, w, r, &req, false); err != nil {
			writeError(ctx, w, err)
			return
		}
		if req.Kickoff == nil {
			writeError(ctx, w, fmt.Errorf("%w: kickoff is required", usecase.ErrInvalidInput))
			return
		}
		item, err = h.matchService.Reschedule(ctx, matchID, *req.Kickoff)
	case "kickoff":
		item, err = h.matchService.Kickoff(ctx, matchID)
	case "refresh":
		item, err = h.matchService.RefreshStatus(ctx, matchID)
	case "advance":
		var req advanceMatchRequest
		if err := h.decodeRequest(ctx, w, r, &req, false); err != nil {
			writeError(ctx, w, err)
			return
		}
		item, err = h.matchService.Advance(ctx, matchID, match.Status(req.Stage))
	case "scores":
		var req scoresRequest
		if err := h.decodeRequest(ctx, w, r, &req, false); err != nil {
			writeError(ctx, w, err)
			return
		}
		item, err = h.matchService.UpdateScores(ctx, matchID, req.Scores.toDomain())
	default:
		writeError(ctx, w, fmt.Errorf("%w: unknown match action %q", usecase.ErrNotFound, action))
		return
	}
	if err != nil {
		h.fail(ctx, w, "match "+action, err, "match_id", matchID)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, matchToDTO(item))
}

func (h *Handler) CancelMatch(w http.ResponseWriter, r *http.Request) {
	ctx, span := startRouteSpan(r, "httpapi.Handler.CancelMatch")
	defer span.End()

	matchID := r.PathValue("matchID")
	out, err := h.matchService.Cancel(ctx, matchID)
	if err != nil {
		h.fail(ctx, w, "cancel match", err, "match_id", matchID)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, matchOutcomeToDTO(out))
}

func (h *Handler) AbandonMatch(w http.ResponseWriter, r *http.Request) {
	ctx, span := startRouteSpan(r, "httpapi.Handler.AbandonMatch")
	defer span.End()

	matchID := r.PathValue("matchID")
	out, err := h.matchService.AbandonResult(ctx, matchID)
	if err != nil {
		h.fail(ctx, w, "abandon match", err, "match_id", matchID)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, matchOutcomeToDTO(out))
}

func (h *Handler) SubmitResult(w http.ResponseWriter, r *http.Request) {
	ctx, span := startRouteSpan(r, "httpapi.Handler.SubmitResult")
	defer span.End()

	matchID := r.PathValue("matchID")
	var req submitResultRequest
	if err := h.decodeRequest(ctx, w, r, &req, false); err != nil {
		writeError(ctx, w, err)
		return
	}

	out, err := h.matchService.SubmitResult(ctx, usecase.SubmitResultInput{
		MatchID:    matchID,
		Scores:     req.Scores.toDomain(),
		VerifiedBy: req.VerifiedBy,
	})
	if err != nil {
		h.fail(ctx, w, "submit result", err, "match_id", matchID)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, matchOutcomeToDTO(out))
}

func (h *Handler) SettleMatch(w http.ResponseWriter, r *http.Request) {
	ctx, span := startRouteSpan(r, "httpapi.Handler.SettleMatch")
	defer span.End()

	matchID := r.PathValue("matchID")
	report, err := h.settlementService.SettleMatch(ctx, matchID)
	if err != nil {
		h.fail(ctx, w, "settle match", err, "match_id", matchID)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, report)
}
