package httpapi

import (
	"net/http"

	"github.com/riskibarqy/prediction-league/internal/usecase"
)

type placeBetRequest struct {
	PredictedHome *int `json:"predicted_home" validate:"required,min=0,max=99"`
	PredictedAway *int `json:"predicted_away" validate:"required,min=0,max=99"`
}

type applyBonusRequest struct {
	Points int    `json:"points" validate:"min=0"`
	Reason string `json:"reason" validate:"required,max=200"`
}

func (h *Handler) PlaceBet(w http.ResponseWriter, r *http.Request) {
	ctx, span := startRouteSpan(r, "httpapi.Handler.PlaceBet")
	defer span.End()

	userID, _ := userIDFromContext(ctx)
	matchID := r.PathValue("matchID")

	var req placeBetRequest
	if err := h.decodeRequest(ctx, w, r, &req, false); err != nil {
		writeError(ctx, w, err)
		return
	}

	item, err := h.betService.Place(ctx, usecase.PlaceBetInput{
		UserID:        userID,
		MatchID:       matchID,
		PredictedHome: *req.PredictedHome,
		PredictedAway: *req.PredictedAway,
	})
	if err != nil {
		h.fail(ctx, w, "place bet", err, "user_id", userID, "match_id", matchID)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, betToDTO(item))
}

func (h *Handler) ListBetsByMatch(w http.ResponseWriter, r *http.Request) {
	ctx, span := startRouteSpan(r, "httpapi.Handler.ListBetsByMatch")
	defer span.End()

	matchID := r.PathValue("matchID")
	items, err := h.betService.ListByMatch(ctx, matchID)
	if err != nil {
		h.fail(ctx, w, "list bets by match", err, "match_id", matchID)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, mapSlice(items, betToDTO))
}

func (h *Handler) ListBetsByUser(w http.ResponseWriter, r *http.Request) {
	ctx, span := startRouteSpan(r, "httpapi.Handler.ListBetsByUser")
	defer span.End()

	userID := r.PathValue("userID")
	items, err := h.betService.ListByUser(ctx, userID)
	if err != nil {
		h.fail(ctx, w, "list bets by user", err, "user_id", userID)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, mapSlice(items, betToDTO))
}

func (h *Handler) GetBet(w http.ResponseWriter, r *http.Request) {
	ctx, span := startRouteSpan(r, "httpapi.Handler.GetBet")
	defer span.End()

	betID := r.PathValue("betID")
	item, err := h.betService.Get(ctx, betID)
	if err != nil {
		h.fail(ctx, w, "get bet", err, "bet_id", betID)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, betToDTO(item))
}

func (h *Handler) CancelBet(w http.ResponseWriter, r *http.Request) {
	ctx, span := startRouteSpan(r, "httpapi.Handler.CancelBet")
	defer span.End()

	userID, _ := userIDFromContext(ctx)
	betID := r.PathValue("betID")
	item, err := h.betService.Cancel(ctx, betID, userID)
	if err != nil {
		h.fail(ctx, w, "cancel bet", err, "bet_id", betID, "user_id", userID)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, betToDTO(item))
}

func (h *Handler) VoidBet(w http.ResponseWriter, r *http.Request) {
	ctx, span := startRouteSpan(r, "httpapi.Handler.VoidBet")
	defer span.End()

	betID := r.PathValue("betID")
	item, err := h.betService.Void(ctx, betID)
	if err != nil {
		h.fail(ctx, w, "void bet", err, "bet_id", betID)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, betToDTO(item))
}

func (h *Handler) SettleBet(w http.ResponseWriter, r *http.Request) {
	ctx, span := startRouteSpan(r, "httpapi.Handler.SettleBet")
	defer span.End()

	betID := r.PathValue("betID")
	item, err := h.settlementService.SettleBet(ctx, betID)
	if err != nil {
		h.fail(ctx, w, "settle bet", err, "bet_id", betID)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, betToDTO(item))
}

func (h *Handler) ApplyBonus(w http.ResponseWriter, r *http.Request) {
	ctx, span := startRouteSpan(r, "httpapi.Handler.ApplyBonus")
	defer span.End()

	betID := r.PathValue("betID")
	var req applyBonusRequest
	if err := h.decodeRequest(ctx, w, r, &req, false); err != nil {
		writeError(ctx, w, err)
		return
	}

	item, err := h.betService.ApplyBonus(ctx, usecase.ApplyBonusInput{
		BetID:  betID,
		Points: req.Points,
		Reason: req.Reason,
	})
	if err != nil {
		h.fail(ctx, w, "apply bonus", err, "bet_id", betID)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, betToDTO(item))
}
