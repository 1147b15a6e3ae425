package httpapi

import "net/http"

func (h *Handler) SeasonStandings(w http.ResponseWriter, r *http.Request) {
	ctx, span := startRouteSpan(r, "httpapi.Handler.SeasonStandings")
	defer span.End()

	seasonID := r.PathValue("seasonID")
	table, err := h.standingsService.BySeason(ctx, seasonID)
	if err != nil {
		h.fail(ctx, w, "season standings", err, "season_id", seasonID)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, standingsToDTO(table))
}

func (h *Handler) CompetitionStandings(w http.ResponseWriter, r *http.Request) {
	ctx, span := startRouteSpan(r, "httpapi.Handler.CompetitionStandings")
	defer span.End()

	competitionID := r.PathValue("competitionID")
	table, err := h.standingsService.ByCompetition(ctx, competitionID)
	if err != nil {
		h.fail(ctx, w, "competition standings", err, "competition_id", competitionID)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, standingsToDTO(table))
}

func (h *Handler) SeasonLeaderboard(w http.ResponseWriter, r *http.Request) {
	ctx, span := startRouteSpan(r, "httpapi.Handler.SeasonLeaderboard")
	defer span.End()

	seasonID := r.PathValue("seasonID")
	entries, err := h.leaderboardService.BySeason(ctx, seasonID)
	if err != nil {
		h.fail(ctx, w, "season leaderboard", err, "season_id", seasonID)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, entries)
}
