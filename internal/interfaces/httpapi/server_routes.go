package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
}

func registerLeagueRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/seasons", handler.ListSeasons)
	mux.HandleFunc("POST /v1/seasons", handler.CreateSeason)
	mux.HandleFunc("GET /v1/seasons/{seasonID}", handler.GetSeason)
	mux.HandleFunc("POST /v1/seasons/{seasonID}/{action}", handler.SeasonAction)
	mux.HandleFunc("GET /v1/seasons/{seasonID}/competitions", handler.ListCompetitionsBySeason)
	mux.HandleFunc("GET /v1/seasons/{seasonID}/standings", handler.SeasonStandings)
	mux.HandleFunc("GET /v1/seasons/{seasonID}/leaderboard", handler.SeasonLeaderboard)

	mux.HandleFunc("POST /v1/competitions", handler.CreateCompetition)
	mux.HandleFunc("GET /v1/competitions/{competitionID}", handler.GetCompetition)
	mux.HandleFunc("POST /v1/competitions/{competitionID}/{action}", handler.CompetitionAction)
	mux.HandleFunc("GET /v1/competitions/{competitionID}/matches", handler.ListMatchesByCompetition)
	mux.HandleFunc("GET /v1/competitions/{competitionID}/standings", handler.CompetitionStandings)

	mux.HandleFunc("GET /v1/teams", handler.ListTeams)
	mux.HandleFunc("POST /v1/teams", handler.CreateTeam)
	mux.HandleFunc("GET /v1/teams/{teamID}", handler.GetTeam)
}

func registerMatchRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("POST /v1/matches", handler.ScheduleMatch)
	mux.HandleFunc("GET /v1/matches/{matchID}", handler.GetMatch)
	mux.HandleFunc("GET /v1/matches/{matchID}/result", handler.GetMatchResult)
	mux.HandleFunc("POST /v1/matches/{matchID}/{action}", handler.MatchAction)
	mux.HandleFunc("POST /v1/matches/{matchID}/cancel", handler.CancelMatch)
	mux.HandleFunc("POST /v1/matches/{matchID}/abandon", handler.AbandonMatch)
	mux.HandleFunc("POST /v1/matches/{matchID}/result", handler.SubmitResult)
	mux.HandleFunc("POST /v1/matches/{matchID}/settle", handler.SettleMatch)
}

func registerBetRoutes(mux *http.ServeMux, handler *Handler, limiter *ClientRateLimiter) {
	mux.Handle("POST /v1/matches/{matchID}/bets", RateLimit(limiter, requireUser(handler.PlaceBet)))
	mux.HandleFunc("GET /v1/matches/{matchID}/bets", handler.ListBetsByMatch)
	mux.HandleFunc("GET /v1/users/{userID}/bets", handler.ListBetsByUser)
	mux.HandleFunc("GET /v1/bets/{betID}", handler.GetBet)
	mux.HandleFunc("POST /v1/bets/{betID}/cancel", requireUser(handler.CancelBet))
	mux.HandleFunc("POST /v1/bets/{betID}/void", handler.VoidBet)
	mux.HandleFunc("POST /v1/bets/{betID}/settle", handler.SettleBet)
	mux.HandleFunc("POST /v1/bets/{betID}/bonus", handler.ApplyBonus)
}
