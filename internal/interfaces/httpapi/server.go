package httpapi

import (
	"net/http"

	"github.com/riskibarqy/prediction-league/internal/platform/logging"
)

type RouterOptions struct {
	CORSAllowedOrigins []string
	// BetLimiter throttles bet placement per client; nil disables it.
	BetLimiter *ClientRateLimiter
}

func NewRouter(handler *Handler, logger *logging.Logger, opts RouterOptions) http.Handler {
	if logger == nil {
		logger = logging.Default()
	}

	mux := http.NewServeMux()
	registerSystemRoutes(mux, handler)
	registerLeagueRoutes(mux, handler)
	registerMatchRoutes(mux, handler)
	registerBetRoutes(mux, handler, opts.BetLimiter)

	return RequestTracing(RequestLogging(logger, CORS(opts.CORSAllowedOrigins, IdentifyUser(recoverPanic(logger, mux)))))
}

func recoverPanic(logger *logging.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, span := startSpan(r.Context(), "httpapi.recoverPanic")
		defer span.End()

		defer func() {
			if rec := recover(); rec != nil {
				logger.ErrorContext(ctx, "panic recovered", "panic", rec, "path", r.URL.Path)
				writeInternalError(ctx, w)
			}
		}()
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
