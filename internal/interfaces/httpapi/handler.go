package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	sonic "github.com/bytedance/sonic"
	"github.com/go-playground/validator/v10"
	"github.com/riskibarqy/prediction-league/internal/platform/logging"
	"github.com/riskibarqy/prediction-league/internal/usecase"
)

// maxBodyBytes bounds request payloads; every request in this API is small.
const maxBodyBytes = 1 << 20

type Handler struct {
	seasonService      *usecase.SeasonService
	competitionService *usecase.CompetitionService
	teamService        *usecase.TeamService
	matchService       *usecase.MatchService
	betService         *usecase.BetService
	settlementService  *usecase.SettlementService
	standingsService   *usecase.StandingsService
	leaderboardService *usecase.LeaderboardService
	logger             *logging.Logger
	validator          *validator.Validate
}

func NewHandler(
	seasonService *usecase.SeasonService,
	competitionService *usecase.CompetitionService,
	teamService *usecase.TeamService,
	matchService *usecase.MatchService,
	betService *usecase.BetService,
	settlementService *usecase.SettlementService,
	standingsService *usecase.StandingsService,
	leaderboardService *usecase.LeaderboardService,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		seasonService:      seasonService,
		competitionService: competitionService,
		teamService:        teamService,
		matchService:       matchService,
		betService:         betService,
		settlementService:  settlementService,
		standingsService:   standingsService,
		leaderboardService: leaderboardService,
		logger:             logger,
		validator:          validator.New(),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startRouteSpan(r, "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

// decodeRequest reads a JSON body strictly and validates it. An empty body is
// allowed when allowEmpty is set.
func (h *Handler) decodeRequest(ctx context.Context, w http.ResponseWriter, r *http.Request, payload any, allowEmpty bool) error {
	ctx, span := startSpan(ctx, "httpapi.Handler.decodeRequest")
	defer span.End()

	if allowEmpty && r.ContentLength == 0 {
		return h.validateRequest(ctx, payload)
	}

	decoder := sonic.ConfigDefault.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(payload); err != nil {
		return fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err)
	}
	return h.validateRequest(ctx, payload)
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	ctx, span := startSpan(ctx, "httpapi.Handler.validateRequest")
	defer span.End()

	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}

func (h *Handler) fail(ctx context.Context, w http.ResponseWriter, op string, err error, args ...any) {
	mapped := mapError(ctx, err)
	fields := append([]any{"error", err}, args...)
	if mapped.HTTPStatus >= http.StatusInternalServerError {
		h.logger.ErrorContext(ctx, op+" failed", fields...)
	} else {
		h.logger.WarnContext(ctx, op+" failed", fields...)
	}
	writeError(ctx, w, err)
}

func parseBoolQuery(r *http.Request, key string) (bool, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return false, nil
	}
	value, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("%w: %s must be a boolean", usecase.ErrInvalidInput, key)
	}
	return value, nil
}
