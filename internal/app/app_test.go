package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/riskibarqy/prediction-league/internal/config"
	"github.com/riskibarqy/prediction-league/internal/infrastructure/repository/cache"
	"github.com/riskibarqy/prediction-league/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/prediction-league/internal/platform/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func memoryConfig() config.Config {
	return config.Config{
		AppEnv:             config.EnvDev,
		ServiceName:        "prediction-league-api",
		HTTPAddr:           ":0",
		CacheEnabled:       true,
		CacheTTL:           time.Minute,
		CORSAllowedOrigins: []string{"*"},
		SettlementWorkers:  2,
		BettingCloseLead:   15 * time.Minute,
		BetRateLimit:       5,
		BetRateBurst:       10,
	}
}

func TestNewHTTPServer_MemoryStorage(t *testing.T) {
	srv, closeFunc, err := NewHTTPServer(context.Background(), memoryConfig(), logging.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = closeFunc() })

	rec := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/seasons?include_inactive=true", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), memory.SeasonID2026)
}

func TestNewHTTPServer_RequiresAddr(t *testing.T) {
	cfg := memoryConfig()
	cfg.HTTPAddr = ""

	_, _, err := NewHTTPServer(context.Background(), cfg, logging.NewNop())
	require.Error(t, err)
}

func TestNewRepositories_CacheDecorator(t *testing.T) {
	cfg := memoryConfig()

	repos, _, err := newRepositories(context.Background(), cfg, logging.NewNop())
	require.NoError(t, err)
	assert.IsType(t, &cache.SeasonRepository{}, repos.Seasons)
	assert.IsType(t, &cache.TeamRepository{}, repos.Teams)

	cfg.CacheEnabled = false
	repos, _, err = newRepositories(context.Background(), cfg, logging.NewNop())
	require.NoError(t, err)
	assert.IsType(t, &memory.SeasonRepository{}, repos.Seasons)
	assert.IsType(t, &memory.TeamRepository{}, repos.Teams)
}
