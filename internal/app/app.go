package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/prediction-league/internal/config"
	"github.com/riskibarqy/prediction-league/internal/domain/bet"
	"github.com/riskibarqy/prediction-league/internal/domain/competition"
	"github.com/riskibarqy/prediction-league/internal/domain/match"
	"github.com/riskibarqy/prediction-league/internal/domain/result"
	"github.com/riskibarqy/prediction-league/internal/domain/season"
	"github.com/riskibarqy/prediction-league/internal/domain/team"
	cacherepo "github.com/riskibarqy/prediction-league/internal/infrastructure/repository/cache"
	"github.com/riskibarqy/prediction-league/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/prediction-league/internal/infrastructure/repository/postgres"
	"github.com/riskibarqy/prediction-league/internal/interfaces/httpapi"
	basecache "github.com/riskibarqy/prediction-league/internal/platform/cache"
	idgen "github.com/riskibarqy/prediction-league/internal/platform/id"
	"github.com/riskibarqy/prediction-league/internal/platform/logging"
	"github.com/riskibarqy/prediction-league/internal/platform/resilience"
	"github.com/riskibarqy/prediction-league/internal/usecase"
)

const dbPingTimeout = 5 * time.Second

// Repositories is the storage the services run on.
type Repositories struct {
	Seasons      season.Repository
	Competitions competition.Repository
	Teams        team.Repository
	Matches      match.Repository
	Results      result.Repository
	Bets         bet.Repository
}

// NewHTTPServer builds the API server. The returned close func releases the
// database pool when one was opened.
func NewHTTPServer(ctx context.Context, cfg config.Config, logger *logging.Logger) (*http.Server, func() error, error) {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.HTTPAddr == "" {
		return nil, nil, fmt.Errorf("http server addr cannot be empty")
	}

	repos, closeRepos, err := newRepositories(ctx, cfg, logger)
	if err != nil {
		return nil, nil, err
	}

	handler := newHandler(cfg, repos, logger)

	var limiter *httpapi.ClientRateLimiter
	if cfg.BetRateLimit > 0 {
		limiter = httpapi.NewClientRateLimiter(cfg.BetRateLimit, cfg.BetRateBurst)
	}
	router := httpapi.NewRouter(handler, logger, httpapi.RouterOptions{
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		BetLimiter:         limiter,
	})

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	return server, closeRepos, nil
}

func newHandler(cfg config.Config, repos Repositories, logger *logging.Logger) *httpapi.Handler {
	ids := idgen.NewUUIDGenerator()
	locks := resilience.NewKeyedMutex()

	settlementSvc := usecase.NewSettlementService(
		repos.Seasons,
		repos.Competitions,
		repos.Matches,
		repos.Results,
		repos.Bets,
		locks,
		cfg.SettlementWorkers,
		logger,
	)

	return httpapi.NewHandler(
		usecase.NewSeasonService(repos.Seasons, ids, logger),
		usecase.NewCompetitionService(repos.Seasons, repos.Competitions, ids, logger),
		usecase.NewTeamService(repos.Teams, ids),
		usecase.NewMatchService(
			repos.Seasons,
			repos.Competitions,
			repos.Teams,
			repos.Matches,
			repos.Results,
			settlementSvc,
			ids,
			cfg.BettingCloseLead,
			logger,
		),
		usecase.NewBetService(repos.Matches, repos.Bets, locks, ids, logger),
		settlementSvc,
		usecase.NewStandingsService(repos.Seasons, repos.Competitions, repos.Matches, logger),
		usecase.NewLeaderboardService(repos.Seasons, repos.Competitions, repos.Matches, repos.Bets),
		logger,
	)
}

func newRepositories(ctx context.Context, cfg config.Config, logger *logging.Logger) (Repositories, func() error, error) {
	var (
		repos     Repositories
		closeFunc = func() error { return nil }
	)

	if cfg.UsesDatabase() {
		db, err := openDB(ctx, cfg)
		if err != nil {
			return Repositories{}, nil, err
		}
		if err := postgres.BootstrapSeed(ctx, db); err != nil {
			_ = db.Close()
			return Repositories{}, nil, fmt.Errorf("bootstrap seed: %w", err)
		}
		repos = Repositories{
			Seasons:      postgres.NewSeasonRepository(db),
			Competitions: postgres.NewCompetitionRepository(db),
			Teams:        postgres.NewTeamRepository(db),
			Matches:      postgres.NewMatchRepository(db),
			Results:      postgres.NewResultRepository(db),
			Bets:         postgres.NewBetRepository(db),
		}
		closeFunc = db.Close
		logger.Info("storage ready", "driver", "postgres", "db_name", dbNameFromURL(cfg.DBURL))
	} else {
		repos = Repositories{
			Seasons:      memory.NewSeasonRepository(memory.SeedSeasons()),
			Competitions: memory.NewCompetitionRepository(memory.SeedCompetitions()),
			Teams:        memory.NewTeamRepository(memory.SeedTeams()),
			Matches:      memory.NewMatchRepository(memory.SeedMatches()),
			Results:      memory.NewResultRepository(memory.SeedResults()),
			Bets:         memory.NewBetRepository(nil),
		}
		logger.Info("storage ready", "driver", "memory")
	}

	if cfg.CacheEnabled {
		store := basecache.NewStore(cfg.CacheTTL)
		repos.Seasons = cacherepo.NewSeasonRepository(repos.Seasons, store)
		repos.Teams = cacherepo.NewTeamRepository(repos.Teams, store)
	}

	return repos, closeFunc, nil
}

func openDB(ctx context.Context, cfg config.Config) (*sqlx.DB, error) {
	dsn := normalizeDBURL(cfg.DBURL, cfg.DBBinaryParameters, cfg.ServiceName)

	db, err := openTracedDB(dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	db.SetMaxOpenConns(20)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, dbPingTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return db, nil
}
