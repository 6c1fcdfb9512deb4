package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/riskibarqy/pickem-league/external/sportmonks"
	"github.com/riskibarqy/pickem-league/internal/config"
	"github.com/riskibarqy/pickem-league/internal/domain/fixture"
	"github.com/riskibarqy/pickem-league/internal/domain/gameweek"
	"github.com/riskibarqy/pickem-league/internal/domain/jobscheduler"
	"github.com/riskibarqy/pickem-league/internal/domain/league"
	"github.com/riskibarqy/pickem-league/internal/domain/pick"
	"github.com/riskibarqy/pickem-league/internal/domain/score"
	"github.com/riskibarqy/pickem-league/internal/domain/standing"
	"github.com/riskibarqy/pickem-league/internal/domain/team"
	"github.com/riskibarqy/pickem-league/internal/infrastructure/account/anubis"
	"github.com/riskibarqy/pickem-league/internal/infrastructure/jobqueue"
	cacherepo "github.com/riskibarqy/pickem-league/internal/infrastructure/repository/cache"
	"github.com/riskibarqy/pickem-league/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/pickem-league/internal/infrastructure/repository/postgres"
	"github.com/riskibarqy/pickem-league/internal/interfaces/httpapi"
	basecache "github.com/riskibarqy/pickem-league/internal/platform/cache"
	idgen "github.com/riskibarqy/pickem-league/internal/platform/id"
	"github.com/riskibarqy/pickem-league/internal/platform/logging"
	"github.com/riskibarqy/pickem-league/internal/platform/resilience"
	"github.com/riskibarqy/pickem-league/internal/usecase"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

type repositories struct {
	teams      team.Repository
	gameweeks  gameweek.Repository
	fixtures   fixture.Repository
	picks      pick.Repository
	scores     score.Repository
	standings  standing.Repository
	leagues    league.Repository
	dispatches jobscheduler.Repository
}

// NewHTTPServer wires repositories, services and the router. The returned
// cleanup closes the database pool, if one was opened.
func NewHTTPServer(ctx context.Context, cfg config.Config, logger *logging.Logger) (*http.Server, func(), error) {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.HTTPAddr == "" {
		return nil, nil, fmt.Errorf("http server addr cannot be empty")
	}

	repos, cleanup, err := buildRepositories(ctx, cfg, logger)
	if err != nil {
		return nil, nil, err
	}

	ids := idgen.NewRandomGenerator()

	catalogSvc := usecase.NewCatalogService(repos.teams, repos.gameweeks, repos.fixtures)
	pickSvc := usecase.NewPickService(repos.gameweeks, repos.fixtures, repos.picks, repos.scores, ids, logger.Named("usecase.pick"))
	scoringSvc := usecase.NewScoringService(repos.gameweeks, repos.fixtures, repos.picks, repos.scores, logger.Named("usecase.scoring"))
	standingSvc := usecase.NewStandingService(repos.leagues, repos.picks, repos.scores, repos.standings, cfg.StandingsWorkers, logger.Named("usecase.standing"))
	leagueSvc := usecase.NewLeagueService(repos.leagues, standingSvc, ids, logger.Named("usecase.league"))
	gameweekSvc := usecase.NewGameweekService(repos.gameweeks, logger.Named("usecase.gameweek"))
	syncSvc := usecase.NewSyncService(
		catalogProvider(cfg, logger),
		cfg.SportMonksSeasonID,
		repos.teams,
		repos.gameweeks,
		repos.fixtures,
		scoringSvc,
		standingSvc,
		logger.Named("usecase.sync"),
	)
	jobSvc := usecase.NewJobService(
		repos.gameweeks,
		syncSvc,
		scoringSvc,
		standingSvc,
		jobQueue(cfg, logger),
		repos.dispatches,
		usecase.JobConfig{
			SyncInterval:      cfg.JobSyncInterval,
			ScoreInterval:     cfg.JobScoreInterval,
			StandingsInterval: cfg.JobStandingsInterval,
			StandingsDelay:    cfg.JobStandingsDelay,
		},
		logger.Named("usecase.job"),
	)

	anubisClient := anubis.NewClient(
		&http.Client{
			Timeout:   cfg.AnubisTimeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		cfg.AnubisBaseURL,
		cfg.AnubisIntrospectURL,
		cfg.AnubisAdminKey,
		anubis.CircuitBreakerConfig{
			Enabled:          cfg.AnubisCircuitEnabled,
			FailureThreshold: cfg.AnubisCircuitFailureCount,
			OpenTimeout:      cfg.AnubisCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.AnubisCircuitHalfOpenMaxReq,
		},
		logger.Named("anubis"),
	).WithPrincipalTTL(cfg.AnubisPrincipalTTL)

	handler := httpapi.NewHandler(catalogSvc, pickSvc, scoringSvc, standingSvc, leagueSvc, gameweekSvc, jobSvc, logger.Named("httpapi"))
	router := httpapi.NewRouter(handler, anubisClient, logger, httpapi.RouterConfig{
		SwaggerEnabled:     cfg.SwaggerEnabled,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		InternalJobToken:   cfg.InternalJobToken,
		AdminUserIDs:       cfg.AdminUserIDs,
	})

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	return server, cleanup, nil
}

func buildRepositories(ctx context.Context, cfg config.Config, logger *logging.Logger) (repositories, func(), error) {
	var (
		repos   repositories
		cleanup = func() {}
	)

	if cfg.DBURL == "" {
		logger.Warn("DB_URL empty, using in-memory repositories")
		gameweeks := memory.SeedGameweeks(time.Now().UTC())
		repos = repositories{
			teams:      memory.NewTeamRepository(memory.SeedTeams()),
			gameweeks:  memory.NewGameweekRepository(gameweeks),
			fixtures:   memory.NewFixtureRepository(memory.SeedFixtures(gameweeks)),
			picks:      memory.NewPickRepository(),
			scores:     memory.NewScoreRepository(),
			standings:  memory.NewStandingRepository(),
			leagues:    memory.NewLeagueRepository(),
			dispatches: memory.NewJobDispatchRepository(),
		}
	} else {
		db, err := openDatabase(ctx, cfg)
		if err != nil {
			return repositories{}, nil, err
		}
		cleanup = func() {
			if err := db.Close(); err != nil {
				logger.Warn("close database failed", "error", err)
			}
		}

		if cfg.DBBootstrapSeed {
			if err := postgres.BootstrapSeed(ctx, db, time.Now().UTC()); err != nil {
				cleanup()
				return repositories{}, nil, fmt.Errorf("bootstrap seed: %w", err)
			}
		}

		repos = repositories{
			teams:      postgres.NewTeamRepository(db),
			gameweeks:  postgres.NewGameweekRepository(db),
			fixtures:   postgres.NewFixtureRepository(db),
			picks:      postgres.NewPickRepository(db),
			scores:     postgres.NewScoreRepository(db),
			standings:  postgres.NewStandingRepository(db),
			leagues:    postgres.NewLeagueRepository(db),
			dispatches: postgres.NewJobDispatchRepository(db),
		}
		logger.Info("postgres repositories ready", "db_name", dbNameFromURL(cfg.DBURL))
	}

	if cfg.CacheEnabled {
		store := basecache.NewStore(cfg.CacheTTL)
		repos.teams = cacherepo.NewTeamRepository(repos.teams, store)
		repos.gameweeks = cacherepo.NewGameweekRepository(repos.gameweeks, store)
		repos.fixtures = cacherepo.NewFixtureRepository(repos.fixtures, store)
	}

	return repos, cleanup, nil
}

func openDatabase(ctx context.Context, cfg config.Config) (*sqlx.DB, error) {
	dsn := normalizeDBURL(cfg.DBURL, cfg.DBBinaryParameters)

	db, err := otelsqlx.Open("postgres", dsn,
		otelsql.WithDBSystem("postgresql"),
		otelsql.WithDBName(dbNameFromURL(dsn)),
		otelsql.WithQueryFormatter(formatDBQueryForTrace),
	)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	db.SetMaxOpenConns(20)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return db, nil
}

// catalogProvider returns nil when SportMonks is off; the sync job then
// reports the dependency as unavailable.
func catalogProvider(cfg config.Config, logger *logging.Logger) usecase.CatalogProvider {
	if !cfg.SportMonksEnabled {
		logger.Info("sportmonks disabled", "reason", "SPORTMONKS_ENABLED=false")
		return nil
	}

	return sportmonks.NewClient(sportmonks.ClientConfig{
		BaseURL:      cfg.SportMonksBaseURL,
		Token:        cfg.SportMonksToken,
		Timeout:      cfg.SportMonksTimeout,
		MaxRetries:   cfg.SportMonksMaxRetries,
		RetryBackoff: cfg.SportMonksRetryBackoff,
		Logger:       logger.Named("sportmonks"),
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.SportMonksCircuitEnabled,
			FailureThreshold: cfg.SportMonksCircuitFailureCount,
			OpenTimeout:      cfg.SportMonksCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.SportMonksCircuitHalfOpenMaxReq,
		},
	})
}

func jobQueue(cfg config.Config, logger *logging.Logger) usecase.JobQueue {
	if !cfg.QStashEnabled {
		logger.Info("qstash disabled, job dispatch is a no-op", "reason", "QSTASH_ENABLED=false")
		return usecase.NewNoopJobQueue()
	}

	return jobqueue.NewQStashPublisher(jobqueue.QStashPublisherConfig{
		BaseURL:          cfg.QStashBaseURL,
		Token:            cfg.QStashToken,
		TargetBaseURL:    cfg.QStashTargetBaseURL,
		Retries:          cfg.QStashRetries,
		InternalJobToken: cfg.InternalJobToken,
		Timeout:          cfg.QStashTimeout,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.QStashCircuitEnabled,
			FailureThreshold: cfg.QStashCircuitFailureCount,
			OpenTimeout:      cfg.QStashCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.QStashCircuitHalfOpenMaxReq,
		},
	}, logger.Named("qstash"))
}
