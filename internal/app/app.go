package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/fantasyxi/fpl-insight/external/fpl"
	"github.com/fantasyxi/fpl-insight/external/openai"
	"github.com/fantasyxi/fpl-insight/internal/config"
	"github.com/fantasyxi/fpl-insight/internal/domain/fixture"
	"github.com/fantasyxi/fpl-insight/internal/domain/history"
	"github.com/fantasyxi/fpl-insight/internal/domain/player"
	"github.com/fantasyxi/fpl-insight/internal/domain/playerstats"
	"github.com/fantasyxi/fpl-insight/internal/domain/season"
	"github.com/fantasyxi/fpl-insight/internal/domain/syncstate"
	"github.com/fantasyxi/fpl-insight/internal/domain/team"
	cacherepo "github.com/fantasyxi/fpl-insight/internal/infrastructure/repository/cache"
	"github.com/fantasyxi/fpl-insight/internal/infrastructure/repository/memory"
	"github.com/fantasyxi/fpl-insight/internal/infrastructure/repository/postgres"
	"github.com/fantasyxi/fpl-insight/internal/interfaces/httpapi"
	"github.com/fantasyxi/fpl-insight/internal/platform/cache"
	"github.com/fantasyxi/fpl-insight/internal/platform/logging"
	"github.com/fantasyxi/fpl-insight/internal/platform/resilience"
	"github.com/fantasyxi/fpl-insight/internal/usecase"
	"github.com/jmoiron/sqlx"
)

type repositories struct {
	teams     team.Repository
	players   player.Repository
	fixtures  fixture.Repository
	stats     playerstats.Repository
	history   history.Repository
	seasons   season.Repository
	syncState syncstate.Repository
}

// Application owns the HTTP server and the background sync loop.
type Application struct {
	Server *http.Server

	cfg         config.Config
	logger      *logging.Logger
	db          *sqlx.DB
	syncService *usecase.SyncService
	stopSync    chan struct{}
	syncDone    chan struct{}
}

func New(cfg config.Config, logger *logging.Logger) (*Application, error) {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.HTTPAddr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	var (
		repos repositories
		db    *sqlx.DB
		err   error
	)
	if cfg.DBDisabled {
		logger.Info("database disabled, using in-memory repositories")
		repos = memoryRepositories()
	} else {
		db, err = openDB(cfg)
		if err != nil {
			return nil, fmt.Errorf("open database: %w", err)
		}
		repos = postgresRepositories(db)
	}

	var store *cache.Store
	if cfg.CacheEnabled {
		store = cache.NewStore(cfg.CacheTTL)
		repos.teams = cacherepo.NewTeamRepository(repos.teams, store)
		repos.players = cacherepo.NewPlayerRepository(repos.players, store)
		repos.fixtures = cacherepo.NewFixtureRepository(repos.fixtures, store)
	}

	if err := ensureSeasonConfig(context.Background(), repos.seasons, cfg.SeasonLabel); err != nil {
		closeDB(db, logger)
		return nil, fmt.Errorf("ensure season config: %w", err)
	}

	fplClient := fpl.NewClient(fpl.ClientConfig{
		BaseURL:    cfg.FPLBaseURL,
		UserAgent:  cfg.FPLUserAgent,
		Timeout:    cfg.FPLTimeout,
		Throttle:   cfg.FPLThrottle,
		MaxRetries: cfg.FPLMaxRetries,
		Logger:     logger,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.FPLCircuitEnabled,
			FailureThreshold: cfg.FPLCircuitFailureCount,
			OpenTimeout:      cfg.FPLCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.FPLCircuitHalfOpenMaxReq,
		},
	})

	fixtureService := usecase.NewFixtureService(repos.fixtures, repos.teams, store, cfg.DifficultyHorizon, logger)

	scoringService := usecase.NewScoringService(repos.players, repos.history, repos.seasons, usecase.ScoringConfig{
		PriceFloor:        cfg.ValuePriceFloor,
		CaptainScoreFloor: cfg.CaptainScoreFloor,
		CaptainLimit:      cfg.CaptainLimit,
	}, logger)

	squadService := usecase.NewSquadService(repos.players, scoringService, usecase.SquadConfig{
		Budget:          cfg.SquadBudget,
		MaxPerTeam:      cfg.SquadMaxPerTeam,
		RatioGoalkeeper: cfg.SquadBudgetRatioGK,
		RatioDefender:   cfg.SquadBudgetRatioDEF,
		RatioMidfielder: cfg.SquadBudgetRatioMID,
		RatioForward:    cfg.SquadBudgetRatioFWD,
	}, logger)

	transferService := usecase.NewTransferService(repos.players, scoringService, fixtureService, usecase.TransferConfig{
		FormFloor:      cfg.TransferFormFloor,
		PPGFloor:       cfg.TransferPPGFloor,
		PricePremium:   cfg.TransferPricePremium,
		HardPPGFloor:   cfg.TransferHardPPGFloor,
		MinGain:        cfg.TransferMinGain,
		DefaultMax:     cfg.TransferDefaultMax,
		FixtureHorizon: cfg.TransferFixtureHorizon,
	}, logger)

	var oracle usecase.RecommendationOracle
	if cfg.OracleEnabled {
		oracle = openai.NewClient(openai.ClientConfig{
			BaseURL:     cfg.OracleBaseURL,
			APIKey:      cfg.OracleAPIKey,
			Model:       cfg.OracleModel,
			Timeout:     cfg.OracleTimeout,
			MaxAttempts: cfg.OracleMaxAttempts,
			Logger:      logger,
		})
	}
	recommendationService := usecase.NewRecommendationService(repos.players, repos.teams, squadService, scoringService, oracle, cfg.OracleEnabled, logger)

	playerService := usecase.NewPlayerService(repos.players, repos.stats, scoringService, fixtureService, logger)
	teamService := usecase.NewTeamService(repos.teams, repos.players, logger)
	statsService := usecase.NewStatsService(repos.players, repos.stats, repos.teams, fixtureService, logger)
	entryService := usecase.NewEntryService(fplClient, repos.players, fixtureService, logger)

	syncService := usecase.NewSyncService(
		fplClient,
		repos.teams,
		repos.players,
		repos.fixtures,
		repos.stats,
		repos.history,
		repos.syncState,
		usecase.SyncConfig{
			RefreshInterval:     cfg.SyncRefreshInterval,
			BackfillWorkers:     cfg.SyncBackfillWorkers,
			HistoryFetchWorkers: cfg.SyncHistoryFetchWorkers,
		},
		logger,
	)

	handler := httpapi.NewHandler(
		syncService,
		playerService,
		teamService,
		fixtureService,
		scoringService,
		transferService,
		recommendationService,
		statsService,
		entryService,
		logger,
	)
	router := httpapi.NewRouter(handler, logger, cfg.CORSAllowedOrigins, cfg.InternalJobToken)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	return &Application{
		Server:      server,
		cfg:         cfg,
		logger:      logger,
		db:          db,
		syncService: syncService,
		stopSync:    make(chan struct{}),
		syncDone:    make(chan struct{}),
	}, nil
}

// Start launches the periodic sync loop. It returns immediately; the
// HTTP server is run by the caller.
func (a *Application) Start() {
	if !a.cfg.SyncAutoEnabled {
		close(a.syncDone)
		a.logger.Info("auto sync disabled", "reason", "SYNC_AUTO_ENABLED=false")
		return
	}

	go a.runSyncLoop()
}

func (a *Application) runSyncLoop() {
	defer close(a.syncDone)

	interval := a.cfg.SyncAutoInterval
	if interval <= 0 {
		interval = time.Hour
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	a.logger.Info("auto sync loop started", "interval", interval.String())
	a.runSyncOnce()

	for {
		select {
		case <-a.stopSync:
			return
		case <-ticker.C:
			a.runSyncOnce()
		}
	}
}

func (a *Application) runSyncOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	report, err := a.syncService.Sync(ctx, false)
	if err != nil {
		a.logger.ErrorContext(ctx, "auto sync failed", "error", err)
		return
	}
	if report.Skipped {
		a.logger.DebugContext(ctx, "auto sync skipped, data fresh")
		return
	}
	a.logger.InfoContext(ctx, "auto sync finished",
		"success", report.Success,
		"gameweek", report.Gameweek,
	)
}

// Shutdown stops the sync loop and releases the database pool. The HTTP
// listener is shut down separately by the caller.
func (a *Application) Shutdown(ctx context.Context) error {
	close(a.stopSync)
	select {
	case <-a.syncDone:
	case <-ctx.Done():
		return ctx.Err()
	}

	closeDB(a.db, a.logger)
	return nil
}

func memoryRepositories() repositories {
	return repositories{
		teams:     memory.NewTeamRepository(),
		players:   memory.NewPlayerRepository(),
		fixtures:  memory.NewFixtureRepository(),
		stats:     memory.NewPlayerStatsRepository(),
		history:   memory.NewHistoryRepository(),
		seasons:   memory.NewSeasonRepository(),
		syncState: memory.NewSyncStateRepository(),
	}
}

func postgresRepositories(db *sqlx.DB) repositories {
	return repositories{
		teams:     postgres.NewTeamRepository(db),
		players:   postgres.NewPlayerRepository(db),
		fixtures:  postgres.NewFixtureRepository(db),
		stats:     postgres.NewPlayerStatsRepository(db),
		history:   postgres.NewHistoryRepository(db),
		seasons:   postgres.NewSeasonRepository(db),
		syncState: postgres.NewSyncStateRepository(db),
	}
}

func ensureSeasonConfig(ctx context.Context, repo season.Repository, label string) error {
	_, ok, err := repo.Get(ctx)
	if err != nil {
		return err
	}
	if ok {
		return nil
	}

	cfg := season.DefaultConfig(label)
	cfg.UpdatedAt = time.Now().UTC()
	return repo.Save(ctx, cfg)
}

func closeDB(db *sqlx.DB, logger *logging.Logger) {
	if db == nil {
		return
	}
	if err := db.Close(); err != nil {
		logger.Error("close database", "error", err)
	}
}
