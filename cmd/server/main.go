// Package main is the entry point for the folio portfolio analytics engine.
// The engine values portfolios against live market data, computes risk and
// sector exposure metrics, and derives rule-based recommendations. It keeps
// no portfolio state: every analysis request is self-contained.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/aristath/folio/internal/clients/marketdata"
	"github.com/aristath/folio/internal/config"
	"github.com/aristath/folio/internal/database"
	"github.com/aristath/folio/internal/domain"
	"github.com/aristath/folio/internal/modules/analysis"
	"github.com/aristath/folio/internal/modules/recommendations"
	"github.com/aristath/folio/internal/modules/resolver"
	"github.com/aristath/folio/internal/modules/risk"
	"github.com/aristath/folio/internal/modules/sectors"
	"github.com/aristath/folio/internal/modules/universe"
	"github.com/aristath/folio/internal/modules/valuation"
	"github.com/aristath/folio/internal/scheduler"
	"github.com/aristath/folio/internal/server"
	"github.com/aristath/folio/pkg/logger"
	"github.com/rs/zerolog"
)

const (
	quoteCacheTTL         = 5 * time.Minute
	gatewayRequestsPerSec = 4.0

	directoryRefreshSchedule = "0 0 * * * *"    // hourly
	policyReloadSchedule     = "0 */5 * * * *"  // every 5 minutes
	cachePruneSchedule       = "0 */15 * * * *" // every 15 minutes
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fallbackLog := logger.New(logger.Config{Level: "info", Pretty: true})
		fallbackLog.Fatal().Err(err).Msg("Failed to load configuration")
	}

	log := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Pretty: cfg.DevMode,
	})

	log.Info().Msg("Starting folio")

	ctx := context.Background()

	// Reference data and the quote cache live in separate databases so the
	// cache's aggressive pragmas never touch the instrument directory.
	universeDB, err := database.New(database.Config{
		Path:    filepath.Join(cfg.DataDir, "universe.db"),
		Profile: database.ProfileStandard,
		Name:    "universe",
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open universe database")
	}
	defer universeDB.Close()

	cacheDB, err := database.New(database.Config{
		Path:    filepath.Join(cfg.DataDir, "cache.db"),
		Profile: database.ProfileCache,
		Name:    "quotecache",
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open cache database")
	}
	defer cacheDB.Close()

	instrumentRepo := universe.NewInstrumentRepository(universeDB.Conn(), log)
	if err := instrumentRepo.EnsureSchema(ctx); err != nil {
		log.Fatal().Err(err).Msg("Failed to create instrument schema")
	}

	count, err := instrumentRepo.Count(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to count instruments")
	}
	if count == 0 {
		seed := universe.SeedInstruments()
		if err := instrumentRepo.ReplaceAll(ctx, seed); err != nil {
			log.Fatal().Err(err).Msg("Failed to seed instrument directory")
		}
		log.Info().Int("instruments", len(seed)).Msg("Seeded instrument directory")
	}

	directory := universe.NewDirectory(instrumentRepo, log)
	if err := directory.Load(ctx); err != nil {
		log.Fatal().Err(err).Msg("Failed to load instrument directory")
	}

	policies, err := config.NewPolicyStore(cfg.PolicyFile, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load analysis policy")
	}

	quoteCache := marketdata.NewQuoteCache(cacheDB.Conn(), quoteCacheTTL, log)
	if err := quoteCache.EnsureSchema(ctx); err != nil {
		log.Fatal().Err(err).Msg("Failed to create quote cache schema")
	}

	market := marketdata.NewClient(cfg.MarketDataURL, gatewayRequestsPerSec, quoteCache, log)

	analysisService := analysis.NewService(
		valuation.NewService(market, log),
		risk.NewEngine(cfg.RiskFreeRate, domain.GranularityMonthly, log),
		sectors.NewAnalyzer(log),
		recommendations.NewSynthesizer(log),
		market,
		directory,
		policies,
		log,
	)

	sched := scheduler.New(log)
	registerJob(sched, directoryRefreshSchedule, scheduler.NewDirectoryRefreshJob(directory), log)
	registerJob(sched, policyReloadSchedule, scheduler.NewPolicyReloadJob(policies), log)
	registerJob(sched, cachePruneSchedule, scheduler.NewCachePruneJob(quoteCache, log), log)
	sched.Start()

	srv := server.New(server.Config{
		Log:        log,
		Port:       cfg.Port,
		DevMode:    cfg.DevMode,
		UniverseDB: universeDB,
		CacheDB:    cacheDB,
		Directory:  directory,
		Policies:   policies,
		Analysis:   analysisService,
		Resolver:   resolver.New(directory, log),
	})

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	log.Info().Int("port", cfg.Port).Msg("Server started successfully")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down...")

	sched.Stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server stopped")
}

func registerJob(sched *scheduler.Scheduler, schedule string, job scheduler.Job, log zerolog.Logger) {
	if err := sched.AddJob(schedule, job); err != nil {
		log.Fatal().Err(err).Str("job", job.Name()).Msg("Failed to register job")
	}
}
