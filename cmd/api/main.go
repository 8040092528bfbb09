package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"github.com/yagoscalfoni/order-processing/internal/app"
	"github.com/yagoscalfoni/order-processing/internal/clock"
	"github.com/yagoscalfoni/order-processing/internal/config"
	"github.com/yagoscalfoni/order-processing/internal/logging"
	"github.com/yagoscalfoni/order-processing/internal/metrics"
	"github.com/yagoscalfoni/order-processing/internal/storage/postgres"
	transporthttp "github.com/yagoscalfoni/order-processing/internal/transport/http"
	"github.com/yagoscalfoni/order-processing/migrations"
)

const startupTimeout = 5 * time.Second

func main() {
	envPath, envErr := config.LoadEnvFile()
	logger := logging.Setup()

	switch {
	case envErr != nil:
		logger.Warn("failed to load .env", "error", envErr)
	case envPath == "":
		logger.Warn(".env not found in current or parent directories")
	default:
		logger.Info("loaded env", "path", envPath)
	}

	if err := run(logger); err != nil {
		logger.Error("api stopped with error", "error", err)
		os.Exit(1)
	}
	logger.Info("api stopped")
}

func run(logger *slog.Logger) error {
	cfg, warnings := config.Load()
	for _, w := range warnings {
		logger.Warn(w)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	startupCtx, cancel := context.WithTimeout(ctx, startupTimeout)
	defer cancel()

	poolCfg, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("parse database url: %w", err)
	}
	if cfg.DBMaxConns > 0 {
		poolCfg.MaxConns = int32(cfg.DBMaxConns)
	}
	pool, err := pgxpool.NewWithConfig(startupCtx, poolCfg)
	if err != nil {
		return fmt.Errorf("connect to db: %w", err)
	}
	defer pool.Close()

	if err := pool.Ping(startupCtx); err != nil {
		return fmt.Errorf("db ping: %w", err)
	}
	applied, err := migrations.Apply(startupCtx, pool)
	if err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}
	if len(applied) > 0 {
		logger.Info("migrations applied", "names", applied)
	}

	ormRepo, err := postgres.NewGormRepository(pool)
	if err != nil {
		return fmt.Errorf("open orm: %w", err)
	}
	mapperRepo := postgres.NewMapperRepository(pool)
	procedureRepo := postgres.NewProcedureRepository(pool)
	syncRepo, err := postgres.OpenSyncRepository(cfg.DatabaseURL, cfg.DBMaxConns)
	if err != nil {
		return err
	}
	defer func() { _ = syncRepo.Close() }()
	if err := syncRepo.Ping(); err != nil {
		return fmt.Errorf("sync db ping: %w", err)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	instruments := metrics.NewCollectors(reg)

	gate := app.NewAdmissionGate(cfg.AdmissionCapacity)
	metrics.RegisterGate(reg, gate)

	ch := metrics.NewChannel(metrics.OnDrop(instruments.MetricsDropped.Inc))
	reporter := metrics.NewReporter(ch, logger, instruments)

	taxOpts := []app.TaxOption{app.WithDefaultRate(cfg.TaxDefaultRate)}
	for currency, rate := range cfg.TaxRates {
		taxOpts = append(taxOpts, app.WithRate(currency, rate))
	}
	orderSvc := app.NewOrderService(
		app.NewStaticTaxClient(taxOpts...),
		gate,
		ch,
		clock.NewSystem(),
		app.WithLogger(logger),
	)

	router := transporthttp.NewRouter(transporthttp.RouterConfig{
		Orders: orderSvc,
		Strategies: []transporthttp.Strategy{
			{Name: "orm", Creator: ormRepo, Aliases: []string{"ef"}},
			{Name: "mapper", Creator: mapperRepo, Aliases: []string{"dapper"}},
			{Name: "sp", Creator: procedureRepo},
			{Name: "sync", Creator: app.FromSync(syncRepo)},
		},
		Reader:   ormRepo,
		Recorder: instruments,
		Health:   transporthttp.HealthHandler(pool.Ping),
		Metrics:  promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}),
	})
	handler := transporthttp.RequestLogger(transporthttp.CORS(cfg.CORSOrigins, router), logger)

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	// The reporter outlives the signal context so it can drain after the
	// server stops accepting requests.
	reporterCtx, cancelReporter := context.WithCancel(context.Background())
	defer cancelReporter()
	reporterDone := make(chan struct{})

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("api listening", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		defer close(reporterDone)
		if err := reporter.Run(reporterCtx); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down", "timeout", cfg.ShutdownTimeout)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()

		err := server.Shutdown(shutdownCtx)
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server shutdown", "error", err)
		}

		ch.Close()
		select {
		case <-reporterDone:
		case <-shutdownCtx.Done():
			logger.Warn("metrics reporter did not drain in time", "pending", ch.Len())
			cancelReporter()
		}
		return nil
	})

	return g.Wait()
}
