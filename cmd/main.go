package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/okian/brent/internal/adapters/csvload"
	"github.com/okian/brent/internal/adapters/http/api"
	"github.com/okian/brent/internal/adapters/http/charts"
	"github.com/okian/brent/internal/adapters/http/site"
	"github.com/okian/brent/internal/adapters/http/swagger"
	"github.com/okian/brent/internal/adapters/repository"
	service "github.com/okian/brent/internal/app"
	"github.com/okian/brent/internal/config"
	"github.com/okian/brent/pkg/logger"
)

// HTTP server timeout constants.
const (
	readTimeout       = 10 * time.Second
	writeTimeout      = 30 * time.Second
	idleTimeout       = 60 * time.Second
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 30 * time.Second
)

func main() {
	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> .env -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		// Use stderr for initialization errors since logger isn't available yet
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		os.Exit(1)
	}

	if err := logger.Init(logger.WithFormat(cfg.LogFormat)); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	log := logger.Get()

	// Apply configured log level (fallback to info on invalid input)
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	handler, svc, err := newRouter(ctx, cfg, log)
	if err != nil {
		log.Fatal(ctx, "failed to build routes", logger.Error(err))
	}
	if err := svc.Start(ctx); err != nil {
		log.Fatal(ctx, "failed to start service", logger.Error(err))
	}
	defer svc.Stop()

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	go func() {
		log.Info(ctx, "starting HTTP server",
			logger.String("addr", cfg.Addr),
			logger.String("prices", cfg.PricesPath()),
			logger.String("events", cfg.EventsPath()),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error(ctx, "HTTP server failed", logger.Error(err))
			stop()
		}
	}()

	// Wait for shutdown signal
	<-ctx.Done()
	log.Info(ctx, "shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(ctx, "server shutdown failed", logger.Error(err))
	}

	log.Info(ctx, "server stopped")
}

// newRouter wires the session store, the dashboard service and every route.
func newRouter(ctx context.Context, cfg *config.Config, log logger.Logger) (http.Handler, *service.Service, error) {
	store := repository.NewMemoStore(
		csvload.Paths{Prices: cfg.PricesPath(), Events: cfg.EventsPath()},
		repository.WithLogger(log.Named("repository")),
	)
	svc := service.New(
		service.WithStore(store),
		service.WithLogger(log.Named("service")),
		service.WithWarmup(true),
	)

	mux := http.NewServeMux()
	site.Register(ctx, mux)
	swagger.Register(ctx, mux)

	apiServer, err := api.NewServer(svc, svc,
		api.WithLogger(log.Named("api")),
		api.WithChartOptions(charts.Options{AssetsHost: cfg.AssetsHost}),
	)
	if err != nil {
		return nil, nil, err
	}
	apiServer.Register(ctx, mux)

	return api.RequestIDMiddleware(mux), svc, nil
}
