package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/lane-analytics/backend/internal/api"
	"github.com/lane-analytics/backend/internal/config"
	"github.com/lane-analytics/backend/internal/logging"
	"github.com/lane-analytics/backend/internal/metrics"
	"github.com/lane-analytics/backend/internal/parser"
	"github.com/lane-analytics/backend/internal/pipeline"
	"github.com/lane-analytics/backend/internal/session"
	"github.com/lane-analytics/backend/internal/store"
	"github.com/lane-analytics/backend/internal/web"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
)

// Version info (set during build)
var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "lane dashboard: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// .env is optional; real environment variables win.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to load .env: %w", err)
	}

	// Get the executable's directory for config resolution
	exePath, err := os.Executable()
	if err != nil {
		return fmt.Errorf("failed to get executable path: %w", err)
	}
	configPath := filepath.Join(filepath.Dir(exePath), config.DefaultFileName)
	if p := os.Getenv("LANES_CONFIG"); p != "" {
		configPath = p
	}

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := logging.New(cfg.Advanced.LogLevel, cfg.Advanced.Development)
	if err != nil {
		return err
	}
	defer logger.Sync()

	profiles, err := parser.LoadProfiles(cfg.Profiles.Path)
	if err != nil {
		return fmt.Errorf("failed to load profiles: %w", err)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	agg, err := store.NewAggregator(cfg.Processing.Engine, logger)
	if err != nil {
		return err
	}
	sessions := session.NewManager(
		parser.NewRegistry(),
		pipeline.New(agg, logger, m),
		session.WithMaxSessions(cfg.Processing.MaxSessions),
		session.WithLogger(logger),
		session.WithMetrics(m),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go sessions.RunJanitor(ctx, cfg.CleanupInterval(), cfg.SessionTimeout())

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	api.SetupMiddleware(e, logger, cfg.Advanced.Development, cfg.Advanced.EnableRequestLogging)
	e.Use(middleware.BodyLimit(cfg.Processing.MaxUploadSize))

	if cfg.Server.EnableCORS {
		origins := strings.Split(cfg.Server.AllowOrigins, ",")
		for i := range origins {
			origins[i] = strings.TrimSpace(origins[i])
		}
		if len(origins) == 0 || (len(origins) == 1 && origins[0] == "") {
			origins = []string{"*"}
		}
		e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
			AllowOrigins: origins,
			AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
			AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept},
		}))
	}

	handlers := api.NewHandlers(&api.Dependencies{
		Sessions: sessions,
		Profiles: profiles,
		Defaults: api.ReportDefaults{
			TopN:          cfg.Processing.TopN,
			IncludeMatrix: cfg.Processing.IncludeMatrix,
		},
		Logger:  logger,
		Version: Version,
		Engine:  agg.Name(),
	})
	api.RegisterRoutes(e, handlers, reg)

	// Register embedded dashboard page if available
	if web.HasEmbeddedFiles() {
		if err := web.RegisterStaticRoutes(e); err != nil {
			logger.Warn("failed to register static routes", zap.Error(err))
		}
	}

	// Configure server with settings from XML config
	s := &http.Server{
		Addr:         cfg.GetServerAddr(),
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	logger.Info("lane dashboard starting",
		zap.String("version", Version),
		zap.String("build_time", BuildTime),
		zap.String("config", configPath),
		zap.String("listen", cfg.GetServerAddr()),
		zap.String("engine", agg.Name()),
		zap.Strings("profiles", parser.ProfileNames(profiles)),
	)

	errCh := make(chan error, 1)
	go func() {
		if err := e.StartServer(s); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}
