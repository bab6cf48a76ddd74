package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sharmayn/autoposter/internal/config"
	httpcontroller "github.com/sharmayn/autoposter/internal/controller/http"
	"github.com/sharmayn/autoposter/internal/database"
	"github.com/sharmayn/autoposter/internal/domain/queue/dao"
	"github.com/sharmayn/autoposter/internal/domain/queue/dispatch"
	"github.com/sharmayn/autoposter/internal/domain/queue/entity"
	"github.com/sharmayn/autoposter/internal/domain/queue/policy"
	"github.com/sharmayn/autoposter/internal/domain/queue/service"
	"github.com/sharmayn/autoposter/internal/httpx/upstream/bitbrowser"
	"github.com/sharmayn/autoposter/internal/poster"
	"github.com/sharmayn/autoposter/internal/storage"
)

// App is the main application container
type App struct {
	cfg        config.Config
	httpServer *http.Server
	router     *chi.Mux
	logger     *slog.Logger

	pg *pgxpool.Pool

	// Domain policy (interface for HTTP handlers and the dispatcher)
	queuePolicy *policy.Policy

	// Media storage for uploads
	s3 *storage.S3Storage

	// Dispatcher running the posting loop
	dispatcher *dispatch.Dispatcher
}

// NewApp creates and initializes the application
func NewApp(ctx context.Context, cfg config.Config) (*App, error) {
	// Initialize logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	// Initialize router with middleware
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.Timeout(30 * time.Second))

	app := &App{
		cfg:    cfg,
		router: r,
		logger: logger,
	}

	// Initialize infrastructure
	if err := app.initInfrastructure(ctx); err != nil {
		return nil, fmt.Errorf("initializing infrastructure: %w", err)
	}

	// Initialize domain layers
	if err := app.initDomains(ctx); err != nil {
		return nil, fmt.Errorf("initializing domains: %w", err)
	}

	// Register routes
	app.registerRoutes()

	// Initialize HTTP server
	app.httpServer = &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      app.router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Initialize dispatcher
	if cfg.Dispatcher.Enabled {
		app.dispatcher = dispatch.New(app.queuePolicy, dispatch.Intervals{
			Idle:     cfg.Dispatcher.IdleInterval,
			Recovery: cfg.Dispatcher.RecoveryInterval,
			CycleMin: cfg.Dispatcher.CycleSleepMin,
			CycleMax: cfg.Dispatcher.CycleSleepMax,
		}, logger)
	}

	return app, nil
}

// initInfrastructure initializes infrastructure components (DB, storage)
func (a *App) initInfrastructure(ctx context.Context) error {
	pool, err := database.NewPostgresPool(ctx, a.cfg.Database.PostgresDSN, database.PoolConfig{
		MaxConns:     int32(a.cfg.Database.MaxOpenConns),
		MinConns:     int32(a.cfg.Database.MaxIdleConns),
		ConnLifetime: a.cfg.Database.ConnLifetime,
	})
	if err != nil {
		return fmt.Errorf("connecting to postgres: %w", err)
	}
	a.pg = pool

	s3Storage, err := storage.NewS3Storage(storage.S3Config{
		Endpoint:        a.cfg.S3.Endpoint,
		AccessKeyID:     a.cfg.S3.AccessKeyID,
		SecretAccessKey: a.cfg.S3.SecretAccessKey,
		Bucket:          a.cfg.S3.Bucket,
		Region:          a.cfg.S3.Region,
		PublicURL:       a.cfg.S3.PublicURL,
	})
	if err != nil {
		return fmt.Errorf("initializing s3 storage: %w", err)
	}
	a.s3 = s3Storage

	return nil
}

// initDomains initializes domain layers (DAO, Service, Policy)
func (a *App) initDomains(ctx context.Context) error {
	contentRepo := dao.NewContentPostgres(a.pg)
	accountRepo := dao.NewAccountPostgres(a.pg)
	windowRepo := dao.NewWindowPostgres(a.pg)
	scheduleRepo := dao.NewSchedulePostgres(a.pg)
	statsRepo := dao.NewStatsPostgres(a.pg)

	// Seed the stock posting windows on first start
	if err := windowRepo.EnsureDefaults(ctx); err != nil {
		return fmt.Errorf("seeding platform windows: %w", err)
	}

	svc := service.New(
		contentRepo,
		accountRepo,
		windowRepo,
		scheduleRepo,
		statsRepo,
		service.WithMaxRetries(a.cfg.Dispatcher.MaxRetries),
	)

	// Initialize BitBrowser client
	browser := bitbrowser.New(
		bitbrowser.WithBaseURL(a.cfg.Browser.APIURL),
		bitbrowser.WithResetWait(a.cfg.Browser.ResetWait),
	)

	// Initialize media spool
	spool, err := storage.NewSpool(a.cfg.Spool.Dir)
	if err != nil {
		return fmt.Errorf("initializing media spool: %w", err)
	}

	// Initialize poster registry
	registry, err := a.buildPosterRegistry()
	if err != nil {
		return err
	}

	a.queuePolicy = policy.New(svc, registry, browser, spool, a.logger,
		policy.WithPrePostDelay(a.cfg.Dispatcher.PrePostDelayMin, a.cfg.Dispatcher.PrePostDelayMax),
	)

	return nil
}

// buildPosterRegistry binds the configured automation command to each
// platform. With the dispatcher enabled, a platform left without a
// poster fails startup instead of surfacing on its first due entry.
func (a *App) buildPosterRegistry() (*poster.Registry, error) {
	registry := poster.NewRegistry()

	commands := map[entity.Platform]string{
		entity.PlatformYouTube:   a.cfg.Posters.YouTube,
		entity.PlatformLinkedIn:  a.cfg.Posters.LinkedIn,
		entity.PlatformTikTok:    a.cfg.Posters.TikTok,
		entity.PlatformPinterest: a.cfg.Posters.Pinterest,
		entity.PlatformTwitter:   a.cfg.Posters.Twitter,
	}

	for platform, command := range commands {
		if command == "" {
			continue
		}
		registry.Register(platform, poster.NewCommand(command,
			poster.WithTimeout(a.cfg.Posters.CommandTimeout),
		))
	}

	if a.cfg.Dispatcher.Enabled {
		if err := registry.Validate(entity.Platforms()...); err != nil {
			return nil, fmt.Errorf("validating poster registry: %w", err)
		}
	}

	return registry, nil
}

// registerRoutes registers all HTTP routes
func (a *App) registerRoutes() {
	// Health check
	a.router.Get("/healthz", a.healthHandler)
	a.router.Get("/readyz", a.readyHandler)

	// Swagger UI documentation
	swaggerHandler := httpcontroller.NewSwaggerHandler("Autoposter API", OpenAPISpec)
	swaggerHandler.RegisterRoutes(a.router)

	// API v1
	a.router.Route("/api/v1", func(r chi.Router) {
		queueHandler := httpcontroller.NewQueueHandler(a.queuePolicy)
		queueHandler.RegisterRoutes(r)

		accountHandler := httpcontroller.NewAccountHandler(a.queuePolicy)
		accountHandler.RegisterRoutes(r)

		windowHandler := httpcontroller.NewWindowHandler(a.queuePolicy)
		windowHandler.RegisterRoutes(r)

		mediaHandler := httpcontroller.NewMediaHandler(&mediaUploaderAdapter{a.s3})
		mediaHandler.RegisterRoutes(r)
	})
}

// healthHandler handles health check requests
func (a *App) healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}

// readyHandler handles readiness check requests
func (a *App) readyHandler(w http.ResponseWriter, r *http.Request) {
	if err := a.pg.Ping(r.Context()); err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte(`{"status":"unavailable"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ready"}`))
}

// Run starts the application and blocks until shutdown signal
func (a *App) Run(ctx context.Context) error {
	// Start dispatcher if enabled
	if a.dispatcher != nil {
		a.dispatcher.Start(ctx)
	}

	// Channel to receive errors from server
	errCh := make(chan error, 1)

	// Start HTTP server in goroutine
	go func() {
		a.logger.Info("starting HTTP server", "addr", a.cfg.Server.Address())
		if err := a.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	// Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case sig := <-quit:
		a.logger.Info("received shutdown signal", "signal", sig.String())
	case <-ctx.Done():
		a.logger.Info("context cancelled")
	}

	// Graceful shutdown
	return a.Shutdown(context.Background())
}

// Shutdown gracefully shuts down the application
func (a *App) Shutdown(ctx context.Context) error {
	a.logger.Info("shutting down...")

	// Stop dispatcher and wait for the current cycle
	if a.dispatcher != nil {
		a.dispatcher.Stop()
	}

	// Shutdown HTTP server with timeout
	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := a.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down HTTP server: %w", err)
	}

	if a.pg != nil {
		a.pg.Close()
	}

	a.logger.Info("shutdown complete")
	return nil
}

// mediaUploaderAdapter adapts storage.S3Storage to httpcontroller.MediaUploader
type mediaUploaderAdapter struct {
	s3 *storage.S3Storage
}

func (a *mediaUploaderAdapter) Upload(ctx context.Context, in httpcontroller.MediaUploadInput) (*httpcontroller.MediaUploadOutput, error) {
	out, err := a.s3.Upload(ctx, storage.UploadInput{
		Reader:      in.Reader,
		ContentType: in.ContentType,
		Size:        in.Size,
		Filename:    in.Filename,
	})
	if err != nil {
		return nil, err
	}
	return &httpcontroller.MediaUploadOutput{
		URL:  out.URL,
		Key:  out.Key,
		Size: out.Size,
	}, nil
}
