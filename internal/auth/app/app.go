package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpapi "github.com/aussiebroadwan/hrsoft/internal/auth/http"
	"github.com/aussiebroadwan/hrsoft/internal/auth/service"
	"github.com/aussiebroadwan/hrsoft/internal/auth/store"
	"github.com/aussiebroadwan/hrsoft/internal/auth/store/drivers/redis"
	"github.com/aussiebroadwan/hrsoft/internal/auth/store/drivers/sqlite"
	"github.com/aussiebroadwan/hrsoft/pkg/cryptox"
	"github.com/aussiebroadwan/hrsoft/pkg/jwtx"
	"github.com/aussiebroadwan/hrsoft/pkg/slogx"
	"github.com/aussiebroadwan/hrsoft/pkg/sqlitex"
)

const (
	// BuildVersion should be set at build time via ldflags. Later problem
	BuildVersion = "v0.1.0"
)

// Application encapsulates the auth service application with all its dependencies
type Application struct {
	cfg    Config
	logger *slog.Logger

	// Core dependencies
	db            store.Store
	refreshTokens store.RefreshTokens
	closers       []io.Closer
	codec         *jwtx.Codec
	hasher        *cryptox.PasswordHasher

	// Services
	tokenService     *service.TokenService
	accountService   *service.AccountService
	bootstrapService *service.BootstrapService

	// HTTP server
	server *http.Server
	router *httpapi.Router
}

// New creates a new Application instance with all dependencies initialized
func New(cfg Config) (*Application, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "auth-service",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
		hasher: cryptox.NewPasswordHasher(cfg.BcryptCost),
	}

	codec, err := jwtx.NewCodec([]byte(cfg.SecretKey), jwtx.WithIssuer(cfg.Issuer))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize token codec: %w", err)
	}
	app.codec = codec

	if err := app.initDatabase(); err != nil {
		return nil, err
	}
	if err := app.initRefreshStore(); err != nil {
		app.closeAll()
		return nil, err
	}

	app.initServices()
	app.initHTTP()

	return app, nil
}

// Handler exposes the router, mainly for tests.
func (app *Application) Handler() http.Handler { return app.router }

// Run starts the application and blocks until shutdown is requested
func (app *Application) Run() error {
	app.logger.Info("auth service starting",
		"port", app.cfg.Port,
		"version", BuildVersion,
		"refresh_store", app.cfg.RefreshStore,
	)

	// Start server in a goroutine
	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	// Setup signal handling for graceful shutdown
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Block until we receive a shutdown signal or server error
	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			app.closeAll()
			return fmt.Errorf("server failed: %w", err)
		}
	case sig := <-shutdown:
		app.logger.Info("shutdown signal received", "signal", sig)

		if err := app.Shutdown(); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

// Shutdown gracefully shuts down the application
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down auth service...")

	// Give outstanding requests a deadline for completion
	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	if err := app.closeAll(); err != nil {
		return err
	}

	app.logger.Info("auth service stopped")
	return nil
}

// closeAll releases stores in reverse order of opening.
func (app *Application) closeAll() error {
	var errs []error
	for i := len(app.closers) - 1; i >= 0; i-- {
		if err := app.closers[i].Close(); err != nil {
			app.logger.Error("error closing store", "error", err)
			errs = append(errs, err)
		}
	}
	app.closers = nil
	return errors.Join(errs...)
}

// initDatabase initializes the database and applies migrations
func (app *Application) initDatabase() error {
	db, err := sqlite.NewStore(sqlitex.DSN(app.cfg.DatabaseFile))
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	app.db = db
	app.closers = append(app.closers, db)

	if err := db.ApplyMigrations(); err != nil {
		app.closeAll()
		return fmt.Errorf("failed to apply database migrations: %w", err)
	}

	app.logger.Info("database migrations applied successfully")
	return nil
}

// initRefreshStore picks the refresh token backend. The SQL store is the
// default; Redis keeps refresh records out of the account database.
func (app *Application) initRefreshStore() error {
	switch app.cfg.RefreshStore {
	case RefreshStoreRedis:
		rs, err := redis.Open(app.cfg.RedisURL, app.cfg.RedisKeyPrefix)
		if err != nil {
			return fmt.Errorf("failed to initialize redis refresh store: %w", err)
		}
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := rs.Ping(ctx); err != nil {
			_ = rs.Close()
			return fmt.Errorf("redis refresh store unreachable: %w", err)
		}
		app.refreshTokens = rs
		app.closers = append(app.closers, rs)
	default:
		app.refreshTokens = app.db.RefreshTokens()
	}
	return nil
}

// initServices initializes all business logic services
func (app *Application) initServices() {
	app.tokenService = &service.TokenService{
		Codec:         app.codec,
		Hasher:        app.hasher,
		Accounts:      app.db.Accounts(),
		RefreshTokens: app.refreshTokens,
		AccessTTL:     app.cfg.AccessTTL,
		RefreshTTL:    app.cfg.RefreshTTL,
	}
	app.accountService = &service.AccountService{
		Store:  app.db,
		Hasher: app.hasher,
	}
	app.bootstrapService = &service.BootstrapService{
		Store:  app.db,
		Hasher: app.hasher,
		Token:  app.cfg.BootstrapToken,
	}
}

// initHTTP initializes the HTTP router and server
func (app *Application) initHTTP() {
	deps := map[string]store.Pinger{"database": app.db}
	if p, ok := app.refreshTokens.(store.Pinger); ok && app.cfg.RefreshStore == RefreshStoreRedis {
		deps["refresh_store"] = p
	}

	router := httpapi.NewRouter(app.codec, BuildVersion, deps, app.cfg.RateLimits, app.logger)
	router.TokenService = app.tokenService
	router.AccountService = app.accountService
	router.BootstrapService = app.bootstrapService
	router.ApplyRoutes()

	app.router = router

	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}
