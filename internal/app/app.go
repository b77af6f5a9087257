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

	httpapi "github.com/streamvault/streamvault/internal/http"
	"github.com/streamvault/streamvault/internal/service"
	"github.com/streamvault/streamvault/internal/store"
	"github.com/streamvault/streamvault/internal/store/drivers/sqlite"
	"github.com/streamvault/streamvault/pkg/httpx"
	"github.com/streamvault/streamvault/pkg/jwtx"
	"github.com/streamvault/streamvault/pkg/slogx"
)

const (
	// BuildVersion should be set at build time via ldflags. Later problem
	BuildVersion = "v0.1.0"
)

// Application encapsulates the service with all its dependencies.
type Application struct {
	cfg    Config
	logger *slog.Logger

	db    store.Store
	codec *jwtx.Codec

	authService         *service.AuthService
	refreshService      *service.RefreshTokenService
	userService         *service.UserService
	showsService        *service.ShowsService
	housekeepingService *service.HousekeepingService

	server *http.Server
	router *httpapi.Router
}

// New creates an Application with all dependencies initialized.
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "streamvault",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	if err := app.initDatabase(); err != nil {
		return nil, err
	}

	key, err := LoadSigningKey(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to load signing key: %w", err)
	}
	app.codec, err = jwtx.NewCodec(key, cfg.JWTIssuer, cfg.JWTExpiration)
	if err != nil {
		return nil, fmt.Errorf("failed to build token codec: %w", err)
	}
	app.logger.Info("token codec initialized",
		"algorithm", key.Algorithm(), "issuer", cfg.JWTIssuer, "ttl", cfg.JWTExpiration)

	app.initServices()
	app.initHTTP()

	return app, nil
}

// Run starts the application and blocks until shutdown is requested.
func (app *Application) Run() error {
	app.housekeepingService.Start()

	app.logger.Info("streamvault starting", "port", app.cfg.Port, "version", BuildVersion)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil && err != http.ErrServerClosed {
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

// Shutdown gracefully shuts down the application.
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down streamvault...")

	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	app.housekeepingService.Stop()

	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		return err
	}

	app.logger.Info("streamvault stopped")
	return nil
}

func (app *Application) initDatabase() error {
	host := fmt.Sprintf("file:%s?_busy_timeout=5000&_journal_mode=WAL", app.cfg.DatabaseFile)
	db, err := sqlite.NewStore(host)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	app.db = db

	if err := db.ApplyMigrations(); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to apply database migrations: %w", err)
	}

	app.logger.Info("database migrations applied successfully")
	return nil
}

func (app *Application) initServices() {
	app.refreshService = &service.RefreshTokenService{
		Store: app.db,
		TTL:   app.cfg.RefreshExpiration,
	}
	app.authService = &service.AuthService{
		Store:     app.db,
		Codec:     app.codec,
		Refresh:   app.refreshService,
		TokenType: app.cfg.JWTPrefix,
	}
	app.userService = &service.UserService{Store: app.db}
	app.showsService = &service.ShowsService{Store: app.db}

	app.housekeepingService = service.NewHousekeepingService(
		app.refreshService,
		app.logger,
		app.cfg.HousekeepingInterval,
	)
}

func (app *Application) initHTTP() {
	router := httpapi.NewRouter(
		BuildVersion,
		app.db,
		app.logger,
		httpapi.AuthnConfig{
			Codec:       app.codec,
			Header:      app.cfg.JWTHeader,
			Prefix:      app.cfg.JWTPrefix,
			CookieName:  app.cfg.CookieName,
			ExemptPaths: app.cfg.AuthExemptPaths,
		},
		httpx.CORSConfig{
			AllowedOrigins:   app.cfg.CORSAllowedOrigins,
			AllowedMethods:   app.cfg.CORSAllowedMethods,
			AllowedHeaders:   app.cfg.CORSAllowedHeaders,
			ExposedHeaders:   app.cfg.CORSExposedHeaders,
			AllowCredentials: app.cfg.CORSAllowCredentials,
			MaxAge:           app.cfg.CORSMaxAge,
			RequireOrigin:    app.cfg.CORSRequireOrigin,
		},
		httpapi.CookieConfig{
			Enabled:  app.cfg.CookieEnabled,
			Name:     app.cfg.CookieName,
			Path:     app.cfg.CookiePath,
			MaxAge:   app.cfg.CookieMaxAge,
			Secure:   app.cfg.CookieSecure,
			HTTPOnly: app.cfg.CookieHTTPOnly,
			SameSite: parseSameSite(app.cfg.CookieSameSite),
		},
	)

	router.AuthService = app.authService
	router.ShowsService = app.showsService
	router.ApplyRoutes()

	app.router = router

	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}

func parseSameSite(mode string) http.SameSite {
	switch mode {
	case "strict":
		return http.SameSiteStrictMode
	case "none":
		return http.SameSiteNoneMode
	default:
		return http.SameSiteLaxMode
	}
}
