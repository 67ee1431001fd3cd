// Package app assembles the account service: configuration, stores,
// services, and the HTTP server, plus the run/shutdown lifecycle.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/meridianapps/accounts/internal/accounts/captcha"
	httpapi "github.com/meridianapps/accounts/internal/accounts/http"
	"github.com/meridianapps/accounts/internal/accounts/mail"
	"github.com/meridianapps/accounts/internal/accounts/service"
	redisdriver "github.com/meridianapps/accounts/internal/accounts/store/drivers/redis"
	"github.com/meridianapps/accounts/internal/accounts/store/drivers/sqlite"
	"github.com/meridianapps/accounts/pkg/slogx"
	"github.com/meridianapps/accounts/pkg/tokenx"
)

const (
	// BuildVersion should be set at build time via ldflags.
	BuildVersion = "v0.1.0"
)

// Application encapsulates the account service with all its dependencies.
type Application struct {
	cfg    Config
	logger *slog.Logger

	db  *sqlite.Store
	eph *redisdriver.Store

	sessions     *service.SessionService
	registration *service.RegistrationService
	oauth        *service.OAuthService
	profiles     *service.ProfileService

	server *http.Server
	router *httpapi.Router
}

// New creates an Application with all dependencies initialized.
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "accounts",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	codec, err := tokenx.NewCodec([]byte(cfg.JWTSecret))
	if err != nil {
		return nil, fmt.Errorf("ACCOUNTS_JWT_SECRET: %w", err)
	}

	if err := app.initStores(); err != nil {
		return nil, err
	}

	app.initServices(codec)
	app.initHTTP(codec)

	return app, nil
}

func (app *Application) initStores() error {
	dsn := fmt.Sprintf("file:%s?_busy_timeout=5000&_journal_mode=WAL", app.cfg.DatabaseFile)
	db, err := sqlite.NewStore(dsn)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	if err := db.ApplyMigrations(); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to apply migrations: %w", err)
	}
	app.db = db

	eph, err := redisdriver.NewStore(context.Background(), app.cfg.RedisURL)
	if err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to connect to redis: %w", err)
	}
	app.eph = eph

	return nil
}

func (app *Application) initServices(codec *tokenx.Codec) {
	var verifier captcha.Verifier = captcha.Allow{}
	if app.cfg.TurnstileSecret != "" {
		verifier = captcha.NewTurnstile(app.cfg.TurnstileSecret)
	} else {
		app.logger.Warn("no captcha secret configured, challenges are not checked")
	}

	var mailer mail.Mailer = mail.Logger{}
	if app.cfg.SMTPURL != "" {
		smtp, err := mail.NewSMTP(app.cfg.SMTPURL, app.cfg.FromMailbox)
		if err != nil {
			app.logger.Warn("invalid SMTP configuration, mail goes to the log", "err", err)
		} else {
			mailer = smtp
		}
	} else {
		app.logger.Warn("no SMTP relay configured, mail goes to the log")
	}

	app.sessions = service.NewSessionService(app.db.Users(), app.eph, codec, verifier)
	app.sessions.SessionTTL = app.cfg.SessionTTL
	app.sessions.RefreshTTL = app.cfg.RefreshTTL

	app.registration = service.NewRegistrationService(
		app.db.Users(), app.eph, verifier, mailer, app.cfg.VerifyBaseURL)

	app.oauth = service.NewOAuthService(app.db.Clients(), app.eph, codec)
	app.oauth.TokenTTL = app.cfg.SessionTTL

	app.profiles = service.NewProfileService(app.db.Users())
}

func (app *Application) initHTTP(codec *tokenx.Codec) {
	router := httpapi.NewRouter(codec, BuildVersion, app.logger)
	router.Sessions = app.sessions
	router.Registration = app.registration
	router.OAuth = app.oauth
	router.Profiles = app.profiles
	router.Deps = map[string]httpapi.Pinger{
		"sqlite": app.db,
		"redis":  app.eph,
	}
	router.ApplyRoutes()

	app.router = router
	app.server = &http.Server{
		Addr:    fmt.Sprintf(":%d", app.cfg.Port),
		Handler: router,
	}
}

// Run starts the application and blocks until shutdown is requested.
func (app *Application) Run() error {
	app.logger.Info("account service starting", "port", app.cfg.Port, "version", BuildVersion)

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

// Shutdown drains the HTTP server, then closes the stores.
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down account service...")

	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	if err := app.eph.Close(); err != nil {
		app.logger.Error("error closing redis", "error", err)
	}

	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		return err
	}

	app.logger.Info("account service stopped")
	return nil
}
