package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/Samdami/Altsamdamiblog/app/controllers"
	"github.com/Samdami/Altsamdamiblog/app/logging"
	"github.com/Samdami/Altsamdamiblog/app/middleware"
	"github.com/Samdami/Altsamdamiblog/app/repositories"
	"github.com/Samdami/Altsamdamiblog/app/routes"
	"github.com/Samdami/Altsamdamiblog/app/services"
)

// Version is the release reported by the CLI and in every log line.
var Version = "1.0.0"

// Application owns the stores, services and HTTP server of the blog.
type Application struct {
	cfg    Config
	logger *slog.Logger

	db       *repositories.DB
	kv       *badger.DB
	sessions *repositories.BadgerSessionRepository

	housekeeping *services.HousekeepingService
	handler      http.Handler
	server       *http.Server
}

// New creates a new Application with every dependency initialized.
func New(cfg Config) (*Application, error) {
	return newApplication(cfg, os.Stdout)
}

func newApplication(cfg Config, logOutput io.Writer) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: logging.New(logging.Config{
			Service: "blog",
			Version: Version,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
			Output:  logOutput,
		}),
	}

	db, kv, err := openStores(cfg, app.logger)
	if err != nil {
		return nil, err
	}
	app.db = db
	app.kv = kv
	app.sessions = repositories.NewBadgerSessionRepository(kv)
	app.logger.Info("stores opened", "database", cfg.DatabaseFile, "sessions", cfg.SessionDir)

	if err := app.initHTTP(); err != nil {
		app.closeStores()
		return nil, err
	}
	return app, nil
}

// openStores opens and migrates the SQLite database and opens the Badger
// session store.
func openStores(cfg Config, logger *slog.Logger) (*repositories.DB, *badger.DB, error) {
	db, err := repositories.OpenSQLite(cfg.DatabaseFile)
	if err != nil {
		return nil, nil, err
	}
	if err := db.ApplyMigrations(); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("failed to apply database migrations: %w", err)
	}

	kv, err := badger.Open(badger.DefaultOptions(cfg.SessionDir).WithLogger(logging.NewBadgerLogger(logger)))
	if err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("failed to open session store: %w", err)
	}
	return db, kv, nil
}

func (app *Application) initHTTP() error {
	auth := services.NewAuthService(app.db.Users())
	sessions := services.NewSessionService(app.sessions, auth, app.cfg.SessionTTL)
	posts := services.NewPostService(app.db.Posts())

	app.housekeeping = services.NewHousekeepingService(app.sessions, app.logger, app.cfg.HousekeepingInterval)

	render, err := controllers.NewRenderer()
	if err != nil {
		return err
	}

	metrics := middleware.NewMetrics()
	metrics.Registry().MustRegister(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "blog_sessions_live",
		Help: "Sessions currently stored.",
	}, func() float64 {
		n, err := app.sessions.Count()
		if err != nil {
			return 0
		}
		return float64(n)
	}))

	app.handler = routes.SetupRoutes(routes.Deps{
		Logger: app.logger,
		Posts:  controllers.NewPostController(posts, render),
		Auth: controllers.NewAuthController(auth, sessions, render, controllers.CookieConfig{
			Name:   app.cfg.SessionCookieName,
			Secure: app.cfg.SessionCookieSecure,
		}),
		Pages: controllers.NewPageController(render),
		Health: controllers.NewHealthController(map[string]controllers.Check{
			"database": app.db.Ping,
			"sessions": app.sessions.Ping,
		}),
		Metrics:    metrics,
		Sessions:   sessions,
		CookieName: app.cfg.SessionCookieName,
		LoginLimit: app.cfg.LoginRateLimit,
	})

	app.server = &http.Server{
		Addr:              ":" + strconv.Itoa(app.cfg.Port),
		Handler:           app.handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return nil
}

// Handler returns the root HTTP handler.
func (app *Application) Handler() http.Handler {
	return app.handler
}

// Run starts the application and blocks until shutdown is requested
func (app *Application) Run() error {
	app.housekeeping.Start()

	app.logger.Info("blog service starting", "port", app.cfg.Port, "version", Version)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(shutdown)

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			// Shutdown was called directly
			return nil
		}
		app.housekeeping.Stop()
		_ = app.closeStores()
		return fmt.Errorf("server failed: %w", err)
	case sig := <-shutdown:
		app.logger.Info("shutdown signal received", "signal", sig)
		if err := app.Shutdown(); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

// Shutdown drains in-flight requests, stops housekeeping and closes the stores.
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down blog service...")

	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	app.housekeeping.Stop()

	if err := app.closeStores(); err != nil {
		return err
	}

	app.logger.Info("blog service stopped")
	return nil
}

func (app *Application) closeStores() error {
	var firstErr error
	if err := app.kv.Close(); err != nil {
		app.logger.Error("error closing session store", "error", err)
		firstErr = err
	}
	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		if firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
