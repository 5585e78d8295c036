// Package app assembles the back-office service: configuration, database,
// services, HTTP router and the housekeeping worker.
package app

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

	"github.com/crewdesk/crewdesk/internal/backoffice/billing"
	"github.com/crewdesk/crewdesk/internal/backoffice/domain"
	httpapi "github.com/crewdesk/crewdesk/internal/backoffice/http"
	"github.com/crewdesk/crewdesk/internal/backoffice/service"
	"github.com/crewdesk/crewdesk/internal/backoffice/store"
	"github.com/crewdesk/crewdesk/internal/backoffice/store/drivers/sqlite"
	"github.com/crewdesk/crewdesk/pkg/slogx"
)

// BuildVersion should be set at build time via ldflags.
const BuildVersion = "v0.1.0"

// Application ties every dependency of the service together.
type Application struct {
	cfg    Config
	logger *slog.Logger

	db store.Store

	sessions     *service.SessionService
	auth         *service.AuthService
	invites      *service.InviteService
	membership   *service.MembershipService
	billing      *service.BillingService
	directory    *service.DirectoryService
	bookings     *service.BookingService
	housekeeping *service.Housekeeping

	server *http.Server
	router *httpapi.Router

	stopHousekeeping context.CancelFunc
}

// New builds an Application from config. It fails fast on anything the
// service cannot run without: the database and the session secret.
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "crewdesk",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	if cfg.SessionSecret == "" {
		return nil, errors.New("CREWDESK_SESSION_SECRET is required")
	}

	if err := app.initDatabase(); err != nil {
		return nil, err
	}

	app.initServices()
	app.initHTTP()

	return app, nil
}

// Run starts the application and blocks until shutdown is requested.
func (app *Application) Run() error {
	hkCtx, cancel := context.WithCancel(context.Background())
	app.stopHousekeeping = cancel
	go app.housekeeping.Run(hkCtx)

	app.logger.Info("crewdesk starting", "port", app.cfg.Port, "version", BuildVersion)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
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

// Shutdown drains in-flight requests, stops housekeeping and closes the
// database.
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down crewdesk...")

	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	if app.stopHousekeeping != nil {
		app.stopHousekeeping()
	}

	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		return err
	}

	app.logger.Info("crewdesk stopped")
	return nil
}

func (app *Application) initDatabase() error {
	dsn := fmt.Sprintf("file:%s?_busy_timeout=5000&_journal_mode=WAL", app.cfg.DatabaseFile)
	db, err := sqlite.NewStore(dsn)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	app.db = db

	if err := db.ApplyMigrations(); err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}
	return nil
}

func (app *Application) initServices() {
	app.sessions = &service.SessionService{
		Store:  app.db,
		Secret: []byte(app.cfg.SessionSecret),
		TTL:    app.cfg.SessionTTL,
		Secure: app.cfg.SecureCookies,
	}
	app.auth = &service.AuthService{Store: app.db, TrialDays: app.cfg.TrialDays}
	app.invites = &service.InviteService{
		Store:  app.db,
		Mailer: service.LogMailer{Logger: app.logger},
	}
	app.membership = &service.MembershipService{Store: app.db}
	app.billing = &service.BillingService{
		Store:  app.db,
		Client: app.billingClient(),
		Config: service.BillingConfig{
			PriceIDs: map[string]string{
				domain.PlanStandard: app.cfg.PriceStandard,
				domain.PlanPro:      app.cfg.PricePro,
			},
			TrialDays:  int64(app.cfg.TrialDays),
			SuccessURL: app.cfg.CheckoutSuccess,
			CancelURL:  app.cfg.CheckoutCancel,
		},
	}
	app.directory = &service.DirectoryService{Store: app.db}
	app.bookings = &service.BookingService{Store: app.db}
	app.housekeeping = &service.Housekeeping{
		Store:    app.db,
		Interval: app.cfg.HousekeepingInterval,
		Logger:   app.logger,
	}
}

// billingClient picks the real Stripe client when a key is configured and
// the always-503 stand-in otherwise, so the rest of the app never checks.
func (app *Application) billingClient() billing.Client {
	if app.cfg.StripeSecretKey == "" {
		app.logger.Warn("no billing credentials configured, billing endpoints will return 503")
		return billing.Disabled{}
	}
	return billing.NewStripeClient(app.cfg.StripeSecretKey)
}

func (app *Application) initHTTP() {
	router := httpapi.NewRouter(BuildVersion, app.db, app.logger)
	router.Sessions = app.sessions
	router.Auth = app.auth
	router.Invites = app.invites
	router.Membership = app.membership
	router.Billing = app.billing
	router.Directory = app.directory
	router.Bookings = app.bookings
	router.Travel = service.HashEstimator{}
	router.ApplyRoutes()
	app.router = router

	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
}
