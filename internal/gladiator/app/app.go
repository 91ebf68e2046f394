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

	"github.com/gladiatorrx/platform/internal/gladiator/breach"
	"github.com/gladiatorrx/platform/internal/gladiator/email"
	httpapi "github.com/gladiatorrx/platform/internal/gladiator/http"
	"github.com/gladiatorrx/platform/internal/gladiator/service"
	"github.com/gladiatorrx/platform/internal/gladiator/store/drivers/sqlite"
	"github.com/gladiatorrx/platform/pkg/cryptox"
	"github.com/gladiatorrx/platform/pkg/httpx"
	"github.com/gladiatorrx/platform/pkg/jwtx"
	"github.com/gladiatorrx/platform/pkg/slogx"
	"github.com/stripe/stripe-go/v82"
	"golang.org/x/sync/errgroup"
)

// BuildVersion is overridden at build time via
// -ldflags "-X github.com/gladiatorrx/platform/internal/gladiator/app.BuildVersion=...".
var BuildVersion = "dev"

// Application wires the GladiatorRX API with all its dependencies.
type Application struct {
	cfg    Config
	logger *slog.Logger

	db       *sqlite.Store
	signer   *jwtx.Signer
	verifier *jwtx.Verifier
	hasher   *cryptox.PasswordHasher
	mailer   *email.Mailer

	authService         *service.AuthService
	mfaService          *service.MFAService
	onboardingService   *service.OnboardingService
	invitationService   *service.InvitationService
	passwordService     *service.PasswordResetService
	organizationService *service.OrganizationService
	billingService      *service.BillingService
	breachService       *service.BreachService
	housekeepingService *service.HousekeepingService

	server *http.Server
	router *httpapi.Router
}

// NewLogger builds the process logger from cfg.
func NewLogger(cfg Config) *slog.Logger {
	return slogx.New(slogx.Config{
		Service: "gladiator",
		Version: BuildVersion,
		Env:     cfg.Env,
		Level:   cfg.LogLevel,
		Format:  cfg.LogFormat,
	})
}

// New creates an Application with all dependencies initialized. Migrations
// are applied before it returns.
func New(cfg Config) (*Application, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	app := &Application{cfg: cfg, logger: NewLogger(cfg)}

	httpx.LoadRateLimitProfiles(os.Getenv)
	httpx.TrustForwardedHeaders = cfg.TrustProxyHeaders
	stripe.Key = cfg.StripeSecretKey

	db, err := OpenDatabase(cfg, app.logger)
	if err != nil {
		return nil, err
	}
	app.db = db

	if app.signer, app.verifier, err = InitSessionKeys(cfg, app.logger); err != nil {
		_ = db.Close()
		return nil, err
	}
	if app.hasher, err = InitPasswordHasher(cfg); err != nil {
		_ = db.Close()
		return nil, err
	}

	app.mailer = NewMailer(cfg, app.logger)
	app.initServices()
	app.initHTTP()

	return app, nil
}

// Run serves HTTP and runs housekeeping until SIGINT/SIGTERM or a fatal
// server error, then shuts down gracefully.
func (app *Application) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		app.logger.Info("gladiator api starting", "port", app.cfg.Port, "version", BuildVersion)
		if err := app.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		return app.housekeepingService.Run(gctx)
	})

	g.Go(func() error {
		<-gctx.Done()
		app.logger.Info("shutdown requested")
		return app.shutdownServer()
	})

	err := g.Wait()
	if cerr := app.db.Close(); cerr != nil {
		app.logger.Error("error closing database", slogx.Err(cerr))
	}
	app.logger.Info("gladiator api stopped")
	return err
}

func (app *Application) shutdownServer() error {
	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", slogx.Err(err))
		if cerr := app.server.Close(); cerr != nil {
			app.logger.Error("error closing server", slogx.Err(cerr))
		}
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	return nil
}

// OpenDatabase opens the SQLite file named in cfg and applies migrations.
func OpenDatabase(cfg Config, logger *slog.Logger) (*sqlite.Store, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)", cfg.DatabaseFile)
	db, err := sqlite.NewStore(dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	if err := db.ApplyMigrations(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to apply database migrations: %w", err)
	}

	version, dirty, err := db.MigrationVersion()
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to read migration version: %w", err)
	}
	logger.Info("database migrations applied", "version", version, "dirty", dirty)
	return db, nil
}

// NewMailer delivers through SMTP when SMTP_HOST is set and logs messages
// otherwise.
func NewMailer(cfg Config, logger *slog.Logger) *email.Mailer {
	var sender email.Sender
	if cfg.SMTPHost != "" {
		sender = email.NewSMTPSender(email.SMTPConfig{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Username: cfg.SMTPUser,
			Password: cfg.SMTPPass,
		})
		logger.Info("smtp delivery enabled", "host", cfg.SMTPHost, "port", cfg.SMTPPort)
	} else {
		sender = email.NewLogSender(logger)
		logger.Warn("SMTP_HOST not set, emails will be logged instead of delivered")
	}

	return &email.Mailer{
		Sender:  sender,
		From:    cfg.MailFrom,
		Product: cfg.ProductName,
		BaseURL: cfg.AppBaseURL,
	}
}

func (app *Application) initServices() {
	app.authService = &service.AuthService{
		Store:      app.db,
		Hasher:     app.hasher,
		Signer:     app.signer,
		Verifier:   app.verifier,
		Issuer:     app.cfg.Issuer,
		SessionTTL: app.cfg.SessionTTL,
	}
	app.mfaService = &service.MFAService{Store: app.db, Issuer: app.cfg.ProductName}
	app.onboardingService = &service.OnboardingService{Store: app.db, Notifier: app.mailer, Hasher: app.hasher}
	app.invitationService = &service.InvitationService{Store: app.db, Notifier: app.mailer, Hasher: app.hasher}
	app.passwordService = &service.PasswordResetService{Store: app.db, Notifier: app.mailer, Hasher: app.hasher}
	app.organizationService = &service.OrganizationService{Store: app.db}

	app.billingService = &service.BillingService{
		Store:      app.db,
		Notifier:   app.mailer,
		SuccessURL: app.cfg.AppBaseURL + "/billing?checkout=success",
		CancelURL:  app.cfg.AppBaseURL + "/billing?checkout=cancelled",
	}
	if app.cfg.StripeSecretKey != "" {
		app.billingService.PriceID = app.cfg.StripePriceID
	} else {
		app.logger.Warn("STRIPE_SECRET_KEY not set, checkout is disabled")
	}
	if app.cfg.StripeWebhookSecret == "" {
		app.logger.Warn("STRIPE_WEBHOOK_SECRET not set, the billing webhook will reject events")
	}

	app.breachService = &service.BreachService{
		Store: app.db,
		Provider: breach.NewClient(breach.Config{
			BaseURL: app.cfg.BreachAPIURL,
			APIKey:  app.cfg.BreachAPIKey,
			Timeout: app.cfg.BreachAPITimeout,
		}),
		Parallelism:         app.cfg.BreachParallelism,
		RequireSubscription: app.cfg.RequireSubscription,
	}
	if !app.cfg.RequireSubscription {
		app.logger.Warn("REQUIRE_SUBSCRIPTION=false, breach search is open to every organization")
	}

	app.housekeepingService = service.NewHousekeepingService(
		app.db,
		app.logger,
		app.cfg.HousekeepingInterval,
		app.cfg.SessionRetention,
	)
}

func (app *Application) initHTTP() {
	router := httpapi.NewRouter(app.verifier, BuildVersion, app.db, app.logger)

	router.AuthService = app.authService
	router.MFAService = app.mfaService
	router.OnboardingService = app.onboardingService
	router.InvitationService = app.invitationService
	router.PasswordService = app.passwordService
	router.OrganizationService = app.organizationService
	router.BillingService = app.billingService
	router.BreachService = app.breachService
	router.WebhookSecret = app.cfg.StripeWebhookSecret
	router.SecureCookies = app.cfg.SecureCookies
	router.ApplyRoutes()

	app.router = router

	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
		ReadTimeout:       app.cfg.ReadTimeout,
		WriteTimeout:      app.cfg.WriteTimeout,
		IdleTimeout:       app.cfg.IdleTimeout,
	}
}
