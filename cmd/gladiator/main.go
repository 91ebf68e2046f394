package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"runtime"

	"github.com/gladiatorrx/platform/internal/gladiator/app"
	"github.com/gladiatorrx/platform/internal/gladiator/domain"
	"github.com/gladiatorrx/platform/internal/gladiator/service"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:           "gladiator",
	Short:         "GladiatorRX breach-exposure monitoring API",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API and background housekeeping",
	RunE: func(cmd *cobra.Command, args []string) error {
		application, err := app.New(app.LoadConfig())
		if err != nil {
			return fmt.Errorf("failed to initialize application: %w", err)
		}
		return application.Run(cmd.Context())
	},
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Manage the database schema",
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply all pending migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := app.LoadConfig()
		db, err := app.OpenDatabase(cfg, app.NewLogger(cfg))
		if err != nil {
			return err
		}
		return db.Close()
	},
}

var adminCmd = &cobra.Command{
	Use:   "admin",
	Short: "Grant or revoke platform admin",
}

var adminGrantCmd = &cobra.Command{
	Use:   "grant <email>",
	Short: "Make a user a platform admin",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return setPlatformRole(cmd.Context(), args[0], domain.PlatformRoleAdmin)
	},
}

var adminRevokeCmd = &cobra.Command{
	Use:   "revoke <email>",
	Short: "Remove platform admin from a user",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return setPlatformRole(cmd.Context(), args[0], domain.PlatformRoleUser)
	},
}

var adminApproveCmd = &cobra.Command{
	Use:   "approve <email>",
	Short: "Approve a pending waitlist entry and send its onboarding email",
	Long: `Approve a pending waitlist entry from the command line. This is how the
first operator gets onboarded before anyone holds platform admin.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return approveWaitlist(cmd.Context(), args[0])
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "gladiator %s (%s)\n", app.BuildVersion, runtime.Version())
	},
}

func init() {
	migrateCmd.AddCommand(migrateUpCmd)
	adminCmd.AddCommand(adminGrantCmd, adminRevokeCmd, adminApproveCmd)
	rootCmd.AddCommand(serveCmd, migrateCmd, adminCmd, versionCmd)
}

func setPlatformRole(ctx context.Context, email string, role domain.PlatformRole) error {
	cfg := app.LoadConfig()
	logger := app.NewLogger(cfg)
	db, err := app.OpenDatabase(cfg, logger)
	if err != nil {
		return err
	}
	defer db.Close()

	auth := &service.AuthService{Store: db}
	if err := auth.SetPlatformRole(ctx, email, role); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			return fmt.Errorf("no user with email %s", email)
		}
		return err
	}
	logger.Info("platform role updated", "email", email, "role", role)
	return nil
}

func approveWaitlist(ctx context.Context, rawEmail string) error {
	addr, err := domain.NormalizeEmail(rawEmail)
	if err != nil {
		return err
	}

	cfg := app.LoadConfig()
	logger := app.NewLogger(cfg)
	db, err := app.OpenDatabase(cfg, logger)
	if err != nil {
		return err
	}
	defer db.Close()

	hasher, err := app.InitPasswordHasher(cfg)
	if err != nil {
		return err
	}
	onboarding := &service.OnboardingService{
		Store:    db,
		Notifier: app.NewMailer(cfg, logger),
		Hasher:   hasher,
	}

	const page = 200
	for offset := 0; ; offset += page {
		entries, err := onboarding.List(ctx, string(domain.WaitlistPending), page, offset)
		if err != nil {
			return err
		}
		for _, e := range entries {
			if e.Email != addr {
				continue
			}
			if _, err := onboarding.Approve(ctx, "", e.ID); err != nil {
				return err
			}
			logger.Info("waitlist entry approved", "email", addr, "entry_id", e.ID)
			return nil
		}
		if len(entries) < page {
			return fmt.Errorf("no pending waitlist entry for %s", addr)
		}
	}
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
