package main

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/javicara/beonbike-sub000/internal/app"
	"github.com/javicara/beonbike-sub000/internal/config"
	"github.com/javicara/beonbike-sub000/internal/i18n"
	"github.com/javicara/beonbike-sub000/internal/logger"
	"github.com/javicara/beonbike-sub000/internal/repository/postgres"
	"github.com/javicara/beonbike-sub000/internal/service"
)

var (
	adminEmail    string
	adminName     string
	adminPassword string
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending database migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd.Context(), false, func(ctx context.Context, a *app.App) error {
			n, err := postgres.Migrate(ctx, a.DB)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "applied %d migration(s)\n", n)
			return nil
		})
	},
}

var createAdminCmd = &cobra.Command{
	Use:   "create-admin",
	Short: "Create an administrator account",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd.Context(), true, func(ctx context.Context, a *app.App) error {
			user, err := a.Auth.CreateAdmin(ctx, adminEmail, adminName, adminPassword)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created admin %d <%s>\n", user.ID, user.Email)
			return nil
		})
	},
}

var resetPasswordCmd = &cobra.Command{
	Use:   "reset-password",
	Short: "Replace an administrator's password and revoke their sessions",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd.Context(), true, func(ctx context.Context, a *app.App) error {
			if err := a.Auth.ResetPassword(ctx, adminEmail, adminPassword); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "password reset for %s\n", adminEmail)
			return nil
		})
	},
}

var debtsCmd = &cobra.Command{
	Use:   "debts",
	Short: "List active bookings with outstanding debt",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd.Context(), true, func(ctx context.Context, a *app.App) error {
			debtors, err := a.Bookings.Debtors(ctx)
			if err != nil {
				return err
			}
			return printDebtors(cmd.OutOrStdout(), debtors)
		})
	},
}

func init() {
	createAdminCmd.Flags().StringVar(&adminEmail, "email", "", "Admin email address")
	createAdminCmd.Flags().StringVar(&adminName, "name", "", "Admin display name")
	createAdminCmd.Flags().StringVar(&adminPassword, "password", "", "Admin password")
	_ = createAdminCmd.MarkFlagRequired("email")
	_ = createAdminCmd.MarkFlagRequired("password")

	resetPasswordCmd.Flags().StringVar(&adminEmail, "email", "", "Admin email address")
	resetPasswordCmd.Flags().StringVar(&adminPassword, "password", "", "New password")
	_ = resetPasswordCmd.MarkFlagRequired("email")
	_ = resetPasswordCmd.MarkFlagRequired("password")
}

// withApp loads configuration, opens the database and runs fn. Without services
// only Config and DB are set, and startup migrations are skipped.
func withApp(ctx context.Context, services bool, fn func(ctx context.Context, a *app.App) error) error {
	if ctx == nil {
		ctx = context.Background()
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	if !services {
		cfg.Database.AutoMigrate = false
	}

	db, err := app.OpenDB(ctx, cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	if !services {
		return fn(ctx, &app.App{Config: cfg, DB: db})
	}
	a, err := app.New(cfg, db)
	if err != nil {
		return err
	}
	return fn(ctx, a)
}

func printDebtors(out io.Writer, debtors []service.BookingView) error {
	if len(debtors) == 0 {
		_, err := fmt.Fprintln(out, "no outstanding debt")
		return err
	}
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "BOOKING\tCUSTOMER\tEMAIL\tBIKE\tWEEKS\tDEBT\tNEXT DUE")
	var total int64
	for _, d := range debtors {
		next := "-"
		if d.Ledger.NextDueDate != nil {
			next = d.Ledger.NextDueDate.String()
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%d/%d\t%s\t%s\n",
			d.ID, d.CustomerName, d.CustomerEmail, d.BikeName,
			d.Ledger.WeeksElapsed, d.Ledger.TotalWeeks,
			i18n.Money(d.Ledger.Debt), next)
		total += d.Ledger.Debt
	}
	fmt.Fprintf(tw, "\t\t\t\t\t%s\t\n", i18n.Money(total))
	return tw.Flush()
}
