// Command beonadmin runs one-off maintenance tasks against the Be On Bikes database.
package main

import (
	"os"

	"github.com/spf13/cobra"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "beonadmin",
	Short: "Be On Bikes maintenance commands",
	Long: `Maintenance commands for the Be On Bikes back-office.

Available subcommands:
  migrate        - Apply pending database migrations
  create-admin   - Create an administrator account
  reset-password - Replace an administrator's password and revoke their sessions
  debts          - List active bookings with outstanding debt`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "config/config.dev.yaml", "Path to configuration file")
	rootCmd.AddCommand(migrateCmd, createAdminCmd, resetPasswordCmd, debtsCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
