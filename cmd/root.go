// Package cmd implements the temperance CLI commands.
package cmd

import (
	"fmt"
	"os"

	"temperance/internal/config"
	"temperance/internal/store"

	"github.com/spf13/cobra"
)

var flagDataDir string

var rootCmd = &cobra.Command{
	Use:   "temperance",
	Short: "Track avoided spending toward a savings goal",
	Long:  "Log small discretionary-spending-avoidance gains, watch them accumulate, and see when you'll reach your goal.",
	RunE:  runStatus,
}

// Execute is the main entry point called from main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagDataDir, "data-dir", "d", "", "Data directory (default: XDG data dir)")
}

// loadConfig applies the --data-dir override on top of the config file.
func loadConfig() (config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return cfg, err
	}
	if flagDataDir != "" {
		cfg.General.DataDir = flagDataDir
	}
	return cfg, nil
}

// openStore is the shared open-and-reconcile path used by all commands.
// Seed reconciliation runs on every start so defaults and seed content are
// present before any read that depends on them.
func openStore() (*store.Store, config.Config, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, cfg, err
	}

	s, err := store.Open(cfg.DBPath())
	if err != nil {
		return nil, cfg, err
	}
	if err := s.EnsureSeedData(); err != nil {
		_ = s.Close()
		return nil, cfg, fmt.Errorf("reconciling seed data: %w", err)
	}
	return s, cfg, nil
}
