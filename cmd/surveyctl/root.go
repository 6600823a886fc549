package main

import (
	"carsurvey/internal/app"
	"carsurvey/internal/config"
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:           "surveyctl",
	Short:         "Inspect the car survey response store",
	Long:          "surveyctl reads the configured response store and prints statistics or raw responses.",
	SilenceUsage:  true,
	SilenceErrors: false,
}

func init() {
	rootCmd.PersistentFlags().String("store", "", "Response store backend: mongo, redis, sqlite or memory (overrides STORE_BACKEND)")
	rootCmd.PersistentFlags().String("sqlite", "", "Path to SQLite database file (overrides SQLITE_PATH)")

	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(responsesCmd)
	rootCmd.AddCommand(validateCmd)
}

// openStore loads config, applies flag overrides and opens the response store
func openStore(cmd *cobra.Command) (*app.App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if s, _ := cmd.Flags().GetString("store"); s != "" {
		cfg.StoreBackend = s
	}
	if p, _ := cmd.Flags().GetString("sqlite"); p != "" {
		cfg.SQLitePath = p
	}
	// Read-only commands never touch sessions.
	cfg.SessionBackend = config.BackendMemory
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return app.Open(cmd.Context(), cfg)
}

func closeStore(a *app.App) {
	a.Close(context.Background())
}
