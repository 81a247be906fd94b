package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/jonathan/portfolio/internal/config"
	"github.com/jonathan/portfolio/internal/store"
	"github.com/spf13/cobra"
)

var importCmd = &cobra.Command{
	Use:   "import <resume.json>",
	Short: "Load a résumé JSON file into the store",
	Long:  "Validates the file and replaces the stored résumé in Postgres (--db-url or DATABASE_URL) or a bbolt file (--store or STORE_PATH).",
	Args:  cobra.ExactArgs(1),
	RunE:  runImport,
}

var (
	importDatabaseURL string
	importStorePath   string
)

func init() {
	importCmd.Flags().StringVar(&importDatabaseURL, "db-url", "", "PostgreSQL connection URL (defaults to DATABASE_URL env var)")
	importCmd.Flags().StringVar(&importStorePath, "store", "", "Path to a bbolt database file (defaults to STORE_PATH env var)")

	rootCmd.AddCommand(importCmd)
}

func runImport(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("db-url") {
		cfg.DatabaseURL = importDatabaseURL
	}
	if cmd.Flags().Changed("store") {
		cfg.StorePath = importStorePath
	}
	cfg = cfg.MergeWithDefaults(config.Config{
		DatabaseURL: os.Getenv("DATABASE_URL"),
		StorePath:   os.Getenv("STORE_PATH"),
	})

	return importResume(context.Background(), cmd.OutOrStdout(), cfg, args[0])
}

func importResume(ctx context.Context, w io.Writer, cfg config.Config, path string) error {
	if cfg.DatabaseURL == "" && cfg.StorePath == "" {
		return fmt.Errorf("either --db-url or --store must be provided (via flag, config or environment)")
	}

	st, closeStore, err := openStore(ctx, cfg.DatabaseURL, cfg.StorePath)
	if err != nil {
		return err
	}
	defer closeStore()

	if _, err := store.LoadSeed(ctx, st, path, false); err != nil {
		return err
	}
	saved, err := st.GetResume(ctx)
	if err != nil {
		return fmt.Errorf("failed to read back resume: %w", err)
	}
	_, _ = fmt.Fprintf(w, "Imported %s (updated %s)\n", path, saved.UpdatedAt.Format("2006-01-02 15:04:05"))
	return nil
}
