package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/jonathan/portfolio/internal/config"
	"github.com/jonathan/portfolio/internal/fetch"
	"github.com/jonathan/portfolio/internal/llm"
	"github.com/jonathan/portfolio/internal/server"
	"github.com/jonathan/portfolio/internal/store"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long: `Start an HTTP server that exposes the résumé, admin session, assistant,
job-fit and PDF endpoints.

Content is stored in Postgres when --db-url (or DATABASE_URL) is set, otherwise
in the bbolt file given by --store, otherwise in memory. The assistant is
disabled when no LLM provider can be configured.`,
	RunE: runServe,
}

var (
	servePort        int
	serveOrigins     string
	serveDatabaseURL string
	serveStorePath   string
	serveSeed        string
	serveWatch       bool
	serveUseBrowser  bool
	serveAllowURLs   bool
)

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 8080, "Port to listen on")
	serveCmd.Flags().StringVar(&serveOrigins, "origins", "", "Comma separated CORS origins, * for any (defaults to ALLOWED_ORIGINS env var)")
	serveCmd.Flags().StringVar(&serveDatabaseURL, "db-url", "", "PostgreSQL connection URL (defaults to DATABASE_URL env var)")
	serveCmd.Flags().StringVar(&serveStorePath, "store", "", "Path to a bbolt database file (defaults to STORE_PATH env var)")
	serveCmd.Flags().StringVar(&serveSeed, "seed", "", "Résumé JSON loaded when the store is empty")
	serveCmd.Flags().BoolVar(&serveWatch, "watch", false, "Reload the seed file whenever it changes")
	serveCmd.Flags().BoolVar(&serveAllowURLs, "allow-job-urls", false, "Let job-fit requests fetch postings by URL (public hosts only)")
	serveCmd.Flags().BoolVar(&serveUseBrowser, "use-browser", false, "Render job postings in a headless browser when static HTML has no content")

	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("port") {
		cfg.Port = servePort
	}
	if cmd.Flags().Changed("origins") {
		cfg.AllowedOrigins = serveOrigins
	}
	if cmd.Flags().Changed("db-url") {
		cfg.DatabaseURL = serveDatabaseURL
	}
	if cmd.Flags().Changed("store") {
		cfg.StorePath = serveStorePath
	}
	if cmd.Flags().Changed("seed") {
		cfg.Seed = serveSeed
	}
	if cmd.Flags().Changed("watch") {
		cfg.WatchSeed = serveWatch
	}
	if cmd.Flags().Changed("use-browser") {
		cfg.UseBrowser = serveUseBrowser
	}
	if cmd.Flags().Changed("allow-job-urls") {
		cfg.AllowJobURLs = serveAllowURLs
	}
	cfg = cfg.MergeWithDefaults(config.Config{
		Port:           servePort,
		AllowedOrigins: os.Getenv("ALLOWED_ORIGINS"),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		StorePath:      os.Getenv("STORE_PATH"),
	})
	if err := cfg.Validate(); err != nil {
		return err
	}

	sessions, err := config.NewSessionConfig()
	if err != nil {
		return err
	}
	passwords, err := config.NewPasswordConfig()
	if err != nil {
		return err
	}
	admin, err := config.NewAdminConfig(passwords)
	if err != nil {
		log.Printf("[admin] %v; admin login is disabled", err)
	}

	st, closeStore, err := openStore(ctx, cfg.DatabaseURL, cfg.StorePath)
	if err != nil {
		return err
	}
	defer closeStore()

	if cfg.Seed != "" {
		loaded, err := store.LoadSeed(ctx, st, cfg.Seed, true)
		if err != nil {
			return fmt.Errorf("failed to load seed: %w", err)
		}
		if loaded {
			log.Printf("[seed] loaded %s", cfg.Seed)
		}
	}

	var assistantClient llm.Client
	if client, err := newLLMClient(ctx, cfg); err != nil {
		log.Printf("[chat] assistant disabled: %v", err)
	} else {
		defer func() { _ = client.Close() }()
		log.Printf("[chat] using model %s", client.Model())
		assistantClient = client
	}

	var fetcher server.PostingFetcher
	if cfg.AllowJobURLs {
		fetchOpts := fetch.DefaultOptions()
		fetchOpts.UseBrowser = cfg.UseBrowser
		fetchOpts.Verbose = cfg.Verbose
		fetcher = fetch.NewCachedFetcher(fetchOpts, fetch.DefaultCacheTTL)
	}

	srvCfg := server.Config{
		Port:           cfg.Port,
		AllowedOrigins: cfg.Origins(),
		Store:          st,
		Fetcher:        fetcher,
		LLM:            assistantClient,
		Session:        sessions,
		Passwords:      passwords,
		Admin:          admin,
	}

	srv, err := server.New(srvCfg)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	if cfg.WatchSeed {
		watchCtx, cancel := context.WithCancel(ctx)
		defer cancel()
		target := &notifyingStore{ResumeStore: st, onSave: srv.InvalidateResume}
		go func() {
			if err := store.WatchSeed(watchCtx, target, cfg.Seed); err != nil {
				log.Printf("[seed] %v", err)
			}
		}()
	}

	return srv.Start()
}

// newLLMClient builds the assistant's model client. Provider settings from the
// config file replace the LLM_* environment variables as a whole.
func newLLMClient(ctx context.Context, cfg config.Config) (llm.Client, error) {
	llmCfg, err := llmConfig(cfg)
	if err != nil {
		return nil, err
	}
	return llm.NewClient(ctx, llmCfg)
}

func llmConfig(cfg config.Config) (*llm.Config, error) {
	if cfg.LLMProvider == "" && cfg.LLMModel == "" && cfg.LLMBaseURL == "" && cfg.APIKey == "" {
		return llm.ConfigFromEnv()
	}
	provider := llm.Provider(cfg.LLMProvider)
	if provider == "" {
		provider = llm.ProviderGemini
	}
	return &llm.Config{
		Provider: provider,
		Model:    cfg.LLMModel,
		BaseURL:  cfg.LLMBaseURL,
		APIKey:   cfg.APIKey,
		Timeout:  llm.DefaultTimeout,
	}, nil
}
