package commands

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"jobproof/internal/browser"
	"jobproof/internal/crawl"
	"jobproof/internal/dedupe"
	"jobproof/internal/output"
	"jobproof/internal/state"
	"jobproof/lib/configutil"
	"jobproof/lib/timezone"

	"github.com/spf13/cobra"
)

type Config struct {
	StartPage     int    `json:"start_page"`
	EndPage       int    `json:"end_page"`
	OutputDir     string `json:"output_dir"`
	StateDB       string `json:"state_db"`
	ProfileDir    string `json:"profile_dir"`
	Headless      bool   `json:"headless"`
	Reference     string `json:"reference"`
	MinDelayMs    int    `json:"min_delay_ms"`
	MaxDelayMs    int    `json:"max_delay_ms"`
	ListRetries   int    `json:"list_retries"`
	NavTimeoutSec int    `json:"nav_timeout_sec"`
}

func (c *Config) applyDefaults() {
	if c.StartPage == 0 {
		c.StartPage = 1
	}
	if c.EndPage == 0 {
		c.EndPage = 1
	}
	if c.OutputDir == "" {
		c.OutputDir = "output"
	}
	if c.StateDB == "" {
		c.StateDB = filepath.Join(c.OutputDir, "state.db")
	}
	if c.ProfileDir == "" {
		c.ProfileDir = "chrome_profile"
	}
	if c.MinDelayMs == 0 {
		c.MinDelayMs = 800
	}
	if c.MaxDelayMs == 0 {
		c.MaxDelayMs = 1700
	}
}

// reference accepts a plain date or a full timestamp; empty means "now" in
// the fixed reporting timezone.
func (c *Config) reference() (time.Time, error) {
	if c.Reference == "" {
		return timezone.Now(), nil
	}
	if t, err := time.ParseInLocation("2006-01-02", c.Reference, timezone.Location); err == nil {
		return t, nil
	}
	return time.ParseInLocation(time.RFC3339, c.Reference, timezone.Location)
}

var (
	scrapeConfig *string
	scrapeDB     *string
	scrapeOut    *string
)

func init() {
	scrapeConfig = scrapeCmd.Flags().String("config", "config.json5", "Path to the scrape configuration.")
	scrapeDB = scrapeCmd.Flags().String("db", "", "Override the state database path.")
	scrapeOut = scrapeCmd.Flags().String("out", "", "Override the output directory.")
	rootCmd.AddCommand(scrapeCmd)
}

var scrapeCmd = &cobra.Command{
	Use:   "scrape [--config <path/to/config.json5>]",
	Short: "Scrapes the applied-jobs pages and writes workbooks plus PDF snapshots.",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()

		cfg, err := configutil.ReadConfig[Config](*scrapeConfig)
		if errors.Is(err, os.ErrNotExist) {
			fatal("no config found, create "+*scrapeConfig, err)
		}
		if err != nil {
			fatal("failed to read config", err)
		}
		if *scrapeOut != "" {
			cfg.OutputDir = *scrapeOut
		}
		if *scrapeDB != "" {
			cfg.StateDB = *scrapeDB
		}
		cfg.applyDefaults()

		reference, err := cfg.reference()
		if err != nil {
			fatal("invalid reference timestamp", err)
		}

		if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
			fatal("failed to create output directory", err)
		}

		store, err := state.Open(cfg.StateDB)
		if err != nil {
			fatal("failed to open state database", err)
		}
		defer store.Close()

		seenIDs, err := store.SeenJobIDs(ctx)
		if err != nil {
			fatal("failed to load seen jobs", err)
		}
		seen := dedupe.Preload(seenIDs)
		if seen.Len() > 0 {
			slog.Info("resuming with previously captured jobs", "count", seen.Len())
		}

		session, err := browser.Launch(browser.Options{
			ProfileDir: cfg.ProfileDir,
			Headless:   cfg.Headless,
			NavTimeout: time.Duration(cfg.NavTimeoutSec) * time.Second,
		})
		if err != nil {
			fatal("failed to launch browser", err)
		}
		defer session.Close()

		router := output.NewRouter(cfg.OutputDir, session)

		controller, err := crawl.New(session, router, seen, store, crawl.Options{
			StartPage:   cfg.StartPage,
			EndPage:     cfg.EndPage,
			Reference:   reference,
			MinDelay:    time.Duration(cfg.MinDelayMs) * time.Millisecond,
			MaxDelay:    time.Duration(cfg.MaxDelayMs) * time.Millisecond,
			ListRetries: cfg.ListRetries,
		})
		if err != nil {
			fatal("invalid crawl options", err)
		}

		slog.Info("starting run",
			"pages", cfg.StartPage, "down_to", cfg.EndPage,
			"reference", reference.Format("2006-01-02"),
		)

		stats, runErr := controller.Run(ctx)

		// a truncated run still produces both workbooks
		if err := router.WriteWorkbooks(); err != nil {
			slog.Error("failed to write workbooks", "err", err)
		}
		output.RenderBucketSummary(os.Stdout, router.BucketCounts())
		slog.Info("run finished",
			"pages_visited", stats.PagesVisited,
			"captured", stats.Captured,
			"skipped", stats.CardsSkipped,
			"failed", stats.Failed,
		)

		if runErr != nil && !errors.Is(runErr, context.Canceled) {
			fatal("run ended early", runErr)
		}
	},
}

func fatal(message string, err error) {
	slog.Error(message, "err", err)
	os.Exit(1)
}
