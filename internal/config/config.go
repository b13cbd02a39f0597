// Package config loads the run configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds everything one pipeline run needs. All values come from the
// environment (optionally seeded by a .env file in main) with defaults
// suitable for a daily scheduled run.
type Config struct {
	// Registry settings
	SheetURL string

	// Output settings
	OutputDir  string
	StatePath  string
	FeedCap    int
	ArchiveCap int

	// Pipeline settings
	BatchSize       int
	SourceDelay     time.Duration
	RequestTimeout  time.Duration
	PerSourceDayCap int
	ForceReset      bool

	// Fetch settings
	ExtractionItemCap int
	DeepScrapeDelay   time.Duration

	// Normalizer settings
	ContentLimit int

	// Publisher settings
	PublishersFile string

	Debug bool
}

// Load reads the configuration, applying defaults and validating the
// required registry endpoint.
func Load() (*Config, error) {
	v := viper.New()
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("output_dir", "public")
	v.SetDefault("state_path", "state.db")
	v.SetDefault("feed_cap", 500)
	v.SetDefault("archive_cap", 200)
	v.SetDefault("batch_size", 2)
	v.SetDefault("source_delay_ms", 500)
	v.SetDefault("request_timeout_sec", 15)
	v.SetDefault("per_source_day_cap", 5)
	v.SetDefault("extraction_item_cap", 12)
	v.SetDefault("deep_scrape_delay_ms", 300)
	v.SetDefault("content_limit", 600)

	cfg := &Config{
		SheetURL:          strings.TrimSpace(v.GetString("sheet_tsv_url")),
		OutputDir:         v.GetString("output_dir"),
		StatePath:         v.GetString("state_path"),
		FeedCap:           v.GetInt("feed_cap"),
		ArchiveCap:        v.GetInt("archive_cap"),
		BatchSize:         v.GetInt("batch_size"),
		SourceDelay:       time.Duration(v.GetInt("source_delay_ms")) * time.Millisecond,
		RequestTimeout:    time.Duration(v.GetInt("request_timeout_sec")) * time.Second,
		PerSourceDayCap:   v.GetInt("per_source_day_cap"),
		ForceReset:        v.GetBool("force_reset"),
		ExtractionItemCap: v.GetInt("extraction_item_cap"),
		DeepScrapeDelay:   time.Duration(v.GetInt("deep_scrape_delay_ms")) * time.Millisecond,
		ContentLimit:      v.GetInt("content_limit"),
		PublishersFile:    strings.TrimSpace(v.GetString("publishers_file")),
		Debug:             v.GetBool("debug"),
	}

	return cfg, cfg.Validate()
}

// Validate checks required fields and sane bounds.
func (c *Config) Validate() error {
	if c.SheetURL == "" {
		return errors.New("SHEET_TSV_URL is required")
	}
	if c.FeedCap <= 0 {
		return fmt.Errorf("FEED_CAP must be positive, got %d", c.FeedCap)
	}
	if c.BatchSize <= 0 {
		return fmt.Errorf("BATCH_SIZE must be positive, got %d", c.BatchSize)
	}
	return nil
}
