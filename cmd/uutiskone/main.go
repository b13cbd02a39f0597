package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/uutiskone-hq/uutiskone/internal/config"
	"github.com/uutiskone-hq/uutiskone/internal/logger"
	"github.com/uutiskone-hq/uutiskone/internal/pipeline"
	"github.com/uutiskone-hq/uutiskone/internal/storage"
	"github.com/uutiskone-hq/uutiskone/pkg/httpclient"
	"github.com/uutiskone-hq/uutiskone/pkg/providers"
	"github.com/uutiskone-hq/uutiskone/pkg/publishers"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "uutiskone:", err)
		os.Exit(1)
	}
}

func run() error {
	// Optional; production runs configure the environment directly.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := logger.New(cfg.Debug)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}

	client := httpclient.NewRestyClient(cfg.RequestTimeout)
	fetchers := providers.DefaultFetcherRegistry(client, log, providers.Options{
		ExtractionItemCap: cfg.ExtractionItemCap,
		DeepScrapeDelay:   cfg.DeepScrapeDelay,
	})

	store, err := storage.NewStore(cfg.OutputDir, log)
	if err != nil {
		return fmt.Errorf("open output dir: %w", err)
	}

	state, err := storage.OpenState(cfg.StatePath)
	if err != nil {
		return fmt.Errorf("open state: %w", err)
	}
	defer state.Close()

	ctx := context.Background()
	pubs := loadPublishers(ctx, cfg, log)

	p := pipeline.New(cfg, log, client, fetchers, store, state, pubs)
	summary, err := p.Run(ctx)
	if err != nil {
		return err
	}

	log.InfoObj("run finished", "run_finished", map[string]any{
		"run_id":       summary.RunID,
		"sources":      summary.Sources,
		"new_articles": summary.NewArticles,
		"feed_size":    summary.FeedSize,
		"failures":     len(summary.Failures),
		"reset":        summary.Reset,
	})
	return nil
}

// loadPublishers builds the configured run-event sinks. A broken publishers
// file degrades to no publishers; it must not block the harvest itself.
func loadPublishers(ctx context.Context, cfg *config.Config, log logger.Logger) []publishers.Publisher {
	if cfg.PublishersFile == "" {
		return nil
	}

	sinks, err := publishers.Load(cfg.PublishersFile)
	if err != nil {
		log.WarnObj("publishers file unusable", "publishers_load_failed", map[string]any{
			"path":  cfg.PublishersFile,
			"error": err.Error(),
		})
		return nil
	}

	pubs, err := publishers.BuildAll(ctx, publishers.Enabled(sinks), log)
	if err != nil {
		log.WarnObj("publisher construction failed", "publishers_build_failed", map[string]any{
			"error": err.Error(),
		})
		return nil
	}
	return pubs
}
