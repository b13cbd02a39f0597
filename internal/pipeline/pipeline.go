// Package pipeline orchestrates one full run: load the registry, fetch all
// sources in small rate-limited batches, normalize, deduplicate, interleave
// and persist. Per-source failures are recorded and never abort the run.
package pipeline

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/uutiskone-hq/uutiskone/internal/config"
	"github.com/uutiskone-hq/uutiskone/internal/dedup"
	"github.com/uutiskone-hq/uutiskone/internal/domain"
	"github.com/uutiskone-hq/uutiskone/internal/interleave"
	"github.com/uutiskone-hq/uutiskone/internal/logger"
	"github.com/uutiskone-hq/uutiskone/internal/normalize"
	"github.com/uutiskone-hq/uutiskone/internal/registry"
	"github.com/uutiskone-hq/uutiskone/internal/storage"
	"github.com/uutiskone-hq/uutiskone/pkg/httpclient"
	"github.com/uutiskone-hq/uutiskone/pkg/providers"
	"github.com/uutiskone-hq/uutiskone/pkg/publishers"
)

// Pipeline carries everything one run needs. Constructed once per process;
// no component keeps ambient state between runs.
type Pipeline struct {
	cfg      *config.Config
	log      logger.Logger
	client   httpclient.Client
	fetchers providers.FetcherRegistry
	norm     *normalize.Normalizer
	store    *storage.Store
	state    *storage.State
	pubs     []publishers.Publisher
	now      func() time.Time
}

// Summary reports what one run produced.
type Summary struct {
	RunID       string
	StartedAt   time.Time
	FinishedAt  time.Time
	Sources     int
	NewArticles int
	FeedSize    int
	Reset       bool
	Failures    []domain.SourceFailure
}

// New assembles a pipeline from its collaborators.
func New(cfg *config.Config, log logger.Logger, client httpclient.Client, fetchers providers.FetcherRegistry, store *storage.Store, state *storage.State, pubs []publishers.Publisher) *Pipeline {
	if log == nil {
		log = logger.NopLogger{}
	}
	return &Pipeline{
		cfg:      cfg,
		log:      log,
		client:   client,
		fetchers: fetchers,
		norm:     normalize.New(log, cfg.ContentLimit),
		store:    store,
		state:    state,
		pubs:     pubs,
		now:      time.Now,
	}
}

// Run executes one full pipeline pass. Only registry and persistence
// failures are returned; source failures land in the summary instead.
func (p *Pipeline) Run(ctx context.Context) (Summary, error) {
	started := p.now()
	summary := Summary{
		RunID:     started.UTC().Format("20060102T150405Z"),
		StartedAt: started,
	}

	sources, err := registry.Load(ctx, p.client, p.cfg.SheetURL)
	if err != nil {
		return summary, fmt.Errorf("load registry: %w", err)
	}
	summary.Sources = len(sources)
	p.log.InfoObj("registry loaded", "registry_loaded", map[string]any{
		"sources": len(sources),
	})

	working, reset, err := p.prepareWorkingSet(started)
	if err != nil {
		return summary, err
	}
	summary.Reset = reset

	filter := dedup.NewFilter()
	filter.Seed(working)
	if fps, err := p.state.Fingerprints(); err != nil {
		p.log.WarnObj("fingerprint load failed", "state_read_failed", map[string]any{
			"error": err.Error(),
		})
	} else {
		filter.SeedFingerprints(fps)
	}

	fetched, failures := p.fetchAll(ctx, sources)
	summary.Failures = failures

	var admitted []domain.Article
	for _, a := range fetched {
		if filter.Admit(a) {
			admitted = append(admitted, a)
		}
	}
	summary.NewArticles = len(admitted)
	working = append(working, admitted...)

	feed := interleave.Interleave(working, p.cfg.PerSourceDayCap, p.cfg.FeedCap)
	summary.FeedSize = len(feed)

	if err := p.persist(feed, working, admitted, failures); err != nil {
		return summary, err
	}

	summary.FinishedAt = p.now()
	p.publish(ctx, summary)
	return summary, nil
}

// prepareWorkingSet applies the daily reset policy: on the first run of a
// UTC day (or when forced) durable output and fingerprints are cleared and
// the working set starts empty; otherwise the previous feed is the seed.
func (p *Pipeline) prepareWorkingSet(started time.Time) ([]domain.Article, bool, error) {
	today := started.UTC().Format("2006-01-02")
	lastClean, err := p.state.LastCleanDate()
	if err != nil {
		return nil, false, fmt.Errorf("read run state: %w", err)
	}

	if !p.cfg.ForceReset && lastClean == today {
		working, err := p.store.LoadMainFeed()
		if err != nil {
			p.log.WarnObj("previous feed unreadable, starting empty", "feed_load_failed", map[string]any{
				"error": err.Error(),
			})
			return nil, false, nil
		}
		return working, false, nil
	}

	p.log.InfoObj("daily reset", "daily_reset", map[string]any{
		"last_clean": lastClean,
		"forced":     p.cfg.ForceReset,
	})
	if err := p.store.Reset(); err != nil {
		return nil, false, fmt.Errorf("reset output: %w", err)
	}
	if err := p.state.ClearFingerprints(); err != nil {
		return nil, false, fmt.Errorf("reset fingerprints: %w", err)
	}
	if err := p.state.SetLastCleanDate(today); err != nil {
		return nil, false, fmt.Errorf("mark clean date: %w", err)
	}
	return nil, true, nil
}

// fetchAll processes sources in fixed-size batches. Batches are awaited in
// full, then the politeness delay runs before the next batch starts.
func (p *Pipeline) fetchAll(ctx context.Context, sources []domain.Source) ([]domain.Article, []domain.SourceFailure) {
	var (
		mu       sync.Mutex
		articles []domain.Article
		failures []domain.SourceFailure
	)

	batch := p.cfg.BatchSize
	if batch <= 0 {
		batch = 1
	}

	for start := 0; start < len(sources); start += batch {
		end := start + batch
		if end > len(sources) {
			end = len(sources)
		}

		var wg sync.WaitGroup
		for _, src := range sources[start:end] {
			wg.Add(1)
			go func(src domain.Source) {
				defer wg.Done()
				items, err := p.fetchSource(ctx, src)
				mu.Lock()
				defer mu.Unlock()
				if err != nil {
					failures = append(failures, domain.SourceFailure{
						SourceTitle: src.Title(),
						URL:         src.URL(),
						Err:         err.Error(),
					})
					return
				}
				articles = append(articles, items...)
			}(src)
		}
		wg.Wait()

		if end < len(sources) && p.cfg.SourceDelay > 0 {
			select {
			case <-ctx.Done():
				return articles, failures
			case <-time.After(p.cfg.SourceDelay):
			}
		}
	}
	return articles, failures
}

// fetchSource runs one source through its adapter and the normalizer.
func (p *Pipeline) fetchSource(ctx context.Context, src domain.Source) ([]domain.Article, error) {
	fetcher, err := p.fetchers.FetcherFor(src)
	if err != nil {
		return nil, err
	}

	items, err := fetcher.Fetch(ctx, src)
	if err != nil {
		p.log.WarnObj("source fetch failed", "source_failed", map[string]any{
			"source": src.Title(),
			"url":    src.URL(),
			"error":  err.Error(),
		})
		return nil, err
	}

	articles := make([]domain.Article, 0, len(items))
	for _, item := range items {
		a := p.norm.Normalize(src, item)
		if a.Title == "" || a.Link == "" {
			continue
		}
		articles = append(articles, a)
	}

	p.log.DebugObj("source fetched", "source_fetched", map[string]any{
		"source":   src.Title(),
		"mode":     src.Mode(),
		"articles": len(articles),
	})
	return articles, nil
}

// persist writes all durable output for the run. The main feed holds the
// interleaved, capped selection; per-source archives keep every accepted
// article, bounded only by the archive cap.
func (p *Pipeline) persist(feed, accepted, admitted []domain.Article, failures []domain.SourceFailure) error {
	if err := p.store.WriteMainFeed(feed); err != nil {
		return fmt.Errorf("write main feed: %w", err)
	}
	if err := p.store.WriteArchives(accepted, p.cfg.ArchiveCap); err != nil {
		return fmt.Errorf("write archives: %w", err)
	}
	if err := p.store.WriteStats(feed, p.now()); err != nil {
		return fmt.Errorf("write stats: %w", err)
	}
	if err := p.store.WriteFailureLog(failures); err != nil {
		return fmt.Errorf("write failure log: %w", err)
	}

	var keys []string
	for _, a := range admitted {
		keys = append(keys, dedup.Fingerprints(a)...)
	}
	if err := p.state.AddFingerprints(keys); err != nil {
		return fmt.Errorf("store fingerprints: %w", err)
	}
	return nil
}

// publish notifies configured sinks that the run finished. Delivery
// failures are logged and swallowed; publishing is best effort.
func (p *Pipeline) publish(ctx context.Context, s Summary) {
	if len(p.pubs) == 0 {
		return
	}

	evt := publishers.Event{
		RunID:       s.RunID,
		StartedAt:   s.StartedAt,
		FinishedAt:  s.FinishedAt,
		Articles:    s.FeedSize,
		NewArticles: s.NewArticles,
		Sources:     s.Sources,
		Reset:       s.Reset,
	}
	for _, f := range s.Failures {
		evt.FailedSources = append(evt.FailedSources, f.SourceTitle)
	}

	for _, pub := range p.pubs {
		if err := pub.Publish(ctx, evt); err != nil {
			p.log.WarnObj("run event delivery failed", "publish_failed", map[string]any{
				"publisher": pub.ID(),
				"error":     err.Error(),
			})
		}
	}
}
