// Package storage owns all durable output: the main feed, per-source
// archives, source statistics and the failure log, plus the bbolt-backed
// run state used for daily resets and cross-run deduplication.
package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/uutiskone-hq/uutiskone/internal/domain"
	"github.com/uutiskone-hq/uutiskone/internal/logger"
)

const (
	mainFeedFile   = "data.json"
	statsFile      = "stats.json"
	failureLogFile = "failures.log"
	sourcesDir     = "sources"
)

// Store writes run output beneath a single directory.
type Store struct {
	dir string
	log logger.Logger
}

// NewStore builds a store rooted at dir, creating it if needed.
func NewStore(dir string, log logger.Logger) (*Store, error) {
	if log == nil {
		log = logger.NopLogger{}
	}
	if err := os.MkdirAll(filepath.Join(dir, sourcesDir), 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}
	return &Store{dir: dir, log: log}, nil
}

// LoadMainFeed reads the previous run's feed as the working set for an
// accumulating run. A missing file is an empty feed, not an error.
func (s *Store) LoadMainFeed() ([]domain.Article, error) {
	raw, err := os.ReadFile(filepath.Join(s.dir, mainFeedFile))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read main feed: %w", err)
	}

	var articles []domain.Article
	if err := json.Unmarshal(raw, &articles); err != nil {
		return nil, fmt.Errorf("decode main feed: %w", err)
	}
	return articles, nil
}

// WriteMainFeed persists the interleaved feed atomically.
func (s *Store) WriteMainFeed(articles []domain.Article) error {
	return s.writeJSONAtomic(mainFeedFile, nonNil(articles))
}

// WriteArchives writes one bounded per-source archive per distinct source,
// keyed by a filesystem-safe slug of the source title. Articles already in
// the on-disk archive are kept, so entries the feed has since dropped
// survive until the next reset; only the limit bounds the file.
func (s *Store) WriteArchives(articles []domain.Article, limit int) error {
	grouped := make(map[string][]domain.Article)
	for _, a := range articles {
		grouped[a.SourceTitle] = append(grouped[a.SourceTitle], a)
	}

	for title, group := range grouped {
		name := filepath.Join(sourcesDir, Slug(title)+".json")
		group = s.mergeArchive(name, group)
		sort.SliceStable(group, func(i, j int) bool {
			return group[i].PubDate.After(group[j].PubDate)
		})
		if limit > 0 && len(group) > limit {
			group = group[:limit]
		}
		if err := s.writeJSONAtomic(name, group); err != nil {
			return fmt.Errorf("write archive for %q: %w", title, err)
		}
	}
	return nil
}

// mergeArchive folds the existing archive file into group, skipping links
// the new group already carries. Unreadable existing files are dropped
// rather than failing the run.
func (s *Store) mergeArchive(name string, group []domain.Article) []domain.Article {
	raw, err := os.ReadFile(filepath.Join(s.dir, name))
	if err != nil {
		return group
	}
	var existing []domain.Article
	if err := json.Unmarshal(raw, &existing); err != nil {
		s.log.WarnObj("existing archive unreadable, rewriting", "archive_decode_failed", map[string]any{
			"file":  name,
			"error": err.Error(),
		})
		return group
	}

	links := make(map[string]bool, len(group))
	for _, a := range group {
		links[a.Link] = true
	}
	for _, a := range existing {
		if !links[a.Link] {
			group = append(group, a)
		}
	}
	return group
}

// statsEntry is the per-source record in stats.json.
type statsEntry struct {
	File        string `json:"file"`
	Count       int    `json:"count"`
	Category    string `json:"category"`
	Description string `json:"description"`
	Lang        string `json:"lang"`
	Scope       string `json:"scope"`
}

type statsMeta struct {
	LastUpdated string `json:"last_updated"`
}

// WriteStats rebuilds stats.json from the current article set. It is never
// patched incrementally; counts always reflect exactly what the feed holds.
func (s *Store) WriteStats(articles []domain.Article, now time.Time) error {
	stats := make(map[string]any, 16)
	for _, a := range articles {
		entry, _ := stats[a.SourceTitle].(statsEntry)
		if entry.File == "" {
			entry = statsEntry{
				File:        Slug(a.SourceTitle) + ".json",
				Category:    a.SheetCategory,
				Description: a.SourceDescription,
				Lang:        a.Lang,
				Scope:       a.Scope,
			}
		}
		entry.Count++
		stats[a.SourceTitle] = entry
	}
	stats["__meta"] = statsMeta{LastUpdated: now.UTC().Format(time.RFC3339)}

	return s.writeJSONAtomic(statsFile, stats)
}

// WriteFailureLog records sources that errored this run, one line each.
// An empty failure list still truncates the previous log.
func (s *Store) WriteFailureLog(failures []domain.SourceFailure) error {
	var b strings.Builder
	for _, f := range failures {
		fmt.Fprintf(&b, "%s\t%s\t%s\n", f.SourceTitle, f.URL, f.Err)
	}
	path := filepath.Join(s.dir, failureLogFile)
	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("write failure log: %w", err)
	}
	return nil
}

// Reset clears the main feed and every per-source archive ahead of a full
// daily refresh.
func (s *Store) Reset() error {
	if err := os.Remove(filepath.Join(s.dir, mainFeedFile)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove main feed: %w", err)
	}

	entries, err := os.ReadDir(filepath.Join(s.dir, sourcesDir))
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("list archives: %w", err)
	}
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		if err := os.Remove(filepath.Join(s.dir, sourcesDir, e.Name())); err != nil {
			return fmt.Errorf("remove archive %s: %w", e.Name(), err)
		}
	}
	return nil
}

// writeJSONAtomic writes JSON via a temp file and rename so readers never
// observe a partial file.
func (s *Store) writeJSONAtomic(name string, v any) error {
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", name, err)
	}

	path := filepath.Join(s.dir, name)
	tmp, err := os.CreateTemp(filepath.Dir(path), ".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", name, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("replace %s: %w", name, err)
	}
	return nil
}

var slugRe = regexp.MustCompile(`[^a-z0-9]+`)

// Slug maps a source title to a filesystem-safe archive key.
func Slug(title string) string {
	slug := slugRe.ReplaceAllString(strings.ToLower(strings.TrimSpace(title)), "-")
	slug = strings.Trim(slug, "-")
	if slug == "" {
		return "source"
	}
	return slug
}

func nonNil(articles []domain.Article) []domain.Article {
	if articles == nil {
		return []domain.Article{}
	}
	return articles
}
