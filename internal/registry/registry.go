// Package registry loads the source configuration sheet and turns it into
// source descriptors for the pipeline.
package registry

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/uutiskone-hq/uutiskone/internal/domain"
	"github.com/uutiskone-hq/uutiskone/pkg/httpclient"
)

// Fixed TSV column layout. The header row is skipped; older sheet layouts
// are migrated in the sheet itself, never detected at runtime.
const (
	colCategory = iota
	colFeedName
	colSyndicationURL
	colExtractionURL
	colCanonicalName
	colDescription
	colLang
	colScope
	colDarkLogo

	columnCount
)

// Load fetches the registry sheet and parses it. Any failure here is fatal
// for the run: an unreachable or empty registry means there is nothing to do.
func Load(ctx context.Context, client httpclient.Client, sheetURL string) ([]domain.Source, error) {
	resp, err := client.Get(ctx, sheetURL, nil)
	if err != nil {
		return nil, fmt.Errorf("fetch registry sheet: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("registry sheet returned status %d", resp.StatusCode())
	}

	sources, err := Parse(strings.NewReader(string(resp.Body())))
	if err != nil {
		return nil, err
	}
	if len(sources) == 0 {
		return nil, errors.New("registry sheet contains no usable sources")
	}
	return sources, nil
}

// Parse reads TSV rows into source descriptors. Rows without a usable name
// or without at least one URL are dropped, not errors; the sheet is edited
// by hand and partial rows are routine.
func Parse(r io.Reader) ([]domain.Source, error) {
	reader := csv.NewReader(r)
	reader.Comma = '\t'
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse registry sheet: %w", err)
	}

	var sources []domain.Source
	for i, row := range rows {
		if i == 0 {
			continue // header
		}
		src, ok := parseRow(row)
		if !ok {
			continue
		}
		sources = append(sources, src)
	}
	return sources, nil
}

// parseRow maps one sheet row onto a descriptor, or rejects it.
func parseRow(row []string) (domain.Source, bool) {
	field := func(idx int) string {
		if idx >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[idx])
	}

	src := domain.Source{
		Category:       field(colCategory),
		Name:           field(colFeedName),
		SyndicationURL: validURL(field(colSyndicationURL)),
		ExtractionURL:  validURL(field(colExtractionURL)),
		CanonicalName:  field(colCanonicalName),
		Description:    field(colDescription),
		Lang:           strings.ToLower(field(colLang)),
		Scope:          field(colScope),
		DarkLogo:       parseFlag(field(colDarkLogo)),
	}

	if src.Title() == "" {
		return domain.Source{}, false
	}
	if src.SyndicationURL == "" && src.ExtractionURL == "" {
		return domain.Source{}, false
	}
	return src, true
}

// validURL keeps only absolute http(s) URLs.
func validURL(raw string) string {
	if strings.HasPrefix(raw, "http://") || strings.HasPrefix(raw, "https://") {
		return raw
	}
	return ""
}

func parseFlag(raw string) bool {
	switch strings.ToLower(raw) {
	case "true", "1", "yes", "x":
		return true
	}
	return false
}
