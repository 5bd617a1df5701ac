// Package feed decides, per feed request, between site-ranked scraping and
// the direct id-list path, and merges multi-page scrape results.
package feed

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"hnserve/internal/model"
)

// sections maps feed names to website listing paths.
var sections = map[string]string{
	"topstories":  "news",
	"newstories":  "newest",
	"beststories": "best",
	"askstories":  "ask",
	"showstories": "show",
	"jobstories":  "jobs",
}

// directOnly lists the feeds whose listing pages cannot be paginated the way
// we scrape them; they always take the id-list path.
var directOnly = map[string]bool{
	"newstories": true,
	"jobstories": true,
}

// Scraper provides one parsed listing page.
type Scraper interface {
	Listing(ctx context.Context, section string, page int) ([]model.ListingSummary, error)
}

// Assembler provides the direct id-list feed resolution.
type Assembler interface {
	Feed(ctx context.Context, feed string) ([]model.Item, error)
}

type Orchestrator struct {
	scraper   Scraper
	assembler Assembler
	pages     int
	logger    *slog.Logger
}

func New(scraper Scraper, assembler Assembler, pages int, logger *slog.Logger) *Orchestrator {
	if pages <= 0 {
		pages = 4
	}
	return &Orchestrator{
		scraper:   scraper,
		assembler: assembler,
		pages:     pages,
		logger:    logger.With("component", "feed"),
	}
}

// Ranked returns site-ranked summaries for feeds the website can serve, or
// falls back to direct shallow items. Exactly one of the two slices is
// non-nil on success. The fallback is a full substitution: partially scraped
// pages are never merged with id-list results.
func (o *Orchestrator) Ranked(ctx context.Context, feed string) ([]model.ListingSummary, []model.Item, error) {
	if directOnly[feed] {
		items, err := o.assembler.Feed(ctx, feed)
		return nil, items, err
	}

	summaries, err := o.scrapePages(ctx, sections[feed])
	if err != nil {
		o.logger.Warn("scrape failed, falling back to id-list feed", "feed", feed, "error", err)
		items, err := o.assembler.Feed(ctx, feed)
		return nil, items, err
	}
	return summaries, nil, nil
}

// scrapePages fetches pages 1..N concurrently and concatenates them in page
// order; entries keep their in-page order.
func (o *Orchestrator) scrapePages(ctx context.Context, section string) ([]model.ListingSummary, error) {
	pages := make([][]model.ListingSummary, o.pages)
	g, ctx := errgroup.WithContext(ctx)
	for i := range pages {
		i := i
		g.Go(func() error {
			listing, err := o.scraper.Listing(ctx, section, i+1)
			if err != nil {
				return err
			}
			pages[i] = listing
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var merged []model.ListingSummary
	for _, page := range pages {
		merged = append(merged, page...)
	}
	return merged, nil
}
