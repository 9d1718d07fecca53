// Package scraper crawls a source plugin and persists what it finds.
package scraper

import (
	"context"
	"fmt"
	"log"

	"golang.org/x/sync/errgroup"

	"mangaparsers/internal/parser"
	"mangaparsers/internal/sync"
	"mangaparsers/pkg/models"
)

// Notifier receives crawl progress. *sync.Hub implements it.
type Notifier interface {
	Publish(ev sync.CrawlEvent)
}

// Notifiers fans one event out to several feeds.
type Notifiers []Notifier

func (ns Notifiers) Publish(ev sync.CrawlEvent) {
	for _, n := range ns {
		if n != nil {
			n.Publish(ev)
		}
	}
}

type Options struct {
	MaxPages    int // 0 walks until an empty page
	Concurrency int // parallel Details calls
	Order       models.SortOrder
	Filter      models.ListFilter
	RunID       string
}

type Crawler struct {
	parser   parser.Parser
	notifier Notifier
	opts     Options
}

func NewCrawler(p parser.Parser, n Notifier, opts Options) *Crawler {
	if opts.Concurrency <= 0 {
		opts.Concurrency = 4
	}
	return &Crawler{parser: p, notifier: n, opts: opts}
}

type Result struct {
	Manga  []models.Manga
	Pages  int
	Failed int
}

// Run lists pages 1..MaxPages, de-duplicates series by ID and then fetches
// details for each. A failed listing aborts the run; a failed Details call
// only skips that series.
func (c *Crawler) Run(ctx context.Context) (Result, error) {
	src := c.parser.Source()
	c.publish(sync.CrawlEvent{Type: sync.EventCrawlStarted})

	summaries, pages, err := c.walk(ctx)
	if err != nil {
		c.publish(sync.CrawlEvent{Type: sync.EventCrawlFailed, Error: err.Error()})
		return Result{}, err
	}
	log.Printf("[scraper] %s: %d series on %d pages", src, len(summaries), pages)

	details := make([]*models.Manga, len(summaries))
	failed := make([]bool, len(summaries))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.opts.Concurrency)
	for i, m := range summaries {
		i, m := i, m
		g.Go(func() error {
			d, err := c.parser.Details(gctx, m)
			if err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				log.Printf("[scraper] %s: details %s: %v", src, m.URL, err)
				failed[i] = true
				c.publish(sync.CrawlEvent{Type: sync.EventCrawlFailed, MangaID: m.ID.String(), Title: m.Title, Error: err.Error()})
				return nil
			}
			details[i] = &d
			c.publish(sync.CrawlEvent{Type: sync.EventCrawlManga, MangaID: d.ID.String(), Title: d.Title, Chapters: len(d.Chapters)})
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Result{}, fmt.Errorf("crawl %s: %w", src, err)
	}

	res := Result{Pages: pages, Manga: make([]models.Manga, 0, len(details))}
	for i, d := range details {
		if d != nil {
			res.Manga = append(res.Manga, *d)
		}
		if failed[i] {
			res.Failed++
		}
	}
	c.publish(sync.CrawlEvent{Type: sync.EventCrawlFinished, Total: len(res.Manga)})
	return res, nil
}

// walk collects series summaries page by page. It stops on an empty page or
// on a page that adds nothing new.
func (c *Crawler) walk(ctx context.Context) ([]models.Manga, int, error) {
	seen := make(map[string]struct{})
	var out []models.Manga
	page := 0
	for c.opts.MaxPages == 0 || page < c.opts.MaxPages {
		page++
		list, err := c.parser.List(ctx, page, c.opts.Order, c.opts.Filter)
		if err != nil {
			return nil, page, fmt.Errorf("crawl %s: %w", c.parser.Source(), err)
		}
		added := 0
		for _, m := range list {
			key := m.ID.String()
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			out = append(out, m)
			added++
		}
		if added == 0 {
			break
		}
	}
	return out, page, nil
}

func (c *Crawler) publish(ev sync.CrawlEvent) {
	if c.notifier == nil {
		return
	}
	ev.RunID = c.opts.RunID
	ev.Source = c.parser.Source()
	c.notifier.Publish(ev)
}
