package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"mangaparsers/internal/scraper"
	"mangaparsers/internal/sources"
	synchub "mangaparsers/internal/sync"
	"mangaparsers/pkg/database"
	"mangaparsers/pkg/models"
)

// logNotifier prints crawl progress to the standard logger.
type logNotifier struct{}

func (logNotifier) Publish(ev synchub.CrawlEvent) {
	switch ev.Type {
	case synchub.EventCrawlManga:
		log.Printf("[scraper] %s: %s (%d chapters)", ev.Source, ev.Title, ev.Chapters)
	case synchub.EventCrawlFailed:
		log.Printf("[scraper] %s: failed %s: %s", ev.Source, ev.Title, ev.Error)
	}
}

func main() {
	var (
		source      = flag.String("source", "komikcast", "source to crawl")
		pages       = flag.Int("pages", 1, "listing pages to walk, 0 for all")
		concurrency = flag.Int("concurrency", 4, "parallel details fetches")
		order       = flag.String("order", string(models.SortUpdated), "sort order")
		timeout     = flag.Duration("timeout", 10*time.Minute, "overall crawl timeout")
	)
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, *timeout)
	defer cancel()

	cfg := database.DefaultConfig()
	db := database.MustOpen(cfg)
	defer db.Close()

	// Ensure schema exists
	if err := database.Migrate(db); err != nil {
		log.Fatalf("db migrate failed: %v", err)
	}

	p, err := sources.NewRegistry(sources.LoadConfig()).Get(*source)
	if err != nil {
		log.Fatalf("%v", err)
	}
	sortOrder, err := models.ParseSortOrder(*order)
	if err != nil {
		log.Fatalf("%v", err)
	}

	res, err := scraper.NewCrawler(p, logNotifier{}, scraper.Options{
		MaxPages:    *pages,
		Concurrency: *concurrency,
		Order:       sortOrder,
	}).Run(ctx)
	if err != nil {
		log.Fatalf("crawl failed: %v", err)
	}

	log.Printf("crawled %d series from %d pages (%d failed)", len(res.Manga), res.Pages, res.Failed)

	if err := scraper.SaveToDatabase(ctx, db, res.Manga); err != nil {
		log.Fatalf("save failed: %v", err)
	}

	log.Printf("database populated at %s", cfg.Path)
}
