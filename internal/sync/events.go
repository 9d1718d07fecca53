package sync

import (
	"time"

	"mangaparsers/pkg/models"
)

const (
	EventCrawlStarted  = "crawl.started"
	EventCrawlManga    = "crawl.manga"
	EventCrawlFailed   = "crawl.failed"
	EventCrawlFinished = "crawl.finished"
)

// CrawlEvent reports crawler progress to subscribers.
type CrawlEvent struct {
	Type     string        `json:"type"`
	RunID    string        `json:"run_id,omitempty"`
	Source   models.Source `json:"source"`
	MangaID  string        `json:"manga_id,omitempty"`
	Title    string        `json:"title,omitempty"`
	Chapters int           `json:"chapters,omitempty"`
	Total    int           `json:"total,omitempty"`
	Error    string        `json:"error,omitempty"`
	At       time.Time     `json:"at"`
}
