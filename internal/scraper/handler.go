package scraper

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	gosync "sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"mangaparsers/internal/parser"
	"mangaparsers/pkg/models"
)

const (
	RunRunning   = "running"
	RunSucceeded = "succeeded"
	RunFailed    = "failed"
)

// Run is the status of one background crawl.
type Run struct {
	ID         string        `json:"id"`
	Source     models.Source `json:"source"`
	State      string        `json:"state"`
	Saved      int           `json:"saved"`
	Failed     int           `json:"failed"`
	Pages      int           `json:"pages"`
	Error      string        `json:"error,omitempty"`
	StartedAt  time.Time     `json:"started_at"`
	FinishedAt *time.Time    `json:"finished_at,omitempty"`
}

// Handler starts crawls in the background and reports on them. Runs live
// under the context given to NewHandler; cancelling it fails every run
// still in progress.
type Handler struct {
	Registry *parser.Registry
	DB       *sql.DB
	Notifier Notifier

	ctx  context.Context
	mu   gosync.Mutex
	runs map[string]*Run
	wg   gosync.WaitGroup
}

func NewHandler(ctx context.Context, reg *parser.Registry, db *sql.DB, n Notifier) *Handler {
	return &Handler{Registry: reg, DB: db, Notifier: n, ctx: ctx, runs: make(map[string]*Run)}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/crawl", h.start)  // POST /admin/crawl
	rg.GET("/crawl/:id", h.get) // GET /admin/crawl/:id
}

type crawlReq struct {
	Source      string `json:"source"`
	MaxPages    int    `json:"max_pages"`
	Concurrency int    `json:"concurrency"`
	Order       string `json:"order"`
}

func (h *Handler) start(c *gin.Context) {
	var req crawlReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	p, err := h.Registry.Get(req.Source)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	if req.MaxPages < 0 || req.Concurrency < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "max_pages and concurrency must be >= 0"})
		return
	}
	order := models.SortUpdated
	if req.Order != "" {
		if order, err = models.ParseSortOrder(req.Order); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	run := &Run{
		ID:        uuid.NewString(),
		Source:    p.Source(),
		State:     RunRunning,
		StartedAt: time.Now().UTC(),
	}
	h.mu.Lock()
	h.runs[run.ID] = run
	h.mu.Unlock()

	crawler := NewCrawler(p, h.Notifier, Options{
		MaxPages:    req.MaxPages,
		Concurrency: req.Concurrency,
		Order:       order,
		RunID:       run.ID,
	})
	accepted := h.snapshot(run.ID)
	h.wg.Add(1)
	go func() {
		defer h.wg.Done()
		h.execute(run.ID, crawler)
	}()

	c.JSON(http.StatusAccepted, accepted)
}

func (h *Handler) execute(id string, crawler *Crawler) {
	ctx := h.ctx
	log.Printf("[crawl] run %s started", id)

	res, err := crawler.Run(ctx)
	if err == nil {
		err = SaveToDatabase(ctx, h.DB, res.Manga)
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	run := h.runs[id]
	now := time.Now().UTC()
	run.FinishedAt = &now
	run.Pages = res.Pages
	run.Failed = res.Failed
	if err != nil {
		run.State = RunFailed
		run.Error = err.Error()
		log.Printf("[crawl] run %s failed: %v", id, err)
		return
	}
	run.State = RunSucceeded
	run.Saved = len(res.Manga)
	log.Printf("[crawl] run %s saved %d series (%d failed)", id, run.Saved, run.Failed)
}

func (h *Handler) get(c *gin.Context) {
	run := h.snapshot(c.Param("id"))
	if run == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	c.JSON(http.StatusOK, run)
}

func (h *Handler) snapshot(id string) *Run {
	h.mu.Lock()
	defer h.mu.Unlock()
	run, ok := h.runs[id]
	if !ok {
		return nil
	}
	cp := *run
	return &cp
}

// Wait blocks until every started crawl has finished or ctx is done.
func (h *Handler) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		h.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
