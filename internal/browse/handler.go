// Package browse exposes the source plugins live over HTTP: listings,
// details and pages are fetched from the source on every request.
package browse

import (
	"errors"
	"log"
	"net/http"
	"slices"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"mangaparsers/internal/parser"
	"mangaparsers/internal/webclient"
	"mangaparsers/pkg/models"
	"mangaparsers/pkg/utils"
)

type Handler struct {
	Registry *parser.Registry
}

func NewHandler(reg *parser.Registry) *Handler {
	return &Handler{Registry: reg}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.sources)                 // GET /sources
	rg.GET("/:source/filters", h.filters) // GET /sources/:source/filters
	rg.GET("/:source/manga", h.list)      // GET /sources/:source/manga
	rg.GET("/:source/details", h.details) // GET /sources/:source/details?url=
	rg.GET("/:source/pages", h.pages)     // GET /sources/:source/pages?url=
}

type sourceInfo struct {
	Name         models.Source             `json:"name"`
	Domain       string                    `json:"domain"`
	PageSize     int                       `json:"page_size"`
	SortOrders   []models.SortOrder        `json:"sort_orders"`
	Capabilities models.FilterCapabilities `json:"capabilities"`
}

func describe(p parser.Parser) sourceInfo {
	return sourceInfo{
		Name:         p.Source(),
		Domain:       p.Domain(),
		PageSize:     p.PageSize(),
		SortOrders:   p.SortOrders(),
		Capabilities: p.Capabilities(),
	}
}

func (h *Handler) sources(c *gin.Context) {
	all := h.Registry.All()
	out := make([]sourceInfo, 0, len(all))
	for _, p := range all {
		out = append(out, describe(p))
	}
	c.JSON(http.StatusOK, gin.H{"items": out})
}

func (h *Handler) source(c *gin.Context) (parser.Parser, bool) {
	p, err := h.Registry.Get(c.Param("source"))
	if err != nil {
		writeError(c, err)
		return nil, false
	}
	return p, true
}

func (h *Handler) filters(c *gin.Context) {
	p, ok := h.source(c)
	if !ok {
		return
	}
	opts, err := p.FilterOptions(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"source":  describe(p),
		"options": opts,
	})
}

func (h *Handler) list(c *gin.Context) {
	p, ok := h.source(c)
	if !ok {
		return
	}

	page := 1
	if s := strings.TrimSpace(c.Query("page")); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "page must be a positive integer"})
			return
		}
		page = n
	}

	order := models.SortUpdated
	if s := c.Query("order"); s != "" {
		o, err := models.ParseSortOrder(s)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		order = o
	}

	filter, err := ParseFilter(p.Source(), c.Query("q"), c.QueryArray("tag"), c.QueryArray("exclude"),
		c.QueryArray("state"), c.QueryArray("type"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	items, err := p.List(c.Request.Context(), page, order, filter)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"source": p.Source(),
		"page":   page,
		"order":  order,
		"items":  items,
	})
}

func (h *Handler) details(c *gin.Context) {
	p, ok := h.source(c)
	if !ok {
		return
	}
	url := strings.TrimSpace(c.Query("url"))
	if url == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "url required"})
		return
	}

	m, err := p.Details(c.Request.Context(), MangaRef(p.Source(), url))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, m)
}

func (h *Handler) pages(c *gin.Context) {
	p, ok := h.source(c)
	if !ok {
		return
	}
	url := strings.TrimSpace(c.Query("url"))
	if url == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "url required"})
		return
	}

	pages, err := p.Pages(c.Request.Context(), ChapterRef(p.Source(), url))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": pages})
}

// ParseFilter builds a ListFilter from loose string inputs. Tag values are
// used as both key and title. Repeated values collapse to one, and q is
// passed on as given.
func ParseFilter(src models.Source, q string, tags, exclude, states, types []string) (models.ListFilter, error) {
	f := models.ListFilter{Query: q}
	for _, v := range splitAll(tags) {
		f.Tags = appendUnique(f.Tags, models.Tag{Title: v, Key: v, Source: src})
	}
	for _, v := range splitAll(exclude) {
		f.TagsExclude = appendUnique(f.TagsExclude, models.Tag{Title: v, Key: v, Source: src})
	}
	for _, v := range splitAll(states) {
		st, err := models.ParseState(v)
		if err != nil {
			return models.ListFilter{}, err
		}
		f.States = appendUnique(f.States, st)
	}
	for _, v := range splitAll(types) {
		t, err := models.ParseContentType(v)
		if err != nil {
			return models.ListFilter{}, err
		}
		f.Types = appendUnique(f.Types, t)
	}
	return f, nil
}

func appendUnique[T comparable](s []T, v T) []T {
	if slices.Contains(s, v) {
		return s
	}
	return append(s, v)
}

// splitAll accepts both repeated values and comma lists.
func splitAll(values []string) []string {
	var out []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

// MangaRef is the minimal series value Details needs.
func MangaRef(src models.Source, url string) models.Manga {
	return models.Manga{ID: utils.GenerateUID(src, url), URL: url, Source: src}
}

// ChapterRef is the minimal chapter value Pages needs.
func ChapterRef(src models.Source, url string) models.Chapter {
	return models.Chapter{ID: utils.GenerateUID(src, url), URL: url, Source: src}
}

// HTTPStatus maps a plugin or host error to the status returned to callers.
func HTTPStatus(err error) int {
	if errors.Is(err, parser.ErrUnknownSource) {
		return http.StatusNotFound
	}
	if errors.Is(err, parser.ErrInvalidRef) {
		return http.StatusBadRequest
	}
	if code, ok := webclient.StatusCode(err); ok && code == http.StatusNotFound {
		return http.StatusNotFound
	}
	return http.StatusBadGateway
}

func writeError(c *gin.Context, err error) {
	status := HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		log.Printf("[browse] %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
