// Package parsertest provides an in-memory parser.Parser for host tests.
package parsertest

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"sync"

	"mangaparsers/internal/parser"
	"mangaparsers/pkg/models"
	"mangaparsers/pkg/utils"
)

const Source models.Source = "FAKE"

// Fake serves fixed catalog pages. Details and Pages look entries up by URL.
type Fake struct {
	ListPages    [][]models.Manga
	DetailsByURL map[string]models.Manga
	PagesByURL   map[string][]models.Page
	ListErr      error
	DetailsErr   map[string]error

	mu        sync.Mutex
	listCalls []int
}

var _ parser.Parser = (*Fake)(nil)

func New() *Fake {
	return &Fake{
		DetailsByURL: map[string]models.Manga{},
		PagesByURL:   map[string][]models.Page{},
		DetailsErr:   map[string]error{},
	}
}

// Manga builds a summary whose ID is derived from url.
func Manga(url, title string) models.Manga {
	return models.Manga{
		ID:        utils.GenerateUID(Source, url),
		Title:     title,
		AltTitles: []string{},
		URL:       url,
		PublicURL: "https://fake.test" + url,
		Rating:    models.RatingUnknown,
		Tags:      []models.Tag{},
		Authors:   []string{},
		Source:    Source,
	}
}

// Chapter builds a chapter of the series at mangaURL.
func Chapter(mangaURL string, n float32) models.Chapter {
	url := mangaURL + "/chapters/" + strconv.FormatFloat(float64(n), 'f', -1, 32)
	return models.Chapter{
		ID:     utils.GenerateUID(Source, url),
		Title:  fmt.Sprintf("Chapter %v", n),
		Number: n,
		URL:    url,
		Source: Source,
	}
}

func (f *Fake) ListCalls() []int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]int(nil), f.listCalls...)
}

func (f *Fake) Intercept(req *http.Request) *http.Request { return req }
func (f *Fake) Source() models.Source                     { return Source }
func (f *Fake) Domain() string                            { return "fake.test" }
func (f *Fake) PageSize() int                             { return 2 }
func (f *Fake) RequestHeaders() http.Header               { return http.Header{} }

func (f *Fake) SortOrders() []models.SortOrder {
	return []models.SortOrder{models.SortUpdated, models.SortPopularity}
}

func (f *Fake) Capabilities() models.FilterCapabilities {
	return models.FilterCapabilities{SearchSupported: true}
}

func (f *Fake) FilterOptions(context.Context) (models.FilterOptions, error) {
	return models.FilterOptions{
		Tags:   []models.Tag{{Title: "Action", Key: "action", Source: Source}},
		States: []models.State{models.StateOngoing},
		Types:  []models.ContentType{models.TypeManga},
	}, nil
}

func (f *Fake) List(ctx context.Context, page int, _ models.SortOrder, _ models.ListFilter) ([]models.Manga, error) {
	f.mu.Lock()
	f.listCalls = append(f.listCalls, page)
	f.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if f.ListErr != nil {
		return nil, f.ListErr
	}
	if page < 1 || page > len(f.ListPages) {
		return []models.Manga{}, nil
	}
	return f.ListPages[page-1], nil
}

func (f *Fake) Details(ctx context.Context, m models.Manga) (models.Manga, error) {
	if err := ctx.Err(); err != nil {
		return models.Manga{}, err
	}
	if err := f.DetailsErr[m.URL]; err != nil {
		return models.Manga{}, err
	}
	d, ok := f.DetailsByURL[m.URL]
	if !ok {
		return models.Manga{}, fmt.Errorf("%w: no series at %s", parser.ErrMalformed, m.URL)
	}
	return d, nil
}

func (f *Fake) Pages(ctx context.Context, ch models.Chapter) ([]models.Page, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	pages, ok := f.PagesByURL[ch.URL]
	if !ok {
		return nil, fmt.Errorf("%w: no chapter at %s", parser.ErrInvalidRef, ch.URL)
	}
	return pages, nil
}
