// Package parser defines the contract between source plugins and the host
// that drives them: the Parser interface, the web client plugins fetch
// through, and small helpers shared by plugins.
package parser

import (
	"context"
	"errors"
	"net/http"

	"mangaparsers/pkg/models"
)

var (
	// ErrMalformed is wrapped when a response lacks a field the plugin requires.
	ErrMalformed = errors.New("malformed response")
	// ErrUnknownSource is returned by Registry lookups for unregistered names.
	ErrUnknownSource = errors.New("unknown source")
	// ErrInvalidRef is wrapped when a caller-supplied series or chapter URL
	// cannot be addressed by the plugin.
	ErrInvalidRef = errors.New("invalid reference")
)

// WebClient is the host HTTP client as seen by plugins. GetJSON decodes the
// body of a successful GET into out; transport, status and decode failures
// are returned unchanged to the plugin.
type WebClient interface {
	GetJSON(ctx context.Context, url string, out any) error
}

// Interceptor rewrites an outgoing request. Implementations return req itself
// when nothing changes, otherwise a modified clone with the same method and body.
type Interceptor interface {
	Intercept(req *http.Request) *http.Request
}

// Parser is implemented by every source plugin.
type Parser interface {
	Interceptor

	Source() models.Source
	Domain() string
	PageSize() int

	// RequestHeaders are default headers sent with every request of this source.
	RequestHeaders() http.Header

	SortOrders() []models.SortOrder
	Capabilities() models.FilterCapabilities
	FilterOptions(ctx context.Context) (models.FilterOptions, error)

	// List returns one page (1-based) of series summaries.
	List(ctx context.Context, page int, order models.SortOrder, filter models.ListFilter) ([]models.Manga, error)
	// Details returns manga with description and chapters filled in.
	Details(ctx context.Context, manga models.Manga) (models.Manga, error)
	Pages(ctx context.Context, chapter models.Chapter) ([]models.Page, error)
}
