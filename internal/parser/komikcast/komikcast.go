// Package komikcast is the source plugin for KomikCast, an Indonesian
// manga/manhwa/manhua reader backed by a JSON REST API.
package komikcast

import (
	"context"
	"net/http"
	"net/url"

	"mangaparsers/internal/parser"
	"mangaparsers/pkg/models"
)

const (
	SourceName  models.Source = "KOMIKCAST"
	DisplayName               = "KomikCast"
	Locale                    = "id"

	DefaultDomain = "v1.komikcast.fit"
	DefaultAPIURL = "https://be.komikcast.fit"

	pageSize = 12
)

type Config struct {
	Domain string // site domain used for public URLs and Referer/Origin
	APIURL string // API base, without trailing slash
	NSFW   bool   // marks every series as adult content
}

// Parser implements parser.Parser for KomikCast. It keeps no mutable state
// and is safe for concurrent use.
type Parser struct {
	client  parser.WebClient
	domain  string
	apiURL  string
	apiHost string
	nsfw    bool
}

var _ parser.Parser = (*Parser)(nil)

func New(client parser.WebClient, cfg Config) *Parser {
	if cfg.Domain == "" {
		cfg.Domain = DefaultDomain
	}
	if cfg.APIURL == "" {
		cfg.APIURL = DefaultAPIURL
	}
	host := ""
	if u, err := url.Parse(cfg.APIURL); err == nil {
		host = u.Hostname()
	}
	return &Parser{
		client:  client,
		domain:  cfg.Domain,
		apiURL:  cfg.APIURL,
		apiHost: host,
		nsfw:    cfg.NSFW,
	}
}

func (p *Parser) Source() models.Source { return SourceName }
func (p *Parser) Domain() string        { return p.domain }
func (p *Parser) PageSize() int         { return pageSize }

func (p *Parser) siteURL() string { return "https://" + p.domain }

func (p *Parser) RequestHeaders() http.Header {
	h := make(http.Header)
	h.Set("Referer", p.siteURL()+"/")
	h.Set("Origin", p.siteURL())
	return h
}

func (p *Parser) SortOrders() []models.SortOrder {
	return []models.SortOrder{
		models.SortPopularity,
		models.SortNewest,
		models.SortRating,
		models.SortUpdated,
	}
}

func (p *Parser) Capabilities() models.FilterCapabilities {
	return models.FilterCapabilities{
		SearchSupported:        true,
		MultipleTagsSupported:  true,
		TagsExclusionSupported: true,
	}
}

func (p *Parser) FilterOptions(_ context.Context) (models.FilterOptions, error) {
	return models.FilterOptions{
		Tags: genreTags(),
		States: []models.State{
			models.StateOngoing,
			models.StateFinished,
			models.StatePaused,
			models.StateAbandoned,
		},
		Types: []models.ContentType{
			models.TypeManga,
			models.TypeManhwa,
			models.TypeManhua,
		},
	}, nil
}

func (p *Parser) contentRating() models.ContentRating {
	if p.nsfw {
		return models.ContentRatingAdult
	}
	return models.ContentRatingUnset
}
