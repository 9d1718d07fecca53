package komikcast

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"mangaparsers/internal/parser"
	"mangaparsers/pkg/models"
	"mangaparsers/pkg/utils"
)

// Wire shapes. Every API record wraps its attributes in a "data" object.

type listResponse struct {
	Data *[]seriesItem `json:"data"`
}

type detailResponse struct {
	Data *seriesItem `json:"data"`
}

type seriesItem struct {
	Data *seriesData `json:"data"`
}

type seriesData struct {
	Slug       *string          `json:"slug"`
	Title      *string          `json:"title"`
	CoverImage parser.OptString `json:"coverImage"`
	Status     parser.OptString `json:"status"`
	Author     parser.OptString `json:"author"`
	Synopsis   parser.OptString `json:"synopsis"`
	Genres     json.RawMessage  `json:"genres"`
}

type genreItem struct {
	Data *struct {
		Name *string `json:"name"`
	} `json:"data"`
}

type chaptersResponse struct {
	Data *[]chapterItem `json:"data"`
}

type chapterItem struct {
	Data      *chapterData     `json:"data"`
	CreatedAt parser.OptString `json:"createdAt"`
	UpdatedAt parser.OptString `json:"updatedAt"`
}

type chapterData struct {
	Index *float64         `json:"index"`
	Title parser.OptString `json:"title"`
}

func malformed(what string) error {
	return fmt.Errorf("%w: missing %s", parser.ErrMalformed, what)
}

// toManga maps one series record. List and Details both go through here so
// the shared fields never diverge between the two views.
func (p *Parser) toManga(item *seriesItem) (models.Manga, error) {
	if item == nil || item.Data == nil {
		return models.Manga{}, malformed("series data")
	}
	d := item.Data
	if d.Slug == nil {
		return models.Manga{}, malformed("series slug")
	}
	if d.Title == nil {
		return models.Manga{}, malformed("series title")
	}
	tags, err := toTags(d.Genres)
	if err != nil {
		return models.Manga{}, err
	}

	authors := []string{}
	if d.Author.Valid {
		authors = append(authors, d.Author.Value)
	}

	relativeURL := "/series/" + *d.Slug
	return models.Manga{
		ID:            utils.GenerateUID(SourceName, relativeURL),
		Title:         *d.Title,
		AltTitles:     []string{},
		URL:           relativeURL,
		PublicURL:     p.siteURL() + relativeURL,
		Rating:        models.RatingUnknown,
		ContentRating: p.contentRating(),
		CoverURL:      d.CoverImage.Or(""),
		Tags:          tags,
		State:         parseState(d.Status),
		Authors:       authors,
		Source:        SourceName,
	}, nil
}

// toTags reads the optional genres array. Anything but an array means no tags.
func toTags(raw json.RawMessage) ([]models.Tag, error) {
	tags := []models.Tag{}
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '[' {
		return tags, nil
	}
	var items []genreItem
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("%w: genres: %v", parser.ErrMalformed, err)
	}
	seen := make(map[string]struct{}, len(items))
	for _, g := range items {
		if g.Data == nil || g.Data.Name == nil {
			return nil, malformed("genre name")
		}
		name := *g.Data.Name
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		tags = append(tags, newTag(name))
	}
	return tags, nil
}

func parseState(s parser.OptString) models.State {
	if !s.Valid {
		return models.StateUnknown
	}
	switch strings.ToLower(s.Value) {
	case "ongoing", "on going":
		return models.StateOngoing
	case "completed", "complete":
		return models.StateFinished
	case "hiatus":
		return models.StatePaused
	case "cancelled", "canceled":
		return models.StateAbandoned
	default:
		return models.StateUnknown
	}
}

const chapterDateLayout = "2006-01-02T15:04:05.000Z07:00"

// parseChapterDate accepts the API's millisecond timestamps and plain RFC 3339.
func parseChapterDate(s string) int64 {
	if ms := utils.ParseDateSafe(chapterDateLayout, s); ms != 0 {
		return ms
	}
	return utils.ParseDateSafe(time.RFC3339, s)
}

// toChapters turns the newest-first chapter feed into an oldest-first list.
func toChapters(slug string, items []chapterItem) ([]models.Chapter, error) {
	return parser.MapChapters(len(items), true, func(_, src int) (*models.Chapter, error) {
		item := items[src]
		if item.Data == nil {
			return nil, malformed("chapter data")
		}
		if item.Data.Index == nil {
			return nil, malformed("chapter index")
		}
		index := float32(*item.Data.Index)
		ref := NewChapterRef(slug, index)
		uploaded := item.CreatedAt.Or(item.UpdatedAt.Or(""))
		relativeURL := ref.String()
		return &models.Chapter{
			ID:         utils.GenerateUID(SourceName, relativeURL),
			Title:      item.Data.Title.Or(""),
			Number:     index,
			Volume:     0,
			URL:        relativeURL,
			UploadDate: parseChapterDate(uploaded),
			Source:     SourceName,
		}, nil
	})
}
