package komikcast

import (
	"context"
	"fmt"

	"mangaparsers/pkg/models"
)

func (p *Parser) List(ctx context.Context, page int, order models.SortOrder, filter models.ListFilter) ([]models.Manga, error) {
	var resp listResponse
	if err := p.client.GetJSON(ctx, p.listURL(page, order, filter), &resp); err != nil {
		return nil, fmt.Errorf("komikcast: list page %d: %w", page, err)
	}
	if resp.Data == nil {
		return nil, fmt.Errorf("komikcast: list page %d: %w", page, malformed("data"))
	}

	items := *resp.Data
	out := make([]models.Manga, 0, len(items))
	for i := range items {
		m, err := p.toManga(&items[i])
		if err != nil {
			return nil, fmt.Errorf("komikcast: list page %d item %d: %w", page, i, err)
		}
		out = append(out, m)
	}
	return out, nil
}

// Details fetches the series record and then its chapter feed. Both calls
// must succeed; nothing is returned from a half-finished fetch.
func (p *Parser) Details(ctx context.Context, manga models.Manga) (models.Manga, error) {
	slug := slugOf(manga.URL)

	var detail detailResponse
	if err := p.client.GetJSON(ctx, p.apiURL+"/series/"+slug, &detail); err != nil {
		return models.Manga{}, fmt.Errorf("komikcast: details %s: %w", slug, err)
	}
	if detail.Data == nil {
		return models.Manga{}, fmt.Errorf("komikcast: details %s: %w", slug, malformed("data"))
	}

	var feed chaptersResponse
	if err := p.client.GetJSON(ctx, p.apiURL+"/series/"+slug+"/chapters", &feed); err != nil {
		return models.Manga{}, fmt.Errorf("komikcast: chapters %s: %w", slug, err)
	}
	if feed.Data == nil {
		return models.Manga{}, fmt.Errorf("komikcast: chapters %s: %w", slug, malformed("data"))
	}

	chapters, err := toChapters(slug, *feed.Data)
	if err != nil {
		return models.Manga{}, fmt.Errorf("komikcast: chapters %s: %w", slug, err)
	}

	out, err := p.toManga(detail.Data)
	if err != nil {
		return models.Manga{}, fmt.Errorf("komikcast: details %s: %w", slug, err)
	}
	out.Description = detail.Data.Data.Synopsis.Or("")
	out.Chapters = chapters
	return out, nil
}
