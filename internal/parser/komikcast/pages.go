package komikcast

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"

	"mangaparsers/internal/parser"
	"mangaparsers/pkg/models"
	"mangaparsers/pkg/utils"
)

type chapterResponse struct {
	Data *struct {
		DataImages json.RawMessage `json:"dataImages"`
	} `json:"data"`
}

type imageEntry struct {
	key string
	url string
}

func (p *Parser) Pages(ctx context.Context, chapter models.Chapter) ([]models.Page, error) {
	ref, err := ParseChapterRef(chapter.URL)
	if err != nil {
		return nil, fmt.Errorf("komikcast: pages: %w", err)
	}

	var resp chapterResponse
	if err := p.client.GetJSON(ctx, p.apiURL+ref.String(), &resp); err != nil {
		return nil, fmt.Errorf("komikcast: pages %s: %w", ref, err)
	}
	if resp.Data == nil {
		return nil, fmt.Errorf("komikcast: pages %s: %w", ref, malformed("data"))
	}

	images, err := readImageMap(resp.Data.DataImages)
	if err != nil {
		return nil, fmt.Errorf("komikcast: pages %s: %w", ref, err)
	}
	sortImages(images)

	pages := make([]models.Page, 0, len(images))
	for _, img := range images {
		pages = append(pages, models.Page{
			ID:     utils.GenerateUID(SourceName, img.url),
			URL:    img.url,
			Source: SourceName,
		})
	}
	return pages, nil
}

// readImageMap decodes the id→url object in document order. A missing,
// null or non-object value means the chapter has no page map yet.
func readImageMap(raw json.RawMessage) ([]imageEntry, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '{' {
		return nil, nil
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("%w: dataImages: %v", parser.ErrMalformed, err)
	}
	var out []imageEntry
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("%w: dataImages: %v", parser.ErrMalformed, err)
		}
		key, _ := tok.(string)
		var url *string
		if err := dec.Decode(&url); err != nil {
			return nil, fmt.Errorf("%w: dataImages[%s]: %v", parser.ErrMalformed, key, err)
		}
		if url == nil {
			return nil, malformed("dataImages[" + key + "]")
		}
		out = append(out, imageEntry{key: key, url: *url})
	}
	return out, nil
}

// sortImages orders entries by numeric key; keys that are not 32-bit
// integers sort last and keep their relative order.
func sortImages(images []imageEntry) {
	sort.SliceStable(images, func(i, j int) bool {
		return keyRank(images[i].key) < keyRank(images[j].key)
	})
}

func keyRank(key string) int64 {
	n, err := strconv.ParseInt(key, 10, 32)
	if err != nil {
		return math.MaxInt32
	}
	return n
}
