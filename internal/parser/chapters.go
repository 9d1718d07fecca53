package parser

import (
	"github.com/google/uuid"

	"mangaparsers/pkg/models"
)

// ChapterListBuilder collects chapters in insertion order and drops any whose
// ID was already added.
type ChapterListBuilder struct {
	seen  map[uuid.UUID]struct{}
	items []models.Chapter
}

func NewChapterListBuilder(capacity int) *ChapterListBuilder {
	return &ChapterListBuilder{
		seen:  make(map[uuid.UUID]struct{}, capacity),
		items: make([]models.Chapter, 0, capacity),
	}
}

// Add reports whether the chapter was new.
func (b *ChapterListBuilder) Add(ch models.Chapter) bool {
	if _, dup := b.seen[ch.ID]; dup {
		return false
	}
	b.seen[ch.ID] = struct{}{}
	b.items = append(b.items, ch)
	return true
}

func (b *ChapterListBuilder) List() []models.Chapter {
	return b.items
}

// MapChapters calls fn for indexes 0..n-1, walking the source from the end
// when reversed is set, and keeps the first chapter seen for every ID.
// fn receives the iteration position and the source index to read.
// A nil chapter from fn is skipped; an error aborts the whole mapping.
func MapChapters(n int, reversed bool, fn func(i, src int) (*models.Chapter, error)) ([]models.Chapter, error) {
	b := NewChapterListBuilder(n)
	for i := 0; i < n; i++ {
		src := i
		if reversed {
			src = n - 1 - i
		}
		ch, err := fn(i, src)
		if err != nil {
			return nil, err
		}
		if ch != nil {
			b.Add(*ch)
		}
	}
	return b.List(), nil
}
