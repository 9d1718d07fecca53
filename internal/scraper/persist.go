package scraper

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"mangaparsers/pkg/models"
)

// SaveToDatabase upserts each series into `manga` and replaces its rows in
// `chapters`, all in one transaction. List-only entries (no chapters) keep
// whatever chapters are already stored.
func SaveToDatabase(ctx context.Context, db *sql.DB, mangas []models.Manga) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	mangaStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO manga (id, source, url, public_url, title, alt_titles, authors, tags, state,
		                   content_rating, rating, cover_url, description, total_chapters, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
		  source = excluded.source,
		  url = excluded.url,
		  public_url = excluded.public_url,
		  title = excluded.title,
		  alt_titles = excluded.alt_titles,
		  authors = excluded.authors,
		  tags = excluded.tags,
		  state = excluded.state,
		  content_rating = excluded.content_rating,
		  rating = excluded.rating,
		  cover_url = excluded.cover_url,
		  description = CASE WHEN excluded.description != '' THEN excluded.description ELSE manga.description END,
		  total_chapters = CASE WHEN excluded.total_chapters > 0 THEN excluded.total_chapters ELSE manga.total_chapters END,
		  updated_at = excluded.updated_at
	`)
	if err != nil {
		return fmt.Errorf("prepare manga stmt: %w", err)
	}
	defer mangaStmt.Close()

	chapterStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO chapters (id, manga_id, position, title, number, volume, url, scanlator, upload_date, branch, source)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("prepare chapter stmt: %w", err)
	}
	defer chapterStmt.Close()

	now := time.Now().UnixMilli()
	for _, m := range mangas {
		id := m.ID.String()
		altJSON, err := jsonText(m.AltTitles)
		if err != nil {
			return fmt.Errorf("marshal alt titles for %s: %w", id, err)
		}
		authorsJSON, err := jsonText(m.Authors)
		if err != nil {
			return fmt.Errorf("marshal authors for %s: %w", id, err)
		}
		tagTitles := make([]string, 0, len(m.Tags))
		for _, t := range m.Tags {
			tagTitles = append(tagTitles, t.Title)
		}
		tagsJSON, err := jsonText(tagTitles)
		if err != nil {
			return fmt.Errorf("marshal tags for %s: %w", id, err)
		}

		if _, err := mangaStmt.ExecContext(ctx,
			id, string(m.Source), m.URL, m.PublicURL, m.Title,
			altJSON, authorsJSON, tagsJSON, string(m.State), string(m.ContentRating),
			m.Rating, m.CoverURL, m.Description, len(m.Chapters), now,
		); err != nil {
			return fmt.Errorf("exec upsert for %s: %w", id, err)
		}

		if len(m.Chapters) == 0 {
			continue
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM chapters WHERE manga_id = ?`, id); err != nil {
			return fmt.Errorf("clear chapters for %s: %w", id, err)
		}
		for pos, ch := range m.Chapters {
			if _, err := chapterStmt.ExecContext(ctx,
				ch.ID.String(), id, pos, ch.Title, ch.Number, ch.Volume, ch.URL,
				ch.Scanlator, ch.UploadDate, ch.Branch, string(ch.Source),
			); err != nil {
				return fmt.Errorf("insert chapter %s for %s: %w", ch.URL, id, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

func jsonText(v []string) (string, error) {
	if v == nil {
		v = []string{}
	}
	b, err := json.Marshal(v)
	return string(b), err
}
