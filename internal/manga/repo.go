package manga

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"mangaparsers/pkg/models"
)

type Repo struct {
	DB *sql.DB
}

type ListQuery struct {
	Q      string // keyword search in title/authors/alt titles
	Tag    string
	State  string
	Source string
	Limit  int
	Offset int
}

func NewRepo(db *sql.DB) *Repo {
	return &Repo{DB: db}
}

const mangaColumns = `id, source, url, public_url, title, alt_titles, authors, tags, state,
	content_rating, rating, cover_url, description, total_chapters, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanManga(row rowScanner) (models.MangaDB, error) {
	var (
		m                        models.MangaDB
		altJSON, authJSON, tagsJ string
	)
	if err := row.Scan(
		&m.ID, &m.Source, &m.URL, &m.PublicURL, &m.Title, &altJSON, &authJSON, &tagsJ, &m.State,
		&m.ContentRating, &m.Rating, &m.CoverURL, &m.Description, &m.TotalChapters, &m.UpdatedAt,
	); err != nil {
		return m, err
	}
	m.AltTitles = decodeList(altJSON)
	m.Authors = decodeList(authJSON)
	m.Tags = decodeList(tagsJ)
	return m, nil
}

func decodeList(s string) []string {
	out := []string{}
	_ = json.Unmarshal([]byte(s), &out)
	return out
}

// GetByID returns the stored series with its chapters, or nil if unknown.
func (r *Repo) GetByID(ctx context.Context, id string) (*models.MangaDB, error) {
	row := r.DB.QueryRowContext(ctx, `SELECT `+mangaColumns+` FROM manga WHERE id = ?`, id)
	m, err := scanManga(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan getByID: %w", err)
	}

	chapters, err := r.chapters(ctx, id)
	if err != nil {
		return nil, err
	}
	m.Chapters = chapters
	return &m, nil
}

func (r *Repo) chapters(ctx context.Context, mangaID string) ([]models.Chapter, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, title, number, volume, url, scanlator, upload_date, branch, source
		FROM chapters
		WHERE manga_id = ?
		ORDER BY position ASC
	`, mangaID)
	if err != nil {
		return nil, fmt.Errorf("chapters query: %w", err)
	}
	defer rows.Close()

	out := []models.Chapter{}
	for rows.Next() {
		var (
			c  models.Chapter
			id string
		)
		if err := rows.Scan(&id, &c.Title, &c.Number, &c.Volume, &c.URL, &c.Scanlator, &c.UploadDate, &c.Branch, &c.Source); err != nil {
			return nil, fmt.Errorf("chapters scan: %w", err)
		}
		if c.ID, err = uuid.Parse(id); err != nil {
			return nil, fmt.Errorf("chapter id %q: %w", id, err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows err: %w", err)
	}
	return out, nil
}

func (r *Repo) Count(ctx context.Context, q ListQuery) (int, error) {
	sqlStr, args := buildListSQL(q, true)
	row := r.DB.QueryRowContext(ctx, sqlStr, args...)
	var total int
	if err := row.Scan(&total); err != nil {
		return 0, fmt.Errorf("count scan: %w", err)
	}
	return total, nil
}

func (r *Repo) List(ctx context.Context, q ListQuery) ([]models.MangaDB, error) {
	sqlStr, args := buildListSQL(q, false)

	rows, err := r.DB.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, fmt.Errorf("list query: %w", err)
	}
	defer rows.Close()

	out := make([]models.MangaDB, 0, clampLimit(q.Limit))
	for rows.Next() {
		m, err := scanManga(rows)
		if err != nil {
			return nil, fmt.Errorf("list scan: %w", err)
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows err: %w", err)
	}
	return out, nil
}

func clampLimit(limit int) int {
	if limit <= 0 || limit > 100 {
		return 20
	}
	return limit
}

// buildListSQL builds either COUNT(*) or SELECT list.
// The tag filter matches a quoted title inside the stored JSON text.
func buildListSQL(q ListQuery, countOnly bool) (string, []any) {
	baseSelect := `SELECT ` + mangaColumns + ` FROM manga`
	if countOnly {
		baseSelect = `SELECT COUNT(*) FROM manga`
	}

	var where []string
	var args []any

	if kw := strings.ToLower(strings.TrimSpace(q.Q)); kw != "" {
		where = append(where, "(LOWER(title) LIKE ? OR LOWER(authors) LIKE ? OR LOWER(alt_titles) LIKE ?)")
		like := "%" + kw + "%"
		args = append(args, like, like, like)
	}

	if st := strings.TrimSpace(q.State); st != "" {
		where = append(where, "state = ?")
		args = append(args, strings.ToUpper(st))
	}

	if src := strings.TrimSpace(q.Source); src != "" {
		where = append(where, "source = ?")
		args = append(args, strings.ToUpper(src))
	}

	if tag := strings.ToLower(strings.TrimSpace(q.Tag)); tag != "" {
		where = append(where, "LOWER(tags) LIKE ?")
		args = append(args, `%"`+tag+`"%`)
	}

	sqlStr := baseSelect
	if len(where) > 0 {
		sqlStr += " WHERE " + strings.Join(where, " AND ")
	}

	if !countOnly {
		sqlStr += " ORDER BY title ASC"
		sqlStr += " LIMIT ? OFFSET ?"
		offset := q.Offset
		if offset < 0 {
			offset = 0
		}
		args = append(args, clampLimit(q.Limit), offset)
	}

	return sqlStr, args
}
