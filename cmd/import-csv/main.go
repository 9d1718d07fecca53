package main

import (
	"context"
	"database/sql"
	"encoding/csv"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"mangaparsers/pkg/database"
	"mangaparsers/pkg/utils"
)

// Reads the files written by export-csv back into the catalog.
func main() {
	var (
		mangaIn    = flag.String("manga", "data/manga.csv", "input CSV path for manga")
		chaptersIn = flag.String("chapters", "data/chapters.csv", "input CSV path for chapters")
	)
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db := database.MustOpen(database.DefaultConfig())
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatalf("db migrate failed: %v", err)
	}

	nManga, err := importManga(ctx, db, *mangaIn)
	if err != nil {
		log.Fatalf("import manga failed: %v", err)
	}
	nChapters, err := importChapters(ctx, db, *chaptersIn)
	if err != nil {
		log.Fatalf("import chapters failed: %v", err)
	}

	log.Printf("imported %d manga from %s and %d chapters from %s", nManga, *mangaIn, nChapters, *chaptersIn)
}

type csvFile struct {
	f      *os.File
	r      *csv.Reader
	header map[string]int
}

func openCSV(path string) (*csvFile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	cols, err := r.Read()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("read header: %w", err)
	}
	header := make(map[string]int, len(cols))
	for i, c := range cols {
		header[strings.ToLower(strings.TrimSpace(c))] = i
	}
	return &csvFile{f: f, r: r, header: header}, nil
}

// each calls fn for every non-empty row with a column accessor.
func (c *csvFile) each(fn func(get func(string) string) error) error {
	defer c.f.Close()
	for {
		row, err := c.r.Read()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		if len(row) == 0 {
			continue
		}
		get := func(name string) string {
			i, ok := c.header[name]
			if !ok || i >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[i])
		}
		if err := fn(get); err != nil {
			return err
		}
	}
}

func importManga(ctx context.Context, db *sql.DB, path string) (int, error) {
	in, err := openCSV(path)
	if err != nil {
		return 0, err
	}

	stmt, err := db.PrepareContext(ctx, `
		INSERT INTO manga (id, source, url, public_url, title, authors, tags, state, cover_url, description, total_chapters, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
		  source = excluded.source,
		  url = excluded.url,
		  public_url = excluded.public_url,
		  title = excluded.title,
		  authors = excluded.authors,
		  tags = excluded.tags,
		  state = excluded.state,
		  cover_url = excluded.cover_url,
		  description = excluded.description,
		  total_chapters = excluded.total_chapters,
		  updated_at = excluded.updated_at
	`)
	if err != nil {
		return 0, err
	}
	defer stmt.Close()

	now := time.Now().UnixMilli()
	n := 0
	err = in.each(func(get func(string) string) error {
		id, title := get("id"), get("title")
		if id == "" || title == "" {
			return nil
		}
		total, err := atoiOrZero(get("total_chapters"))
		if err != nil {
			return fmt.Errorf("parse total_chapters for %s: %w", id, err)
		}
		if _, err := stmt.ExecContext(ctx,
			id, get("source"), get("url"), get("public_url"), title,
			jsonOrEmpty(get("authors")), jsonOrEmpty(get("tags")), get("state"),
			get("cover_url"), get("description"), total, now,
		); err != nil {
			return fmt.Errorf("upsert %s: %w", id, err)
		}
		n++
		return nil
	})
	return n, err
}

func importChapters(ctx context.Context, db *sql.DB, path string) (int, error) {
	in, err := openCSV(path)
	if err != nil {
		return 0, err
	}

	stmt, err := db.PrepareContext(ctx, `
		INSERT INTO chapters (id, manga_id, position, number, title, url, upload_date, source)
		VALUES (?, ?, ?, ?, ?, ?, ?, (SELECT source FROM manga WHERE id = ?))
		ON CONFLICT(id) DO UPDATE SET
		  position = excluded.position,
		  number = excluded.number,
		  title = excluded.title,
		  url = excluded.url,
		  upload_date = excluded.upload_date
	`)
	if err != nil {
		return 0, err
	}
	defer stmt.Close()

	n := 0
	err = in.each(func(get func(string) string) error {
		id, mangaID := get("id"), get("manga_id")
		if id == "" || mangaID == "" {
			return nil
		}
		pos, err := atoiOrZero(get("position"))
		if err != nil {
			return fmt.Errorf("parse position for %s: %w", id, err)
		}
		number, err := strconv.ParseFloat(get("number"), 32)
		if err != nil {
			return fmt.Errorf("parse number for %s: %w", id, err)
		}
		uploaded := utils.ParseDateSafe(time.RFC3339, get("upload_date"))
		if _, err := stmt.ExecContext(ctx, id, mangaID, pos, number, get("title"), get("url"), uploaded, mangaID); err != nil {
			return fmt.Errorf("upsert chapter %s: %w", id, err)
		}
		n++
		return nil
	})
	return n, err
}

func atoiOrZero(s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	return strconv.Atoi(s)
}

func jsonOrEmpty(s string) string {
	if s == "" {
		return "[]"
	}
	return s
}
