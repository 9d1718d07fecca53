package main

import (
	"context"
	"database/sql"
	"encoding/csv"
	"flag"
	"log"
	"os"
	"path/filepath"
	"time"

	"mangaparsers/pkg/database"
)

func main() {
	var (
		mangaOut    = flag.String("manga", "data/manga.csv", "output CSV path for manga")
		chaptersOut = flag.String("chapters", "data/chapters.csv", "output CSV path for chapters")
	)
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db := database.MustOpen(database.DefaultConfig())
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatalf("db migrate failed: %v", err)
	}

	if err := exportManga(ctx, db, *mangaOut); err != nil {
		log.Fatalf("export manga failed: %v", err)
	}
	if err := exportChapters(ctx, db, *chaptersOut); err != nil {
		log.Fatalf("export chapters failed: %v", err)
	}

	log.Printf("exported manga to %s and chapters to %s", *mangaOut, *chaptersOut)
}

// writeCSV runs query and writes header plus every row, all columns read as text.
func writeCSV(ctx context.Context, db *sql.DB, outPath string, header []string, query string) error {
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return err
	}

	f, err := os.Create(outPath)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return err
	}

	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return err
	}
	defer rows.Close()

	values := make([]sql.NullString, len(header))
	dest := make([]any, len(header))
	for i := range values {
		dest[i] = &values[i]
	}
	record := make([]string, len(header))

	for rows.Next() {
		if err := rows.Scan(dest...); err != nil {
			return err
		}
		for i, v := range values {
			record[i] = v.String
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	if err := rows.Err(); err != nil {
		return err
	}

	w.Flush()
	return w.Error()
}

func exportManga(ctx context.Context, db *sql.DB, outPath string) error {
	return writeCSV(ctx, db, outPath,
		[]string{"id", "source", "title", "authors", "tags", "state", "total_chapters", "url", "public_url", "cover_url", "description"},
		`SELECT id, source, title, authors, tags, state, CAST(total_chapters AS TEXT), url, public_url, cover_url, description
		 FROM manga
		 ORDER BY title`)
}

func exportChapters(ctx context.Context, db *sql.DB, outPath string) error {
	return writeCSV(ctx, db, outPath,
		[]string{"id", "manga_id", "position", "number", "title", "url", "upload_date"},
		`SELECT id, manga_id, CAST(position AS TEXT), CAST(number AS TEXT), title, url, `+uploadDateExpr+`
		 FROM chapters
		 ORDER BY manga_id, position`)
}

// uploadDateExpr renders epoch millis as RFC 3339, empty when unknown.
var uploadDateExpr = `CASE WHEN upload_date > 0 THEN strftime('%Y-%m-%dT%H:%M:%SZ', upload_date / 1000, 'unixepoch') ELSE '' END`
