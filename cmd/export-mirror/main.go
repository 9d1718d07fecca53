package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"mangaparsers/internal/manga"
	"mangaparsers/internal/parser/komikcast"
	"mangaparsers/pkg/database"
	"mangaparsers/pkg/models"
)

// Writes the stored KomikCast catalog as a tree of API responses that
// mirror-server replays:
//
//	series.json                   GET /series
//	series/{slug}.json            GET /series/{slug}
//	series/{slug}/chapters.json   GET /series/{slug}/chapters
func main() {
	var (
		outDir = flag.String("out", "data/mirror", "output directory")
		limit  = flag.Int("limit", 100, "how many titles to export")
	)
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db := database.MustOpen(database.DefaultConfig())
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatalf("db migrate failed: %v", err)
	}

	repo := manga.NewRepo(db)
	items, err := repo.List(ctx, manga.ListQuery{Source: string(komikcast.SourceName), Limit: *limit})
	if err != nil {
		log.Fatalf("query failed: %v", err)
	}

	list := make([]item, 0, len(items))
	for _, summary := range items {
		m, err := repo.GetByID(ctx, summary.ID)
		if err != nil || m == nil {
			log.Fatalf("load %s failed: %v", summary.ID, err)
		}
		slug := m.URL[strings.LastIndex(m.URL, "/")+1:]
		series := item{Data: toSeries(slug, m)}
		list = append(list, series)

		if err := writeJSON(filepath.Join(*outDir, "series", slug+".json"), item{Data: series}); err != nil {
			log.Fatalf("write %s failed: %v", slug, err)
		}
		if err := writeJSON(filepath.Join(*outDir, "series", slug, "chapters.json"), item{Data: toChapters(m.Chapters)}); err != nil {
			log.Fatalf("write chapters of %s failed: %v", slug, err)
		}
	}

	if err := writeJSON(filepath.Join(*outDir, "series.json"), item{Data: list}); err != nil {
		log.Fatalf("write series list failed: %v", err)
	}

	log.Printf("exported %d titles to %s", len(list), *outDir)
}

// item is the {"data": ...} envelope every API record uses.
type item struct {
	Data any `json:"data"`
}

var stateNames = map[models.State]string{
	models.StateOngoing:   "ongoing",
	models.StateFinished:  "completed",
	models.StatePaused:    "hiatus",
	models.StateAbandoned: "cancelled",
}

func toSeries(slug string, m *models.MangaDB) map[string]any {
	genres := make([]item, 0, len(m.Tags))
	for _, t := range m.Tags {
		genres = append(genres, item{Data: map[string]string{"name": t}})
	}
	out := map[string]any{
		"slug":       slug,
		"title":      m.Title,
		"coverImage": m.CoverURL,
		"status":     stateNames[m.State],
		"synopsis":   m.Description,
		"genres":     genres,
	}
	if len(m.Authors) > 0 {
		out["author"] = m.Authors[0]
	}
	return out
}

// toChapters lists newest first, the order the chapter feed uses.
func toChapters(chapters []models.Chapter) []map[string]any {
	out := make([]map[string]any, 0, len(chapters))
	for i := len(chapters) - 1; i >= 0; i-- {
		c := chapters[i]
		entry := map[string]any{
			"data": map[string]any{"index": c.Number, "title": c.Title},
		}
		if c.UploadDate > 0 {
			entry["createdAt"] = time.UnixMilli(c.UploadDate).UTC().Format("2006-01-02T15:04:05.000Z07:00")
		}
		out = append(out, entry)
	}
	return out
}

func writeJSON(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0o644)
}
