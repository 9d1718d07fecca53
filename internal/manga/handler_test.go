package manga_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"

	"mangaparsers/internal/manga"
	"mangaparsers/internal/parser/parsertest"
	"mangaparsers/internal/scraper"
	"mangaparsers/pkg/database"
	"mangaparsers/pkg/models"
)

func setup(t *testing.T) (*gin.Engine, models.Manga) {
	t.Helper()
	db, err := database.Open(database.Config{Path: filepath.Join(t.TempDir(), "data.db")})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := database.Migrate(db); err != nil {
		t.Fatalf("Migrate: %v", err)
	}

	solo := parsertest.Manga("/series/solo", "Solo Leveling")
	solo.Authors = []string{"Chugong"}
	solo.Tags = []models.Tag{{Title: "Action", Key: "action"}}
	solo.State = models.StateOngoing
	solo.Chapters = []models.Chapter{parsertest.Chapter(solo.URL, 1), parsertest.Chapter(solo.URL, 2)}

	other := parsertest.Manga("/series/other", "Another Story")
	other.Tags = []models.Tag{{Title: "Romance", Key: "romance"}}
	other.State = models.StateFinished

	if err := scraper.SaveToDatabase(context.Background(), db, []models.Manga{solo, other}); err != nil {
		t.Fatalf("seed: %v", err)
	}

	gin.SetMode(gin.TestMode)
	r := gin.New()
	manga.NewHandler(manga.NewRepo(db)).RegisterRoutes(r.Group("/manga"))
	return r, solo
}

type listBody struct {
	Total int              `json:"total"`
	Items []models.MangaDB `json:"items"`
}

func get(t *testing.T, r *gin.Engine, path string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func TestListFilters(t *testing.T) {
	r, _ := setup(t)

	tests := []struct {
		path  string
		total int
		first string
	}{
		{"/manga", 2, "Another Story"},
		{"/manga?q=chugong", 1, "Solo Leveling"},
		{"/manga?tag=romance", 1, "Another Story"},
		{"/manga?state=ongoing", 1, "Solo Leveling"},
		{"/manga?source=fake&limit=1", 2, "Another Story"},
		{"/manga?source=other", 0, ""},
	}
	for _, tt := range tests {
		w := get(t, r, tt.path)
		if w.Code != http.StatusOK {
			t.Fatalf("%s: status %d", tt.path, w.Code)
		}
		var body listBody
		if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
			t.Fatalf("%s: %v", tt.path, err)
		}
		if body.Total != tt.total {
			t.Errorf("%s: total = %d, want %d", tt.path, body.Total, tt.total)
		}
		if tt.first != "" && (len(body.Items) == 0 || body.Items[0].Title != tt.first) {
			t.Errorf("%s: items = %+v", tt.path, body.Items)
		}
	}
}

func TestGetByID(t *testing.T) {
	r, solo := setup(t)

	w := get(t, r, "/manga/"+solo.ID.String())
	if w.Code != http.StatusOK {
		t.Fatalf("status %d: %s", w.Code, w.Body)
	}
	var m models.MangaDB
	if err := json.Unmarshal(w.Body.Bytes(), &m); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if m.Title != "Solo Leveling" || m.TotalChapters != 2 || len(m.Chapters) != 2 {
		t.Fatalf("manga = %+v", m)
	}
	if m.Chapters[0].Number != 1 || m.Chapters[1].ID != solo.Chapters[1].ID {
		t.Errorf("chapters = %+v", m.Chapters)
	}
	if len(m.Tags) != 1 || m.Tags[0] != "Action" {
		t.Errorf("tags = %v", m.Tags)
	}

	if w := get(t, r, "/manga/does-not-exist"); w.Code != http.StatusNotFound {
		t.Errorf("missing id: status %d", w.Code)
	}
}
