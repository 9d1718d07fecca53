package browse

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"mangaparsers/internal/parser"
	"mangaparsers/internal/parser/komikcast"
	"mangaparsers/internal/parser/parsertest"
	"mangaparsers/internal/webclient"
	"mangaparsers/pkg/models"
)

func setup(t *testing.T) (*gin.Engine, *parsertest.Fake) {
	t.Helper()
	f := parsertest.New()
	a := parsertest.Manga("/series/a", "A")
	f.ListPages = [][]models.Manga{{a}}
	d := a
	d.Chapters = []models.Chapter{parsertest.Chapter(a.URL, 1)}
	f.DetailsByURL[a.URL] = d
	f.PagesByURL[d.Chapters[0].URL] = []models.Page{{URL: "https://img.test/1.jpg", Source: parsertest.Source}}

	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewHandler(parser.NewRegistry(f)).RegisterRoutes(r.Group("/sources"))
	return r, f
}

func get(r *gin.Engine, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func TestSources(t *testing.T) {
	r, _ := setup(t)
	w := get(r, "/sources")
	var body struct {
		Items []sourceInfo `json:"items"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil || len(body.Items) != 1 {
		t.Fatalf("body = %s, err=%v", w.Body, err)
	}
	if body.Items[0].Name != parsertest.Source || body.Items[0].PageSize != 2 {
		t.Errorf("item = %+v", body.Items[0])
	}
}

func TestFiltersUnknownSource(t *testing.T) {
	r, _ := setup(t)
	if w := get(r, "/sources/nope/filters"); w.Code != http.StatusNotFound {
		t.Fatalf("status %d", w.Code)
	}
	if w := get(r, "/sources/fake/filters"); w.Code != http.StatusOK {
		t.Fatalf("status %d", w.Code)
	}
}

func TestList(t *testing.T) {
	r, f := setup(t)

	w := get(r, "/sources/fake/manga?page=1&order=popularity&tag=action,drama&state=ongoing")
	if w.Code != http.StatusOK {
		t.Fatalf("status %d: %s", w.Code, w.Body)
	}
	var body struct {
		Items []models.Manga `json:"items"`
	}
	_ = json.Unmarshal(w.Body.Bytes(), &body)
	if len(body.Items) != 1 || body.Items[0].Title != "A" {
		t.Errorf("items = %+v", body.Items)
	}
	if calls := f.ListCalls(); len(calls) != 1 || calls[0] != 1 {
		t.Errorf("list calls = %v", calls)
	}

	for _, bad := range []string{"page=0", "page=x", "order=sideways", "state=dormant", "type=scroll"} {
		if w := get(r, "/sources/fake/manga?"+bad); w.Code != http.StatusBadRequest {
			t.Errorf("%s: status %d", bad, w.Code)
		}
	}
}

func TestListUpstreamErrors(t *testing.T) {
	r, f := setup(t)

	f.ListErr = fmt.Errorf("list: %w", &webclient.StatusError{URL: "x", StatusCode: http.StatusNotFound})
	if w := get(r, "/sources/fake/manga"); w.Code != http.StatusNotFound {
		t.Errorf("upstream 404: status %d", w.Code)
	}
	f.ListErr = &webclient.StatusError{URL: "x", StatusCode: http.StatusInternalServerError}
	if w := get(r, "/sources/fake/manga"); w.Code != http.StatusBadGateway {
		t.Errorf("upstream 500: status %d", w.Code)
	}
}

func TestDetailsAndPages(t *testing.T) {
	r, _ := setup(t)

	if w := get(r, "/sources/fake/details"); w.Code != http.StatusBadRequest {
		t.Errorf("missing url: status %d", w.Code)
	}
	w := get(r, "/sources/fake/details?url=/series/a")
	if w.Code != http.StatusOK {
		t.Fatalf("details: status %d: %s", w.Code, w.Body)
	}
	var m models.Manga
	_ = json.Unmarshal(w.Body.Bytes(), &m)
	if len(m.Chapters) != 1 {
		t.Fatalf("manga = %+v", m)
	}

	w = get(r, "/sources/fake/pages?url="+m.Chapters[0].URL)
	if w.Code != http.StatusOK {
		t.Fatalf("pages: status %d: %s", w.Code, w.Body)
	}
	var body struct {
		Items []models.Page `json:"items"`
	}
	_ = json.Unmarshal(w.Body.Bytes(), &body)
	if len(body.Items) != 1 || body.Items[0].URL != "https://img.test/1.jpg" {
		t.Errorf("pages = %+v", body.Items)
	}

	if w := get(r, "/sources/fake/details?url=/series/missing"); w.Code != http.StatusBadGateway {
		t.Errorf("malformed: status %d", w.Code)
	}
}

func TestParseFilter(t *testing.T) {
	f, err := ParseFilter("X", " one ", []string{"a,b", "c"}, []string{"d"}, []string{"finished"}, []string{"manhwa"})
	if err != nil {
		t.Fatalf("ParseFilter: %v", err)
	}
	if f.Query != " one " || len(f.Tags) != 3 || f.TagsExclude[0].Key != "d" ||
		f.States[0] != models.StateFinished || f.Types[0] != models.TypeManhwa {
		t.Fatalf("filter = %+v", f)
	}
	dup, err := ParseFilter("X", "", []string{"A", "A,B"}, []string{"C", "C"}, []string{"ongoing", "ONGOING"}, []string{"manga", "manga"})
	if err != nil {
		t.Fatalf("ParseFilter: %v", err)
	}
	if len(dup.Tags) != 2 || len(dup.TagsExclude) != 1 || len(dup.States) != 1 || len(dup.Types) != 1 {
		t.Fatalf("duplicates kept: %+v", dup)
	}
	if empty, _ := ParseFilter("X", "", nil, nil, nil, nil); !empty.IsEmpty() {
		t.Errorf("empty inputs gave %+v", empty)
	}
}

func TestPagesBadChapterURL(t *testing.T) {
	r, _ := setup(t)
	if w := get(r, "/sources/fake/pages?url=/series/a"); w.Code != http.StatusBadRequest {
		t.Errorf("fake: status %d: %s", w.Code, w.Body)
	}

	// the komikcast plugin rejects the url before any request is made
	gin.SetMode(gin.TestMode)
	kr := gin.New()
	NewHandler(parser.NewRegistry(komikcast.New(nil, komikcast.Config{}))).RegisterRoutes(kr.Group("/sources"))
	if w := get(kr, "/sources/komikcast/pages?url=/series/abc"); w.Code != http.StatusBadRequest {
		t.Errorf("komikcast: status %d: %s", w.Code, w.Body)
	}
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{fmt.Errorf("x: %w", parser.ErrUnknownSource), http.StatusNotFound},
		{fmt.Errorf("x: %w", parser.ErrInvalidRef), http.StatusBadRequest},
		{fmt.Errorf("x: %w", parser.ErrMalformed), http.StatusBadGateway},
		{&webclient.StatusError{URL: "x", StatusCode: http.StatusNotFound}, http.StatusNotFound},
	}
	for _, tt := range tests {
		if got := HTTPStatus(tt.err); got != tt.want {
			t.Errorf("HTTPStatus(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}
