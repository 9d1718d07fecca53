package komikcast

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"mangaparsers/internal/parser"
	"mangaparsers/pkg/models"
)

const seriesJSON = `{"data":{"slug":"solo-leveling","title":"Solo Leveling",
	"coverImage":"https://img.example/c.jpg","status":"On Going","author":"Chugong",
	"synopsis":"Hunters and gates.",
	"genres":[{"data":{"name":"Action"}}]}}`

func TestList(t *testing.T) {
	client := newFakeClient()
	client.bodies[testAPI+"/series"] = `{"data":[` + seriesJSON + `,{"data":{"slug":"b","title":"B"}}]}`
	p := newTestParser(client)

	got, err := p.List(context.Background(), 1, models.SortUpdated, models.ListFilter{})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if got[0].Title != "Solo Leveling" || got[0].State != models.StateOngoing || got[1].URL != "/series/b" {
		t.Errorf("unexpected list %+v", got)
	}
	if got[0].Description != "" || got[0].Chapters != nil {
		t.Error("list entries must not carry detail fields")
	}
}

func TestListMissingData(t *testing.T) {
	client := newFakeClient()
	client.bodies[testAPI+"/series"] = `{"meta":{}}`
	_, err := newTestParser(client).List(context.Background(), 1, "", models.ListFilter{})
	if !errors.Is(err, parser.ErrMalformed) {
		t.Fatalf("err = %v, want ErrMalformed", err)
	}
}

func TestDetails(t *testing.T) {
	client := newFakeClient()
	client.bodies[testAPI+"/series"] = `{"data":[` + seriesJSON + `]}`
	client.bodies[testAPI+"/series/solo-leveling"] = `{"data":` + seriesJSON + `}`
	client.bodies[testAPI+"/series/solo-leveling/chapters"] = `{"data":[
		{"data":{"index":3,"title":"Three"},"createdAt":"2024-03-03T00:00:00.000Z"},
		{"data":{"index":2.5},"createdAt":"","updatedAt":"2024-03-02T00:00:00.000Z"},
		{"data":{"index":1},"createdAt":"garbage"},
		{"data":{"index":1},"createdAt":"2024-01-01T00:00:00.000Z"}]}`
	p := newTestParser(client)

	listed, err := p.List(context.Background(), 1, "", models.ListFilter{})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	m, err := p.Details(context.Background(), listed[0])
	if err != nil {
		t.Fatalf("Details: %v", err)
	}

	if m.Description != "Hunters and gates." {
		t.Errorf("description = %q", m.Description)
	}
	summary := m
	summary.Description, summary.Chapters = "", nil
	if !reflect.DeepEqual(summary, listed[0]) {
		t.Errorf("shared fields differ:\n details %+v\n list    %+v", summary, listed[0])
	}

	if len(m.Chapters) != 3 {
		t.Fatalf("chapters = %d, want 3 (duplicate index dropped)", len(m.Chapters))
	}
	wantNums := []float32{1, 2.5, 3}
	wantURLs := []string{
		"/series/solo-leveling/chapters/1.0",
		"/series/solo-leveling/chapters/2.5",
		"/series/solo-leveling/chapters/3.0",
	}
	for i, c := range m.Chapters {
		if c.Number != wantNums[i] || c.URL != wantURLs[i] {
			t.Errorf("chapter %d = %v %s", i, c.Number, c.URL)
		}
	}
	// The first index-1 entry seen in oldest-first order wins.
	if m.Chapters[0].UploadDate != 1704067200000 {
		t.Errorf("chapter 1 date = %d", m.Chapters[0].UploadDate)
	}
	if m.Chapters[1].UploadDate != 1709337600000 {
		t.Errorf("updatedAt fallback = %d", m.Chapters[1].UploadDate)
	}
	if m.Chapters[2].Title != "Three" || m.Chapters[1].Title != "" {
		t.Errorf("titles = %q, %q", m.Chapters[2].Title, m.Chapters[1].Title)
	}
}

func TestDetailsChapterFetchFails(t *testing.T) {
	client := newFakeClient()
	client.bodies[testAPI+"/series/x"] = `{"data":{"data":{"slug":"x","title":"X"}}}`
	boom := errors.New("boom")
	client.errs[testAPI+"/series/x/chapters"] = boom

	_, err := newTestParser(client).Details(context.Background(), models.Manga{URL: "/series/x"})
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want wrapped boom", err)
	}
	if len(client.calls) != 2 {
		t.Errorf("calls = %v", client.calls)
	}
}

func TestDetailsMalformedChapter(t *testing.T) {
	client := newFakeClient()
	client.bodies[testAPI+"/series/x"] = `{"data":{"data":{"slug":"x","title":"X"}}}`
	client.bodies[testAPI+"/series/x/chapters"] = `{"data":[{"data":{"title":"no index"}}]}`

	_, err := newTestParser(client).Details(context.Background(), models.Manga{URL: "/series/x"})
	if !errors.Is(err, parser.ErrMalformed) {
		t.Fatalf("err = %v, want ErrMalformed", err)
	}
}
