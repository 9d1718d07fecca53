package grpcserver

import (
	"context"
	"net"
	"path/filepath"
	"testing"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"

	"mangaparsers/internal/manga"
	"mangaparsers/internal/parser"
	"mangaparsers/internal/parser/parsertest"
	"mangaparsers/internal/scraper"
	"mangaparsers/pkg/database"
	"mangaparsers/pkg/models"
)

func startServer(t *testing.T) (*Client, *parsertest.Fake, models.Manga) {
	t.Helper()

	db, err := database.Open(database.Config{Path: filepath.Join(t.TempDir(), "data.db")})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := database.Migrate(db); err != nil {
		t.Fatalf("Migrate: %v", err)
	}

	f := parsertest.New()
	a := parsertest.Manga("/series/a", "A")
	d := a
	d.Description = "about A"
	d.Chapters = []models.Chapter{parsertest.Chapter(a.URL, 1)}
	f.ListPages = [][]models.Manga{{a}}
	f.DetailsByURL[a.URL] = d
	f.PagesByURL[d.Chapters[0].URL] = []models.Page{{URL: "https://img.test/1.jpg"}}
	if err := scraper.SaveToDatabase(context.Background(), db, []models.Manga{d}); err != nil {
		t.Fatalf("seed: %v", err)
	}

	lis := bufconn.Listen(1 << 20)
	srv := grpc.NewServer()
	svc := NewServer(manga.NewRepo(db), parser.NewRegistry(f))
	RegisterCatalogService(srv, svc)
	RegisterSourceService(srv, svc)
	go func() { _ = srv.Serve(lis) }()
	t.Cleanup(srv.Stop)

	conn, err := Dial("passthrough:///bufnet", grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
		return lis.DialContext(ctx)
	}))
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return NewClient(conn), f, d
}

func TestSourceService(t *testing.T) {
	c, _, d := startServer(t)
	ctx := context.Background()

	src, err := c.Sources(ctx, &SourcesRequest{})
	if err != nil || len(src.Items) != 1 || src.Items[0].Name != parsertest.Source {
		t.Fatalf("Sources = %+v, %v", src, err)
	}

	list, err := c.List(ctx, &ListRequest{Source: "fake", Order: "popularity", Tags: []string{"action"}})
	if err != nil || len(list.Items) != 1 || list.Items[0].ID != d.ID {
		t.Fatalf("List = %+v, %v", list, err)
	}

	det, err := c.Details(ctx, &DetailsRequest{Source: "fake", URL: d.URL})
	if err != nil || det.Manga.Description != "about A" || len(det.Manga.Chapters) != 1 {
		t.Fatalf("Details = %+v, %v", det, err)
	}

	pages, err := c.Pages(ctx, &PagesRequest{Source: "fake", URL: d.Chapters[0].URL})
	if err != nil || len(pages.Pages) != 1 {
		t.Fatalf("Pages = %+v, %v", pages, err)
	}

	opts, err := c.FilterOptions(ctx, &FilterOptionsRequest{Source: "fake"})
	if err != nil || len(opts.Options.Tags) != 1 || opts.Source.PageSize != 2 {
		t.Fatalf("FilterOptions = %+v, %v", opts, err)
	}
}

func TestSourceServiceErrors(t *testing.T) {
	c, _, _ := startServer(t)
	ctx := context.Background()

	tests := []struct {
		name string
		call func() error
		want codes.Code
	}{
		{"unknown source", func() error { _, err := c.List(ctx, &ListRequest{Source: "nope"}); return err }, codes.NotFound},
		{"missing source", func() error { _, err := c.List(ctx, &ListRequest{}); return err }, codes.InvalidArgument},
		{"bad order", func() error { _, err := c.List(ctx, &ListRequest{Source: "fake", Order: "x"}); return err }, codes.InvalidArgument},
		{"bad page", func() error { _, err := c.List(ctx, &ListRequest{Source: "fake", Page: -1}); return err }, codes.InvalidArgument},
		{"missing url", func() error { _, err := c.Pages(ctx, &PagesRequest{Source: "fake"}); return err }, codes.InvalidArgument},
		{"bad chapter url", func() error {
			_, err := c.Pages(ctx, &PagesRequest{Source: "fake", URL: "/series/a"})
			return err
		}, codes.InvalidArgument},
		{"malformed", func() error {
			_, err := c.Details(ctx, &DetailsRequest{Source: "fake", URL: "/series/zzz"})
			return err
		}, codes.Unavailable},
	}
	for _, tt := range tests {
		if got := status.Code(tt.call()); got != tt.want {
			t.Errorf("%s: code = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestCatalogService(t *testing.T) {
	c, _, d := startServer(t)
	ctx := context.Background()

	list, err := c.ListManga(ctx, &ListMangaRequest{Q: "a"})
	if err != nil || list.Total != 1 || list.Items[0].ID != d.ID.String() {
		t.Fatalf("ListManga = %+v, %v", list, err)
	}

	got, err := c.GetManga(ctx, &GetMangaRequest{ID: d.ID.String()})
	if err != nil || got.Manga.Description != "about A" || len(got.Manga.Chapters) != 1 {
		t.Fatalf("GetManga = %+v, %v", got, err)
	}

	if _, err := c.GetManga(ctx, &GetMangaRequest{ID: "missing"}); status.Code(err) != codes.NotFound {
		t.Errorf("missing id: %v", err)
	}
	if _, err := c.GetManga(ctx, &GetMangaRequest{}); status.Code(err) != codes.InvalidArgument {
		t.Errorf("empty id: %v", err)
	}
}
