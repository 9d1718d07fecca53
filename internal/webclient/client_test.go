package webclient_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"mangaparsers/internal/parser/komikcast"
	"mangaparsers/internal/webclient"
	"mangaparsers/pkg/models"
)

func testOptions() webclient.Options {
	return webclient.Options{
		Timeout:       5 * time.Second,
		RetryCount:    2,
		RetryWaitTime: 5 * time.Millisecond,
		RetryMaxWait:  20 * time.Millisecond,
		UserAgent:     "mangaparsers-test",
	}
}

func TestClientDrivesKomikcast(t *testing.T) {
	var got http.Header
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		if r.URL.Path != "/series" || r.URL.Query().Get("page") != "2" {
			t.Errorf("unexpected request %s", r.URL)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":[{"data":{"slug":"a","title":"A"}}]}`))
	}))
	defer srv.Close()

	wc := webclient.New(testOptions())
	p := komikcast.New(wc, komikcast.Config{Domain: "komikcast.test", APIURL: srv.URL})
	wc.Use(p)

	list, err := p.List(context.Background(), 2, models.SortPopularity, models.ListFilter{})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 1 || list[0].Title != "A" {
		t.Fatalf("list = %+v", list)
	}

	want := map[string]string{
		"Referer":         "https://komikcast.test/",
		"Origin":          "https://komikcast.test",
		"Accept":          "application/json",
		"Accept-Language": "en-US,en;q=0.9,id;q=0.8",
		"User-Agent":      "mangaparsers-test",
	}
	for k, v := range want {
		if got.Get(k) != v {
			t.Errorf("%s = %q, want %q", k, got.Get(k), v)
		}
	}
}

func TestGetJSONStatusError(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		http.NotFound(w, r)
	}))
	defer srv.Close()

	var out map[string]any
	err := webclient.New(testOptions()).GetJSON(context.Background(), srv.URL+"/missing", &out)
	if !errors.Is(err, webclient.ErrStatus) {
		t.Fatalf("err = %v, want ErrStatus", err)
	}
	if code, ok := webclient.StatusCode(err); !ok || code != http.StatusNotFound {
		t.Fatalf("status = %d, %v", code, ok)
	}
	if hits.Load() != 1 {
		t.Errorf("404 was retried %d times", hits.Load()-1)
	}
}

func TestGetJSONRetriesTooManyRequests(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits.Add(1) == 1 {
			w.Header().Set("Retry-After", "0")
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	var out struct {
		OK bool `json:"ok"`
	}
	if err := webclient.New(testOptions()).GetJSON(context.Background(), srv.URL, &out); err != nil {
		t.Fatalf("GetJSON: %v", err)
	}
	if !out.OK || hits.Load() != 2 {
		t.Fatalf("ok=%v hits=%d", out.OK, hits.Load())
	}
}

func TestGetJSONDecodeError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`not json`))
	}))
	defer srv.Close()

	var out map[string]any
	if err := webclient.New(testOptions()).GetJSON(context.Background(), srv.URL, &out); err == nil {
		t.Fatal("expected decode error")
	}
}
