package komikcast

import (
	"io"
	"net/http"
	"strings"
	"testing"
)

func TestInterceptAPIHostForcesHeaders(t *testing.T) {
	p := New(nil, Config{})
	req, _ := http.NewRequest(http.MethodPost, "https://be.komikcast.fit/series?page=1", strings.NewReader("payload"))
	req.Header.Set("Referer", "https://elsewhere.example/")
	req.Header.Set("Accept", "text/html")

	out := p.Intercept(req)

	want := map[string]string{
		"Referer":         "https://v1.komikcast.fit/",
		"Origin":          "https://v1.komikcast.fit",
		"Accept":          "application/json",
		"Accept-Language": "en-US,en;q=0.9,id;q=0.8",
	}
	for k, v := range want {
		if got := out.Header.Get(k); got != v {
			t.Errorf("%s = %q, want %q", k, got, v)
		}
	}
	if out.Method != http.MethodPost {
		t.Errorf("method changed to %s", out.Method)
	}
	body, _ := io.ReadAll(out.Body)
	if string(body) != "payload" {
		t.Errorf("body changed to %q", body)
	}
	if req.Header.Get("Accept") != "text/html" {
		t.Error("original request was mutated")
	}
}

func TestInterceptAddsMissingReferer(t *testing.T) {
	p := New(nil, Config{})
	req, _ := http.NewRequest(http.MethodGet, "https://cdn.example/img/1.jpg", nil)

	out := p.Intercept(req)
	if got := out.Header.Get("Referer"); got != "https://v1.komikcast.fit/" {
		t.Fatalf("Referer = %q", got)
	}
	if out.Header.Get("Origin") != "" {
		t.Error("Origin should only be forced for the API host")
	}
}

func TestInterceptKeepsExistingReferer(t *testing.T) {
	p := New(nil, Config{})
	req, _ := http.NewRequest(http.MethodGet, "https://cdn.example/img/1.jpg", nil)
	req.Header.Set("Referer", "https://reader.example/")

	if out := p.Intercept(req); out != req {
		t.Fatal("request with a Referer should pass through untouched")
	}
}

func TestRequestHeaders(t *testing.T) {
	h := New(nil, Config{Domain: "komikcast.test"}).RequestHeaders()
	if h.Get("Referer") != "https://komikcast.test/" || h.Get("Origin") != "https://komikcast.test" {
		t.Fatalf("headers = %v", h)
	}
}
