package main

import (
	"encoding/json"
	"flag"
	"log"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// Replays a tree written by export-mirror as a KomikCast-compatible API.
// Point MANGAPARSERS_KOMIKCAST_API at it to crawl offline.
func main() {
	var (
		dir  = flag.String("dir", "data/mirror", "mirror directory")
		addr = flag.String("addr", ":9000", "listen address")
	)
	flag.Parse()

	http.HandleFunc("/series", func(w http.ResponseWriter, r *http.Request) {
		// the whole list is page 1
		if p := r.URL.Query().Get("page"); p != "" && p != "1" {
			writeRaw(w, []byte(`{"data":[]}`))
			return
		}
		serveFile(w, filepath.Join(*dir, "series.json"))
	})
	http.HandleFunc("/series/", func(w http.ResponseWriter, r *http.Request) {
		rel := strings.Trim(path.Clean(r.URL.Path), "/")
		serveFile(w, filepath.Join(*dir, filepath.FromSlash(rel)+".json"))
	})

	log.Printf("mirror-server serving %s on %s", *dir, *addr)
	log.Fatal(http.ListenAndServe(*addr, nil))
}

func serveFile(w http.ResponseWriter, p string) {
	b, err := os.ReadFile(p)
	if err != nil {
		if os.IsNotExist(err) {
			http.Error(w, `{"error":"not found"}`, http.StatusNotFound)
			return
		}
		http.Error(w, "cannot read "+p+": "+err.Error(), http.StatusInternalServerError)
		return
	}
	// validate JSON so a bad file doesn't silently break
	var tmp any
	if err := json.Unmarshal(b, &tmp); err != nil {
		http.Error(w, p+" invalid JSON: "+err.Error(), http.StatusInternalServerError)
		return
	}
	writeRaw(w, b)
}

func writeRaw(w http.ResponseWriter, b []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(b)
}
