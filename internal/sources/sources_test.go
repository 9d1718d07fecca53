package sources

import (
	"testing"

	"mangaparsers/internal/parser/komikcast"
	"mangaparsers/pkg/utils"
)

func TestNewRegistry(t *testing.T) {
	reg := NewRegistry(Config{
		HTTP:      utils.HTTPConfig{RetryCount: 0},
		Komikcast: utils.KomikcastConfig{Domain: "komikcast.test", APIURL: "https://api.komikcast.test"},
	})

	p, err := reg.Get("komikcast")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if p.Source() != komikcast.SourceName || p.Domain() != "komikcast.test" {
		t.Fatalf("parser = %s @ %s", p.Source(), p.Domain())
	}
	if len(reg.All()) != 1 {
		t.Fatalf("registered %v", reg.Names())
	}
}
