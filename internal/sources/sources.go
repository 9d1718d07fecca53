// Package sources assembles the registry of source plugins the binaries serve.
package sources

import (
	"log"

	"mangaparsers/internal/parser"
	"mangaparsers/internal/parser/komikcast"
	"mangaparsers/internal/webclient"
	"mangaparsers/pkg/utils"
)

type Config struct {
	HTTP      utils.HTTPConfig
	Komikcast utils.KomikcastConfig
}

func LoadConfig() Config {
	return Config{
		HTTP:      utils.LoadHTTPConfig(),
		Komikcast: utils.LoadKomikcastConfig(),
	}
}

// NewRegistry builds every plugin with its own web client.
func NewRegistry(cfg Config) *parser.Registry {
	opts := webclient.OptionsFromConfig(cfg.HTTP)

	kc := webclient.New(opts)
	komik := komikcast.New(kc, komikcast.Config{
		Domain: cfg.Komikcast.Domain,
		APIURL: cfg.Komikcast.APIURL,
		NSFW:   cfg.Komikcast.NSFW,
	})
	kc.Use(komik)

	reg := parser.NewRegistry(komik)
	log.Printf("[sources] registered %v", reg.Names())
	return reg
}
