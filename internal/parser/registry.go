package parser

import (
	"fmt"
	"sort"
	"strings"

	"mangaparsers/pkg/models"
)

// Registry maps source names to parsers. It is filled once at startup and
// read concurrently afterwards.
type Registry struct {
	parsers map[models.Source]Parser
}

func NewRegistry(parsers ...Parser) *Registry {
	r := &Registry{parsers: make(map[models.Source]Parser, len(parsers))}
	for _, p := range parsers {
		r.parsers[p.Source()] = p
	}
	return r
}

// Get looks a parser up by source name, case-insensitively.
func (r *Registry) Get(name string) (Parser, error) {
	p, ok := r.parsers[models.Source(strings.ToUpper(strings.TrimSpace(name)))]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownSource, name)
	}
	return p, nil
}

func (r *Registry) Names() []models.Source {
	out := make([]models.Source, 0, len(r.parsers))
	for name := range r.parsers {
		out = append(out, name)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func (r *Registry) All() []Parser {
	names := r.Names()
	out := make([]Parser, 0, len(names))
	for _, name := range names {
		out = append(out, r.parsers[name])
	}
	return out
}
