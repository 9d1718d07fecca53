package utils

import (
	"github.com/google/uuid"

	"mangaparsers/pkg/models"
)

// GenerateUID derives a stable identifier for a URL (or any string) scoped to
// a source. The same source and input always produce the same UUID.
func GenerateUID(source models.Source, s string) uuid.UUID {
	ns := uuid.NewSHA1(uuid.NameSpaceURL, []byte("mangaparsers:"+string(source)))
	return uuid.NewSHA1(ns, []byte(s))
}
