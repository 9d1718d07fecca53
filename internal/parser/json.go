package parser

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// OptString reads an optional JSON string. Absent keys, null and "" leave it
// invalid; numbers and booleans are kept in their literal text form.
type OptString struct {
	Value string
	Valid bool
}

func (s *OptString) UnmarshalJSON(b []byte) error {
	*s = OptString{}
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		return nil
	}
	switch b[0] {
	case '"':
		var v string
		if err := json.Unmarshal(b, &v); err != nil {
			return err
		}
		if v != "" {
			*s = OptString{Value: v, Valid: true}
		}
	case '{', '[':
		// objects and arrays keep their raw text
		*s = OptString{Value: string(b), Valid: true}
	default:
		if _, err := strconv.ParseFloat(string(b), 64); err == nil || string(b) == "true" || string(b) == "false" {
			*s = OptString{Value: string(b), Valid: true}
		}
	}
	return nil
}

func (s OptString) MarshalJSON() ([]byte, error) {
	if !s.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(s.Value)
}

// Or returns the value, or def when invalid.
func (s OptString) Or(def string) string {
	if !s.Valid {
		return def
	}
	return s.Value
}
