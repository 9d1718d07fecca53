package parser

import (
	"encoding/json"
	"testing"
)

func TestOptString(t *testing.T) {
	var doc struct {
		Missing OptString `json:"missing"`
		Null    OptString `json:"null"`
		Empty   OptString `json:"empty"`
		Text    OptString `json:"text"`
		Number  OptString `json:"number"`
		Bool    OptString `json:"bool"`
	}
	raw := `{"null":null,"empty":"","text":"Oda","number":12.5,"bool":true}`
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	for name, s := range map[string]OptString{"missing": doc.Missing, "null": doc.Null, "empty": doc.Empty} {
		if s.Valid {
			t.Errorf("%s: expected invalid, got %q", name, s.Value)
		}
	}
	if !doc.Text.Valid || doc.Text.Value != "Oda" {
		t.Errorf("text = %+v", doc.Text)
	}
	if doc.Number.Value != "12.5" {
		t.Errorf("number = %+v", doc.Number)
	}
	if doc.Bool.Value != "true" {
		t.Errorf("bool = %+v", doc.Bool)
	}
	if got := doc.Missing.Or("fallback"); got != "fallback" {
		t.Errorf("Or = %q", got)
	}
}
