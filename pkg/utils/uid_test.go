package utils

import "testing"

func TestGenerateUIDStable(t *testing.T) {
	a := GenerateUID("KOMIKCAST", "/series/abc")
	b := GenerateUID("KOMIKCAST", "/series/abc")
	if a != b {
		t.Fatalf("same input produced %s and %s", a, b)
	}
}

func TestGenerateUIDDistinct(t *testing.T) {
	base := GenerateUID("KOMIKCAST", "/series/abc")
	if got := GenerateUID("KOMIKCAST", "/series/abd"); got == base {
		t.Fatalf("different urls collided: %s", got)
	}
	if got := GenerateUID("OTHER", "/series/abc"); got == base {
		t.Fatalf("different sources collided: %s", got)
	}
}
