package utils

import "testing"

func TestParseDateSafe(t *testing.T) {
	const layout = "2006-01-02T15:04:05.000Z07:00"
	tests := []struct {
		in   string
		want int64
	}{
		{"2024-03-01T10:20:30.123Z", 1709288430123},
		{"2024-03-01T17:20:30.123+07:00", 1709288430123},
		{"", 0},
		{"   ", 0},
		{"yesterday", 0},
	}
	for _, tt := range tests {
		if got := ParseDateSafe(layout, tt.in); got != tt.want {
			t.Errorf("ParseDateSafe(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}
