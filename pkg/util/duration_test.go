package util

import (
	"testing"
	"time"
)

func TestParseROSDuration(t *testing.T) {
	tests := []struct {
		in   string
		want time.Duration
	}{
		{"", 0},
		{"0s", 0},
		{"5s", 5 * time.Second},
		{"4m5s", 4*time.Minute + 5*time.Second},
		{"3h4m5s", 3*time.Hour + 4*time.Minute + 5*time.Second},
		{"2d3h", 51 * time.Hour},
		{"4w2d", 30 * 24 * time.Hour},
		{"1w2d3h4m5s", 788645 * time.Second},
		{"500ms", 500 * time.Millisecond},
		{"10s500ms", 10*time.Second + 500*time.Millisecond},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseROSDuration(tt.in)
			if err != nil {
				t.Fatalf("ParseROSDuration(%q) error: %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("ParseROSDuration(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseROSDuration_Invalid(t *testing.T) {
	for _, in := range []string{"w", "5x", "five", "5s3"} {
		t.Run(in, func(t *testing.T) {
			if _, err := ParseROSDuration(in); err == nil {
				t.Errorf("ParseROSDuration(%q) = nil error, want error", in)
			}
		})
	}
}

func TestROSDurationSeconds(t *testing.T) {
	got, err := ROSDurationSeconds("1m30s")
	if err != nil {
		t.Fatalf("ROSDurationSeconds error: %v", err)
	}
	if got != 90 {
		t.Errorf("ROSDurationSeconds(1m30s) = %d, want 90", got)
	}
}
