package sanitizer

import (
	"testing"

	"stayindia/pkg/config"
)

func TestTrimAndNormalize(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"empty string", "", ""},
		{"only whitespace", "   \t\n  ", ""},
		{"leading and trailing spaces", "  Cozy cottage  ", "Cozy cottage"},
		{"collapses inner whitespace", "Sea \t view\n\nvilla", "Sea view villa"},
		{"strips control characters", "Quiet\x00 flat\x07", "Quiet flat"},
		{"already clean", "Penthouse suite", "Penthouse suite"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TrimAndNormalize(tt.input); got != tt.expected {
				t.Errorf("TrimAndNormalize(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestNormalizeLocation(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"  Goa ", "goa"},
		{"New   Delhi", "new delhi"},
		{"MUMBAI", "mumbai"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := NormalizeLocation(tt.input); got != tt.expected {
			t.Errorf("NormalizeLocation(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestClampNightlyPrice(t *testing.T) {
	cfg := &config.Config{MinNightlyPrice: 100, MaxNightlyPrice: 1_000_000}

	tests := []struct {
		name     string
		price    int64
		expected int64
	}{
		{"below minimum", 10, 100},
		{"at minimum", 100, 100},
		{"in band", 5000, 5000},
		{"at maximum", 1_000_000, 1_000_000},
		{"above maximum", 2_000_000, 1_000_000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClampNightlyPrice(cfg, tt.price); got != tt.expected {
				t.Errorf("ClampNightlyPrice(%d) = %d, want %d", tt.price, got, tt.expected)
			}
		})
	}
}
