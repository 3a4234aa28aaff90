package valueobject

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestMatchingConfig_ShouldAutoConfirm(t *testing.T) {
	cfg := DefaultMatchingConfig()

	tests := []struct {
		confidence int
		want       bool
	}{
		{100, true},
		{90, true},
		{89, false},
		{85, false},
		{0, false},
	}

	for _, tt := range tests {
		if got := cfg.ShouldAutoConfirm(tt.confidence); got != tt.want {
			t.Errorf("ShouldAutoConfirm(%d) = %v, want %v", tt.confidence, got, tt.want)
		}
	}
}

func TestMatchingConfig_HasDrift(t *testing.T) {
	cfg := DefaultMatchingConfig()

	tests := []struct {
		name      string
		stored    string
		canonical string
		want      bool
	}{
		{"equal", "45000", "45000", false},
		{"within tolerance", "100.005", "100", false},
		{"exactly tolerance", "100.01", "100", false},
		{"beyond tolerance", "100.02", "100", true},
		{"stale stored balance", "100", "0", true},
		{"stored below canonical", "0", "100", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := cfg.HasDrift(decimal.RequireFromString(tt.stored), decimal.RequireFromString(tt.canonical))
			if got != tt.want {
				t.Errorf("HasDrift(%s, %s) = %v, want %v", tt.stored, tt.canonical, got, tt.want)
			}
		})
	}
}
