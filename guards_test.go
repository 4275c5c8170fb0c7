package fmvalue

import (
	"errors"
	"testing"
)

// TestCheckNoDoubleCount verifies the one-lever rule on the sharing channel.
func TestCheckNoDoubleCount(t *testing.T) {
	cases := []struct {
		name    string
		share   FMSharing
		wantErr bool
	}{
		{"k mode with multiplier", FMSharing{Mode: "k", KMultiplier: 1.25}, false},
		{"default mode with multiplier", FMSharing{KMultiplier: 1.25}, false},
		{"b mode with delta", FMSharing{Mode: "b", DeltaBExponent: 0.05}, false},
		{"b mode with neutral multiplier", FMSharing{Mode: "b", KMultiplier: 1, DeltaBExponent: 0.05}, false},
		{"k mode with b delta", FMSharing{Mode: "k", KMultiplier: 1.25, DeltaBExponent: 0.05}, true},
		{"b mode with active multiplier", FMSharing{Mode: "b", KMultiplier: 1.25}, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := checkNoDoubleCount(tc.share)
			if tc.wantErr && err == nil {
				t.Error("double-counting configuration accepted")
			}
			if !tc.wantErr && err != nil {
				t.Errorf("valid configuration rejected: %v", err)
			}
			if tc.wantErr {
				var cerr *ConfigError
				if !errors.As(err, &cerr) {
					t.Errorf("expected ConfigError, got %T", err)
				}
			}
		})
	}
}

// TestCheckCapexMonotone verifies the guard fires on a rising series and
// stays silent when drift or inertia legitimately allow rises.
func TestCheckCapexMonotone(t *testing.T) {
	years := []int{2030, 2031, 2032}

	rising := []float64{10e9, 9e9, 9.5e9}
	if err := checkCapexMonotone(years, rising, 0, 0); err == nil {
		t.Error("rising CAPEX with g=0 not detected")
	}

	// Exogenous drift or inertia disable the check.
	if err := checkCapexMonotone(years, rising, 0.01, 0); err != nil {
		t.Errorf("guard fired despite nonzero g: %v", err)
	}
	if err := checkCapexMonotone(years, rising, 0, 5); err != nil {
		t.Errorf("guard fired despite inertia: %v", err)
	}

	falling := []float64{10e9, 9e9, 8.5e9}
	if err := checkCapexMonotone(years, falling, 0, 0); err != nil {
		t.Errorf("monotone series rejected: %v", err)
	}
}

// TestCheckCFBounds verifies out-of-band values carry the failing year.
func TestCheckCFBounds(t *testing.T) {
	years := []int{2030, 2031}

	if err := checkCFBounds(years, []float64{0.5, 0.95}); err != nil {
		t.Errorf("in-band CF rejected: %v", err)
	}

	err := checkCFBounds(years, []float64{0.5, 0.96})
	var derr *DomainError
	if !errors.As(err, &derr) {
		t.Fatalf("expected DomainError, got %v", err)
	}
	if derr.Year != 2031 {
		t.Errorf("failure year = %d, want 2031", derr.Year)
	}
}
