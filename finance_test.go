package fmvalue

import (
	"errors"
	"math"
	"testing"
)

// TestCRF_KnownValue verifies the capital recovery factor against the
// textbook value for 8% over 30 years.
func TestCRF_KnownValue(t *testing.T) {
	crf, err := CRF(0.08, 30)
	if err != nil {
		t.Fatalf("CRF failed: %v", err)
	}

	want := 0.08882743338727227
	if math.Abs(crf-want) > 1e-9 {
		t.Errorf("CRF(0.08, 30) = %.12f, want %.12f", crf, want)
	}

	t.Logf("✓ CRF(8%%, 30yr) = %.9f", crf)
}

// TestCRF_ZeroRate verifies the straight-line degenerate case.
func TestCRF_ZeroRate(t *testing.T) {
	crf, err := CRF(0, 30)
	if err != nil {
		t.Fatalf("CRF failed: %v", err)
	}
	if crf != 1.0/30 {
		t.Errorf("CRF(0, 30) = %.9f, want exactly 1/30", crf)
	}
}

// TestCRF_InvalidInputs verifies bound checks raise ConfigError.
func TestCRF_InvalidInputs(t *testing.T) {
	cases := []struct {
		name string
		wacc float64
		life int
	}{
		{"zero life", 0.08, 0},
		{"negative life", 0.08, -5},
		{"rate at -1", -1, 30},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := CRF(tc.wacc, tc.life)
			var cerr *ConfigError
			if !errors.As(err, &cerr) {
				t.Errorf("expected ConfigError, got %v", err)
			}
		})
	}
}

// TestLCOESeries_HandComputed checks one grid year against a hand-worked
// example: $5B CAPEX, CRF 0.1, $100M FOM, CF 0.9, 1000 MW, $2/MWh VOM.
func TestLCOESeries_HandComputed(t *testing.T) {
	years := []int{2040}
	lcoe, err := LCOESeries(years,
		[]float64{5e9},  // capex
		[]float64{0.9},  // cf
		[]float64{1e8},  // fom
		[]float64{2},    // vom
		[]float64{1000}, // net MW
		0.1,             // crf
	)
	if err != nil {
		t.Fatalf("LCOESeries failed: %v", err)
	}

	// (0.1*5e9 + 1e8) / (8760*0.9*1000) + 2 = 600e6/7.884e6 + 2
	want := 78.10350076103501
	if math.Abs(lcoe[0]-want) > 1e-9 {
		t.Errorf("LCOE = %.9f, want %.9f", lcoe[0], want)
	}

	t.Logf("✓ Hand-computed LCOE matches: %.4f $/MWh", lcoe[0])
}

// TestLCOESeries_UndefinedDenominator verifies zero CF and zero power are
// DomainErrors carrying the failing year.
func TestLCOESeries_UndefinedDenominator(t *testing.T) {
	years := []int{2040, 2041}
	capex := []float64{5e9, 5e9}
	fom := []float64{1e8, 1e8}
	vom := []float64{2, 2}

	t.Run("zero CF", func(t *testing.T) {
		_, err := LCOESeries(years, capex, []float64{0.9, 0}, fom, vom, []float64{1000, 1000}, 0.1)
		var derr *DomainError
		if !errors.As(err, &derr) {
			t.Fatalf("expected DomainError, got %v", err)
		}
		if derr.Year != 2041 {
			t.Errorf("failure year = %d, want 2041", derr.Year)
		}
	})

	t.Run("zero power", func(t *testing.T) {
		_, err := LCOESeries(years, capex, []float64{0.9, 0.9}, fom, vom, []float64{1000, 0}, 0.1)
		var derr *DomainError
		if !errors.As(err, &derr) {
			t.Fatalf("expected DomainError, got %v", err)
		}
	})

	t.Run("length mismatch", func(t *testing.T) {
		_, err := LCOESeries(years, capex[:1], []float64{0.9, 0.9}, fom, vom, []float64{1000, 1000}, 0.1)
		var derr *DomainError
		if !errors.As(err, &derr) {
			t.Fatalf("expected DomainError, got %v", err)
		}
	})
}
