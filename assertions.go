package fmvalue

import (
	"fmt"
	"testing"
)

// AssertionConfig contains tolerances for pipeline invariants.
type AssertionConfig struct {
	// Absolute tolerance for floor and ceiling comparisons
	AbsTol float64

	// Relative tolerance for series equality
	RelTol float64
}

// DefaultAssertionConfig returns conservative tolerances.
func DefaultAssertionConfig() AssertionConfig {
	return AssertionConfig{
		AbsTol: 1e-9,
		RelTol: 1e-12,
	}
}

// AssertCapexFloor verifies the CAPEX trajectory never drops below the
// configured floor.
//
// Mathematical property:
//
//	capex(t) ≥ floor for all t, with or without inertia smoothing
func AssertCapexFloor(t *testing.T, years []int, capex []float64, floor float64, cfg AssertionConfig) {
	t.Helper()

	var failures []string
	for i, c := range capex {
		if c < floor-cfg.AbsTol {
			failures = append(failures, fmt.Sprintf(
				"  %d: capex=%.2f below floor=%.2f", years[i], c, floor))
		}
	}

	if len(failures) > 0 {
		t.Errorf("CAPEX floor violated:\n%s", failures)
		return
	}

	t.Logf("✓ CAPEX floor held: trajectory ≥ %.0f over %d years", floor, len(years))
}

// AssertBuildCeiling verifies annual additions never exceed the industrial
// build-rate cap, regardless of how aggressive the growth parameters are.
//
// Mathematical property:
//
//	additions(t) ≤ maxRate for all t
func AssertBuildCeiling(t *testing.T, years []int, additions []float64, maxRate float64, cfg AssertionConfig) {
	t.Helper()

	var failures []string
	for i, a := range additions {
		if a > maxRate+cfg.AbsTol {
			failures = append(failures, fmt.Sprintf(
				"  %d: additions=%.4f exceed cap=%.4f", years[i], a, maxRate))
		}
	}

	if len(failures) > 0 {
		t.Errorf("Build ceiling violated:\n%s", failures)
		return
	}

	t.Logf("✓ Build ceiling held: additions ≤ %.1f/yr over %d years", maxRate, len(years))
}

// AssertCFWithinBounds verifies every capacity-factor value stays inside
// the physical band after all uplifts and clamps.
//
// Mathematical property:
//
//	CFMin ≤ cf(t) ≤ CFMax for all t
func AssertCFWithinBounds(t *testing.T, years []int, cf []float64) {
	t.Helper()

	if err := checkCFBounds(years, cf); err != nil {
		t.Errorf("Capacity factor out of bounds: %v", err)
		return
	}

	t.Logf("✓ Capacity factor within [%.2f, %.2f] over %d years", CFMin, CFMax, len(years))
}

// AssertWithinBand verifies a trajectory lies inside a quantile envelope at
// every grid year. Used to check that the deterministic central run falls
// inside the Monte Carlo band.
func AssertWithinBand(t *testing.T, years []int, series []float64, band Band, cfg AssertionConfig) {
	t.Helper()

	var failures []string
	for i, v := range series {
		if v < band.Lower[i]-cfg.AbsTol || v > band.Upper[i]+cfg.AbsTol {
			failures = append(failures, fmt.Sprintf(
				"  %d: value=%.4f outside [%.4f, %.4f]",
				years[i], v, band.Lower[i], band.Upper[i]))
		}
	}

	if len(failures) > 0 {
		t.Errorf("Trajectory escapes quantile band:\n%s", failures)
		return
	}

	t.Logf("✓ Trajectory inside band at all %d years", len(years))
}

// AssertSeriesEqual verifies two trajectories match within relative
// tolerance. Reproducibility checks pass RelTol = 0 to demand bit-for-bit
// agreement.
func AssertSeriesEqual(t *testing.T, name string, got, want []float64, cfg AssertionConfig) {
	t.Helper()

	if len(got) != len(want) {
		t.Fatalf("%s: length mismatch: got %d, want %d", name, len(got), len(want))
	}

	var failures []string
	for i := range want {
		diff := got[i] - want[i]
		if diff < 0 {
			diff = -diff
		}
		scale := want[i]
		if scale < 0 {
			scale = -scale
		}
		if scale < 1 {
			scale = 1
		}
		if diff > cfg.RelTol*scale {
			failures = append(failures, fmt.Sprintf(
				"  [%d]: got %.12g, want %.12g (diff %.3g)", i, got[i], want[i], diff))
		}
	}

	if len(failures) > 0 {
		t.Errorf("%s diverged:\n%s", name, failures)
		return
	}

	t.Logf("✓ %s agrees over %d points", name, len(want))
}

// AssertResultsIdentical verifies two pipeline runs produced bit-identical
// trajectories and metrics. Reproducibility is a hard requirement: the same
// config and seed must always yield the same output.
func AssertResultsIdentical(t *testing.T, a, b *Result) {
	t.Helper()

	exact := AssertionConfig{AbsTol: 0, RelTol: 0}

	for _, s := range []struct {
		name     string
		got, exp []float64
	}{
		{"baseline N", b.Baseline.N, a.Baseline.N},
		{"baseline CAPEX", b.Baseline.CapexUSD, a.Baseline.CapexUSD},
		{"baseline LCOE", b.Baseline.LCOE, a.Baseline.LCOE},
		{"with-FM N", b.WithFM.N, a.WithFM.N},
		{"with-FM CAPEX", b.WithFM.CapexUSD, a.WithFM.CapexUSD},
		{"with-FM LCOE", b.WithFM.LCOE, a.WithFM.LCOE},
	} {
		AssertSeriesEqual(t, s.name, s.got, s.exp, exact)
	}

	if a.Metrics != b.Metrics {
		t.Errorf("Metrics diverged:\n  first:  %+v\n  second: %+v", a.Metrics, b.Metrics)
	}
}

// AssertScenarioInvariants runs every per-scenario invariant with default
// tolerances.
func AssertScenarioInvariants(t *testing.T, years []int, s Scenario, cfg Config) {
	t.Helper()

	ac := DefaultAssertionConfig()

	t.Run("CapexFloor", func(t *testing.T) {
		AssertCapexFloor(t, years, s.CapexUSD, cfg.Learning.CapexFloorUSD, ac)
	})

	t.Run("BuildCeiling", func(t *testing.T) {
		AssertBuildCeiling(t, years, s.Additions, cfg.Adoption.MaxBuildRatePerYear, ac)
	})

	t.Run("CFBounds", func(t *testing.T) {
		AssertCFWithinBounds(t, years, s.CF)
	})
}
