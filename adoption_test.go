package fmvalue

import (
	"testing"
)

func gridYears(from, to int) []int {
	years := make([]int, 0, to-from+1)
	for y := from; y <= to; y++ {
		years = append(years, y)
	}
	return years
}

// TestCeilingRampN_BuildCap verifies the industrial cap binds no matter how
// aggressive the growth parameter is.
func TestCeilingRampN_BuildCap(t *testing.T) {
	cfg := DefaultConfig().Adoption
	cfg.CeilingGrowth = 1.50 // extreme compounding
	years := gridYears(2025, 2070)

	dep := CeilingRampN(years, 2032, cfg, 1)

	AssertBuildCeiling(t, years, dep.Additions, cfg.MaxBuildRatePerYear, DefaultAssertionConfig())
}

// TestCeilingRampN_PreCOD verifies N holds at N0 before commercial
// operation and never decreases after.
func TestCeilingRampN_PreCOD(t *testing.T) {
	cfg := DefaultConfig().Adoption
	years := gridYears(2025, 2070)
	cod := 2033.5

	dep := CeilingRampN(years, cod, cfg, 1)

	for i, y := range years {
		if float64(y) < cod {
			if dep.N[i] != cfg.N0 {
				t.Errorf("year %d before COD: N = %g, want N0 = %g", y, dep.N[i], cfg.N0)
			}
			if dep.Additions[i] != 0 {
				t.Errorf("year %d before COD: additions = %g, want 0", y, dep.Additions[i])
			}
		}
		if i > 0 && dep.N[i] < dep.N[i-1] {
			t.Errorf("year %d: N decreased from %g to %g", y, dep.N[i-1], dep.N[i])
		}
	}
}

// TestCeilingRampN_SharingLever verifies the sharing multiplier strictly
// increases cumulative deployment.
func TestCeilingRampN_SharingLever(t *testing.T) {
	cfg := DefaultConfig().Adoption
	years := gridYears(2025, 2070)

	base := CeilingRampN(years, 2032, cfg, 1)
	shared := CeilingRampN(years, 2032, cfg, 1.25)

	last := len(years) - 1
	if !(shared.N[last] > base.N[last]) {
		t.Errorf("sharing lever inert: %g <= %g", shared.N[last], base.N[last])
	}

	t.Logf("✓ Sharing lever: N(horizon) %g -> %g", base.N[last], shared.N[last])
}

// TestCeilingRampN_EarlierCOD verifies an earlier COD strictly increases
// the fleet at every post-COD year.
func TestCeilingRampN_EarlierCOD(t *testing.T) {
	cfg := DefaultConfig().Adoption
	years := gridYears(2025, 2070)

	late := CeilingRampN(years, 2035, cfg, 1)
	early := CeilingRampN(years, 2033, cfg, 1)

	last := len(years) - 1
	if !(early.N[last] > late.N[last]) {
		t.Errorf("earlier COD did not grow the fleet: %g <= %g", early.N[last], late.N[last])
	}
}

// TestLogisticN_CapAndSaturation verifies the per-year cap binds through
// the steep mid-section and N never exceeds NMax.
func TestLogisticN_CapAndSaturation(t *testing.T) {
	cfg := DefaultConfig().Adoption
	cfg.Model = ModelLogistic
	cfg.NMax = 300
	cfg.KBase = 0.8 // steep enough for raw increments to exceed the cap
	years := gridYears(2025, 2070)

	dep := LogisticN(years, 2045, cfg.KBase, cfg)

	AssertBuildCeiling(t, years, dep.Additions, cfg.MaxBuildRatePerYear, DefaultAssertionConfig())
	for i, v := range dep.N {
		if v > cfg.NMax {
			t.Errorf("year %d: N = %g exceeds NMax = %g", years[i], v, cfg.NMax)
		}
	}
}

// TestBottomUpN_Total verifies the uniform build-out reaches exactly the
// configured total and respects the cap.
func TestBottomUpN_Total(t *testing.T) {
	cfg := DefaultConfig().Adoption
	cfg.BottomUpTotalUnits = 100
	cfg.BottomUpBuildYears = 20
	years := gridYears(2025, 2070)

	dep := BottomUpN(years, 2032, cfg)

	last := len(years) - 1
	want := float64(cfg.BottomUpTotalUnits) + cfg.N0
	if dep.N[last] != want {
		t.Errorf("final N = %g, want %g", dep.N[last], want)
	}
	AssertBuildCeiling(t, years, dep.Additions, cfg.MaxBuildRatePerYear, DefaultAssertionConfig())
}

// TestAdoptionSeries_Dispatch verifies model selection and lever routing.
func TestAdoptionSeries_Dispatch(t *testing.T) {
	years := gridYears(2025, 2070)

	t.Run("ceiling default", func(t *testing.T) {
		cfg := DefaultConfig().Adoption
		got := AdoptionSeries(years, 2032, 0, 1, 1, cfg)
		want := CeilingRampN(years, 2032, cfg, 1)
		AssertSeriesEqual(t, "ceiling N", got.N, want.N, AssertionConfig{})
	})

	t.Run("logistic uses kMult and deltaCOD", func(t *testing.T) {
		cfg := DefaultConfig().Adoption
		cfg.Model = ModelLogistic
		got := AdoptionSeries(years, 2032, 2, 1, 1.25, cfg)
		want := LogisticN(years, cfg.TMidBase-2, cfg.KBase*1.25, cfg)
		AssertSeriesEqual(t, "logistic N", got.N, want.N, AssertionConfig{})
	})

	t.Run("bottom-up uses COD", func(t *testing.T) {
		cfg := DefaultConfig().Adoption
		cfg.Model = ModelBottomUp
		cfg.BottomUpTotalUnits = 50
		cfg.BottomUpBuildYears = 10
		got := AdoptionSeries(years, 2034, 0, 1, 1, cfg)
		want := BottomUpN(years, 2034, cfg)
		AssertSeriesEqual(t, "bottom-up N", got.N, want.N, AssertionConfig{})
	})
}
