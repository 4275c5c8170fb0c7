package fmvalue

import (
	"math"
	"testing"
)

// TestElectricityDemandTWh verifies the exponential projection: 2%/yr
// roughly doubles demand in 35 years.
func TestElectricityDemandTWh(t *testing.T) {
	cfg := DefaultDemandConfig()
	years := []int{2030, 2065}

	demand := ElectricityDemandTWh(years, cfg)

	if demand[0] != cfg.BaseDemandTWh {
		t.Errorf("base-year demand = %g, want %g", demand[0], cfg.BaseDemandTWh)
	}
	ratio := demand[1] / demand[0]
	if math.Abs(ratio-math.Exp(0.02*35)) > 1e-12 {
		t.Errorf("35-year growth ratio = %g, want %g", ratio, math.Exp(0.02*35))
	}
}

// TestFusionMarketShare_CompetitiveGate verifies the S-curve starts only
// once fusion undercuts the competitor and never exceeds the share cap.
func TestFusionMarketShare_CompetitiveGate(t *testing.T) {
	cfg := DefaultDemandConfig()
	years := gridYears(2030, 2070)

	// LCOE declines $2/yr from $100, crossing the $60 competitor in 2051.
	lcoe := make([]float64, len(years))
	firstCompetitive := 0
	for i, y := range years {
		lcoe[i] = 100 - 2*float64(y-2030)
		if firstCompetitive == 0 && lcoe[i] < cfg.CompetitorLCOE {
			firstCompetitive = y
		}
	}

	share, err := FusionMarketShare(years, lcoe, cfg)
	if err != nil {
		t.Fatalf("FusionMarketShare failed: %v", err)
	}

	for i, y := range years {
		if y < firstCompetitive && share[i] != 0 {
			t.Errorf("year %d: share %g before competitiveness", y, share[i])
		}
		if share[i] > cfg.MaxShare {
			t.Errorf("year %d: share %g exceeds cap %g", y, share[i], cfg.MaxShare)
		}
	}

	last := len(years) - 1
	if share[last] <= 0 {
		t.Error("share never rose after fusion became competitive")
	}
}

// TestFusionMarketShare_NeverCompetitive verifies zero share everywhere
// when fusion never undercuts the competitor.
func TestFusionMarketShare_NeverCompetitive(t *testing.T) {
	cfg := DefaultDemandConfig()
	years := gridYears(2030, 2070)

	lcoe := make([]float64, len(years))
	for i := range lcoe {
		lcoe[i] = 150
	}

	share, err := FusionMarketShare(years, lcoe, cfg)
	if err != nil {
		t.Fatalf("FusionMarketShare failed: %v", err)
	}
	for i, s := range share {
		if s != 0 {
			t.Errorf("year %d: share %g for uncompetitive fusion", years[i], s)
		}
	}
}

// TestReactorBuildoutFromDemand_HandComputed checks the fleet-sizing
// arithmetic: 8.76 TWh at CF 0.8 needs 1.25 nameplate GW.
func TestReactorBuildoutFromDemand_HandComputed(t *testing.T) {
	cfg := DefaultDemandConfig()

	n, err := ReactorBuildoutFromDemand([]float64{87.6}, []float64{0.1}, cfg)
	if err != nil {
		t.Fatalf("ReactorBuildoutFromDemand failed: %v", err)
	}
	if math.Abs(n[0]-1.25) > 1e-12 {
		t.Errorf("reactors = %g, want 1.25", n[0])
	}
}

// TestAnnualAdditionsWithReplacement verifies end-of-life replacement
// demand re-enters the build schedule.
func TestAnnualAdditionsWithReplacement(t *testing.T) {
	cfg := DefaultDemandConfig()
	cfg.ReplaceAfterYears = 2

	adds := AnnualAdditionsWithReplacement([]float64{1, 2, 3, 4}, cfg)

	want := []float64{1, 1, 2, 2}
	AssertSeriesEqual(t, "additions", adds, want, AssertionConfig{})
}

// TestAnnualAdditionsWithReplacement_NoNegativeBuilds verifies a shrinking
// target fleet never produces negative additions.
func TestAnnualAdditionsWithReplacement_NoNegativeBuilds(t *testing.T) {
	cfg := DefaultDemandConfig()

	adds := AnnualAdditionsWithReplacement([]float64{5, 3, 4}, cfg)

	want := []float64{5, 0, 1}
	AssertSeriesEqual(t, "additions", adds, want, AssertionConfig{})
}

// TestDemandDrivenN_CrossCheck runs the full demand chain on a central
// pipeline result and verifies it produces a coherent fleet trajectory.
func TestDemandDrivenN_CrossCheck(t *testing.T) {
	res, err := RunDeterministic(DefaultConfig())
	if err != nil {
		t.Fatalf("RunDeterministic failed: %v", err)
	}

	n, err := DemandDrivenN(res.Years, res.WithFM.LCOE, DefaultDemandConfig())
	if err != nil {
		t.Fatalf("DemandDrivenN failed: %v", err)
	}

	if len(n) != len(res.Years) {
		t.Fatalf("trajectory length %d, want %d", len(n), len(res.Years))
	}
	for i := 1; i < len(n); i++ {
		if n[i] < 0 {
			t.Errorf("year %d: negative fleet %g", res.Years[i], n[i])
		}
	}

	t.Logf("✓ Demand-driven cross-check: %.0f reactors at horizon", n[len(n)-1])
}
