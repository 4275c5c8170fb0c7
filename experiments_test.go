package fmvalue

import (
	"errors"
	"math"
	"testing"
)

// TestExpectedShots_GeometricExpectation verifies E[shots] = gate/p.
func TestExpectedShots_GeometricExpectation(t *testing.T) {
	shots, err := ExpectedShots(10, 0.5)
	if err != nil {
		t.Fatalf("ExpectedShots failed: %v", err)
	}
	if shots != 20 {
		t.Errorf("ExpectedShots(10, 0.5) = %g, want 20", shots)
	}
}

// TestExpectedShots_InvalidProb verifies probability bounds.
func TestExpectedShots_InvalidProb(t *testing.T) {
	for _, p := range []float64{0, -0.1, 1.1} {
		if _, err := ExpectedShots(10, p); err == nil {
			t.Errorf("ExpectedShots(10, %g) accepted invalid probability", p)
		}
	}

	_, err := ExpectedShots(0.5, 0.5)
	var cerr *ConfigError
	if !errors.As(err, &cerr) {
		t.Errorf("expected ConfigError for shots < 1, got %v", err)
	}
}

// TestTimeToGateDays_SingleCampaign verifies no gap is added when all
// shots fit into one campaign.
func TestTimeToGateDays_SingleCampaign(t *testing.T) {
	// 10/0.5 = 20 shots at 2/day = 10 days, inside one 90-day campaign.
	days, err := TimeToGateDays(10, 0.5, 2, 90, 60)
	if err != nil {
		t.Fatalf("TimeToGateDays failed: %v", err)
	}
	if days != 10 {
		t.Errorf("days = %g, want 10 (no campaign gap)", days)
	}
}

// TestTimeToGateDays_CampaignGaps verifies gap accounting across campaigns.
func TestTimeToGateDays_CampaignGaps(t *testing.T) {
	// 200/0.4 = 500 shots at 2/day = 250 days = 3 campaigns of 90 days,
	// so 2 gaps of 60 days each.
	days, err := TimeToGateDays(200, 0.4, 2, 90, 60)
	if err != nil {
		t.Fatalf("TimeToGateDays failed: %v", err)
	}
	want := 250.0 + 2*60
	if math.Abs(days-want) > 1e-12 {
		t.Errorf("days = %g, want %g", days, want)
	}

	t.Logf("✓ Campaign gaps accounted: %.0f days total", days)
}

// TestFMAdjustedExperiments_Levers verifies the shots floor and the
// success-probability cap.
func TestFMAdjustedExperiments_Levers(t *testing.T) {
	cfg := DefaultConfig().Experiments

	shots, prob := FMAdjustedExperiments(cfg, FMExperiments{
		ShotsReductionPct: 0.25,
		SuccessProbUplift: 0.10,
	})
	if shots != 150 {
		t.Errorf("adjusted shots = %g, want 150", shots)
	}
	if prob != 0.5 {
		t.Errorf("adjusted prob = %g, want 0.5", prob)
	}

	// Extreme levers hit the floor and the cap.
	shots, prob = FMAdjustedExperiments(cfg, FMExperiments{
		ShotsReductionPct: 0.999,
		SuccessProbUplift: 10,
	})
	if shots != 1 {
		t.Errorf("shots floor broken: %g", shots)
	}
	if prob != 0.99 {
		t.Errorf("probability cap broken: %g", prob)
	}
}

// TestDesignTimeReduction_Monotonic verifies better experiments always
// shorten the gate and the reduction respects the configured clamp.
func TestDesignTimeReduction_Monotonic(t *testing.T) {
	cfg := DefaultConfig().Experiments

	red, err := DesignTimeReduction(cfg, FMExperiments{
		ShotsReductionPct: 0.25,
		SuccessProbUplift: 0.10,
	})
	if err != nil {
		t.Fatalf("DesignTimeReduction failed: %v", err)
	}

	// Base: 500 shots -> 250 days + 2 gaps = 370. FM: 300 shots -> 150
	// days + 1 gap = 210. Reduction = 160/370.
	want := 160.0 / 370
	if math.Abs(red-want) > 1e-12 {
		t.Errorf("reduction = %.9f, want %.9f", red, want)
	}
	if red <= 0 || red > cfg.MaxDesignReduction {
		t.Errorf("reduction %g outside (0, %g]", red, cfg.MaxDesignReduction)
	}

	// No levers, no reduction.
	zero, err := DesignTimeReduction(cfg, FMExperiments{})
	if err != nil {
		t.Fatalf("DesignTimeReduction failed: %v", err)
	}
	if zero != 0 {
		t.Errorf("reduction without levers = %g, want 0", zero)
	}

	t.Logf("✓ Experiments channel reduction: %.1f%%", red*100)
}

// TestDesignTimeReduction_Clamp verifies the clamp binds under extreme levers.
func TestDesignTimeReduction_Clamp(t *testing.T) {
	cfg := DefaultConfig().Experiments
	cfg.MaxDesignReduction = 0.30

	red, err := DesignTimeReduction(cfg, FMExperiments{
		ShotsReductionPct: 0.9,
		SuccessProbUplift: 0.5,
	})
	if err != nil {
		t.Fatalf("DesignTimeReduction failed: %v", err)
	}
	if red != 0.30 {
		t.Errorf("clamped reduction = %g, want 0.30", red)
	}
}
