package fmvalue

import "math"

// checkNoDoubleCount enforces the one-lever-per-channel rule on the
// sharing channel: mode "k" may only move the adoption-speed multiplier,
// mode "b" may only move the learning exponent. Activating both would
// count the same knowledge-diffusion effect twice.
func checkNoDoubleCount(share FMSharing) error {
	switch share.Mode {
	case "b":
		if share.KMultiplier != 0 && math.Abs(share.KMultiplier-1) > 1e-12 {
			return configErrorf("fm_effects.sharing.k_multiplier",
				"sharing mode \"b\" must not change the k multiplier (got %g)", share.KMultiplier)
		}
	default: // "" defaults to "k"
		if math.Abs(share.DeltaBExponent) > 1e-12 {
			return configErrorf("fm_effects.sharing.delta_b_exponent",
				"sharing mode \"k\" must not change the b exponent (got %g)", share.DeltaBExponent)
		}
	}
	return nil
}

// checkCapexMonotone verifies that CAPEX never increases year over year
// when the exogenous rate and inertia are both zero. Cumulative volume
// only grows, so a rise would mean the floor/power-term interplay broke.
func checkCapexMonotone(years []int, capex []float64, g, inertiaYears float64) error {
	if math.Abs(g) > 1e-9 || inertiaYears > 0 {
		return nil
	}
	for i := 1; i < len(capex); i++ {
		if capex[i] > capex[i-1]+1e-6 {
			return domainErrorf("capex", years[i],
				"CAPEX rose from %g to %g with g=0; N(t) or floor interplay broken",
				capex[i-1], capex[i])
		}
	}
	return nil
}

// checkCFBounds verifies every capacity-factor value stays inside the
// physical band after all uplifts and clamps.
func checkCFBounds(years []int, cf []float64) error {
	for i, v := range cf {
		if v < CFMin || v > CFMax {
			return domainErrorf("cf", years[i],
				"capacity factor %g outside [%g, %g]", v, CFMin, CFMax)
		}
	}
	return nil
}
