package fmvalue

import "math"

// CapexTwoFactor evaluates the two-factor experience curve over the grid.
// Cost declines jointly with cumulative volume (learning-by-doing) and
// elapsed time (exogenous technology progress):
//
//	raw(t)   = capex0 * (N(t)/N0)^(-b) * exp(-g*(t-t0))
//	capex(t) = max(floor, raw(t))
//
// The floor is an absolute economic/physical lower bound; it holds before
// and after inertia smoothing. bDelta and gDelta are the FM adjustments to
// the exponents (zero for the baseline scenario).
//
// When cfg.InertiaYears > 0, capex(t) is an exponentially weighted blend of
// capex(t-1) and the floored raw value with time constant InertiaYears,
// modeling slow industrial response to rapid volume changes:
//
//	alpha    = 1 - exp(-1/inertiaYears)
//	capex(t) = max(floor, alpha*rawFloored(t) + (1-alpha)*capex(t-1))
//
// At t = t0 with N(t) = N0, raw(t) equals capex0 exactly. Cumulative counts
// below N0 clamp to N0: the power term must not push cost above FOAK before
// the first unit exists. N(t) <= 0 is a DomainError; the power term is
// undefined there.
func CapexTwoFactor(years []int, n []float64, cfg LearningConfig, bDelta, gDelta float64) ([]float64, error) {
	if len(n) != len(years) {
		return nil, domainErrorf("capex", 0, "N series length %d does not match grid length %d", len(n), len(years))
	}

	b := cfg.BExponent + bDelta
	g := cfg.GExogenous + gDelta

	var alpha float64
	if cfg.InertiaYears > 0 {
		alpha = 1 - math.Exp(-1/cfg.InertiaYears)
	}

	capex := make([]float64, len(years))
	for i, y := range years {
		if n[i] <= 0 {
			return nil, domainErrorf("capex", y, "cumulative units N = %g, power term undefined", n[i])
		}

		nEff := math.Max(n[i], cfg.N0)
		raw := cfg.Capex0USD *
			math.Pow(nEff/cfg.N0, -b) *
			math.Exp(-g*float64(y-cfg.T0))
		if raw < cfg.CapexFloorUSD {
			raw = cfg.CapexFloorUSD
		}

		v := raw
		if alpha > 0 && i > 0 {
			v = alpha*raw + (1-alpha)*capex[i-1]
			if v < cfg.CapexFloorUSD {
				v = cfg.CapexFloorUSD
			}
		}
		capex[i] = v
	}

	return capex, nil
}

// LearningRate converts the experience exponent b into the familiar
// per-doubling cost reduction: rate = 1 - 2^(-b). A b of 0.25 means each
// doubling of cumulative volume cuts cost by about 16%.
func LearningRate(b float64) float64 {
	return 1 - math.Pow(2, -b)
}
