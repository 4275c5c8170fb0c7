package fmvalue

import "math"

// Deployment is the adoption model output over the time grid: cumulative
// deployed units N(t) and the capped annual additions that produced it.
// Both series align index-for-index with the grid years.
type Deployment struct {
	N         []float64 `json:"n"`
	Additions []float64 `json:"additions"`
}

// CeilingRampN computes cumulative deployed units under the supply-
// constrained ceiling ramp. Annual additions grow exponentially from the
// commercial operation date and are capped by the maximum build rate:
//
//	additions(t) = min(ceilingStart * growth^(t-COD), maxBuildRate)
//	N(t)         = N(t-1) + additions(t) * sharing    for t >= COD
//	N(t)         = N0                                  for t < COD
//
// The cap is a hard ceiling: additions never exceed maxBuildRate no matter
// how growth compounds. sharing (>= 1) is the single FM lever on this
// channel: knowledge sharing diffuses build capability faster. An earlier
// COD shifts the whole ramp earlier without changing its shape.
func CeilingRampN(years []int, cod float64, cfg AdoptionConfig, sharing float64) Deployment {
	n := make([]float64, len(years))
	adds := make([]float64, len(years))

	cum := cfg.N0
	for i, y := range years {
		dt := float64(y) - cod
		if dt >= 0 {
			a := cfg.CeilingStartPerYear * math.Pow(cfg.CeilingGrowth, dt)
			if a > cfg.MaxBuildRatePerYear {
				a = cfg.MaxBuildRatePerYear
			}
			adds[i] = a
			cum += a * sharing
		}
		n[i] = cum
	}

	return Deployment{N: n, Additions: adds}
}

// LogisticN computes cumulative deployed units from a logistic S-curve
// constrained by the per-year build cap:
//
//	N_raw(t) = nMax / (1 + exp(-k*(t - tMid)))
//
// Annual increments of the raw curve are clipped to maxBuildRate and
// re-integrated, so the cap binds during the steep mid-section. The FM
// sharing channel enters through k (steeper diffusion) and the schedule
// channel through tMid (earlier midpoint).
func LogisticN(years []int, tMid, k float64, cfg AdoptionConfig) Deployment {
	n := make([]float64, len(years))
	adds := make([]float64, len(years))

	prevRaw := cfg.N0
	cum := cfg.N0
	for i, y := range years {
		raw := cfg.NMax / (1 + math.Exp(-k*(float64(y)-tMid)))
		d := raw - prevRaw
		prevRaw = raw
		if d < 0 {
			d = 0
		}
		if d > cfg.MaxBuildRatePerYear {
			d = cfg.MaxBuildRatePerYear
		}
		adds[i] = d
		cum += d
		if cum > cfg.NMax {
			cum = cfg.NMax
		}
		n[i] = cum
	}

	return Deployment{N: n, Additions: adds}
}

// BottomUpN spreads a fixed unit count uniformly over a build-out window
// starting at the commercial operation date, respecting the per-year cap.
func BottomUpN(years []int, cod float64, cfg AdoptionConfig) Deployment {
	n := make([]float64, len(years))
	adds := make([]float64, len(years))

	perYear := float64(cfg.BottomUpTotalUnits) / float64(cfg.BottomUpBuildYears)
	if perYear > cfg.MaxBuildRatePerYear {
		perYear = cfg.MaxBuildRatePerYear
	}
	total := float64(cfg.BottomUpTotalUnits) + cfg.N0

	cum := cfg.N0
	for i, y := range years {
		dt := float64(y) - cod
		if dt >= 0 && dt < float64(cfg.BottomUpBuildYears) && cum < total {
			a := perYear
			if cum+a > total {
				a = total - cum
			}
			adds[i] = a
			cum += a
		}
		n[i] = cum
	}

	return Deployment{N: n, Additions: adds}
}

// AdoptionSeries dispatches to the configured adoption model. cod is the
// (possibly FM-advanced) commercial operation date; deltaCOD is how many
// years earlier than baseline it falls; sharing is the ceiling-ramp FM
// multiplier and kMult the logistic steepness multiplier; callers pass 1
// for levers that are inactive in the current scenario.
func AdoptionSeries(years []int, cod, deltaCOD, sharing, kMult float64, cfg AdoptionConfig) Deployment {
	switch cfg.Model {
	case ModelLogistic:
		return LogisticN(years, cfg.TMidBase-deltaCOD, cfg.KBase*kMult, cfg)
	case ModelBottomUp:
		return BottomUpN(years, cod, cfg)
	default:
		return CeilingRampN(years, cod, cfg, sharing)
	}
}
