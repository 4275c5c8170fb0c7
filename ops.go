package fmvalue

import "math"

// Saturation is the bounded monotonic shape shared by the operational
// learning curves: 1 - exp(-dt/tau), approaching 1 asymptotically. tau is
// the years to ~63% of the full improvement. The exact shape is a
// calibration parameter, not a hard contract.
func Saturation(dtYears, tau float64) float64 {
	if dtYears <= 0 {
		return 0
	}
	return 1 - math.Exp(-dtYears/tau)
}

// CFSeries builds the capacity-factor trajectory: a linear commissioning
// ramp from CFBaseInitial to CFBaseMature over CommissioningRampYears
// starting at rampStart, composed with the long-horizon saturation gain,
// plus the FM control uplift:
//
//	cf(t) = clamp(ramp(t) * (1 + maxCFGain*sat(t-t0)) + cfUplift, CFMin, CFMax)
//
// cfUplift is the single FM lever for uptime (pass 0 for the baseline
// scenario). The clamp to CFMax (1.0 minus the forced-outage allowance)
// is a physical bound, so the uplift is additive but capped.
func CFSeries(years []int, rampStart float64, t0 int, cfg OpsConfig, cfUplift float64) []float64 {
	cf := make([]float64, len(years))
	for i, y := range years {
		ramp := cfg.CFBaseMature
		if cfg.CommissioningRampYears > 0 {
			dt := float64(y) - rampStart
			switch {
			case dt <= 0:
				ramp = cfg.CFBaseInitial
			case dt < cfg.CommissioningRampYears:
				frac := dt / cfg.CommissioningRampYears
				ramp = cfg.CFBaseInitial + (cfg.CFBaseMature-cfg.CFBaseInitial)*frac
			}
		}

		v := ramp*(1+cfg.MaxCFGain*Saturation(float64(y-t0), cfg.TauCFYears)) + cfUplift
		cf[i] = math.Min(math.Max(v, CFMin), CFMax)
	}
	return cf
}

// PowerSeries builds the net electrical output trajectory. Output follows
// its own learning curve, separate from the capacity factor; efficiency
// gains and uptime gains are distinct quantities:
//
//	mult(t) = exp(ln(1 + perDecade*(1+fmBoost))/10 * (t-t0)),  capped
//
// fmBoost is the separate, smaller FM lever on output learning (pass 0 for
// the baseline scenario).
func PowerSeries(years []int, t0 int, baseMW float64, cfg OpsConfig, fmBoost float64) []float64 {
	perDecade := cfg.PowerPerDecade * (1 + math.Max(0, fmBoost))
	rate := math.Log(1+perDecade) / 10

	mw := make([]float64, len(years))
	for i, y := range years {
		dt := math.Max(0, float64(y-t0))
		mult := math.Exp(rate * dt)
		if mult > cfg.PowerMultCap {
			mult = cfg.PowerMultCap
		}
		mw[i] = baseMW * mult
	}
	return mw
}

// OMSeries builds the fixed and variable O&M trajectories. Both decline
// along the shared saturation shape:
//
//	learn(t) = 1 - maxOMReduction*sat(t-t0)
//	om(t)    = base * learn(t) * (1 - reduction*(1-learn(t)))
//
// The FM reduction lever multiplies only the learned decrement (1-learn),
// never the absolute value, so FM and baseline O&M are identical at t0 and
// diverge only as learning accumulates. Pass zero reductions for the
// baseline scenario.
func OMSeries(years []int, t0 int, cfg OpsConfig, fomReduction, vomReduction float64) (fom, vom []float64) {
	fom = make([]float64, len(years))
	vom = make([]float64, len(years))
	for i, y := range years {
		learn := 1 - cfg.MaxOMReduction*Saturation(float64(y-t0), cfg.TauOMYears)
		fom[i] = cfg.FOMBasePerYear * learn * (1 - fomReduction*(1-learn))
		vom[i] = cfg.VOMBasePerMWh * learn * (1 - vomReduction*(1-learn))
	}
	return fom, vom
}
