package fmvalue

import "math"

// ScheduleRisk holds the stochastic multipliers drawn once per trial:
// design rework, the EPC tail, and the reference-class uplift. Baseline and
// FM scenarios of the same trial reuse one ScheduleRisk so the computed
// schedule delta isolates the FM effect rather than sampling noise.
type ScheduleRisk struct {
	// ReworkDraw is the Bernoulli indicator (or its expectation in the
	// deterministic run) before the FM rework-probability reduction.
	ReworkDraw float64
	// EPCTail is the indicator for the EPC rework tail event.
	EPCTail float64
	// Uplift is the reference-class overrun multiplier, lognormal with
	// mean 1+UpliftMu.
	Uplift float64
}

// DrawScheduleRisk samples the per-trial schedule risk. The uplift uses a
// mean-preserving lognormal parameterization:
//
//	uplift ~ exp(N(ln(1+mu) - sigma^2/2, sigma))
//
// so the central run (sampler returns the mean) lands exactly on 1+mu.
func DrawScheduleRisk(cfg ScheduleConfig, s Sampler) ScheduleRisk {
	return ScheduleRisk{
		ReworkDraw: s.Bernoulli(cfg.ReworkProb),
		EPCTail:    s.Bernoulli(cfg.EPCReworkTailProb),
		Uplift: s.Lognormal(
			math.Log(1+cfg.UpliftMu)-0.5*cfg.UpliftSigma*cfg.UpliftSigma,
			cfg.UpliftSigma,
		),
	}
}

// FOAKMonths computes the total first-of-a-kind project duration:
//
//	total = (design*(1-designReduction) + epc + commissioning) * uplift * rework
//
// designReduction is the experiments-derived design-phase reduction (zero
// for the baseline scenario). reworkProbReduction scales the rework
// probability down for the FM scenario; the shared ReworkDraw indicator is
// rescaled by (1-reduction) so both scenarios see the same underlying draw.
// The returned duration anchors the commercial operation date.
func FOAKMonths(cfg ScheduleConfig, risk ScheduleRisk, designReduction, reworkProbReduction float64) float64 {
	design := cfg.DesignMonths * (1 - designReduction)

	epc := cfg.EPCMonths
	if risk.EPCTail > 0 {
		epc *= 1 + risk.EPCTail*cfg.EPCReworkTailFactor
	}

	months := design + epc + cfg.CommissionMonths

	rework := 1 + risk.ReworkDraw*(1-reworkProbReduction)*cfg.ReworkFactor
	return months * risk.Uplift * rework
}

// CODYear converts a project duration in months into the commercial
// operation date on the yearly grid, measured from the grid start year.
func CODYear(startYear int, months float64) float64 {
	return float64(startYear) + months/12
}
