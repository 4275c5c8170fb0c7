package fmvalue

import "math"

// HoursPerYear converts capacity to annual energy: MWh = 8760 * CF * MW.
const HoursPerYear = 8760

// CRF computes the capital recovery factor, which annualizes a capital
// cost given a discount rate and asset life:
//
//	CRF = w*(1+w)^n / ((1+w)^n - 1)
//
// A zero rate degenerates to straight-line recovery 1/n.
func CRF(wacc float64, lifeYears int) (float64, error) {
	if lifeYears <= 0 {
		return 0, configErrorf("finance.life_years", "must be positive, got %d", lifeYears)
	}
	if wacc <= -1 {
		return 0, configErrorf("finance.wacc_real", "must exceed -1, got %g", wacc)
	}
	if wacc == 0 {
		return 1 / float64(lifeYears), nil
	}
	pow := math.Pow(1+wacc, float64(lifeYears))
	return wacc * pow / (pow - 1), nil
}

// LCOESeries computes the levelized cost of electricity per grid year:
//
//	LCOE(t) = (CRF*CAPEX(t) + FOM(t)) / (8760*CF(t)*MW(t)) + VOM(t)
//
// All input series must come from the same pipeline run; mixing
// trajectories across runs breaks the causal consistency of the result.
// Zero or negative CF or net power at any year is a DomainError: the
// energy denominator is undefined there.
func LCOESeries(years []int, capex, cf, fom, vom, netMW []float64, crf float64) ([]float64, error) {
	for _, s := range [][]float64{capex, cf, fom, vom, netMW} {
		if len(s) != len(years) {
			return nil, domainErrorf("lcoe", 0, "series length %d does not match grid length %d", len(s), len(years))
		}
	}

	lcoe := make([]float64, len(years))
	for i, y := range years {
		if cf[i] <= 0 {
			return nil, domainErrorf("lcoe", y, "capacity factor %g, division undefined", cf[i])
		}
		if netMW[i] <= 0 {
			return nil, domainErrorf("lcoe", y, "net power %g MW, division undefined", netMW[i])
		}
		energyMWh := HoursPerYear * cf[i] * netMW[i]
		lcoe[i] = (crf*capex[i]+fom[i])/energyMWh + vom[i]
	}
	return lcoe, nil
}
