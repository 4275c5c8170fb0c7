package fmvalue

import "math"

// DemandConfig parameterizes the demand-driven deployment model: global
// electricity demand growth, competitive diffusion, and fleet sizing.
type DemandConfig struct {
	BaseYear       int     `yaml:"base_year" json:"base_year"`
	BaseDemandTWh  float64 `yaml:"base_demand_twh" json:"base_demand_twh"`
	GrowthRate     float64 `yaml:"growth_rate" json:"growth_rate"` // Annual, e.g. 0.02
	CompetitorLCOE float64 `yaml:"competitor_lcoe_per_mwh" json:"competitor_lcoe_per_mwh"`
	DiffusionK     float64 `yaml:"diffusion_k" json:"diffusion_k"`
	MaxShare       float64 `yaml:"max_share" json:"max_share"`
	// YearsToMidShare is how long after first becoming competitive the
	// S-curve reaches half of MaxShare.
	YearsToMidShare   float64 `yaml:"years_to_mid_share" json:"years_to_mid_share"`
	ReactorGW         float64 `yaml:"reactor_gw" json:"reactor_gw"`
	FleetCF           float64 `yaml:"fleet_cf" json:"fleet_cf"`
	ReplaceAfterYears int     `yaml:"replace_after_years" json:"replace_after_years"`
}

// DefaultDemandConfig mirrors IEA-style baseline projections: 28,000 TWh in
// 2030 growing 2%/yr, fusion competitive below $60/MWh, capped at 15% of
// the market.
func DefaultDemandConfig() DemandConfig {
	return DemandConfig{
		BaseYear:          2030,
		BaseDemandTWh:     28000,
		GrowthRate:        0.02,
		CompetitorLCOE:    60,
		DiffusionK:        0.15,
		MaxShare:          0.15,
		YearsToMidShare:   10,
		ReactorGW:         1.0,
		FleetCF:           0.80,
		ReplaceAfterYears: 40,
	}
}

func (c DemandConfig) validate() error {
	if c.BaseDemandTWh <= 0 {
		return configErrorf("demand.base_demand_twh", "must be positive, got %g", c.BaseDemandTWh)
	}
	if c.MaxShare <= 0 || c.MaxShare > 1 {
		return configErrorf("demand.max_share", "must be in (0, 1], got %g", c.MaxShare)
	}
	if c.ReactorGW <= 0 {
		return configErrorf("demand.reactor_gw", "must be positive, got %g", c.ReactorGW)
	}
	if c.FleetCF <= 0 || c.FleetCF > 1 {
		return configErrorf("demand.fleet_cf", "must be in (0, 1], got %g", c.FleetCF)
	}
	if c.ReplaceAfterYears <= 0 {
		return configErrorf("demand.replace_after_years", "must be positive, got %d", c.ReplaceAfterYears)
	}
	return nil
}

// ElectricityDemandTWh projects global electricity demand with exponential
// growth from the base year:
//
//	D(t) = D0 * exp(g * (t - t0))
func ElectricityDemandTWh(years []int, cfg DemandConfig) []float64 {
	out := make([]float64, len(years))
	for i, y := range years {
		out[i] = cfg.BaseDemandTWh * math.Exp(cfg.GrowthRate*float64(y-cfg.BaseYear))
	}
	return out
}

// FusionMarketShare returns the S-curve market penetration given the fusion
// LCOE trajectory. The curve starts in the first year fusion undercuts the
// competitor and reaches half of MaxShare YearsToMidShare years later:
//
//	share(t) = maxShare / (1 + exp(-k * (t - tMid)))
//
// Years before competitiveness get zero share. If fusion never undercuts
// the competitor the share is zero everywhere.
func FusionMarketShare(years []int, lcoe []float64, cfg DemandConfig) ([]float64, error) {
	if len(lcoe) != len(years) {
		return nil, domainErrorf("demand", 0, "lcoe has %d values for %d years", len(lcoe), len(years))
	}

	tStart := 0
	for i, v := range lcoe {
		if v < cfg.CompetitorLCOE {
			tStart = years[i]
			break
		}
	}

	share := make([]float64, len(years))
	if tStart == 0 {
		return share, nil
	}

	tMid := float64(tStart) + cfg.YearsToMidShare
	for i, y := range years {
		if y < tStart {
			continue
		}
		share[i] = cfg.MaxShare / (1 + math.Exp(-cfg.DiffusionK*(float64(y)-tMid)))
	}
	return share, nil
}

// ReactorBuildoutFromDemand converts demand and market share into the
// cumulative reactor count required: generation target divided by the
// per-reactor annual output at the fleet capacity factor.
func ReactorBuildoutFromDemand(demandTWh, share []float64, cfg DemandConfig) ([]float64, error) {
	if len(share) != len(demandTWh) {
		return nil, domainErrorf("demand", 0, "share has %d values for %d demand years", len(share), len(demandTWh))
	}

	n := make([]float64, len(demandTWh))
	for i := range demandTWh {
		generationTWh := demandTWh[i] * share[i]
		avgGW := generationTWh * 1000 / HoursPerYear
		nameplateGW := avgGW / cfg.FleetCF
		n[i] = nameplateGW / cfg.ReactorGW
	}
	return n, nil
}

// AnnualAdditionsWithReplacement derives yearly reactor additions from a
// cumulative trajectory, adding replacement builds for units retiring after
// ReplaceAfterYears. Negative diffs are clipped to zero; a shrinking target
// fleet retires units, it does not un-build them.
func AnnualAdditionsWithReplacement(cumulative []float64, cfg DemandConfig) []float64 {
	newBuilds := make([]float64, len(cumulative))
	prev := 0.0
	for i, n := range cumulative {
		d := n - prev
		if d < 0 {
			d = 0
		}
		newBuilds[i] = d
		prev = n
	}

	out := make([]float64, len(cumulative))
	for i := range newBuilds {
		out[i] = newBuilds[i]
		if i >= cfg.ReplaceAfterYears {
			out[i] += newBuilds[i-cfg.ReplaceAfterYears]
		}
	}
	return out
}

// DemandDrivenN runs the full demand chain: project demand, derive market
// share from the LCOE trajectory, and size the fleet. It is the bottom-up
// cross-check against the supply-side adoption models.
func DemandDrivenN(years []int, lcoe []float64, cfg DemandConfig) ([]float64, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	demand := ElectricityDemandTWh(years, cfg)
	share, err := FusionMarketShare(years, lcoe, cfg)
	if err != nil {
		return nil, err
	}
	return ReactorBuildoutFromDemand(demand, share, cfg)
}
