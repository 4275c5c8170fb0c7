package fmvalue

import (
	"errors"
	"math"
)

// Scenario holds the full set of trajectories for one FM setting (baseline
// or with-FM). Every series has exactly one value per grid year; the series
// are immutable once produced and must never be mixed with another run's.
type Scenario struct {
	N         []float64 `json:"n"`
	Additions []float64 `json:"additions"`
	CapexUSD  []float64 `json:"capex_usd"`
	CF        []float64 `json:"cf"`
	NetMW     []float64 `json:"net_mw"`
	FOMUSD    []float64 `json:"fom_usd"`
	VOMPerMWh []float64 `json:"vom_per_mwh"`
	LCOE      []float64 `json:"lcoe_per_mwh"`
}

// Metrics are the scalar summaries derived from one pipeline run.
type Metrics struct {
	// TotalCapexUSD is the with-FM program capital: per-unit CAPEX priced
	// at each build year, summed over all deployed units.
	TotalCapexUSD float64 `json:"total_capex_usd"`
	// TotalSavingsUSD is the levelized-cost saving of the FM fleet: the
	// per-MWh LCOE gap priced over the FM fleet's generated energy,
	// accumulated over the horizon.
	TotalSavingsUSD float64 `json:"total_savings_usd"`
	// LCOEAtHorizon is the with-FM LCOE in the final grid year ($/MWh).
	LCOEAtHorizon float64 `json:"lcoe_at_horizon"`
	// ParityYear is the first year the with-FM LCOE reaches the baseline
	// LCOE or the configured absolute target. Zero means never reached.
	ParityYear int `json:"parity_year"`
	// TotalPowerGW is the deployed fusion power at the horizon:
	// N(horizon) * per-unit net power.
	TotalPowerGW float64 `json:"total_power_gw"`
	// DeltaCODYears is how many years earlier the FM scenario reaches
	// commercial operation.
	DeltaCODYears float64 `json:"delta_cod_years"`
}

// Result is one full pipeline evaluation under one sampled parameter set.
// Immutable once produced.
type Result struct {
	Years    []int    `json:"years"`
	Baseline Scenario `json:"baseline"`
	WithFM   Scenario `json:"with_fm"`
	Metrics  Metrics  `json:"metrics"`
}

// Run executes the full causal chain for one parameter draw:
//
//	experiments -> schedule -> adoption -> {CAPEX, ops/power} -> LCOE -> metrics
//
// It evaluates the baseline and with-FM scenarios from the same draw, so
// every metric isolates the FM effect. Run is a pure function of its
// inputs: the configuration is never mutated, no state survives between
// invocations, and the same config with the same sampler seed reproduces
// bit-identical output. That referential transparency is what lets the
// Monte Carlo driver parallelize trials freely.
//
// A DomainError from any stage means the sampled parameter combination is
// physically nonsensical; the Monte Carlo driver records it as a failed
// trial. Retrying without a new draw is pointless: every computation here
// is deterministic given its inputs.
func Run(cfg Config, s Sampler) (*Result, error) {
	drawn := ApplyPriors(cfg, s)

	// Priors can push parameters outside their documented ranges. That is
	// a property of the draw, not the document, so it surfaces as a failed
	// trial rather than a fatal configuration error.
	if err := drawn.Validate(); err != nil {
		var cerr *ConfigError
		if errors.As(err, &cerr) {
			return nil, domainErrorf("priors", 0, "sampled value out of range: %s: %s", cerr.Field, cerr.Reason)
		}
		return nil, err
	}

	fm := drawn.FMEffects

	// Experiments channel: faster gating shortens the design phase. The
	// directly configured simulation-channel reduction and the
	// experiments-derived one target the same physical quantity, so only
	// the larger applies, never both.
	expReduction, err := DesignTimeReduction(drawn.Experiments, fm.Experiments)
	if err != nil {
		return nil, err
	}
	designReduction := math.Max(expReduction, fm.Simulation.DesignTimeReductionPct)
	designReduction = math.Min(designReduction, drawn.Experiments.MaxDesignReduction)

	// Schedule: one risk draw, two scenarios.
	risk := DrawScheduleRisk(drawn.Schedule, s)
	monthsBase := FOAKMonths(drawn.Schedule, risk, 0, 0)
	monthsFM := FOAKMonths(drawn.Schedule, risk, designReduction, fm.Simulation.ReworkProbReductionPct)
	deltaCOD := (monthsBase - monthsFM) / 12

	start := drawn.Meta.StartYear
	codBase := CODYear(start, monthsBase)
	codFM := CODYear(start, monthsFM)

	years := drawn.Years()

	// Sharing channel levers, gated by mode.
	sharing, kMult := 1.0, 1.0
	bDelta := 0.0
	if fm.Sharing.Mode == "b" {
		bDelta = fm.Sharing.DeltaBExponent
	} else if fm.Sharing.KMultiplier > 0 {
		sharing = fm.Sharing.KMultiplier
		kMult = fm.Sharing.KMultiplier
	}

	depBase := AdoptionSeries(years, codBase, 0, 1, 1, drawn.Adoption)
	depFM := AdoptionSeries(years, codFM, deltaCOD, sharing, kMult, drawn.Adoption)

	base, err := buildScenario(years, drawn, depBase, codBase, scenarioLevers{})
	if err != nil {
		return nil, err
	}
	withFM, err := buildScenario(years, drawn, depFM, codFM, scenarioLevers{
		bDelta:       bDelta,
		gDelta:       fm.Simulation.DeltaGPerYear,
		cfUplift:     fm.Control.CFUpliftAbs,
		powerBoost:   fm.Control.PowerLearningBoost,
		fomReduction: fm.Control.FOMReductionPct,
		vomReduction: fm.Control.VOMReductionPct,
	})
	if err != nil {
		return nil, err
	}

	m := summarize(years, drawn, base, withFM)
	m.DeltaCODYears = deltaCOD

	return &Result{
		Years:    years,
		Baseline: base,
		WithFM:   withFM,
		Metrics:  m,
	}, nil
}

// RunDeterministic evaluates the pipeline with every prior at its central
// value. The Monte Carlo driver reports this run separately so quantile
// bands can be centered on it.
func RunDeterministic(cfg Config) (*Result, error) {
	return Run(cfg, DeterministicSampler{})
}

// scenarioLevers carries the FM adjustments for one scenario. The zero
// value is the baseline: no lever active.
type scenarioLevers struct {
	bDelta       float64
	gDelta       float64
	cfUplift     float64
	powerBoost   float64
	fomReduction float64
	vomReduction float64
}

func buildScenario(years []int, cfg Config, dep Deployment, cod float64, lv scenarioLevers) (Scenario, error) {
	capex, err := CapexTwoFactor(years, dep.N, cfg.Learning, lv.bDelta, lv.gDelta)
	if err != nil {
		return Scenario{}, err
	}
	if err := checkCapexMonotone(years, capex, cfg.Learning.GExogenous+lv.gDelta, cfg.Learning.InertiaYears); err != nil {
		return Scenario{}, err
	}

	cf := CFSeries(years, cod, cfg.Learning.T0, cfg.Ops, lv.cfUplift)
	if err := checkCFBounds(years, cf); err != nil {
		return Scenario{}, err
	}

	netMW := PowerSeries(years, cfg.Learning.T0, cfg.Meta.PowerNetMW, cfg.Ops, lv.powerBoost)
	fom, vom := OMSeries(years, cfg.Learning.T0, cfg.Ops, lv.fomReduction, lv.vomReduction)

	crf, err := CRF(cfg.Finance.WACCReal, cfg.Finance.LifeYears)
	if err != nil {
		return Scenario{}, err
	}
	lcoe, err := LCOESeries(years, capex, cf, fom, vom, netMW, crf)
	if err != nil {
		return Scenario{}, err
	}

	return Scenario{
		N:         dep.N,
		Additions: dep.Additions,
		CapexUSD:  capex,
		CF:        cf,
		NetMW:     netMW,
		FOMUSD:    fom,
		VOMPerMWh: vom,
		LCOE:      lcoe,
	}, nil
}

func summarize(years []int, cfg Config, base, withFM Scenario) Metrics {
	last := len(years) - 1

	m := Metrics{
		LCOEAtHorizon: withFM.LCOE[last],
		TotalPowerGW:  withFM.N[last] * withFM.NetMW[last] / 1000,
	}

	target := cfg.Meta.LCOETargetPerMWh
	prevN := withFM.N[0]
	for i := range years {
		// Program capital: units added this year priced at this year's CAPEX.
		added := withFM.N[i] - prevN
		if i == 0 {
			added = 0
		}
		prevN = withFM.N[i]
		m.TotalCapexUSD += added * withFM.CapexUSD[i]

		// Levelized saving over the FM fleet's energy.
		energyMWh := HoursPerYear * withFM.CF[i] * withFM.NetMW[i] * withFM.N[i]
		m.TotalSavingsUSD += (base.LCOE[i] - withFM.LCOE[i]) * energyMWh

		if m.ParityYear == 0 {
			// With an absolute target configured, parity means reaching
			// it; otherwise it means catching the same-year baseline.
			reached := withFM.LCOE[i] <= base.LCOE[i]
			if target > 0 {
				reached = withFM.LCOE[i] <= target
			}
			if reached {
				m.ParityYear = years[i]
			}
		}
	}

	return m
}
