package fmvalue

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Physical capacity-factor bounds shared by every CF computation.
// The upper bound is 1.0 minus a forced-outage allowance.
const (
	CFMin = 0.01
	CFMax = 0.95
)

// MaxCommissioningRampYears is the hard upper bound on the commissioning
// ramp length. Configurations above it are rejected before the pipeline runs.
const MaxCommissioningRampYears = 10.0

// MetaConfig carries run-wide parameters: currency label, per-unit net
// power, and the yearly time grid shared by every curve computation.
type MetaConfig struct {
	Currency    string  `yaml:"currency" json:"currency"`
	PowerNetMW  float64 `yaml:"power_net_mw" json:"power_net_mw"`
	StartYear   int     `yaml:"start_year" json:"start_year"`
	HorizonYear int     `yaml:"horizon_year" json:"horizon_year"`

	// LCOETargetPerMWh is an optional absolute parity target ($/MWh).
	// Parity is reached when FM LCOE drops to the baseline LCOE or to this
	// target, whichever comes first. Zero disables the absolute target.
	LCOETargetPerMWh float64 `yaml:"lcoe_target_per_mwh" json:"lcoe_target_per_mwh"`
}

// FinanceConfig holds discounting parameters for the capital recovery factor.
type FinanceConfig struct {
	WACCReal  float64 `yaml:"wacc_real" json:"wacc_real"`
	LifeYears int     `yaml:"life_years" json:"life_years"`
}

// OpsConfig holds operational baselines and the saturation-curve calibration.
type OpsConfig struct {
	CFBaseInitial          float64 `yaml:"cf_base_initial" json:"cf_base_initial"`
	CFBaseMature           float64 `yaml:"cf_base_mature" json:"cf_base_mature"`
	FOMBasePerYear         float64 `yaml:"fom_base_per_year" json:"fom_base_per_year"`
	VOMBasePerMWh          float64 `yaml:"vom_base_per_mwh" json:"vom_base_per_mwh"`
	CommissioningRampYears float64 `yaml:"commissioning_ramp_years" json:"commissioning_ramp_years"`

	// Saturation-curve time constants (years to ~63% of the improvement).
	// The exact saturation shape 1-exp(-t/tau) is a calibration choice.
	TauCFYears float64 `yaml:"tau_cf_years" json:"tau_cf_years"`
	TauOMYears float64 `yaml:"tau_om_years" json:"tau_om_years"`

	// Long-horizon improvement ceilings for the learned portions.
	MaxCFGain      float64 `yaml:"max_cf_gain" json:"max_cf_gain"`
	MaxOMReduction float64 `yaml:"max_om_reduction" json:"max_om_reduction"`

	// PowerPerDecade is the baseline fractional net-power improvement per
	// decade (0.10 = 10%/decade). PowerMultCap bounds the multiplier.
	PowerPerDecade float64 `yaml:"power_per_decade" json:"power_per_decade"`
	PowerMultCap   float64 `yaml:"power_mult_cap" json:"power_mult_cap"`
}

// ScheduleConfig holds first-of-a-kind project durations and risk
// distributions. Months fields are central values; priors may override them
// per Monte Carlo trial.
type ScheduleConfig struct {
	DesignMonths     float64 `yaml:"design_months" json:"design_months"`
	EPCMonths        float64 `yaml:"epc_months" json:"epc_months"`
	CommissionMonths float64 `yaml:"commission_months" json:"commission_months"`

	ReworkProb          float64 `yaml:"rework_prob" json:"rework_prob"`
	ReworkFactor        float64 `yaml:"rework_factor" json:"rework_factor"`
	EPCReworkTailProb   float64 `yaml:"epc_rework_tail_prob" json:"epc_rework_tail_prob"`
	EPCReworkTailFactor float64 `yaml:"epc_rework_tail_factor" json:"epc_rework_tail_factor"`

	// Reference-class uplift: lognormal with mean 1+UpliftMu and shape
	// UpliftSigma, capturing the systematic overrun tendency of FOAK projects.
	UpliftMu    float64 `yaml:"uplift_lognorm_mu" json:"uplift_lognorm_mu"`
	UpliftSigma float64 `yaml:"uplift_lognorm_sigma" json:"uplift_lognorm_sigma"`
}

// ExperimentsConfig describes the experimental campaign that gates the
// design phase: shots needed to clear a gate, per-shot success probability,
// and shot cadence.
type ExperimentsConfig struct {
	ShotsPerGate         float64 `yaml:"shots_per_gate" json:"shots_per_gate"`
	ShotSuccessProb      float64 `yaml:"shot_success_prob" json:"shot_success_prob"`
	ShotsPerDay          float64 `yaml:"shots_per_day" json:"shots_per_day"`
	DaysPerCampaign      int     `yaml:"days_per_campaign" json:"days_per_campaign"`
	DaysBetweenCampaigns int     `yaml:"days_between_campaigns" json:"days_between_campaigns"`

	// MaxDesignReduction clamps the experiments-derived design-time
	// reduction, preventing schedule collapse to near-zero.
	MaxDesignReduction float64 `yaml:"max_design_reduction" json:"max_design_reduction"`
}

// AdoptionModel selects the deployment trajectory shape.
type AdoptionModel string

const (
	// ModelCeiling grows annual additions exponentially from a small start,
	// capped by the maximum build rate. The default.
	ModelCeiling AdoptionModel = "ceiling"
	// ModelLogistic is a logistic S-curve with the same per-year build cap.
	ModelLogistic AdoptionModel = "logistic"
	// ModelBottomUp adds units uniformly over a fixed build-out window.
	ModelBottomUp AdoptionModel = "bottom_up"
)

// AdoptionConfig holds the supply-constrained deployment parameters.
type AdoptionConfig struct {
	Model AdoptionModel `yaml:"model" json:"model"`

	CeilingStartPerYear float64 `yaml:"ceiling_start_per_year" json:"ceiling_start_per_year"`
	// CeilingGrowth is the annual multiplier on additions (1.12 = +12%/year).
	CeilingGrowth       float64 `yaml:"ceiling_growth" json:"ceiling_growth"`
	MaxBuildRatePerYear float64 `yaml:"max_build_rate_per_year" json:"max_build_rate_per_year"`
	N0                  float64 `yaml:"n0" json:"n0"`

	// Logistic-model parameters.
	NMax     float64 `yaml:"n_max" json:"n_max"`
	TMidBase float64 `yaml:"t_mid_base" json:"t_mid_base"`
	KBase    float64 `yaml:"k_base" json:"k_base"`

	// Bottom-up parameters.
	BottomUpTotalUnits int `yaml:"bottom_up_total_units" json:"bottom_up_total_units"`
	BottomUpBuildYears int `yaml:"bottom_up_build_years" json:"bottom_up_build_years"`
}

// LearningConfig holds the two-factor experience-curve parameters.
type LearningConfig struct {
	Capex0USD     float64 `yaml:"capex0_foak_usd" json:"capex0_foak_usd"`
	CapexFloorUSD float64 `yaml:"capex_floor_usd" json:"capex_floor_usd"`
	BExponent     float64 `yaml:"b_exponent" json:"b_exponent"`
	GExogenous    float64 `yaml:"g_exogenous_per_year" json:"g_exogenous_per_year"`
	N0            float64 `yaml:"n0" json:"n0"`
	T0            int     `yaml:"t0" json:"t0"`
	InertiaYears  float64 `yaml:"inertia_years" json:"inertia_years"`
}

// FMSimulation is the simulation channel: faster design iterations and
// fewer rework loops.
type FMSimulation struct {
	DeltaGPerYear          float64 `yaml:"delta_g_per_year" json:"delta_g_per_year"`
	DesignTimeReductionPct float64 `yaml:"design_time_reduction_pct" json:"design_time_reduction_pct"`
	ReworkProbReductionPct float64 `yaml:"rework_prob_reduction_pct" json:"rework_prob_reduction_pct"`
}

// FMExperiments is the experiments channel: fewer shots per gate and higher
// per-shot success probability.
type FMExperiments struct {
	ShotsReductionPct float64 `yaml:"shots_reduction_pct" json:"shots_reduction_pct"`
	SuccessProbUplift float64 `yaml:"success_prob_uplift" json:"success_prob_uplift"`
}

// FMControl is the control channel: better real-time plant control lifts
// the capacity factor and trims O&M.
type FMControl struct {
	CFUpliftAbs     float64 `yaml:"cf_uplift_abs" json:"cf_uplift_abs"`
	FOMReductionPct float64 `yaml:"fom_reduction_pct" json:"fom_reduction_pct"`
	VOMReductionPct float64 `yaml:"vom_reduction_pct" json:"vom_reduction_pct"`

	// PowerLearningBoost is the FM lever on net-power output learning.
	// It is separate from the CF uplift: efficiency and uptime are
	// distinct physical quantities.
	PowerLearningBoost float64 `yaml:"power_learning_boost" json:"power_learning_boost"`
}

// FMSharing is the sharing channel: knowledge diffusion across builders.
// Exactly one lever may be active, selected by Mode: the adoption-speed
// multiplier ("k") or the learning-exponent delta ("b"). Using both would
// double-count the same physical effect.
type FMSharing struct {
	Mode           string  `yaml:"mode" json:"mode"` // "k" or "b"
	KMultiplier    float64 `yaml:"k_multiplier" json:"k_multiplier"`
	DeltaBExponent float64 `yaml:"delta_b_exponent" json:"delta_b_exponent"`
}

// FMEffectsConfig groups the four FM channels. Each channel owns one
// physical quantity; no two channels may alter the same quantity.
type FMEffectsConfig struct {
	Simulation  FMSimulation  `yaml:"simulation" json:"simulation"`
	Experiments FMExperiments `yaml:"experiments" json:"experiments"`
	Control     FMControl     `yaml:"control" json:"control"`
	Sharing     FMSharing     `yaml:"sharing" json:"sharing"`
}

// Config is the immutable, validated parameter bundle consumed by the
// pipeline. Validation happens once, when the bundle is built or loaded;
// every downstream computation treats it as read-only input.
type Config struct {
	Meta        MetaConfig        `yaml:"meta" json:"meta"`
	Finance     FinanceConfig     `yaml:"finance" json:"finance"`
	Ops         OpsConfig         `yaml:"ops" json:"ops"`
	Schedule    ScheduleConfig    `yaml:"schedule" json:"schedule"`
	Experiments ExperimentsConfig `yaml:"experiments" json:"experiments"`
	Adoption    AdoptionConfig    `yaml:"adoption" json:"adoption"`
	Learning    LearningConfig    `yaml:"learning" json:"learning"`
	FMEffects   FMEffectsConfig   `yaml:"fm_effects" json:"fm_effects"`

	// Priors maps dotted parameter paths to sampling distributions. Each
	// Monte Carlo trial redraws every prior independently.
	Priors map[string]Prior `yaml:"priors" json:"priors,omitempty"`
}

// DefaultConfig returns a complete configuration anchored to published
// fusion cost studies: ~$12B FOAK CAPEX trending toward a ~$2.5B floor,
// deployment from the late 2020s to a 2070 horizon.
func DefaultConfig() Config {
	return Config{
		Meta: MetaConfig{
			Currency:         "USD",
			PowerNetMW:       400,
			StartYear:        2025,
			HorizonYear:      2070,
			LCOETargetPerMWh: 50,
		},
		Finance: FinanceConfig{
			WACCReal:  0.08,
			LifeYears: 30,
		},
		Ops: OpsConfig{
			CFBaseInitial:          0.50,
			CFBaseMature:           0.85,
			FOMBasePerYear:         120e6,
			VOMBasePerMWh:          8,
			CommissioningRampYears: 5,
			TauCFYears:             50,
			TauOMYears:             30,
			MaxCFGain:              0.10,
			MaxOMReduction:         0.50,
			PowerPerDecade:         0.10,
			PowerMultCap:           2.0,
		},
		Schedule: ScheduleConfig{
			DesignMonths:        48,
			EPCMonths:           60,
			CommissionMonths:    24,
			ReworkProb:          0.35,
			ReworkFactor:        0.25,
			EPCReworkTailProb:   0.15,
			EPCReworkTailFactor: 0.20,
			UpliftMu:            0.15,
			UpliftSigma:         0.20,
		},
		Experiments: ExperimentsConfig{
			ShotsPerGate:         200,
			ShotSuccessProb:      0.40,
			ShotsPerDay:          2,
			DaysPerCampaign:      90,
			DaysBetweenCampaigns: 60,
			MaxDesignReduction:   0.50,
		},
		Adoption: AdoptionConfig{
			Model:               ModelCeiling,
			CeilingStartPerYear: 0.5,
			CeilingGrowth:       1.12,
			MaxBuildRatePerYear: 20,
			N0:                  1,
			NMax:                300,
			TMidBase:            2045,
			KBase:               0.20,
		},
		Learning: LearningConfig{
			Capex0USD:     12e9,
			CapexFloorUSD: 2.5e9,
			BExponent:     0.25,
			GExogenous:    0.01,
			N0:            1,
			T0:            2030,
			InertiaYears:  0,
		},
		FMEffects: FMEffectsConfig{
			Simulation: FMSimulation{
				DeltaGPerYear:          0.005,
				DesignTimeReductionPct: 0.20,
				ReworkProbReductionPct: 0.30,
			},
			Experiments: FMExperiments{
				ShotsReductionPct: 0.25,
				SuccessProbUplift: 0.10,
			},
			Control: FMControl{
				CFUpliftAbs:        0.03,
				FOMReductionPct:    0.15,
				VOMReductionPct:    0.15,
				PowerLearningBoost: 0.25,
			},
			Sharing: FMSharing{
				Mode:        "k",
				KMultiplier: 1.25,
			},
		},
	}
}

// LoadConfig reads a YAML configuration document, overlays it on the
// defaults, and validates it. The returned Config is the only object the
// core ever consumes; the raw document never reaches the pipeline.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("reading config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parsing config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Validate checks every parameter against its documented range. It returns
// a ConfigError naming the first violated bound. A Config that passes
// Validate is safe for the full pipeline: the numeric recurrences never
// re-check these ranges.
func (c Config) Validate() error {
	// Time grid
	if c.Meta.StartYear >= c.Meta.HorizonYear {
		return configErrorf("meta.start_year", "start year %d must precede horizon year %d",
			c.Meta.StartYear, c.Meta.HorizonYear)
	}
	if c.Meta.PowerNetMW <= 0 {
		return configErrorf("meta.power_net_mw", "must be positive, got %g", c.Meta.PowerNetMW)
	}

	// Finance
	if c.Finance.WACCReal <= -1 || c.Finance.WACCReal > 0.2 {
		return configErrorf("finance.wacc_real", "must be in (-1, 0.2], got %g", c.Finance.WACCReal)
	}
	if c.Finance.LifeYears <= 0 || c.Finance.LifeYears > 60 {
		return configErrorf("finance.life_years", "must be in [1, 60], got %d", c.Finance.LifeYears)
	}

	// Ops
	if c.Ops.CFBaseInitial < CFMin || c.Ops.CFBaseInitial > CFMax {
		return configErrorf("ops.cf_base_initial", "must be in [%g, %g], got %g", CFMin, CFMax, c.Ops.CFBaseInitial)
	}
	if c.Ops.CFBaseMature < CFMin || c.Ops.CFBaseMature > CFMax {
		return configErrorf("ops.cf_base_mature", "must be in [%g, %g], got %g", CFMin, CFMax, c.Ops.CFBaseMature)
	}
	if c.Ops.FOMBasePerYear < 0 {
		return configErrorf("ops.fom_base_per_year", "must be non-negative, got %g", c.Ops.FOMBasePerYear)
	}
	if c.Ops.VOMBasePerMWh < 0 {
		return configErrorf("ops.vom_base_per_mwh", "must be non-negative, got %g", c.Ops.VOMBasePerMWh)
	}
	if c.Ops.CommissioningRampYears < 0 || c.Ops.CommissioningRampYears > MaxCommissioningRampYears {
		return configErrorf("ops.commissioning_ramp_years", "must be in [0, %g], got %g",
			MaxCommissioningRampYears, c.Ops.CommissioningRampYears)
	}
	if c.Ops.TauCFYears <= 0 || c.Ops.TauOMYears <= 0 {
		return configErrorf("ops.tau_cf_years", "saturation time constants must be positive")
	}
	if c.Ops.MaxCFGain < 0 || c.Ops.MaxOMReduction < 0 || c.Ops.MaxOMReduction >= 1 {
		return configErrorf("ops.max_om_reduction", "max_cf_gain must be >= 0 and max_om_reduction in [0, 1)")
	}
	if c.Ops.PowerPerDecade < 0 || c.Ops.PowerMultCap < 1 {
		return configErrorf("ops.power_per_decade", "power_per_decade must be >= 0 and power_mult_cap >= 1")
	}

	// Schedule
	if c.Schedule.DesignMonths <= 0 || c.Schedule.EPCMonths <= 0 || c.Schedule.CommissionMonths <= 0 {
		return configErrorf("schedule", "phase durations must be positive")
	}
	if c.Schedule.ReworkProb < 0 || c.Schedule.ReworkProb > 1 {
		return configErrorf("schedule.rework_prob", "must be in [0, 1], got %g", c.Schedule.ReworkProb)
	}
	if c.Schedule.ReworkFactor < 0 {
		return configErrorf("schedule.rework_factor", "must be non-negative, got %g", c.Schedule.ReworkFactor)
	}
	if c.Schedule.EPCReworkTailProb < 0 || c.Schedule.EPCReworkTailProb > 1 {
		return configErrorf("schedule.epc_rework_tail_prob", "must be in [0, 1], got %g", c.Schedule.EPCReworkTailProb)
	}
	if c.Schedule.UpliftSigma < 0 {
		return configErrorf("schedule.uplift_lognorm_sigma", "must be non-negative, got %g", c.Schedule.UpliftSigma)
	}
	if c.Schedule.UpliftMu <= -1 {
		return configErrorf("schedule.uplift_lognorm_mu", "must exceed -1, got %g", c.Schedule.UpliftMu)
	}

	// Experiments
	if c.Experiments.ShotsPerGate < 1 {
		return configErrorf("experiments.shots_per_gate", "must be >= 1, got %g", c.Experiments.ShotsPerGate)
	}
	if c.Experiments.ShotSuccessProb <= 0 || c.Experiments.ShotSuccessProb > 1 {
		return configErrorf("experiments.shot_success_prob", "must be in (0, 1], got %g", c.Experiments.ShotSuccessProb)
	}
	if c.Experiments.ShotsPerDay <= 0 {
		return configErrorf("experiments.shots_per_day", "must be positive, got %g", c.Experiments.ShotsPerDay)
	}
	if c.Experiments.DaysPerCampaign <= 0 {
		return configErrorf("experiments.days_per_campaign", "must be positive, got %d", c.Experiments.DaysPerCampaign)
	}
	if c.Experiments.DaysBetweenCampaigns < 0 {
		return configErrorf("experiments.days_between_campaigns", "must be non-negative, got %d", c.Experiments.DaysBetweenCampaigns)
	}
	if c.Experiments.MaxDesignReduction < 0 || c.Experiments.MaxDesignReduction >= 1 {
		return configErrorf("experiments.max_design_reduction", "must be in [0, 1), got %g", c.Experiments.MaxDesignReduction)
	}

	// Adoption
	switch c.Adoption.Model {
	case ModelCeiling, ModelLogistic, ModelBottomUp:
	default:
		return configErrorf("adoption.model", "unknown model %q", c.Adoption.Model)
	}
	if c.Adoption.CeilingStartPerYear <= 0 {
		return configErrorf("adoption.ceiling_start_per_year", "must be positive, got %g", c.Adoption.CeilingStartPerYear)
	}
	if c.Adoption.CeilingGrowth < 1 {
		return configErrorf("adoption.ceiling_growth", "must be >= 1, got %g", c.Adoption.CeilingGrowth)
	}
	if c.Adoption.MaxBuildRatePerYear < 1 {
		return configErrorf("adoption.max_build_rate_per_year", "must be >= 1, got %g", c.Adoption.MaxBuildRatePerYear)
	}
	if c.Adoption.N0 < 0 {
		return configErrorf("adoption.n0", "must be non-negative, got %g", c.Adoption.N0)
	}
	if c.Adoption.Model == ModelLogistic && (c.Adoption.NMax < 1 || c.Adoption.KBase <= 0) {
		return configErrorf("adoption.n_max", "logistic model needs n_max >= 1 and k_base > 0")
	}
	if c.Adoption.Model == ModelBottomUp && (c.Adoption.BottomUpTotalUnits < 1 || c.Adoption.BottomUpBuildYears < 1) {
		return configErrorf("adoption.bottom_up_total_units", "bottom-up model needs total units and build years >= 1")
	}

	// Learning
	if c.Learning.CapexFloorUSD <= 0 {
		return configErrorf("learning.capex_floor_usd", "must be positive, got %g", c.Learning.CapexFloorUSD)
	}
	if c.Learning.Capex0USD < c.Learning.CapexFloorUSD {
		return configErrorf("learning.capex0_foak_usd", "FOAK CAPEX %g below floor %g",
			c.Learning.Capex0USD, c.Learning.CapexFloorUSD)
	}
	if c.Learning.BExponent < 0 || c.Learning.BExponent > 1 {
		return configErrorf("learning.b_exponent", "must be in [0, 1], got %g", c.Learning.BExponent)
	}
	if c.Learning.N0 <= 0 {
		return configErrorf("learning.n0", "must be positive, got %g", c.Learning.N0)
	}
	if c.Learning.InertiaYears < 0 {
		return configErrorf("learning.inertia_years", "must be non-negative, got %g", c.Learning.InertiaYears)
	}

	// FM effects: each lever is a bounded fractional improvement.
	fm := c.FMEffects
	if fm.Simulation.DesignTimeReductionPct < 0 || fm.Simulation.DesignTimeReductionPct >= 1 {
		return configErrorf("fm_effects.simulation.design_time_reduction_pct", "must be in [0, 1)")
	}
	if fm.Simulation.ReworkProbReductionPct < 0 || fm.Simulation.ReworkProbReductionPct > 1 {
		return configErrorf("fm_effects.simulation.rework_prob_reduction_pct", "must be in [0, 1]")
	}
	if fm.Experiments.ShotsReductionPct < 0 || fm.Experiments.ShotsReductionPct >= 1 {
		return configErrorf("fm_effects.experiments.shots_reduction_pct", "must be in [0, 1)")
	}
	if fm.Experiments.SuccessProbUplift < 0 {
		return configErrorf("fm_effects.experiments.success_prob_uplift", "must be non-negative")
	}
	if fm.Control.CFUpliftAbs < 0 {
		return configErrorf("fm_effects.control.cf_uplift_abs", "must be non-negative")
	}
	if fm.Control.FOMReductionPct < 0 || fm.Control.FOMReductionPct > 1 ||
		fm.Control.VOMReductionPct < 0 || fm.Control.VOMReductionPct > 1 {
		return configErrorf("fm_effects.control.fom_reduction_pct", "O&M reductions must be in [0, 1]")
	}
	if fm.Control.PowerLearningBoost < 0 {
		return configErrorf("fm_effects.control.power_learning_boost", "must be non-negative")
	}
	switch fm.Sharing.Mode {
	case "", "k", "b":
	default:
		return configErrorf("fm_effects.sharing.mode", "must be \"k\" or \"b\", got %q", fm.Sharing.Mode)
	}
	if fm.Sharing.KMultiplier != 0 && fm.Sharing.KMultiplier < 1 {
		return configErrorf("fm_effects.sharing.k_multiplier", "must be >= 1, got %g", fm.Sharing.KMultiplier)
	}
	if err := checkNoDoubleCount(fm.Sharing); err != nil {
		return err
	}

	// Priors must target known parameters and carry well-formed distributions.
	for key, prior := range c.Priors {
		if !knownPriorKey(key) {
			return configErrorf("priors."+key, "unknown parameter path")
		}
		if err := prior.validate(); err != nil {
			return configErrorf("priors."+key, "%v", err)
		}
	}

	return nil
}

// Years materializes the shared time grid: every produced series has one
// value per grid year, from StartYear through HorizonYear inclusive.
func (c Config) Years() []int {
	years := make([]int, 0, c.Meta.HorizonYear-c.Meta.StartYear+1)
	for y := c.Meta.StartYear; y <= c.Meta.HorizonYear; y++ {
		years = append(years, y)
	}
	return years
}
