package fmvalue

import (
	"fmt"
	"math"
	"math/rand"
	"sort"
)

// Dist names a prior distribution family.
type Dist string

const (
	DistTriangular Dist = "triangular" // params: [min, mode, max]
	DistLognormal  Dist = "lognormal"  // params: [mu, sigma] of ln(X)
	DistConstant   Dist = "constant"   // params: [value]
)

// Prior declares the uncertainty of one configuration parameter.
type Prior struct {
	Dist   Dist      `yaml:"dist" json:"dist"`
	Params []float64 `yaml:"params" json:"params"`
}

func (p Prior) validate() error {
	switch p.Dist {
	case DistTriangular:
		if len(p.Params) != 3 {
			return fmt.Errorf("triangular needs [min, mode, max], got %d params", len(p.Params))
		}
		a, m, b := p.Params[0], p.Params[1], p.Params[2]
		if !(a <= m && m <= b && a < b) {
			return fmt.Errorf("triangular needs min <= mode <= max with min < max, got [%g, %g, %g]", a, m, b)
		}
	case DistLognormal:
		if len(p.Params) != 2 {
			return fmt.Errorf("lognormal needs [mu, sigma], got %d params", len(p.Params))
		}
		if p.Params[1] < 0 {
			return fmt.Errorf("lognormal sigma must be non-negative, got %g", p.Params[1])
		}
	case DistConstant:
		if len(p.Params) != 1 {
			return fmt.Errorf("constant needs [value], got %d params", len(p.Params))
		}
	default:
		return fmt.Errorf("unknown distribution %q", p.Dist)
	}
	return nil
}

// Central returns the distribution's central value: the mode for
// triangular, the mean for lognormal, the value itself for constant. The
// deterministic run uses central values instead of draws so that quantile
// bands can be visually centered on it.
func (p Prior) Central() float64 {
	switch p.Dist {
	case DistTriangular:
		return p.Params[1]
	case DistLognormal:
		return math.Exp(p.Params[0] + 0.5*p.Params[1]*p.Params[1])
	default:
		return p.Params[0]
	}
}

// Sampler is the single abstraction behind all distribution sampling.
// Deterministic and stochastic runs share identical downstream logic and
// differ only in which Sampler is injected.
type Sampler interface {
	// Draw samples one value from the prior.
	Draw(p Prior) float64
	// Bernoulli returns the indicator of an event with probability prob:
	// 1 or 0 stochastically, the expectation prob deterministically.
	Bernoulli(prob float64) float64
	// Lognormal samples exp(N(mu, sigma)); deterministically it returns
	// the distribution mean exp(mu + sigma^2/2).
	Lognormal(mu, sigma float64) float64
}

// RandomSampler draws from a dedicated rand source. Each Monte Carlo trial
// owns an independently seeded RandomSampler, so trials never share state
// and can run in parallel without locking.
type RandomSampler struct {
	rng *rand.Rand
}

// NewRandomSampler creates a sampler seeded for one trial.
func NewRandomSampler(seed int64) *RandomSampler {
	return &RandomSampler{rng: rand.New(rand.NewSource(seed))}
}

// Draw samples the prior by inverse-CDF (triangular) or transform (lognormal).
func (s *RandomSampler) Draw(p Prior) float64 {
	switch p.Dist {
	case DistTriangular:
		a, m, b := p.Params[0], p.Params[1], p.Params[2]
		u := s.rng.Float64()
		fc := (m - a) / (b - a)
		if u < fc {
			return a + math.Sqrt(u*(b-a)*(m-a))
		}
		return b - math.Sqrt((1-u)*(b-a)*(b-m))
	case DistLognormal:
		return s.Lognormal(p.Params[0], p.Params[1])
	default:
		return p.Params[0]
	}
}

func (s *RandomSampler) Bernoulli(prob float64) float64 {
	if s.rng.Float64() < prob {
		return 1
	}
	return 0
}

func (s *RandomSampler) Lognormal(mu, sigma float64) float64 {
	return math.Exp(s.rng.NormFloat64()*sigma + mu)
}

// DeterministicSampler replaces every draw with the distribution's central
// value. Running the pipeline with it yields the deterministic central run.
type DeterministicSampler struct{}

func (DeterministicSampler) Draw(p Prior) float64 { return p.Central() }

func (DeterministicSampler) Bernoulli(prob float64) float64 { return prob }

func (DeterministicSampler) Lognormal(mu, sigma float64) float64 {
	return math.Exp(mu + 0.5*sigma*sigma)
}

// ApplyPriors returns a copy of cfg with every declared prior replaced by a
// value drawn from s. The input bundle is never mutated. Priors are drawn
// in sorted key order so a given seed always produces the same parameter
// set. Sampled values can land outside the validated ranges; the pipeline
// re-checks them and fails the trial with a DomainError rather than
// computing nonsense.
func ApplyPriors(cfg Config, s Sampler) Config {
	keys := make([]string, 0, len(cfg.Priors))
	for key := range cfg.Priors {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	out := cfg
	for _, key := range keys {
		setParam(&out, key, s.Draw(cfg.Priors[key]))
	}
	return out
}

// priorTargets maps each supported dotted parameter path to its setter.
// Integer-valued parameters round to the nearest whole number.
var priorTargets = map[string]func(*Config, float64){
	"schedule.design_months":          func(c *Config, v float64) { c.Schedule.DesignMonths = v },
	"schedule.epc_months":             func(c *Config, v float64) { c.Schedule.EPCMonths = v },
	"schedule.commission_months":      func(c *Config, v float64) { c.Schedule.CommissionMonths = v },
	"schedule.rework_prob":            func(c *Config, v float64) { c.Schedule.ReworkProb = v },
	"schedule.rework_factor":          func(c *Config, v float64) { c.Schedule.ReworkFactor = v },
	"learning.b_exponent":             func(c *Config, v float64) { c.Learning.BExponent = v },
	"learning.g_exogenous_per_year":   func(c *Config, v float64) { c.Learning.GExogenous = v },
	"learning.capex0_foak_usd":        func(c *Config, v float64) { c.Learning.Capex0USD = v },
	"learning.capex_floor_usd":        func(c *Config, v float64) { c.Learning.CapexFloorUSD = v },
	"ops.cf_base_mature":              func(c *Config, v float64) { c.Ops.CFBaseMature = v },
	"ops.fom_base_per_year":           func(c *Config, v float64) { c.Ops.FOMBasePerYear = v },
	"ops.vom_base_per_mwh":            func(c *Config, v float64) { c.Ops.VOMBasePerMWh = v },
	"experiments.shots_per_gate":      func(c *Config, v float64) { c.Experiments.ShotsPerGate = math.Round(v) },
	"experiments.shot_success_prob":   func(c *Config, v float64) { c.Experiments.ShotSuccessProb = v },
	"experiments.shots_per_day":       func(c *Config, v float64) { c.Experiments.ShotsPerDay = v },
	"adoption.ceiling_start_per_year": func(c *Config, v float64) { c.Adoption.CeilingStartPerYear = v },
	"adoption.ceiling_growth":         func(c *Config, v float64) { c.Adoption.CeilingGrowth = v },
	"adoption.max_build_rate_per_year": func(c *Config, v float64) {
		c.Adoption.MaxBuildRatePerYear = math.Round(v)
	},
	"finance.wacc_real": func(c *Config, v float64) { c.Finance.WACCReal = v },
}

func knownPriorKey(key string) bool {
	_, ok := priorTargets[key]
	return ok
}

func setParam(cfg *Config, key string, v float64) {
	if set, ok := priorTargets[key]; ok {
		set(cfg, v)
	}
}
