package fmvalue

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"sort"

	"golang.org/x/sync/errgroup"
)

// MCConfig controls Monte Carlo execution.
type MCConfig struct {
	Trials  int   // Number of independent trials
	Seed    int64 // Base seed; trial i draws from Seed+i+1
	Workers int   // Parallel workers (0 = GOMAXPROCS)

	// Quantile band edges (defaults: 5th and 95th percentile).
	LowerQ float64
	UpperQ float64

	Logger *slog.Logger // Optional; nil uses slog.Default()
}

// DefaultMCConfig returns sensible defaults: 1000 trials, 90% band.
func DefaultMCConfig() MCConfig {
	return MCConfig{
		Trials: 1000,
		Seed:   42,
		LowerQ: 0.05,
		UpperQ: 0.95,
	}
}

// Band is a per-year quantile envelope across trials: lower and upper
// quantiles plus the cross-trial median.
type Band struct {
	Lower  []float64 `json:"lower"`
	Median []float64 `json:"median"`
	Upper  []float64 `json:"upper"`
}

// MetricBand is the scalar analogue of Band.
type MetricBand struct {
	Lower  float64 `json:"lower"`
	Median float64 `json:"median"`
	Upper  float64 `json:"upper"`
}

// ScenarioBands holds quantile envelopes for every trajectory of one
// scenario.
type ScenarioBands struct {
	N         Band `json:"n"`
	CapexUSD  Band `json:"capex_usd"`
	CF        Band `json:"cf"`
	NetMW     Band `json:"net_mw"`
	FOMUSD    Band `json:"fom_usd"`
	VOMPerMWh Band `json:"vom_per_mwh"`
	LCOE      Band `json:"lcoe_per_mwh"`
}

// MetricsBands holds quantile envelopes for the scalar metrics.
// ParityYear aggregates only trials that reached parity; ParityShare is
// the fraction of successful trials that did.
type MetricsBands struct {
	TotalCapexUSD   MetricBand `json:"total_capex_usd"`
	TotalSavingsUSD MetricBand `json:"total_savings_usd"`
	LCOEAtHorizon   MetricBand `json:"lcoe_at_horizon"`
	TotalPowerGW    MetricBand `json:"total_power_gw"`
	DeltaCODYears   MetricBand `json:"delta_cod_years"`
	ParityYear      MetricBand `json:"parity_year"`
	ParityShare     float64    `json:"parity_share"`
}

// MCResult aggregates all trials: quantile bands for every trajectory and
// metric, the separately reported deterministic central run, and the trial
// failure report. It is finalized only after every trial has completed;
// no partial aggregate is ever exposed.
type MCResult struct {
	Years         []int         `json:"years"`
	Deterministic *Result       `json:"deterministic"`
	Baseline      ScenarioBands `json:"baseline"`
	WithFM        ScenarioBands `json:"with_fm"`
	Metrics       MetricsBands  `json:"metrics"`

	// Trials is the number requested, Failed the number excluded from
	// aggregation. Silent dropping is forbidden: FailureReasons counts
	// failures by the operation that raised the DomainError.
	Trials         int            `json:"trials"`
	Failed         int            `json:"failed"`
	FailureReasons map[string]int `json:"failure_reasons,omitempty"`
}

// RunMonteCarlo samples the configured priors Trials times and evaluates
// the full pipeline once per draw. One trial = one independent draw = one
// full pipeline evaluation; no trial reuses another's intermediate state,
// which is the precondition for valid quantile estimates.
//
// Trials run in parallel: each owns an independently seeded sampler and
// writes only its own slot, so no locking is needed. A trial that raises a
// DomainError is recorded as failed and excluded from aggregation; any
// other error aborts the whole run.
func RunMonteCarlo(ctx context.Context, cfg Config, mc MCConfig) (*MCResult, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if mc.Trials <= 0 {
		return nil, configErrorf("mc.trials", "must be positive, got %d", mc.Trials)
	}
	if mc.LowerQ < 0 || mc.UpperQ > 1 || mc.LowerQ >= mc.UpperQ {
		return nil, configErrorf("mc.quantiles", "need 0 <= lower < upper <= 1, got [%g, %g]", mc.LowerQ, mc.UpperQ)
	}

	log := mc.Logger
	if log == nil {
		log = slog.Default()
	}

	workers := mc.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	central, err := RunDeterministic(cfg)
	if err != nil {
		return nil, fmt.Errorf("deterministic run failed: %w", err)
	}

	log.Info("monte carlo starting", "trials", mc.Trials, "workers", workers, "seed", mc.Seed)

	results := make([]*Result, mc.Trials)
	failures := make([]error, mc.Trials)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := 0; i < mc.Trials; i++ {
		i := i
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			r, err := Run(cfg, NewRandomSampler(mc.Seed+int64(i)+1))
			if err != nil {
				var derr *DomainError
				if errors.As(err, &derr) {
					failures[i] = err // failed trial, not a failed run
					return nil
				}
				return fmt.Errorf("trial %d: %w", i, err)
			}
			results[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	ok := make([]*Result, 0, mc.Trials)
	reasons := make(map[string]int)
	for i, r := range results {
		if r != nil {
			ok = append(ok, r)
			continue
		}
		var derr *DomainError
		if errors.As(failures[i], &derr) {
			reasons[derr.Op]++
		} else {
			reasons["unknown"]++
		}
	}
	failed := mc.Trials - len(ok)
	if failed > 0 {
		log.Warn("trials failed", "failed", failed, "of", mc.Trials, "reasons", reasons)
	}
	if len(ok) == 0 {
		return nil, fmt.Errorf("all %d trials failed: %v", mc.Trials, reasons)
	}

	agg := &MCResult{
		Years:         central.Years,
		Deterministic: central,
		Baseline:      scenarioBands(ok, func(r *Result) *Scenario { return &r.Baseline }, mc),
		WithFM:        scenarioBands(ok, func(r *Result) *Scenario { return &r.WithFM }, mc),
		Trials:        mc.Trials,
		Failed:        failed,
	}
	if failed > 0 {
		agg.FailureReasons = reasons
	}
	agg.Metrics = metricsBands(ok, mc)

	log.Info("monte carlo complete", "trials", len(ok), "failed", failed)
	return agg, nil
}

func scenarioBands(trials []*Result, pick func(*Result) *Scenario, mc MCConfig) ScenarioBands {
	series := func(get func(*Scenario) []float64) Band {
		return seriesBand(trials, func(r *Result) []float64 { return get(pick(r)) }, mc)
	}
	return ScenarioBands{
		N:         series(func(s *Scenario) []float64 { return s.N }),
		CapexUSD:  series(func(s *Scenario) []float64 { return s.CapexUSD }),
		CF:        series(func(s *Scenario) []float64 { return s.CF }),
		NetMW:     series(func(s *Scenario) []float64 { return s.NetMW }),
		FOMUSD:    series(func(s *Scenario) []float64 { return s.FOMUSD }),
		VOMPerMWh: series(func(s *Scenario) []float64 { return s.VOMPerMWh }),
		LCOE:      series(func(s *Scenario) []float64 { return s.LCOE }),
	}
}

// seriesBand computes per-year quantiles across trials. Every trial shares
// the same grid, so values align index-for-index.
func seriesBand(trials []*Result, pick func(*Result) []float64, mc MCConfig) Band {
	nYears := len(pick(trials[0]))
	band := Band{
		Lower:  make([]float64, nYears),
		Median: make([]float64, nYears),
		Upper:  make([]float64, nYears),
	}

	column := make([]float64, len(trials))
	for y := 0; y < nYears; y++ {
		for i, r := range trials {
			column[i] = pick(r)[y]
		}
		sort.Float64s(column)
		band.Lower[y] = quantileSorted(column, mc.LowerQ)
		band.Median[y] = quantileSorted(column, 0.5)
		band.Upper[y] = quantileSorted(column, mc.UpperQ)
	}
	return band
}

func metricsBands(trials []*Result, mc MCConfig) MetricsBands {
	scalar := func(pick func(*Result) float64) MetricBand {
		vals := make([]float64, len(trials))
		for i, r := range trials {
			vals[i] = pick(r)
		}
		sort.Float64s(vals)
		return MetricBand{
			Lower:  quantileSorted(vals, mc.LowerQ),
			Median: quantileSorted(vals, 0.5),
			Upper:  quantileSorted(vals, mc.UpperQ),
		}
	}

	mb := MetricsBands{
		TotalCapexUSD:   scalar(func(r *Result) float64 { return r.Metrics.TotalCapexUSD }),
		TotalSavingsUSD: scalar(func(r *Result) float64 { return r.Metrics.TotalSavingsUSD }),
		LCOEAtHorizon:   scalar(func(r *Result) float64 { return r.Metrics.LCOEAtHorizon }),
		TotalPowerGW:    scalar(func(r *Result) float64 { return r.Metrics.TotalPowerGW }),
		DeltaCODYears:   scalar(func(r *Result) float64 { return r.Metrics.DeltaCODYears }),
	}

	// Parity aggregates only over trials that reached it; the sentinel
	// would otherwise drag the quantiles toward "never".
	parity := make([]float64, 0, len(trials))
	for _, r := range trials {
		if r.Metrics.ParityYear != 0 {
			parity = append(parity, float64(r.Metrics.ParityYear))
		}
	}
	if len(parity) > 0 {
		sort.Float64s(parity)
		mb.ParityYear = MetricBand{
			Lower:  quantileSorted(parity, mc.LowerQ),
			Median: quantileSorted(parity, 0.5),
			Upper:  quantileSorted(parity, mc.UpperQ),
		}
		mb.ParityShare = float64(len(parity)) / float64(len(trials))
	}
	return mb
}

// quantileSorted picks the q-th quantile from an ascending slice.
func quantileSorted(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	idx := int(float64(len(sorted)-1) * q)
	if idx < 0 {
		idx = 0
	}
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}
	return sorted[idx]
}
