// Package fmvalue estimates the economic value a foundation model adds to
// a first-of-a-kind fusion power program.
//
// # Overview
//
// fmvalue runs a causal chain from R&D cadence to levelized cost of
// electricity (LCOE) and compares two scenarios built from the same random
// draw: a baseline program and one assisted by a foundation model (FM).
// Every metric is the difference between the two, so it isolates the FM
// effect from the shared uncertainty.
//
// The chain:
//
//	experiments -> schedule -> adoption -> {learning, ops} -> LCOE -> metrics
//
// # Architecture
//
// The package components:
//
//   - experiments.go - design-gate cadence and FM-accelerated validation
//   - schedule.go    - FOAK schedule with rework and lognormal uplift risk
//   - adoption.go    - ceiling, logistic, and bottom-up deployment models
//   - learning.go    - two-factor learning curve with floor and inertia
//   - ops.go         - capacity factor, net power, and O&M learning
//   - finance.go     - capital recovery factor and LCOE
//   - demand.go      - demand-driven fleet sizing cross-check
//   - pipeline.go    - one full evaluation of both scenarios
//   - montecarlo.go  - parallel trials and quantile bands
//   - sampling.go    - priors and the Sampler abstraction
//   - guards.go      - invariant checks on computed trajectories
//   - assertions.go  - test helpers for pipeline invariants
//
// # Quick Start
//
// Evaluate the central scenario and a Monte Carlo band:
//
//	cfg, err := fmvalue.LoadConfig("config.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	res, err := fmvalue.RunMonteCarlo(ctx, cfg, fmvalue.DefaultMCConfig())
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	last := len(res.Years) - 1
//	fmt.Printf("LCOE at horizon: %.1f [%.1f, %.1f] $/MWh\n",
//	    res.WithFM.LCOE.Median[last],
//	    res.WithFM.LCOE.Lower[last],
//	    res.WithFM.LCOE.Upper[last])
//	fmt.Printf("Total savings (median): $%.1fB\n",
//	    res.Metrics.TotalSavingsUSD.Median/1e9)
//
// # The Learning Curve
//
// Per-unit CAPEX follows a two-factor law: experience (Wright) and time
// (exogenous progress), clamped to an engineering floor and smoothed by
// supply-chain inertia:
//
//	capex(t) = max(floor, capex0 * (N(t)/N0)^(-b) * exp(-g * (t - t0)))
//
// The FM moves b (via design-knowledge sharing) and g (via simulation
// throughput); it never touches the floor, which encodes irreducible
// materials and construction cost.
//
// # Double-Count Protection
//
// Each FM effect channel has exactly one lever per physical quantity. The
// sharing channel, for example, may accelerate adoption (mode "k") or
// steepen learning (mode "b"), never both; configurations that activate
// both are rejected at load time. The design-time channel takes the larger
// of the simulation-speedup and experiment-cadence reductions rather than
// stacking them.
//
// # Determinism
//
// A run is a pure function of (config, seed). Priors are drawn in sorted
// key order, every trial owns its own seeded sampler, and the deterministic
// central run replaces each draw with the distribution's central value.
// Re-running with the same inputs reproduces bit-identical output.
package fmvalue
