package fmvalue

import "fmt"

// ConfigError reports an invalid parameter value or an out-of-range bound.
// It is detected when a configuration document is loaded and validated,
// never inside the numeric recurrences. A ConfigError is always fatal to
// the whole run: no partial pipeline execution happens after one.
type ConfigError struct {
	Field  string // Dotted parameter path, e.g. "ops.commissioning_ramp_years"
	Reason string // Human-readable constraint violation
}

func (e *ConfigError) Error() string {
	if e.Field == "" {
		return "config: " + e.Reason
	}
	return fmt.Sprintf("config: %s: %s", e.Field, e.Reason)
}

// configErrorf builds a ConfigError for a parameter path.
func configErrorf(field, format string, args ...interface{}) error {
	return &ConfigError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// DomainError reports a mathematically undefined operation during
// computation: division by zero capacity factor or net power, a
// non-positive cumulative count in the learning-curve power term. It means
// a configuration/prior combination produced a physically nonsensical
// state. Inside a Monte Carlo trial a DomainError marks the trial failed;
// the trial is excluded from aggregation and counted in the failure report.
type DomainError struct {
	Op     string // Computation that failed, e.g. "lcoe", "capex"
	Year   int    // Grid year where the failure occurred (0 if not year-bound)
	Reason string
}

func (e *DomainError) Error() string {
	if e.Year != 0 {
		return fmt.Sprintf("%s at year %d: %s", e.Op, e.Year, e.Reason)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Reason)
}

// domainErrorf builds a DomainError for an operation at a grid year.
// Pass year 0 for failures that are not tied to a single year.
func domainErrorf(op string, year int, format string, args ...interface{}) error {
	return &DomainError{Op: op, Year: year, Reason: fmt.Sprintf(format, args...)}
}
