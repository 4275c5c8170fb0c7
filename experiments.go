package fmvalue

import "math"

// ExpectedShots returns the expected number of shots needed to clear one
// experimental gate. Each shot succeeds independently with probability p,
// so each of the shotsPerGate required successes costs 1/p attempts on
// average (geometric expectation):
//
//	E[shots] = shotsPerGate / p
func ExpectedShots(shotsPerGate, successProb float64) (float64, error) {
	if successProb <= 0 || successProb > 1 {
		return 0, configErrorf("experiments.shot_success_prob",
			"must be in (0, 1], got %g", successProb)
	}
	if shotsPerGate < 1 {
		return 0, configErrorf("experiments.shots_per_gate",
			"must be >= 1, got %g", shotsPerGate)
	}
	return shotsPerGate / successProb, nil
}

// TimeToGateDays converts expected shots into elapsed calendar time.
// Shots run at shotsPerDay during campaigns of daysPerCampaign days; each
// gap between consecutive campaigns adds daysBetweenCampaigns:
//
//	days = E[shots]/cadence + (ceil(days/campaign) - 1) * gap
func TimeToGateDays(shotsPerGate, successProb, shotsPerDay float64, daysPerCampaign, daysBetweenCampaigns int) (float64, error) {
	if shotsPerDay <= 0 {
		return 0, configErrorf("experiments.shots_per_day",
			"must be positive, got %g", shotsPerDay)
	}
	shots, err := ExpectedShots(shotsPerGate, successProb)
	if err != nil {
		return 0, err
	}

	shotDays := shots / shotsPerDay
	campaigns := math.Ceil(shotDays / float64(daysPerCampaign))
	gaps := math.Max(0, campaigns-1)
	return shotDays + gaps*float64(daysBetweenCampaigns), nil
}

// FMAdjustedExperiments applies the experiments-channel levers: a
// fractional reduction in shots needed and an additive success-probability
// uplift capped at 0.99. Neither lever is compounded with any other
// channel; the experiments channel owns these two quantities.
func FMAdjustedExperiments(cfg ExperimentsConfig, fm FMExperiments) (shots, successProb float64) {
	shots = cfg.ShotsPerGate * (1 - fm.ShotsReductionPct)
	if shots < 1 {
		shots = 1
	}
	successProb = math.Min(0.99, cfg.ShotSuccessProb+fm.SuccessProbUplift)
	return shots, successProb
}

// DesignTimeReduction propagates faster experimental gating into a
// fractional reduction of the design-phase duration:
//
//	reduction = max(0, (tGateBase - tGateFM) / tGateBase)
//
// The result is clamped to cfg.MaxDesignReduction so that no combination
// of levers collapses the schedule to near-zero.
func DesignTimeReduction(cfg ExperimentsConfig, fm FMExperiments) (float64, error) {
	tBase, err := TimeToGateDays(cfg.ShotsPerGate, cfg.ShotSuccessProb,
		cfg.ShotsPerDay, cfg.DaysPerCampaign, cfg.DaysBetweenCampaigns)
	if err != nil {
		return 0, err
	}

	shotsFM, probFM := FMAdjustedExperiments(cfg, fm)
	tFM, err := TimeToGateDays(shotsFM, probFM,
		cfg.ShotsPerDay, cfg.DaysPerCampaign, cfg.DaysBetweenCampaigns)
	if err != nil {
		return 0, err
	}

	if tBase <= 0 {
		return 0, nil
	}
	reduction := math.Max(0, (tBase-tFM)/tBase)
	return math.Min(reduction, cfg.MaxDesignReduction), nil
}
