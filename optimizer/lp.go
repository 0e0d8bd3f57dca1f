package optimizer

import (
	"log"
	"time"

	"github.com/derivatio/ev-optimizer/tariff"
)

const solveTimeLimit = 60 * time.Second

// Result is the outcome of a joint-optimal scheduling run: the chosen
// schedule and whether the LP actually produced it, or whether the
// fallback rung was taken.
type Result struct {
	Schedule []float64
	Status   Status
}

// Schedule builds and solves the joint energy-plus-capacity-tariff LP
// described for this package, and falls back to Baseline on any
// non-optimal outcome (infeasible, unbounded, time-limit, solver error).
//
// S_eff = subscriptionKW * (1 - safetyMargin) is the effective subscription
// ceiling the optimizer must respect; base_load[t] + x[t] <= S_eff for
// every hour. The objective omits the base fee, since it is constant.
func Schedule(n int, fleetPowerKW, energyNeedKWh, subscriptionKW, safetyMargin float64, window []bool, baseLoad, spot []float64, timestamps []time.Time, tr *tariff.Tariff, logger *log.Logger) Result {
	baseline := Baseline(n, fleetPowerKW, energyNeedKWh, window, spot)

	effectiveCeiling := subscriptionKW * (1 - safetyMargin)

	prob := NewProblem()
	x := make([]int, n)
	for t := 0; t < n; t++ {
		x[t] = prob.AddVariable()
	}
	m := prob.AddVariable()
	pPeak := prob.AddVariable()

	objective := make(map[int]float64)
	for t := 0; t < n; t++ {
		fee := tr.EnergyFee(timestamps[t])
		objective[x[t]] = spot[t]/100.0 + fee
	}
	objective[m] = tr.CapacityFeeKW
	objective[pPeak] = tr.PeakFeeKW
	prob.SetObjective(objective)

	// x[t] = 0 outside the charging window, x[t] <= fleetPowerKW inside it.
	for t := 0; t < n; t++ {
		if !window[t] {
			prob.AddEQConstraint(map[int]float64{x[t]: 1}, 0)
		} else {
			prob.AddLEConstraint(map[int]float64{x[t]: 1}, fleetPowerKW)
		}
	}

	// Energy budget over the horizon.
	energyCoeffs := make(map[int]float64, n)
	for t := 0; t < n; t++ {
		energyCoeffs[x[t]] = 1
	}
	prob.AddGEConstraint(energyCoeffs, energyNeedKWh)

	peakHours := 0
	for t := 0; t < n; t++ {
		// Effective subscription ceiling.
		prob.AddLEConstraint(map[int]float64{x[t]: 1}, effectiveCeiling-baseLoad[t])

		// All-hours billing peak.
		prob.AddGEConstraint(map[int]float64{m: 1, x[t]: -1}, baseLoad[t])

		if tr.IsPeak(timestamps[t]) {
			prob.AddGEConstraint(map[int]float64{pPeak: 1, x[t]: -1}, baseLoad[t])
			peakHours++
		}
	}

	// With no peak-window hour in the horizon the peak variable appears in no
	// constraint; pin it to 0 so the solver never sees an all-zero column.
	if peakHours == 0 {
		prob.AddEQConstraint(map[int]float64{pPeak: 1}, 0)
	}

	solution := DefaultLPScheduler.Solve(prob, solveTimeLimit)
	if solution.Status != StatusOptimal {
		logger.Printf("optimizer: LP scheduler returned %s (energy_need=%.2f window_capacity=%.2f S_eff=%.2f), falling back to baseline",
			solution.Status, energyNeedKWh, windowCapacity(window, fleetPowerKW), effectiveCeiling)
		return Result{Schedule: baseline, Status: solution.Status}
	}

	schedule := make([]float64, n)
	for t := 0; t < n; t++ {
		v := solution.Values[x[t]]
		if v < 0 {
			v = 0
		}
		schedule[t] = v
	}
	return Result{Schedule: schedule, Status: StatusOptimal}
}

func windowCapacity(window []bool, fleetPowerKW float64) float64 {
	var hours float64
	for _, in := range window {
		if in {
			hours++
		}
	}
	return hours * fleetPowerKW
}
