package optimizer

import "sort"

// Baseline produces a "naive" EV schedule: it charges during the cheapest
// spot-price hours inside the wrap-aware availability window, ignoring the
// capacity tariff entirely. It is always feasible to compute and is used
// both as a Monte-Carlo benchmark and as the LP scheduler's fallback
// schedule.
//
// fleetPowerKW bounds each hour's charge rate; energyNeedKWh is the total
// energy to deliver across the horizon. spot is the per-hour price series
// aligned with the window returned by ChargingWindow.
func Baseline(n int, fleetPowerKW, energyNeedKWh float64, window []bool, spot []float64) []float64 {
	schedule := make([]float64, n)

	type candidate struct {
		hour  int
		price float64
	}
	candidates := make([]candidate, 0, n)
	for t := 0; t < n; t++ {
		if window[t] {
			candidates = append(candidates, candidate{hour: t, price: spot[t]})
		}
	}
	sort.Slice(candidates, func(i, j int) bool { return candidates[i].price < candidates[j].price })

	remaining := energyNeedKWh
	for _, cand := range candidates {
		if remaining <= 0 {
			break
		}
		charge := fleetPowerKW
		if charge > remaining {
			charge = remaining
		}
		schedule[cand.hour] = charge
		remaining -= charge
	}
	return schedule
}

// ChargingWindow returns a boolean mask of length n marking which hour
// indices fall inside [arrivalHour, departureHour), wrapping across
// midnight when arrivalHour > departureHour. hourOf maps an absolute hour
// index in [0,n) to its local hour-of-day in [0,24).
func ChargingWindow(n int, arrivalHour, departureHour int, hourOf func(t int) int) []bool {
	window := make([]bool, n)
	for t := 0; t < n; t++ {
		h := hourOf(t)
		if arrivalHour <= departureHour {
			window[t] = h >= arrivalHour && h < departureHour
		} else {
			window[t] = h >= arrivalHour || h < departureHour
		}
	}
	return window
}
