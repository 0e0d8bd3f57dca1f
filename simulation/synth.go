package simulation

import "math/rand/v2"

// synthesizeBaseload generates a typical office-hours load curve when a
// measured baseload is absent. Noise is deliberately stochastic and never
// seeded for production runs; rng may be a fixed source in tests.
func synthesizeBaseload(n int, subscriptionKW float64, hourOf func(t int) int, rng *rand.Rand) []float64 {
	baseload := make([]float64, n)
	for t := 0; t < n; t++ {
		h := hourOf(t)
		var lo, hi float64
		switch {
		case h >= 8 && h < 18:
			lo, hi = 0.30, 0.55
		case (h >= 6 && h < 8) || (h >= 18 && h < 22):
			lo, hi = 0.12, 0.28
		default:
			lo, hi = 0.04, 0.12
		}
		baseload[t] = subscriptionKW * (lo + rng.Float64()*(hi-lo))
	}
	return baseload
}

const syntheticPriceBase = 120.0 // minor-units/kWh

var syntheticPricePeakHours = map[int]bool{7: true, 8: true, 9: true, 17: true, 18: true, 19: true, 20: true}

// synthesizePrices generates a conservatively high price curve when
// upstream prices are absent. Deliberately biased to overstate cost rather
// than overstate savings under uncertainty.
func synthesizePrices(n int, hourOf func(t int) int, rng *rand.Rand) []float64 {
	prices := make([]float64, n)
	for t := 0; t < n; t++ {
		h := hourOf(t)
		price := syntheticPriceBase
		switch {
		case syntheticPricePeakHours[h]:
			price += 30 + rng.Float64()*50
		case h >= 0 && h < 5:
			price -= 20
			if price < 0 {
				price = 0
			}
		default:
			price += rng.Float64() * 40
		}
		prices[t] = price
	}
	return prices
}
