package simulation

import (
	"math/rand/v2"
	"testing"
)

func TestSynthesizeBaseload_WithinConfiguredBandsPerHour(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	n := 24
	hourOf := func(t int) int { return t % 24 }
	baseload := synthesizeBaseload(n, 100, hourOf, rng)

	for h, v := range baseload {
		var lo, hi float64
		switch {
		case h >= 8 && h < 18:
			lo, hi = 30, 55
		case (h >= 6 && h < 8) || (h >= 18 && h < 22):
			lo, hi = 12, 28
		default:
			lo, hi = 4, 12
		}
		if v < lo || v > hi {
			t.Errorf("hour %d: baseload %v outside expected band [%v,%v]", h, v, lo, hi)
		}
	}
}

func TestSynthesizePrices_NightHoursNeverNegative(t *testing.T) {
	rng := rand.New(rand.NewPCG(3, 4))
	n := 24
	hourOf := func(t int) int { return t % 24 }
	prices := synthesizePrices(n, hourOf, rng)

	for h, p := range prices {
		if p < 0 {
			t.Errorf("hour %d: price %v is negative", h, p)
		}
	}
}
