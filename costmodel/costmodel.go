// Package costmodel aggregates an hourly power series, a spot-price series,
// and a distribution tariff into energy, capacity, peak, and base-fee cost
// components.
package costmodel

import (
	"math"
	"sort"
	"time"

	"github.com/derivatio/ev-optimizer/tariff"
)

// Breakdown is the per-component cost result, all values rounded to two
// decimals of the tariff's monetary unit.
type Breakdown struct {
	EnergyCost   float64
	CapacityCost float64
	PeakCost     float64
	BaseFee      float64
	Total        float64
	PeakKWAll    float64 // billing peak over all hours
	PeakKWPeak   float64 // billing peak restricted to peak-window hours
}

// TopAvg returns the mean of the k largest values in values, or 0 for an
// empty slice. k <= 0 is treated as 1.
func TopAvg(values []float64, k int) float64 {
	if len(values) == 0 {
		return 0
	}
	if k <= 0 {
		k = 1
	}
	if k > len(values) {
		k = len(values)
	}
	sorted := append([]float64(nil), values...)
	sort.Sort(sort.Reverse(sort.Float64Slice(sorted)))
	var sum float64
	for _, v := range sorted[:k] {
		sum += v
	}
	return sum / float64(k)
}

// peakStat returns the billing peak of values under the tariff's configured
// method: the running max for MethodSingle, else the top-k average.
func peakStat(values []float64, method tariff.PeakCalcMethod) float64 {
	switch method {
	case tariff.MethodAvg3:
		return TopAvg(values, 3)
	case tariff.MethodAvg5:
		return TopAvg(values, 5)
	default:
		return TopAvg(values, 1)
	}
}

// PeakStats computes the billing peak over all hours and the billing peak
// restricted to peak-window hours, under the tariff's configured method.
func PeakStats(totalKW []float64, timestamps []time.Time, t *tariff.Tariff) (pMaxAll, pMaxPeak float64) {
	var peakOnly []float64
	for i, ts := range timestamps {
		if t.IsPeak(ts) {
			peakOnly = append(peakOnly, totalKW[i])
		}
	}
	pMaxAll = round2(peakStat(totalKW, t.PeakCalcMethod))
	pMaxPeak = round2(peakStat(peakOnly, t.PeakCalcMethod))
	return
}

// EnergyCost sums per-hour kW * (spot price/100 + peak-or-offpeak surcharge).
// spot is in minor-units per kWh; the /100 scales it into the tariff's
// monetary unit.
func EnergyCost(totalKW, spot []float64, timestamps []time.Time, t *tariff.Tariff) float64 {
	var total float64
	for i, ts := range timestamps {
		total += totalKW[i] * (spot[i]/100.0 + t.EnergyFee(ts))
	}
	return round2(total)
}

// Months returns max(1, round(days/30)) — the tariff's base-fee billing
// period count for a date range spanning the given number of days.
func Months(days float64) int {
	m := int(math.Round(days / 30.0))
	if m < 1 {
		m = 1
	}
	return m
}

// Total computes the full cost breakdown for an hourly power series under a
// tariff: energy cost, capacity cost on the all-hours peak, peak cost on the
// peak-window peak, and the base monthly fee times the billing period count.
func Total(totalKW, spot []float64, timestamps []time.Time, t *tariff.Tariff, months int) Breakdown {
	pMaxAll, pMaxPeak := PeakStats(totalKW, timestamps, t)
	energy := EnergyCost(totalKW, spot, timestamps, t)
	capacity := round2(pMaxAll * t.CapacityFeeKW)
	peak := round2(pMaxPeak * t.PeakFeeKW)
	base := round2(t.BaseMonthlyFee * float64(months))

	return Breakdown{
		EnergyCost:   energy,
		CapacityCost: capacity,
		PeakCost:     peak,
		BaseFee:      base,
		Total:        round2(energy + capacity + peak + base),
		PeakKWAll:    pMaxAll,
		PeakKWPeak:   pMaxPeak,
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
