package costmodel

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/derivatio/ev-optimizer/tariff"
)

func winterTariff() *tariff.Tariff {
	return &tariff.Tariff{
		BaseMonthlyFee:         365,
		CapacityFeeKW:          59,
		PeakFeeKW:              70,
		PeakHourStart:          6,
		PeakHourEnd:            22,
		PeakMonths:             map[time.Month]bool{1: true},
		PeakWeekdaysOnly:       true,
		PeakCalcMethod:         tariff.MethodSingle,
		EnergySurchargePeak:    0.071,
		EnergySurchargeOffPeak: 0.038,
	}
}

func TestTopAvg_EmptySliceIsZero(t *testing.T) {
	assert.Equal(t, 0.0, TopAvg(nil, 3))
}

func TestTopAvg_SingleIsMax(t *testing.T) {
	assert.Equal(t, 10.0, TopAvg([]float64{3, 10, 7}, 1))
}

func TestTopAvg_Avg3(t *testing.T) {
	assert.InDelta(t, 9.0, TopAvg([]float64{10, 9, 8, 1}, 3), 1e-9)
}

func TestPeakStats_EmptyPeakSetIsZero(t *testing.T) {
	tr := winterTariff()
	tr.PeakMonths = map[time.Month]bool{} // no month is ever peak
	timestamps := make([]time.Time, 3)
	kw := []float64{10, 20, 30}
	base := time.Date(2025, time.January, 8, 6, 0, 0, 0, time.UTC)
	for i := range timestamps {
		timestamps[i] = base.Add(time.Duration(i) * time.Hour)
	}
	_, pMaxPeak := PeakStats(kw, timestamps, tr)
	assert.Equal(t, 0.0, pMaxPeak)
}

func TestMonths_RoundsAndFloorsAtOne(t *testing.T) {
	assert.Equal(t, 1, Months(1))
	assert.Equal(t, 1, Months(15))
	assert.Equal(t, 2, Months(50))
}

func TestTotal_NegativeSpotClampedUpstreamYieldsNonNegativeEnergyCost(t *testing.T) {
	tr := winterTariff()
	timestamps := []time.Time{time.Date(2025, time.January, 8, 6, 0, 0, 0, time.UTC)}
	kw := []float64{10}
	spot := []float64{0} // already clamped by the price source
	b := Total(kw, spot, timestamps, tr, 1)
	assert.GreaterOrEqual(t, b.EnergyCost, 0.0)
	assert.Equal(t, tr.BaseMonthlyFee, b.BaseFee)
}
