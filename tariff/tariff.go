// Package tariff evaluates a distribution-network capacity tariff's
// peak-window membership and fixed cost terms.
package tariff

import (
	"fmt"
	"time"
)

// PeakCalcMethod selects how the billing peak is derived from an hourly
// power series.
type PeakCalcMethod string

const (
	MethodSingle PeakCalcMethod = "single"
	MethodAvg3   PeakCalcMethod = "avg3"
	MethodAvg5   PeakCalcMethod = "avg5"
)

// Tariff is a distribution-network capacity tariff: a base monthly fee plus
// per-kW capacity and peak-window surcharges, and a per-kWh energy surcharge
// that differs between peak and off-peak hours.
type Tariff struct {
	Operator string

	ValidFrom time.Time
	ValidTo   time.Time // zero value means open-ended

	BaseMonthlyFee float64 // currency/month
	CapacityFeeKW  float64 // currency/kW, applied to the billing peak
	PeakFeeKW      float64 // currency/kW, applied to the peak-window peak

	PeakHourStart int // local hour, inclusive
	PeakHourEnd   int // local hour, exclusive
	PeakMonths    map[time.Month]bool
	PeakWeekdaysOnly bool
	PeakCalcMethod   PeakCalcMethod

	EnergySurchargePeak    float64 // currency/kWh
	EnergySurchargeOffPeak float64 // currency/kWh
}

// Validate enforces the invariants from the data model: a well-formed
// peak-hour range and non-negative monetary fields.
func (t *Tariff) Validate() error {
	if t.PeakHourStart < 0 || t.PeakHourEnd > 24 || t.PeakHourStart >= t.PeakHourEnd {
		return fmt.Errorf("tariff: invalid peak hour range [%d,%d), must satisfy 0 <= start < end <= 24", t.PeakHourStart, t.PeakHourEnd)
	}
	if t.BaseMonthlyFee < 0 {
		return fmt.Errorf("tariff: base_monthly_fee must be non-negative, got %f", t.BaseMonthlyFee)
	}
	if t.CapacityFeeKW < 0 {
		return fmt.Errorf("tariff: capacity_fee_kw must be non-negative, got %f", t.CapacityFeeKW)
	}
	if t.PeakFeeKW < 0 {
		return fmt.Errorf("tariff: peak_fee_kw must be non-negative, got %f", t.PeakFeeKW)
	}
	if t.EnergySurchargePeak < 0 {
		return fmt.Errorf("tariff: energy_surcharge_peak must be non-negative, got %f", t.EnergySurchargePeak)
	}
	if t.EnergySurchargeOffPeak < 0 {
		return fmt.Errorf("tariff: energy_surcharge_offpeak must be non-negative, got %f", t.EnergySurchargeOffPeak)
	}
	switch t.PeakCalcMethod {
	case MethodSingle, MethodAvg3, MethodAvg5:
	default:
		return fmt.Errorf("tariff: invalid peak_calc_method %q", t.PeakCalcMethod)
	}
	return nil
}

// IsPeak reports whether the local wall-clock instant dt falls inside this
// tariff's declared peak window: the month must be a peak month, the weekday
// must be Mon..Fri when PeakWeekdaysOnly is set, and the hour must fall in
// [PeakHourStart, PeakHourEnd).
func (t *Tariff) IsPeak(dt time.Time) bool {
	if !t.PeakMonths[dt.Month()] {
		return false
	}
	if t.PeakWeekdaysOnly {
		wd := dt.Weekday()
		if wd == time.Saturday || wd == time.Sunday {
			return false
		}
	}
	h := dt.Hour()
	return h >= t.PeakHourStart && h < t.PeakHourEnd
}

// EnergyFee returns the per-kWh surcharge applicable at dt.
func (t *Tariff) EnergyFee(dt time.Time) float64 {
	if t.IsPeak(dt) {
		return t.EnergySurchargePeak
	}
	return t.EnergySurchargeOffPeak
}
