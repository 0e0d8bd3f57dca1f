// Package simulation orchestrates a single EV-fleet charging simulation:
// it resolves data quality, runs the baseline and LP schedulers, composes
// costs, and assembles the hourly result series.
package simulation

import (
	"time"

	"github.com/derivatio/ev-optimizer/optimizer"
	"github.com/derivatio/ev-optimizer/tariff"
)

// DataQuality tags how much of a simulation's input was real versus
// synthesized.
type DataQuality string

const (
	DataQualityOK      DataQuality = "ok"
	DataQualityPartial DataQuality = "partial"
	DataQualityFallback DataQuality = "fallback"
)

// Property is a single charging site: its grid area, contractual
// subscription ceiling, and an optional id used as a last-known-good
// cache key.
type Property struct {
	ID             string
	Area           string // bidding zone, e.g. "SE3"
	MeterID        string
	SubscriptionKW float64
}

// Fleet aggregates the vehicles sharing one charging site.
type Fleet struct {
	Vehicles      int
	ChargerKW     float64
	BatteryKWh    float64
	ArrivalSOC    float64 // fraction in [0,1]
	ArrivalHour   int     // [0,24)
	DepartureHour int     // [0,24)
}

// FleetPowerKW is the fleet's aggregate charging power cap, V*P_c.
func (f Fleet) FleetPowerKW() float64 {
	return float64(f.Vehicles) * f.ChargerKW
}

// EnergyNeedKWh is the energy demand per vehicle-cycle, V*B*(1-s).
func (f Fleet) EnergyNeedKWh() float64 {
	return float64(f.Vehicles) * f.BatteryKWh * (1 - f.ArrivalSOC)
}

// PricePoint is an optional caller-supplied price at a given local
// timestamp, in minor-units/kWh.
type PricePoint struct {
	Timestamp time.Time
	PriceOreKWh float64
}

// Request is the boundary schema for one simulation run.
type Request struct {
	Property    Property
	Fleet       Fleet
	Tariff      tariff.Tariff
	PeriodStart time.Time
	PeriodEnd   time.Time // inclusive

	// BaseLoadKW, if non-nil, must have exactly one entry per hour in the
	// grid; a length mismatch is treated as absent (see Non-goals/§7).
	BaseLoadKW []float64

	// SpotPrices, if non-nil, must have exactly one entry per hour in the
	// grid, already resolved by the price-source boundary (§6): the
	// orchestrator never calls the network itself.
	SpotPrices []PricePoint
}

// HourlyPoint is one hour's worth of the response's per-hour series.
type HourlyPoint struct {
	Timestamp     time.Time
	BaseKW        float64
	EVKWWithout   float64
	EVKWWith      float64
	TotalKWWithout float64
	TotalKWWith   float64
	SpotPrice     float64
	IsPeakHour    bool
}

// Breakdown mirrors costmodel.Breakdown for both the naive ("without") and
// LP-optimized ("with") schedules.
type Breakdown struct {
	SpotCostWithout     float64
	SpotCostWith        float64
	CapacityCostWithout float64
	CapacityCostWith    float64
	PeakCostWithout     float64
	PeakCostWith        float64
	BaseMonthlyFee      float64
}

// MonteCarloResult mirrors optimizer.Stats in response-schema field names.
type MonteCarloResult struct {
	Mean, Median, P10, P90, Std float64
	NSimulations                int
}

// Response is the boundary schema returned by Simulate.
type Response struct {
	PeriodStart, PeriodEnd time.Time

	CostWithout, CostWith float64
	SavingsTotal          float64
	SavingsPct            float64

	PeakKWWithout, PeakKWWith float64

	MonteCarlo MonteCarloResult

	Breakdown Breakdown

	HourlyData []HourlyPoint

	WorstDaysAvoided []string // up to 5 date strings, YYYY-MM-DD

	DataQuality DataQuality

	// LPStatus exposes the LP scheduler's solve outcome for callers that
	// want more detail than the data-quality tag alone.
	LPStatus optimizer.Status
}

// KilowattsToAmps converts a single-phase 230V setpoint in kW to amperes,
// clamped to [0, 32]. The downstream charger dispatcher (out of scope for
// this package) uses this to translate HourlyPoint.EVKWWith into a
// per-charger current limit.
func KilowattsToAmps(kw float64) float64 {
	amps := kw * 1000 / 230
	if amps < 0 {
		return 0
	}
	if amps > 32 {
		return 32
	}
	return amps
}
