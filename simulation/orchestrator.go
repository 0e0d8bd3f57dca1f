package simulation

import (
	"errors"
	"log"
	"math/rand/v2"
	"time"

	"github.com/derivatio/ev-optimizer/config"
	"github.com/derivatio/ev-optimizer/costmodel"
	"github.com/derivatio/ev-optimizer/entsoe"
	"github.com/derivatio/ev-optimizer/optimizer"
)

// Orchestrator runs simulations: it resolves data quality, invokes the
// schedulers and cost model, maintains the last-known-good cache, and
// assembles the boundary response.
type Orchestrator struct {
	config *config.Config
	lkg    *lastKnownGoodCache
	logger *log.Logger
}

// NewOrchestrator builds an Orchestrator against cfg. A nil logger uses
// log.Default().
func NewOrchestrator(cfg *config.Config, logger *log.Logger) *Orchestrator {
	if logger == nil {
		logger = log.Default()
	}
	return &Orchestrator{
		config: cfg,
		lkg:    newLastKnownGoodCache(),
		logger: logger,
	}
}

// ErrEmptyTimeGrid is returned when PeriodEnd precedes PeriodStart, which
// would yield a zero-length hourly grid.
var ErrEmptyTimeGrid = errors.New("simulation: period_end must not precede period_start")

// Simulate runs a single simulation to completion. It never returns an
// error for upstream data-quality degradation; only a malformed request
// (empty time grid) is surfaced, per the boundary contract.
func (o *Orchestrator) Simulate(req Request) (*Response, error) {
	if req.PeriodEnd.Before(req.PeriodStart) {
		return nil, ErrEmptyTimeGrid
	}

	loc, err := time.LoadLocation(o.config.Location)
	if err != nil {
		loc = time.UTC
	}

	start := req.PeriodStart.In(loc)
	end := req.PeriodEnd.In(loc)

	n := int(end.Sub(start).Hours()) + 1
	timestamps := make([]time.Time, n)
	for t := 0; t < n; t++ {
		timestamps[t] = start.Add(time.Duration(t) * time.Hour)
	}
	hourOf := func(t int) int { return timestamps[t].Hour() }

	days := end.Sub(start).Hours() / 24.0
	months := costmodel.Months(days)

	rng := rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))

	// Baseload selection.
	var baseLoad []float64
	realBaseload := len(req.BaseLoadKW) == n
	if realBaseload {
		baseLoad = req.BaseLoadKW
	} else {
		baseLoad = synthesizeBaseload(n, req.Property.SubscriptionKW, hourOf, rng)
	}

	// Price selection.
	var spot []float64
	realPrices := len(req.SpotPrices) == n
	if realPrices {
		spot = make([]float64, n)
		for i, p := range req.SpotPrices {
			spot[i] = p.PriceOreKWh
		}
	} else {
		spot = synthesizePrices(n, hourOf, rng)
	}

	quality, safetyMargin := resolveDataQuality(realPrices, realBaseload)

	fleetPowerKW := req.Fleet.FleetPowerKW()
	energyNeedKWh := req.Fleet.EnergyNeedKWh()
	window := optimizer.ChargingWindow(n, req.Fleet.ArrivalHour, req.Fleet.DepartureHour, hourOf)

	naiveSchedule := optimizer.Baseline(n, fleetPowerKW, energyNeedKWh, window, spot)
	lpResult := optimizer.Schedule(n, fleetPowerKW, energyNeedKWh, req.Property.SubscriptionKW, safetyMargin, window, baseLoad, spot, timestamps, &req.Tariff, o.logger)

	if quality == DataQualityOK && req.Property.ID != "" {
		pricePoints := make([]entsoe.PricePoint, n)
		for i := range pricePoints {
			pricePoints[i] = entsoe.PricePoint{Timestamp: timestamps[i], Price: spot[i]}
		}
		o.lkg.set(req.Property.ID, lpResult.Schedule, pricePoints)
	}
	if quality == DataQualityFallback && req.Property.ID != "" {
		if _, ok := o.lkg.get(req.Property.ID); ok {
			o.logger.Printf("simulation: property %s fell back to synthetic data but a last-known-good schedule is available as a warm anchor", req.Property.ID)
		}
	}

	naiveTotal := make([]float64, n)
	lpTotal := make([]float64, n)
	for t := 0; t < n; t++ {
		naiveTotal[t] = baseLoad[t] + naiveSchedule[t]
		lpTotal[t] = baseLoad[t] + lpResult.Schedule[t]
	}

	costWithout := costmodel.Total(naiveTotal, spot, timestamps, &req.Tariff, months)
	costWith := costmodel.Total(lpTotal, spot, timestamps, &req.Tariff, months)

	mcStats := optimizer.Run(optimizer.Trials{
		N:              n,
		FleetPowerKW:   fleetPowerKW,
		EnergyNeedKWh:  energyNeedKWh,
		ArrivalHour:    req.Fleet.ArrivalHour,
		DepartureHour:  req.Fleet.DepartureHour,
		SubscriptionKW: req.Property.SubscriptionKW,
		SafetyMargin:   safetyMargin,
		BaseLoad:       baseLoad,
		Spot:           spot,
		Timestamps:     timestamps,
		Tariff:         &req.Tariff,
		HourOf:         hourOf,
		Logger:         o.logger,
	})
	mc := MonteCarloResult{
		Mean: mcStats.Mean, Median: mcStats.Median,
		P10: mcStats.P10, P90: mcStats.P90, Std: mcStats.Std,
		NSimulations: mcStats.N,
	}

	hourly := make([]HourlyPoint, n)
	for t := 0; t < n; t++ {
		hourly[t] = HourlyPoint{
			Timestamp:      timestamps[t],
			BaseKW:         baseLoad[t],
			EVKWWithout:    naiveSchedule[t],
			EVKWWith:       lpResult.Schedule[t],
			TotalKWWithout: naiveTotal[t],
			TotalKWWith:    lpTotal[t],
			SpotPrice:      spot[t],
			IsPeakHour:     req.Tariff.IsPeak(timestamps[t]),
		}
	}

	resp := &Response{
		PeriodStart:   req.PeriodStart,
		PeriodEnd:     req.PeriodEnd,
		CostWithout:   costWithout.Total,
		CostWith:      costWith.Total,
		SavingsTotal:  costWithout.Total - costWith.Total,
		SavingsPct:    savingsPct(costWithout.Total, costWith.Total),
		PeakKWWithout: costWithout.PeakKWAll,
		PeakKWWith:    costWith.PeakKWAll,
		MonteCarlo:    mc,
		Breakdown: Breakdown{
			SpotCostWithout:     costWithout.EnergyCost,
			SpotCostWith:        costWith.EnergyCost,
			CapacityCostWithout: costWithout.CapacityCost,
			CapacityCostWith:    costWith.CapacityCost,
			PeakCostWithout:     costWithout.PeakCost,
			PeakCostWith:        costWith.PeakCost,
			BaseMonthlyFee:      costWith.BaseFee,
		},
		HourlyData:       hourly,
		WorstDaysAvoided: worstDaysAvoided(timestamps, naiveTotal, lpTotal),
		DataQuality:      quality,
		LPStatus:         lpResult.Status,
	}
	return resp, nil
}

// resolveDataQuality implements the ok/partial/fallback ladder and its
// paired safety margin.
func resolveDataQuality(realPrices, realBaseload bool) (DataQuality, float64) {
	switch {
	case realPrices && realBaseload:
		return DataQualityOK, 0.00
	case realPrices != realBaseload:
		return DataQualityPartial, 0.05
	default:
		return DataQualityFallback, 0.10
	}
}
