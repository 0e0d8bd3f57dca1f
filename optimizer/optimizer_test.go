package optimizer

import (
	"log"
	"os"
	"testing"
	"time"

	"github.com/derivatio/ev-optimizer/tariff"
)

func testLogger() *log.Logger {
	return log.New(os.Stdout, "[TEST] ", log.LstdFlags)
}

func hourOfUTC(base time.Time) func(t int) int {
	return func(t int) int {
		return base.Add(time.Duration(t) * time.Hour).Hour()
	}
}

func TestChargingWindow_WrapsAcrossMidnight(t *testing.T) {
	base := time.Date(2025, time.January, 8, 0, 0, 0, 0, time.UTC)
	window := ChargingWindow(24, 22, 6, hourOfUTC(base))

	for h := 0; h < 24; h++ {
		want := h >= 22 || h < 6
		if window[h] != want {
			t.Errorf("hour %d: window=%v, want %v", h, window[h], want)
		}
	}
}

func TestBaseline_FillsCheapestHoursFirst(t *testing.T) {
	n := 4
	window := []bool{true, true, true, true}
	spot := []float64{50, 10, 30, 20}

	schedule := Baseline(n, 5, 8, window, spot)

	if schedule[1] != 5 {
		t.Errorf("expected the cheapest hour (index 1) to be fully charged, got %v", schedule[1])
	}
	if schedule[3] != 3 {
		t.Errorf("expected the remaining 3kWh to land on the next-cheapest hour (index 3), got %v", schedule[3])
	}
	if schedule[0] != 0 || schedule[2] != 0 {
		t.Errorf("expected the two most expensive hours to carry no charge, got %v", schedule)
	}
}

func TestBaseline_UnderdeliversWhenWindowTooSmall(t *testing.T) {
	window := []bool{true, false, false, false}
	spot := []float64{10, 20, 30, 40}
	schedule := Baseline(4, 2, 10, window, spot)

	var total float64
	for _, v := range schedule {
		total += v
	}
	if total >= 10 {
		t.Fatalf("expected baseline to under-deliver given insufficient window capacity, delivered %v", total)
	}
}

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

func TestSchedule_OptimalRespectsSubscriptionCeiling(t *testing.T) {
	n := 6
	base := time.Date(2025, time.January, 8, 0, 0, 0, 0, time.UTC)
	timestamps := make([]time.Time, n)
	baseLoad := make([]float64, n)
	spot := make([]float64, n)
	window := make([]bool, n)
	for i := range timestamps {
		timestamps[i] = base.Add(time.Duration(i) * time.Hour)
		baseLoad[i] = 5
		spot[i] = 10
		window[i] = true
	}

	result := Schedule(n, 10, 20, 12, 0, window, baseLoad, spot, timestamps, winterTariff(), testLogger())
	if result.Status != StatusOptimal {
		t.Fatalf("expected optimal status, got %s", result.Status)
	}
	for i, v := range result.Schedule {
		if baseLoad[i]+v > 12+1e-6 {
			t.Errorf("hour %d: base+charge=%v exceeds effective ceiling 12", i, baseLoad[i]+v)
		}
	}
}

func TestSchedule_InfeasibleFallsBackToBaseline(t *testing.T) {
	n := 4
	base := time.Date(2025, time.January, 8, 0, 0, 0, 0, time.UTC)
	timestamps := make([]time.Time, n)
	baseLoad := make([]float64, n)
	spot := make([]float64, n)
	window := make([]bool, n)
	for i := range timestamps {
		timestamps[i] = base.Add(time.Duration(i) * time.Hour)
		baseLoad[i] = 0
		spot[i] = 10
		window[i] = true
	}

	// Energy need far exceeds what the subscription ceiling can ever allow.
	result := Schedule(n, 50, 1000, 1, 0, window, baseLoad, spot, timestamps, winterTariff(), testLogger())
	if result.Status == StatusOptimal {
		t.Fatalf("expected a non-optimal status given an infeasible ceiling, got optimal")
	}

	expectedBaseline := Baseline(n, 50, 1000, window, spot)
	for i := range result.Schedule {
		if result.Schedule[i] != expectedBaseline[i] {
			t.Fatalf("expected fallback to equal the baseline schedule at hour %d", i)
		}
	}
}

func TestRun_DeltaSignNotForcedPositive(t *testing.T) {
	n := 24
	base := time.Date(2025, time.January, 8, 0, 0, 0, 0, time.UTC)
	timestamps := make([]time.Time, n)
	baseLoad := make([]float64, n)
	spot := make([]float64, n)
	for i := range timestamps {
		timestamps[i] = base.Add(time.Duration(i) * time.Hour)
		baseLoad[i] = 3
		spot[i] = 10
	}

	stats := Run(Trials{
		N:              n,
		FleetPowerKW:   7,
		EnergyNeedKWh:  20,
		ArrivalHour:    22,
		DepartureHour:  6,
		SubscriptionKW: 15,
		SafetyMargin:   0,
		BaseLoad:       baseLoad,
		Spot:           spot,
		Timestamps:     timestamps,
		Tariff:         winterTariff(),
		HourOf:         hourOfUTC(base),
		Logger:         testLogger(),
	})

	if stats.N != trialCount {
		t.Fatalf("expected %d trials, got %d", trialCount, stats.N)
	}
	// No assertion on sign: a negative mean is a legitimate, reportable
	// outcome under jitter and must not be clamped away.
}
