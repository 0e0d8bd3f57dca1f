package simulation

import (
	"testing"
	"time"
)

func TestWorstDaysAvoided_RanksByDailyGapDescending(t *testing.T) {
	base := time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)
	timestamps := make([]time.Time, 48)
	naive := make([]float64, 48)
	lp := make([]float64, 48)
	for i := range timestamps {
		timestamps[i] = base.Add(time.Duration(i) * time.Hour)
	}
	// Day 1 (index 0..23): gap of 1kWh/hour = 24kWh total.
	for i := 0; i < 24; i++ {
		naive[i] = 10
		lp[i] = 9
	}
	// Day 2 (index 24..47): gap of 2kWh/hour = 48kWh total.
	for i := 24; i < 48; i++ {
		naive[i] = 10
		lp[i] = 8
	}

	days := worstDaysAvoided(timestamps, naive, lp)
	if len(days) != 2 {
		t.Fatalf("expected 2 days, got %d", len(days))
	}
	if days[0] != "2025-01-02" {
		t.Errorf("expected the larger-gap day first, got %s", days[0])
	}
}

func TestSavingsPct_ZeroCostWithoutYieldsZero(t *testing.T) {
	if got := savingsPct(0, 0); got != 0 {
		t.Errorf("expected 0, got %v", got)
	}
	if got := savingsPct(-5, 0); got != 0 {
		t.Errorf("expected 0 for non-positive cost_without, got %v", got)
	}
}

func TestSavingsPct_PositiveCase(t *testing.T) {
	got := savingsPct(100, 80)
	if got != 20 {
		t.Errorf("expected 20, got %v", got)
	}
}
