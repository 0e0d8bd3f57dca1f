package optimizer

import (
	"log"
	"math"
	"math/rand/v2"
	"sort"
	"sync"
	"time"

	"github.com/derivatio/ev-optimizer/costmodel"
	"github.com/derivatio/ev-optimizer/tariff"
)

const trialCount = 200

// Trials describes the fixed inputs a Monte-Carlo run jitters around.
type Trials struct {
	N                            int
	FleetPowerKW, EnergyNeedKWh  float64
	ArrivalHour, DepartureHour   int
	SubscriptionKW, SafetyMargin float64
	BaseLoad, Spot               []float64
	Timestamps                   []time.Time
	Tariff                       *tariff.Tariff
	HourOf                       func(t int) int
	Logger                       *log.Logger
	Rand                         *rand.Rand // nil uses a fresh, unseeded source
}

// Stats summarizes naive-minus-LP cost deltas across trials, rounded to
// whole units. Sign is not forced positive: a negative entry indicates a
// configuration where naive accidentally beats the LP schedule under
// extreme jitter, and is reported honestly.
type Stats struct {
	Mean, Median, P10, P90, Std float64
	N                           int
}

// Run executes trialCount independent trials, each jittering arrival hour,
// departure hour, energy need, and a single per-trial baseload scalar, and
// returns the distribution of (naive cost - LP cost).
func Run(t Trials) Stats {
	deltas := make([]float64, trialCount)

	var wg sync.WaitGroup
	var mu sync.Mutex
	rng := t.Rand
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}

	for i := 0; i < trialCount; i++ {
		wg.Add(1)
		i := i
		jitter := drawJitter(rng, &mu)
		go func() {
			defer wg.Done()
			deltas[i] = runTrial(t, jitter)
		}()
	}
	wg.Wait()

	return summarize(deltas)
}

type jitter struct {
	arrivalDelta, departureDelta int
	energyFactor, baseloadFactor float64
}

// drawJitter draws one trial's jitter values under mu, since math/rand/v2's
// *Rand is not itself safe for concurrent use.
func drawJitter(rng *rand.Rand, mu *sync.Mutex) jitter {
	mu.Lock()
	defer mu.Unlock()
	return jitter{
		arrivalDelta:   rng.IntN(3) - 1,
		departureDelta: rng.IntN(3) - 1,
		energyFactor:   0.85 + rng.Float64()*0.30,
		baseloadFactor: 0.90 + rng.Float64()*0.20,
	}
}

func runTrial(t Trials, j jitter) float64 {
	arrival := wrapHour(t.ArrivalHour + j.arrivalDelta)
	departure := wrapHour(t.DepartureHour + j.departureDelta)
	energyNeed := t.EnergyNeedKWh * j.energyFactor

	baseLoad := make([]float64, t.N)
	for i, b := range t.BaseLoad {
		baseLoad[i] = b * j.baseloadFactor
	}

	window := ChargingWindow(t.N, arrival, departure, t.HourOf)

	naive := Baseline(t.N, t.FleetPowerKW, energyNeed, window, t.Spot)
	lpResult := Schedule(t.N, t.FleetPowerKW, energyNeed, t.SubscriptionKW, t.SafetyMargin, window, baseLoad, t.Spot, t.Timestamps, t.Tariff, t.Logger)

	months := costmodel.Months(float64(t.N) / 24.0)

	naiveTotal := make([]float64, t.N)
	lpTotal := make([]float64, t.N)
	for i := 0; i < t.N; i++ {
		naiveTotal[i] = baseLoad[i] + naive[i]
		lpTotal[i] = baseLoad[i] + lpResult.Schedule[i]
	}

	costNaive := costmodel.Total(naiveTotal, t.Spot, t.Timestamps, t.Tariff, months)
	costLP := costmodel.Total(lpTotal, t.Spot, t.Timestamps, t.Tariff, months)

	return costNaive.Total - costLP.Total
}

func wrapHour(h int) int {
	h %= 24
	if h < 0 {
		h += 24
	}
	return h
}

func summarize(deltas []float64) Stats {
	sorted := append([]float64(nil), deltas...)
	sort.Float64s(sorted)

	n := len(sorted)
	var sum float64
	for _, d := range sorted {
		sum += d
	}
	mean := sum / float64(n)

	var variance float64
	for _, d := range sorted {
		variance += (d - mean) * (d - mean)
	}
	variance /= float64(n)

	return Stats{
		Mean:   round0(mean),
		Median: round0(percentile(sorted, 0.5)),
		P10:    round0(percentile(sorted, 0.10)),
		P90:    round0(percentile(sorted, 0.90)),
		Std:    round0(math.Sqrt(variance)),
		N:      n,
	}
}

func percentile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	idx := int(p * float64(len(sorted)-1))
	return sorted[idx]
}

func round0(v float64) float64 {
	return math.Round(v)
}
