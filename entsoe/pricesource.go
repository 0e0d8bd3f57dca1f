package entsoe

import (
	"context"
	"log"
	"sort"
	"sync"
	"time"
)

// PricePoint is one hourly (or coalesced sub-hourly) spot price, in
// minor-units per kWh, at local time Timestamp.
type PricePoint struct {
	Timestamp time.Time
	Price     float64
}

// eurToSEKRate is the fixed EUR/SEK conversion rate used to turn a EUR/MWh
// publication price into minor-units/kWh (öre/kWh).
const eurToSEKRate = 11.2

func eurPerMWhToMinorUnitsPerKWh(eurPerMWh float64) float64 {
	return eurPerMWh * eurToSEKRate * 0.1
}

const highPriceBound = 800.0 // minor-units/kWh; above this, log at warn but keep

// fallbackConstant is the conservative flat rate used when the upstream
// source cannot be reached or yields no usable data.
const fallbackConstant = 150.0 // minor-units/kWh

// Source fetches day-ahead hourly spot prices for Swedish bidding zones.
// It is safe for concurrent use.
type Source struct {
	http     *httpClient
	location *time.Location

	mu    sync.RWMutex
	cache map[cacheKey][]PricePoint

	logger *log.Logger
}

type cacheKey struct {
	area       string
	start, end int64
}

// NewSource builds a Source against the ENTSO-E publication API using the
// given security token. loc is the IANA zone prices are converted into;
// a nil loc defaults to "Europe/Stockholm".
func NewSource(token string, loc *time.Location, logger *log.Logger) *Source {
	if loc == nil {
		loc, _ = time.LoadLocation("Europe/Stockholm")
		if loc == nil {
			loc = time.UTC
		}
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Source{
		http:     newHTTPClient(token),
		location: loc,
		cache:    make(map[cacheKey][]PricePoint),
		logger:   logger,
	}
}

// Fetch returns hourly price points local to the Source's configured zone.
// On success it returns one point per local hour covered by the upstream
// document, sorted ascending and deduplicated; those points are not trimmed
// or padded to [start, end], so their count can differ from the number of
// hours in that interval. It never returns a transient error: any
// classified failure (auth, unavailable, parse, empty-result) is logged and
// degrades to a flat fallback series with one point per hour in the closed
// interval [start, end]. Only an unknown bidding zone is surfaced, since
// that is a configuration mistake rather than something to degrade
// gracefully from.
func (s *Source) Fetch(ctx context.Context, area string, start, end time.Time) ([]PricePoint, error) {
	code, ok := eicCode(area)
	if !ok {
		return nil, &UnknownAreaError{Area: area}
	}

	key := cacheKey{area: area, start: start.Unix(), end: end.Unix()}
	if cached, ok := s.cacheGet(key); ok {
		return cached, nil
	}

	body, err := s.http.fetchDocument(ctx, code, start, end)
	if err != nil {
		s.logger.Printf("entsoe: fetch failed for %s, falling back: %v", area, err)
		return FallbackPrices(start, end), nil
	}

	doc, err := Decode(body)
	if err != nil {
		parseErr := &ParseError{Err: err}
		s.logger.Printf("entsoe: parse failed for %s, falling back: %v", area, parseErr)
		return FallbackPrices(start, end), nil
	}

	points := s.coalesce(doc)
	if len(points) == 0 {
		s.logger.Printf("entsoe: empty parse for %s, falling back", area)
		return FallbackPrices(start, end), nil
	}

	points = s.validateAndClamp(points)
	sort.Slice(points, func(i, j int) bool { return points[i].Timestamp.Before(points[j].Timestamp) })
	points = dedupe(points)

	s.cacheSet(key, points)
	return points, nil
}

// coalesce walks every TimeSeries/Period in the document, converts each
// Point into a local-time price, and coalesces sub-hourly points into one
// value per local hour by running mean in insertion order.
func (s *Source) coalesce(doc *PublicationMarketDocument) []PricePoint {
	byHour := make(map[int64]float64)
	order := make([]int64, 0)

	for _, ts := range doc.TimeSeries {
		period := ts.Period
		periodStart := period.TimeInterval.Start
		resolution := period.Resolution
		if resolution <= 0 {
			resolution = time.Hour
		}

		for _, pt := range period.Points {
			pointTimeUTC := periodStart.Add(time.Duration(pt.Position-1) * resolution)
			local := pointTimeUTC.In(s.location)
			hourKey := time.Date(local.Year(), local.Month(), local.Day(), local.Hour(), 0, 0, 0, s.location).Unix()

			price := eurPerMWhToMinorUnitsPerKWh(pt.PriceAmount)
			if existing, ok := byHour[hourKey]; ok {
				byHour[hourKey] = (existing + price) / 2
			} else {
				byHour[hourKey] = price
				order = append(order, hourKey)
			}
		}
	}

	points := make([]PricePoint, 0, len(order))
	for _, hourKey := range order {
		points = append(points, PricePoint{
			Timestamp: time.Unix(hourKey, 0).In(s.location),
			Price:     byHour[hourKey],
		})
	}
	return points
}

// validateAndClamp clamps negative prices to zero (logged at the equivalent
// of debug) and logs, without rejecting, prices above highPriceBound.
func (s *Source) validateAndClamp(points []PricePoint) []PricePoint {
	for i := range points {
		if points[i].Price < 0 {
			s.logger.Printf("entsoe: debug: negative price %.2f at %s clamped to 0", points[i].Price, points[i].Timestamp)
			points[i].Price = 0
		}
		if points[i].Price > highPriceBound {
			s.logger.Printf("entsoe: price %.2f at %s exceeds bound %.2f", points[i].Price, points[i].Timestamp, highPriceBound)
		}
	}
	return points
}

func dedupe(points []PricePoint) []PricePoint {
	out := points[:0]
	var last time.Time
	first := true
	for _, p := range points {
		if !first && p.Timestamp.Equal(last) {
			continue
		}
		out = append(out, p)
		last = p.Timestamp
		first = false
	}
	return out
}

// FallbackPrices returns a flat series at fallbackConstant, one entry per
// hour in the closed interval [start, end].
func FallbackPrices(start, end time.Time) []PricePoint {
	var points []PricePoint
	for t := start; !t.After(end); t = t.Add(time.Hour) {
		points = append(points, PricePoint{Timestamp: t, Price: fallbackConstant})
	}
	return points
}

func (s *Source) cacheGet(key cacheKey) ([]PricePoint, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	points, ok := s.cache[key]
	return points, ok
}

func (s *Source) cacheSet(key cacheKey, points []PricePoint) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cache[key] = points
}
