package entsoe

import (
	"encoding/xml"
	"fmt"
	"time"
)

// PublicationMarketDocument is the root element of an ENTSO-E
// Publication_MarketDocument (document type A44, day-ahead prices).
type PublicationMarketDocument struct {
	XMLName            xml.Name     `xml:"Publication_MarketDocument"`
	MRID               string       `xml:"mRID"`
	PeriodTimeInterval TimeInterval `xml:"period.timeInterval"`
	TimeSeries         []TimeSeries `xml:"TimeSeries"`
}

// TimeInterval is a start/end pair using ENTSO-E's UTC timestamp format.
type TimeInterval struct {
	Start time.Time
	End   time.Time
}

// UnmarshalXML parses the "2006-01-02T15:04Z" / RFC3339 timestamp forms
// ENTSO-E uses for interval boundaries.
func (ti *TimeInterval) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	var aux struct {
		Start string `xml:"start"`
		End   string `xml:"end"`
	}
	if err := d.DecodeElement(&aux, &start); err != nil {
		return err
	}
	var err error
	if ti.Start, err = parseEntsoeTime(aux.Start); err != nil {
		return fmt.Errorf("entsoe: parsing interval start: %w", err)
	}
	if ti.End, err = parseEntsoeTime(aux.End); err != nil {
		return fmt.Errorf("entsoe: parsing interval end: %w", err)
	}
	return nil
}

func parseEntsoeTime(s string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04Z", "2006-01-02T15:04Z07:00"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized ENTSO-E timestamp: %q", s)
}

// TimeSeries is one ENTSO-E TimeSeries element; only the Period sub-element
// carries data this package consumes.
type TimeSeries struct {
	MRID   string `xml:"mRID"`
	Period Period `xml:"Period"`
}

// Period carries a resolution-stamped sequence of price Points over an
// interval.
type Period struct {
	TimeInterval TimeInterval
	Resolution   time.Duration
	Points       []Point
}

// UnmarshalXML decodes resolution as an ISO-8601 duration ("PT60M", "PT15M",
// "PT30M", "PT1H"); an unrecognized value is treated as 60 minutes.
func (p *Period) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	var aux struct {
		TimeInterval TimeInterval `xml:"timeInterval"`
		Resolution   string       `xml:"resolution"`
		Points       []Point      `xml:"Point"`
	}
	if err := d.DecodeElement(&aux, &start); err != nil {
		return err
	}
	p.TimeInterval = aux.TimeInterval
	p.Points = aux.Points
	p.Resolution = parseResolution(aux.Resolution)
	return nil
}

// parseResolution maps ENTSO-E's ISO-8601 duration strings to a
// time.Duration. An unrecognized string defaults to one hour; callers that
// need to log the fallback do so at the call site since this function has no
// logger.
func parseResolution(s string) time.Duration {
	switch s {
	case "PT15M":
		return 15 * time.Minute
	case "PT30M":
		return 30 * time.Minute
	case "PT60M", "PT1H":
		return time.Hour
	default:
		return time.Hour
	}
}

// Point is one price observation within a Period, at 1-based Position.
type Point struct {
	Position    int     `xml:"position"`
	PriceAmount float64 `xml:"price.amount"` // EUR/MWh
}

// Decode parses an ENTSO-E Publication_MarketDocument from raw XML bytes.
func Decode(data []byte) (*PublicationMarketDocument, error) {
	var doc PublicationMarketDocument
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("entsoe: decoding XML: %w", err)
	}
	return &doc, nil
}
