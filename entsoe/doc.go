// Package entsoe fetches and parses day-ahead hourly spot prices from the
// ENTSO-E Transparency Platform publication API (document type A44) for the
// Nordic bidding zones SE1..SE4.
//
// Fetch is the package's single entry point: it resolves a bidding zone to
// its EIC code, checks an in-memory cache, issues one HTTP GET against the
// publication endpoint, classifies the outcome, parses and validates the
// XML response, and falls back to a flat constant-price series on any
// transient failure. Fetch never returns a transient error to the caller —
// only an unknown bidding zone is surfaced, since that is a configuration
// mistake rather than something to degrade gracefully from.
package entsoe
