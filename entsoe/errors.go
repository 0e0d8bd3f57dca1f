package entsoe

import "fmt"

// UnknownAreaError is returned when Fetch is called with a bidding zone code
// this package does not have an EIC mapping for. It is a configuration
// mistake and is always surfaced to the caller, unlike the other error types
// in this package.
type UnknownAreaError struct {
	Area string
}

func (e *UnknownAreaError) Error() string {
	return fmt.Sprintf("entsoe: unknown bidding zone %q", e.Area)
}

// AuthError means the API rejected the request's security token (HTTP 401).
// Fetch converts it into a fallback price series rather than surfacing it.
type AuthError struct {
	StatusCode int
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("entsoe: authentication failed, status %d", e.StatusCode)
}

// UnavailableError means the API could not be reached, timed out, or
// returned a 4xx/5xx outside the auth case. Fetch converts it into a
// fallback price series rather than surfacing it.
type UnavailableError struct {
	StatusCode int
	Err        error
}

func (e *UnavailableError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("entsoe: service unavailable: %v", e.Err)
	}
	return fmt.Sprintf("entsoe: service unavailable, status %d", e.StatusCode)
}

func (e *UnavailableError) Unwrap() error {
	return e.Err
}

// ParseError means the response body could not be decoded as a valid
// publication document. Fetch converts it into a fallback price series
// rather than surfacing it.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("entsoe: parsing response: %v", e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
