package entsoe

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/derivatio/ev-optimizer/utils"
)

const publicationBaseURL = "https://web-api.tp.entsoe.eu/api"

// httpClient performs the raw day-ahead price request against the ENTSO-E
// publication API and classifies the outcome.
type httpClient struct {
	client  *http.Client
	baseURL string
	token   string
}

func newHTTPClient(token string) *httpClient {
	return &httpClient{
		client:  &http.Client{Timeout: 30 * time.Second},
		baseURL: publicationBaseURL,
		token:   token,
	}
}

// SetBaseURL overrides the publication endpoint, for use against a test
// server.
func (s *Source) SetBaseURL(baseURL string) {
	s.http.baseURL = baseURL
}

// fetchDocument issues one GET for document type A44 (day-ahead prices) over
// [start, end) in the given EIC area, and returns the raw response body.
//
// A 401 status is classified as *AuthError. Any other non-2xx status,
// timeout, or connection failure is classified as *UnavailableError. Both
// are handled by the caller by falling back to a synthetic price series.
func (c *httpClient) fetchDocument(ctx context.Context, area string, start, end time.Time) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	q := url.Values{}
	q.Set("securityToken", c.token)
	q.Set("documentType", "A44")
	q.Set("in_Domain", area)
	q.Set("out_Domain", area)
	q.Set("periodStart", utils.GetUTCString(start))
	q.Set("periodEnd", utils.GetUTCString(end))

	reqURL := c.baseURL + "?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, &UnavailableError{Err: fmt.Errorf("building request: %w", err)}
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, &UnavailableError{Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &UnavailableError{StatusCode: resp.StatusCode, Err: err}
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return nil, &AuthError{StatusCode: resp.StatusCode}
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return nil, &UnavailableError{StatusCode: resp.StatusCode}
	}

	return body, nil
}
