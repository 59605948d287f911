// Package upstream talks to the versioned available-schedule backends. Only
// the request/response contract lives here; what happens to the returned
// entries is the engine's business.
package upstream

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/agendalivre/agenda/internal/schedule"
	"github.com/agendalivre/agenda/pkg/logging"
)

const defaultTimeout = 20 * time.Second

// Routes maps an API version to its schedule endpoint.
var Routes = map[string]string{
	"v1": "/v1/appoints/available-schedule",
	"v2": "/v2/appoints/available-schedule",
}

// Query is the request context sent to the backend.
type Query struct {
	ProfessionalID string
	UnitID         string
	Days           int
	StartDate      string
}

// Payload is the backend response envelope.
type Payload struct {
	Success bool             `json:"success"`
	Filters schedule.Filters `json:"filters"`
	Entries []schedule.Entry `json:"response"`
}

// HTTPError is a non-2xx backend status. It is a hard failure for the refresh
// that issued the request.
type HTTPError struct {
	Status int
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("upstream: status %d", e.Status)
}

// Client fetches schedule windows from a versioned backend.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *logging.Logger
}

// NewClient creates a schedule backend client.
func NewClient(baseURL string, timeout time.Duration, logger *logging.Logger) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// FetchSchedules requests a schedule window from the given API version.
func (c *Client) FetchSchedules(ctx context.Context, version string, q Query) (*Payload, error) {
	route, ok := Routes[version]
	if !ok {
		return nil, fmt.Errorf("upstream: unknown api version %q", version)
	}

	params := url.Values{}
	params.Set("professional_id", q.ProfessionalID)
	params.Set("unit_id", q.UnitID)
	params.Set("days", strconv.Itoa(q.Days))
	if q.StartDate != "" {
		params.Set("start_date", q.StartDate)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+route+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("upstream: create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("upstream: http request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, &HTTPError{Status: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("upstream: read response: %w", err)
	}

	var payload Payload
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("upstream: unmarshal response: %w", err)
	}

	c.logger.Debug("fetched schedule window",
		"version", version,
		"entries", len(payload.Entries),
		"start_date_applied", payload.Filters.StartDateApplied,
	)
	return &payload, nil
}
