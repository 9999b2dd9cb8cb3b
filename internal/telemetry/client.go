// Package telemetry is the client side of the telemetry source: the HTTP
// endpoint that owns the readings store and hands out the camelCase /bins
// snapshot.
package telemetry

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/wastewatch/bin-fleet-monitor/internal/domain"
)

type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

// FetchReadings pulls the current snapshot of raw readings. No ordering or
// deduplication is guaranteed by the source. A transport failure returns an
// error and no partial result; callers must treat it as "no current data",
// not an empty fleet.
func (c *Client) FetchReadings(ctx context.Context) ([]domain.Reading, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/bins", nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("telemetry source unreachable: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("telemetry source request failed: %s", resp.Status)
	}

	var out []domain.Reading
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("telemetry source payload: %w", err)
	}
	return out, nil
}
