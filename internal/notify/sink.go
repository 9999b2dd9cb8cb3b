// Package notify holds the outbound alert channels: the HTTP client for the
// SMS proxy (the notification sink the pipeline invokes) and the SNS-backed
// sender the proxy itself delivers with.
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/wastewatch/bin-fleet-monitor/internal/domain"
)

// SinkClient invokes the notification sink: a GET endpoint that fans one
// alert out to a fixed recipient list. Best-effort and opaque to the caller.
type SinkClient struct {
	baseURL string
	http    *http.Client
}

func NewSinkClient(baseURL string) *SinkClient {
	return &SinkClient{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 15 * time.Second},
	}
}

func (c *SinkClient) SendAlert(ctx context.Context, deviceID string, level domain.Metric, pos *domain.Position) error {
	params := url.Values{}
	params.Set("deviceId", deviceID)
	if level.Valid {
		params.Set("binLevel", strconv.FormatFloat(level.Float64, 'f', -1, 64))
	} else {
		params.Set("binLevel", "N/A")
	}
	if pos != nil {
		loc, err := json.Marshal(pos)
		if err != nil {
			return err
		}
		params.Set("location", string(loc))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+"/send-sms?"+params.Encode(), nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("notification sink unreachable: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("notification sink request failed: %s", resp.Status)
	}
	return nil
}
