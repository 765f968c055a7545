package cuponera

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Client talks to the external cuponera redemption service. Validation is
// the only network step of the discount flow; the allocation engine itself
// never does I/O.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a client for the service at baseURL.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Redeem validates a cuponera code. date is YYYY-MM-DD and defaults to today
// on the service side when empty; recordUse registers one use for the day.
func (c *Client) Redeem(ctx context.Context, code, date string, recordUse bool) (*RedeemResponse, error) {
	params := url.Values{}
	params.Set("code", strings.TrimSpace(code))
	if date != "" {
		params.Set("date", date)
	}
	if recordUse {
		params.Set("record_use", "true")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/redeem?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build redeem request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("redeem request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var body errorBody
		_ = json.NewDecoder(resp.Body).Decode(&body)
		if detail := body.text(); detail != "" {
			return nil, fmt.Errorf("redeem rejected: %s", detail)
		}
		return nil, fmt.Errorf("redeem rejected: status %d", resp.StatusCode)
	}

	var redeem RedeemResponse
	if err := json.NewDecoder(resp.Body).Decode(&redeem); err != nil {
		return nil, fmt.Errorf("failed to decode redeem response: %w", err)
	}
	return &redeem, nil
}
