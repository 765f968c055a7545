package menu

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"salchimonster-backend/internal/models"
)

// Client fetches published menus from the menu service.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a client for the menu service at baseURL.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// FetchMenu fetches the full menu for one site.
func (c *Client) FetchMenu(ctx context.Context, siteID int) (*models.Menu, error) {
	url := fmt.Sprintf("%s/menu/%d", c.baseURL, siteID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build menu request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("menu request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("menu request failed: status %d", resp.StatusCode)
	}

	var menu models.Menu
	if err := json.NewDecoder(resp.Body).Decode(&menu); err != nil {
		return nil, fmt.Errorf("failed to decode menu response: %w", err)
	}
	if menu.SiteID == 0 {
		menu.SiteID = siteID
	}
	return &menu, nil
}
