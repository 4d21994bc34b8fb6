// Package userapi is the client for the marketplace's own user service.
package userapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// ErrGrantRejected is returned when the user service answers but does not
// report success. The premium entitlement was not granted.
var ErrGrantRejected = errors.New("userapi: premium grant rejected")

// Client talks to the user service's internal JSON API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a user-service client.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

type goPremiumResponse struct {
	Result int `json:"result"`
}

// GrantPremium marks the user as a premium seller. The endpoint reports
// success only with HTTP 2xx and a body of {"result": 1}; any other shape,
// status, or a missing user id is a failure and nothing was granted.
func (c *Client) GrantPremium(ctx context.Context, userID string) error {
	if userID == "" {
		return fmt.Errorf("%w: missing user id", ErrGrantRejected)
	}

	url := fmt.Sprintf("%s/user/api/users/goPremium/%s", c.baseURL, userID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, nil)
	if err != nil {
		return fmt.Errorf("userapi: build goPremium request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("userapi: goPremium request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: status %d", ErrGrantRejected, resp.StatusCode)
	}

	var body goPremiumResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return fmt.Errorf("%w: undecodable response: %v", ErrGrantRejected, err)
	}
	if body.Result != 1 {
		return fmt.Errorf("%w: result %d", ErrGrantRejected, body.Result)
	}
	return nil
}
