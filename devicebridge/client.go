// Package devicebridge relays orchestrator commands to the user's device
// through the mobile backend-for-frontend: presenting the external checkout
// surface and controlling the embedded onboarding browser. It implements the
// CheckoutSurface and BrowserSurface collaborator contracts.
package devicebridge

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Client talks to the device bridge endpoint.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a device-bridge client. The checkout call long-polls
// until the user finishes, so the client carries a generous timeout;
// per-call deadlines still come from the caller's context.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 35 * time.Minute,
		},
	}
}

type checkoutResponse struct {
	Completed bool `json:"completed"`
}

// LaunchCheckout presents the provider checkout for the order and blocks
// until the device reports completion or cancellation.
func (c *Client) LaunchCheckout(ctx context.Context, orderID, fundingSource string) (bool, error) {
	var resp checkoutResponse
	err := c.post(ctx, "/device/checkout", map[string]string{
		"orderId":       orderID,
		"fundingSource": fundingSource,
	}, &resp)
	if err != nil {
		return false, err
	}
	return resp.Completed, nil
}

// Open points the device's embedded browser at the onboarding URL.
func (c *Client) Open(ctx context.Context, url string) error {
	return c.post(ctx, "/device/browser/open", map[string]string{"url": url}, nil)
}

// Close dismisses the embedded browser.
func (c *Client) Close(ctx context.Context) error {
	return c.post(ctx, "/device/browser/close", nil, nil)
}

func (c *Client) post(ctx context.Context, path string, body any, out any) error {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return fmt.Errorf("devicebridge: encode %s request: %w", path, err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, &buf)
	if err != nil {
		return fmt.Errorf("devicebridge: build %s request: %w", path, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("devicebridge: %s request: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("devicebridge: %s returned status %d", path, resp.StatusCode)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("devicebridge: decode %s response: %w", path, err)
	}
	return nil
}
