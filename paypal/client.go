// Package paypal is the client for the external payment provider: order
// creation and capture for the upgrade fee, and partner-referral URLs for
// merchant onboarding.
package paypal

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

// ProviderError is a business-logic rejection from the provider, as opposed
// to a transport failure.
type ProviderError struct {
	Status int
	Body   string
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("paypal: provider rejected request (status %d): %s", e.Status, e.Body)
}

// IsProviderError reports whether err is a provider-side rejection. Anything
// else returned by this package is a transport-level network error.
func IsProviderError(err error) bool {
	var pe *ProviderError
	return errors.As(err, &pe)
}

// Client talks to the PayPal REST API.
type Client struct {
	http *resty.Client
}

// NewClient builds a client for the given API base URL using client
// credentials. No automatic retries: order and capture calls must be issued
// exactly once per attempt.
func NewClient(baseURL, clientID, secret string) *Client {
	httpClient := resty.New().
		SetBaseURL(baseURL).
		SetBasicAuth(clientID, secret).
		SetTimeout(30 * time.Second).
		SetHeader("Content-Type", "application/json")
	return &Client{http: httpClient}
}

type orderResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

// CreateOrder creates a one-time order for the given amount and returns the
// provider-assigned order id.
func (c *Client) CreateOrder(ctx context.Context, amount string) (string, error) {
	body := map[string]any{
		"intent": "CAPTURE",
		"purchase_units": []map[string]any{
			{"amount": map[string]string{"currency_code": "USD", "value": amount}},
		},
	}

	var out orderResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(body).
		SetResult(&out).
		Post("/v2/checkout/orders")
	if err != nil {
		return "", fmt.Errorf("paypal: create order: %w", err)
	}
	if resp.IsError() {
		return "", &ProviderError{Status: resp.StatusCode(), Body: resp.String()}
	}
	if out.ID == "" {
		return "", &ProviderError{Status: resp.StatusCode(), Body: "order response missing id"}
	}
	return out.ID, nil
}

// CaptureOrder finalizes a previously approved order. The server side is
// idempotent; callers still guard against double invocation.
func (c *Client) CaptureOrder(ctx context.Context, orderID string) error {
	var out orderResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody("{}").
		SetResult(&out).
		Post(fmt.Sprintf("/v2/checkout/orders/%s/capture", orderID))
	if err != nil {
		return fmt.Errorf("paypal: capture order %s: %w", orderID, err)
	}
	if resp.IsError() {
		return &ProviderError{Status: resp.StatusCode(), Body: resp.String()}
	}
	if out.Status != "COMPLETED" {
		return &ProviderError{Status: resp.StatusCode(), Body: fmt.Sprintf("capture status %q", out.Status)}
	}
	return nil
}

type referralResponse struct {
	Links []struct {
		Href string `json:"href"`
		Rel  string `json:"rel"`
	} `json:"links"`
}

// FetchOnboardingURL creates a partner referral for the seller and returns
// the action URL the embedded browser should load. returnURL is where the
// provider redirects once the seller finishes granting permissions.
func (c *Client) FetchOnboardingURL(ctx context.Context, trackingID, returnURL string) (string, error) {
	body := map[string]any{
		"tracking_id": trackingID,
		"operations": []map[string]any{
			{"operation": "API_INTEGRATION"},
		},
		"products": []string{"EXPRESS_CHECKOUT"},
		"legal_consents": []map[string]any{
			{"type": "SHARE_DATA_CONSENT", "granted": true},
		},
		"partner_config_override": map[string]string{
			"return_url": returnURL,
		},
	}

	var out referralResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(body).
		SetResult(&out).
		Post("/v2/customer/partner-referrals")
	if err != nil {
		return "", fmt.Errorf("paypal: partner referral: %w", err)
	}
	if resp.IsError() {
		return "", &ProviderError{Status: resp.StatusCode(), Body: resp.String()}
	}
	for _, link := range out.Links {
		if link.Rel == "action_url" {
			return link.Href, nil
		}
	}
	return "", &ProviderError{Status: resp.StatusCode(), Body: "referral response missing action_url"}
}
