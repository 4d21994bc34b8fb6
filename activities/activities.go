package activities

import (
	"context"

	"snapbuy-seller-onboarding/account"
)

// PaymentProvider is the external payment provider contract consumed by the
// orchestrators. Implemented by paypal.Client.
type PaymentProvider interface {
	CreateOrder(ctx context.Context, amount string) (string, error)
	CaptureOrder(ctx context.Context, orderID string) error
	FetchOnboardingURL(ctx context.Context, trackingID, returnURL string) (string, error)
}

// UserService is the marketplace user-service contract. Implemented by
// userapi.Client.
type UserService interface {
	GrantPremium(ctx context.Context, userID string) error
}

// CheckoutSurface hands an order to the external checkout UI and blocks
// until the user completes or cancels. Cancellation is completed == false
// with a nil error.
type CheckoutSurface interface {
	LaunchCheckout(ctx context.Context, orderID, fundingSource string) (bool, error)
}

// BrowserSurface controls the embedded browser presented to the user during
// merchant onboarding. Navigation events it observes flow back to the
// orchestrator through the gateway, not through this interface.
type BrowserSurface interface {
	Open(ctx context.Context, url string) error
	Close(ctx context.Context) error
}

// Activities is the receiver for all activity methods. Using a struct lets
// Temporal register every method at once and lets us inject the provider
// client, user-service client, account store, and device surfaces. Tests
// swap in fakes through the same fields.
type Activities struct {
	Provider PaymentProvider
	Users    UserService
	Accounts account.Store
	Checkout CheckoutSurface
	Browser  BrowserSurface

	// ReturnURL is where the provider redirects the seller when the
	// permission-grant flow finishes.
	ReturnURL string
}
