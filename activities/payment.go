package activities

import (
	"context"

	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/temporal"

	"snapbuy-seller-onboarding/paypal"
	"snapbuy-seller-onboarding/shared"
)

// CreateOrder asks the provider to create the one-time upgrade order.
// Provider rejections are non-retryable: the whole attempt is abandoned and
// the user must start over from idle.
func (a *Activities) CreateOrder(ctx context.Context, req shared.CreateOrderRequest) (shared.UpgradeOrder, error) {
	logger := activity.GetLogger(ctx)
	logger.Info("Creating upgrade order", "userId", req.UserID, "amount", req.Amount)

	orderID, err := a.Provider.CreateOrder(ctx, req.Amount)
	if err != nil {
		if paypal.IsProviderError(err) {
			return shared.UpgradeOrder{}, temporal.NewNonRetryableApplicationError(
				"provider rejected order creation", shared.ErrTypeProviderRejected, err)
		}
		return shared.UpgradeOrder{}, err
	}

	logger.Info("Upgrade order created", "orderId", orderID)
	return shared.UpgradeOrder{
		OrderID: orderID,
		Amount:  req.Amount,
		Status:  shared.OrderCreated,
	}, nil
}

// LaunchCheckout hands the order to the external checkout surface and blocks
// until the user completes or cancels. completed == false with a nil error
// is user cancellation, not a failure.
func (a *Activities) LaunchCheckout(ctx context.Context, req shared.LaunchCheckoutRequest) (bool, error) {
	logger := activity.GetLogger(ctx)
	logger.Info("Presenting checkout", "orderId", req.OrderID, "fundingSource", req.FundingSource)

	completed, err := a.Checkout.LaunchCheckout(ctx, req.OrderID, req.FundingSource)
	if err != nil {
		return false, err
	}
	logger.Info("Checkout finished", "orderId", req.OrderID, "completed", completed)
	return completed, nil
}

// CaptureOrder finalizes the authorized payment with the provider.
func (a *Activities) CaptureOrder(ctx context.Context, orderID string) error {
	logger := activity.GetLogger(ctx)
	logger.Info("Capturing order", "orderId", orderID)

	if err := a.Provider.CaptureOrder(ctx, orderID); err != nil {
		if paypal.IsProviderError(err) {
			return temporal.NewNonRetryableApplicationError(
				"provider rejected capture", shared.ErrTypeProviderRejected, err)
		}
		return err
	}
	logger.Info("Order captured", "orderId", orderID)
	return nil
}

// CommitUpgrade grants the premium entitlement through the user service and,
// only on success, records it on the durable account. A failure here after a
// successful capture is the partial-failure case the workflow must surface
// with the contact-support message; the account is left untouched.
func (a *Activities) CommitUpgrade(ctx context.Context, userID string) error {
	logger := activity.GetLogger(ctx)
	logger.Info("Committing premium upgrade", "userId", userID)

	if err := a.Users.GrantPremium(ctx, userID); err != nil {
		logger.Error("Premium grant failed after capture", "userId", userID, "error", err)
		return temporal.NewNonRetryableApplicationError(
			"premium grant failed", shared.ErrTypePremiumGrantFailed, err)
	}

	if _, err := a.Accounts.Create(ctx, userID); err != nil {
		logger.Error("Account lookup failed after grant", "userId", userID, "error", err)
		return temporal.NewNonRetryableApplicationError(
			"premium account write failed", shared.ErrTypePremiumGrantFailed, err)
	}
	if err := a.Accounts.SetPremium(ctx, userID); err != nil {
		logger.Error("Account premium write failed after grant", "userId", userID, "error", err)
		return temporal.NewNonRetryableApplicationError(
			"premium account write failed", shared.ErrTypePremiumGrantFailed, err)
	}

	logger.Info("Premium upgrade committed", "userId", userID)
	return nil
}
