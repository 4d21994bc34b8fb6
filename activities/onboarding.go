package activities

import (
	"context"

	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/temporal"

	"snapbuy-seller-onboarding/paypal"
	"snapbuy-seller-onboarding/shared"
)

// BeginOnboarding marks the merchant link as in progress on the durable
// account record.
func (a *Activities) BeginOnboarding(ctx context.Context, userID string) error {
	activity.GetLogger(ctx).Info("Marking onboarding in progress", "userId", userID)
	if _, err := a.Accounts.Create(ctx, userID); err != nil {
		return err
	}
	return a.Accounts.BeginOnboarding(ctx, userID)
}

// FetchOnboardingURL requests a partner-referral URL from the provider for
// the embedded browser to load.
func (a *Activities) FetchOnboardingURL(ctx context.Context, req shared.FetchOnboardingURLRequest) (string, error) {
	logger := activity.GetLogger(ctx)
	logger.Info("Fetching onboarding URL", "userId", req.UserID, "trackingId", req.TrackingID)

	url, err := a.Provider.FetchOnboardingURL(ctx, req.TrackingID, a.ReturnURL)
	if err != nil {
		if paypal.IsProviderError(err) {
			return "", temporal.NewNonRetryableApplicationError(
				"provider rejected referral request", shared.ErrTypeOnboardingURLFailed, err)
		}
		return "", err
	}
	logger.Info("Onboarding URL fetched", "userId", req.UserID)
	return url, nil
}

// OpenBrowser points the embedded browser at the onboarding URL.
func (a *Activities) OpenBrowser(ctx context.Context, url string) error {
	activity.GetLogger(ctx).Info("Opening embedded browser")
	return a.Browser.Open(ctx, url)
}

// CloseBrowser dismisses the embedded browser once onboarding completes.
func (a *Activities) CloseBrowser(ctx context.Context) error {
	activity.GetLogger(ctx).Info("Closing embedded browser")
	return a.Browser.Close(ctx)
}

// CommitMerchantLink records the linked merchant id and completes onboarding
// on the durable account. Idempotent for the same merchant id.
func (a *Activities) CommitMerchantLink(ctx context.Context, req shared.CommitMerchantLinkRequest) error {
	logger := activity.GetLogger(ctx)
	logger.Info("Committing merchant link",
		"userId", req.UserID,
		"merchantId", req.MerchantID,
		"source", req.Source,
	)
	return a.Accounts.CommitMerchantLink(ctx, req.UserID, req.MerchantID)
}

// FailOnboarding marks an in-progress attempt as failed. Completed links are
// never demoted.
func (a *Activities) FailOnboarding(ctx context.Context, userID string) error {
	activity.GetLogger(ctx).Info("Marking onboarding failed", "userId", userID)
	return a.Accounts.FailOnboarding(ctx, userID)
}
