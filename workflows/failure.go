package workflows

import (
	"errors"

	"go.temporal.io/sdk/temporal"

	"snapbuy-seller-onboarding/shared"
)

// classifyError maps an activity error to the failure taxonomy. Typed
// application errors carry the provider-side classification; timeouts and
// transport failures are network errors. Anything else stays unclassified so
// it surfaces with the generic message instead of a misleading specific one.
func classifyError(err error) shared.FailureReason {
	var appErr *temporal.ApplicationError
	if errors.As(err, &appErr) {
		switch appErr.Type() {
		case shared.ErrTypeProviderRejected:
			return shared.ReasonProviderError
		case shared.ErrTypeOnboardingURLFailed:
			return shared.ReasonCouldNotFetchURL
		case shared.ErrTypePremiumGrantFailed:
			return shared.ReasonPartialUpgradeFailure
		}
		// Untyped errors out of an activity are transport-level failures;
		// provider rejections always carry one of the types above.
		return shared.ReasonNetworkError
	}

	var timeoutErr *temporal.TimeoutError
	if errors.As(err, &timeoutErr) {
		return shared.ReasonNetworkError
	}
	return shared.ReasonUnclassified
}
