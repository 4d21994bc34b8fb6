package shared

import "time"

// Task queue names.
const (
	OrchestratorTaskQueue = "seller-onboarding-workflow-tq"
	ActivityTaskQueue     = "seller-onboarding-activity-tq"
)

// Signal and query names.
const (
	SignalBrowserNavigation = "signal-browser-navigation"
	SignalDeepLink          = "signal-deep-link"
	SignalBrowserDismissed  = "signal-browser-dismissed"
	QueryPurchaseStatus     = "query-purchase-status"
	QueryOnboardingStatus   = "query-onboarding-status"
)

// Deep-link scheme and query parameters delivered by the OS callback.
const (
	DeepLinkScheme          = "snapbuy"
	ParamMerchantID         = "merchantIdInPayPal"
	ParamPermissionsGranted = "permissionsGranted"
)

// Completion markers observed in the embedded browser's navigation URLs.
// A navigation is completion-bearing when its path carries one of these.
const (
	MarkerAfterLogin    = "after-login"
	MarkerReturnPartner = "returnToPartner"
	MarkerSetupComplete = "setup-complete"
)

// DefaultAbandonTimeout bounds how long an onboarding attempt waits for a
// completion signal before it is treated as abandoned.
const DefaultAbandonTimeout = 15 * time.Minute

// UpgradeAmount is the fixed one-time seller-upgrade price.
const UpgradeAmount = "99.00"

// Error types for non-retryable failures.
const (
	ErrTypeProviderRejected    = "ProviderRejected"
	ErrTypePremiumGrantFailed  = "PremiumGrantFailed"
	ErrTypeOnboardingURLFailed = "OnboardingURLFailed"
)
