package shared

// OnboardingStatus is the durable merchant-link status on the account record.
type OnboardingStatus string

const (
	OnboardingNotStarted OnboardingStatus = "NOT_STARTED"
	OnboardingInProgress OnboardingStatus = "IN_PROGRESS"
	OnboardingCompleted  OnboardingStatus = "COMPLETED"
	OnboardingFailed     OnboardingStatus = "FAILED"
)

// AccountState is the durable record for the current user. MerchantID is
// non-empty only when OnboardingStatus is OnboardingCompleted.
type AccountState struct {
	UserID           string           `json:"userId"`
	IsPremium        bool             `json:"isPremium"`
	MerchantID       string           `json:"merchantId,omitempty"`
	OnboardingStatus OnboardingStatus `json:"onboardingStatus"`
}

// OrderStatus is the lifecycle of a single upgrade payment attempt.
type OrderStatus string

const (
	OrderCreated         OrderStatus = "CREATED"
	OrderAwaitingCapture OrderStatus = "AWAITING_CAPTURE"
	OrderCaptured        OrderStatus = "CAPTURED"
	OrderFailed          OrderStatus = "FAILED"
)

// UpgradeOrder is ephemeral per purchase attempt; it is folded into
// AccountState.IsPremium on success and discarded otherwise.
type UpgradeOrder struct {
	OrderID string      `json:"orderId"`
	Amount  string      `json:"amount"`
	Status  OrderStatus `json:"status"`
}

// SignalSource identifies which channel observed a redirect URL.
type SignalSource string

const (
	SourceWebviewNavigation SignalSource = "WEBVIEW_NAVIGATION"
	SourceDeepLink          SignalSource = "DEEP_LINK"
)

// RedirectSignal is the parsed completion signal from an observed URL.
// Consumed at most once per onboarding attempt.
type RedirectSignal struct {
	Source     SignalSource `json:"source"`
	MerchantID string       `json:"merchantId"`
	Granted    bool         `json:"granted"`
}

// OperatingMode is the buyer/seller mode derived from AccountState.
type OperatingMode string

const (
	ModeBuyer  OperatingMode = "BUYER"
	ModeSeller OperatingMode = "SELLER"
)

// PurchaseState tracks the upgrade purchase state machine.
type PurchaseState string

const (
	PurchaseIdle              PurchaseState = "IDLE"
	PurchaseOrderCreated      PurchaseState = "ORDER_CREATED"
	PurchaseCheckoutPresented PurchaseState = "CHECKOUT_PRESENTED"
	PurchaseCaptured          PurchaseState = "CAPTURED"
	PurchaseUpgraded          PurchaseState = "UPGRADED"
	PurchaseFailed            PurchaseState = "FAILED"
)

// OnboardingState tracks the merchant-link state machine.
type OnboardingState string

const (
	StateNotStarted  OnboardingState = "NOT_STARTED"
	StateAwaitingURL OnboardingState = "AWAITING_URL"
	StateBrowserOpen OnboardingState = "BROWSER_OPEN"
	StateCompleted   OnboardingState = "COMPLETED"
	StateFailed      OnboardingState = "FAILED"
)

// FailureReason classifies a terminal failure of either flow. Every reason
// maps to its own user-facing message; ReasonUnclassified alone gets the
// generic one.
type FailureReason string

const (
	ReasonNone                  FailureReason = ""
	ReasonNetworkError          FailureReason = "NETWORK_ERROR"
	ReasonProviderError         FailureReason = "PROVIDER_ERROR"
	ReasonUserCancelled         FailureReason = "USER_CANCELLED"
	ReasonCouldNotFetchURL      FailureReason = "COULD_NOT_FETCH_URL"
	ReasonAbandoned             FailureReason = "ABANDONED"
	ReasonPartialUpgradeFailure FailureReason = "PARTIAL_UPGRADE_FAILURE"
	ReasonUnclassified          FailureReason = "UNCLASSIFIED"
)

// UserMessage maps a failure reason to the message shown to the user.
// ReasonPartialUpgradeFailure must never be presented as a generic failure:
// the payment may have been captured without the entitlement being granted.
func UserMessage(r FailureReason) string {
	switch r {
	case ReasonNone:
		return ""
	case ReasonNetworkError:
		return "We couldn't reach the payment service. Check your connection and try again."
	case ReasonProviderError:
		return "The payment provider rejected the request. Please try again later."
	case ReasonUserCancelled:
		return "Checkout was cancelled. You have not been charged."
	case ReasonCouldNotFetchURL:
		return "We couldn't start PayPal onboarding. Please try again."
	case ReasonAbandoned:
		return "Onboarding was not completed. Start again when you're ready."
	case ReasonPartialUpgradeFailure:
		return "Your payment went through but the upgrade could not be applied. Please contact support — do not pay again."
	default:
		return "Something went wrong. Please try again."
	}
}

// PurchaseRequest is the input to UpgradePurchaseWorkflow.
type PurchaseRequest struct {
	UserID        string `json:"userId"`
	Amount        string `json:"amount"`
	FundingSource string `json:"fundingSource"`
}

// PurchaseResult is the terminal outcome of a purchase attempt.
type PurchaseResult struct {
	State   PurchaseState `json:"state"`
	OrderID string        `json:"orderId,omitempty"`
	Reason  FailureReason `json:"reason,omitempty"`
	Message string        `json:"message,omitempty"`
}

// PurchaseStatusResponse is returned by the purchase query handler.
type PurchaseStatusResponse struct {
	State  PurchaseState `json:"state"`
	Reason FailureReason `json:"reason,omitempty"`
}

// OnboardingRequest is the input to MerchantOnboardingWorkflow.
type OnboardingRequest struct {
	UserID         string `json:"userId"`
	TrackingID     string `json:"trackingId"`
	AbandonTimeout int64  `json:"abandonTimeoutSeconds,omitempty"`
}

// OnboardingResult is the terminal outcome of an onboarding attempt.
type OnboardingResult struct {
	State      OnboardingState `json:"state"`
	MerchantID string          `json:"merchantId,omitempty"`
	Reason     FailureReason   `json:"reason,omitempty"`
	Message    string          `json:"message,omitempty"`
}

// OnboardingStatusResponse is returned by the onboarding query handler.
type OnboardingStatusResponse struct {
	State  OnboardingState `json:"state"`
	Reason FailureReason   `json:"reason,omitempty"`
}

// CreateOrderRequest is the input to the CreateOrder activity.
type CreateOrderRequest struct {
	UserID string `json:"userId"`
	Amount string `json:"amount"`
}

// LaunchCheckoutRequest is the input to the LaunchCheckout activity.
type LaunchCheckoutRequest struct {
	OrderID       string `json:"orderId"`
	FundingSource string `json:"fundingSource"`
}

// FetchOnboardingURLRequest is the input to the FetchOnboardingURL activity.
type FetchOnboardingURLRequest struct {
	UserID     string `json:"userId"`
	TrackingID string `json:"trackingId"`
}

// CommitMerchantLinkRequest is the input to the CommitMerchantLink activity.
type CommitMerchantLinkRequest struct {
	UserID     string       `json:"userId"`
	MerchantID string       `json:"merchantId"`
	Source     SignalSource `json:"source"`
}
