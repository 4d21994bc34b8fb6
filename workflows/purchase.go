package workflows

import (
	"fmt"
	"time"

	"go.temporal.io/sdk/log"
	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	"snapbuy-seller-onboarding/shared"
)

// purchaseWorkflow holds the upgrade purchase state machine:
//
//	Idle → OrderCreated → CheckoutPresented → Captured → Upgraded
//
// with Failed(reason) reachable from any non-terminal state. The durable
// account record is mutated exactly once, on the terminal success path.
type purchaseWorkflow struct {
	// Business state
	state  shared.PurchaseState
	reason shared.FailureReason
	order  shared.UpgradeOrder

	// Workflow context
	req         shared.PurchaseRequest
	logger      log.Logger
	providerCtx workflow.Context
	checkoutCtx workflow.Context
}

// newPurchaseWorkflow initializes the workflow struct, registers the status
// query handler, and prepares activity options. Provider-facing calls run
// with a single attempt: the purchase flow never retries automatically — a
// failed attempt is abandoned and the user re-invokes from idle.
func newPurchaseWorkflow(ctx workflow.Context, req shared.PurchaseRequest) (*purchaseWorkflow, error) {
	if req.Amount == "" {
		req.Amount = shared.UpgradeAmount
	}

	w := &purchaseWorkflow{
		state:  shared.PurchaseIdle,
		req:    req,
		logger: workflow.GetLogger(ctx),
	}

	err := workflow.SetQueryHandler(ctx, shared.QueryPurchaseStatus, func() (shared.PurchaseStatusResponse, error) {
		return shared.PurchaseStatusResponse{State: w.state, Reason: w.reason}, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to set query handler: %w", err)
	}

	w.providerCtx = workflow.WithActivityOptions(ctx, workflow.ActivityOptions{
		TaskQueue:           shared.ActivityTaskQueue,
		StartToCloseTimeout: 30 * time.Second,
		RetryPolicy:         &temporal.RetryPolicy{MaximumAttempts: 1},
	})

	// The checkout surface blocks until the user completes or cancels, so
	// it gets a much longer window than the API calls.
	w.checkoutCtx = workflow.WithActivityOptions(ctx, workflow.ActivityOptions{
		TaskQueue:           shared.ActivityTaskQueue,
		StartToCloseTimeout: 30 * time.Minute,
		RetryPolicy:         &temporal.RetryPolicy{MaximumAttempts: 1},
	})

	return w, nil
}

// fail records the terminal failure and builds the result. Every reason maps
// to its own user-facing message; the account record is untouched.
func (w *purchaseWorkflow) fail(reason shared.FailureReason) shared.PurchaseResult {
	w.state = shared.PurchaseFailed
	w.reason = reason
	w.order.Status = shared.OrderFailed
	return shared.PurchaseResult{
		State:   shared.PurchaseFailed,
		OrderID: w.order.OrderID,
		Reason:  reason,
		Message: shared.UserMessage(reason),
	}
}

// createOrder drives Idle → OrderCreated.
func (w *purchaseWorkflow) createOrder(ctx workflow.Context) error {
	createReq := shared.CreateOrderRequest{UserID: w.req.UserID, Amount: w.req.Amount}
	if err := workflow.ExecuteActivity(w.providerCtx, a.CreateOrder, createReq).Get(ctx, &w.order); err != nil {
		return err
	}
	w.state = shared.PurchaseOrderCreated
	w.logger.Info("Upgrade order created", "userId", w.req.UserID, "orderId", w.order.OrderID)
	return nil
}

// presentCheckout drives OrderCreated → CheckoutPresented and reports
// whether the user completed checkout.
func (w *purchaseWorkflow) presentCheckout(ctx workflow.Context) (bool, error) {
	w.state = shared.PurchaseCheckoutPresented
	w.order.Status = shared.OrderAwaitingCapture

	launchReq := shared.LaunchCheckoutRequest{OrderID: w.order.OrderID, FundingSource: w.req.FundingSource}
	var completed bool
	if err := workflow.ExecuteActivity(w.checkoutCtx, a.LaunchCheckout, launchReq).Get(ctx, &completed); err != nil {
		return false, err
	}
	return completed, nil
}

// captureOrder drives CheckoutPresented → Captured. The state guard keeps
// capture from being issued twice for one checkout completion even if this
// method were re-entered.
func (w *purchaseWorkflow) captureOrder(ctx workflow.Context) error {
	if w.state != shared.PurchaseCheckoutPresented {
		return fmt.Errorf("capture requested in state %s", w.state)
	}
	if err := workflow.ExecuteActivity(w.providerCtx, a.CaptureOrder, w.order.OrderID).Get(ctx, nil); err != nil {
		return err
	}
	w.state = shared.PurchaseCaptured
	w.order.Status = shared.OrderCaptured
	w.logger.Info("Payment captured", "userId", w.req.UserID, "orderId", w.order.OrderID)
	return nil
}

// UpgradePurchaseWorkflow executes the one-time seller-upgrade payment end
// to end: create the provider order, present checkout, capture the payment,
// then grant the premium entitlement and commit it to the account.
//
// Failure handling:
//   - order creation or capture failure abandons the attempt with the
//     network/provider classification; nothing was committed.
//   - checkout cancellation ends the attempt with UserCancelled; capture is
//     never called.
//   - a grant failure after capture is the partial-failure case: money may
//     have moved without the entitlement, so the result carries
//     PartialUpgradeFailure and its contact-support message, and is never
//     retried (retrying risks a double charge).
func UpgradePurchaseWorkflow(ctx workflow.Context, req shared.PurchaseRequest) (shared.PurchaseResult, error) {
	w, err := newPurchaseWorkflow(ctx, req)
	if err != nil {
		return shared.PurchaseResult{}, err
	}

	w.logger.Info("Upgrade purchase started", "userId", req.UserID, "amount", w.req.Amount)

	if err := w.createOrder(ctx); err != nil {
		w.logger.Error("Order creation failed", "userId", req.UserID, "error", err)
		return w.fail(classifyError(err)), nil
	}

	completed, err := w.presentCheckout(ctx)
	if err != nil {
		w.logger.Error("Checkout failed", "orderId", w.order.OrderID, "error", err)
		return w.fail(classifyError(err)), nil
	}
	if !completed {
		w.logger.Info("Checkout cancelled by user", "orderId", w.order.OrderID)
		return w.fail(shared.ReasonUserCancelled), nil
	}

	if err := w.captureOrder(ctx); err != nil {
		w.logger.Error("Capture failed", "orderId", w.order.OrderID, "error", err)
		return w.fail(classifyError(err)), nil
	}

	if err := workflow.ExecuteActivity(w.providerCtx, a.CommitUpgrade, w.req.UserID).Get(ctx, nil); err != nil {
		// Captured but not granted. Surface distinctly; do not retry.
		w.logger.Error("Premium grant failed after capture",
			"userId", req.UserID,
			"orderId", w.order.OrderID,
			"error", err,
		)
		return w.fail(shared.ReasonPartialUpgradeFailure), nil
	}

	w.state = shared.PurchaseUpgraded
	w.logger.Info("Seller upgrade complete", "userId", req.UserID, "orderId", w.order.OrderID)
	return shared.PurchaseResult{State: shared.PurchaseUpgraded, OrderID: w.order.OrderID}, nil
}
