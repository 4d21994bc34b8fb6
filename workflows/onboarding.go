package workflows

import (
	"fmt"
	"time"

	"go.temporal.io/sdk/log"
	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	"snapbuy-seller-onboarding/shared"
)

// onboardingWorkflow holds the merchant-link state machine:
//
//	NotStarted → AwaitingURL → BrowserOpen → Completed
//
// with Failed(reason) reachable from AwaitingURL and BrowserOpen. While the
// browser is open, two independent channels may report completion — the
// intercepted webview navigation and the OS deep-link callback — in any
// order, possibly both. The linked guard is set synchronously when the first
// usable signal is accepted, before any commit activity runs, so only one
// commit ever happens.
type onboardingWorkflow struct {
	// Business state
	state     shared.OnboardingState
	reason    shared.FailureReason
	linked    bool
	accepted  shared.RedirectSignal
	dismissed bool
	timedOut  bool

	// Workflow context
	req       shared.OnboardingRequest
	timeout   time.Duration
	logger    log.Logger
	actCtx    workflow.Context
	storeCtx  workflow.Context
	navCh     workflow.ReceiveChannel
	deepCh    workflow.ReceiveChannel
	dismissCh workflow.ReceiveChannel
}

func newOnboardingWorkflow(ctx workflow.Context, req shared.OnboardingRequest) (*onboardingWorkflow, error) {
	timeout := shared.DefaultAbandonTimeout
	if req.AbandonTimeout > 0 {
		timeout = time.Duration(req.AbandonTimeout) * time.Second
	}

	w := &onboardingWorkflow{
		state:     shared.StateNotStarted,
		req:       req,
		timeout:   timeout,
		logger:    workflow.GetLogger(ctx),
		navCh:     workflow.GetSignalChannel(ctx, shared.SignalBrowserNavigation),
		deepCh:    workflow.GetSignalChannel(ctx, shared.SignalDeepLink),
		dismissCh: workflow.GetSignalChannel(ctx, shared.SignalBrowserDismissed),
	}

	err := workflow.SetQueryHandler(ctx, shared.QueryOnboardingStatus, func() (shared.OnboardingStatusResponse, error) {
		return shared.OnboardingStatusResponse{State: w.state, Reason: w.reason}, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to set query handler: %w", err)
	}

	// Provider and browser calls: one attempt, no automatic retries.
	w.actCtx = workflow.WithActivityOptions(ctx, workflow.ActivityOptions{
		TaskQueue:           shared.ActivityTaskQueue,
		StartToCloseTimeout: 30 * time.Second,
		RetryPolicy:         &temporal.RetryPolicy{MaximumAttempts: 1},
	})

	// Local account writes are idempotent, so transient store errors may be
	// retried.
	w.storeCtx = workflow.WithActivityOptions(ctx, workflow.ActivityOptions{
		TaskQueue:           shared.ActivityTaskQueue,
		StartToCloseTimeout: 10 * time.Second,
		RetryPolicy:         &temporal.RetryPolicy{MaximumAttempts: 3},
	})

	return w, nil
}

func (w *onboardingWorkflow) fail(reason shared.FailureReason) shared.OnboardingResult {
	w.state = shared.StateFailed
	w.reason = reason
	return shared.OnboardingResult{
		State:   shared.StateFailed,
		Reason:  reason,
		Message: shared.UserMessage(reason),
	}
}

// openBrowser drives NotStarted → AwaitingURL → BrowserOpen: marks the
// account in progress, fetches the partner-referral URL, and points the
// embedded browser at it.
func (w *onboardingWorkflow) openBrowser(ctx workflow.Context) error {
	if err := workflow.ExecuteActivity(w.storeCtx, a.BeginOnboarding, w.req.UserID).Get(ctx, nil); err != nil {
		return err
	}
	w.state = shared.StateAwaitingURL

	fetchReq := shared.FetchOnboardingURLRequest{UserID: w.req.UserID, TrackingID: w.req.TrackingID}
	var url string
	if err := workflow.ExecuteActivity(w.actCtx, a.FetchOnboardingURL, fetchReq).Get(ctx, &url); err != nil {
		return err
	}

	if err := workflow.ExecuteActivity(w.actCtx, a.OpenBrowser, url).Get(ctx, nil); err != nil {
		return err
	}
	w.state = shared.StateBrowserOpen
	w.logger.Info("Embedded browser open", "userId", w.req.UserID)
	return nil
}

// accept applies the deduplication invariant: only the first signal carrying
// a non-empty merchant id with permissions granted is honored. The guard is
// flipped here, synchronously with acceptance — no commit work has started
// yet when later signals get discarded.
func (w *onboardingWorkflow) accept(sig shared.RedirectSignal) {
	if w.linked {
		w.logger.Info("Ignoring duplicate completion signal",
			"source", sig.Source,
			"merchantId", sig.MerchantID,
		)
		return
	}
	if sig.MerchantID == "" || !sig.Granted {
		return
	}
	w.linked = true
	w.accepted = sig
	w.logger.Info("Completion signal accepted",
		"source", sig.Source,
		"merchantId", sig.MerchantID,
	)
}

// awaitCompletion listens on both redirect channels, the dismissal channel,
// and the abandonment timer while the browser is open.
func (w *onboardingWorkflow) awaitCompletion(ctx workflow.Context) {
	timerCtx, timerCancel := workflow.WithCancel(ctx)
	defer timerCancel()
	timer := workflow.NewTimer(timerCtx, w.timeout)

	receiveSignal := func(ch workflow.ReceiveChannel, more bool) {
		var sig shared.RedirectSignal
		ch.Receive(ctx, &sig)
		w.accept(sig)
	}

	for !w.linked && !w.dismissed && !w.timedOut {
		selector := workflow.NewSelector(ctx)
		selector.AddFuture(timer, func(f workflow.Future) {
			_ = f.Get(ctx, nil)
			w.timedOut = true
		})
		selector.AddReceive(w.navCh, receiveSignal)
		selector.AddReceive(w.deepCh, receiveSignal)
		selector.AddReceive(w.dismissCh, func(ch workflow.ReceiveChannel, more bool) {
			ch.Receive(ctx, nil)
			w.dismissed = true
		})
		selector.Select(ctx)
	}

	// Drain whatever the other channel delivered after acceptance.
	var sig shared.RedirectSignal
	for w.navCh.ReceiveAsync(&sig) {
	}
	for w.deepCh.ReceiveAsync(&sig) {
	}
}

// commit records the merchant link exactly once and closes the browser.
func (w *onboardingWorkflow) commit(ctx workflow.Context) error {
	commitReq := shared.CommitMerchantLinkRequest{
		UserID:     w.req.UserID,
		MerchantID: w.accepted.MerchantID,
		Source:     w.accepted.Source,
	}
	if err := workflow.ExecuteActivity(w.storeCtx, a.CommitMerchantLink, commitReq).Get(ctx, nil); err != nil {
		return err
	}

	if err := workflow.ExecuteActivity(w.actCtx, a.CloseBrowser).Get(ctx, nil); err != nil {
		// The link is committed; a browser that fails to close is not a
		// failed onboarding.
		w.logger.Error("Browser close failed after commit", "error", err)
	}

	w.state = shared.StateCompleted
	w.logger.Info("Merchant link committed",
		"userId", w.req.UserID,
		"merchantId", w.accepted.MerchantID,
		"source", w.accepted.Source,
	)
	return nil
}

// abandon handles dismissal and the abandonment timeout: the browser goes
// away, the account's attempt is marked failed, and the merchant fields are
// left unchanged so a re-attempt starts the whole flow again.
func (w *onboardingWorkflow) abandon(ctx workflow.Context) shared.OnboardingResult {
	if w.timedOut {
		w.logger.Info("Onboarding abandoned: no completion signal before deadline",
			"userId", w.req.UserID,
			"timeout", w.timeout,
		)
		if err := workflow.ExecuteActivity(w.actCtx, a.CloseBrowser).Get(ctx, nil); err != nil {
			w.logger.Error("Browser close failed on abandonment", "error", err)
		}
	} else {
		w.logger.Info("Onboarding abandoned: browser dismissed", "userId", w.req.UserID)
	}

	if err := workflow.ExecuteActivity(w.storeCtx, a.FailOnboarding, w.req.UserID).Get(ctx, nil); err != nil {
		w.logger.Error("Failed to mark onboarding failed", "userId", w.req.UserID, "error", err)
	}
	return w.fail(shared.ReasonAbandoned)
}

// MerchantOnboardingWorkflow links the user's PayPal merchant account. It
// fetches a partner-referral URL, opens the embedded browser, and waits for
// completion reported by either the intercepted webview navigation or the
// OS deep-link callback — whichever arrives first wins; the other is
// discarded. Dismissing the browser, or silence past the abandonment
// window, ends the attempt with Abandoned and no account change.
func MerchantOnboardingWorkflow(ctx workflow.Context, req shared.OnboardingRequest) (shared.OnboardingResult, error) {
	w, err := newOnboardingWorkflow(ctx, req)
	if err != nil {
		return shared.OnboardingResult{}, err
	}

	w.logger.Info("Merchant onboarding started", "userId", req.UserID, "trackingId", req.TrackingID)

	if err := w.openBrowser(ctx); err != nil {
		w.logger.Error("Could not open onboarding browser", "userId", req.UserID, "error", err)
		if ferr := workflow.ExecuteActivity(w.storeCtx, a.FailOnboarding, req.UserID).Get(ctx, nil); ferr != nil {
			w.logger.Error("Failed to mark onboarding failed", "userId", req.UserID, "error", ferr)
		}
		return w.fail(shared.ReasonCouldNotFetchURL), nil
	}

	w.awaitCompletion(ctx)

	if !w.linked {
		return w.abandon(ctx), nil
	}

	if err := w.commit(ctx); err != nil {
		w.logger.Error("Merchant link commit failed",
			"userId", req.UserID,
			"merchantId", w.accepted.MerchantID,
			"error", err,
		)
		return w.fail(shared.ReasonUnclassified), nil
	}

	return shared.OnboardingResult{
		State:      shared.StateCompleted,
		MerchantID: w.accepted.MerchantID,
	}, nil
}
