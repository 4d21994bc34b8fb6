package account

import (
	"context"
	"errors"
	"sync"

	"snapbuy-seller-onboarding/shared"
)

// ModeController exposes the current buyer/seller operating mode for one
// user's session. The mode is derived from AccountState.IsPremium at session
// start and then held in memory; it is never independently persisted.
type ModeController struct {
	store  Store
	userID string

	mu        sync.Mutex
	mode      shared.OperatingMode
	observers []func(shared.OperatingMode)
}

// NewModeController computes the initial mode from the stored account:
// Seller if premium, Buyer otherwise (including when no record exists yet).
func NewModeController(ctx context.Context, store Store, userID string) (*ModeController, error) {
	c := &ModeController{store: store, userID: userID, mode: shared.ModeBuyer}
	if err := c.Refresh(ctx); err != nil {
		return nil, err
	}
	return c, nil
}

// Refresh recomputes the mode from the durable record, as done at session
// start or after the upgrade purchase completes.
func (c *ModeController) Refresh(ctx context.Context) error {
	acct, err := c.store.Get(ctx, c.userID)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return err
	}
	mode := shared.ModeBuyer
	if acct.IsPremium {
		mode = shared.ModeSeller
	}
	c.set(mode)
	return nil
}

// Current returns the mode in effect.
func (c *ModeController) Current() shared.OperatingMode {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.mode
}

// SwitchMode toggles between buyer and seller mode. Non-premium users are
// forced to buyer mode; that is a silent refusal, not an error — only
// premium sellers may use seller mode.
func (c *ModeController) SwitchMode(ctx context.Context) (shared.OperatingMode, error) {
	acct, err := c.store.Get(ctx, c.userID)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return c.Current(), err
	}
	if !acct.IsPremium {
		c.set(shared.ModeBuyer)
		return shared.ModeBuyer, nil
	}

	c.mu.Lock()
	next := shared.ModeSeller
	if c.mode == shared.ModeSeller {
		next = shared.ModeBuyer
	}
	c.mu.Unlock()
	c.set(next)
	return next, nil
}

// OnChange registers an observer notified on every mode change.
func (c *ModeController) OnChange(fn func(shared.OperatingMode)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.observers = append(c.observers, fn)
}

func (c *ModeController) set(mode shared.OperatingMode) {
	c.mu.Lock()
	changed := c.mode != mode
	c.mode = mode
	observers := c.observers
	c.mu.Unlock()
	if !changed {
		return
	}
	for _, fn := range observers {
		fn(mode)
	}
}
