package account

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"snapbuy-seller-onboarding/shared"
)

func premiumStore(t *testing.T, userID string, premium bool) *MemoryStore {
	t.Helper()
	store := NewMemoryStore()
	_, err := store.Create(context.Background(), userID)
	assert.NoError(t, err)
	if premium {
		assert.NoError(t, store.SetPremium(context.Background(), userID))
	}
	return store
}

func TestModeController_InitialMode(t *testing.T) {
	ctx := context.Background()

	ctl, err := NewModeController(ctx, premiumStore(t, "U1", false), "U1")
	assert.NoError(t, err)
	assert.Equal(t, shared.ModeBuyer, ctl.Current())

	ctl, err = NewModeController(ctx, premiumStore(t, "U1", true), "U1")
	assert.NoError(t, err)
	assert.Equal(t, shared.ModeSeller, ctl.Current())

	// No account record yet: buyer.
	ctl, err = NewModeController(ctx, NewMemoryStore(), "U1")
	assert.NoError(t, err)
	assert.Equal(t, shared.ModeBuyer, ctl.Current())
}

func TestSwitchMode_NonPremium_ForcedBuyer(t *testing.T) {
	ctx := context.Background()
	store := premiumStore(t, "U1", false)

	// Whatever the prior mode is, a non-premium switch lands on buyer and
	// reports no error.
	for _, prior := range []shared.OperatingMode{shared.ModeBuyer, shared.ModeSeller} {
		ctl, err := NewModeController(ctx, store, "U1")
		assert.NoError(t, err)
		ctl.mode = prior

		mode, err := ctl.SwitchMode(ctx)
		assert.NoError(t, err)
		assert.Equal(t, shared.ModeBuyer, mode)
		assert.Equal(t, shared.ModeBuyer, ctl.Current())
	}
}

func TestSwitchMode_Premium_Toggles(t *testing.T) {
	ctx := context.Background()
	ctl, err := NewModeController(ctx, premiumStore(t, "U1", true), "U1")
	assert.NoError(t, err)
	assert.Equal(t, shared.ModeSeller, ctl.Current())

	mode, err := ctl.SwitchMode(ctx)
	assert.NoError(t, err)
	assert.Equal(t, shared.ModeBuyer, mode)

	mode, err = ctl.SwitchMode(ctx)
	assert.NoError(t, err)
	assert.Equal(t, shared.ModeSeller, mode)
}

func TestSwitchMode_PremiumGrantedMidSession(t *testing.T) {
	ctx := context.Background()
	store := premiumStore(t, "U1", false)
	ctl, err := NewModeController(ctx, store, "U1")
	assert.NoError(t, err)

	mode, err := ctl.SwitchMode(ctx)
	assert.NoError(t, err)
	assert.Equal(t, shared.ModeBuyer, mode)

	// The upgrade lands; the next switch reads the durable record.
	assert.NoError(t, store.SetPremium(ctx, "U1"))
	mode, err = ctl.SwitchMode(ctx)
	assert.NoError(t, err)
	assert.Equal(t, shared.ModeSeller, mode)
}

func TestModeController_Observers(t *testing.T) {
	ctx := context.Background()
	ctl, err := NewModeController(ctx, premiumStore(t, "U1", true), "U1")
	assert.NoError(t, err)

	var seen []shared.OperatingMode
	ctl.OnChange(func(m shared.OperatingMode) { seen = append(seen, m) })

	_, err = ctl.SwitchMode(ctx)
	assert.NoError(t, err)
	_, err = ctl.SwitchMode(ctx)
	assert.NoError(t, err)
	assert.Equal(t, []shared.OperatingMode{shared.ModeBuyer, shared.ModeSeller}, seen)

	// Refresh to the same mode is not a change.
	assert.NoError(t, ctl.Refresh(ctx))
	assert.Len(t, seen, 2)
}
