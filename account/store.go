// Package account owns the durable AccountState record and the buyer/seller
// operating mode derived from it. All mutation flows through the orchestrator
// workflows' activities; the rest of the app reads it.
package account

import (
	"context"
	"errors"

	"snapbuy-seller-onboarding/shared"
)

var (
	// ErrNotFound is returned when no account exists for the user id.
	ErrNotFound = errors.New("account: not found")
	// ErrMerchantConflict is returned when a commit would overwrite an
	// already-linked, different merchant id.
	ErrMerchantConflict = errors.New("account: different merchant id already linked")
)

// Store is the contract for AccountState persistence. Implementations must
// keep the invariant that MerchantID is non-empty only when OnboardingStatus
// is OnboardingCompleted.
type Store interface {
	// Get returns the account record, or ErrNotFound.
	Get(ctx context.Context, userID string) (shared.AccountState, error)

	// Create inserts a fresh record on first login. Creating an existing
	// account is a no-op returning the stored record.
	Create(ctx context.Context, userID string) (shared.AccountState, error)

	// BeginOnboarding marks the merchant link as in progress.
	BeginOnboarding(ctx context.Context, userID string) error

	// CommitMerchantLink records the linked merchant id and completes
	// onboarding. Committing the same id again is a no-op; committing a
	// different id over a completed link returns ErrMerchantConflict.
	CommitMerchantLink(ctx context.Context, userID, merchantID string) error

	// FailOnboarding marks an in-progress attempt as failed. The merchant
	// fields are untouched; a completed link is never demoted.
	FailOnboarding(ctx context.Context, userID string) error

	// SetPremium grants the premium entitlement. Idempotent.
	SetPremium(ctx context.Context, userID string) error
}
