package account

import (
	"context"
	"sync"

	"snapbuy-seller-onboarding/shared"
)

// MemoryStore is an in-memory Store for tests and local development.
type MemoryStore struct {
	mu       sync.Mutex
	accounts map[string]shared.AccountState
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{accounts: make(map[string]shared.AccountState)}
}

func (s *MemoryStore) Get(_ context.Context, userID string) (shared.AccountState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	acct, ok := s.accounts[userID]
	if !ok {
		return shared.AccountState{}, ErrNotFound
	}
	return acct, nil
}

func (s *MemoryStore) Create(_ context.Context, userID string) (shared.AccountState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if acct, ok := s.accounts[userID]; ok {
		return acct, nil
	}
	acct := shared.AccountState{
		UserID:           userID,
		OnboardingStatus: shared.OnboardingNotStarted,
	}
	s.accounts[userID] = acct
	return acct, nil
}

func (s *MemoryStore) BeginOnboarding(_ context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	acct, ok := s.accounts[userID]
	if !ok {
		return ErrNotFound
	}
	if acct.OnboardingStatus == shared.OnboardingCompleted {
		return nil
	}
	acct.OnboardingStatus = shared.OnboardingInProgress
	s.accounts[userID] = acct
	return nil
}

func (s *MemoryStore) CommitMerchantLink(_ context.Context, userID, merchantID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	acct, ok := s.accounts[userID]
	if !ok {
		return ErrNotFound
	}
	if acct.OnboardingStatus == shared.OnboardingCompleted {
		if acct.MerchantID == merchantID {
			return nil
		}
		return ErrMerchantConflict
	}
	acct.MerchantID = merchantID
	acct.OnboardingStatus = shared.OnboardingCompleted
	s.accounts[userID] = acct
	return nil
}

func (s *MemoryStore) FailOnboarding(_ context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	acct, ok := s.accounts[userID]
	if !ok {
		return ErrNotFound
	}
	if acct.OnboardingStatus != shared.OnboardingInProgress {
		return nil
	}
	acct.OnboardingStatus = shared.OnboardingFailed
	s.accounts[userID] = acct
	return nil
}

func (s *MemoryStore) SetPremium(_ context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	acct, ok := s.accounts[userID]
	if !ok {
		return ErrNotFound
	}
	acct.IsPremium = true
	s.accounts[userID] = acct
	return nil
}
