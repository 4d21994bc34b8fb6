package workflows_test

import (
	"context"
	"errors"
	"sync"

	"snapbuy-seller-onboarding/account"
	"snapbuy-seller-onboarding/activities"
	"snapbuy-seller-onboarding/shared"
)

// fakeProvider implements activities.PaymentProvider and records calls.
type fakeProvider struct {
	mu sync.Mutex

	orderID      string
	createErr    error
	captureErr   error
	captureCalls int

	onboardingURL string
	referralErr   error
}

func (f *fakeProvider) CreateOrder(context.Context, string) (string, error) {
	if f.createErr != nil {
		return "", f.createErr
	}
	return f.orderID, nil
}

func (f *fakeProvider) CaptureOrder(context.Context, string) error {
	f.mu.Lock()
	f.captureCalls++
	f.mu.Unlock()
	return f.captureErr
}

func (f *fakeProvider) FetchOnboardingURL(context.Context, string, string) (string, error) {
	if f.referralErr != nil {
		return "", f.referralErr
	}
	return f.onboardingURL, nil
}

func (f *fakeProvider) captures() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.captureCalls
}

// fakeUsers implements activities.UserService.
type fakeUsers struct {
	grantErr error
}

func (f *fakeUsers) GrantPremium(context.Context, string) error { return f.grantErr }

// fakeCheckout implements activities.CheckoutSurface.
type fakeCheckout struct {
	completed bool
	err       error
}

func (f *fakeCheckout) LaunchCheckout(context.Context, string, string) (bool, error) {
	return f.completed, f.err
}

// fakeBrowser implements activities.BrowserSurface.
type fakeBrowser struct {
	mu          sync.Mutex
	openCalls   int
	closeCalls  int
	lastOpenURL string
}

func (f *fakeBrowser) Open(_ context.Context, url string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.openCalls++
	f.lastOpenURL = url
	return nil
}

func (f *fakeBrowser) Close(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closeCalls++
	return nil
}

// countingStore wraps the in-memory store and counts merchant-link commits.
type countingStore struct {
	account.Store

	mu      sync.Mutex
	commits []string
}

func newCountingStore() *countingStore {
	return &countingStore{Store: account.NewMemoryStore()}
}

func (s *countingStore) CommitMerchantLink(ctx context.Context, userID, merchantID string) error {
	s.mu.Lock()
	s.commits = append(s.commits, merchantID)
	s.mu.Unlock()
	return s.Store.CommitMerchantLink(ctx, userID, merchantID)
}

func (s *countingStore) committed() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.commits...)
}

var errNetwork = errors.New("connection reset by peer")

func newFakeActivities() (*activities.Activities, *fakeProvider, *fakeUsers, *fakeCheckout, *fakeBrowser, *countingStore) {
	provider := &fakeProvider{orderID: "O1", onboardingURL: "https://www.paypal.com/merchantsignup/partner/entry"}
	users := &fakeUsers{}
	checkout := &fakeCheckout{completed: true}
	browser := &fakeBrowser{}
	store := newCountingStore()

	a := &activities.Activities{
		Provider:  provider,
		Users:     users,
		Accounts:  store,
		Checkout:  checkout,
		Browser:   browser,
		ReturnURL: "https://snapbuy.example.com/paypal/returnToPartner",
	}
	return a, provider, users, checkout, browser, store
}

func mustAccount(store account.Store, userID string) shared.AccountState {
	acct, err := store.Get(context.Background(), userID)
	if err != nil {
		return shared.AccountState{}
	}
	return acct
}
