package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/converter"

	"snapbuy-seller-onboarding/account"
	"snapbuy-seller-onboarding/shared"
)

const testAPIKey = "test-key"

type signalRecord struct {
	WorkflowID string
	Name       string
	Arg        interface{}
}

type fakeTemporal struct {
	mu       sync.Mutex
	started  []string
	signals  []signalRecord
	queryVal interface{}
	queryErr error
}

type fakeRun struct{ id string }

func (r fakeRun) GetID() string                         { return r.id }
func (r fakeRun) GetRunID() string                      { return "run-1" }
func (r fakeRun) Get(context.Context, interface{}) error { return nil }
func (r fakeRun) GetWithOptions(context.Context, interface{}, client.WorkflowRunGetOptions) error {
	return nil
}

type fakeEncodedValue struct{ v interface{} }

func (f fakeEncodedValue) HasValue() bool { return f.v != nil }
func (f fakeEncodedValue) Get(valuePtr interface{}) error {
	b, err := json.Marshal(f.v)
	if err != nil {
		return err
	}
	return json.Unmarshal(b, valuePtr)
}

func (f *fakeTemporal) ExecuteWorkflow(_ context.Context, options client.StartWorkflowOptions, _ interface{}, _ ...interface{}) (client.WorkflowRun, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.started = append(f.started, options.ID)
	return fakeRun{id: options.ID}, nil
}

func (f *fakeTemporal) SignalWorkflow(_ context.Context, workflowID, _ string, signalName string, arg interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.signals = append(f.signals, signalRecord{WorkflowID: workflowID, Name: signalName, Arg: arg})
	return nil
}

func (f *fakeTemporal) QueryWorkflow(context.Context, string, string, string, ...interface{}) (converter.EncodedValue, error) {
	if f.queryErr != nil {
		return nil, f.queryErr
	}
	return fakeEncodedValue{v: f.queryVal}, nil
}

func newTestServer(t *testing.T) (*fakeTemporal, *account.MemoryStore, http.Handler) {
	t.Helper()
	tc := &fakeTemporal{}
	store := account.NewMemoryStore()
	return tc, store, NewServer(tc, store, testAPIKey).Router()
}

func doJSON(t *testing.T, h http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		assert.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("X-Internal-Api-Key", testAPIKey)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestRouter_RejectsMissingAPIKey(t *testing.T) {
	_, _, h := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/v1/mode/U1", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestStartPurchase_CreatesAccountAndWorkflow(t *testing.T) {
	tc, store, h := newTestServer(t)

	rec := doJSON(t, h, http.MethodPost, "/v1/purchase", map[string]string{"userId": "U1"})
	assert.Equal(t, http.StatusAccepted, rec.Code)

	var resp map[string]string
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "upgrade-U1", resp["workflowId"])
	assert.Equal(t, []string{"upgrade-U1"}, tc.started)

	_, err := store.Get(context.Background(), "U1")
	assert.NoError(t, err)
}

func TestStartPurchase_MissingUserID(t *testing.T) {
	_, _, h := newTestServer(t)
	rec := doJSON(t, h, http.MethodPost, "/v1/purchase", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestNavigation_OrdinaryLoad_AllowedWithoutSignal(t *testing.T) {
	tc, _, h := newTestServer(t)

	rec := doJSON(t, h, http.MethodPost, "/v1/onboarding/U1/navigation",
		map[string]string{"url": "https://www.paypal.com/signin"})
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp navigationResponse
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Allow)
	assert.False(t, resp.CompletionBearing)
	assert.Empty(t, tc.signals)
}

func TestNavigation_CompletionBearing_Signalled(t *testing.T) {
	tc, _, h := newTestServer(t)

	rec := doJSON(t, h, http.MethodPost, "/v1/onboarding/U1/navigation",
		map[string]string{"url": "https://www.paypal.com/merchantsignup/after-login?merchantIdInPayPal=M123"})
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp navigationResponse
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Allow)
	assert.True(t, resp.CompletionBearing)

	assert.Len(t, tc.signals, 1)
	assert.Equal(t, "onboard-U1", tc.signals[0].WorkflowID)
	assert.Equal(t, shared.SignalBrowserNavigation, tc.signals[0].Name)
	sig := tc.signals[0].Arg.(shared.RedirectSignal)
	assert.Equal(t, "M123", sig.MerchantID)
	assert.Equal(t, shared.SourceWebviewNavigation, sig.Source)
}

func TestDeepLink_Signalled(t *testing.T) {
	tc, _, h := newTestServer(t)

	rec := doJSON(t, h, http.MethodPost, "/v1/onboarding/U1/deeplink",
		map[string]string{"url": "snapbuy://return?merchantIdInPayPal=M123&permissionsGranted=true"})
	assert.Equal(t, http.StatusOK, rec.Code)

	assert.Len(t, tc.signals, 1)
	assert.Equal(t, shared.SignalDeepLink, tc.signals[0].Name)
	sig := tc.signals[0].Arg.(shared.RedirectSignal)
	assert.Equal(t, "M123", sig.MerchantID)
	assert.True(t, sig.Granted)
	assert.Equal(t, shared.SourceDeepLink, sig.Source)
}

func TestDeepLink_WithoutMerchantID_Unprocessable(t *testing.T) {
	tc, _, h := newTestServer(t)

	rec := doJSON(t, h, http.MethodPost, "/v1/onboarding/U1/deeplink",
		map[string]string{"url": "snapbuy://return?permissionsGranted=true"})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Empty(t, tc.signals)
}

func TestDismissed_Signalled(t *testing.T) {
	tc, _, h := newTestServer(t)

	rec := doJSON(t, h, http.MethodPost, "/v1/onboarding/U1/dismissed", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, tc.signals, 1)
	assert.Equal(t, shared.SignalBrowserDismissed, tc.signals[0].Name)
}

func TestOnboardingStatus_QueryPassthrough(t *testing.T) {
	tc, _, h := newTestServer(t)
	tc.queryVal = shared.OnboardingStatusResponse{State: shared.StateBrowserOpen}

	rec := doJSON(t, h, http.MethodGet, "/v1/onboarding/U1", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	var status shared.OnboardingStatusResponse
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
	assert.Equal(t, shared.StateBrowserOpen, status.State)
}

func TestAccount_NotFound(t *testing.T) {
	_, _, h := newTestServer(t)
	rec := doJSON(t, h, http.MethodGet, "/v1/account/U1", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestModeEndpoints(t *testing.T) {
	_, store, h := newTestServer(t)
	_, err := store.Create(context.Background(), "U1")
	assert.NoError(t, err)

	// Not premium: switching still lands on buyer.
	rec := doJSON(t, h, http.MethodPost, "/v1/mode/U1/switch", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	var resp modeResponse
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, shared.ModeBuyer, resp.Mode)

	// Premium: the switch toggles to seller.
	assert.NoError(t, store.SetPremium(context.Background(), "U1"))
	rec = doJSON(t, h, http.MethodPost, "/v1/mode/U1/switch", nil)
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, shared.ModeSeller, resp.Mode)

	rec = doJSON(t, h, http.MethodGet, "/v1/mode/U1", nil)
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, shared.ModeSeller, resp.Mode)
}
