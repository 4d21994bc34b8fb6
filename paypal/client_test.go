package paypal

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCreateOrder_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v2/checkout/orders", r.URL.Path)
		var body map[string]any
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "CAPTURE", body["intent"])

		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id": "ORDER-1", "status": "CREATED"}`))
	}))
	defer srv.Close()

	orderID, err := NewClient(srv.URL, "cid", "secret").CreateOrder(context.Background(), "99.00")
	assert.NoError(t, err)
	assert.Equal(t, "ORDER-1", orderID)
}

func TestCreateOrder_Rejection_IsProviderError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"name": "UNPROCESSABLE_ENTITY"}`))
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, "cid", "secret").CreateOrder(context.Background(), "99.00")
	assert.Error(t, err)
	assert.True(t, IsProviderError(err))
}

func TestCreateOrder_TransportFailure_IsNotProviderError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused

	_, err := NewClient(srv.URL, "cid", "secret").CreateOrder(context.Background(), "99.00")
	assert.Error(t, err)
	assert.False(t, IsProviderError(err))
}

func TestCaptureOrder_Completed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v2/checkout/orders/ORDER-1/capture", r.URL.Path)
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id": "ORDER-1", "status": "COMPLETED"}`))
	}))
	defer srv.Close()

	err := NewClient(srv.URL, "cid", "secret").CaptureOrder(context.Background(), "ORDER-1")
	assert.NoError(t, err)
}

func TestCaptureOrder_NotCompleted_IsProviderError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id": "ORDER-1", "status": "DECLINED"}`))
	}))
	defer srv.Close()

	err := NewClient(srv.URL, "cid", "secret").CaptureOrder(context.Background(), "ORDER-1")
	assert.Error(t, err)
	assert.True(t, IsProviderError(err))
}

func TestFetchOnboardingURL_ReturnsActionURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v2/customer/partner-referrals", r.URL.Path)
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"links": [
			{"href": "https://api.paypal.com/v2/customer/partner-referrals/x", "rel": "self"},
			{"href": "https://www.paypal.com/bizsignup/partner/entry?token=abc", "rel": "action_url"}
		]}`))
	}))
	defer srv.Close()

	url, err := NewClient(srv.URL, "cid", "secret").FetchOnboardingURL(context.Background(), "T1", "https://snapbuy.example.com/return")
	assert.NoError(t, err)
	assert.Equal(t, "https://www.paypal.com/bizsignup/partner/entry?token=abc", url)
}

func TestFetchOnboardingURL_MissingActionURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"links": []}`))
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, "cid", "secret").FetchOnboardingURL(context.Background(), "T1", "https://snapbuy.example.com/return")
	assert.Error(t, err)
	assert.True(t, IsProviderError(err))
}
