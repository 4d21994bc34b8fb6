// Package gateway is the HTTP ingress for the seller-onboarding
// orchestrator. The mobile app relays its two observation channels here —
// every webview navigation request and the OS deep-link callback — and this
// layer parses them and signals the owning workflow. It also starts the two
// workflows and serves read-only state.
package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/converter"

	"snapbuy-seller-onboarding/account"
	"snapbuy-seller-onboarding/redirect"
	"snapbuy-seller-onboarding/shared"
	"snapbuy-seller-onboarding/workflows"
)

// TemporalClient is the slice of client.Client the gateway needs; tests
// substitute a fake.
type TemporalClient interface {
	ExecuteWorkflow(ctx context.Context, options client.StartWorkflowOptions, workflow interface{}, args ...interface{}) (client.WorkflowRun, error)
	SignalWorkflow(ctx context.Context, workflowID, runID, signalName string, arg interface{}) error
	QueryWorkflow(ctx context.Context, workflowID, runID, queryType string, args ...interface{}) (converter.EncodedValue, error)
}

// PurchaseWorkflowID is the idempotency key for a user's purchase attempt.
func PurchaseWorkflowID(userID string) string { return "upgrade-" + userID }

// OnboardingWorkflowID is the idempotency key for a user's onboarding attempt.
func OnboardingWorkflowID(userID string) string { return "onboard-" + userID }

// Server carries the gateway's dependencies.
type Server struct {
	temporal TemporalClient
	store    account.Store
	apiKey   string

	modeMu sync.Mutex
	modes  map[string]*account.ModeController
}

// NewServer builds the gateway.
func NewServer(tc TemporalClient, store account.Store, apiKey string) *Server {
	return &Server{
		temporal: tc,
		store:    store,
		apiKey:   apiKey,
		modes:    make(map[string]*account.ModeController),
	}
}

// Router assembles the chi routes. Every route sits behind the internal API
// key check.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.requireAPIKey)

	r.Post("/v1/purchase", s.handleStartPurchase)
	r.Get("/v1/purchase/{userID}", s.handlePurchaseStatus)

	r.Post("/v1/onboarding", s.handleStartOnboarding)
	r.Get("/v1/onboarding/{userID}", s.handleOnboardingStatus)
	r.Post("/v1/onboarding/{userID}/navigation", s.handleNavigation)
	r.Post("/v1/onboarding/{userID}/deeplink", s.handleDeepLink)
	r.Post("/v1/onboarding/{userID}/dismissed", s.handleDismissed)

	r.Get("/v1/account/{userID}", s.handleAccount)
	r.Get("/v1/mode/{userID}", s.handleMode)
	r.Post("/v1/mode/{userID}/switch", s.handleSwitchMode)

	return r
}

func (s *Server) requireAPIKey(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-Internal-Api-Key") != s.apiKey {
			writeError(w, http.StatusUnauthorized, "invalid api key")
			return
		}
		next.ServeHTTP(w, r)
	})
}

type startRequest struct {
	UserID        string `json:"userId"`
	FundingSource string `json:"fundingSource,omitempty"`
	TrackingID    string `json:"trackingId,omitempty"`
}

type startResponse struct {
	WorkflowID string `json:"workflowId"`
	RunID      string `json:"runId"`
}

func (s *Server) handleStartPurchase(w http.ResponseWriter, r *http.Request) {
	var req startRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.UserID == "" {
		writeError(w, http.StatusBadRequest, "userId is required")
		return
	}

	if _, err := s.store.Create(r.Context(), req.UserID); err != nil {
		writeError(w, http.StatusInternalServerError, "account lookup failed")
		return
	}

	run, err := s.temporal.ExecuteWorkflow(r.Context(),
		client.StartWorkflowOptions{
			ID:        PurchaseWorkflowID(req.UserID),
			TaskQueue: shared.OrchestratorTaskQueue,
		},
		workflows.UpgradePurchaseWorkflow,
		shared.PurchaseRequest{UserID: req.UserID, FundingSource: req.FundingSource},
	)
	if err != nil {
		log.Printf("gateway: start purchase workflow: %v", err)
		writeError(w, http.StatusInternalServerError, "could not start purchase")
		return
	}
	writeJSON(w, http.StatusAccepted, startResponse{WorkflowID: run.GetID(), RunID: run.GetRunID()})
}

func (s *Server) handleStartOnboarding(w http.ResponseWriter, r *http.Request) {
	var req startRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.UserID == "" {
		writeError(w, http.StatusBadRequest, "userId is required")
		return
	}
	if req.TrackingID == "" {
		req.TrackingID = uuid.NewString()
	}

	if _, err := s.store.Create(r.Context(), req.UserID); err != nil {
		writeError(w, http.StatusInternalServerError, "account lookup failed")
		return
	}

	run, err := s.temporal.ExecuteWorkflow(r.Context(),
		client.StartWorkflowOptions{
			ID:        OnboardingWorkflowID(req.UserID),
			TaskQueue: shared.OrchestratorTaskQueue,
		},
		workflows.MerchantOnboardingWorkflow,
		shared.OnboardingRequest{UserID: req.UserID, TrackingID: req.TrackingID},
	)
	if err != nil {
		log.Printf("gateway: start onboarding workflow: %v", err)
		writeError(w, http.StatusInternalServerError, "could not start onboarding")
		return
	}
	writeJSON(w, http.StatusAccepted, startResponse{WorkflowID: run.GetID(), RunID: run.GetRunID()})
}

type observedURLRequest struct {
	URL string `json:"url"`
}

type navigationResponse struct {
	// Allow is always true: ordinary page loads are never blocked, and even
	// completion-bearing navigations proceed while the signal is handled.
	Allow             bool `json:"allow"`
	CompletionBearing bool `json:"completionBearing"`
}

// handleNavigation receives every navigation request the embedded browser is
// about to perform. Completion-bearing URLs become redirect signals; all
// navigations are passed through.
func (s *Server) handleNavigation(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	var req observedURLRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.URL == "" {
		writeError(w, http.StatusBadRequest, "url is required")
		return
	}

	sig, ok := redirect.Parse(req.URL)
	if !ok {
		writeJSON(w, http.StatusOK, navigationResponse{Allow: true})
		return
	}
	sig.Source = shared.SourceWebviewNavigation

	if err := s.temporal.SignalWorkflow(r.Context(), OnboardingWorkflowID(userID), "", shared.SignalBrowserNavigation, sig); err != nil {
		log.Printf("gateway: navigation signal for %s: %v", userID, err)
		writeError(w, http.StatusInternalServerError, "could not deliver signal")
		return
	}
	writeJSON(w, http.StatusOK, navigationResponse{Allow: true, CompletionBearing: true})
}

// handleDeepLink receives the OS deep-link callback relay.
func (s *Server) handleDeepLink(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	var req observedURLRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.URL == "" {
		writeError(w, http.StatusBadRequest, "url is required")
		return
	}

	sig, ok := redirect.Parse(req.URL)
	if !ok {
		writeError(w, http.StatusUnprocessableEntity, "deep link carries no merchant id")
		return
	}
	sig.Source = shared.SourceDeepLink

	if err := s.temporal.SignalWorkflow(r.Context(), OnboardingWorkflowID(userID), "", shared.SignalDeepLink, sig); err != nil {
		log.Printf("gateway: deep-link signal for %s: %v", userID, err)
		writeError(w, http.StatusInternalServerError, "could not deliver signal")
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"delivered": true})
}

func (s *Server) handleDismissed(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	if err := s.temporal.SignalWorkflow(r.Context(), OnboardingWorkflowID(userID), "", shared.SignalBrowserDismissed, nil); err != nil {
		log.Printf("gateway: dismissed signal for %s: %v", userID, err)
		writeError(w, http.StatusInternalServerError, "could not deliver signal")
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"delivered": true})
}

func (s *Server) handlePurchaseStatus(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	resp, err := s.temporal.QueryWorkflow(r.Context(), PurchaseWorkflowID(userID), "", shared.QueryPurchaseStatus)
	if err != nil {
		writeError(w, http.StatusNotFound, "no purchase attempt found")
		return
	}
	var status shared.PurchaseStatusResponse
	if err := resp.Get(&status); err != nil {
		writeError(w, http.StatusInternalServerError, "could not decode status")
		return
	}
	writeJSON(w, http.StatusOK, status)
}

func (s *Server) handleOnboardingStatus(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	resp, err := s.temporal.QueryWorkflow(r.Context(), OnboardingWorkflowID(userID), "", shared.QueryOnboardingStatus)
	if err != nil {
		writeError(w, http.StatusNotFound, "no onboarding attempt found")
		return
	}
	var status shared.OnboardingStatusResponse
	if err := resp.Get(&status); err != nil {
		writeError(w, http.StatusInternalServerError, "could not decode status")
		return
	}
	writeJSON(w, http.StatusOK, status)
}

func (s *Server) handleAccount(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	acct, err := s.store.Get(r.Context(), userID)
	if errors.Is(err, account.ErrNotFound) {
		writeError(w, http.StatusNotFound, "account not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "account lookup failed")
		return
	}
	writeJSON(w, http.StatusOK, acct)
}

type modeResponse struct {
	Mode shared.OperatingMode `json:"mode"`
}

func (s *Server) handleMode(w http.ResponseWriter, r *http.Request) {
	ctl, err := s.modeController(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "mode lookup failed")
		return
	}
	writeJSON(w, http.StatusOK, modeResponse{Mode: ctl.Current()})
}

func (s *Server) handleSwitchMode(w http.ResponseWriter, r *http.Request) {
	ctl, err := s.modeController(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "mode lookup failed")
		return
	}
	mode, err := ctl.SwitchMode(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "mode switch failed")
		return
	}
	writeJSON(w, http.StatusOK, modeResponse{Mode: mode})
}

// modeController returns the session mode controller for a user, creating it
// on first use with the mode derived from the durable account.
func (s *Server) modeController(ctx context.Context, userID string) (*account.ModeController, error) {
	s.modeMu.Lock()
	defer s.modeMu.Unlock()
	if ctl, ok := s.modes[userID]; ok {
		return ctl, nil
	}
	ctl, err := account.NewModeController(ctx, s.store, userID)
	if err != nil {
		return nil, err
	}
	s.modes[userID] = ctl
	return ctl, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
