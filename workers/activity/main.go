package main

import (
	"log"

	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/worker"

	"snapbuy-seller-onboarding/account"
	"snapbuy-seller-onboarding/activities"
	"snapbuy-seller-onboarding/config"
	"snapbuy-seller-onboarding/devicebridge"
	"snapbuy-seller-onboarding/paypal"
	"snapbuy-seller-onboarding/shared"
	"snapbuy-seller-onboarding/userapi"
)

func main() {
	cfg, err := config.Load(".")
	if err != nil {
		log.Fatalf("Unable to load config: %v", err)
	}

	c, err := client.Dial(client.Options{
		HostPort:  cfg.TemporalHostPort,
		Namespace: cfg.TemporalNamespace,
	})
	if err != nil {
		log.Fatalf("Unable to create Temporal client: %v", err)
	}
	defer c.Close()

	var store account.Store
	if cfg.DatabaseURL != "" {
		pg, err := account.OpenPostgres(cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("Unable to open account store: %v", err)
		}
		store = pg
	} else {
		log.Println("DATABASE_URL not set, using in-memory account store")
		store = account.NewMemoryStore()
	}

	bridge := devicebridge.NewClient(cfg.DeviceBridgeBaseURL)
	a := &activities.Activities{
		Provider:  paypal.NewClient(cfg.PayPalBaseURL, cfg.PayPalClientID, cfg.PayPalSecret),
		Users:     userapi.NewClient(cfg.UserAPIBaseURL),
		Accounts:  store,
		Checkout:  bridge,
		Browser:   bridge,
		ReturnURL: cfg.PayPalReturnURL,
	}

	w := worker.New(c, shared.ActivityTaskQueue, worker.Options{
		// The checkout activity parks a slot while the user decides; keep
		// enough headroom for concurrent sessions.
		MaxConcurrentActivityExecutionSize: 200,
	})
	w.RegisterActivity(a)

	log.Println("Starting activity worker...")
	if err := w.Run(worker.InterruptCh()); err != nil {
		log.Fatalf("Unable to start worker: %v", err)
	}
}
