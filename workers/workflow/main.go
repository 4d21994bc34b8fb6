package main

import (
	"log"

	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/worker"

	"snapbuy-seller-onboarding/config"
	"snapbuy-seller-onboarding/shared"
	"snapbuy-seller-onboarding/workflows"
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

	w := worker.New(c, shared.OrchestratorTaskQueue, worker.Options{})

	w.RegisterWorkflow(workflows.UpgradePurchaseWorkflow)
	w.RegisterWorkflow(workflows.MerchantOnboardingWorkflow)

	log.Println("Starting orchestrator workflow worker...")
	if err := w.Run(worker.InterruptCh()); err != nil {
		log.Fatalf("Unable to start worker: %v", err)
	}
}
