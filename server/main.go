package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.temporal.io/sdk/client"

	"snapbuy-seller-onboarding/account"
	"snapbuy-seller-onboarding/config"
	"snapbuy-seller-onboarding/gateway"
)

func main() {
	cfg, err := config.Load(".")
	if err != nil {
		log.Fatalf("Unable to load config: %v", err)
	}
	if cfg.InternalAPIKey == "" {
		log.Fatal("INTERNAL_API_KEY must be configured")
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

	srv := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: gateway.NewServer(c, store, cfg.InternalAPIKey).Router(),
	}

	go func() {
		log.Printf("Gateway listening on :%s", cfg.ServerPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Gateway server failed: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Gateway shutdown: %v", err)
	}
}
