package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/google/uuid"
	"go.temporal.io/sdk/client"

	"snapbuy-seller-onboarding/gateway"
	"snapbuy-seller-onboarding/redirect"
	"snapbuy-seller-onboarding/shared"
	"snapbuy-seller-onboarding/workflows"
)

// Interactive driver for local development: starts the merchant onboarding
// workflow and lets you play the mobile app's role — feeding it webview
// navigations, the deep-link callback, or a dismissal — without the gateway.
func main() {
	c, err := client.Dial(client.Options{})
	if err != nil {
		log.Fatalf("Unable to create Temporal client: %v", err)
	}
	defer c.Close()

	userID := "USER-001"
	if len(os.Args) > 1 {
		userID = os.Args[1]
	}
	workflowID := gateway.OnboardingWorkflowID(userID)
	reader := bufio.NewReader(os.Stdin)

	req := shared.OnboardingRequest{
		UserID:     userID,
		TrackingID: uuid.NewString(),
	}

	fmt.Println()
	fmt.Println("🚀 Starting merchant onboarding for user", userID)

	we, err := c.ExecuteWorkflow(
		context.Background(),
		client.StartWorkflowOptions{
			ID:        workflowID,
			TaskQueue: shared.OrchestratorTaskQueue,
		},
		workflows.MerchantOnboardingWorkflow,
		req,
	)
	if err != nil {
		log.Fatalf("Unable to start workflow: %v", err)
	}
	fmt.Printf("   WorkflowID: %s\n", we.GetID())
	fmt.Printf("   RunID:      %s\n", we.GetRunID())

	for {
		fmt.Println()
		fmt.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
		fmt.Println("  Merchant Onboarding CLI")
		fmt.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
		fmt.Println()
		fmt.Println("  [1] Deliver a webview navigation URL")
		fmt.Println("  [2] Deliver the deep-link callback")
		fmt.Println("  [3] Dismiss the browser")
		fmt.Println("  [4] Query workflow status")
		fmt.Println("  [5] Exit (workflow continues running)")
		fmt.Println()
		fmt.Print("Choose: ")

		choice, _ := reader.ReadString('\n')
		choice = strings.TrimSpace(choice)

		switch choice {
		case "1":
			handleObservedURL(c, workflowID, we, reader, shared.SourceWebviewNavigation)
		case "2":
			handleObservedURL(c, workflowID, we, reader, shared.SourceDeepLink)
		case "3":
			handleDismiss(c, workflowID, we)
			return
		case "4":
			handleQueryStatus(c, workflowID)
		case "5":
			fmt.Println()
			fmt.Println("👋 Exiting CLI. The workflow continues running in Temporal.")
			return
		default:
			fmt.Println("❌ Invalid choice. Please enter 1-5.")
		}
	}
}

func handleObservedURL(c client.Client, workflowID string, we client.WorkflowRun, reader *bufio.Reader, source shared.SignalSource) {
	fmt.Println()
	if source == shared.SourceDeepLink {
		fmt.Print("Deep-link URL (e.g. snapbuy://return?merchantIdInPayPal=M123&permissionsGranted=true): ")
	} else {
		fmt.Print("Navigation URL (e.g. https://www.paypal.com/merchantsignup/after-login?merchantIdInPayPal=M123): ")
	}
	raw, _ := reader.ReadString('\n')
	raw = strings.TrimSpace(raw)

	sig, ok := redirect.Parse(raw)
	if !ok {
		fmt.Println("ℹ️  Not completion-bearing — nothing signalled, keep observing.")
		return
	}
	sig.Source = source

	signalName := shared.SignalBrowserNavigation
	if source == shared.SourceDeepLink {
		signalName = shared.SignalDeepLink
	}
	if err := c.SignalWorkflow(context.Background(), workflowID, "", signalName, sig); err != nil {
		log.Fatalf("Unable to signal workflow: %v", err)
	}
	fmt.Println("✅ Signal sent! Waiting for workflow result...")

	var result shared.OnboardingResult
	if err := we.Get(context.Background(), &result); err != nil {
		log.Fatalf("Workflow failed: %v", err)
	}
	fmt.Printf("🏁 State: %s  merchantId: %s\n", result.State, result.MerchantID)
	os.Exit(0)
}

func handleDismiss(c client.Client, workflowID string, we client.WorkflowRun) {
	if err := c.SignalWorkflow(context.Background(), workflowID, "", shared.SignalBrowserDismissed, nil); err != nil {
		log.Fatalf("Unable to signal workflow: %v", err)
	}

	var result shared.OnboardingResult
	if err := we.Get(context.Background(), &result); err != nil {
		log.Fatalf("Workflow failed: %v", err)
	}
	fmt.Printf("🏁 State: %s  reason: %s\n", result.State, result.Reason)
	fmt.Printf("   %s\n", result.Message)
}

func handleQueryStatus(c client.Client, workflowID string) {
	resp, err := c.QueryWorkflow(context.Background(), workflowID, "", shared.QueryOnboardingStatus)
	if err != nil {
		fmt.Printf("❌ Query failed: %v\n", err)
		return
	}

	var status shared.OnboardingStatusResponse
	if err := resp.Get(&status); err != nil {
		fmt.Printf("❌ Failed to decode status: %v\n", err)
		return
	}
	fmt.Printf("\n📋 Status: %s", status.State)
	if status.Reason != shared.ReasonNone {
		fmt.Printf(" (%s)", status.Reason)
	}
	fmt.Println()
}
