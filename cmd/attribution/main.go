package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"revenue-server/internal/bootstrap"
	"revenue-server/internal/config"
	"revenue-server/internal/observability"

	"github.com/google/uuid"
)

// Recomputes appointment inclusion flags for a tenant, or for one contact of it.
func main() {
	tenantFlag := flag.String("tenant", "", "tenant id to recalculate (required)")
	contactFlag := flag.String("contact", "", "only recalculate this contact")
	flag.Parse()

	tenantID, err := uuid.Parse(*tenantFlag)
	if err != nil {
		fmt.Fprintln(os.Stderr, "usage: attribution -tenant <uuid> [-contact <uuid>]")
		os.Exit(2)
	}

	logger := observability.NewLogger()
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = observability.WithFields(ctx, observability.Field{Key: "tenant_id", Value: tenantID.String()})

	database, err := config.LoadDatabase()
	if err != nil {
		log.Fatalf("failed to load configuration: %s", err)
	}

	deps, err := bootstrap.InitializeStore(ctx, database, logger)
	if err != nil {
		logger.Fatal(ctx, "failed to initialize store", err)
	}
	defer deps.Cleanup()

	if *contactFlag != "" {
		contactID, err := uuid.Parse(*contactFlag)
		if err != nil {
			logger.Fatal(ctx, "invalid contact id", err)
		}
		changes, err := deps.Attribution.Recalculate(ctx, tenantID, contactID)
		if err != nil {
			logger.Fatal(ctx, "attribution recalculation failed", err)
		}
		logger.Info(ctx, fmt.Sprintf("contact recalculated: %d flags changed", len(changes)))
		return
	}

	summary, err := deps.Attribution.RecalculateTenant(ctx, tenantID)
	if err != nil {
		logger.Fatal(ctx, "attribution recalculation failed", err)
	}
	logger.Info(ctx, fmt.Sprintf("tenant recalculated: %d contacts, %d flags changed, %d failed",
		summary.Contacts, summary.Changes, summary.Failed))
}
