package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"fundqueue/internal/app/bootstrap"
)

// Worker process entrypoint.
// Data flow:
// 1) Load config.
// 2) Build app wiring.
// 3) Relay the approval outbox until SIGINT/SIGTERM.
func main() {
	log.Println("fundqueue worker starting")
	app, err := bootstrap.BuildWorker()
	if err != nil {
		log.Fatalf("bootstrap worker failed: %v", err)
	}
	defer func() {
		if err := app.Close(); err != nil {
			log.Printf("worker shutdown close failed: %v", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := app.Run(ctx); err != nil {
		log.Printf("fundqueue worker stopped with error: %v", err)
		return
	}
	log.Println("fundqueue worker stopped")
}
