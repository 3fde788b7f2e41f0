package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"fundqueue/internal/app/bootstrap"
)

// API process entrypoint.
// Data flow:
// 1) Load config.
// 2) Build app wiring (ports + adapters + use cases).
// 3) Serve HTTP and relay the approval outbox until SIGINT/SIGTERM.
func main() {
	log.Println("fundqueue api starting")
	app, err := bootstrap.BuildAPI()
	if err != nil {
		log.Fatalf("bootstrap api failed: %v", err)
	}
	defer func() {
		if err := app.Close(); err != nil {
			log.Printf("api shutdown close failed: %v", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := app.Run(ctx); err != nil {
		log.Printf("fundqueue api stopped with error: %v", err)
		return
	}
	log.Println("fundqueue api stopped")
}
