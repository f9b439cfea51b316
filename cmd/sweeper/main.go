// cmd/sweeper/main.go
//
// One-shot storage reclamation job. Meant to run daily as a Cloud Run job
// (or from cron); it sweeps the cleanup queue once and exits.
package main

import (
	"context"
	"log"
	"os"
	"time"

	"gallery/internal/platform/di"
)

func main() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	cont, err := di.NewContainer(ctx)
	if err != nil {
		log.Fatalf("[sweeper] di init failed: %v", err)
	}

	rep, err := cont.CleanupUC.RunScheduledSweep(ctx)
	cont.Close()
	if err != nil {
		log.Printf("[sweeper] sweep aborted: %v", err)
		os.Exit(1)
	}

	log.Printf("[sweeper] done: found=%d succeeded=%d failed=%d purged=%d",
		rep.Found, rep.Succeeded, rep.Failed, rep.Purged)

	// Failed entries stay queued and will be retried on the next run.
	if rep.Failed > 0 {
		os.Exit(2)
	}
}
