// expire runs one sweep marking stale pending bookings expired. Deployments
// run it from cron; the same rule is applied lazily on reads.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"staybook/internal/booking"
	"staybook/pkg/config"
	"staybook/pkg/db"
)

func main() {
	cfg := config.Load()

	ctx := context.Background()
	pool, err := db.Open(ctx, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "db open: %v\n", err)
		os.Exit(1)
	}
	defer pool.Close()

	repo := booking.NewRepository(pool)
	n, err := repo.ExpireStale(ctx, time.Now().Add(-cfg.PendingExpiry))
	if err != nil {
		fmt.Fprintf(os.Stderr, "expire sweep: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("expired %d pending bookings\n", n)
}
