// migrate applies pending schema migrations, then confirms the runtime pool
// can connect.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"staybook/pkg/config"
	"staybook/pkg/db"
)

func main() {
	path := flag.String("path", "", "migrations source (defaults to MIGRATIONS_PATH or file://migrations)")
	flag.Parse()

	cfg := config.Load()
	src := *path
	if src == "" {
		src = cfg.MigrationsPath
	}
	if src == "" {
		src = "file://migrations"
	}

	if err := db.Migrate(src, cfg); err != nil {
		fmt.Fprintf(os.Stderr, "migrate: %v\n", err)
		os.Exit(1)
	}

	pool, err := db.Open(context.Background(), cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "runtime connection check: %v\n", err)
		os.Exit(1)
	}
	pool.Close()

	fmt.Println("migrations applied")
}
