package db

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"staybook/pkg/config"
)

// Open builds the runtime connection pool and verifies it with a ping.
func Open(ctx context.Context, cfg config.Config) (*pgxpool.Pool, error) {
	cs := connString(cfg, false)

	pcfg, err := pgxpool.ParseConfig(cs)
	if err != nil {
		return nil, fmt.Errorf("parse connection config: %w", err)
	}

	// PgBouncer in transaction mode cannot serve prepared statements; hosted
	// pooler DSNs advertise it with pgbouncer=true.
	if strings.Contains(strings.ToLower(cs), "pgbouncer=true") {
		pcfg.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeSimpleProtocol
		pcfg.ConnConfig.StatementCacheCapacity = 0
		pcfg.ConnConfig.DescriptionCacheCapacity = 0
	}

	pool, err := pgxpool.NewWithConfig(ctx, pcfg)
	if err != nil {
		return nil, err
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}
	return pool, nil
}

// WithTx runs fn inside a transaction, committing on nil error and rolling
// back otherwise.
func WithTx(ctx context.Context, pool *pgxpool.Pool, fn func(tx pgx.Tx) error) error {
	tx, err := pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// connString picks the DSN for a connection. direct bypasses the pooler and
// is what migrations want; the runtime pool takes DATABASE_URL.
func connString(cfg config.Config, direct bool) string {
	if direct && strings.TrimSpace(cfg.DirectURL) != "" {
		return cfg.DirectURL
	}
	if strings.TrimSpace(cfg.DatabaseURL) != "" {
		return cfg.DatabaseURL
	}

	d := cfg.DB
	sslmode := d.SSLMode
	if sslmode == "" {
		sslmode = "disable"
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, sslmode)
}
