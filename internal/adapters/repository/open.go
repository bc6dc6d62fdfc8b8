package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite" // registers the "sqlite" database/sql driver
)

// Open returns the store selected by driver. dsn is ignored for the memory driver.
func Open(ctx context.Context, driver, dsn string, opts ...Option) (Store, error) {
	switch driver {
	case DriverMemory, "":
		return NewMemoryStore(opts...), nil
	case DriverSQLite:
		return OpenSQLite(ctx, dsn, opts...)
	case DriverPostgres:
		return OpenPostgres(ctx, dsn, opts...)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, driver)
	}
}

// OpenSQLite opens (and migrates) a SQLite database through modernc.org/sqlite.
func OpenSQLite(ctx context.Context, dsn string, opts ...Option) (*SQLStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// A single connection serializes writers and keeps :memory: databases shared.
	db.SetMaxOpenConns(1)
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}
	s, err := newSQLStore(ctx, db, sqliteDialect, opts...)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// OpenPostgres creates a pgx pool and exposes it as *sql.DB for the shared SQL store.
func OpenPostgres(ctx context.Context, dsn string, opts ...Option) (*SQLStore, error) {
	pc, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse postgres dsn: %w", err)
	}
	pc.ConnConfig.RuntimeParams["application_name"] = "launchcircle"

	pool, err := pgxpool.NewWithConfig(ctx, pc)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	db := stdlib.OpenDBFromPool(pool)
	s, err := newSQLStore(ctx, db, postgresDialect, opts...)
	if err != nil {
		_ = db.Close()
		pool.Close()
		return nil, err
	}
	s.closers = append(s.closers, func() error { pool.Close(); return nil })
	return s, nil
}
