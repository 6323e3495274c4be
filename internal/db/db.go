package db

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	_ "modernc.org/sqlite"
)

// DB wraps a sql.DB handle with lazy, idempotent initialization. The
// connection is opened and pinged once, on first use, no matter how many
// goroutines race on it; Close tears it down.
type DB struct {
	dsn string

	once    sync.Once
	conn    *sql.DB
	initErr error
}

// New creates a handle for dsn without touching the database.
func New(dsn string) *DB {
	return &DB{dsn: dsn}
}

// Open creates a handle and verifies connectivity immediately.
func Open(ctx context.Context, dsn string) (*DB, error) {
	d := New(dsn)
	if _, err := d.ensure(ctx); err != nil {
		return nil, err
	}
	return d, nil
}

func (db *DB) ensure(ctx context.Context) (*sql.DB, error) {
	db.once.Do(func() {
		conn, err := sql.Open("sqlite", db.dsn)
		if err != nil {
			db.initErr = fmt.Errorf("failed to open db: %w", err)
			return
		}
		if err := conn.PingContext(ctx); err != nil {
			conn.Close()
			db.initErr = fmt.Errorf("failed to ping db: %w", err)
			return
		}
		db.conn = conn
	})

	return db.conn, db.initErr
}

// Close closes the underlying connection if it was ever opened.
func (db *DB) Close() error {
	if db.conn == nil {
		return nil
	}
	return db.conn.Close()
}

// Exec executes a query
func (db *DB) Exec(ctx context.Context, query string, args ...any) (sql.Result, error) {
	conn, err := db.ensure(ctx)
	if err != nil {
		return nil, err
	}
	return conn.ExecContext(ctx, query, args...)
}

// QueryRow executes a query that is expected to return at most one row
func (db *DB) QueryRow(ctx context.Context, query string, args ...any) *sql.Row {
	conn, err := db.ensure(ctx)
	if err != nil {
		// sql.Row has no public error constructor; a query against a
		// closed handle yields a row whose Scan reports the failure.
		broken, _ := sql.Open("sqlite", db.dsn)
		broken.Close()
		return broken.QueryRowContext(ctx, query, args...)
	}
	return conn.QueryRowContext(ctx, query, args...)
}

// QueryRows executes a query returning multiple rows.
func (db *DB) QueryRows(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	conn, err := db.ensure(ctx)
	if err != nil {
		return nil, err
	}
	return conn.QueryContext(ctx, query, args...)
}
