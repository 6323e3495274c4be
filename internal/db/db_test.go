package db_test

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	dbpkg "github.com/uday132/hackhub/internal/db"
)

func testDSN(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "test.db")
}

func TestNew_DoesNotTouchDatabase(t *testing.T) {
	// a dsn pointing at a missing directory is only an error once used
	d := dbpkg.New("/nonexistent-dir/sub/test.db")
	defer d.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if _, err := d.Exec(ctx, `SELECT 1`); err == nil {
		t.Fatalf("expected first use of broken dsn to fail")
	}
}

func TestOpen_VerifiesConnectivity(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	d, err := dbpkg.Open(ctx, testDSN(t))
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	if err := d.Close(); err != nil {
		t.Fatalf("Close returned error: %v", err)
	}
}

func TestOpen_BadDSN(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if _, err := dbpkg.Open(ctx, "/nonexistent-dir/sub/test.db"); err == nil {
		t.Fatalf("expected error for unreachable dsn, got nil")
	}
}

func TestExec_QueryRow(t *testing.T) {
	ctx := context.Background()
	d := dbpkg.New(testDSN(t))
	defer d.Close()

	// first Exec triggers the lazy open
	_, err := d.Exec(ctx, `CREATE TABLE IF NOT EXISTS items (id INTEGER PRIMARY KEY AUTOINCREMENT, name TEXT);`)
	if err != nil {
		t.Fatalf("Exec create table returned error: %v", err)
	}

	res, err := d.Exec(ctx, `INSERT INTO items (name) VALUES (?)`, "foo")
	if err != nil {
		t.Fatalf("Exec insert returned error: %v", err)
	}
	lastID, err := res.LastInsertId()
	if err != nil {
		t.Fatalf("LastInsertId returned error: %v", err)
	}
	if lastID == 0 {
		t.Fatalf("expected last insert id > 0")
	}

	row := d.QueryRow(ctx, `SELECT name FROM items WHERE id = ?`, lastID)
	var name string
	if err := row.Scan(&name); err != nil {
		t.Fatalf("QueryRow scan returned error: %v", err)
	}
	if name != "foo" {
		t.Fatalf("expected name 'foo' got %q", name)
	}
}

func TestQueryRows(t *testing.T) {
	ctx := context.Background()
	d := dbpkg.New(testDSN(t))
	defer d.Close()

	if _, err := d.Exec(ctx, `CREATE TABLE nums (n INTEGER)`); err != nil {
		t.Fatalf("create table: %v", err)
	}
	for i := 1; i <= 3; i++ {
		if _, err := d.Exec(ctx, `INSERT INTO nums (n) VALUES (?)`, i); err != nil {
			t.Fatalf("insert: %v", err)
		}
	}

	rows, err := d.QueryRows(ctx, `SELECT n FROM nums ORDER BY n`)
	if err != nil {
		t.Fatalf("QueryRows returned error: %v", err)
	}
	defer rows.Close()

	var got []int
	for rows.Next() {
		var n int
		if err := rows.Scan(&n); err != nil {
			t.Fatalf("scan: %v", err)
		}
		got = append(got, n)
	}
	if err := rows.Err(); err != nil {
		t.Fatalf("rows err: %v", err)
	}
	if len(got) != 3 || got[0] != 1 || got[2] != 3 {
		t.Fatalf("unexpected rows: %v", got)
	}
}

func TestLazyInit_ConcurrentFirstUse(t *testing.T) {
	ctx := context.Background()
	d := dbpkg.New(testDSN(t))
	defer d.Close()

	// all goroutines race on the first use; exactly one open must win and
	// every caller must see a working handle
	var wg sync.WaitGroup
	errs := make(chan error, 16)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := d.Exec(ctx, `SELECT 1`); err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Fatalf("concurrent first use failed: %v", err)
	}
}

func TestClose_NeverOpened(t *testing.T) {
	d := dbpkg.New(testDSN(t))
	if err := d.Close(); err != nil {
		t.Fatalf("Close on unused handle returned error: %v", err)
	}
}
