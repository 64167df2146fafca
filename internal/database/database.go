// Package database opens the shared on-device SQLite store.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

const (
	// pingTimeout bounds the initial connectivity check.
	pingTimeout = 5 * time.Second

	// busyTimeoutMillis keeps writers from failing immediately when the OS
	// extension holds the database; last-writer-wins, but not error-on-contention.
	busyTimeoutMillis = 5000
)

// Open opens (creating if needed) the shared SQLite store at path.
// WAL mode lets the extension read while the app writes.
func Open(ctx context.Context, path string) (*sql.DB, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(%d)&_pragma=synchronous(NORMAL)", path, busyTimeoutMillis)

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}

	// A single connection avoids writer contention within this process;
	// cross-process contention is handled by the busy timeout.
	db.SetMaxOpenConns(1)

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping store: %w", err)
	}

	return db, nil
}
