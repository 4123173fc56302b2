package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// WallClockLayout is how occurred_at is stored. Fixed width keeps text
// comparison equivalent to time comparison.
const WallClockLayout = "2006-01-02 15:04:05"

// Open opens sqlite with sensible defaults. Transactions start IMMEDIATE so a
// lookup followed by an insert in the same transaction cannot interleave with
// another writer.
func Open(path string) (*sql.DB, error) {
	dsn := fmt.Sprintf("file:%s?_foreign_keys=on&_busy_timeout=5000&_txlock=immediate", path)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1) // sqlite
	db.SetConnMaxLifetime(0)
	return db, nil
}

// WithTx runs fn in a transaction.
func WithTx(ctx context.Context, db *sql.DB, fn func(tx *sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

// FormatWallClock renders t's wall clock for storage, dropping the zone.
func FormatWallClock(t time.Time) string {
	return t.Format(WallClockLayout)
}

// ParseWallClock is the inverse of FormatWallClock. The result is in UTC and
// represents the same wall clock that was stored.
func ParseWallClock(s string) (time.Time, error) {
	return time.Parse(WallClockLayout, s)
}
