package repository

import (
	"context"
	"database/sql"
	"time"
)

// Kind distinguishes charges from top-ups.
type Kind string

const (
	KindExpense Kind = "expense"
	KindPayment Kind = "payment"
)

// Valid reports whether k is one of the known kinds.
func (k Kind) Valid() bool {
	return k == KindExpense || k == KindPayment
}

// Record represents a records row. OccurredAt holds a wall clock in UTC.
type Record struct {
	ID         string
	CardNumber string
	BatchLabel string
	OccurredAt time.Time
	Firm       string
	Address    string
	ItemName   string
	Quantity   float64
	UnitPrice  float64
	Cost       float64
	Kind       Kind
	CreatedAt  time.Time
}

// KindCost is one (kind, cost) pair used for balance sums.
type KindCost struct {
	Kind Kind
	Cost float64
}

// BatchCount is a batch label with the number of records still carrying it.
type BatchCount struct {
	Label   string
	Records int
}

// WhitelistEntry represents a whitelist row.
type WhitelistEntry struct {
	ID         string
	CardNumber string
	CreatedAt  time.Time
}

// Binding ties a card to an identity.
type Binding struct {
	ID         string
	Identity   string
	CardNumber string
	CreatedAt  time.Time
}

// Batch is one entry of the import log.
type Batch struct {
	Label      string
	FileName   string
	Kind       Kind
	Added      int
	Skipped    int
	Warnings   int
	ImportedAt time.Time
}

// Querier is satisfied by both *sql.DB and *sql.Tx so repos can be rebound
// to a transaction.
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// scanner handles both Row and Rows.
type scanner interface {
	Scan(dest ...interface{}) error
}

func placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	b := make([]byte, 0, 2*n)
	for i := 0; i < n; i++ {
		if i > 0 {
			b = append(b, ',')
		}
		b = append(b, '?')
	}
	return string(b)
}

func stringArgs(ss []string) []any {
	out := make([]any, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}
