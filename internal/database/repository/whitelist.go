package repository

import (
	"context"
	"database/sql"
)

// WhitelistRepo handles cards eligible for binding.
type WhitelistRepo struct {
	db Querier
}

func NewWhitelistRepo(db Querier) *WhitelistRepo { return &WhitelistRepo{db: db} }

// WithTx returns a repo bound to tx.
func (r *WhitelistRepo) WithTx(tx *sql.Tx) *WhitelistRepo { return &WhitelistRepo{db: tx} }

func (r *WhitelistRepo) Exists(ctx context.Context, card string) (bool, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM whitelist WHERE card_number = ?`, card).Scan(&n); err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *WhitelistRepo) Insert(ctx context.Context, e WhitelistEntry) error {
	_, err := r.db.ExecContext(ctx, `INSERT INTO whitelist(id, card_number, created_at) VALUES(?, ?, CURRENT_TIMESTAMP)`, e.ID, e.CardNumber)
	return err
}

func (r *WhitelistRepo) List(ctx context.Context) ([]WhitelistEntry, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, card_number, created_at FROM whitelist ORDER BY card_number`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []WhitelistEntry
	for rows.Next() {
		var e WhitelistEntry
		if err := rows.Scan(&e.ID, &e.CardNumber, &e.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
