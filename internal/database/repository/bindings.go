package repository

import (
	"context"
	"database/sql"
)

// BindingRepo handles identity to card bindings.
type BindingRepo struct {
	db Querier
}

func NewBindingRepo(db Querier) *BindingRepo {
	return &BindingRepo{db: db}
}

// WithTx returns a repo bound to tx.
func (r *BindingRepo) WithTx(tx *sql.Tx) *BindingRepo { return &BindingRepo{db: tx} }

func (r *BindingRepo) Insert(ctx context.Context, b Binding) error {
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO bindings(id, identity, card_number, created_at)
	VALUES (?, ?, ?, CURRENT_TIMESTAMP);
	`, b.ID, b.Identity, b.CardNumber)
	return err
}

// CardsFor returns the cards bound to identity in binding order.
func (r *BindingRepo) CardsFor(ctx context.Context, identity string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT card_number FROM bindings WHERE identity = ? ORDER BY created_at, rowid`, identity)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []string
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// OwnerOf returns the identity holding card, or nil if nobody does.
func (r *BindingRepo) OwnerOf(ctx context.Context, card string) (*Binding, error) {
	var b Binding
	err := r.db.QueryRowContext(ctx, `SELECT id, identity, card_number, created_at FROM bindings WHERE card_number = ?`, card).
		Scan(&b.ID, &b.Identity, &b.CardNumber, &b.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &b, nil
}

func (r *BindingRepo) Delete(ctx context.Context, identity, card string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM bindings WHERE identity = ? AND card_number = ?`, identity, card)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

func (r *BindingRepo) DeleteAll(ctx context.Context, identity string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM bindings WHERE identity = ?`, identity)
	return err
}
