package repository

import (
	"context"
	"database/sql"
)

// BatchRepo keeps the import log.
type BatchRepo struct{ db Querier }

func NewBatchRepo(db Querier) *BatchRepo { return &BatchRepo{db: db} }

// WithTx returns a repo bound to tx.
func (r *BatchRepo) WithTx(tx *sql.Tx) *BatchRepo { return &BatchRepo{db: tx} }

func (r *BatchRepo) Add(ctx context.Context, b Batch) error {
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO batches(label, file_name, kind, added, skipped, warnings, imported_at)
	VALUES(?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(label) DO UPDATE SET
	 added = batches.added + excluded.added,
	 skipped = batches.skipped + excluded.skipped,
	 warnings = batches.warnings + excluded.warnings
	`, b.Label, b.FileName, string(b.Kind), b.Added, b.Skipped, b.Warnings, b.ImportedAt.UTC())
	return err
}

func (r *BatchRepo) Get(ctx context.Context, label string) (*Batch, error) {
	row := r.db.QueryRowContext(ctx, `SELECT label, file_name, kind, added, skipped, warnings, imported_at FROM batches WHERE label = ?`, label)
	b, err := scanBatch(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &b, nil
}

func (r *BatchRepo) List(ctx context.Context) ([]Batch, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT label, file_name, kind, added, skipped, warnings, imported_at FROM batches ORDER BY label ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Batch
	for rows.Next() {
		b, err := scanBatch(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (r *BatchRepo) Delete(ctx context.Context, label string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM batches WHERE label = ?`, label)
	return err
}

func scanBatch(row scanner) (Batch, error) {
	var b Batch
	var kind string
	if err := row.Scan(&b.Label, &b.FileName, &kind, &b.Added, &b.Skipped, &b.Warnings, &b.ImportedAt); err != nil {
		return Batch{}, err
	}
	b.Kind = Kind(kind)
	return b, nil
}
