package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jask/roadcards/internal/database"
)

const recordColumns = `id, card_number, batch_label, occurred_at, firm, address, item_name, quantity, unit_price, cost, kind, created_at`

// RecordRepo handles imported transaction records.
type RecordRepo struct {
	db Querier
}

func NewRecordRepo(db Querier) *RecordRepo { return &RecordRepo{db: db} }

// WithTx returns a repo bound to tx.
func (r *RecordRepo) WithTx(tx *sql.Tx) *RecordRepo { return &RecordRepo{db: tx} }

func (r *RecordRepo) Insert(ctx context.Context, rec Record) error {
	if !rec.Kind.Valid() {
		return fmt.Errorf("insert record: unknown kind %q", rec.Kind)
	}
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO records(
	 id, card_number, batch_label, occurred_at, firm, address, item_name,
	 quantity, unit_price, cost, kind, created_at)
	VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP);
	`,
		rec.ID, rec.CardNumber, rec.BatchLabel, database.FormatWallClock(rec.OccurredAt),
		rec.Firm, rec.Address, rec.ItemName, rec.Quantity, rec.UnitPrice, rec.Cost, string(rec.Kind))
	return err
}

// FindByCollisionKey returns every record on card at exactly occurredAt.
func (r *RecordRepo) FindByCollisionKey(ctx context.Context, card string, occurredAt time.Time) ([]Record, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+recordColumns+` FROM records WHERE card_number = ? AND occurred_at = ? ORDER BY rowid`,
		card, database.FormatWallClock(occurredAt))
	if err != nil {
		return nil, err
	}
	return collectRecords(rows)
}

// ListCosts returns the kind and cost of every record on the given cards.
func (r *RecordRepo) ListCosts(ctx context.Context, cards []string) ([]KindCost, error) {
	if len(cards) == 0 {
		return nil, nil
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT kind, cost FROM records WHERE card_number IN (`+placeholders(len(cards))+`)`,
		stringArgs(cards)...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []KindCost
	for rows.Next() {
		var kc KindCost
		var kind string
		if err := rows.Scan(&kind, &kc.Cost); err != nil {
			return nil, err
		}
		kc.Kind = Kind(kind)
		out = append(out, kc)
	}
	return out, rows.Err()
}

// ListByCards returns one page of records on the given cards, newest first.
func (r *RecordRepo) ListByCards(ctx context.Context, cards []string, limit, offset int) ([]Record, error) {
	if len(cards) == 0 {
		return nil, nil
	}
	args := append(stringArgs(cards), limit, offset)
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+recordColumns+` FROM records
		 WHERE card_number IN (`+placeholders(len(cards))+`)
		 ORDER BY occurred_at DESC, rowid DESC
		 LIMIT ? OFFSET ?`,
		args...)
	if err != nil {
		return nil, err
	}
	return collectRecords(rows)
}

func (r *RecordRepo) CountByCards(ctx context.Context, cards []string) (int, error) {
	if len(cards) == 0 {
		return 0, nil
	}
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM records WHERE card_number IN (`+placeholders(len(cards))+`)`,
		stringArgs(cards)...).Scan(&n)
	return n, err
}

// ListRange returns records with start <= occurred_at <= end, oldest first.
func (r *RecordRepo) ListRange(ctx context.Context, start, end time.Time) ([]Record, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+recordColumns+` FROM records
		 WHERE occurred_at >= ? AND occurred_at <= ?
		 ORDER BY occurred_at ASC, rowid ASC`,
		database.FormatWallClock(start), database.FormatWallClock(end))
	if err != nil {
		return nil, err
	}
	return collectRecords(rows)
}

// DeleteByBatch removes every record carrying label and reports how many went.
func (r *RecordRepo) DeleteByBatch(ctx context.Context, label string) (int, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM records WHERE batch_label = ?`, label)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	return int(n), nil
}

// BatchCounts lists distinct batch labels with their record counts.
func (r *RecordRepo) BatchCounts(ctx context.Context) ([]BatchCount, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT batch_label, COUNT(*) FROM records WHERE batch_label != '' GROUP BY batch_label ORDER BY batch_label`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []BatchCount
	for rows.Next() {
		var bc BatchCount
		if err := rows.Scan(&bc.Label, &bc.Records); err != nil {
			return nil, err
		}
		out = append(out, bc)
	}
	return out, rows.Err()
}

// Get returns the record with id, or nil if there is none.
func (r *RecordRepo) Get(ctx context.Context, id string) (*Record, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+recordColumns+` FROM records WHERE id = ?`, id)
	rec, err := scanRecord(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &rec, nil
}

func collectRecords(rows *sql.Rows) ([]Record, error) {
	defer rows.Close()
	var out []Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func scanRecord(row scanner) (Record, error) {
	var rec Record
	var occurred, kind string
	if err := row.Scan(&rec.ID, &rec.CardNumber, &rec.BatchLabel, &occurred, &rec.Firm, &rec.Address,
		&rec.ItemName, &rec.Quantity, &rec.UnitPrice, &rec.Cost, &kind, &rec.CreatedAt); err != nil {
		return Record{}, err
	}
	t, err := database.ParseWallClock(occurred)
	if err != nil {
		return Record{}, fmt.Errorf("record %s occurred_at: %w", rec.ID, err)
	}
	rec.OccurredAt = t
	rec.Kind = Kind(kind)
	return rec, nil
}
