package service

import (
	"context"
	"database/sql"
	"fmt"
	"iter"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/jask/roadcards/internal/database"
	"github.com/jask/roadcards/internal/database/repository"
	"github.com/jask/roadcards/internal/logger"
	"github.com/jask/roadcards/internal/workbook"
)

// Warning flags an incoming row whose card and timestamp match at least one
// stored record, whether or not the row turned out to be a duplicate.
type Warning struct {
	RowIndex    int
	CardNumber  string
	OccurredAt  time.Time
	ItemName    string
	CostRounded int64
}

// ReconcileResult summarizes one batch.
type ReconcileResult struct {
	Added    int
	Skipped  int
	Warnings []Warning
}

// Reconciler decides, row by row, whether an incoming candidate is already
// stored and persists the ones that are not.
type Reconciler struct {
	DB        *sql.DB
	Records   *repository.RecordRepo
	Registrar *WhitelistRegistrar
}

// Reconcile walks candidates in order. For each one it looks up stored
// records on the same card at the same instant; any hit produces a warning,
// and a hit that also matches kind, item name and rounded cost makes the
// candidate a duplicate. Non-duplicates whitelist their card and are stored
// under batchLabel.
//
// Each row runs in its own transaction, so the lookup and the insert cannot
// interleave with another importer. A failing row aborts the batch; rows
// committed before it stay.
func (r *Reconciler) Reconcile(ctx context.Context, candidates iter.Seq2[int, workbook.Candidate], batchLabel string) (ReconcileResult, error) {
	var res ReconcileResult
	for row, c := range candidates {
		var warn *Warning
		duplicate := false
		err := database.WithTx(ctx, r.DB, func(tx *sql.Tx) error {
			records := r.Records.WithTx(tx)
			existing, err := records.FindByCollisionKey(ctx, c.CardNumber, c.OccurredAt)
			if err != nil {
				return fmt.Errorf("lookup: %w", err)
			}
			if len(existing) > 0 {
				warn = &Warning{
					RowIndex:    row,
					CardNumber:  c.CardNumber,
					OccurredAt:  c.OccurredAt,
					ItemName:    c.ItemName,
					CostRounded: roundCost(c.Cost),
				}
				for _, e := range existing {
					if sameEntry(e, c) {
						duplicate = true
						break
					}
				}
			}
			if duplicate {
				return nil
			}
			if err := r.Registrar.WithTx(tx).Register(ctx, c.CardNumber); err != nil {
				return fmt.Errorf("whitelist: %w", err)
			}
			return records.Insert(ctx, toRecord(c, batchLabel))
		})
		if err != nil {
			log := logger.FromContext(ctx)
			log.Error().Err(err).Int("row", row).Str("batch", batchLabel).Msg("reconcile aborted")
			return ReconcileResult{}, fmt.Errorf("reconcile row %d: %w", row, err)
		}
		if warn != nil {
			res.Warnings = append(res.Warnings, *warn)
		}
		if duplicate {
			res.Skipped++
			continue
		}
		res.Added++
	}
	return res, nil
}

// sameEntry compares the equality key; card and timestamp already match.
func sameEntry(e repository.Record, c workbook.Candidate) bool {
	return e.Kind == c.Kind &&
		e.ItemName == c.ItemName &&
		roundCost(e.Cost) == roundCost(c.Cost)
}

// roundCost rounds half to even, so 10.5 -> 10 and 11.5 -> 12.
func roundCost(cost float64) int64 {
	return int64(math.RoundToEven(cost))
}

func toRecord(c workbook.Candidate, batchLabel string) repository.Record {
	return repository.Record{
		ID:         uuid.NewString(),
		CardNumber: c.CardNumber,
		BatchLabel: batchLabel,
		OccurredAt: c.OccurredAt,
		Firm:       c.Firm,
		Address:    c.Address,
		ItemName:   c.ItemName,
		Quantity:   c.Quantity,
		UnitPrice:  c.UnitPrice,
		Cost:       c.Cost,
		Kind:       c.Kind,
	}
}
