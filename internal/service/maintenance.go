package service

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/agnivade/levenshtein"

	"github.com/jask/roadcards/internal/database"
	"github.com/jask/roadcards/internal/database/repository"
	"github.com/jask/roadcards/internal/logger"
)

// BatchSummary is a revocable batch label with its live record count and,
// when available, its import log entry.
type BatchSummary struct {
	Label   string
	Records int
	Log     *repository.Batch
}

// MaintenanceService houses destructive/ops actions on imported batches.
type MaintenanceService struct {
	DB      *sql.DB
	Records *repository.RecordRepo
	Batches *repository.BatchRepo
}

// Revoke deletes every record imported under label and its log entry. It
// returns how many records were deleted; an unknown label deletes nothing.
// There is no undo.
func (s *MaintenanceService) Revoke(ctx context.Context, label string) (int, error) {
	if s.DB == nil {
		return 0, fmt.Errorf("maintenance: db not configured")
	}
	var deleted int
	err := database.WithTx(ctx, s.DB, func(tx *sql.Tx) error {
		n, err := s.Records.WithTx(tx).DeleteByBatch(ctx, label)
		if err != nil {
			return fmt.Errorf("delete records: %w", err)
		}
		if err := s.Batches.WithTx(tx).Delete(ctx, label); err != nil {
			return fmt.Errorf("delete batch log: %w", err)
		}
		deleted = n
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("revoke %q: %w", label, err)
	}
	log := logger.FromContext(ctx)
	log.Info().Str("batch", label).Int("deleted", deleted).Msg("batch revoked")
	return deleted, nil
}

// ListBatches returns labels that still have records, ordered by label.
func (s *MaintenanceService) ListBatches(ctx context.Context) ([]BatchSummary, error) {
	counts, err := s.Records.BatchCounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("list batches: %w", err)
	}
	logs, err := s.Batches.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list batch log: %w", err)
	}
	byLabel := make(map[string]repository.Batch, len(logs))
	for _, b := range logs {
		byLabel[b.Label] = b
	}
	out := make([]BatchSummary, 0, len(counts))
	for _, c := range counts {
		bs := BatchSummary{Label: c.Label, Records: c.Records}
		if b, ok := byLabel[c.Label]; ok {
			b := b
			bs.Log = &b
		}
		out = append(out, bs)
	}
	return out, nil
}

// SuggestLabel finds the stored label closest to label, for when an
// operator mistypes one. ok is false if nothing is reasonably close.
func (s *MaintenanceService) SuggestLabel(ctx context.Context, label string) (suggestion string, ok bool, err error) {
	batches, err := s.ListBatches(ctx)
	if err != nil {
		return "", false, err
	}
	want := strings.TrimSpace(label)
	best := -1
	for _, b := range batches {
		d := levenshtein.ComputeDistance(want, b.Label)
		if best < 0 || d < best {
			best = d
			suggestion = b.Label
		}
	}
	if best < 0 {
		return "", false, nil
	}
	// More than a third of the label differing is a different label.
	if float64(best)/float64(max(len(want), len(suggestion))) > 1.0/3.0 {
		return "", false, nil
	}
	return suggestion, true, nil
}
