package service

import (
	"context"
	"fmt"
	"time"

	"github.com/jask/roadcards/internal/database/repository"
	"github.com/jask/roadcards/internal/workbook"
)

// ExportService projects a date range of records into export rows.
type ExportService struct {
	Records *repository.RecordRepo
}

// Export returns rows with start <= occurred_at <= end, oldest first. An
// empty result is not an error; callers report it as "no records".
func (s *ExportService) Export(ctx context.Context, start, end time.Time) ([]workbook.ExportRow, error) {
	records, err := s.Records.ListRange(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("export: %w", err)
	}
	if len(records) == 0 {
		return nil, nil
	}
	out := make([]workbook.ExportRow, len(records))
	for i, r := range records {
		out[i] = workbook.ExportRow{
			Firm:       r.Firm,
			CardNumber: r.CardNumber,
			OccurredAt: r.OccurredAt,
			Address:    r.Address,
			ItemName:   r.ItemName,
			Quantity:   r.Quantity,
			UnitPrice:  r.UnitPrice,
			Cost:       r.Cost,
			Type:       TypeLabel(r.Kind),
		}
	}
	return out, nil
}

// TypeLabel is the human label for kind.
func TypeLabel(kind repository.Kind) string {
	switch kind {
	case repository.KindExpense:
		return "expense"
	case repository.KindPayment:
		return "payment"
	default:
		return string(kind)
	}
}
