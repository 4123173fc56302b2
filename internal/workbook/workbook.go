// Package workbook reads fuel-card spreadsheets into candidate records and
// writes date-range exports.
package workbook

import (
	"bytes"
	"errors"
	"fmt"
	"iter"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/jask/roadcards/internal/database/repository"
)

// DefaultHeaderRows is the number of rows above the first data row: two
// title rows and the column header row.
const DefaultHeaderRows = 3

var (
	// ErrFormatUnreadable means the bytes are not a workbook we can read.
	ErrFormatUnreadable = errors.New("workbook: format unreadable")
	// ErrInvalidCell means a kept row carries a malformed numeric cell.
	ErrInvalidCell = errors.New("workbook: invalid cell")
)

// Candidate is a normalized row that has not been reconciled yet.
type Candidate struct {
	CardNumber string
	OccurredAt time.Time
	Firm       string
	Address    string
	ItemName   string
	Quantity   float64
	UnitPrice  float64
	Cost       float64
	Kind       repository.Kind
}

type indexedCandidate struct {
	row int
	c   Candidate
}

// Batch is the parsed content of one uploaded workbook.
type Batch struct {
	Kind repository.Kind
	// Dropped counts non-blank rows left out because card or date was
	// missing or the date could not be read.
	Dropped int

	rows []indexedCandidate
}

// All yields (row index, candidate) pairs in sheet order. Row indexes are
// 1-based worksheet row numbers. The workbook is read and every row
// validated in full before the batch exists, so iteration only walks memory
// and can be repeated.
func (b *Batch) All() iter.Seq2[int, Candidate] {
	return func(yield func(int, Candidate) bool) {
		if b == nil {
			return
		}
		for _, ic := range b.rows {
			if !yield(ic.row, ic.c) {
				return
			}
		}
	}
}

// Len is the number of candidates in the batch.
func (b *Batch) Len() int {
	if b == nil {
		return 0
	}
	return len(b.rows)
}

// open reads data as a workbook and returns it with its active sheet name.
// Cells are read raw so dates come back as serial numbers.
func open(data []byte) (*excelize.File, string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data), excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrFormatUnreadable, err)
	}
	sheet := f.GetSheetName(f.GetActiveSheetIndex())
	if sheet == "" {
		_ = f.Close()
		return nil, "", fmt.Errorf("%w: no active sheet", ErrFormatUnreadable)
	}
	return f, sheet, nil
}

func readRows(data []byte) ([][]string, error) {
	f, sheet, err := open(data)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFormatUnreadable, err)
	}
	return rows, nil
}
