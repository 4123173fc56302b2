package workbook

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Confidence is the classifier's opinion of a workbook layout.
type Confidence int

const (
	// ConfidenceOK means the layout looks right.
	ConfidenceOK Confidence = iota
	// ConfidenceSuspect means the operator should confirm before parsing.
	ConfidenceSuspect
)

func (c Confidence) String() string {
	if c == ConfidenceOK {
		return "ok"
	}
	return "suspect"
}

// Classify sniffs the header layout of the active sheet. B2 is usually
// covered by a merged title and A3 is an unused margin, both blank; B3 holds
// the first column header. A cell inside a merged range other than its
// top-left cell counts as blank. It is a hint only and never rejects a
// readable workbook.
func Classify(data []byte) (Confidence, error) {
	f, sheet, err := open(data)
	if err != nil {
		return ConfidenceSuspect, err
	}
	defer f.Close()

	merged, err := f.GetMergeCells(sheet)
	if err != nil {
		return ConfidenceSuspect, fmt.Errorf("%w: merged cells: %v", ErrFormatUnreadable, err)
	}
	cell := func(axis string) (string, error) {
		if coveredByMerge(merged, axis) {
			return "", nil
		}
		v, err := f.GetCellValue(sheet, axis, excelize.Options{RawCellValue: true})
		if err != nil {
			return "", fmt.Errorf("%w: cell %s: %v", ErrFormatUnreadable, axis, err)
		}
		return strings.TrimSpace(v), nil
	}
	b2, err := cell("B2")
	if err != nil {
		return ConfidenceSuspect, err
	}
	a3, err := cell("A3")
	if err != nil {
		return ConfidenceSuspect, err
	}
	b3, err := cell("B3")
	if err != nil {
		return ConfidenceSuspect, err
	}
	if b2 == "" && a3 == "" && b3 != "" {
		return ConfidenceOK, nil
	}
	return ConfidenceSuspect, nil
}

// coveredByMerge reports whether axis lies inside a merged range without
// being its top-left cell. excelize reports the anchor's value for such
// cells; they hold none of their own.
func coveredByMerge(merged []excelize.MergeCell, axis string) bool {
	col, row, err := excelize.CellNameToCoordinates(axis)
	if err != nil {
		return false
	}
	for _, m := range merged {
		c1, r1, err := excelize.CellNameToCoordinates(m.GetStartAxis())
		if err != nil {
			continue
		}
		c2, r2, err := excelize.CellNameToCoordinates(m.GetEndAxis())
		if err != nil {
			continue
		}
		if col < c1 || col > c2 || row < r1 || row > r2 {
			continue
		}
		return col != c1 || row != r1
	}
	return false
}
