package workbook

import (
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"
)

const exportSheet = "Export"

// ExportHeader is the first row of every export.
var ExportHeader = []string{"Firm", "Card", "Date", "Address", "Item", "Quantity", "Price", "Cost", "Type"}

// ExportRow is one record projected for people.
type ExportRow struct {
	Firm       string
	CardNumber string
	OccurredAt time.Time
	Address    string
	ItemName   string
	Quantity   float64
	UnitPrice  float64
	Cost       float64
	Type       string
}

// ExportFileName names an export covering start..end.
func ExportFileName(start, end time.Time) string {
	return fmt.Sprintf("export_%s_%s.xlsx", start.Format("02012006"), end.Format("02012006"))
}

// WriteExport writes rows as a single-sheet workbook to w.
func WriteExport(w io.Writer, rows []ExportRow) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), exportSheet); err != nil {
		return fmt.Errorf("export: rename sheet: %w", err)
	}
	dateStyle, err := f.NewStyle(&excelize.Style{CustomNumFmt: strPtr("dd.mm.yyyy hh:mm:ss")})
	if err != nil {
		return fmt.Errorf("export: date style: %w", err)
	}

	header := make([]interface{}, len(ExportHeader))
	for i, h := range ExportHeader {
		header[i] = h
	}
	if err := f.SetSheetRow(exportSheet, "A1", &header); err != nil {
		return fmt.Errorf("export: header: %w", err)
	}
	for i, r := range rows {
		axis, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		values := []interface{}{r.Firm, r.CardNumber, r.OccurredAt, r.Address, r.ItemName, r.Quantity, r.UnitPrice, r.Cost, r.Type}
		if err := f.SetSheetRow(exportSheet, axis, &values); err != nil {
			return fmt.Errorf("export: row %d: %w", i+2, err)
		}
		dateCell, _ := excelize.CoordinatesToCellName(3, i+2)
		if err := f.SetCellStyle(exportSheet, dateCell, dateCell, dateStyle); err != nil {
			return fmt.Errorf("export: row %d style: %w", i+2, err)
		}
	}
	_, err = f.WriteTo(w)
	return err
}

func strPtr(s string) *string { return &s }
