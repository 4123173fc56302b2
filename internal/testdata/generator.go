// Package testdata builds spreadsheet fixtures shaped like the fuel station
// reports.
package testdata

import (
	"bytes"
	"time"

	"github.com/xuri/excelize/v2"
)

var (
	expenseHeader = []interface{}{"Firm", "Card", "Date", "Address", "Item", "Quantity", "Price", "Cost"}
	paymentHeader = []interface{}{"Date", "Card", "Name", "Operation", "Amount"}
)

// ExpenseRow is one line of an expense report. Card and Date are any so
// fixtures can mix typed and textual cells.
type ExpenseRow struct {
	Firm     string
	Card     any
	Date     any
	Address  string
	Item     string
	Quantity any
	Price    any
	Cost     any
}

// PaymentRow is one line of a payment report.
type PaymentRow struct {
	Date      any
	Card      any
	Name      string
	Operation string
	Amount    any
}

// Options tweak the layout around the data.
type Options struct {
	// FillB2 writes into the cell that is normally a blank merged title.
	FillB2 bool
	// BlankHeader leaves B3 empty.
	BlankHeader bool
	// MergeTitle merges A1:I2 under the title, as the station exports do.
	MergeTitle bool
}

// ExpenseBook renders rows as an expense workbook with data from row 4.
func ExpenseBook(opts Options, rows ...ExpenseRow) ([]byte, error) {
	data := make([][]interface{}, len(rows))
	for i, r := range rows {
		data[i] = []interface{}{r.Firm, r.Card, r.Date, r.Address, r.Item, r.Quantity, r.Price, r.Cost}
	}
	return book(opts, expenseHeader, data)
}

// PaymentBook renders rows as a payment workbook with data from row 4.
func PaymentBook(opts Options, rows ...PaymentRow) ([]byte, error) {
	data := make([][]interface{}, len(rows))
	for i, r := range rows {
		data[i] = []interface{}{r.Date, r.Card, r.Name, r.Operation, r.Amount}
	}
	return book(opts, paymentHeader, data)
}

// Seq returns n expense rows on card, one minute apart from start, with
// cost 10*(i+1).
func Seq(card string, start time.Time, n int) []ExpenseRow {
	out := make([]ExpenseRow, n)
	for i := range out {
		cost := float64(10 * (i + 1))
		out[i] = ExpenseRow{
			Firm:     "Roadside LLC",
			Card:     card,
			Date:     start.Add(time.Duration(i) * time.Minute),
			Address:  "Route 1",
			Item:     "DT",
			Quantity: 1,
			Price:    cost,
			Cost:     cost,
		}
	}
	return out
}

func book(opts Options, header []interface{}, rows [][]interface{}) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)

	if err := f.SetCellValue(sheet, "A1", "Transactions report"); err != nil {
		return nil, err
	}
	if opts.MergeTitle {
		if err := f.MergeCell(sheet, "A1", "I2"); err != nil {
			return nil, err
		}
	}
	if opts.FillB2 {
		if err := f.SetCellValue(sheet, "B2", "period"); err != nil {
			return nil, err
		}
	}
	hdr := header
	if opts.BlankHeader {
		hdr = append([]interface{}{nil}, header[1:]...)
	}
	if err := f.SetSheetRow(sheet, "B3", &hdr); err != nil {
		return nil, err
	}
	for i, r := range rows {
		axis, err := excelize.CoordinatesToCellName(2, i+4)
		if err != nil {
			return nil, err
		}
		row := r
		if err := f.SetSheetRow(sheet, axis, &row); err != nil {
			return nil, err
		}
	}
	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
