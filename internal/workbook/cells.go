package workbook

import (
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// textDateLayouts are tried in order for dates typed as text.
var textDateLayouts = []string{
	"2.1.2006 15:04:05",
	"2.1.2006 15:04",
}

func cellAt(row []string, col int) string {
	if col < 0 || col >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[col])
}

func blankRow(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// parseDate accepts an Excel serial (the raw form of a date-typed cell) or
// one of textDateLayouts. The result is a wall clock in UTC.
func parseDate(raw string) (time.Time, bool) {
	if raw == "" {
		return time.Time{}, false
	}
	if serial, err := strconv.ParseFloat(raw, 64); err == nil {
		t, err := excelize.ExcelDateToTime(serial, false)
		if err != nil {
			return time.Time{}, false
		}
		return t.UTC().Round(time.Second), true
	}
	for _, layout := range textDateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// parseNumber reads a raw numeric cell. Blank is zero. Text with spaces as
// thousands separators or a decimal comma is accepted.
func parseNumber(raw string) (float64, error) {
	if raw == "" {
		return 0, nil
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil {
		return f, nil
	}
	cleaned := strings.NewReplacer(" ", "", "\u00a0", "", ",", ".").Replace(raw)
	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return 0, err
	}
	return d.InexactFloat64(), nil
}

// normalizeCard renders card numbers stored as numbers ("7.8E+15", "123.0")
// as plain digits and leaves everything else as typed.
func normalizeCard(raw string) string {
	if raw == "" {
		return ""
	}
	if !strings.ContainsAny(raw, ".eE") {
		return raw
	}
	d, err := decimal.NewFromString(raw)
	if err != nil || !d.Equal(d.Truncate(0)) {
		return raw
	}
	return d.Truncate(0).String()
}
