package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jask/roadcards/internal/database/repository"
	"github.com/jask/roadcards/internal/service"
)

// Catppuccin Mocha subset, same palette as the rest of the UI.
const (
	colorPink     lipgloss.Color = "#f5c2e7"
	colorRed      lipgloss.Color = "#f38ba8"
	colorYellow   lipgloss.Color = "#f9e2af"
	colorGreen    lipgloss.Color = "#a6e3a1"
	colorOverlay1 lipgloss.Color = "#7f849c"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Underline(true).Foreground(colorPink)
	promptStyle = lipgloss.NewStyle().Bold(true).Foreground(colorYellow)
	okStyle     = lipgloss.NewStyle().Foreground(colorGreen)
	warnStyle   = lipgloss.NewStyle().Foreground(colorYellow)
	owedStyle   = lipgloss.NewStyle().Bold(true).Foreground(colorRed)
	mutedStyle  = lipgloss.NewStyle().Foreground(colorOverlay1)
	cellStyle   = lipgloss.NewStyle().PaddingRight(2)
)

const (
	warningDateLayout = "02.01.2006 15:04"
	historyDateLayout = "02.01.2006 15:04:05"
)

// RenderImport summarizes a finished import followed by its warnings.
func RenderImport(r service.ImportReport) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Import " + string(r.Kind)))
	b.WriteString("\n")
	fmt.Fprintf(&b, "Batch: %s\n", r.Label)
	fmt.Fprintf(&b, "%s  skipped %d", okStyle.Render(fmt.Sprintf("added %d", r.Added)), r.Skipped)
	if r.Dropped > 0 {
		fmt.Fprintf(&b, "  %s", mutedStyle.Render(fmt.Sprintf("dropped %d (no card or date)", r.Dropped)))
	}
	b.WriteString("\n")
	if len(r.Warnings) == 0 {
		return b.String()
	}
	b.WriteString(warnStyle.Render(fmt.Sprintf("%d possible duplicates:", len(r.Warnings))))
	b.WriteString("\n")
	for _, w := range r.Warnings {
		b.WriteString(RenderWarning(w))
		b.WriteString("\n")
	}
	return b.String()
}

// RenderWarning is one line per collision.
func RenderWarning(w service.Warning) string {
	return fmt.Sprintf("row %d: card %s, %s, %s, %d",
		w.RowIndex, w.CardNumber, w.OccurredAt.Format(warningDateLayout), w.ItemName, w.CostRounded)
}

// RenderBalance shows what identity owes and when data was last imported.
func RenderBalance(identity string, balance float64, lastUpdate string) string {
	amount := fmt.Sprintf("%.2f", balance)
	switch {
	case balance > 0:
		amount = owedStyle.Render(amount)
	case balance < 0:
		amount = okStyle.Render(amount + " (credit)")
	}
	return fmt.Sprintf("%s\nBalance: %s\n%s\n",
		titleStyle.Render("Balance for "+identity),
		amount,
		mutedStyle.Render("Data as of "+lastUpdate))
}

// RenderHistory renders one page as a table, newest first.
func RenderHistory(identity string, p service.HistoryPage) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("History for " + identity))
	b.WriteString("\n")
	if len(p.Records) == 0 {
		b.WriteString(mutedStyle.Render("no records"))
		b.WriteString("\n")
	} else {
		rows := [][]string{{"ID", "Date", "Card", "Type", "Item", "Cost"}}
		for _, r := range p.Records {
			rows = append(rows, []string{
				r.ID,
				r.OccurredAt.Format(historyDateLayout),
				r.CardNumber,
				service.TypeLabel(r.Kind),
				r.ItemName,
				fmt.Sprintf("%.2f", r.Cost),
			})
		}
		b.WriteString(table(rows))
	}
	fmt.Fprintf(&b, "%s\n", mutedStyle.Render(fmt.Sprintf("page %d of %d (%d records)", p.PageIndex+1, p.TotalPages, p.TotalCount)))
	return b.String()
}

// RenderRecord shows every field of one record.
func RenderRecord(r repository.Record) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Record " + r.ID))
	b.WriteString("\n")
	b.WriteString(table([][]string{
		{"Field", "Value"},
		{"Date", r.OccurredAt.Format(historyDateLayout)},
		{"Card", r.CardNumber},
		{"Type", service.TypeLabel(r.Kind)},
		{"Firm", r.Firm},
		{"Address", r.Address},
		{"Item", r.ItemName},
		{"Quantity", fmt.Sprintf("%g", r.Quantity)},
		{"Price", fmt.Sprintf("%.2f", r.UnitPrice)},
		{"Cost", fmt.Sprintf("%.2f", r.Cost)},
		{"Batch", r.BatchLabel},
	}))
	return b.String()
}

// RenderBatches lists revocable batches.
func RenderBatches(batches []service.BatchSummary) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Batches"))
	b.WriteString("\n")
	if len(batches) == 0 {
		b.WriteString(mutedStyle.Render("no batches"))
		b.WriteString("\n")
		return b.String()
	}
	rows := [][]string{{"Label", "Records", "File", "Kind"}}
	for _, bs := range batches {
		file, kind := "-", "-"
		if bs.Log != nil {
			file, kind = bs.Log.FileName, string(bs.Log.Kind)
		}
		rows = append(rows, []string{bs.Label, fmt.Sprint(bs.Records), file, kind})
	}
	b.WriteString(table(rows))
	return b.String()
}

// table pads columns to their widest cell; the first row is the header.
func table(rows [][]string) string {
	widths := make([]int, len(rows[0]))
	for _, row := range rows {
		for i, cell := range row {
			widths[i] = max(widths[i], lipgloss.Width(cell))
		}
	}
	var b strings.Builder
	for n, row := range rows {
		cells := make([]string, len(row))
		for i, cell := range row {
			cells[i] = cellStyle.Width(widths[i] + 2).Render(cell)
		}
		line := lipgloss.JoinHorizontal(lipgloss.Top, cells...)
		if n == 0 {
			line = mutedStyle.Render(line)
		}
		b.WriteString(strings.TrimRight(line, " "))
		b.WriteString("\n")
	}
	return b.String()
}
