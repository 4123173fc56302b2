package tui

import (
	"bytes"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	"github.com/jask/roadcards/internal/database/repository"
	"github.com/jask/roadcards/internal/service"
)

func press(m ConfirmModel, key tea.KeyMsg) (ConfirmModel, tea.Cmd) {
	next, cmd := m.Update(key)
	return next.(ConfirmModel), cmd
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestConfirmModelKeys(t *testing.T) {
	t.Parallel()

	m := NewConfirm("Import anyway?")
	require.Contains(t, m.View(), "Import anyway?")
	require.Contains(t, m.View(), "[y/N]")

	m, cmd := press(m, runes("x"))
	require.Nil(t, cmd)
	require.False(t, m.Answered())

	yes, cmd := press(m, runes("y"))
	require.NotNil(t, cmd)
	require.True(t, yes.Answered())
	require.True(t, yes.Accepted())
	require.Contains(t, yes.View(), "yes")

	for _, key := range []tea.KeyMsg{runes("n"), {Type: tea.KeyEsc}, {Type: tea.KeyEnter}, {Type: tea.KeyCtrlC}} {
		no, cmd := press(m, key)
		require.NotNil(t, cmd, key.String())
		require.True(t, no.Answered(), key.String())
		require.False(t, no.Accepted(), key.String())
	}

	same, cmd := m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	require.Nil(t, cmd)
	require.Equal(t, m, same.(ConfirmModel))
}

func TestConfirmProgram(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	ok, err := Confirm("Proceed?", strings.NewReader("y"), &out)
	require.NoError(t, err)
	require.True(t, ok)

	out.Reset()
	ok, err = Confirm("Proceed?", strings.NewReader("n"), &out)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestRenderImport(t *testing.T) {
	t.Parallel()

	at := time.Date(2025, 1, 15, 10, 30, 0, 0, time.UTC)
	out := RenderImport(service.ImportReport{
		Label:   "fuel_jan_2_2025-02-01 09:00:00",
		Kind:    repository.KindExpense,
		Added:   3,
		Skipped: 1,
		Dropped: 2,
		Warnings: []service.Warning{
			{RowIndex: 5, CardNumber: "7001", OccurredAt: at, ItemName: "DT", CostRounded: 1500},
		},
	})
	require.Contains(t, out, "fuel_jan_2_2025-02-01 09:00:00")
	require.Contains(t, out, "added 3")
	require.Contains(t, out, "skipped 1")
	require.Contains(t, out, "dropped 2")
	require.Contains(t, out, "row 5: card 7001, 15.01.2025 10:30, DT, 1500")

	quiet := RenderImport(service.ImportReport{Kind: repository.KindPayment, Added: 1})
	require.NotContains(t, quiet, "possible duplicates")
	require.NotContains(t, quiet, "dropped")
}

func TestRenderBalance(t *testing.T) {
	t.Parallel()

	require.Contains(t, RenderBalance("alice", 120, "unknown"), "120.00")
	require.Contains(t, RenderBalance("alice", 120, "unknown"), "Data as of unknown")
	require.Contains(t, RenderBalance("bob", -5.5, "10:00 01 February 2025"), "-5.50 (credit)")
	require.Contains(t, RenderBalance("carol", 0, "unknown"), "0.00")
}

func TestRenderHistoryAndBatches(t *testing.T) {
	t.Parallel()

	at := time.Date(2025, 1, 15, 10, 30, 0, 0, time.UTC)
	out := RenderHistory("alice", service.HistoryPage{
		Records: []repository.Record{
			{ID: "rec-1", CardNumber: "7001", OccurredAt: at, ItemName: "DT", Cost: 12.5, Kind: repository.KindExpense},
		},
		PageIndex:  1,
		PageSize:   10,
		TotalCount: 11,
		TotalPages: 2,
	})
	require.Contains(t, out, "15.01.2025 10:30:00")
	require.Contains(t, out, "12.50")
	require.Contains(t, out, "page 2 of 2 (11 records)")
	require.Contains(t, out, "rec-1")

	detail := RenderRecord(repository.Record{
		ID: "rec-1", CardNumber: "7001", BatchLabel: "jan_2025-02-01 09:00:00", OccurredAt: at,
		Firm: "Roadside", Address: "Route 1", ItemName: "DT", Quantity: 2.5, UnitPrice: 5, Cost: 12.5,
		Kind: repository.KindPayment,
	})
	require.Contains(t, detail, "Record rec-1")
	require.Contains(t, detail, "Route 1")
	require.Contains(t, detail, "payment")
	require.Contains(t, detail, "2.5")
	require.Contains(t, detail, "jan_2025-02-01 09:00:00")

	empty := RenderHistory("nobody", service.HistoryPage{TotalPages: 1})
	require.Contains(t, empty, "no records")
	require.Contains(t, empty, "page 1 of 1")

	batches := RenderBatches([]service.BatchSummary{
		{Label: "a_2025-01-01 00:00:00", Records: 4, Log: &repository.Batch{FileName: "a.xlsx", Kind: repository.KindExpense}},
		{Label: "b_2025-01-02 00:00:00", Records: 1},
	})
	require.Contains(t, batches, "a_2025-01-01 00:00:00")
	require.Contains(t, batches, "a.xlsx")
	require.Contains(t, batches, "b_2025-01-02 00:00:00")
	require.Contains(t, RenderBatches(nil), "no batches")
}
