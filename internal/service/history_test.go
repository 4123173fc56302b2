package service

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jask/roadcards/internal/database/repository"
)

func TestHistoryPagination(t *testing.T) {
	t.Parallel()
	env := setupEnv(t)
	svc := &HistoryService{Cards: env.bindings, Records: env.records}

	env.bind(t, "alice", "100", "200")
	for i := range 25 {
		card := "100"
		if i%2 == 1 {
			card = "200"
		}
		env.insert(t, "rep", expense(card, t0.Add(time.Duration(i)*time.Minute), fmt.Sprintf("item-%02d", i), float64(i)))
	}
	env.insert(t, "rep", expense("900", t0.Add(time.Hour), "other", 1))

	var all []repository.Record
	for p := range 3 {
		page, err := svc.Page(env.ctx, "alice", p, 0)
		require.NoError(t, err)
		require.Equal(t, 25, page.TotalCount)
		require.Equal(t, 3, page.TotalPages)
		require.Equal(t, DefaultPageSize, page.PageSize)
		all = append(all, page.Records...)
	}
	require.Len(t, all, 25)
	for i, r := range all {
		require.Equal(t, fmt.Sprintf("item-%02d", 24-i), r.ItemName, "rank %d", i+1)
	}

	page, err := svc.Page(env.ctx, "alice", 1, 0)
	require.NoError(t, err)
	require.Len(t, page.Records, 10)
	require.Equal(t, "item-14", page.Records[0].ItemName)
	require.Equal(t, "item-05", page.Records[9].ItemName)

	last, err := svc.Page(env.ctx, "alice", 2, 0)
	require.NoError(t, err)
	require.Len(t, last.Records, 5)

	past, err := svc.Page(env.ctx, "alice", 3, 0)
	require.NoError(t, err)
	require.Empty(t, past.Records)
	require.Equal(t, 3, past.TotalPages)
}

func TestHistoryPageSizeAndEdges(t *testing.T) {
	t.Parallel()
	env := setupEnv(t)
	svc := &HistoryService{Cards: env.bindings, Records: env.records, PageSize: 4}

	empty, err := svc.Page(env.ctx, "nobody", 0, 0)
	require.NoError(t, err)
	require.Empty(t, empty.Records)
	require.Equal(t, 1, empty.TotalPages)
	require.Equal(t, 4, empty.PageSize)

	_, err = svc.Page(env.ctx, "nobody", -1, 0)
	require.ErrorIs(t, err, ErrPageIndex)

	env.bind(t, "alice", "100")
	for i := range 5 {
		env.insert(t, "rep", expense("100", t0.Add(time.Duration(i)*time.Second), "DT", 1))
	}
	page, err := svc.Page(env.ctx, "alice", 0, 0)
	require.NoError(t, err)
	require.Len(t, page.Records, 4)
	require.Equal(t, 2, page.TotalPages)

	page, err = svc.Page(env.ctx, "alice", 0, 5)
	require.NoError(t, err)
	require.Len(t, page.Records, 5)
	require.Equal(t, 1, page.TotalPages)
}

func TestTotalPages(t *testing.T) {
	t.Parallel()
	cases := []struct{ total, size, want int }{
		{0, 10, 1},
		{1, 10, 1},
		{10, 10, 1},
		{11, 10, 2},
		{25, 10, 3},
	}
	for _, tc := range cases {
		require.Equal(t, tc.want, totalPages(tc.total, tc.size), "total=%d size=%d", tc.total, tc.size)
	}
}

func TestHistoryRecordByID(t *testing.T) {
	t.Parallel()
	env := setupEnv(t)
	svc := &HistoryService{Cards: env.bindings, Records: env.records}

	_, err := env.reconciler.Reconcile(env.ctx, seqOf(expense("100", t0, "DT", 42.5)), "rep")
	require.NoError(t, err)
	env.bind(t, "alice", "100")
	page, err := svc.Page(env.ctx, "alice", 0, 0)
	require.NoError(t, err)
	require.Len(t, page.Records, 1)
	id := page.Records[0].ID

	rec, err := svc.Record(env.ctx, " "+id+" ")
	require.NoError(t, err)
	require.NotNil(t, rec)
	require.Equal(t, "rep", rec.BatchLabel)
	require.Equal(t, 42.5, rec.Cost)
	require.True(t, t0.Equal(rec.OccurredAt))

	missing, err := svc.Record(env.ctx, "no-such-id")
	require.NoError(t, err)
	require.Nil(t, missing)
}
