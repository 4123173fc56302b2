package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jask/roadcards/internal/database/repository"
)

func newMaintenance(env *testEnv) *MaintenanceService {
	return &MaintenanceService{DB: env.db, Records: env.records, Batches: env.batches}
}

func TestRevokeDeletesExactlyTheBatch(t *testing.T) {
	t.Parallel()
	env := setupEnv(t)
	svc := newMaintenance(env)

	for i := range 3 {
		env.insert(t, "A_label", expense("100", t0.Add(time.Duration(i)*time.Minute), "DT", 10))
	}
	// Same cards and instants, different batch.
	env.insert(t, "B_label", expense("100", t0, "AI-95", 10))
	env.insert(t, "B_label", payment("100", t0.Add(time.Minute), 10))
	require.NoError(t, env.batches.Add(env.ctx, repository.Batch{Label: "A_label", Kind: repository.KindExpense, Added: 3, ImportedAt: t0}))

	n, err := svc.Revoke(env.ctx, "A_label")
	require.NoError(t, err)
	require.Equal(t, 3, n)
	require.Zero(t, env.count(t, `SELECT COUNT(*) FROM records WHERE batch_label = 'A_label'`))
	require.Equal(t, 2, env.count(t, `SELECT COUNT(*) FROM records WHERE batch_label = 'B_label'`))

	logEntry, err := env.batches.Get(env.ctx, "A_label")
	require.NoError(t, err)
	require.Nil(t, logEntry)

	n, err = svc.Revoke(env.ctx, "A_label")
	require.NoError(t, err)
	require.Zero(t, n)

	n, err = svc.Revoke(env.ctx, "never-imported")
	require.NoError(t, err)
	require.Zero(t, n)
}

func TestListBatchesAndSuggest(t *testing.T) {
	t.Parallel()
	env := setupEnv(t)
	svc := newMaintenance(env)

	label := "fuel_jan_2_2025-01-15 10:30:00"
	env.insert(t, label, expense("100", t0, "DT", 10))
	env.insert(t, label, expense("100", t0.Add(time.Minute), "DT", 10))
	env.insert(t, "other_2025-02-01 08:00:00", payment("200", t0, 10))
	require.NoError(t, env.batches.Add(env.ctx, repository.Batch{Label: label, FileName: "fuel_jan_2025.xlsx", Kind: repository.KindExpense, Added: 2, ImportedAt: t0}))

	batches, err := svc.ListBatches(env.ctx)
	require.NoError(t, err)
	require.Len(t, batches, 2)
	require.Equal(t, label, batches[0].Label)
	require.Equal(t, 2, batches[0].Records)
	require.NotNil(t, batches[0].Log)
	require.Equal(t, "fuel_jan_2025.xlsx", batches[0].Log.FileName)
	require.Nil(t, batches[1].Log)

	got, ok, err := svc.SuggestLabel(env.ctx, "fuel_jan_2_2025-01-15 10:30:01")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, label, got)

	_, ok, err = svc.SuggestLabel(env.ctx, "nothing alike")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestSuggestLabelWithoutBatches(t *testing.T) {
	t.Parallel()
	env := setupEnv(t)

	_, ok, err := newMaintenance(env).SuggestLabel(env.ctx, "anything")
	require.NoError(t, err)
	require.False(t, ok)
}
