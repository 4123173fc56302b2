package service

import (
	"context"
	"database/sql"
	"iter"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/jask/roadcards/internal/database"
	"github.com/jask/roadcards/internal/database/repository"
	"github.com/jask/roadcards/internal/workbook"
)

type testEnv struct {
	ctx        context.Context
	db         *sql.DB
	records    *repository.RecordRepo
	whitelist  *repository.WhitelistRepo
	bindings   *repository.BindingRepo
	batches    *repository.BatchRepo
	registrar  *WhitelistRegistrar
	reconciler *Reconciler
}

func setupEnv(t *testing.T) *testEnv {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	t.Cleanup(cancel)

	dbPath := filepath.Join(t.TempDir(), "test.db")
	migrations, err := filepath.Abs("../database/migrations")
	require.NoError(t, err)
	require.NoError(t, database.RunMigrations(dbPath, migrations))

	db, err := database.Open(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	env := &testEnv{
		ctx:       ctx,
		db:        db,
		records:   repository.NewRecordRepo(db),
		whitelist: repository.NewWhitelistRepo(db),
		bindings:  repository.NewBindingRepo(db),
		batches:   repository.NewBatchRepo(db),
	}
	env.registrar = &WhitelistRegistrar{Whitelist: env.whitelist}
	env.reconciler = &Reconciler{DB: db, Records: env.records, Registrar: env.registrar}
	return env
}

// seqOf yields candidates with worksheet row numbers starting at 4.
func seqOf(cands ...workbook.Candidate) iter.Seq2[int, workbook.Candidate] {
	return func(yield func(int, workbook.Candidate) bool) {
		for i, c := range cands {
			if !yield(i+4, c) {
				return
			}
		}
	}
}

func expense(card string, at time.Time, item string, cost float64) workbook.Candidate {
	return workbook.Candidate{
		CardNumber: card,
		OccurredAt: at,
		Firm:       "Roadside",
		ItemName:   item,
		Quantity:   1,
		UnitPrice:  cost,
		Cost:       cost,
		Kind:       repository.KindExpense,
	}
}

func payment(card string, at time.Time, cost float64) workbook.Candidate {
	return workbook.Candidate{
		CardNumber: card,
		OccurredAt: at,
		ItemName:   "Top-up",
		Quantity:   1,
		UnitPrice:  cost,
		Cost:       cost,
		Kind:       repository.KindPayment,
	}
}

func (e *testEnv) insert(t *testing.T, label string, c workbook.Candidate) {
	t.Helper()
	rec := toRecord(c, label)
	rec.ID = uuid.NewString()
	require.NoError(t, e.records.Insert(e.ctx, rec))
}

func (e *testEnv) bind(t *testing.T, identity string, cards ...string) {
	t.Helper()
	for _, c := range cards {
		require.NoError(t, e.bindings.Insert(e.ctx, repository.Binding{ID: uuid.NewString(), Identity: identity, CardNumber: c}))
	}
}

func (e *testEnv) count(t *testing.T, query string, args ...any) int {
	t.Helper()
	var n int
	require.NoError(t, e.db.QueryRowContext(e.ctx, query, args...).Scan(&n))
	return n
}
