package service

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/jask/roadcards/internal/database/repository"
)

// WhitelistRegistrar makes cards seen in accepted imports eligible for
// binding. Registration is idempotent.
type WhitelistRegistrar struct {
	Whitelist *repository.WhitelistRepo
}

// WithTx returns a registrar whose reads and writes go through tx.
func (w *WhitelistRegistrar) WithTx(tx *sql.Tx) *WhitelistRegistrar {
	return &WhitelistRegistrar{Whitelist: w.Whitelist.WithTx(tx)}
}

// Register adds card unless it is already present.
func (w *WhitelistRegistrar) Register(ctx context.Context, card string) error {
	exists, err := w.Whitelist.Exists(ctx, card)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}
	return w.Whitelist.Insert(ctx, repository.WhitelistEntry{ID: uuid.NewString(), CardNumber: card})
}

func (w *WhitelistRegistrar) IsWhitelisted(ctx context.Context, card string) (bool, error) {
	return w.Whitelist.Exists(ctx, card)
}
