package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/jask/roadcards/internal/database"
	"github.com/jask/roadcards/internal/database/repository"
)

var (
	// ErrCardNotWhitelisted means the card never appeared in an accepted import.
	ErrCardNotWhitelisted = errors.New("card is not whitelisted")
	// ErrCardTaken means another identity already holds the card.
	ErrCardTaken = errors.New("card is bound to another identity")
)

// RegistrationService binds whitelisted cards to identities.
type RegistrationService struct {
	DB        *sql.DB
	Registrar *WhitelistRegistrar
	Bindings  *repository.BindingRepo
}

// Register binds card to identity. Binding a card the identity already
// holds is a no-op.
func (s *RegistrationService) Register(ctx context.Context, identity, card string) error {
	identity, card = strings.TrimSpace(identity), strings.TrimSpace(card)
	if identity == "" || card == "" {
		return errors.New("register: identity and card are required")
	}
	return database.WithTx(ctx, s.DB, func(tx *sql.Tx) error {
		ok, err := s.Registrar.WithTx(tx).IsWhitelisted(ctx, card)
		if err != nil {
			return fmt.Errorf("register: %w", err)
		}
		if !ok {
			return fmt.Errorf("register %s: %w", card, ErrCardNotWhitelisted)
		}
		bindings := s.Bindings.WithTx(tx)
		owner, err := bindings.OwnerOf(ctx, card)
		if err != nil {
			return fmt.Errorf("register: %w", err)
		}
		if owner != nil {
			if owner.Identity == identity {
				return nil
			}
			return fmt.Errorf("register %s: %w", card, ErrCardTaken)
		}
		return bindings.Insert(ctx, repository.Binding{ID: uuid.NewString(), Identity: identity, CardNumber: card})
	})
}

// Cards is the identity to cards lookup.
func (s *RegistrationService) Cards(ctx context.Context, identity string) ([]string, error) {
	return s.Bindings.CardsFor(ctx, identity)
}

// Unbind releases one card. It reports whether the identity held it.
func (s *RegistrationService) Unbind(ctx context.Context, identity, card string) (bool, error) {
	return s.Bindings.Delete(ctx, identity, card)
}

// UnbindAll releases every card of identity and returns them.
func (s *RegistrationService) UnbindAll(ctx context.Context, identity string) ([]string, error) {
	var cards []string
	err := database.WithTx(ctx, s.DB, func(tx *sql.Tx) error {
		bindings := s.Bindings.WithTx(tx)
		var err error
		if cards, err = bindings.CardsFor(ctx, identity); err != nil {
			return err
		}
		return bindings.DeleteAll(ctx, identity)
	})
	if err != nil {
		return nil, fmt.Errorf("unbind all: %w", err)
	}
	return cards, nil
}
