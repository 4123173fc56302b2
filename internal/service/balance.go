package service

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jask/roadcards/internal/database/repository"
)

// CardLookup resolves an identity to the cards bound to it.
type CardLookup interface {
	CardsFor(ctx context.Context, identity string) ([]string, error)
}

// BalanceService computes what an identity owes across all its cards.
type BalanceService struct {
	Cards   CardLookup
	Records *repository.RecordRepo
}

// Balance returns expenses minus payments over every card bound to
// identity. Positive means the identity owes money; negative is credit.
// An identity without cards has a zero balance.
func (s *BalanceService) Balance(ctx context.Context, identity string) (float64, error) {
	cards, err := s.Cards.CardsFor(ctx, identity)
	if err != nil {
		return 0, fmt.Errorf("balance: cards: %w", err)
	}
	if len(cards) == 0 {
		return 0, nil
	}
	costs, err := s.Records.ListCosts(ctx, cards)
	if err != nil {
		return 0, fmt.Errorf("balance: %w", err)
	}
	expenses, payments := decimal.Zero, decimal.Zero
	for _, kc := range costs {
		switch kc.Kind {
		case repository.KindExpense:
			expenses = expenses.Add(decimal.NewFromFloat(kc.Cost))
		case repository.KindPayment:
			payments = payments.Add(decimal.NewFromFloat(kc.Cost))
		}
	}
	return expenses.Sub(payments).InexactFloat64(), nil
}
