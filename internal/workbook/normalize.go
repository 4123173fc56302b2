package workbook

import (
	"fmt"

	"github.com/jask/roadcards/internal/database/repository"
)

// Normalizer turns workbook bytes into candidate records of one kind.
type Normalizer interface {
	Kind() repository.Kind
	Parse(data []byte) (*Batch, error)
}

// NormalizerFor returns the normalizer for kind. headerRows <= 0 means
// DefaultHeaderRows.
func NormalizerFor(kind repository.Kind, headerRows int) (Normalizer, error) {
	if headerRows <= 0 {
		headerRows = DefaultHeaderRows
	}
	switch kind {
	case repository.KindExpense:
		return ExpenseNormalizer{HeaderRows: headerRows}, nil
	case repository.KindPayment:
		return PaymentNormalizer{HeaderRows: headerRows}, nil
	default:
		return nil, fmt.Errorf("workbook: unknown kind %q", kind)
	}
}

// Expense columns, B through I.
const (
	expFirm = iota + 1
	expCard
	expDate
	expAddress
	expItem
	expQuantity
	expPrice
	expCost
)

// ExpenseNormalizer reads the fuel station report:
// firm, card, date, address, item, quantity, price, cost.
type ExpenseNormalizer struct {
	HeaderRows int
}

func (ExpenseNormalizer) Kind() repository.Kind { return repository.KindExpense }

func (n ExpenseNormalizer) Parse(data []byte) (*Batch, error) {
	return parse(data, n.HeaderRows, repository.KindExpense, func(row []string) (Candidate, error) {
		c := Candidate{
			Firm:     cellAt(row, expFirm),
			Address:  cellAt(row, expAddress),
			ItemName: cellAt(row, expItem),
			Kind:     repository.KindExpense,
		}
		var err error
		if c.Quantity, err = parseNumber(cellAt(row, expQuantity)); err != nil {
			return c, fmt.Errorf("quantity %q", cellAt(row, expQuantity))
		}
		if c.UnitPrice, err = parseNumber(cellAt(row, expPrice)); err != nil {
			return c, fmt.Errorf("price %q", cellAt(row, expPrice))
		}
		if c.Cost, err = parseNumber(cellAt(row, expCost)); err != nil {
			return c, fmt.Errorf("cost %q", cellAt(row, expCost))
		}
		return c, nil
	}, expCard, expDate)
}

// Payment columns, B through F.
const (
	payDate = iota + 1
	payCard
	payItem
	payKindLabel
	payCost
)

// PaymentNormalizer reads the top-up report: date, card, name, operation
// label, amount. The operation label is informational only.
type PaymentNormalizer struct {
	HeaderRows int
}

func (PaymentNormalizer) Kind() repository.Kind { return repository.KindPayment }

func (n PaymentNormalizer) Parse(data []byte) (*Batch, error) {
	return parse(data, n.HeaderRows, repository.KindPayment, func(row []string) (Candidate, error) {
		c := Candidate{
			ItemName: cellAt(row, payItem),
			Quantity: 1,
			Kind:     repository.KindPayment,
		}
		cost, err := parseNumber(cellAt(row, payCost))
		if err != nil {
			return c, fmt.Errorf("cost %q", cellAt(row, payCost))
		}
		c.Cost = cost
		c.UnitPrice = cost
		return c, nil
	}, payCard, payDate)
}

// parse drives a shape-specific extractor over the data rows. Rows missing
// card or date are dropped before extract runs; a malformed numeric cell in
// a kept row fails the whole batch.
func parse(data []byte, headerRows int, kind repository.Kind, extract func([]string) (Candidate, error), cardCol, dateCol int) (*Batch, error) {
	if headerRows <= 0 {
		headerRows = DefaultHeaderRows
	}
	rows, err := readRows(data)
	if err != nil {
		return nil, err
	}
	b := &Batch{Kind: kind}
	for i := headerRows; i < len(rows); i++ {
		row := rows[i]
		if blankRow(row) {
			continue
		}
		card := normalizeCard(cellAt(row, cardCol))
		at, ok := parseDate(cellAt(row, dateCol))
		if card == "" || !ok {
			b.Dropped++
			continue
		}
		c, err := extract(row)
		if err != nil {
			return nil, fmt.Errorf("%w: row %d: %v", ErrInvalidCell, i+1, err)
		}
		c.CardNumber = card
		c.OccurredAt = at
		b.rows = append(b.rows, indexedCandidate{row: i + 1, c: c})
	}
	return b, nil
}
