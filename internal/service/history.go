package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jask/roadcards/internal/database/repository"
)

// DefaultPageSize is used when no page size is given.
const DefaultPageSize = 10

// ErrPageIndex is returned for negative page indexes.
var ErrPageIndex = errors.New("history: page index must not be negative")

// HistoryPage is one page of an identity's records, newest first.
type HistoryPage struct {
	Records    []repository.Record
	PageIndex  int
	PageSize   int
	TotalCount int
	// TotalPages is at least 1 so "page 1 of 1" can be shown for an empty
	// history.
	TotalPages int
}

// HistoryService pages through an identity's records.
type HistoryService struct {
	Cards    CardLookup
	Records  *repository.RecordRepo
	PageSize int
}

// Page returns page pageIndex (0-based). pageSize <= 0 falls back to the
// service's PageSize, then DefaultPageSize. Pages past the end are empty.
func (s *HistoryService) Page(ctx context.Context, identity string, pageIndex, pageSize int) (HistoryPage, error) {
	if pageIndex < 0 {
		return HistoryPage{}, ErrPageIndex
	}
	if pageSize <= 0 {
		pageSize = s.PageSize
	}
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	page := HistoryPage{PageIndex: pageIndex, PageSize: pageSize, TotalPages: 1}

	cards, err := s.Cards.CardsFor(ctx, identity)
	if err != nil {
		return HistoryPage{}, fmt.Errorf("history: cards: %w", err)
	}
	if len(cards) == 0 {
		return page, nil
	}
	total, err := s.Records.CountByCards(ctx, cards)
	if err != nil {
		return HistoryPage{}, fmt.Errorf("history: count: %w", err)
	}
	page.TotalCount = total
	page.TotalPages = totalPages(total, pageSize)

	records, err := s.Records.ListByCards(ctx, cards, pageSize, pageIndex*pageSize)
	if err != nil {
		return HistoryPage{}, fmt.Errorf("history: list: %w", err)
	}
	page.Records = records
	return page, nil
}

// Record returns one stored record by id, or nil if it does not exist.
func (s *HistoryService) Record(ctx context.Context, id string) (*repository.Record, error) {
	rec, err := s.Records.Get(ctx, strings.TrimSpace(id))
	if err != nil {
		return nil, fmt.Errorf("history: record %s: %w", id, err)
	}
	return rec, nil
}

func totalPages(total, size int) int {
	n := (total + size - 1) / size
	if n < 1 {
		return 1
	}
	return n
}
