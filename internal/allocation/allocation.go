// Package allocation реализует списание продажи с партий продукции по принципу FIFO.
package allocation

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/Lovemore-dev/Karibu-Groceries-LTD-Management-System/internal/model"
)

// ErrNonPositiveQuantity возвращается, если запрошенный объём не больше нуля.
var ErrNonPositiveQuantity = errors.New("requested quantity must be positive")

// InsufficientStockError возвращается, если суммарного остатка не хватает на продажу.
type InsufficientStockError struct {
	Requested decimal.Decimal
	Available decimal.Decimal
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock: requested %s, available %s", e.Requested, e.Available)
}

// Shortfall возвращает недостающий объём.
func (e *InsufficientStockError) Shortfall() decimal.Decimal {
	return e.Requested.Sub(e.Available)
}

// Entry описывает списание с одной партии.
type Entry struct {
	BatchID   int64           `json:"batchId"`
	Quantity  decimal.Decimal `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
}

// Plan описывает результат распределения продажи по партиям. План не сохраняется.
type Plan struct {
	Entries     []Entry         `json:"entries"`
	Quantity    decimal.Decimal `json:"quantity"`
	TotalValue  decimal.Decimal `json:"totalValue"`
	ProduceType string          `json:"-"`
}

// BatchReader описывает чтение партий, доступных для списания.
type BatchReader interface {
	ListAvailableBatches(ctx context.Context, produceName string, branch model.Branch) ([]model.Batch, error)
}

// Allocator строит планы списания по данным хранилища. Хранилище он не изменяет.
type Allocator struct {
	batches BatchReader
}

// NewAllocator создаёт распределитель поверх указанного хранилища партий.
func NewAllocator(batches BatchReader) *Allocator {
	return &Allocator{batches: batches}
}

// Allocate строит план списания requested единиц продукции produceName в филиале branch.
func (a *Allocator) Allocate(ctx context.Context, produceName string, branch model.Branch, requested decimal.Decimal) (*Plan, error) {
	if !requested.IsPositive() {
		return nil, ErrNonPositiveQuantity
	}

	batches, err := a.batches.ListAvailableBatches(ctx, produceName, branch)
	if err != nil {
		return nil, fmt.Errorf("list batches: %w", err)
	}

	return Build(batches, requested)
}

// Build распределяет requested по партиям от старых к новым.
// Партии с нулевым остатком пропускаются, входной срез не изменяется.
// При равном времени поступления сохраняется исходный порядок.
func Build(batches []model.Batch, requested decimal.Decimal) (*Plan, error) {
	if !requested.IsPositive() {
		return nil, ErrNonPositiveQuantity
	}

	ordered := make([]model.Batch, 0, len(batches))
	available := decimal.Zero
	for _, b := range batches {
		if !b.Tonnage.IsPositive() {
			continue
		}
		ordered = append(ordered, b)
		available = available.Add(b.Tonnage)
	}

	if available.LessThan(requested) {
		return nil, &InsufficientStockError{Requested: requested, Available: available}
	}

	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].CreatedAt.Before(ordered[j].CreatedAt)
	})

	plan := &Plan{
		Quantity:   requested,
		TotalValue: decimal.Zero,
	}

	remaining := requested
	for _, b := range ordered {
		if !remaining.IsPositive() {
			break
		}

		// Категория определяется самой старой затронутой партией.
		if plan.ProduceType == "" {
			plan.ProduceType = b.ProduceType
		}

		deduct := decimal.Min(b.Tonnage, remaining)
		plan.Entries = append(plan.Entries, Entry{
			BatchID:   b.ID,
			Quantity:  deduct,
			UnitPrice: b.SellingPrice,
		})
		plan.TotalValue = plan.TotalValue.Add(deduct.Mul(b.SellingPrice))
		remaining = remaining.Sub(deduct)
	}

	return plan, nil
}
