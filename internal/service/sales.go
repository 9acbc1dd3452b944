package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/Lovemore-dev/Karibu-Groceries-LTD-Management-System/internal/access"
	"github.com/Lovemore-dev/Karibu-Groceries-LTD-Management-System/internal/allocation"
	"github.com/Lovemore-dev/Karibu-Groceries-LTD-Management-System/internal/model"
	"github.com/Lovemore-dev/Karibu-Groceries-LTD-Management-System/internal/repository"
	"github.com/Lovemore-dev/Karibu-Groceries-LTD-Management-System/internal/validation"
)

const maxSaleAttempts = 2

// CashSaleInput содержит данные продажи за наличные.
// Пустой Branch означает филиал сотрудника.
type CashSaleInput struct {
	ProduceName string          `json:"produceName" validate:"required,alphanumspace"`
	Tonnage     decimal.Decimal `json:"tonnage" validate:"gt=0"`
	BuyersName  string          `json:"buyersName" validate:"required,min=2,alphanumspace"`
	Branch      model.Branch    `json:"branch"`
}

// CreditSaleInput содержит данные продажи в кредит.
type CreditSaleInput struct {
	ProduceName string          `json:"produceName" validate:"required,alphanumspace"`
	Tonnage     decimal.Decimal `json:"tonnage" validate:"gt=0"`
	BuyersName  string          `json:"buyersName" validate:"required,min=2,alphanumspace"`
	NationalID  string          `json:"nationalId" validate:"required,nin"`
	Contact     string          `json:"contact" validate:"required,ugphone"`
	Location    string          `json:"location" validate:"omitempty,min=2"`
	DueDate     model.Date      `json:"dueDate" validate:"required,notpast"`
	Branch      model.Branch    `json:"branch"`
}

// CashSaleResult содержит сохранённую продажу и применённый план списания.
type CashSaleResult struct {
	Sale       *model.Sale
	Allocation *allocation.Plan
}

// CreditSaleResult содержит сохранённую продажу в кредит и применённый план списания.
type CreditSaleResult struct {
	Sale       *model.CreditSale
	Allocation *allocation.Plan
}

// SalesOverview содержит продажи филиала или сводки по филиалам для директора.
type SalesOverview struct {
	CashSales    []model.Sale               `json:"cashSales,omitempty"`
	CreditSales  []model.CreditSale         `json:"creditSales,omitempty"`
	CashTotals   []model.BranchCashTotals   `json:"cashTotals,omitempty"`
	CreditTotals []model.BranchCreditTotals `json:"creditTotals,omitempty"`
}

func (s *Service) saleBranch(actor model.Actor, requested model.Branch) (model.Branch, error) {
	branch := requested
	if branch == "" {
		branch = actor.Branch
	}

	if !branch.IsStockBranch() || !access.Authorize(actor, access.ActionSaleCreate, branch) {
		return "", ErrForbidden
	}
	return branch, nil
}

// RecordCashSale списывает продукцию по FIFO и сохраняет продажу за наличные.
func (s *Service) RecordCashSale(ctx context.Context, actor model.Actor, in CashSaleInput) (*CashSaleResult, error) {
	in.ProduceName = strings.TrimSpace(in.ProduceName)
	in.BuyersName = strings.TrimSpace(in.BuyersName)
	if err := validation.Struct(in); err != nil {
		return nil, err
	}

	branch, err := s.saleBranch(actor, in.Branch)
	if err != nil {
		return nil, err
	}

	var sale *model.Sale
	plan, err := s.allocateAndApply(ctx, branch, in.ProduceName, in.Tonnage, func(plan *allocation.Plan) error {
		var applyErr error
		sale, applyErr = s.repo.CreateCashSale(ctx, plan.Entries, model.Sale{
			ProduceName: in.ProduceName,
			Tonnage:     plan.Quantity,
			AmountPaid:  plan.TotalValue,
			BuyersName:  in.BuyersName,
			SaleAgent:   actor.FullName,
			Branch:      branch,
			Date:        s.now(),
		})
		return applyErr
	})
	if err != nil {
		return nil, err
	}

	return &CashSaleResult{Sale: sale, Allocation: plan}, nil
}

// RecordCreditSale списывает продукцию по FIFO и сохраняет продажу в кредит.
func (s *Service) RecordCreditSale(ctx context.Context, actor model.Actor, in CreditSaleInput) (*CreditSaleResult, error) {
	in.ProduceName = strings.TrimSpace(in.ProduceName)
	in.BuyersName = strings.TrimSpace(in.BuyersName)
	in.NationalID = strings.ToUpper(strings.TrimSpace(in.NationalID))
	in.Contact = strings.TrimSpace(in.Contact)
	in.Location = strings.TrimSpace(in.Location)
	if err := validation.Struct(in); err != nil {
		return nil, err
	}

	branch, err := s.saleBranch(actor, in.Branch)
	if err != nil {
		return nil, err
	}

	var sale *model.CreditSale
	plan, err := s.allocateAndApply(ctx, branch, in.ProduceName, in.Tonnage, func(plan *allocation.Plan) error {
		var applyErr error
		sale, applyErr = s.repo.CreateCreditSale(ctx, plan.Entries, model.CreditSale{
			BuyersName:     in.BuyersName,
			NationalID:     in.NationalID,
			Contact:        in.Contact,
			Location:       in.Location,
			AmountDue:      plan.TotalValue,
			SaleAgent:      actor.FullName,
			DueDate:        in.DueDate.Time,
			ProduceName:    in.ProduceName,
			ProduceType:    plan.ProduceType,
			Tonnage:        plan.Quantity,
			Branch:         branch,
			DateOfDispatch: s.now(),
		})
		return applyErr
	})
	if err != nil {
		return nil, err
	}

	return &CreditSaleResult{Sale: sale, Allocation: plan}, nil
}

// allocateAndApply строит план под блокировкой филиала и продукции и передаёт его в apply.
// Если остатки изменились между планированием и списанием, план строится заново один раз.
func (s *Service) allocateAndApply(ctx context.Context, branch model.Branch, produceName string, tonnage decimal.Decimal, apply func(*allocation.Plan) error) (*allocation.Plan, error) {
	release, err := s.locker.Lock(ctx, branch, produceName)
	if err != nil {
		return nil, fmt.Errorf("lock stock: %w", err)
	}
	defer release()

	for attempt := 1; ; attempt++ {
		plan, err := s.allocator.Allocate(ctx, produceName, branch, tonnage)
		if err != nil {
			var insufficient *allocation.InsufficientStockError
			if errors.As(err, &insufficient) {
				s.raiseRestockAlert(ctx, branch, produceName, insufficient)
			}
			return nil, err
		}

		if plan.TotalValue.LessThan(MinimumSaleAmount) {
			return nil, fmt.Errorf("%w: total %s, minimum %s", ErrBelowMinimumAmount, plan.TotalValue, MinimumSaleAmount)
		}

		err = apply(plan)
		if err == nil {
			return plan, nil
		}

		if errors.Is(err, repository.ErrStockConflict) && attempt < maxSaleAttempts {
			s.logger.Info("stock changed during sale, re-planning",
				zap.String("branch", string(branch)),
				zap.String("produce", produceName),
				zap.Int("attempt", attempt),
			)
			continue
		}
		return nil, err
	}
}

func (s *Service) raiseRestockAlert(ctx context.Context, branch model.Branch, produceName string, insufficient *allocation.InsufficientStockError) {
	id, err := s.repo.CreateRestockAlert(ctx, model.RestockAlert{
		Branch:      branch,
		ProduceName: produceName,
		Requested:   insufficient.Requested,
		Available:   insufficient.Available,
		Status:      model.RestockAlertNew,
		CreatedAt:   s.now(),
	})
	if err != nil {
		s.logger.Warn("failed to queue restock alert",
			zap.Error(err),
			zap.String("branch", string(branch)),
			zap.String("produce", produceName),
		)
		return
	}

	s.logger.Info("restock alert queued",
		zap.Int64("alertID", id),
		zap.String("branch", string(branch)),
		zap.String("produce", produceName),
		zap.String("available", insufficient.Available.String()),
	)
}

// ListSales возвращает продажи филиала сотрудника или сводки по филиалам для директора.
func (s *Service) ListSales(ctx context.Context, actor model.Actor) (*SalesOverview, error) {
	if !access.Authorize(actor, access.ActionSaleList, actor.Branch) {
		return nil, ErrForbidden
	}

	if actor.Role == model.RoleDirector {
		cash, err := s.repo.CashTotalsByBranch(ctx)
		if err != nil {
			return nil, err
		}
		credit, err := s.repo.CreditTotalsByBranch(ctx)
		if err != nil {
			return nil, err
		}
		return &SalesOverview{CashTotals: cash, CreditTotals: credit}, nil
	}

	cash, err := s.repo.ListCashSales(ctx, actor.Branch)
	if err != nil {
		return nil, err
	}
	credit, err := s.repo.ListCreditSales(ctx, actor.Branch)
	if err != nil {
		return nil, err
	}
	return &SalesOverview{CashSales: cash, CreditSales: credit}, nil
}
