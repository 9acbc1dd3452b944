// Package service реализует бизнес-логику бэк-офиса Karibu Groceries.
package service

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/Lovemore-dev/Karibu-Groceries-LTD-Management-System/internal/allocation"
	"github.com/Lovemore-dev/Karibu-Groceries-LTD-Management-System/internal/locker"
	"github.com/Lovemore-dev/Karibu-Groceries-LTD-Management-System/internal/model"
)

var (
	// ErrForbidden возвращается, если роль или филиал сотрудника не допускают действие.
	ErrForbidden = errors.New("action not permitted for this role or branch")
	// ErrInvalidCredentials возвращается при неверном логине или пароле.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrInactiveUser возвращается при входе пользователя, ожидающего активации.
	ErrInactiveUser = errors.New("user account is not active")
	// ErrBelowMinimumAmount возвращается, если сумма продажи меньше минимальной.
	ErrBelowMinimumAmount = errors.New("sale amount is below the minimum")
)

// MinimumSaleAmount минимальная сумма одной продажи.
var MinimumSaleAmount = decimal.NewFromInt(10000)

// Repository описывает контракт доступа к данным, используемый сервисом.
type Repository interface {
	allocation.BatchReader

	Close() error

	CreateUser(ctx context.Context, u model.User) (int64, error)
	GetUserByLogin(ctx context.Context, login string) (*model.User, error)
	ListUsers(ctx context.Context) ([]model.User, error)

	CreateBatch(ctx context.Context, b model.Batch) (*model.Batch, error)
	GetBatch(ctx context.Context, id int64) (*model.Batch, error)
	UpdateBatch(ctx context.Context, id int64, patch model.BatchPatch, expectedTonnage decimal.Decimal) (*model.Batch, error)
	DeleteBatch(ctx context.Context, id int64) error
	ListBatchesByBranch(ctx context.Context, branch model.Branch) ([]model.Batch, error)
	StockByBranch(ctx context.Context) ([]model.BranchStock, error)

	CreateCashSale(ctx context.Context, entries []allocation.Entry, s model.Sale) (*model.Sale, error)
	CreateCreditSale(ctx context.Context, entries []allocation.Entry, s model.CreditSale) (*model.CreditSale, error)
	ListCashSales(ctx context.Context, branch model.Branch) ([]model.Sale, error)
	ListCreditSales(ctx context.Context, branch model.Branch) ([]model.CreditSale, error)
	CashTotalsByBranch(ctx context.Context) ([]model.BranchCashTotals, error)
	CreditTotalsByBranch(ctx context.Context) ([]model.BranchCreditTotals, error)
	SalesTotals(ctx context.Context) (decimal.Decimal, decimal.Decimal, error)

	CreateRestockAlert(ctx context.Context, a model.RestockAlert) (int64, error)
	ListRestockAlerts(ctx context.Context, branch model.Branch) ([]model.RestockAlert, error)
	GetPendingRestockAlerts(ctx context.Context, limit int) ([]model.RestockAlert, error)
	MarkRestockAlertSent(ctx context.Context, id int64, sentAt time.Time) error
}

// Notifier доставляет уведомления о нехватке продукции во внешний сервис.
type Notifier interface {
	SendRestockAlert(ctx context.Context, alert model.RestockAlert) (int, time.Duration, error)
}

// Service содержит бизнес-логику бэк-офиса.
type Service struct {
	repo      Repository
	allocator *allocation.Allocator
	locker    locker.Locker
	notifier  Notifier
	logger    *zap.Logger
	now       func() time.Time
}

// NewService создаёт сервис поверх репозитория.
// Если lock равен nil, используется locker.Noop. Notifier может быть nil.
func NewService(repo Repository, lock locker.Locker, notifier Notifier, logger *zap.Logger) *Service {
	if lock == nil {
		lock = locker.Noop{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Service{
		repo:      repo,
		allocator: allocation.NewAllocator(repo),
		locker:    lock,
		notifier:  notifier,
		logger:    logger,
		now:       time.Now,
	}
}

// Close закрывает ресурсы сервиса.
func (s *Service) Close() error {
	if s.repo != nil {
		return s.repo.Close()
	}
	return nil
}
