package service

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/Lovemore-dev/Karibu-Groceries-LTD-Management-System/internal/access"
	"github.com/Lovemore-dev/Karibu-Groceries-LTD-Management-System/internal/model"
	"github.com/Lovemore-dev/Karibu-Groceries-LTD-Management-System/internal/validation"
)

// ProcurementInput содержит данные новой партии продукции.
type ProcurementInput struct {
	ProduceName  string          `json:"produceName" validate:"required,alphanumspace"`
	ProduceType  string          `json:"produceType" validate:"required,min=2,alphaspace"`
	Date         *model.Date     `json:"date"`
	Tonnage      decimal.Decimal `json:"tonnage" validate:"min=1000"`
	Cost         decimal.Decimal `json:"cost" validate:"min=10000"`
	DealerName   string          `json:"dealerName" validate:"required,min=2,alphanumspace"`
	Contact      string          `json:"contact" validate:"required,ugphone"`
	SellingPrice decimal.Decimal `json:"sellingPrice" validate:"min=10000"`
}

// batchRules проверяет партию после частичного изменения.
// Остаток может быть ниже порога закупки после продаж.
type batchRules struct {
	ProduceName  string          `json:"produceName" validate:"required,alphanumspace"`
	ProduceType  string          `json:"produceType" validate:"required,min=2,alphaspace"`
	Tonnage      decimal.Decimal `json:"tonnage" validate:"min=0"`
	Cost         decimal.Decimal `json:"cost" validate:"min=10000"`
	DealerName   string          `json:"dealerName" validate:"required,min=2,alphanumspace"`
	Contact      string          `json:"contact" validate:"required,ugphone"`
	SellingPrice decimal.Decimal `json:"sellingPrice" validate:"min=10000"`
}

// ProcurementList содержит ответ на запрос списка закупок.
// Для директора заполняются только сводки по филиалам.
type ProcurementList struct {
	Batches []model.Batch       `json:"batches,omitempty"`
	Totals  []model.BranchStock `json:"totals,omitempty"`
}

// CreateProcurement регистрирует новую партию в филиале сотрудника.
func (s *Service) CreateProcurement(ctx context.Context, actor model.Actor, in ProcurementInput) (*model.Batch, error) {
	if !access.Authorize(actor, access.ActionProcurementCreate, actor.Branch) || !actor.Branch.IsStockBranch() {
		return nil, ErrForbidden
	}

	in.ProduceName = strings.TrimSpace(in.ProduceName)
	in.ProduceType = strings.TrimSpace(in.ProduceType)
	in.DealerName = strings.TrimSpace(in.DealerName)
	in.Contact = strings.TrimSpace(in.Contact)
	if err := validation.Struct(in); err != nil {
		return nil, err
	}

	date := s.now()
	if in.Date != nil && !in.Date.IsZero() {
		date = in.Date.Time
	}

	return s.repo.CreateBatch(ctx, model.Batch{
		ProduceName:  in.ProduceName,
		ProduceType:  in.ProduceType,
		Date:         date,
		Tonnage:      in.Tonnage,
		Cost:         in.Cost,
		DealerName:   in.DealerName,
		Branch:       actor.Branch,
		Contact:      in.Contact,
		SellingPrice: in.SellingPrice,
		ProcuredBy:   actor.FullName,
	})
}

// ListProcurements возвращает партии филиала менеджера или сводку по филиалам для директора.
func (s *Service) ListProcurements(ctx context.Context, actor model.Actor) (*ProcurementList, error) {
	if !access.Authorize(actor, access.ActionProcurementList, actor.Branch) {
		return nil, ErrForbidden
	}

	if actor.Role == model.RoleDirector {
		totals, err := s.repo.StockByBranch(ctx)
		if err != nil {
			return nil, err
		}
		return &ProcurementList{Totals: totals}, nil
	}

	batches, err := s.repo.ListBatchesByBranch(ctx, actor.Branch)
	if err != nil {
		return nil, err
	}
	return &ProcurementList{Batches: batches}, nil
}

// GetProcurement возвращает партию по идентификатору.
func (s *Service) GetProcurement(ctx context.Context, actor model.Actor, id int64) (*model.Batch, error) {
	return s.loadBatch(ctx, actor, access.ActionProcurementRead, id)
}

// UpdateProcurement частично изменяет партию и повторно проверяет её поля.
// Записываются только переданные поля; остаток меняется, лишь если он не изменился
// с момента чтения, иначе возвращается repository.ErrStockConflict.
func (s *Service) UpdateProcurement(ctx context.Context, actor model.Actor, id int64, patch model.BatchPatch) (*model.Batch, error) {
	current, err := s.loadBatch(ctx, actor, access.ActionProcurementUpdate, id)
	if err != nil {
		return nil, err
	}

	patch = trimPatch(patch)
	updated := patch.Apply(*current)

	if err := validation.Struct(batchRules{
		ProduceName:  updated.ProduceName,
		ProduceType:  updated.ProduceType,
		Tonnage:      updated.Tonnage,
		Cost:         updated.Cost,
		DealerName:   updated.DealerName,
		Contact:      updated.Contact,
		SellingPrice: updated.SellingPrice,
	}); err != nil {
		return nil, err
	}

	return s.repo.UpdateBatch(ctx, id, patch, current.Tonnage)
}

func trimPatch(p model.BatchPatch) model.BatchPatch {
	trim := func(v *string) *string {
		if v == nil {
			return nil
		}
		t := strings.TrimSpace(*v)
		return &t
	}

	p.ProduceName = trim(p.ProduceName)
	p.ProduceType = trim(p.ProduceType)
	p.DealerName = trim(p.DealerName)
	p.Contact = trim(p.Contact)
	return p
}

// DeleteProcurement удаляет партию.
func (s *Service) DeleteProcurement(ctx context.Context, actor model.Actor, id int64) error {
	if _, err := s.loadBatch(ctx, actor, access.ActionProcurementDelete, id); err != nil {
		return err
	}
	return s.repo.DeleteBatch(ctx, id)
}

// loadBatch проверяет роль до чтения партии, а филиал после.
func (s *Service) loadBatch(ctx context.Context, actor model.Actor, action access.Action, id int64) (*model.Batch, error) {
	if !access.Authorize(actor, action, actor.Branch) {
		return nil, ErrForbidden
	}

	b, err := s.repo.GetBatch(ctx, id)
	if err != nil {
		return nil, err
	}

	if !access.Authorize(actor, action, b.Branch) {
		return nil, ErrForbidden
	}
	return b, nil
}
