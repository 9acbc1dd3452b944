package repository

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Lovemore-dev/Karibu-Groceries-LTD-Management-System/internal/allocation"
	"github.com/Lovemore-dev/Karibu-Groceries-LTD-Management-System/internal/model"
)

// MemoryRepository хранит данные в памяти процесса.
// Используется в тестах и при запуске без DATABASE_URI.
type MemoryRepository struct {
	mu sync.Mutex

	now func() time.Time
	seq int64

	users       []model.User
	batches     map[int64]model.Batch
	sales       []model.Sale
	creditSales []model.CreditSale
	alerts      []model.RestockAlert
}

// NewMemoryRepository создаёт пустое хранилище в памяти.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		now:     time.Now,
		batches: make(map[int64]model.Batch),
	}
}

func (m *MemoryRepository) nextID() int64 {
	m.seq++
	return m.seq
}

// Close ничего не делает.
func (m *MemoryRepository) Close() error {
	return nil
}

// CreateUser создаёт нового пользователя.
func (m *MemoryRepository) CreateUser(_ context.Context, u model.User) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, existing := range m.users {
		if existing.Username == u.Username || existing.Email == u.Email {
			return 0, fmt.Errorf("%w: %s", ErrUserExists, u.Username)
		}
	}

	u.ID = m.nextID()
	u.CreatedAt = m.now()
	m.users = append(m.users, u)
	return u.ID, nil
}

// GetUserByLogin возвращает пользователя по имени пользователя или email.
func (m *MemoryRepository) GetUserByLogin(_ context.Context, login string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, u := range m.users {
		if u.Username == login || strings.EqualFold(u.Email, login) {
			found := u
			return &found, nil
		}
	}
	return nil, ErrUserNotFound
}

// ListUsers возвращает всех пользователей.
func (m *MemoryRepository) ListUsers(_ context.Context) ([]model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	res := make([]model.User, len(m.users))
	copy(res, m.users)
	return res, nil
}

// CreateBatch сохраняет новую партию продукции.
func (m *MemoryRepository) CreateBatch(_ context.Context, b model.Batch) (*model.Batch, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	b.ID = m.nextID()
	if b.CreatedAt.IsZero() {
		b.CreatedAt = m.now()
	}
	b.UpdatedAt = b.CreatedAt
	m.batches[b.ID] = b
	return &b, nil
}

// GetBatch возвращает партию по идентификатору.
func (m *MemoryRepository) GetBatch(_ context.Context, id int64) (*model.Batch, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	b, ok := m.batches[id]
	if !ok {
		return nil, ErrBatchNotFound
	}
	return &b, nil
}

// UpdateBatch применяет к партии поля patch. Остаток перезаписывается,
// только если он всё ещё равен expectedTonnage, иначе возвращается ErrStockConflict.
func (m *MemoryRepository) UpdateBatch(_ context.Context, id int64, patch model.BatchPatch, expectedTonnage decimal.Decimal) (*model.Batch, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	existing, ok := m.batches[id]
	if !ok {
		return nil, ErrBatchNotFound
	}
	if patch.Tonnage != nil && !existing.Tonnage.Equal(expectedTonnage) {
		return nil, ErrStockConflict
	}

	b := patch.Apply(existing)
	b.UpdatedAt = m.now()
	m.batches[id] = b
	return &b, nil
}

// DeleteBatch удаляет партию.
func (m *MemoryRepository) DeleteBatch(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.batches[id]; !ok {
		return ErrBatchNotFound
	}
	delete(m.batches, id)
	return nil
}

func (m *MemoryRepository) sortedBatches(keep func(model.Batch) bool) []model.Batch {
	res := make([]model.Batch, 0, len(m.batches))
	for _, b := range m.batches {
		if keep(b) {
			res = append(res, b)
		}
	}
	sort.Slice(res, func(i, j int) bool {
		if res[i].CreatedAt.Equal(res[j].CreatedAt) {
			return res[i].ID < res[j].ID
		}
		return res[i].CreatedAt.Before(res[j].CreatedAt)
	})
	return res
}

// ListBatchesByBranch возвращает партии филиала, начиная с последних.
func (m *MemoryRepository) ListBatchesByBranch(_ context.Context, branch model.Branch) ([]model.Batch, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	asc := m.sortedBatches(func(b model.Batch) bool { return b.Branch == branch })
	res := make([]model.Batch, 0, len(asc))
	for i := len(asc) - 1; i >= 0; i-- {
		res = append(res, asc[i])
	}
	return res, nil
}

// ListAvailableBatches возвращает партии с положительным остатком в порядке поступления.
func (m *MemoryRepository) ListAvailableBatches(_ context.Context, produceName string, branch model.Branch) ([]model.Batch, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.sortedBatches(func(b model.Batch) bool {
		return b.ProduceName == produceName && b.Branch == branch && b.Tonnage.IsPositive()
	}), nil
}

// StockByBranch возвращает суммарный остаток и его стоимость по каждому филиалу.
func (m *MemoryRepository) StockByBranch(_ context.Context) ([]model.BranchStock, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	totals := make(map[model.Branch]*model.BranchStock)
	for _, b := range m.batches {
		t, ok := totals[b.Branch]
		if !ok {
			t = &model.BranchStock{Branch: b.Branch, TotalTonnage: decimal.Zero, TotalStockValue: decimal.Zero}
			totals[b.Branch] = t
		}
		t.TotalTonnage = t.TotalTonnage.Add(b.Tonnage)
		t.TotalStockValue = t.TotalStockValue.Add(b.Tonnage.Mul(b.Cost))
	}

	res := make([]model.BranchStock, 0, len(totals))
	for _, t := range totals {
		res = append(res, *t)
	}
	sort.Slice(res, func(i, j int) bool { return res[i].Branch < res[j].Branch })
	return res, nil
}

// applyDeductions проверяет весь план и только затем списывает остатки.
// Вызывается под m.mu.
func (m *MemoryRepository) applyDeductions(entries []allocation.Entry) error {
	for _, e := range entries {
		b, ok := m.batches[e.BatchID]
		if !ok || b.Tonnage.LessThan(e.Quantity) {
			return fmt.Errorf("%w: batch %d", ErrStockConflict, e.BatchID)
		}
	}

	now := m.now()
	for _, e := range entries {
		b := m.batches[e.BatchID]
		b.Tonnage = b.Tonnage.Sub(e.Quantity)
		b.UpdatedAt = now
		m.batches[e.BatchID] = b
	}
	return nil
}

// CreateCashSale списывает остатки по плану и сохраняет продажу за наличные.
func (m *MemoryRepository) CreateCashSale(_ context.Context, entries []allocation.Entry, s model.Sale) (*model.Sale, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.applyDeductions(entries); err != nil {
		return nil, err
	}

	s.ID = m.nextID()
	s.CreatedAt = m.now()
	m.sales = append(m.sales, s)
	return &s, nil
}

// CreateCreditSale списывает остатки по плану и сохраняет продажу в кредит.
func (m *MemoryRepository) CreateCreditSale(_ context.Context, entries []allocation.Entry, s model.CreditSale) (*model.CreditSale, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.applyDeductions(entries); err != nil {
		return nil, err
	}

	s.ID = m.nextID()
	s.CreatedAt = m.now()
	m.creditSales = append(m.creditSales, s)
	return &s, nil
}

// ListCashSales возвращает продажи за наличные филиала, начиная с последних.
func (m *MemoryRepository) ListCashSales(_ context.Context, branch model.Branch) ([]model.Sale, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var res []model.Sale
	for i := len(m.sales) - 1; i >= 0; i-- {
		if m.sales[i].Branch == branch {
			res = append(res, m.sales[i])
		}
	}
	return res, nil
}

// ListCreditSales возвращает продажи в кредит филиала, начиная с последних.
func (m *MemoryRepository) ListCreditSales(_ context.Context, branch model.Branch) ([]model.CreditSale, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var res []model.CreditSale
	for i := len(m.creditSales) - 1; i >= 0; i-- {
		if m.creditSales[i].Branch == branch {
			res = append(res, m.creditSales[i])
		}
	}
	return res, nil
}

// CashTotalsByBranch возвращает выручку и проданный объём по филиалам.
func (m *MemoryRepository) CashTotalsByBranch(_ context.Context) ([]model.BranchCashTotals, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	totals := make(map[model.Branch]*model.BranchCashTotals)
	for _, s := range m.sales {
		t, ok := totals[s.Branch]
		if !ok {
			t = &model.BranchCashTotals{Branch: s.Branch, TotalRevenue: decimal.Zero, TotalTonnage: decimal.Zero}
			totals[s.Branch] = t
		}
		t.TotalRevenue = t.TotalRevenue.Add(s.AmountPaid)
		t.TotalTonnage = t.TotalTonnage.Add(s.Tonnage)
	}

	res := make([]model.BranchCashTotals, 0, len(totals))
	for _, t := range totals {
		res = append(res, *t)
	}
	sort.Slice(res, func(i, j int) bool { return res[i].Branch < res[j].Branch })
	return res, nil
}

// CreditTotalsByBranch возвращает сумму долга и проданный в кредит объём по филиалам.
func (m *MemoryRepository) CreditTotalsByBranch(_ context.Context) ([]model.BranchCreditTotals, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	totals := make(map[model.Branch]*model.BranchCreditTotals)
	for _, s := range m.creditSales {
		t, ok := totals[s.Branch]
		if !ok {
			t = &model.BranchCreditTotals{Branch: s.Branch, TotalOwed: decimal.Zero, TotalTonnage: decimal.Zero}
			totals[s.Branch] = t
		}
		t.TotalOwed = t.TotalOwed.Add(s.AmountDue)
		t.TotalTonnage = t.TotalTonnage.Add(s.Tonnage)
	}

	res := make([]model.BranchCreditTotals, 0, len(totals))
	for _, t := range totals {
		res = append(res, *t)
	}
	sort.Slice(res, func(i, j int) bool { return res[i].Branch < res[j].Branch })
	return res, nil
}

// SalesTotals возвращает общую выручку и общую сумму долга.
func (m *MemoryRepository) SalesTotals(_ context.Context) (decimal.Decimal, decimal.Decimal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	revenue := decimal.Zero
	for _, s := range m.sales {
		revenue = revenue.Add(s.AmountPaid)
	}
	owed := decimal.Zero
	for _, s := range m.creditSales {
		owed = owed.Add(s.AmountDue)
	}
	return revenue, owed, nil
}

// CreateRestockAlert сохраняет уведомление о нехватке остатков.
func (m *MemoryRepository) CreateRestockAlert(_ context.Context, a model.RestockAlert) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	a.ID = m.nextID()
	a.Status = model.RestockAlertNew
	a.CreatedAt = m.now()
	m.alerts = append(m.alerts, a)
	return a.ID, nil
}

// ListRestockAlerts возвращает уведомления филиала, начиная с последних.
func (m *MemoryRepository) ListRestockAlerts(_ context.Context, branch model.Branch) ([]model.RestockAlert, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var res []model.RestockAlert
	for i := len(m.alerts) - 1; i >= 0; i-- {
		if m.alerts[i].Branch == branch {
			res = append(res, m.alerts[i])
		}
	}
	return res, nil
}

// GetPendingRestockAlerts возвращает недоставленные уведомления в порядке создания.
func (m *MemoryRepository) GetPendingRestockAlerts(_ context.Context, limit int) ([]model.RestockAlert, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var res []model.RestockAlert
	for _, a := range m.alerts {
		if len(res) >= limit {
			break
		}
		if a.Status == model.RestockAlertNew {
			res = append(res, a)
		}
	}
	return res, nil
}

// MarkRestockAlertSent отмечает уведомление доставленным.
func (m *MemoryRepository) MarkRestockAlertSent(_ context.Context, id int64, sentAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.alerts {
		if m.alerts[i].ID == id {
			at := sentAt
			m.alerts[i].Status = model.RestockAlertSent
			m.alerts[i].SentAt = &at
			return nil
		}
	}
	return nil
}
