// Package model содержит доменные сущности бэк-офиса Karibu Groceries.
package model

import (
	"fmt"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

// Branch описывает филиал компании.
type Branch string

const (
	BranchMaganjo      Branch = "Maganjo"
	BranchMatugga      Branch = "Matugga"
	BranchHeadquarters Branch = "Headquarters"
)

// StockBranches возвращает филиалы, в которых хранится продукция.
func StockBranches() []Branch {
	return []Branch{BranchMaganjo, BranchMatugga}
}

// IsStockBranch сообщает, может ли филиал хранить партии продукции.
func (b Branch) IsStockBranch() bool {
	for _, sb := range StockBranches() {
		if b == sb {
			return true
		}
	}
	return false
}

// IsValid сообщает, входит ли филиал в известный перечень.
func (b Branch) IsValid() bool {
	return b.IsStockBranch() || b == BranchHeadquarters
}

// Role описывает роль сотрудника.
type Role string

const (
	RoleITAdmin    Role = "IT Admin"
	RoleDirector   Role = "Director"
	RoleManager    Role = "Manager"
	RoleSalesAgent Role = "Sales Agent"
)

// IsValid сообщает, входит ли роль в известный перечень.
func (r Role) IsValid() bool {
	switch r {
	case RoleITAdmin, RoleDirector, RoleManager, RoleSalesAgent:
		return true
	}
	return false
}

// UserStatus описывает статус учётной записи.
type UserStatus string

const (
	UserStatusActive  UserStatus = "Active"
	UserStatusPending UserStatus = "Pending"
)

// User представляет сотрудника компании.
type User struct {
	ID           int64
	FullName     string
	Username     string
	Email        string
	PasswordHash []byte
	Role         Role
	Branch       Branch
	Status       UserStatus
	CreatedAt    time.Time
}

// Actor описывает аутентифицированного пользователя, выполняющего запрос.
type Actor struct {
	UserID   int64
	Username string
	FullName string
	Role     Role
	Branch   Branch
}

// Batch описывает одну партию закупленной продукции.
// CreatedAt служит ключом порядка FIFO.
type Batch struct {
	ID           int64           `json:"id"`
	ProduceName  string          `json:"produceName"`
	ProduceType  string          `json:"produceType"`
	Date         time.Time       `json:"date"`
	Tonnage      decimal.Decimal `json:"tonnage"`
	Cost         decimal.Decimal `json:"cost"`
	DealerName   string          `json:"dealerName"`
	Branch       Branch          `json:"branch"`
	Contact      string          `json:"contact"`
	SellingPrice decimal.Decimal `json:"sellingPrice"`
	ProcuredBy   string          `json:"procuredBy"`
	CreatedAt    time.Time       `json:"createdAt"`
	UpdatedAt    time.Time       `json:"updatedAt"`
}

// DateLayout задаёт формат даты без времени, который отправляют HTML-формы.
const DateLayout = "2006-01-02"

// Date принимает в JSON как дату вида 2006-01-02, так и метку времени RFC3339.
// Дата без времени трактуется как полночь по местному времени сервера.
type Date struct {
	time.Time
}

// NewDate оборачивает время в Date.
func NewDate(t time.Time) Date {
	return Date{Time: t}
}

// UnmarshalJSON разбирает дату в формате 2006-01-02 или RFC3339.
func (d *Date) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}

	s, err := strconv.Unquote(string(data))
	if err != nil {
		return fmt.Errorf("date must be a JSON string: %w", err)
	}
	if s == "" {
		d.Time = time.Time{}
		return nil
	}

	if t, err := time.Parse(time.RFC3339, s); err == nil {
		d.Time = t
		return nil
	}

	t, err := time.ParseInLocation(DateLayout, s, time.Local)
	if err != nil {
		return fmt.Errorf("date %q must be YYYY-MM-DD or RFC3339", s)
	}
	d.Time = t
	return nil
}

// BatchPatch содержит изменяемые поля партии. Nil-поля не изменяются.
type BatchPatch struct {
	ProduceName  *string          `json:"produceName"`
	ProduceType  *string          `json:"produceType"`
	Date         *Date            `json:"date"`
	Tonnage      *decimal.Decimal `json:"tonnage"`
	Cost         *decimal.Decimal `json:"cost"`
	DealerName   *string          `json:"dealerName"`
	Contact      *string          `json:"contact"`
	SellingPrice *decimal.Decimal `json:"sellingPrice"`
}

// Apply применяет изменения к копии партии.
func (p BatchPatch) Apply(b Batch) Batch {
	if p.ProduceName != nil {
		b.ProduceName = *p.ProduceName
	}
	if p.ProduceType != nil {
		b.ProduceType = *p.ProduceType
	}
	if p.Date != nil {
		b.Date = p.Date.Time
	}
	if p.Tonnage != nil {
		b.Tonnage = *p.Tonnage
	}
	if p.Cost != nil {
		b.Cost = *p.Cost
	}
	if p.DealerName != nil {
		b.DealerName = *p.DealerName
	}
	if p.Contact != nil {
		b.Contact = *p.Contact
	}
	if p.SellingPrice != nil {
		b.SellingPrice = *p.SellingPrice
	}
	return b
}

// Sale описывает продажу за наличные.
type Sale struct {
	ID          int64           `json:"id"`
	ProduceName string          `json:"produceName"`
	Tonnage     decimal.Decimal `json:"tonnage"`
	AmountPaid  decimal.Decimal `json:"amountPaid"`
	BuyersName  string          `json:"buyersName"`
	SaleAgent   string          `json:"saleAgent"`
	Branch      Branch          `json:"branch"`
	Date        time.Time       `json:"date"`
	CreatedAt   time.Time       `json:"createdAt"`
}

// CreditSale описывает продажу в кредит.
type CreditSale struct {
	ID             int64           `json:"id"`
	BuyersName     string          `json:"buyersName"`
	NationalID     string          `json:"nationalId"`
	Contact        string          `json:"contact"`
	Location       string          `json:"location,omitempty"`
	AmountDue      decimal.Decimal `json:"amountDue"`
	SaleAgent      string          `json:"saleAgent"`
	DueDate        time.Time       `json:"dueDate"`
	ProduceName    string          `json:"produceName"`
	ProduceType    string          `json:"produceType"`
	Tonnage        decimal.Decimal `json:"tonnage"`
	Branch         Branch          `json:"branch"`
	DateOfDispatch time.Time       `json:"dateOfDispatch"`
	CreatedAt      time.Time       `json:"createdAt"`
}

// BranchStock содержит сводку по закупкам филиала.
type BranchStock struct {
	Branch          Branch          `json:"branch"`
	TotalTonnage    decimal.Decimal `json:"totalTonnage"`
	TotalStockValue decimal.Decimal `json:"totalStockValue"`
}

// BranchCashTotals содержит сводку продаж за наличные по филиалу.
type BranchCashTotals struct {
	Branch       Branch          `json:"branch"`
	TotalRevenue decimal.Decimal `json:"totalRevenue"`
	TotalTonnage decimal.Decimal `json:"totalTonnage"`
}

// BranchCreditTotals содержит сводку продаж в кредит по филиалу.
type BranchCreditTotals struct {
	Branch       Branch          `json:"branch"`
	TotalOwed    decimal.Decimal `json:"totalOwed"`
	TotalTonnage decimal.Decimal `json:"totalTonnage"`
}

// DirectorTotals содержит общие финансовые показатели для директора.
type DirectorTotals struct {
	Revenue           decimal.Decimal `json:"revenue"`
	OutstandingCredit decimal.Decimal `json:"outstandingCredit"`
	ReportGeneratedAt time.Time       `json:"reportGeneratedAt"`
}

// RestockAlertStatus описывает статус доставки уведомления о нехватке.
type RestockAlertStatus string

const (
	RestockAlertNew  RestockAlertStatus = "NEW"
	RestockAlertSent RestockAlertStatus = "SENT"
)

// RestockAlert фиксирует отклонённую из-за нехватки остатков продажу.
type RestockAlert struct {
	ID          int64              `json:"id"`
	Branch      Branch             `json:"branch"`
	ProduceName string             `json:"produceName"`
	Requested   decimal.Decimal    `json:"requested"`
	Available   decimal.Decimal    `json:"available"`
	Status      RestockAlertStatus `json:"status"`
	CreatedAt   time.Time          `json:"createdAt"`
	SentAt      *time.Time         `json:"sentAt,omitempty"`
}
