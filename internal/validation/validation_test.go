package validation

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Lovemore-dev/Karibu-Groceries-LTD-Management-System/internal/model"
)

func TestIsValidNationalID(t *testing.T) {
	tests := []struct {
		name  string
		nin   string
		valid bool
	}{
		{name: "female prefix", nin: "CF12345678901A", valid: true},
		{name: "male prefix", nin: "CMABCDEF123456", valid: true},
		{name: "wrong prefix", nin: "CX12345678901A", valid: false},
		{name: "too short", nin: "CF1234567890", valid: false},
		{name: "lower case", nin: "cf12345678901a", valid: false},
		{name: "empty", nin: "", valid: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsValidNationalID(tt.nin); got != tt.valid {
				t.Fatalf("IsValidNationalID(%q) = %v, want %v", tt.nin, got, tt.valid)
			}
		})
	}
}

func TestIsValidPhone(t *testing.T) {
	tests := []struct {
		name    string
		contact string
		valid   bool
	}{
		{name: "local format", contact: "0701234567", valid: true},
		{name: "international format", contact: "+256701234567", valid: true},
		{name: "landline", contact: "0414123456", valid: false},
		{name: "too short", contact: "070123456", valid: false},
		{name: "letters", contact: "07012345ab", valid: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsValidPhone(tt.contact); got != tt.valid {
				t.Fatalf("IsValidPhone(%q) = %v, want %v", tt.contact, got, tt.valid)
			}
		})
	}
}

func TestIsNotPast(t *testing.T) {
	fixed := time.Date(2026, 3, 10, 15, 30, 0, 0, time.UTC)
	now = func() time.Time { return fixed }
	defer func() { now = time.Now }()

	if !IsNotPast(time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("start of today must be accepted")
	}
	if !IsNotPast(fixed.Add(48 * time.Hour)) {
		t.Fatalf("future date must be accepted")
	}
	if IsNotPast(time.Date(2026, 3, 9, 23, 59, 0, 0, time.UTC)) {
		t.Fatalf("yesterday must be rejected")
	}
}

type creditForm struct {
	BuyersName string          `json:"buyersName" validate:"required,min=2,alphanumspace"`
	NationalID string          `json:"nationalId" validate:"required,nin"`
	Tonnage    decimal.Decimal `json:"tonnage" validate:"gt=0"`
	DueDate    time.Time       `json:"dueDate" validate:"notpast"`
}

func TestStruct(t *testing.T) {
	valid := creditForm{
		BuyersName: "John 2",
		NationalID: "CM12345678901Z",
		Tonnage:    decimal.NewFromInt(5),
		DueDate:    time.Now().Add(24 * time.Hour),
	}

	if err := Struct(valid); err != nil {
		t.Fatalf("Struct(valid) = %v, want nil", err)
	}

	invalid := valid
	invalid.BuyersName = "J!"
	invalid.Tonnage = decimal.Zero

	err := Struct(invalid)
	var verr *Error
	if !errors.As(err, &verr) {
		t.Fatalf("Struct(invalid) = %v, want *Error", err)
	}
	if len(verr.Fields) != 2 {
		t.Fatalf("fields = %+v, want 2 violations", verr.Fields)
	}
	if verr.Fields[0].Field != "buyersName" {
		t.Fatalf("field name = %q, want json name", verr.Fields[0].Field)
	}
	if errors.Is(err, ErrInvalidNationalID) {
		t.Fatalf("error must not match ErrInvalidNationalID without a nin violation")
	}
}

func TestStruct_NationalIDMatchesSentinel(t *testing.T) {
	form := creditForm{
		BuyersName: "Jane",
		NationalID: "XX123",
		Tonnage:    decimal.NewFromInt(1),
		DueDate:    time.Now().Add(time.Hour),
	}

	err := Struct(form)
	if !errors.Is(err, ErrInvalidNationalID) {
		t.Fatalf("Struct = %v, want ErrInvalidNationalID", err)
	}
}

type dueForm struct {
	DueDate model.Date `json:"dueDate" validate:"required,notpast"`
}

func TestStruct_DateFields(t *testing.T) {
	fixed := time.Date(2026, 3, 10, 15, 30, 0, 0, time.Local)
	now = func() time.Time { return fixed }
	t.Cleanup(func() { now = time.Now })

	tests := []struct {
		name    string
		payload string
		valid   bool
	}{
		{name: "date only today", payload: `{"dueDate":"2026-03-10"}`, valid: true},
		{name: "date only future", payload: `{"dueDate":"2026-04-01"}`, valid: true},
		{name: "rfc3339 future", payload: `{"dueDate":"2026-03-11T09:00:00Z"}`, valid: true},
		{name: "date only past", payload: `{"dueDate":"2026-03-09"}`, valid: false},
		{name: "missing", payload: `{}`, valid: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var form dueForm
			if err := json.Unmarshal([]byte(tt.payload), &form); err != nil {
				t.Fatalf("unmarshal %s: %v", tt.payload, err)
			}

			err := Struct(form)
			if tt.valid && err != nil {
				t.Fatalf("Struct(%s) = %v, want nil", tt.payload, err)
			}
			if !tt.valid && err == nil {
				t.Fatalf("Struct(%s) = nil, want error", tt.payload)
			}
		})
	}
}
