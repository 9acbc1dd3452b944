// Package validation содержит правила проверки входных данных.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"github.com/ttacon/libphonenumber"

	"github.com/Lovemore-dev/Karibu-Groceries-LTD-Management-System/internal/model"
)

// ErrInvalidNationalID возвращается, если номер NIN не соответствует формату.
var ErrInvalidNationalID = errors.New("national id must follow the Ugandan NIN format (CF/CM + 12 characters)")

const phoneRegion = "UG"

var (
	nationalIDPattern   = regexp.MustCompile(`^(CF|CM)[A-Z0-9]{12}$`)
	phonePattern        = regexp.MustCompile(`^(\+256|256|0)7[0-9]{8}$`)
	alphanumericPattern = regexp.MustCompile(`^[a-zA-Z0-9 ]+$`)
	alphabeticPattern   = regexp.MustCompile(`^[A-Za-z ]+$`)
)

// now подменяется в тестах.
var now = time.Now

// FieldError описывает нарушение правила для одного поля.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	tag     string
}

// Error содержит все нарушения, найденные при проверке структуры.
type Error struct {
	Fields []FieldError
}

func (e *Error) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Is позволяет сопоставить ошибку формата NIN через errors.Is.
func (e *Error) Is(target error) bool {
	if target != ErrInvalidNationalID {
		return false
	}
	for _, f := range e.Fields {
		if f.tag == "nin" {
			return true
		}
	}
	return false
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})

	// decimal.Decimal проверяется как число: теги gt/min работают напрямую.
	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		d, ok := field.Interface().(decimal.Decimal)
		if !ok {
			return nil
		}
		f, _ := d.Float64()
		return f
	}, decimal.Decimal{})

	// model.Date проверяется как time.Time: required и notpast видят дату.
	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		d, ok := field.Interface().(model.Date)
		if !ok {
			return nil
		}
		return d.Time
	}, model.Date{})

	mustRegister(v, "alphanumspace", func(fl validator.FieldLevel) bool {
		return alphanumericPattern.MatchString(fl.Field().String())
	})
	mustRegister(v, "alphaspace", func(fl validator.FieldLevel) bool {
		return alphabeticPattern.MatchString(fl.Field().String())
	})
	mustRegister(v, "nin", func(fl validator.FieldLevel) bool {
		return IsValidNationalID(fl.Field().String())
	})
	mustRegister(v, "ugphone", func(fl validator.FieldLevel) bool {
		return IsValidPhone(fl.Field().String())
	})
	mustRegister(v, "notpast", func(fl validator.FieldLevel) bool {
		t, ok := fl.Field().Interface().(time.Time)
		return ok && IsNotPast(t)
	})

	return v
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("register validation %q: %v", tag, err))
	}
}

// Struct проверяет структуру по тегам validate и возвращает *Error при нарушениях.
func Struct(s interface{}) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validate: %w", err)
	}

	out := &Error{Fields: make([]FieldError, 0, len(verrs))}
	for _, fe := range verrs {
		out.Fields = append(out.Fields, FieldError{
			Field:   fe.Field(),
			Message: message(fe),
			tag:     fe.Tag(),
		})
	}
	return out
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		if fe.Kind() == reflect.String {
			return "must be at least " + fe.Param() + " characters"
		}
		return "must be at least " + fe.Param()
	case "gt":
		return "must be greater than " + fe.Param()
	case "oneof":
		return "must be one of: " + fe.Param()
	case "email":
		return "must be a valid email address"
	case "alphanumspace":
		return "must be alpha-numeric"
	case "alphaspace":
		return "must contain alphabets only"
	case "nin":
		return ErrInvalidNationalID.Error()
	case "ugphone":
		return "must be a valid phone number in Uganda"
	case "notpast":
		return "cannot be in the past"
	}
	return "is invalid"
}

// IsValidNationalID проверяет формат угандийского NIN.
func IsValidNationalID(nin string) bool {
	return nationalIDPattern.MatchString(nin)
}

// IsValidPhone проверяет, что номер является корректным мобильным номером Уганды.
func IsValidPhone(contact string) bool {
	if !phonePattern.MatchString(contact) {
		return false
	}

	p, err := libphonenumber.Parse(contact, phoneRegion)
	if err != nil {
		return false
	}

	return libphonenumber.IsValidNumber(p)
}

// IsNotPast сообщает, что дата не раньше начала текущего дня.
func IsNotPast(t time.Time) bool {
	y, m, d := now().Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, now().Location())
	return !t.Before(today)
}
