package validation

import (
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

type Violations map[string]string

func (v Violations) Empty() bool { return len(v) == 0 }

// Violation codes, translated by the i18n catalog.
const (
	CodeRequired      = "required"
	CodeInvalidFormat = "invalid_format"
	CodeNegative      = "must_not_be_negative"
)

var customerIDPattern = regexp.MustCompile(`^[a-zA-Z0-9_-]{3,20}$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("customerid", func(fl validator.FieldLevel) bool {
		return customerIDPattern.MatchString(fl.Field().String())
	})
	return v
}

type customerIDInput struct {
	Value string `validate:"required,customerid"`
}

// Basic validators
func Required(field, value string, v Violations) {
	if strings.TrimSpace(value) == "" {
		v[field] = CodeRequired
	}
}

// CustomerID checks the trimmed identifier: 3 to 20 letters, digits, '_' or '-'.
func CustomerID(field, value string, v Violations) {
	err := validate.Struct(customerIDInput{Value: strings.TrimSpace(value)})
	if err == nil {
		return
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		v[field] = CodeInvalidFormat
		return
	}
	switch verrs[0].Tag() {
	case "required":
		v[field] = CodeRequired
	default:
		v[field] = CodeInvalidFormat
	}
}

// Period checks a YYYY-MM billing period.
func Period(field, value string, v Violations) {
	if _, err := time.Parse("2006-01", value); err != nil || len(value) != 7 {
		v[field] = CodeInvalidFormat
	}
}

func NonNegativeDecimal(field string, val decimal.Decimal, v Violations) {
	if val.IsNegative() {
		v[field] = CodeNegative
	}
}
