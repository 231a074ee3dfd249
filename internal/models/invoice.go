package models

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/diewo77/go-facturas/validation"
	"github.com/shopspring/decimal"
)

// InvoiceStatus represents the status of an invoice.
type InvoiceStatus string

const (
	InvoiceStatusPending InvoiceStatus = "PENDIENTE"
	InvoiceStatusPaid    InvoiceStatus = "PAGADO"
)

// ErrAlreadyPaid is returned when a paid invoice is paid again.
var ErrAlreadyPaid = errors.New("invoice already paid")

// ParseInvoiceStatus maps a form or query value to a status.
// The empty string means "any status" and is returned as-is.
func ParseInvoiceStatus(raw string) (InvoiceStatus, bool) {
	switch InvoiceStatus(strings.ToUpper(strings.TrimSpace(raw))) {
	case "":
		return "", true
	case InvoiceStatusPending:
		return InvoiceStatusPending, true
	case InvoiceStatusPaid:
		return InvoiceStatusPaid, true
	default:
		return "", false
	}
}

// Invoice is a billable record for one customer, service and period.
type Invoice struct {
	ID         int             `gorm:"primaryKey;autoIncrement:false" json:"id"`
	CustomerID string          `gorm:"size:20;index;not null" json:"idCliente"`
	Service    string          `gorm:"size:100;not null" json:"servicio"`
	Period     string          `gorm:"size:7;not null" json:"periodo"`
	Amount     decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"monto"`
	Status     InvoiceStatus   `gorm:"size:20;not null;default:'PENDIENTE'" json:"estado"`

	// PaidDate only lives in the copy held by a screen; payments are never written back.
	PaidDate *time.Time `gorm:"-" json:"fechaPago,omitempty"`
}

// IsPending returns true if the invoice still awaits payment.
func (i *Invoice) IsPending() bool {
	return i.Status == InvoiceStatusPending
}

// IsPaid returns true if the invoice has been paid.
func (i *Invoice) IsPaid() bool {
	return i.Status == InvoiceStatusPaid
}

// MarkPaid moves a pending invoice to PAGADO. The transition is one-way.
func (i *Invoice) MarkPaid(at time.Time) error {
	if i.IsPaid() {
		return fmt.Errorf("invoice %d: %w", i.ID, ErrAlreadyPaid)
	}
	i.Status = InvoiceStatusPaid
	i.PaidDate = &at
	return nil
}

// TransactionNumber returns the simulated receipt number, e.g. SIM-1-202512.
func (i *Invoice) TransactionNumber() string {
	return fmt.Sprintf("SIM-%d-%s", i.ID, strings.Replace(i.Period, "-", "", 1))
}

// Validate reports field violations of a stored invoice.
func (i *Invoice) Validate() validation.Violations {
	v := make(validation.Violations)
	validation.CustomerID("customer_id", i.CustomerID, v)
	validation.Required("service", i.Service, v)
	validation.Period("period", i.Period, v)
	validation.NonNegativeDecimal("amount", i.Amount, v)
	if _, ok := ParseInvoiceStatus(string(i.Status)); !ok || i.Status == "" {
		v["status"] = validation.CodeInvalidFormat
	}
	return v
}
