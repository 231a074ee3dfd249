package services

import (
	"context"
	"errors"
	"time"

	"github.com/diewo77/go-facturas/internal/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Reserved inputs that make the mock backend fail deterministically.
const (
	FailingCustomerID = "999"
	FailingInvoiceID  = -1
)

// ErrorKind distinguishes the two failure families surfaced to screens.
type ErrorKind int

const (
	KindFetch ErrorKind = iota + 1
	KindPayment
)

// Error carries a human-readable message meant to be shown as-is.
type Error struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Err }

var (
	ErrFetchFailed   = &Error{Kind: KindFetch, Message: "Error simulado de API para pruebas."}
	ErrPaymentFailed = &Error{Kind: KindPayment, Message: "No se pudo procesar el pago, intente otra vez en unos minutos"}
)

// Fallback messages for errors that do not carry their own.
const (
	msgUnknownFetch   = "Error desconocido al buscar facturas."
	msgUnknownPayment = "Error desconocido al procesar el pago."
)

// Message returns the text a screen should display for err.
func Message(err error) string {
	var se *Error
	if errors.As(err, &se) && se.Message != "" {
		return se.Message
	}
	return msgUnknownFetch
}

// PaymentMessage is Message with the payment fallback.
func PaymentMessage(err error) string {
	var se *Error
	if errors.As(err, &se) && se.Message != "" {
		return se.Message
	}
	return msgUnknownPayment
}

// InvoiceAPI is the boundary consumed by the screen controllers.
type InvoiceAPI interface {
	FetchByCustomer(ctx context.Context, customerID string) ([]models.Invoice, error)
	Pay(ctx context.Context, invoiceID int) error
}

// Latency configures the simulated network delay of each operation.
type Latency struct {
	Fetch time.Duration
	Pay   time.Duration
}

// InvoiceService is the mocked backend: it reads the fixture store after an
// artificial delay and never writes payments back.
type InvoiceService struct {
	db      *gorm.DB
	latency Latency
	log     *zap.Logger
}

func NewInvoiceService(db *gorm.DB, latency Latency, log *zap.Logger) *InvoiceService {
	if log == nil {
		log = zap.NewNop()
	}
	return &InvoiceService{db: db, latency: latency, log: log}
}

// FetchByCustomer returns every invoice of the customer, ordered by id.
// No match yields an empty slice, not an error.
func (s *InvoiceService) FetchByCustomer(ctx context.Context, customerID string) ([]models.Invoice, error) {
	if err := wait(ctx, s.latency.Fetch); err != nil {
		return nil, err
	}
	if customerID == FailingCustomerID {
		s.log.Warn("simulated fetch failure", zap.String("customer_id", customerID))
		return nil, ErrFetchFailed
	}

	invoices := []models.Invoice{}
	if err := s.db.WithContext(ctx).Where("customer_id = ?", customerID).Order("id").Find(&invoices).Error; err != nil {
		s.log.Error("fetch invoices", zap.String("customer_id", customerID), zap.Error(err))
		return nil, &Error{Kind: KindFetch, Message: msgUnknownFetch, Err: err}
	}
	s.log.Debug("fetched invoices", zap.String("customer_id", customerID), zap.Int("count", len(invoices)))
	return invoices, nil
}

// Pay simulates a payment. The caller reflects the new status in its own state.
func (s *InvoiceService) Pay(ctx context.Context, invoiceID int) error {
	if err := wait(ctx, s.latency.Pay); err != nil {
		return err
	}
	if invoiceID == FailingInvoiceID {
		s.log.Warn("simulated payment failure", zap.Int("invoice_id", invoiceID))
		return ErrPaymentFailed
	}
	s.log.Info("payment accepted", zap.Int("invoice_id", invoiceID))
	return nil
}

func wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
