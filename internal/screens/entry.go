package screens

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"sync"

	"github.com/diewo77/go-facturas/i18n"
	"github.com/diewo77/go-facturas/internal/services"
	"github.com/diewo77/go-facturas/validation"
)

// Entry is the customer entry screen: it checks an identifier and decides
// whether to navigate to the invoice view.
type Entry struct {
	mu      sync.Mutex
	api     services.InvoiceAPI
	state   State
	input   string
	message string
}

// EntrySnapshot is what the entry page renders.
type EntrySnapshot struct {
	State   State
	Input   string
	Message string
	Busy    bool
}

func NewEntry(api services.InvoiceAPI) *Entry {
	return &Entry{api: api}
}

// InvoicesPath is the invoice view location for a customer.
func InvoicesPath(customerID string) string {
	return "/facturas/" + url.PathEscape(customerID)
}

// Submit validates raw and looks the customer up. It returns the path to
// navigate to when the customer has invoices; otherwise the outcome is left
// in the snapshot message.
func (e *Entry) Submit(ctx context.Context, raw string) (string, error) {
	v := make(validation.Violations)
	validation.CustomerID("idCliente", raw, v)

	e.mu.Lock()
	if e.state == StateLoading {
		e.mu.Unlock()
		return "", ErrBusy
	}
	e.input = raw
	if !v.Empty() {
		e.state = StateIdle
		e.message = i18n.Scoped("entry", v["idCliente"])
		e.mu.Unlock()
		return "", ErrInvalid
	}
	e.state = StateLoading
	e.message = ""
	e.mu.Unlock()

	id := strings.TrimSpace(raw)
	invoices, err := e.api.FetchByCustomer(context.WithoutCancel(ctx), id)

	e.mu.Lock()
	defer e.mu.Unlock()
	if err != nil {
		e.state = StateError
		var se *services.Error
		if errors.As(err, &se) && se.Message != "" {
			e.message = se.Message
		} else {
			e.message = i18n.T("entry.check_failed")
		}
		return "", err
	}
	e.state = StateLoaded
	if len(invoices) == 0 {
		e.message = i18n.T("entry.not_found")
		return "", nil
	}
	return InvoicesPath(id), nil
}

func (e *Entry) Snapshot() EntrySnapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return EntrySnapshot{
		State:   e.state,
		Input:   e.input,
		Message: e.message,
		Busy:    e.state == StateLoading,
	}
}
