package screens

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/diewo77/go-facturas/i18n"
	"github.com/diewo77/go-facturas/internal/listing"
	"github.com/diewo77/go-facturas/internal/models"
	"github.com/diewo77/go-facturas/internal/services"
	"github.com/diewo77/go-facturas/validation"
)

// Mode selects the customer or the operator flavour of the invoice view.
type Mode int

const (
	ModeCustomer Mode = iota
	ModeAdmin
)

// InvoiceView owns the loaded invoices of one customer, the query state and
// the two dialogs. The mutex is never held across a service call; the
// loading/paying flags gate concurrent actions instead.
type InvoiceView struct {
	mu   sync.Mutex
	api  services.InvoiceAPI
	mode Mode
	now  func() time.Time

	mounted bool
	gen     uint64

	customerID  string
	searchInput string
	formError   string

	state    State
	invoices []models.Invoice
	errMsg   string
	query    listing.Query

	payFor    *int
	paying    bool
	payErr    string
	detailFor *int
}

// PaymentDialog is the confirmation dialog content.
type PaymentDialog struct {
	Invoice models.Invoice
	Paying  bool
	Error   string
}

// InvoiceViewSnapshot is a consistent copy of the view for rendering.
type InvoiceViewSnapshot struct {
	Admin       bool
	CustomerID  string
	SearchInput string
	FormError   string
	State       State
	Loading     bool
	Busy        bool
	Error       string
	Empty       bool
	Query       listing.Query
	Listing     listing.Result
	Payment     *PaymentDialog
	Detail      *models.Invoice
}

// NewCustomerView creates a mounted view for customerID; call Mount to load it.
func NewCustomerView(api services.InvoiceAPI, customerID string, pageSize int) *InvoiceView {
	v := newInvoiceView(api, ModeCustomer, pageSize)
	v.customerID = customerID
	return v
}

// NewAdminView creates a mounted operator view with an empty search form.
func NewAdminView(api services.InvoiceAPI, pageSize int) *InvoiceView {
	return newInvoiceView(api, ModeAdmin, pageSize)
}

func newInvoiceView(api services.InvoiceAPI, mode Mode, pageSize int) *InvoiceView {
	if pageSize <= 0 {
		pageSize = listing.DefaultPageSize
	}
	return &InvoiceView{
		api:     api,
		mode:    mode,
		now:     time.Now,
		mounted: true,
		query:   listing.Query{Page: 1, PageSize: pageSize},
	}
}

func (v *InvoiceView) CustomerID() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.customerID
}

func (v *InvoiceView) Mounted() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.mounted
}

// Mount performs the initial load of a customer view.
func (v *InvoiceView) Mount(ctx context.Context) error {
	if v.mode != ModeCustomer {
		return ErrNotAllowed
	}
	return v.Reload(ctx)
}

// Search validates the operator input and loads that customer.
func (v *InvoiceView) Search(ctx context.Context, raw string) error {
	run, err := v.BeginSearch(raw)
	if err != nil {
		return err
	}
	return run(ctx)
}

// BeginSearch validates raw and, when it is acceptable, switches to loading
// and returns the fetch to run.
func (v *InvoiceView) BeginSearch(raw string) (func(context.Context) error, error) {
	if v.mode != ModeAdmin {
		return nil, ErrNotAllowed
	}
	viol := make(validation.Violations)
	validation.CustomerID("idCliente", raw, viol)

	v.mu.Lock()
	defer v.mu.Unlock()
	if !v.mounted {
		return nil, ErrUnmounted
	}
	if v.busyLocked() {
		return nil, ErrBusy
	}
	v.searchInput = raw
	if !viol.Empty() {
		v.formError = i18n.Scoped("search", viol["idCliente"])
		return nil, ErrInvalid
	}
	v.formError = ""
	v.customerID = strings.TrimSpace(raw)
	return v.beginLoadLocked(), nil
}

// ClearSearch empties the operator's search input.
func (v *InvoiceView) ClearSearch() error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.mode != ModeAdmin {
		return ErrNotAllowed
	}
	if v.busyLocked() {
		return ErrBusy
	}
	v.searchInput = ""
	v.formError = ""
	return nil
}

// Reload repeats the fetch for the current customer.
func (v *InvoiceView) Reload(ctx context.Context) error {
	run, err := v.BeginReload()
	if err != nil {
		return err
	}
	return run(ctx)
}

// BeginReload switches to loading and returns the fetch to run. The dialogs
// are closed.
func (v *InvoiceView) BeginReload() (func(context.Context) error, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if !v.mounted {
		return nil, ErrUnmounted
	}
	if v.customerID == "" {
		return nil, ErrNoCustomer
	}
	if v.busyLocked() {
		return nil, ErrBusy
	}
	return v.beginLoadLocked(), nil
}

func (v *InvoiceView) beginLoadLocked() func(context.Context) error {
	v.state = StateLoading
	v.errMsg = ""
	v.payFor, v.payErr, v.detailFor = nil, "", nil
	v.gen++
	gen, id := v.gen, v.customerID

	return func(ctx context.Context) error {
		// In-flight calls are never cancelled; a stale result is dropped below.
		invoices, err := v.api.FetchByCustomer(context.WithoutCancel(ctx), id)

		v.mu.Lock()
		defer v.mu.Unlock()
		if !v.mounted || v.gen != gen {
			return ErrUnmounted
		}
		if err != nil {
			v.invoices = nil
			v.state = StateError
			v.errMsg = services.Message(err)
			return err
		}
		v.invoices = invoices
		v.query.Page = 1
		v.state = StateLoaded
		return nil
	}
}

// ApplyQuery updates the text/status filter and the requested page.
func (v *InvoiceView) ApplyQuery(text string, status models.InvoiceStatus, page int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.query = v.query.Apply(text, status, page)
}

// OpenPayment selects a PENDIENTE invoice for payment and closes the detail dialog.
func (v *InvoiceView) OpenPayment(invoiceID int) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.mode != ModeCustomer {
		return ErrNotAllowed
	}
	if v.busyLocked() {
		return ErrBusy
	}
	inv, ok := v.findLocked(invoiceID)
	if !ok {
		return ErrNotFound
	}
	if !inv.IsPending() {
		return ErrNotPending
	}
	id := invoiceID
	v.payFor, v.payErr, v.detailFor = &id, "", nil
	return nil
}

// ClosePayment dismisses the confirmation dialog unless a payment is in flight.
func (v *InvoiceView) ClosePayment() error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.paying {
		return ErrDialogLocked
	}
	v.payFor, v.payErr = nil, ""
	return nil
}

// ConfirmPayment pays the selected invoice. On success the local copy becomes
// PAGADO and the dialog closes; on failure the dialog stays open with the error
// and nothing is patched.
func (v *InvoiceView) ConfirmPayment(ctx context.Context) error {
	run, err := v.BeginPayment()
	if err != nil {
		return err
	}
	return run(ctx)
}

// BeginPayment locks the dialog in the paying state and returns the payment
// call to run.
func (v *InvoiceView) BeginPayment() (func(context.Context) error, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if !v.mounted {
		return nil, ErrUnmounted
	}
	if v.payFor == nil {
		return nil, ErrNoSelection
	}
	if v.busyLocked() {
		return nil, ErrBusy
	}
	id := *v.payFor
	inv, ok := v.findLocked(id)
	if !ok {
		return nil, ErrNotFound
	}
	if !inv.IsPending() {
		return nil, ErrNotPending
	}
	v.paying = true
	v.payErr = ""
	gen := v.gen

	return func(ctx context.Context) error {
		err := v.api.Pay(context.WithoutCancel(ctx), id)

		v.mu.Lock()
		defer v.mu.Unlock()
		v.paying = false
		if !v.mounted || v.gen != gen {
			return ErrUnmounted
		}
		if err != nil {
			v.payErr = services.PaymentMessage(err)
			return err
		}
		for i := range v.invoices {
			if v.invoices[i].ID == id {
				if perr := v.invoices[i].MarkPaid(v.now()); perr != nil {
					return perr
				}
				break
			}
		}
		v.payFor = nil
		return nil
	}, nil
}

// OpenDetail shows the read-only payment detail of a PAGADO invoice.
func (v *InvoiceView) OpenDetail(invoiceID int) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.paying {
		return ErrDialogLocked
	}
	inv, ok := v.findLocked(invoiceID)
	if !ok {
		return ErrNotFound
	}
	if !inv.IsPaid() {
		return ErrNotPaid
	}
	id := invoiceID
	v.detailFor, v.payFor, v.payErr = &id, nil, ""
	return nil
}

func (v *InvoiceView) CloseDetail() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.detailFor = nil
}

// Unmount detaches the view; results of calls still in flight are discarded.
func (v *InvoiceView) Unmount() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.mounted = false
	v.gen++
}

// Snapshot derives the current page and dialogs. The clamped page is stored
// back so the next derivation starts from a valid page.
func (v *InvoiceView) Snapshot() InvoiceViewSnapshot {
	v.mu.Lock()
	defer v.mu.Unlock()

	res := listing.Derive(v.invoices, v.query)
	v.query.Page = res.Page

	snap := InvoiceViewSnapshot{
		Admin:       v.mode == ModeAdmin,
		CustomerID:  v.customerID,
		SearchInput: v.searchInput,
		FormError:   v.formError,
		State:       v.state,
		Loading:     v.state == StateLoading,
		Busy:        v.busyLocked(),
		Error:       v.errMsg,
		Query:       v.query,
		Listing:     res,
	}
	snap.Empty = v.state == StateLoaded && v.customerID != "" && len(v.invoices) == 0
	if v.payFor != nil {
		if inv, ok := v.findLocked(*v.payFor); ok {
			snap.Payment = &PaymentDialog{Invoice: inv, Paying: v.paying, Error: v.payErr}
		}
	}
	if v.detailFor != nil {
		if inv, ok := v.findLocked(*v.detailFor); ok && inv.IsPaid() {
			snap.Detail = &inv
		}
	}
	return snap
}

func (v *InvoiceView) busyLocked() bool {
	return v.state == StateLoading || v.paying
}

func (v *InvoiceView) findLocked(id int) (models.Invoice, bool) {
	for _, inv := range v.invoices {
		if inv.ID == id {
			return inv, true
		}
	}
	return models.Invoice{}, false
}
