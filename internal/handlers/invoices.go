package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/diewo77/go-facturas/httpx"
	"github.com/diewo77/go-facturas/internal/logger"
	"github.com/diewo77/go-facturas/internal/screens"
	"github.com/diewo77/go-facturas/view"
	"go.uber.org/zap"
)

// InvoiceHandler serves the customer invoice view and its dialogs.
type InvoiceHandler struct {
	registry *screens.Registry
	runner   *Runner
}

func NewInvoiceHandler(reg *screens.Registry, runner *Runner) *InvoiceHandler {
	return &InvoiceHandler{registry: reg, runner: runner}
}

func customerID(r *http.Request) string {
	return strings.TrimSpace(r.PathValue("idCliente"))
}

// Index has no customer to show and sends the user back to the entry screen.
func (h *InvoiceHandler) Index(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/", http.StatusFound)
}

// Show mounts the view for the customer on first visit and renders it.
// q, estado and page update the filter and the current page.
func (h *InvoiceHandler) Show(w http.ResponseWriter, r *http.Request) {
	id := customerID(r)
	if id == "" {
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}
	v, fresh := sessionScreens(h.registry, r).Customer(id)
	if fresh {
		if run, err := v.BeginReload(); err == nil {
			h.runner.Go(r, "mount", run)
		}
	}
	if text, status, page, ok := parseQuery(r); ok {
		v.ApplyQuery(text, status, page)
	}
	renderInvoiceView(w, r, http.StatusOK, "invoices.html", screens.InvoicesPath(id), v, "")
}

// current returns the mounted view for the path's customer, or redirects to
// the page so it gets mounted.
func (h *InvoiceHandler) current(w http.ResponseWriter, r *http.Request) (*screens.InvoiceView, bool) {
	id := customerID(r)
	if id == "" {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return nil, false
	}
	v, ok := sessionScreens(h.registry, r).CurrentCustomer(id)
	if !ok {
		httpx.SeeOther(w, r, screens.InvoicesPath(id))
		return nil, false
	}
	return v, true
}

func (h *InvoiceHandler) Reload(w http.ResponseWriter, r *http.Request) {
	h.start(w, r, "reload", (*screens.InvoiceView).BeginReload)
}

func (h *InvoiceHandler) OpenPayment(w http.ResponseWriter, r *http.Request) {
	h.act(w, r, func(v *screens.InvoiceView) error {
		id, ok := formInvoiceID(r)
		if !ok {
			return screens.ErrNotFound
		}
		return v.OpenPayment(id)
	})
}

func (h *InvoiceHandler) ConfirmPayment(w http.ResponseWriter, r *http.Request) {
	h.start(w, r, "payment", (*screens.InvoiceView).BeginPayment)
}

func (h *InvoiceHandler) ClosePayment(w http.ResponseWriter, r *http.Request) {
	h.act(w, r, (*screens.InvoiceView).ClosePayment)
}

func (h *InvoiceHandler) OpenDetail(w http.ResponseWriter, r *http.Request) {
	h.act(w, r, func(v *screens.InvoiceView) error {
		id, ok := formInvoiceID(r)
		if !ok {
			return screens.ErrNotFound
		}
		return v.OpenDetail(id)
	})
}

func (h *InvoiceHandler) CloseDetail(w http.ResponseWriter, r *http.Request) {
	h.act(w, r, func(v *screens.InvoiceView) error {
		v.CloseDetail()
		return nil
	})
}

// act applies a synchronous transition and redirects back to the view.
func (h *InvoiceHandler) act(w http.ResponseWriter, r *http.Request, fn func(*screens.InvoiceView) error) {
	v, ok := h.current(w, r)
	if !ok {
		return
	}
	base := screens.InvoicesPath(customerID(r))
	if err := fn(v); err != nil {
		refuse(w, r, "invoices.html", base, v, err)
		return
	}
	httpx.SeeOther(w, r, base)
}

// start begins an asynchronous transition, runs the rest in the background
// and redirects to the view showing the in-flight state.
func (h *InvoiceHandler) start(w http.ResponseWriter, r *http.Request, action string, begin func(*screens.InvoiceView) (func(context.Context) error, error)) {
	v, ok := h.current(w, r)
	if !ok {
		return
	}
	base := screens.InvoicesPath(customerID(r))
	run, err := begin(v)
	if err != nil {
		refuse(w, r, "invoices.html", base, v, err)
		return
	}
	h.runner.Go(r, action, run)
	httpx.SeeOther(w, r, base)
}

// refuse answers a rejected transition with the current screen and a notice.
func refuse(w http.ResponseWriter, r *http.Request, page, base string, v *screens.InvoiceView, err error) {
	status := guardStatus(err)
	if !screens.IsGuard(err) {
		status = http.StatusInternalServerError
	}
	logger.FromContext(r.Context()).Info("screen action refused", zap.String("path", r.URL.Path), zap.Error(err))
	if httpx.WantsJSON(r) {
		httpx.JSONError(w, status, screens.Message(err), nil)
		return
	}
	renderInvoiceView(w, r, status, page, base, v, screens.Message(err))
}

func renderInvoiceView(w http.ResponseWriter, r *http.Request, status int, page, base string, v *screens.InvoiceView, flash string) {
	snap := v.Snapshot()
	title := "Facturas " + snap.CustomerID
	if snap.Admin {
		title = "Facturas (Administrador)"
	}
	err := view.RenderStatus(w, r, status, page, map[string]any{
		"Title":   strings.TrimSpace(title),
		"View":    snap,
		"Base":    base,
		"Flash":   flash,
		"Refresh": snap.Busy,
	})
	if err != nil {
		logger.FromContext(r.Context()).Error("render invoices", zap.String("page", page), zap.Error(err))
		http.Error(w, "Failed to render template", http.StatusInternalServerError)
	}
}
