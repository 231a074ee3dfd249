package handlers

import (
	"errors"
	"net/http"

	"github.com/diewo77/go-facturas/httpx"
	"github.com/diewo77/go-facturas/internal/screens"
)

// AdminBase is the admin screen location.
const AdminBase = "/facturasAdmin"

// AdminHandler serves the operator screen: any customer, no payments.
type AdminHandler struct {
	registry *screens.Registry
	runner   *Runner
}

func NewAdminHandler(reg *screens.Registry, runner *Runner) *AdminHandler {
	return &AdminHandler{registry: reg, runner: runner}
}

func (h *AdminHandler) view(r *http.Request) *screens.InvoiceView {
	return sessionScreens(h.registry, r).Admin()
}

func (h *AdminHandler) Show(w http.ResponseWriter, r *http.Request) {
	v := h.view(r)
	if text, status, page, ok := parseQuery(r); ok {
		v.ApplyQuery(text, status, page)
	}
	renderInvoiceView(w, r, http.StatusOK, "admin.html", AdminBase, v, "")
}

// Search validates the form; a valid identifier starts the lookup.
func (h *AdminHandler) Search(w http.ResponseWriter, r *http.Request) {
	v := h.view(r)
	run, err := v.BeginSearch(r.FormValue("idCliente"))
	switch {
	case errors.Is(err, screens.ErrInvalid):
		// The message is part of the form state.
		httpx.SeeOther(w, r, AdminBase)
	case err != nil:
		refuse(w, r, "admin.html", AdminBase, v, err)
	default:
		h.runner.Go(r, "search", run)
		httpx.SeeOther(w, r, AdminBase)
	}
}

func (h *AdminHandler) Clear(w http.ResponseWriter, r *http.Request) {
	v := h.view(r)
	if err := v.ClearSearch(); err != nil {
		refuse(w, r, "admin.html", AdminBase, v, err)
		return
	}
	httpx.SeeOther(w, r, AdminBase)
}

func (h *AdminHandler) Reload(w http.ResponseWriter, r *http.Request) {
	v := h.view(r)
	run, err := v.BeginReload()
	if err != nil {
		refuse(w, r, "admin.html", AdminBase, v, err)
		return
	}
	h.runner.Go(r, "reload", run)
	httpx.SeeOther(w, r, AdminBase)
}

func (h *AdminHandler) OpenDetail(w http.ResponseWriter, r *http.Request) {
	v := h.view(r)
	id, ok := formInvoiceID(r)
	if !ok {
		refuse(w, r, "admin.html", AdminBase, v, screens.ErrNotFound)
		return
	}
	if err := v.OpenDetail(id); err != nil {
		refuse(w, r, "admin.html", AdminBase, v, err)
		return
	}
	httpx.SeeOther(w, r, AdminBase)
}

func (h *AdminHandler) CloseDetail(w http.ResponseWriter, r *http.Request) {
	h.view(r).CloseDetail()
	httpx.SeeOther(w, r, AdminBase)
}
