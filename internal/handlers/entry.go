package handlers

import (
	"errors"
	"net/http"

	"github.com/diewo77/go-facturas/httpx"
	"github.com/diewo77/go-facturas/internal/logger"
	"github.com/diewo77/go-facturas/internal/screens"
	"github.com/diewo77/go-facturas/view"
	"go.uber.org/zap"
)

// EntryHandler serves the customer entry screen.
type EntryHandler struct {
	registry *screens.Registry
}

func NewEntryHandler(reg *screens.Registry) *EntryHandler {
	return &EntryHandler{registry: reg}
}

func (h *EntryHandler) Show(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, sessionScreens(h.registry, r).Entry().Snapshot())
}

// Submit checks the identifier and navigates to the invoice view when the
// customer has invoices; any other outcome is shown inline.
func (h *EntryHandler) Submit(w http.ResponseWriter, r *http.Request) {
	entry := sessionScreens(h.registry, r).Entry()
	path, err := entry.Submit(r.Context(), r.FormValue("idCliente"))
	status := http.StatusOK
	switch {
	case errors.Is(err, screens.ErrBusy):
		status = http.StatusConflict
	case err != nil && !errors.Is(err, screens.ErrInvalid):
		logger.FromContext(r.Context()).Warn("entry lookup failed", zap.Error(err))
	case path != "":
		httpx.SeeOther(w, r, path)
		return
	}
	h.render(w, r, status, entry.Snapshot())
}

func (h *EntryHandler) render(w http.ResponseWriter, r *http.Request, status int, snap screens.EntrySnapshot) {
	if err := view.RenderStatus(w, r, status, "entry.html", map[string]any{
		"Title": "Consulta tus facturas",
		"Entry": snap,
	}); err != nil {
		logger.FromContext(r.Context()).Error("render entry", zap.Error(err))
		http.Error(w, "Failed to render template", http.StatusInternalServerError)
	}
}
