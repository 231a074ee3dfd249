package handlers

import (
	"net/http"
	"strconv"

	"github.com/diewo77/go-facturas/httpx"
	"github.com/diewo77/go-facturas/internal/listing"
	"github.com/diewo77/go-facturas/internal/logger"
	"github.com/diewo77/go-facturas/internal/models"
	"github.com/diewo77/go-facturas/internal/services"
	"github.com/diewo77/go-facturas/validation"
	"go.uber.org/zap"
)

// APIHandler exposes the invoice service as JSON. It holds no screen state.
type APIHandler struct {
	api      services.InvoiceAPI
	pageSize int
}

func NewAPIHandler(api services.InvoiceAPI, pageSize int) *APIHandler {
	return &APIHandler{api: api, pageSize: pageSize}
}

type invoicePage struct {
	Items      []models.Invoice `json:"items"`
	Total      int              `json:"total"`
	Page       int              `json:"page"`
	PageSize   int              `json:"pageSize"`
	TotalPages int              `json:"totalPages"`
}

type paymentResult struct {
	ID     int                  `json:"id"`
	Status models.InvoiceStatus `json:"estado"`
}

// ListByCustomer returns one filtered page of a customer's invoices.
func (h *APIHandler) ListByCustomer(w http.ResponseWriter, r *http.Request) {
	v := make(validation.Violations)
	validation.CustomerID("idCliente", r.PathValue("idCliente"), v)
	q := r.URL.Query()
	status, ok := models.ParseInvoiceStatus(q.Get("estado"))
	if !ok {
		v["estado"] = validation.CodeInvalidFormat
	}
	if !v.Empty() {
		httpx.JSONError(w, http.StatusUnprocessableEntity, "validation_error", v)
		return
	}

	invoices, err := h.api.FetchByCustomer(r.Context(), r.PathValue("idCliente"))
	if err != nil {
		logger.FromContext(r.Context()).Warn("api fetch failed", zap.Error(err))
		httpx.JSONError(w, serviceStatus(err), services.Message(err), nil)
		return
	}

	page, _ := strconv.Atoi(q.Get("page"))
	size, _ := strconv.Atoi(q.Get("size"))
	if size <= 0 {
		size = h.pageSize
	}
	res := listing.Derive(invoices, listing.Query{Text: q.Get("q"), Status: status, Page: page, PageSize: size})
	httpx.JSON(w, http.StatusOK, invoicePage{
		Items:      res.Items,
		Total:      res.Total,
		Page:       res.Page,
		PageSize:   res.PageSize,
		TotalPages: res.TotalPages,
	})
}

// Pay runs the simulated payment. Nothing is persisted.
func (h *APIHandler) Pay(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	if err := h.api.Pay(r.Context(), id); err != nil {
		logger.FromContext(r.Context()).Warn("api payment failed", zap.Int("invoice_id", id), zap.Error(err))
		httpx.JSONError(w, serviceStatus(err), services.PaymentMessage(err), nil)
		return
	}
	httpx.JSON(w, http.StatusOK, paymentResult{ID: id, Status: models.InvoiceStatusPaid})
}
