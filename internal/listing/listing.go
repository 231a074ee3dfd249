// Package listing derives a page of invoices from a loaded list, a free-text
// query and a status filter. Everything here is pure.
package listing

import (
	"strconv"
	"strings"

	"github.com/diewo77/go-facturas/internal/models"
)

// DefaultPageSize is used when a query carries no positive page size.
const DefaultPageSize = 4

// Query is the ephemeral per-screen query state.
type Query struct {
	Text     string
	Status   models.InvoiceStatus // empty means any status
	Page     int
	PageSize int
}

// Apply updates the query from user input. Changing the text or the status
// filter sends the user back to page 1; otherwise page is kept as requested.
func (q Query) Apply(text string, status models.InvoiceStatus, page int) Query {
	if text != q.Text || status != q.Status {
		q.Text = text
		q.Status = status
		q.Page = 1
		return q
	}
	q.Page = page
	return q
}

// Result is the derived view of a list under a query.
type Result struct {
	Filtered   []models.Invoice
	Items      []models.Invoice
	Total      int
	Page       int
	PageSize   int
	TotalPages int
}

// HasPrev reports whether a previous page exists.
func (r Result) HasPrev() bool { return r.Page > 1 }

// HasNext reports whether a next page exists.
func (r Result) HasNext() bool { return r.Page < r.TotalPages }

// Matches reports whether inv satisfies both the text and the status filter.
// text must already be trimmed and lower-cased.
func Matches(inv models.Invoice, text string, status models.InvoiceStatus) bool {
	if status != "" && inv.Status != status {
		return false
	}
	if text == "" {
		return true
	}
	return strings.Contains(strings.ToLower(inv.Service), text) ||
		strings.Contains(strings.ToLower(inv.Period), text) ||
		strings.Contains(inv.Amount.String(), text) ||
		strings.Contains(strconv.Itoa(inv.ID), text)
}

// Filter keeps the invoices matching text and status, preserving order.
func Filter(invoices []models.Invoice, text string, status models.InvoiceStatus) []models.Invoice {
	needle := strings.ToLower(strings.TrimSpace(text))
	out := make([]models.Invoice, 0, len(invoices))
	for _, inv := range invoices {
		if Matches(inv, needle, status) {
			out = append(out, inv)
		}
	}
	return out
}

// TotalPages is max(1, ceil(count/size)).
func TotalPages(count, size int) int {
	if size <= 0 {
		size = DefaultPageSize
	}
	pages := (count + size - 1) / size
	if pages < 1 {
		return 1
	}
	return pages
}

// ClampPage brings page into [1, totalPages].
func ClampPage(page, totalPages int) int {
	if page > totalPages {
		page = totalPages
	}
	if page < 1 {
		page = 1
	}
	return page
}

// Derive filters, counts pages, clamps the requested page and slices it.
func Derive(invoices []models.Invoice, q Query) Result {
	size := q.PageSize
	if size <= 0 {
		size = DefaultPageSize
	}
	filtered := Filter(invoices, q.Text, q.Status)
	total := TotalPages(len(filtered), size)
	page := ClampPage(q.Page, total)

	start := (page - 1) * size
	end := start + size
	if end > len(filtered) {
		end = len(filtered)
	}
	return Result{
		Filtered:   filtered,
		Items:      filtered[start:end],
		Total:      len(filtered),
		Page:       page,
		PageSize:   size,
		TotalPages: total,
	}
}
