package listing

import (
	"fmt"
	"testing"

	"github.com/diewo77/go-facturas/internal/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sample() []models.Invoice {
	return []models.Invoice{
		{ID: 1, CustomerID: "123", Service: "Agua", Period: "2025-12", Amount: decimal.RequireFromString("58.2"), Status: models.InvoiceStatusPending},
		{ID: 2, CustomerID: "123", Service: "Luz", Period: "2026-01", Amount: decimal.RequireFromString("120.5"), Status: models.InvoiceStatusPending},
		{ID: 3, CustomerID: "456", Service: "Internet", Period: "2025-11", Amount: decimal.NewFromInt(210), Status: models.InvoiceStatusPaid},
		{ID: 4, CustomerID: "456", Service: "Luz", Period: "2025-12", Amount: decimal.RequireFromString("98.3"), Status: models.InvoiceStatusPending},
	}
}

func many(n int) []models.Invoice {
	out := make([]models.Invoice, 0, n)
	for i := 1; i <= n; i++ {
		status := models.InvoiceStatusPending
		if i%3 == 0 {
			status = models.InvoiceStatusPaid
		}
		out = append(out, models.Invoice{
			ID: i, CustomerID: "777", Service: fmt.Sprintf("Servicio %d", i),
			Period: "2025-10", Amount: decimal.NewFromInt(int64(i * 10)), Status: status,
		})
	}
	return out
}

func ids(invs []models.Invoice) []int {
	out := make([]int, 0, len(invs))
	for _, inv := range invs {
		out = append(out, inv.ID)
	}
	return out
}

func TestFilter(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		status models.InvoiceStatus
		want   []int
	}{
		{"no constraint", "", "", []int{1, 2, 3, 4}},
		{"service case insensitive", "  LUZ ", "", []int{2, 4}},
		{"period", "2025-12", "", []int{1, 4}},
		{"amount as printed", "58.2", "", []int{1}},
		{"integer amount", "210", "", []int{3}},
		{"id", "4", "", []int{4}},
		{"status only", "", models.InvoiceStatusPaid, []int{3}},
		{"text and status", "luz", models.InvoiceStatusPending, []int{2, 4}},
		{"nothing", "gas", "", []int{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ids(Filter(sample(), tt.text, tt.status)))
		})
	}
}

func TestTotalPages(t *testing.T) {
	assert.Equal(t, 1, TotalPages(0, 4))
	assert.Equal(t, 1, TotalPages(4, 4))
	assert.Equal(t, 2, TotalPages(5, 4))
	assert.Equal(t, 3, TotalPages(9, 4))
	assert.Equal(t, 1, TotalPages(3, 0))
}

func TestDerivePaginates(t *testing.T) {
	all := many(10)
	r := Derive(all, Query{Page: 2, PageSize: 4})
	assert.Equal(t, 10, r.Total)
	assert.Equal(t, 3, r.TotalPages)
	assert.Equal(t, 2, r.Page)
	assert.Equal(t, []int{5, 6, 7, 8}, ids(r.Items))
	assert.True(t, r.HasPrev())
	assert.True(t, r.HasNext())

	last := Derive(all, Query{Page: 3, PageSize: 4})
	assert.Equal(t, []int{9, 10}, ids(last.Items))
	assert.False(t, last.HasNext())
}

func TestDeriveClampsPage(t *testing.T) {
	all := many(10)
	r := Derive(all, Query{Text: "", Status: models.InvoiceStatusPaid, Page: 3, PageSize: 2})
	// ids 3, 6, 9 are paid -> 2 pages
	require.Equal(t, 2, r.TotalPages)
	assert.Equal(t, 2, r.Page)
	assert.Equal(t, []int{9}, ids(r.Items))

	// clamping is idempotent
	again := Derive(all, Query{Status: models.InvoiceStatusPaid, Page: r.Page, PageSize: 2})
	assert.Equal(t, r.Page, again.Page)

	low := Derive(all, Query{Page: -5, PageSize: 4})
	assert.Equal(t, 1, low.Page)

	empty := Derive(nil, Query{Text: "x", Page: 7})
	assert.Equal(t, 1, empty.Page)
	assert.Equal(t, 1, empty.TotalPages)
	assert.Empty(t, empty.Items)
	assert.Equal(t, DefaultPageSize, empty.PageSize)
}

func TestDeriveProperties(t *testing.T) {
	all := many(23)
	for _, text := range []string{"", "1", "servicio 2", "0"} {
		for _, status := range []models.InvoiceStatus{"", models.InvoiceStatusPending, models.InvoiceStatusPaid} {
			for size := 1; size <= 6; size++ {
				for page := -1; page <= 25; page++ {
					r := Derive(all, Query{Text: text, Status: status, Page: page, PageSize: size})
					want := 0
					for _, inv := range all {
						if Matches(inv, text, status) {
							want++
						}
					}
					require.Equal(t, want, r.Total)
					require.Equal(t, TotalPages(want, size), r.TotalPages)
					require.GreaterOrEqual(t, r.Page, 1)
					require.LessOrEqual(t, r.Page, r.TotalPages)
					require.LessOrEqual(t, len(r.Items), size)
				}
			}
		}
	}
}

func TestQueryApply(t *testing.T) {
	q := Query{PageSize: 4, Page: 1}
	q = q.Apply("", "", 3)
	assert.Equal(t, 3, q.Page)

	q = q.Apply("luz", "", 3)
	assert.Equal(t, 1, q.Page, "text change resets page")

	q = q.Apply("luz", "", 2)
	assert.Equal(t, 2, q.Page)

	q = q.Apply("luz", models.InvoiceStatusPaid, 2)
	assert.Equal(t, 1, q.Page, "status change resets page")
	assert.Equal(t, models.InvoiceStatusPaid, q.Status)
}
