package db

import (
	"github.com/diewo77/go-facturas/internal/models"
	"github.com/shopspring/decimal"
)

// Fixtures returns a fresh copy of the sample invoices.
func Fixtures() []models.Invoice {
	return []models.Invoice{
		{ID: 1, CustomerID: "123", Service: "Agua", Period: "2025-12", Amount: decimal.RequireFromString("58.2"), Status: models.InvoiceStatusPending},
		{ID: 2, CustomerID: "123", Service: "Luz", Period: "2026-01", Amount: decimal.RequireFromString("120.5"), Status: models.InvoiceStatusPending},
		{ID: 3, CustomerID: "456", Service: "Internet", Period: "2025-11", Amount: decimal.NewFromInt(210), Status: models.InvoiceStatusPaid},
		{ID: 4, CustomerID: "456", Service: "Luz", Period: "2025-12", Amount: decimal.RequireFromString("98.3"), Status: models.InvoiceStatusPending},
	}
}
