package models

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestParseInvoiceStatus(t *testing.T) {
	tests := []struct {
		raw  string
		want InvoiceStatus
		ok   bool
	}{
		{"", "", true},
		{"PENDIENTE", InvoiceStatusPending, true},
		{"pagado", InvoiceStatusPaid, true},
		{" Pagado ", InvoiceStatusPaid, true},
		{"ANULADO", "", false},
	}
	for _, tt := range tests {
		got, ok := ParseInvoiceStatus(tt.raw)
		if got != tt.want || ok != tt.ok {
			t.Errorf("ParseInvoiceStatus(%q) = %q,%v want %q,%v", tt.raw, got, ok, tt.want, tt.ok)
		}
	}
}

func TestInvoice_Status(t *testing.T) {
	tests := []struct {
		name      string
		status    InvoiceStatus
		isPending bool
		isPaid    bool
	}{
		{"pending", InvoiceStatusPending, true, false},
		{"paid", InvoiceStatusPaid, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inv := &Invoice{Status: tt.status}
			if got := inv.IsPending(); got != tt.isPending {
				t.Errorf("IsPending() = %v, want %v", got, tt.isPending)
			}
			if got := inv.IsPaid(); got != tt.isPaid {
				t.Errorf("IsPaid() = %v, want %v", got, tt.isPaid)
			}
		})
	}
}

func TestInvoice_MarkPaid(t *testing.T) {
	at := time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC)
	inv := &Invoice{ID: 1, Status: InvoiceStatusPending}
	if err := inv.MarkPaid(at); err != nil {
		t.Fatalf("MarkPaid() error = %v", err)
	}
	if !inv.IsPaid() || inv.PaidDate == nil || !inv.PaidDate.Equal(at) {
		t.Fatalf("unexpected invoice after payment: %+v", inv)
	}
	if err := inv.MarkPaid(at.Add(time.Hour)); !errors.Is(err, ErrAlreadyPaid) {
		t.Fatalf("second MarkPaid() error = %v, want ErrAlreadyPaid", err)
	}
	if !inv.PaidDate.Equal(at) {
		t.Errorf("paid date changed on rejected payment")
	}
}

func TestInvoice_TransactionNumber(t *testing.T) {
	inv := &Invoice{ID: 3, Period: "2025-11"}
	if got := inv.TransactionNumber(); got != "SIM-3-202511" {
		t.Errorf("TransactionNumber() = %q, want SIM-3-202511", got)
	}
}

func TestInvoice_Validate(t *testing.T) {
	ok := Invoice{ID: 1, CustomerID: "123", Service: "Agua", Period: "2025-12", Amount: decimal.RequireFromString("58.2"), Status: InvoiceStatusPending}
	if v := ok.Validate(); !v.Empty() {
		t.Fatalf("expected valid invoice, got %#v", v)
	}

	bad := Invoice{CustomerID: "1", Period: "12-2025", Amount: decimal.NewFromInt(-1), Status: "ANULADO"}
	v := bad.Validate()
	for _, field := range []string{"customer_id", "service", "period", "amount", "status"} {
		if _, found := v[field]; !found {
			t.Errorf("expected violation on %s, got %#v", field, v)
		}
	}
}
