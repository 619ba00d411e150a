package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestInvoiceApplyPayment(t *testing.T) {
	t.Parallel()

	now := time.Now()

	t.Run("partial payment", func(t *testing.T) {
		inv := &Invoice{TotalTTC: decimal.NewFromInt(1_000_000), Status: InvoiceStatusSent}
		inv.ApplyPayment(decimal.NewFromInt(400_000), now)

		if inv.Status != InvoiceStatusPartiallyPaid {
			t.Errorf("expected PARTIALLY_PAID, got %s", inv.Status)
		}
		if !inv.RemainingAmount.Equal(decimal.NewFromInt(600_000)) {
			t.Errorf("expected remaining 600000, got %s", inv.RemainingAmount)
		}
	})

	t.Run("final payment settles the invoice", func(t *testing.T) {
		inv := &Invoice{TotalTTC: decimal.NewFromInt(1_000_000), Status: InvoiceStatusSent}
		inv.ApplyPayment(decimal.NewFromInt(400_000), now)
		inv.ApplyPayment(decimal.NewFromInt(600_000), now)

		if inv.Status != InvoiceStatusPaid {
			t.Errorf("expected PAID, got %s", inv.Status)
		}
		if !inv.RemainingAmount.IsZero() {
			t.Errorf("expected zero remaining, got %s", inv.RemainingAmount)
		}
	})
}

func TestAccountHelpers(t *testing.T) {
	t.Parallel()

	summary := &Account{Code: "411", IsSummary: true, IsActive: true}
	if summary.IsImputable() {
		t.Error("summary account must not be imputable")
	}

	inactive := &Account{Code: "6055", IsActive: false}
	if inactive.IsImputable() {
		t.Error("inactive account must not be imputable")
	}

	client := &Account{Code: "411.0001", IsActive: true}
	if !client.IsImputable() {
		t.Error("active detail account must be imputable")
	}
	if !client.IsClientAccount() {
		t.Error("411.0001 is a client sub-account")
	}
	if summary.IsClientAccount() {
		t.Error("411 itself is not a client sub-account")
	}
}
