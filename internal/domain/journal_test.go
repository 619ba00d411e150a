package domain

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func line(account string, debit, credit int64) AccountEntry {
	return AccountEntry{
		AccountCode: account,
		Debit:       decimal.NewFromInt(debit),
		Credit:      decimal.NewFromInt(credit),
	}
}

func TestJournalEntryValidate(t *testing.T) {
	t.Parallel()

	t.Run("balanced entry", func(t *testing.T) {
		e := &JournalEntry{Entries: []AccountEntry{
			line("411.0001", 1_180_000, 0),
			line("7061", 0, 1_000_000),
			line("443", 0, 180_000),
		}}
		if err := e.Validate(); err != nil {
			t.Fatalf("expected valid entry, got %v", err)
		}
	})

	t.Run("unbalanced entry rejected", func(t *testing.T) {
		e := &JournalEntry{Entries: []AccountEntry{
			line("411.0001", 1_000_000, 0),
			line("7061", 0, 999_000),
		}}
		if err := e.Validate(); !errors.Is(err, ErrEntryUnbalanced) {
			t.Fatalf("expected ErrEntryUnbalanced, got %v", err)
		}
	})

	t.Run("difference within tolerance accepted", func(t *testing.T) {
		e := &JournalEntry{Entries: []AccountEntry{
			{AccountCode: "411.0001", Debit: decimal.RequireFromString("100.01")},
			{AccountCode: "7061", Credit: decimal.RequireFromString("100.00")},
		}}
		if err := e.Validate(); err != nil {
			t.Fatalf("expected tolerance to absorb one cent, got %v", err)
		}
	})

	t.Run("empty entry rejected", func(t *testing.T) {
		e := &JournalEntry{Entries: []AccountEntry{line("411.0001", 0, 0)}}
		if err := e.Validate(); !errors.Is(err, ErrEntryEmpty) {
			t.Fatalf("expected ErrEntryEmpty, got %v", err)
		}
	})
}

func TestJournalEntryHelpers(t *testing.T) {
	t.Parallel()

	e := &JournalEntry{Entries: []AccountEntry{
		line("521", 500_000, 0),
		line("411.0001", 0, 500_000),
	}}

	if !e.TouchesAccount("521") {
		t.Error("expected entry to touch 521")
	}
	if e.TouchesAccount("57") {
		t.Error("did not expect entry to touch 57")
	}

	if e.IsReconciled() {
		t.Error("entry without metadata must not be reconciled")
	}
	e.Metadata = map[string]any{MetaReconciled: true}
	if !e.IsReconciled() {
		t.Error("expected reconciled entry")
	}
}

func TestJournalByCode(t *testing.T) {
	t.Parallel()

	j, err := JournalByCode(JournalVentes)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if j.Code != "VT" {
		t.Errorf("expected VT, got %s", j.Code)
	}

	if _, err := JournalByCode("XX"); !errors.Is(err, ErrJournalNotFound) {
		t.Fatalf("expected ErrJournalNotFound, got %v", err)
	}
}
