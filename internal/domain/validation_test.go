package domain

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func TestValidateMontants(t *testing.T) {
	t.Parallel()

	if err := ValidateMontantPositif("capital", decimal.NewFromInt(1)); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if err := ValidateMontantPositif("capital", decimal.Zero); !errors.Is(err, ErrMontantInvalide) {
		t.Fatalf("expected ErrMontantInvalide for zero, got %v", err)
	}
	if err := ValidateMontantPositifOuNul("travaux", decimal.Zero); err != nil {
		t.Fatalf("expected zero to pass, got %v", err)
	}
	if err := ValidateMontantPositifOuNul("travaux", decimal.NewFromInt(-1)); !errors.Is(err, ErrMontantInvalide) {
		t.Fatalf("expected ErrMontantInvalide for negative, got %v", err)
	}
}

func TestValidateAccountCode(t *testing.T) {
	t.Parallel()

	valid := []string{"4", "411", "7061", "411.0001", "521", "10000000"}
	for _, code := range valid {
		if err := ValidateAccountCode(code); err != nil {
			t.Errorf("expected %q to be valid, got %v", code, err)
		}
	}

	invalid := []string{"", "0411", "41a", "411.", ".0001", "411.0000001", "411-0001"}
	for _, code := range invalid {
		if err := ValidateAccountCode(code); err == nil {
			t.Errorf("expected %q to be rejected", code)
		}
	}
}

func TestValidateTranches(t *testing.T) {
	t.Parallel()

	mk := func(min, max int64, rate string) Tranche {
		m := decimal.NewFromInt(max)
		return Tranche{Min: decimal.NewFromInt(min), Max: &m, Taux: decimal.RequireFromString(rate)}
	}
	open := func(min int64, rate string) Tranche {
		return Tranche{Min: decimal.NewFromInt(min), Taux: decimal.RequireFromString(rate)}
	}

	t.Run("contiguous schedule", func(t *testing.T) {
		err := ValidateTranches([]Tranche{mk(0, 100, "0.04"), mk(100, 200, "0.03"), open(200, "0.01")})
		if err != nil {
			t.Fatalf("expected valid schedule, got %v", err)
		}
	})

	t.Run("empty schedule rejected", func(t *testing.T) {
		if err := ValidateTranches(nil); err == nil {
			t.Fatal("expected error")
		}
	})

	t.Run("schedule must start at zero", func(t *testing.T) {
		if err := ValidateTranches([]Tranche{open(10, "0.01")}); err == nil {
			t.Fatal("expected error")
		}
	})

	t.Run("gap between tranches rejected", func(t *testing.T) {
		if err := ValidateTranches([]Tranche{mk(0, 100, "0.04"), open(150, "0.01")}); err == nil {
			t.Fatal("expected error")
		}
	})

	t.Run("open tranche must be last", func(t *testing.T) {
		if err := ValidateTranches([]Tranche{open(0, "0.04"), open(100, "0.01")}); err == nil {
			t.Fatal("expected error")
		}
	})

	t.Run("inverted bounds rejected", func(t *testing.T) {
		if err := ValidateTranches([]Tranche{mk(0, 0, "0.04")}); err == nil {
			t.Fatal("expected error")
		}
	})
}
