package handler

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/etudesn/notacompta/internal/domain"
)

func mustDecimal(t *testing.T, s string) decimal.Decimal {
	t.Helper()

	d, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("invalid decimal %q: %v", s, err)
	}
	return d
}

func TestMapDomainError(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{domain.ErrAccountNotFound, http.StatusNotFound},
		{domain.ErrEntryNotFound, http.StatusNotFound},
		{domain.ErrSessionNotFound, http.StatusNotFound},
		{domain.ErrEntryUnbalanced, http.StatusBadRequest},
		{domain.ErrMontantInvalide, http.StatusBadRequest},
		{domain.ErrPaymentExceedsDue, http.StatusBadRequest},
		{domain.ErrEntryAlreadyValidated, http.StatusConflict},
		{domain.ErrSessionGapNotZero, http.StatusConflict},
		{domain.ErrStatementLineMatched, http.StatusConflict},
		{fmt.Errorf("wrapped: %w", domain.ErrEntryUnbalanced), http.StatusBadRequest},
		{fmt.Errorf("boom"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		if got := mapDomainError(tc.err); got != tc.want {
			t.Errorf("mapDomainError(%v) = %d, want %d", tc.err, got, tc.want)
		}
	}
}
