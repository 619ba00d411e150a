package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/etudesn/notacompta/internal/adapter/http/dto"
	"github.com/etudesn/notacompta/internal/domain"
)

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeError writes an error response.
func writeError(w http.ResponseWriter, status int, message, details string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(dto.ErrorResponse{
		Error:   message,
		Message: details,
	})
}

// writeDomainError maps a domain error to its HTTP status.
func writeDomainError(w http.ResponseWriter, err error, message string) {
	writeError(w, mapDomainError(err), message, err.Error())
}

// mapDomainError maps domain errors to HTTP status codes.
func mapDomainError(err error) int {
	switch {
	case errors.Is(err, domain.ErrAccountNotFound),
		errors.Is(err, domain.ErrEntryNotFound),
		errors.Is(err, domain.ErrJournalNotFound),
		errors.Is(err, domain.ErrInvoiceNotFound),
		errors.Is(err, domain.ErrSessionNotFound),
		errors.Is(err, domain.ErrStatementLineNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrEntryAlreadyValidated),
		errors.Is(err, domain.ErrInvoiceAlreadyPaid),
		errors.Is(err, domain.ErrSessionNotOpen),
		errors.Is(err, domain.ErrSessionGapNotZero),
		errors.Is(err, domain.ErrStatementLineMatched),
		errors.Is(err, domain.ErrAccountExists):
		return http.StatusConflict
	case errors.Is(err, domain.ErrEntryUnbalanced),
		errors.Is(err, domain.ErrEntryEmpty),
		errors.Is(err, domain.ErrAccountInactive),
		errors.Is(err, domain.ErrAccountSummary),
		errors.Is(err, domain.ErrInvalidClassCode),
		errors.Is(err, domain.ErrMontantInvalide),
		errors.Is(err, domain.ErrCapitalIncoherent),
		errors.Is(err, domain.ErrDureeInvalide),
		errors.Is(err, domain.ErrAnneeIncoherente),
		errors.Is(err, domain.ErrPaymentExceedsDue):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// parseDateQuery parses a YYYY-MM-DD query parameter.
func parseDateQuery(r *http.Request, key string) (time.Time, error) {
	return time.Parse("2006-01-02", r.URL.Query().Get(key))
}

// parsePeriodQuery parses the start/end query parameters of report routes.
func parsePeriodQuery(r *http.Request) (start, end time.Time, err error) {
	start, err = parseDateQuery(r, "start")
	if err != nil {
		return start, end, err
	}
	end, err = parseDateQuery(r, "end")
	return start, end, err
}
