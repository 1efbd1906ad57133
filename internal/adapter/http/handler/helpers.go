package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/iho/gopay/internal/adapter/http/dto"
	"github.com/iho/gopay/internal/domain"
)

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeError writes an error response.
func writeError(w http.ResponseWriter, status int, code, details string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(dto.ErrorResponse{
		Error:   code,
		Message: details,
	})
}

// mapDomainError maps domain errors to an HTTP status and a stable
// machine-readable error code. Per-field validation is a malformed
// request (400); the same-account rule is a well-formed request the
// business rejects (422).
func mapDomainError(err error) (int, string) {
	var (
		validationErr *domain.PropertyValidationError
		ruleErr       *domain.BusinessRuleError
		submissionErr *domain.SubmissionError
	)

	switch {
	case errors.As(err, &validationErr):
		return http.StatusBadRequest, "validation_failed"
	case errors.As(err, &ruleErr):
		return http.StatusUnprocessableEntity, "business_rule_violation"
	case errors.Is(err, domain.ErrTransactionNotFound):
		return http.StatusNotFound, "transaction_not_found"
	case errors.As(err, &submissionErr):
		return http.StatusInternalServerError, "submission_failed"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}
