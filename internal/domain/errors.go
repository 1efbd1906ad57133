package domain

import (
	"errors"
	"fmt"
)

// ErrTransactionNotFound marks a legitimate absence; it is not a
// storage fault.
var ErrTransactionNotFound = errors.New("transaction not found")

// PropertyValidationError reports a single field failing its own
// shape or range check.
type PropertyValidationError struct {
	Field  string
	Reason string
}

func NewPropertyValidationError(field, reason string) *PropertyValidationError {
	return &PropertyValidationError{Field: field, Reason: reason}
}

func (e *PropertyValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// BusinessRuleError reports a cross-field invariant violation between
// otherwise-valid fields.
type BusinessRuleError struct {
	Reason string
}

func NewBusinessRuleError(reason string) *BusinessRuleError {
	return &BusinessRuleError{Reason: reason}
}

func (e *BusinessRuleError) Error() string {
	return "business rule violated: " + e.Reason
}

// SubmissionError reports that the broker rejected, or failed to
// durably acknowledge, a validation request. The transaction has
// already been persisted as Pending when this error surfaces, so the
// id is carried for the caller.
type SubmissionError struct {
	TransactionExternalID string
	Err                   error
}

func NewSubmissionError(transactionExternalID string, err error) *SubmissionError {
	return &SubmissionError{TransactionExternalID: transactionExternalID, Err: err}
}

func (e *SubmissionError) Error() string {
	return fmt.Sprintf("anti-fraud submission failed for transaction %s: %v", e.TransactionExternalID, e.Err)
}

func (e *SubmissionError) Unwrap() error {
	return e.Err
}

// PersistenceError reports a storage-layer fault. It is fatal to the
// enclosing operation and never retried by the core.
type PersistenceError struct {
	Op  string
	Err error
}

func NewPersistenceError(op string, err error) *PersistenceError {
	return &PersistenceError{Op: op, Err: err}
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence %s failed: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}
