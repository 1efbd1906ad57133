package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/gopay/internal/domain"
)

// CreateTransactionResponse is the acknowledgement for a newly accepted
// transaction. Only the external id and creation time are returned; the
// verdict arrives asynchronously and is observed via GET.
type CreateTransactionResponse struct {
	TransactionExternalID string    `json:"transaction_external_id"`
	CreatedAt             time.Time `json:"created_at"`
}

// TransactionResponse represents a transaction in API responses.
type TransactionResponse struct {
	TransactionExternalID string          `json:"transaction_external_id"`
	SourceAccountID       string          `json:"source_account_id"`
	TargetAccountID       string          `json:"target_account_id"`
	TransferType          int             `json:"transfer_type"`
	Value                 decimal.Decimal `json:"value"`
	Status                string          `json:"status"`
	CreatedAt             time.Time       `json:"created_at"`
	ProcessedAt           *time.Time      `json:"processed_at,omitempty"`
	RejectionReason       string          `json:"rejection_reason,omitempty"`
}

// TransactionFromDomain converts a domain transaction to a response.
func TransactionFromDomain(t *domain.Transaction) *TransactionResponse {
	return &TransactionResponse{
		TransactionExternalID: t.ExternalID,
		SourceAccountID:       t.SourceAccountID,
		TargetAccountID:       t.TargetAccountID,
		TransferType:          int(t.TransferType),
		Value:                 t.Value,
		Status:                t.Status.String(),
		CreatedAt:             t.CreatedAt,
		ProcessedAt:           t.ProcessedAt,
		RejectionReason:       t.RejectionReason,
	}
}

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
