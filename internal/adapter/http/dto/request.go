package dto

import (
	"github.com/shopspring/decimal"

	"github.com/iho/gopay/internal/usecase"
)

// CreateTransactionRequest represents a request to create a transaction.
type CreateTransactionRequest struct {
	SourceAccountID string          `json:"source_account_id"`
	TargetAccountID string          `json:"target_account_id"`
	TransferType    int             `json:"transfer_type"`
	Value           decimal.Decimal `json:"value"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateTransactionRequest) ToUseCaseInput() usecase.CreateTransactionInput {
	return usecase.CreateTransactionInput{
		SourceAccountID: r.SourceAccountID,
		TargetAccountID: r.TargetAccountID,
		TransferType:    r.TransferType,
		Value:           r.Value,
	}
}
