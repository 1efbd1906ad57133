package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/gopay/internal/adapter/http/dto"
	"github.com/iho/gopay/internal/domain"
	"github.com/iho/gopay/internal/usecase"
)

// TransactionService is the use case surface the handler depends on.
type TransactionService interface {
	CreateTransaction(ctx context.Context, input usecase.CreateTransactionInput) (*domain.Transaction, error)
	GetTransaction(ctx context.Context, externalID string) (*domain.Transaction, error)
}

// TransactionHandler handles transaction-related HTTP requests.
type TransactionHandler struct {
	transactionUC TransactionService
}

// NewTransactionHandler creates a new TransactionHandler.
func NewTransactionHandler(transactionUC TransactionService) *TransactionHandler {
	return &TransactionHandler{transactionUC: transactionUC}
}

// Create accepts a new transaction. A 201 means the transaction is
// persisted and queued for anti-fraud validation; the verdict is not
// known yet.
func (h *TransactionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request_body", err.Error())
		return
	}

	txn, err := h.transactionUC.CreateTransaction(r.Context(), req.ToUseCaseInput())
	if err != nil {
		status, code := mapDomainError(err)
		writeError(w, status, code, err.Error())

		return
	}

	writeJSON(w, http.StatusCreated, dto.CreateTransactionResponse{
		TransactionExternalID: txn.ExternalID,
		CreatedAt:             txn.CreatedAt,
	})
}

// Get retrieves a transaction by external ID.
func (h *TransactionHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing_transaction_id", "")
		return
	}

	txn, err := h.transactionUC.GetTransaction(r.Context(), id)
	if err != nil {
		status, code := mapDomainError(err)
		writeError(w, status, code, err.Error())

		return
	}

	writeJSON(w, http.StatusOK, dto.TransactionFromDomain(txn))
}
