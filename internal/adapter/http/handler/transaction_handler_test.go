package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/iho/gopay/internal/adapter/http/dto"
	"github.com/iho/gopay/internal/domain"
	"github.com/iho/gopay/internal/usecase"
)

type transactionServiceStub struct {
	createFn func(ctx context.Context, input usecase.CreateTransactionInput) (*domain.Transaction, error)
	getFn    func(ctx context.Context, externalID string) (*domain.Transaction, error)
}

func (s *transactionServiceStub) CreateTransaction(ctx context.Context, input usecase.CreateTransactionInput) (*domain.Transaction, error) {
	return s.createFn(ctx, input)
}

func (s *transactionServiceStub) GetTransaction(ctx context.Context, externalID string) (*domain.Transaction, error) {
	return s.getFn(ctx, externalID)
}

func pendingTransaction() *domain.Transaction {
	return &domain.Transaction{
		ExternalID:      "01JC0000000000000000000000",
		SourceAccountID: "acc-1",
		TargetAccountID: "acc-2",
		TransferType:    domain.TransferTypeImmediate,
		Value:           decimal.RequireFromString("150.75"),
		Status:          domain.StatusPending,
		CreatedAt:       time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestTransactionHandler_Create_Success(t *testing.T) {
	txn := pendingTransaction()
	var captured usecase.CreateTransactionInput

	h := NewTransactionHandler(&transactionServiceStub{
		createFn: func(ctx context.Context, input usecase.CreateTransactionInput) (*domain.Transaction, error) {
			captured = input
			return txn, nil
		},
	})

	body, _ := json.Marshal(dto.CreateTransactionRequest{
		SourceAccountID: "acc-1",
		TargetAccountID: "acc-2",
		TransferType:    1,
		Value:           decimal.RequireFromString("150.75"),
	})

	req := httptest.NewRequest(http.MethodPost, "/transactions", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	h.Create(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	if captured.SourceAccountID != "acc-1" || captured.TargetAccountID != "acc-2" {
		t.Fatalf("unexpected input: %+v", captured)
	}

	var resp dto.CreateTransactionResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if resp.TransactionExternalID != txn.ExternalID {
		t.Fatalf("expected external id %q, got %q", txn.ExternalID, resp.TransactionExternalID)
	}
}

func TestTransactionHandler_Create_InvalidBody(t *testing.T) {
	h := NewTransactionHandler(&transactionServiceStub{
		createFn: func(ctx context.Context, input usecase.CreateTransactionInput) (*domain.Transaction, error) {
			t.Fatal("use case must not be called for a malformed body")
			return nil, nil
		},
	})

	req := httptest.NewRequest(http.MethodPost, "/transactions", bytes.NewReader([]byte("{not json")))
	rec := httptest.NewRecorder()

	h.Create(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestTransactionHandler_Create_ErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{
			name:       "property validation",
			err:        domain.NewPropertyValidationError("value", "must be greater than zero"),
			wantStatus: http.StatusBadRequest,
			wantCode:   "validation_failed",
		},
		{
			name:       "business rule",
			err:        domain.NewBusinessRuleError("source and target accounts must differ"),
			wantStatus: http.StatusUnprocessableEntity,
			wantCode:   "business_rule_violation",
		},
		{
			name:       "submission failure",
			err:        domain.NewSubmissionError("txn-1", errors.New("broker down")),
			wantStatus: http.StatusInternalServerError,
			wantCode:   "submission_failed",
		},
		{
			name:       "persistence failure",
			err:        domain.NewPersistenceError("save", errors.New("connection refused")),
			wantStatus: http.StatusInternalServerError,
			wantCode:   "internal_error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewTransactionHandler(&transactionServiceStub{
				createFn: func(ctx context.Context, input usecase.CreateTransactionInput) (*domain.Transaction, error) {
					return nil, tt.err
				},
			})

			body, _ := json.Marshal(dto.CreateTransactionRequest{})
			req := httptest.NewRequest(http.MethodPost, "/transactions", bytes.NewReader(body))
			rec := httptest.NewRecorder()

			h.Create(rec, req)

			if rec.Code != tt.wantStatus {
				t.Fatalf("expected %d, got %d", tt.wantStatus, rec.Code)
			}

			var resp dto.ErrorResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("unmarshal response: %v", err)
			}
			if resp.Error != tt.wantCode {
				t.Fatalf("expected code %q, got %q", tt.wantCode, resp.Error)
			}
		})
	}
}

func getRequest(id string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/transactions/"+id, nil)
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", id)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func TestTransactionHandler_Get_Success(t *testing.T) {
	txn := pendingTransaction()
	processed := time.Date(2024, 5, 1, 12, 0, 1, 0, time.UTC)
	txn.Status = domain.StatusRejected
	txn.ProcessedAt = &processed
	txn.RejectionReason = "value limit exceeded"

	h := NewTransactionHandler(&transactionServiceStub{
		getFn: func(ctx context.Context, externalID string) (*domain.Transaction, error) {
			if externalID != txn.ExternalID {
				t.Fatalf("unexpected id: %s", externalID)
			}
			return txn, nil
		},
	})

	rec := httptest.NewRecorder()
	h.Get(rec, getRequest(txn.ExternalID))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp dto.TransactionResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if resp.Status != "rejected" {
		t.Fatalf("expected status rejected, got %q", resp.Status)
	}
	if resp.RejectionReason != "value limit exceeded" {
		t.Fatalf("unexpected rejection reason: %q", resp.RejectionReason)
	}
}

func TestTransactionHandler_Get_NotFound(t *testing.T) {
	h := NewTransactionHandler(&transactionServiceStub{
		getFn: func(ctx context.Context, externalID string) (*domain.Transaction, error) {
			return nil, domain.ErrTransactionNotFound
		},
	})

	rec := httptest.NewRecorder()
	h.Get(rec, getRequest("missing"))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}
