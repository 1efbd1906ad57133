package usecase

import (
	"context"
	"time"

	"github.com/iho/gopay/internal/domain"
)

// TransactionRepository defines data access for transactions.
type TransactionRepository interface {
	// Save persists a brand-new transaction. Storage faults surface as
	// *domain.PersistenceError.
	Save(ctx context.Context, txn *domain.Transaction) error
	// GetByID returns domain.ErrTransactionNotFound for a legitimate
	// absence; it never wraps that case in a PersistenceError.
	GetByID(ctx context.Context, externalID string) (*domain.Transaction, error)
	// Update persists the full current state of a transaction
	// previously obtained via GetByID. Last writer wins.
	Update(ctx context.Context, txn *domain.Transaction) error
}

// AntiFraudService submits a transaction for asynchronous anti-fraud
// validation. Failures surface as *domain.SubmissionError.
type AntiFraudService interface {
	Submit(ctx context.Context, txn *domain.Transaction) error
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// Cache defines caching operations.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}
