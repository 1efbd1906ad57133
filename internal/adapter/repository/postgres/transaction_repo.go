package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/iho/gopay/internal/domain"
)

// TransactionRepository implements usecase.TransactionRepository over
// a pgx pool. One row per transaction, keyed by external_id; enums are
// stored as their integer codes.
type TransactionRepository struct {
	pool    *pgxpool.Pool
	retrier *Retrier
}

// NewTransactionRepository creates a new TransactionRepository. A nil
// retrier disables deadlock retries.
func NewTransactionRepository(pool *pgxpool.Pool, retrier *Retrier) *TransactionRepository {
	return &TransactionRepository{pool: pool, retrier: retrier}
}

const insertTransactionSQL = `
INSERT INTO transactions (
	external_id, source_account_id, target_account_id,
	transfer_type, value, status,
	created_at, processed_at, rejection_reason, retry_count
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

// Save persists a brand-new transaction.
func (r *TransactionRepository) Save(ctx context.Context, txn *domain.Transaction) error {
	_, err := r.pool.Exec(ctx, insertTransactionSQL,
		txn.ExternalID,
		txn.SourceAccountID,
		txn.TargetAccountID,
		int(txn.TransferType),
		txn.Value.String(),
		int(txn.Status),
		txn.CreatedAt,
		txn.ProcessedAt,
		txn.RejectionReason,
		txn.RetryCount,
	)
	if err != nil {
		return domain.NewPersistenceError("save", err)
	}

	return nil
}

const selectTransactionSQL = `
SELECT external_id, source_account_id, target_account_id,
	transfer_type, value::text, status,
	created_at, processed_at, rejection_reason, retry_count
FROM transactions
WHERE external_id = $1`

// GetByID retrieves a transaction by external id. A missing row is
// domain.ErrTransactionNotFound, not a persistence fault.
func (r *TransactionRepository) GetByID(ctx context.Context, externalID string) (*domain.Transaction, error) {
	row := r.pool.QueryRow(ctx, selectTransactionSQL, externalID)

	txn, err := scanTransaction(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTransactionNotFound
		}

		return nil, domain.NewPersistenceError("get", err)
	}

	return txn, nil
}

const updateTransactionSQL = `
UPDATE transactions
SET status = $2,
	processed_at = $3,
	rejection_reason = $4,
	retry_count = $5
WHERE external_id = $1`

// Update persists the full mutable state of the transaction. Immutable
// fields are never rewritten. Last writer wins.
func (r *TransactionRepository) Update(ctx context.Context, txn *domain.Transaction) error {
	update := func() error {
		_, err := r.pool.Exec(ctx, updateTransactionSQL,
			txn.ExternalID,
			int(txn.Status),
			txn.ProcessedAt,
			txn.RejectionReason,
			txn.RetryCount,
		)
		return err
	}

	var err error
	if r.retrier != nil {
		err = r.retrier.Retry(ctx, update)
	} else {
		err = update()
	}
	if err != nil {
		return domain.NewPersistenceError("update", err)
	}

	return nil
}

func scanTransaction(row pgx.Row) (*domain.Transaction, error) {
	var (
		txn          domain.Transaction
		transferType int
		value        string
		status       int
		processedAt  *time.Time
	)

	err := row.Scan(
		&txn.ExternalID,
		&txn.SourceAccountID,
		&txn.TargetAccountID,
		&transferType,
		&value,
		&status,
		&txn.CreatedAt,
		&processedAt,
		&txn.RejectionReason,
		&txn.RetryCount,
	)
	if err != nil {
		return nil, err
	}

	amount, err := decimal.NewFromString(value)
	if err != nil {
		return nil, err
	}

	txn.TransferType = domain.TransferType(transferType)
	txn.Value = amount
	txn.Status = domain.Status(status)
	txn.ProcessedAt = processedAt

	return &txn, nil
}
