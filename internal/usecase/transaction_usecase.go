package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/iho/gopay/internal/domain"
	"github.com/iho/gopay/internal/infrastructure/metrics"
)

// TransactionUseCase orchestrates the transaction lifecycle: creation
// with persist-then-publish, verdict reconciliation, and lookups.
type TransactionUseCase struct {
	repo      TransactionRepository
	antiFraud AntiFraudService
	idGen     IDGenerator
	cache     Cache
	cacheTTL  time.Duration
	logger    zerolog.Logger
	metrics   *metrics.Metrics
}

// NewTransactionUseCase creates a new TransactionUseCase. cache may be
// nil, in which case lookups always hit the repository; m may be nil.
func NewTransactionUseCase(
	repo TransactionRepository,
	antiFraud AntiFraudService,
	idGen IDGenerator,
	cache Cache,
	cacheTTL time.Duration,
	logger zerolog.Logger,
	m *metrics.Metrics,
) *TransactionUseCase {
	return &TransactionUseCase{
		repo:      repo,
		antiFraud: antiFraud,
		idGen:     idGen,
		cache:     cache,
		cacheTTL:  cacheTTL,
		logger:    logger,
		metrics:   m,
	}
}

// CreateTransactionInput represents input for creating a transaction.
type CreateTransactionInput struct {
	SourceAccountID string
	TargetAccountID string
	TransferType    int
	Value           decimal.Decimal
}

// CreateTransaction validates, persists, and submits a transaction for
// anti-fraud validation, in that order. Persistence happens before
// publication so the verdict consumer always finds the row.
//
// When submission fails the transaction stays durably Pending with no
// compensating rollback; the returned *domain.SubmissionError carries
// the persisted external id so callers can still reference it.
func (uc *TransactionUseCase) CreateTransaction(ctx context.Context, input CreateTransactionInput) (*domain.Transaction, error) {
	txn, err := domain.NewTransaction(
		uc.idGen.Generate(),
		input.SourceAccountID,
		input.TargetAccountID,
		input.TransferType,
		input.Value,
	)
	if err != nil {
		uc.countError("validation")
		return nil, err
	}

	if err := uc.repo.Save(ctx, txn); err != nil {
		uc.countError("persistence")
		return nil, err
	}

	if err := uc.antiFraud.Submit(ctx, txn); err != nil {
		uc.countError("submission")
		uc.logger.Error().Err(err).
			Str("transaction_id", txn.ExternalID).
			Msg("transaction persisted but anti-fraud submission failed")

		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.TransactionsCreated.Inc()
		uc.metrics.TransactionValue.Observe(txn.Value.InexactFloat64())
	}

	return txn, nil
}

func (uc *TransactionUseCase) countError(category string) {
	if uc.metrics != nil {
		uc.metrics.TransactionErrors.WithLabelValues(category).Inc()
	}
}

// ApplyVerdict reconciles an anti-fraud verdict into persisted state.
// A verdict for an unknown transaction is a logged no-op: the verdict
// may race ahead of replication or reference an id this store never
// absorbed, and neither case warrants a redelivery.
func (uc *TransactionUseCase) ApplyVerdict(ctx context.Context, verdict domain.Verdict) error {
	txn, err := uc.repo.GetByID(ctx, verdict.TransactionExternalID)
	if err != nil {
		if errors.Is(err, domain.ErrTransactionNotFound) {
			if uc.metrics != nil {
				uc.metrics.VerdictsUnknownTxn.Inc()
			}
			uc.logger.Warn().
				Str("transaction_id", verdict.TransactionExternalID).
				Msg("verdict for unknown transaction, skipping")

			return nil
		}

		return err
	}

	txn.MarkProcessed(verdict.Status, verdict.RejectionReason)

	if err := uc.repo.Update(ctx, txn); err != nil {
		return err
	}

	uc.invalidateCache(ctx, txn.ExternalID)

	uc.logger.Info().
		Str("transaction_id", txn.ExternalID).
		Str("status", txn.Status.String()).
		Msg("verdict applied")

	return nil
}

// GetTransaction retrieves a transaction by external id, reading
// through the cache when one is configured.
func (uc *TransactionUseCase) GetTransaction(ctx context.Context, externalID string) (*domain.Transaction, error) {
	if uc.cache != nil {
		if data, err := uc.cache.Get(ctx, externalID); err == nil {
			var txn domain.Transaction
			if err := json.Unmarshal(data, &txn); err == nil {
				return &txn, nil
			}
		}
	}

	txn, err := uc.repo.GetByID(ctx, externalID)
	if err != nil {
		return nil, err
	}

	uc.fillCache(ctx, txn)

	return txn, nil
}

func (uc *TransactionUseCase) fillCache(ctx context.Context, txn *domain.Transaction) {
	if uc.cache == nil {
		return
	}

	data, err := json.Marshal(txn)
	if err != nil {
		return
	}

	if err := uc.cache.Set(ctx, txn.ExternalID, data, uc.cacheTTL); err != nil {
		uc.logger.Debug().Err(err).Str("transaction_id", txn.ExternalID).Msg("cache set failed")
	}
}

func (uc *TransactionUseCase) invalidateCache(ctx context.Context, externalID string) {
	if uc.cache == nil {
		return
	}

	if err := uc.cache.Delete(ctx, externalID); err != nil {
		uc.logger.Debug().Err(err).Str("transaction_id", externalID).Msg("cache delete failed")
	}
}
