package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransferType is the closed set of supported transfer kinds.
// Values are wire/storage codes and must not be renumbered.
type TransferType int

const (
	TransferTypeImmediate TransferType = 1
	TransferTypeScheduled TransferType = 2
	TransferTypeExternal  TransferType = 3
)

// IsValid reports whether t is a defined transfer type.
func (t TransferType) IsValid() bool {
	switch t {
	case TransferTypeImmediate, TransferTypeScheduled, TransferTypeExternal:
		return true
	}
	return false
}

// Status is the lifecycle state of a transaction.
// Values are wire/storage codes and must not be renumbered.
type Status int

const (
	StatusPending  Status = 1
	StatusApproved Status = 2
	StatusRejected Status = 3
)

func (s Status) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusApproved:
		return "approved"
	case StatusRejected:
		return "rejected"
	}
	return "unknown"
}

// MaxRejectionReasonLength bounds the stored rejection reason.
const MaxRejectionReasonLength = 255

// Transaction is the aggregate root for a bank transaction awaiting
// anti-fraud validation. It is created only through NewTransaction and
// mutated only through MarkProcessed; every other field is write-once.
type Transaction struct {
	ExternalID      string          `json:"TransactionExternalId"`
	SourceAccountID string          `json:"SourceAccountId"`
	TargetAccountID string          `json:"TargetAccountId"`
	TransferType    TransferType    `json:"TransferType"`
	Value           decimal.Decimal `json:"Value"`
	Status          Status          `json:"Status"`
	CreatedAt       time.Time       `json:"CreatedAt"`
	ProcessedAt     *time.Time      `json:"ProcessedAt"`
	RejectionReason string          `json:"RejectionReason"`
	RetryCount      int             `json:"RetryCount"`
}

// NewTransaction validates the inputs and builds a Pending transaction.
// Field-level checks run first, in a fixed order, and fail with
// *PropertyValidationError; the source/target relationship is checked
// last and fails with *BusinessRuleError. externalID comes from the
// caller so that ID generation stays an infrastructure concern.
func NewTransaction(externalID, sourceAccountID, targetAccountID string, transferType int, value decimal.Decimal) (*Transaction, error) {
	if !TransferType(transferType).IsValid() {
		return nil, NewPropertyValidationError("transferType", "unrecognized transfer type")
	}

	if sourceAccountID == "" {
		return nil, NewPropertyValidationError("sourceAccountId", "account id cannot be empty")
	}

	if targetAccountID == "" {
		return nil, NewPropertyValidationError("targetAccountId", "account id cannot be empty")
	}

	if value.LessThanOrEqual(decimal.Zero) {
		return nil, NewPropertyValidationError("value", "value must be positive")
	}

	if sourceAccountID == targetAccountID {
		return nil, NewBusinessRuleError("cannot transfer between the same account")
	}

	return &Transaction{
		ExternalID:      externalID,
		SourceAccountID: sourceAccountID,
		TargetAccountID: targetAccountID,
		TransferType:    TransferType(transferType),
		Value:           value,
		Status:          StatusPending,
		CreatedAt:       time.Now().UTC(),
		RetryCount:      0,
	}, nil
}

// MarkProcessed applies an anti-fraud verdict. It overwrites the status
// unconditionally; re-applying the same verdict leaves Status and
// RejectionReason unchanged and only advances ProcessedAt, which makes
// redelivered verdict messages safe.
func (t *Transaction) MarkProcessed(status Status, rejectionReason string) {
	// Truncate by runes, not bytes: a byte slice can cut a multibyte
	// character in half and produce invalid UTF-8 the database rejects.
	if runes := []rune(rejectionReason); len(runes) > MaxRejectionReasonLength {
		rejectionReason = string(runes[:MaxRejectionReasonLength])
	}

	now := time.Now().UTC()
	t.Status = status
	t.ProcessedAt = &now
	t.RejectionReason = rejectionReason
}

// Verdict is the anti-fraud decision arriving on the status topic.
type Verdict struct {
	TransactionExternalID string `json:"TransactionExternalId"`
	Status                Status `json:"Status"`
	RejectionReason       string `json:"RejectionReason"`
}
