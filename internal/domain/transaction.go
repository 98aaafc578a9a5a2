package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionType represents the kind of ledger entry
type TransactionType string

const (
	TransactionTypeDeposit     TransactionType = "DEPOSIT"
	TransactionTypeWithdraw    TransactionType = "WITHDRAW"
	TransactionTypeTransferIn  TransactionType = "TRANSFER_IN"
	TransactionTypeTransferOut TransactionType = "TRANSFER_OUT"
)

// Transaction is one immutable ledger entry for a single account.
// The type carries the sign; Amount is always the absolute value.
// Views project display strings from this record, never the reverse.
type Transaction struct {
	ID          uuid.UUID
	AccountNo   string
	Type        TransactionType
	Amount      decimal.Decimal // ABSOLUTE VALUE (Always Positive)
	Timestamp   time.Time
	Description string
}

// Delta returns the signed balance effect of the entry.
// Invariant: the sum of an account's deltas equals its balance.
func (t *Transaction) Delta() decimal.Decimal {
	switch t.Type {
	case TransactionTypeDeposit, TransactionTypeTransferIn:
		return t.Amount
	default:
		return t.Amount.Neg()
	}
}

// Validate ensures the ledger entry adheres to domain rules
func (t *Transaction) Validate() error {
	if t.AccountNo == "" {
		return ErrAccountNotFound
	}
	if t.Amount.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidAmount
	}
	switch t.Type {
	case TransactionTypeDeposit, TransactionTypeWithdraw,
		TransactionTypeTransferIn, TransactionTypeTransferOut:
		return nil
	}
	return ErrInvalidTransactionType
}
