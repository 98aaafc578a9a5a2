package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransferStatus represents the disposition state of a transfer
type TransferStatus string

const (
	TransferStatusPending  TransferStatus = "PENDING"
	TransferStatusApproved TransferStatus = "APPROVED"
	TransferStatusRejected TransferStatus = "REJECTED"
)

// Transfer represents one pending move of funds between two accounts.
// State machine:
//
//	PENDING --approve (funds ok)--> APPROVED
//	PENDING --approve (funds short)--> REJECTED
//	PENDING --reject--> REJECTED
//
// APPROVED and REJECTED are terminal. A PENDING transfer has not touched
// either account's balance or ledger.
type Transfer struct {
	ID         uuid.UUID
	Sender     string
	Recipient  string
	Amount     decimal.Decimal
	Status     TransferStatus
	CreatedAt  time.Time
	ResolvedAt *time.Time // nil while PENDING
}

// Resolved reports whether the transfer reached a terminal status
func (t *Transfer) Resolved() bool {
	return t.Status != TransferStatusPending
}

// Validate ensures the transfer adheres to domain rules
func (t *Transfer) Validate() error {
	if t.Sender == "" || t.Recipient == "" {
		return ErrAccountNotFound
	}
	if t.Sender == t.Recipient {
		return ErrSameAccount
	}
	if t.Amount.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidAmount
	}
	switch t.Status {
	case TransferStatusPending, TransferStatusApproved, TransferStatusRejected:
		return nil
	}
	return ErrInvalidTransferStatus
}
