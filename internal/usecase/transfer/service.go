package transfer

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/snibank/snibank-backend/internal/domain"
)

// SubmitTransferInput represents the input for submitting a transfer
type SubmitTransferInput struct {
	Sender    string
	Recipient string
	Amount    decimal.Decimal
}

// TransferService handles the transfer disposition workflow
type TransferService struct {
	AccountRepo  domain.AccountRepository
	TransferRepo domain.TransferRepository
}

// NewTransferService creates a new TransferService instance
func NewTransferService(accountRepo domain.AccountRepository, transferRepo domain.TransferRepository) *TransferService {
	return &TransferService{
		AccountRepo:  accountRepo,
		TransferRepo: transferRepo,
	}
}

// Submit creates a PENDING transfer visible to the admin disposition queue.
// Logic:
//  1. Validate amount and that sender differs from recipient
//  2. Resolve both accounts (either missing fails the submission)
//  3. Check the sender's current balance covers the amount
//  4. Persist the transfer; no balance or ledger is touched yet
//
// Funds are re-validated again at approval time, not reserved here.
func (s *TransferService) Submit(ctx context.Context, input SubmitTransferInput) (*domain.Transfer, error) {
	// Validate input before any repository call so that a bad request
	// never creates a transfer record
	if input.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, domain.ErrInvalidAmount
	}
	if input.Sender == input.Recipient {
		return nil, domain.ErrSameAccount
	}

	// 2. Resolve both accounts
	sender, err := s.AccountRepo.GetByAccNo(ctx, input.Sender)
	if err != nil {
		return nil, err
	}
	if _, err := s.AccountRepo.GetByAccNo(ctx, input.Recipient); err != nil {
		return nil, err
	}

	// 3. The sender's available balance must cover the amount at
	// submission time
	if input.Amount.GreaterThan(sender.Balance) {
		return nil, domain.ErrInsufficientFunds
	}

	// 4. Persist as PENDING
	transfer := &domain.Transfer{
		ID:        uuid.New(),
		Sender:    input.Sender,
		Recipient: input.Recipient,
		Amount:    input.Amount,
		Status:    domain.TransferStatusPending,
		CreatedAt: time.Now(),
	}

	if err := transfer.Validate(); err != nil {
		return nil, err
	}

	if err := s.TransferRepo.Create(ctx, transfer); err != nil {
		return nil, err
	}

	return transfer, nil
}

// ListPending returns all PENDING transfers ordered by creation time ascending
func (s *TransferService) ListPending(ctx context.Context) ([]*domain.Transfer, error) {
	return s.TransferRepo.ListPending(ctx)
}

// Approve resolves a PENDING transfer as APPROVED. The repository performs
// re-validation, fund movement, ledger writes and the status flip as one
// atomic unit; a transfer whose sender can no longer cover the amount comes
// back REJECTED with ErrInsufficientFundsAtApproval. Approving an already
// resolved transfer is a no-op that reports the existing terminal status
// via ErrAlreadyResolved.
func (s *TransferService) Approve(ctx context.Context, id uuid.UUID) (*domain.Transfer, error) {
	return s.TransferRepo.Resolve(ctx, id, domain.TransferStatusApproved)
}

// Reject resolves a PENDING transfer as REJECTED without touching any
// balance or ledger. Rejecting an already-REJECTED transfer reports success
// without side effect; rejecting an APPROVED transfer fails with
// ErrAlreadyResolved.
func (s *TransferService) Reject(ctx context.Context, id uuid.UUID) (*domain.Transfer, error) {
	transfer, err := s.TransferRepo.Resolve(ctx, id, domain.TransferStatusRejected)
	if errors.Is(err, domain.ErrAlreadyResolved) &&
		transfer != nil && transfer.Status == domain.TransferStatusRejected {
		return transfer, nil
	}
	return transfer, err
}
