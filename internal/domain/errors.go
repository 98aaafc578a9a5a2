// Package domain errors. These are business-level failures, not system
// errors; the HTTP adapter maps them to status codes and the uniform
// {success:false, message} envelope.
package domain

import "errors"

var (
	// ErrAccountNotFound indicates that no account exists for the number.
	ErrAccountNotFound = errors.New("account not found")
	// ErrSameAccount indicates a transfer where sender equals recipient.
	ErrSameAccount = errors.New("sender and recipient must be different accounts")
	// ErrInvalidAmount indicates a non-positive amount.
	ErrInvalidAmount = errors.New("amount must be positive")
	// ErrInsufficientFunds indicates the balance does not cover the amount.
	ErrInsufficientFunds = errors.New("insufficient balance")
	// ErrInsufficientFundsAtApproval indicates the sender balance dropped
	// below the transfer amount between submission and approval. The
	// transfer has been auto-rejected.
	ErrInsufficientFundsAtApproval = errors.New("insufficient balance at approval, transfer rejected")
	// ErrTransferNotFound indicates that no transfer exists for the id.
	ErrTransferNotFound = errors.New("transfer not found")
	// ErrAlreadyResolved indicates the transfer already reached a terminal
	// status and cannot transition again.
	ErrAlreadyResolved = errors.New("transfer already resolved")
	// ErrAuthFailed indicates invalid credentials or an invalid session token.
	ErrAuthFailed = errors.New("invalid credentials")

	// Account-opening validation errors (original intake rules).
	ErrInvalidName       = errors.New("name must contain only alphabets")
	ErrInvalidAge        = errors.New("age must be between 1 and 120")
	ErrInvalidNationalID = errors.New("national id must be 12 digits")
	ErrInvalidPhone      = errors.New("phone number must be 10 digits")
	ErrMinimumDeposit    = errors.New("minimum initial deposit of 1000 is required")

	// Credential-change validation errors.
	ErrInvalidUsername = errors.New("username cannot be empty")
	ErrWeakPassword    = errors.New("password must be at least 6 characters")

	// Withdrawal policy errors.
	ErrMinorWithdraw  = errors.New("minor account cannot withdraw")
	ErrMinimumBalance = errors.New("minimum balance of 1000 must be maintained")

	// ErrInvalidTransactionType indicates an unknown ledger entry type.
	ErrInvalidTransactionType = errors.New("transaction type must be DEPOSIT, WITHDRAW, TRANSFER_IN or TRANSFER_OUT")
	// ErrInvalidTransferStatus indicates an unknown transfer status.
	ErrInvalidTransferStatus = errors.New("transfer status must be PENDING, APPROVED or REJECTED")
)
