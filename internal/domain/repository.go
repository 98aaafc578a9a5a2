package domain

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AccountRepository defines the interface for account persistence operations.
// Implementations must serialize balance-mutating operations per account so
// that concurrent deposit/withdraw/transfer-approval never lose updates.
type AccountRepository interface {
	// Create persists a new account and assigns its account number
	// (sequential, starting at 50001). The assigned number is written back
	// into the passed account.
	Create(ctx context.Context, account *Account) error

	// GetByAccNo retrieves an account snapshot by its number
	GetByAccNo(ctx context.Context, accNo string) (*Account, error)

	// List retrieves snapshots of all accounts
	List(ctx context.Context) ([]*Account, error)

	// Delete removes an account and its ledger
	Delete(ctx context.Context, accNo string) error

	// UpdatePasswordHash replaces the stored credential hash
	UpdatePasswordHash(ctx context.Context, accNo, passwordHash string) error

	// Deposit atomically credits the balance and appends the DEPOSIT
	// ledger entry. Returns the updated account snapshot.
	Deposit(ctx context.Context, accNo string, amount decimal.Decimal) (*Account, error)

	// Withdraw atomically re-checks the account's withdrawal policy
	// (Account.CanWithdraw), debits the balance and appends the WITHDRAW
	// ledger entry. Policy errors are returned unchanged and leave the
	// account untouched.
	Withdraw(ctx context.Context, accNo string, amount decimal.Decimal) (*Account, error)
}

// TransactionRepository defines the interface for reading the ledger.
// Entries are appended only inside the atomic account and transfer
// operations, never directly.
type TransactionRepository interface {
	// ListByAccount retrieves an account's ledger entries in append order
	ListByAccount(ctx context.Context, accNo string) ([]*Transaction, error)
}

// TransferRepository defines the interface for transfer persistence operations
type TransferRepository interface {
	// Create persists a new PENDING transfer
	Create(ctx context.Context, transfer *Transfer) error

	// GetByID retrieves a transfer snapshot by its id
	GetByID(ctx context.Context, id uuid.UUID) (*Transfer, error)

	// ListPending retrieves all PENDING transfers ordered by creation time
	// ascending, as a read-consistent snapshot.
	ListPending(ctx context.Context) ([]*Transfer, error)

	// Resolve atomically transitions a PENDING transfer to the given
	// terminal status.
	//
	// For TransferStatusApproved it re-checks the sender balance inside the
	// same atomic unit and, when sufficient, debits the sender, credits the
	// recipient and appends the TRANSFER_OUT/TRANSFER_IN ledger entries.
	// When the balance has dropped below the amount the transfer is marked
	// REJECTED instead and ErrInsufficientFundsAtApproval is returned. If
	// either account was deleted since submission the transfer is likewise
	// marked REJECTED and ErrAccountNotFound is returned (a transfer must
	// never stay PENDING after a disposition attempt).
	//
	// Returns ErrTransferNotFound for unknown ids. When the transfer is no
	// longer pending the current snapshot is returned together with
	// ErrAlreadyResolved; no state changes. Concurrent resolutions of the
	// same transfer see exactly one winner.
	Resolve(ctx context.Context, id uuid.UUID, status TransferStatus) (*Transfer, error)
}

// CredentialRepository defines the interface for the admin credential
type CredentialRepository interface {
	// GetAdmin retrieves the stored admin credential
	GetAdmin(ctx context.Context) (*AdminCredential, error)

	// SaveAdmin creates or replaces the admin credential
	SaveAdmin(ctx context.Context, credential *AdminCredential) error
}
