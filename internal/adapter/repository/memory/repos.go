package memory

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/snibank/snibank-backend/internal/domain"
)

// accountRepository adapts Store to domain.AccountRepository
type accountRepository struct {
	store *Store
}

// NewAccountRepository creates an account repository over the store
func NewAccountRepository(store *Store) domain.AccountRepository {
	return &accountRepository{store: store}
}

func (r *accountRepository) Create(ctx context.Context, account *domain.Account) error {
	return r.store.createAccount(account)
}

func (r *accountRepository) GetByAccNo(ctx context.Context, accNo string) (*domain.Account, error) {
	return r.store.getAccount(accNo)
}

func (r *accountRepository) List(ctx context.Context) ([]*domain.Account, error) {
	return r.store.listAccounts(), nil
}

func (r *accountRepository) Delete(ctx context.Context, accNo string) error {
	return r.store.deleteAccount(accNo)
}

func (r *accountRepository) UpdatePasswordHash(ctx context.Context, accNo, passwordHash string) error {
	return r.store.updatePasswordHash(accNo, passwordHash)
}

func (r *accountRepository) Deposit(ctx context.Context, accNo string, amount decimal.Decimal) (*domain.Account, error) {
	return r.store.deposit(accNo, amount)
}

func (r *accountRepository) Withdraw(ctx context.Context, accNo string, amount decimal.Decimal) (*domain.Account, error) {
	return r.store.withdraw(accNo, amount)
}

// transactionRepository adapts Store to domain.TransactionRepository
type transactionRepository struct {
	store *Store
}

// NewTransactionRepository creates a ledger repository over the store
func NewTransactionRepository(store *Store) domain.TransactionRepository {
	return &transactionRepository{store: store}
}

func (r *transactionRepository) ListByAccount(ctx context.Context, accNo string) ([]*domain.Transaction, error) {
	return r.store.listLedger(accNo), nil
}

// transferRepository adapts Store to domain.TransferRepository
type transferRepository struct {
	store *Store
}

// NewTransferRepository creates a transfer repository over the store
func NewTransferRepository(store *Store) domain.TransferRepository {
	return &transferRepository{store: store}
}

func (r *transferRepository) Create(ctx context.Context, transfer *domain.Transfer) error {
	return r.store.createTransfer(transfer)
}

func (r *transferRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Transfer, error) {
	return r.store.getTransfer(id)
}

func (r *transferRepository) ListPending(ctx context.Context) ([]*domain.Transfer, error) {
	return r.store.listPending(), nil
}

func (r *transferRepository) Resolve(ctx context.Context, id uuid.UUID, status domain.TransferStatus) (*domain.Transfer, error) {
	return r.store.resolve(id, status)
}

// credentialRepository adapts Store to domain.CredentialRepository
type credentialRepository struct {
	store *Store
}

// NewCredentialRepository creates a credential repository over the store
func NewCredentialRepository(store *Store) domain.CredentialRepository {
	return &credentialRepository{store: store}
}

func (r *credentialRepository) GetAdmin(ctx context.Context) (*domain.AdminCredential, error) {
	return r.store.getAdmin()
}

func (r *credentialRepository) SaveAdmin(ctx context.Context, credential *domain.AdminCredential) error {
	return r.store.saveAdmin(credential)
}
