package account

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"math/big"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"github.com/snibank/snibank-backend/internal/domain"
)

// OpenAccountInput represents the intake form for opening an account
type OpenAccountInput struct {
	Name           string
	Age            int
	NationalID     string
	Phone          string
	InitialDeposit decimal.Decimal
}

// OpenAccountOutput carries the assigned account number and the generated
// password. The plaintext password exists only here; the store keeps the
// bcrypt hash.
type OpenAccountOutput struct {
	Account  *domain.Account
	Password string
}

// AccountService handles account lifecycle and balance operations
type AccountService struct {
	AccountRepo     domain.AccountRepository
	TransactionRepo domain.TransactionRepository
	BankName        string
}

// NewAccountService creates a new AccountService instance
func NewAccountService(accountRepo domain.AccountRepository, transactionRepo domain.TransactionRepository, bankName string) *AccountService {
	return &AccountService{
		AccountRepo:     accountRepo,
		TransactionRepo: transactionRepo,
		BankName:        bankName,
	}
}

// Open creates an account from the intake details.
// Logic:
//  1. Validate the intake form (name, age, national ID, phone)
//  2. Require the minimum opening deposit
//  3. Generate the customer password, store only its bcrypt hash
//  4. Persist the account (the store assigns the account number)
//  5. Post the opening deposit as a regular DEPOSIT ledger entry
func (s *AccountService) Open(ctx context.Context, input OpenAccountInput) (*OpenAccountOutput, error) {
	if err := domain.ValidateNationalID(input.NationalID); err != nil {
		return nil, err
	}

	acct := &domain.Account{
		Name:           input.Name,
		Age:            input.Age,
		NationalIDHash: hashNationalID(input.NationalID),
		Phone:          input.Phone,
		AccountType:    domain.AccountTypeForAge(input.Age),
		Balance:        decimal.Zero,
		CreatedAt:      time.Now(),
	}
	if err := acct.Validate(); err != nil {
		return nil, err
	}

	if input.InitialDeposit.LessThan(domain.MinimumOpeningDeposit) {
		return nil, domain.ErrMinimumDeposit
	}

	password, err := generatePassword()
	if err != nil {
		return nil, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	acct.PasswordHash = string(hash)

	if err := s.AccountRepo.Create(ctx, acct); err != nil {
		return nil, err
	}

	// The opening deposit goes through the ledger like any other deposit
	// so that balance == sum of deltas holds from the first entry
	acct, err = s.AccountRepo.Deposit(ctx, acct.AccNo, input.InitialDeposit)
	if err != nil {
		return nil, err
	}

	return &OpenAccountOutput{Account: acct, Password: password}, nil
}

// Deposit credits the account and returns the updated snapshot
func (s *AccountService) Deposit(ctx context.Context, accNo string, amount decimal.Decimal) (*domain.Account, error) {
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, domain.ErrInvalidAmount
	}
	return s.AccountRepo.Deposit(ctx, accNo, amount)
}

// Withdraw debits the account under the withdrawal policy and returns the
// updated snapshot. The policy check runs inside the store's atomic unit.
func (s *AccountService) Withdraw(ctx context.Context, accNo string, amount decimal.Decimal) (*domain.Account, error) {
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, domain.ErrInvalidAmount
	}
	return s.AccountRepo.Withdraw(ctx, accNo, amount)
}

// Details returns the account snapshot for balance display
func (s *AccountService) Details(ctx context.Context, accNo string) (*domain.Account, error) {
	return s.AccountRepo.GetByAccNo(ctx, accNo)
}

// Transactions returns the account's ledger in append order
func (s *AccountService) Transactions(ctx context.Context, accNo string) ([]*domain.Transaction, error) {
	// Distinguish "unknown account" from "no transactions yet"
	if _, err := s.AccountRepo.GetByAccNo(ctx, accNo); err != nil {
		return nil, err
	}
	return s.TransactionRepo.ListByAccount(ctx, accNo)
}

// Delete removes the account and its ledger
func (s *AccountService) Delete(ctx context.Context, accNo string) error {
	return s.AccountRepo.Delete(ctx, accNo)
}

// List returns snapshots of all accounts for the admin console
func (s *AccountService) List(ctx context.Context) ([]*domain.Account, error) {
	return s.AccountRepo.List(ctx)
}

// ChangePassword replaces the customer's credential
func (s *AccountService) ChangePassword(ctx context.Context, accNo, newPassword string) error {
	if len(newPassword) < 6 {
		return domain.ErrWeakPassword
	}
	if _, err := s.AccountRepo.GetByAccNo(ctx, accNo); err != nil {
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return s.AccountRepo.UpdatePasswordHash(ctx, accNo, string(hash))
}

// hashNationalID stores only a digest of the national ID, never the raw value
func hashNationalID(id string) string {
	sum := sha256.Sum256([]byte(id))
	return hex.EncodeToString(sum[:])
}

const passwordAlphabet = "abcdefghijkmnpqrstuvwxyzABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// generatePassword returns a random 10-character customer password
func generatePassword() (string, error) {
	buf := make([]byte, 10)
	for i := range buf {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(passwordAlphabet))))
		if err != nil {
			return "", err
		}
		buf[i] = passwordAlphabet[n.Int64()]
	}
	return string(buf), nil
}
