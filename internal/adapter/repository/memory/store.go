// Package memory provides a single-process store backing all repository
// interfaces. One mutex serializes every state change, so cross-account
// operations (transfer approval) are atomic and check-then-mutate never
// interleaves. Used as the dev backend and by the test suite.
package memory

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/snibank/snibank-backend/internal/domain"
)

const firstAccNo = 50001

// Store holds all bank state in memory. Methods return copies, never
// internal pointers. The per-concern repositories in repos.go share one
// Store so they see one consistent world.
type Store struct {
	mu            sync.Mutex
	nextAccNo     int64
	accounts      map[string]*domain.Account
	ledgers       map[string][]domain.Transaction
	transfers     map[uuid.UUID]*domain.Transfer
	transferOrder []uuid.UUID // submission order, drives pending listing
	admin         *domain.AdminCredential
}

// NewStore creates an empty store
func NewStore() *Store {
	return &Store{
		nextAccNo: firstAccNo,
		accounts:  make(map[string]*domain.Account),
		ledgers:   make(map[string][]domain.Transaction),
		transfers: make(map[uuid.UUID]*domain.Transfer),
	}
}

// createAccount assigns the next account number and stores the account
func (s *Store) createAccount(account *domain.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	account.AccNo = fmt.Sprintf("%d", s.nextAccNo)
	s.nextAccNo++

	cp := *account
	s.accounts[cp.AccNo] = &cp
	return nil
}

func (s *Store) getAccount(accNo string) (*domain.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	acct, ok := s.accounts[accNo]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	cp := *acct
	return &cp, nil
}

// listAccounts returns snapshots in account-number order
func (s *Store) listAccounts() []*domain.Account {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*domain.Account, 0, len(s.accounts))
	for no := int64(firstAccNo); no < s.nextAccNo; no++ {
		if acct, ok := s.accounts[fmt.Sprintf("%d", no)]; ok {
			cp := *acct
			out = append(out, &cp)
		}
	}
	return out
}

func (s *Store) deleteAccount(accNo string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.accounts[accNo]; !ok {
		return domain.ErrAccountNotFound
	}
	delete(s.accounts, accNo)
	delete(s.ledgers, accNo)
	return nil
}

func (s *Store) updatePasswordHash(accNo, passwordHash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	acct, ok := s.accounts[accNo]
	if !ok {
		return domain.ErrAccountNotFound
	}
	acct.PasswordHash = passwordHash
	return nil
}

// deposit credits the balance and appends the DEPOSIT entry atomically
func (s *Store) deposit(accNo string, amount decimal.Decimal) (*domain.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	acct, ok := s.accounts[accNo]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, domain.ErrInvalidAmount
	}

	acct.Balance = acct.Balance.Add(amount)
	s.appendEntry(accNo, domain.TransactionTypeDeposit, amount, "Deposit")

	cp := *acct
	return &cp, nil
}

// withdraw re-checks the withdrawal policy and debits the balance, all
// inside the critical section
func (s *Store) withdraw(accNo string, amount decimal.Decimal) (*domain.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	acct, ok := s.accounts[accNo]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	if err := acct.CanWithdraw(amount); err != nil {
		return nil, err
	}

	acct.Balance = acct.Balance.Sub(amount)
	s.appendEntry(accNo, domain.TransactionTypeWithdraw, amount, "Withdrawal")

	cp := *acct
	return &cp, nil
}

func (s *Store) listLedger(accNo string) []*domain.Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries := s.ledgers[accNo]
	out := make([]*domain.Transaction, len(entries))
	for i := range entries {
		cp := entries[i]
		out[i] = &cp
	}
	return out
}

func (s *Store) createTransfer(transfer *domain.Transfer) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *transfer
	s.transfers[cp.ID] = &cp
	s.transferOrder = append(s.transferOrder, cp.ID)
	return nil
}

func (s *Store) getTransfer(id uuid.UUID) (*domain.Transfer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.transfers[id]
	if !ok {
		return nil, domain.ErrTransferNotFound
	}
	cp := *t
	return &cp, nil
}

func (s *Store) listPending() []*domain.Transfer {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*domain.Transfer, 0)
	for _, id := range s.transferOrder {
		if t, ok := s.transfers[id]; ok && t.Status == domain.TransferStatusPending {
			cp := *t
			out = append(out, &cp)
		}
	}
	return out
}

// resolve transitions a PENDING transfer to a terminal status inside the
// store mutex, so re-validation, fund movement, ledger writes and the
// status flip form one atomic unit and exactly one of two racing
// resolutions wins.
func (s *Store) resolve(id uuid.UUID, status domain.TransferStatus) (*domain.Transfer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.transfers[id]
	if !ok {
		return nil, domain.ErrTransferNotFound
	}
	if t.Status != domain.TransferStatusPending {
		cp := *t
		return &cp, domain.ErrAlreadyResolved
	}

	if status == domain.TransferStatusApproved {
		sender, senderOK := s.accounts[t.Sender]
		recipient, recipientOK := s.accounts[t.Recipient]
		if !senderOK || !recipientOK {
			// An account vanished since submission; the transfer must not
			// stay pending
			s.markResolved(t, domain.TransferStatusRejected)
			cp := *t
			return &cp, domain.ErrAccountNotFound
		}
		if sender.Balance.LessThan(t.Amount) {
			s.markResolved(t, domain.TransferStatusRejected)
			cp := *t
			return &cp, domain.ErrInsufficientFundsAtApproval
		}

		sender.Balance = sender.Balance.Sub(t.Amount)
		recipient.Balance = recipient.Balance.Add(t.Amount)
		s.appendEntry(t.Sender, domain.TransactionTypeTransferOut, t.Amount, "Transfer Out")
		s.appendEntry(t.Recipient, domain.TransactionTypeTransferIn, t.Amount, "Transfer In")
	}

	s.markResolved(t, status)
	cp := *t
	return &cp, nil
}

func (s *Store) getAdmin() (*domain.AdminCredential, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.admin == nil {
		return nil, domain.ErrAuthFailed
	}
	cp := *s.admin
	return &cp, nil
}

func (s *Store) saveAdmin(credential *domain.AdminCredential) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *credential
	s.admin = &cp
	return nil
}

// appendEntry writes a ledger entry; caller holds the mutex
func (s *Store) appendEntry(accNo string, typ domain.TransactionType, amount decimal.Decimal, description string) {
	s.ledgers[accNo] = append(s.ledgers[accNo], domain.Transaction{
		ID:          uuid.New(),
		AccountNo:   accNo,
		Type:        typ,
		Amount:      amount,
		Timestamp:   time.Now(),
		Description: description,
	})
}

// markResolved flips the status and stamps the resolution time; caller
// holds the mutex
func (s *Store) markResolved(t *domain.Transfer, status domain.TransferStatus) {
	now := time.Now()
	t.Status = status
	t.ResolvedAt = &now
}
