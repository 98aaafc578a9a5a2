package domain

import (
	"regexp"
	"time"

	"github.com/shopspring/decimal"
)

// AccountType classifies accounts by the holder's age
type AccountType string

const (
	AccountTypeMinor AccountType = "Minor Account"
	AccountTypeMajor AccountType = "Major Account"
)

// MinimumBalance is the floor a Major account must keep after a withdrawal.
// MinimumOpeningDeposit is the smallest deposit accepted when opening.
var (
	MinimumBalance        = decimal.NewFromInt(1000)
	MinimumOpeningDeposit = decimal.NewFromInt(1000)
)

var (
	namePattern       = regexp.MustCompile(`^[A-Za-z]+( [A-Za-z]+)*$`)
	phonePattern      = regexp.MustCompile(`^[0-9]{10}$`)
	nationalIDPattern = regexp.MustCompile(`^[0-9]{12}$`)
)

// Account represents a customer account. The national ID and password are
// stored only as hashes; the raw values never persist.
type Account struct {
	AccNo          string
	Name           string
	Age            int
	NationalIDHash string
	Phone          string
	AccountType    AccountType
	Balance        decimal.Decimal
	PasswordHash   string
	CreatedAt      time.Time
}

// AccountTypeForAge classifies the holder: under 18 is a Minor account
func AccountTypeForAge(age int) AccountType {
	if age < 18 {
		return AccountTypeMinor
	}
	return AccountTypeMajor
}

// ValidateNationalID checks the raw national ID before it is hashed
func ValidateNationalID(id string) error {
	if !nationalIDPattern.MatchString(id) {
		return ErrInvalidNationalID
	}
	return nil
}

// Validate ensures the account adheres to domain rules
func (a *Account) Validate() error {
	if !namePattern.MatchString(a.Name) {
		return ErrInvalidName
	}
	if a.Age < 1 || a.Age > 120 {
		return ErrInvalidAge
	}
	if !phonePattern.MatchString(a.Phone) {
		return ErrInvalidPhone
	}
	return nil
}

// CanWithdraw checks the withdrawal policy against the current balance.
// Stores call this inside their critical section so the balance it sees is
// the one the debit will apply to.
// Rules:
//   - Minor accounts cannot withdraw at all
//   - The amount must be positive and covered by the balance
//   - A Major account must keep the minimum balance after the debit
func (a *Account) CanWithdraw(amount decimal.Decimal) error {
	if a.AccountType == AccountTypeMinor {
		return ErrMinorWithdraw
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidAmount
	}
	remaining := a.Balance.Sub(amount)
	if remaining.IsNegative() {
		return ErrInsufficientFunds
	}
	if remaining.LessThan(MinimumBalance) {
		return ErrMinimumBalance
	}
	return nil
}
