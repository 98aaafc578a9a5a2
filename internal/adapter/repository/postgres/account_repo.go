package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/snibank/snibank-backend/internal/domain"
)

// accountRepository implements domain.AccountRepository
type accountRepository struct {
	db *DB
}

// NewAccountRepository creates a new account repository
func NewAccountRepository(db *DB) domain.AccountRepository {
	return &accountRepository{db: db}
}

const accountColumns = `acc_no, name, age, national_id_hash, phone, account_type, balance, password_hash, created_at`

// scanAccount reads one account row; balance arrives as a DECIMAL string
func scanAccount(row *sql.Row) (*domain.Account, error) {
	var acct domain.Account
	var balanceStr string

	err := row.Scan(
		&acct.AccNo,
		&acct.Name,
		&acct.Age,
		&acct.NationalIDHash,
		&acct.Phone,
		&acct.AccountType,
		&balanceStr,
		&acct.PasswordHash,
		&acct.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, fmt.Errorf("failed to scan account: %w", err)
	}

	balance, err := decimal.NewFromString(balanceStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse balance: %w", err)
	}
	acct.Balance = balance

	return &acct, nil
}

// Create persists the account; the account_numbers sequence assigns the
// account number (starting at 50001) so concurrent opens never collide
func (r *accountRepository) Create(ctx context.Context, account *domain.Account) error {
	query := `
		INSERT INTO accounts (acc_no, name, age, national_id_hash, phone, account_type, balance, password_hash, created_at)
		VALUES (nextval('account_numbers')::text, $1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING acc_no
	`

	err := r.db.QueryRowContext(ctx, query,
		account.Name,
		account.Age,
		account.NationalIDHash,
		account.Phone,
		string(account.AccountType),
		account.Balance.String(),
		account.PasswordHash,
		account.CreatedAt,
	).Scan(&account.AccNo)
	if err != nil {
		return fmt.Errorf("failed to create account: %w", err)
	}

	return nil
}

// GetByAccNo retrieves an account by its number
func (r *accountRepository) GetByAccNo(ctx context.Context, accNo string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE acc_no = $1`
	return scanAccount(r.db.QueryRowContext(ctx, query, accNo))
}

// List retrieves all accounts in account-number order
func (r *accountRepository) List(ctx context.Context) ([]*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts ORDER BY acc_no::bigint`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	defer rows.Close()

	accounts := make([]*domain.Account, 0)
	for rows.Next() {
		var acct domain.Account
		var balanceStr string
		if err := rows.Scan(
			&acct.AccNo,
			&acct.Name,
			&acct.Age,
			&acct.NationalIDHash,
			&acct.Phone,
			&acct.AccountType,
			&balanceStr,
			&acct.PasswordHash,
			&acct.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan account: %w", err)
		}
		balance, err := decimal.NewFromString(balanceStr)
		if err != nil {
			return nil, fmt.Errorf("failed to parse balance: %w", err)
		}
		acct.Balance = balance
		accounts = append(accounts, &acct)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}

	return accounts, nil
}

// Delete removes the account; the ledger rows follow via ON DELETE CASCADE
func (r *accountRepository) Delete(ctx context.Context, accNo string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM accounts WHERE acc_no = $1`, accNo)
	if err != nil {
		return fmt.Errorf("failed to delete account: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete account: %w", err)
	}
	if affected == 0 {
		return domain.ErrAccountNotFound
	}
	return nil
}

// UpdatePasswordHash replaces the stored credential hash
func (r *accountRepository) UpdatePasswordHash(ctx context.Context, accNo, passwordHash string) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE accounts SET password_hash = $1 WHERE acc_no = $2`, passwordHash, accNo)
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	if affected == 0 {
		return domain.ErrAccountNotFound
	}
	return nil
}

// Deposit credits the balance and appends the DEPOSIT entry in one
// database transaction
func (r *accountRepository) Deposit(ctx context.Context, accNo string, amount decimal.Decimal) (*domain.Account, error) {
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, domain.ErrInvalidAmount
	}

	dbTx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer dbTx.Rollback()

	acct, err := lockAccount(ctx, dbTx, accNo)
	if err != nil {
		return nil, err
	}

	acct.Balance = acct.Balance.Add(amount)
	if err := updateBalance(ctx, dbTx, accNo, acct.Balance); err != nil {
		return nil, err
	}
	if err := appendEntry(ctx, dbTx, accNo, domain.TransactionTypeDeposit, amount, "Deposit"); err != nil {
		return nil, err
	}

	if err := dbTx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return acct, nil
}

// Withdraw re-checks the withdrawal policy under a row lock and debits the
// balance; policy failures leave the account untouched
func (r *accountRepository) Withdraw(ctx context.Context, accNo string, amount decimal.Decimal) (*domain.Account, error) {
	dbTx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer dbTx.Rollback()

	acct, err := lockAccount(ctx, dbTx, accNo)
	if err != nil {
		return nil, err
	}
	if err := acct.CanWithdraw(amount); err != nil {
		return nil, err
	}

	acct.Balance = acct.Balance.Sub(amount)
	if err := updateBalance(ctx, dbTx, accNo, acct.Balance); err != nil {
		return nil, err
	}
	if err := appendEntry(ctx, dbTx, accNo, domain.TransactionTypeWithdraw, amount, "Withdrawal"); err != nil {
		return nil, err
	}

	if err := dbTx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return acct, nil
}

// lockAccount fetches an account row FOR UPDATE inside dbTx
func lockAccount(ctx context.Context, dbTx *sql.Tx, accNo string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE acc_no = $1 FOR UPDATE`
	return scanAccount(dbTx.QueryRowContext(ctx, query, accNo))
}

// updateBalance writes the new balance inside dbTx
func updateBalance(ctx context.Context, dbTx *sql.Tx, accNo string, balance decimal.Decimal) error {
	_, err := dbTx.ExecContext(ctx,
		`UPDATE accounts SET balance = $1 WHERE acc_no = $2`, balance.String(), accNo)
	if err != nil {
		return fmt.Errorf("failed to update balance: %w", err)
	}
	return nil
}

// appendEntry inserts a ledger row inside dbTx
func appendEntry(ctx context.Context, dbTx *sql.Tx, accNo string, typ domain.TransactionType, amount decimal.Decimal, description string) error {
	query := `
		INSERT INTO transactions (id, acc_no, type, amount, timestamp, description)
		VALUES ($1, $2, $3, $4, now(), $5)
	`
	_, err := dbTx.ExecContext(ctx, query, uuid.New(), accNo, string(typ), amount.String(), description)
	if err != nil {
		return fmt.Errorf("failed to append ledger entry: %w", err)
	}
	return nil
}
