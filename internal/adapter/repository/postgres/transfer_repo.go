package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/snibank/snibank-backend/internal/domain"
)

// transferRepository implements domain.TransferRepository
type transferRepository struct {
	db *DB
}

// NewTransferRepository creates a new transfer repository
func NewTransferRepository(db *DB) domain.TransferRepository {
	return &transferRepository{db: db}
}

// Create persists a new PENDING transfer
func (r *transferRepository) Create(ctx context.Context, transfer *domain.Transfer) error {
	query := `
		INSERT INTO transfers (id, sender, recipient, amount, status, created_at, resolved_at)
		VALUES ($1, $2, $3, $4, $5, $6, NULL)
	`

	_, err := r.db.ExecContext(ctx, query,
		transfer.ID,
		transfer.Sender,
		transfer.Recipient,
		transfer.Amount.String(),
		string(transfer.Status),
		transfer.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create transfer: %w", err)
	}

	return nil
}

// GetByID retrieves a transfer by its id
func (r *transferRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Transfer, error) {
	query := `
		SELECT id, sender, recipient, amount, status, created_at, resolved_at
		FROM transfers
		WHERE id = $1
	`
	return scanTransfer(r.db.QueryRowContext(ctx, query, id))
}

// ListPending retrieves all PENDING transfers ordered by creation time
// ascending
func (r *transferRepository) ListPending(ctx context.Context) ([]*domain.Transfer, error) {
	query := `
		SELECT id, sender, recipient, amount, status, created_at, resolved_at
		FROM transfers
		WHERE status = $1
		ORDER BY created_at, id
	`

	rows, err := r.db.QueryContext(ctx, query, string(domain.TransferStatusPending))
	if err != nil {
		return nil, fmt.Errorf("failed to list pending transfers: %w", err)
	}
	defer rows.Close()

	transfers := make([]*domain.Transfer, 0)
	for rows.Next() {
		var t domain.Transfer
		var amountStr string
		var resolvedAt sql.NullTime
		if err := rows.Scan(&t.ID, &t.Sender, &t.Recipient, &amountStr, &t.Status, &t.CreatedAt, &resolvedAt); err != nil {
			return nil, fmt.Errorf("failed to scan transfer: %w", err)
		}
		amount, err := decimal.NewFromString(amountStr)
		if err != nil {
			return nil, fmt.Errorf("failed to parse amount: %w", err)
		}
		t.Amount = amount
		if resolvedAt.Valid {
			t.ResolvedAt = &resolvedAt.Time
		}
		transfers = append(transfers, &t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list pending transfers: %w", err)
	}

	return transfers, nil
}

// Resolve performs the whole disposition as one database transaction: the
// transfer row is locked first, so concurrent approve/reject attempts
// serialize and exactly one sees PENDING. For approvals both account rows
// are locked in account-number order (consistent order avoids deadlocks
// between concurrent approvals), the sender balance is re-checked, funds
// move and both ledger entries are appended before the status flips.
func (r *transferRepository) Resolve(ctx context.Context, id uuid.UUID, status domain.TransferStatus) (*domain.Transfer, error) {
	dbTx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer dbTx.Rollback()

	lockQuery := `
		SELECT id, sender, recipient, amount, status, created_at, resolved_at
		FROM transfers
		WHERE id = $1
		FOR UPDATE
	`
	t, err := scanTransfer(dbTx.QueryRowContext(ctx, lockQuery, id))
	if err != nil {
		return nil, err
	}
	if t.Status != domain.TransferStatusPending {
		return t, domain.ErrAlreadyResolved
	}

	if status == domain.TransferStatusApproved {
		balances, err := lockAccountPair(ctx, dbTx, t.Sender, t.Recipient)
		if err != nil {
			return nil, err
		}

		senderBalance, senderOK := balances[t.Sender]
		recipientBalance, recipientOK := balances[t.Recipient]
		if !senderOK || !recipientOK {
			// An account vanished since submission; the transfer must not
			// stay pending
			return rejectAndCommit(ctx, dbTx, t, domain.ErrAccountNotFound)
		}
		if senderBalance.LessThan(t.Amount) {
			return rejectAndCommit(ctx, dbTx, t, domain.ErrInsufficientFundsAtApproval)
		}

		if err := updateBalance(ctx, dbTx, t.Sender, senderBalance.Sub(t.Amount)); err != nil {
			return nil, err
		}
		if err := updateBalance(ctx, dbTx, t.Recipient, recipientBalance.Add(t.Amount)); err != nil {
			return nil, err
		}
		if err := appendEntry(ctx, dbTx, t.Sender, domain.TransactionTypeTransferOut, t.Amount, "Transfer Out"); err != nil {
			return nil, err
		}
		if err := appendEntry(ctx, dbTx, t.Recipient, domain.TransactionTypeTransferIn, t.Amount, "Transfer In"); err != nil {
			return nil, err
		}
	}

	if err := markResolved(ctx, dbTx, t, status); err != nil {
		return nil, err
	}
	if err := dbTx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return t, nil
}

// scanTransfer reads one transfer row
func scanTransfer(row *sql.Row) (*domain.Transfer, error) {
	var t domain.Transfer
	var amountStr string
	var resolvedAt sql.NullTime

	err := row.Scan(&t.ID, &t.Sender, &t.Recipient, &amountStr, &t.Status, &t.CreatedAt, &resolvedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrTransferNotFound
		}
		return nil, fmt.Errorf("failed to scan transfer: %w", err)
	}

	amount, err := decimal.NewFromString(amountStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse amount: %w", err)
	}
	t.Amount = amount
	if resolvedAt.Valid {
		t.ResolvedAt = &resolvedAt.Time
	}

	return &t, nil
}

// lockAccountPair locks both account rows in account-number order and
// returns their current balances
func lockAccountPair(ctx context.Context, dbTx *sql.Tx, a, b string) (map[string]decimal.Decimal, error) {
	query := `
		SELECT acc_no, balance
		FROM accounts
		WHERE acc_no IN ($1, $2)
		ORDER BY acc_no
		FOR UPDATE
	`

	rows, err := dbTx.QueryContext(ctx, query, a, b)
	if err != nil {
		return nil, fmt.Errorf("failed to lock accounts: %w", err)
	}
	defer rows.Close()

	balances := make(map[string]decimal.Decimal)
	for rows.Next() {
		var accNo, balanceStr string
		if err := rows.Scan(&accNo, &balanceStr); err != nil {
			return nil, fmt.Errorf("failed to scan balance: %w", err)
		}
		balance, err := decimal.NewFromString(balanceStr)
		if err != nil {
			return nil, fmt.Errorf("failed to parse balance: %w", err)
		}
		balances[accNo] = balance
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to lock accounts: %w", err)
	}

	return balances, nil
}

// rejectAndCommit marks the transfer REJECTED, commits, and reports why
// the approval could not proceed
func rejectAndCommit(ctx context.Context, dbTx *sql.Tx, t *domain.Transfer, cause error) (*domain.Transfer, error) {
	if err := markResolved(ctx, dbTx, t, domain.TransferStatusRejected); err != nil {
		return nil, err
	}
	if err := dbTx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return t, cause
}

// markResolved flips the status and stamps the resolution time inside dbTx
func markResolved(ctx context.Context, dbTx *sql.Tx, t *domain.Transfer, status domain.TransferStatus) error {
	now := time.Now()
	_, err := dbTx.ExecContext(ctx,
		`UPDATE transfers SET status = $1, resolved_at = $2 WHERE id = $3`,
		string(status), now, t.ID)
	if err != nil {
		return fmt.Errorf("failed to resolve transfer: %w", err)
	}
	t.Status = status
	t.ResolvedAt = &now
	return nil
}
