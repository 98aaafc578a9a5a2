package postgres

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/snibank/snibank-backend/internal/domain"
)

// transactionRepository implements domain.TransactionRepository
type transactionRepository struct {
	db *DB
}

// NewTransactionRepository creates a new ledger repository
func NewTransactionRepository(db *DB) domain.TransactionRepository {
	return &transactionRepository{db: db}
}

// ListByAccount retrieves an account's ledger entries in append order
// (the seq column is assigned at insert time)
func (r *transactionRepository) ListByAccount(ctx context.Context, accNo string) ([]*domain.Transaction, error) {
	query := `
		SELECT id, acc_no, type, amount, timestamp, description
		FROM transactions
		WHERE acc_no = $1
		ORDER BY seq
	`

	rows, err := r.db.QueryContext(ctx, query, accNo)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer rows.Close()

	entries := make([]*domain.Transaction, 0)
	for rows.Next() {
		var entry domain.Transaction
		var amountStr string
		if err := rows.Scan(
			&entry.ID,
			&entry.AccountNo,
			&entry.Type,
			&amountStr,
			&entry.Timestamp,
			&entry.Description,
		); err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		amount, err := decimal.NewFromString(amountStr)
		if err != nil {
			return nil, fmt.Errorf("failed to parse amount: %w", err)
		}
		entry.Amount = amount
		entries = append(entries, &entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}

	return entries, nil
}
