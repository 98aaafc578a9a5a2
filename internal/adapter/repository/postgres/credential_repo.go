package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/snibank/snibank-backend/internal/domain"
)

// credentialRepository implements domain.CredentialRepository.
// The admin_credentials table holds a single row.
type credentialRepository struct {
	db *DB
}

// NewCredentialRepository creates a new credential repository
func NewCredentialRepository(db *DB) domain.CredentialRepository {
	return &credentialRepository{db: db}
}

// GetAdmin retrieves the stored admin credential
func (r *credentialRepository) GetAdmin(ctx context.Context) (*domain.AdminCredential, error) {
	query := `SELECT username, password_hash FROM admin_credentials WHERE id = 1`

	var cred domain.AdminCredential
	err := r.db.QueryRowContext(ctx, query).Scan(&cred.Username, &cred.PasswordHash)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrAuthFailed
		}
		return nil, fmt.Errorf("failed to get admin credential: %w", err)
	}

	return &cred, nil
}

// SaveAdmin creates or replaces the admin credential
func (r *credentialRepository) SaveAdmin(ctx context.Context, credential *domain.AdminCredential) error {
	query := `
		INSERT INTO admin_credentials (id, username, password_hash)
		VALUES (1, $1, $2)
		ON CONFLICT (id) DO UPDATE SET username = EXCLUDED.username, password_hash = EXCLUDED.password_hash
	`

	_, err := r.db.ExecContext(ctx, query, credential.Username, credential.PasswordHash)
	if err != nil {
		return fmt.Errorf("failed to save admin credential: %w", err)
	}

	return nil
}
