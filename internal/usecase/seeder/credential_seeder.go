package seeder

import (
	"context"

	"golang.org/x/crypto/bcrypt"

	"github.com/snibank/snibank-backend/internal/domain"
)

// CredentialSeeder ensures the admin credential exists before the server
// starts taking requests
type CredentialSeeder struct {
	repo domain.CredentialRepository
}

// NewCredentialSeeder creates a new CredentialSeeder instance
func NewCredentialSeeder(repo domain.CredentialRepository) *CredentialSeeder {
	return &CredentialSeeder{
		repo: repo,
	}
}

// Seed creates the admin credential from the configured username and
// password when none is stored yet. An existing credential is left alone so
// that a changed admin password survives restarts.
func (s *CredentialSeeder) Seed(ctx context.Context, username, password string) error {
	if _, err := s.repo.GetAdmin(ctx); err == nil {
		// Credential exists, no action needed
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	return s.repo.SaveAdmin(ctx, &domain.AdminCredential{
		Username:     username,
		PasswordHash: string(hash),
	})
}
