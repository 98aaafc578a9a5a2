package auth

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/crypto/bcrypt"

	"github.com/snibank/snibank-backend/internal/domain"
)

// Role identifies what a session is allowed to do
type Role string

const (
	RoleCustomer Role = "customer"
	RoleAdmin    Role = "admin"
)

// Session is the request-scoped identity extracted from a verified token.
// For customers AccountNo is the logged-in account; for admins it is the
// admin username.
type Session struct {
	AccountNo string
	Role      Role
}

// Claims is the JWT payload carried by session tokens
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

const tokenTTL = 24 * time.Hour

// AuthService issues and verifies session tokens
type AuthService struct {
	AccountRepo    domain.AccountRepository
	CredentialRepo domain.CredentialRepository
	secret         []byte
}

// NewAuthService creates a new AuthService instance
func NewAuthService(accountRepo domain.AccountRepository, credentialRepo domain.CredentialRepository, secret string) *AuthService {
	return &AuthService{
		AccountRepo:    accountRepo,
		CredentialRepo: credentialRepo,
		secret:         []byte(secret),
	}
}

// LoginCustomer verifies an account number and password and returns a
// signed session token. Unknown accounts and wrong passwords both surface
// as ErrAuthFailed so that login failures do not leak which part was wrong.
func (s *AuthService) LoginCustomer(ctx context.Context, accNo, password string) (string, error) {
	acct, err := s.AccountRepo.GetByAccNo(ctx, accNo)
	if err != nil {
		return "", domain.ErrAuthFailed
	}
	if bcrypt.CompareHashAndPassword([]byte(acct.PasswordHash), []byte(password)) != nil {
		return "", domain.ErrAuthFailed
	}
	return s.issueToken(acct.AccNo, RoleCustomer)
}

// LoginAdmin verifies the admin credential and returns a signed session token
func (s *AuthService) LoginAdmin(ctx context.Context, username, password string) (string, error) {
	cred, err := s.CredentialRepo.GetAdmin(ctx)
	if err != nil {
		return "", domain.ErrAuthFailed
	}
	if cred.Username != username {
		return "", domain.ErrAuthFailed
	}
	if bcrypt.CompareHashAndPassword([]byte(cred.PasswordHash), []byte(password)) != nil {
		return "", domain.ErrAuthFailed
	}
	return s.issueToken(username, RoleAdmin)
}

// ChangeAdminCredentials replaces the admin username and password
func (s *AuthService) ChangeAdminCredentials(ctx context.Context, newUsername, newPassword string) error {
	if newUsername == "" {
		return domain.ErrInvalidUsername
	}
	if len(newPassword) < 6 {
		return domain.ErrWeakPassword
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return s.CredentialRepo.SaveAdmin(ctx, &domain.AdminCredential{
		Username:     newUsername,
		PasswordHash: string(hash),
	})
}

// Verify parses and validates a session token and returns the session it
// carries. Any parse, signature or expiry failure surfaces as ErrAuthFailed.
func (s *AuthService) Verify(tokenString string) (*Session, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, domain.ErrAuthFailed
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, domain.ErrAuthFailed
	}

	role := Role(claims.Role)
	if role != RoleCustomer && role != RoleAdmin {
		return nil, domain.ErrAuthFailed
	}
	return &Session{AccountNo: claims.Subject, Role: role}, nil
}

// issueToken signs a session token for the subject and role
func (s *AuthService) issueToken(subject string, role Role) (string, error) {
	now := time.Now()
	claims := Claims{
		Role: string(role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(tokenTTL)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}
