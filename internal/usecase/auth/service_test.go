package auth

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/snibank/snibank-backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
)

// MockAccountRepository is a mock implementation of AccountRepository for testing
type MockAccountRepository struct {
	mock.Mock
}

func (m *MockAccountRepository) Create(ctx context.Context, account *domain.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepository) GetByAccNo(ctx context.Context, accNo string) (*domain.Account, error) {
	args := m.Called(ctx, accNo)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) List(ctx context.Context) ([]*domain.Account, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) Delete(ctx context.Context, accNo string) error {
	args := m.Called(ctx, accNo)
	return args.Error(0)
}

func (m *MockAccountRepository) UpdatePasswordHash(ctx context.Context, accNo, passwordHash string) error {
	args := m.Called(ctx, accNo, passwordHash)
	return args.Error(0)
}

func (m *MockAccountRepository) Deposit(ctx context.Context, accNo string, amount decimal.Decimal) (*domain.Account, error) {
	args := m.Called(ctx, accNo, amount)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) Withdraw(ctx context.Context, accNo string, amount decimal.Decimal) (*domain.Account, error) {
	args := m.Called(ctx, accNo, amount)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

// MockCredentialRepository is a mock implementation of CredentialRepository for testing
type MockCredentialRepository struct {
	mock.Mock
}

func (m *MockCredentialRepository) GetAdmin(ctx context.Context) (*domain.AdminCredential, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AdminCredential), args.Error(1)
}

func (m *MockCredentialRepository) SaveAdmin(ctx context.Context, credential *domain.AdminCredential) error {
	args := m.Called(ctx, credential)
	return args.Error(0)
}

// MinCost keeps the bcrypt rounds cheap in tests
func testHash(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	assert.NoError(t, err)
	return string(hash)
}

func TestLoginCustomer_TokenRoundTrip(t *testing.T) {
	ctx := context.Background()
	mockAccountRepo := new(MockAccountRepository)
	mockCredentialRepo := new(MockCredentialRepository)

	service := NewAuthService(mockAccountRepo, mockCredentialRepo, "test-secret")

	mockAccountRepo.On("GetByAccNo", ctx, "50001").Return(&domain.Account{
		AccNo:        "50001",
		PasswordHash: testHash(t, "hunter22"),
	}, nil)

	token, err := service.LoginCustomer(ctx, "50001", "hunter22")
	assert.NoError(t, err)
	assert.NotEmpty(t, token)

	session, err := service.Verify(token)
	assert.NoError(t, err)
	assert.Equal(t, "50001", session.AccountNo)
	assert.Equal(t, RoleCustomer, session.Role)
}

func TestLoginCustomer_WrongPassword(t *testing.T) {
	ctx := context.Background()
	mockAccountRepo := new(MockAccountRepository)
	mockCredentialRepo := new(MockCredentialRepository)

	service := NewAuthService(mockAccountRepo, mockCredentialRepo, "test-secret")

	mockAccountRepo.On("GetByAccNo", ctx, "50001").Return(&domain.Account{
		AccNo:        "50001",
		PasswordHash: testHash(t, "hunter22"),
	}, nil)

	token, err := service.LoginCustomer(ctx, "50001", "wrong")
	assert.Empty(t, token)
	assert.ErrorIs(t, err, domain.ErrAuthFailed)
}

func TestLoginCustomer_UnknownAccount(t *testing.T) {
	ctx := context.Background()
	mockAccountRepo := new(MockAccountRepository)
	mockCredentialRepo := new(MockCredentialRepository)

	service := NewAuthService(mockAccountRepo, mockCredentialRepo, "test-secret")

	mockAccountRepo.On("GetByAccNo", ctx, "99999").Return(nil, domain.ErrAccountNotFound)

	// Unknown account reads the same as a wrong password
	token, err := service.LoginCustomer(ctx, "99999", "anything")
	assert.Empty(t, token)
	assert.ErrorIs(t, err, domain.ErrAuthFailed)
}

func TestLoginAdmin(t *testing.T) {
	ctx := context.Background()
	mockAccountRepo := new(MockAccountRepository)
	mockCredentialRepo := new(MockCredentialRepository)

	service := NewAuthService(mockAccountRepo, mockCredentialRepo, "test-secret")

	mockCredentialRepo.On("GetAdmin", ctx).Return(&domain.AdminCredential{
		Username:     "admin",
		PasswordHash: testHash(t, "snibank"),
	}, nil)

	token, err := service.LoginAdmin(ctx, "admin", "snibank")
	assert.NoError(t, err)

	session, err := service.Verify(token)
	assert.NoError(t, err)
	assert.Equal(t, "admin", session.AccountNo)
	assert.Equal(t, RoleAdmin, session.Role)

	// Wrong username fails even with the right password
	token, err = service.LoginAdmin(ctx, "root", "snibank")
	assert.Empty(t, token)
	assert.ErrorIs(t, err, domain.ErrAuthFailed)
}

func TestVerify_BadTokens(t *testing.T) {
	mockAccountRepo := new(MockAccountRepository)
	mockCredentialRepo := new(MockCredentialRepository)

	service := NewAuthService(mockAccountRepo, mockCredentialRepo, "test-secret")

	session, err := service.Verify("not-a-token")
	assert.Nil(t, session)
	assert.ErrorIs(t, err, domain.ErrAuthFailed)

	// Token signed with a different secret must not verify
	other := NewAuthService(mockAccountRepo, mockCredentialRepo, "other-secret")
	token, err := other.issueToken("50001", RoleCustomer)
	assert.NoError(t, err)

	session, err = service.Verify(token)
	assert.Nil(t, session)
	assert.ErrorIs(t, err, domain.ErrAuthFailed)
}

func TestChangeAdminCredentials(t *testing.T) {
	ctx := context.Background()
	mockAccountRepo := new(MockAccountRepository)
	mockCredentialRepo := new(MockCredentialRepository)

	service := NewAuthService(mockAccountRepo, mockCredentialRepo, "test-secret")

	err := service.ChangeAdminCredentials(ctx, "", "longenough")
	assert.ErrorIs(t, err, domain.ErrInvalidUsername)

	err = service.ChangeAdminCredentials(ctx, "admin", "short")
	assert.ErrorIs(t, err, domain.ErrWeakPassword)

	mockCredentialRepo.AssertNotCalled(t, "SaveAdmin")

	mockCredentialRepo.On("SaveAdmin", ctx, mock.MatchedBy(func(c *domain.AdminCredential) bool {
		return c.Username == "superadmin" &&
			bcrypt.CompareHashAndPassword([]byte(c.PasswordHash), []byte("newsecret")) == nil
	})).Return(nil)

	err = service.ChangeAdminCredentials(ctx, "superadmin", "newsecret")
	assert.NoError(t, err)
	mockCredentialRepo.AssertExpectations(t)
}
