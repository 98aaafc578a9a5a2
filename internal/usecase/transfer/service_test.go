package transfer

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/snibank/snibank-backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
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

// MockTransferRepository is a mock implementation of TransferRepository for testing
type MockTransferRepository struct {
	mock.Mock
}

func (m *MockTransferRepository) Create(ctx context.Context, transfer *domain.Transfer) error {
	args := m.Called(ctx, transfer)
	return args.Error(0)
}

func (m *MockTransferRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Transfer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transfer), args.Error(1)
}

func (m *MockTransferRepository) ListPending(ctx context.Context) ([]*domain.Transfer, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Transfer), args.Error(1)
}

func (m *MockTransferRepository) Resolve(ctx context.Context, id uuid.UUID, status domain.TransferStatus) (*domain.Transfer, error) {
	args := m.Called(ctx, id, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transfer), args.Error(1)
}

func majorAccount(accNo string, balance int64) *domain.Account {
	return &domain.Account{
		AccNo:       accNo,
		Name:        "Test Holder",
		Age:         30,
		AccountType: domain.AccountTypeMajor,
		Balance:     decimal.NewFromInt(balance),
	}
}

func TestSubmit_StandardFlow(t *testing.T) {
	ctx := context.Background()
	mockAccountRepo := new(MockAccountRepository)
	mockTransferRepo := new(MockTransferRepository)

	service := NewTransferService(mockAccountRepo, mockTransferRepo)

	mockAccountRepo.On("GetByAccNo", ctx, "50001").Return(majorAccount("50001", 5000), nil)
	mockAccountRepo.On("GetByAccNo", ctx, "50002").Return(majorAccount("50002", 2000), nil)

	mockTransferRepo.On("Create", ctx, mock.MatchedBy(func(tr *domain.Transfer) bool {
		return tr.Sender == "50001" &&
			tr.Recipient == "50002" &&
			tr.Amount.Equal(decimal.NewFromInt(500)) &&
			tr.Status == domain.TransferStatusPending &&
			tr.ResolvedAt == nil
	})).Return(nil)

	result, err := service.Submit(ctx, SubmitTransferInput{
		Sender:    "50001",
		Recipient: "50002",
		Amount:    decimal.NewFromInt(500),
	})

	assert.NoError(t, err)
	assert.NotNil(t, result)
	assert.Equal(t, domain.TransferStatusPending, result.Status)
	assert.NotEqual(t, uuid.Nil, result.ID)

	mockAccountRepo.AssertExpectations(t)
	mockTransferRepo.AssertExpectations(t)
}

func TestSubmit_InvalidAmount(t *testing.T) {
	ctx := context.Background()
	mockAccountRepo := new(MockAccountRepository)
	mockTransferRepo := new(MockTransferRepository)

	service := NewTransferService(mockAccountRepo, mockTransferRepo)

	result, err := service.Submit(ctx, SubmitTransferInput{
		Sender:    "50001",
		Recipient: "50002",
		Amount:    decimal.Zero,
	})

	assert.Nil(t, result)
	assert.ErrorIs(t, err, domain.ErrInvalidAmount)

	// A bad request must never touch the repositories
	mockAccountRepo.AssertNotCalled(t, "GetByAccNo")
	mockTransferRepo.AssertNotCalled(t, "Create")
}

func TestSubmit_SameAccount(t *testing.T) {
	ctx := context.Background()
	mockAccountRepo := new(MockAccountRepository)
	mockTransferRepo := new(MockTransferRepository)

	service := NewTransferService(mockAccountRepo, mockTransferRepo)

	result, err := service.Submit(ctx, SubmitTransferInput{
		Sender:    "50001",
		Recipient: "50001",
		Amount:    decimal.NewFromInt(100),
	})

	assert.Nil(t, result)
	assert.ErrorIs(t, err, domain.ErrSameAccount)
	mockTransferRepo.AssertNotCalled(t, "Create")
}

func TestSubmit_RecipientNotFound(t *testing.T) {
	ctx := context.Background()
	mockAccountRepo := new(MockAccountRepository)
	mockTransferRepo := new(MockTransferRepository)

	service := NewTransferService(mockAccountRepo, mockTransferRepo)

	mockAccountRepo.On("GetByAccNo", ctx, "50001").Return(majorAccount("50001", 5000), nil)
	mockAccountRepo.On("GetByAccNo", ctx, "99999").Return(nil, domain.ErrAccountNotFound)

	result, err := service.Submit(ctx, SubmitTransferInput{
		Sender:    "50001",
		Recipient: "99999",
		Amount:    decimal.NewFromInt(100),
	})

	assert.Nil(t, result)
	assert.ErrorIs(t, err, domain.ErrAccountNotFound)
	mockTransferRepo.AssertNotCalled(t, "Create")
}

func TestSubmit_InsufficientFunds(t *testing.T) {
	ctx := context.Background()
	mockAccountRepo := new(MockAccountRepository)
	mockTransferRepo := new(MockTransferRepository)

	service := NewTransferService(mockAccountRepo, mockTransferRepo)

	// Balance 100 cannot cover a 150 transfer
	mockAccountRepo.On("GetByAccNo", ctx, "50001").Return(majorAccount("50001", 100), nil)
	mockAccountRepo.On("GetByAccNo", ctx, "50002").Return(majorAccount("50002", 0), nil)

	result, err := service.Submit(ctx, SubmitTransferInput{
		Sender:    "50001",
		Recipient: "50002",
		Amount:    decimal.NewFromInt(150),
	})

	assert.Nil(t, result)
	assert.ErrorIs(t, err, domain.ErrInsufficientFunds)
	mockTransferRepo.AssertNotCalled(t, "Create")
}

func TestApprove_PassesThroughResolve(t *testing.T) {
	ctx := context.Background()
	mockAccountRepo := new(MockAccountRepository)
	mockTransferRepo := new(MockTransferRepository)

	service := NewTransferService(mockAccountRepo, mockTransferRepo)

	id := uuid.New()
	now := time.Now()
	approved := &domain.Transfer{
		ID:         id,
		Sender:     "50001",
		Recipient:  "50002",
		Amount:     decimal.NewFromInt(200),
		Status:     domain.TransferStatusApproved,
		ResolvedAt: &now,
	}
	mockTransferRepo.On("Resolve", ctx, id, domain.TransferStatusApproved).Return(approved, nil)

	result, err := service.Approve(ctx, id)

	assert.NoError(t, err)
	assert.Equal(t, domain.TransferStatusApproved, result.Status)
	mockTransferRepo.AssertExpectations(t)
}

func TestApprove_InsufficientAtApproval(t *testing.T) {
	ctx := context.Background()
	mockAccountRepo := new(MockAccountRepository)
	mockTransferRepo := new(MockTransferRepository)

	service := NewTransferService(mockAccountRepo, mockTransferRepo)

	id := uuid.New()
	rejected := &domain.Transfer{ID: id, Status: domain.TransferStatusRejected}
	mockTransferRepo.On("Resolve", ctx, id, domain.TransferStatusApproved).
		Return(rejected, domain.ErrInsufficientFundsAtApproval)

	result, err := service.Approve(ctx, id)

	assert.ErrorIs(t, err, domain.ErrInsufficientFundsAtApproval)
	assert.Equal(t, domain.TransferStatusRejected, result.Status)
}

func TestReject_Idempotent(t *testing.T) {
	ctx := context.Background()
	mockAccountRepo := new(MockAccountRepository)
	mockTransferRepo := new(MockTransferRepository)

	service := NewTransferService(mockAccountRepo, mockTransferRepo)

	// Rejecting a transfer that is already REJECTED reports success
	id := uuid.New()
	rejected := &domain.Transfer{ID: id, Status: domain.TransferStatusRejected}
	mockTransferRepo.On("Resolve", ctx, id, domain.TransferStatusRejected).
		Return(rejected, domain.ErrAlreadyResolved)

	result, err := service.Reject(ctx, id)

	assert.NoError(t, err)
	assert.Equal(t, domain.TransferStatusRejected, result.Status)
}

func TestReject_ApprovedTransferFails(t *testing.T) {
	ctx := context.Background()
	mockAccountRepo := new(MockAccountRepository)
	mockTransferRepo := new(MockTransferRepository)

	service := NewTransferService(mockAccountRepo, mockTransferRepo)

	// An APPROVED transfer cannot flip to REJECTED
	id := uuid.New()
	approved := &domain.Transfer{ID: id, Status: domain.TransferStatusApproved}
	mockTransferRepo.On("Resolve", ctx, id, domain.TransferStatusRejected).
		Return(approved, domain.ErrAlreadyResolved)

	result, err := service.Reject(ctx, id)

	assert.ErrorIs(t, err, domain.ErrAlreadyResolved)
	assert.Equal(t, domain.TransferStatusApproved, result.Status)
}

func TestListPending(t *testing.T) {
	ctx := context.Background()
	mockAccountRepo := new(MockAccountRepository)
	mockTransferRepo := new(MockTransferRepository)

	service := NewTransferService(mockAccountRepo, mockTransferRepo)

	pending := []*domain.Transfer{
		{ID: uuid.New(), Status: domain.TransferStatusPending},
		{ID: uuid.New(), Status: domain.TransferStatusPending},
	}
	mockTransferRepo.On("ListPending", ctx).Return(pending, nil)

	result, err := service.ListPending(ctx)

	assert.NoError(t, err)
	assert.Len(t, result, 2)
	mockTransferRepo.AssertExpectations(t)
}
