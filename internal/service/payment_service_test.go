package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/pavelgrishin/worklink-backend/internal/gateway"
	"github.com/pavelgrishin/worklink-backend/internal/models"
	"github.com/pavelgrishin/worklink-backend/internal/pkg/apperror"
	"github.com/pavelgrishin/worklink-backend/internal/repository"
)

type mockPaymentLedger struct {
	mock.Mock
}

func (m *mockPaymentLedger) CreateDeposit(ctx context.Context, userID uuid.UUID, amount decimal.Decimal, sessionID string) (*models.Transaction, error) {
	args := m.Called(ctx, userID, amount, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Transaction), args.Error(1)
}

func (m *mockPaymentLedger) ConfirmDeposit(ctx context.Context, sessionID string) (*models.Transaction, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Transaction), args.Error(1)
}

func (m *mockPaymentLedger) GetBySessionID(ctx context.Context, sessionID string) (*models.Transaction, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Transaction), args.Error(1)
}

func (m *mockPaymentLedger) Withdraw(ctx context.Context, userID uuid.UUID, amount decimal.Decimal) (*models.Transaction, error) {
	args := m.Called(ctx, userID, amount)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Transaction), args.Error(1)
}

func (m *mockPaymentLedger) GetBalance(ctx context.Context, userID uuid.UUID) (decimal.Decimal, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *mockPaymentLedger) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.Transaction, error) {
	args := m.Called(ctx, userID, limit, offset)
	return args.Get(0).([]models.Transaction), args.Error(1)
}

type mockCheckoutGateway struct {
	mock.Mock
}

func (m *mockCheckoutGateway) CreateSession(ctx context.Context, amount decimal.Decimal, successURL, cancelURL string) (*gateway.Session, error) {
	args := m.Called(ctx, amount, successURL, cancelURL)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*gateway.Session), args.Error(1)
}

func (m *mockCheckoutGateway) GetSession(ctx context.Context, sessionID string) (*gateway.Session, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*gateway.Session), args.Error(1)
}

func TestPaymentService_InitiateDeposit_Success(t *testing.T) {
	ledger := new(mockPaymentLedger)
	gw := new(mockCheckoutGateway)
	svc := NewPaymentService(ledger, gw, "https://app.example.com")
	ctx := context.Background()

	hirer := Actor{ID: uuid.New(), Role: models.RoleHirer}
	amount := decimal.NewFromInt(1000)

	session := &gateway.Session{ID: "cs_test_123", URL: "https://checkout.example.com/cs_test_123"}
	gw.On("CreateSession", ctx, amount,
		"https://app.example.com/payments/success?session_id={CHECKOUT_SESSION_ID}",
		"https://app.example.com/payments/cancel").Return(session, nil)

	txn := &models.Transaction{ID: uuid.New(), Type: models.TransactionTypeDeposit, Status: models.TransactionStatusPending}
	ledger.On("CreateDeposit", ctx, hirer.ID, amount, "cs_test_123").Return(txn, nil)

	intent, err := svc.InitiateDeposit(ctx, hirer, amount)
	assert.NoError(t, err)
	assert.Equal(t, "https://checkout.example.com/cs_test_123", intent.RedirectURL)
	assert.Equal(t, txn, intent.Transaction)
	ledger.AssertExpectations(t)
	gw.AssertExpectations(t)
}

func TestPaymentService_InitiateDeposit_OnlyHirer(t *testing.T) {
	svc := NewPaymentService(new(mockPaymentLedger), new(mockCheckoutGateway), "https://app.example.com")

	freelancer := Actor{ID: uuid.New(), Role: models.RoleFreelancer}
	_, err := svc.InitiateDeposit(context.Background(), freelancer, decimal.NewFromInt(100))
	assert.Error(t, err)
	assert.Equal(t, apperror.ErrCodeForbiddenRole, apperror.CodeOf(err))
}

func TestPaymentService_InitiateDeposit_InvalidAmount(t *testing.T) {
	svc := NewPaymentService(new(mockPaymentLedger), new(mockCheckoutGateway), "https://app.example.com")
	hirer := Actor{ID: uuid.New(), Role: models.RoleHirer}

	_, err := svc.InitiateDeposit(context.Background(), hirer, decimal.Zero)
	assert.Error(t, err)
	assert.Equal(t, apperror.ErrCodeBadRequest, apperror.CodeOf(err))

	_, err = svc.InitiateDeposit(context.Background(), hirer, decimal.NewFromInt(-50))
	assert.Error(t, err)
}

func TestPaymentService_InitiateDeposit_SubCentAmount(t *testing.T) {
	ledger := new(mockPaymentLedger)
	gw := new(mockCheckoutGateway)
	svc := NewPaymentService(ledger, gw, "https://app.example.com")
	hirer := Actor{ID: uuid.New(), Role: models.RoleHirer}

	// Доли цента шлюз молча обрезал бы, поэтому такая сумма отклоняется сразу.
	_, err := svc.InitiateDeposit(context.Background(), hirer, decimal.RequireFromString("10.999"))
	assert.Error(t, err)
	assert.Equal(t, apperror.ErrCodeBadRequest, apperror.CodeOf(err))
	gw.AssertNotCalled(t, "CreateSession", mock.Anything, mock.Anything, mock.Anything, mock.Anything)

	// Ровно два знака проходят.
	session := &gateway.Session{ID: "cs_cents", URL: "https://checkout.example.com/cs_cents"}
	gw.On("CreateSession", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(session, nil)
	ledger.On("CreateDeposit", mock.Anything, hirer.ID, decimal.RequireFromString("10.99"), "cs_cents").
		Return(&models.Transaction{ID: uuid.New()}, nil)

	_, err = svc.InitiateDeposit(context.Background(), hirer, decimal.RequireFromString("10.99"))
	assert.NoError(t, err)
}

func TestPaymentService_Withdraw_SubCentAmount(t *testing.T) {
	ledger := new(mockPaymentLedger)
	svc := NewPaymentService(ledger, new(mockCheckoutGateway), "https://app.example.com")
	freelancer := Actor{ID: uuid.New(), Role: models.RoleFreelancer}

	_, err := svc.Withdraw(context.Background(), freelancer, decimal.RequireFromString("0.001"))
	assert.Error(t, err)
	assert.Equal(t, apperror.ErrCodeBadRequest, apperror.CodeOf(err))
	ledger.AssertNotCalled(t, "Withdraw", mock.Anything, mock.Anything, mock.Anything)
}

func TestPaymentService_InitiateDeposit_GatewayDown(t *testing.T) {
	ledger := new(mockPaymentLedger)
	gw := new(mockCheckoutGateway)
	svc := NewPaymentService(ledger, gw, "https://app.example.com")
	ctx := context.Background()

	hirer := Actor{ID: uuid.New(), Role: models.RoleHirer}
	gw.On("CreateSession", ctx, mock.Anything, mock.Anything, mock.Anything).Return(nil, errors.New("connection refused"))

	_, err := svc.InitiateDeposit(ctx, hirer, decimal.NewFromInt(500))
	assert.Error(t, err)
	assert.Equal(t, apperror.ErrCodeGatewayError, apperror.CodeOf(err))
	// Сбой шлюза не должен оставлять pending-транзакций в ledger.
	ledger.AssertNotCalled(t, "CreateDeposit", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestPaymentService_ConfirmDeposit_Success(t *testing.T) {
	ledger := new(mockPaymentLedger)
	gw := new(mockCheckoutGateway)
	svc := NewPaymentService(ledger, gw, "https://app.example.com")
	ctx := context.Background()

	sessionID := "cs_test_456"
	pending := &models.Transaction{ID: uuid.New(), Status: models.TransactionStatusPending}
	completed := &models.Transaction{ID: pending.ID, Status: models.TransactionStatusCompleted, IsDeposited: true}

	ledger.On("GetBySessionID", ctx, sessionID).Return(pending, nil)
	gw.On("GetSession", ctx, sessionID).Return(&gateway.Session{ID: sessionID, PaymentStatus: gateway.PaymentStatusPaid}, nil)
	ledger.On("ConfirmDeposit", ctx, sessionID).Return(completed, nil)

	txn, err := svc.ConfirmDeposit(ctx, sessionID)
	assert.NoError(t, err)
	assert.True(t, txn.IsDeposited)
	ledger.AssertExpectations(t)
}

func TestPaymentService_ConfirmDeposit_Unpaid(t *testing.T) {
	ledger := new(mockPaymentLedger)
	gw := new(mockCheckoutGateway)
	svc := NewPaymentService(ledger, gw, "https://app.example.com")
	ctx := context.Background()

	sessionID := "cs_test_789"
	ledger.On("GetBySessionID", ctx, sessionID).Return(&models.Transaction{ID: uuid.New()}, nil)
	gw.On("GetSession", ctx, sessionID).Return(&gateway.Session{ID: sessionID, PaymentStatus: gateway.PaymentStatusUnpaid}, nil)

	_, err := svc.ConfirmDeposit(ctx, sessionID)
	assert.Error(t, err)
	assert.Equal(t, apperror.ErrCodeInvalidTransaction, apperror.CodeOf(err))
	// Неоплаченная сессия не зачисляется.
	ledger.AssertNotCalled(t, "ConfirmDeposit", mock.Anything, mock.Anything)
}

func TestPaymentService_ConfirmDeposit_UnknownSession(t *testing.T) {
	ledger := new(mockPaymentLedger)
	gw := new(mockCheckoutGateway)
	svc := NewPaymentService(ledger, gw, "https://app.example.com")
	ctx := context.Background()

	ledger.On("GetBySessionID", ctx, "cs_missing").Return(nil, repository.ErrTransactionNotFound)

	_, err := svc.ConfirmDeposit(ctx, "cs_missing")
	assert.Error(t, err)
	assert.Equal(t, apperror.ErrCodeNotFound, apperror.CodeOf(err))
	gw.AssertNotCalled(t, "GetSession", mock.Anything, mock.Anything)
}

func TestPaymentService_Withdraw_Success(t *testing.T) {
	ledger := new(mockPaymentLedger)
	svc := NewPaymentService(ledger, new(mockCheckoutGateway), "https://app.example.com")
	ctx := context.Background()

	freelancer := Actor{ID: uuid.New(), Role: models.RoleFreelancer}
	amount := decimal.NewFromInt(300)

	expected := &models.Transaction{ID: uuid.New(), Type: models.TransactionTypeWithdraw, Amount: amount}
	ledger.On("Withdraw", ctx, freelancer.ID, amount).Return(expected, nil)

	txn, err := svc.Withdraw(ctx, freelancer, amount)
	assert.NoError(t, err)
	assert.Equal(t, expected, txn)
}

func TestPaymentService_Withdraw_OnlyFreelancer(t *testing.T) {
	svc := NewPaymentService(new(mockPaymentLedger), new(mockCheckoutGateway), "https://app.example.com")

	hirer := Actor{ID: uuid.New(), Role: models.RoleHirer}
	_, err := svc.Withdraw(context.Background(), hirer, decimal.NewFromInt(100))
	assert.Error(t, err)
	assert.Equal(t, apperror.ErrCodeForbiddenRole, apperror.CodeOf(err))
}

func TestPaymentService_Withdraw_InsufficientFunds(t *testing.T) {
	ledger := new(mockPaymentLedger)
	svc := NewPaymentService(ledger, new(mockCheckoutGateway), "https://app.example.com")
	ctx := context.Background()

	freelancer := Actor{ID: uuid.New(), Role: models.RoleFreelancer}
	amount := decimal.NewFromInt(100000)
	ledger.On("Withdraw", ctx, freelancer.ID, amount).Return(nil, repository.ErrInsufficientFunds)

	_, err := svc.Withdraw(ctx, freelancer, amount)
	assert.Error(t, err)
	assert.Equal(t, apperror.ErrCodeInsufficientFunds, apperror.CodeOf(err))
}

func TestPaymentService_GetBalance(t *testing.T) {
	ledger := new(mockPaymentLedger)
	svc := NewPaymentService(ledger, new(mockCheckoutGateway), "https://app.example.com")
	ctx := context.Background()
	userID := uuid.New()

	ledger.On("GetBalance", ctx, userID).Return(decimal.NewFromInt(1500), nil)

	balance, err := svc.GetBalance(ctx, userID)
	assert.NoError(t, err)
	assert.True(t, balance.Equal(decimal.NewFromInt(1500)))
}

func TestPaymentService_ListTransactions_DefaultLimit(t *testing.T) {
	ledger := new(mockPaymentLedger)
	svc := NewPaymentService(ledger, new(mockCheckoutGateway), "https://app.example.com")
	ctx := context.Background()
	userID := uuid.New()

	ledger.On("ListByUser", ctx, userID, 20, 0).Return([]models.Transaction{}, nil)

	_, err := svc.ListTransactions(ctx, userID, 0, -5)
	assert.NoError(t, err)
	ledger.AssertExpectations(t)
}
