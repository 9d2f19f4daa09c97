package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/pavelgrishin/worklink-backend/internal/gateway"
	"github.com/pavelgrishin/worklink-backend/internal/http/middleware"
	"github.com/pavelgrishin/worklink-backend/internal/models"
	"github.com/pavelgrishin/worklink-backend/internal/service"
)

// stubPaymentLedger — фиксированные ответы для тестов хендлеров.
type stubPaymentLedger struct {
	balance decimal.Decimal
}

func (s *stubPaymentLedger) CreateDeposit(ctx context.Context, userID uuid.UUID, amount decimal.Decimal, sessionID string) (*models.Transaction, error) {
	return &models.Transaction{ID: uuid.New(), Type: models.TransactionTypeDeposit, Amount: amount}, nil
}

func (s *stubPaymentLedger) ConfirmDeposit(ctx context.Context, sessionID string) (*models.Transaction, error) {
	return &models.Transaction{ID: uuid.New(), Status: models.TransactionStatusCompleted}, nil
}

func (s *stubPaymentLedger) GetBySessionID(ctx context.Context, sessionID string) (*models.Transaction, error) {
	return &models.Transaction{ID: uuid.New()}, nil
}

func (s *stubPaymentLedger) Withdraw(ctx context.Context, userID uuid.UUID, amount decimal.Decimal) (*models.Transaction, error) {
	return &models.Transaction{ID: uuid.New(), Type: models.TransactionTypeWithdraw, Amount: amount}, nil
}

func (s *stubPaymentLedger) GetBalance(ctx context.Context, userID uuid.UUID) (decimal.Decimal, error) {
	return s.balance, nil
}

func (s *stubPaymentLedger) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.Transaction, error) {
	return []models.Transaction{}, nil
}

type stubCheckoutGateway struct{}

func (s *stubCheckoutGateway) CreateSession(ctx context.Context, amount decimal.Decimal, successURL, cancelURL string) (*gateway.Session, error) {
	return &gateway.Session{ID: "cs_stub", URL: "https://checkout.example.com/cs_stub"}, nil
}

func (s *stubCheckoutGateway) GetSession(ctx context.Context, sessionID string) (*gateway.Session, error) {
	return &gateway.Session{ID: sessionID, PaymentStatus: gateway.PaymentStatusPaid}, nil
}

func newPaymentHandlerForTest(balance decimal.Decimal) *PaymentHandler {
	payments := service.NewPaymentService(&stubPaymentLedger{balance: balance}, &stubCheckoutGateway{}, "https://app.example.com")
	return &PaymentHandler{payments: payments}
}

func asActor(userID uuid.UUID, role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.ContextUserIDKey, userID)
		c.Set(middleware.ContextRoleKey, role)
		c.Next()
	}
}

func TestPaymentHandler_GetBalance_Unauthorized(t *testing.T) {
	r := gin.New()
	r.Use(middleware.ErrorHandler())
	handler := newPaymentHandlerForTest(decimal.Zero)
	r.GET("/payments/balance", handler.GetBalance)

	req, _ := http.NewRequest(http.MethodGet, "/payments/balance", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestPaymentHandler_GetBalance_Success(t *testing.T) {
	r := gin.New()
	r.Use(middleware.ErrorHandler())
	handler := newPaymentHandlerForTest(decimal.NewFromFloat(1234.5))
	r.GET("/payments/balance", asActor(uuid.New(), models.RoleHirer), handler.GetBalance)

	req, _ := http.NewRequest(http.MethodGet, "/payments/balance", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"1234.50"`)
}

func TestPaymentHandler_InitiateDeposit_Success(t *testing.T) {
	r := gin.New()
	r.Use(middleware.ErrorHandler())
	handler := newPaymentHandlerForTest(decimal.Zero)
	r.POST("/payments/deposit", asActor(uuid.New(), models.RoleHirer), handler.InitiateDeposit)

	body := strings.NewReader(`{"amount": "500"}`)
	req, _ := http.NewRequest(http.MethodPost, "/payments/deposit", body)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), "https://checkout.example.com/cs_stub")
}

func TestPaymentHandler_InitiateDeposit_ForbiddenForFreelancer(t *testing.T) {
	r := gin.New()
	r.Use(middleware.ErrorHandler())
	handler := newPaymentHandlerForTest(decimal.Zero)
	r.POST("/payments/deposit", asActor(uuid.New(), models.RoleFreelancer), handler.InitiateDeposit)

	body := strings.NewReader(`{"amount": "500"}`)
	req, _ := http.NewRequest(http.MethodPost, "/payments/deposit", body)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestPaymentHandler_InitiateDeposit_InvalidBody(t *testing.T) {
	r := gin.New()
	r.Use(middleware.ErrorHandler())
	handler := newPaymentHandlerForTest(decimal.Zero)
	r.POST("/payments/deposit", asActor(uuid.New(), models.RoleHirer), handler.InitiateDeposit)

	body := strings.NewReader(`{"amount": "-10"}`)
	req, _ := http.NewRequest(http.MethodPost, "/payments/deposit", body)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPaymentHandler_InitiateDeposit_MalformedAmount(t *testing.T) {
	r := gin.New()
	r.Use(middleware.ErrorHandler())
	handler := newPaymentHandlerForTest(decimal.Zero)
	r.POST("/payments/deposit", asActor(uuid.New(), models.RoleHirer), handler.InitiateDeposit)

	// Число вместо десятичной строки и нечисловая строка отклоняются.
	for _, body := range []string{`{"amount": 500}`, `{"amount": "пятьсот"}`} {
		req, _ := http.NewRequest(http.MethodPost, "/payments/deposit", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code, body)
	}
}

func TestPaymentHandler_ListJobTransactions_InvalidJobID(t *testing.T) {
	r := gin.New()
	r.Use(middleware.ErrorHandler())
	handler := &PaymentHandler{}
	r.GET("/jobs/:id/transactions", handler.ListJobTransactions)

	req, _ := http.NewRequest(http.MethodGet, "/jobs/not-a-uuid/transactions", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPaymentHandler_ReleaseEscrow_Unauthorized(t *testing.T) {
	r := gin.New()
	r.Use(middleware.ErrorHandler())
	handler := &PaymentHandler{}
	r.POST("/payments/escrow/release", handler.ReleaseEscrow)

	req, _ := http.NewRequest(http.MethodPost, "/payments/escrow/release", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
