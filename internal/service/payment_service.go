package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/pavelgrishin/worklink-backend/internal/gateway"
	"github.com/pavelgrishin/worklink-backend/internal/logger"
	"github.com/pavelgrishin/worklink-backend/internal/models"
	"github.com/pavelgrishin/worklink-backend/internal/pkg/apperror"
	"github.com/pavelgrishin/worklink-backend/internal/repository"
)

// PaymentLedger — операции ledger, которые использует PaymentService.
type PaymentLedger interface {
	CreateDeposit(ctx context.Context, userID uuid.UUID, amount decimal.Decimal, sessionID string) (*models.Transaction, error)
	ConfirmDeposit(ctx context.Context, sessionID string) (*models.Transaction, error)
	GetBySessionID(ctx context.Context, sessionID string) (*models.Transaction, error)
	Withdraw(ctx context.Context, userID uuid.UUID, amount decimal.Decimal) (*models.Transaction, error)
	GetBalance(ctx context.Context, userID uuid.UUID) (decimal.Decimal, error)
	ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.Transaction, error)
}

// CheckoutGateway — внешний платёжный шлюз.
type CheckoutGateway interface {
	CreateSession(ctx context.Context, amount decimal.Decimal, successURL, cancelURL string) (*gateway.Session, error)
	GetSession(ctx context.Context, sessionID string) (*gateway.Session, error)
}

// PaymentService отвечает за пополнение через checkout-сессии и вывод средств.
type PaymentService struct {
	ledger     PaymentLedger
	gateway    CheckoutGateway
	hostingURL string
}

func NewPaymentService(ledger PaymentLedger, gw CheckoutGateway, hostingURL string) *PaymentService {
	return &PaymentService{
		ledger:     ledger,
		gateway:    gw,
		hostingURL: hostingURL,
	}
}

// DepositIntent — результат инициирования депозита.
type DepositIntent struct {
	Transaction *models.Transaction `json:"transaction"`
	RedirectURL string              `json:"redirect_url"`
}

// InitiateDeposit создаёт checkout-сессию шлюза и pending-транзакцию депозита.
// Сессия создаётся до записи в БД: если шлюз недоступен, ledger не меняется.
// Доступно только нанимателю. Сумма не точнее двух знаков, иначе шлюз,
// принимающий минимальные единицы валюты, спишет не то, что записано в ledger.
func (s *PaymentService) InitiateDeposit(ctx context.Context, actor Actor, amount decimal.Decimal) (*DepositIntent, error) {
	if actor.Role != models.RoleHirer {
		return nil, apperror.New(apperror.ErrCodeForbiddenRole, "пополнять баланс может только наниматель")
	}
	if err := validateAmount(amount); err != nil {
		return nil, err
	}

	session, err := s.gateway.CreateSession(ctx, amount,
		s.hostingURL+"/payments/success?session_id={CHECKOUT_SESSION_ID}",
		s.hostingURL+"/payments/cancel")
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeGatewayError, "платёжный шлюз недоступен")
	}

	txn, err := s.ledger.CreateDeposit(ctx, actor.ID, amount, session.ID)
	if err != nil {
		return nil, err
	}

	return &DepositIntent{Transaction: txn, RedirectURL: session.URL}, nil
}

// ConfirmDeposit сверяет оплату у шлюза и зачисляет депозит.
// Неоплаченная сессия не меняет состояние. Повторный вызов по уже
// зачисленной сессии возвращает транзакцию без повторного зачисления.
func (s *PaymentService) ConfirmDeposit(ctx context.Context, sessionID string) (*models.Transaction, error) {
	if _, err := s.ledger.GetBySessionID(ctx, sessionID); err != nil {
		if errors.Is(err, repository.ErrTransactionNotFound) {
			return nil, apperror.ErrTransactionNotFound
		}
		return nil, err
	}

	session, err := s.gateway.GetSession(ctx, sessionID)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeGatewayError, "платёжный шлюз недоступен")
	}
	if session.PaymentStatus != gateway.PaymentStatusPaid {
		return nil, apperror.New(apperror.ErrCodeInvalidTransaction, "оплата ещё не поступила")
	}

	txn, err := s.ledger.ConfirmDeposit(ctx, sessionID)
	if err != nil {
		if errors.Is(err, repository.ErrTransactionNotFound) {
			return nil, apperror.ErrTransactionNotFound
		}
		return nil, err
	}

	logger.Log.WithFields(map[string]interface{}{
		"session_id": sessionID,
		"user_id":    txn.FromUserID,
		"amount":     txn.Amount,
	}).Info("payment service: депозит зачислен")

	return txn, nil
}

// Withdraw списывает средства с баланса фрилансера.
func (s *PaymentService) Withdraw(ctx context.Context, actor Actor, amount decimal.Decimal) (*models.Transaction, error) {
	if actor.Role != models.RoleFreelancer {
		return nil, apperror.New(apperror.ErrCodeForbiddenRole, "выводить средства может только фрилансер")
	}
	if err := validateAmount(amount); err != nil {
		return nil, err
	}

	txn, err := s.ledger.Withdraw(ctx, actor.ID, amount)
	if err != nil {
		if errors.Is(err, repository.ErrInsufficientFunds) {
			return nil, apperror.ErrInsufficientFunds
		}
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, apperror.ErrUserNotFound
		}
		return nil, err
	}
	return txn, nil
}

// GetBalance возвращает текущий баланс пользователя.
func (s *PaymentService) GetBalance(ctx context.Context, userID uuid.UUID) (decimal.Decimal, error) {
	balance, err := s.ledger.GetBalance(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return decimal.Zero, apperror.ErrUserNotFound
		}
		return decimal.Zero, err
	}
	return balance, nil
}

func validateAmount(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return apperror.New(apperror.ErrCodeBadRequest, "сумма должна быть положительной")
	}
	if !amount.Equal(amount.Round(2)) {
		return apperror.New(apperror.ErrCodeBadRequest, "сумма указывается с точностью до двух знаков")
	}
	return nil
}

// ListTransactions возвращает историю транзакций пользователя.
func (s *PaymentService) ListTransactions(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.Transaction, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.ledger.ListByUser(ctx, userID, limit, offset)
}
