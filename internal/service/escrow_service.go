package service

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/pavelgrishin/worklink-backend/internal/logger"
	"github.com/pavelgrishin/worklink-backend/internal/models"
	"github.com/pavelgrishin/worklink-backend/internal/pkg/apperror"
	"github.com/pavelgrishin/worklink-backend/internal/repository"
)

// EscrowLedger — операции ledger, которые использует EscrowService.
type EscrowLedger interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Transaction, error)
	ReleaseEscrow(ctx context.Context, jobID, adminID, freelancerID uuid.UUID) (*models.Transaction, error)
	HasReleaseForJob(ctx context.Context, jobID uuid.UUID) (bool, error)
	ListByJob(ctx context.Context, jobID uuid.UUID) ([]models.Transaction, error)
}

// EscrowService выполняет выплату зарезервированного бюджета.
// Резервирование (escrow) происходит при принятии отклика, см. JobService.
type EscrowService struct {
	ledger EscrowLedger
}

func NewEscrowService(ledger EscrowLedger) *EscrowService {
	return &EscrowService{ledger: ledger}
}

// ReleaseEscrow выплачивает средства escrow-транзакции фрилансеру.
// Доступно только администратору. Транзакция должна быть завершённой
// escrow-транзакцией; повторная выплата по той же вакансии невозможна.
// Вакансия в работе переводится в completed; отменённая остаётся отменённой.
func (s *EscrowService) ReleaseEscrow(ctx context.Context, actor Actor, transactionID, freelancerID uuid.UUID) (*models.Transaction, error) {
	if actor.Role != models.RoleAdmin {
		return nil, apperror.New(apperror.ErrCodeForbidden, "выплату может выполнить только администратор")
	}

	escrow, err := s.ledger.GetByID(ctx, transactionID)
	if err != nil {
		if errors.Is(err, repository.ErrTransactionNotFound) {
			return nil, apperror.ErrTransactionNotFound
		}
		return nil, err
	}
	if escrow.Type != models.TransactionTypeEscrow || escrow.Status != models.TransactionStatusCompleted {
		return nil, apperror.New(apperror.ErrCodeInvalidTransaction, "транзакция не является завершённым escrow")
	}
	if escrow.JobID == nil {
		return nil, apperror.New(apperror.ErrCodeInvalidTransaction, "escrow-транзакция не привязана к вакансии")
	}

	released, err := s.ledger.HasReleaseForJob(ctx, *escrow.JobID)
	if err != nil {
		return nil, err
	}
	if released {
		return nil, apperror.New(apperror.ErrCodeInvalidTransaction, "выплата по этой вакансии уже выполнена")
	}

	txn, err := s.ledger.ReleaseEscrow(ctx, *escrow.JobID, actor.ID, freelancerID)
	if err != nil {
		if errors.Is(err, repository.ErrAlreadyReleased) {
			return nil, apperror.New(apperror.ErrCodeInvalidTransaction, "выплата по этой вакансии уже выполнена")
		}
		if errors.Is(err, repository.ErrTransactionNotFound) {
			return nil, apperror.ErrTransactionNotFound
		}
		return nil, err
	}

	logger.Log.WithFields(map[string]interface{}{
		"job_id":        *escrow.JobID,
		"freelancer_id": freelancerID,
		"amount":        txn.Amount,
	}).Info("escrow service: выплата выполнена")

	return txn, nil
}

// ListJobTransactions возвращает транзакции вакансии.
func (s *EscrowService) ListJobTransactions(ctx context.Context, jobID uuid.UUID) ([]models.Transaction, error) {
	return s.ledger.ListByJob(ctx, jobID)
}
