package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/pavelgrishin/worklink-backend/internal/models"
)

// TransactionRepository хранит ledger и выполняет составные денежные операции.
// Каждая операция, затрагивающая баланс и запись транзакции, выполняется
// одной SQL-транзакцией с блокировкой строки пользователя FOR UPDATE.
type TransactionRepository struct {
	db *sqlx.DB
}

func NewTransactionRepository(db *sqlx.DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

const transactionColumns = `id, type, amount, status, job_id, application_id, from_user_id,
	to_user_id, description, checkout_session_id, is_deposited, created_at, completed_at`

// GetByID возвращает транзакцию по идентификатору.
func (r *TransactionRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Transaction, error) {
	var txn models.Transaction
	err := r.db.GetContext(ctx, &txn, `SELECT `+transactionColumns+` FROM transactions WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTransactionNotFound
		}
		return nil, fmt.Errorf("transaction repository: get by id %w", err)
	}
	return &txn, nil
}

// GetBySessionID возвращает депозитную транзакцию по идентификатору checkout-сессии.
func (r *TransactionRepository) GetBySessionID(ctx context.Context, sessionID string) (*models.Transaction, error) {
	var txn models.Transaction
	err := r.db.GetContext(ctx, &txn, `
		SELECT `+transactionColumns+` FROM transactions WHERE checkout_session_id = $1
	`, sessionID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTransactionNotFound
		}
		return nil, fmt.Errorf("transaction repository: get by session id %w", err)
	}
	return &txn, nil
}

// ListByUser возвращает историю транзакций пользователя (отправленные и полученные)
// с именами контрагентов.
func (r *TransactionRepository) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.Transaction, error) {
	var txns []models.Transaction
	err := r.db.SelectContext(ctx, &txns, `
		SELECT t.id, t.type, t.amount, t.status, t.job_id, t.application_id, t.from_user_id,
			t.to_user_id, t.description, t.checkout_session_id, t.is_deposited, t.created_at, t.completed_at,
			f.username AS from_username,
			u.username AS to_username
		FROM transactions t
		JOIN users f ON f.id = t.from_user_id
		LEFT JOIN users u ON u.id = t.to_user_id
		WHERE t.from_user_id = $1 OR t.to_user_id = $1
		ORDER BY t.created_at DESC LIMIT $2 OFFSET $3
	`, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("transaction repository: list by user %w", err)
	}
	return txns, nil
}

// ListByJob возвращает транзакции вакансии.
func (r *TransactionRepository) ListByJob(ctx context.Context, jobID uuid.UUID) ([]models.Transaction, error) {
	var txns []models.Transaction
	err := r.db.SelectContext(ctx, &txns, `
		SELECT `+transactionColumns+` FROM transactions WHERE job_id = $1 ORDER BY created_at ASC
	`, jobID)
	if err != nil {
		return nil, fmt.Errorf("transaction repository: list by job %w", err)
	}
	return txns, nil
}

// CreateDeposit сохраняет pending-депозит, привязанный к checkout-сессии шлюза.
// Баланс на этом шаге не меняется.
func (r *TransactionRepository) CreateDeposit(ctx context.Context, userID uuid.UUID, amount decimal.Decimal, sessionID string) (*models.Transaction, error) {
	var txn models.Transaction
	err := r.db.GetContext(ctx, &txn, `
		INSERT INTO transactions (type, amount, status, from_user_id, description, checkout_session_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+transactionColumns,
		models.TransactionTypeDeposit, amount, models.TransactionStatusPending,
		userID, "Пополнение баланса", sessionID)
	if err != nil {
		return nil, fmt.Errorf("transaction repository: create deposit %w", err)
	}
	return &txn, nil
}

// ConfirmDeposit зачисляет оплаченный депозит. Операция идемпотентна:
// строка транзакции блокируется FOR UPDATE, повторный вызов по уже
// зачисленной сессии возвращает транзакцию без изменения баланса.
func (r *TransactionRepository) ConfirmDeposit(ctx context.Context, sessionID string) (*models.Transaction, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var txn models.Transaction
	err = tx.GetContext(ctx, &txn, `
		SELECT `+transactionColumns+` FROM transactions
		WHERE checkout_session_id = $1 FOR UPDATE
	`, sessionID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTransactionNotFound
		}
		return nil, fmt.Errorf("transaction repository: confirm deposit %w", err)
	}

	if txn.IsDeposited {
		return &txn, tx.Commit()
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE users SET balance = balance + $2, updated_at = NOW() WHERE id = $1
	`, txn.FromUserID, txn.Amount)
	if err != nil {
		return nil, fmt.Errorf("transaction repository: confirm deposit credit %w", err)
	}

	err = tx.GetContext(ctx, &txn, `
		UPDATE transactions SET status = $2, is_deposited = TRUE, completed_at = NOW()
		WHERE id = $1
		RETURNING `+transactionColumns, txn.ID, models.TransactionStatusCompleted)
	if err != nil {
		return nil, fmt.Errorf("transaction repository: confirm deposit complete %w", err)
	}

	return &txn, tx.Commit()
}

// Withdraw списывает средства с баланса и записывает завершённую
// withdraw-транзакцию. При нехватке средств возвращает ErrInsufficientFunds.
func (r *TransactionRepository) Withdraw(ctx context.Context, userID uuid.UUID, amount decimal.Decimal) (*models.Transaction, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	balance, err := lockBalance(ctx, tx, userID)
	if err != nil {
		return nil, err
	}
	if balance.LessThan(amount) {
		return nil, ErrInsufficientFunds
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE users SET balance = balance - $2, updated_at = NOW() WHERE id = $1
	`, userID, amount)
	if err != nil {
		return nil, fmt.Errorf("transaction repository: withdraw debit %w", err)
	}

	var txn models.Transaction
	err = tx.GetContext(ctx, &txn, `
		INSERT INTO transactions (type, amount, status, from_user_id, description, completed_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
		RETURNING `+transactionColumns,
		models.TransactionTypeWithdraw, amount, models.TransactionStatusCompleted,
		userID, "Вывод средств")
	if err != nil {
		return nil, fmt.Errorf("transaction repository: withdraw create transaction %w", err)
	}

	return &txn, tx.Commit()
}

// AcceptApplicationAndFundEscrow атомарно принимает отклик и резервирует
// бюджет вакансии: списывает средства нанимателя, записывает escrow-транзакцию,
// помечает отклик accepted и переводит вакансию в in_progress.
// Остальные отклики остаются в статусе pending.
func (r *TransactionRepository) AcceptApplicationAndFundEscrow(ctx context.Context, job *models.Job, app *models.Application) (*models.Transaction, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	balance, err := lockBalance(ctx, tx, job.HirerID)
	if err != nil {
		return nil, err
	}
	if balance.LessThan(job.Budget) {
		return nil, ErrInsufficientFunds
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE users SET balance = balance - $2, updated_at = NOW() WHERE id = $1
	`, job.HirerID, job.Budget)
	if err != nil {
		return nil, fmt.Errorf("transaction repository: fund escrow debit %w", err)
	}

	var txn models.Transaction
	err = tx.GetContext(ctx, &txn, `
		INSERT INTO transactions (type, amount, status, job_id, application_id, from_user_id, description, completed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
		RETURNING `+transactionColumns,
		models.TransactionTypeEscrow, job.Budget, models.TransactionStatusCompleted,
		job.ID, app.ID, job.HirerID, "Резервирование бюджета вакансии")
	if err != nil {
		return nil, fmt.Errorf("transaction repository: fund escrow create transaction %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE applications SET status = $2, updated_at = NOW() WHERE id = $1
	`, app.ID, models.ApplicationStatusAccepted)
	if err != nil {
		return nil, fmt.Errorf("transaction repository: fund escrow accept application %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE jobs SET status = $2, selected_application_id = $3, updated_at = NOW() WHERE id = $1
	`, job.ID, models.JobStatusInProgress, app.ID)
	if err != nil {
		return nil, fmt.Errorf("transaction repository: fund escrow update job %w", err)
	}

	return &txn, tx.Commit()
}

// ReleaseEscrow выплачивает зарезервированный бюджет фрилансеру.
// Требует завершённой escrow-транзакции по вакансии; повторная выплата
// отклоняется уникальным индексом по release-транзакциям.
// Вакансия в работе переводится в completed вместе с выбранным откликом;
// статус уже отменённой или завершённой вакансии не меняется.
func (r *TransactionRepository) ReleaseEscrow(ctx context.Context, jobID, adminID, freelancerID uuid.UUID) (*models.Transaction, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var escrow models.Transaction
	err = tx.GetContext(ctx, &escrow, `
		SELECT `+transactionColumns+` FROM transactions
		WHERE job_id = $1 AND type = $2 AND status = $3
		FOR UPDATE
	`, jobID, models.TransactionTypeEscrow, models.TransactionStatusCompleted)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTransactionNotFound
		}
		return nil, fmt.Errorf("transaction repository: release escrow lock %w", err)
	}

	var txn models.Transaction
	err = tx.GetContext(ctx, &txn, `
		INSERT INTO transactions (type, amount, status, job_id, application_id, from_user_id, to_user_id, description, completed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW())
		RETURNING `+transactionColumns,
		models.TransactionTypeRelease, escrow.Amount, models.TransactionStatusCompleted,
		jobID, escrow.ApplicationID, adminID, freelancerID, "Выплата за выполненную работу")
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return nil, ErrAlreadyReleased
		}
		return nil, fmt.Errorf("transaction repository: release escrow create transaction %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE users SET balance = balance + $2, updated_at = NOW() WHERE id = $1
	`, freelancerID, escrow.Amount)
	if err != nil {
		return nil, fmt.Errorf("transaction repository: release escrow credit %w", err)
	}

	res, err := tx.ExecContext(ctx, `
		UPDATE jobs SET status = $2, updated_at = NOW() WHERE id = $1 AND status = $3
	`, jobID, models.JobStatusCompleted, models.JobStatusInProgress)
	if err != nil {
		return nil, fmt.Errorf("transaction repository: release escrow complete job %w", err)
	}
	completedJob, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("transaction repository: release escrow complete job %w", err)
	}

	if completedJob > 0 && escrow.ApplicationID != nil {
		_, err = tx.ExecContext(ctx, `
			UPDATE applications SET status = $2, updated_at = NOW() WHERE id = $1
		`, *escrow.ApplicationID, models.ApplicationStatusCompleted)
		if err != nil {
			return nil, fmt.Errorf("transaction repository: release escrow complete application %w", err)
		}
	}

	return &txn, tx.Commit()
}

// HasReleaseForJob проверяет наличие выплаты по вакансии.
func (r *TransactionRepository) HasReleaseForJob(ctx context.Context, jobID uuid.UUID) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists, `
		SELECT EXISTS (SELECT 1 FROM transactions WHERE job_id = $1 AND type = $2)
	`, jobID, models.TransactionTypeRelease)
	if err != nil {
		return false, fmt.Errorf("transaction repository: has release for job %w", err)
	}
	return exists, nil
}

// HasHeldEscrowForJob проверяет, зарезервирован ли по вакансии бюджет,
// который ещё не выплачен.
func (r *TransactionRepository) HasHeldEscrowForJob(ctx context.Context, jobID uuid.UUID) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists, `
		SELECT EXISTS (
			SELECT 1 FROM transactions e
			WHERE e.job_id = $1 AND e.type = $2 AND e.status = $3
				AND NOT EXISTS (SELECT 1 FROM transactions r WHERE r.job_id = $1 AND r.type = $4)
		)
	`, jobID, models.TransactionTypeEscrow, models.TransactionStatusCompleted, models.TransactionTypeRelease)
	if err != nil {
		return false, fmt.Errorf("transaction repository: has held escrow for job %w", err)
	}
	return exists, nil
}

// GetBalance возвращает текущий баланс пользователя.
func (r *TransactionRepository) GetBalance(ctx context.Context, userID uuid.UUID) (decimal.Decimal, error) {
	var balance decimal.Decimal
	err := r.db.GetContext(ctx, &balance, `SELECT balance FROM users WHERE id = $1`, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return decimal.Zero, ErrUserNotFound
		}
		return decimal.Zero, fmt.Errorf("transaction repository: get balance %w", err)
	}
	return balance, nil
}

func lockBalance(ctx context.Context, tx *sqlx.Tx, userID uuid.UUID) (decimal.Decimal, error) {
	var balance decimal.Decimal
	err := tx.GetContext(ctx, &balance, `SELECT balance FROM users WHERE id = $1 FOR UPDATE`, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return decimal.Zero, ErrUserNotFound
		}
		return decimal.Zero, fmt.Errorf("transaction repository: lock balance %w", err)
	}
	return balance, nil
}
