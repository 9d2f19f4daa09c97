package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Типы транзакций
const (
	TransactionTypeDeposit  = "deposit"
	TransactionTypeEscrow   = "escrow"
	TransactionTypeRelease  = "release"
	TransactionTypeWithdraw = "withdraw"
)

// Статусы транзакций
const (
	TransactionStatusPending   = "pending"
	TransactionStatusCompleted = "completed"
	TransactionStatusFailed    = "failed"
	TransactionStatusDisputed  = "disputed"
)

// Transaction представляет запись в ledger. FromUserID обязателен
// (наниматель для deposit/escrow, админ для release, фрилансер для withdraw),
// ToUserID заполняется только для release. CheckoutSessionID и IsDeposited
// используются для депозитов через внешний платёжный шлюз: IsDeposited
// гарантирует, что баланс по одной checkout-сессии будет зачислен не более одного раза.
type Transaction struct {
	ID                uuid.UUID       `db:"id" json:"id"`
	Type              string          `db:"type" json:"type"`
	Amount            decimal.Decimal `db:"amount" json:"amount"`
	Status            string          `db:"status" json:"status"`
	JobID             *uuid.UUID      `db:"job_id" json:"job_id,omitempty"`
	ApplicationID     *uuid.UUID      `db:"application_id" json:"application_id,omitempty"`
	FromUserID        uuid.UUID       `db:"from_user_id" json:"from_user_id"`
	ToUserID          *uuid.UUID      `db:"to_user_id" json:"to_user_id,omitempty"`
	Description       *string         `db:"description" json:"description,omitempty"`
	CheckoutSessionID *string         `db:"checkout_session_id" json:"checkout_session_id,omitempty"`
	IsDeposited       bool            `db:"is_deposited" json:"is_deposited"`
	CreatedAt         time.Time       `db:"created_at" json:"created_at"`
	CompletedAt       *time.Time      `db:"completed_at" json:"completed_at,omitempty"`

	// Заполняются на чтении для истории транзакций.
	FromUsername *string `db:"from_username" json:"from,omitempty"`
	ToUsername   *string `db:"to_username" json:"to,omitempty"`
}
