package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

// User описывает пользователя платформы. Роль назначается в два этапа:
// при регистрации создаётся пользователь с ролью unassigned, затем роль
// подтверждается отдельным запросом. Баланс изменяется только ledger-операциями
// (escrow, release, deposit, withdraw), напрямую из пользовательского ввода не меняется.
type User struct {
	ID           uuid.UUID       `db:"id" json:"id"`
	Email        string          `db:"email" json:"email"`
	Username     string          `db:"username" json:"username"`
	Fullname     string          `db:"fullname" json:"fullname"`
	PasswordHash string          `db:"password_hash" json:"-"`
	Role         string          `db:"role" json:"role"`
	Balance      decimal.Decimal `db:"balance" json:"balance"`
	IsActive     bool            `db:"is_active" json:"is_active"`
	Profession   *string         `db:"profession" json:"profession,omitempty"`
	Experience   *string         `db:"experience" json:"experience,omitempty"`
	Skills       pq.StringArray  `db:"skills" json:"skills"`
	CompanyName  *string         `db:"company_name" json:"company_name,omitempty"`
	PhotoURL     *string         `db:"photo_url" json:"photo_url,omitempty"`
	LastLoginAt  *time.Time      `db:"last_login_at" json:"last_login_at,omitempty"`
	CreatedAt    time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time       `db:"updated_at" json:"updated_at"`
}

// Session представляет сохранённую сессию пользователя.
type Session struct {
	ID           uuid.UUID `db:"id" json:"id"`
	UserID       uuid.UUID `db:"user_id" json:"user_id"`
	RefreshToken string    `db:"refresh_token" json:"refresh_token"`
	UserAgent    *string   `db:"user_agent" json:"user_agent,omitempty"`
	IPAddress    *string   `db:"ip_address" json:"ip_address,omitempty"`
	ExpiresAt    time.Time `db:"expires_at" json:"expires_at"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}
