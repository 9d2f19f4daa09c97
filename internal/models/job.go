package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

// Job описывает вакансию, размещённую нанимателем.
// SelectedApplicationID заполняется при принятии отклика и после этого
// ссылается только на отклик со статусом accepted или completed этой же вакансии.
type Job struct {
	ID                    uuid.UUID       `db:"id" json:"id"`
	HirerID               uuid.UUID       `db:"hirer_id" json:"hirer_id"`
	Title                 string          `db:"title" json:"title"`
	Description           string          `db:"description" json:"description"`
	Budget                decimal.Decimal `db:"budget" json:"budget"`
	RequiredSkills        pq.StringArray  `db:"required_skills" json:"required_skills"`
	Deadline              string          `db:"deadline" json:"deadline"`
	Status                string          `db:"status" json:"status"`
	SelectedApplicationID *uuid.UUID      `db:"selected_application_id" json:"selected_application_id,omitempty"`
	CreatedAt             time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt             time.Time       `db:"updated_at" json:"updated_at"`

	// Заполняются на чтении, в таблице jobs не хранятся.
	Bookmarked *bool       `db:"bookmarked" json:"bookmarked,omitempty"`
	HirerName  *string     `db:"hirer_name" json:"hirer_name,omitempty"`
	Media      []MediaFile `json:"media,omitempty"`
}

// Bookmark связывает пользователя и сохранённую им вакансию.
type Bookmark struct {
	ID        uuid.UUID `db:"id" json:"id"`
	UserID    uuid.UUID `db:"user_id" json:"user_id"`
	JobID     uuid.UUID `db:"job_id" json:"job_id"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
