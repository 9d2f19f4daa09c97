package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Application представляет отклик фрилансера на вакансию.
// Пара (job_id, freelancer_id) уникальна: повторный отклик на ту же вакансию невозможен.
type Application struct {
	ID           uuid.UUID       `db:"id" json:"id"`
	JobID        uuid.UUID       `db:"job_id" json:"job_id"`
	FreelancerID uuid.UUID       `db:"freelancer_id" json:"freelancer_id"`
	Proposal     string          `db:"proposal" json:"proposal"`
	ProposedRate decimal.Decimal `db:"proposed_rate" json:"proposed_rate"`
	Status       string          `db:"status" json:"status"`
	CreatedAt    time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time       `db:"updated_at" json:"updated_at"`

	// Заполняется на чтении для списков откликов.
	ApplicantName *string `db:"applicant_name" json:"applicant_name,omitempty"`
}
