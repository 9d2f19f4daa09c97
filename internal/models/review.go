package models

import (
	"time"

	"github.com/google/uuid"
)

// Review описывает отзыв о фрилансере после завершения вакансии.
// Отзыв можно оставить только когда вакансия завершена и по ней
// существует release-транзакция (оплата выплачена фрилансеру).
type Review struct {
	ID                 uuid.UUID `db:"id" json:"id"`
	JobID              uuid.UUID `db:"job_id" json:"job_id"`
	FreelancerID       uuid.UUID `db:"freelancer_id" json:"freelancer_id"`
	AuthorID           uuid.UUID `db:"author_id" json:"author_id"`
	Comment            string    `db:"comment" json:"comment"`
	ServiceAsDescribed int       `db:"service_as_described" json:"service_as_described"`
	RecommendToAFriend int       `db:"recommend_to_a_friend" json:"recommend_to_a_friend"`
	CommunicationLevel int       `db:"communication_level" json:"communication_level"`
	CreatedAt          time.Time `db:"created_at" json:"created_at"`

	AuthorName *string `db:"author_name" json:"author_name,omitempty"`
}
