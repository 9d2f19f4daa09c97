package models

import (
	"time"

	"github.com/google/uuid"
)

// Назначение медиафайла.
const (
	MediaKindJob    = "job"
	MediaKindResume = "resume"
)

// MediaFile описывает загруженный файл: изображение вакансии или резюме фрилансера.
type MediaFile struct {
	ID        uuid.UUID  `db:"id" json:"id"`
	Kind      string     `db:"kind" json:"kind"`
	JobID     *uuid.UUID `db:"job_id" json:"job_id,omitempty"`
	UserID    *uuid.UUID `db:"user_id" json:"user_id,omitempty"`
	Path      string     `db:"path" json:"-"`
	Format    string     `db:"format" json:"format"`
	URL       string     `db:"-" json:"url,omitempty"`
	CreatedAt time.Time  `db:"created_at" json:"created_at"`
}
