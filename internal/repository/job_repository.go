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

type JobRepository struct {
	db *sqlx.DB
}

func NewJobRepository(db *sqlx.DB) *JobRepository {
	return &JobRepository{db: db}
}

const jobColumns = `id, hirer_id, title, description, budget, required_skills, deadline,
	status, selected_application_id, created_at, updated_at`

// Create сохраняет новую вакансию со статусом open.
func (r *JobRepository) Create(ctx context.Context, job *models.Job) error {
	query := `
		INSERT INTO jobs (hirer_id, title, description, budget, required_skills, deadline, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + jobColumns
	err := r.db.GetContext(ctx, job, query,
		job.HirerID, job.Title, job.Description, job.Budget,
		pq.Array(job.RequiredSkills), job.Deadline, models.JobStatusOpen)
	if err != nil {
		return fmt.Errorf("job repository: create %w", err)
	}
	return nil
}

// GetByID возвращает вакансию по идентификатору.
func (r *JobRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Job, error) {
	var job models.Job
	err := r.db.GetContext(ctx, &job, `SELECT `+jobColumns+` FROM jobs WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrJobNotFound
		}
		return nil, fmt.Errorf("job repository: get by id %w", err)
	}
	return &job, nil
}

// List возвращает вакансии с отметкой о закладке текущего пользователя и именем нанимателя.
// При непустом search фильтрует по заголовку.
func (r *JobRepository) List(ctx context.Context, viewerID uuid.UUID, search string) ([]models.Job, error) {
	var jobs []models.Job
	query := `
		SELECT j.id, j.hirer_id, j.title, j.description, j.budget, j.required_skills,
			j.deadline, j.status, j.selected_application_id, j.created_at, j.updated_at,
			(b.id IS NOT NULL) AS bookmarked,
			u.username AS hirer_name
		FROM jobs j
		JOIN users u ON u.id = j.hirer_id
		LEFT JOIN user_bookmarks b ON b.job_id = j.id AND b.user_id = $1
		WHERE ($2 = '' OR j.title ILIKE '%' || $2 || '%')
		ORDER BY j.created_at DESC
	`
	if err := r.db.SelectContext(ctx, &jobs, query, viewerID, search); err != nil {
		return nil, fmt.Errorf("job repository: list %w", err)
	}
	return jobs, nil
}

// ListByHirer возвращает вакансии нанимателя.
func (r *JobRepository) ListByHirer(ctx context.Context, hirerID uuid.UUID) ([]models.Job, error) {
	var jobs []models.Job
	err := r.db.SelectContext(ctx, &jobs, `
		SELECT `+jobColumns+` FROM jobs WHERE hirer_id = $1 ORDER BY created_at DESC
	`, hirerID)
	if err != nil {
		return nil, fmt.Errorf("job repository: list by hirer %w", err)
	}
	return jobs, nil
}

// ListByStatus возвращает вакансии с указанным статусом.
func (r *JobRepository) ListByStatus(ctx context.Context, status string) ([]models.Job, error) {
	var jobs []models.Job
	err := r.db.SelectContext(ctx, &jobs, `
		SELECT `+jobColumns+` FROM jobs WHERE status = $1 ORDER BY created_at DESC
	`, status)
	if err != nil {
		return nil, fmt.Errorf("job repository: list by status %w", err)
	}
	return jobs, nil
}

// UpdateTitle переименовывает вакансию.
func (r *JobRepository) UpdateTitle(ctx context.Context, jobID uuid.UUID, title string) error {
	return r.patch(ctx, jobID, `UPDATE jobs SET title = $2, updated_at = NOW() WHERE id = $1`, title)
}

// UpdateDescription обновляет описание вакансии.
func (r *JobRepository) UpdateDescription(ctx context.Context, jobID uuid.UUID, description string) error {
	return r.patch(ctx, jobID, `UPDATE jobs SET description = $2, updated_at = NOW() WHERE id = $1`, description)
}

// UpdateBudget устанавливает новый бюджет вакансии.
func (r *JobRepository) UpdateBudget(ctx context.Context, jobID uuid.UUID, budget decimal.Decimal) error {
	return r.patch(ctx, jobID, `UPDATE jobs SET budget = $2, updated_at = NOW() WHERE id = $1`, budget)
}

// UpdateDeadline устанавливает новый дедлайн вакансии.
func (r *JobRepository) UpdateDeadline(ctx context.Context, jobID uuid.UUID, deadline string) error {
	return r.patch(ctx, jobID, `UPDATE jobs SET deadline = $2, updated_at = NOW() WHERE id = $1`, deadline)
}

// UpdateSkills заменяет список требуемых навыков.
func (r *JobRepository) UpdateSkills(ctx context.Context, jobID uuid.UUID, skills []string) error {
	return r.patch(ctx, jobID, `UPDATE jobs SET required_skills = $2, updated_at = NOW() WHERE id = $1`, pq.Array(skills))
}

func (r *JobRepository) patch(ctx context.Context, jobID uuid.UUID, query string, arg interface{}) error {
	res, err := r.db.ExecContext(ctx, query, jobID, arg)
	if err != nil {
		return fmt.Errorf("job repository: update %w", err)
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return ErrJobNotFound
	}
	return nil
}

// Transition переводит вакансию в завершённое состояние и каскадно обновляет
// выбранный отклик: completed → отклик completed, cancelled → отклик rejected.
// Выполняется одной транзакцией.
func (r *JobRepository) Transition(ctx context.Context, jobID uuid.UUID, newStatus string) (*models.Job, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var job models.Job
	err = tx.GetContext(ctx, &job, `
		UPDATE jobs SET status = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING `+jobColumns, jobID, newStatus)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrJobNotFound
		}
		return nil, fmt.Errorf("job repository: transition %w", err)
	}

	if job.SelectedApplicationID != nil {
		applicationStatus := models.ApplicationStatusCompleted
		if newStatus == models.JobStatusCancelled {
			applicationStatus = models.ApplicationStatusRejected
		}
		_, err = tx.ExecContext(ctx, `
			UPDATE applications SET status = $2, updated_at = NOW() WHERE id = $1
		`, *job.SelectedApplicationID, applicationStatus)
		if err != nil {
			return nil, fmt.Errorf("job repository: transition cascade %w", err)
		}
	}

	return &job, tx.Commit()
}

// Delete удаляет вакансию; закладки, отклики и записи медиафайлов удаляются каскадно по FK.
func (r *JobRepository) Delete(ctx context.Context, jobID uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM jobs WHERE id = $1`, jobID)
	if err != nil {
		return fmt.Errorf("job repository: delete %w", err)
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return ErrJobNotFound
	}
	return nil
}

// ToggleBookmark добавляет или снимает закладку и возвращает итоговое состояние.
func (r *JobRepository) ToggleBookmark(ctx context.Context, userID, jobID uuid.UUID) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
		DELETE FROM user_bookmarks WHERE user_id = $1 AND job_id = $2
	`, userID, jobID)
	if err != nil {
		return false, fmt.Errorf("job repository: toggle bookmark %w", err)
	}
	if affected, _ := res.RowsAffected(); affected > 0 {
		return false, nil
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO user_bookmarks (user_id, job_id) VALUES ($1, $2)
	`, userID, jobID)
	if err != nil {
		return false, fmt.Errorf("job repository: toggle bookmark %w", err)
	}
	return true, nil
}

// ListBookmarked возвращает вакансии, сохранённые пользователем.
func (r *JobRepository) ListBookmarked(ctx context.Context, userID uuid.UUID) ([]models.Job, error) {
	var jobs []models.Job
	err := r.db.SelectContext(ctx, &jobs, `
		SELECT j.id, j.hirer_id, j.title, j.description, j.budget, j.required_skills,
			j.deadline, j.status, j.selected_application_id, j.created_at, j.updated_at,
			TRUE AS bookmarked,
			u.username AS hirer_name
		FROM jobs j
		JOIN user_bookmarks b ON b.job_id = j.id
		JOIN users u ON u.id = j.hirer_id
		WHERE b.user_id = $1
		ORDER BY b.created_at DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("job repository: list bookmarked %w", err)
	}
	return jobs, nil
}
