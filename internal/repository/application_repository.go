package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/pavelgrishin/worklink-backend/internal/models"
)

type ApplicationRepository struct {
	db *sqlx.DB
}

func NewApplicationRepository(db *sqlx.DB) *ApplicationRepository {
	return &ApplicationRepository{db: db}
}

const applicationColumns = `id, job_id, freelancer_id, proposal, proposed_rate, status, created_at, updated_at`

// Create сохраняет новый отклик. Повторный отклик того же фрилансера
// на ту же вакансию отклоняется уникальным индексом.
func (r *ApplicationRepository) Create(ctx context.Context, app *models.Application) error {
	query := `
		INSERT INTO applications (job_id, freelancer_id, proposal, proposed_rate, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + applicationColumns
	err := r.db.GetContext(ctx, app, query,
		app.JobID, app.FreelancerID, app.Proposal, app.ProposedRate, models.ApplicationStatusPending)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return ErrDuplicateApplication
		}
		return fmt.Errorf("application repository: create %w", err)
	}
	return nil
}

// GetByID возвращает отклик по идентификатору.
func (r *ApplicationRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Application, error) {
	var app models.Application
	err := r.db.GetContext(ctx, &app, `SELECT `+applicationColumns+` FROM applications WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrApplicationNotFound
		}
		return nil, fmt.Errorf("application repository: get by id %w", err)
	}
	return &app, nil
}

// ListByJob возвращает отклики на вакансию с именами соискателей.
func (r *ApplicationRepository) ListByJob(ctx context.Context, jobID uuid.UUID) ([]models.Application, error) {
	var apps []models.Application
	err := r.db.SelectContext(ctx, &apps, `
		SELECT a.id, a.job_id, a.freelancer_id, a.proposal, a.proposed_rate, a.status,
			a.created_at, a.updated_at,
			u.username AS applicant_name
		FROM applications a
		JOIN users u ON u.id = a.freelancer_id
		WHERE a.job_id = $1
		ORDER BY a.created_at ASC
	`, jobID)
	if err != nil {
		return nil, fmt.Errorf("application repository: list by job %w", err)
	}
	return apps, nil
}

// ListByFreelancer возвращает отклики фрилансера.
func (r *ApplicationRepository) ListByFreelancer(ctx context.Context, freelancerID uuid.UUID) ([]models.Application, error) {
	var apps []models.Application
	err := r.db.SelectContext(ctx, &apps, `
		SELECT `+applicationColumns+` FROM applications
		WHERE freelancer_id = $1 ORDER BY created_at DESC
	`, freelancerID)
	if err != nil {
		return nil, fmt.Errorf("application repository: list by freelancer %w", err)
	}
	return apps, nil
}

// GetByJobAndFreelancer возвращает отклик конкретного фрилансера на вакансию.
func (r *ApplicationRepository) GetByJobAndFreelancer(ctx context.Context, jobID, freelancerID uuid.UUID) (*models.Application, error) {
	var app models.Application
	err := r.db.GetContext(ctx, &app, `
		SELECT `+applicationColumns+` FROM applications
		WHERE job_id = $1 AND freelancer_id = $2
	`, jobID, freelancerID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrApplicationNotFound
		}
		return nil, fmt.Errorf("application repository: get by job and freelancer %w", err)
	}
	return &app, nil
}

// UpdateStatus меняет статус отклика.
func (r *ApplicationRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE applications SET status = $2, updated_at = NOW() WHERE id = $1
	`, id, status)
	if err != nil {
		return fmt.Errorf("application repository: update status %w", err)
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return ErrApplicationNotFound
	}
	return nil
}
