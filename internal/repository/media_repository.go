package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/pavelgrishin/worklink-backend/internal/models"
)

type MediaRepository struct {
	db *sqlx.DB
}

func NewMediaRepository(db *sqlx.DB) *MediaRepository {
	return &MediaRepository{db: db}
}

const mediaColumns = `id, kind, job_id, user_id, path, format, created_at`

// Create сохраняет запись о загруженном файле.
func (r *MediaRepository) Create(ctx context.Context, media *models.MediaFile) error {
	query := `
		INSERT INTO media_files (kind, job_id, user_id, path, format)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`
	row := r.db.QueryRowxContext(ctx, query, media.Kind, media.JobID, media.UserID, media.Path, media.Format)
	if err := row.Scan(&media.ID, &media.CreatedAt); err != nil {
		return fmt.Errorf("media repository: create %w", err)
	}
	return nil
}

// GetByID возвращает запись медиафайла.
func (r *MediaRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.MediaFile, error) {
	var media models.MediaFile
	err := r.db.GetContext(ctx, &media, `SELECT `+mediaColumns+` FROM media_files WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMediaNotFound
		}
		return nil, fmt.Errorf("media repository: get by id %w", err)
	}
	return &media, nil
}

// ListByJob возвращает файлы вакансии.
func (r *MediaRepository) ListByJob(ctx context.Context, jobID uuid.UUID) ([]models.MediaFile, error) {
	var files []models.MediaFile
	err := r.db.SelectContext(ctx, &files, `
		SELECT `+mediaColumns+` FROM media_files WHERE job_id = $1 ORDER BY created_at ASC
	`, jobID)
	if err != nil {
		return nil, fmt.Errorf("media repository: list by job %w", err)
	}
	return files, nil
}

// ListByUser возвращает файлы пользователя указанного назначения.
func (r *MediaRepository) ListByUser(ctx context.Context, userID uuid.UUID, kind string) ([]models.MediaFile, error) {
	var files []models.MediaFile
	err := r.db.SelectContext(ctx, &files, `
		SELECT `+mediaColumns+` FROM media_files
		WHERE user_id = $1 AND kind = $2 ORDER BY created_at ASC
	`, userID, kind)
	if err != nil {
		return nil, fmt.Errorf("media repository: list by user %w", err)
	}
	return files, nil
}

// Delete удаляет запись медиафайла.
func (r *MediaRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM media_files WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("media repository: delete %w", err)
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return ErrMediaNotFound
	}
	return nil
}
