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

type ReviewRepository struct {
	db *sqlx.DB
}

func NewReviewRepository(db *sqlx.DB) *ReviewRepository {
	return &ReviewRepository{db: db}
}

// Create сохраняет отзыв. Повторный отзыв того же автора по той же вакансии
// отклоняется уникальным индексом.
func (r *ReviewRepository) Create(ctx context.Context, review *models.Review) error {
	query := `
		INSERT INTO reviews (job_id, freelancer_id, author_id, comment,
			service_as_described, recommend_to_a_friend, communication_level)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at
	`
	row := r.db.QueryRowxContext(ctx, query,
		review.JobID, review.FreelancerID, review.AuthorID, review.Comment,
		review.ServiceAsDescribed, review.RecommendToAFriend, review.CommunicationLevel)
	if err := row.Scan(&review.ID, &review.CreatedAt); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return ErrReviewExists
		}
		return fmt.Errorf("review repository: create %w", err)
	}
	return nil
}

// GetByJobAndAuthor возвращает отзыв автора по вакансии.
func (r *ReviewRepository) GetByJobAndAuthor(ctx context.Context, jobID, authorID uuid.UUID) (*models.Review, error) {
	var review models.Review
	err := r.db.GetContext(ctx, &review, `
		SELECT id, job_id, freelancer_id, author_id, comment,
			service_as_described, recommend_to_a_friend, communication_level, created_at
		FROM reviews WHERE job_id = $1 AND author_id = $2
	`, jobID, authorID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrReviewNotFound
		}
		return nil, fmt.Errorf("review repository: get by job and author %w", err)
	}
	return &review, nil
}

// ListByFreelancer возвращает отзывы о фрилансере с именами авторов.
func (r *ReviewRepository) ListByFreelancer(ctx context.Context, freelancerID uuid.UUID) ([]models.Review, error) {
	var reviews []models.Review
	err := r.db.SelectContext(ctx, &reviews, `
		SELECT r.id, r.job_id, r.freelancer_id, r.author_id, r.comment,
			r.service_as_described, r.recommend_to_a_friend, r.communication_level, r.created_at,
			u.username AS author_name
		FROM reviews r
		JOIN users u ON u.id = r.author_id
		WHERE r.freelancer_id = $1
		ORDER BY r.created_at DESC
	`, freelancerID)
	if err != nil {
		return nil, fmt.Errorf("review repository: list by freelancer %w", err)
	}
	return reviews, nil
}

// ListByJob возвращает отзывы по вакансии.
func (r *ReviewRepository) ListByJob(ctx context.Context, jobID uuid.UUID) ([]models.Review, error) {
	var reviews []models.Review
	err := r.db.SelectContext(ctx, &reviews, `
		SELECT r.id, r.job_id, r.freelancer_id, r.author_id, r.comment,
			r.service_as_described, r.recommend_to_a_friend, r.communication_level, r.created_at,
			u.username AS author_name
		FROM reviews r
		JOIN users u ON u.id = r.author_id
		WHERE r.job_id = $1
		ORDER BY r.created_at DESC
	`, jobID)
	if err != nil {
		return nil, fmt.Errorf("review repository: list by job %w", err)
	}
	return reviews, nil
}

// AverageRating возвращает среднюю оценку фрилансера по трём критериям.
func (r *ReviewRepository) AverageRating(ctx context.Context, freelancerID uuid.UUID) (float64, error) {
	var avg sql.NullFloat64
	err := r.db.GetContext(ctx, &avg, `
		SELECT AVG((service_as_described + recommend_to_a_friend + communication_level) / 3.0)
		FROM reviews WHERE freelancer_id = $1
	`, freelancerID)
	if err != nil {
		return 0, fmt.Errorf("review repository: average rating %w", err)
	}
	return avg.Float64, nil
}
