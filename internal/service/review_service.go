package service

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/pavelgrishin/worklink-backend/internal/models"
	"github.com/pavelgrishin/worklink-backend/internal/pkg/apperror"
	"github.com/pavelgrishin/worklink-backend/internal/repository"
)

// ReviewStore описывает зависимости ReviewService от хранилища отзывов.
type ReviewStore interface {
	Create(ctx context.Context, review *models.Review) error
	GetByJobAndAuthor(ctx context.Context, jobID, authorID uuid.UUID) (*models.Review, error)
	ListByFreelancer(ctx context.Context, freelancerID uuid.UUID) ([]models.Review, error)
	ListByJob(ctx context.Context, jobID uuid.UUID) ([]models.Review, error)
	AverageRating(ctx context.Context, freelancerID uuid.UUID) (float64, error)
}

// ReviewJobStore — доступ к вакансиям и откликам для проверки условий отзыва.
type ReviewJobStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Job, error)
}

// ReviewApplicationStore — доступ к откликам.
type ReviewApplicationStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Application, error)
}

// ReviewLedger — проверка выплаты по вакансии.
type ReviewLedger interface {
	HasReleaseForJob(ctx context.Context, jobID uuid.UUID) (bool, error)
}

// ReviewService управляет отзывами о фрилансерах.
type ReviewService struct {
	reviews ReviewStore
	jobs    ReviewJobStore
	apps    ReviewApplicationStore
	ledger  ReviewLedger
}

func NewReviewService(reviews ReviewStore, jobs ReviewJobStore, apps ReviewApplicationStore, ledger ReviewLedger) *ReviewService {
	return &ReviewService{
		reviews: reviews,
		jobs:    jobs,
		apps:    apps,
		ledger:  ledger,
	}
}

// CreateReviewInput содержит три оценки по шкале 1–5 и комментарий.
type CreateReviewInput struct {
	JobID              uuid.UUID
	Comment            string
	ServiceAsDescribed int
	RecommendToAFriend int
	CommunicationLevel int
}

// CreateReview сохраняет отзыв о фрилансере. Отзыв доступен нанимателю
// вакансии после её завершения и выплаты: вакансия в статусе completed
// и по ней существует release-транзакция.
func (s *ReviewService) CreateReview(ctx context.Context, actor Actor, in CreateReviewInput) (*models.Review, error) {
	for _, rating := range []int{in.ServiceAsDescribed, in.RecommendToAFriend, in.CommunicationLevel} {
		if rating < 1 || rating > 5 {
			return nil, apperror.New(apperror.ErrCodeBadRequest, "оценка должна быть от 1 до 5")
		}
	}

	job, err := s.jobs.GetByID(ctx, in.JobID)
	if err != nil {
		if errors.Is(err, repository.ErrJobNotFound) {
			return nil, apperror.ErrJobNotFound
		}
		return nil, err
	}
	if job.HirerID != actor.ID {
		return nil, apperror.ErrForbidden
	}
	if job.Status != models.JobStatusCompleted {
		return nil, apperror.New(apperror.ErrCodeInvalidTransition, "отзыв доступен после завершения вакансии")
	}
	if job.SelectedApplicationID == nil {
		return nil, apperror.New(apperror.ErrCodeInvalidTransition, "по вакансии не было выбранного исполнителя")
	}

	released, err := s.ledger.HasReleaseForJob(ctx, in.JobID)
	if err != nil {
		return nil, err
	}
	if !released {
		return nil, apperror.New(apperror.ErrCodeInvalidTransaction, "отзыв доступен после выплаты исполнителю")
	}

	app, err := s.apps.GetByID(ctx, *job.SelectedApplicationID)
	if err != nil {
		if errors.Is(err, repository.ErrApplicationNotFound) {
			return nil, apperror.ErrApplicationNotFound
		}
		return nil, err
	}

	review := &models.Review{
		JobID:              in.JobID,
		FreelancerID:       app.FreelancerID,
		AuthorID:           actor.ID,
		Comment:            in.Comment,
		ServiceAsDescribed: in.ServiceAsDescribed,
		RecommendToAFriend: in.RecommendToAFriend,
		CommunicationLevel: in.CommunicationLevel,
	}
	if err := s.reviews.Create(ctx, review); err != nil {
		if errors.Is(err, repository.ErrReviewExists) {
			return nil, apperror.New(apperror.ErrCodeConflict, "отзыв по этой вакансии уже оставлен")
		}
		return nil, err
	}
	return review, nil
}

// ListFreelancerReviews возвращает отзывы о фрилансере.
func (s *ReviewService) ListFreelancerReviews(ctx context.Context, freelancerID uuid.UUID) ([]models.Review, error) {
	return s.reviews.ListByFreelancer(ctx, freelancerID)
}

// ListJobReviews возвращает отзывы по вакансии.
func (s *ReviewService) ListJobReviews(ctx context.Context, jobID uuid.UUID) ([]models.Review, error) {
	if _, err := s.jobs.GetByID(ctx, jobID); err != nil {
		if errors.Is(err, repository.ErrJobNotFound) {
			return nil, apperror.ErrJobNotFound
		}
		return nil, err
	}
	return s.reviews.ListByJob(ctx, jobID)
}

// FreelancerRating возвращает среднюю оценку фрилансера.
func (s *ReviewService) FreelancerRating(ctx context.Context, freelancerID uuid.UUID) (float64, error) {
	return s.reviews.AverageRating(ctx, freelancerID)
}
