package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/pavelgrishin/worklink-backend/internal/logger"
	"github.com/pavelgrishin/worklink-backend/internal/models"
	"github.com/pavelgrishin/worklink-backend/internal/pkg/apperror"
	"github.com/pavelgrishin/worklink-backend/internal/repository"
)

// Actor — аутентифицированный пользователь запроса. Заполняется из JWT
// в middleware и передаётся явным параметром, глобального состояния нет.
type Actor struct {
	ID   uuid.UUID
	Role string
}

// JobStore описывает зависимости JobService от хранилища вакансий.
type JobStore interface {
	Create(ctx context.Context, job *models.Job) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Job, error)
	List(ctx context.Context, viewerID uuid.UUID, search string) ([]models.Job, error)
	ListByHirer(ctx context.Context, hirerID uuid.UUID) ([]models.Job, error)
	ListByStatus(ctx context.Context, status string) ([]models.Job, error)
	ListBookmarked(ctx context.Context, userID uuid.UUID) ([]models.Job, error)
	UpdateTitle(ctx context.Context, jobID uuid.UUID, title string) error
	UpdateDescription(ctx context.Context, jobID uuid.UUID, description string) error
	UpdateBudget(ctx context.Context, jobID uuid.UUID, budget decimal.Decimal) error
	UpdateDeadline(ctx context.Context, jobID uuid.UUID, deadline string) error
	UpdateSkills(ctx context.Context, jobID uuid.UUID, skills []string) error
	Transition(ctx context.Context, jobID uuid.UUID, newStatus string) (*models.Job, error)
	Delete(ctx context.Context, jobID uuid.UUID) error
	ToggleBookmark(ctx context.Context, userID, jobID uuid.UUID) (bool, error)
}

// ApplicationStore описывает зависимости JobService от хранилища откликов.
type ApplicationStore interface {
	Create(ctx context.Context, app *models.Application) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Application, error)
	ListByJob(ctx context.Context, jobID uuid.UUID) ([]models.Application, error)
	ListByFreelancer(ctx context.Context, freelancerID uuid.UUID) ([]models.Application, error)
	GetByJobAndFreelancer(ctx context.Context, jobID, freelancerID uuid.UUID) (*models.Application, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) error
}

// JobLedger — денежные операции, затрагивающие вакансии.
type JobLedger interface {
	AcceptApplicationAndFundEscrow(ctx context.Context, job *models.Job, app *models.Application) (*models.Transaction, error)
	HasHeldEscrowForJob(ctx context.Context, jobID uuid.UUID) (bool, error)
}

// JobMediaStore — записи файлов вакансии, удаляемые вместе с ней.
type JobMediaStore interface {
	ListByJob(ctx context.Context, jobID uuid.UUID) ([]models.MediaFile, error)
}

// FileRemover удаляет файл из дискового хранилища.
type FileRemover interface {
	Remove(path string) error
}

// JobService реализует жизненный цикл вакансии и отклика.
type JobService struct {
	jobs    JobStore
	apps    ApplicationStore
	ledger  JobLedger
	media   JobMediaStore
	storage FileRemover
}

func NewJobService(jobs JobStore, apps ApplicationStore, ledger JobLedger, media JobMediaStore, storage FileRemover) *JobService {
	return &JobService{
		jobs:    jobs,
		apps:    apps,
		ledger:  ledger,
		media:   media,
		storage: storage,
	}
}

// CreateJobInput содержит атрибуты новой вакансии.
type CreateJobInput struct {
	Title          string
	Description    string
	Budget         decimal.Decimal
	RequiredSkills []string
	Deadline       string
}

// CreateJob создаёт вакансию. Доступно только нанимателю.
func (s *JobService) CreateJob(ctx context.Context, actor Actor, in CreateJobInput) (*models.Job, error) {
	if actor.Role != models.RoleHirer {
		return nil, apperror.New(apperror.ErrCodeForbiddenRole, "создавать вакансии может только наниматель")
	}
	if in.Title == "" {
		return nil, apperror.New(apperror.ErrCodeBadRequest, "заголовок обязателен")
	}
	if !in.Budget.IsPositive() {
		return nil, apperror.New(apperror.ErrCodeBadRequest, "бюджет должен быть положительным")
	}

	job := &models.Job{
		HirerID:        actor.ID,
		Title:          in.Title,
		Description:    in.Description,
		Budget:         in.Budget,
		RequiredSkills: in.RequiredSkills,
		Deadline:       in.Deadline,
	}
	if err := s.jobs.Create(ctx, job); err != nil {
		return nil, err
	}
	return job, nil
}

// GetJob возвращает вакансию с её файлами.
func (s *JobService) GetJob(ctx context.Context, jobID uuid.UUID) (*models.Job, error) {
	job, err := s.jobs.GetByID(ctx, jobID)
	if err != nil {
		if errors.Is(err, repository.ErrJobNotFound) {
			return nil, apperror.ErrJobNotFound
		}
		return nil, err
	}
	media, err := s.media.ListByJob(ctx, jobID)
	if err != nil {
		return nil, err
	}
	job.Media = media
	return job, nil
}

// ListJobs возвращает вакансии с поиском по заголовку.
func (s *JobService) ListJobs(ctx context.Context, actor Actor, search string) ([]models.Job, error) {
	return s.jobs.List(ctx, actor.ID, search)
}

// ListMyJobs возвращает вакансии нанимателя.
func (s *JobService) ListMyJobs(ctx context.Context, actor Actor) ([]models.Job, error) {
	return s.jobs.ListByHirer(ctx, actor.ID)
}

// ListJobsByStatus возвращает вакансии с указанным статусом.
func (s *JobService) ListJobsByStatus(ctx context.Context, status string) ([]models.Job, error) {
	if _, ok := models.ValidJobStatuses[status]; !ok {
		return nil, apperror.New(apperror.ErrCodeBadRequest, "неизвестный статус вакансии")
	}
	return s.jobs.ListByStatus(ctx, status)
}

// ListBookmarkedJobs возвращает сохранённые вакансии пользователя.
func (s *JobService) ListBookmarkedJobs(ctx context.Context, actor Actor) ([]models.Job, error) {
	return s.jobs.ListBookmarked(ctx, actor.ID)
}

// ToggleBookmark переключает закладку на вакансии.
func (s *JobService) ToggleBookmark(ctx context.Context, actor Actor, jobID uuid.UUID) (bool, error) {
	if _, err := s.jobs.GetByID(ctx, jobID); err != nil {
		if errors.Is(err, repository.ErrJobNotFound) {
			return false, apperror.ErrJobNotFound
		}
		return false, err
	}
	return s.jobs.ToggleBookmark(ctx, actor.ID, jobID)
}

// RenameJob меняет заголовок вакансии.
func (s *JobService) RenameJob(ctx context.Context, actor Actor, jobID uuid.UUID, title string) error {
	if title == "" {
		return apperror.New(apperror.ErrCodeBadRequest, "заголовок обязателен")
	}
	if _, err := s.ownedOpenJob(ctx, actor, jobID); err != nil {
		return err
	}
	return s.jobs.UpdateTitle(ctx, jobID, title)
}

// SetJobDescription меняет описание вакансии.
func (s *JobService) SetJobDescription(ctx context.Context, actor Actor, jobID uuid.UUID, description string) error {
	if _, err := s.ownedOpenJob(ctx, actor, jobID); err != nil {
		return err
	}
	return s.jobs.UpdateDescription(ctx, jobID, description)
}

// SetJobBudget меняет бюджет вакансии. Разрешено только пока вакансия открыта:
// после принятия отклика бюджет зафиксирован escrow-транзакцией.
func (s *JobService) SetJobBudget(ctx context.Context, actor Actor, jobID uuid.UUID, budget decimal.Decimal) error {
	if !budget.IsPositive() {
		return apperror.New(apperror.ErrCodeBadRequest, "бюджет должен быть положительным")
	}
	if _, err := s.ownedOpenJob(ctx, actor, jobID); err != nil {
		return err
	}
	return s.jobs.UpdateBudget(ctx, jobID, budget)
}

// SetJobDeadline меняет дедлайн вакансии.
func (s *JobService) SetJobDeadline(ctx context.Context, actor Actor, jobID uuid.UUID, deadline string) error {
	if _, err := s.ownedOpenJob(ctx, actor, jobID); err != nil {
		return err
	}
	return s.jobs.UpdateDeadline(ctx, jobID, deadline)
}

// SetJobSkills меняет требуемые навыки вакансии.
func (s *JobService) SetJobSkills(ctx context.Context, actor Actor, jobID uuid.UUID, skills []string) error {
	if _, err := s.ownedOpenJob(ctx, actor, jobID); err != nil {
		return err
	}
	return s.jobs.UpdateSkills(ctx, jobID, skills)
}

// CreateApplication создаёт отклик фрилансера на открытую вакансию.
func (s *JobService) CreateApplication(ctx context.Context, actor Actor, jobID uuid.UUID, proposal string, rate decimal.Decimal) (*models.Application, error) {
	if actor.Role != models.RoleFreelancer {
		return nil, apperror.New(apperror.ErrCodeForbiddenRole, "откликаться могут только фрилансеры")
	}
	if !rate.IsPositive() {
		return nil, apperror.New(apperror.ErrCodeBadRequest, "ставка должна быть положительной")
	}

	job, err := s.jobs.GetByID(ctx, jobID)
	if err != nil {
		if errors.Is(err, repository.ErrJobNotFound) {
			return nil, apperror.ErrJobNotFound
		}
		return nil, err
	}
	if job.Status != models.JobStatusOpen {
		return nil, apperror.New(apperror.ErrCodeInvalidTransition, "вакансия не принимает отклики")
	}

	app := &models.Application{
		JobID:        jobID,
		FreelancerID: actor.ID,
		Proposal:     proposal,
		ProposedRate: rate,
	}
	if err := s.apps.Create(ctx, app); err != nil {
		if errors.Is(err, repository.ErrDuplicateApplication) {
			return nil, apperror.ErrDuplicateApplication
		}
		return nil, err
	}
	return app, nil
}

// AcceptApplication принимает отклик и атомарно резервирует бюджет вакансии:
// отклик переходит в accepted, вакансия — в in_progress, с баланса нанимателя
// списывается бюджет и записывается escrow-транзакция. При нехватке средств
// ни одно из изменений не применяется. Остальные отклики остаются pending.
func (s *JobService) AcceptApplication(ctx context.Context, actor Actor, applicationID uuid.UUID) (*models.Transaction, error) {
	app, job, err := s.applicationWithOwnedJob(ctx, actor, applicationID)
	if err != nil {
		return nil, err
	}
	if app.Status != models.ApplicationStatusPending {
		return nil, apperror.New(apperror.ErrCodeInvalidTransition, "отклик уже обработан")
	}
	if job.Status != models.JobStatusOpen {
		return nil, apperror.New(apperror.ErrCodeInvalidTransition, "вакансия уже в работе")
	}

	txn, err := s.ledger.AcceptApplicationAndFundEscrow(ctx, job, app)
	if err != nil {
		if errors.Is(err, repository.ErrInsufficientFunds) {
			return nil, apperror.ErrInsufficientFunds
		}
		return nil, err
	}

	logger.Log.WithFields(map[string]interface{}{
		"job_id":         job.ID,
		"application_id": app.ID,
		"amount":         txn.Amount,
	}).Info("job service: отклик принят, бюджет зарезервирован")

	return txn, nil
}

// RejectApplication отклоняет ожидающий отклик. Денежных эффектов нет.
func (s *JobService) RejectApplication(ctx context.Context, actor Actor, applicationID uuid.UUID) error {
	app, _, err := s.applicationWithOwnedJob(ctx, actor, applicationID)
	if err != nil {
		return err
	}
	if app.Status != models.ApplicationStatusPending {
		return apperror.New(apperror.ErrCodeInvalidTransition, "отклик уже обработан")
	}
	return s.apps.UpdateStatus(ctx, applicationID, models.ApplicationStatusRejected)
}

// UpdateJobStatus переводит вакансию в completed или cancelled.
// Допустимы только переходы из open и in_progress; завершение каскадно
// завершает выбранный отклик, отмена — отклоняет его.
func (s *JobService) UpdateJobStatus(ctx context.Context, actor Actor, jobID uuid.UUID, newStatus string) (*models.Job, error) {
	job, err := s.ownedJob(ctx, actor, jobID)
	if err != nil {
		return nil, err
	}

	if newStatus != models.JobStatusCompleted && newStatus != models.JobStatusCancelled {
		return nil, apperror.New(apperror.ErrCodeInvalidTransition, "недопустимый целевой статус")
	}
	if job.Status != models.JobStatusOpen && job.Status != models.JobStatusInProgress {
		return nil, apperror.New(apperror.ErrCodeInvalidTransition, "вакансия уже завершена")
	}

	return s.jobs.Transition(ctx, jobID, newStatus)
}

// DeleteJob удаляет вакансию вместе с откликами, закладками и файлами.
// Удаление запрещено, пока по вакансии зарезервирован невыплаченный бюджет.
func (s *JobService) DeleteJob(ctx context.Context, actor Actor, jobID uuid.UUID) error {
	job, err := s.ownedJob(ctx, actor, jobID)
	if err != nil {
		return err
	}

	held, err := s.ledger.HasHeldEscrowForJob(ctx, jobID)
	if err != nil {
		return err
	}
	if held {
		return apperror.New(apperror.ErrCodeInvalidTransaction, "по вакансии зарезервированы средства, сначала завершите выплату")
	}

	media, err := s.media.ListByJob(ctx, jobID)
	if err != nil {
		return err
	}

	if err := s.jobs.Delete(ctx, jobID); err != nil {
		return err
	}

	for _, file := range media {
		if err := s.storage.Remove(file.Path); err != nil {
			logger.Log.WithFields(map[string]interface{}{
				"job_id": job.ID,
				"path":   file.Path,
			}).WithError(err).Warn("job service: не удалось удалить файл вакансии")
		}
	}
	return nil
}

// ListApplications возвращает отклики на вакансию. Доступно её нанимателю.
func (s *JobService) ListApplications(ctx context.Context, actor Actor, jobID uuid.UUID) ([]models.Application, error) {
	if _, err := s.ownedJob(ctx, actor, jobID); err != nil {
		return nil, err
	}
	return s.apps.ListByJob(ctx, jobID)
}

// ListMyApplications возвращает отклики фрилансера.
func (s *JobService) ListMyApplications(ctx context.Context, actor Actor) ([]models.Application, error) {
	return s.apps.ListByFreelancer(ctx, actor.ID)
}

func (s *JobService) ownedJob(ctx context.Context, actor Actor, jobID uuid.UUID) (*models.Job, error) {
	job, err := s.jobs.GetByID(ctx, jobID)
	if err != nil {
		if errors.Is(err, repository.ErrJobNotFound) {
			return nil, apperror.ErrJobNotFound
		}
		return nil, err
	}
	if job.HirerID != actor.ID && actor.Role != models.RoleAdmin {
		return nil, apperror.ErrForbidden
	}
	return job, nil
}

func (s *JobService) ownedOpenJob(ctx context.Context, actor Actor, jobID uuid.UUID) (*models.Job, error) {
	job, err := s.ownedJob(ctx, actor, jobID)
	if err != nil {
		return nil, err
	}
	if job.Status != models.JobStatusOpen {
		return nil, apperror.New(apperror.ErrCodeInvalidTransition, "редактировать можно только открытую вакансию")
	}
	return job, nil
}

func (s *JobService) applicationWithOwnedJob(ctx context.Context, actor Actor, applicationID uuid.UUID) (*models.Application, *models.Job, error) {
	app, err := s.apps.GetByID(ctx, applicationID)
	if err != nil {
		if errors.Is(err, repository.ErrApplicationNotFound) {
			return nil, nil, apperror.ErrApplicationNotFound
		}
		return nil, nil, err
	}
	job, err := s.ownedJob(ctx, actor, app.JobID)
	if err != nil {
		return nil, nil, err
	}
	return app, job, nil
}
