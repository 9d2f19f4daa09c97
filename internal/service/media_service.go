package service

import (
	"context"
	"errors"
	"io"

	"github.com/google/uuid"

	"github.com/pavelgrishin/worklink-backend/internal/models"
	"github.com/pavelgrishin/worklink-backend/internal/pkg/apperror"
	"github.com/pavelgrishin/worklink-backend/internal/repository"
	"github.com/pavelgrishin/worklink-backend/internal/storage"
)

// MediaStore описывает зависимости MediaService от хранилища записей файлов.
type MediaStore interface {
	Create(ctx context.Context, media *models.MediaFile) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.MediaFile, error)
	ListByJob(ctx context.Context, jobID uuid.UUID) ([]models.MediaFile, error)
	ListByUser(ctx context.Context, userID uuid.UUID, kind string) ([]models.MediaFile, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// MediaFileStorage — дисковая часть загрузок.
type MediaFileStorage interface {
	SaveImage(ctx context.Context, ownerID uuid.UUID, r io.Reader) (string, string, error)
	SaveDocument(ctx context.Context, ownerID uuid.UUID, r io.Reader) (string, string, error)
	Remove(path string) error
}

// MediaJobStore — проверка владения вакансией при загрузке её файлов.
type MediaJobStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Job, error)
}

// MediaService управляет файлами вакансий и резюме.
type MediaService struct {
	media   MediaStore
	jobs    MediaJobStore
	storage MediaFileStorage
}

func NewMediaService(media MediaStore, jobs MediaJobStore, fs MediaFileStorage) *MediaService {
	return &MediaService{
		media:   media,
		jobs:    jobs,
		storage: fs,
	}
}

// UploadJobImage сохраняет изображение вакансии. Доступно её нанимателю.
func (s *MediaService) UploadJobImage(ctx context.Context, actor Actor, jobID uuid.UUID, r io.Reader) (*models.MediaFile, error) {
	job, err := s.jobs.GetByID(ctx, jobID)
	if err != nil {
		if errors.Is(err, repository.ErrJobNotFound) {
			return nil, apperror.ErrJobNotFound
		}
		return nil, err
	}
	if job.HirerID != actor.ID {
		return nil, apperror.ErrForbidden
	}

	path, format, err := s.storage.SaveImage(ctx, actor.ID, r)
	if err != nil {
		if errors.Is(err, storage.ErrUnsupportedFormat) {
			return nil, apperror.New(apperror.ErrCodeBadRequest, "поддерживаются только изображения jpeg, png и webp")
		}
		return nil, err
	}

	media := &models.MediaFile{
		Kind:   models.MediaKindJob,
		JobID:  &jobID,
		UserID: &actor.ID,
		Path:   path,
		Format: format,
	}
	if err := s.media.Create(ctx, media); err != nil {
		_ = s.storage.Remove(path)
		return nil, err
	}
	return media, nil
}

// UploadResume сохраняет резюме фрилансера.
func (s *MediaService) UploadResume(ctx context.Context, actor Actor, r io.Reader) (*models.MediaFile, error) {
	if actor.Role != models.RoleFreelancer {
		return nil, apperror.New(apperror.ErrCodeForbiddenRole, "резюме загружают только фрилансеры")
	}

	path, format, err := s.storage.SaveDocument(ctx, actor.ID, r)
	if err != nil {
		if errors.Is(err, storage.ErrUnsupportedFormat) {
			return nil, apperror.New(apperror.ErrCodeBadRequest, "резюме принимается в формате pdf")
		}
		return nil, err
	}

	media := &models.MediaFile{
		Kind:   models.MediaKindResume,
		UserID: &actor.ID,
		Path:   path,
		Format: format,
	}
	if err := s.media.Create(ctx, media); err != nil {
		_ = s.storage.Remove(path)
		return nil, err
	}
	return media, nil
}

// ListJobMedia возвращает файлы вакансии.
func (s *MediaService) ListJobMedia(ctx context.Context, jobID uuid.UUID) ([]models.MediaFile, error) {
	return s.media.ListByJob(ctx, jobID)
}

// ListUserResumes возвращает резюме пользователя.
func (s *MediaService) ListUserResumes(ctx context.Context, userID uuid.UUID) ([]models.MediaFile, error) {
	return s.media.ListByUser(ctx, userID, models.MediaKindResume)
}

// DeleteMedia удаляет файл. Доступно его владельцу или администратору.
func (s *MediaService) DeleteMedia(ctx context.Context, actor Actor, mediaID uuid.UUID) error {
	media, err := s.media.GetByID(ctx, mediaID)
	if err != nil {
		if errors.Is(err, repository.ErrMediaNotFound) {
			return apperror.New(apperror.ErrCodeNotFound, "файл не найден")
		}
		return err
	}
	if actor.Role != models.RoleAdmin && (media.UserID == nil || *media.UserID != actor.ID) {
		return apperror.ErrForbidden
	}

	if err := s.media.Delete(ctx, mediaID); err != nil {
		return err
	}
	return s.storage.Remove(media.Path)
}
