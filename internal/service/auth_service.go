package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/pavelgrishin/worklink-backend/internal/logger"
	"github.com/pavelgrishin/worklink-backend/internal/models"
	"github.com/pavelgrishin/worklink-backend/internal/pkg/apperror"
	"github.com/pavelgrishin/worklink-backend/internal/repository"
)

// AuthRepository описывает зависимости AuthService от слоя хранилища.
type AuthRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	ConfirmRole(ctx context.Context, userID uuid.UUID, role string) (*models.User, error)
	UpdateLastLoginAt(ctx context.Context, userID uuid.UUID) error
	CreateSession(ctx context.Context, session *models.Session) error
	DeleteSession(ctx context.Context, refreshToken string) error
	ListSessions(ctx context.Context, userID uuid.UUID) ([]models.Session, error)
	DeleteSessionByID(ctx context.Context, sessionID, userID uuid.UUID) error
}

// AuthService инкапсулирует регистрацию, вход и двухэтапное назначение роли.
type AuthService struct {
	repo         AuthRepository
	tokenManager *TokenManager
}

func NewAuthService(repo AuthRepository, tokenManager *TokenManager) *AuthService {
	return &AuthService{
		repo:         repo,
		tokenManager: tokenManager,
	}
}

// RegisterInput содержит данные пользователя при регистрации.
// Роль на этом этапе не принимается: новый пользователь создаётся
// с ролью unassigned и подтверждает её отдельным запросом.
type RegisterInput struct {
	Email    string
	Password string
	Username string
	Fullname string
}

// LoginInput содержит данные для входа.
type LoginInput struct {
	Email    string
	Password string
}

// SessionMeta несёт данные клиента для записи сессии.
type SessionMeta struct {
	UserAgent string
	IP        string
}

// AuthResult возвращает итог регистрации или авторизации.
type AuthResult struct {
	User      *models.User
	TokenPair *TokenPair
}

// Register создаёт нового пользователя с ролью unassigned.
func (s *AuthService) Register(ctx context.Context, in RegisterInput, meta SessionMeta) (*AuthResult, error) {
	if !strings.Contains(in.Email, "@") {
		return nil, apperror.New(apperror.ErrCodeBadRequest, "некорректный email")
	}
	if len(in.Password) < 8 {
		return nil, apperror.New(apperror.ErrCodeBadRequest, "пароль должен быть не короче 8 символов")
	}

	if _, err := s.repo.GetByEmail(ctx, in.Email); err == nil {
		return nil, apperror.New(apperror.ErrCodeConflict, "email уже зарегистрирован")
	} else if !errors.Is(err, repository.ErrUserNotFound) {
		return nil, err
	}

	username := in.Username
	if username == "" {
		username = deriveUsername(in.Email)
	}
	if _, err := s.repo.GetByUsername(ctx, username); err == nil {
		return nil, apperror.New(apperror.ErrCodeConflict, "username уже занят")
	} else if !errors.Is(err, repository.ErrUserNotFound) {
		return nil, err
	}

	passHash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeInternal, "не удалось захешировать пароль")
	}

	user := &models.User{
		Email:        strings.ToLower(in.Email),
		Username:     username,
		Fullname:     in.Fullname,
		PasswordHash: string(passHash),
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}

	tokenPair, err := s.issueSession(ctx, user, meta)
	if err != nil {
		return nil, err
	}

	return &AuthResult{User: user, TokenPair: tokenPair}, nil
}

// Login проверяет учётные данные и возвращает токены.
func (s *AuthService) Login(ctx context.Context, in LoginInput, meta SessionMeta) (*AuthResult, error) {
	user, err := s.repo.GetByEmail(ctx, in.Email)
	if err != nil {
		return nil, apperror.New(apperror.ErrCodeUnauthenticated, "неверный email или пароль")
	}

	if !user.IsActive {
		return nil, apperror.New(apperror.ErrCodeForbidden, "аккаунт заблокирован")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, apperror.New(apperror.ErrCodeUnauthenticated, "неверный email или пароль")
	}

	if err := s.repo.UpdateLastLoginAt(ctx, user.ID); err != nil {
		logger.Log.WithField("user_id", user.ID).WithError(err).Warn("auth service: не удалось обновить last_login_at")
	}

	tokenPair, err := s.issueSession(ctx, user, meta)
	if err != nil {
		return nil, err
	}

	return &AuthResult{User: user, TokenPair: tokenPair}, nil
}

// ConfirmRole переводит пользователя из unassigned в hirer или freelancer.
// Повторная смена роли невозможна; admin через этот путь не назначается.
func (s *AuthService) ConfirmRole(ctx context.Context, userID uuid.UUID, role string) (*models.User, error) {
	if _, ok := models.ValidConfirmableRoles[role]; !ok {
		return nil, apperror.New(apperror.ErrCodeBadRequest, "недопустимая роль")
	}

	current, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, apperror.ErrUserNotFound
		}
		return nil, err
	}
	if current.Role != models.RoleUnassigned {
		return nil, apperror.New(apperror.ErrCodeConflict, "роль уже подтверждена")
	}

	user, err := s.repo.ConfirmRole(ctx, userID, role)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, apperror.New(apperror.ErrCodeConflict, "роль уже подтверждена")
		}
		return nil, err
	}
	return user, nil
}

// Refresh выпускает новую пару токенов взамен refresh токена.
func (s *AuthService) Refresh(ctx context.Context, oldToken string, meta SessionMeta) (*TokenPair, error) {
	userID, err := s.tokenManager.ParseRefresh(oldToken)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeUnauthenticated, "refresh токен невалиден")
	}

	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, apperror.ErrUserNotFound
		}
		return nil, err
	}

	if err := s.repo.DeleteSession(ctx, oldToken); err != nil {
		return nil, err
	}

	return s.issueSession(ctx, user, meta)
}

// Logout удаляет сессию по refresh токену.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	return s.repo.DeleteSession(ctx, refreshToken)
}

// ListSessions возвращает активные сессии пользователя.
func (s *AuthService) ListSessions(ctx context.Context, userID uuid.UUID) ([]models.Session, error) {
	return s.repo.ListSessions(ctx, userID)
}

// DeleteSession удаляет конкретную сессию пользователя.
func (s *AuthService) DeleteSession(ctx context.Context, sessionID, userID uuid.UUID) error {
	err := s.repo.DeleteSessionByID(ctx, sessionID, userID)
	if errors.Is(err, repository.ErrSessionNotFound) {
		return apperror.New(apperror.ErrCodeNotFound, "сессия не найдена")
	}
	return err
}

func (s *AuthService) issueSession(ctx context.Context, user *models.User, meta SessionMeta) (*TokenPair, error) {
	tokenPair, refreshExp, err := s.tokenManager.GeneratePair(user)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeInternal, "не удалось выпустить токены")
	}

	session := &models.Session{
		UserID:       user.ID,
		RefreshToken: tokenPair.RefreshToken,
		ExpiresAt:    refreshExp,
	}
	if meta.UserAgent != "" {
		session.UserAgent = &meta.UserAgent
	}
	if meta.IP != "" {
		session.IPAddress = &meta.IP
	}

	if err := s.repo.CreateSession(ctx, session); err != nil {
		return nil, err
	}
	return tokenPair, nil
}

// deriveUsername формирует username из email.
func deriveUsername(email string) string {
	name := strings.Split(email, "@")[0]
	name = strings.NewReplacer(".", "_", "+", "_").Replace(name)
	name = strings.ToLower(name)
	if len(name) < 3 {
		name = "user_" + uuid.NewString()[:6]
	}
	return name
}
