package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"

	"github.com/pavelgrishin/worklink-backend/internal/models"
	"github.com/pavelgrishin/worklink-backend/internal/pkg/apperror"
	"github.com/pavelgrishin/worklink-backend/internal/repository"
)

type mockAuthRepo struct {
	mock.Mock
}

func (m *mockAuthRepo) Create(ctx context.Context, user *models.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *mockAuthRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *mockAuthRepo) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *mockAuthRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *mockAuthRepo) ConfirmRole(ctx context.Context, userID uuid.UUID, role string) (*models.User, error) {
	args := m.Called(ctx, userID, role)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *mockAuthRepo) UpdateLastLoginAt(ctx context.Context, userID uuid.UUID) error {
	return m.Called(ctx, userID).Error(0)
}

func (m *mockAuthRepo) CreateSession(ctx context.Context, session *models.Session) error {
	return m.Called(ctx, session).Error(0)
}

func (m *mockAuthRepo) DeleteSession(ctx context.Context, refreshToken string) error {
	return m.Called(ctx, refreshToken).Error(0)
}

func (m *mockAuthRepo) ListSessions(ctx context.Context, userID uuid.UUID) ([]models.Session, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]models.Session), args.Error(1)
}

func (m *mockAuthRepo) DeleteSessionByID(ctx context.Context, sessionID, userID uuid.UUID) error {
	return m.Called(ctx, sessionID, userID).Error(0)
}

func testTokenManager() *TokenManager {
	return NewTokenManager("access-secret-for-tests", "refresh-secret-for-tests", 15*time.Minute, 720*time.Hour)
}

func TestAuthService_Register_Success(t *testing.T) {
	repo := new(mockAuthRepo)
	svc := NewAuthService(repo, testTokenManager())
	ctx := context.Background()

	repo.On("GetByEmail", ctx, "new@example.com").Return(nil, repository.ErrUserNotFound)
	repo.On("GetByUsername", ctx, "new").Return(nil, repository.ErrUserNotFound)
	repo.On("Create", ctx, mock.AnythingOfType("*models.User")).Run(func(args mock.Arguments) {
		user := args.Get(1).(*models.User)
		user.ID = uuid.New()
		user.Role = models.RoleUnassigned
	}).Return(nil)
	repo.On("CreateSession", ctx, mock.AnythingOfType("*models.Session")).Return(nil)

	result, err := svc.Register(ctx, RegisterInput{
		Email:    "new@example.com",
		Password: "password123",
		Fullname: "Новый Пользователь",
	}, SessionMeta{})
	assert.NoError(t, err)
	assert.Equal(t, models.RoleUnassigned, result.User.Role)
	assert.NotEmpty(t, result.TokenPair.AccessToken)
	assert.NotEmpty(t, result.TokenPair.RefreshToken)
	repo.AssertExpectations(t)
}

func TestAuthService_Register_ShortPassword(t *testing.T) {
	svc := NewAuthService(new(mockAuthRepo), testTokenManager())

	_, err := svc.Register(context.Background(), RegisterInput{Email: "a@b.com", Password: "short"}, SessionMeta{})
	assert.Error(t, err)
	assert.Equal(t, apperror.ErrCodeBadRequest, apperror.CodeOf(err))
}

func TestAuthService_Register_EmailTaken(t *testing.T) {
	repo := new(mockAuthRepo)
	svc := NewAuthService(repo, testTokenManager())
	ctx := context.Background()

	repo.On("GetByEmail", ctx, "taken@example.com").Return(&models.User{ID: uuid.New()}, nil)

	_, err := svc.Register(ctx, RegisterInput{Email: "taken@example.com", Password: "password123"}, SessionMeta{})
	assert.Error(t, err)
	assert.Equal(t, apperror.ErrCodeConflict, apperror.CodeOf(err))
}

func TestAuthService_Login_Success(t *testing.T) {
	repo := new(mockAuthRepo)
	svc := NewAuthService(repo, testTokenManager())
	ctx := context.Background()

	hash, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	user := &models.User{
		ID:           uuid.New(),
		Email:        "user@example.com",
		Role:         models.RoleFreelancer,
		PasswordHash: string(hash),
		IsActive:     true,
	}

	repo.On("GetByEmail", ctx, "user@example.com").Return(user, nil)
	repo.On("UpdateLastLoginAt", ctx, user.ID).Return(nil)
	repo.On("CreateSession", ctx, mock.AnythingOfType("*models.Session")).Return(nil)

	result, err := svc.Login(ctx, LoginInput{Email: "user@example.com", Password: "password123"}, SessionMeta{UserAgent: "test", IP: "127.0.0.1"})
	assert.NoError(t, err)
	assert.Equal(t, user.ID, result.User.ID)
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	repo := new(mockAuthRepo)
	svc := NewAuthService(repo, testTokenManager())
	ctx := context.Background()

	hash, _ := bcrypt.GenerateFromPassword([]byte("correct-password"), bcrypt.MinCost)
	user := &models.User{ID: uuid.New(), PasswordHash: string(hash), IsActive: true}
	repo.On("GetByEmail", ctx, "user@example.com").Return(user, nil)

	_, err := svc.Login(ctx, LoginInput{Email: "user@example.com", Password: "wrong"}, SessionMeta{})
	assert.Error(t, err)
	assert.Equal(t, apperror.ErrCodeUnauthenticated, apperror.CodeOf(err))
}

func TestAuthService_Login_UnknownEmailMasked(t *testing.T) {
	repo := new(mockAuthRepo)
	svc := NewAuthService(repo, testTokenManager())
	ctx := context.Background()

	repo.On("GetByEmail", ctx, "ghost@example.com").Return(nil, repository.ErrUserNotFound)

	_, err := svc.Login(ctx, LoginInput{Email: "ghost@example.com", Password: "whatever123"}, SessionMeta{})
	assert.Error(t, err)
	// Несуществующий email неотличим от неверного пароля.
	assert.Equal(t, apperror.ErrCodeUnauthenticated, apperror.CodeOf(err))
}

func TestAuthService_Login_BlockedAccount(t *testing.T) {
	repo := new(mockAuthRepo)
	svc := NewAuthService(repo, testTokenManager())
	ctx := context.Background()

	user := &models.User{ID: uuid.New(), IsActive: false}
	repo.On("GetByEmail", ctx, "blocked@example.com").Return(user, nil)

	_, err := svc.Login(ctx, LoginInput{Email: "blocked@example.com", Password: "password123"}, SessionMeta{})
	assert.Error(t, err)
	assert.Equal(t, apperror.ErrCodeForbidden, apperror.CodeOf(err))
}

func TestAuthService_ConfirmRole_Success(t *testing.T) {
	repo := new(mockAuthRepo)
	svc := NewAuthService(repo, testTokenManager())
	ctx := context.Background()
	userID := uuid.New()

	repo.On("GetByID", ctx, userID).Return(&models.User{ID: userID, Role: models.RoleUnassigned}, nil)
	repo.On("ConfirmRole", ctx, userID, models.RoleHirer).Return(&models.User{ID: userID, Role: models.RoleHirer}, nil)

	user, err := svc.ConfirmRole(ctx, userID, models.RoleHirer)
	assert.NoError(t, err)
	assert.Equal(t, models.RoleHirer, user.Role)
}

func TestAuthService_ConfirmRole_AdminRejected(t *testing.T) {
	svc := NewAuthService(new(mockAuthRepo), testTokenManager())

	_, err := svc.ConfirmRole(context.Background(), uuid.New(), models.RoleAdmin)
	assert.Error(t, err)
	assert.Equal(t, apperror.ErrCodeBadRequest, apperror.CodeOf(err))
}

func TestAuthService_ConfirmRole_AlreadyConfirmed(t *testing.T) {
	repo := new(mockAuthRepo)
	svc := NewAuthService(repo, testTokenManager())
	ctx := context.Background()
	userID := uuid.New()

	repo.On("GetByID", ctx, userID).Return(&models.User{ID: userID, Role: models.RoleFreelancer}, nil)

	_, err := svc.ConfirmRole(ctx, userID, models.RoleHirer)
	assert.Error(t, err)
	assert.Equal(t, apperror.ErrCodeConflict, apperror.CodeOf(err))
	repo.AssertNotCalled(t, "ConfirmRole", mock.Anything, mock.Anything, mock.Anything)
}

func TestAuthService_Refresh_RotatesSession(t *testing.T) {
	repo := new(mockAuthRepo)
	tm := testTokenManager()
	svc := NewAuthService(repo, tm)
	ctx := context.Background()

	user := &models.User{ID: uuid.New(), Role: models.RoleFreelancer}
	pair, _, err := tm.GeneratePair(user)
	assert.NoError(t, err)

	repo.On("GetByID", ctx, user.ID).Return(user, nil)
	repo.On("DeleteSession", ctx, pair.RefreshToken).Return(nil)
	repo.On("CreateSession", ctx, mock.AnythingOfType("*models.Session")).Return(nil)

	fresh, err := svc.Refresh(ctx, pair.RefreshToken, SessionMeta{})
	assert.NoError(t, err)
	assert.NotEmpty(t, fresh.AccessToken)
	repo.AssertExpectations(t)
}

func TestAuthService_Refresh_InvalidToken(t *testing.T) {
	svc := NewAuthService(new(mockAuthRepo), testTokenManager())

	_, err := svc.Refresh(context.Background(), "not-a-jwt", SessionMeta{})
	assert.Error(t, err)
	assert.Equal(t, apperror.ErrCodeUnauthenticated, apperror.CodeOf(err))
}

func TestDeriveUsername(t *testing.T) {
	assert.Equal(t, "ivan_petrov", deriveUsername("Ivan.Petrov@example.com"))
	assert.Equal(t, "dev_test", deriveUsername("dev+test@example.com"))
}
