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

type UserRepository struct {
	db *sqlx.DB
}

func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

const userColumns = `id, email, username, fullname, password_hash, role, balance, is_active,
	profession, experience, skills, company_name, photo_url, last_login_at, created_at, updated_at`

// Create сохраняет нового пользователя. Роль при регистрации — unassigned, баланс — ноль.
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (email, username, fullname, password_hash, role)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + userColumns
	err := r.db.GetContext(ctx, user, query,
		user.Email, user.Username, user.Fullname, user.PasswordHash, models.RoleUnassigned)
	if err != nil {
		return fmt.Errorf("user repository: create %w", err)
	}
	return nil
}

// GetByID возвращает пользователя по идентификатору.
func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	err := r.db.GetContext(ctx, &user, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("user repository: get by id %w", err)
	}
	return &user, nil
}

// GetByEmail возвращает пользователя по email.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.db.GetContext(ctx, &user, `SELECT `+userColumns+` FROM users WHERE email = LOWER($1)`, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("user repository: get by email %w", err)
	}
	return &user, nil
}

// GetByUsername возвращает пользователя по username.
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	err := r.db.GetContext(ctx, &user, `SELECT `+userColumns+` FROM users WHERE username = $1`, username)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("user repository: get by username %w", err)
	}
	return &user, nil
}

// ListByRole возвращает активных пользователей с указанной ролью.
func (r *UserRepository) ListByRole(ctx context.Context, role string, limit, offset int) ([]models.User, error) {
	var users []models.User
	err := r.db.SelectContext(ctx, &users, `
		SELECT `+userColumns+` FROM users
		WHERE role = $1 AND is_active = TRUE
		ORDER BY created_at DESC LIMIT $2 OFFSET $3
	`, role, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("user repository: list by role %w", err)
	}
	return users, nil
}

// ConfirmRole переводит пользователя из unassigned в выбранную роль.
// Повторная смена роли запрещена на уровне запроса.
func (r *UserRepository) ConfirmRole(ctx context.Context, userID uuid.UUID, role string) (*models.User, error) {
	var user models.User
	err := r.db.GetContext(ctx, &user, `
		UPDATE users SET role = $2, updated_at = NOW()
		WHERE id = $1 AND role = $3
		RETURNING `+userColumns, userID, role, models.RoleUnassigned)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("user repository: confirm role %w", err)
	}
	return &user, nil
}

// ProfileUpdate описывает закрытый набор изменяемых полей профиля.
// Открытого обновления по имени поля нет намеренно.
type ProfileUpdate struct {
	Fullname    *string
	Profession  *string
	Experience  *string
	Skills      []string
	CompanyName *string
	PhotoURL    *string
}

// UpdateProfile применяет типизированное обновление профиля.
func (r *UserRepository) UpdateProfile(ctx context.Context, userID uuid.UUID, upd ProfileUpdate) (*models.User, error) {
	var skills interface{}
	if upd.Skills != nil {
		skills = pq.Array(upd.Skills)
	}

	var user models.User
	err := r.db.GetContext(ctx, &user, `
		UPDATE users SET
			fullname = COALESCE($2, fullname),
			profession = COALESCE($3, profession),
			experience = COALESCE($4, experience),
			skills = COALESCE($5, skills),
			company_name = COALESCE($6, company_name),
			photo_url = COALESCE($7, photo_url),
			updated_at = NOW()
		WHERE id = $1
		RETURNING `+userColumns,
		userID, upd.Fullname, upd.Profession, upd.Experience, skills, upd.CompanyName, upd.PhotoURL)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("user repository: update profile %w", err)
	}
	return &user, nil
}

// UpdateLastLoginAt обновляет время последнего входа.
func (r *UserRepository) UpdateLastLoginAt(ctx context.Context, userID uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, `UPDATE users SET last_login_at = NOW() WHERE id = $1`, userID)
	if err != nil {
		return fmt.Errorf("user repository: update last login %w", err)
	}
	return nil
}

// CreateSession сохраняет refresh-сессию.
func (r *UserRepository) CreateSession(ctx context.Context, session *models.Session) error {
	query := `
		INSERT INTO sessions (user_id, refresh_token, user_agent, ip_address, expires_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`
	row := r.db.QueryRowxContext(ctx, query,
		session.UserID, session.RefreshToken, session.UserAgent, session.IPAddress, session.ExpiresAt)
	if err := row.Scan(&session.ID, &session.CreatedAt); err != nil {
		return fmt.Errorf("user repository: create session %w", err)
	}
	return nil
}

// DeleteSession удаляет сессию по refresh токену.
func (r *UserRepository) DeleteSession(ctx context.Context, refreshToken string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM sessions WHERE refresh_token = $1`, refreshToken)
	if err != nil {
		return fmt.Errorf("user repository: delete session %w", err)
	}
	return nil
}

// ListSessions возвращает активные сессии пользователя.
func (r *UserRepository) ListSessions(ctx context.Context, userID uuid.UUID) ([]models.Session, error) {
	var sessions []models.Session
	err := r.db.SelectContext(ctx, &sessions, `
		SELECT id, user_id, refresh_token, user_agent, ip_address, expires_at, created_at
		FROM sessions WHERE user_id = $1 AND expires_at > NOW()
		ORDER BY created_at DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("user repository: list sessions %w", err)
	}
	return sessions, nil
}

// DeleteSessionByID удаляет конкретную сессию пользователя.
func (r *UserRepository) DeleteSessionByID(ctx context.Context, sessionID, userID uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = $1 AND user_id = $2`, sessionID, userID)
	if err != nil {
		return fmt.Errorf("user repository: delete session by id %w", err)
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return ErrSessionNotFound
	}
	return nil
}
