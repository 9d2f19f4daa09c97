package repository

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/pavelgrishin/worklink-backend/internal/models"
)

type MessageRepository struct {
	db *sqlx.DB
}

func NewMessageRepository(db *sqlx.DB) *MessageRepository {
	return &MessageRepository{db: db}
}

// GetOrCreateConversation возвращает диалог двух пользователей, создавая его
// при первом обращении. Пара участников нормализуется по порядку UUID,
// поэтому для любой пары существует ровно один диалог.
func (m *MessageRepository) GetOrCreateConversation(ctx context.Context, userA, userB uuid.UUID) (*models.Conversation, error) {
	first, second := orderPair(userA, userB)

	var conv models.Conversation
	err := m.db.GetContext(ctx, &conv, `
		INSERT INTO conversations (participant_one_id, participant_two_id)
		VALUES ($1, $2)
		ON CONFLICT (participant_one_id, participant_two_id)
			DO UPDATE SET participant_one_id = conversations.participant_one_id
		RETURNING id, participant_one_id, participant_two_id, created_at
	`, first, second)
	if err != nil {
		return nil, fmt.Errorf("message repository: get or create conversation %w", err)
	}
	return &conv, nil
}

// GetConversation возвращает диалог по идентификатору.
func (m *MessageRepository) GetConversation(ctx context.Context, id uuid.UUID) (*models.Conversation, error) {
	var conv models.Conversation
	err := m.db.GetContext(ctx, &conv, `
		SELECT id, participant_one_id, participant_two_id, created_at
		FROM conversations WHERE id = $1
	`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrConversationNotFound
		}
		return nil, fmt.Errorf("message repository: get conversation %w", err)
	}
	return &conv, nil
}

// ListConversations возвращает диалоги пользователя, отсортированные
// по времени последнего сообщения.
func (m *MessageRepository) ListConversations(ctx context.Context, userID uuid.UUID) ([]models.Conversation, error) {
	var convs []models.Conversation
	err := m.db.SelectContext(ctx, &convs, `
		SELECT c.id, c.participant_one_id, c.participant_two_id, c.created_at
		FROM conversations c
		LEFT JOIN LATERAL (
			SELECT created_at FROM messages
			WHERE conversation_id = c.id
			ORDER BY created_at DESC LIMIT 1
		) lm ON TRUE
		WHERE c.participant_one_id = $1 OR c.participant_two_id = $1
		ORDER BY COALESCE(lm.created_at, c.created_at) DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("message repository: list conversations %w", err)
	}
	return convs, nil
}

// AddMessage сохраняет сообщение в диалоге.
func (m *MessageRepository) AddMessage(ctx context.Context, msg *models.Message) error {
	query := `
		INSERT INTO messages (conversation_id, user_id, text, image_url)
		VALUES ($1, $2, $3, $4)
		RETURNING id, seen, created_at
	`
	row := m.db.QueryRowxContext(ctx, query, msg.ConversationID, msg.UserID, msg.Text, msg.ImageURL)
	if err := row.Scan(&msg.ID, &msg.Seen, &msg.CreatedAt); err != nil {
		return fmt.Errorf("message repository: add message %w", err)
	}
	return nil
}

// ListMessages возвращает сообщения диалога в хронологическом порядке.
func (m *MessageRepository) ListMessages(ctx context.Context, conversationID uuid.UUID, limit, offset int) ([]models.Message, error) {
	var msgs []models.Message
	err := m.db.SelectContext(ctx, &msgs, `
		SELECT id, conversation_id, user_id, text, image_url, seen, created_at
		FROM messages WHERE conversation_id = $1
		ORDER BY created_at ASC LIMIT $2 OFFSET $3
	`, conversationID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("message repository: list messages %w", err)
	}
	return msgs, nil
}

// MarkSeen помечает прочитанными чужие сообщения диалога.
func (m *MessageRepository) MarkSeen(ctx context.Context, conversationID, readerID uuid.UUID) error {
	_, err := m.db.ExecContext(ctx, `
		UPDATE messages SET seen = TRUE
		WHERE conversation_id = $1 AND user_id <> $2 AND seen = FALSE
	`, conversationID, readerID)
	if err != nil {
		return fmt.Errorf("message repository: mark seen %w", err)
	}
	return nil
}

func orderPair(a, b uuid.UUID) (uuid.UUID, uuid.UUID) {
	if bytes.Compare(a[:], b[:]) <= 0 {
		return a, b
	}
	return b, a
}
