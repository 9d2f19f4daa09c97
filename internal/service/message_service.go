package service

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/pavelgrishin/worklink-backend/internal/logger"
	"github.com/pavelgrishin/worklink-backend/internal/models"
	"github.com/pavelgrishin/worklink-backend/internal/pkg/apperror"
	"github.com/pavelgrishin/worklink-backend/internal/repository"
)

// MessageStore описывает зависимости MessageService от хранилища диалогов.
type MessageStore interface {
	GetOrCreateConversation(ctx context.Context, userA, userB uuid.UUID) (*models.Conversation, error)
	GetConversation(ctx context.Context, id uuid.UUID) (*models.Conversation, error)
	ListConversations(ctx context.Context, userID uuid.UUID) ([]models.Conversation, error)
	AddMessage(ctx context.Context, msg *models.Message) error
	ListMessages(ctx context.Context, conversationID uuid.UUID, limit, offset int) ([]models.Message, error)
	MarkSeen(ctx context.Context, conversationID, readerID uuid.UUID) error
}

// MessageUserStore — проверка существования собеседника.
type MessageUserStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// Notifier доставляет событие пользователю в реальном времени.
type Notifier interface {
	NotifyUser(userID uuid.UUID, event string, data any) error
}

// MessageService управляет диалогами и сообщениями.
type MessageService struct {
	store    MessageStore
	users    MessageUserStore
	notifier Notifier
}

func NewMessageService(store MessageStore, users MessageUserStore, notifier Notifier) *MessageService {
	return &MessageService{
		store:    store,
		users:    users,
		notifier: notifier,
	}
}

// StartConversation возвращает диалог с собеседником, создавая его при необходимости.
func (s *MessageService) StartConversation(ctx context.Context, actor Actor, otherUserID uuid.UUID) (*models.Conversation, error) {
	if actor.ID == otherUserID {
		return nil, apperror.New(apperror.ErrCodeBadRequest, "нельзя начать диалог с самим собой")
	}
	if _, err := s.users.GetByID(ctx, otherUserID); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, apperror.ErrUserNotFound
		}
		return nil, err
	}
	return s.store.GetOrCreateConversation(ctx, actor.ID, otherUserID)
}

// ListConversations возвращает диалоги пользователя.
func (s *MessageService) ListConversations(ctx context.Context, actor Actor) ([]models.Conversation, error) {
	return s.store.ListConversations(ctx, actor.ID)
}

// SendMessage отправляет сообщение в диалог и уведомляет собеседника.
func (s *MessageService) SendMessage(ctx context.Context, actor Actor, conversationID uuid.UUID, text, imageURL *string) (*models.Message, error) {
	if (text == nil || *text == "") && (imageURL == nil || *imageURL == "") {
		return nil, apperror.New(apperror.ErrCodeBadRequest, "сообщение не может быть пустым")
	}

	conv, err := s.participantConversation(ctx, actor, conversationID)
	if err != nil {
		return nil, err
	}

	msg := &models.Message{
		ConversationID: conversationID,
		UserID:         actor.ID,
		Text:           text,
		ImageURL:       imageURL,
	}
	if err := s.store.AddMessage(ctx, msg); err != nil {
		return nil, err
	}

	recipient := conv.ParticipantOneID
	if recipient == actor.ID {
		recipient = conv.ParticipantTwoID
	}
	if err := s.notifier.NotifyUser(recipient, "message.new", msg); err != nil {
		logger.Log.WithField("conversation_id", conversationID).WithError(err).Warn("message service: не удалось отправить уведомление")
	}

	return msg, nil
}

// ListMessages возвращает сообщения диалога и помечает чужие прочитанными.
func (s *MessageService) ListMessages(ctx context.Context, actor Actor, conversationID uuid.UUID, limit, offset int) ([]models.Message, error) {
	if _, err := s.participantConversation(ctx, actor, conversationID); err != nil {
		return nil, err
	}

	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	msgs, err := s.store.ListMessages(ctx, conversationID, limit, offset)
	if err != nil {
		return nil, err
	}
	if err := s.store.MarkSeen(ctx, conversationID, actor.ID); err != nil {
		logger.Log.WithField("conversation_id", conversationID).WithError(err).Warn("message service: не удалось отметить сообщения прочитанными")
	}
	return msgs, nil
}

func (s *MessageService) participantConversation(ctx context.Context, actor Actor, conversationID uuid.UUID) (*models.Conversation, error) {
	conv, err := s.store.GetConversation(ctx, conversationID)
	if err != nil {
		if errors.Is(err, repository.ErrConversationNotFound) {
			return nil, apperror.ErrConversationNotFound
		}
		return nil, err
	}
	if conv.ParticipantOneID != actor.ID && conv.ParticipantTwoID != actor.ID {
		return nil, apperror.ErrForbidden
	}
	return conv, nil
}
