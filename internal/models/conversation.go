package models

import (
	"time"

	"github.com/google/uuid"
)

// Conversation представляет диалог между двумя пользователями.
type Conversation struct {
	ID               uuid.UUID `db:"id" json:"id"`
	ParticipantOneID uuid.UUID `db:"participant_one_id" json:"participant_one_id"`
	ParticipantTwoID uuid.UUID `db:"participant_two_id" json:"participant_two_id"`
	CreatedAt        time.Time `db:"created_at" json:"created_at"`

	LastMessage *Message `json:"last_message,omitempty"`
}

// Message описывает сообщение в диалоге.
type Message struct {
	ID             uuid.UUID `db:"id" json:"id"`
	ConversationID uuid.UUID `db:"conversation_id" json:"conversation_id"`
	UserID         uuid.UUID `db:"user_id" json:"user_id"`
	Text           *string   `db:"text" json:"text,omitempty"`
	ImageURL       *string   `db:"image_url" json:"image_url,omitempty"`
	Seen           bool      `db:"seen" json:"seen"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
}
