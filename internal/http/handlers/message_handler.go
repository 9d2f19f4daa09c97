package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/pavelgrishin/worklink-backend/internal/dto"
	"github.com/pavelgrishin/worklink-backend/internal/http/handlers/common"
	"github.com/pavelgrishin/worklink-backend/internal/service"
)

type MessageHandler struct {
	messages *service.MessageService
}

func NewMessageHandler(messages *service.MessageService) *MessageHandler {
	return &MessageHandler{messages: messages}
}

// StartConversation POST /conversations
func (h *MessageHandler) StartConversation(c *gin.Context) {
	actor, err := common.CurrentActor(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	var req dto.StartConversationRequest
	if err := common.BindJSON(c, &req); err != nil {
		_ = c.Error(err)
		return
	}

	otherUserID, _ := uuid.Parse(req.UserID)
	conv, err := h.messages.StartConversation(c.Request.Context(), actor, otherUserID)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, conv)
}

// ListConversations GET /conversations
func (h *MessageHandler) ListConversations(c *gin.Context) {
	actor, err := common.CurrentActor(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	convs, err := h.messages.ListConversations(c.Request.Context(), actor)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, convs)
}

// SendMessage POST /conversations/:id/messages
func (h *MessageHandler) SendMessage(c *gin.Context) {
	actor, err := common.CurrentActor(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	conversationID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		_ = c.Error(err)
		return
	}

	var req dto.SendMessageRequest
	if err := common.BindJSON(c, &req); err != nil {
		_ = c.Error(err)
		return
	}

	msg, err := h.messages.SendMessage(c.Request.Context(), actor, conversationID, req.Text, req.ImageURL)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, msg)
}

// ListMessages GET /conversations/:id/messages
func (h *MessageHandler) ListMessages(c *gin.Context) {
	actor, err := common.CurrentActor(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	conversationID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		_ = c.Error(err)
		return
	}

	limit, offset := common.GetPagination(c)
	msgs, err := h.messages.ListMessages(c.Request.Context(), actor, conversationID, limit, offset)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, msgs)
}
