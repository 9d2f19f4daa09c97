package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pavelgrishin/worklink-backend/internal/dto"
	"github.com/pavelgrishin/worklink-backend/internal/http/handlers/common"
	"github.com/pavelgrishin/worklink-backend/internal/service"
)

type AuthHandler struct {
	auth *service.AuthService
}

func NewAuthHandler(auth *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// Register POST /auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := common.BindJSON(c, &req); err != nil {
		_ = c.Error(err)
		return
	}

	result, err := h.auth.Register(c.Request.Context(), service.RegisterInput{
		Email:    req.Email,
		Password: req.Password,
		Username: req.Username,
		Fullname: req.Fullname,
	}, sessionMeta(c))
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, authResponse(result))
}

// Login POST /auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := common.BindJSON(c, &req); err != nil {
		_ = c.Error(err)
		return
	}

	result, err := h.auth.Login(c.Request.Context(), service.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	}, sessionMeta(c))
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, authResponse(result))
}

// Refresh POST /auth/refresh
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req dto.RefreshRequest
	if err := common.BindJSON(c, &req); err != nil {
		_ = c.Error(err)
		return
	}

	pair, err := h.auth.Refresh(c.Request.Context(), req.RefreshToken, sessionMeta(c))
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, pair)
}

// Logout POST /auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	var req dto.RefreshRequest
	if err := common.BindJSON(c, &req); err != nil {
		_ = c.Error(err)
		return
	}

	if err := h.auth.Logout(c.Request.Context(), req.RefreshToken); err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, dto.SuccessResponse{Message: "сессия завершена"})
}

// ConfirmRole PUT /users/me/role
func (h *AuthHandler) ConfirmRole(c *gin.Context) {
	actor, err := common.CurrentActor(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	var req dto.ConfirmRoleRequest
	if err := common.BindJSON(c, &req); err != nil {
		_ = c.Error(err)
		return
	}

	user, err := h.auth.ConfirmRole(c.Request.Context(), actor.ID, req.Role)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, user)
}

// ListSessions GET /auth/sessions
func (h *AuthHandler) ListSessions(c *gin.Context) {
	actor, err := common.CurrentActor(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	sessions, err := h.auth.ListSessions(c.Request.Context(), actor.ID)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, sessions)
}

// DeleteSession DELETE /auth/sessions/:id
func (h *AuthHandler) DeleteSession(c *gin.Context) {
	actor, err := common.CurrentActor(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	sessionID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		_ = c.Error(err)
		return
	}

	if err := h.auth.DeleteSession(c.Request.Context(), sessionID, actor.ID); err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, dto.SuccessResponse{Message: "сессия удалена"})
}

func authResponse(result *service.AuthResult) dto.AuthResponse {
	return dto.AuthResponse{
		User:         result.User,
		AccessToken:  result.TokenPair.AccessToken,
		RefreshToken: result.TokenPair.RefreshToken,
		ExpiresIn:    int64(result.TokenPair.ExpiresIn.Seconds()),
	}
}

func sessionMeta(c *gin.Context) service.SessionMeta {
	return service.SessionMeta{
		UserAgent: c.GetHeader("User-Agent"),
		IP:        c.ClientIP(),
	}
}
