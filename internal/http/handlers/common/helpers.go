package common

import (
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/pavelgrishin/worklink-backend/internal/http/middleware"
	"github.com/pavelgrishin/worklink-backend/internal/pkg/apperror"
	"github.com/pavelgrishin/worklink-backend/internal/service"
)

// CurrentActor извлекает аутентифицированного пользователя из контекста.
func CurrentActor(c *gin.Context) (service.Actor, error) {
	rawID, okID := c.Get(middleware.ContextUserIDKey)
	rawRole, okRole := c.Get(middleware.ContextRoleKey)
	if !okID || !okRole {
		return service.Actor{}, apperror.ErrUnauthenticated
	}

	userID, okID := rawID.(uuid.UUID)
	role, okRole := rawRole.(string)
	if !okID || !okRole {
		return service.Actor{}, apperror.ErrUnauthenticated
	}

	return service.Actor{ID: userID, Role: role}, nil
}

// ParseUUIDParam разбирает UUID из параметра пути.
func ParseUUIDParam(c *gin.Context, paramName string) (uuid.UUID, error) {
	parsed, err := uuid.Parse(c.Param(paramName))
	if err != nil {
		return uuid.Nil, apperror.New(apperror.ErrCodeBadRequest,
			fmt.Sprintf("параметр %s должен быть валидным UUID", paramName))
	}
	return parsed, nil
}

// BindJSON разбирает тело запроса, возвращая BadRequest при ошибке валидации.
func BindJSON(c *gin.Context, req interface{}) error {
	if err := c.ShouldBindJSON(req); err != nil {
		return apperror.Wrap(err, apperror.ErrCodeBadRequest, "некорректное тело запроса")
	}
	return nil
}

// GetPagination извлекает limit и offset из query-параметров.
func GetPagination(c *gin.Context) (limit, offset int) {
	limit = parseIntQuery(c, "limit", 20)
	offset = parseIntQuery(c, "offset", 0)
	if limit < 1 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return
}

func parseIntQuery(c *gin.Context, key string, fallback int) int {
	if v := c.Query(key); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			return parsed
		}
	}
	return fallback
}
