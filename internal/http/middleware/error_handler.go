package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/pavelgrishin/worklink-backend/internal/logger"
	"github.com/pavelgrishin/worklink-backend/internal/pkg/apperror"
)

// ErrorHandler переводит ошибки хендлеров в HTTP ответы.
// AppError отдаётся клиенту со своим статусом и сообщением,
// все прочие ошибки маскируются как внутренние.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() || len(c.Errors) == 0 {
			return
		}

		err := c.Errors.Last().Err

		var appErr *apperror.AppError
		if errors.As(err, &appErr) {
			if appErr.HTTPStatus >= http.StatusInternalServerError {
				logger.Log.WithFields(logrus.Fields{
					"code":   appErr.Code,
					"path":   c.Request.URL.Path,
					"method": c.Request.Method,
				}).WithError(err).Error("ошибка обработки запроса")
			}
			c.JSON(appErr.HTTPStatus, gin.H{
				"error": appErr.Message,
				"code":  appErr.Code,
			})
			return
		}

		logger.Log.WithFields(logrus.Fields{
			"path":   c.Request.URL.Path,
			"method": c.Request.Method,
		}).WithError(err).Error("ошибка обработки запроса")

		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "внутренняя ошибка сервера",
			"code":  apperror.ErrCodeInternal,
		})
	}
}
