package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/foodshare/foodshare-backend/internal/logger"
	"github.com/foodshare/foodshare-backend/internal/pkg/apperror"
	"github.com/foodshare/foodshare-backend/internal/repository"
)

// ErrorHandler обрабатывает ошибки централизованно: AppError переводится
// в свой HTTP статус и код, ошибки репозитория — в 404, всё остальное
// маскируется как внутренняя ошибка.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() || len(c.Errors) == 0 {
			return
		}

		err := c.Errors.Last().Err

		logger.Log.WithFields(logrus.Fields{
			"error":  err.Error(),
			"path":   c.Request.URL.Path,
			"method": c.Request.Method,
		}).Error("request error")

		var appErr *apperror.AppError
		if errors.As(err, &appErr) {
			c.JSON(appErr.HTTPStatus, gin.H{
				"error": appErr.Message,
				"code":  appErr.Code,
			})
			return
		}

		switch {
		case errors.Is(err, repository.ErrListingNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "объявление не найдено"})
		case errors.Is(err, repository.ErrRequestNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "заявка не найдена"})
		case errors.Is(err, repository.ErrUserNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "пользователь не найден"})
		case errors.Is(err, repository.ErrComplaintNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "жалоба не найдена"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "внутренняя ошибка сервера"})
		}
	}
}
