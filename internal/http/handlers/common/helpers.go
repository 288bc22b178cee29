package common

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/foodshare/foodshare-backend/internal/http/middleware"
)

// ErrNoUserInContext возвращается, когда в контексте запроса нет пользователя.
var ErrNoUserInContext = errors.New("пользователь не найден в контексте")

// CurrentUserID извлекает userID из контекста запроса.
func CurrentUserID(c *gin.Context) (uuid.UUID, error) {
	raw, exists := c.Get(middleware.ContextUserIDKey)
	if !exists {
		return uuid.Nil, ErrNoUserInContext
	}
	userID, ok := raw.(uuid.UUID)
	if !ok {
		return uuid.Nil, ErrNoUserInContext
	}
	return userID, nil
}

// CurrentUserRole извлекает роль пользователя из контекста запроса.
func CurrentUserRole(c *gin.Context) (string, error) {
	raw, exists := c.Get(middleware.ContextRoleKey)
	if !exists {
		return "", ErrNoUserInContext
	}
	role, ok := raw.(string)
	if !ok {
		return "", ErrNoUserInContext
	}
	return role, nil
}

// ParseUUIDParam разбирает UUID из path-параметра.
func ParseUUIDParam(c *gin.Context, paramName string) (uuid.UUID, error) {
	param := c.Param(paramName)
	if param == "" {
		return uuid.Nil, fmt.Errorf("параметр %s отсутствует", paramName)
	}
	parsed, err := uuid.Parse(param)
	if err != nil {
		return uuid.Nil, fmt.Errorf("параметр %s должен быть валидным UUID", paramName)
	}
	return parsed, nil
}

// ParseIntQuery читает целочисленный query-параметр с дефолтом.
func ParseIntQuery(c *gin.Context, key string, fallback int) int {
	if v := c.Query(key); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			return parsed
		}
	}
	return fallback
}
