package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/foodshare/foodshare-backend/internal/dto"
	"github.com/foodshare/foodshare-backend/internal/http/handlers/common"
	"github.com/foodshare/foodshare-backend/internal/service"
)

// ProfileHandler обслуживает профили организаций.
type ProfileHandler struct {
	profiles *service.ProfileService
}

// NewProfileHandler создаёт новый хэндлер.
func NewProfileHandler(profiles *service.ProfileService) *ProfileHandler {
	return &ProfileHandler{profiles: profiles}
}

// GetOwn обрабатывает GET /api/profile.
func (h *ProfileHandler) GetOwn(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	profile, err := h.profiles.GetOwn(c.Request.Context(), userID)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, profile)
}

// Update обрабатывает PUT /api/profile.
func (h *ProfileHandler) Update(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	var req dto.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "некорректное тело запроса"})
		return
	}

	profile, err := h.profiles.Update(c.Request.Context(), userID, service.UpdateProfileInput{
		DisplayName: req.DisplayName,
		Description: req.Description,
		Phone:       req.Phone,
		Address:     req.Address,
		AvatarURL:   req.AvatarURL,
	})
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, profile)
}

// GetPublic обрабатывает GET /api/users/:id/profile.
func (h *ProfileHandler) GetPublic(c *gin.Context) {
	userID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	profile, err := h.profiles.GetPublic(c.Request.Context(), userID)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, profile)
}
