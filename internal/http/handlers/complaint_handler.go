package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/foodshare/foodshare-backend/internal/dto"
	"github.com/foodshare/foodshare-backend/internal/http/handlers/common"
	"github.com/foodshare/foodshare-backend/internal/models"
	"github.com/foodshare/foodshare-backend/internal/service"
)

// ComplaintHandler обслуживает жалобы и их разбор администратором.
type ComplaintHandler struct {
	complaints *service.ComplaintService
}

// NewComplaintHandler создаёт новый хэндлер.
func NewComplaintHandler(complaints *service.ComplaintService) *ComplaintHandler {
	return &ComplaintHandler{complaints: complaints}
}

// Create обрабатывает POST /api/complaints.
func (h *ComplaintHandler) Create(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	var req dto.CreateComplaintRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "некорректное тело запроса"})
		return
	}

	toUserID, err := uuid.Parse(req.ToUserID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "to_user_id должен быть валидным UUID"})
		return
	}

	var listingID *uuid.UUID
	if req.ListingID != nil && *req.ListingID != "" {
		parsed, err := uuid.Parse(*req.ListingID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "listing_id должен быть валидным UUID"})
			return
		}
		listingID = &parsed
	}

	complaint, err := h.complaints.Create(c.Request.Context(), userID, service.CreateComplaintInput{
		ToUserID:    toUserID,
		ListingID:   listingID,
		Type:        req.Type,
		Description: req.Description,
	})
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, complaint)
}

// ListMine обрабатывает GET /api/complaints/mine.
func (h *ComplaintHandler) ListMine(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	complaints, err := h.complaints.ListMine(c.Request.Context(), userID)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"complaints": complaints})
}

// ListForAdmin обрабатывает GET /api/admin/complaints.
func (h *ComplaintHandler) ListForAdmin(c *gin.Context) {
	limit := common.ParseIntQuery(c, "limit", 20)
	offset := common.ParseIntQuery(c, "offset", 0)

	complaints, err := h.complaints.ListForAdmin(c.Request.Context(), c.Query("status"), limit, offset)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"complaints": complaints})
}

// Resolve обрабатывает POST /api/admin/complaints/:id/resolve.
func (h *ComplaintHandler) Resolve(c *gin.Context) {
	adminID, err := common.CurrentUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	complaintID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var req dto.ResolveComplaintRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "некорректное тело запроса"})
		return
	}

	complaint, err := h.complaints.Resolve(c.Request.Context(), adminID, complaintID,
		models.ComplaintStatus(req.Status), req.AdminNotes)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, complaint)
}
