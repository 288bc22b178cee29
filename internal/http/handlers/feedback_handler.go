package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/foodshare/foodshare-backend/internal/dto"
	"github.com/foodshare/foodshare-backend/internal/http/handlers/common"
	"github.com/foodshare/foodshare-backend/internal/service"
)

// FeedbackHandler обслуживает отзывы после завершённых передач.
type FeedbackHandler struct {
	feedback *service.FeedbackService
}

// NewFeedbackHandler создаёт новый хэндлер.
func NewFeedbackHandler(feedback *service.FeedbackService) *FeedbackHandler {
	return &FeedbackHandler{feedback: feedback}
}

// Create обрабатывает POST /api/feedback.
func (h *FeedbackHandler) Create(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	var req dto.CreateFeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "некорректное тело запроса"})
		return
	}

	listingID, err := uuid.Parse(req.ListingID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "listing_id должен быть валидным UUID"})
		return
	}

	feedback, err := h.feedback.Create(c.Request.Context(), userID, service.CreateFeedbackInput{
		ListingID: listingID,
		Stars:     req.Stars,
		Comment:   req.Comment,
	})
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, feedback)
}

// ListByUser обрабатывает GET /api/users/:id/feedback.
func (h *FeedbackHandler) ListByUser(c *gin.Context) {
	userID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	items, err := h.feedback.ListByUser(c.Request.Context(), userID)
	if err != nil {
		_ = c.Error(err)
		return
	}

	rating, err := h.feedback.GetUserRating(c.Request.Context(), userID)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"feedback": items,
		"rating":   rating,
	})
}

// ListByListing обрабатывает GET /api/listings/:id/feedback.
func (h *FeedbackHandler) ListByListing(c *gin.Context) {
	listingID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	items, err := h.feedback.ListByListing(c.Request.Context(), listingID)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"feedback": items})
}
