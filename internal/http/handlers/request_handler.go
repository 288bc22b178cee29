package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/foodshare/foodshare-backend/internal/dto"
	"github.com/foodshare/foodshare-backend/internal/http/handlers/common"
	"github.com/foodshare/foodshare-backend/internal/service"
)

// RequestHandler обслуживает заявки НКО и их арбитраж рестораном.
type RequestHandler struct {
	requests *service.RequestService
}

// NewRequestHandler создаёт новый хэндлер.
func NewRequestHandler(requests *service.RequestService) *RequestHandler {
	return &RequestHandler{requests: requests}
}

// Submit обрабатывает POST /api/listings/:id/requests.
func (h *RequestHandler) Submit(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	listingID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var req dto.SubmitRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "некорректное тело запроса"})
		return
	}

	pickupAt, err := time.Parse(time.RFC3339, req.PickupAt)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "pickup_at должен быть в формате RFC3339"})
		return
	}

	request, err := h.requests.Submit(c.Request.Context(), userID, listingID, service.SubmitRequestInput{
		Message:  req.Message,
		PickupAt: pickupAt,
	})
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, request)
}

// ListForListing обрабатывает GET /api/listings/:id/requests.
func (h *RequestHandler) ListForListing(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	listingID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	requests, err := h.requests.ListForListing(c.Request.Context(), userID, listingID)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"requests": requests})
}

// ListMine обрабатывает GET /api/requests/mine — заявки НКО.
func (h *RequestHandler) ListMine(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	requests, err := h.requests.ListMine(c.Request.Context(), userID)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"requests": requests})
}

// Accept обрабатывает POST /api/listings/:id/requests/:requestId/accept.
func (h *RequestHandler) Accept(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	listingID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	requestID, err := common.ParseUUIDParam(c, "requestId")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	accepted, err := h.requests.Accept(c.Request.Context(), userID, listingID, requestID)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, accepted)
}

// Reject обрабатывает POST /api/listings/:id/requests/:requestId/reject.
func (h *RequestHandler) Reject(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	listingID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	requestID, err := common.ParseUUIDParam(c, "requestId")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	rejected, err := h.requests.Reject(c.Request.Context(), userID, listingID, requestID)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, rejected)
}
