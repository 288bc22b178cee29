package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/foodshare/foodshare-backend/internal/dto"
	"github.com/foodshare/foodshare-backend/internal/http/handlers/common"
	"github.com/foodshare/foodshare-backend/internal/service"
)

// ListingHandler обслуживает жизненный цикл объявлений.
type ListingHandler struct {
	listings *service.ListingService
	contacts *service.ContactService
}

// NewListingHandler создаёт новый хэндлер.
func NewListingHandler(listings *service.ListingService, contacts *service.ContactService) *ListingHandler {
	return &ListingHandler{
		listings: listings,
		contacts: contacts,
	}
}

// List обрабатывает GET /api/listings — каталог для НКО.
func (h *ListingHandler) List(c *gin.Context) {
	page := common.ParseIntQuery(c, "page", 1)
	perPage := common.ParseIntQuery(c, "per_page", 20)

	result, err := h.listings.List(c.Request.Context(), service.ListParams{
		Status:   c.Query("status"),
		FoodType: c.Query("food_type"),
		Search:   c.Query("search"),
		Page:     page,
		PerPage:  perPage,
	})
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, dto.PaginatedListingsResponse{
		Data: result.Listings,
		Pagination: dto.Pagination{
			Total:   result.Total,
			Page:    page,
			PerPage: perPage,
			HasMore: page*perPage < result.Total,
		},
	})
}

// ListMine обрабатывает GET /api/listings/mine — объявления ресторана.
func (h *ListingHandler) ListMine(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	listings, err := h.listings.ListByDonor(c.Request.Context(), userID)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"listings": listings})
}

// Get обрабатывает GET /api/listings/:id.
func (h *ListingHandler) Get(c *gin.Context) {
	listingID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	listing, err := h.listings.GetByID(c.Request.Context(), listingID)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, listing)
}

// Create обрабатывает POST /api/listings.
func (h *ListingHandler) Create(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	in, ok := bindListingInput(c)
	if !ok {
		return
	}

	listing, err := h.listings.Create(c.Request.Context(), userID, in)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, listing)
}

// Update обрабатывает PUT /api/listings/:id.
func (h *ListingHandler) Update(c *gin.Context) {
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

	in, ok := bindListingInput(c)
	if !ok {
		return
	}

	listing, err := h.listings.Update(c.Request.Context(), userID, listingID, in)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, listing)
}

// Cancel обрабатывает POST /api/listings/:id/cancel.
func (h *ListingHandler) Cancel(c *gin.Context) {
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

	listing, err := h.listings.Cancel(c.Request.Context(), userID, listingID)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, listing)
}

// Complete обрабатывает POST /api/listings/:id/complete.
func (h *ListingHandler) Complete(c *gin.Context) {
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

	listing, err := h.listings.Complete(c.Request.Context(), userID, listingID)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, listing)
}

// Contacts обрабатывает GET /api/listings/:id/contacts — контакты второй
// стороны подтверждённой передачи.
func (h *ListingHandler) Contacts(c *gin.Context) {
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

	disclosure, err := h.contacts.GetContacts(c.Request.Context(), userID, listingID)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, disclosure)
}

// bindListingInput разбирает тело объявления и временные поля.
func bindListingInput(c *gin.Context) (service.CreateListingInput, bool) {
	var req dto.CreateListingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "некорректное тело запроса"})
		return service.CreateListingInput{}, false
	}

	preparedAt, expiresAt, pickupStart, pickupEnd, err := req.ParseTimes()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "временные поля должны быть в формате RFC3339"})
		return service.CreateListingInput{}, false
	}

	return service.CreateListingInput{
		Title:        req.Title,
		Description:  req.Description,
		FoodType:     req.FoodType,
		Quantity:     req.Quantity,
		QuantityUnit: req.QuantityUnit,
		PreparedAt:   preparedAt,
		ExpiresAt:    expiresAt,
		PickupStart:  pickupStart,
		PickupEnd:    pickupEnd,
		Address:      req.Address,
		Photos:       req.Photos,
		Allergens:    req.Allergens,
		StorageNotes: req.StorageNotes,
	}, true
}
