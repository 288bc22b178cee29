package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/foodshare/foodshare-backend/internal/http/handlers/common"
	"github.com/foodshare/foodshare-backend/internal/service"
)

// SeedHandler генерирует тестовые данные. Доступен только вне production.
type SeedHandler struct {
	seed *service.SeedService
}

// NewSeedHandler создаёт новый хэндлер.
func NewSeedHandler(seed *service.SeedService) *SeedHandler {
	return &SeedHandler{seed: seed}
}

// Seed обрабатывает POST /api/seed.
func (h *SeedHandler) Seed(c *gin.Context) {
	numDonors := common.ParseIntQuery(c, "num_donors", 5)
	numNgos := common.ParseIntQuery(c, "num_ngos", 5)
	numListings := common.ParseIntQuery(c, "num_listings", 20)

	if numDonors < 0 || numNgos < 0 || numListings < 0 ||
		numDonors > 100 || numNgos > 100 || numListings > 500 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "некорректные параметры генерации"})
		return
	}

	result, err := h.seed.Seed(c.Request.Context(), numDonors, numNgos, numListings)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, result)
}
