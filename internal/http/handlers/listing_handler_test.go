package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/foodshare/foodshare-backend/internal/http/middleware"
)

func TestListingHandler_Create_Unauthorized(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handler := &ListingHandler{}
	r.POST("/listings", handler.Create)

	req, _ := http.NewRequest("POST", "/listings", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestListingHandler_Get_InvalidID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handler := &ListingHandler{}
	r.GET("/listings/:id", handler.Get)

	req, _ := http.NewRequest("GET", "/listings/not-a-uuid", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListingHandler_Cancel_Unauthorized(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handler := &ListingHandler{}
	r.POST("/listings/:id/cancel", handler.Cancel)

	req, _ := http.NewRequest("POST", "/listings/"+uuid.NewString()+"/cancel", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestListingHandler_Contacts_InvalidID_WithAuth(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set(middleware.ContextUserIDKey, uuid.New())
		c.Next()
	})
	handler := &ListingHandler{}
	r.GET("/listings/:id/contacts", handler.Contacts)

	req, _ := http.NewRequest("GET", "/listings/not-a-uuid/contacts", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
