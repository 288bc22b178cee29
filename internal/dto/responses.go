package dto

import (
	"github.com/foodshare/foodshare-backend/internal/models"
)

// ErrorResponse represents a standard error response
type ErrorResponse struct {
	Error string `json:"error"`
}

// SuccessResponse represents a standard success response
type SuccessResponse struct {
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// AuthResponse represents the result of register/login/refresh
type AuthResponse struct {
	User         *models.User    `json:"user,omitempty"`
	Profile      *models.Profile `json:"profile,omitempty"`
	AccessToken  string          `json:"access_token"`
	RefreshToken string          `json:"refresh_token"`
	ExpiresIn    int64           `json:"expires_in"`
}

// Pagination represents pagination metadata
type Pagination struct {
	Total   int  `json:"total"`
	Page    int  `json:"page"`
	PerPage int  `json:"per_page"`
	HasMore bool `json:"has_more"`
}

// PaginatedListingsResponse represents a paginated listings catalog
type PaginatedListingsResponse struct {
	Data       []models.Listing `json:"data"`
	Pagination Pagination       `json:"pagination"`
}

// ProfileResponse represents a public profile with its rating
type ProfileResponse struct {
	*models.Profile
	Rating *models.UserRating `json:"rating,omitempty"`
}
