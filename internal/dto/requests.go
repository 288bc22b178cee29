package dto

import (
	"time"
)

// RegisterRequest represents the request to register an organization
type RegisterRequest struct {
	Email       string `json:"email" binding:"required"`
	Password    string `json:"password" binding:"required"`
	Role        string `json:"role" binding:"required"`
	DisplayName string `json:"display_name" binding:"required"`
	Phone       string `json:"phone"`
	Address     string `json:"address"`
}

// LoginRequest represents the request to log in
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// RefreshRequest represents the request to refresh a token pair
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// CreateListingRequest represents the request to publish a listing
type CreateListingRequest struct {
	Title        string   `json:"title" binding:"required"`
	Description  string   `json:"description"`
	FoodType     string   `json:"food_type" binding:"required"`
	Quantity     float64  `json:"quantity" binding:"required"`
	QuantityUnit string   `json:"quantity_unit" binding:"required"`
	PreparedAt   string   `json:"prepared_at" binding:"required"`
	ExpiresAt    string   `json:"expires_at" binding:"required"`
	PickupStart  string   `json:"pickup_start" binding:"required"`
	PickupEnd    string   `json:"pickup_end" binding:"required"`
	Address      string   `json:"address" binding:"required"`
	Photos       []string `json:"photos"`
	Allergens    []string `json:"allergens"`
	StorageNotes string   `json:"storage_notes"`
}

// ParseTimes converts the RFC3339 string fields to time.Time values
func (r *CreateListingRequest) ParseTimes() (preparedAt, expiresAt, pickupStart, pickupEnd time.Time, err error) {
	if preparedAt, err = time.Parse(time.RFC3339, r.PreparedAt); err != nil {
		return
	}
	if expiresAt, err = time.Parse(time.RFC3339, r.ExpiresAt); err != nil {
		return
	}
	if pickupStart, err = time.Parse(time.RFC3339, r.PickupStart); err != nil {
		return
	}
	pickupEnd, err = time.Parse(time.RFC3339, r.PickupEnd)
	return
}

// SubmitRequestRequest represents the request to submit a pickup request
type SubmitRequestRequest struct {
	Message  string `json:"message" binding:"required"`
	PickupAt string `json:"pickup_at" binding:"required"`
}

// CreateFeedbackRequest represents the request to leave feedback
type CreateFeedbackRequest struct {
	ListingID string `json:"listing_id" binding:"required"`
	Stars     int    `json:"stars" binding:"required"`
	Comment   string `json:"comment"`
}

// CreateComplaintRequest represents the request to file a complaint
type CreateComplaintRequest struct {
	ToUserID    string  `json:"to_user_id" binding:"required"`
	ListingID   *string `json:"listing_id"`
	Type        string  `json:"type" binding:"required"`
	Description string  `json:"description" binding:"required"`
}

// ResolveComplaintRequest represents the admin decision on a complaint
type ResolveComplaintRequest struct {
	Status     string `json:"status" binding:"required"`
	AdminNotes string `json:"admin_notes"`
}

// UpdateProfileRequest represents the request to update the organization profile
type UpdateProfileRequest struct {
	DisplayName string  `json:"display_name" binding:"required"`
	Description *string `json:"description"`
	Phone       *string `json:"phone"`
	Address     *string `json:"address"`
	AvatarURL   *string `json:"avatar_url"`
}
