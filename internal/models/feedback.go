package models

import (
	"time"

	"github.com/google/uuid"
)

// Feedback описывает отзыв одной стороны о другой после завершения донации.
// На каждую пару (объявление, автор) допускается не более одной записи.
type Feedback struct {
	ID         uuid.UUID `db:"id" json:"id"`
	ListingID  uuid.UUID `db:"listing_id" json:"listing_id"`
	FromUserID uuid.UUID `db:"from_user_id" json:"from_user_id"`
	ToUserID   uuid.UUID `db:"to_user_id" json:"to_user_id"`
	Stars      int       `db:"stars" json:"stars"`
	Comment    *string   `db:"comment" json:"comment,omitempty"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}

// Типы жалоб.
const (
	ComplaintTypeNoShow      = "no_show"
	ComplaintTypeFoodQuality = "food_quality"
	ComplaintTypeMisconduct  = "misconduct"
	ComplaintTypeFraud       = "fraud"
	ComplaintTypeOther       = "other"
)

// ValidComplaintTypes список валидных типов жалоб.
var ValidComplaintTypes = map[string]struct{}{
	ComplaintTypeNoShow:      {},
	ComplaintTypeFoodQuality: {},
	ComplaintTypeMisconduct:  {},
	ComplaintTypeFraud:       {},
	ComplaintTypeOther:       {},
}

// Complaint описывает жалобу одного пользователя на другого,
// опционально привязанную к объявлению. Статусом управляет только администратор.
type Complaint struct {
	ID          uuid.UUID       `db:"id" json:"id"`
	FromUserID  uuid.UUID       `db:"from_user_id" json:"from_user_id"`
	ToUserID    uuid.UUID       `db:"to_user_id" json:"to_user_id"`
	ListingID   *uuid.UUID      `db:"listing_id" json:"listing_id,omitempty"`
	Type        string          `db:"type" json:"type"`
	Description string          `db:"description" json:"description"`
	Status      ComplaintStatus `db:"status" json:"status"`
	AdminNotes  *string         `db:"admin_notes" json:"admin_notes,omitempty"`
	ResolvedBy  *uuid.UUID      `db:"resolved_by" json:"resolved_by,omitempty"`
	CreatedAt   time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time       `db:"updated_at" json:"updated_at"`
}

// UserRating агрегированный рейтинг пользователя по отзывам.
type UserRating struct {
	AverageStars  float64 `json:"average_stars"`
	FeedbackCount int     `json:"feedback_count"`
}
