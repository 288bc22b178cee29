package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Listing описывает объявление ресторана о передаче излишков еды.
type Listing struct {
	ID           uuid.UUID      `db:"id" json:"id"`
	DonorID      uuid.UUID      `db:"donor_id" json:"donor_id"`
	Title        string         `db:"title" json:"title"`
	Description  *string        `db:"description" json:"description,omitempty"`
	FoodType     string         `db:"food_type" json:"food_type"`
	Quantity     float64        `db:"quantity" json:"quantity"`
	QuantityUnit string         `db:"quantity_unit" json:"quantity_unit"`
	PreparedAt   time.Time      `db:"prepared_at" json:"prepared_at"`
	ExpiresAt    time.Time      `db:"expires_at" json:"expires_at"`
	PickupStart  time.Time      `db:"pickup_start" json:"pickup_start"`
	PickupEnd    time.Time      `db:"pickup_end" json:"pickup_end"`
	Status       ListingStatus  `db:"status" json:"status"`
	Address      string         `db:"address" json:"address"`
	Photos       pq.StringArray `db:"photos" json:"photos,omitempty"`
	Allergens    pq.StringArray `db:"allergens" json:"allergens,omitempty"`
	StorageNotes *string        `db:"storage_notes" json:"storage_notes,omitempty"`
	CreatedAt    time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time      `db:"updated_at" json:"updated_at"`

	RequestsCount *int `db:"requests_count" json:"requests_count,omitempty"`
}

// Категории еды для фильтрации в каталоге.
const (
	FoodTypePrepared = "prepared"
	FoodTypeBakery   = "bakery"
	FoodTypeProduce  = "produce"
	FoodTypeDairy    = "dairy"
	FoodTypeGrocery  = "grocery"
	FoodTypeOther    = "other"
)

// ValidFoodTypes список валидных категорий еды.
var ValidFoodTypes = map[string]struct{}{
	FoodTypePrepared: {},
	FoodTypeBakery:   {},
	FoodTypeProduce:  {},
	FoodTypeDairy:    {},
	FoodTypeGrocery:  {},
	FoodTypeOther:    {},
}

// Request представляет заявку НКО на самовывоз конкретного объявления.
type Request struct {
	ID        uuid.UUID     `db:"id" json:"id"`
	ListingID uuid.UUID     `db:"listing_id" json:"listing_id"`
	NgoID     uuid.UUID     `db:"ngo_id" json:"ngo_id"`
	Message   string        `db:"message" json:"message"`
	PickupAt  time.Time     `db:"pickup_at" json:"pickup_at"`
	Status    RequestStatus `db:"status" json:"status"`
	CreatedAt time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt time.Time     `db:"updated_at" json:"updated_at"`
}

// ContactCard содержит контактные данные, раскрываемые после подтверждения.
type ContactCard struct {
	UserID  uuid.UUID `json:"user_id"`
	Name    string    `json:"name"`
	Email   string    `json:"email"`
	Phone   *string   `json:"phone,omitempty"`
	Address *string   `json:"address,omitempty"`
}

// ContactDisclosure результат политики раскрытия контактов: у зрителя
// видна только карточка второй стороны подтверждённой пары.
type ContactDisclosure struct {
	DonorContact *ContactCard `json:"donor_contact,omitempty"`
	NgoContact   *ContactCard `json:"ngo_contact,omitempty"`
}
