package store

import (
	"time"

	"github.com/gofrs/uuid"
)

type Status string

const (
	StatusOnline  Status = "online"
	StatusOffline Status = "offline"
)

func (s Status) Valid() bool {
	return s == StatusOnline || s == StatusOffline
}

// Store is owned by exactly one partner user. Status controls visibility in
// the public listing and is mutated only by the owner's dashboard.
type Store struct {
	ID              uuid.UUID `json:"id" db:"id"`
	OwnerID         uuid.UUID `json:"owner_id" db:"owner_id"`
	Name            string    `json:"name" db:"name"`
	Phone           string    `json:"phone" db:"phone"`
	Address         string    `json:"address" db:"address"`
	Email           *string   `json:"email,omitempty" db:"email"`
	WhatsApp        *string   `json:"whatsapp,omitempty" db:"whatsapp"`
	Category        string    `json:"category" db:"category"`
	DeliveryFee     float64   `json:"delivery_fee" db:"delivery_fee"`
	MinFreeDelivery *float64  `json:"min_free_delivery,omitempty" db:"min_free_delivery"`
	Status          Status    `json:"status" db:"status"`
	ParkingPhoto    *string   `json:"parking_photo,omitempty" db:"parking_photo"`
	InteriorPhoto   *string   `json:"interior_photo,omitempty" db:"interior_photo"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
}
