package product

import (
	"time"

	"github.com/gofrs/uuid"
)

// Product belongs to exactly one store. There is no update-in-place: the
// partner dashboard recreates a product to change it, so only create, list
// and delete exist here.
type Product struct {
	ID          uuid.UUID `json:"id" db:"id"`
	StoreID     uuid.UUID `json:"store_id" db:"store_id"`
	Name        string    `json:"name" db:"name"`
	Description *string   `json:"description,omitempty" db:"description"`
	Price       float64   `json:"price" db:"price"`
	Category    string    `json:"category" db:"category"`
	Photo       *string   `json:"photo,omitempty" db:"photo"`
	Available   bool      `json:"available" db:"available"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}
