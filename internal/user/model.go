package user

import (
	"time"

	"github.com/gofrs/uuid"
)

type Role string

const (
	RoleClient  Role = "client"
	RolePartner Role = "partner"
)

func (r Role) Valid() bool {
	return r == RoleClient || r == RolePartner
}

// User is an account identified by phone number. The PIN is a shared secret
// stored and compared as plain text; there is no password hashing anywhere.
type User struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Phone     string    `json:"phone" db:"phone"`
	Email     *string   `json:"email,omitempty" db:"email"`
	PIN       string    `json:"-" db:"pin"`
	Address   *string   `json:"address,omitempty" db:"address"`
	Reference *string   `json:"reference,omitempty" db:"reference"`
	Photo     *string   `json:"photo,omitempty" db:"photo"`
	Role      Role      `json:"role" db:"role"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
