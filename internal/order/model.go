package order

import (
	"time"

	"github.com/gofrs/uuid"
)

type Status string

const (
	StatusPending        Status = "pending"
	StatusPreparing      Status = "preparing"
	StatusReady          Status = "ready"
	StatusOutForDelivery Status = "out_for_delivery"
	StatusDelivered      Status = "delivered"
)

func (s Status) String() string {
	return string(s)
}

// Lifecycle lists the statuses in their forward order. The service does not
// enforce transitions against it (UpdateStatus is a blind overwrite, the
// partner dashboard only offers downstream statuses), but keeping the table
// explicit means a stricter variant can consult it without touching call sites.
var Lifecycle = []Status{
	StatusPending,
	StatusPreparing,
	StatusReady,
	StatusOutForDelivery,
	StatusDelivered,
}

// StatusLabels maps each status to the text shown in client notifications.
var StatusLabels = map[Status]string{
	StatusPending:        "Pendente",
	StatusPreparing:      "Preparando",
	StatusReady:          "Pronto",
	StatusOutForDelivery: "Saiu para entrega",
	StatusDelivered:      "Entregue",
}

// Label returns the human-readable form of s, falling back to the raw value
// for labels the lifecycle does not know.
func (s Status) Label() string {
	if label, ok := StatusLabels[s]; ok {
		return label
	}
	return string(s)
}

type PaymentMethod string

const (
	PaymentPix  PaymentMethod = "pix"
	PaymentCard PaymentMethod = "card"
	PaymentCash PaymentMethod = "cash"
)

func (p PaymentMethod) Valid() bool {
	return p == PaymentPix || p == PaymentCard || p == PaymentCash
}

// OrderItem snapshots a product at checkout time. Price is copied from the
// cart, never re-read from products, so later price changes do not affect
// placed orders.
type OrderItem struct {
	ID        uuid.UUID `json:"id" db:"id"`
	OrderID   uuid.UUID `json:"order_id" db:"order_id"`
	ProductID uuid.UUID `json:"product_id" db:"product_id"`
	Quantity  int       `json:"quantity" db:"quantity"`
	Price     float64   `json:"price" db:"price"`
}

type Order struct {
	ID            uuid.UUID     `json:"id" db:"id"`
	ClientID      uuid.UUID     `json:"client_id" db:"client_id"`
	StoreID       uuid.UUID     `json:"store_id" db:"store_id"`
	Total         float64       `json:"total" db:"total"`
	PaymentMethod PaymentMethod `json:"payment_method" db:"payment_method"`
	// ChangeFor is only meaningful when PaymentMethod is cash.
	ChangeFor *float64    `json:"change_for,omitempty" db:"change_for"`
	Status    Status      `json:"status" db:"status"`
	Items     []OrderItem `json:"items,omitempty" db:"-"`
	CreatedAt time.Time   `json:"created_at" db:"created_at"`

	// Joined fields, populated only by the listing queries.
	StoreName     *string `json:"store_name,omitempty" db:"-"`
	ClientName    *string `json:"client_name,omitempty" db:"-"`
	ClientPhone   *string `json:"client_phone,omitempty" db:"-"`
	ClientAddress *string `json:"client_address,omitempty" db:"-"`
}
