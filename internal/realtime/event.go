package realtime

import (
	"fmt"

	"github.com/gofrs/uuid"
	"github.com/lucashenrq/pedeja/internal/order"
)

type Op string

const (
	OpInsert Op = "INSERT"
	OpUpdate Op = "UPDATE"
)

// Event is one row-level change on the orders table, as published by the
// orders_feed trigger.
type Event struct {
	Op       Op           `json:"op"`
	OrderID  uuid.UUID    `json:"order_id"`
	ClientID uuid.UUID    `json:"client_id"`
	StoreID  uuid.UUID    `json:"store_id"`
	Status   order.Status `json:"status"`
}

// Notification is what a connected viewer receives over the socket.
type Notification struct {
	Type    string       `json:"type"` // "order_created" or "order_status"
	OrderID uuid.UUID    `json:"order_id"`
	Status  order.Status `json:"status,omitempty"`
	Message string       `json:"message"`
}

// Viewer decides which events a subscription receives and how they render.
// There are exactly two variants, selected once when the session connects: a
// client viewer and a partner viewer. A partner never sees update events for
// its own orders, and a client never sees insert events.
type Viewer interface {
	Wants(ev Event) bool
	Notification(ev Event) Notification
}

// PartnerViewer receives insert events for its store: a new order landed.
type PartnerViewer struct {
	StoreID uuid.UUID
}

func (v PartnerViewer) Wants(ev Event) bool {
	return ev.Op == OpInsert && ev.StoreID == v.StoreID
}

func (v PartnerViewer) Notification(ev Event) Notification {
	return Notification{
		Type:    "order_created",
		OrderID: ev.OrderID,
		Status:  ev.Status,
		Message: fmt.Sprintf("Novo pedido recebido! #%s", ev.OrderID),
	}
}

// ClientViewer receives update events for its own orders: a status changed.
type ClientViewer struct {
	ClientID uuid.UUID
}

func (v ClientViewer) Wants(ev Event) bool {
	return ev.Op == OpUpdate && ev.ClientID == v.ClientID
}

func (v ClientViewer) Notification(ev Event) Notification {
	return Notification{
		Type:    "order_status",
		OrderID: ev.OrderID,
		Status:  ev.Status,
		Message: fmt.Sprintf("Seu pedido #%s está %s", ev.OrderID, ev.Status.Label()),
	}
}
