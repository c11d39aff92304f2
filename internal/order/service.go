package order

import (
	"context"
	"errors"
	"fmt"

	"github.com/gofrs/uuid"
	"github.com/rs/zerolog/log"
)

type Service interface {
	CreateOrder(ctx context.Context, orderInput *Order) (uuid.UUID, error)
	GetOrderByID(ctx context.Context, id uuid.UUID) (*Order, error)
	ListByClientID(ctx context.Context, clientID uuid.UUID) ([]Order, error)
	ListByStoreID(ctx context.Context, storeID uuid.UUID) ([]Order, error)
	SetStatus(ctx context.Context, orderID uuid.UUID, newStatus Status) error
}

type service struct {
	orderRepo Repository
}

func NewService(orderRepo Repository) Service {
	return &service{orderRepo: orderRepo}
}

// CreateOrder submits a checkout: one order row plus one item row per cart
// line, atomically. The total arrives computed client-side (subtotal plus the
// store's delivery fee) and is stored as submitted, not re-derived here.
func (s *service) CreateOrder(ctx context.Context, orderInput *Order) (uuid.UUID, error) {
	if len(orderInput.Items) == 0 {
		log.Warn().Msg("service: attempt to create order with no items")
		return uuid.Nil, errors.New("service: order must contain at least one item")
	}

	if orderInput.ClientID == uuid.Nil {
		return uuid.Nil, errors.New("service: client id is required")
	}
	if orderInput.StoreID == uuid.Nil {
		return uuid.Nil, errors.New("service: store id is required")
	}
	if !orderInput.PaymentMethod.Valid() {
		return uuid.Nil, fmt.Errorf("service: unknown payment method %q", orderInput.PaymentMethod)
	}

	for i := range orderInput.Items {
		item := &orderInput.Items[i]

		if item.Quantity <= 0 {
			return uuid.Nil, fmt.Errorf("service: order item quantity for product %s must be greater than zero", item.ProductID)
		}
		if item.Price < 0 {
			return uuid.Nil, fmt.Errorf("service: order item price for product %s cannot be negative", item.ProductID)
		}
		if item.ProductID == uuid.Nil {
			return uuid.Nil, errors.New("service: product id in order item cannot be nil")
		}
	}

	orderInput.Status = StatusPending

	orderID, err := s.orderRepo.CreateOrder(ctx, orderInput)
	if err != nil {
		log.Error().Err(err).Msg("service: failed to create order in repository")
		return uuid.Nil, fmt.Errorf("service: failed to create order: %w", err)
	}

	log.Info().Stringer("order_id", orderID).Stringer("client_id", orderInput.ClientID).Stringer("store_id", orderInput.StoreID).Msg("service: order created")

	return orderID, nil
}

func (s *service) GetOrderByID(ctx context.Context, id uuid.UUID) (*Order, error) {
	o, err := s.orderRepo.GetOrderByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrOrderNotFound) {
			return nil, ErrOrderNotFound
		}
		log.Error().Err(err).Stringer("order_id", id).Msg("service: failed to fetch order by id")
		return nil, fmt.Errorf("service: failed to fetch order by id: %w", err)
	}

	return o, nil
}

func (s *service) ListByClientID(ctx context.Context, clientID uuid.UUID) ([]Order, error) {
	orders, err := s.orderRepo.ListByClientID(ctx, clientID)
	if err != nil {
		log.Error().Err(err).Stringer("client_id", clientID).Msg("service: failed to fetch client orders")
		return nil, fmt.Errorf("service: failed to fetch client orders: %w", err)
	}

	return orders, nil
}

func (s *service) ListByStoreID(ctx context.Context, storeID uuid.UUID) ([]Order, error) {
	orders, err := s.orderRepo.ListByStoreID(ctx, storeID)
	if err != nil {
		log.Error().Err(err).Stringer("store_id", storeID).Msg("service: failed to fetch store orders")
		return nil, fmt.Errorf("service: failed to fetch store orders: %w", err)
	}

	return orders, nil
}

// SetStatus is a blind overwrite: any label is accepted and written as given,
// with no legality check against the current status and no ownership check on
// the caller. The partner dashboard is expected to only offer downstream
// statuses from Lifecycle.
func (s *service) SetStatus(ctx context.Context, orderID uuid.UUID, newStatus Status) error {
	err := s.orderRepo.UpdateStatus(ctx, orderID, newStatus)
	if err != nil {
		if errors.Is(err, ErrOrderNotFound) {
			log.Warn().Stringer("order_id", orderID).Stringer("new_status", newStatus).Msg("service: order not found, cannot update status")
			return ErrOrderNotFound
		}
		log.Error().Err(err).Stringer("order_id", orderID).Stringer("new_status", newStatus).Msg("service: failed to update order status")
		return fmt.Errorf("service: failed to update order status: %w", err)
	}

	log.Info().Stringer("order_id", orderID).Stringer("new_status", newStatus).Msg("service: order status updated")
	return nil
}
