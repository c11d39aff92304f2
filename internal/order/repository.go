package order

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gofrs/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
)

var ErrOrderNotFound = errors.New("order not found")

type Repository interface {
	CreateOrder(ctx context.Context, order *Order) (uuid.UUID, error)
	GetOrderByID(ctx context.Context, id uuid.UUID) (*Order, error)
	ListByClientID(ctx context.Context, clientID uuid.UUID) ([]Order, error)
	ListByStoreID(ctx context.Context, storeID uuid.UUID) ([]Order, error)
	UpdateStatus(ctx context.Context, orderID uuid.UUID, newStatus Status) error
}

type postgresRepository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Repository {
	return &postgresRepository{db: db}
}

// CreateOrder inserts the order and every item in one transaction. Either the
// whole checkout lands or nothing does; the row insert also fires the
// orders_feed trigger exactly once on commit.
func (r *postgresRepository) CreateOrder(ctx context.Context, orderInput *Order) (orderID uuid.UUID, err error) {
	finalOrderID, genErr := uuid.NewV4()
	if genErr != nil {
		return uuid.Nil, fmt.Errorf("repository: failed to generate order ID: %w", genErr)
	}
	orderInput.ID = finalOrderID

	tx, beginErr := r.db.Begin(ctx)
	if beginErr != nil {
		return uuid.Nil, fmt.Errorf("repository: failed to begin transaction: %w", beginErr)
	}
	defer func() {
		if p := recover(); p != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				log.Error().Err(rbErr).Stringer("order_id_attempted", finalOrderID).Msg("Failed to rollback transaction after panic")
			}
			panic(p)
		} else if err != nil {
			log.Warn().Err(err).Stringer("order_id_attempted", finalOrderID).Msg("Transaction for CreateOrder failed, rolling back")
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				log.Error().Err(rbErr).Stringer("order_id_attempted", finalOrderID).Msg("Failed to rollback transaction")
			}
		} else {
			if commitErr := tx.Commit(ctx); commitErr != nil {
				log.Error().Err(commitErr).Stringer("order_id", finalOrderID).Msg("Failed to commit transaction")
				err = fmt.Errorf("repository: failed to commit transaction: %w", commitErr)
			}
		}
	}()

	orderInput.CreatedAt = time.Now().UTC()

	queryOrder := `
		INSERT INTO orders (id, client_id, store_id, total, payment_method, change_for, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err = tx.Exec(ctx, queryOrder,
		finalOrderID,
		orderInput.ClientID,
		orderInput.StoreID,
		orderInput.Total,
		string(orderInput.PaymentMethod),
		orderInput.ChangeFor,
		string(orderInput.Status),
		orderInput.CreatedAt,
	)
	if err != nil {
		return uuid.Nil, fmt.Errorf("repository: failed to insert order: %w", err)
	}

	for i := range orderInput.Items {
		itemInput := &orderInput.Items[i]

		itemID, genErr := uuid.NewV4()
		if genErr != nil {
			return uuid.Nil, fmt.Errorf("repository: failed to generate order item ID: %w", genErr)
		}
		itemInput.ID = itemID
		itemInput.OrderID = finalOrderID

		queryItem := `
			INSERT INTO order_items (id, order_id, product_id, quantity, price)
			VALUES ($1, $2, $3, $4, $5)
		`
		_, err = tx.Exec(ctx, queryItem,
			itemInput.ID,
			finalOrderID,
			itemInput.ProductID,
			itemInput.Quantity,
			itemInput.Price,
		)
		if err != nil {
			return uuid.Nil, fmt.Errorf("repository: failed to insert order item for order %s: %w", finalOrderID, err)
		}
	}

	return finalOrderID, nil
}

func (r *postgresRepository) GetOrderByID(ctx context.Context, orderID uuid.UUID) (*Order, error) {
	queryOrder := `
		SELECT id, client_id, store_id, total, payment_method, change_for, status, created_at
		FROM orders
		WHERE id = $1
	`

	var o Order
	err := r.db.QueryRow(ctx, queryOrder, orderID).Scan(
		&o.ID,
		&o.ClientID,
		&o.StoreID,
		&o.Total,
		&o.PaymentMethod,
		&o.ChangeFor,
		&o.Status,
		&o.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("repository: failed to select order by id %s: %w", orderID, err)
	}

	queryItems := `
		SELECT id, order_id, product_id, quantity, price
		FROM order_items
		WHERE order_id = $1
	`

	rows, err := r.db.Query(ctx, queryItems, orderID)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to query order items for order id %s: %w", orderID, err)
	}
	defer rows.Close()

	items := make([]OrderItem, 0)
	for rows.Next() {
		var item OrderItem
		err := rows.Scan(&item.ID, &item.OrderID, &item.ProductID, &item.Quantity, &item.Price)
		if err != nil {
			return nil, fmt.Errorf("repository: failed to scan order item for order id %s: %w", orderID, err)
		}
		items = append(items, item)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("repository: error iterating order items for order id %s: %w", orderID, err)
	}

	o.Items = items

	return &o, nil
}

// ListByClientID returns the client's orders newest first, each carrying the
// store name the client ordered from.
func (r *postgresRepository) ListByClientID(ctx context.Context, clientID uuid.UUID) ([]Order, error) {
	query := `
		SELECT o.id, o.client_id, o.store_id, o.total, o.payment_method, o.change_for, o.status, o.created_at,
			s.name
		FROM orders o
		JOIN stores s ON s.id = o.store_id
		WHERE o.client_id = $1
		ORDER BY o.created_at DESC
	`

	rows, err := r.db.Query(ctx, query, clientID)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to query orders for client id %s: %w", clientID, err)
	}
	defer rows.Close()

	orders := make([]Order, 0)
	for rows.Next() {
		var o Order
		err := rows.Scan(
			&o.ID,
			&o.ClientID,
			&o.StoreID,
			&o.Total,
			&o.PaymentMethod,
			&o.ChangeFor,
			&o.Status,
			&o.CreatedAt,
			&o.StoreName,
		)
		if err != nil {
			return nil, fmt.Errorf("repository: failed to scan order for client id %s: %w", clientID, err)
		}
		orders = append(orders, o)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("repository: error iterating orders for client id %s: %w", clientID, err)
	}

	return r.attachItems(ctx, orders)
}

// ListByStoreID returns the store's orders newest first, each carrying the
// ordering client's name, phone and address for the partner dashboard.
func (r *postgresRepository) ListByStoreID(ctx context.Context, storeID uuid.UUID) ([]Order, error) {
	query := `
		SELECT o.id, o.client_id, o.store_id, o.total, o.payment_method, o.change_for, o.status, o.created_at,
			u.name, u.phone, u.address
		FROM orders o
		JOIN users u ON u.id = o.client_id
		WHERE o.store_id = $1
		ORDER BY o.created_at DESC
	`

	rows, err := r.db.Query(ctx, query, storeID)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to query orders for store id %s: %w", storeID, err)
	}
	defer rows.Close()

	orders := make([]Order, 0)
	for rows.Next() {
		var o Order
		err := rows.Scan(
			&o.ID,
			&o.ClientID,
			&o.StoreID,
			&o.Total,
			&o.PaymentMethod,
			&o.ChangeFor,
			&o.Status,
			&o.CreatedAt,
			&o.ClientName,
			&o.ClientPhone,
			&o.ClientAddress,
		)
		if err != nil {
			return nil, fmt.Errorf("repository: failed to scan order for store id %s: %w", storeID, err)
		}
		orders = append(orders, o)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("repository: error iterating orders for store id %s: %w", storeID, err)
	}

	return r.attachItems(ctx, orders)
}

func (r *postgresRepository) attachItems(ctx context.Context, orders []Order) ([]Order, error) {
	if len(orders) == 0 {
		return orders, nil
	}

	ordersMap := make(map[uuid.UUID]*Order, len(orders))
	orderIDs := make([]uuid.UUID, 0, len(orders))
	for i := range orders {
		orders[i].Items = make([]OrderItem, 0)
		ordersMap[orders[i].ID] = &orders[i]
		orderIDs = append(orderIDs, orders[i].ID)
	}

	query := `
		SELECT id, order_id, product_id, quantity, price
		FROM order_items
		WHERE order_id = ANY($1)
	`
	rows, err := r.db.Query(ctx, query, orderIDs)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to query order items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var item OrderItem
		err := rows.Scan(&item.ID, &item.OrderID, &item.ProductID, &item.Quantity, &item.Price)
		if err != nil {
			return nil, fmt.Errorf("repository: failed to scan order item: %w", err)
		}
		if o, ok := ordersMap[item.OrderID]; ok {
			o.Items = append(o.Items, item)
		}
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("repository: error iterating order items: %w", err)
	}

	return orders, nil
}

// UpdateStatus overwrites the status column unconditionally. Any label is
// written as given; the trigger on orders publishes the change to the feed.
func (r *postgresRepository) UpdateStatus(ctx context.Context, orderID uuid.UUID, newStatus Status) error {
	query := `UPDATE orders SET status = $1 WHERE id = $2`

	cmdTag, err := r.db.Exec(ctx, query, string(newStatus), orderID)
	if err != nil {
		log.Error().Err(err).Stringer("order_id", orderID).Str("new_status", string(newStatus)).Msg("repository: failed to update order status")
		return fmt.Errorf("repository: failed to update order status %s: %w", orderID, err)
	}

	if cmdTag.RowsAffected() == 0 {
		log.Warn().Stringer("order_id", orderID).Str("new_status", string(newStatus)).Msg("repository: order not found for status update")
		return ErrOrderNotFound
	}

	return nil
}
