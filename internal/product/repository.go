package product

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gofrs/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("product not found")

type Repository interface {
	Create(ctx context.Context, product *Product) error
	ListAvailableByStore(ctx context.Context, storeID uuid.UUID) ([]Product, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type postgresRepository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Repository {
	return &postgresRepository{db: db}
}

func (r *postgresRepository) Create(ctx context.Context, product *Product) error {
	id, err := uuid.NewV4()
	if err != nil {
		return fmt.Errorf("repository: failed to generate product ID: %w", err)
	}
	product.ID = id
	product.Available = true
	product.CreatedAt = time.Now().UTC()

	query := `
		INSERT INTO products (id, store_id, name, description, price, category, photo, available, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err = r.db.Exec(ctx, query,
		product.ID,
		product.StoreID,
		product.Name,
		product.Description,
		product.Price,
		product.Category,
		product.Photo,
		product.Available,
		product.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("repository: failed to insert product: %w", err)
	}

	return nil
}

func (r *postgresRepository) ListAvailableByStore(ctx context.Context, storeID uuid.UUID) ([]Product, error) {
	query := `
		SELECT id, store_id, name, description, price, category, photo, available, created_at
		FROM products
		WHERE store_id = $1 AND available = TRUE
		ORDER BY name
	`

	rows, err := r.db.Query(ctx, query, storeID)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to query products for store %s: %w", storeID, err)
	}
	defer rows.Close()

	products := make([]Product, 0)
	for rows.Next() {
		var p Product
		err := rows.Scan(
			&p.ID,
			&p.StoreID,
			&p.Name,
			&p.Description,
			&p.Price,
			&p.Category,
			&p.Photo,
			&p.Available,
			&p.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("repository: failed to scan product for store %s: %w", storeID, err)
		}
		products = append(products, p)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("repository: error iterating products for store %s: %w", storeID, err)
	}

	return products, nil
}

func (r *postgresRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM products WHERE id = $1`

	cmdTag, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("repository: failed to delete product %s: %w", id, err)
	}

	if cmdTag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}
