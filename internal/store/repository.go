package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gofrs/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrNotFound      = errors.New("store not found")
	ErrOwnerExists   = errors.New("owner already has a store")
	ErrInvalidStatus = errors.New("invalid store status")
)

type Repository interface {
	Create(ctx context.Context, store *Store) error
	GetByID(ctx context.Context, id uuid.UUID) (*Store, error)
	GetByOwnerID(ctx context.Context, ownerID uuid.UUID) (*Store, error)
	ListByStatus(ctx context.Context, status Status) ([]Store, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status Status) error
}

type postgresRepository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Repository {
	return &postgresRepository{db: db}
}

const storeColumns = `id, owner_id, name, phone, address, email, whatsapp, category,
		delivery_fee, min_free_delivery, status, parking_photo, interior_photo, created_at`

func (r *postgresRepository) Create(ctx context.Context, store *Store) error {
	id, err := uuid.NewV4()
	if err != nil {
		return fmt.Errorf("repository: failed to generate store ID: %w", err)
	}
	store.ID = id
	store.CreatedAt = time.Now().UTC()
	if store.Status == "" {
		store.Status = StatusOnline
	}

	query := `
		INSERT INTO stores (id, owner_id, name, phone, address, email, whatsapp, category,
			delivery_fee, min_free_delivery, status, parking_photo, interior_photo, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`
	_, err = r.db.Exec(ctx, query,
		store.ID,
		store.OwnerID,
		store.Name,
		store.Phone,
		store.Address,
		store.Email,
		store.WhatsApp,
		store.Category,
		store.DeliveryFee,
		store.MinFreeDelivery,
		string(store.Status),
		store.ParkingPhoto,
		store.InteriorPhoto,
		store.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return ErrOwnerExists
		}
		return fmt.Errorf("repository: failed to insert store: %w", err)
	}

	return nil
}

func (r *postgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*Store, error) {
	query := fmt.Sprintf(`SELECT %s FROM stores WHERE id = $1`, storeColumns)

	st, err := scanStore(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("repository: failed to select store by id %s: %w", id, err)
	}

	return st, nil
}

func (r *postgresRepository) GetByOwnerID(ctx context.Context, ownerID uuid.UUID) (*Store, error) {
	query := fmt.Sprintf(`SELECT %s FROM stores WHERE owner_id = $1`, storeColumns)

	st, err := scanStore(r.db.QueryRow(ctx, query, ownerID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("repository: failed to select store by owner id %s: %w", ownerID, err)
	}

	return st, nil
}

func (r *postgresRepository) ListByStatus(ctx context.Context, status Status) ([]Store, error) {
	query := fmt.Sprintf(`SELECT %s FROM stores WHERE status = $1 ORDER BY name`, storeColumns)

	rows, err := r.db.Query(ctx, query, string(status))
	if err != nil {
		return nil, fmt.Errorf("repository: failed to query stores by status %s: %w", status, err)
	}
	defer rows.Close()

	stores := make([]Store, 0)
	for rows.Next() {
		st, err := scanStore(rows)
		if err != nil {
			return nil, fmt.Errorf("repository: failed to scan store: %w", err)
		}
		stores = append(stores, *st)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("repository: error iterating stores: %w", err)
	}

	return stores, nil
}

func (r *postgresRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status Status) error {
	query := `UPDATE stores SET status = $1 WHERE id = $2`

	cmdTag, err := r.db.Exec(ctx, query, string(status), id)
	if err != nil {
		return fmt.Errorf("repository: failed to update store status %s: %w", id, err)
	}

	if cmdTag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

func scanStore(row pgx.Row) (*Store, error) {
	var st Store
	err := row.Scan(
		&st.ID,
		&st.OwnerID,
		&st.Name,
		&st.Phone,
		&st.Address,
		&st.Email,
		&st.WhatsApp,
		&st.Category,
		&st.DeliveryFee,
		&st.MinFreeDelivery,
		&st.Status,
		&st.ParkingPhoto,
		&st.InteriorPhoto,
		&st.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &st, nil
}
