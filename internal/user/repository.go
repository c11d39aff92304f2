package user

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
	ErrNotFound    = errors.New("user not found")
	ErrPhoneExists = errors.New("phone already registered")
)

type Repository interface {
	Create(ctx context.Context, user *User) (uuid.UUID, error)
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)
	GetByPhoneAndPIN(ctx context.Context, phone, pin string) (*User, error)
}

type postgresRepository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Repository {
	return &postgresRepository{db: db}
}

func (r *postgresRepository) Create(ctx context.Context, user *User) (uuid.UUID, error) {
	id, err := uuid.NewV4()
	if err != nil {
		return uuid.Nil, fmt.Errorf("repository: failed to generate user ID: %w", err)
	}
	user.ID = id
	user.CreatedAt = time.Now().UTC()

	query := `
		INSERT INTO users (id, name, phone, email, pin, address, reference, photo, role, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err = r.db.Exec(ctx, query,
		user.ID,
		user.Name,
		user.Phone,
		user.Email,
		user.PIN,
		user.Address,
		user.Reference,
		user.Photo,
		string(user.Role),
		user.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return uuid.Nil, ErrPhoneExists
		}
		return uuid.Nil, fmt.Errorf("repository: failed to insert user: %w", err)
	}

	return user.ID, nil
}

func (r *postgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*User, error) {
	query := `
		SELECT id, name, phone, email, pin, address, reference, photo, role, created_at
		FROM users
		WHERE id = $1
	`
	u, err := r.scanOne(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("repository: failed to select user by id %s: %w", id, err)
	}

	return u, nil
}

// GetByPhoneAndPIN matches both columns in one query, exactly like the login
// filter pair. No row means wrong phone, wrong PIN, or both; callers cannot
// tell and that is deliberate.
func (r *postgresRepository) GetByPhoneAndPIN(ctx context.Context, phone, pin string) (*User, error) {
	query := `
		SELECT id, name, phone, email, pin, address, reference, photo, role, created_at
		FROM users
		WHERE phone = $1 AND pin = $2
	`
	u, err := r.scanOne(r.db.QueryRow(ctx, query, phone, pin))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("repository: failed to select user by phone: %w", err)
	}

	return u, nil
}

func (r *postgresRepository) scanOne(row pgx.Row) (*User, error) {
	var u User
	err := row.Scan(
		&u.ID,
		&u.Name,
		&u.Phone,
		&u.Email,
		&u.PIN,
		&u.Address,
		&u.Reference,
		&u.Photo,
		&u.Role,
		&u.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}
