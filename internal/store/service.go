package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/gofrs/uuid"
	"github.com/rs/zerolog/log"
)

type Service interface {
	Create(ctx context.Context, store *Store) (*Store, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Store, error)
	GetByOwnerID(ctx context.Context, ownerID uuid.UUID) (*Store, error)
	ListOnline(ctx context.Context) ([]Store, error)
	SetStatus(ctx context.Context, id uuid.UUID, status Status) error
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Create(ctx context.Context, store *Store) (*Store, error) {
	if store.OwnerID == uuid.Nil {
		return nil, errors.New("service: store owner id is required")
	}
	if store.DeliveryFee < 0 {
		return nil, fmt.Errorf("service: delivery fee cannot be negative, got %.2f", store.DeliveryFee)
	}

	if err := s.repo.Create(ctx, store); err != nil {
		if errors.Is(err, ErrOwnerExists) {
			return nil, ErrOwnerExists
		}
		log.Error().Err(err).Msg("service: failed to create store in repository")
		return nil, fmt.Errorf("service: failed to create store: %w", err)
	}

	log.Info().Stringer("store_id", store.ID).Stringer("owner_id", store.OwnerID).Msg("service: store created")
	return store, nil
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*Store, error) {
	st, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}
		log.Error().Err(err).Stringer("store_id", id).Msg("service: failed to fetch store by id")
		return nil, fmt.Errorf("service: failed to fetch store: %w", err)
	}

	return st, nil
}

func (s *service) GetByOwnerID(ctx context.Context, ownerID uuid.UUID) (*Store, error) {
	st, err := s.repo.GetByOwnerID(ctx, ownerID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}
		log.Error().Err(err).Stringer("owner_id", ownerID).Msg("service: failed to fetch store by owner")
		return nil, fmt.Errorf("service: failed to fetch store by owner: %w", err)
	}

	return st, nil
}

// ListOnline returns only stores the marketplace currently shows to clients.
// Offline stores are filtered in the query, never post-hoc.
func (s *service) ListOnline(ctx context.Context) ([]Store, error) {
	stores, err := s.repo.ListByStatus(ctx, StatusOnline)
	if err != nil {
		log.Error().Err(err).Msg("service: failed to list online stores")
		return nil, fmt.Errorf("service: failed to list stores: %w", err)
	}

	return stores, nil
}

func (s *service) SetStatus(ctx context.Context, id uuid.UUID, status Status) error {
	if !status.Valid() {
		return fmt.Errorf("service: %w: %q", ErrInvalidStatus, status)
	}

	if err := s.repo.UpdateStatus(ctx, id, status); err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrNotFound
		}
		log.Error().Err(err).Stringer("store_id", id).Str("status", string(status)).Msg("service: failed to update store status")
		return fmt.Errorf("service: failed to update store status: %w", err)
	}

	log.Info().Stringer("store_id", id).Str("status", string(status)).Msg("service: store status updated")
	return nil
}
