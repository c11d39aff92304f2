package product

import (
	"context"
	"errors"
	"fmt"

	"github.com/gofrs/uuid"
	"github.com/rs/zerolog/log"
)

type Service interface {
	Create(ctx context.Context, product *Product) (*Product, error)
	ListAvailableByStore(ctx context.Context, storeID uuid.UUID) ([]Product, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Create(ctx context.Context, product *Product) (*Product, error) {
	if product.StoreID == uuid.Nil {
		return nil, errors.New("service: product store id is required")
	}
	if product.Price < 0 {
		return nil, fmt.Errorf("service: product price cannot be negative, got %.2f", product.Price)
	}

	if err := s.repo.Create(ctx, product); err != nil {
		log.Error().Err(err).Stringer("store_id", product.StoreID).Msg("service: failed to create product in repository")
		return nil, fmt.Errorf("service: failed to create product: %w", err)
	}

	log.Info().Stringer("product_id", product.ID).Stringer("store_id", product.StoreID).Msg("service: product created")
	return product, nil
}

func (s *service) ListAvailableByStore(ctx context.Context, storeID uuid.UUID) ([]Product, error) {
	products, err := s.repo.ListAvailableByStore(ctx, storeID)
	if err != nil {
		log.Error().Err(err).Stringer("store_id", storeID).Msg("service: failed to list products")
		return nil, fmt.Errorf("service: failed to list products: %w", err)
	}

	return products, nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrNotFound
		}
		log.Error().Err(err).Stringer("product_id", id).Msg("service: failed to delete product")
		return fmt.Errorf("service: failed to delete product: %w", err)
	}

	log.Info().Stringer("product_id", id).Msg("service: product deleted")
	return nil
}
