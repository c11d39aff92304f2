package user

import (
	"context"
	"errors"
	"fmt"

	"github.com/gofrs/uuid"
	"github.com/rs/zerolog/log"
)

// ErrInvalidCredentials covers both unknown phone and wrong PIN. The two cases
// are never distinguished so a caller cannot enumerate registered phones.
var ErrInvalidCredentials = errors.New("invalid credentials")

type Service interface {
	Register(ctx context.Context, user *User) (uuid.UUID, error)
	Login(ctx context.Context, phone, pin string) (*User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Register(ctx context.Context, user *User) (uuid.UUID, error) {
	if !user.Role.Valid() {
		return uuid.Nil, fmt.Errorf("service: invalid role %q", user.Role)
	}

	id, err := s.repo.Create(ctx, user)
	if err != nil {
		if errors.Is(err, ErrPhoneExists) {
			return uuid.Nil, ErrPhoneExists
		}
		log.Error().Err(err).Msg("service: failed to create user in repository")
		return uuid.Nil, fmt.Errorf("service: failed to create user: %w", err)
	}

	log.Info().Stringer("user_id", id).Str("role", string(user.Role)).Msg("service: user registered")
	return id, nil
}

func (s *service) Login(ctx context.Context, phone, pin string) (*User, error) {
	u, err := s.repo.GetByPhoneAndPIN(ctx, phone, pin)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			log.Warn().Msg("service: login failed, no matching phone+pin pair")
			return nil, ErrInvalidCredentials
		}
		log.Error().Err(err).Msg("service: failed to fetch user for login")
		return nil, fmt.Errorf("service: failed to log in: %w", err)
	}

	return u, nil
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*User, error) {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}
		log.Error().Err(err).Stringer("user_id", id).Msg("service: failed to fetch user by id")
		return nil, fmt.Errorf("service: failed to fetch user by id: %w", err)
	}

	return u, nil
}
