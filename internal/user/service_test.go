package user_test

import (
	"context"
	"errors"
	"testing"

	"github.com/gofrs/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lucashenrq/pedeja/internal/user"
)

type mockUserRepository struct {
	createFunc           func(ctx context.Context, u *user.User) (uuid.UUID, error)
	getByIDFunc          func(ctx context.Context, id uuid.UUID) (*user.User, error)
	getByPhoneAndPINFunc func(ctx context.Context, phone, pin string) (*user.User, error)
}

func (m *mockUserRepository) Create(ctx context.Context, u *user.User) (uuid.UUID, error) {
	return m.createFunc(ctx, u)
}

func (m *mockUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	return m.getByIDFunc(ctx, id)
}

func (m *mockUserRepository) GetByPhoneAndPIN(ctx context.Context, phone, pin string) (*user.User, error) {
	return m.getByPhoneAndPINFunc(ctx, phone, pin)
}

func TestUserService_Register(t *testing.T) {
	newID := uuid.Must(uuid.NewV4())

	tests := []struct {
		name       string
		user       *user.User
		createFunc func(ctx context.Context, u *user.User) (uuid.UUID, error)
		wantErr    bool
		wantErrIs  error
	}{
		{
			name: "successful_registration",
			user: &user.User{Name: "Ana", Phone: "119999", PIN: "123456", Role: user.RoleClient},
			createFunc: func(ctx context.Context, u *user.User) (uuid.UUID, error) {
				return newID, nil
			},
			wantErr: false,
		},
		{
			name: "invalid_role",
			user: &user.User{Name: "Ana", Phone: "119999", PIN: "123456", Role: "admin"},
			createFunc: func(ctx context.Context, u *user.User) (uuid.UUID, error) {
				t.Fatal("repository must not be called for an invalid role")
				return uuid.Nil, nil
			},
			wantErr: true,
		},
		{
			name: "duplicate_phone",
			user: &user.User{Name: "Ana", Phone: "119999", PIN: "123456", Role: user.RoleClient},
			createFunc: func(ctx context.Context, u *user.User) (uuid.UUID, error) {
				return uuid.Nil, user.ErrPhoneExists
			},
			wantErr:   true,
			wantErrIs: user.ErrPhoneExists,
		},
		{
			name: "repository_failure",
			user: &user.User{Name: "Ana", Phone: "119999", PIN: "123456", Role: user.RolePartner},
			createFunc: func(ctx context.Context, u *user.User) (uuid.UUID, error) {
				return uuid.Nil, errors.New("connection refused")
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &mockUserRepository{createFunc: tt.createFunc}
			svc := user.NewService(repo)

			id, err := svc.Register(context.Background(), tt.user)
			if tt.wantErr {
				require.Error(t, err)
				if tt.wantErrIs != nil {
					assert.ErrorIs(t, err, tt.wantErrIs)
				}
				return
			}
			require.NoError(t, err)
			assert.Equal(t, newID, id)
		})
	}
}

func TestUserService_Login(t *testing.T) {
	known := &user.User{
		ID:    uuid.Must(uuid.NewV4()),
		Name:  "Ana",
		Phone: "119999",
		PIN:   "123456",
		Role:  user.RoleClient,
	}

	repo := &mockUserRepository{
		getByPhoneAndPINFunc: func(ctx context.Context, phone, pin string) (*user.User, error) {
			if phone == known.Phone && pin == known.PIN {
				return known, nil
			}
			return nil, user.ErrNotFound
		},
	}
	svc := user.NewService(repo)

	t.Run("matching_pair", func(t *testing.T) {
		got, err := svc.Login(context.Background(), "119999", "123456")
		require.NoError(t, err)
		assert.Equal(t, known.ID, got.ID)
		assert.Equal(t, known.Name, got.Name)
	})

	// Unknown phone and wrong PIN must be indistinguishable to the caller.
	t.Run("unknown_phone", func(t *testing.T) {
		_, err := svc.Login(context.Background(), "000000", "123456")
		assert.ErrorIs(t, err, user.ErrInvalidCredentials)
	})

	t.Run("wrong_pin", func(t *testing.T) {
		_, err := svc.Login(context.Background(), "119999", "654321")
		assert.ErrorIs(t, err, user.ErrInvalidCredentials)
	})

	t.Run("repository_failure", func(t *testing.T) {
		failing := &mockUserRepository{
			getByPhoneAndPINFunc: func(ctx context.Context, phone, pin string) (*user.User, error) {
				return nil, errors.New("connection refused")
			},
		}
		_, err := user.NewService(failing).Login(context.Background(), "119999", "123456")
		require.Error(t, err)
		assert.NotErrorIs(t, err, user.ErrInvalidCredentials)
	})
}
