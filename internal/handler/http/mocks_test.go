package http_test

import (
	"context"

	"github.com/gofrs/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/lucashenrq/pedeja/internal/order"
	"github.com/lucashenrq/pedeja/internal/product"
	"github.com/lucashenrq/pedeja/internal/store"
	"github.com/lucashenrq/pedeja/internal/user"
)

type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) Register(ctx context.Context, u *user.User) (uuid.UUID, error) {
	args := m.Called(ctx, u)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

func (m *MockUserService) Login(ctx context.Context, phone, pin string) (*user.User, error) {
	args := m.Called(ctx, phone, pin)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*user.User), args.Error(1)
}

func (m *MockUserService) GetByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*user.User), args.Error(1)
}

type MockStoreService struct {
	mock.Mock
}

func (m *MockStoreService) Create(ctx context.Context, st *store.Store) (*store.Store, error) {
	args := m.Called(ctx, st)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*store.Store), args.Error(1)
}

func (m *MockStoreService) GetByID(ctx context.Context, id uuid.UUID) (*store.Store, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*store.Store), args.Error(1)
}

func (m *MockStoreService) GetByOwnerID(ctx context.Context, ownerID uuid.UUID) (*store.Store, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*store.Store), args.Error(1)
}

func (m *MockStoreService) ListOnline(ctx context.Context) ([]store.Store, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]store.Store), args.Error(1)
}

func (m *MockStoreService) SetStatus(ctx context.Context, id uuid.UUID, status store.Status) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

type MockProductService struct {
	mock.Mock
}

func (m *MockProductService) Create(ctx context.Context, p *product.Product) (*product.Product, error) {
	args := m.Called(ctx, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*product.Product), args.Error(1)
}

func (m *MockProductService) ListAvailableByStore(ctx context.Context, storeID uuid.UUID) ([]product.Product, error) {
	args := m.Called(ctx, storeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]product.Product), args.Error(1)
}

func (m *MockProductService) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockOrderService struct {
	mock.Mock
}

func (m *MockOrderService) CreateOrder(ctx context.Context, o *order.Order) (uuid.UUID, error) {
	args := m.Called(ctx, o)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

func (m *MockOrderService) GetOrderByID(ctx context.Context, id uuid.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderService) ListByClientID(ctx context.Context, clientID uuid.UUID) ([]order.Order, error) {
	args := m.Called(ctx, clientID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]order.Order), args.Error(1)
}

func (m *MockOrderService) ListByStoreID(ctx context.Context, storeID uuid.UUID) ([]order.Order, error) {
	args := m.Called(ctx, storeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]order.Order), args.Error(1)
}

func (m *MockOrderService) SetStatus(ctx context.Context, orderID uuid.UUID, newStatus order.Status) error {
	args := m.Called(ctx, orderID, newStatus)
	return args.Error(0)
}
