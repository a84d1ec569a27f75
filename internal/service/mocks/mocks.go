// Package mocks holds testify mocks for the service-layer dependencies.
package mocks

import (
	"context"
	"time"

	"github.com/tablefront/pos-finance/internal/entities"

	"github.com/stretchr/testify/mock"
)

type testingT interface {
	mock.TestingT
	Cleanup(func())
}

type MockSessionRepo struct {
	mock.Mock
}

func NewMockSessionRepo(t testingT) *MockSessionRepo {
	m := &MockSessionRepo{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockSessionRepo) InsertSession(ctx context.Context, openedBy int64, openingCash entities.Money, notes string) (entities.RegisterSession, error) {
	args := m.Called(ctx, openedBy, openingCash, notes)
	return args.Get(0).(entities.RegisterSession), args.Error(1)
}

func (m *MockSessionRepo) GetSession(ctx context.Context, id int64) (entities.RegisterSession, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(entities.RegisterSession), args.Error(1)
}

func (m *MockSessionRepo) GetOpenSession(ctx context.Context) (*entities.RegisterSession, error) {
	args := m.Called(ctx)
	if s, ok := args.Get(0).(*entities.RegisterSession); ok {
		return s, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockSessionRepo) UpdateSession(ctx context.Context, id int64, upd entities.SessionUpdate) (entities.RegisterSession, error) {
	args := m.Called(ctx, id, upd)
	return args.Get(0).(entities.RegisterSession), args.Error(1)
}

func (m *MockSessionRepo) MarkSessionClosed(ctx context.Context, s entities.RegisterSession) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

func (m *MockSessionRepo) CompletedOrdersBySession(ctx context.Context, sessionID int64) ([]entities.Order, error) {
	args := m.Called(ctx, sessionID)
	if orders, ok := args.Get(0).([]entities.Order); ok {
		return orders, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockSessionRepo) PaymentsByOrder(ctx context.Context, orderID int64) ([]entities.Payment, error) {
	args := m.Called(ctx, orderID)
	if payments, ok := args.Get(0).([]entities.Payment); ok {
		return payments, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockSessionRepo) UserExists(ctx context.Context, userID int64) (bool, error) {
	args := m.Called(ctx, userID)
	return args.Bool(0), args.Error(1)
}

type MockArchiverRepo struct {
	mock.Mock
}

func NewMockArchiverRepo(t testingT) *MockArchiverRepo {
	m := &MockArchiverRepo{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockArchiverRepo) OrdersOlderThan(ctx context.Context, cutoff time.Time) ([]entities.Order, error) {
	args := m.Called(ctx, cutoff)
	if orders, ok := args.Get(0).([]entities.Order); ok {
		return orders, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockArchiverRepo) CountOrdersOlderThan(ctx context.Context, cutoff time.Time) (int, error) {
	args := m.Called(ctx, cutoff)
	return args.Int(0), args.Error(1)
}

func (m *MockArchiverRepo) CountOrders(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *MockArchiverRepo) ItemsByOrder(ctx context.Context, orderID int64) ([]entities.OrderItem, error) {
	args := m.Called(ctx, orderID)
	if items, ok := args.Get(0).([]entities.OrderItem); ok {
		return items, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockArchiverRepo) PaymentsByOrder(ctx context.Context, orderID int64) ([]entities.Payment, error) {
	args := m.Called(ctx, orderID)
	if payments, ok := args.Get(0).([]entities.Payment); ok {
		return payments, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockArchiverRepo) ArchivedOrderExists(ctx context.Context, orderID int64) (bool, error) {
	args := m.Called(ctx, orderID)
	return args.Bool(0), args.Error(1)
}

func (m *MockArchiverRepo) InsertArchivedOrder(ctx context.Context, o entities.Order, migratedAt time.Time) error {
	args := m.Called(ctx, o, migratedAt)
	return args.Error(0)
}

func (m *MockArchiverRepo) InsertArchivedItems(ctx context.Context, items []entities.OrderItem, migratedAt time.Time) error {
	args := m.Called(ctx, items, migratedAt)
	return args.Error(0)
}

func (m *MockArchiverRepo) InsertArchivedPayments(ctx context.Context, payments []entities.Payment, migratedAt time.Time) error {
	args := m.Called(ctx, payments, migratedAt)
	return args.Error(0)
}

func (m *MockArchiverRepo) CountArchivedOrders(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *MockArchiverRepo) DeletePrintJobs(ctx context.Context, orderID int64) error {
	args := m.Called(ctx, orderID)
	return args.Error(0)
}

func (m *MockArchiverRepo) DeleteOrderItems(ctx context.Context, orderID int64) error {
	args := m.Called(ctx, orderID)
	return args.Error(0)
}

func (m *MockArchiverRepo) DeletePayments(ctx context.Context, orderID int64) error {
	args := m.Called(ctx, orderID)
	return args.Error(0)
}

func (m *MockArchiverRepo) DeleteOrder(ctx context.Context, orderID int64) error {
	args := m.Called(ctx, orderID)
	return args.Error(0)
}

type MockCache struct {
	mock.Mock
}

func NewMockCache(t testingT) *MockCache {
	m := &MockCache{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockCache) Get(key string) ([]byte, bool) {
	args := m.Called(key)
	if data, ok := args.Get(0).([]byte); ok {
		return data, args.Bool(1)
	}
	return nil, args.Bool(1)
}

func (m *MockCache) Set(key string, value []byte) {
	m.Called(key, value)
}

func (m *MockCache) Delete(key string) {
	m.Called(key)
}

type MockNotifier struct {
	mock.Mock
}

func NewMockNotifier(t testingT) *MockNotifier {
	m := &MockNotifier{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockNotifier) Notify(ctx context.Context, resource, action string, id int64) {
	m.Called(ctx, resource, action, id)
}
