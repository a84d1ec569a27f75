package mocks

import (
	"context"

	"github.com/tablefront/pos-finance/internal/entities"
	"github.com/tablefront/pos-finance/internal/service"

	"github.com/stretchr/testify/mock"
)

type testingT interface {
	mock.TestingT
	Cleanup(func())
}

type MockSessionService struct {
	mock.Mock
}

func NewMockSessionService(t testingT) *MockSessionService {
	m := &MockSessionService{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockSessionService) OpenSession(ctx context.Context, params service.OpenSessionParams) (entities.RegisterSession, error) {
	args := m.Called(ctx, params)
	return args.Get(0).(entities.RegisterSession), args.Error(1)
}

func (m *MockSessionService) UpdateSession(ctx context.Context, id int64, upd entities.SessionUpdate) (entities.RegisterSession, error) {
	args := m.Called(ctx, id, upd)
	return args.Get(0).(entities.RegisterSession), args.Error(1)
}

func (m *MockSessionService) CloseSession(ctx context.Context, params service.CloseSessionParams) (entities.RegisterSession, error) {
	args := m.Called(ctx, params)
	return args.Get(0).(entities.RegisterSession), args.Error(1)
}

func (m *MockSessionService) GetActiveSession(ctx context.Context) (*entities.RegisterSession, error) {
	args := m.Called(ctx)
	if s, ok := args.Get(0).(*entities.RegisterSession); ok {
		return s, args.Error(1)
	}
	return nil, args.Error(1)
}

type MockArchiver struct {
	mock.Mock
}

func NewMockArchiver(t testingT) *MockArchiver {
	m := &MockArchiver{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockArchiver) MigrateOlderThan(ctx context.Context, cutoffDays int) (entities.MigrationResult, error) {
	args := m.Called(ctx, cutoffDays)
	return args.Get(0).(entities.MigrationResult), args.Error(1)
}

func (m *MockArchiver) PreviewMigration(ctx context.Context, cutoffDays int) (entities.MigrationPreview, error) {
	args := m.Called(ctx, cutoffDays)
	return args.Get(0).(entities.MigrationPreview), args.Error(1)
}
