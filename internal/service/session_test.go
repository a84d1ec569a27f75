package service_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/tablefront/pos-finance/internal/entities"
	"github.com/tablefront/pos-finance/internal/service"
	"github.com/tablefront/pos-finance/internal/service/mocks"
	txMocks "github.com/tablefront/pos-finance/pkg/trm/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func money(v int64) *entities.Money {
	m := entities.Money(v)
	return &m
}

func userID(v int64) *int64 {
	return &v
}

func TestSessionService_OpenSession(t *testing.T) {
	dbError := errors.New("db error")

	openSession := entities.RegisterSession{
		ID:          7,
		Status:      entities.SessionStatusOpen,
		OpenedBy:    42,
		OpeningCash: 1000,
		OpenedAt:    time.Now(),
	}

	testCases := []struct {
		name         string
		params       service.OpenSessionParams
		mockBehavior func(repo *mocks.MockSessionRepo, cache *mocks.MockCache, notifier *mocks.MockNotifier)
		wantErr      error
	}{
		{
			name:   "OK",
			params: service.OpenSessionParams{OpenedBy: 42, OpeningCash: 1000},
			mockBehavior: func(repo *mocks.MockSessionRepo, cache *mocks.MockCache, notifier *mocks.MockNotifier) {
				repo.On("UserExists", mock.Anything, int64(42)).Return(true, nil).Once()
				repo.On("InsertSession", mock.Anything, int64(42), entities.Money(1000), "").
					Return(openSession, nil).Once()
				cache.On("Delete", mock.Anything).Once()
				notifier.On("Notify", mock.Anything, "register-sessions", "created", int64(7)).Once()
			},
		},
		{
			name:   "unknown user",
			params: service.OpenSessionParams{OpenedBy: 99, OpeningCash: 1000},
			mockBehavior: func(repo *mocks.MockSessionRepo, cache *mocks.MockCache, notifier *mocks.MockNotifier) {
				repo.On("UserExists", mock.Anything, int64(99)).Return(false, nil).Once()
			},
			wantErr: entities.ErrUserNotFound,
		},
		{
			name:   "second open session rejected",
			params: service.OpenSessionParams{OpenedBy: 42, OpeningCash: 500},
			mockBehavior: func(repo *mocks.MockSessionRepo, cache *mocks.MockCache, notifier *mocks.MockNotifier) {
				repo.On("UserExists", mock.Anything, int64(42)).Return(true, nil).Once()
				repo.On("InsertSession", mock.Anything, int64(42), entities.Money(500), "").
					Return(entities.RegisterSession{}, entities.ErrOpenSessionExists).Once()
			},
			wantErr: entities.ErrOpenSessionExists,
		},
		{
			name:   "insert fails",
			params: service.OpenSessionParams{OpenedBy: 42, OpeningCash: 500},
			mockBehavior: func(repo *mocks.MockSessionRepo, cache *mocks.MockCache, notifier *mocks.MockNotifier) {
				repo.On("UserExists", mock.Anything, int64(42)).Return(true, nil).Once()
				repo.On("InsertSession", mock.Anything, int64(42), entities.Money(500), "").
					Return(entities.RegisterSession{}, dbError).Once()
			},
			wantErr: dbError,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			repo := mocks.NewMockSessionRepo(t)
			cache := mocks.NewMockCache(t)
			notifier := mocks.NewMockNotifier(t)
			tx := txMocks.NewMockManager(t)

			tc.mockBehavior(repo, cache, notifier)

			svc := service.NewSessionService(discardLogger(), tx, repo, cache, notifier)

			got, err := svc.OpenSession(context.Background(), tc.params)
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, openSession, got)
		})
	}
}

func TestSessionService_UpdateSession(t *testing.T) {
	openSession := entities.RegisterSession{
		ID:          3,
		Status:      entities.SessionStatusOpen,
		OpenedBy:    42,
		OpeningCash: 1000,
	}

	closing := entities.Money(1450)
	expected := entities.Money(1500)
	difference := closing - expected
	closedBy := int64(42)
	closedSession := entities.RegisterSession{
		ID:             3,
		Status:         entities.SessionStatusClosed,
		OpenedBy:       42,
		ClosedBy:       &closedBy,
		OpeningCash:    1000,
		ClosingCash:    &closing,
		ExpectedCash:   &expected,
		CashDifference: &difference,
	}

	corrected := openSession
	corrected.ClosingCash = money(1450)

	testCases := []struct {
		name         string
		id           int64
		upd          entities.SessionUpdate
		mockBehavior func(repo *mocks.MockSessionRepo, cache *mocks.MockCache, notifier *mocks.MockNotifier)
		wantErr      error
		want         entities.RegisterSession
	}{
		{
			name: "corrects an open session",
			id:   3,
			upd:  entities.SessionUpdate{ClosingCash: money(1450)},
			mockBehavior: func(repo *mocks.MockSessionRepo, cache *mocks.MockCache, notifier *mocks.MockNotifier) {
				repo.On("GetSession", mock.Anything, int64(3)).Return(openSession, nil).Once()
				repo.On("UpdateSession", mock.Anything, int64(3), entities.SessionUpdate{ClosingCash: money(1450)}).
					Return(corrected, nil).Once()
				cache.On("Delete", mock.Anything).Once()
				notifier.On("Notify", mock.Anything, "register-sessions", "updated", int64(3)).Once()
			},
			want: corrected,
		},
		{
			name: "closed session is terminal",
			id:   3,
			upd:  entities.SessionUpdate{ClosingCash: money(9999)},
			mockBehavior: func(repo *mocks.MockSessionRepo, cache *mocks.MockCache, notifier *mocks.MockNotifier) {
				repo.On("GetSession", mock.Anything, int64(3)).Return(closedSession, nil).Once()
			},
			wantErr: entities.ErrSessionAlreadyClosed,
		},
		{
			name: "session not found",
			id:   404,
			upd:  entities.SessionUpdate{ClosingCash: money(1450)},
			mockBehavior: func(repo *mocks.MockSessionRepo, cache *mocks.MockCache, notifier *mocks.MockNotifier) {
				repo.On("GetSession", mock.Anything, int64(404)).
					Return(entities.RegisterSession{}, entities.ErrSessionNotFound).Once()
			},
			wantErr: entities.ErrSessionNotFound,
		},
		{
			name: "unknown closing user",
			id:   3,
			upd:  entities.SessionUpdate{ClosedBy: userID(99)},
			mockBehavior: func(repo *mocks.MockSessionRepo, cache *mocks.MockCache, notifier *mocks.MockNotifier) {
				repo.On("UserExists", mock.Anything, int64(99)).Return(false, nil).Once()
			},
			wantErr: entities.ErrUserNotFound,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			repo := mocks.NewMockSessionRepo(t)
			cache := mocks.NewMockCache(t)
			notifier := mocks.NewMockNotifier(t)
			tx := txMocks.NewMockManager(t)

			tc.mockBehavior(repo, cache, notifier)

			svc := service.NewSessionService(discardLogger(), tx, repo, cache, notifier)

			got, err := svc.UpdateSession(context.Background(), tc.id, tc.upd)
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				repo.AssertNotCalled(t, "UpdateSession", mock.Anything, mock.Anything, mock.Anything)
				notifier.AssertNotCalled(t, "Notify", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestSessionService_CloseSession(t *testing.T) {
	paidAt := time.Date(2024, 3, 1, 19, 30, 0, 0, time.UTC)

	openSession := entities.RegisterSession{
		ID:          3,
		Status:      entities.SessionStatusOpen,
		OpenedBy:    42,
		OpeningCash: 1000,
	}

	closedSession := openSession
	closedSession.Status = entities.SessionStatusClosed

	testCases := []struct {
		name         string
		params       service.CloseSessionParams
		mockBehavior func(repo *mocks.MockSessionRepo, cache *mocks.MockCache, notifier *mocks.MockNotifier)
		wantErr      error
		check        func(t *testing.T, got entities.RegisterSession)
	}{
		{
			name:   "computes expected cash and shortage",
			params: service.CloseSessionParams{SessionID: 3, ClosedBy: 42, ClosingCash: 1450},
			mockBehavior: func(repo *mocks.MockSessionRepo, cache *mocks.MockCache, notifier *mocks.MockNotifier) {
				repo.On("UserExists", mock.Anything, int64(42)).Return(true, nil).Once()
				repo.On("GetSession", mock.Anything, int64(3)).Return(openSession, nil).Once()
				repo.On("CompletedOrdersBySession", mock.Anything, int64(3)).
					Return([]entities.Order{{ID: 10, Status: entities.OrderStatusCompleted, Total: 500, RegisterSessionID: 3}}, nil).Once()
				repo.On("PaymentsByOrder", mock.Anything, int64(10)).
					Return([]entities.Payment{{ID: 1, OrderID: 10, Amount: 500, Method: entities.MethodCash, PaidAt: paidAt}}, nil).Once()
				repo.On("MarkSessionClosed", mock.Anything, mock.MatchedBy(func(s entities.RegisterSession) bool {
					return s.Status == entities.SessionStatusClosed &&
						*s.ExpectedCash == 1500 &&
						*s.CashDifference == -50 &&
						s.TotalSales == 500 &&
						s.TotalOrders == 1
				})).Return(nil).Once()
				cache.On("Delete", mock.Anything).Once()
				notifier.On("Notify", mock.Anything, "register-sessions", "closed", int64(3)).Once()
			},
			check: func(t *testing.T, got entities.RegisterSession) {
				assert.Equal(t, entities.Money(1500), *got.ExpectedCash)
				assert.Equal(t, entities.Money(-50), *got.CashDifference)
				assert.Equal(t, entities.Money(1450), *got.ClosingCash)
				assert.Equal(t, entities.Money(500), got.TotalSales)
				assert.Equal(t, 1, got.TotalOrders)
			},
		},
		{
			name: "explicit expected cash overrides computed",
			params: service.CloseSessionParams{
				SessionID: 3, ClosedBy: 42, ClosingCash: 1450, ExpectedCash: money(1400),
			},
			mockBehavior: func(repo *mocks.MockSessionRepo, cache *mocks.MockCache, notifier *mocks.MockNotifier) {
				repo.On("UserExists", mock.Anything, int64(42)).Return(true, nil).Once()
				repo.On("GetSession", mock.Anything, int64(3)).Return(openSession, nil).Once()
				repo.On("CompletedOrdersBySession", mock.Anything, int64(3)).
					Return([]entities.Order{}, nil).Once()
				repo.On("MarkSessionClosed", mock.Anything, mock.MatchedBy(func(s entities.RegisterSession) bool {
					return *s.ExpectedCash == 1400 && *s.CashDifference == 50
				})).Return(nil).Once()
				cache.On("Delete", mock.Anything).Once()
				notifier.On("Notify", mock.Anything, "register-sessions", "closed", int64(3)).Once()
			},
			check: func(t *testing.T, got entities.RegisterSession) {
				assert.Equal(t, entities.Money(1400), *got.ExpectedCash)
				assert.Equal(t, entities.Money(50), *got.CashDifference)
			},
		},
		{
			name:   "already closed",
			params: service.CloseSessionParams{SessionID: 3, ClosedBy: 42, ClosingCash: 1450},
			mockBehavior: func(repo *mocks.MockSessionRepo, cache *mocks.MockCache, notifier *mocks.MockNotifier) {
				repo.On("UserExists", mock.Anything, int64(42)).Return(true, nil).Once()
				repo.On("GetSession", mock.Anything, int64(3)).Return(closedSession, nil).Once()
			},
			wantErr: entities.ErrSessionAlreadyClosed,
		},
		{
			name:   "session not found",
			params: service.CloseSessionParams{SessionID: 404, ClosedBy: 42, ClosingCash: 1450},
			mockBehavior: func(repo *mocks.MockSessionRepo, cache *mocks.MockCache, notifier *mocks.MockNotifier) {
				repo.On("UserExists", mock.Anything, int64(42)).Return(true, nil).Once()
				repo.On("GetSession", mock.Anything, int64(404)).
					Return(entities.RegisterSession{}, entities.ErrSessionNotFound).Once()
			},
			wantErr: entities.ErrSessionNotFound,
		},
		{
			name:   "unknown closing user",
			params: service.CloseSessionParams{SessionID: 3, ClosedBy: 99, ClosingCash: 1450},
			mockBehavior: func(repo *mocks.MockSessionRepo, cache *mocks.MockCache, notifier *mocks.MockNotifier) {
				repo.On("UserExists", mock.Anything, int64(99)).Return(false, nil).Once()
			},
			wantErr: entities.ErrUserNotFound,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			repo := mocks.NewMockSessionRepo(t)
			cache := mocks.NewMockCache(t)
			notifier := mocks.NewMockNotifier(t)
			tx := txMocks.NewMockManager(t)
			tx.On("Do", mock.Anything, mock.Anything).Return(txMocks.Passthrough).Maybe()

			tc.mockBehavior(repo, cache, notifier)

			svc := service.NewSessionService(discardLogger(), tx, repo, cache, notifier)

			got, err := svc.CloseSession(context.Background(), tc.params)
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
			if tc.check != nil {
				tc.check(t, got)
			}
		})
	}
}

func TestSessionService_GetActiveSession(t *testing.T) {
	active := entities.RegisterSession{
		ID:          5,
		Status:      entities.SessionStatusOpen,
		OpenedBy:    42,
		OpeningCash: 2000,
	}
	activeData, err := active.Marshal()
	require.NoError(t, err)

	testCases := []struct {
		name         string
		mockBehavior func(repo *mocks.MockSessionRepo, cache *mocks.MockCache)
		want         *entities.RegisterSession
	}{
		{
			name: "served from cache",
			mockBehavior: func(repo *mocks.MockSessionRepo, cache *mocks.MockCache) {
				cache.On("Get", mock.Anything).Return(activeData, true).Once()
			},
			want: &active,
		},
		{
			name: "cache miss falls back to store",
			mockBehavior: func(repo *mocks.MockSessionRepo, cache *mocks.MockCache) {
				cache.On("Get", mock.Anything).Return(nil, false).Once()
				repo.On("GetOpenSession", mock.Anything).Return(&active, nil).Once()
				cache.On("Set", mock.Anything, mock.Anything).Once()
			},
			want: &active,
		},
		{
			name: "no open session",
			mockBehavior: func(repo *mocks.MockSessionRepo, cache *mocks.MockCache) {
				cache.On("Get", mock.Anything).Return(nil, false).Once()
				repo.On("GetOpenSession", mock.Anything).Return(nil, nil).Once()
			},
			want: nil,
		},
		{
			name: "corrupt cache entry is dropped",
			mockBehavior: func(repo *mocks.MockSessionRepo, cache *mocks.MockCache) {
				cache.On("Get", mock.Anything).Return([]byte("broken"), true).Once()
				cache.On("Delete", mock.Anything).Once()
				repo.On("GetOpenSession", mock.Anything).Return(&active, nil).Once()
				cache.On("Set", mock.Anything, mock.Anything).Once()
			},
			want: &active,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			repo := mocks.NewMockSessionRepo(t)
			cache := mocks.NewMockCache(t)
			notifier := mocks.NewMockNotifier(t)
			tx := txMocks.NewMockManager(t)

			tc.mockBehavior(repo, cache)

			svc := service.NewSessionService(discardLogger(), tx, repo, cache, notifier)

			got, err := svc.GetActiveSession(context.Background())
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}
