package service_test

import (
	"context"
	"errors"
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

func oldOrder(id int64) entities.Order {
	return entities.Order{
		ID:                id,
		Status:            entities.OrderStatusCompleted,
		Total:             1200,
		RegisterSessionID: 1,
		CreatedAt:         time.Now().AddDate(0, 0, -90),
	}
}

func expectPurge(repo *mocks.MockArchiverRepo, orderID int64) {
	repo.On("DeletePrintJobs", mock.Anything, orderID).Return(nil).Once()
	repo.On("DeleteOrderItems", mock.Anything, orderID).Return(nil).Once()
	repo.On("DeletePayments", mock.Anything, orderID).Return(nil).Once()
	repo.On("DeleteOrder", mock.Anything, orderID).Return(nil).Once()
}

func expectCopy(repo *mocks.MockArchiverRepo, orderID int64) {
	repo.On("ItemsByOrder", mock.Anything, orderID).Return([]entities.OrderItem{}, nil).Once()
	repo.On("PaymentsByOrder", mock.Anything, orderID).Return([]entities.Payment{}, nil).Once()
	repo.On("InsertArchivedOrder", mock.Anything, mock.MatchedBy(func(o entities.Order) bool {
		return o.ID == orderID
	}), mock.Anything).Return(nil).Once()
	repo.On("InsertArchivedItems", mock.Anything, mock.Anything, mock.Anything).Return(nil).Once()
	repo.On("InsertArchivedPayments", mock.Anything, mock.Anything, mock.Anything).Return(nil).Once()
}

func TestArchiverService_MigrateOlderThan(t *testing.T) {
	t.Run("rejects cutoff below one day", func(t *testing.T) {
		repo := mocks.NewMockArchiverRepo(t)
		tx := txMocks.NewMockManager(t)
		svc := service.NewArchiverService(discardLogger(), tx, repo, mocks.NewMockNotifier(t))

		_, err := svc.MigrateOlderThan(context.Background(), 0)
		assert.ErrorIs(t, err, entities.ErrInvalidCutoff)
	})

	t.Run("nothing to migrate", func(t *testing.T) {
		repo := mocks.NewMockArchiverRepo(t)
		tx := txMocks.NewMockManager(t)
		repo.On("OrdersOlderThan", mock.Anything, mock.Anything).Return([]entities.Order{}, nil).Once()

		svc := service.NewArchiverService(discardLogger(), tx, repo, mocks.NewMockNotifier(t))

		result, err := svc.MigrateOlderThan(context.Background(), 30)
		require.NoError(t, err)
		assert.Equal(t, entities.MigrationResult{MigratedCount: 0, TotalFound: 0}, result)
	})

	t.Run("copies and purges a fresh order", func(t *testing.T) {
		repo := mocks.NewMockArchiverRepo(t)
		tx := txMocks.NewMockManager(t)
		tx.On("Do", mock.Anything, mock.Anything).Return(txMocks.Passthrough)

		repo.On("OrdersOlderThan", mock.Anything, mock.Anything).
			Return([]entities.Order{oldOrder(10)}, nil).Once()
		repo.On("ArchivedOrderExists", mock.Anything, int64(10)).Return(false, nil).Once()
		expectCopy(repo, 10)
		expectPurge(repo, 10)

		notifier := mocks.NewMockNotifier(t)
		notifier.On("Notify", mock.Anything, "past-orders", "archived", int64(10)).Once()

		svc := service.NewArchiverService(discardLogger(), tx, repo, notifier)

		result, err := svc.MigrateOlderThan(context.Background(), 30)
		require.NoError(t, err)
		assert.Equal(t, 1, result.MigratedCount)
		assert.Equal(t, 1, result.TotalFound)
		assert.Empty(t, result.Errors)
	})

	t.Run("already archived order is purged without re-copy", func(t *testing.T) {
		repo := mocks.NewMockArchiverRepo(t)
		tx := txMocks.NewMockManager(t)
		tx.On("Do", mock.Anything, mock.Anything).Return(txMocks.Passthrough)

		repo.On("OrdersOlderThan", mock.Anything, mock.Anything).
			Return([]entities.Order{oldOrder(11)}, nil).Once()
		repo.On("ArchivedOrderExists", mock.Anything, int64(11)).Return(true, nil).Once()
		expectPurge(repo, 11)

		notifier := mocks.NewMockNotifier(t)
		notifier.On("Notify", mock.Anything, "past-orders", "archived", int64(11)).Once()

		svc := service.NewArchiverService(discardLogger(), tx, repo, notifier)

		result, err := svc.MigrateOlderThan(context.Background(), 30)
		require.NoError(t, err)
		assert.Equal(t, 1, result.MigratedCount)
		repo.AssertNotCalled(t, "InsertArchivedOrder", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("one failing order does not abort the batch", func(t *testing.T) {
		repo := mocks.NewMockArchiverRepo(t)
		tx := txMocks.NewMockManager(t)
		tx.On("Do", mock.Anything, mock.Anything).Return(txMocks.Passthrough)

		orders := []entities.Order{oldOrder(1), oldOrder(2), oldOrder(3), oldOrder(4), oldOrder(5)}
		repo.On("OrdersOlderThan", mock.Anything, mock.Anything).Return(orders, nil).Once()

		for _, o := range orders {
			repo.On("ArchivedOrderExists", mock.Anything, o.ID).Return(false, nil).Once()
		}
		for _, id := range []int64{1, 2, 4, 5} {
			expectCopy(repo, id)
			expectPurge(repo, id)
		}
		// order 3 blows up while copying
		repo.On("ItemsByOrder", mock.Anything, int64(3)).Return([]entities.OrderItem{}, nil).Once()
		repo.On("PaymentsByOrder", mock.Anything, int64(3)).Return([]entities.Payment{}, nil).Once()
		repo.On("InsertArchivedOrder", mock.Anything, mock.MatchedBy(func(o entities.Order) bool {
			return o.ID == 3
		}), mock.Anything).Return(errors.New("column mismatch")).Once()

		notifier := mocks.NewMockNotifier(t)
		for _, id := range []int64{1, 2, 4, 5} {
			notifier.On("Notify", mock.Anything, "past-orders", "archived", id).Once()
		}

		svc := service.NewArchiverService(discardLogger(), tx, repo, notifier)

		result, err := svc.MigrateOlderThan(context.Background(), 30)
		require.NoError(t, err)
		assert.Equal(t, 4, result.MigratedCount)
		assert.Equal(t, 5, result.TotalFound)
		require.Len(t, result.Errors, 1)
		assert.Contains(t, result.Errors[0], "order 3")
		repo.AssertNotCalled(t, "DeleteOrder", mock.Anything, int64(3))
	})

	t.Run("second run after full migration finds nothing", func(t *testing.T) {
		repo := mocks.NewMockArchiverRepo(t)
		tx := txMocks.NewMockManager(t)
		repo.On("OrdersOlderThan", mock.Anything, mock.Anything).Return([]entities.Order{}, nil).Once()

		svc := service.NewArchiverService(discardLogger(), tx, repo, mocks.NewMockNotifier(t))

		result, err := svc.MigrateOlderThan(context.Background(), 30)
		require.NoError(t, err)
		assert.Zero(t, result.TotalFound)
		assert.Zero(t, result.MigratedCount)
	})
}

func TestArchiverService_PreviewMigration(t *testing.T) {
	t.Run("rejects cutoff below one day", func(t *testing.T) {
		repo := mocks.NewMockArchiverRepo(t)
		tx := txMocks.NewMockManager(t)
		svc := service.NewArchiverService(discardLogger(), tx, repo, mocks.NewMockNotifier(t))

		_, err := svc.PreviewMigration(context.Background(), -1)
		assert.ErrorIs(t, err, entities.ErrInvalidCutoff)
	})

	t.Run("returns counts without mutating anything", func(t *testing.T) {
		repo := mocks.NewMockArchiverRepo(t)
		tx := txMocks.NewMockManager(t)

		repo.On("CountOrdersOlderThan", mock.Anything, mock.Anything).Return(12, nil).Once()
		repo.On("CountOrders", mock.Anything).Return(40, nil).Once()
		repo.On("CountArchivedOrders", mock.Anything).Return(200, nil).Once()

		svc := service.NewArchiverService(discardLogger(), tx, repo, mocks.NewMockNotifier(t))

		preview, err := svc.PreviewMigration(context.Background(), 30)
		require.NoError(t, err)
		assert.Equal(t, 12, preview.OrdersToMigrate)
		assert.Equal(t, 40, preview.CurrentActiveOrders)
		assert.Equal(t, 200, preview.CurrentPastOrders)
		assert.WithinDuration(t, time.Now().AddDate(0, 0, -30), preview.CutoffDate, time.Minute)

		repo.AssertNotCalled(t, "DeleteOrder", mock.Anything, mock.Anything)
		repo.AssertNotCalled(t, "InsertArchivedOrder", mock.Anything, mock.Anything, mock.Anything)
	})
}
