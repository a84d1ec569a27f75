package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/tablefront/pos-finance/internal/entities"
	"github.com/tablefront/pos-finance/pkg/trm"
)

type ArchiverRepo interface {
	OrdersOlderThan(ctx context.Context, cutoff time.Time) ([]entities.Order, error)
	CountOrdersOlderThan(ctx context.Context, cutoff time.Time) (int, error)
	CountOrders(ctx context.Context) (int, error)

	ItemsByOrder(ctx context.Context, orderID int64) ([]entities.OrderItem, error)
	PaymentsByOrder(ctx context.Context, orderID int64) ([]entities.Payment, error)

	ArchivedOrderExists(ctx context.Context, orderID int64) (bool, error)
	InsertArchivedOrder(ctx context.Context, o entities.Order, migratedAt time.Time) error
	InsertArchivedItems(ctx context.Context, items []entities.OrderItem, migratedAt time.Time) error
	InsertArchivedPayments(ctx context.Context, payments []entities.Payment, migratedAt time.Time) error
	CountArchivedOrders(ctx context.Context) (int, error)

	DeletePrintJobs(ctx context.Context, orderID int64) error
	DeleteOrderItems(ctx context.Context, orderID int64) error
	DeletePayments(ctx context.Context, orderID int64) error
	DeleteOrder(ctx context.Context, orderID int64) error
}

const orderResource = "past-orders"

type archiverService struct {
	logger    *slog.Logger
	txManager trm.Manager
	repo      ArchiverRepo
	notifier  Notifier
}

func NewArchiverService(logger *slog.Logger, txManager trm.Manager, repo ArchiverRepo, notifier Notifier) *archiverService {
	return &archiverService{
		logger:    logger.With(slog.String("service", "archiver")),
		txManager: txManager,
		repo:      repo,
		notifier:  notifier,
	}
}

// MigrateOlderThan moves terminal orders created before now-cutoffDays into
// the archive tables and purges the live rows. Orders are processed one at a
// time, each in its own transaction; a failing order is reported in the
// result and never aborts the batch.
func (s *archiverService) MigrateOlderThan(ctx context.Context, cutoffDays int) (entities.MigrationResult, error) {
	if cutoffDays < 1 {
		return entities.MigrationResult{}, entities.ErrInvalidCutoff
	}
	cutoff := time.Now().AddDate(0, 0, -cutoffDays)

	candidates, err := s.repo.OrdersOlderThan(ctx, cutoff)
	if err != nil {
		return entities.MigrationResult{}, err
	}

	result := entities.MigrationResult{TotalFound: len(candidates)}
	if len(candidates) == 0 {
		return result, nil
	}

	for _, order := range candidates {
		if err := s.migrateOrder(ctx, order); err != nil {
			s.logger.Error("failed to migrate order",
				slog.Int64("order_id", order.ID),
				slog.Any("error", err),
			)
			result.Errors = append(result.Errors, fmt.Sprintf("order %d: %v", order.ID, err))
			continue
		}
		result.MigratedCount++
		s.notifier.Notify(ctx, orderResource, "archived", order.ID)
	}

	s.logger.Info("migration finished",
		slog.Int("migrated", result.MigratedCount),
		slog.Int("found", result.TotalFound),
		slog.Int("failed", len(result.Errors)),
	)
	return result, nil
}

// migrateOrder copies one order with its children into the archive and
// purges the live rows, all inside a single transaction. An order already
// present in the archive was copied by a prior partially-failed run; only
// the purge is repeated then.
func (s *archiverService) migrateOrder(ctx context.Context, order entities.Order) error {
	return s.txManager.Do(ctx, func(ctx context.Context) error {
		archived, err := s.repo.ArchivedOrderExists(ctx, order.ID)
		if err != nil {
			return err
		}

		if !archived {
			items, err := s.repo.ItemsByOrder(ctx, order.ID)
			if err != nil {
				return err
			}
			payments, err := s.repo.PaymentsByOrder(ctx, order.ID)
			if err != nil {
				return err
			}

			migratedAt := time.Now()
			if err := s.repo.InsertArchivedOrder(ctx, order, migratedAt); err != nil {
				return err
			}
			if err := s.repo.InsertArchivedItems(ctx, items, migratedAt); err != nil {
				return err
			}
			if err := s.repo.InsertArchivedPayments(ctx, payments, migratedAt); err != nil {
				return err
			}
		}

		// child rows first, the order itself last
		if err := s.repo.DeletePrintJobs(ctx, order.ID); err != nil {
			return err
		}
		if err := s.repo.DeleteOrderItems(ctx, order.ID); err != nil {
			return err
		}
		if err := s.repo.DeletePayments(ctx, order.ID); err != nil {
			return err
		}
		return s.repo.DeleteOrder(ctx, order.ID)
	})
}

// PreviewMigration reports what a migration run with the same cutoff would
// touch. Strictly read-only.
func (s *archiverService) PreviewMigration(ctx context.Context, cutoffDays int) (entities.MigrationPreview, error) {
	if cutoffDays < 1 {
		return entities.MigrationPreview{}, entities.ErrInvalidCutoff
	}
	cutoff := time.Now().AddDate(0, 0, -cutoffDays)

	toMigrate, err := s.repo.CountOrdersOlderThan(ctx, cutoff)
	if err != nil {
		return entities.MigrationPreview{}, err
	}
	active, err := s.repo.CountOrders(ctx)
	if err != nil {
		return entities.MigrationPreview{}, err
	}
	past, err := s.repo.CountArchivedOrders(ctx)
	if err != nil {
		return entities.MigrationPreview{}, err
	}

	return entities.MigrationPreview{
		OrdersToMigrate:     toMigrate,
		CurrentActiveOrders: active,
		CurrentPastOrders:   past,
		CutoffDate:          cutoff,
	}, nil
}
