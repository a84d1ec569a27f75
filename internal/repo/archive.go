package repo

import (
	"context"
	"fmt"
	"time"

	"github.com/tablefront/pos-finance/internal/entities"

	sq "github.com/Masterminds/squirrel"
)

// Archive inserts keep the live row's id and use ON CONFLICT DO NOTHING, so
// re-copying after a partially failed run never duplicates rows.

func (r *postgresRepo) ArchivedOrderExists(ctx context.Context, orderID int64) (bool, error) {
	query, args := r.qb.Select("1").
		From("archived_orders").
		Where(sq.Eq{"id": orderID}).
		Prefix("SELECT EXISTS (").
		Suffix(")").
		MustSql()

	var exists bool
	if err := r.getContext(ctx, &exists, query, args...); err != nil {
		return false, fmt.Errorf("failed to check archived order: %w", err)
	}
	return exists, nil
}

func (r *postgresRepo) InsertArchivedOrder(ctx context.Context, o entities.Order, migratedAt time.Time) error {
	query, args := r.qb.Insert("archived_orders").
		Columns("id", "status", "total", "register_session_id", "created_at", "completed_at", "migrated_at").
		Values(o.ID, o.Status, int64(o.Total), o.RegisterSessionID, o.CreatedAt, o.CompletedAt, migratedAt).
		Suffix("ON CONFLICT (id) DO NOTHING").
		MustSql()

	if _, err := r.execContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to archive order: %w", err)
	}
	return nil
}

func (r *postgresRepo) InsertArchivedItems(ctx context.Context, items []entities.OrderItem, migratedAt time.Time) error {
	if len(items) == 0 {
		return nil
	}

	q := r.qb.Insert("archived_order_items").
		Columns("id", "order_id", "name", "quantity", "unit_price", "line_total", "migrated_at").
		Suffix("ON CONFLICT (id) DO NOTHING")

	for _, it := range items {
		q = q.Values(it.ID, it.OrderID, it.Name, it.Quantity, int64(it.UnitPrice), int64(it.LineTotal), migratedAt)
	}

	query, args := q.MustSql()
	if _, err := r.execContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to archive order items: %w", err)
	}
	return nil
}

func (r *postgresRepo) InsertArchivedPayments(ctx context.Context, payments []entities.Payment, migratedAt time.Time) error {
	if len(payments) == 0 {
		return nil
	}

	q := r.qb.Insert("archived_payments").
		Columns("id", "order_id", "amount", "method", "paid_at", "received_by", "migrated_at").
		Suffix("ON CONFLICT (id) DO NOTHING")

	for _, p := range payments {
		q = q.Values(p.ID, p.OrderID, int64(p.Amount), p.Method, p.PaidAt, p.ReceivedBy, migratedAt)
	}

	query, args := q.MustSql()
	if _, err := r.execContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to archive payments: %w", err)
	}
	return nil
}

func (r *postgresRepo) CountArchivedOrders(ctx context.Context) (int, error) {
	query, args := r.qb.Select("COUNT(*)").From("archived_orders").MustSql()

	var count int
	if err := r.getContext(ctx, &count, query, args...); err != nil {
		return 0, fmt.Errorf("failed to count archived orders: %w", err)
	}
	return count, nil
}
