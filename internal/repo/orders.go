package repo

import (
	"context"
	"fmt"
	"time"

	"github.com/tablefront/pos-finance/internal/entities"

	sq "github.com/Masterminds/squirrel"
)

var orderColumns = []string{
	"id", "status", "total", "register_session_id", "created_at", "completed_at",
}

var terminalStatuses = []entities.OrderStatus{
	entities.OrderStatusCompleted,
	entities.OrderStatusCancelled,
}

func (r *postgresRepo) CompletedOrdersBySession(ctx context.Context, sessionID int64) ([]entities.Order, error) {
	query, args := r.qb.Select(orderColumns...).
		From("orders").
		Where(sq.Eq{"register_session_id": sessionID, "status": entities.OrderStatusCompleted}).
		OrderBy("id ASC").
		MustSql()

	var rows []Order
	if err := r.selectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("failed to select session orders: %w", err)
	}
	return ordersToEntities(rows), nil
}

// OrdersOlderThan lists terminal (completed or cancelled) orders created
// before cutoff; these are the archival candidates.
func (r *postgresRepo) OrdersOlderThan(ctx context.Context, cutoff time.Time) ([]entities.Order, error) {
	query, args := r.qb.Select(orderColumns...).
		From("orders").
		Where(sq.Eq{"status": terminalStatuses}).
		Where(sq.Lt{"created_at": cutoff}).
		OrderBy("created_at ASC", "id ASC").
		MustSql()

	var rows []Order
	if err := r.selectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("failed to select archival candidates: %w", err)
	}
	return ordersToEntities(rows), nil
}

func (r *postgresRepo) CountOrdersOlderThan(ctx context.Context, cutoff time.Time) (int, error) {
	query, args := r.qb.Select("COUNT(*)").
		From("orders").
		Where(sq.Eq{"status": terminalStatuses}).
		Where(sq.Lt{"created_at": cutoff}).
		MustSql()

	var count int
	if err := r.getContext(ctx, &count, query, args...); err != nil {
		return 0, fmt.Errorf("failed to count archival candidates: %w", err)
	}
	return count, nil
}

func (r *postgresRepo) CountOrders(ctx context.Context) (int, error) {
	query, args := r.qb.Select("COUNT(*)").From("orders").MustSql()

	var count int
	if err := r.getContext(ctx, &count, query, args...); err != nil {
		return 0, fmt.Errorf("failed to count orders: %w", err)
	}
	return count, nil
}

func (r *postgresRepo) ItemsByOrder(ctx context.Context, orderID int64) ([]entities.OrderItem, error) {
	query, args := r.qb.Select("id", "order_id", "name", "quantity", "unit_price", "line_total").
		From("order_items").
		Where(sq.Eq{"order_id": orderID}).
		OrderBy("id ASC").
		MustSql()

	var rows []OrderItem
	if err := r.selectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("failed to select order items: %w", err)
	}

	items := make([]entities.OrderItem, 0, len(rows))
	for _, row := range rows {
		items = append(items, OrderItemToEntity(row))
	}
	return items, nil
}

func (r *postgresRepo) PaymentsByOrder(ctx context.Context, orderID int64) ([]entities.Payment, error) {
	query, args := r.qb.Select("id", "order_id", "amount", "method", "paid_at", "received_by").
		From("payments").
		Where(sq.Eq{"order_id": orderID}).
		OrderBy("paid_at ASC", "id ASC").
		MustSql()

	var rows []Payment
	if err := r.selectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("failed to select payments: %w", err)
	}

	payments := make([]entities.Payment, 0, len(rows))
	for _, row := range rows {
		payments = append(payments, PaymentToEntity(row))
	}
	return payments, nil
}

// Purge deletes run child-before-parent so referential constraints hold at
// every step.

func (r *postgresRepo) DeletePrintJobs(ctx context.Context, orderID int64) error {
	query, args := r.qb.Delete("print_jobs").Where(sq.Eq{"order_id": orderID}).MustSql()
	if _, err := r.execContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to delete print jobs: %w", err)
	}
	return nil
}

func (r *postgresRepo) DeleteOrderItems(ctx context.Context, orderID int64) error {
	query, args := r.qb.Delete("order_items").Where(sq.Eq{"order_id": orderID}).MustSql()
	if _, err := r.execContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to delete order items: %w", err)
	}
	return nil
}

func (r *postgresRepo) DeletePayments(ctx context.Context, orderID int64) error {
	query, args := r.qb.Delete("payments").Where(sq.Eq{"order_id": orderID}).MustSql()
	if _, err := r.execContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to delete payments: %w", err)
	}
	return nil
}

func (r *postgresRepo) DeleteOrder(ctx context.Context, orderID int64) error {
	query, args := r.qb.Delete("orders").Where(sq.Eq{"id": orderID}).MustSql()
	if _, err := r.execContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to delete order: %w", err)
	}
	return nil
}

func ordersToEntities(rows []Order) []entities.Order {
	orders := make([]entities.Order, 0, len(rows))
	for _, row := range rows {
		orders = append(orders, OrderToEntity(row))
	}
	return orders
}
