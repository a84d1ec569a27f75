package repo

import (
	"database/sql"
	"time"

	"github.com/tablefront/pos-finance/internal/entities"
)

// Row structs mirror the table shapes; all Null* coercion between storage
// and entities lives here, outside of the business logic.

type RegisterSession struct {
	ID             int64          `db:"id"`
	Status         string         `db:"status"`
	OpenedBy       int64          `db:"opened_by"`
	ClosedBy       sql.NullInt64  `db:"closed_by"`
	OpeningCash    int64          `db:"opening_cash"`
	ClosingCash    sql.NullInt64  `db:"closing_cash"`
	ExpectedCash   sql.NullInt64  `db:"expected_cash"`
	CashDifference sql.NullInt64  `db:"cash_difference"`
	TotalSales     int64          `db:"total_sales"`
	TotalOrders    int            `db:"total_orders"`
	Notes          sql.NullString `db:"notes"`
	OpenedAt       time.Time      `db:"opened_at"`
	ClosedAt       sql.NullTime   `db:"closed_at"`
}

type Order struct {
	ID                int64        `db:"id"`
	Status            string       `db:"status"`
	Total             int64        `db:"total"`
	RegisterSessionID int64        `db:"register_session_id"`
	CreatedAt         time.Time    `db:"created_at"`
	CompletedAt       sql.NullTime `db:"completed_at"`
}

type OrderItem struct {
	ID        int64  `db:"id"`
	OrderID   int64  `db:"order_id"`
	Name      string `db:"name"`
	Quantity  int    `db:"quantity"`
	UnitPrice int64  `db:"unit_price"`
	LineTotal int64  `db:"line_total"`
}

type Payment struct {
	ID         int64     `db:"id"`
	OrderID    int64     `db:"order_id"`
	Amount     int64     `db:"amount"`
	Method     string    `db:"method"`
	PaidAt     time.Time `db:"paid_at"`
	ReceivedBy int64     `db:"received_by"`
}

func SessionToEntity(s RegisterSession) entities.RegisterSession {
	return entities.RegisterSession{
		ID:             s.ID,
		Status:         entities.SessionStatus(s.Status),
		OpenedBy:       s.OpenedBy,
		ClosedBy:       nullInt64ToPtr(s.ClosedBy),
		OpeningCash:    entities.Money(s.OpeningCash),
		ClosingCash:    nullInt64ToMoneyPtr(s.ClosingCash),
		ExpectedCash:   nullInt64ToMoneyPtr(s.ExpectedCash),
		CashDifference: nullInt64ToMoneyPtr(s.CashDifference),
		TotalSales:     entities.Money(s.TotalSales),
		TotalOrders:    s.TotalOrders,
		Notes:          nullStringToString(s.Notes),
		OpenedAt:       s.OpenedAt,
		ClosedAt:       nullTimeToPtr(s.ClosedAt),
	}
}

func OrderToEntity(o Order) entities.Order {
	return entities.Order{
		ID:                o.ID,
		Status:            entities.OrderStatus(o.Status),
		Total:             entities.Money(o.Total),
		RegisterSessionID: o.RegisterSessionID,
		CreatedAt:         o.CreatedAt,
		CompletedAt:       nullTimeToPtr(o.CompletedAt),
	}
}

func OrderItemToEntity(i OrderItem) entities.OrderItem {
	return entities.OrderItem{
		ID:        i.ID,
		OrderID:   i.OrderID,
		Name:      i.Name,
		Quantity:  i.Quantity,
		UnitPrice: entities.Money(i.UnitPrice),
		LineTotal: entities.Money(i.LineTotal),
	}
}

func PaymentToEntity(p Payment) entities.Payment {
	return entities.Payment{
		ID:         p.ID,
		OrderID:    p.OrderID,
		Amount:     entities.Money(p.Amount),
		Method:     entities.PaymentMethod(p.Method),
		PaidAt:     p.PaidAt,
		ReceivedBy: p.ReceivedBy,
	}
}

func nullStringToString(ns sql.NullString) string {
	if ns.Valid {
		return ns.String
	}
	return ""
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func nullInt64ToPtr(ni sql.NullInt64) *int64 {
	if ni.Valid {
		v := ni.Int64
		return &v
	}
	return nil
}

func nullInt64ToMoneyPtr(ni sql.NullInt64) *entities.Money {
	if ni.Valid {
		m := entities.Money(ni.Int64)
		return &m
	}
	return nil
}

func nullTimeToPtr(nt sql.NullTime) *time.Time {
	if nt.Valid {
		t := nt.Time
		return &t
	}
	return nil
}
