package handler

import (
	"time"

	"github.com/tablefront/pos-finance/internal/entities"
)

type OpenSessionRequest struct {
	OpenedBy    int64    `json:"openedBy" validate:"required"`
	OpeningCash *float64 `json:"openingCash" validate:"required,gte=0"`
	Notes       string   `json:"notes,omitempty"`
}

type UpdateSessionRequest struct {
	ClosedBy     *int64   `json:"closedBy,omitempty"`
	ClosingCash  *float64 `json:"closingCash,omitempty" validate:"omitempty,gte=0"`
	ExpectedCash *float64 `json:"expectedCash,omitempty" validate:"omitempty,gte=0"`
	Notes        *string  `json:"notes,omitempty"`
}

type CloseSessionRequest struct {
	ClosedBy     int64    `json:"closedBy" validate:"required"`
	ClosingCash  *float64 `json:"closingCash" validate:"required,gte=0"`
	ExpectedCash *float64 `json:"expectedCash,omitempty" validate:"omitempty,gte=0"`
	Notes        *string  `json:"notes,omitempty"`
}

type MigrateRequest struct {
	OlderThanDays int `json:"olderThanDays" validate:"required,gte=1"`
}

// Session is the wire shape of a register session; money travels as
// two-decimal floats and is converted to cents at this boundary.
type Session struct {
	ID             int64      `json:"id"`
	Status         string     `json:"status"`
	OpenedBy       int64      `json:"openedBy"`
	ClosedBy       *int64     `json:"closedBy,omitempty"`
	OpeningCash    float64    `json:"openingCash"`
	ClosingCash    *float64   `json:"closingCash,omitempty"`
	ExpectedCash   *float64   `json:"expectedCash,omitempty"`
	CashDifference *float64   `json:"cashDifference,omitempty"`
	TotalSales     float64    `json:"totalSales"`
	TotalOrders    int        `json:"totalOrders"`
	Notes          string     `json:"notes,omitempty"`
	OpenedAt       time.Time  `json:"openedAt"`
	ClosedAt       *time.Time `json:"closedAt,omitempty"`
}

type MigrateResponse struct {
	MigratedCount int      `json:"migratedCount"`
	TotalFound    int      `json:"totalFound"`
	Errors        []string `json:"errors,omitempty"`
}

type PreviewResponse struct {
	OrdersToMigrate     int       `json:"ordersToMigrate"`
	CurrentActiveOrders int       `json:"currentActiveOrders"`
	CurrentPastOrders   int       `json:"currentPastOrders"`
	CutoffDate          time.Time `json:"cutoffDate"`
}

func SessionEntityToJSON(s entities.RegisterSession) Session {
	return Session{
		ID:             s.ID,
		Status:         string(s.Status),
		OpenedBy:       s.OpenedBy,
		ClosedBy:       s.ClosedBy,
		OpeningCash:    s.OpeningCash.Float64(),
		ClosingCash:    moneyPtrToFloat(s.ClosingCash),
		ExpectedCash:   moneyPtrToFloat(s.ExpectedCash),
		CashDifference: moneyPtrToFloat(s.CashDifference),
		TotalSales:     s.TotalSales.Float64(),
		TotalOrders:    s.TotalOrders,
		Notes:          s.Notes,
		OpenedAt:       s.OpenedAt,
		ClosedAt:       s.ClosedAt,
	}
}

func moneyPtrToFloat(m *entities.Money) *float64 {
	if m == nil {
		return nil
	}
	f := m.Float64()
	return &f
}

func floatPtrToMoney(f *float64) *entities.Money {
	if f == nil {
		return nil
	}
	m := entities.MoneyFromFloat(*f)
	return &m
}
