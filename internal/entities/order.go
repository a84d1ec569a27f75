package entities

import (
	"errors"
	"time"
)

type OrderStatus string

const (
	OrderStatusOpen      OrderStatus = "open"
	OrderStatusCompleted OrderStatus = "completed"
	OrderStatusCancelled OrderStatus = "cancelled"
)

type Order struct {
	ID                int64
	Status            OrderStatus
	Total             Money
	RegisterSessionID int64
	CreatedAt         time.Time
	CompletedAt       *time.Time
}

type OrderItem struct {
	ID        int64
	OrderID   int64
	Name      string
	Quantity  int
	UnitPrice Money
	LineTotal Money
}

var ErrOrderNotFound = errors.New("order not found")
