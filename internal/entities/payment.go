package entities

import "time"

type PaymentMethod string

const (
	MethodCash   PaymentMethod = "cash"
	MethodCard   PaymentMethod = "card"
	MethodOnline PaymentMethod = "online"
	MethodOther  PaymentMethod = "other"
)

// KnownMethod reports whether m is one of the supported payment methods.
func KnownMethod(m PaymentMethod) bool {
	switch m {
	case MethodCash, MethodCard, MethodOnline, MethodOther:
		return true
	}
	return false
}

type Payment struct {
	ID         int64
	OrderID    int64
	Amount     Money
	Method     PaymentMethod
	PaidAt     time.Time
	ReceivedBy int64
}
