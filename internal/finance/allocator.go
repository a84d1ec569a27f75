// Package finance holds the pure money arithmetic of the reconciliation
// subsystem. Nothing here touches storage.
package finance

import (
	"sort"

	"github.com/tablefront/pos-finance/internal/entities"
)

// Allocate splits the recorded payments of one order into per-method applied
// amounts, capped at the order total. Payments are walked in (paidAt, id)
// order; once the total is covered the rest of a payment is change returned
// to the customer and counts toward no method. Non-positive amounts and
// unknown methods are skipped.
//
// Summing raw payment amounts by method would overstate cash sales by the
// change amount on over-tendered orders; this is the single reproducible
// allocation the drawer is reconciled against.
func Allocate(orderTotal entities.Money, payments []entities.Payment) map[entities.PaymentMethod]entities.Money {
	applied := make(map[entities.PaymentMethod]entities.Money)

	remaining := orderTotal
	if remaining < 0 {
		remaining = 0
	}

	sorted := make([]entities.Payment, len(payments))
	copy(sorted, payments)
	sort.Slice(sorted, func(i, j int) bool {
		// paidAt values may collide, id breaks the tie deterministically
		if !sorted[i].PaidAt.Equal(sorted[j].PaidAt) {
			return sorted[i].PaidAt.Before(sorted[j].PaidAt)
		}
		return sorted[i].ID < sorted[j].ID
	})

	for _, p := range sorted {
		if remaining <= 0 {
			break
		}
		if p.Amount <= 0 || !entities.KnownMethod(p.Method) {
			continue
		}
		portion := p.Amount
		if portion > remaining {
			portion = remaining
		}
		applied[p.Method] += portion
		remaining -= portion
	}

	return applied
}

// AppliedTotal sums an allocation across all methods.
func AppliedTotal(applied map[entities.PaymentMethod]entities.Money) entities.Money {
	var total entities.Money
	for _, v := range applied {
		total += v
	}
	return total
}
