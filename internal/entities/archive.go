package entities

import (
	"errors"
	"time"
)

// Archived rows mirror their live counterparts field for field and keep the
// same id, which is what makes migration idempotent and detectable.

type ArchivedOrder struct {
	Order
	MigratedAt time.Time
}

type ArchivedOrderItem struct {
	OrderItem
	MigratedAt time.Time
}

type ArchivedPayment struct {
	Payment
	MigratedAt time.Time
}

// MigrationResult reports one archival run. Errors holds one message per
// order that failed; a non-empty list is not a failure of the whole run.
type MigrationResult struct {
	MigratedCount int
	TotalFound    int
	Errors        []string
}

// MigrationPreview is the read-only dry run of an archival batch.
type MigrationPreview struct {
	OrdersToMigrate     int
	CurrentActiveOrders int
	CurrentPastOrders   int
	CutoffDate          time.Time
}

var ErrInvalidCutoff = errors.New("cutoff days must be at least 1")
