// Package billing creates and serves bills for OPD visits. A visit has at
// most one bill, enforced by the schema.
package billing

import (
	"time"

	"github.com/opdhq/opd/pkg/money"
)

// Payment states a bill can be in.
const (
	StatusPending = "pending"
	StatusPaid    = "paid"
)

// ValidStatus reports whether s is an accepted payment status.
func ValidStatus(s string) bool {
	return s == StatusPending || s == StatusPaid
}

// Bill is the charge raised for a single visit.
type Bill struct {
	ID        int64
	VisitID   int64
	Total     money.Amount
	Status    string
	Notes     string
	CreatedAt time.Time
}
