package billing

import (
	"context"
	"errors"
)

var (
	// ErrNotFound covers a missing bill and a bill on another doctor's
	// visit alike.
	ErrNotFound = errors.New("bill not found")

	// ErrAlreadyBilled fires when a second bill is attempted for a visit.
	// The unique constraint on visit_id raises it even when two creates
	// race.
	ErrAlreadyBilled = errors.New("visit already billed")
)

type Repository interface {
	Create(ctx context.Context, b *Bill) error
	// GetForDoctor returns the bill only when doctorID recorded the
	// underlying visit.
	GetForDoctor(ctx context.Context, id, doctorID int64) (*Bill, error)
	// GetByVisit returns the visit's bill or ErrNotFound. Callers check
	// visit ownership first.
	GetByVisit(ctx context.Context, visitID int64) (*Bill, error)
}
