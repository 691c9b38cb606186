package patient

import (
	"context"
	"errors"
)

// ErrNotFound covers both a missing row and a row owned by another doctor.
// Callers must not tell the two apart.
var ErrNotFound = errors.New("patient not found")

type Repository interface {
	Create(ctx context.Context, p *Patient) error
	// GetForDoctor returns the patient only when doctorID owns it.
	GetForDoctor(ctx context.Context, id, doctorID int64) (*Patient, error)
	Update(ctx context.Context, p *Patient) error
	// Delete removes the patient and, through the schema, its visits and
	// bills. Deleting an unowned or absent patient is ErrNotFound.
	Delete(ctx context.Context, id, doctorID int64) error
	ListByDoctor(ctx context.Context, doctorID int64, limit, offset int) ([]*Patient, int, error)
	RecentByDoctor(ctx context.Context, doctorID int64, n int) ([]*Patient, error)
}
