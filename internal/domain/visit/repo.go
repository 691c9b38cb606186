package visit

import (
	"context"
	"errors"
)

// ErrNotFound covers both a missing visit and one recorded by another
// doctor.
var ErrNotFound = errors.New("visit not found")

type Repository interface {
	Create(ctx context.Context, v *Visit) error
	// GetForDoctor returns the visit only when doctorID recorded it.
	GetForDoctor(ctx context.Context, id, doctorID int64) (*Visit, error)
	// ListByPatient returns the patient's visits, newest first, scoped to
	// the recording doctor.
	ListByPatient(ctx context.Context, patientID, doctorID int64) ([]*Visit, error)
	// RecentByDoctor returns the doctor's latest visits in the same
	// visit_date DESC, id DESC order every visit listing uses, so a
	// backdated visit never outranks a newer-dated one.
	RecentByDoctor(ctx context.Context, doctorID int64, n int) ([]*Visit, error)
}
