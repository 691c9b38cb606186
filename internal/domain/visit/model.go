// Package visit records OPD consultations. Visits are write-once: once
// recorded they are never edited, matching how a paper OPD register works.
package visit

import (
	"time"

	"github.com/opdhq/opd/pkg/money"
)

// Visit is a single OPD consultation of a patient by a doctor.
type Visit struct {
	ID           int64
	PatientID    int64
	DoctorID     int64
	VisitDate    time.Time
	Symptoms     string
	Diagnosis    string
	Prescription string
	Fee          money.Amount
	CreatedAt    time.Time
}
