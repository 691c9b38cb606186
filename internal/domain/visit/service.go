package visit

import (
	"context"
	"errors"
	"fmt"

	"github.com/opdhq/opd/internal/domain/patient"
)

// PatientDirectory is the slice of the patient domain the visit flow needs:
// ownership-checked lookups.
type PatientDirectory interface {
	Get(ctx context.Context, id, doctorID int64) (*patient.Patient, error)
}

type Service struct {
	repo     Repository
	patients PatientDirectory
}

func NewService(repo Repository, patients PatientDirectory) *Service {
	return &Service{repo: repo, patients: patients}
}

// Record creates a visit for one of doctorID's own patients. Recording
// against an unowned patient is indistinguishable from the patient not
// existing.
func (s *Service) Record(ctx context.Context, patientID, doctorID int64, in Input) (*Visit, error) {
	if _, err := s.patients.Get(ctx, patientID, doctorID); err != nil {
		if errors.Is(err, patient.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("check patient: %w", err)
	}
	v := &Visit{
		PatientID:    patientID,
		DoctorID:     doctorID,
		VisitDate:    in.VisitDate,
		Symptoms:     in.Symptoms,
		Diagnosis:    in.Diagnosis,
		Prescription: in.Prescription,
		Fee:          in.Fee,
	}
	if err := s.repo.Create(ctx, v); err != nil {
		return nil, fmt.Errorf("create visit: %w", err)
	}
	return v, nil
}

func (s *Service) Get(ctx context.Context, id, doctorID int64) (*Visit, error) {
	return s.repo.GetForDoctor(ctx, id, doctorID)
}

func (s *Service) ListByPatient(ctx context.Context, patientID, doctorID int64) ([]*Visit, error) {
	return s.repo.ListByPatient(ctx, patientID, doctorID)
}

func (s *Service) Recent(ctx context.Context, doctorID int64, n int) ([]*Visit, error) {
	return s.repo.RecentByDoctor(ctx, doctorID, n)
}

// HistoryProvider adapts the visit repository to the patient detail page.
type HistoryProvider struct {
	repo Repository
}

func NewHistoryProvider(repo Repository) *HistoryProvider {
	return &HistoryProvider{repo: repo}
}

func (p *HistoryProvider) HistoryForPatient(ctx context.Context, patientID, doctorID int64) ([]patient.HistoryEntry, error) {
	visits, err := p.repo.ListByPatient(ctx, patientID, doctorID)
	if err != nil {
		return nil, err
	}
	entries := make([]patient.HistoryEntry, len(visits))
	for i, v := range visits {
		entries[i] = patient.HistoryEntry{
			ID:        v.ID,
			VisitDate: v.VisitDate,
			Symptoms:  v.Symptoms,
			Diagnosis: v.Diagnosis,
			Fee:       v.Fee,
		}
	}
	return entries, nil
}
