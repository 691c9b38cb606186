package billing

import (
	"context"
	"errors"
	"fmt"

	"github.com/opdhq/opd/internal/domain/patient"
	"github.com/opdhq/opd/internal/domain/visit"
)

// VisitDirectory is the slice of the visit domain billing needs:
// ownership-checked lookups.
type VisitDirectory interface {
	Get(ctx context.Context, id, doctorID int64) (*visit.Visit, error)
}

// PatientDirectory resolves the patient shown on bill pages and documents.
type PatientDirectory interface {
	Get(ctx context.Context, id, doctorID int64) (*patient.Patient, error)
}

// TxRunner runs fn atomically. Repository calls made through fn's context
// join the same database transaction.
type TxRunner func(ctx context.Context, fn func(context.Context) error) error

type Service struct {
	repo     Repository
	visits   VisitDirectory
	patients PatientDirectory
	tx       TxRunner
}

func NewService(repo Repository, visits VisitDirectory, patients PatientDirectory, tx TxRunner) *Service {
	return &Service{repo: repo, visits: visits, patients: patients, tx: tx}
}

// Create raises a bill for one of doctorID's own visits. The ownership
// check and the insert share one transaction, and a concurrent duplicate
// surfaces as ErrAlreadyBilled, decided by the database.
func (s *Service) Create(ctx context.Context, visitID, doctorID int64, in Input) (*Bill, error) {
	b := &Bill{
		VisitID: visitID,
		Total:   in.Total,
		Status:  in.Status,
		Notes:   in.Notes,
	}
	err := s.tx(ctx, func(ctx context.Context) error {
		if _, err := s.visits.Get(ctx, visitID, doctorID); err != nil {
			if errors.Is(err, visit.ErrNotFound) {
				return ErrNotFound
			}
			return fmt.Errorf("check visit: %w", err)
		}
		if err := s.repo.Create(ctx, b); err != nil {
			if errors.Is(err, ErrAlreadyBilled) {
				return ErrAlreadyBilled
			}
			return fmt.Errorf("create bill: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return b, nil
}

// Get returns the bill together with its visit and patient, all scoped to
// the doctor.
func (s *Service) Get(ctx context.Context, id, doctorID int64) (*Bill, *visit.Visit, *patient.Patient, error) {
	b, err := s.repo.GetForDoctor(ctx, id, doctorID)
	if err != nil {
		return nil, nil, nil, err
	}
	v, err := s.visits.Get(ctx, b.VisitID, doctorID)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("load visit for bill %d: %w", b.ID, err)
	}
	p, err := s.patients.Get(ctx, v.PatientID, doctorID)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("load patient for bill %d: %w", b.ID, err)
	}
	return b, v, p, nil
}

// ForVisit returns the bill of one of doctorID's visits, or ErrNotFound
// when the visit is unbilled (or not theirs).
func (s *Service) ForVisit(ctx context.Context, visitID, doctorID int64) (*Bill, error) {
	if _, err := s.visits.Get(ctx, visitID, doctorID); err != nil {
		if errors.Is(err, visit.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return s.repo.GetByVisit(ctx, visitID)
}

// SummaryProvider adapts the bill repository to the visit detail page.
type SummaryProvider struct {
	repo Repository
}

func NewSummaryProvider(repo Repository) *SummaryProvider {
	return &SummaryProvider{repo: repo}
}

func (p *SummaryProvider) SummaryForVisit(ctx context.Context, visitID int64) (*visit.BillSummary, error) {
	b, err := p.repo.GetByVisit(ctx, visitID)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &visit.BillSummary{ID: b.ID, Total: b.Total, Status: b.Status}, nil
}
