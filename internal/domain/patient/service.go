package patient

import (
	"context"
	"fmt"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Register creates a patient owned by doctorID.
func (s *Service) Register(ctx context.Context, doctorID int64, in Input) (*Patient, error) {
	p := &Patient{
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Gender:    in.Gender,
		Age:       in.Age,
		Phone:     in.Phone,
		Address:   in.Address,
		CreatedBy: doctorID,
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("create patient: %w", err)
	}
	return p, nil
}

func (s *Service) Get(ctx context.Context, id, doctorID int64) (*Patient, error) {
	return s.repo.GetForDoctor(ctx, id, doctorID)
}

// Update rewrites the patient's editable fields. Ownership never changes.
func (s *Service) Update(ctx context.Context, id, doctorID int64, in Input) (*Patient, error) {
	p := &Patient{
		ID:        id,
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Gender:    in.Gender,
		Age:       in.Age,
		Phone:     in.Phone,
		Address:   in.Address,
		CreatedBy: doctorID,
	}
	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Service) Delete(ctx context.Context, id, doctorID int64) error {
	return s.repo.Delete(ctx, id, doctorID)
}

func (s *Service) List(ctx context.Context, doctorID int64, limit, offset int) ([]*Patient, int, error) {
	return s.repo.ListByDoctor(ctx, doctorID, limit, offset)
}

func (s *Service) Recent(ctx context.Context, doctorID int64, n int) ([]*Patient, error) {
	return s.repo.RecentByDoctor(ctx, doctorID, n)
}
