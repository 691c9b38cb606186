package account

import (
	"context"
	"errors"
	"fmt"

	"github.com/opdhq/opd/internal/platform/auth"
)

// ErrBadCredentials covers both unknown usernames and wrong passwords so a
// failed login never reveals which of the two it was.
var ErrBadCredentials = errors.New("invalid username or password")

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Signup creates a doctor account. A taken username comes back as
// ErrDuplicateUsername for the form to surface.
func (s *Service) Signup(ctx context.Context, in SignupInput) (*Doctor, error) {
	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	d := &Doctor{
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: hash,
	}
	if err := s.repo.Create(ctx, d); err != nil {
		if errors.Is(err, ErrDuplicateUsername) {
			return nil, ErrDuplicateUsername
		}
		return nil, fmt.Errorf("create doctor: %w", err)
	}
	return d, nil
}

// Authenticate checks a login attempt against the stored password hash.
func (s *Service) Authenticate(ctx context.Context, in LoginInput) (*Doctor, error) {
	d, err := s.repo.GetByUsername(ctx, in.Username)
	if errors.Is(err, ErrNotFound) {
		// Burn a hash comparison so the miss takes as long as a mismatch.
		auth.CheckPassword(dummyHash, in.Password)
		return nil, ErrBadCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("look up doctor: %w", err)
	}
	if !auth.CheckPassword(d.PasswordHash, in.Password) {
		return nil, ErrBadCredentials
	}
	return d, nil
}

// dummyHash is a bcrypt hash of a random throwaway string.
const dummyHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

// Get returns the doctor by id.
func (s *Service) Get(ctx context.Context, id int64) (*Doctor, error) {
	return s.repo.GetByID(ctx, id)
}
