package account

import (
	"context"
	"errors"
)

var (
	// ErrNotFound indicates no doctor matched the lookup.
	ErrNotFound = errors.New("doctor not found")
	// ErrDuplicateUsername indicates the username is already taken.
	ErrDuplicateUsername = errors.New("username already taken")
)

type Repository interface {
	Create(ctx context.Context, d *Doctor) error
	GetByID(ctx context.Context, id int64) (*Doctor, error)
	GetByUsername(ctx context.Context, username string) (*Doctor, error)
}
