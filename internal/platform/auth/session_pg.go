package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type sessionStorePG struct{ pool *pgxpool.Pool }

// NewSessionStorePG creates a Postgres-backed session store. Sessions survive
// server restarts and are shared across instances.
func NewSessionStorePG(pool *pgxpool.Pool) SessionStore {
	return &sessionStorePG{pool: pool}
}

func (r *sessionStorePG) Create(ctx context.Context, s *Session) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO session (id, doctor_id, expires_at)
		VALUES ($1, $2, $3)`,
		s.ID, s.DoctorID, s.ExpiresAt)
	if err != nil {
		return fmt.Errorf("insert session: %w", err)
	}
	return nil
}

func (r *sessionStorePG) Get(ctx context.Context, id uuid.UUID) (*Session, error) {
	var s Session
	err := r.pool.QueryRow(ctx, `
		SELECT s.id, s.doctor_id, d.username, s.expires_at, s.created_at
		FROM session s
		JOIN doctor d ON d.id = s.doctor_id
		WHERE s.id = $1`, id).
		Scan(&s.ID, &s.DoctorID, &s.Username, &s.ExpiresAt, &s.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNoSession
	}
	if err != nil {
		return nil, fmt.Errorf("select session: %w", err)
	}
	return &s, nil
}

func (r *sessionStorePG) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := r.pool.Exec(ctx, `DELETE FROM session WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

func (r *sessionStorePG) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM session WHERE expires_at <= $1`, now)
	if err != nil {
		return 0, fmt.Errorf("delete expired sessions: %w", err)
	}
	return tag.RowsAffected(), nil
}
