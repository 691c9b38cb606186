package billing

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/opdhq/opd/internal/platform/db"
)

type queryable interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
}

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository { return &repoPG{pool: pool} }

func (r *repoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

const billCols = `b.id, b.visit_id, b.total_amount, b.payment_status, b.notes, b.created_at`

func scanBill(row pgx.Row) (*Bill, error) {
	var b Bill
	err := row.Scan(&b.ID, &b.VisitID, &b.Total, &b.Status, &b.Notes, &b.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *repoPG) Create(ctx context.Context, b *Bill) error {
	err := r.conn(ctx).QueryRow(ctx, `
		INSERT INTO bill (visit_id, total_amount, payment_status, notes)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`,
		b.VisitID, b.Total, b.Status, b.Notes).
		Scan(&b.ID, &b.CreatedAt)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return ErrAlreadyBilled
	}
	return err
}

func (r *repoPG) GetForDoctor(ctx context.Context, id, doctorID int64) (*Bill, error) {
	return scanBill(r.conn(ctx).QueryRow(ctx, `
		SELECT `+billCols+` FROM bill b
		JOIN opd_visit v ON v.id = b.visit_id
		WHERE b.id = $1 AND v.doctor_id = $2`, id, doctorID))
}

func (r *repoPG) GetByVisit(ctx context.Context, visitID int64) (*Bill, error) {
	return scanBill(r.conn(ctx).QueryRow(ctx, `
		SELECT `+billCols+` FROM bill b WHERE b.visit_id = $1`, visitID))
}
