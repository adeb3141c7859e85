package nozzle

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
)

type postgresRepo struct{ db *sql.DB }

// NewPostgresRepository creates a new PostgreSQL nozzle repository.
func NewPostgresRepository(db *sql.DB) Repository { return &postgresRepo{db: db} }

func (r *postgresRepo) GetByID(ctx context.Context, id uuid.UUID) (*Nozzle, error) {
	return r.scan(r.db.QueryRowContext(ctx, `
		SELECT id, dispenser_id, number, product_id, busy, admin_locked, lock_reason,
		       created_at, updated_at
		FROM nozzles WHERE id=$1`, id))
}

func (r *postgresRepo) List(ctx context.Context) ([]*Nozzle, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, dispenser_id, number, product_id, busy, admin_locked, lock_reason,
		       created_at, updated_at
		FROM nozzles ORDER BY number`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var nozzles []*Nozzle
	for rows.Next() {
		n, err := r.scan(rows)
		if err != nil {
			return nil, err
		}
		nozzles = append(nozzles, n)
	}
	return nozzles, rows.Err()
}

func (r *postgresRepo) SetBusy(ctx context.Context, id uuid.UUID, busy bool) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE nozzles SET busy=$2, updated_at=now() WHERE id=$1`, id, busy)
	if err != nil {
		return err
	}
	return checkFound(res)
}

func (r *postgresRepo) SetAdminLock(ctx context.Context, id uuid.UUID, locked bool, reason string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE nozzles SET admin_locked=$2, lock_reason=$3, updated_at=now() WHERE id=$1`,
		id, locked, reason)
	if err != nil {
		return err
	}
	return checkFound(res)
}

func checkFound(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// ── scanner ───────────────────────────────────────────────────────────────────

type rowScanner interface{ Scan(dest ...interface{}) error }

func (r *postgresRepo) scan(row rowScanner) (*Nozzle, error) {
	n := &Nozzle{}
	var reason sql.NullString
	err := row.Scan(&n.ID, &n.DispenserID, &n.Number, &n.ProductID,
		&n.Busy, &n.AdminLocked, &reason, &n.CreatedAt, &n.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if reason.Valid {
		n.LockReason = reason.String
	}
	return n, nil
}
