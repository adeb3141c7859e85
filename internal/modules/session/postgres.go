package session

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/google/uuid"
)

type postgresRepo struct{ db *sql.DB }

// NewPostgresRepository creates the PostgreSQL held-sale directory.
func NewPostgresRepository(db *sql.DB) Repository { return &postgresRepo{db: db} }

func (r *postgresRepo) Create(ctx context.Context, s *SaleSession) error {
	cart, err := json.Marshal(s.Cart)
	if err != nil {
		return err
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if s.NozzleID != nil {
		// Advisory lock on the nozzle id serializes the cap check against
		// concurrent creates on the same nozzle.
		if _, err := tx.ExecContext(ctx,
			`SELECT pg_advisory_xact_lock(hashtext($1))`, s.NozzleID.String()); err != nil {
			return err
		}
		var count int
		err := tx.QueryRowContext(ctx,
			`SELECT count(*) FROM held_sales WHERE nozzle_id=$1`, *s.NozzleID).Scan(&count)
		if err != nil {
			return err
		}
		if count >= MaxHeldPerNozzle {
			return ErrCapacityExceeded
		}
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO held_sales
		  (id, nozzle_id, product_id, fuel_price, fuel_amount, cart,
		   received_amount, member_id, payment_method, state)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)`,
		s.ID, s.NozzleID, s.ProductID, s.FuelPrice, s.FuelAmount, cart,
		s.ReceivedAmount, s.MemberID, string(s.PaymentMethod), s.State)
	if err != nil {
		return err
	}
	return tx.Commit()
}

const heldSaleColumns = `id, nozzle_id, product_id, fuel_price, fuel_amount, cart,
	received_amount, member_id, payment_method, state, created_at, updated_at`

func (r *postgresRepo) Get(ctx context.Context, id uuid.UUID) (*SaleSession, error) {
	return r.scan(r.db.QueryRowContext(ctx,
		`SELECT `+heldSaleColumns+` FROM held_sales WHERE id=$1`, id))
}

func (r *postgresRepo) ListByNozzle(ctx context.Context, nozzleID uuid.UUID) ([]*SaleSession, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+heldSaleColumns+` FROM held_sales WHERE nozzle_id=$1 ORDER BY created_at`,
		nozzleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var sessions []*SaleSession
	for rows.Next() {
		s, err := r.scan(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, s)
	}
	return sessions, rows.Err()
}

func (r *postgresRepo) Update(ctx context.Context, s *SaleSession) error {
	cart, err := json.Marshal(s.Cart)
	if err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx, `
		UPDATE held_sales
		SET fuel_amount=$2, cart=$3, received_amount=$4, member_id=$5,
		    payment_method=$6, state=$7, updated_at=now()
		WHERE id=$1`,
		s.ID, s.FuelAmount, cart, s.ReceivedAmount, s.MemberID,
		string(s.PaymentMethod), s.State)
	if err != nil {
		return err
	}
	return checkFound(res)
}

func (r *postgresRepo) Remove(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM held_sales WHERE id=$1`, id)
	if err != nil {
		return err
	}
	return checkFound(res)
}

func (r *postgresRepo) CountByNozzle(ctx context.Context, nozzleID uuid.UUID) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT count(*) FROM held_sales WHERE nozzle_id=$1`, nozzleID).Scan(&count)
	return count, err
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

func (r *postgresRepo) scan(row rowScanner) (*SaleSession, error) {
	s := &SaleSession{}
	var nozzleID, productID, memberID sql.NullString
	var method string
	var cart []byte
	err := row.Scan(&s.ID, &nozzleID, &productID, &s.FuelPrice, &s.FuelAmount,
		&cart, &s.ReceivedAmount, &memberID, &method, &s.State,
		&s.CreatedAt, &s.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(cart, &s.Cart); err != nil {
		return nil, err
	}
	s.PaymentMethod = PaymentMethod(method)
	s.NozzleID = parseNullUUID(nozzleID)
	s.ProductID = parseNullUUID(productID)
	s.MemberID = parseNullUUID(memberID)
	return s, nil
}

func parseNullUUID(v sql.NullString) *uuid.UUID {
	if !v.Valid {
		return nil
	}
	id, err := uuid.Parse(v.String)
	if err != nil {
		return nil
	}
	return &id
}
