package promotion

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
)

type postgresRepo struct{ db *sql.DB }

// NewPostgresRepository creates a new PostgreSQL promotion repository.
func NewPostgresRepository(db *sql.DB) Repository { return &postgresRepo{db: db} }

const promotionColumns = `id, name, type, value_kind, value, condition_amount,
	product_id, start_date, end_date, is_active, created_at, updated_at`

func (r *postgresRepo) Create(ctx context.Context, p *Promotion) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO promotions
		  (id, name, type, value_kind, value, condition_amount, product_id,
		   start_date, end_date, is_active)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)`,
		p.ID, p.Name, p.Type, p.ValueKind, p.Value, p.ConditionAmount,
		p.ProductID, p.StartDate, p.EndDate, p.IsActive)
	return err
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*Promotion, error) {
	return r.scan(r.db.QueryRowContext(ctx,
		`SELECT `+promotionColumns+` FROM promotions WHERE id=$1`, id))
}

func (r *postgresRepo) List(ctx context.Context) ([]*Promotion, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+promotionColumns+` FROM promotions ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return r.collect(rows)
}

func (r *postgresRepo) ListActive(ctx context.Context, now time.Time) ([]*Promotion, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+promotionColumns+`
		FROM promotions
		WHERE is_active AND start_date <= $1 AND $1 < end_date
		ORDER BY created_at`, now)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return r.collect(rows)
}

func (r *postgresRepo) Update(ctx context.Context, p *Promotion) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE promotions
		SET name=$2, type=$3, value_kind=$4, value=$5, condition_amount=$6,
		    product_id=$7, start_date=$8, end_date=$9, is_active=$10, updated_at=now()
		WHERE id=$1`,
		p.ID, p.Name, p.Type, p.ValueKind, p.Value, p.ConditionAmount,
		p.ProductID, p.StartDate, p.EndDate, p.IsActive)
	return err
}

func (r *postgresRepo) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM promotions WHERE id=$1`, id)
	return err
}

// ── scanner ───────────────────────────────────────────────────────────────────

type rowScanner interface{ Scan(dest ...interface{}) error }

func (r *postgresRepo) scan(row rowScanner) (*Promotion, error) {
	p := &Promotion{}
	var productID sql.NullString
	err := row.Scan(&p.ID, &p.Name, &p.Type, &p.ValueKind, &p.Value,
		&p.ConditionAmount, &productID, &p.StartDate, &p.EndDate,
		&p.IsActive, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if productID.Valid {
		pid, err := uuid.Parse(productID.String)
		if err == nil {
			p.ProductID = &pid
		}
	}
	return p, nil
}

func (r *postgresRepo) collect(rows *sql.Rows) ([]*Promotion, error) {
	var promos []*Promotion
	for rows.Next() {
		p, err := r.scan(rows)
		if err != nil {
			return nil, err
		}
		promos = append(promos, p)
	}
	return promos, rows.Err()
}
