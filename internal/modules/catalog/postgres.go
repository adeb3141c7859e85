package catalog

import (
	"context"
	"database/sql"
)

type postgresRepo struct{ db *sql.DB }

// NewPostgresRepository creates a new PostgreSQL product repository.
func NewPostgresRepository(db *sql.DB) Repository { return &postgresRepo{db: db} }

func (r *postgresRepo) Create(ctx context.Context, p *Product) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO products (id, name, category, price, sku, stock, is_active)
		VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		p.ID, p.Name, p.Category, p.Price, p.SKU, p.Stock, p.IsActive)
	return err
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*Product, error) {
	return r.scan(r.db.QueryRowContext(ctx, `
		SELECT id, name, category, price, sku, stock, is_active, created_at, updated_at
		FROM products WHERE id=$1`, id))
}

func (r *postgresRepo) List(ctx context.Context, category string, activeOnly bool) ([]*Product, error) {
	query := `
		SELECT id, name, category, price, sku, stock, is_active, created_at, updated_at
		FROM products
		WHERE ($1 = '' OR category = $1) AND (NOT $2 OR is_active)
		ORDER BY name`
	rows, err := r.db.QueryContext(ctx, query, category, activeOnly)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return r.collect(rows)
}

func (r *postgresRepo) SearchGoods(ctx context.Context, term string) ([]*Product, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, category, price, sku, stock, is_active, created_at, updated_at
		FROM products
		WHERE category = $1 AND is_active AND (name ILIKE '%' || $2 || '%' OR sku = $2)
		ORDER BY name`, CategoryGoods, term)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return r.collect(rows)
}

func (r *postgresRepo) Update(ctx context.Context, p *Product) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE products
		SET name=$2, category=$3, price=$4, sku=$5, stock=$6, is_active=$7, updated_at=now()
		WHERE id=$1`,
		p.ID, p.Name, p.Category, p.Price, p.SKU, p.Stock, p.IsActive)
	return err
}

// ── scanner ───────────────────────────────────────────────────────────────────

type rowScanner interface{ Scan(dest ...interface{}) error }

func (r *postgresRepo) scan(row rowScanner) (*Product, error) {
	p := &Product{}
	err := row.Scan(&p.ID, &p.Name, &p.Category, &p.Price, &p.SKU, &p.Stock,
		&p.IsActive, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *postgresRepo) collect(rows *sql.Rows) ([]*Product, error) {
	var products []*Product
	for rows.Next() {
		p, err := r.scan(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}
