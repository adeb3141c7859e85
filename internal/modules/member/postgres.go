package member

import (
	"context"
	"database/sql"
	"errors"
)

type postgresRepo struct{ db *sql.DB }

// NewPostgresRepository creates a new PostgreSQL member repository.
func NewPostgresRepository(db *sql.DB) Repository { return &postgresRepo{db: db} }

func (r *postgresRepo) Find(ctx context.Context, query string) (*Member, error) {
	m := &Member{}
	err := r.db.QueryRowContext(ctx, `
		SELECT id, name, phone, card_no, points, created_at, updated_at
		FROM members
		WHERE phone = $1 OR card_no = $1 OR name = $1
		LIMIT 1`, query).Scan(
		&m.ID, &m.Name, &m.Phone, &m.CardNo, &m.Points, &m.CreatedAt, &m.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return m, nil
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*Member, error) {
	m := &Member{}
	err := r.db.QueryRowContext(ctx, `
		SELECT id, name, phone, card_no, points, created_at, updated_at
		FROM members WHERE id = $1`, id).Scan(
		&m.ID, &m.Name, &m.Phone, &m.CardNo, &m.Points, &m.CreatedAt, &m.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return m, nil
}
