package catalog

import "context"

// Repository defines the interface for product data storage.
type Repository interface {
	Create(ctx context.Context, p *Product) error
	GetByID(ctx context.Context, id string) (*Product, error)
	List(ctx context.Context, category string, activeOnly bool) ([]*Product, error)
	// SearchGoods finds active shop goods whose name or SKU matches the term.
	// Fuel products are never returned; they are sold through the pump, not
	// the basket.
	SearchGoods(ctx context.Context, term string) ([]*Product, error)
	Update(ctx context.Context, p *Product) error
}
