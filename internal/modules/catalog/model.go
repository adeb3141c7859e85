package catalog

import (
	"time"

	"github.com/google/uuid"
)

// ProductCategory separates pump fuels from shop goods.
type ProductCategory string

const (
	CategoryFuel  ProductCategory = "FUEL"
	CategoryGoods ProductCategory = "GOODS"
)

// Product is a sellable item: a fuel grade priced per liter, or a shop good
// priced per unit.
type Product struct {
	ID        uuid.UUID       `json:"id"`
	Name      string          `json:"name"`
	Category  ProductCategory `json:"category"`
	Price     float64         `json:"price"`
	SKU       string          `json:"sku,omitempty"`
	Stock     int             `json:"stock"`
	IsActive  bool            `json:"is_active"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// CreateProductRequest is the payload for creating or updating a product.
type CreateProductRequest struct {
	Name     string  `json:"name"`
	Category string  `json:"category"`
	Price    float64 `json:"price"`
	SKU      string  `json:"sku,omitempty"`
	Stock    int     `json:"stock"`
	IsActive bool    `json:"is_active"`
}
