package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Service defines catalog business logic.
type Service interface {
	CreateProduct(ctx context.Context, req CreateProductRequest) (*Product, error)
	GetProduct(ctx context.Context, id string) (*Product, error)
	ListProducts(ctx context.Context, category string, activeOnly bool) ([]*Product, error)
	SearchGoods(ctx context.Context, term string) ([]*Product, error)
	UpdateProduct(ctx context.Context, id string, req CreateProductRequest) (*Product, error)
}

type service struct{ repo Repository }

// NewService creates a new catalog service.
func NewService(repo Repository) Service { return &service{repo: repo} }

func (s *service) CreateProduct(ctx context.Context, req CreateProductRequest) (*Product, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	p := &Product{
		ID:       uuid.New(),
		Name:     req.Name,
		Category: ProductCategory(strings.ToUpper(req.Category)),
		Price:    req.Price,
		SKU:      req.SKU,
		Stock:    req.Stock,
		IsActive: req.IsActive,
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *service) GetProduct(ctx context.Context, id string) (*Product, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) ListProducts(ctx context.Context, category string, activeOnly bool) ([]*Product, error) {
	return s.repo.List(ctx, strings.ToUpper(category), activeOnly)
}

func (s *service) SearchGoods(ctx context.Context, term string) ([]*Product, error) {
	return s.repo.SearchGoods(ctx, term)
}

func (s *service) UpdateProduct(ctx context.Context, id string, req CreateProductRequest) (*Product, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("product not found: %w", err)
	}
	if err := validate(req); err != nil {
		return nil, err
	}
	p.Name = req.Name
	p.Category = ProductCategory(strings.ToUpper(req.Category))
	p.Price = req.Price
	p.SKU = req.SKU
	p.Stock = req.Stock
	p.IsActive = req.IsActive
	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func validate(req CreateProductRequest) error {
	if req.Name == "" {
		return fmt.Errorf("name is required")
	}
	if req.Price <= 0 {
		return fmt.Errorf("price must be greater than zero")
	}
	switch ProductCategory(strings.ToUpper(req.Category)) {
	case CategoryFuel, CategoryGoods:
		return nil
	default:
		return fmt.Errorf("invalid category: %s (allowed: FUEL, GOODS)", req.Category)
	}
}
