package promotion

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Service defines promotion management business logic.
type Service interface {
	CreatePromotion(ctx context.Context, req CreatePromotionRequest) (*Promotion, error)
	GetPromotion(ctx context.Context, id string) (*Promotion, error)
	ListPromotions(ctx context.Context) ([]*Promotion, error)
	UpdatePromotion(ctx context.Context, id string, req CreatePromotionRequest) (*Promotion, error)
	DeletePromotion(ctx context.Context, id string) error
}

type service struct{ repo Repository }

// NewService creates a new promotion service.
func NewService(repo Repository) Service { return &service{repo: repo} }

func (s *service) CreatePromotion(ctx context.Context, req CreatePromotionRequest) (*Promotion, error) {
	p, err := fromRequest(req)
	if err != nil {
		return nil, err
	}
	p.ID = uuid.New()
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *service) GetPromotion(ctx context.Context, id string) (*Promotion, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) ListPromotions(ctx context.Context) ([]*Promotion, error) {
	return s.repo.List(ctx)
}

func (s *service) UpdatePromotion(ctx context.Context, id string, req CreatePromotionRequest) (*Promotion, error) {
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("promotion not found: %w", err)
	}
	p, err := fromRequest(req)
	if err != nil {
		return nil, err
	}
	p.ID = existing.ID
	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *service) DeletePromotion(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

// fromRequest validates the payload and resolves the value semantics once.
// The value kind is fixed here, at creation time, never inferred at
// evaluation time.
func fromRequest(req CreatePromotionRequest) (*Promotion, error) {
	if req.Name == "" {
		return nil, fmt.Errorf("name is required")
	}

	ptype := PromotionType(strings.ToUpper(req.Type))
	switch ptype {
	case TypeDiscount, TypeFreebie, TypePointMultiplier:
	default:
		return nil, fmt.Errorf("invalid type: %s (allowed: DISCOUNT, FREEBIE, POINT_MULTIPLIER)", req.Type)
	}

	kind := ValueKind(strings.ToUpper(req.ValueKind))
	switch kind {
	case KindFuelRate, KindFlatAmount:
	default:
		return nil, fmt.Errorf("invalid value_kind: %s (allowed: FUEL_RATE, FLAT_AMOUNT)", req.ValueKind)
	}

	if req.Value < 0 {
		return nil, fmt.Errorf("value must not be negative")
	}
	if req.ConditionAmount < 0 {
		return nil, fmt.Errorf("condition_amount must not be negative")
	}

	start, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		return nil, fmt.Errorf("invalid start_date: %w", err)
	}
	end, err := time.Parse("2006-01-02", req.EndDate)
	if err != nil {
		return nil, fmt.Errorf("invalid end_date: %w", err)
	}
	if !start.Before(end) {
		return nil, fmt.Errorf("start_date must be before end_date")
	}

	p := &Promotion{
		Name:            req.Name,
		Type:            ptype,
		ValueKind:       kind,
		Value:           req.Value,
		ConditionAmount: req.ConditionAmount,
		StartDate:       start,
		EndDate:         end,
		IsActive:        req.IsActive,
	}

	if req.ProductID != "" {
		pid, err := uuid.Parse(req.ProductID)
		if err != nil {
			return nil, fmt.Errorf("invalid product_id: %w", err)
		}
		p.ProductID = &pid
	}
	return p, nil
}
