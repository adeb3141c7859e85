package promotion

import (
	"time"

	"github.com/google/uuid"
)

// PromotionType classifies what a promotion grants. Only DISCOUNT promotions
// participate in settlement math; freebies and point multipliers are handled
// at the counter.
type PromotionType string

const (
	TypeDiscount        PromotionType = "DISCOUNT"
	TypeFreebie         PromotionType = "FREEBIE"
	TypePointMultiplier PromotionType = "POINT_MULTIPLIER"
)

// ValueKind fixes, at creation time, how a discount's value is interpreted.
// A FUEL_RATE value is baht per liter dispensed; a FLAT_AMOUNT value is a
// one-off currency deduction.
type ValueKind string

const (
	KindFuelRate   ValueKind = "FUEL_RATE"
	KindFlatAmount ValueKind = "FLAT_AMOUNT"
)

// Promotion is an admin-managed campaign. The core only reads the active
// subset; creation and editing happen through the admin endpoints.
type Promotion struct {
	ID              uuid.UUID     `json:"id"`
	Name            string        `json:"name"`
	Type            PromotionType `json:"type"`
	ValueKind       ValueKind     `json:"value_kind"`
	Value           float64       `json:"value"`
	ConditionAmount float64       `json:"condition_amount"`
	ProductID       *uuid.UUID    `json:"product_id,omitempty"` // nil = any product
	StartDate       time.Time     `json:"start_date"`
	EndDate         time.Time     `json:"end_date"`
	IsActive        bool          `json:"is_active"`
	CreatedAt       time.Time     `json:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at"`
}

// CreatePromotionRequest is the payload for creating or updating a promotion.
type CreatePromotionRequest struct {
	Name            string  `json:"name"`
	Type            string  `json:"type"`
	ValueKind       string  `json:"value_kind"`
	Value           float64 `json:"value"`
	ConditionAmount float64 `json:"condition_amount"`
	ProductID       string  `json:"product_id,omitempty"`
	StartDate       string  `json:"start_date"` // YYYY-MM-DD
	EndDate         string  `json:"end_date"`   // YYYY-MM-DD, exclusive
	IsActive        bool    `json:"is_active"`
}
