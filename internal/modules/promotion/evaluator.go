package promotion

import (
	"math"

	"github.com/google/uuid"
)

// SelectDiscount picks the single best-applicable discount for a sale.
//
// A promotion qualifies when it is a DISCOUNT, the gross total meets its
// condition amount, and its product scope is unset or matches the sale's
// product. FUEL_RATE promotions qualify only for fuel-bound sales (liters > 0)
// and yield ceil(rate * liters); FLAT_AMOUNT promotions yield their value
// as-is. The strictly greatest candidate wins; ties keep the first
// encountered. A zero-value promotion is a legal no-op.
//
// Pure function: callers re-run it on every total recomputation.
func SelectDiscount(total, liters float64, productID *uuid.UUID, promos []*Promotion) (float64, *uuid.UUID) {
	var best float64
	var bestID *uuid.UUID

	for _, p := range promos {
		if p.Type != TypeDiscount {
			continue
		}
		if total < p.ConditionAmount {
			continue
		}
		if p.ProductID != nil && (productID == nil || *p.ProductID != *productID) {
			continue
		}

		var candidate float64
		switch p.ValueKind {
		case KindFuelRate:
			if liters <= 0 {
				continue
			}
			candidate = math.Ceil(p.Value * liters)
		case KindFlatAmount:
			candidate = p.Value
		default:
			continue
		}

		if candidate > best {
			best = candidate
			id := p.ID
			bestID = &id
		}
	}
	return best, bestID
}
