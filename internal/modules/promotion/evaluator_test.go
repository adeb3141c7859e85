package promotion

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discountPromo(kind ValueKind, value, condition float64) *Promotion {
	return &Promotion{
		ID:              uuid.New(),
		Name:            "test",
		Type:            TypeDiscount,
		ValueKind:       kind,
		Value:           value,
		ConditionAmount: condition,
		StartDate:       time.Now().AddDate(0, 0, -1),
		EndDate:         time.Now().AddDate(0, 0, 1),
		IsActive:        true,
	}
}

func TestSelectDiscount(t *testing.T) {
	dieselID := uuid.New()
	otherID := uuid.New()

	scoped := discountPromo(KindFuelRate, 5, 0)
	scoped.ProductID = &dieselID

	tests := []struct {
		name      string
		total     float64
		liters    float64
		productID *uuid.UUID
		promos    []*Promotion
		want      float64
	}{
		{
			name:   "no promotions",
			total:  500,
			promos: nil,
			want:   0,
		},
		{
			// 500 baht of fuel at 35.50/L is 14.08 liters; 10 baht/liter
			// rounds up to 141.
			name:   "fuel rate rounds up per liter",
			total:  500,
			liters: 500 / 35.50,
			promos: []*Promotion{discountPromo(KindFuelRate, 10, 300)},
			want:   141,
		},
		{
			name:   "condition amount not met",
			total:  200,
			liters: 200 / 35.50,
			promos: []*Promotion{discountPromo(KindFuelRate, 10, 300)},
			want:   0,
		},
		{
			name:   "flat amount for goods sale",
			total:  350,
			liters: 0,
			promos: []*Promotion{discountPromo(KindFlatAmount, 25, 300)},
			want:   25,
		},
		{
			name:   "fuel rate never applies to goods sale",
			total:  1000,
			liters: 0,
			promos: []*Promotion{discountPromo(KindFuelRate, 10, 0)},
			want:   0,
		},
		{
			name:   "greatest candidate wins",
			total:  500,
			liters: 10,
			promos: []*Promotion{
				discountPromo(KindFlatAmount, 30, 0),
				discountPromo(KindFuelRate, 10, 0), // ceil(10*10) = 100
				discountPromo(KindFlatAmount, 80, 0),
			},
			want: 100,
		},
		{
			name:   "non-discount types ignored",
			total:  500,
			liters: 10,
			promos: []*Promotion{
				{Type: TypeFreebie, ValueKind: KindFlatAmount, Value: 999},
				{Type: TypePointMultiplier, ValueKind: KindFlatAmount, Value: 999},
			},
			want: 0,
		},
		{
			name:   "zero value promotion is a no-op, not an error",
			total:  500,
			liters: 10,
			promos: []*Promotion{discountPromo(KindFlatAmount, 0, 0)},
			want:   0,
		},
		{
			name:      "product scope mismatch excluded",
			total:     500,
			liters:    10,
			productID: &otherID,
			promos:    []*Promotion{scoped},
			want:      0,
		},
		{
			name:      "product scope match included",
			total:     500,
			liters:    10,
			productID: &dieselID,
			promos:    []*Promotion{scoped},
			want:      50,
		},
		{
			name:      "unscoped promotion applies to any product",
			total:     500,
			liters:    10,
			productID: &otherID,
			promos:    []*Promotion{discountPromo(KindFlatAmount, 40, 0)},
			want:      40,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, _ := SelectDiscount(tt.total, tt.liters, tt.productID, tt.promos)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSelectDiscountTieKeepsFirst(t *testing.T) {
	first := discountPromo(KindFlatAmount, 50, 0)
	second := discountPromo(KindFlatAmount, 50, 0)

	got, id := SelectDiscount(500, 0, nil, []*Promotion{first, second})
	require.NotNil(t, id)
	assert.Equal(t, float64(50), got)
	assert.Equal(t, first.ID, *id)
}

func TestSelectDiscountReturnsWinningPromotionID(t *testing.T) {
	small := discountPromo(KindFlatAmount, 10, 0)
	big := discountPromo(KindFlatAmount, 90, 0)

	got, id := SelectDiscount(500, 0, nil, []*Promotion{small, big})
	require.NotNil(t, id)
	assert.Equal(t, float64(90), got)
	assert.Equal(t, big.ID, *id)
}

func TestSelectDiscountNoQualifierReturnsNone(t *testing.T) {
	got, id := SelectDiscount(100, 0, nil, []*Promotion{discountPromo(KindFlatAmount, 50, 300)})
	assert.Zero(t, got)
	assert.Nil(t, id)
}
