package ledger

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// SettlementRecord is the final, immutable result of a sale session handed to
// the transaction ledger. SessionID doubles as the idempotency key: a retried
// finalize writes exactly one row.
type SettlementRecord struct {
	ID             uuid.UUID       `json:"id"`
	SessionID      uuid.UUID       `json:"session_id"`
	NozzleID       *uuid.UUID      `json:"nozzle_id,omitempty"`
	ProductID      *uuid.UUID      `json:"product_id,omitempty"`
	Liters         float64         `json:"liters"`
	GrossAmount    float64         `json:"gross_amount"`
	Discount       float64         `json:"discount"`
	PromotionID    *uuid.UUID      `json:"promotion_id,omitempty"`
	NetAmount      float64         `json:"net_amount"`
	PaymentMethod  string          `json:"payment_method"`
	MemberID       *uuid.UUID      `json:"member_id,omitempty"`
	ReceivedAmount float64         `json:"received_amount"`
	ChangeAmount   float64         `json:"change_amount"`
	Items          json.RawMessage `json:"items,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
}

// Recorder is the settlement sink consumed by the sale core. Record must be
// safe to retry: calling it twice with the same SessionID returns the id of
// the single persisted transaction.
type Recorder interface {
	Record(ctx context.Context, rec *SettlementRecord) (uuid.UUID, error)
}
