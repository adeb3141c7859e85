package session

import (
	"time"

	"github.com/google/uuid"
)

// WorkflowState is the explicit step a sale session is at. Every transition
// between states is a guarded, testable function on the engine; nothing is
// inferred from which fields happen to be set.
type WorkflowState string

const (
	StateFuel          WorkflowState = "FUEL"
	StateReceived      WorkflowState = "RECEIVED"
	StateMemberCheck   WorkflowState = "MEMBER_CHECK"
	StateMemberInput   WorkflowState = "MEMBER_INPUT"
	StatePaymentMethod WorkflowState = "PAYMENT_METHOD"
	StateSummary       WorkflowState = "SUMMARY"
	StateFinalized     WorkflowState = "FINALIZED"
	StateCancelled     WorkflowState = "CANCELLED"
)

// PaymentMethod is how the customer settles the sale.
type PaymentMethod string

const (
	PaymentCash     PaymentMethod = "CASH"
	PaymentTransfer PaymentMethod = "TRANSFER"
	PaymentCredit   PaymentMethod = "CREDIT"
)

// MaxHeldPerNozzle caps how many parked sessions one nozzle may hold.
const MaxHeldPerNozzle = 5

// CartItem is one shop good in the basket, price snapshotted at add time.
// Duplicates represent quantity.
type CartItem struct {
	ProductID uuid.UUID `json:"product_id"`
	Name      string    `json:"name"`
	Price     float64   `json:"price"`
}

// SaleSession is the per-transaction aggregate. A nozzle-bound session tracks
// a fuel purchase plus optional goods; a general session (nil NozzleID) is a
// goods-only sale. The held-sale directory owns its lifetime: created on
// start, removed only on finalize or cancel, never on navigation away.
type SaleSession struct {
	ID             uuid.UUID     `json:"id"`
	NozzleID       *uuid.UUID    `json:"nozzle_id,omitempty"`
	ProductID      *uuid.UUID    `json:"product_id,omitempty"`
	FuelPrice      float64       `json:"fuel_price,omitempty"` // per liter, snapshotted on start
	FuelAmount     float64       `json:"fuel_amount"`
	Cart           []CartItem    `json:"cart"`
	ReceivedAmount float64       `json:"received_amount"`
	MemberID       *uuid.UUID    `json:"member_id,omitempty"`
	PaymentMethod  PaymentMethod `json:"payment_method,omitempty"` // empty until chosen
	State          WorkflowState `json:"state"`
	CreatedAt      time.Time     `json:"created_at"`
	UpdatedAt      time.Time     `json:"updated_at"`
}

// IsFuelSale reports whether the session is bound to a nozzle.
func (s *SaleSession) IsFuelSale() bool { return s.NozzleID != nil }

// Totals holds the derived monetary values of a session. They are recomputed
// on demand from the session's inputs and the active promotion set; the
// directory never stores them.
type Totals struct {
	Liters      float64    `json:"liters"`
	GoodsTotal  float64    `json:"goods_total"`
	GrossTotal  float64    `json:"gross_total"`
	Discount    float64    `json:"discount"`
	PromotionID *uuid.UUID `json:"promotion_id,omitempty"`
	NetTotal    float64    `json:"net_total"`
	Change      float64    `json:"change"`
}

// SessionResponse pairs a session with its derived totals.
type SessionResponse struct {
	Session *SaleSession `json:"session"`
	Totals  Totals       `json:"totals"`
}

// FinalizeResponse reports a settled sale.
type FinalizeResponse struct {
	TransactionID uuid.UUID    `json:"transaction_id"`
	Session       *SaleSession `json:"session"`
	Totals        Totals       `json:"totals"`
}

// ── request payloads ──────────────────────────────────────────────────────────

// StartRequest opens a new sale. An empty NozzleID starts a general
// (goods-only) sale at the summary step.
type StartRequest struct {
	NozzleID string `json:"nozzle_id,omitempty"`
}

// FuelRequest records the dispensed fuel amount in currency.
type FuelRequest struct {
	Amount float64 `json:"amount"`
}

// ReceivedRequest records the cash tendered by the customer.
type ReceivedRequest struct {
	Amount float64 `json:"amount"`
}

// MemberDeclareRequest answers the "is this customer a member?" question.
type MemberDeclareRequest struct {
	IsMember bool `json:"is_member"`
}

// MemberLookupRequest searches the loyalty directory.
type MemberLookupRequest struct {
	Query string `json:"query"`
}

// PaymentRequest chooses the settlement method.
type PaymentRequest struct {
	Method string `json:"method"`
}

// AddItemRequest puts one unit of a shop good into the basket.
type AddItemRequest struct {
	ProductID string `json:"product_id"`
}

// EditRequest jumps from summary back to an earlier step to correct an input.
type EditRequest struct {
	Target string `json:"target"` // FUEL, RECEIVED or MEMBER_CHECK
}
