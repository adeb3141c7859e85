package nozzle

import (
	"time"

	"github.com/google/uuid"
)

// Availability is the state surfaced to cashier screens.
type Availability string

const (
	AvailabilityIdle   Availability = "IDLE"
	AvailabilityLocked Availability = "LOCKED"
)

// Nozzle is a physical dispensing point, bound to one dispenser and one fuel
// product. Identity and bindings are managed by admin CRUD; the sale core
// only mutates the two lock flags.
type Nozzle struct {
	ID          uuid.UUID `json:"id"`
	DispenserID uuid.UUID `json:"dispenser_id"`
	Number      int       `json:"number"`
	ProductID   uuid.UUID `json:"product_id"`
	// Busy is the session lock: a sale is in progress at this pump. It is
	// informational and never blocks new sessions.
	Busy bool `json:"busy"`
	// AdminLocked is the maintenance lock. It blocks new session starts and
	// always carries a reason.
	AdminLocked bool      `json:"admin_locked"`
	LockReason  string    `json:"lock_reason,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Availability reports the nozzle state as shown on the forecourt screen.
func (n *Nozzle) Availability() Availability {
	if n.Busy || n.AdminLocked {
		return AvailabilityLocked
	}
	return AvailabilityIdle
}

// LockRequest is the payload for administratively locking a nozzle.
type LockRequest struct {
	Reason string `json:"reason"`
}
