package session

import (
	"context"

	"github.com/google/uuid"
)

// Repository is the held-sale directory: the durable, authoritative record of
// every in-progress sale. Each write hits storage synchronously before being
// reflected to readers, so a cashier can resume parked work after a crash or
// reload.
type Repository interface {
	// Create parks a new session. Fails with ErrCapacityExceeded when the
	// nozzle already holds MaxHeldPerNozzle sessions; the capacity check and
	// insert are atomic with respect to concurrent creates on the same nozzle.
	Create(ctx context.Context, s *SaleSession) error
	Get(ctx context.Context, id uuid.UUID) (*SaleSession, error)
	// ListByNozzle returns parked sessions oldest first, the order a cashier
	// is shown when picking which customer to resume.
	ListByNozzle(ctx context.Context, nozzleID uuid.UUID) ([]*SaleSession, error)
	// Update replaces the whole record. Callers supply the complete desired
	// state, not a delta, so interleaved workflow steps cannot lose writes.
	Update(ctx context.Context, s *SaleSession) error
	Remove(ctx context.Context, id uuid.UUID) error
	CountByNozzle(ctx context.Context, nozzleID uuid.UUID) (int, error)
}
