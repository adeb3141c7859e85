package nozzle

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines the interface for nozzle data storage. SetBusy and
// SetAdminLock are the hardware/status side-effect channel: the coordinator
// is their only caller.
type Repository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*Nozzle, error)
	List(ctx context.Context) ([]*Nozzle, error)
	SetBusy(ctx context.Context, id uuid.UUID, busy bool) error
	SetAdminLock(ctx context.Context, id uuid.UUID, locked bool, reason string) error
}
