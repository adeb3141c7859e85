package nozzle

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// ErrNotFound is returned when a nozzle id is unknown.
var ErrNotFound = errors.New("nozzle not found")

// ErrUnavailable is returned when a nozzle is administratively locked and a
// new session is requested on it.
var ErrUnavailable = errors.New("nozzle is locked for maintenance")

// HeldCounter reports how many parked sale sessions a nozzle currently holds.
// Implemented by the held-sale directory; kept as an interface here so the
// coordinator never depends on the session package.
type HeldCounter interface {
	CountByNozzle(ctx context.Context, nozzleID uuid.UUID) (int, error)
}

// Coordinator arbitrates nozzle locking. A nozzle carries two independent
// lock sources:
//
//   - the session lock ("busy"): set when the first sale starts at the pump,
//     cleared when the last parked session for the pump is gone. Purely
//     informational; queued customers may open further sessions on a busy
//     nozzle up to the directory's capacity.
//   - the administrative lock: set by a manager with a mandatory reason, and
//     the only thing that rejects AcquireForNewSession.
//
// One mutex per nozzle id guards the acquire/release critical sections, so
// cashiers on different pumps never contend.
type Coordinator struct {
	repo Repository
	held HeldCounter

	mu    sync.Mutex
	locks map[uuid.UUID]*sync.Mutex
}

// NewCoordinator creates a nozzle lock coordinator.
func NewCoordinator(repo Repository, held HeldCounter) *Coordinator {
	return &Coordinator{
		repo:  repo,
		held:  held,
		locks: make(map[uuid.UUID]*sync.Mutex),
	}
}

func (c *Coordinator) lockFor(id uuid.UUID) *sync.Mutex {
	c.mu.Lock()
	defer c.mu.Unlock()
	m, ok := c.locks[id]
	if !ok {
		m = &sync.Mutex{}
		c.locks[id] = m
	}
	return m
}

// AcquireForNewSession checks that the nozzle may host another sale and marks
// it busy. Returns the nozzle so the caller can read its product binding.
func (c *Coordinator) AcquireForNewSession(ctx context.Context, id uuid.UUID) (*Nozzle, error) {
	m := c.lockFor(id)
	m.Lock()
	defer m.Unlock()

	n, err := c.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if n.AdminLocked {
		return nil, fmt.Errorf("%w: %s", ErrUnavailable, n.LockReason)
	}
	if !n.Busy {
		if err := c.repo.SetBusy(ctx, id, true); err != nil {
			return nil, err
		}
		n.Busy = true
	}
	return n, nil
}

// Release clears the session lock once the last parked session for the nozzle
// is gone. Idempotent; a no-op while sessions remain.
func (c *Coordinator) Release(ctx context.Context, id uuid.UUID) error {
	m := c.lockFor(id)
	m.Lock()
	defer m.Unlock()

	remaining, err := c.held.CountByNozzle(ctx, id)
	if err != nil {
		return err
	}
	if remaining > 0 {
		return nil
	}
	return c.repo.SetBusy(ctx, id, false)
}

// AdminLock places a maintenance lock on the nozzle. The reason is mandatory.
// Existing parked sessions are unaffected and may still be settled.
func (c *Coordinator) AdminLock(ctx context.Context, id uuid.UUID, reason string) (*Nozzle, error) {
	if reason == "" {
		return nil, fmt.Errorf("lock reason is required")
	}
	m := c.lockFor(id)
	m.Lock()
	defer m.Unlock()

	if err := c.repo.SetAdminLock(ctx, id, true, reason); err != nil {
		return nil, err
	}
	return c.repo.GetByID(ctx, id)
}

// AdminUnlock removes the maintenance lock and clears its reason.
func (c *Coordinator) AdminUnlock(ctx context.Context, id uuid.UUID) (*Nozzle, error) {
	m := c.lockFor(id)
	m.Lock()
	defer m.Unlock()

	if err := c.repo.SetAdminLock(ctx, id, false, ""); err != nil {
		return nil, err
	}
	return c.repo.GetByID(ctx, id)
}
