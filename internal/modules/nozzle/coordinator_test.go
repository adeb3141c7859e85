package nozzle

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memRepo struct {
	mu      sync.Mutex
	nozzles map[uuid.UUID]*Nozzle
}

func newMemRepo(nozzles ...*Nozzle) *memRepo {
	r := &memRepo{nozzles: make(map[uuid.UUID]*Nozzle)}
	for _, n := range nozzles {
		r.nozzles[n.ID] = n
	}
	return r
}

func (r *memRepo) GetByID(_ context.Context, id uuid.UUID) (*Nozzle, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n, ok := r.nozzles[id]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *n
	return &copied, nil
}

func (r *memRepo) List(_ context.Context) ([]*Nozzle, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*Nozzle
	for _, n := range r.nozzles {
		copied := *n
		out = append(out, &copied)
	}
	return out, nil
}

func (r *memRepo) SetBusy(_ context.Context, id uuid.UUID, busy bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	n, ok := r.nozzles[id]
	if !ok {
		return ErrNotFound
	}
	n.Busy = busy
	return nil
}

func (r *memRepo) SetAdminLock(_ context.Context, id uuid.UUID, locked bool, reason string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	n, ok := r.nozzles[id]
	if !ok {
		return ErrNotFound
	}
	n.AdminLocked = locked
	n.LockReason = reason
	return nil
}

type stubCounter struct {
	mu     sync.Mutex
	counts map[uuid.UUID]int
}

func (c *stubCounter) CountByNozzle(_ context.Context, id uuid.UUID) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.counts[id], nil
}

func (c *stubCounter) set(id uuid.UUID, n int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.counts == nil {
		c.counts = make(map[uuid.UUID]int)
	}
	c.counts[id] = n
}

func testNozzle() *Nozzle {
	return &Nozzle{ID: uuid.New(), DispenserID: uuid.New(), Number: 1, ProductID: uuid.New()}
}

func TestAcquireMarksNozzleBusy(t *testing.T) {
	n := testNozzle()
	repo := newMemRepo(n)
	c := NewCoordinator(repo, &stubCounter{})

	got, err := c.AcquireForNewSession(context.Background(), n.ID)
	require.NoError(t, err)
	assert.True(t, got.Busy)

	stored, _ := repo.GetByID(context.Background(), n.ID)
	assert.True(t, stored.Busy)
	assert.Equal(t, AvailabilityLocked, stored.Availability())
}

func TestAcquireAllowsBusyNozzle(t *testing.T) {
	// A busy pump can host further queued customers; only the directory's
	// capacity cap limits them.
	n := testNozzle()
	n.Busy = true
	c := NewCoordinator(newMemRepo(n), &stubCounter{})

	_, err := c.AcquireForNewSession(context.Background(), n.ID)
	assert.NoError(t, err)
}

func TestAcquireRejectsAdminLockedNozzle(t *testing.T) {
	n := testNozzle()
	n.AdminLocked = true
	n.LockReason = "maintenance"
	c := NewCoordinator(newMemRepo(n), &stubCounter{})

	_, err := c.AcquireForNewSession(context.Background(), n.ID)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.Contains(t, err.Error(), "maintenance")
}

func TestAcquireUnknownNozzle(t *testing.T) {
	c := NewCoordinator(newMemRepo(), &stubCounter{})
	_, err := c.AcquireForNewSession(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestReleaseKeepsBusyWhileSessionsRemain(t *testing.T) {
	n := testNozzle()
	n.Busy = true
	repo := newMemRepo(n)
	counter := &stubCounter{}
	counter.set(n.ID, 2)
	c := NewCoordinator(repo, counter)

	require.NoError(t, c.Release(context.Background(), n.ID))
	stored, _ := repo.GetByID(context.Background(), n.ID)
	assert.True(t, stored.Busy, "busy must persist while parked sessions remain")
}

func TestReleaseClearsBusyOnLastSession(t *testing.T) {
	n := testNozzle()
	n.Busy = true
	repo := newMemRepo(n)
	counter := &stubCounter{}
	counter.set(n.ID, 0)
	c := NewCoordinator(repo, counter)

	require.NoError(t, c.Release(context.Background(), n.ID))
	stored, _ := repo.GetByID(context.Background(), n.ID)
	assert.False(t, stored.Busy)

	// Idempotent: a second release is a no-op, not an error.
	require.NoError(t, c.Release(context.Background(), n.ID))
}

func TestAdminLockRequiresReason(t *testing.T) {
	n := testNozzle()
	c := NewCoordinator(newMemRepo(n), &stubCounter{})

	_, err := c.AdminLock(context.Background(), n.ID, "")
	assert.Error(t, err)

	locked, err := c.AdminLock(context.Background(), n.ID, "maintenance")
	require.NoError(t, err)
	assert.True(t, locked.AdminLocked)
	assert.Equal(t, "maintenance", locked.LockReason)
}

func TestAdminUnlockClearsReason(t *testing.T) {
	n := testNozzle()
	n.AdminLocked = true
	n.LockReason = "pump calibration"
	c := NewCoordinator(newMemRepo(n), &stubCounter{})

	unlocked, err := c.AdminUnlock(context.Background(), n.ID)
	require.NoError(t, err)
	assert.False(t, unlocked.AdminLocked)
	assert.Empty(t, unlocked.LockReason)
}

func TestNozzlesAreIndependent(t *testing.T) {
	a, b := testNozzle(), testNozzle()
	a.AdminLocked = true
	a.LockReason = "maintenance"
	c := NewCoordinator(newMemRepo(a, b), &stubCounter{})

	_, err := c.AcquireForNewSession(context.Background(), a.ID)
	assert.ErrorIs(t, err, ErrUnavailable)

	got, err := c.AcquireForNewSession(context.Background(), b.ID)
	require.NoError(t, err)
	assert.True(t, got.Busy)
}

func TestConcurrentAcquireSingleBusyFlag(t *testing.T) {
	n := testNozzle()
	repo := newMemRepo(n)
	c := NewCoordinator(repo, &stubCounter{})

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := c.AcquireForNewSession(context.Background(), n.ID)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	stored, _ := repo.GetByID(context.Background(), n.ID)
	assert.True(t, stored.Busy)
}
