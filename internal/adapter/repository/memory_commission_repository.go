package repository

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"fezeaixcommission/internal/domain/entity"
	"fezeaixcommission/internal/domain/repository"
	"fezeaixcommission/pkg/errors"
)

// memoryCommissionRepository keeps commissions in process. Watchers get the
// latest full snapshot; intermediate snapshots may be coalesced when a
// watcher falls behind, the same way a realtime listener does.
type memoryCommissionRepository struct {
	mu          sync.RWMutex
	requests    map[string]*entity.CommissionRequest
	order       []string
	subscribers map[int]chan []*entity.CommissionRequest
	nextSubID   int
}

func NewMemoryCommissionRepository() repository.CommissionRepository {
	return &memoryCommissionRepository{
		requests:    make(map[string]*entity.CommissionRequest),
		subscribers: make(map[int]chan []*entity.CommissionRequest),
	}
}

func (r *memoryCommissionRepository) Create(ctx context.Context, req *entity.CommissionRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if req.ID == "" {
		req.ID = uuid.New().String()
	}
	if _, exists := r.requests[req.ID]; exists {
		return errors.Conflict("Commission request already exists")
	}

	r.requests[req.ID] = req.Clone()
	r.order = append(r.order, req.ID)
	r.publishLocked()
	return nil
}

func (r *memoryCommissionRepository) GetByID(ctx context.Context, id string) (*entity.CommissionRequest, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	req, ok := r.requests[id]
	if !ok {
		return nil, errors.NotFound("Commission request", nil)
	}
	return req.Clone(), nil
}

func (r *memoryCommissionRepository) List(ctx context.Context) ([]*entity.CommissionRequest, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.snapshotLocked(), nil
}

func (r *memoryCommissionRepository) ListByRequester(ctx context.Context, username string) ([]*entity.CommissionRequest, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*entity.CommissionRequest
	for _, id := range r.order {
		if req := r.requests[id]; req.RequesterUsername == username {
			out = append(out, req.Clone())
		}
	}
	return out, nil
}

func (r *memoryCommissionRepository) Mutate(ctx context.Context, id string, fn repository.MutateFunc) (*entity.CommissionRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.requests[id]
	if !ok {
		return nil, errors.NotFound("Commission request", nil)
	}

	working := current.Clone()
	if err := fn(working); err != nil {
		return nil, err
	}

	r.requests[id] = working
	r.publishLocked()
	return working.Clone(), nil
}

func (r *memoryCommissionRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.requests[id]; !ok {
		return errors.NotFound("Commission request", nil)
	}
	delete(r.requests, id)
	for i, existing := range r.order {
		if existing == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	r.publishLocked()
	return nil
}

func (r *memoryCommissionRepository) Watch(ctx context.Context, fn repository.SnapshotFunc) error {
	ch := make(chan []*entity.CommissionRequest, 1)

	r.mu.Lock()
	subID := r.nextSubID
	r.nextSubID++
	r.subscribers[subID] = ch
	ch <- r.snapshotLocked()
	r.mu.Unlock()

	defer func() {
		r.mu.Lock()
		delete(r.subscribers, subID)
		r.mu.Unlock()
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case snapshot := <-ch:
			fn(snapshot)
		}
	}
}

func (r *memoryCommissionRepository) snapshotLocked() []*entity.CommissionRequest {
	out := make([]*entity.CommissionRequest, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.requests[id].Clone())
	}
	return out
}

// publishLocked replaces any undelivered snapshot with the newest one.
func (r *memoryCommissionRepository) publishLocked() {
	if len(r.subscribers) == 0 {
		return
	}
	for _, ch := range r.subscribers {
		select {
		case <-ch:
		default:
		}
		ch <- r.snapshotLocked()
	}
}
