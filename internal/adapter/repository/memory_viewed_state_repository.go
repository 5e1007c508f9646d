package repository

import (
	"context"
	"sync"
	"time"

	"fezeaixcommission/internal/domain/entity"
	"fezeaixcommission/internal/domain/repository"
)

type memoryViewedStateRepository struct {
	mu     sync.Mutex
	states map[string]*entity.AdminViewedState
}

func NewMemoryViewedStateRepository() repository.ViewedStateRepository {
	return &memoryViewedStateRepository{
		states: make(map[string]*entity.AdminViewedState),
	}
}

func (r *memoryViewedStateRepository) Get(ctx context.Context, deviceID string) (*entity.AdminViewedState, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := entity.NewAdminViewedState(deviceID)
	if state, ok := r.states[deviceID]; ok {
		for id := range state.ViewedRequestIDs {
			out.ViewedRequestIDs[id] = true
		}
		for id, at := range state.LastViewedMessageTimestamp {
			out.LastViewedMessageTimestamp[id] = at
		}
	}
	return out, nil
}

func (r *memoryViewedStateRepository) AddViewedRequests(ctx context.Context, deviceID string, ids []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	state := r.stateLocked(deviceID)
	for _, id := range ids {
		state.ViewedRequestIDs[id] = true
	}
	return nil
}

func (r *memoryViewedStateRepository) MergeThreadCheckpoints(ctx context.Context, deviceID string, checkpoints map[string]time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	state := r.stateLocked(deviceID)
	for id, at := range checkpoints {
		if at.After(state.LastViewedMessageTimestamp[id]) {
			state.LastViewedMessageTimestamp[id] = at
		}
	}
	return nil
}

func (r *memoryViewedStateRepository) ReplaceViewedRequests(ctx context.Context, deviceID string, ids []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	state := r.stateLocked(deviceID)
	state.ViewedRequestIDs = make(map[string]bool, len(ids))
	for _, id := range ids {
		state.ViewedRequestIDs[id] = true
	}
	return nil
}

func (r *memoryViewedStateRepository) stateLocked(deviceID string) *entity.AdminViewedState {
	state, ok := r.states[deviceID]
	if !ok {
		state = entity.NewAdminViewedState(deviceID)
		r.states[deviceID] = state
	}
	return state
}
