package repository

import (
	"context"
	"time"

	"fezeaixcommission/internal/domain/entity"
)

// ViewedStateRepository persists the admin ledger for a single device.
// Every write is a merge: set union for request ids, max for thread
// checkpoints, so concurrent writers may interleave freely.
type ViewedStateRepository interface {
	Get(ctx context.Context, deviceID string) (*entity.AdminViewedState, error)
	AddViewedRequests(ctx context.Context, deviceID string, ids []string) error
	MergeThreadCheckpoints(ctx context.Context, deviceID string, checkpoints map[string]time.Time) error
	ReplaceViewedRequests(ctx context.Context, deviceID string, ids []string) error
}
