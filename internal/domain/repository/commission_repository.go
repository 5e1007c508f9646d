package repository

import (
	"context"

	"fezeaixcommission/internal/domain/entity"
)

// MutateFunc edits a commission inside a read-modify-write transaction.
// Returning an error aborts the write.
type MutateFunc func(req *entity.CommissionRequest) error

// SnapshotFunc receives the full commissions collection after every change.
type SnapshotFunc func(snapshot []*entity.CommissionRequest)

type CommissionRepository interface {
	Create(ctx context.Context, req *entity.CommissionRequest) error
	GetByID(ctx context.Context, id string) (*entity.CommissionRequest, error)
	List(ctx context.Context) ([]*entity.CommissionRequest, error)
	ListByRequester(ctx context.Context, username string) ([]*entity.CommissionRequest, error)
	Mutate(ctx context.Context, id string, fn MutateFunc) (*entity.CommissionRequest, error)
	Delete(ctx context.Context, id string) error

	// Watch delivers ordered full-collection snapshots to fn until ctx is
	// done or the subscription fails. It returns nil only when ctx ends.
	Watch(ctx context.Context, fn SnapshotFunc) error
}
