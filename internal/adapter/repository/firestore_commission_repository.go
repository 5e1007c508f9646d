package repository

import (
	"context"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"fezeaixcommission/internal/domain/entity"
	"fezeaixcommission/internal/domain/repository"
	"fezeaixcommission/pkg/errors"
	"fezeaixcommission/pkg/logger"
)

const commissionsCollection = "commissions"

type firestoreCommissionRepository struct {
	client *firestore.Client
}

func NewFirestoreCommissionRepository(client *firestore.Client) repository.CommissionRepository {
	return &firestoreCommissionRepository{
		client: client,
	}
}

func (r *firestoreCommissionRepository) collection() *firestore.CollectionRef {
	return r.client.Collection(commissionsCollection)
}

func (r *firestoreCommissionRepository) Create(ctx context.Context, req *entity.CommissionRequest) error {
	if req.ID == "" {
		req.ID = uuid.New().String()
	}

	_, err := r.collection().Doc(req.ID).Create(ctx, req)
	if err != nil {
		if status.Code(err) == codes.AlreadyExists {
			return errors.Conflict("Commission request already exists")
		}
		return errors.Internal("Failed to create commission request", err)
	}

	return nil
}

func (r *firestoreCommissionRepository) GetByID(ctx context.Context, id string) (*entity.CommissionRequest, error) {
	doc, err := r.collection().Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errors.NotFound("Commission request", err)
		}
		return nil, errors.Internal("Failed to get commission request", err)
	}

	req, err := decodeCommission(doc)
	if err != nil {
		return nil, errors.Internal("Failed to parse commission request", err)
	}
	return req, nil
}

func (r *firestoreCommissionRepository) List(ctx context.Context) ([]*entity.CommissionRequest, error) {
	return r.query(ctx, r.collection().Query)
}

func (r *firestoreCommissionRepository) ListByRequester(ctx context.Context, username string) ([]*entity.CommissionRequest, error) {
	return r.query(ctx, r.collection().Where("requesterUsername", "==", username))
}

func (r *firestoreCommissionRepository) query(ctx context.Context, q firestore.Query) ([]*entity.CommissionRequest, error) {
	iter := q.Documents(ctx)
	defer iter.Stop()

	var requests []*entity.CommissionRequest
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, errors.Internal("Failed to iterate commission requests", err)
		}

		req, err := decodeCommission(doc)
		if err != nil {
			logger.Warn("Skipping malformed commission %s: %v", doc.Ref.ID, err)
			continue
		}
		requests = append(requests, req)
	}

	return requests, nil
}

func (r *firestoreCommissionRepository) Mutate(ctx context.Context, id string, fn repository.MutateFunc) (*entity.CommissionRequest, error) {
	ref := r.collection().Doc(id)

	var updated *entity.CommissionRequest
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		doc, err := tx.Get(ref)
		if err != nil {
			if status.Code(err) == codes.NotFound {
				return errors.NotFound("Commission request", err)
			}
			return errors.Internal("Failed to get commission request", err)
		}

		req, err := decodeCommission(doc)
		if err != nil {
			return errors.Internal("Failed to parse commission request", err)
		}

		if err := fn(req); err != nil {
			return err
		}

		updated = req
		return tx.Set(ref, req)
	})
	if err != nil {
		if _, ok := err.(*errors.AppError); ok {
			return nil, err
		}
		return nil, errors.Internal("Failed to update commission request", err)
	}

	return updated, nil
}

func (r *firestoreCommissionRepository) Delete(ctx context.Context, id string) error {
	_, err := r.collection().Doc(id).Delete(ctx, firestore.Exists)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return errors.NotFound("Commission request", err)
		}
		return errors.Internal("Failed to delete commission request", err)
	}
	return nil
}

// Watch listens on the whole collection. Firestore sends the current state
// first, then one snapshot per committed change.
func (r *firestoreCommissionRepository) Watch(ctx context.Context, fn repository.SnapshotFunc) error {
	iter := r.collection().Snapshots(ctx)
	defer iter.Stop()

	for {
		snap, err := iter.Next()
		if err != nil {
			if ctx.Err() != nil || status.Code(err) == codes.Canceled {
				return nil
			}
			return errors.Unavailable("Commission subscription dropped", err)
		}

		docs, err := snap.Documents.GetAll()
		if err != nil {
			return errors.Unavailable("Failed to read commission snapshot", err)
		}

		requests := make([]*entity.CommissionRequest, 0, len(docs))
		for _, doc := range docs {
			req, err := decodeCommission(doc)
			if err != nil {
				logger.Warn("Skipping malformed commission %s in snapshot: %v", doc.Ref.ID, err)
				continue
			}
			requests = append(requests, req)
		}

		fn(requests)
	}
}

func decodeCommission(doc *firestore.DocumentSnapshot) (*entity.CommissionRequest, error) {
	var req entity.CommissionRequest
	if err := doc.DataTo(&req); err != nil {
		return nil, err
	}
	req.ID = doc.Ref.ID
	return &req, nil
}
