package usecase

import (
	"context"
	"time"

	"fezeaixcommission/internal/domain/entity"
	"fezeaixcommission/internal/domain/repository"
	"fezeaixcommission/internal/domain/service"
	"fezeaixcommission/pkg/errors"
)

// LedgerUseCase records what a user has already seen. The admin ledger lives
// per device in the viewed state store; a client's checkpoint lives in the
// commission document itself.
type LedgerUseCase struct {
	commissionRepo repository.CommissionRepository
	viewedRepo     repository.ViewedStateRepository
	adminUsername  string
	refresher      BadgeRefresher
}

func NewLedgerUseCase(
	commissionRepo repository.CommissionRepository,
	viewedRepo repository.ViewedStateRepository,
	adminUsername string,
	refresher BadgeRefresher,
) *LedgerUseCase {
	return &LedgerUseCase{
		commissionRepo: commissionRepo,
		viewedRepo:     viewedRepo,
		adminUsername:  adminUsername,
		refresher:      refresher,
	}
}

func requireAdminDevice(identity entity.Identity, deviceID string) error {
	if !identity.IsAdmin() {
		return errors.Forbidden("Only the artist has a device ledger", nil)
	}
	if deviceID == "" {
		return errors.BadRequest("Device ID is required", nil)
	}
	return nil
}

func (uc *LedgerUseCase) MarkRequestsViewed(ctx context.Context, identity entity.Identity, deviceID string, ids []string) error {
	if err := requireAdminDevice(identity, deviceID); err != nil {
		return err
	}
	if err := uc.viewedRepo.AddViewedRequests(ctx, deviceID, ids); err != nil {
		return err
	}
	uc.refresh(identity)
	return nil
}

func (uc *LedgerUseCase) MarkThreadRead(ctx context.Context, identity entity.Identity, deviceID, requestID string, at time.Time) error {
	if err := requireAdminDevice(identity, deviceID); err != nil {
		return err
	}
	if err := uc.viewedRepo.MergeThreadCheckpoints(ctx, deviceID, map[string]time.Time{requestID: at}); err != nil {
		return err
	}
	uc.refresh(identity)
	return nil
}

// MarkRead is what opening a thread does. The admin acknowledges the request
// and reads the thread up to its latest message; a client advances their own
// checkpoint to the request's latest activity. A zero at means "everything
// currently there".
func (uc *LedgerUseCase) MarkRead(ctx context.Context, identity entity.Identity, deviceID, requestID string, at time.Time) error {
	req, err := uc.commissionRepo.GetByID(ctx, requestID)
	if err != nil {
		return err
	}

	if !identity.IsAdmin() {
		if at.IsZero() {
			at = req.Timestamp
		}
		return uc.SetClientViewed(ctx, identity, requestID, at)
	}

	if err := requireAdminDevice(identity, deviceID); err != nil {
		return err
	}
	if at.IsZero() {
		if last := req.LastMessage(); last != nil {
			at = last.Timestamp
		}
	}

	if err := uc.viewedRepo.AddViewedRequests(ctx, deviceID, []string{requestID}); err != nil {
		return err
	}
	if !at.IsZero() {
		if err := uc.viewedRepo.MergeThreadCheckpoints(ctx, deviceID, map[string]time.Time{requestID: at}); err != nil {
			return err
		}
	}
	uc.refresh(identity)
	return nil
}

// ClearAllAdmin acknowledges every current New Request and reads every thread
// up to its latest message. Running it twice changes nothing the second time.
func (uc *LedgerUseCase) ClearAllAdmin(ctx context.Context, identity entity.Identity, deviceID string) error {
	if err := requireAdminDevice(identity, deviceID); err != nil {
		return err
	}

	requests, err := uc.commissionRepo.List(ctx)
	if err != nil {
		return err
	}

	newRequestIDs := make([]string, 0)
	checkpoints := make(map[string]time.Time, len(requests))
	for _, req := range requests {
		if !req.IsWellFormed() {
			continue
		}
		if req.Status == entity.StatusNewRequest {
			newRequestIDs = append(newRequestIDs, req.ID)
		}
		if last := req.LastMessage(); last != nil && !last.Timestamp.IsZero() {
			checkpoints[req.ID] = last.Timestamp
		}
	}

	if err := uc.viewedRepo.ReplaceViewedRequests(ctx, deviceID, newRequestIDs); err != nil {
		return err
	}
	if err := uc.viewedRepo.MergeThreadCheckpoints(ctx, deviceID, checkpoints); err != nil {
		return err
	}
	uc.refresh(identity)
	return nil
}

// SetClientViewed max-merges the caller's checkpoint on one of their requests.
func (uc *LedgerUseCase) SetClientViewed(ctx context.Context, identity entity.Identity, requestID string, at time.Time) error {
	if at.IsZero() {
		return errors.BadRequest("Viewed time is required", nil)
	}

	_, err := uc.commissionRepo.Mutate(ctx, requestID, func(req *entity.CommissionRequest) error {
		if req.RequesterUsername != identity.Username {
			return errors.Forbidden("You don't have access to this commission", nil)
		}
		req.AdvanceClientCheckpoint(identity.Username, at)
		return nil
	})
	if err != nil {
		return err
	}
	uc.refresh(identity)
	return nil
}

// ClearAllClient advances the caller's checkpoint on every owned request to
// that request's latest activity.
func (uc *LedgerUseCase) ClearAllClient(ctx context.Context, identity entity.Identity) error {
	requests, err := uc.commissionRepo.ListByRequester(ctx, identity.Username)
	if err != nil {
		return err
	}

	for _, req := range requests {
		if !req.IsWellFormed() || !req.Timestamp.After(req.ClientCheckpoint(identity.Username)) {
			continue
		}
		_, err := uc.commissionRepo.Mutate(ctx, req.ID, func(current *entity.CommissionRequest) error {
			current.AdvanceClientCheckpoint(identity.Username, current.Timestamp)
			return nil
		})
		if err != nil && !errors.Is(err, "NOT_FOUND") {
			return err
		}
	}

	uc.refresh(identity)
	return nil
}

// ClearAll dispatches on role.
func (uc *LedgerUseCase) ClearAll(ctx context.Context, identity entity.Identity, deviceID string) error {
	if identity.IsAdmin() {
		return uc.ClearAllAdmin(ctx, identity, deviceID)
	}
	return uc.ClearAllClient(ctx, identity)
}

// Badge computes the current unread state for identity on deviceID.
func (uc *LedgerUseCase) Badge(ctx context.Context, identity entity.Identity, deviceID string) (service.Badge, error) {
	var (
		requests []*entity.CommissionRequest
		err      error
	)
	if identity.IsAdmin() {
		requests, err = uc.commissionRepo.List(ctx)
	} else {
		requests, err = uc.commissionRepo.ListByRequester(ctx, identity.Username)
	}
	if err != nil {
		return service.Badge{}, err
	}

	state, err := uc.ViewedState(ctx, identity, deviceID)
	if err != nil {
		return service.Badge{}, err
	}
	return service.BadgeFor(identity, requests, state, uc.adminUsername), nil
}

// ViewedState loads the admin device ledger. Clients have none and get nil.
func (uc *LedgerUseCase) ViewedState(ctx context.Context, identity entity.Identity, deviceID string) (*entity.AdminViewedState, error) {
	if !identity.IsAdmin() {
		return nil, nil
	}
	if deviceID == "" {
		return entity.NewAdminViewedState(""), nil
	}
	return uc.viewedRepo.Get(ctx, deviceID)
}

func (uc *LedgerUseCase) refresh(identity entity.Identity) {
	if uc.refresher != nil {
		uc.refresher.RefreshBadge(identity.Username)
	}
}
