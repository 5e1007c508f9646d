package usecase

import (
	"context"
	"time"

	"go.uber.org/zap"

	"fezeaixcommission/internal/domain/entity"
	"fezeaixcommission/internal/domain/repository"
	"fezeaixcommission/internal/domain/service"
	"fezeaixcommission/pkg/logger"
)

// NotificationUseCase runs realtime notification sessions: one reconciler per
// connected socket, fed by the commission subscription.
type NotificationUseCase struct {
	commissionRepo   repository.CommissionRepository
	ledger           *LedgerUseCase
	adminUsername    string
	resubscribeDelay time.Duration
}

func NewNotificationUseCase(
	commissionRepo repository.CommissionRepository,
	ledger *LedgerUseCase,
	adminUsername string,
	resubscribeDelay time.Duration,
) *NotificationUseCase {
	return &NotificationUseCase{
		commissionRepo:   commissionRepo,
		ledger:           ledger,
		adminUsername:    adminUsername,
		resubscribeDelay: resubscribeDelay,
	}
}

// RunSession blocks until ctx is done. Snapshots and refresh signals are
// handled one at a time on the calling goroutine. A dropped subscription is
// retried after the resubscribe delay with a fresh baseline.
func (uc *NotificationUseCase) RunSession(ctx context.Context, identity entity.Identity, deviceID string, sink NotificationSink, refresh <-chan struct{}) error {
	log := logger.With("username", identity.Username, "role", identity.Role, "device", deviceID)
	reconciler := service.NewReconciler(identity, uc.adminUsername)

	var latest []*entity.CommissionRequest

	for {
		reconciler.Reset()

		watchCtx, cancelWatch := context.WithCancel(ctx)
		snapshots := make(chan []*entity.CommissionRequest)
		watchErr := make(chan error, 1)

		go func() {
			watchErr <- uc.commissionRepo.Watch(watchCtx, func(snapshot []*entity.CommissionRequest) {
				select {
				case snapshots <- snapshot:
				case <-watchCtx.Done():
				}
			})
		}()

		dropped := false
		for !dropped {
			select {
			case <-ctx.Done():
				cancelWatch()
				return nil

			case snapshot := <-snapshots:
				latest = snapshot
				uc.handleSnapshot(ctx, log, reconciler, identity, deviceID, sink, snapshot)

			case <-refresh:
				if latest != nil {
					uc.pushBadge(ctx, log, identity, deviceID, sink, latest)
				}

			case err := <-watchErr:
				if ctx.Err() != nil {
					cancelWatch()
					return nil
				}
				if err != nil {
					log.Warnf("Commission subscription dropped: %v", err)
				}
				dropped = true
			}
		}
		cancelWatch()

		select {
		case <-ctx.Done():
			return nil
		case <-time.After(uc.resubscribeDelay):
			log.Infof("Resubscribing to commissions")
		}
	}
}

func (uc *NotificationUseCase) handleSnapshot(
	ctx context.Context,
	log *zap.SugaredLogger,
	reconciler *service.Reconciler,
	identity entity.Identity,
	deviceID string,
	sink NotificationSink,
	snapshot []*entity.CommissionRequest,
) {
	transition := reconciler.Process(snapshot)

	// Playback and badge are independent; a refused sound never blocks the badge.
	sound, err := service.Alert(ctx, sink, transition)
	if err != nil {
		log.Debugf("Playback of %s refused: %v", sound, err)
	} else if sound != "" {
		log.Debugf("Played %s for %d events", sound, len(transition.Events))
	}

	uc.pushBadge(ctx, log, identity, deviceID, sink, snapshot)
}

func (uc *NotificationUseCase) pushBadge(
	ctx context.Context,
	log *zap.SugaredLogger,
	identity entity.Identity,
	deviceID string,
	sink NotificationSink,
	snapshot []*entity.CommissionRequest,
) {
	state, err := uc.ledger.ViewedState(ctx, identity, deviceID)
	if err != nil {
		// An unreadable ledger counts everything as unseen until the next refresh.
		log.Debugf("Failed to load viewed state: %v", err)
		state = entity.NewAdminViewedState(deviceID)
	}

	badge := service.BadgeFor(identity, snapshot, state, uc.adminUsername)
	if err := sink.SendBadge(ctx, badge); err != nil {
		log.Debugf("Badge update dropped: %v", err)
	}
}
