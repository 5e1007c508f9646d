package usecase

import (
	"context"
	"time"

	"fezeaixcommission/internal/domain/entity"
	"fezeaixcommission/internal/domain/service"
)

type TokenIssuer interface {
	GenerateToken(user *entity.User) (string, time.Time, error)
}

// BadgeRefresher tells open notification sessions of a user that the read
// ledger changed and the badge must be recomputed.
type BadgeRefresher interface {
	RefreshBadge(username string)
}

// NotificationSink is the realtime channel of one notification session.
type NotificationSink interface {
	service.Player
	SendBadge(ctx context.Context, badge service.Badge) error
}
