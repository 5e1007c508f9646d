package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"fezeaixcommission/internal/domain/entity"
	"fezeaixcommission/internal/domain/repository"
	"fezeaixcommission/internal/infrastructure/ratelimit"
	"fezeaixcommission/pkg/errors"
	"fezeaixcommission/pkg/logger"
)

const maxMessageLength = 2000

type CommissionUseCase struct {
	commissionRepo repository.CommissionRepository
	catalog        []entity.CommissionType
	adminUsername  string
	rateLimiter    *ratelimit.RateLimiter
	now            func() time.Time
}

func NewCommissionUseCase(
	commissionRepo repository.CommissionRepository,
	catalog []entity.CommissionType,
	adminUsername string,
	rateLimiter *ratelimit.RateLimiter,
) *CommissionUseCase {
	return &CommissionUseCase{
		commissionRepo: commissionRepo,
		catalog:        catalog,
		adminUsername:  adminUsername,
		rateLimiter:    rateLimiter,
		now:            func() time.Time { return time.Now().UTC() },
	}
}

func (uc *CommissionUseCase) Catalog() []entity.CommissionType {
	return uc.catalog
}

type CreateCommissionInput struct {
	CommissionTypeID string
}

func creationMessage(t entity.CommissionType) string {
	return fmt.Sprintf("New Commission Request for %s received. Price: $%d. The artist will contact you via this chat to confirm details.", t.Title, t.Price)
}

func (uc *CommissionUseCase) Create(ctx context.Context, identity entity.Identity, input CreateCommissionInput) (*entity.CommissionRequest, error) {
	commissionType, ok := entity.FindCommissionType(uc.catalog, input.CommissionTypeID)
	if !ok {
		return nil, errors.BadRequest("Unknown commission type", nil)
	}

	if allowed, wait := uc.rateLimiter.Allow(identity.Username, ratelimit.ActionCreateCommission); !allowed {
		logger.Warn("CreateCommission rate limited: %s must wait %v", identity.Username, wait)
		return nil, errors.TooManyRequests("Too many commission requests. Please try again later")
	}

	now := uc.now()
	req := &entity.CommissionRequest{
		ID:                uuid.New().String(),
		RequesterUsername: identity.Username,
		CommissionType:    commissionType.Title,
		Price:             commissionType.Price,
		Status:            entity.StatusNewRequest,
		Timestamp:         now,
		Messages: []entity.Message{{
			ID:        uuid.New().String(),
			Sender:    entity.SystemSender,
			Text:      creationMessage(commissionType),
			Timestamp: now,
		}},
	}
	// The requester has seen their own request.
	req.AdvanceClientCheckpoint(identity.Username, now)

	if err := uc.commissionRepo.Create(ctx, req); err != nil {
		return nil, err
	}

	logger.Info("Commission %s created by %s (%s)", req.ID, req.RequesterUsername, req.CommissionType)
	return req, nil
}

// List returns every request for the admin and the caller's own requests
// otherwise, newest activity first.
func (uc *CommissionUseCase) List(ctx context.Context, identity entity.Identity) ([]*entity.CommissionRequest, error) {
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
		return nil, err
	}

	sort.SliceStable(requests, func(i, j int) bool {
		return requests[i].Timestamp.After(requests[j].Timestamp)
	})
	return requests, nil
}

type QueueEntry struct {
	Position          int       `json:"position"`
	ID                string    `json:"id"`
	RequesterUsername string    `json:"requester_username,omitempty"`
	CommissionType    string    `json:"commission_type"`
	Status            string    `json:"status"`
	Timestamp         time.Time `json:"timestamp"`
	Mine              bool      `json:"mine"`
}

// Queue lists all requests oldest first. Clients only see requester names on
// their own entries.
func (uc *CommissionUseCase) Queue(ctx context.Context, identity entity.Identity) ([]QueueEntry, error) {
	requests, err := uc.commissionRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	sort.SliceStable(requests, func(i, j int) bool {
		return requests[i].Timestamp.Before(requests[j].Timestamp)
	})

	entries := make([]QueueEntry, 0, len(requests))
	for i, req := range requests {
		mine := req.RequesterUsername == identity.Username
		entry := QueueEntry{
			Position:       i + 1,
			ID:             req.ID,
			CommissionType: req.CommissionType,
			Status:         req.Status,
			Timestamp:      req.Timestamp,
			Mine:           mine,
		}
		if identity.IsAdmin() || mine {
			entry.RequesterUsername = req.RequesterUsername
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func (uc *CommissionUseCase) Get(ctx context.Context, identity entity.Identity, id string) (*entity.CommissionRequest, error) {
	req, err := uc.commissionRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authorize(identity, req); err != nil {
		return nil, err
	}
	return req, nil
}

func (uc *CommissionUseCase) UpdateStatus(ctx context.Context, identity entity.Identity, id, status string) (*entity.CommissionRequest, error) {
	if !identity.IsAdmin() {
		return nil, errors.Forbidden("Only the artist can change the status", nil)
	}
	if !entity.IsAdminStatus(status) {
		return nil, errors.BadRequest("Invalid status", nil)
	}

	now := uc.now()
	return uc.commissionRepo.Mutate(ctx, id, func(req *entity.CommissionRequest) error {
		if req.Status == status {
			return nil
		}
		req.Status = status
		req.Timestamp = later(req.Timestamp, now)
		return nil
	})
}

type SendMessageInput struct {
	RequestID string
	Text      string
}

// SendMessage appends to the thread, promotes a New Request to Pending
// Payment and bumps the activity timestamp. A requester's own message also
// advances their read checkpoint.
func (uc *CommissionUseCase) SendMessage(ctx context.Context, identity entity.Identity, input SendMessageInput) (*entity.CommissionRequest, error) {
	text := strings.TrimSpace(input.Text)
	if text == "" {
		return nil, errors.BadRequest("Message cannot be empty", nil)
	}
	if len([]rune(text)) > maxMessageLength {
		return nil, errors.BadRequest("Message is too long", nil)
	}

	if allowed, wait := uc.rateLimiter.Allow(identity.Username, ratelimit.ActionSendMessage); !allowed {
		logger.Warn("SendMessage rate limited: %s must wait %v", identity.Username, wait)
		return nil, errors.TooManyRequests("You are sending messages too quickly. Please slow down")
	}

	now := uc.now()
	updated, err := uc.commissionRepo.Mutate(ctx, input.RequestID, func(req *entity.CommissionRequest) error {
		if err := authorize(identity, req); err != nil {
			return err
		}

		at := later(req.Timestamp, now)
		req.Messages = append(req.Messages, entity.Message{
			ID:        uuid.New().String(),
			Sender:    identity.Username,
			Text:      text,
			Timestamp: at,
		})
		if req.Status == entity.StatusNewRequest {
			req.Status = entity.StatusPendingPayment
		}
		req.Timestamp = at

		if req.RequesterUsername == identity.Username {
			req.AdvanceClientCheckpoint(identity.Username, at)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return updated, nil
}

func (uc *CommissionUseCase) DeleteMessage(ctx context.Context, identity entity.Identity, requestID, messageID string) (*entity.CommissionRequest, error) {
	if !identity.IsAdmin() {
		return nil, errors.Forbidden("Only the artist can delete messages", nil)
	}

	return uc.commissionRepo.Mutate(ctx, requestID, func(req *entity.CommissionRequest) error {
		kept := make([]entity.Message, 0, len(req.Messages))
		for _, msg := range req.Messages {
			if msg.ID != messageID {
				kept = append(kept, msg)
			}
		}
		if len(kept) == len(req.Messages) {
			return errors.NotFound("Message", nil)
		}
		if len(kept) == 0 {
			return errors.BadRequest("A commission must keep at least one message", nil)
		}
		req.Messages = kept
		return nil
	})
}

func (uc *CommissionUseCase) Delete(ctx context.Context, identity entity.Identity, id string) error {
	if !identity.IsAdmin() {
		return errors.Forbidden("Only the artist can delete commissions", nil)
	}
	if err := uc.commissionRepo.Delete(ctx, id); err != nil {
		return err
	}
	logger.Info("Commission %s deleted by %s", id, identity.Username)
	return nil
}

func authorize(identity entity.Identity, req *entity.CommissionRequest) error {
	if identity.IsAdmin() || req.RequesterUsername == identity.Username {
		return nil
	}
	return errors.Forbidden("You don't have access to this commission", nil)
}

// later keeps activity timestamps strictly increasing even when the clock
// reads the same instant twice.
func later(previous, now time.Time) time.Time {
	if now.After(previous) {
		return now
	}
	return previous.Add(time.Millisecond)
}
