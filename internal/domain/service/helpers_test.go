package service

import (
	"fmt"
	"time"

	"fezeaixcommission/internal/domain/entity"
)

const artist = "fezeaix"

var (
	t0    = time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	admin = entity.Identity{Username: artist, Role: entity.RoleAdmin}
	alice = entity.Identity{Username: "alice", Role: entity.RoleUser}
	bob   = entity.Identity{Username: "bob", Role: entity.RoleUser}
)

func at(minutes int) time.Time {
	return t0.Add(time.Duration(minutes) * time.Minute)
}

func request(id, requester string, created time.Time) *entity.CommissionRequest {
	return &entity.CommissionRequest{
		ID:                id,
		RequesterUsername: requester,
		CommissionType:    "Basic Sketch",
		Price:             20,
		Status:            entity.StatusNewRequest,
		Timestamp:         created,
		Messages: []entity.Message{{
			ID:        id + "-sys",
			Sender:    entity.SystemSender,
			Text:      "New Commission Request for Basic Sketch received.",
			Timestamp: created,
		}},
	}
}

// withMessage returns a copy of req with one more message, bumping timestamp.
func withMessage(req *entity.CommissionRequest, sender string, when time.Time) *entity.CommissionRequest {
	out := req.Clone()
	out.Messages = append(out.Messages, entity.Message{
		ID:        fmt.Sprintf("%s-m%d", req.ID, len(req.Messages)),
		Sender:    sender,
		Text:      "hello from " + sender,
		Timestamp: when,
	})
	out.Timestamp = when
	return out
}

func withStatus(req *entity.CommissionRequest, status string, when time.Time) *entity.CommissionRequest {
	out := req.Clone()
	out.Status = status
	out.Timestamp = when
	return out
}

func snapshot(reqs ...*entity.CommissionRequest) []*entity.CommissionRequest {
	return reqs
}
