package service

import (
	"strings"
	"time"

	"fezeaixcommission/internal/domain/entity"
)

// Relevance decides which commission events concern the observing user.
// There is one implementation per role so the rules stay testable on their own.
type Relevance interface {
	NewRequest(req *entity.CommissionRequest) bool
	NewMessage(req *entity.CommissionRequest, newest *entity.Message) bool
	StatusChange(req *entity.CommissionRequest) bool
}

// RelevanceFor picks the strategy matching the identity's role.
func RelevanceFor(identity entity.Identity, adminUsername string) Relevance {
	if identity.IsAdmin() {
		return adminRelevance{username: identity.Username}
	}
	return clientRelevance{username: identity.Username, adminUsername: adminUsername}
}

type adminRelevance struct {
	username string
}

func (a adminRelevance) NewRequest(*entity.CommissionRequest) bool {
	return true
}

// NewMessage is relevant when a client wrote it.
func (a adminRelevance) NewMessage(_ *entity.CommissionRequest, newest *entity.Message) bool {
	if newest == nil {
		return false
	}
	return !isSystem(newest.Sender) && !sameUser(newest.Sender, a.username)
}

func (a adminRelevance) StatusChange(*entity.CommissionRequest) bool {
	return false
}

type clientRelevance struct {
	username      string
	adminUsername string
}

func (c clientRelevance) NewRequest(*entity.CommissionRequest) bool {
	return false
}

// NewMessage is relevant when the artist wrote in one of the client's own requests.
func (c clientRelevance) NewMessage(req *entity.CommissionRequest, newest *entity.Message) bool {
	if newest == nil || req.RequesterUsername != c.username {
		return false
	}
	return sameUser(newest.Sender, c.adminUsername)
}

// StatusChange is relevant on the client's own request when the activity is
// newer than what the client has already seen.
func (c clientRelevance) StatusChange(req *entity.CommissionRequest) bool {
	if req.RequesterUsername != c.username {
		return false
	}
	return newerThan(req.Timestamp, req.ClientCheckpoint(c.username))
}

func isSystem(sender string) bool {
	return sender == entity.SystemSender
}

func sameUser(a, b string) bool {
	return strings.EqualFold(a, b)
}

// newerThan reports t > checkpoint; a zero checkpoint is the epoch.
func newerThan(t, checkpoint time.Time) bool {
	if t.IsZero() {
		return false
	}
	return t.After(checkpoint)
}
