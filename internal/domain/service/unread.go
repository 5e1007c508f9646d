package service

import (
	"sort"
	"time"

	"fezeaixcommission/internal/domain/entity"
)

// Badge is the unread state rendered next to the inbox and in the bell dropdown.
type Badge struct {
	NewRequests int          `json:"new_requests"`
	NewMessages int          `json:"new_messages"`
	Total       int          `json:"total"`
	Items       []UnreadItem `json:"items"`
}

type UnreadItem struct {
	RequestID         string    `json:"request_id"`
	Kind              EventKind `json:"kind"`
	CommissionType    string    `json:"commission_type"`
	RequesterUsername string    `json:"requester_username"`
	Status            string    `json:"status"`
	Preview           string    `json:"preview,omitempty"`
	At                time.Time `json:"at"`
}

// AdminBadge counts requests the admin has not acknowledged on this device and
// threads whose latest client message is newer than the admin's checkpoint.
// A request counted as new is not counted again as a new message.
func AdminBadge(requests []*entity.CommissionRequest, state *entity.AdminViewedState, adminUsername string) Badge {
	b := Badge{Items: []UnreadItem{}}
	for _, req := range requests {
		if !req.IsWellFormed() {
			continue
		}

		if req.Status == entity.StatusNewRequest && !state.IsRequestViewed(req.ID) {
			b.NewRequests++
			b.Items = append(b.Items, unreadItem(req, EventNewRequest, req.Timestamp))
			continue
		}

		last := req.LastMessage()
		if last == nil || isSystem(last.Sender) || sameUser(last.Sender, adminUsername) {
			continue
		}
		if newerThan(last.Timestamp, state.ThreadCheckpoint(req.ID)) {
			b.NewMessages++
			b.Items = append(b.Items, unreadItem(req, EventNewMessage, last.Timestamp))
		}
	}
	b.Total = b.NewRequests + b.NewMessages
	sortItems(b.Items)
	return b
}

// ClientBadge counts the client's own requests with activity newer than the
// checkpoint stored in the shared document.
func ClientBadge(requests []*entity.CommissionRequest, username string) Badge {
	b := Badge{Items: []UnreadItem{}}
	for _, req := range requests {
		if !req.IsWellFormed() || req.RequesterUsername != username {
			continue
		}
		if !newerThan(req.Timestamp, req.ClientCheckpoint(username)) {
			continue
		}
		kind := EventStatusChange
		if last := req.LastMessage(); last != nil && !last.Timestamp.Before(req.Timestamp) {
			kind = EventNewMessage
		}
		b.NewMessages++
		b.Items = append(b.Items, unreadItem(req, kind, req.Timestamp))
	}
	b.Total = b.NewMessages
	sortItems(b.Items)
	return b
}

// BadgeFor dispatches on role. state is ignored for clients.
func BadgeFor(identity entity.Identity, requests []*entity.CommissionRequest, state *entity.AdminViewedState, adminUsername string) Badge {
	if identity.IsAdmin() {
		return AdminBadge(requests, state, adminUsername)
	}
	return ClientBadge(requests, identity.Username)
}

func unreadItem(req *entity.CommissionRequest, kind EventKind, at time.Time) UnreadItem {
	item := UnreadItem{
		RequestID:         req.ID,
		Kind:              kind,
		CommissionType:    req.CommissionType,
		RequesterUsername: req.RequesterUsername,
		Status:            req.Status,
		At:                at,
	}
	if last := req.LastMessage(); last != nil {
		item.Preview = preview(last.Text)
	}
	return item
}

func preview(text string) string {
	const max = 80
	runes := []rune(text)
	if len(runes) <= max {
		return text
	}
	return string(runes[:max]) + "…"
}

func sortItems(items []UnreadItem) {
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].At.After(items[j].At)
	})
}
