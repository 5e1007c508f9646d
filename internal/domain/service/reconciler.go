package service

import (
	"fezeaixcommission/internal/domain/entity"
)

type EventKind string

const (
	EventNewRequest   EventKind = "new_request"
	EventNewMessage   EventKind = "new_message"
	EventStatusChange EventKind = "status_change"
)

// AlertCategory is the single alert raised by a snapshot transition.
type AlertCategory string

const (
	AlertNone    AlertCategory = ""
	AlertRequest AlertCategory = "request"
	AlertMessage AlertCategory = "message"
)

type Event struct {
	Kind      EventKind `json:"kind"`
	RequestID string    `json:"request_id"`
}

type Transition struct {
	Category AlertCategory
	Events   []Event
}

// Classify diffs two snapshots and keeps the events rel considers relevant.
// A request yields at most one event: new request, else new message, else status change.
func Classify(previous, current []*entity.CommissionRequest, rel Relevance) Transition {
	byID := make(map[string]*entity.CommissionRequest, len(previous))
	for _, req := range previous {
		if req != nil {
			byID[req.ID] = req
		}
	}

	var t Transition
	hasRequest, hasMessage := false, false

	for _, req := range current {
		if !req.IsWellFormed() {
			continue
		}

		old, seen := byID[req.ID]
		switch {
		case !seen:
			if rel.NewRequest(req) {
				t.Events = append(t.Events, Event{Kind: EventNewRequest, RequestID: req.ID})
				hasRequest = true
			}
		case len(req.Messages) > len(old.Messages):
			if rel.NewMessage(req, req.LastMessage()) {
				t.Events = append(t.Events, Event{Kind: EventNewMessage, RequestID: req.ID})
				hasMessage = true
			}
		case old.Status != "" && req.Status != old.Status:
			if rel.StatusChange(req) {
				t.Events = append(t.Events, Event{Kind: EventStatusChange, RequestID: req.ID})
				hasMessage = true
			}
		}
	}

	switch {
	case hasRequest:
		t.Category = AlertRequest
	case hasMessage:
		t.Category = AlertMessage
	}
	return t
}

// Reconciler holds the last processed snapshot for one subscription and
// classifies every new snapshot against it.
type Reconciler struct {
	relevance Relevance
	baseline  []*entity.CommissionRequest
	primed    bool
}

func NewReconciler(identity entity.Identity, adminUsername string) *Reconciler {
	return &Reconciler{relevance: RelevanceFor(identity, adminUsername)}
}

// Reset drops the baseline; the next snapshot is treated as baseline only.
// Call it whenever the underlying subscription is (re)established.
func (r *Reconciler) Reset() {
	r.baseline = nil
	r.primed = false
}

// Process classifies current against the previous snapshot and makes current
// the new baseline. The first snapshot after Reset never alerts.
func (r *Reconciler) Process(current []*entity.CommissionRequest) Transition {
	defer func() {
		r.baseline = current
		r.primed = true
	}()

	if !r.primed {
		return Transition{}
	}
	return Classify(r.baseline, current, r.relevance)
}
