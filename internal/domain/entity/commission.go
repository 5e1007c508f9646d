package entity

import "time"

// SystemSender is the sender of messages generated by the service itself.
const SystemSender = "System"

const (
	StatusNewRequest     = "New Request"
	StatusPendingPayment = "Pending Payment"
	StatusInProgress     = "In Progress"
	StatusSketchSent     = "Sketch Sent"
	StatusCompleted      = "Completed"
	StatusOnHold         = "On Hold"
	StatusCanceled       = "Canceled"

	// Deprecated statuses still present on older documents.
	StatusInDiscussion = "In Discussion"
	StatusRevisions    = "Revisions"
)

// AdminStatuses lists the statuses an admin may set, in typical lifecycle order.
var AdminStatuses = []string{
	StatusNewRequest,
	StatusPendingPayment,
	StatusInProgress,
	StatusSketchSent,
	StatusCompleted,
	StatusOnHold,
	StatusCanceled,
}

type CommissionRequest struct {
	ID                 string               `json:"id" firestore:"id"`
	RequesterUsername  string               `json:"requester_username" firestore:"requesterUsername"`
	CommissionType     string               `json:"commission_type" firestore:"commissionType"`
	Price              int                  `json:"price" firestore:"price"`
	Status             string               `json:"status" firestore:"status"`
	Timestamp          time.Time            `json:"timestamp" firestore:"timestamp"`
	Messages           []Message            `json:"messages" firestore:"messages"`
	LastViewedByClient map[string]time.Time `json:"last_viewed_by_client,omitempty" firestore:"lastViewedByClient,omitempty"`
}

type Message struct {
	ID        string    `json:"id" firestore:"id"`
	Sender    string    `json:"sender" firestore:"sender"`
	Text      string    `json:"text" firestore:"text"`
	Timestamp time.Time `json:"timestamp" firestore:"timestamp"`
}

// LastMessage returns the newest message, or nil when there is none.
func (c *CommissionRequest) LastMessage() *Message {
	if len(c.Messages) == 0 {
		return nil
	}
	return &c.Messages[len(c.Messages)-1]
}

// ClientCheckpoint returns the instant up to which username has seen this
// request. The zero time means never viewed.
func (c *CommissionRequest) ClientCheckpoint(username string) time.Time {
	if c.LastViewedByClient == nil {
		return time.Time{}
	}
	return c.LastViewedByClient[username]
}

// AdvanceClientCheckpoint merges at into the client's checkpoint, keeping the
// later of the two. It reports whether the stored value changed.
func (c *CommissionRequest) AdvanceClientCheckpoint(username string, at time.Time) bool {
	if at.IsZero() {
		return false
	}
	if c.LastViewedByClient == nil {
		c.LastViewedByClient = make(map[string]time.Time)
	}
	if current, ok := c.LastViewedByClient[username]; ok && !at.After(current) {
		return false
	}
	c.LastViewedByClient[username] = at
	return true
}

// IsWellFormed reports whether the document carries enough data to take part
// in unread and alert computation.
func (c *CommissionRequest) IsWellFormed() bool {
	return c != nil && c.ID != "" && c.Messages != nil && !c.Timestamp.IsZero() && c.Status != ""
}

// Clone returns a deep copy, so snapshots handed to subscribers can't be
// mutated through shared slices or maps.
func (c *CommissionRequest) Clone() *CommissionRequest {
	if c == nil {
		return nil
	}
	out := *c
	if c.Messages != nil {
		out.Messages = make([]Message, len(c.Messages))
		copy(out.Messages, c.Messages)
	}
	if c.LastViewedByClient != nil {
		out.LastViewedByClient = make(map[string]time.Time, len(c.LastViewedByClient))
		for k, v := range c.LastViewedByClient {
			out.LastViewedByClient[k] = v
		}
	}
	return &out
}

func IsAdminStatus(status string) bool {
	for _, s := range AdminStatuses {
		if s == status {
			return true
		}
	}
	return false
}
