package entity

import "time"

// AdminViewedState is the admin's per-device read ledger.
type AdminViewedState struct {
	DeviceID                   string               `json:"device_id"`
	ViewedRequestIDs           map[string]bool      `json:"viewed_request_ids"`
	LastViewedMessageTimestamp map[string]time.Time `json:"last_viewed_message_timestamp"`
}

func NewAdminViewedState(deviceID string) *AdminViewedState {
	return &AdminViewedState{
		DeviceID:                   deviceID,
		ViewedRequestIDs:           make(map[string]bool),
		LastViewedMessageTimestamp: make(map[string]time.Time),
	}
}

func (s *AdminViewedState) IsRequestViewed(id string) bool {
	if s == nil {
		return false
	}
	return s.ViewedRequestIDs[id]
}

// ThreadCheckpoint returns the admin's read checkpoint for a thread; zero means never read.
func (s *AdminViewedState) ThreadCheckpoint(id string) time.Time {
	if s == nil {
		return time.Time{}
	}
	return s.LastViewedMessageTimestamp[id]
}
