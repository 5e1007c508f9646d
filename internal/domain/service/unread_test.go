package service

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fezeaixcommission/internal/domain/entity"
)

func TestAdminBadgeCounts(t *testing.T) {
	fresh := request("new", "alice", at(0))
	acked := request("acked", "bob", at(1))
	replied := withMessage(withStatus(request("replied", "carol", at(2)), entity.StatusInProgress, at(3)), "carol", at(4))
	answered := withMessage(withStatus(request("answered", "dave", at(2)), entity.StatusInProgress, at(3)), artist, at(5))
	read := withMessage(withStatus(request("read", "erin", at(2)), entity.StatusInProgress, at(3)), "erin", at(6))

	state := entity.NewAdminViewedState("d")
	state.ViewedRequestIDs["acked"] = true
	state.LastViewedMessageTimestamp["read"] = at(6)

	b := AdminBadge(snapshot(fresh, acked, replied, answered, read), state, artist)
	assert.Equal(t, 1, b.NewRequests)
	assert.Equal(t, 1, b.NewMessages)
	assert.Equal(t, 2, b.Total)

	require.Len(t, b.Items, 2)
	assert.Equal(t, "replied", b.Items[0].RequestID, "newest first")
	assert.Equal(t, EventNewMessage, b.Items[0].Kind)
	assert.Equal(t, "new", b.Items[1].RequestID)
	assert.Equal(t, EventNewRequest, b.Items[1].Kind)
}

func TestAdminBadgeNewRequestNotCountedTwice(t *testing.T) {
	req := withMessage(request("1", "alice", at(0)), "alice", at(1))
	req.Status = entity.StatusNewRequest

	b := AdminBadge(snapshot(req), entity.NewAdminViewedState("d"), artist)
	assert.Equal(t, 1, b.NewRequests)
	assert.Equal(t, 0, b.NewMessages)
}

func TestAdminBadgeNilStateMeansNothingSeen(t *testing.T) {
	b := AdminBadge(snapshot(request("1", "alice", at(0))), nil, artist)
	assert.Equal(t, 1, b.Total)
}

func TestClientBadge(t *testing.T) {
	own := withStatus(request("1", "alice", at(0)), entity.StatusInProgress, at(5))
	own.AdvanceClientCheckpoint("alice", at(0))
	seen := request("2", "alice", at(1))
	seen.AdvanceClientCheckpoint("alice", at(1))
	never := request("3", "alice", at(2))
	other := request("4", "bob", at(3))

	b := ClientBadge(snapshot(own, seen, never, other), "alice")
	assert.Equal(t, 2, b.Total)
	assert.Equal(t, 0, b.NewRequests)

	ids := []string{b.Items[0].RequestID, b.Items[1].RequestID}
	assert.Equal(t, []string{"1", "3"}, ids)
	assert.Equal(t, EventStatusChange, b.Items[0].Kind)
}

// Viewing at or after the document timestamp clears it.
func TestClientBadgeClearedByCheckpoint(t *testing.T) {
	req := withMessage(request("1", "alice", at(0)), artist, at(3))
	assert.Equal(t, 1, ClientBadge(snapshot(req), "alice").Total)

	req.AdvanceClientCheckpoint("alice", at(3))
	assert.Equal(t, 0, ClientBadge(snapshot(req), "alice").Total)
}

func TestBadgeSkipsMalformed(t *testing.T) {
	broken := request("1", "alice", at(0))
	broken.Messages = nil

	assert.Equal(t, 0, AdminBadge(snapshot(broken), nil, artist).Total)
	assert.Equal(t, 0, ClientBadge(snapshot(broken), "alice").Total)
}

func TestBadgeForDispatchesOnRole(t *testing.T) {
	reqs := snapshot(request("1", "alice", at(0)))
	assert.Equal(t, 1, BadgeFor(admin, reqs, nil, artist).NewRequests)
	assert.Equal(t, 1, BadgeFor(alice, reqs, nil, artist).NewMessages)
	assert.Equal(t, 0, BadgeFor(bob, reqs, nil, artist).Total)
}

func TestPreviewTruncates(t *testing.T) {
	long := strings.Repeat("é", 100)
	got := preview(long)
	assert.Equal(t, 81, len([]rune(got)))
	assert.Equal(t, "short", preview("short"))
}
