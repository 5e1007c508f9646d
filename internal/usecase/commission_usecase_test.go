package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fezeaixcommission/internal/domain/entity"
	"fezeaixcommission/pkg/errors"
)

func TestCreateCommission(t *testing.T) {
	f := newFixture(t)
	created := f.clock

	req := f.create(t, aliceID)
	assert.Equal(t, "alice", req.RequesterUsername)
	assert.Equal(t, "Basic Sketch", req.CommissionType)
	assert.Equal(t, 20, req.Price)
	assert.Equal(t, entity.StatusNewRequest, req.Status)
	assert.True(t, req.Timestamp.Equal(created))

	require.Len(t, req.Messages, 1)
	assert.Equal(t, entity.SystemSender, req.Messages[0].Sender)
	assert.Equal(t, "New Commission Request for Basic Sketch received. Price: $20. The artist will contact you via this chat to confirm details.", req.Messages[0].Text)
	assert.True(t, req.ClientCheckpoint("alice").Equal(created), "requester has seen their own request")

	_, err := f.commission.Create(context.Background(), aliceID, CreateCommissionInput{CommissionTypeID: "mural"})
	assert.True(t, errors.Is(err, "BAD_REQUEST"))
}

func TestCreateCommissionRateLimited(t *testing.T) {
	f := newFixture(t)
	for i := 0; i < 5; i++ {
		f.create(t, bobID)
	}
	_, err := f.commission.Create(context.Background(), bobID, CreateCommissionInput{CommissionTypeID: "basic-sketch"})
	assert.True(t, errors.Is(err, "TOO_MANY_REQUESTS"))
}

func TestSendMessagePromotesAndBumps(t *testing.T) {
	f := newFixture(t)
	req := f.create(t, aliceID)
	sentAt := f.clock

	updated := f.send(t, adminID, req.ID, "  Hi! Let's talk details.  ")
	assert.Equal(t, entity.StatusPendingPayment, updated.Status)
	require.Len(t, updated.Messages, 2)
	last := updated.LastMessage()
	assert.Equal(t, artist, last.Sender)
	assert.Equal(t, "Hi! Let's talk details.", last.Text)
	assert.True(t, updated.Timestamp.Equal(sentAt))
	assert.False(t, updated.Timestamp.Before(last.Timestamp))

	// Promotion only happens from New Request.
	_, err := f.commission.UpdateStatus(context.Background(), adminID, req.ID, entity.StatusInProgress)
	require.NoError(t, err)
	updated = f.send(t, aliceID, req.ID, "thanks")
	assert.Equal(t, entity.StatusInProgress, updated.Status)
}

func TestSendMessageByClientPromotesToo(t *testing.T) {
	f := newFixture(t)
	req := f.create(t, aliceID)

	updated := f.send(t, aliceID, req.ID, "one more detail")
	assert.Equal(t, entity.StatusPendingPayment, updated.Status)
}

func TestSendMessageAdvancesRequesterCheckpoint(t *testing.T) {
	f := newFixture(t)
	req := f.create(t, aliceID)

	updated := f.send(t, aliceID, req.ID, "hello")
	assert.True(t, updated.ClientCheckpoint("alice").Equal(updated.Timestamp))

	before := updated.ClientCheckpoint("alice")
	updated = f.send(t, adminID, req.ID, "hi alice")
	assert.True(t, updated.ClientCheckpoint("alice").Equal(before), "artist message stays unread for alice")
	assert.True(t, updated.Timestamp.After(before))
}

func TestSendMessageAuthorization(t *testing.T) {
	f := newFixture(t)
	req := f.create(t, aliceID)
	ctx := context.Background()

	_, err := f.commission.SendMessage(ctx, bobID, SendMessageInput{RequestID: req.ID, Text: "hi"})
	assert.True(t, errors.Is(err, "FORBIDDEN"))

	_, err = f.commission.SendMessage(ctx, aliceID, SendMessageInput{RequestID: req.ID, Text: "   "})
	assert.True(t, errors.Is(err, "BAD_REQUEST"))

	_, err = f.commission.SendMessage(ctx, aliceID, SendMessageInput{RequestID: "missing", Text: "hi"})
	assert.True(t, errors.Is(err, "NOT_FOUND"))
}

func TestUpdateStatus(t *testing.T) {
	f := newFixture(t)
	req := f.create(t, aliceID)
	ctx := context.Background()

	_, err := f.commission.UpdateStatus(ctx, aliceID, req.ID, entity.StatusCompleted)
	assert.True(t, errors.Is(err, "FORBIDDEN"))

	_, err = f.commission.UpdateStatus(ctx, adminID, req.ID, entity.StatusRevisions)
	assert.True(t, errors.Is(err, "BAD_REQUEST"), "deprecated statuses can't be set")

	// Any admin status may follow any other.
	updated, err := f.commission.UpdateStatus(ctx, adminID, req.ID, entity.StatusCompleted)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusCompleted, updated.Status)
	assert.True(t, updated.Timestamp.After(req.Timestamp))

	updated, err = f.commission.UpdateStatus(ctx, adminID, req.ID, entity.StatusNewRequest)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusNewRequest, updated.Status)
}

func TestUpdateStatusSameInstantStillAdvances(t *testing.T) {
	f := newFixture(t)
	req := f.create(t, aliceID)
	f.clock = req.Timestamp

	updated, err := f.commission.UpdateStatus(context.Background(), adminID, req.ID, entity.StatusOnHold)
	require.NoError(t, err)
	assert.True(t, updated.Timestamp.After(req.Timestamp))
}

func TestListAndQueue(t *testing.T) {
	f := newFixture(t)
	first := f.create(t, aliceID)
	second := f.create(t, bobID)
	third := f.create(t, aliceID)
	ctx := context.Background()

	all, err := f.commission.List(ctx, adminID)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, third.ID, all[0].ID, "newest first")

	mine, err := f.commission.List(ctx, aliceID)
	require.NoError(t, err)
	assert.Len(t, mine, 2)

	queue, err := f.commission.Queue(ctx, aliceID)
	require.NoError(t, err)
	require.Len(t, queue, 3)
	assert.Equal(t, first.ID, queue[0].ID, "oldest first")
	assert.Equal(t, 1, queue[0].Position)
	assert.Equal(t, "alice", queue[0].RequesterUsername)
	assert.True(t, queue[0].Mine)
	assert.Equal(t, second.ID, queue[1].ID)
	assert.Empty(t, queue[1].RequesterUsername, "other clients stay anonymous")

	adminQueue, err := f.commission.Queue(ctx, adminID)
	require.NoError(t, err)
	assert.Equal(t, "bob", adminQueue[1].RequesterUsername)
}

func TestGetAuthorization(t *testing.T) {
	f := newFixture(t)
	req := f.create(t, aliceID)
	ctx := context.Background()

	_, err := f.commission.Get(ctx, aliceID, req.ID)
	assert.NoError(t, err)
	_, err = f.commission.Get(ctx, adminID, req.ID)
	assert.NoError(t, err)
	_, err = f.commission.Get(ctx, bobID, req.ID)
	assert.True(t, errors.Is(err, "FORBIDDEN"))
}

func TestDeleteMessageAndRequest(t *testing.T) {
	f := newFixture(t)
	req := f.create(t, aliceID)
	updated := f.send(t, aliceID, req.ID, "oops")
	ctx := context.Background()
	msgID := updated.LastMessage().ID

	_, err := f.commission.DeleteMessage(ctx, aliceID, req.ID, msgID)
	assert.True(t, errors.Is(err, "FORBIDDEN"))

	updated, err = f.commission.DeleteMessage(ctx, adminID, req.ID, msgID)
	require.NoError(t, err)
	assert.Len(t, updated.Messages, 1)

	_, err = f.commission.DeleteMessage(ctx, adminID, req.ID, msgID)
	assert.True(t, errors.Is(err, "NOT_FOUND"))

	assert.True(t, errors.Is(f.commission.Delete(ctx, aliceID, req.ID), "FORBIDDEN"))
	require.NoError(t, f.commission.Delete(ctx, adminID, req.ID))
	_, err = f.commission.Get(ctx, adminID, req.ID)
	assert.True(t, errors.Is(err, "NOT_FOUND"))
}

func TestDeleteMessageKeepsLastMessage(t *testing.T) {
	f := newFixture(t)
	req := f.create(t, aliceID)
	ctx := context.Background()

	_, err := f.commission.DeleteMessage(ctx, adminID, req.ID, req.Messages[0].ID)
	assert.True(t, errors.Is(err, "BAD_REQUEST"))

	stored, err := f.commission.Get(ctx, adminID, req.ID)
	require.NoError(t, err)
	require.Len(t, stored.Messages, 1)
	assert.Equal(t, entity.SystemSender, stored.Messages[0].Sender)
}

func TestLaterKeepsTimestampsIncreasing(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	assert.True(t, later(base, base.Add(time.Second)).Equal(base.Add(time.Second)))
	assert.True(t, later(base, base).After(base))
	assert.True(t, later(base, base.Add(-time.Hour)).After(base))
}
