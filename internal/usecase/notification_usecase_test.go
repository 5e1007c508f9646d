package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fezeaixcommission/internal/domain/entity"
	"fezeaixcommission/internal/domain/repository"
	"fezeaixcommission/internal/domain/service"
)

func startSession(t *testing.T, f *fixture, repo repository.CommissionRepository, identity entity.Identity, sink *fakeSink, refresh chan struct{}) (context.CancelFunc, <-chan error) {
	t.Helper()
	uc := NewNotificationUseCase(repo, f.ledger, artist, 10*time.Millisecond)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- uc.RunSession(ctx, identity, device, sink, refresh)
	}()
	t.Cleanup(cancel)
	return cancel, done
}

func TestSessionAdminScenario(t *testing.T) {
	f := newFixture(t)
	sink := newFakeSink()
	startSession(t, f, f.commissions, adminID, sink, make(chan struct{}))
	ctx := context.Background()

	// Empty baseline: badge only, no sound.
	assert.Equal(t, 0, sink.nextBadge(t).Total)
	assert.Empty(t, sink.playedSounds())

	req := f.create(t, aliceID)
	badge := sink.nextBadge(t)
	assert.Equal(t, 1, badge.Total)
	assert.Equal(t, []service.Sound{service.SoundNewRequest}, sink.playedSounds())

	require.NoError(t, f.ledger.MarkRequestsViewed(ctx, adminID, device, []string{req.ID}))

	f.send(t, aliceID, req.ID, "hello")
	badge = sink.nextBadge(t)
	assert.Equal(t, 1, badge.NewMessages)
	assert.Equal(t, []service.Sound{service.SoundNewRequest, service.SoundNewMessage}, sink.playedSounds())

	// The artist's own reply is silent.
	f.send(t, adminID, req.ID, "hi alice")
	sink.nextBadge(t)
	assert.Len(t, sink.playedSounds(), 2)
}

func TestSessionClientHearsOnlyTheArtist(t *testing.T) {
	f := newFixture(t)
	req := f.create(t, aliceID)
	sink := newFakeSink()
	startSession(t, f, f.commissions, aliceID, sink, make(chan struct{}))

	assert.Equal(t, 0, sink.nextBadge(t).Total)

	f.send(t, aliceID, req.ID, "me again")
	assert.Equal(t, 0, sink.nextBadge(t).Total)
	assert.Empty(t, sink.playedSounds())

	f.create(t, bobID)
	sink.nextBadge(t)
	assert.Empty(t, sink.playedSounds(), "clients never get request alerts")

	f.send(t, adminID, req.ID, "got it")
	assert.Equal(t, 1, sink.nextBadge(t).Total)
	assert.Equal(t, []service.Sound{service.SoundNewMessage}, sink.playedSounds())
}

func TestSessionRefreshRecomputesBadge(t *testing.T) {
	f := newFixture(t)
	req := f.create(t, aliceID)
	sink := newFakeSink()
	refresh := make(chan struct{}, 1)
	startSession(t, f, f.commissions, adminID, sink, refresh)
	ctx := context.Background()

	assert.Equal(t, 1, sink.nextBadge(t).Total)

	require.NoError(t, f.ledger.MarkRequestsViewed(ctx, adminID, device, []string{req.ID}))
	refresh <- struct{}{}

	assert.Equal(t, 0, sink.nextBadge(t).Total)
	assert.Empty(t, sink.playedSounds())
}

func TestSessionBlockedPlaybackStillUpdatesBadge(t *testing.T) {
	f := newFixture(t)
	sink := newFakeSink()
	sink.playErr = errors.New("autoplay blocked")
	startSession(t, f, f.commissions, adminID, sink, make(chan struct{}))

	sink.nextBadge(t)
	f.create(t, aliceID)
	assert.Equal(t, 1, sink.nextBadge(t).Total)

	f.create(t, bobID)
	assert.Equal(t, 2, sink.nextBadge(t).Total)
	assert.Len(t, sink.playedSounds(), 2)
}

func TestSessionStopsOnCancel(t *testing.T) {
	f := newFixture(t)
	sink := newFakeSink()
	cancel, done := startSession(t, f, f.commissions, adminID, sink, make(chan struct{}))
	sink.nextBadge(t)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("session did not stop")
	}
}

// flakyRepository drops the first subscription after one snapshot.
type flakyRepository struct {
	repository.CommissionRepository
	mu    sync.Mutex
	calls int
}

func (r *flakyRepository) Watch(ctx context.Context, fn repository.SnapshotFunc) error {
	r.mu.Lock()
	r.calls++
	call := r.calls
	r.mu.Unlock()

	if call == 1 {
		requests, err := r.List(ctx)
		if err != nil {
			return err
		}
		fn(requests)
		return errors.New("stream reset")
	}
	return r.CommissionRepository.Watch(ctx, fn)
}

func TestSessionResubscribesWithFreshBaseline(t *testing.T) {
	f := newFixture(t)
	f.create(t, aliceID)
	flaky := &flakyRepository{CommissionRepository: f.commissions}
	sink := newFakeSink()
	startSession(t, f, flaky, adminID, sink, make(chan struct{}))

	// First subscription, then the drop, then the resubscription baseline.
	// Reappearing documents after the reconnect must not alert.
	assert.Equal(t, 1, sink.nextBadge(t).Total)
	assert.Equal(t, 1, sink.nextBadge(t).Total)
	assert.Empty(t, sink.playedSounds())

	f.create(t, bobID)
	assert.Equal(t, 2, sink.nextBadge(t).Total)
	assert.Equal(t, []service.Sound{service.SoundNewRequest}, sink.playedSounds())
}
