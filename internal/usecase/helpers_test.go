package usecase

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	adapterrepo "fezeaixcommission/internal/adapter/repository"
	"fezeaixcommission/internal/domain/entity"
	"fezeaixcommission/internal/domain/repository"
	"fezeaixcommission/internal/domain/service"
	"fezeaixcommission/internal/infrastructure/ratelimit"
)

const artist = "fezeaix"

var (
	adminID = entity.Identity{Username: artist, Role: entity.RoleAdmin}
	aliceID = entity.Identity{Username: "alice", Role: entity.RoleUser}
	bobID   = entity.Identity{Username: "bob", Role: entity.RoleUser}
)

type fixture struct {
	commissions repository.CommissionRepository
	viewed      repository.ViewedStateRepository
	commission  *CommissionUseCase
	ledger      *LedgerUseCase
	refresher   *countingRefresher
	clock       time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		commissions: adapterrepo.NewMemoryCommissionRepository(),
		viewed:      adapterrepo.NewMemoryViewedStateRepository(),
		refresher:   &countingRefresher{counts: map[string]int{}},
		clock:       time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC),
	}
	f.commission = NewCommissionUseCase(f.commissions, entity.DefaultCatalog, artist, ratelimit.NewRateLimiter())
	f.commission.now = func() time.Time { return f.clock }
	f.ledger = NewLedgerUseCase(f.commissions, f.viewed, artist, f.refresher)
	return f
}

func (f *fixture) tick(d time.Duration) {
	f.clock = f.clock.Add(d)
}

func (f *fixture) create(t *testing.T, who entity.Identity) *entity.CommissionRequest {
	t.Helper()
	req, err := f.commission.Create(context.Background(), who, CreateCommissionInput{CommissionTypeID: "basic-sketch"})
	require.NoError(t, err)
	f.tick(time.Minute)
	return req
}

func (f *fixture) send(t *testing.T, who entity.Identity, id, text string) *entity.CommissionRequest {
	t.Helper()
	req, err := f.commission.SendMessage(context.Background(), who, SendMessageInput{RequestID: id, Text: text})
	require.NoError(t, err)
	f.tick(time.Minute)
	return req
}

type countingRefresher struct {
	mu     sync.Mutex
	counts map[string]int
}

func (r *countingRefresher) RefreshBadge(username string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.counts[username]++
}

func (r *countingRefresher) count(username string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.counts[username]
}

// fakeSink records what a session pushed.
type fakeSink struct {
	mu        sync.Mutex
	badges    []service.Badge
	sounds    []service.Sound
	playErr   error
	badgeSent chan service.Badge
}

func newFakeSink() *fakeSink {
	return &fakeSink{badgeSent: make(chan service.Badge, 100)}
}

func (s *fakeSink) SendBadge(ctx context.Context, badge service.Badge) error {
	s.mu.Lock()
	s.badges = append(s.badges, badge)
	s.mu.Unlock()
	s.badgeSent <- badge
	return nil
}

func (s *fakeSink) PlaySound(ctx context.Context, sound service.Sound) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sounds = append(s.sounds, sound)
	return s.playErr
}

func (s *fakeSink) playedSounds() []service.Sound {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]service.Sound(nil), s.sounds...)
}

func (s *fakeSink) nextBadge(t *testing.T) service.Badge {
	t.Helper()
	select {
	case b := <-s.badgeSent:
		return b
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for badge")
		return service.Badge{}
	}
}
