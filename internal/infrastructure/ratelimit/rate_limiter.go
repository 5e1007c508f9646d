package ratelimit

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const (
	ActionLogin            = "login"
	ActionRegister         = "register"
	ActionSendMessage      = "send_message"
	ActionCreateCommission = "create_commission"
)

type bucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter manages rate limiting for different users and actions
type RateLimiter struct {
	buckets map[string]*bucket
	mutex   sync.Mutex
	now     func() time.Time
}

func NewRateLimiter() *RateLimiter {
	return &RateLimiter{
		buckets: make(map[string]*bucket),
		now:     time.Now,
	}
}

func newLimiter(action string) *rate.Limiter {
	switch action {
	case ActionLogin:
		// 5 attempts per minute
		return rate.NewLimiter(rate.Every(12*time.Second), 5)
	case ActionRegister:
		// 3 accounts per hour
		return rate.NewLimiter(rate.Every(20*time.Minute), 3)
	case ActionSendMessage:
		// 10 messages per minute
		return rate.NewLimiter(rate.Every(6*time.Second), 10)
	case ActionCreateCommission:
		// 5 requests per hour
		return rate.NewLimiter(rate.Every(12*time.Minute), 5)
	default:
		// 20 actions per minute
		return rate.NewLimiter(rate.Every(3*time.Second), 20)
	}
}

// Allow consumes one event for key and action. When refused it returns how
// long the caller should wait before retrying.
func (rl *RateLimiter) Allow(key, action string) (bool, time.Duration) {
	now := rl.now()

	rl.mutex.Lock()
	b, exists := rl.buckets[key+":"+action]
	if !exists {
		b = &bucket{limiter: newLimiter(action)}
		rl.buckets[key+":"+action] = b
	}
	b.lastSeen = now
	rl.mutex.Unlock()

	reservation := b.limiter.ReserveN(now, 1)
	if !reservation.OK() {
		return false, 0
	}
	if delay := reservation.DelayFrom(now); delay > 0 {
		reservation.CancelAt(now)
		return false, delay
	}
	return true, 0
}

// Cleanup removes buckets that haven't been used for an hour
func (rl *RateLimiter) Cleanup() {
	rl.mutex.Lock()
	defer rl.mutex.Unlock()

	cutoff := rl.now().Add(-time.Hour)
	for key, b := range rl.buckets {
		if b.lastSeen.Before(cutoff) {
			delete(rl.buckets, key)
		}
	}
}

func (rl *RateLimiter) StartCleanupRoutine(stop <-chan struct{}) {
	go func() {
		ticker := time.NewTicker(30 * time.Minute)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				rl.Cleanup()
			case <-stop:
				return
			}
		}
	}()
}
