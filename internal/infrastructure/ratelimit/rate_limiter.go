package ratelimit

import (
	"sync"
	"time"
)

type tokenBucket struct {
	tokens     int
	maxTokens  int
	refillRate int
	refillTime time.Duration
	lastRefill time.Time
	mutex      sync.Mutex
}

// RateLimiter keeps per-user, per-action token buckets in process memory.
// Buckets idle for an hour are dropped by the cleanup routine.
type RateLimiter struct {
	buckets map[string]*tokenBucket
	mutex   sync.RWMutex
}

func NewRateLimiter() *RateLimiter {
	return &RateLimiter{
		buckets: make(map[string]*tokenBucket),
	}
}

func newTokenBucket(maxTokens, refillRate int, refillTime time.Duration) *tokenBucket {
	return &tokenBucket{
		tokens:     maxTokens,
		maxTokens:  maxTokens,
		refillRate: refillRate,
		refillTime: refillTime,
		lastRefill: time.Now(),
	}
}

func (tb *tokenBucket) allow() (bool, time.Duration) {
	tb.mutex.Lock()
	defer tb.mutex.Unlock()

	now := time.Now()
	elapsed := now.Sub(tb.lastRefill)
	refills := int(elapsed / tb.refillTime)
	if refills > 0 {
		tb.tokens += refills * tb.refillRate
		if tb.tokens > tb.maxTokens {
			tb.tokens = tb.maxTokens
		}
		tb.lastRefill = tb.lastRefill.Add(time.Duration(refills) * tb.refillTime)
	}

	if tb.tokens > 0 {
		tb.tokens--
		return true, 0
	}

	return false, tb.refillTime - now.Sub(tb.lastRefill)
}

// Allow reports whether userID may perform action now, and if not, how long
// until the next token.
func (rl *RateLimiter) Allow(userID, action string) (bool, time.Duration) {
	key := userID + ":" + action

	rl.mutex.Lock()
	bucket, ok := rl.buckets[key]
	if !ok {
		bucket = bucketForAction(action)
		rl.buckets[key] = bucket
	}
	rl.mutex.Unlock()

	return bucket.allow()
}

func bucketForAction(action string) *tokenBucket {
	switch action {
	case "send_message":
		return newTokenBucket(20, 10, 10*time.Second)
	case "create_chat":
		return newTokenBucket(5, 5, time.Minute)
	case "forgot_password":
		return newTokenBucket(3, 1, 5*time.Minute)
	default:
		return newTokenBucket(30, 30, time.Minute)
	}
}

func (rl *RateLimiter) Cleanup() {
	rl.mutex.Lock()
	defer rl.mutex.Unlock()

	for key, bucket := range rl.buckets {
		bucket.mutex.Lock()
		idle := time.Since(bucket.lastRefill) > time.Hour
		bucket.mutex.Unlock()
		if idle {
			delete(rl.buckets, key)
		}
	}
}

func (rl *RateLimiter) StartCleanupRoutine() {
	go func() {
		ticker := time.NewTicker(10 * time.Minute)
		defer ticker.Stop()
		for range ticker.C {
			rl.Cleanup()
		}
	}()
}
