package service

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// Identity is the verified "who is logged in" answer. Cached here only as a
// performance optimization; the entitlement path never consults it.
type Identity struct {
	UserID string
	Email  string
	Role   string
	// ExpiresAt bounds how long the identity may be served from cache.
	// Zero means the credential carries no expiry.
	ExpiresAt time.Time
}

func (i *Identity) expired(now time.Time) bool {
	return !i.ExpiresAt.IsZero() && now.After(i.ExpiresAt)
}

// TokenVerifier performs the actual credential verification. Implemented by
// the auth service.
type TokenVerifier interface {
	VerifyToken(ctx context.Context, token string) (*Identity, error)
}

// SessionCoordinator coalesces concurrent identity checks for the same
// credential into a single in-flight verifier call; every caller waiting on
// that call receives the identical result. Login/logout call Reset so a
// stale in-flight verification cannot overwrite the new state.
type SessionCoordinator struct {
	verifier TokenVerifier

	sfg singleflight.Group // one verification per credential at a time

	mu     sync.RWMutex
	gen    uint64
	cached map[string]*Identity
}

func NewSessionCoordinator(verifier TokenVerifier) *SessionCoordinator {
	return &SessionCoordinator{
		verifier: verifier,
		cached:   make(map[string]*Identity),
	}
}

// Identity resolves the identity behind the credential. Concurrent calls for
// the same credential share one underlying verification.
func (c *SessionCoordinator) Identity(ctx context.Context, token string) (*Identity, error) {
	now := time.Now()

	c.mu.RLock()
	identity, ok := c.cached[token]
	c.mu.RUnlock()
	if ok {
		if !identity.expired(now) {
			return identity, nil
		}
		// Past its expiry the cache entry is not an authorization answer
		// anymore; drop it and verify afresh.
		c.mu.Lock()
		if current, ok := c.cached[token]; ok && current.expired(now) {
			delete(c.cached, token)
			c.sfg.Forget(token)
		}
		c.mu.Unlock()
	}

	v, err, _ := c.sfg.Do(token, func() (interface{}, error) {
		c.mu.RLock()
		startGen := c.gen
		c.mu.RUnlock()

		identity, err := c.verifier.VerifyToken(ctx, token)
		if err != nil {
			return nil, err
		}

		c.mu.Lock()
		// A Reset during the flight means an explicit login/logout won the
		// race; the result is still valid for the coalesced callers but
		// must not repopulate the cache.
		if c.gen == startGen && !identity.expired(time.Now()) {
			c.sweepExpiredLocked()
			c.cached[token] = identity
		}
		c.mu.Unlock()

		return identity, nil
	})
	if err != nil {
		return nil, err
	}

	return v.(*Identity), nil
}

// sweepExpiredLocked evicts entries past their expiry so the cache stays
// bounded by the set of live credentials. Caller holds mu.
func (c *SessionCoordinator) sweepExpiredLocked() {
	now := time.Now()
	for token, identity := range c.cached {
		if identity.expired(now) {
			delete(c.cached, token)
			c.sfg.Forget(token)
		}
	}
}

// Reset discards cached and in-flight verification state. Called on login
// and logout.
func (c *SessionCoordinator) Reset() {
	c.mu.Lock()
	c.gen++
	for token := range c.cached {
		c.sfg.Forget(token)
		delete(c.cached, token)
	}
	c.mu.Unlock()
}
