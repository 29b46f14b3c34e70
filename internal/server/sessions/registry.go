// Package sessions holds the in-memory registry of live authenticated
// sessions. Sessions exist only for the lifetime of the process: the
// registry starts empty and is dropped at shutdown, so a restart logs
// everyone out.
package sessions

import (
	"context"
	"sync"
	"time"

	"github.com/dmitrijs2005/homedrive/internal/common"
)

// TokenByteLength is the entropy of a session token before hex encoding.
const TokenByteLength = 32

// Session is one live authenticated session.
type Session struct {
	Token        string
	AccountID    string
	Login        string
	CreatedAt    time.Time
	LastActivity time.Time
}

// Registry maps opaque session tokens to identities and enforces sliding
// expiry. All state transitions of a token happen under one mutex, so
// concurrent resolutions of the same token cannot race-extend it
// inconsistently.
type Registry struct {
	mu              sync.Mutex
	sessions        map[string]*Session
	idleTimeout     time.Duration
	absoluteTimeout time.Duration

	now func() time.Time
}

// NewRegistry creates an empty registry. absoluteTimeout of zero disables
// the absolute lifetime cap.
func NewRegistry(idleTimeout, absoluteTimeout time.Duration) *Registry {
	return &Registry{
		sessions:        make(map[string]*Session),
		idleTimeout:     idleTimeout,
		absoluteTimeout: absoluteTimeout,
		now:             time.Now,
	}
}

// Create issues a new session for the identity and returns a copy of it.
func (r *Registry) Create(accountID, login string) (*Session, error) {
	token, err := common.MakeRandHexString(TokenByteLength)
	if err != nil {
		return nil, err
	}

	now := r.now()
	s := &Session{
		Token:        token,
		AccountID:    accountID,
		Login:        login,
		CreatedAt:    now,
		LastActivity: now,
	}

	r.mu.Lock()
	r.sessions[token] = s
	r.mu.Unlock()

	copy := *s
	return &copy, nil
}

func (r *Registry) expired(s *Session, now time.Time) bool {
	if now.Sub(s.LastActivity) > r.idleTimeout {
		return true
	}
	if r.absoluteTimeout > 0 && now.Sub(s.CreatedAt) >= r.absoluteTimeout {
		return true
	}
	return false
}

// Resolve returns the identity behind a token and refreshes its sliding
// window. An unknown or expired token yields common.ErrorUnauthorized;
// expired entries are removed on the spot.
func (r *Registry) Resolve(token string) (*Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[token]
	if !ok {
		return nil, common.ErrorUnauthorized
	}

	now := r.now()
	if r.expired(s, now) {
		delete(r.sessions, token)
		return nil, common.ErrorUnauthorized
	}

	s.LastActivity = now

	copy := *s
	return &copy, nil
}

// Delete removes a session. Deleting an absent token is not an error.
func (r *Registry) Delete(token string) {
	r.mu.Lock()
	delete(r.sessions, token)
	r.mu.Unlock()
}

// Sweep evicts every expired session and reports how many were removed.
func (r *Registry) Sweep() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	removed := 0
	for token, s := range r.sessions {
		if r.expired(s, now) {
			delete(r.sessions, token)
			removed++
		}
	}
	return removed
}

// Len reports the number of live sessions (including not-yet-swept expired
// ones).
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// Run sweeps periodically until the context is cancelled. A non-positive
// interval falls back to one minute.
func (r *Registry) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.Sweep()
		}
	}
}
