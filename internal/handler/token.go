package handler

import (
	"crypto/rand"
	"encoding/hex"
	"sync"
	"time"
)

// formTokens issues one-time submission tokens. Each rendered form
// carries a fresh token; consuming it on submit rejects the double
// POST a technician produces by hammering the submit button or
// refreshing the confirmation page.
type formTokens struct {
	mu     sync.Mutex
	ttl    time.Duration
	issued map[string]time.Time
}

func newFormTokens(ttl time.Duration) *formTokens {
	return &formTokens{
		ttl:    ttl,
		issued: make(map[string]time.Time),
	}
}

// Issue creates and remembers a new token.
func (t *formTokens) Issue() string {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		// rand.Read failing means the system is broken well beyond
		// token generation.
		panic(err)
	}
	token := hex.EncodeToString(buf)

	t.mu.Lock()
	defer t.mu.Unlock()
	t.sweepLocked()
	t.issued[token] = time.Now().Add(t.ttl)
	return token
}

// Consume invalidates a token, reporting whether it was live. A token
// can only be consumed once.
func (t *formTokens) Consume(token string) bool {
	if token == "" {
		return false
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	expiry, ok := t.issued[token]
	if !ok {
		return false
	}
	delete(t.issued, token)
	return time.Now().Before(expiry)
}

// sweepLocked drops expired tokens. Caller holds the lock.
func (t *formTokens) sweepLocked() {
	now := time.Now()
	for token, expiry := range t.issued {
		if now.After(expiry) {
			delete(t.issued, token)
		}
	}
}
