package main

import (
	"sync"
	"time"
)

// TokenBlacklist tracks tokens invalidated by logout before their natural
// expiry, keyed by the raw token string. Entries live in process memory
// only: a restart un-revokes every logged-out-but-unexpired token, which
// is accepted behavior for this service.
type TokenBlacklist struct {
	mu      sync.Mutex
	revoked map[string]int64 // raw token -> expiry, unix millis
	now     func() time.Time
}

func NewTokenBlacklist() *TokenBlacklist {
	return &TokenBlacklist{
		revoked: make(map[string]int64),
		now:     time.Now,
	}
}

// Revoke inserts or overwrites the entry for token. Idempotent.
func (b *TokenBlacklist) Revoke(token string, expiresAtMillis int64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.revoked[token] = expiresAtMillis
}

// IsRevoked reports whether token is blacklisted. Entries whose expiry has
// passed are dropped on lookup and report false: an expired revocation is
// indistinguishable from none, the codec rejects such a token anyway.
// There is no background sweep, eviction happens here or never.
func (b *TokenBlacklist) IsRevoked(token string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	exp, ok := b.revoked[token]
	if !ok {
		return false
	}
	if exp < b.now().UnixMilli() {
		delete(b.revoked, token)
		return false
	}
	return true
}
