package main

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestBlacklistRevokeAndCheck(t *testing.T) {
	bl := NewTokenBlacklist()
	exp := time.Now().Add(time.Hour).UnixMilli()

	require.False(t, bl.IsRevoked("tok-1"))

	bl.Revoke("tok-1", exp)
	require.True(t, bl.IsRevoked("tok-1"))
	require.False(t, bl.IsRevoked("tok-2"))

	// Revoking again is a no-op overwrite.
	bl.Revoke("tok-1", exp)
	require.True(t, bl.IsRevoked("tok-1"))
}

func TestBlacklistLazyEviction(t *testing.T) {
	bl := NewTokenBlacklist()
	base := time.Unix(1700000000, 0)
	bl.now = func() time.Time { return base }

	bl.Revoke("tok-1", base.Add(time.Minute).UnixMilli())
	require.True(t, bl.IsRevoked("tok-1"))

	// Once the entry's expiry has passed the lookup drops it and the
	// token reads as never revoked.
	bl.now = func() time.Time { return base.Add(2 * time.Minute) }
	require.False(t, bl.IsRevoked("tok-1"))

	bl.mu.Lock()
	_, still := bl.revoked["tok-1"]
	bl.mu.Unlock()
	require.False(t, still)
}

func TestBlacklistConcurrentRevokes(t *testing.T) {
	bl := NewTokenBlacklist()
	exp := time.Now().Add(time.Hour).UnixMilli()
	const n = 64

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			bl.Revoke(fmt.Sprintf("tok-%d", i), exp)
		}(i)
	}
	wg.Wait()

	results := make([]bool, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = bl.IsRevoked(fmt.Sprintf("tok-%d", i))
		}(i)
	}
	wg.Wait()

	for i, revoked := range results {
		require.True(t, revoked, "token %d lost its revocation", i)
	}
}
