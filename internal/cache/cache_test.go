package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCacheExpiryUsesInjectedNow(t *testing.T) {
	c := New[int]()
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	c.Set("a", 42, 30*time.Second, now)

	v, ok := c.Get("a", now.Add(29*time.Second))
	require.True(t, ok)
	assert.Equal(t, 42, v)

	_, ok = c.Get("a", now.Add(31*time.Second))
	assert.False(t, ok)
}

func TestCacheMiss(t *testing.T) {
	c := New[string]()
	_, ok := c.Get("missing", time.Now())
	assert.False(t, ok)
}

func TestCacheOverwrite(t *testing.T) {
	c := New[int]()
	now := time.Now()

	c.Set("a", 1, time.Minute, now)
	c.Set("a", 2, time.Minute, now)

	v, ok := c.Get("a", now)
	require.True(t, ok)
	assert.Equal(t, 2, v)
}

func TestCacheDeleteAndPurge(t *testing.T) {
	c := New[int]()
	now := time.Now()

	c.Set("a", 1, time.Second, now)
	c.Set("b", 2, time.Minute, now)

	c.Delete("a")
	_, ok := c.Get("a", now)
	assert.False(t, ok)

	c.Set("a", 1, time.Second, now)
	c.Purge(now.Add(2 * time.Second))

	_, ok = c.Get("a", now.Add(2*time.Second))
	assert.False(t, ok)
	v, ok := c.Get("b", now.Add(2*time.Second))
	require.True(t, ok)
	assert.Equal(t, 2, v)
}

func TestKey(t *testing.T) {
	assert.Equal(t, "mainnet:0xabc:rewardPoolData", Key("mainnet", "0xabc", "rewardPoolData"))
}
