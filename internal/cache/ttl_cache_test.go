package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestTTL_SetGetDelete(t *testing.T) {
	c := NewTTL[string, int](time.Minute)

	c.Set("a", 1)
	v, ok := c.Get("a")
	require.True(t, ok)
	require.Equal(t, 1, v)

	c.Delete("a")
	_, ok = c.Get("a")
	require.False(t, ok)
}

func TestTTL_Expiry(t *testing.T) {
	c := NewTTL[string, string](time.Minute)
	c.Set("k", "v")

	base := time.Now()
	now = func() time.Time { return base.Add(2 * time.Minute) }
	defer func() { now = time.Now }()

	_, ok := c.Get("k")
	require.False(t, ok)
	require.Equal(t, 0, c.Len())

	c.PurgeExpired()
	require.Equal(t, 0, len(c.items))
}

func TestTTL_SetRestartsClock(t *testing.T) {
	c := NewTTL[string, string](time.Minute)

	base := time.Now()
	now = func() time.Time { return base }
	defer func() { now = time.Now }()

	c.Set("k", "v1")
	now = func() time.Time { return base.Add(50 * time.Second) }
	c.Set("k", "v2")
	now = func() time.Time { return base.Add(90 * time.Second) }

	v, ok := c.Get("k")
	require.True(t, ok)
	require.Equal(t, "v2", v)
}
