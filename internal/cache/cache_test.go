package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type fakeClock struct{ now time.Time }

func (f *fakeClock) Now() time.Time { return f.now }
func (f *fakeClock) advance(d time.Duration) { f.now = f.now.Add(d) }

func TestGetPutRoundTrip(t *testing.T) {
	c := New(10, 0, nil)
	c.Put("a", 1)
	v, ok := c.Get("a")
	require.True(t, ok)
	require.Equal(t, 1, v)
}

func TestMissOnAbsentKey(t *testing.T) {
	c := New(10, 0, nil)
	_, ok := c.Get("missing")
	require.False(t, ok)
}

func TestSizeNeverExceedsMax(t *testing.T) {
	c := New(3, 0, nil)
	for i := 0; i < 10; i++ {
		c.Put(string(rune('a'+i)), i)
		require.LessOrEqual(t, c.Size(), 3)
	}
	require.Equal(t, 3, c.Size())
}

func TestLRUEvictsLeastRecentlyUsed(t *testing.T) {
	c := New(2, 0, nil)
	c.Put("a", 1)
	c.Put("b", 2)
	_, _ = c.Get("a") // touch a, so b becomes LRU
	c.Put("c", 3)     // evicts b

	_, ok := c.Get("b")
	require.False(t, ok)
	_, ok = c.Get("a")
	require.True(t, ok)
	_, ok = c.Get("c")
	require.True(t, ok)
}

func TestTTLExpiry(t *testing.T) {
	clk := &fakeClock{now: time.Unix(0, 0)}
	c := New(10, 5*time.Second, clk)
	c.Put("a", 1)

	clk.advance(3 * time.Second)
	_, ok := c.Get("a")
	require.True(t, ok)

	clk.advance(3 * time.Second)
	_, ok = c.Get("a")
	require.False(t, ok)
	require.Equal(t, 0, c.Size())
}

func TestKeyIsStableForSameInputs(t *testing.T) {
	k1 := Key(42, "search", "foo", "bar")
	k2 := Key(42, "search", "foo", "bar")
	require.Equal(t, k1, k2)

	k3 := Key(42, "search", "foo", "baz")
	require.NotEqual(t, k1, k3)
}
