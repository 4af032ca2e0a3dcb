package memcache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/maktab-app/maktab/core"
)

func TestCache_SetGet(t *testing.T) {
	c := New(time.Minute, 0)
	defer c.Close()

	c.Set("topics:all", []string{"a", "b"})
	val, ok := c.Get("topics:all")
	assert.True(t, ok)
	assert.Equal(t, []string{"a", "b"}, val)

	_, ok = c.Get("nope")
	assert.False(t, ok)
}

func TestCache_ExpiryWithoutSweep(t *testing.T) {
	c := New(10*time.Millisecond, 0) // sweep disabled
	defer c.Close()

	c.Set("k", "v")
	val, ok := c.Get("k")
	assert.True(t, ok)
	assert.Equal(t, "v", val)

	time.Sleep(20 * time.Millisecond)

	// expired but never swept: must still report absent
	_, ok = c.Get("k")
	assert.False(t, ok)
	assert.Equal(t, 1, c.Len())
}

func TestCache_PerKeyTTLOverride(t *testing.T) {
	c := New(10*time.Millisecond, 0)
	defer c.Close()

	c.Set("short", "v")
	c.Set("long", "v", time.Minute)

	time.Sleep(20 * time.Millisecond)

	_, ok := c.Get("short")
	assert.False(t, ok)
	_, ok = c.Get("long")
	assert.True(t, ok)
}

func TestCache_Sweep(t *testing.T) {
	c := New(5*time.Millisecond, 10*time.Millisecond)
	defer c.Close()

	c.Set("k1", "v")
	c.Set("k2", "v")
	assert.Equal(t, 2, c.Len())

	assert.Eventually(t, func() bool { return c.Len() == 0 }, time.Second, 5*time.Millisecond)
}

func TestCache_DeleteByPrefix(t *testing.T) {
	c := New(time.Minute, 0)
	defer c.Close()

	c.Set("classes:all", 1)
	c.Set("classes:id:42", 2)
	c.Set("topics:all", 3)

	c.DeleteByPrefix("classes")

	_, ok := c.Get("classes:all")
	assert.False(t, ok)
	_, ok = c.Get("classes:id:42")
	assert.False(t, ok)
	val, ok := c.Get("topics:all")
	assert.True(t, ok)
	assert.Equal(t, 3, val)
}

func TestCache_FlushAll(t *testing.T) {
	c := New(time.Minute, 0)
	defer c.Close()

	c.Set("a", 1)
	c.Set("b", 2)
	c.FlushAll()
	assert.Equal(t, 0, c.Len())
}

func TestCachedQuery(t *testing.T) {
	c := New(time.Minute, 0)
	defer c.Close()

	var calls int
	producer := func() (interface{}, error) {
		calls++
		return "produced", nil
	}

	// miss populates
	val, err := core.CachedQuery(c, "k", producer)
	assert.NoError(t, err)
	assert.Equal(t, "produced", val)
	assert.Equal(t, 1, calls)

	// hit does not re-invoke the producer
	val, err = core.CachedQuery(c, "k", producer)
	assert.NoError(t, err)
	assert.Equal(t, "produced", val)
	assert.Equal(t, 1, calls)
}

func TestCachedQuery_NilCache(t *testing.T) {
	var calls int
	producer := func() (interface{}, error) {
		calls++
		return "produced", nil
	}

	for i := 0; i < 2; i++ {
		val, err := core.CachedQuery(nil, "k", producer)
		assert.NoError(t, err)
		assert.Equal(t, "produced", val)
	}
	assert.Equal(t, 2, calls)
}
