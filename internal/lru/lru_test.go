package lru

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvictionOrder(t *testing.T) {
	var evicted []string
	c, err := New(2, func(key string, _ int) { evicted = append(evicted, key) })
	require.NoError(t, err)

	c.Put("a", 1)
	c.Put("b", 2)
	c.Put("c", 3)
	assert.Equal(t, []string{"a"}, evicted, "least-recently-touched entry evicts first")
	assert.False(t, c.Contains("a"))

	// Get refreshes recency: b becomes most recent, so d evicts c.
	_, ok := c.Get("b")
	require.True(t, ok)
	c.Put("d", 4)
	assert.Equal(t, []string{"a", "c"}, evicted)
	assert.True(t, c.Contains("b"))
}

func TestPutRefreshesRecency(t *testing.T) {
	var evicted []string
	c, err := New(2, func(key string, _ int) { evicted = append(evicted, key) })
	require.NoError(t, err)

	c.Put("a", 1)
	c.Put("b", 2)
	c.Put("a", 10) // re-Put moves a to the front
	c.Put("c", 3)
	assert.Equal(t, []string{"b"}, evicted)

	v, ok := c.Get("a")
	require.True(t, ok)
	assert.Equal(t, 10, v)
}

func TestRemoveAndClearInvokeCallback(t *testing.T) {
	var evicted []string
	c, err := New(4, func(key string, _ int) { evicted = append(evicted, key) })
	require.NoError(t, err)

	c.Put("a", 1)
	c.Put("b", 2)
	c.Put("c", 3)

	assert.True(t, c.Remove("b"))
	assert.Equal(t, []string{"b"}, evicted)
	assert.False(t, c.Remove("b"), "second remove is a no-op")

	c.Clear()
	assert.ElementsMatch(t, []string{"b", "a", "c"}, evicted)
	assert.Equal(t, 0, c.Len())
}

func TestZeroCapacityRejected(t *testing.T) {
	_, err := New[string, int](0, nil)
	assert.Error(t, err)
}
