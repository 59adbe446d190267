package cache

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemory_PutTake(t *testing.T) {
	ctx := context.Background()
	c := NewMemory("t")

	require.NoError(t, c.Put(ctx, "n1", "u_1", time.Minute))
	v, err := c.Take(ctx, "n1")
	require.NoError(t, err)
	assert.Equal(t, "u_1", v)

	_, err = c.Take(ctx, "n1")
	assert.True(t, IsNotFound(err))
}

func TestMemory_PutNeverOverwrites(t *testing.T) {
	ctx := context.Background()
	c := NewMemory("")

	require.NoError(t, c.Put(ctx, "n1", "u_1", time.Minute))
	assert.ErrorIs(t, c.Put(ctx, "n1", "u_2", time.Minute), ErrExists)

	v, err := c.Take(ctx, "n1")
	require.NoError(t, err)
	assert.Equal(t, "u_1", v)
}

func TestMemory_RequiresTTL(t *testing.T) {
	assert.ErrorIs(t, NewMemory("").Put(context.Background(), "k", "v", 0), ErrNoTTL)
}

func TestMemory_Expires(t *testing.T) {
	ctx := context.Background()
	c := NewMemory("")

	require.NoError(t, c.Put(ctx, "k", "v", 20*time.Millisecond))
	time.Sleep(40 * time.Millisecond)

	_, err := c.Take(ctx, "k")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemory_TakeIsSingleUse(t *testing.T) {
	ctx := context.Background()
	c := NewMemory("")
	require.NoError(t, c.Put(ctx, "nonce", "u_1", time.Minute))

	var wins atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if v, err := c.Take(ctx, "nonce"); err == nil && v == "u_1" {
				wins.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), wins.Load())
}

func TestNew(t *testing.T) {
	c, err := New(Config{})
	require.NoError(t, err)
	assert.NoError(t, c.Ping(context.Background()))
	assert.NoError(t, c.Close())

	_, err = New(Config{Driver: "memcached"})
	assert.Error(t, err)
}
