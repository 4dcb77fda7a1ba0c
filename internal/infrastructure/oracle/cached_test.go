package oracle

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryStore struct {
	mu      sync.Mutex
	data    map[string]float64
	readErr error
}

func newMemoryStore() *memoryStore { return &memoryStore{data: map[string]float64{}} }

func (m *memoryStore) GetFloat(_ context.Context, key string) (float64, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.readErr != nil {
		return 0, false, m.readErr
	}
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *memoryStore) SetFloat(_ context.Context, key string, v float64, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = v
	return nil
}

type countingClient struct {
	calls atomic.Int32
	score float64
	err   error
	delay time.Duration
}

func (c *countingClient) Score(context.Context, string, string) (float64, error) {
	c.calls.Add(1)
	time.Sleep(c.delay)
	return c.score, c.err
}

func TestCached_HitAfterMiss(t *testing.T) {
	next := &countingClient{score: 0.42}
	c := NewCached(next, newMemoryStore(), time.Hour, nil)

	for i := 0; i < 3; i++ {
		v, err := c.Score(context.Background(), "resume", "job")
		require.NoError(t, err)
		assert.Equal(t, 0.42, v)
	}
	assert.Equal(t, int32(1), next.calls.Load())

	_, err := c.Score(context.Background(), "resume", "other job")
	require.NoError(t, err)
	assert.Equal(t, int32(2), next.calls.Load())
}

func TestCached_FailuresAreNotCached(t *testing.T) {
	next := &countingClient{err: &Failure{Kind: KindTransport, Provider: "test"}}
	store := newMemoryStore()
	c := NewCached(next, store, time.Hour, nil)

	_, err := c.Score(context.Background(), "r", "j")
	assert.ErrorIs(t, err, ErrTransport)
	_, err = c.Score(context.Background(), "r", "j")
	assert.ErrorIs(t, err, ErrTransport)

	assert.Equal(t, int32(2), next.calls.Load())
	assert.Empty(t, store.data)
}

func TestCached_StoreErrorsBypassCache(t *testing.T) {
	next := &countingClient{score: 0.9}
	store := newMemoryStore()
	store.readErr = errors.New("redis down")
	c := NewCached(next, store, time.Hour, nil)

	v, err := c.Score(context.Background(), "r", "j")
	require.NoError(t, err)
	assert.Equal(t, 0.9, v)
}

func TestCached_CoalescesConcurrentRequests(t *testing.T) {
	next := &countingClient{score: 0.5, delay: 50 * time.Millisecond}
	c := NewCached(next, newMemoryStore(), time.Hour, nil)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			v, err := c.Score(context.Background(), "same resume", "same job")
			assert.NoError(t, err)
			assert.Equal(t, 0.5, v)
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), next.calls.Load())
}

func TestCached_KeyDependsOnTruncatedText(t *testing.T) {
	c := NewCached(&countingClient{}, newMemoryStore(), time.Hour, nil)
	c.runes = 4

	assert.Equal(t, c.key("abcdXXX", "job"), c.key("abcdYYY", "job"))
	assert.NotEqual(t, c.key("abce", "job"), c.key("abcd", "job"))
}
