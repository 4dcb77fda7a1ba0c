package resilience

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCircuitBreaker_OpensAfterThreshold(t *testing.T) {
	cb := NewCircuitBreaker("oracle", CircuitBreakerConfig{FailureThreshold: 2, ResetTimeout: time.Minute})
	fail := func() error { return errFlaky }

	assert.ErrorIs(t, cb.Execute(fail), errFlaky)
	assert.Equal(t, StateClosed, cb.State())
	assert.ErrorIs(t, cb.Execute(fail), errFlaky)
	assert.Equal(t, StateOpen, cb.State())

	called := false
	err := cb.Execute(func() error { called = true; return nil })
	assert.ErrorIs(t, err, ErrCircuitOpen)
	assert.False(t, called)
}

func TestCircuitBreaker_HalfOpenRecovers(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	cb := NewCircuitBreaker("oracle", CircuitBreakerConfig{FailureThreshold: 1, ResetTimeout: 10 * time.Second})
	cb.now = func() time.Time { return now }

	require.Error(t, cb.Execute(func() error { return errFlaky }))
	require.Equal(t, StateOpen, cb.State())

	now = now.Add(11 * time.Second)
	require.NoError(t, cb.Execute(func() error { return nil }))
	assert.Equal(t, StateClosed, cb.State())
}

func TestCircuitBreaker_HalfOpenProbeFailureReopens(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	cb := NewCircuitBreaker("oracle", CircuitBreakerConfig{FailureThreshold: 1, ResetTimeout: 10 * time.Second})
	cb.now = func() time.Time { return now }

	require.Error(t, cb.Execute(func() error { return errFlaky }))
	now = now.Add(11 * time.Second)
	require.ErrorIs(t, cb.Execute(func() error { return errFlaky }), errFlaky)
	assert.Equal(t, StateOpen, cb.State())
	assert.ErrorIs(t, cb.Execute(func() error { return nil }), ErrCircuitOpen)
}

func TestCircuitBreaker_TripsPredicate(t *testing.T) {
	ignored := errors.New("bad input")
	cb := NewCircuitBreaker("oracle", CircuitBreakerConfig{
		FailureThreshold: 1,
		Trips:            func(err error) bool { return !errors.Is(err, ignored) },
	})

	assert.ErrorIs(t, cb.Execute(func() error { return ignored }), ignored)
	assert.Equal(t, StateClosed, cb.State())

	cb.Execute(func() error { return errFlaky })
	assert.Equal(t, StateOpen, cb.State())

	cb.Reset()
	assert.Equal(t, StateClosed, cb.State())
}
