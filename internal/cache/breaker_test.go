package cache

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"WellCheck/pkg/logger"
)

func TestMain(m *testing.M) {
	logger.Init()
	os.Exit(m.Run())
}

func TestBreakerOpensAfterMaxFailures(t *testing.T) {
	cb := NewCircuitBreaker("test", 3, time.Minute)
	failing := errors.New("backend down")
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		err := cb.Call(ctx, func() error { return failing })
		require.ErrorIs(t, err, failing)
	}
	assert.Equal(t, StateOpen, cb.GetState())

	// 熔断后不再执行操作
	called := false
	err := cb.Call(ctx, func() error { called = true; return nil })
	require.Error(t, err)
	assert.Contains(t, err.Error(), "is open")
	assert.False(t, called)
}

func TestBreakerSuccessResetsFailureCount(t *testing.T) {
	cb := NewCircuitBreaker("test", 3, time.Minute)
	failing := errors.New("backend down")
	ctx := context.Background()

	_ = cb.Call(ctx, func() error { return failing })
	_ = cb.Call(ctx, func() error { return failing })
	require.NoError(t, cb.Call(ctx, func() error { return nil }))
	_ = cb.Call(ctx, func() error { return failing })
	_ = cb.Call(ctx, func() error { return failing })

	assert.Equal(t, StateClosed, cb.GetState(), "success in closed state resets the streak")
}

func TestBreakerHalfOpenRecovery(t *testing.T) {
	cb := NewCircuitBreaker("test", 1, 10*time.Millisecond)
	ctx := context.Background()

	_ = cb.Call(ctx, func() error { return errors.New("backend down") })
	require.Equal(t, StateOpen, cb.GetState())

	time.Sleep(20 * time.Millisecond)

	require.NoError(t, cb.Call(ctx, func() error { return nil }))
	assert.Equal(t, StateClosed, cb.GetState())
}

func TestBreakerHalfOpenFailureReopens(t *testing.T) {
	cb := NewCircuitBreaker("test", 1, 10*time.Millisecond)
	ctx := context.Background()

	_ = cb.Call(ctx, func() error { return errors.New("backend down") })
	time.Sleep(20 * time.Millisecond)
	_ = cb.Call(ctx, func() error { return errors.New("still down") })

	assert.Equal(t, StateOpen, cb.GetState())
}
