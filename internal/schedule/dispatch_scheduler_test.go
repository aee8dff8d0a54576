package schedule

import (
	"context"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"WellCheck/internal/service"
	"WellCheck/pkg/logger"
)

func TestMain(m *testing.M) {
	logger.Init()
	os.Exit(m.Run())
}

// blockingRunner 第一轮卡在 release 上，用来制造周期重叠
type blockingRunner struct {
	mu      sync.Mutex
	calls   int
	started chan struct{}
	release chan struct{}
}

func (r *blockingRunner) RunCycle(ctx context.Context, cycleID string, now time.Time) (*service.CycleResult, error) {
	r.mu.Lock()
	r.calls++
	first := r.calls == 1
	r.mu.Unlock()

	if first {
		close(r.started)
	}
	<-r.release

	return &service.CycleResult{CycleID: cycleID}, nil
}

func (r *blockingRunner) Calls() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls
}

func TestRunDueCycleSkipsWhileRunning(t *testing.T) {
	runner := &blockingRunner{
		started: make(chan struct{}),
		release: make(chan struct{}),
	}
	scheduler := NewDispatchScheduler(runner)

	done := make(chan error, 1)
	go func() {
		done <- scheduler.RunDueCycle(context.Background())
	}()
	<-runner.started

	// 第一轮还在跑，第二次调用直接跳过
	require.NoError(t, scheduler.RunDueCycle(context.Background()))
	assert.Equal(t, 1, runner.Calls())

	close(runner.release)
	require.NoError(t, <-done)

	// 第一轮结束后恢复可调度
	require.NoError(t, scheduler.RunDueCycle(context.Background()))
	assert.Equal(t, 2, runner.Calls())
}
