package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/outfit/partner-api/internal/application/linking"
)

// ---------------------------------------------------------------------------
// Test Helpers
// ---------------------------------------------------------------------------

func newTestLogger() *zap.Logger {
	logger, _ := zap.NewDevelopment()
	return logger
}

// mockLinkSweeper implements LinkSweeper for testing
type mockLinkSweeper struct {
	sweepFunc  func(ctx context.Context) (*linking.ExpiredLinkStats, error)
	sweepCount int32
}

func (m *mockLinkSweeper) ExpireOverdueLinks(ctx context.Context) (*linking.ExpiredLinkStats, error) {
	atomic.AddInt32(&m.sweepCount, 1)
	if m.sweepFunc != nil {
		return m.sweepFunc(ctx)
	}
	return &linking.ExpiredLinkStats{ProcessedAt: time.Now()}, nil
}

func (m *mockLinkSweeper) count() int32 {
	return atomic.LoadInt32(&m.sweepCount)
}

// mockSessionSweeper implements SessionSweeper for testing
type mockSessionSweeper struct {
	sweepFunc  func(ctx context.Context) (int64, error)
	sweepCount int32
}

func (m *mockSessionSweeper) ExpireSessions(ctx context.Context) (int64, error) {
	atomic.AddInt32(&m.sweepCount, 1)
	if m.sweepFunc != nil {
		return m.sweepFunc(ctx)
	}
	return 0, nil
}

func (m *mockSessionSweeper) count() int32 {
	return atomic.LoadInt32(&m.sweepCount)
}

func newTestScheduler(t *testing.T, config ExpirationSchedulerConfig) (*ExpirationScheduler, *mockLinkSweeper, *mockSessionSweeper) {
	t.Helper()
	links := &mockLinkSweeper{}
	sessions := &mockSessionSweeper{}
	sched, err := NewExpirationScheduler(links, sessions, newTestLogger(), config)
	require.NoError(t, err)
	return sched, links, sessions
}

// slowSweepConfig returns a config whose intervals are long enough that only
// the startup sweeps fire during a test.
func slowSweepConfig() ExpirationSchedulerConfig {
	return ExpirationSchedulerConfig{
		Enabled:              true,
		LinkSweepInterval:    time.Hour,
		SessionSweepInterval: time.Hour,
		JobTimeout:           time.Minute,
	}
}

// ---------------------------------------------------------------------------
// Config Tests
// ---------------------------------------------------------------------------

func TestDefaultExpirationSchedulerConfig(t *testing.T) {
	config := DefaultExpirationSchedulerConfig()

	assert.True(t, config.Enabled)
	assert.Equal(t, 5*time.Minute, config.LinkSweepInterval)
	assert.Equal(t, time.Hour, config.SessionSweepInterval)
	assert.Equal(t, 5*time.Minute, config.JobTimeout)
	assert.NoError(t, config.Validate())
}

func TestExpirationSchedulerConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*ExpirationSchedulerConfig)
		wantErr bool
	}{
		{
			name:    "valid config",
			mutate:  func(c *ExpirationSchedulerConfig) {},
			wantErr: false,
		},
		{
			name:    "zero link sweep interval",
			mutate:  func(c *ExpirationSchedulerConfig) { c.LinkSweepInterval = 0 },
			wantErr: true,
		},
		{
			name:    "negative session sweep interval",
			mutate:  func(c *ExpirationSchedulerConfig) { c.SessionSweepInterval = -time.Second },
			wantErr: true,
		},
		{
			name:    "zero job timeout",
			mutate:  func(c *ExpirationSchedulerConfig) { c.JobTimeout = 0 },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := DefaultExpirationSchedulerConfig()
			tt.mutate(&config)

			err := config.Validate()

			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidConfig)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// ExpirationScheduler Tests
// ---------------------------------------------------------------------------

func TestNewExpirationScheduler(t *testing.T) {
	sched, _, _ := newTestScheduler(t, DefaultExpirationSchedulerConfig())

	assert.NotNil(t, sched)
	assert.False(t, sched.IsRunning())
}

func TestNewExpirationScheduler_InvalidConfig(t *testing.T) {
	links := &mockLinkSweeper{}
	sessions := &mockSessionSweeper{}

	sched, err := NewExpirationScheduler(links, sessions, newTestLogger(), ExpirationSchedulerConfig{Enabled: true})

	assert.ErrorIs(t, err, ErrInvalidConfig)
	assert.Nil(t, sched)
}

func TestExpirationScheduler_StartStop(t *testing.T) {
	sched, _, _ := newTestScheduler(t, slowSweepConfig())
	ctx := context.Background()

	err := sched.Start(ctx)
	require.NoError(t, err)
	assert.True(t, sched.IsRunning())

	// Start again should be idempotent
	err = sched.Start(ctx)
	require.NoError(t, err)

	stopCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	err = sched.Stop(stopCtx)
	require.NoError(t, err)
	assert.False(t, sched.IsRunning())

	// Stop again should be idempotent
	err = sched.Stop(stopCtx)
	require.NoError(t, err)
}

func TestExpirationScheduler_Disabled(t *testing.T) {
	config := slowSweepConfig()
	config.Enabled = false
	sched, links, sessions := newTestScheduler(t, config)

	err := sched.Start(context.Background())

	require.NoError(t, err)
	assert.False(t, sched.IsRunning())
	assert.Equal(t, int32(0), links.count())
	assert.Equal(t, int32(0), sessions.count())
}

func TestExpirationScheduler_SweepsOnStart(t *testing.T) {
	sched, links, sessions := newTestScheduler(t, slowSweepConfig())
	ctx := context.Background()

	require.NoError(t, sched.Start(ctx))
	defer sched.Stop(ctx)

	// Give the startup sweeps time to run
	time.Sleep(100 * time.Millisecond)

	assert.Equal(t, int32(1), links.count())
	assert.Equal(t, int32(1), sessions.count())
}

func TestExpirationScheduler_PeriodicSweeps(t *testing.T) {
	config := ExpirationSchedulerConfig{
		Enabled:              true,
		LinkSweepInterval:    50 * time.Millisecond,
		SessionSweepInterval: 50 * time.Millisecond,
		JobTimeout:           time.Minute,
	}
	sched, links, sessions := newTestScheduler(t, config)
	ctx := context.Background()

	require.NoError(t, sched.Start(ctx))
	defer sched.Stop(ctx)

	time.Sleep(300 * time.Millisecond)

	// Startup sweep plus several ticks each
	assert.GreaterOrEqual(t, links.count(), int32(3))
	assert.GreaterOrEqual(t, sessions.count(), int32(3))
}

func TestExpirationScheduler_TriggerLinkSweep(t *testing.T) {
	sched, links, _ := newTestScheduler(t, slowSweepConfig())
	ctx := context.Background()

	require.NoError(t, sched.Start(ctx))
	defer sched.Stop(ctx)

	// Wait out the startup sweep first
	time.Sleep(100 * time.Millisecond)
	require.Equal(t, int32(1), links.count())

	err := sched.TriggerLinkSweep(ctx)
	require.NoError(t, err)

	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, int32(2), links.count())
}

func TestExpirationScheduler_TriggerSessionSweep(t *testing.T) {
	sched, _, sessions := newTestScheduler(t, slowSweepConfig())
	ctx := context.Background()

	require.NoError(t, sched.Start(ctx))
	defer sched.Stop(ctx)

	time.Sleep(100 * time.Millisecond)
	require.Equal(t, int32(1), sessions.count())

	err := sched.TriggerSessionSweep(ctx)
	require.NoError(t, err)

	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, int32(2), sessions.count())
}

func TestExpirationScheduler_TriggerNotRunning(t *testing.T) {
	sched, _, _ := newTestScheduler(t, slowSweepConfig())
	ctx := context.Background()

	assert.ErrorIs(t, sched.TriggerLinkSweep(ctx), ErrSchedulerNotRunning)
	assert.ErrorIs(t, sched.TriggerSessionSweep(ctx), ErrSchedulerNotRunning)

	require.NoError(t, sched.Start(ctx))
	stopCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	require.NoError(t, sched.Stop(stopCtx))

	assert.ErrorIs(t, sched.TriggerLinkSweep(ctx), ErrSchedulerNotRunning)
	assert.ErrorIs(t, sched.TriggerSessionSweep(ctx), ErrSchedulerNotRunning)
}

func TestExpirationScheduler_SweepErrorKeepsRunning(t *testing.T) {
	sched, links, sessions := newTestScheduler(t, slowSweepConfig())
	links.sweepFunc = func(ctx context.Context) (*linking.ExpiredLinkStats, error) {
		return nil, errors.New("database unavailable")
	}
	sessions.sweepFunc = func(ctx context.Context) (int64, error) {
		return 0, errors.New("database unavailable")
	}
	ctx := context.Background()

	require.NoError(t, sched.Start(ctx))
	defer sched.Stop(ctx)

	time.Sleep(100 * time.Millisecond)
	require.Equal(t, int32(1), links.count())
	require.Equal(t, int32(1), sessions.count())

	// A failed sweep must not stop the scheduler
	assert.True(t, sched.IsRunning())
	require.NoError(t, sched.TriggerLinkSweep(ctx))

	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, int32(2), links.count())
}

func TestExpirationScheduler_SweepReportsStats(t *testing.T) {
	sched, links, _ := newTestScheduler(t, slowSweepConfig())
	links.sweepFunc = func(ctx context.Context) (*linking.ExpiredLinkStats, error) {
		return &linking.ExpiredLinkStats{
			TotalOverdue: 3,
			Expired:      2,
			Failed:       1,
			ProcessedAt:  time.Now(),
		}, nil
	}
	ctx := context.Background()

	require.NoError(t, sched.Start(ctx))

	time.Sleep(100 * time.Millisecond)
	require.Equal(t, int32(1), links.count())

	stopCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	require.NoError(t, sched.Stop(stopCtx))
}

func TestExpirationScheduler_SweepContextHasTimeout(t *testing.T) {
	sched, links, _ := newTestScheduler(t, slowSweepConfig())

	deadlineSeen := make(chan bool, 1)
	links.sweepFunc = func(ctx context.Context) (*linking.ExpiredLinkStats, error) {
		_, ok := ctx.Deadline()
		deadlineSeen <- ok
		return &linking.ExpiredLinkStats{ProcessedAt: time.Now()}, nil
	}
	ctx := context.Background()

	require.NoError(t, sched.Start(ctx))
	defer sched.Stop(ctx)

	select {
	case ok := <-deadlineSeen:
		assert.True(t, ok, "sweep context should carry the job timeout deadline")
	case <-time.After(time.Second):
		t.Fatal("link sweep was never executed")
	}
}
