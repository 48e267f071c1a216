package scheduler

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/outfit/partner-api/internal/application/linking"
)

// LinkSweeper expires pending client links whose disambiguation deadline passed.
type LinkSweeper interface {
	ExpireOverdueLinks(ctx context.Context) (*linking.ExpiredLinkStats, error)
}

// SessionSweeper expires search sessions whose deeplinks are no longer usable.
type SessionSweeper interface {
	ExpireSessions(ctx context.Context) (int64, error)
}

// ExpirationSchedulerConfig holds configuration for the expiration scheduler
type ExpirationSchedulerConfig struct {
	// Enabled determines if the scheduler is active
	Enabled bool

	// LinkSweepInterval is how often overdue pending links are expired
	LinkSweepInterval time.Duration

	// SessionSweepInterval is how often stale search sessions are expired
	SessionSweepInterval time.Duration

	// JobTimeout is the maximum time for a single sweep run
	JobTimeout time.Duration
}

// DefaultExpirationSchedulerConfig returns default configuration
func DefaultExpirationSchedulerConfig() ExpirationSchedulerConfig {
	return ExpirationSchedulerConfig{
		Enabled:              true,
		LinkSweepInterval:    5 * time.Minute,
		SessionSweepInterval: time.Hour,
		JobTimeout:           5 * time.Minute,
	}
}

// Validate validates the configuration
func (c *ExpirationSchedulerConfig) Validate() error {
	if c.LinkSweepInterval <= 0 {
		return ErrInvalidConfig
	}
	if c.SessionSweepInterval <= 0 {
		return ErrInvalidConfig
	}
	if c.JobTimeout <= 0 {
		return ErrInvalidConfig
	}
	return nil
}

// ExpirationScheduler sweeps overdue pending links and stale search sessions
// in the background. Both sweeps are idempotent, so a run that overlaps a
// restart or a manual trigger does no harm.
type ExpirationScheduler struct {
	links    LinkSweeper
	sessions SessionSweeper
	logger   *zap.Logger
	config   ExpirationSchedulerConfig

	cancel    context.CancelFunc
	wg        sync.WaitGroup
	mu        sync.Mutex
	isRunning bool
}

// NewExpirationScheduler creates a new expiration scheduler
func NewExpirationScheduler(
	links LinkSweeper,
	sessions SessionSweeper,
	logger *zap.Logger,
	config ExpirationSchedulerConfig,
) (*ExpirationScheduler, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &ExpirationScheduler{
		links:    links,
		sessions: sessions,
		logger:   logger,
		config:   config,
	}, nil
}

// Start starts the expiration scheduler
func (s *ExpirationScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return nil
	}
	if !s.config.Enabled {
		s.mu.Unlock()
		s.logger.Info("Expiration scheduler is disabled")
		return nil
	}
	s.isRunning = true
	s.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	s.wg.Add(1)
	go s.runLinkSweeps(ctx)

	s.wg.Add(1)
	go s.runSessionSweeps(ctx)

	s.logger.Info("Expiration scheduler started",
		zap.Duration("link_sweep_interval", s.config.LinkSweepInterval),
		zap.Duration("session_sweep_interval", s.config.SessionSweepInterval),
	)

	return nil
}

// Stop gracefully stops the scheduler
func (s *ExpirationScheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = false
	s.mu.Unlock()

	if s.cancel != nil {
		s.cancel()
	}

	// Wait for goroutines to finish with timeout
	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("Expiration scheduler stopped gracefully")
		return nil
	case <-ctx.Done():
		s.logger.Warn("Expiration scheduler stop timed out")
		return ctx.Err()
	}
}

// runLinkSweeps expires overdue pending links on a fixed interval
func (s *ExpirationScheduler) runLinkSweeps(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.config.LinkSweepInterval)
	defer ticker.Stop()

	// Sweep once at startup, then on every tick
	s.executeLinkSweep(ctx)

	for {
		select {
		case <-ctx.Done():
			s.logger.Debug("Link sweep loop stopping")
			return
		case <-ticker.C:
			s.executeLinkSweep(ctx)
		}
	}
}

// runSessionSweeps expires stale search sessions on a fixed interval
func (s *ExpirationScheduler) runSessionSweeps(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.config.SessionSweepInterval)
	defer ticker.Stop()

	// Sweep once at startup, then on every tick
	s.executeSessionSweep(ctx)

	for {
		select {
		case <-ctx.Done():
			s.logger.Debug("Session sweep loop stopping")
			return
		case <-ticker.C:
			s.executeSessionSweep(ctx)
		}
	}
}

// executeLinkSweep runs a single pending link sweep
func (s *ExpirationScheduler) executeLinkSweep(ctx context.Context) {
	sweepCtx, cancel := context.WithTimeout(ctx, s.config.JobTimeout)
	defer cancel()

	startTime := time.Now()
	stats, err := s.links.ExpireOverdueLinks(sweepCtx)
	duration := time.Since(startTime)

	if err != nil {
		s.logger.Error("Pending link sweep failed",
			zap.Duration("duration", duration),
			zap.Error(err),
		)
		return
	}

	// Quiet runs are the common case; only log when something was swept
	if stats.TotalOverdue == 0 {
		return
	}

	s.logger.Info("Pending link sweep completed",
		zap.Duration("duration", duration),
		zap.Int("total_overdue", stats.TotalOverdue),
		zap.Int("expired", stats.Expired),
		zap.Int("failed", stats.Failed),
	)
}

// executeSessionSweep runs a single search session sweep
func (s *ExpirationScheduler) executeSessionSweep(ctx context.Context) {
	sweepCtx, cancel := context.WithTimeout(ctx, s.config.JobTimeout)
	defer cancel()

	startTime := time.Now()
	expired, err := s.sessions.ExpireSessions(sweepCtx)
	duration := time.Since(startTime)

	if err != nil {
		s.logger.Error("Search session sweep failed",
			zap.Duration("duration", duration),
			zap.Error(err),
		)
		return
	}

	if expired == 0 {
		return
	}

	s.logger.Info("Search session sweep completed",
		zap.Duration("duration", duration),
		zap.Int64("expired", expired),
	)
}

// TriggerLinkSweep triggers an immediate pending link sweep
func (s *ExpirationScheduler) TriggerLinkSweep(ctx context.Context) error {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return ErrSchedulerNotRunning
	}
	s.wg.Add(1)
	s.mu.Unlock()

	s.logger.Info("Triggering immediate pending link sweep")

	// Run in a goroutine to not block
	go func() {
		defer s.wg.Done()
		s.executeLinkSweep(ctx)
	}()

	return nil
}

// TriggerSessionSweep triggers an immediate search session sweep
func (s *ExpirationScheduler) TriggerSessionSweep(ctx context.Context) error {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return ErrSchedulerNotRunning
	}
	s.wg.Add(1)
	s.mu.Unlock()

	s.logger.Info("Triggering immediate search session sweep")

	// Run in a goroutine to not block
	go func() {
		defer s.wg.Done()
		s.executeSessionSweep(ctx)
	}()

	return nil
}

// IsRunning returns whether the scheduler is running
func (s *ExpirationScheduler) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.isRunning
}
