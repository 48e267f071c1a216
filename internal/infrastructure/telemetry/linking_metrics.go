// Package telemetry provides OpenTelemetry integration for metrics collection.
package telemetry

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// LinkingMetrics provides business metrics for the partner API.
// It tracks identity link outcomes, search session activity, and the
// disambiguation backlog.
type LinkingMetrics struct {
	meter  metric.Meter
	logger *zap.Logger

	// Counter metrics (monotonically increasing)
	agentLinksTotal         *Counter
	clientLinksTotal        *Counter
	clientLinksPendingTotal *Counter
	clientLinksExpiredTotal *Counter
	searchSessionsTotal     *Counter

	// Distribution of match confidence at link time
	clientLinkConfidence *Histogram

	// Gauge metrics (point-in-time values)
	pendingClientLinks   *Gauge
	activeSearchSessions *Gauge

	// Periodic collector
	stopChan    chan struct{}
	stopOnce    sync.Once
	collectOnce sync.Once

	// Data provider for periodic collection
	linkStoreProvider LinkStoreMetricsProvider
}

// LinkStoreMetricsProvider provides link store data for periodic metrics
// collection. This interface allows the telemetry layer to query link state
// without depending on the linking domain directly.
type LinkStoreMetricsProvider interface {
	// CountPendingClientLinksByPartner returns the number of unresolved client
	// links per partner
	CountPendingClientLinksByPartner(ctx context.Context) (map[uuid.UUID]int64, error)

	// CountActiveSearchSessions returns the number of non-expired search sessions
	CountActiveSearchSessions(ctx context.Context) (int64, error)
}

// LinkingMetricsConfig holds configuration for linking metrics.
type LinkingMetricsConfig struct {
	Meter             metric.Meter
	Logger            *zap.Logger
	CollectInterval   time.Duration // Default: 5 minutes
	LinkStoreProvider LinkStoreMetricsProvider
}

// NewLinkingMetrics creates a new LinkingMetrics instance.
func NewLinkingMetrics(cfg LinkingMetricsConfig) (*LinkingMetrics, error) {
	if cfg.Meter == nil {
		return nil, ErrMeterNil
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	lm := &LinkingMetrics{
		meter:             cfg.Meter,
		logger:            logger,
		stopChan:          make(chan struct{}),
		linkStoreProvider: cfg.LinkStoreProvider,
	}

	// Initialize counter metrics
	var err error

	// Agent link metrics
	lm.agentLinksTotal, err = NewCounter(
		cfg.Meter,
		"outfit_agent_links_total",
		"Total number of agent links established",
		"{links}",
	)
	if err != nil {
		return nil, err
	}

	// Client link metrics
	lm.clientLinksTotal, err = NewCounter(
		cfg.Meter,
		"outfit_client_links_total",
		"Total number of client links finalized",
		"{links}",
	)
	if err != nil {
		return nil, err
	}

	lm.clientLinksPendingTotal, err = NewCounter(
		cfg.Meter,
		"outfit_client_links_pending_total",
		"Total number of client verifications parked for disambiguation",
		"{links}",
	)
	if err != nil {
		return nil, err
	}

	lm.clientLinksExpiredTotal, err = NewCounter(
		cfg.Meter,
		"outfit_client_links_expired_total",
		"Total number of pending client links that expired unresolved",
		"{links}",
	)
	if err != nil {
		return nil, err
	}

	lm.clientLinkConfidence, err = NewHistogram(cfg.Meter, HistogramOpts{
		Name:        "outfit_client_link_confidence",
		Description: "Match confidence at the moment a client link was finalized",
		Unit:        "1",
		Boundaries:  ConfidenceBuckets,
	})
	if err != nil {
		return nil, err
	}

	// Search metrics
	lm.searchSessionsTotal, err = NewCounter(
		cfg.Meter,
		"outfit_search_sessions_total",
		"Total number of search sessions created",
		"{sessions}",
	)
	if err != nil {
		return nil, err
	}

	// Gauge metrics
	lm.pendingClientLinks, err = NewGauge(
		cfg.Meter,
		"outfit_pending_client_links",
		"Current number of client links awaiting disambiguation",
		"{links}",
	)
	if err != nil {
		return nil, err
	}

	lm.activeSearchSessions, err = NewGauge(
		cfg.Meter,
		"outfit_active_search_sessions",
		"Current number of non-expired search sessions",
		"{sessions}",
	)
	if err != nil {
		return nil, err
	}

	return lm, nil
}

// =============================================================================
// Link Metrics
// =============================================================================

// Account origin labels for agent link metrics.
const (
	accountOriginCreated = "created"
	accountOriginMatched = "matched"
)

// RecordAgentLinked records an agent link being established, split by whether
// the internal account was created for it or matched to an existing one.
func (lm *LinkingMetrics) RecordAgentLinked(ctx context.Context, accountCreated bool) {
	origin := accountOriginMatched
	if accountCreated {
		origin = accountOriginCreated
	}
	lm.agentLinksTotal.Inc(ctx,
		AttrAccountOrigin.String(origin),
	)
}

// RecordClientLinked records a finalized client link. method is the link
// method (auto, manual, created) and confidence the match score that sealed it.
func (lm *LinkingMetrics) RecordClientLinked(ctx context.Context, method string, confidence float64) {
	lm.clientLinksTotal.Inc(ctx,
		AttrLinkMethod.String(method),
	)
	lm.clientLinkConfidence.Record(ctx, confidence,
		AttrLinkMethod.String(method),
	)
}

// RecordClientLinkPending records a verification being parked for disambiguation.
func (lm *LinkingMetrics) RecordClientLinkPending(ctx context.Context) {
	lm.clientLinksPendingTotal.Inc(ctx)
}

// RecordClientLinkExpired records a pending link expiring unresolved.
func (lm *LinkingMetrics) RecordClientLinkExpired(ctx context.Context) {
	lm.clientLinksExpiredTotal.Inc(ctx)
}

// =============================================================================
// Search Metrics
// =============================================================================

// Query kind labels for search session metrics.
const (
	queryKindFreeText   = "free_text"
	queryKindStructured = "structured"
)

// RecordSearchSession records a search session being created.
func (lm *LinkingMetrics) RecordSearchSession(ctx context.Context, freeText bool) {
	kind := queryKindStructured
	if freeText {
		kind = queryKindFreeText
	}
	lm.searchSessionsTotal.Inc(ctx,
		AttrQueryKind.String(kind),
	)
}

// =============================================================================
// Gauge Metrics
// =============================================================================

// RecordPendingClientLinks records the current disambiguation backlog for a partner.
// This is a gauge metric that should be updated periodically.
func (lm *LinkingMetrics) RecordPendingClientLinks(ctx context.Context, partnerID uuid.UUID, count int64) {
	lm.pendingClientLinks.Record(ctx, count,
		AttrPartnerID.String(partnerID.String()),
	)
}

// RecordActiveSearchSessions records the current number of live search sessions.
// This is a gauge metric that should be updated periodically.
func (lm *LinkingMetrics) RecordActiveSearchSessions(ctx context.Context, count int64) {
	lm.activeSearchSessions.Record(ctx, count)
}

// =============================================================================
// Periodic Collection
// =============================================================================

// StartPeriodicCollection starts periodic collection of gauge metrics.
// It collects link store metrics every interval (default: 5 minutes).
// This is non-blocking - use Stop() to stop collection.
func (lm *LinkingMetrics) StartPeriodicCollection(ctx context.Context, interval time.Duration) {
	lm.collectOnce.Do(func() {
		if interval <= 0 {
			interval = 5 * time.Minute
		}

		go lm.runPeriodicCollection(ctx, interval)
	})
}

// runPeriodicCollection runs the periodic collection loop.
func (lm *LinkingMetrics) runPeriodicCollection(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	// Collect immediately on start
	lm.collectLinkStoreMetrics(ctx)

	for {
		select {
		case <-lm.stopChan:
			lm.logger.Info("Stopping periodic linking metrics collection")
			return
		case <-ctx.Done():
			lm.logger.Info("Context cancelled, stopping periodic linking metrics collection")
			return
		case <-ticker.C:
			lm.collectLinkStoreMetrics(ctx)
		}
	}
}

// collectLinkStoreMetrics collects link store gauge metrics.
func (lm *LinkingMetrics) collectLinkStoreMetrics(ctx context.Context) {
	if lm.linkStoreProvider == nil {
		lm.logger.Debug("No link store provider configured, skipping link store metrics collection")
		return
	}

	pendingByPartner, err := lm.linkStoreProvider.CountPendingClientLinksByPartner(ctx)
	if err != nil {
		lm.logger.Warn("Failed to count pending client links", zap.Error(err))
	} else {
		for partnerID, count := range pendingByPartner {
			lm.RecordPendingClientLinks(ctx, partnerID, count)
		}
	}

	activeSessions, err := lm.linkStoreProvider.CountActiveSearchSessions(ctx)
	if err != nil {
		lm.logger.Warn("Failed to count active search sessions", zap.Error(err))
	} else {
		lm.RecordActiveSearchSessions(ctx, activeSessions)
	}
}

// Stop stops the periodic collection.
func (lm *LinkingMetrics) Stop() {
	lm.stopOnce.Do(func() {
		close(lm.stopChan)
	})
}

// =============================================================================
// Error Types
// =============================================================================

// ErrMeterNil is returned when meter is nil.
var ErrMeterNil = &MetricsError{Op: "NewLinkingMetrics", Err: "meter cannot be nil"}

// MetricsError represents a metrics-related error.
type MetricsError struct {
	Op  string
	Err string
}

func (e *MetricsError) Error() string {
	return e.Op + ": " + e.Err
}
