package linking

import (
	"context"

	"github.com/outfit/partner-api/internal/domain/linking"
	"github.com/outfit/partner-api/internal/domain/search"
	"github.com/outfit/partner-api/internal/domain/shared"
	"go.uber.org/zap"
)

// LinkMetricsRecorder records linking outcomes. Implemented by the telemetry
// package; a nil recorder disables recording.
type LinkMetricsRecorder interface {
	// RecordAgentLinked counts an agent link, split by whether the internal
	// account was created or matched
	RecordAgentLinked(ctx context.Context, accountCreated bool)
	// RecordClientLinked counts a finalized client link by method
	RecordClientLinked(ctx context.Context, method string, confidence float64)
	// RecordClientLinkPending counts a disambiguation being opened
	RecordClientLinkPending(ctx context.Context)
	// RecordClientLinkExpired counts a disambiguation expiring unresolved
	RecordClientLinkExpired(ctx context.Context)
	// RecordSearchSession counts a search session being created
	RecordSearchSession(ctx context.Context, freeText bool)
}

// LinkMetricsHandler feeds link lifecycle events into the metrics recorder
type LinkMetricsHandler struct {
	recorder LinkMetricsRecorder
	logger   *zap.Logger
}

// NewLinkMetricsHandler creates a new LinkMetricsHandler
func NewLinkMetricsHandler(recorder LinkMetricsRecorder, logger *zap.Logger) *LinkMetricsHandler {
	return &LinkMetricsHandler{
		recorder: recorder,
		logger:   logger,
	}
}

// EventTypes returns the event types this handler is interested in
func (h *LinkMetricsHandler) EventTypes() []string {
	return []string{
		linking.EventTypeAgentLinked,
		linking.EventTypeClientLinkPending,
		linking.EventTypeClientLinked,
		linking.EventTypeClientLinkExpired,
		search.EventTypeSearchSessionCreated,
	}
}

// Handle records the metric matching the event
func (h *LinkMetricsHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	if h.recorder == nil {
		return nil
	}

	switch e := event.(type) {
	case *linking.AgentLinkedEvent:
		h.recorder.RecordAgentLinked(ctx, e.AccountCreated)
	case *linking.ClientLinkPendingEvent:
		h.recorder.RecordClientLinkPending(ctx)
	case *linking.ClientLinkedEvent:
		h.recorder.RecordClientLinked(ctx, string(e.Method), e.Confidence)
	case *linking.ClientLinkExpiredEvent:
		h.recorder.RecordClientLinkExpired(ctx)
	case *search.SearchSessionCreatedEvent:
		h.recorder.RecordSearchSession(ctx, e.FreeText)
	default:
		h.logger.Debug("unhandled metrics event", zap.String("event_type", event.EventType()))
	}
	return nil
}

// Ensure LinkMetricsHandler implements shared.EventHandler
var _ shared.EventHandler = (*LinkMetricsHandler)(nil)
