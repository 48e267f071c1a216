package linking

import (
	"context"

	"github.com/outfit/partner-api/internal/domain/linking"
	"github.com/outfit/partner-api/internal/domain/shared"
	"go.uber.org/zap"
)

// LinkAuditHandler writes an audit trail for every link lifecycle event.
// Identity linking decides which internal account a partner identifier
// resolves to, so each transition is logged with enough context to
// reconstruct how a link came to be.
type LinkAuditHandler struct {
	logger *zap.Logger
}

// NewLinkAuditHandler creates a new LinkAuditHandler
func NewLinkAuditHandler(logger *zap.Logger) *LinkAuditHandler {
	return &LinkAuditHandler{
		logger: logger.Named("link_audit"),
	}
}

// EventTypes returns the event types this handler is interested in
func (h *LinkAuditHandler) EventTypes() []string {
	return []string{
		linking.EventTypeAgentLinked,
		linking.EventTypeClientLinkPending,
		linking.EventTypeClientLinked,
		linking.EventTypeClientLinkExpired,
	}
}

// Handle writes one audit line per link event
func (h *LinkAuditHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	switch e := event.(type) {
	case *linking.AgentLinkedEvent:
		h.logger.Info("agent linked",
			zap.String("link_id", e.LinkID.String()),
			zap.String("partner_id", e.PartnerID.String()),
			zap.String("partner_agent_id", e.PartnerAgentID),
			zap.String("agent_account_id", e.AgentAccountID.String()),
			zap.Bool("account_created", e.AccountCreated),
		)
	case *linking.ClientLinkPendingEvent:
		h.logger.Info("client link pending disambiguation",
			zap.String("link_id", e.LinkID.String()),
			zap.String("partner_id", e.PartnerID.String()),
			zap.String("partner_client_id", e.PartnerClientID),
			zap.String("agent_link_id", e.AgentLinkID.String()),
		)
	case *linking.ClientLinkedEvent:
		h.logger.Info("client linked",
			zap.String("link_id", e.LinkID.String()),
			zap.String("partner_id", e.PartnerID.String()),
			zap.String("partner_client_id", e.PartnerClientID),
			zap.String("client_account_id", e.ClientAccountID.String()),
			zap.Float64("confidence", e.Confidence),
			zap.String("method", string(e.Method)),
		)
	case *linking.ClientLinkExpiredEvent:
		h.logger.Info("client link expired unresolved",
			zap.String("link_id", e.LinkID.String()),
			zap.String("partner_id", e.PartnerID.String()),
			zap.String("partner_client_id", e.PartnerClientID),
		)
	default:
		h.logger.Debug("unhandled link event", zap.String("event_type", event.EventType()))
	}
	return nil
}

// Ensure LinkAuditHandler implements shared.EventHandler
var _ shared.EventHandler = (*LinkAuditHandler)(nil)
