package partner

import (
	"context"

	"github.com/outfit/partner-api/internal/domain/partner"
	"github.com/outfit/partner-api/internal/domain/shared"
	"go.uber.org/zap"
)

// CredentialEvictionHandler evicts cached API key verifications when a
// partner's key is rotated or its status changes. Without eviction a rotated
// or suspended key would keep authenticating until the cache TTL ran out.
type CredentialEvictionHandler struct {
	cache  partner.CredentialCache
	logger *zap.Logger
}

// NewCredentialEvictionHandler creates a new CredentialEvictionHandler
func NewCredentialEvictionHandler(cache partner.CredentialCache, logger *zap.Logger) *CredentialEvictionHandler {
	return &CredentialEvictionHandler{
		cache:  cache,
		logger: logger.Named("credential_eviction"),
	}
}

// EventTypes returns the event types this handler is interested in
func (h *CredentialEvictionHandler) EventTypes() []string {
	return []string{
		partner.EventTypePartnerAPIKeyRotated,
		partner.EventTypePartnerStatusChanged,
	}
}

// Handle evicts the prefixes named by the event. Rotation evicts both the old
// prefix (the superseded key) and the new one (in case the prefix collided
// with a stale entry); status changes evict the current prefix so the next
// request re-verifies against the stored status.
func (h *CredentialEvictionHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	switch e := event.(type) {
	case *partner.PartnerAPIKeyRotatedEvent:
		h.evict(ctx, e.OldAPIKeyPrefix)
		h.evict(ctx, e.APIKeyPrefix)
		h.logger.Info("evicted credentials after key rotation",
			zap.String("partner_id", e.PartnerID.String()),
			zap.String("old_prefix", e.OldAPIKeyPrefix),
		)
	case *partner.PartnerStatusChangedEvent:
		h.evict(ctx, e.APIKeyPrefix)
		h.logger.Info("evicted credentials after status change",
			zap.String("partner_id", e.PartnerID.String()),
			zap.String("old_status", string(e.OldStatus)),
			zap.String("new_status", string(e.NewStatus)),
		)
	default:
		h.logger.Debug("unhandled partner event", zap.String("event_type", event.EventType()))
	}
	return nil
}

func (h *CredentialEvictionHandler) evict(ctx context.Context, prefix string) {
	if prefix == "" {
		return
	}
	if err := h.cache.Delete(ctx, prefix); err != nil {
		// Eviction is best-effort: a failed delete falls back to the TTL
		h.logger.Error("failed to evict credential",
			zap.String("prefix", prefix),
			zap.Error(err),
		)
	}
}

// Ensure CredentialEvictionHandler implements shared.EventHandler
var _ shared.EventHandler = (*CredentialEvictionHandler)(nil)
