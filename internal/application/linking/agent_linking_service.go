package linking

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/outfit/partner-api/internal/domain/account"
	"github.com/outfit/partner-api/internal/domain/linking"
	"github.com/outfit/partner-api/internal/domain/shared"
	"go.uber.org/zap"
)

// eventSource is the slice of an aggregate the services need for publishing
type eventSource interface {
	GetDomainEvents() []shared.DomainEvent
	ClearDomainEvents()
}

// AgentLinkingService links partner agent identifiers to internal agent
// accounts. Linking is idempotent per (partner_id, partner_agent_id): the
// first call decides the account, every later call returns the same one.
type AgentLinkingService struct {
	agentLinks    linking.AgentLinkRepository
	agentAccounts account.AgentAccountRepository
	locks         shared.KeyedMutex
	lockTTL       time.Duration
	eventBus      shared.EventPublisher
	logger        *zap.Logger
}

// NewAgentLinkingService creates a new AgentLinkingService
func NewAgentLinkingService(
	agentLinks linking.AgentLinkRepository,
	agentAccounts account.AgentAccountRepository,
	locks shared.KeyedMutex,
	lockTTL time.Duration,
	eventBus shared.EventPublisher,
	logger *zap.Logger,
) *AgentLinkingService {
	if lockTTL <= 0 {
		lockTTL = shared.DefaultLockConfig().TTL
	}
	return &AgentLinkingService{
		agentLinks:    agentLinks,
		agentAccounts: agentAccounts,
		locks:         locks,
		lockTTL:       lockTTL,
		eventBus:      eventBus,
		logger:        logger,
	}
}

// CreateAgent links the partner's agent identifier to an agent account. An
// existing link is returned as-is; an unknown identifier with a known email
// links to that account; otherwise a fresh account is created. Two different
// partner identifiers never collapse onto one account through this path
// unless their emails match exactly.
func (s *AgentLinkingService) CreateAgent(ctx context.Context, partnerID uuid.UUID, req CreateAgentRequest) (*CreateAgentResponse, error) {
	// Fast path: replay of an already-linked agent needs no lock
	if link, err := s.agentLinks.FindByPartnerAgentID(ctx, partnerID, req.PartnerAgentID); err == nil {
		return agentLinkResponse(link), nil
	} else if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	key := agentLinkKey(partnerID, req.PartnerAgentID)
	unlock, err := s.locks.Acquire(ctx, key, s.lockTTL)
	if err != nil {
		return nil, fmt.Errorf("acquire link mutex %s: %w", key, err)
	}
	defer func() {
		if err := unlock(ctx); err != nil {
			s.logger.Warn("Failed to release link mutex", zap.String("key", key), zap.Error(err))
		}
	}()

	// Re-check under the lock: another writer may have linked meanwhile
	if link, err := s.agentLinks.FindByPartnerAgentID(ctx, partnerID, req.PartnerAgentID); err == nil {
		return agentLinkResponse(link), nil
	} else if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	agent, created, err := s.findOrCreateAgentAccount(ctx, req)
	if err != nil {
		return nil, err
	}

	link, err := linking.NewAgentLink(partnerID, req.PartnerAgentID, agent.ID, created)
	if err != nil {
		return nil, err
	}

	stored, inserted, err := s.agentLinks.CreateIfAbsent(ctx, link)
	if err != nil {
		return nil, err
	}
	if !inserted {
		// A concurrent writer slipped past the mutex (e.g. in-memory
		// fallback across instances). The stored row is the answer.
		s.logger.Warn("Agent link lost insert race, returning winner",
			zap.String("partner_id", partnerID.String()),
			zap.String("partner_agent_id", req.PartnerAgentID),
		)
		return agentLinkResponse(stored), nil
	}

	s.publishEvents(ctx, agent)
	s.publishEvents(ctx, link)

	s.logger.Info("Agent linked",
		zap.String("partner_id", partnerID.String()),
		zap.String("partner_agent_id", req.PartnerAgentID),
		zap.String("agent_account_id", agent.ID.String()),
		zap.Bool("account_created", created),
	)

	return agentLinkResponse(link), nil
}

// findOrCreateAgentAccount resolves the internal account for the submitted
// email, creating one when no account carries it yet.
func (s *AgentLinkingService) findOrCreateAgentAccount(ctx context.Context, req CreateAgentRequest) (*account.AgentAccount, bool, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	existing, err := s.agentAccounts.FindByEmail(ctx, email)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return nil, false, err
	}

	agent, err := account.NewAgentAccount(email, req.FirstName, req.LastName)
	if err != nil {
		return nil, false, err
	}
	if err := s.agentAccounts.Save(ctx, agent); err != nil {
		return nil, false, err
	}
	return agent, true, nil
}

func (s *AgentLinkingService) publishEvents(ctx context.Context, src eventSource) {
	if s.eventBus == nil {
		return
	}
	for _, event := range src.GetDomainEvents() {
		if err := s.eventBus.Publish(ctx, event); err != nil {
			// Event handling is best-effort; the link is already durable
			s.logger.Warn("Failed to publish domain event",
				zap.String("event_type", event.EventType()),
				zap.Error(err),
			)
		}
	}
	src.ClearDomainEvents()
}

func agentLinkResponse(link *linking.AgentLink) *CreateAgentResponse {
	return &CreateAgentResponse{
		PartnerAgentID:  link.PartnerAgentID,
		Linked:          true,
		ExistingAccount: !link.AccountCreated,
		OutfitAgentID:   link.AgentAccountID,
	}
}

func agentLinkKey(partnerID uuid.UUID, partnerAgentID string) string {
	return fmt.Sprintf("linking/%s/agent/%s", partnerID, partnerAgentID)
}
