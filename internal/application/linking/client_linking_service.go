package linking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/outfit/partner-api/internal/domain/account"
	"github.com/outfit/partner-api/internal/domain/linking"
	"github.com/outfit/partner-api/internal/domain/matching"
	"github.com/outfit/partner-api/internal/domain/shared"
	"go.uber.org/zap"
)

// DefaultPendingTTL bounds how long a disambiguation stays open
const DefaultPendingTTL = 24 * time.Hour

// ClientLinkingService links partner client identifiers to internal client
// accounts. Verification scores the submitted profile against the linked
// agent's own roster and either links outright, asks the partner to
// disambiguate, or creates a fresh account. Resolution finalizes a pending
// disambiguation. Both are idempotent per (partner_id, partner_client_id).
type ClientLinkingService struct {
	clientLinks    linking.ClientLinkRepository
	agentLinks     linking.AgentLinkRepository
	clientAccounts account.ClientAccountRepository
	matcher        *matching.Matcher
	locks          shared.KeyedMutex
	lockTTL        time.Duration
	pendingTTL     time.Duration
	eventBus       shared.EventPublisher
	logger         *zap.Logger
}

// NewClientLinkingService creates a new ClientLinkingService
func NewClientLinkingService(
	clientLinks linking.ClientLinkRepository,
	agentLinks linking.AgentLinkRepository,
	clientAccounts account.ClientAccountRepository,
	matcher *matching.Matcher,
	locks shared.KeyedMutex,
	lockTTL time.Duration,
	pendingTTL time.Duration,
	eventBus shared.EventPublisher,
	logger *zap.Logger,
) *ClientLinkingService {
	if lockTTL <= 0 {
		lockTTL = shared.DefaultLockConfig().TTL
	}
	if pendingTTL <= 0 {
		pendingTTL = DefaultPendingTTL
	}
	return &ClientLinkingService{
		clientLinks:    clientLinks,
		agentLinks:     agentLinks,
		clientAccounts: clientAccounts,
		matcher:        matcher,
		locks:          locks,
		lockTTL:        lockTTL,
		pendingTTL:     pendingTTL,
		eventBus:       eventBus,
		logger:         logger,
	}
}

// VerifyCustomer resolves the partner's client identifier against the linked
// agent's roster. Outcomes: already linked → original result replayed; one
// clear winner → auto-linked; plausible candidates → disambiguation with a
// pending link row; nothing close → fresh account, linked immediately.
func (s *ClientLinkingService) VerifyCustomer(ctx context.Context, partnerID uuid.UUID, req VerifyCustomerRequest) (*LinkResultResponse, error) {
	agentLink, err := s.agentLinks.FindByPartnerAgentID(ctx, partnerID, req.PartnerAgentID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.ErrAgentNotLinked
		}
		return nil, err
	}

	// Fast path: replay of an already-linked client needs no lock
	if link, err := s.clientLinks.FindByPartnerClientID(ctx, partnerID, req.PartnerClientID); err == nil && link.IsLinked() {
		return replayResult(link), nil
	} else if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	key := clientLinkKey(partnerID, req.PartnerClientID)
	unlock, err := s.locks.Acquire(ctx, key, s.lockTTL)
	if err != nil {
		return nil, fmt.Errorf("acquire link mutex %s: %w", key, err)
	}
	defer func() {
		if err := unlock(ctx); err != nil {
			s.logger.Warn("Failed to release link mutex", zap.String("key", key), zap.Error(err))
		}
	}()

	// Re-read under the lock: a concurrent verify may have decided already
	existing, err := s.clientLinks.FindByPartnerClientID(ctx, partnerID, req.PartnerClientID)
	if err != nil {
		if !errors.Is(err, shared.ErrNotFound) {
			return nil, err
		}
		existing = nil
	} else if existing.IsLinked() {
		return replayResult(existing), nil
	}

	profile := req.ClientInfo.Profile()
	outcome, candidates, err := s.evaluate(ctx, agentLink.AgentAccountID, profile)
	if err != nil {
		return nil, err
	}

	switch {
	case outcome.AutoLink != nil:
		result, err := s.storeLinked(ctx, partnerID, agentLink.ID, req.PartnerClientID, profile, existing,
			outcome.AutoLink.AccountID, outcome.AutoLink.Confidence, linking.LinkMethodAuto)
		if err != nil {
			return nil, err
		}
		s.logVerify(partnerID, req.PartnerClientID, result)
		return result, nil

	case len(outcome.Candidates) > 0:
		result, err := s.storePending(ctx, partnerID, agentLink.ID, req.PartnerClientID, profile, existing, candidates)
		if err != nil {
			return nil, err
		}
		s.logVerify(partnerID, req.PartnerClientID, result)
		return result, nil

	default:
		result, err := s.createAndLink(ctx, partnerID, agentLink, req.PartnerClientID, profile, existing)
		if err != nil {
			return nil, err
		}
		s.logVerify(partnerID, req.PartnerClientID, result)
		return result, nil
	}
}

// ResolveCustomer finalizes a pending disambiguation. Action "link" binds
// the link to the named roster account; action "create" makes a fresh
// account from the profile snapshotted at verify time. Resolving an
// already-linked client replays the linked result; an unknown or expired
// client must be re-verified first.
func (s *ClientLinkingService) ResolveCustomer(ctx context.Context, partnerID uuid.UUID, req ResolveCustomerRequest) (*LinkResultResponse, error) {
	link, err := s.clientLinks.FindByPartnerClientID(ctx, partnerID, req.PartnerClientID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.ErrClientNotLinked
		}
		return nil, err
	}
	if link.IsLinked() {
		return replayResult(link), nil
	}
	if link.IsExpired(time.Now()) {
		return nil, shared.ErrClientNotLinked
	}

	key := clientLinkKey(partnerID, req.PartnerClientID)
	unlock, err := s.locks.Acquire(ctx, key, s.lockTTL)
	if err != nil {
		return nil, fmt.Errorf("acquire link mutex %s: %w", key, err)
	}
	defer func() {
		if err := unlock(ctx); err != nil {
			s.logger.Warn("Failed to release link mutex", zap.String("key", key), zap.Error(err))
		}
	}()

	// Re-read under the lock
	link, err = s.clientLinks.FindByPartnerClientID(ctx, partnerID, req.PartnerClientID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.ErrClientNotLinked
		}
		return nil, err
	}
	if link.IsLinked() {
		return replayResult(link), nil
	}
	if link.IsExpired(time.Now()) {
		return nil, shared.ErrClientNotLinked
	}

	agentLink, err := s.agentLinks.FindByID(ctx, link.AgentLinkID)
	if err != nil {
		return nil, err
	}

	switch req.Action {
	case "link":
		return s.resolveToRosterAccount(ctx, link, agentLink, req.OutfitUserID)
	case "create":
		return s.resolveByCreating(ctx, link, agentLink)
	default:
		return nil, shared.NewDomainError("VALIDATION_ERROR", fmt.Sprintf("Unknown resolve action %q", req.Action))
	}
}

// evaluate scores the profile against the agent's active roster
func (s *ClientLinkingService) evaluate(ctx context.Context, agentAccountID uuid.UUID, profile linking.ClientProfile) (matching.Outcome, []linking.ClientCandidate, error) {
	roster, err := s.clientAccounts.FindActiveByAgent(ctx, agentAccountID)
	if err != nil {
		return matching.Outcome{}, nil, err
	}

	records := make([]matching.IdentifiedRecord, 0, len(roster))
	for i := range roster {
		records = append(records, matching.IdentifiedRecord{
			AccountID: roster[i].ID,
			Record:    roster[i].MatchRecord(),
		})
	}

	outcome := s.matcher.Evaluate(profile.MatchProfile(), records)
	return outcome, toClientCandidates(outcome.Candidates), nil
}

// storeLinked writes a linked client link, finalizing the existing pending
// row when there is one.
func (s *ClientLinkingService) storeLinked(
	ctx context.Context,
	partnerID, agentLinkID uuid.UUID,
	partnerClientID string,
	profile linking.ClientProfile,
	existing *linking.ClientLink,
	accountID uuid.UUID,
	confidence float64,
	method linking.LinkMethod,
) (*LinkResultResponse, error) {
	if existing != nil {
		if err := existing.Finalize(accountID, confidence, method); err != nil {
			return nil, err
		}
		if err := s.clientLinks.SaveWithLock(ctx, existing); err != nil {
			return nil, err
		}
		s.publishEvents(ctx, existing)
		return linkedResult(linkedAction(method, confidence), accountID, confidence), nil
	}

	link, err := linking.NewLinkedClientLink(partnerID, agentLinkID, partnerClientID, profile, accountID, confidence, method)
	if err != nil {
		return nil, err
	}
	stored, inserted, err := s.clientLinks.CreateIfAbsent(ctx, link)
	if err != nil {
		return nil, err
	}
	if !inserted {
		return s.adoptInsertWinner(ctx, stored, accountID, confidence, method)
	}

	s.publishEvents(ctx, link)
	return linkedResult(linkedAction(method, confidence), accountID, confidence), nil
}

// storePending writes or refreshes a pending link and returns the ranked
// candidates. Candidates themselves are never persisted.
func (s *ClientLinkingService) storePending(
	ctx context.Context,
	partnerID, agentLinkID uuid.UUID,
	partnerClientID string,
	profile linking.ClientProfile,
	existing *linking.ClientLink,
	candidates []linking.ClientCandidate,
) (*LinkResultResponse, error) {
	if existing != nil {
		if err := existing.Reopen(profile, s.pendingTTL); err != nil {
			return nil, err
		}
		if err := s.clientLinks.SaveWithLock(ctx, existing); err != nil {
			return nil, err
		}
		s.publishEvents(ctx, existing)
		return disambiguationResult(candidates), nil
	}

	link, err := linking.NewPendingClientLink(partnerID, agentLinkID, partnerClientID, profile, s.pendingTTL)
	if err != nil {
		return nil, err
	}
	stored, inserted, err := s.clientLinks.CreateIfAbsent(ctx, link)
	if err != nil {
		return nil, err
	}
	if !inserted && stored.IsLinked() {
		// A concurrent verify linked this client already
		return replayResult(stored), nil
	}
	if inserted {
		s.publishEvents(ctx, link)
	}

	return disambiguationResult(candidates), nil
}

// createAndLink provisions a fresh client account and links it outright
func (s *ClientLinkingService) createAndLink(
	ctx context.Context,
	partnerID uuid.UUID,
	agentLink *linking.AgentLink,
	partnerClientID string,
	profile linking.ClientProfile,
	existing *linking.ClientLink,
) (*LinkResultResponse, error) {
	client, err := account.NewClientAccount(agentLink.AgentAccountID, profile.FirstName, profile.LastName, profile.Email)
	if err != nil {
		return nil, err
	}
	if err := s.clientAccounts.Save(ctx, client); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, client)

	return s.storeLinked(ctx, partnerID, agentLink.ID, partnerClientID, profile, existing,
		client.ID, 1.0, linking.LinkMethodCreated)
}

// adoptInsertWinner handles a CreateIfAbsent conflict: the winning row is
// authoritative. A linked winner is replayed; a pending winner is finalized
// with our evaluation.
func (s *ClientLinkingService) adoptInsertWinner(
	ctx context.Context,
	stored *linking.ClientLink,
	accountID uuid.UUID,
	confidence float64,
	method linking.LinkMethod,
) (*LinkResultResponse, error) {
	s.logger.Warn("Client link lost insert race, adopting winner",
		zap.String("partner_id", stored.PartnerID.String()),
		zap.String("partner_client_id", stored.PartnerClientID),
		zap.String("status", string(stored.Status)),
	)
	if stored.IsLinked() {
		return replayResult(stored), nil
	}

	if err := stored.Finalize(accountID, confidence, method); err != nil {
		return nil, err
	}
	if err := s.clientLinks.SaveWithLock(ctx, stored); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, stored)
	return linkedResult(linkedAction(method, confidence), accountID, confidence), nil
}

// resolveToRosterAccount finalizes a pending link against the account the
// partner picked from the candidate list.
func (s *ClientLinkingService) resolveToRosterAccount(ctx context.Context, link *linking.ClientLink, agentLink *linking.AgentLink, outfitUserID *uuid.UUID) (*LinkResultResponse, error) {
	if outfitUserID == nil || *outfitUserID == uuid.Nil {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "outfit_user_id is required for action \"link\"")
	}

	client, err := s.clientAccounts.FindByID(ctx, *outfitUserID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("NOT_FOUND", "Client account not found in agent roster")
		}
		return nil, err
	}
	// A partner can only bind a client to the linked agent's own roster
	if client.AgentAccountID != agentLink.AgentAccountID || !client.IsActive() {
		return nil, shared.NewDomainError("NOT_FOUND", "Client account not found in agent roster")
	}

	confidence := s.matcher.Scorer().Score(link.Profile().MatchProfile(), client.MatchRecord())

	if err := link.Finalize(client.ID, confidence, linking.LinkMethodManual); err != nil {
		return nil, err
	}
	if err := s.clientLinks.SaveWithLock(ctx, link); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, link)

	s.logger.Info("Client link resolved to roster account",
		zap.String("partner_id", link.PartnerID.String()),
		zap.String("partner_client_id", link.PartnerClientID),
		zap.String("client_account_id", client.ID.String()),
		zap.Float64("confidence", confidence),
	)

	return linkedResult(ActionExisting, client.ID, confidence), nil
}

// resolveByCreating finalizes a pending link by provisioning a fresh account
// from the profile snapshot.
func (s *ClientLinkingService) resolveByCreating(ctx context.Context, link *linking.ClientLink, agentLink *linking.AgentLink) (*LinkResultResponse, error) {
	profile := link.Profile()

	client, err := account.NewClientAccount(agentLink.AgentAccountID, profile.FirstName, profile.LastName, profile.Email)
	if err != nil {
		return nil, err
	}
	if err := s.clientAccounts.Save(ctx, client); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, client)

	if err := link.Finalize(client.ID, 1.0, linking.LinkMethodCreated); err != nil {
		return nil, err
	}
	if err := s.clientLinks.SaveWithLock(ctx, link); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, link)

	s.logger.Info("Client link resolved by creating account",
		zap.String("partner_id", link.PartnerID.String()),
		zap.String("partner_client_id", link.PartnerClientID),
		zap.String("client_account_id", client.ID.String()),
	)

	return linkedResult(ActionCreated, client.ID, 1.0), nil
}

func (s *ClientLinkingService) publishEvents(ctx context.Context, src eventSource) {
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

func (s *ClientLinkingService) logVerify(partnerID uuid.UUID, partnerClientID string, result *LinkResultResponse) {
	fields := []zap.Field{
		zap.String("partner_id", partnerID.String()),
		zap.String("partner_client_id", partnerClientID),
		zap.Bool("linked", result.Linked),
	}
	if result.Linked {
		fields = append(fields,
			zap.String("action", result.Action),
			zap.Float64("confidence", *result.Confidence),
		)
	} else {
		fields = append(fields, zap.Int("candidates", len(result.Candidates)))
	}
	s.logger.Info("Client verification evaluated", fields...)
}

func toClientCandidates(candidates []matching.Candidate) []linking.ClientCandidate {
	out := make([]linking.ClientCandidate, 0, len(candidates))
	for _, c := range candidates {
		out = append(out, linking.ClientCandidate{
			ClientAccountID: c.AccountID,
			FirstName:       c.Record.FirstName,
			LastName:        c.Record.LastName,
			Email:           c.Record.Email,
			LastSearchAt:    c.Record.LastSearchAt,
			MatchConfidence: c.Confidence,
		})
	}
	return out
}

func clientLinkKey(partnerID uuid.UUID, partnerClientID string) string {
	return fmt.Sprintf("linking/%s/client/%s", partnerID, partnerClientID)
}
