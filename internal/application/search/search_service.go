package search

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/outfit/partner-api/internal/domain/account"
	"github.com/outfit/partner-api/internal/domain/linking"
	"github.com/outfit/partner-api/internal/domain/search"
	"github.com/outfit/partner-api/internal/domain/shared"
	"github.com/outfit/partner-api/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// DefaultSessionTTL bounds how long a deeplink stays redeemable
const DefaultSessionTTL = 30 * 24 * time.Hour

const dateLayout = "2006-01-02"

type eventSource interface {
	GetDomainEvents() []shared.DomainEvent
	ClearDomainEvents()
}

// SearchService turns a partner search request into a persisted search
// session with a signed deeplink. Both the agent and the client must already
// be linked; the service never creates identities on this path.
type SearchService struct {
	sessions       search.SearchSessionRepository
	agentLinks     linking.AgentLinkRepository
	clientLinks    linking.ClientLinkRepository
	clientAccounts account.ClientAccountRepository
	engine         search.Engine
	deeplinks      search.DeeplinkBuilder
	sessionTTL     time.Duration
	eventBus       shared.EventPublisher
	logger         *zap.Logger
}

// NewSearchService creates a new SearchService
func NewSearchService(
	sessions search.SearchSessionRepository,
	agentLinks linking.AgentLinkRepository,
	clientLinks linking.ClientLinkRepository,
	clientAccounts account.ClientAccountRepository,
	engine search.Engine,
	deeplinks search.DeeplinkBuilder,
	sessionTTL time.Duration,
	eventBus shared.EventPublisher,
	logger *zap.Logger,
) *SearchService {
	if sessionTTL <= 0 {
		sessionTTL = DefaultSessionTTL
	}
	return &SearchService{
		sessions:       sessions,
		agentLinks:     agentLinks,
		clientLinks:    clientLinks,
		clientAccounts: clientAccounts,
		engine:         engine,
		deeplinks:      deeplinks,
		sessionTTL:     sessionTTL,
		eventBus:       eventBus,
		logger:         logger,
	}
}

// Search resolves the partner's agent and client identifiers, validates the
// search, and returns a signed deeplink plus preview results. An unlinked
// agent or client fails the request; the partner has to run create-agent or
// verify-customer first.
func (s *SearchService) Search(ctx context.Context, partnerID uuid.UUID, req SearchRequest) (*SearchResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "search_session", "create")
	defer span.End()

	telemetry.SetAttributes(span,
		telemetry.SpanAttrPartnerID, partnerID.String(),
		"partner_agent_id", req.PartnerAgentID,
		"partner_client_id", req.PartnerClientID,
	)

	agentLink, err := s.agentLinks.FindByPartnerAgentID(ctx, partnerID, req.PartnerAgentID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			telemetry.RecordError(span, shared.ErrAgentNotLinked)
			return nil, shared.ErrAgentNotLinked
		}
		telemetry.RecordError(span, err)
		return nil, err
	}

	clientLink, err := s.clientLinks.FindByPartnerClientID(ctx, partnerID, req.PartnerClientID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			telemetry.RecordError(span, shared.ErrClientNotLinked)
			return nil, shared.ErrClientNotLinked
		}
		telemetry.RecordError(span, err)
		return nil, err
	}
	// A pending or expired disambiguation is not a linked client
	if !clientLink.IsLinked() {
		telemetry.RecordError(span, shared.ErrClientNotLinked)
		return nil, shared.ErrClientNotLinked
	}

	criteria, err := toDomainCriteria(req.Search.Criteria)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	travelers, err := toTravelerInfo(req.TravelerInfo)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	session, err := search.NewSearchSession(partnerID, agentLink.AgentAccountID, *clientLink.ClientAccountID,
		req.Search.Query, criteria, travelers, s.sessionTTL)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	telemetry.SetAttribute(span, telemetry.SpanAttrSessionID, session.ID.String())

	results, err := s.engine.Search(ctx, search.EngineRequest{
		SessionID: session.ID,
		Query:     session.Query,
		Criteria:  session.Criteria,
		Travelers: session.TravelerInfo,
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("search engine: %w", err)
	}

	deeplinkURL, err := s.deeplinks.Build(ctx, session)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("build deeplink: %w", err)
	}
	if err := session.AttachDeeplink(deeplinkURL); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	if err := s.sessions.Save(ctx, session); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	telemetry.AddEvent(span, "deeplink_issued",
		telemetry.SpanAttrSessionID, session.ID.String(),
	)
	telemetry.SetAttribute(span, telemetry.SpanAttrResultsCount, len(results))

	s.recordClientActivity(ctx, *clientLink.ClientAccountID)
	s.publishEvents(ctx, session)

	s.logger.Info("Search session created",
		zap.String("partner_id", partnerID.String()),
		zap.String("session_id", session.ID.String()),
		zap.String("partner_agent_id", req.PartnerAgentID),
		zap.String("partner_client_id", req.PartnerClientID),
		zap.Bool("free_text", session.Criteria == nil),
		zap.Int("results", len(results)),
	)

	return &SearchResponse{
		DeeplinkURL:     deeplinkURL,
		SearchSessionID: session.ID,
		SearchResults:   results,
	}, nil
}

// recordClientActivity stamps last_search_at on the client account. The
// stamp only tunes future match scoring, so failures are logged and
// swallowed rather than failing a search that already produced a deeplink.
func (s *SearchService) recordClientActivity(ctx context.Context, clientAccountID uuid.UUID) {
	client, err := s.clientAccounts.FindByID(ctx, clientAccountID)
	if err != nil {
		s.logger.Warn("Could not load client account for activity stamp",
			zap.String("client_account_id", clientAccountID.String()),
			zap.Error(err),
		)
		return
	}

	client.RecordSearch(time.Now())
	if err := s.clientAccounts.SaveWithLock(ctx, client); err != nil {
		s.logger.Warn("Failed to stamp client search activity",
			zap.String("client_account_id", clientAccountID.String()),
			zap.Error(err),
		)
	}
}

func (s *SearchService) publishEvents(ctx context.Context, src eventSource) {
	if s.eventBus == nil {
		return
	}
	for _, event := range src.GetDomainEvents() {
		if err := s.eventBus.Publish(ctx, event); err != nil {
			s.logger.Warn("Failed to publish domain event",
				zap.String("event_type", event.EventType()),
				zap.Error(err),
			)
		}
	}
	src.ClearDomainEvents()
}

func toDomainCriteria(req *CriteriaRequest) (*search.Criteria, error) {
	if req == nil {
		return nil, nil
	}

	checkIn, err := time.Parse(dateLayout, req.CheckIn)
	if err != nil {
		return nil, shared.NewDomainError("INVALID_DATES", "Check-in date must use the YYYY-MM-DD format")
	}
	checkOut, err := time.Parse(dateLayout, req.CheckOut)
	if err != nil {
		return nil, shared.NewDomainError("INVALID_DATES", "Check-out date must use the YYYY-MM-DD format")
	}

	return search.NewCriteria(req.Destination, checkIn, checkOut, req.Rooms, req.MaxNightlyRate)
}

func toTravelerInfo(req *TravelerInfoRequest) (search.TravelerInfo, error) {
	if req == nil {
		return search.DefaultTravelerInfo(), nil
	}
	return search.NewTravelerInfo(req.Adults, req.Children)
}
