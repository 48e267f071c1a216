package search

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/outfit/partner-api/internal/domain/account"
	"github.com/outfit/partner-api/internal/domain/linking"
	"github.com/outfit/partner-api/internal/domain/search"
	"github.com/outfit/partner-api/internal/domain/shared"
	"github.com/stretchr/testify/mock"
)

// MockSessionRepository is a mock implementation of search.SearchSessionRepository
type MockSessionRepository struct {
	mock.Mock
}

func (m *MockSessionRepository) FindByID(ctx context.Context, id uuid.UUID) (*search.SearchSession, error) {
	args := m.Called(ctx, id)
	if session, ok := args.Get(0).(*search.SearchSession); ok {
		return session, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockSessionRepository) Save(ctx context.Context, session *search.SearchSession) error {
	args := m.Called(ctx, session)
	return args.Error(0)
}

func (m *MockSessionRepository) ExpireBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	args := m.Called(ctx, cutoff)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockSessionRepository) CountActive(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

// MockSearchEngine is a mock implementation of search.Engine
type MockSearchEngine struct {
	mock.Mock
}

func (m *MockSearchEngine) Search(ctx context.Context, req search.EngineRequest) ([]search.HotelResult, error) {
	args := m.Called(ctx, req)
	if results, ok := args.Get(0).([]search.HotelResult); ok {
		return results, args.Error(1)
	}
	return nil, args.Error(1)
}

// MockDeeplinkBuilder is a mock implementation of search.DeeplinkBuilder
type MockDeeplinkBuilder struct {
	mock.Mock
}

func (m *MockDeeplinkBuilder) Build(ctx context.Context, session *search.SearchSession) (string, error) {
	args := m.Called(ctx, session)
	return args.String(0), args.Error(1)
}

// MockAgentLinkRepository is a mock implementation of linking.AgentLinkRepository
type MockAgentLinkRepository struct {
	mock.Mock
}

func (m *MockAgentLinkRepository) FindByID(ctx context.Context, id uuid.UUID) (*linking.AgentLink, error) {
	args := m.Called(ctx, id)
	if link, ok := args.Get(0).(*linking.AgentLink); ok {
		return link, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockAgentLinkRepository) FindByPartnerAgentID(ctx context.Context, partnerID uuid.UUID, partnerAgentID string) (*linking.AgentLink, error) {
	args := m.Called(ctx, partnerID, partnerAgentID)
	if link, ok := args.Get(0).(*linking.AgentLink); ok {
		return link, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockAgentLinkRepository) FindByAgentAccountID(ctx context.Context, agentAccountID uuid.UUID) ([]linking.AgentLink, error) {
	args := m.Called(ctx, agentAccountID)
	if links, ok := args.Get(0).([]linking.AgentLink); ok {
		return links, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockAgentLinkRepository) CreateIfAbsent(ctx context.Context, link *linking.AgentLink) (*linking.AgentLink, bool, error) {
	args := m.Called(ctx, link)
	stored, _ := args.Get(0).(*linking.AgentLink)
	if stored == nil {
		stored = link
	}
	return stored, args.Bool(1), args.Error(2)
}

// MockClientLinkRepository is a mock implementation of linking.ClientLinkRepository
type MockClientLinkRepository struct {
	mock.Mock
}

func (m *MockClientLinkRepository) FindByID(ctx context.Context, id uuid.UUID) (*linking.ClientLink, error) {
	args := m.Called(ctx, id)
	if link, ok := args.Get(0).(*linking.ClientLink); ok {
		return link, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockClientLinkRepository) FindByPartnerClientID(ctx context.Context, partnerID uuid.UUID, partnerClientID string) (*linking.ClientLink, error) {
	args := m.Called(ctx, partnerID, partnerClientID)
	if link, ok := args.Get(0).(*linking.ClientLink); ok {
		return link, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockClientLinkRepository) CreateIfAbsent(ctx context.Context, link *linking.ClientLink) (*linking.ClientLink, bool, error) {
	args := m.Called(ctx, link)
	stored, _ := args.Get(0).(*linking.ClientLink)
	if stored == nil {
		stored = link
	}
	return stored, args.Bool(1), args.Error(2)
}

func (m *MockClientLinkRepository) SaveWithLock(ctx context.Context, link *linking.ClientLink) error {
	args := m.Called(ctx, link)
	return args.Error(0)
}

func (m *MockClientLinkRepository) FindExpiredPending(ctx context.Context, cutoff time.Time, limit int) ([]linking.ClientLink, error) {
	args := m.Called(ctx, cutoff, limit)
	if links, ok := args.Get(0).([]linking.ClientLink); ok {
		return links, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockClientLinkRepository) CountPending(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

// MockClientAccountRepository is a mock implementation of account.ClientAccountRepository
type MockClientAccountRepository struct {
	mock.Mock
}

func (m *MockClientAccountRepository) FindByID(ctx context.Context, id uuid.UUID) (*account.ClientAccount, error) {
	args := m.Called(ctx, id)
	if client, ok := args.Get(0).(*account.ClientAccount); ok {
		return client, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockClientAccountRepository) FindActiveByAgent(ctx context.Context, agentAccountID uuid.UUID) ([]account.ClientAccount, error) {
	args := m.Called(ctx, agentAccountID)
	if clients, ok := args.Get(0).([]account.ClientAccount); ok {
		return clients, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockClientAccountRepository) Save(ctx context.Context, client *account.ClientAccount) error {
	args := m.Called(ctx, client)
	return args.Error(0)
}

func (m *MockClientAccountRepository) SaveWithLock(ctx context.Context, client *account.ClientAccount) error {
	args := m.Called(ctx, client)
	return args.Error(0)
}

// capturePublisher records every published event for assertions
type capturePublisher struct {
	mu     sync.Mutex
	events []shared.DomainEvent
}

func (p *capturePublisher) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, events...)
	return nil
}

func (p *capturePublisher) EventTypes() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	types := make([]string, 0, len(p.events))
	for _, e := range p.events {
		types = append(types, e.EventType())
	}
	return types
}
