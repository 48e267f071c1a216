package linking

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/outfit/partner-api/internal/domain/account"
	"github.com/outfit/partner-api/internal/domain/linking"
	"github.com/outfit/partner-api/internal/domain/shared"
	"github.com/stretchr/testify/mock"
)

// =============================================================================
// Mock Repositories
// =============================================================================

// MockAgentLinkRepository is a mock implementation of linking.AgentLinkRepository
type MockAgentLinkRepository struct {
	mock.Mock
}

func (m *MockAgentLinkRepository) FindByID(ctx context.Context, id uuid.UUID) (*linking.AgentLink, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*linking.AgentLink), args.Error(1)
}

func (m *MockAgentLinkRepository) FindByPartnerAgentID(ctx context.Context, partnerID uuid.UUID, partnerAgentID string) (*linking.AgentLink, error) {
	args := m.Called(ctx, partnerID, partnerAgentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*linking.AgentLink), args.Error(1)
}

func (m *MockAgentLinkRepository) FindByAgentAccountID(ctx context.Context, agentAccountID uuid.UUID) ([]linking.AgentLink, error) {
	args := m.Called(ctx, agentAccountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]linking.AgentLink), args.Error(1)
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
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*linking.ClientLink), args.Error(1)
}

func (m *MockClientLinkRepository) FindByPartnerClientID(ctx context.Context, partnerID uuid.UUID, partnerClientID string) (*linking.ClientLink, error) {
	args := m.Called(ctx, partnerID, partnerClientID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*linking.ClientLink), args.Error(1)
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
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]linking.ClientLink), args.Error(1)
}

func (m *MockClientLinkRepository) CountPending(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

// MockAgentAccountRepository is a mock implementation of account.AgentAccountRepository
type MockAgentAccountRepository struct {
	mock.Mock
}

func (m *MockAgentAccountRepository) FindByID(ctx context.Context, id uuid.UUID) (*account.AgentAccount, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*account.AgentAccount), args.Error(1)
}

func (m *MockAgentAccountRepository) FindByEmail(ctx context.Context, email string) (*account.AgentAccount, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*account.AgentAccount), args.Error(1)
}

func (m *MockAgentAccountRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func (m *MockAgentAccountRepository) Save(ctx context.Context, agent *account.AgentAccount) error {
	args := m.Called(ctx, agent)
	return args.Error(0)
}

func (m *MockAgentAccountRepository) SaveWithLock(ctx context.Context, agent *account.AgentAccount) error {
	args := m.Called(ctx, agent)
	return args.Error(0)
}

// MockClientAccountRepository is a mock implementation of account.ClientAccountRepository
type MockClientAccountRepository struct {
	mock.Mock
}

func (m *MockClientAccountRepository) FindByID(ctx context.Context, id uuid.UUID) (*account.ClientAccount, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*account.ClientAccount), args.Error(1)
}

func (m *MockClientAccountRepository) FindActiveByAgent(ctx context.Context, agentAccountID uuid.UUID) ([]account.ClientAccount, error) {
	args := m.Called(ctx, agentAccountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]account.ClientAccount), args.Error(1)
}

func (m *MockClientAccountRepository) Save(ctx context.Context, client *account.ClientAccount) error {
	args := m.Called(ctx, client)
	return args.Error(0)
}

func (m *MockClientAccountRepository) SaveWithLock(ctx context.Context, client *account.ClientAccount) error {
	args := m.Called(ctx, client)
	return args.Error(0)
}

// =============================================================================
// Test fakes
// =============================================================================

// noopMutex hands out locks without contention; unit tests drive one caller
type noopMutex struct{}

func (noopMutex) Acquire(ctx context.Context, key string, ttl time.Duration) (shared.UnlockFunc, error) {
	return func(context.Context) error { return nil }, nil
}

func (noopMutex) Close() error { return nil }

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
