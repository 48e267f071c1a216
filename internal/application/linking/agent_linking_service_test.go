package linking

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/outfit/partner-api/internal/domain/account"
	"github.com/outfit/partner-api/internal/domain/linking"
	"github.com/outfit/partner-api/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newAgentService(links *MockAgentLinkRepository, accounts *MockAgentAccountRepository, bus *capturePublisher) *AgentLinkingService {
	return NewAgentLinkingService(links, accounts, noopMutex{}, 0, bus, zap.NewNop())
}

func createAgentRequest() CreateAgentRequest {
	return CreateAgentRequest{
		PartnerAgentID: "agent-42",
		Email:          "maria@travelco.example",
		FirstName:      "Maria",
		LastName:       "Gonzalez",
	}
}

func TestAgentLinkingService_CreateAgent(t *testing.T) {
	ctx := context.Background()
	partnerID := uuid.New()

	t.Run("creates account and link for unknown agent", func(t *testing.T) {
		links := new(MockAgentLinkRepository)
		accounts := new(MockAgentAccountRepository)
		bus := &capturePublisher{}
		svc := newAgentService(links, accounts, bus)

		links.On("FindByPartnerAgentID", ctx, partnerID, "agent-42").Return(nil, shared.ErrNotFound)
		accounts.On("FindByEmail", ctx, "maria@travelco.example").Return(nil, shared.ErrNotFound)
		accounts.On("Save", ctx, mock.AnythingOfType("*account.AgentAccount")).Return(nil)
		links.On("CreateIfAbsent", ctx, mock.AnythingOfType("*linking.AgentLink")).Return(nil, true, nil)

		resp, err := svc.CreateAgent(ctx, partnerID, createAgentRequest())

		require.NoError(t, err)
		assert.True(t, resp.Linked)
		assert.False(t, resp.ExistingAccount)
		assert.Equal(t, "agent-42", resp.PartnerAgentID)
		assert.NotEqual(t, uuid.Nil, resp.OutfitAgentID)
		assert.Contains(t, bus.EventTypes(), linking.EventTypeAgentLinked)
		assert.Contains(t, bus.EventTypes(), account.EventTypeAgentAccountCreated)
		links.AssertExpectations(t)
		accounts.AssertExpectations(t)
	})

	t.Run("links to existing account when email is known", func(t *testing.T) {
		links := new(MockAgentLinkRepository)
		accounts := new(MockAgentAccountRepository)
		svc := newAgentService(links, accounts, &capturePublisher{})

		existing, err := account.NewAgentAccount("maria@travelco.example", "Maria", "Gonzalez")
		require.NoError(t, err)
		existing.ClearDomainEvents()

		links.On("FindByPartnerAgentID", ctx, partnerID, "agent-42").Return(nil, shared.ErrNotFound)
		accounts.On("FindByEmail", ctx, "maria@travelco.example").Return(existing, nil)
		links.On("CreateIfAbsent", ctx, mock.AnythingOfType("*linking.AgentLink")).Return(nil, true, nil)

		resp, err := svc.CreateAgent(ctx, partnerID, createAgentRequest())

		require.NoError(t, err)
		assert.True(t, resp.Linked)
		assert.True(t, resp.ExistingAccount)
		assert.Equal(t, existing.ID, resp.OutfitAgentID)
		accounts.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("normalizes email before lookup", func(t *testing.T) {
		links := new(MockAgentLinkRepository)
		accounts := new(MockAgentAccountRepository)
		svc := newAgentService(links, accounts, &capturePublisher{})

		existing, err := account.NewAgentAccount("maria@travelco.example", "Maria", "Gonzalez")
		require.NoError(t, err)

		links.On("FindByPartnerAgentID", ctx, partnerID, "agent-42").Return(nil, shared.ErrNotFound)
		accounts.On("FindByEmail", ctx, "maria@travelco.example").Return(existing, nil)
		links.On("CreateIfAbsent", ctx, mock.AnythingOfType("*linking.AgentLink")).Return(nil, true, nil)

		req := createAgentRequest()
		req.Email = "  Maria@TravelCo.example "
		resp, err := svc.CreateAgent(ctx, partnerID, req)

		require.NoError(t, err)
		assert.Equal(t, existing.ID, resp.OutfitAgentID)
		accounts.AssertExpectations(t)
	})

	t.Run("replays an existing link without touching accounts", func(t *testing.T) {
		links := new(MockAgentLinkRepository)
		accounts := new(MockAgentAccountRepository)
		svc := newAgentService(links, accounts, &capturePublisher{})

		agentAccountID := uuid.New()
		link, err := linking.NewAgentLink(partnerID, "agent-42", agentAccountID, true)
		require.NoError(t, err)

		links.On("FindByPartnerAgentID", ctx, partnerID, "agent-42").Return(link, nil)

		resp, err := svc.CreateAgent(ctx, partnerID, createAgentRequest())

		require.NoError(t, err)
		assert.True(t, resp.Linked)
		assert.False(t, resp.ExistingAccount, "original create flags are replayed")
		assert.Equal(t, agentAccountID, resp.OutfitAgentID)
		accounts.AssertNotCalled(t, "FindByEmail", mock.Anything, mock.Anything)
		links.AssertNotCalled(t, "CreateIfAbsent", mock.Anything, mock.Anything)
	})

	t.Run("repeated calls return the same account id", func(t *testing.T) {
		links := new(MockAgentLinkRepository)
		accounts := new(MockAgentAccountRepository)
		svc := newAgentService(links, accounts, &capturePublisher{})

		var storedLink *linking.AgentLink
		links.On("FindByPartnerAgentID", ctx, partnerID, "agent-42").Return(nil, shared.ErrNotFound).Twice()
		accounts.On("FindByEmail", ctx, "maria@travelco.example").Return(nil, shared.ErrNotFound)
		accounts.On("Save", ctx, mock.AnythingOfType("*account.AgentAccount")).Return(nil)
		links.On("CreateIfAbsent", ctx, mock.AnythingOfType("*linking.AgentLink")).
			Run(func(args mock.Arguments) { storedLink = args.Get(1).(*linking.AgentLink) }).
			Return(nil, true, nil)

		first, err := svc.CreateAgent(ctx, partnerID, createAgentRequest())
		require.NoError(t, err)

		// Second call sees the stored link
		links.On("FindByPartnerAgentID", ctx, partnerID, "agent-42").Return(storedLink, nil)

		second, err := svc.CreateAgent(ctx, partnerID, createAgentRequest())
		require.NoError(t, err)

		assert.Equal(t, first.OutfitAgentID, second.OutfitAgentID)
		assert.Equal(t, first.ExistingAccount, second.ExistingAccount)
	})

	t.Run("adopts the winner when losing the insert race", func(t *testing.T) {
		links := new(MockAgentLinkRepository)
		accounts := new(MockAgentAccountRepository)
		svc := newAgentService(links, accounts, &capturePublisher{})

		winnerAccountID := uuid.New()
		winner, err := linking.NewAgentLink(partnerID, "agent-42", winnerAccountID, false)
		require.NoError(t, err)

		links.On("FindByPartnerAgentID", ctx, partnerID, "agent-42").Return(nil, shared.ErrNotFound)
		accounts.On("FindByEmail", ctx, "maria@travelco.example").Return(nil, shared.ErrNotFound)
		accounts.On("Save", ctx, mock.AnythingOfType("*account.AgentAccount")).Return(nil)
		links.On("CreateIfAbsent", ctx, mock.AnythingOfType("*linking.AgentLink")).Return(winner, false, nil)

		resp, err := svc.CreateAgent(ctx, partnerID, createAgentRequest())

		require.NoError(t, err)
		assert.Equal(t, winnerAccountID, resp.OutfitAgentID, "loser observes the winner's account")
	})

	t.Run("propagates repository errors", func(t *testing.T) {
		links := new(MockAgentLinkRepository)
		accounts := new(MockAgentAccountRepository)
		svc := newAgentService(links, accounts, &capturePublisher{})

		dbErr := errors.New("connection reset")
		links.On("FindByPartnerAgentID", ctx, partnerID, "agent-42").Return(nil, dbErr)

		_, err := svc.CreateAgent(ctx, partnerID, createAgentRequest())

		assert.ErrorIs(t, err, dbErr)
	})
}
