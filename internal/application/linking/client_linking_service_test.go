package linking

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/outfit/partner-api/internal/domain/account"
	"github.com/outfit/partner-api/internal/domain/linking"
	"github.com/outfit/partner-api/internal/domain/matching"
	"github.com/outfit/partner-api/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type clientLinkingFixture struct {
	clientLinks    *MockClientLinkRepository
	agentLinks     *MockAgentLinkRepository
	clientAccounts *MockClientAccountRepository
	bus            *capturePublisher
	svc            *ClientLinkingService

	partnerID uuid.UUID
	agentLink *linking.AgentLink
}

func newClientLinkingFixture(t *testing.T) *clientLinkingFixture {
	t.Helper()

	f := &clientLinkingFixture{
		clientLinks:    new(MockClientLinkRepository),
		agentLinks:     new(MockAgentLinkRepository),
		clientAccounts: new(MockClientAccountRepository),
		bus:            &capturePublisher{},
		partnerID:      uuid.New(),
	}

	agentLink, err := linking.NewAgentLink(f.partnerID, "agent-42", uuid.New(), true)
	require.NoError(t, err)
	agentLink.ClearDomainEvents()
	f.agentLink = agentLink

	f.svc = NewClientLinkingService(
		f.clientLinks, f.agentLinks, f.clientAccounts,
		matching.NewMatcher(matching.DefaultConfig()),
		noopMutex{}, 0, 0, f.bus, zap.NewNop(),
	)
	return f
}

func (f *clientLinkingFixture) expectAgentLinked(ctx context.Context) {
	f.agentLinks.On("FindByPartnerAgentID", ctx, f.partnerID, "agent-42").Return(f.agentLink, nil)
}

func (f *clientLinkingFixture) rosterAccount(t *testing.T, firstName, lastName, email string) account.ClientAccount {
	t.Helper()
	acc, err := account.NewClientAccount(f.agentLink.AgentAccountID, firstName, lastName, email)
	require.NoError(t, err)
	acc.ClearDomainEvents()
	return *acc
}

func verifyRequest(info ClientInfo) VerifyCustomerRequest {
	return VerifyCustomerRequest{
		PartnerAgentID:  "agent-42",
		PartnerClientID: "client-1001",
		ClientInfo:      info,
	}
}

func TestClientLinkingService_VerifyCustomer(t *testing.T) {
	ctx := context.Background()

	t.Run("requires a linked agent", func(t *testing.T) {
		f := newClientLinkingFixture(t)
		f.agentLinks.On("FindByPartnerAgentID", ctx, f.partnerID, "agent-42").Return(nil, shared.ErrNotFound)

		_, err := f.svc.VerifyCustomer(ctx, f.partnerID, verifyRequest(ClientInfo{FirstName: "John", LastName: "Smith"}))

		assert.ErrorIs(t, err, shared.ErrAgentNotLinked)
	})

	t.Run("auto-links an exact match with full confidence", func(t *testing.T) {
		f := newClientLinkingFixture(t)
		f.expectAgentLinked(ctx)

		match := f.rosterAccount(t, "John", "Doe", "john@example.com")
		other := f.rosterAccount(t, "Alice", "Wong", "alice@example.com")

		f.clientLinks.On("FindByPartnerClientID", ctx, f.partnerID, "client-1001").Return(nil, shared.ErrNotFound)
		f.clientAccounts.On("FindActiveByAgent", ctx, f.agentLink.AgentAccountID).Return([]account.ClientAccount{match, other}, nil)
		f.clientLinks.On("CreateIfAbsent", ctx, mock.AnythingOfType("*linking.ClientLink")).Return(nil, true, nil)

		resp, err := f.svc.VerifyCustomer(ctx, f.partnerID, verifyRequest(ClientInfo{
			FirstName: "John", LastName: "Doe", Email: "john@example.com",
		}))

		require.NoError(t, err)
		assert.True(t, resp.Linked)
		assert.Equal(t, ActionExisting, resp.Action)
		require.NotNil(t, resp.OutfitUserID)
		assert.Equal(t, match.ID, *resp.OutfitUserID)
		require.NotNil(t, resp.Confidence)
		assert.Equal(t, 1.0, *resp.Confidence)
		assert.Empty(t, resp.Candidates, "no disambiguation payload on auto-link")
		assert.Contains(t, f.bus.EventTypes(), linking.EventTypeClientLinked)
	})

	t.Run("returns ranked candidates when matches are ambiguous", func(t *testing.T) {
		f := newClientLinkingFixture(t)
		f.expectAgentLinked(ctx)

		// Same names, conflicting emails: both score in the candidate band
		first := f.rosterAccount(t, "John", "Smith", "john.work@example.com")
		second := f.rosterAccount(t, "John", "Smith", "john.home@example.com")

		f.clientLinks.On("FindByPartnerClientID", ctx, f.partnerID, "client-1001").Return(nil, shared.ErrNotFound)
		f.clientAccounts.On("FindActiveByAgent", ctx, f.agentLink.AgentAccountID).Return([]account.ClientAccount{first, second}, nil)
		f.clientLinks.On("CreateIfAbsent", ctx, mock.AnythingOfType("*linking.ClientLink")).Return(nil, true, nil)

		resp, err := f.svc.VerifyCustomer(ctx, f.partnerID, verifyRequest(ClientInfo{
			FirstName: "John", LastName: "Smith", Email: "jsmith@elsewhere.example",
		}))

		require.NoError(t, err)
		assert.False(t, resp.Linked)
		assert.Equal(t, StatusDisambiguationRequired, resp.Status)
		require.Len(t, resp.Candidates, 2)
		assert.GreaterOrEqual(t, resp.Candidates[0].MatchConfidence, resp.Candidates[1].MatchConfidence)
		for _, c := range resp.Candidates {
			assert.GreaterOrEqual(t, c.MatchConfidence, 0.5)
			assert.Less(t, c.MatchConfidence, 0.95)
		}
		assert.Contains(t, f.bus.EventTypes(), linking.EventTypeClientLinkPending)
	})

	t.Run("creates an account when nothing matches", func(t *testing.T) {
		f := newClientLinkingFixture(t)
		f.expectAgentLinked(ctx)

		stranger := f.rosterAccount(t, "Xiomara", "Quintanilla", "xq@example.com")

		f.clientLinks.On("FindByPartnerClientID", ctx, f.partnerID, "client-1001").Return(nil, shared.ErrNotFound)
		f.clientAccounts.On("FindActiveByAgent", ctx, f.agentLink.AgentAccountID).Return([]account.ClientAccount{stranger}, nil)

		var created *account.ClientAccount
		f.clientAccounts.On("Save", ctx, mock.AnythingOfType("*account.ClientAccount")).
			Run(func(args mock.Arguments) { created = args.Get(1).(*account.ClientAccount) }).
			Return(nil)
		f.clientLinks.On("CreateIfAbsent", ctx, mock.AnythingOfType("*linking.ClientLink")).Return(nil, true, nil)

		resp, err := f.svc.VerifyCustomer(ctx, f.partnerID, verifyRequest(ClientInfo{
			FirstName: "John", LastName: "Smith", Email: "john.smith@example.com",
		}))

		require.NoError(t, err)
		assert.True(t, resp.Linked)
		assert.Equal(t, ActionCreated, resp.Action)
		require.NotNil(t, created)
		assert.Equal(t, created.ID, *resp.OutfitUserID)
		assert.Equal(t, 1.0, *resp.Confidence)
		assert.Equal(t, f.agentLink.AgentAccountID, created.AgentAccountID)
		assert.Contains(t, f.bus.EventTypes(), account.EventTypeClientAccountCreated)
	})

	t.Run("creates an account for an empty roster", func(t *testing.T) {
		f := newClientLinkingFixture(t)
		f.expectAgentLinked(ctx)

		f.clientLinks.On("FindByPartnerClientID", ctx, f.partnerID, "client-1001").Return(nil, shared.ErrNotFound)
		f.clientAccounts.On("FindActiveByAgent", ctx, f.agentLink.AgentAccountID).Return([]account.ClientAccount{}, nil)
		f.clientAccounts.On("Save", ctx, mock.AnythingOfType("*account.ClientAccount")).Return(nil)
		f.clientLinks.On("CreateIfAbsent", ctx, mock.AnythingOfType("*linking.ClientLink")).Return(nil, true, nil)

		resp, err := f.svc.VerifyCustomer(ctx, f.partnerID, verifyRequest(ClientInfo{
			FirstName: "John", LastName: "Smith",
		}))

		require.NoError(t, err)
		assert.Equal(t, ActionCreated, resp.Action)
	})

	t.Run("replays an already-linked client", func(t *testing.T) {
		f := newClientLinkingFixture(t)
		f.expectAgentLinked(ctx)

		accountID := uuid.New()
		linked, err := linking.NewLinkedClientLink(f.partnerID, f.agentLink.ID, "client-1001",
			linking.ClientProfile{FirstName: "John", LastName: "Smith"}, accountID, 0.97, linking.LinkMethodAuto)
		require.NoError(t, err)

		f.clientLinks.On("FindByPartnerClientID", ctx, f.partnerID, "client-1001").Return(linked, nil)

		resp, err := f.svc.VerifyCustomer(ctx, f.partnerID, verifyRequest(ClientInfo{
			FirstName: "John", LastName: "Smith",
		}))

		require.NoError(t, err)
		assert.True(t, resp.Linked)
		assert.Equal(t, ActionAutoLinked, resp.Action)
		assert.Equal(t, accountID, *resp.OutfitUserID)
		assert.Equal(t, 0.97, *resp.Confidence)
		f.clientAccounts.AssertNotCalled(t, "FindActiveByAgent", mock.Anything, mock.Anything)
	})

	t.Run("reopens a pending link on re-verify", func(t *testing.T) {
		f := newClientLinkingFixture(t)
		f.expectAgentLinked(ctx)

		pending, err := linking.NewPendingClientLink(f.partnerID, f.agentLink.ID, "client-1001",
			linking.ClientProfile{FirstName: "John", LastName: "Smith"}, time.Hour)
		require.NoError(t, err)
		pending.ClearDomainEvents()

		first := f.rosterAccount(t, "John", "Smith", "john.work@example.com")
		second := f.rosterAccount(t, "John", "Smith", "john.home@example.com")

		f.clientLinks.On("FindByPartnerClientID", ctx, f.partnerID, "client-1001").Return(pending, nil)
		f.clientAccounts.On("FindActiveByAgent", ctx, f.agentLink.AgentAccountID).Return([]account.ClientAccount{first, second}, nil)
		f.clientLinks.On("SaveWithLock", ctx, pending).Return(nil)

		resp, err := f.svc.VerifyCustomer(ctx, f.partnerID, verifyRequest(ClientInfo{
			FirstName: "John", LastName: "Smith", Email: "jsmith@elsewhere.example",
		}))

		require.NoError(t, err)
		assert.False(t, resp.Linked)
		require.Len(t, resp.Candidates, 2)
		assert.True(t, pending.IsPending())
		assert.Equal(t, "jsmith@elsewhere.example", pending.ProfileEmail, "corrected profile replaces the snapshot")
		f.clientLinks.AssertCalled(t, "SaveWithLock", ctx, pending)
	})

	t.Run("finalizes a pending link when corrected info matches exactly", func(t *testing.T) {
		f := newClientLinkingFixture(t)
		f.expectAgentLinked(ctx)

		pending, err := linking.NewPendingClientLink(f.partnerID, f.agentLink.ID, "client-1001",
			linking.ClientProfile{FirstName: "Jon", LastName: "Smith"}, time.Hour)
		require.NoError(t, err)
		pending.ClearDomainEvents()

		match := f.rosterAccount(t, "John", "Smith", "john.smith@example.com")

		f.clientLinks.On("FindByPartnerClientID", ctx, f.partnerID, "client-1001").Return(pending, nil)
		f.clientAccounts.On("FindActiveByAgent", ctx, f.agentLink.AgentAccountID).Return([]account.ClientAccount{match}, nil)
		f.clientLinks.On("SaveWithLock", ctx, pending).Return(nil)

		resp, err := f.svc.VerifyCustomer(ctx, f.partnerID, verifyRequest(ClientInfo{
			FirstName: "John", LastName: "Smith", Email: "john.smith@example.com",
		}))

		require.NoError(t, err)
		assert.True(t, resp.Linked)
		assert.Equal(t, ActionExisting, resp.Action)
		assert.Equal(t, match.ID, *resp.OutfitUserID)
		assert.True(t, pending.IsLinked(), "pending row is finalized in place")
	})

	t.Run("adopts a linked winner on insert race", func(t *testing.T) {
		f := newClientLinkingFixture(t)
		f.expectAgentLinked(ctx)

		winnerAccount := uuid.New()
		winner, err := linking.NewLinkedClientLink(f.partnerID, f.agentLink.ID, "client-1001",
			linking.ClientProfile{FirstName: "John", LastName: "Doe"}, winnerAccount, 1.0, linking.LinkMethodAuto)
		require.NoError(t, err)

		match := f.rosterAccount(t, "John", "Doe", "john@example.com")

		f.clientLinks.On("FindByPartnerClientID", ctx, f.partnerID, "client-1001").Return(nil, shared.ErrNotFound)
		f.clientAccounts.On("FindActiveByAgent", ctx, f.agentLink.AgentAccountID).Return([]account.ClientAccount{match}, nil)
		f.clientLinks.On("CreateIfAbsent", ctx, mock.AnythingOfType("*linking.ClientLink")).Return(winner, false, nil)

		resp, err := f.svc.VerifyCustomer(ctx, f.partnerID, verifyRequest(ClientInfo{
			FirstName: "John", LastName: "Doe", Email: "john@example.com",
		}))

		require.NoError(t, err)
		assert.True(t, resp.Linked)
		assert.Equal(t, winnerAccount, *resp.OutfitUserID, "loser observes the winner's account")
	})
}

func TestClientLinkingService_ResolveCustomer(t *testing.T) {
	ctx := context.Background()

	resolveLink := func(id uuid.UUID) ResolveCustomerRequest {
		return ResolveCustomerRequest{PartnerClientID: "client-1001", Action: "link", OutfitUserID: &id}
	}

	t.Run("rejects an unknown client", func(t *testing.T) {
		f := newClientLinkingFixture(t)
		f.clientLinks.On("FindByPartnerClientID", ctx, f.partnerID, "client-1001").Return(nil, shared.ErrNotFound)

		_, err := f.svc.ResolveCustomer(ctx, f.partnerID, resolveLink(uuid.New()))

		assert.ErrorIs(t, err, shared.ErrClientNotLinked)
	})

	t.Run("rejects an expired disambiguation", func(t *testing.T) {
		f := newClientLinkingFixture(t)

		expired, err := linking.NewPendingClientLink(f.partnerID, f.agentLink.ID, "client-1001",
			linking.ClientProfile{FirstName: "John", LastName: "Smith"}, time.Hour)
		require.NoError(t, err)
		require.NoError(t, expired.Expire())

		f.clientLinks.On("FindByPartnerClientID", ctx, f.partnerID, "client-1001").Return(expired, nil)

		_, err = f.svc.ResolveCustomer(ctx, f.partnerID, resolveLink(uuid.New()))

		assert.ErrorIs(t, err, shared.ErrClientNotLinked)
	})

	t.Run("replays an already-linked client", func(t *testing.T) {
		f := newClientLinkingFixture(t)

		accountID := uuid.New()
		linked, err := linking.NewLinkedClientLink(f.partnerID, f.agentLink.ID, "client-1001",
			linking.ClientProfile{FirstName: "John", LastName: "Smith"}, accountID, 1.0, linking.LinkMethodCreated)
		require.NoError(t, err)

		f.clientLinks.On("FindByPartnerClientID", ctx, f.partnerID, "client-1001").Return(linked, nil)

		resp, err := f.svc.ResolveCustomer(ctx, f.partnerID, ResolveCustomerRequest{
			PartnerClientID: "client-1001", Action: "create",
		})

		require.NoError(t, err)
		assert.True(t, resp.Linked)
		assert.Equal(t, ActionCreated, resp.Action)
		assert.Equal(t, accountID, *resp.OutfitUserID)
	})

	t.Run("links to a chosen roster account", func(t *testing.T) {
		f := newClientLinkingFixture(t)

		pending, err := linking.NewPendingClientLink(f.partnerID, f.agentLink.ID, "client-1001",
			linking.ClientProfile{FirstName: "John", LastName: "Smith", Email: "john.smith@example.com"}, time.Hour)
		require.NoError(t, err)
		pending.ClearDomainEvents()

		chosen := f.rosterAccount(t, "John", "Smith", "john.smith@example.com")

		f.clientLinks.On("FindByPartnerClientID", ctx, f.partnerID, "client-1001").Return(pending, nil)
		f.agentLinks.On("FindByID", ctx, f.agentLink.ID).Return(f.agentLink, nil)
		f.clientAccounts.On("FindByID", ctx, chosen.ID).Return(&chosen, nil)
		f.clientLinks.On("SaveWithLock", ctx, pending).Return(nil)

		resp, err := f.svc.ResolveCustomer(ctx, f.partnerID, resolveLink(chosen.ID))

		require.NoError(t, err)
		assert.True(t, resp.Linked)
		assert.Equal(t, ActionExisting, resp.Action)
		assert.Equal(t, chosen.ID, *resp.OutfitUserID)
		assert.Equal(t, 1.0, *resp.Confidence, "exact profile match scores full confidence")
		assert.True(t, pending.IsLinked())
		assert.Equal(t, linking.LinkMethodManual, pending.Method)
		assert.Contains(t, f.bus.EventTypes(), linking.EventTypeClientLinked)
	})

	t.Run("rejects an account outside the agent roster", func(t *testing.T) {
		f := newClientLinkingFixture(t)

		pending, err := linking.NewPendingClientLink(f.partnerID, f.agentLink.ID, "client-1001",
			linking.ClientProfile{FirstName: "John", LastName: "Smith"}, time.Hour)
		require.NoError(t, err)

		foreign, err := account.NewClientAccount(uuid.New(), "John", "Smith", "")
		require.NoError(t, err)

		f.clientLinks.On("FindByPartnerClientID", ctx, f.partnerID, "client-1001").Return(pending, nil)
		f.agentLinks.On("FindByID", ctx, f.agentLink.ID).Return(f.agentLink, nil)
		f.clientAccounts.On("FindByID", ctx, foreign.ID).Return(foreign, nil)

		_, err = f.svc.ResolveCustomer(ctx, f.partnerID, resolveLink(foreign.ID))

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "NOT_FOUND", domainErr.Code)
		assert.True(t, pending.IsPending(), "rejected resolve leaves the link pending")
	})

	t.Run("requires outfit_user_id for action link", func(t *testing.T) {
		f := newClientLinkingFixture(t)

		pending, err := linking.NewPendingClientLink(f.partnerID, f.agentLink.ID, "client-1001",
			linking.ClientProfile{FirstName: "John", LastName: "Smith"}, time.Hour)
		require.NoError(t, err)

		f.clientLinks.On("FindByPartnerClientID", ctx, f.partnerID, "client-1001").Return(pending, nil)
		f.agentLinks.On("FindByID", ctx, f.agentLink.ID).Return(f.agentLink, nil)

		_, err = f.svc.ResolveCustomer(ctx, f.partnerID, ResolveCustomerRequest{
			PartnerClientID: "client-1001", Action: "link",
		})

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "VALIDATION_ERROR", domainErr.Code)
	})

	t.Run("creates an account from the profile snapshot", func(t *testing.T) {
		f := newClientLinkingFixture(t)

		pending, err := linking.NewPendingClientLink(f.partnerID, f.agentLink.ID, "client-1001",
			linking.ClientProfile{FirstName: "John", LastName: "Smith", Email: "john.smith@example.com"}, time.Hour)
		require.NoError(t, err)
		pending.ClearDomainEvents()

		f.clientLinks.On("FindByPartnerClientID", ctx, f.partnerID, "client-1001").Return(pending, nil)
		f.agentLinks.On("FindByID", ctx, f.agentLink.ID).Return(f.agentLink, nil)

		var created *account.ClientAccount
		f.clientAccounts.On("Save", ctx, mock.AnythingOfType("*account.ClientAccount")).
			Run(func(args mock.Arguments) { created = args.Get(1).(*account.ClientAccount) }).
			Return(nil)
		f.clientLinks.On("SaveWithLock", ctx, pending).Return(nil)

		resp, err := f.svc.ResolveCustomer(ctx, f.partnerID, ResolveCustomerRequest{
			PartnerClientID: "client-1001", Action: "create",
		})

		require.NoError(t, err)
		assert.Equal(t, ActionCreated, resp.Action)
		require.NotNil(t, created)
		assert.Equal(t, "John", created.FirstName)
		assert.Equal(t, "Smith", created.LastName)
		assert.Equal(t, "john.smith@example.com", created.Email)
		assert.Equal(t, f.agentLink.AgentAccountID, created.AgentAccountID)
		assert.Equal(t, created.ID, *resp.OutfitUserID)
		assert.Equal(t, 1.0, *resp.Confidence)
	})
}

func TestLinkedAction(t *testing.T) {
	assert.Equal(t, ActionCreated, linkedAction(linking.LinkMethodCreated, 1.0))
	assert.Equal(t, ActionExisting, linkedAction(linking.LinkMethodManual, 0.62))
	assert.Equal(t, ActionExisting, linkedAction(linking.LinkMethodAuto, 1.0))
	assert.Equal(t, ActionExisting, linkedAction(linking.LinkMethodAuto, 1.0-1e-12),
		"rounding noise on a perfect score still reports existing")
	assert.Equal(t, ActionAutoLinked, linkedAction(linking.LinkMethodAuto, 0.96))
}
