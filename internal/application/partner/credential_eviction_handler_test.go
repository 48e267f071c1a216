package partner

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/outfit/partner-api/internal/domain/partner"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// recordingCredentialCache records deletes for assertions
type recordingCredentialCache struct {
	mu      sync.Mutex
	deleted []string
	err     error
}

func (c *recordingCredentialCache) Get(ctx context.Context, prefix string) (*partner.VerifiedCredential, error) {
	return nil, nil
}

func (c *recordingCredentialCache) Set(ctx context.Context, prefix string, cred *partner.VerifiedCredential, ttl time.Duration) error {
	return nil
}

func (c *recordingCredentialCache) Delete(ctx context.Context, prefix string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return c.err
	}
	c.deleted = append(c.deleted, prefix)
	return nil
}

func (c *recordingCredentialCache) InvalidateAll(ctx context.Context) error { return nil }

func (c *recordingCredentialCache) Close() error { return nil }

func (c *recordingCredentialCache) Deleted() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, len(c.deleted))
	copy(out, c.deleted)
	return out
}

var _ partner.CredentialCache = (*recordingCredentialCache)(nil)

func TestCredentialEvictionHandler_EventTypes(t *testing.T) {
	handler := NewCredentialEvictionHandler(&recordingCredentialCache{}, zap.NewNop())

	types := handler.EventTypes()

	assert.Contains(t, types, partner.EventTypePartnerAPIKeyRotated)
	assert.Contains(t, types, partner.EventTypePartnerStatusChanged)
}

func TestCredentialEvictionHandler_Handle_KeyRotated_EvictsBothPrefixes(t *testing.T) {
	cache := &recordingCredentialCache{}
	handler := NewCredentialEvictionHandler(cache, zap.NewNop())

	p, _, err := partner.NewPartner("Acme Travel", "ops@acme.example.com")
	require.NoError(t, err)
	oldPrefix := p.APIKeyPrefix
	_, err = p.RotateAPIKey()
	require.NoError(t, err)

	event := partner.NewPartnerAPIKeyRotatedEvent(p, oldPrefix)

	err = handler.Handle(context.Background(), event)

	require.NoError(t, err)
	deleted := cache.Deleted()
	assert.Contains(t, deleted, oldPrefix)
	assert.Contains(t, deleted, p.APIKeyPrefix)
}

func TestCredentialEvictionHandler_Handle_StatusChanged_EvictsCurrentPrefix(t *testing.T) {
	cache := &recordingCredentialCache{}
	handler := NewCredentialEvictionHandler(cache, zap.NewNop())

	p, _, err := partner.NewPartner("Acme Travel", "ops@acme.example.com")
	require.NoError(t, err)
	require.NoError(t, p.Suspend())

	events := p.GetDomainEvents()
	var statusEvent *partner.PartnerStatusChangedEvent
	for _, e := range events {
		if se, ok := e.(*partner.PartnerStatusChangedEvent); ok {
			statusEvent = se
		}
	}
	require.NotNil(t, statusEvent)

	err = handler.Handle(context.Background(), statusEvent)

	require.NoError(t, err)
	assert.Equal(t, []string{p.APIKeyPrefix}, cache.Deleted())
}

func TestCredentialEvictionHandler_Handle_CacheError_DoesNotFail(t *testing.T) {
	cache := &recordingCredentialCache{err: errors.New("redis down")}
	handler := NewCredentialEvictionHandler(cache, zap.NewNop())

	p, _, err := partner.NewPartner("Acme Travel", "ops@acme.example.com")
	require.NoError(t, err)
	oldPrefix := p.APIKeyPrefix
	_, err = p.RotateAPIKey()
	require.NoError(t, err)

	err = handler.Handle(context.Background(), partner.NewPartnerAPIKeyRotatedEvent(p, oldPrefix))

	// Eviction failures fall back to the cache TTL instead of failing the event
	assert.NoError(t, err)
}
